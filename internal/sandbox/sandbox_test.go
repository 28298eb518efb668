package sandbox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopProvisionerProvisionReturnsNotImplemented(t *testing.T) {
	var p Provisioner = NoopProvisioner{}
	inst, err := p.Provision(Spec{Distribution: "mysql-8.0.39-linux-glibc2.28-x86_64"})
	assert.Nil(t, inst)
	assert.True(t, errors.Is(err, ErrNotImplemented))
}

func TestNoopProvisionerStopReturnsNotImplemented(t *testing.T) {
	var p Provisioner = NoopProvisioner{}
	err := p.Stop(&Instance{BaseDir: "/tmp/sandbox-1"})
	assert.True(t, errors.Is(err, ErrNotImplemented))
}
