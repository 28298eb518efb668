// Package sandbox defines the interfaces a MySQL "sandbox" provisioner
// consumes from the rest of dbsake. The provisioning workflow itself
// (downloading a MySQL tarball, running mysqld --bootstrap, writing
// init/start scripts) is shell-script orchestration over subprocesses
// and is out of scope here; only the seams it needs from the FRM
// decoder and the unpack engine are modeled.
package sandbox

import (
	"errors"
	"io"

	"dbsake/internal/frm"
	"dbsake/internal/unpack"
)

// TableDecoder is the subset of internal/frm a sandbox uses to preload
// a datadir from .frm files before first start.
type TableDecoder interface {
	Decode(path string) (*frm.Decoded, error)
}

// ArchiveUnpacker is the subset of internal/unpack a sandbox uses to
// seed its private datadir from a tar or xbstream archive.
type ArchiveUnpacker interface {
	Run(r io.Reader, opts unpack.Options) error
}

// ErrNotImplemented is returned by Provisioner implementations in this
// build; real sandbox provisioning ships separately.
var ErrNotImplemented = errors.New("sandbox provisioning is not implemented by this build")

// Spec describes the MySQL distribution and datadir a sandbox should
// be provisioned with.
type Spec struct {
	Distribution string // e.g. "mysql-8.0.39-linux-glibc2.28-x86_64"
	BaseDir      string // private directory the instance lives under
	DataSource   io.Reader
	Port         int
}

// Instance is a provisioned, running sandbox server.
type Instance struct {
	BaseDir string
	Port    int
	Socket  string
}

// Provisioner provisions and tears down sandbox instances.
type Provisioner interface {
	Provision(spec Spec) (*Instance, error)
	Stop(inst *Instance) error
}

// NoopProvisioner is the stub Provisioner wired into the CLI; every
// method returns ErrNotImplemented.
type NoopProvisioner struct{}

func (NoopProvisioner) Provision(Spec) (*Instance, error) { return nil, ErrNotImplemented }
func (NoopProvisioner) Stop(*Instance) error              { return ErrNotImplemented }
