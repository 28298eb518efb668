package compression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtensionFromCommand(t *testing.T) {
	assert.Equal(t, ".gz", Extension("pigz -6"))
	assert.Equal(t, ".gz", Extension("gzip"))
	assert.Equal(t, ".bz2", Extension("pbzip2 -p4"))
	assert.Equal(t, ".xz", Extension("/usr/bin/xz -9"))
	assert.Equal(t, "", Extension(""))
	assert.Equal(t, "", Extension("unknown-tool"))
}

func TestResolveCommandUnknownExtension(t *testing.T) {
	_, err := ResolveCommand(".zzz")
	assert.Error(t, err)
}
