package frm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeViewEndToEnd(t *testing.T) {
	// md5sum of "SELECT 1 AS one" is 4ca5ee67225bbf83b9e9ef995a08dfce.
	src := "TYPE=VIEW\n" +
		"query=SELECT 1 AS one\n" +
		"md5=4ca5ee67225bbf83b9e9ef995a08dfce\n" +
		"updatable=0\n" +
		"algorithm=0\n" +
		"definer_user=root\n" +
		"definer_host=localhost\n" +
		"suid=2\n" +
		"with_check_option=0\n" +
		"timestamp=\n" +
		"create-version=1\n" +
		"source=SELECT 1 AS one\n" +
		"client_cs_name=utf8\n" +
		"connection_cl_name=utf8_general_ci\n" +
		"view_body_utf8=SELECT 1 AS one\n" +
		"security_type=definer\n"

	v, err := DecodeView("v.frm", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 AS one", v.Query)
	assert.Equal(t, "root", v.Definer.User)
	assert.Equal(t, "localhost", v.Definer.Host)
	assert.Equal(t, "`root`@`localhost`", v.Definer.String())
	assert.Equal(t, "UNDEFINED", v.Algorithm)
	assert.Equal(t, "DEFINER", v.Security)
	assert.Equal(t, "NONE", v.CheckOption)

	v.Name = "v"
	assert.Equal(t,
		"CREATE ALGORITHM=UNDEFINED DEFINER=`root`@`localhost` SQL SECURITY DEFINER VIEW `v` AS SELECT 1 AS one;",
		v.CreateViewSQL())
}

func TestDecodeViewRejectsMismatchedChecksum(t *testing.T) {
	src := "TYPE=VIEW\nquery=SELECT 2\nmd5=deadbeefdeadbeefdeadbeefdeadbeef\ndefiner_user=root\ndefiner_host=localhost\nalgorithm=0\nsecurity_type=definer\n"
	_, err := DecodeView("bad.frm", []byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestDecodeViewRejectsMissingMagic(t *testing.T) {
	_, err := DecodeView("notview.frm", []byte("not a view file"))
	require.Error(t, err)
}
