package mycnf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCnf(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseBasicOptions(t *testing.T) {
	dir := t.TempDir()
	path := writeCnf(t, dir, "my.cnf", `[client]
port = 3307

[mysqld]
port=3306
datadir = /var/lib/mysql
skip-innodb
`)

	files, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	require.Contains(t, f.Entries, "port")
	assert.Equal(t, "3306", f.Entries["port"][0].Value)
	require.Contains(t, f.Entries, "datadir")
	assert.Equal(t, "/var/lib/mysql", f.Entries["datadir"][0].Value)
	require.Contains(t, f.Entries, "skip-innodb")
	assert.False(t, f.Entries["skip-innodb"][0].HasValue)
}

func TestParseIgnoresNonMysqldSections(t *testing.T) {
	dir := t.TempDir()
	path := writeCnf(t, dir, "my.cnf", `[client]
user = root

[mysqld]
user = mysql
`)
	files, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Len(t, files[0].Entries["user"], 1)
	assert.Equal(t, "mysql", files[0].Entries["user"][0].Value)
}

func TestParseIncludeDirective(t *testing.T) {
	dir := t.TempDir()
	extra := writeCnf(t, dir, "extra.cnf", "[mysqld]\nkey-buffer-size = 16M\n")
	main := writeCnf(t, dir, "my.cnf", "[mysqld]\nport = 3306\n!include "+extra+"\n")

	files, err := Parse(main)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, main, files[0].Path)
	assert.Equal(t, extra, files[1].Path)
	assert.Contains(t, files[1].Entries, "key-buffer-size")
}

func TestParseIncludeDirDirective(t *testing.T) {
	dir := t.TempDir()
	confd := filepath.Join(dir, "conf.d")
	require.NoError(t, os.Mkdir(confd, 0o755))
	writeCnf(t, confd, "extra.cnf", "[mysqld]\nlog-bin = mysql-bin\n")
	main := writeCnf(t, dir, "my.cnf", "[mysqld]\n!includedir "+confd+"\n")

	files, err := Parse(main)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Contains(t, files[1].Entries, "log-bin")
}

func TestSanitizeSetVariable(t *testing.T) {
	assert.Equal(t, "key_buffer = 16M\n", sanitizeSetVariable("set-variable = key_buffer = 16M\n"))
	assert.Equal(t, "port = 3306", sanitizeSetVariable("port = 3306"))
}

func TestRemoveInlineComment(t *testing.T) {
	value, comment := removeInlineComment(`"quoted # not a comment" # real comment`)
	assert.Equal(t, `"quoted # not a comment" `, value)
	assert.Equal(t, "# real comment", comment)
}

func TestResolveOptionAmbiguous(t *testing.T) {
	_, err := resolveOption("p")
	assert.Error(t, err)

	full, err := resolveOption("pass")
	require.NoError(t, err)
	assert.Equal(t, "password", full)
}

func TestParseOptionUnderscoreNormalized(t *testing.T) {
	dir := t.TempDir()
	path := writeCnf(t, dir, "my.cnf", "[mysqld]\nmax_connections = 500\n")
	files, err := Parse(path)
	require.NoError(t, err)
	require.Contains(t, files[0].Entries, "max-connections")
}
