package mycnf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpgradeConfigRewritesDeprecatedOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my.cnf")
	require.NoError(t, os.WriteFile(path, []byte(
		"[mysqld]\n"+
			"default-character-set = utf8\n"+
			"skip-innodb\n"+
			"port = 3306\n"), 0o644))

	results, err := UpgradeConfig(path, MySQL55Rewriter)
	require.NoError(t, err)
	require.Len(t, results, 1)

	modified := strings.Join(results[0].Modified, "")
	assert.Contains(t, modified, "character-set-server = utf8")
	assert.NotContains(t, modified, "skip-innodb")
	assert.Contains(t, modified, "port = 3306")
}

func TestUpgradeConfigWarnsOnDuplicateOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my.cnf")
	require.NoError(t, os.WriteFile(path, []byte(
		"[mysqld]\nport = 3306\nport = 3307\n"), 0o644))

	results, err := UpgradeConfig(path, MySQL55Rewriter)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotEmpty(t, results[0].Warnings)
	assert.Contains(t, results[0].Warnings[0], "port")
}

func TestUpgradeConfigAllowsMultiValuedOptionDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my.cnf")
	require.NoError(t, os.WriteFile(path, []byte(
		"[mysqld]\nbinlog-do-db = shop\nbinlog-do-db = billing\n"), 0o644))

	results, err := UpgradeConfig(path, MySQL55Rewriter)
	require.NoError(t, err)
	assert.Empty(t, results[0].Warnings)
}

func TestUpgradeConfigPreservesUnrelatedOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my.cnf")
	require.NoError(t, os.WriteFile(path, []byte(
		"[mysqld]\ninnodb-buffer-pool-size = 1G\n"), 0o644))

	results, err := UpgradeConfig(path, MySQL55Rewriter)
	require.NoError(t, err)
	assert.Equal(t, results[0].Original, results[0].Modified)
}
