package mycnf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQL51RewriterDefaultCharacterSet(t *testing.T) {
	lines, ok := MySQL51Rewriter.Rewrite("default-character-set", "utf8", true)
	require.True(t, ok)
	assert.Equal(t, []string{"character-set-server = utf8"}, lines)
}

func TestMySQL51RewriterDropsSkipInnodb(t *testing.T) {
	lines, ok := MySQL51Rewriter.Rewrite("skip-innodb", "", false)
	require.True(t, ok)
	assert.Empty(t, lines)
}

func TestMySQL51RewriterUnknownOptionUntouched(t *testing.T) {
	_, ok := MySQL51Rewriter.Rewrite("innodb-buffer-pool-size", "1G", true)
	assert.False(t, ok)
}

func TestSlowLogRewriteWithValue(t *testing.T) {
	lines, ok := MySQL51Rewriter.Rewrite("log-slow-queries", "/var/log/slow.log", true)
	require.True(t, ok)
	assert.Equal(t, []string{
		"slow-query-log = 1",
		"slow-query-log-file = /var/log/slow.log",
		"log-slow-slave-statements",
	}, lines)
}

func TestSlowLogRewriteWithoutValue(t *testing.T) {
	lines, ok := MySQL51Rewriter.Rewrite("log-slow-queries", "", false)
	require.True(t, ok)
	assert.Equal(t, []string{
		"slow-query-log = 1",
		"log-slow-slave-statements",
	}, lines)
}

func TestInnoDBPluginRewriteStripsBuiltin(t *testing.T) {
	lines, ok := MySQL55Rewriter.Rewrite("plugin-load", "ha_innodb_plugin.so;myplugin=lib.so", true)
	require.True(t, ok)
	assert.Equal(t, []string{"plugin-load = myplugin=lib.so"}, lines)
}

func TestInnoDBPluginRewriteDropsWhenOnlyInnodb(t *testing.T) {
	lines, ok := MySQL55Rewriter.Rewrite("plugin-load", "ha_innodb_plugin.so", true)
	require.True(t, ok)
	assert.Empty(t, lines)
}

func TestMySQL55InheritsMySQL51Rules(t *testing.T) {
	_, ok := MySQL55Rewriter.Rewrite("default-collation", "utf8_general_ci", true)
	assert.True(t, ok)
}

func TestRewriterFor(t *testing.T) {
	r, ok := RewriterFor("5.7")
	require.True(t, ok)
	assert.Same(t, MySQL57Rewriter, r)

	_, ok = RewriterFor("9.9")
	assert.False(t, ok)
}
