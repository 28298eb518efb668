package fsutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellQuoteSafeValuePassesThrough(t *testing.T) {
	assert.Equal(t, "hello-world_1.2", ShellQuote("hello-world_1.2"))
}

func TestShellQuoteEmpty(t *testing.T) {
	assert.Equal(t, "''", ShellQuote(""))
}

func TestShellQuoteUnsafeValue(t *testing.T) {
	assert.Equal(t, `'*.sql'`, ShellQuote("*.sql"))
}

func TestShellQuoteAlreadySingleQuoted(t *testing.T) {
	assert.Equal(t, `"'say \"hi\"'"`, ShellQuote(`'say "hi"'`))
}

func TestShellQuoteEmbeddedSingleQuote(t *testing.T) {
	assert.Equal(t, `'it'"'"'s broken'`, ShellQuote(`it's broken`))
}

func TestGlobFilterExcludeWins(t *testing.T) {
	f := GlobFilter{Include: []string{"shop.*"}, Exclude: []string{"shop.secrets"}}
	assert.False(t, f.Excluded("shop.orders"))
	assert.True(t, f.Excluded("shop.secrets"))
	assert.True(t, f.Excluded("billing.invoices"))
}

func TestGlobFilterNoIncludeMeansIncludeAll(t *testing.T) {
	f := GlobFilter{Exclude: []string{"shop.secrets"}}
	assert.False(t, f.Excluded("shop.orders"))
	assert.True(t, f.Excluded("shop.secrets"))
}
