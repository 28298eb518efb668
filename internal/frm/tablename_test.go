package frm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeTableNameEscapesUnsafeChars(t *testing.T) {
	assert.Equal(t, "my@0020table", EncodeTableName("my table"))
	assert.Equal(t, "caf@00e9", EncodeTableName("café"))
	assert.Equal(t, "plain_name123", EncodeTableName("plain_name123"))
}

func TestDecodeTableNameReversesEncode(t *testing.T) {
	assert.Equal(t, "my table", DecodeTableName("my@0020table"))
	assert.Equal(t, "café", DecodeTableName("caf@00e9"))
}

func TestTableNameRoundTrip(t *testing.T) {
	names := []string{"orders", "my table", "café-menu", "a@b", "日本語", ""}
	for _, name := range names {
		encoded := EncodeTableName(name)
		assert.Equal(t, name, DecodeTableName(encoded), "round trip failed for %q", name)
	}
}

func TestDecodeTableNamePassesThroughBareAt(t *testing.T) {
	assert.Equal(t, "a@b", DecodeTableName("a@b"))
}
