package unpack

import (
	"archive/tar"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTar(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name, Mode: 0o644, Size: int64(len(body)),
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func TestQualifiedName(t *testing.T) {
	name, ok := qualifiedName("shop/orders.ibd")
	require.True(t, ok)
	assert.Equal(t, "shop.orders", name)

	_, ok = qualifiedName("shop/db.opt")
	assert.False(t, ok)
}

func TestQualifiedNamePartitioned(t *testing.T) {
	name, ok := qualifiedName("shop/orders#P#p0.ibd")
	require.True(t, ok)
	assert.Equal(t, "shop.orders", name)
}

func TestIsTarArchive(t *testing.T) {
	data := buildTar(t, map[string]string{"shop/orders.frm": "x"})
	assert.True(t, isTarArchive(data))
	assert.False(t, isTarArchive([]byte("not a tar file at all")))
}

func TestRunUnpacksTarToDestination(t *testing.T) {
	data := buildTar(t, map[string]string{
		"shop/orders.frm": "frm-data",
		"shop/db.opt":     "default-character-set=utf8",
	})
	dir := t.TempDir()

	err := Run(bytes.NewReader(data), Options{Destination: dir})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "shop", "orders.frm"))
	require.NoError(t, err)
	assert.Equal(t, "frm-data", string(content))
}

func TestRunExcludesFilteredTables(t *testing.T) {
	data := buildTar(t, map[string]string{
		"shop/orders.frm":  "orders",
		"shop/secrets.frm": "secrets",
	})
	dir := t.TempDir()

	err := Run(bytes.NewReader(data), Options{
		Destination:   dir,
		ExcludeTables: []string{"shop.secrets"},
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "shop", "orders.frm"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "shop", "secrets.frm"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunListOnlyDoesNotExtract(t *testing.T) {
	data := buildTar(t, map[string]string{"shop/orders.frm": "orders"})
	dir := t.TempDir()

	var seen []string
	err := Run(bytes.NewReader(data), Options{
		Destination: dir,
		ListOnly:    true,
		OnPath:      func(path string) { seen = append(seen, path) },
	})
	require.NoError(t, err)
	assert.Contains(t, seen, "shop/orders.frm")

	_, err = os.Stat(filepath.Join(dir, "shop", "orders.frm"))
	assert.True(t, os.IsNotExist(err))
}

func buildXBSChunk(path string, payload []byte, offset uint64) []byte {
	var buf bytes.Buffer
	buf.Write(xbsMagic)
	buf.WriteByte(0)
	buf.WriteByte('P')
	pathLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(pathLen, uint32(len(path)))
	buf.Write(pathLen)
	buf.WriteString(path)

	lenOff := make([]byte, 16)
	binary.LittleEndian.PutUint64(lenOff[0:8], uint64(len(payload)))
	binary.LittleEndian.PutUint64(lenOff[8:16], offset)
	buf.Write(lenOff)

	checksum := make([]byte, 4)
	binary.LittleEndian.PutUint32(checksum, crc32.ChecksumIEEE(payload))
	buf.Write(checksum)
	buf.Write(payload)
	return buf.Bytes()
}

func buildXBSEnd(path string) []byte {
	var buf bytes.Buffer
	buf.Write(xbsMagic)
	buf.WriteByte(0)
	buf.WriteByte('E')
	pathLen := make([]byte, 4)
	binary.LittleEndian.PutUint32(pathLen, uint32(len(path)))
	buf.Write(pathLen)
	buf.WriteString(path)
	return buf.Bytes()
}

func TestIsXBStream(t *testing.T) {
	assert.True(t, isXBStream(append([]byte{}, xbsMagic...)))
	assert.False(t, isXBStream([]byte("PK\x03\x04")))
}

func TestRunUnpacksXBStream(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(buildXBSChunk("shop/orders.ibd", []byte("ibd-payload"), 0))
	stream.Write(buildXBSEnd("shop/orders.ibd"))

	dir := t.TempDir()
	err := Run(&stream, Options{Destination: dir})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "shop", "orders.ibd"))
	require.NoError(t, err)
	assert.Equal(t, "ibd-payload", string(content))
}

func TestReadXBSChunkDetectsChecksumMismatch(t *testing.T) {
	chunk := buildXBSChunk("shop/orders.ibd", []byte("data"), 0)
	chunk[len(chunk)-1] ^= 0xff // corrupt last payload byte after checksum was computed

	_, err := readXBSChunk(bytes.NewReader(chunk))
	require.Error(t, err)
}

func TestProgressReporting(t *testing.T) {
	data := buildTar(t, map[string]string{"shop/orders.frm": "orders"})
	dir := t.TempDir()

	var lastSofar int64
	err := Run(bytes.NewReader(data), Options{
		Destination: dir,
		TotalSize:   int64(len(data)),
		Progress:    func(sofar, total int64) { lastSofar = sofar },
	})
	require.NoError(t, err)
	assert.Greater(t, lastSofar, int64(0))
}
