package frm

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"dbsake/internal/dbserr"
)

// Decoded is the result of decoding one .frm file: exactly one of Table
// or View is set, selected by the file's magic bytes.
type Decoded struct {
	Table *Table
	View  *View
}

// Decode reads path and dispatches to DecodeBinary or DecodeView based
// on its magic bytes: a leading 0xFE signals a binary table .frm; a
// leading "TYPE=VIEW" signals a plaintext view .frm. Anything else is
// an InvalidFormat.
func Decode(path string) (*Decoded, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, &dbserr.IoError{Path: path, Err: err}
	}
	return DecodeBytes(path, buf)
}

// DecodeBytes is Decode's in-memory counterpart, for callers (such as the
// tests) that already hold the file's contents. The table or view name is
// path's base name with the .frm extension removed and filename escapes
// decoded.
func DecodeBytes(path string, buf []byte) (*Decoded, error) {
	name := DecodeTableName(strings.TrimSuffix(filepath.Base(path), ".frm"))
	switch {
	case len(buf) >= 2 && buf[0] == 0xFE && (buf[1] == 1 || buf[1] == 2 || buf[1] == 3):
		t, err := DecodeBinary(path, buf)
		if err != nil {
			return nil, err
		}
		t.Name = name
		return &Decoded{Table: t}, nil
	case bytes.HasPrefix(buf, []byte(viewMagic)):
		v, err := DecodeView(path, buf)
		if err != nil {
			return nil, err
		}
		v.Name = name
		return &Decoded{View: v}, nil
	default:
		return nil, &dbserr.InvalidFormat{Path: path, Reason: "not a recognized .frm file (expected binary table or TYPE=VIEW header)"}
	}
}

// SQL renders whichever of Table/View is set as its CREATE statement.
func (d *Decoded) SQL() string {
	if d.Table != nil {
		return d.Table.CreateTableSQL()
	}
	if d.View != nil {
		return d.View.CreateViewSQL()
	}
	return ""
}
