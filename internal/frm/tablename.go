package frm

import (
	"strconv"
	"strings"
)

// tableNameSafe mirrors MySQL's is_ident_char-style safe set for the part
// of filename_to_tablename/tablename_to_filename that decides which bytes
// need escaping: ASCII letters, digits, and underscore pass through
// untouched; everything else (including '.', which would collide with a
// path separator or extension) is escaped.
func tableNameSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return false
}

// EncodeTableName converts a table name into its on-disk filename form,
// escaping every code point outside [A-Za-z0-9_] as "@" followed by
// exactly 4 lowercase hex digits of the Unicode code point, e.g. a space
// becomes "@0020" and "é" becomes "@00e9". DecodeTableName inverts it, so
// the pair round-trips every string whose code points are all at or below
// U+FFFF; a code point above U+FFFF is written with more than 4 hex
// digits and does not decode back to itself.
func EncodeTableName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if tableNameSafe(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('@')
		hex := strconv.FormatInt(int64(r), 16)
		for i := len(hex); i < 4; i++ {
			b.WriteByte('0')
		}
		b.WriteString(hex)
	}
	return b.String()
}

// DecodeTableName converts an on-disk filename back into a table name,
// unescaping "@xxxx" 4-hex-digit runs produced by EncodeTableName. A
// literal "@" not followed by 4 valid hex digits passes through
// unmodified, matching the original implementation's lenient behavior
// toward filenames it didn't itself produce.
func DecodeTableName(filename string) string {
	var b strings.Builder
	runes := []rune(filename)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '@' && i+4 < len(runes) {
			if cp, ok := parseHex4(runes[i+1 : i+5]); ok {
				b.WriteRune(rune(cp))
				i += 4
				continue
			}
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

func parseHex4(digits []rune) (int64, bool) {
	if len(digits) != 4 {
		return 0, false
	}
	v, err := strconv.ParseInt(string(digits), 16, 32)
	if err != nil {
		return 0, false
	}
	return v, true
}
