package frm

import (
	"fmt"

	"dbsake/internal/bytereader"
)

// parseKeys decodes the keyinfo block starting at the cursor's current
// position. keyCount/extraCount/keyparts follow the original's
// key-count "extended" encoding: a first byte of 0x80 signals the real
// count is packed as a following u16 rather than fitting in the single
// byte (needed once a table has more than 127 keys).
func parseKeys(r *bytereader.Reader, extraOffset int, extraLen int) ([]Key, error) {
	firstByte, err := r.U8()
	if err != nil {
		return nil, err
	}

	var keyCount int
	if firstByte == 0x80 {
		n, err := r.U16()
		if err != nil {
			return nil, err
		}
		keyCount = int(n)
		if _, err := r.U8(); err != nil { // skip key_parts shadow byte
			return nil, err
		}
	} else {
		keyCount = int(firstByte)
	}

	keyExtraLen, err := r.U16()
	if err != nil {
		return nil, err
	}
	_ = keyExtraLen

	keys := make([]Key, keyCount)
	for i := 0; i < keyCount; i++ {
		flags, err := r.U16()
		if err != nil {
			return nil, err
		}
		keyLength, err := r.U16()
		if err != nil {
			return nil, err
		}
		partCount, err := r.U8()
		if err != nil {
			return nil, err
		}
		algo, err := r.U8()
		if err != nil {
			return nil, err
		}
		_, err = r.U16() // block_length / flags continuation, engine-specific
		if err != nil {
			return nil, err
		}

		k := &keys[i]
		k.Unique = flags&haNoSame != 0
		k.Primary = false // decided by caller once column names are known
		k.Algorithm = keyAlgorithmFromFlags(flags, KeyAlgorithm(algo))
		k.Parts = make([]KeyPart, partCount)
		_ = keyLength

		for p := 0; p < int(partCount); p++ {
			fieldnr, err := r.U16()
			if err != nil {
				return nil, err
			}
			_, err = r.U16() // key_part.offset, unused once column names resolved
			if err != nil {
				return nil, err
			}
			partLength, err := r.U16()
			if err != nil {
				return nil, err
			}
			desc := fieldnr&0x8000 != 0
			k.Parts[p] = KeyPart{
				Column:     fmt.Sprintf("#%d", fieldnr&0x3FFF),
				Length:     int(partLength),
				Descending: desc,
			}
		}
	}

	if extraLen > 0 {
		extra, err := r.At(extraOffset, extraLen)
		if err != nil {
			return nil, err
		}
		applyKeyExtraInfo(keys, extra)
	}

	return keys, nil
}

func keyAlgorithmFromFlags(flags uint16, stored KeyAlgorithm) KeyAlgorithm {
	switch {
	case flags&haFulltext != 0:
		return KeyAlgFulltext
	case flags&haSpatial != 0:
		return KeyAlgRTree
	case stored != KeyAlgUndef:
		return stored
	default:
		return KeyAlgBTree
	}
}

// applyKeyExtraInfo walks the key-extra-info blob (names, then
// comments), a sequence of NUL-terminated or length-prefixed strings
// located immediately after the fixed-width key/keypart arrays, and
// assigns each key its Name and Comment.
func applyKeyExtraInfo(keys []Key, extra []byte) {
	r := bytereader.New("", extra)
	for i := range keys {
		name, err := r.NulString()
		if err != nil {
			return
		}
		keys[i].Name = string(name)
	}
	for i := range keys {
		if r.Pos() >= r.Len() {
			return
		}
		n, err := r.U16()
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		c, err := r.Bytes(int(n))
		if err != nil {
			return
		}
		keys[i].Comment = string(c)
	}
}

// resolveKeyColumns replaces each KeyPart's placeholder "#N" column
// reference with the real column name at index N, and marks a key named
// PRIMARY as the primary key.
func resolveKeyColumns(keys []Key, columns []Column) {
	for ki := range keys {
		for pi := range keys[ki].Parts {
			var idx int
			fmt.Sscanf(keys[ki].Parts[pi].Column, "#%d", &idx)
			if idx >= 0 && idx < len(columns) {
				keys[ki].Parts[pi].Column = columns[idx].Name
			}
		}
		if keys[ki].Name == "PRIMARY" {
			keys[ki].Primary = true
		}
	}
}
