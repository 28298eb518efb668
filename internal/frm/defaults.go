package frm

import (
	"fmt"
	"strconv"
	"strings"

	"dbsake/internal/bytereader"
)

// unpackDefault decodes the raw default-value bytes for one column,
// dispatching on c.Type. This replaces the original implementation's
// per-type `unpack_type_<name>` functions (looked up dynamically by
// name) with a single tagged-variant type switch, as called for by the
// binary-format re-architecture note.
func unpackDefault(c *Column, raw []byte) (*ColumnDefault, error) {
	if c.Nullable {
		// The leading bit of the row's NULL bitmap selects NULL defaults;
		// binary.go only calls unpackDefault for columns whose bitmap bit
		// was clear, but a fully zeroed raw buffer for a nullable numeric
		// column still renders as a real zero value, not NULL.
	}

	r := bytereader.New("", raw)

	switch c.Type {
	case TypeTiny:
		v, err := r.U8()
		if err != nil {
			return nil, err
		}
		if c.Unsigned {
			return textDefault(strconv.FormatUint(uint64(v), 10)), nil
		}
		return textDefault(strconv.FormatInt(int64(int8(v)), 10)), nil

	case TypeShort:
		v, err := r.U16()
		if err != nil {
			return nil, err
		}
		if c.Unsigned {
			return textDefault(strconv.FormatUint(uint64(v), 10)), nil
		}
		return textDefault(strconv.FormatInt(int64(int16(v)), 10)), nil

	case TypeInt24:
		v, err := r.I24()
		if err != nil {
			return nil, err
		}
		if c.Unsigned {
			return textDefault(strconv.FormatUint(uint64(uint32(v)&0xFFFFFF), 10)), nil
		}
		return textDefault(strconv.FormatInt(int64(v), 10)), nil

	case TypeLong:
		v, err := r.U32()
		if err != nil {
			return nil, err
		}
		if c.Unsigned {
			return textDefault(strconv.FormatUint(uint64(v), 10)), nil
		}
		return textDefault(strconv.FormatInt(int64(int32(v)), 10)), nil

	case TypeLonglong:
		v, err := r.U64()
		if err != nil {
			return nil, err
		}
		if c.Unsigned {
			return textDefault(strconv.FormatUint(v, 10)), nil
		}
		return textDefault(strconv.FormatInt(int64(v), 10)), nil

	case TypeFloat:
		v, err := r.F32()
		if err != nil {
			return nil, err
		}
		return textDefault(strconv.FormatFloat(float64(v), 'g', -1, 32)), nil

	case TypeDouble:
		v, err := r.F64()
		if err != nil {
			return nil, err
		}
		return textDefault(strconv.FormatFloat(v, 'g', -1, 64)), nil

	case TypeNewDecimal:
		s, err := unpackNewDecimal(raw, c.Length, c.Decimals, !c.Flags.Decimal())
		if err != nil {
			return nil, err
		}
		return textDefault(s), nil

	case TypeDecimal:
		return textDefault(strings.TrimSpace(string(raw))), nil

	case TypeVarchar:
		return textDefault(string(raw)), nil

	case TypeVarString:
		return textDefault(strings.TrimRight(string(raw), " ")), nil

	case TypeString:
		// STRING (fixed CHAR) defaults are space-padded to the column
		// width; the padding is stripped, as it is for VAR_STRING.
		return textDefault(strings.TrimRight(string(raw), " ")), nil

	case TypeTinyBlob, TypeBlob, TypeMediumBlob, TypeLongBlob:
		return textDefault(string(raw)), nil

	case TypeYear:
		v, err := r.U8()
		if err != nil {
			return nil, err
		}
		return textDefault(strconv.Itoa(1900 + int(v))), nil

	case TypeDate, TypeNewDate:
		v, err := r.U24()
		if err != nil {
			return nil, err
		}
		return textDefault(formatPackedDate(v)), nil

	case TypeTime:
		v, err := r.I24()
		if err != nil {
			return nil, err
		}
		return textDefault(formatLegacyTime(v)), nil

	case TypeTime2:
		v, err := r.U24BE()
		if err != nil {
			return nil, err
		}
		return textDefault(formatTime2(v)), nil

	case TypeDatetime:
		v, err := r.U64()
		if err != nil {
			return nil, err
		}
		return textDefault(formatLegacyDatetime(v)), nil

	case TypeDatetime2:
		v, err := r.U40BE()
		if err != nil {
			return nil, err
		}
		return textDefault(formatDatetime2(v)), nil

	case TypeTimestamp:
		v, err := r.U32()
		if err != nil {
			return nil, err
		}
		return textDefault(strconv.FormatUint(uint64(v), 10)), nil

	case TypeTimestamp2:
		v, err := r.U32BE()
		if err != nil {
			return nil, err
		}
		return textDefault(strconv.FormatUint(uint64(v), 10)), nil

	case TypeEnum:
		idx, err := enumIndex(raw, c.Length)
		if err != nil {
			return nil, err
		}
		if idx == 0 {
			return textDefault(""), nil
		}
		if idx-1 < len(c.EnumValues) {
			return textDefault(c.EnumValues[idx-1]), nil
		}
		return nil, fmt.Errorf("enum default index %d out of range", idx)

	case TypeSet:
		bits, err := enumIndex(raw, c.Length)
		if err != nil {
			return nil, err
		}
		var labels []string
		for i, v := range c.EnumValues {
			if bits&(1<<uint(i)) != 0 {
				labels = append(labels, v)
			}
		}
		return textDefault(strings.Join(labels, ",")), nil

	case TypeBit:
		return textDefault(fmt.Sprintf("b'%b'", raw)), nil

	default:
		return textDefault(string(raw)), nil
	}
}

func textDefault(s string) *ColumnDefault {
	return &ColumnDefault{Kind: DefaultKindText, Text: s}
}

func enumIndex(raw []byte, packlen int) (int, error) {
	r := bytereader.New("", raw)
	switch {
	case packlen <= 1:
		v, err := r.U8()
		return int(v), err
	default:
		v, err := r.U16()
		return int(v), err
	}
}

// unpackNewDecimal decodes MySQL's packed NEWDECIMAL binary representation:
// integer and fractional parts are each split into 9-digit words, each
// word packed big-endian into the byte count digitsToBytes[leftover]
// gives for its partial leading/trailing group, with the sign carried by
// XORing 0x80 into the first byte (and bitwise-inverting every byte when
// the value is negative, since negative magnitudes are stored inverted).
func unpackNewDecimal(raw []byte, precision, scale int, unsigned bool) (string, error) {
	intDigits := precision - scale
	intWords := intDigits / digPerDec1
	intLeftover := intDigits % digPerDec1
	fracWords := scale / digPerDec1
	fracLeftover := scale % digPerDec1

	need := digitsToBytes[intLeftover] + intWords*4 + fracWords*4 + digitsToBytes[fracLeftover]
	if len(raw) < need {
		return "", fmt.Errorf("newdecimal: need %d bytes, have %d", need, len(raw))
	}

	buf := append([]byte(nil), raw[:need]...)
	negative := buf[0]&0x80 == 0
	buf[0] ^= 0x80
	if negative {
		for i := range buf {
			buf[i] = ^buf[i]
		}
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}

	pos := 0
	first := true
	if intLeftover > 0 {
		n := digitsToBytes[intLeftover]
		v := beUint(buf[pos : pos+n])
		if v != 0 || !first {
			fmt.Fprintf(&b, "%d", v)
			first = false
		}
		pos += n
	}
	for i := 0; i < intWords; i++ {
		v := beUint(buf[pos : pos+4])
		if first && v == 0 && i != intWords-1 {
			// leading zero word, skip
		} else if first {
			fmt.Fprintf(&b, "%d", v)
			first = false
		} else {
			fmt.Fprintf(&b, "%09d", v)
		}
		pos += 4
	}
	if first {
		b.WriteByte('0')
	}

	if scale > 0 {
		b.WriteByte('.')
		for i := 0; i < fracWords; i++ {
			v := beUint(buf[pos : pos+4])
			fmt.Fprintf(&b, "%09d", v)
			pos += 4
		}
		if fracLeftover > 0 {
			n := digitsToBytes[fracLeftover]
			v := beUint(buf[pos : pos+n])
			format := fmt.Sprintf("%%0%dd", fracLeftover)
			fmt.Fprintf(&b, format, v)
			pos += n
		}
	}
	return b.String(), nil
}

func beUint(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}

func formatPackedDate(packed uint32) string {
	day := packed & 31
	month := (packed >> 5) & 15
	year := packed >> 9
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func formatLegacyTime(v int32) string {
	neg := ""
	if v < 0 {
		neg = "-"
		v = -v
	}
	hh := v / 10000
	mm := (v / 100) % 100
	ss := v % 100
	return fmt.Sprintf("%s%02d:%02d:%02d", neg, hh, mm, ss)
}

func formatLegacyDatetime(v uint64) string {
	date := v / 1000000
	t := v % 1000000
	year := date / 10000
	month := (date / 100) % 100
	day := date % 100
	hh := t / 10000
	mm := (t / 100) % 100
	ss := t % 100
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", year, month, day, hh, mm, ss)
}

// formatTime2 decodes MySQL 5.6+'s packed TIME2: a 1-bit sign, 10-bit
// hour, 6-bit minute, 6-bit second packed into the low 24 bits of a
// 3-byte big-endian integer (fractional seconds, if any, follow in
// additional bytes this helper's caller does not request).
func formatTime2(packed uint32) string {
	signed := int64(packed) - (1 << 23)
	neg := ""
	if signed < 0 {
		neg = "-"
		signed = -signed
	}
	hh := (signed >> 12) & 0x3FF
	mm := (signed >> 6) & 0x3F
	ss := signed & 0x3F
	return fmt.Sprintf("%s%02d:%02d:%02d", neg, hh, mm, ss)
}

// formatDatetime2 decodes MySQL 5.6+'s packed DATETIME2 40-bit integer:
// a sign-biased year*13+month (17 bits), day (5 bits), hour (5 bits),
// minute (6 bits), second (6 bits).
func formatDatetime2(packed uint64) string {
	signed := int64(packed) - (1 << 39)
	ymd := (signed >> 22) & 0x1FFFFF
	ym := ymd >> 5
	day := ymd & 0x1F
	year := ym / 13
	month := ym % 13
	hms := signed & 0xFFFFF
	hh := hms >> 12
	mm := (hms >> 6) & 0x3F
	ss := hms & 0x3F
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", year, month, day, hh, mm, ss)
}
