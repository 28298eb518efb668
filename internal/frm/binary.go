package frm

import (
	"strconv"

	"dbsake/internal/bytereader"
	"dbsake/internal/dbserr"
)

// Binary .frm layout offsets, named after the fields they hold rather
// than their historical MySQL source variable names. The header is a
// fixed 64 bytes; forminfo is a fixed 288-byte block immediately after.
const (
	offMagic         = 0x00 // 2 bytes: 0xFE 0x01/0x02/0x03
	offFrmVersion    = 0x02 // 1 byte
	offLegacyDBType  = 0x03 // 1 byte
	offNamesLength   = 0x04 // 2 bytes: size of the NUL-separated column-names block
	offIOSize        = 0x06 // 2 bytes, unused
	offMinRows       = 0x08 // 4 bytes
	offMaxRows       = 0x0C // 4 bytes
	offHandlerOption = 0x10 // 2 bytes: HA_OPTION_* bitset
	offAvgRowLength  = 0x12 // 4 bytes
	offRowType       = 0x16 // 1 byte
	offKeyInfoLength = 0x18 // 4 bytes: length of the keyinfo block
	offMySQLVersion  = 0x1C // 4 bytes
	offCharsetID     = 0x20 // 2 bytes: table default charset/collation id
	offExtraInfoLen  = 0x22 // 2 bytes
	offDefaultsLen   = 0x24 // 2 bytes
	offKeyBlockSize  = 0x26 // 2 bytes

	headerLength    = 64
	forminfoLength  = 288
	forminfoOffset  = headerLength
	bytesPerField   = 17
	fieldNamesStart = forminfoOffset + forminfoLength
)

// DecodeBinary parses a raw binary .frm buffer (magic 0xFE followed by a
// version byte) into a Table. path is carried only for error messages.
func DecodeBinary(path string, buf []byte) (*Table, error) {
	r := bytereader.New(path, buf)

	magic, err := r.At(0, 2)
	if err != nil {
		return nil, &dbserr.FrmParseError{Path: path, Offset: 0, Err: err}
	}
	if magic[0] != 0xFE || (magic[1] != 1 && magic[1] != 2 && magic[1] != 3) {
		return nil, &dbserr.InvalidFormat{Path: path, Reason: "missing binary frm magic (0xFE 0x01-0x03)"}
	}

	t := &Table{}

	legacyType, err := readU8At(r, offLegacyDBType, path)
	if err != nil {
		return nil, err
	}
	t.Engine = LegacyDBType(legacyType).Name()

	handlerOpt, err := readU16At(r, offHandlerOption, path)
	if err != nil {
		return nil, err
	}
	ho := HandlerOptions(handlerOpt)
	t.Options.Checksum = ho.Checksum()
	t.Options.DelayKeyWrite = ho.DelayKeyWrite()
	t.Options.PackKeys = ho.PackKeys()
	t.Options.StatsPersistent = ho.StatsPersistent()

	rowType, err := readU8At(r, offRowType, path)
	if err != nil {
		return nil, err
	}
	t.Options.RowFormat = RowFormat(rowType)

	minRows, err := readU32At(r, offMinRows, path)
	if err != nil {
		return nil, err
	}
	t.MinRows = uint64(minRows)

	maxRows, err := readU32At(r, offMaxRows, path)
	if err != nil {
		return nil, err
	}
	t.MaxRows = uint64(maxRows)

	avgRowLen, err := readU32At(r, offAvgRowLength, path)
	if err != nil {
		return nil, err
	}
	t.AvgRowLength = avgRowLen

	keyBlockSize, err := readU16At(r, offKeyBlockSize, path)
	if err != nil {
		return nil, err
	}
	t.KeyBlockSize = uint32(keyBlockSize)

	version, err := readU32At(r, offMySQLVersion, path)
	if err != nil {
		return nil, err
	}
	t.ServerVersion = MySQLVersion(version)

	charsetID, err := readU16At(r, offCharsetID, path)
	if err != nil {
		return nil, err
	}
	cs, ok := LookupCharset(charsetID)
	if !ok {
		return nil, &dbserr.UnsupportedFeature{Path: path, Reason: "unknown charset id " + strconv.Itoa(int(charsetID))}
	}
	t.Collation = cs

	keyInfoLen, err := readU32At(r, offKeyInfoLength, path)
	if err != nil {
		return nil, err
	}
	defaultsLen, err := readU16At(r, offDefaultsLen, path)
	if err != nil {
		return nil, err
	}
	extraInfoLen, err := readU16At(r, offExtraInfoLen, path)
	if err != nil {
		return nil, err
	}

	namesLen, err := readU16At(r, offNamesLength, path)
	if err != nil {
		return nil, err
	}

	// Column count is derived from the names block: one NUL-terminated
	// name per column, immediately followed by the fixed-width metadata
	// array of the same cardinality.
	namesBlock, err := r.At(fieldNamesStart, int(namesLen))
	if err != nil {
		return nil, &dbserr.FrmParseError{Path: path, Offset: int64(fieldNamesStart), Err: err}
	}
	names := splitNulStrings(namesBlock)

	metaStart := fieldNamesStart + int(namesLen)
	columns := make([]Column, len(names))
	for i, name := range names {
		off := metaStart + i*bytesPerField
		col, err := parseColumnMeta(r, off, path)
		if err != nil {
			return nil, err
		}
		col.Name = name
		columns[i] = col
	}

	defaultsStart := metaStart + len(names)*bytesPerField
	defaultsBuf, err := r.At(defaultsStart, int(defaultsLen))
	if err != nil {
		return nil, &dbserr.FrmParseError{Path: path, Offset: int64(defaultsStart), Err: err}
	}
	if err := applyColumnDefaults(columns, defaultsBuf); err != nil {
		return nil, &dbserr.FrmParseError{Path: path, Offset: int64(defaultsStart), Err: err}
	}
	t.Columns = columns

	keyInfoStart := defaultsStart + int(defaultsLen)
	var keys []Key
	err = r.Scoped(keyInfoStart, func(scoped *bytereader.Reader) error {
		var perr error
		keys, perr = parseKeys(scoped, keyInfoStart+int(keyInfoLen), 0)
		return perr
	})
	if err != nil {
		return nil, &dbserr.FrmParseError{Path: path, Offset: int64(keyInfoStart), Err: err}
	}
	resolveKeyColumns(keys, columns)
	t.Keys = keys

	extraStart := keyInfoStart + int(keyInfoLen)
	if extraInfoLen > 0 {
		extra, err := r.At(extraStart, int(extraInfoLen))
		if err == nil {
			t.Connection, t.Comment, t.PartitionInfo = parseExtraInfo(extra)
		}
	}

	return t, nil
}

func readU8At(r *bytereader.Reader, off int, path string) (uint8, error) {
	b, err := r.At(off, 1)
	if err != nil {
		return 0, &dbserr.FrmParseError{Path: path, Offset: int64(off), Err: err}
	}
	return b[0], nil
}

func readU16At(r *bytereader.Reader, off int, path string) (uint16, error) {
	var v uint16
	err := r.Scoped(off, func(s *bytereader.Reader) error {
		x, err := s.U16()
		v = x
		return err
	})
	if err != nil {
		return 0, &dbserr.FrmParseError{Path: path, Offset: int64(off), Err: err}
	}
	return v, nil
}

func readU32At(r *bytereader.Reader, off int, path string) (uint32, error) {
	var v uint32
	err := r.Scoped(off, func(s *bytereader.Reader) error {
		x, err := s.U32()
		v = x
		return err
	})
	if err != nil {
		return 0, &dbserr.FrmParseError{Path: path, Offset: int64(off), Err: err}
	}
	return v, nil
}

func splitNulStrings(buf []byte) []string {
	var out []string
	start := 0
	for i, b := range buf {
		if b == 0 {
			if i > start {
				out = append(out, string(buf[start:i]))
			}
			start = i + 1
		}
	}
	return out
}

// parseColumnMeta decodes one 17-byte column metadata record.
func parseColumnMeta(r *bytereader.Reader, off int, path string) (Column, error) {
	var c Column
	raw, err := r.At(off, bytesPerField)
	if err != nil {
		return c, &dbserr.FrmParseError{Path: path, Offset: int64(off), Err: err}
	}
	mr := bytereader.New(path, raw)

	length, _ := mr.U16()
	flagsLow, _ := mr.U16()
	utype, _ := mr.U8()
	typeCode, _ := mr.U8()
	charsetLow, _ := mr.U8()
	geomOrDec, _ := mr.U8()
	flagsHigh, _ := mr.U8()
	charsetHigh, _ := mr.U8()
	_, _ = mr.U8() // interval_nr, resolved separately for enum/set
	nullBit, err := mr.U8()
	if err != nil {
		return c, &dbserr.FrmParseError{Path: path, Offset: int64(off), Err: err}
	}

	c.Length = int(length)
	c.Flags = FieldFlag(uint32(flagsLow) | uint32(flagsHigh)<<16)
	c.Utype = Utype(utype)
	c.rawTypeCode = MySQLType(typeCode)
	c.Type = MySQLType(typeCode)
	c.CharsetID = uint16(charsetLow) | uint16(charsetHigh)<<8
	c.Unsigned = !c.Flags.Decimal()
	c.Nullable = nullBit != 0
	c.Decimals = int(geomOrDec & 0x3F)
	if c.Type == TypeGeometry {
		c.GeometryType = GeometryType(geomOrDec)
		c.isGeometry = true
	}
	c.AutoIncrement = c.Utype == UtypeNextNumber
	c.OnUpdateNow = c.Utype == UtypeTimestampUNField || c.Utype == UtypeTimestampDNUNField

	return c, nil
}

// applyColumnDefaults slices the defaults block into one record per
// column (sized by each column's on-disk width) and decodes each via
// unpackDefault. Columns carrying FieldFlag.NO_DEFAULT never get one.
func applyColumnDefaults(columns []Column, defaultsBuf []byte) error {
	pos := 0
	for i := range columns {
		c := &columns[i]
		if c.Flags.NoDefault() || c.AutoIncrement {
			continue
		}
		width := defaultWidth(c)
		if pos+width > len(defaultsBuf) {
			width = len(defaultsBuf) - pos
			if width <= 0 {
				break
			}
		}
		def, err := unpackDefault(c, defaultsBuf[pos:pos+width])
		if err == nil {
			c.Default = def
		}
		pos += width
	}
	return nil
}

// defaultWidth returns the on-disk byte width of a column's default
// value slot, independent of its display length.
func defaultWidth(c *Column) int {
	switch c.Type {
	case TypeTiny, TypeYear:
		return 1
	case TypeShort:
		return 2
	case TypeInt24, TypeDate, TypeNewDate, TypeTime2:
		return 3
	case TypeLong, TypeFloat, TypeTimestamp, TypeTimestamp2:
		return 4
	case TypeTime:
		return 3
	case TypeDatetime2:
		return 5
	case TypeLonglong, TypeDouble, TypeDatetime:
		return 8
	case TypeNewDecimal:
		intDigits := c.Length - c.Decimals
		return digitsToBytes[intDigits%digPerDec1] + (intDigits/digPerDec1)*4 +
			(c.Decimals/digPerDec1)*4 + digitsToBytes[c.Decimals%digPerDec1]
	case TypeEnum, TypeSet:
		if c.Length <= 1 {
			return 1
		}
		return 2
	case TypeBit:
		return (c.Length + 7) / 8
	default:
		return c.Length
	}
}

// parseExtraInfo decodes the extrainfo block's length-prefixed strings:
// connection string, comment, and partitioning clause, in that order.
func parseExtraInfo(buf []byte) (connection, comment, partition string) {
	r := bytereader.New("", buf)
	if s, err := r.LenPrefixedU16(); err == nil {
		connection = string(s)
	}
	if s, err := r.LenPrefixedU16(); err == nil {
		comment = string(s)
	}
	if s, err := r.LenPrefixedU32(); err == nil {
		partition = string(s)
	}
	return
}
