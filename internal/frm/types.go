package frm

// MySQLVersion is the packed server version stamped into a .frm header,
// e.g. 50723 for 5.7.23.
type MySQLVersion uint32

// Major, Minor, and Patch decompose the packed version number.
func (v MySQLVersion) Major() int { return int(v) / 10000 }
func (v MySQLVersion) Minor() int { return (int(v) / 100) % 100 }
func (v MySQLVersion) Patch() int { return int(v) % 100 }

// AtLeast reports whether v is >= the given major.minor.
func (v MySQLVersion) AtLeast(major, minor int) bool {
	if v.Major() != major {
		return v.Major() > major
	}
	return v.Minor() >= minor
}

// Column is one decoded column of a binary .frm's field metadata block.
type Column struct {
	Name          string
	Type          MySQLType
	Flags         FieldFlag
	Utype         Utype
	Length        int
	Decimals      int
	CharsetID     uint16
	Unsigned      bool
	Nullable      bool
	AutoIncrement bool
	OnUpdateNow   bool
	Default       *ColumnDefault
	EnumValues    []string
	GeometryType  GeometryType
	isGeometry    bool

	// rawTypeCode preserves the on-disk numeric type id for the
	// -t/--type-codes debug view (§ SUPPLEMENTED FEATURES).
	rawTypeCode MySQLType
}

// TypeCode returns the raw on-disk MYSQL_TYPE_* name, independent of the
// formatted SQL type name TypeName() produces.
func (c *Column) TypeCode() string {
	return c.rawTypeCode.Name()
}

// ColumnDefault is a decoded DEFAULT value. Exactly one of the typed
// fields is meaningful, selected by Kind.
type ColumnDefault struct {
	Kind    DefaultKind
	Text    string
	IsNull  bool
	RawBits []byte
}

// DefaultKind discriminates the decoded representation a ColumnDefault
// carries, replacing the dynamic unpack_type_<name> dispatch of the
// original implementation with a single tagged-variant type switch
// (defaults.go's unpackDefault).
type DefaultKind int

const (
	DefaultKindNone DefaultKind = iota
	DefaultKindText
	DefaultKindNull
)

// KeyPart is one column reference within a Key, including its prefix
// length (for prefix indexes) and sort order.
type KeyPart struct {
	Column     string
	Length     int
	Descending bool
}

// Key is one decoded index/constraint from the keyinfo block.
type Key struct {
	Name        string
	Parts       []KeyPart
	Unique      bool
	Primary     bool
	Algorithm   KeyAlgorithm
	Comment     string
	BlockSize   int
	Parser      string
	visibleFlag bool
}

// Table is the fully decoded form of a binary .frm file: everything
// needed to render a CREATE TABLE statement.
type Table struct {
	Name          string
	Engine        string
	Columns       []Column
	Keys          []Key
	Options       TableOptions
	MinRows       uint64
	MaxRows       uint64
	AvgRowLength  uint32
	KeyBlockSize  uint32
	Comment       string
	Connection    string
	PartitionInfo string
	ServerVersion MySQLVersion
	Collation     Charset
}

// TableOptions holds the HANDLER_OPTIONS-derived and header-level table
// options in the tri-state shape MySQL itself uses: -1/0/1 for "unset by
// server default / explicitly off / explicitly on".
type TableOptions struct {
	PackKeys        int
	Checksum        bool
	DelayKeyWrite   bool
	StatsPersistent int
	RowFormat       RowFormat
}

// Attributes renders the table-level options as an ordered slice of
// "KEY=VALUE" fragments, in the fixed order CREATE TABLE option clauses
// conventionally appear in (ENGINE, DEFAULT CHARSET,
// COLLATE, MIN/MAX_ROWS, AVG_ROW_LENGTH, ROW_FORMAT, KEY_BLOCK_SIZE,
// PACK_KEYS, CHECKSUM, DELAY_KEY_WRITE, STATS_PERSISTENT, COMMENT,
// CONNECTION), mirroring the ordered-builder pattern used for quoting
// identifiers and rendering table options in the teacher's dialect
// package. Zero/unset values are omitted.
func (t *Table) Attributes() []string {
	var attrs []string
	add := func(s string) { attrs = append(attrs, s) }

	if t.Engine != "" {
		add("ENGINE=" + t.Engine)
	}
	if t.Collation.Name != "" {
		add("DEFAULT CHARSET=" + t.Collation.Name)
		if t.Collation.Collation != "" && !t.Collation.IsDefault {
			add("COLLATE=" + t.Collation.Collation)
		}
	}
	if t.MinRows > 0 {
		add("MIN_ROWS=" + itoa64(t.MinRows))
	}
	if t.MaxRows > 0 {
		add("MAX_ROWS=" + itoa64(t.MaxRows))
	}
	if t.AvgRowLength > 0 {
		add("AVG_ROW_LENGTH=" + itoa64(uint64(t.AvgRowLength)))
	}
	if t.Options.RowFormat != RowFormatDefault {
		add("ROW_FORMAT=" + t.Options.RowFormat.Name())
	}
	if t.KeyBlockSize > 0 {
		add("KEY_BLOCK_SIZE=" + itoa64(uint64(t.KeyBlockSize)))
	}
	if t.Options.PackKeys >= 0 {
		add("PACK_KEYS=" + itoa64(uint64(t.Options.PackKeys)))
	}
	if t.Options.Checksum {
		add("CHECKSUM=1")
	}
	if t.Options.DelayKeyWrite {
		add("DELAY_KEY_WRITE=1")
	}
	if t.Options.StatsPersistent >= 0 {
		add("STATS_PERSISTENT=" + itoa64(uint64(t.Options.StatsPersistent)))
	}
	if t.Comment != "" {
		add("COMMENT=" + quoteSQLString(t.Comment))
	}
	if t.Connection != "" {
		add("CONNECTION=" + quoteSQLString(t.Connection))
	}
	return attrs
}

func itoa64(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// Definer is the decoded DEFINER clause of a view: the original
// implementation stores user and host as a tuple rather than a single
// formatted string, so CLI/template consumers can re-quote each
// independently (§ SUPPLEMENTED FEATURES).
type Definer struct {
	User string
	Host string
}

// String renders the definer as `user`@`host`.
func (d Definer) String() string {
	return "`" + d.User + "`@`" + d.Host + "`"
}

// View is the fully decoded form of a plaintext view .frm file.
type View struct {
	Name         string
	Query        string
	MD5          string
	StoredMD5    string
	Definer      Definer
	Algorithm    string
	Security     string
	CheckOption  string
	ColumnNames  []string
	Charset      string
	ClientCS     string
	ConnectionCL string
	ViewCL       string
}
