package frm

import "strings"

// TypeName renders the SQL type-name text for a column (e.g. "varchar(20)",
// "decimal(10,2)", "enum('a','b')"), replacing the original implementation's
// per-type `format_type_<name>` dynamic dispatch table with a single
// tagged-variant switch over MySQLType.
func (c *Column) TypeName() string {
	switch c.Type {
	case TypeTiny:
		return "tinyint(" + itoa64(uint64(c.Length)) + ")"
	case TypeShort:
		return "smallint(" + itoa64(uint64(c.Length)) + ")"
	case TypeInt24:
		return "mediumint(" + itoa64(uint64(c.Length)) + ")"
	case TypeLong:
		return "int(" + itoa64(uint64(c.Length)) + ")"
	case TypeLonglong:
		return "bigint(" + itoa64(uint64(c.Length)) + ")"
	case TypeFloat:
		return formatFloating("float", c)
	case TypeDouble:
		return formatFloating("double", c)
	case TypeDecimal, TypeNewDecimal:
		return "decimal(" + itoa64(uint64(c.Length)) + "," + itoa64(uint64(c.Decimals)) + ")"
	case TypeVarchar, TypeVarString:
		return "varchar(" + itoa64(uint64(c.Length)) + ")"
	case TypeString:
		return "char(" + itoa64(uint64(c.Length)) + ")"
	case TypeTinyBlob:
		return blobName("tiny", c)
	case TypeBlob:
		return blobName("", c)
	case TypeMediumBlob:
		return blobName("medium", c)
	case TypeLongBlob:
		return blobName("long", c)
	case TypeDate, TypeNewDate:
		return "date"
	case TypeTime, TypeTime2:
		return "time"
	case TypeDatetime, TypeDatetime2:
		return "datetime"
	case TypeTimestamp, TypeTimestamp2:
		return "timestamp"
	case TypeYear:
		return "year(4)"
	case TypeEnum:
		return "enum(" + quoteLabels(c.EnumValues) + ")"
	case TypeSet:
		return "set(" + quoteLabels(c.EnumValues) + ")"
	case TypeBit:
		return "bit(" + itoa64(uint64(c.Length)) + ")"
	case TypeGeometry:
		return c.GeometryType.String()
	case TypeNull:
		return "null"
	default:
		return strings.ToLower(c.Type.Name())
	}
}

func formatFloating(name string, c *Column) string {
	if c.Length > 0 && c.Flags.Decimal() {
		return name + "(" + itoa64(uint64(c.Length)) + "," + itoa64(uint64(c.Decimals)) + ")"
	}
	return name
}

// blobName applies the VARCHAR/TEXT charset distinction: a BLOB-family
// column whose field carries a real (non-binary) charset id is rendered
// as its TEXT sibling instead, matching MySQL's own display convention.
func blobName(prefix string, c *Column) string {
	suffix := "blob"
	if cs, ok := LookupCharset(c.CharsetID); ok && cs.Name != "binary" {
		suffix = "text"
	}
	return prefix + suffix
}

func quoteLabels(labels []string) string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = quoteSQLString(l)
	}
	return strings.Join(out, ",")
}
