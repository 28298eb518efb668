package frm

import "strings"

// quoteIdentifier backtick-quotes a MySQL identifier, doubling any
// embedded backtick, the same escaping rule MySQL's own identifier
// quoting uses.
func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// quoteSQLString single-quotes a SQL string literal, escaping embedded
// quotes and backslashes.
func quoteSQLString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString("\\'")
		case '\\':
			b.WriteString("\\\\")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// CreateTableSQL renders t as a CREATE TABLE statement, column lines then
// key lines then the fixed-order table option clauses from Attributes().
func (t *Table) CreateTableSQL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(quoteIdentifier(t.Name))
	b.WriteString(" (\n")

	var lines []string
	for i := range t.Columns {
		lines = append(lines, "  "+t.Columns[i].defLine())
	}
	for i := range t.Keys {
		lines = append(lines, "  "+t.Keys[i].defLine())
	}
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")

	if attrs := t.Attributes(); len(attrs) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(attrs, " "))
	}
	b.WriteString(";")
	return b.String()
}

func (c *Column) defLine() string {
	var b strings.Builder
	b.WriteString(quoteIdentifier(c.Name))
	b.WriteByte(' ')
	b.WriteString(c.TypeName())
	if c.Unsigned {
		b.WriteString(" unsigned")
	}
	if c.Flags.Zerofill() {
		b.WriteString(" zerofill")
	}
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.AutoIncrement {
		b.WriteString(" AUTO_INCREMENT")
	} else if c.Default != nil {
		switch c.Default.Kind {
		case DefaultKindNull:
			b.WriteString(" DEFAULT NULL")
		case DefaultKindText:
			b.WriteString(" DEFAULT ")
			b.WriteString(quoteSQLString(c.Default.Text))
		}
	}
	if c.OnUpdateNow {
		b.WriteString(" ON UPDATE CURRENT_TIMESTAMP")
	}
	return b.String()
}

func (k *Key) defLine() string {
	var b strings.Builder
	switch {
	case k.Primary:
		b.WriteString("PRIMARY KEY ")
	case k.Algorithm == KeyAlgFulltext:
		b.WriteString("FULLTEXT KEY ")
		b.WriteString(quoteIdentifier(k.Name))
		b.WriteByte(' ')
	case k.Unique:
		b.WriteString("UNIQUE KEY ")
		b.WriteString(quoteIdentifier(k.Name))
		b.WriteByte(' ')
	default:
		b.WriteString("KEY ")
		b.WriteString(quoteIdentifier(k.Name))
		b.WriteByte(' ')
	}

	b.WriteByte('(')
	parts := make([]string, len(k.Parts))
	for i, p := range k.Parts {
		s := quoteIdentifier(p.Column)
		if p.Length > 0 {
			s += "(" + itoa64(uint64(p.Length)) + ")"
		}
		if p.Descending {
			s += " DESC"
		}
		parts[i] = s
	}
	b.WriteString(strings.Join(parts, ","))
	b.WriteByte(')')

	if k.Algorithm != KeyAlgUndef && k.Algorithm != KeyAlgFulltext {
		b.WriteString(" USING ")
		b.WriteString(k.Algorithm.String())
	}
	if k.Comment != "" {
		b.WriteString(" COMMENT ")
		b.WriteString(quoteSQLString(k.Comment))
	}
	return b.String()
}

// CreateViewSQL renders v as a CREATE VIEW statement matching the literal
// form from the end-to-end example: algorithm, definer, security, body,
// and an optional WITH CHECK OPTION tail.
func (v *View) CreateViewSQL() string {
	var b strings.Builder
	b.WriteString("CREATE ALGORITHM=")
	b.WriteString(v.Algorithm)
	b.WriteString(" DEFINER=")
	b.WriteString(v.Definer.String())
	b.WriteString(" SQL SECURITY ")
	b.WriteString(v.Security)
	b.WriteString(" VIEW ")
	b.WriteString(quoteIdentifier(v.Name))
	if len(v.ColumnNames) > 0 {
		b.WriteString(" (")
		names := make([]string, len(v.ColumnNames))
		for i, n := range v.ColumnNames {
			names[i] = quoteIdentifier(n)
		}
		b.WriteString(strings.Join(names, ","))
		b.WriteString(")")
	}
	b.WriteString(" AS ")
	b.WriteString(v.Query)
	if v.CheckOption != "" && v.CheckOption != "NONE" {
		b.WriteString(" WITH ")
		b.WriteString(v.CheckOption)
		b.WriteString(" CHECK OPTION")
	}
	b.WriteString(";")
	return b.String()
}
