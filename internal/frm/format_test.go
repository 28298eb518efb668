package frm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnTypeNameVariants(t *testing.T) {
	cases := []struct {
		col  Column
		want string
	}{
		{Column{Type: TypeTiny, Length: 4}, "tinyint(4)"},
		{Column{Type: TypeLong, Length: 11}, "int(11)"},
		{Column{Type: TypeVarchar, Length: 255}, "varchar(255)"},
		{Column{Type: TypeString, Length: 10}, "char(10)"},
		{Column{Type: TypeNewDecimal, Length: 10, Decimals: 2}, "decimal(10,2)"},
		{Column{Type: TypeDate}, "date"},
		{Column{Type: TypeDatetime}, "datetime"},
		{Column{Type: TypeEnum, EnumValues: []string{"a", "b"}}, "enum('a','b')"},
		{Column{Type: TypeSet, EnumValues: []string{"x", "y"}}, "set('x','y')"},
		{Column{Type: TypeBlob, CharsetID: 63}, "blob"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.col.TypeName())
	}
}

func TestBlobBecomesTextForNonBinaryCharset(t *testing.T) {
	c := Column{Type: TypeBlob, CharsetID: 33} // utf8
	assert.Equal(t, "text", c.TypeName())
}

func TestColumnTypeCodePreservesRawNumericType(t *testing.T) {
	c := Column{Type: TypeVarchar, rawTypeCode: TypeVarchar}
	assert.Equal(t, "VARCHAR", c.TypeCode())
}

func TestRowFormatTokuDBAliasing(t *testing.T) {
	assert.Equal(t, "TOKUDB_ZLIB", RowFormatTokuDBDefault.Name())
	assert.Equal(t, "TOKUDB_QUICKLZ", RowFormatTokuDBFast.Name())
	assert.Equal(t, "TOKUDB_LZMA", RowFormatTokuDBSmall.Name())
}
