package frm

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMinimalFrm assembles a synthetic single-column binary .frm buffer
// laid out exactly per this package's own offset constants, so this test
// exercises the decoder's field-by-field wiring without needing a real
// mysqld-produced fixture.
func buildMinimalFrm() []byte {
	header := make([]byte, headerLength)
	header[offMagic] = 0xFE
	header[offMagic+1] = 0x01
	header[offFrmVersion] = 1
	header[offLegacyDBType] = byte(DBTypeInnoDB)
	binary.LittleEndian.PutUint16(header[offNamesLength:], 3) // "id\x00"
	binary.LittleEndian.PutUint32(header[offKeyInfoLength:], 3)
	binary.LittleEndian.PutUint32(header[offMySQLVersion:], 50723)
	binary.LittleEndian.PutUint16(header[offCharsetID:], 33)
	binary.LittleEndian.PutUint16(header[offDefaultsLen:], 4)

	forminfo := make([]byte, forminfoLength)

	names := []byte("id\x00")

	col := make([]byte, bytesPerField)
	binary.LittleEndian.PutUint16(col[0:], 11)          // length
	binary.LittleEndian.PutUint16(col[2:], uint16(FieldFlagNumber|FieldFlagDecimal))
	col[4] = byte(UtypeNone)
	col[5] = byte(TypeLong)
	col[6] = 0 // charset low
	col[7] = 0 // decimals
	col[8] = 0 // flags high
	col[9] = 0 // charset high
	col[10] = 0
	col[11] = 0 // not null

	defaults := make([]byte, 4) // default 0

	keyinfo := []byte{0x00, 0x00, 0x00} // keyCount=0, keyExtraLen(u16)=0

	buf := append([]byte{}, header...)
	buf = append(buf, forminfo...)
	buf = append(buf, names...)
	buf = append(buf, col...)
	buf = append(buf, defaults...)
	buf = append(buf, keyinfo...)
	return buf
}

func TestDecodeBinaryMinimalTable(t *testing.T) {
	buf := buildMinimalFrm()
	table, err := DecodeBinary("t.frm", buf)
	require.NoError(t, err)

	assert.Equal(t, "InnoDB", table.Engine)
	require.Len(t, table.Columns, 1)

	col := table.Columns[0]
	assert.Equal(t, "id", col.Name)
	assert.Equal(t, "int(11)", col.TypeName())
	assert.False(t, col.Unsigned)
	assert.False(t, col.Nullable)
	require.NotNil(t, col.Default)
	assert.Equal(t, "0", col.Default.Text)

	assert.Equal(t, MySQLVersion(50723).Major(), 5)
	assert.True(t, table.ServerVersion.AtLeast(5, 7))
	assert.Equal(t, "utf8", table.Collation.Name)
}

func TestDecodeBinaryRejectsBadMagic(t *testing.T) {
	buf := buildMinimalFrm()
	buf[0] = 0x00
	_, err := DecodeBinary("bad.frm", buf)
	require.Error(t, err)
}
