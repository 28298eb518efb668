package frm

// Charset describes one entry of MySQL's charset/collation catalog, as
// referenced by the collation id packed into a column's field metadata
// and the table-level default-collation id in the header.
type Charset struct {
	ID        uint16
	Name      string
	Collation string
	MaxLen    int
	IsDefault bool
}

// charsets covers the collation ids dbsake expects to see in the wild.
// MySQL assigns these ids centrally and never reuses them, so this table
// only grows; an id missing here surfaces as an UnsupportedFeature rather
// than a guess.
var charsets = map[uint16]Charset{
	8:   {8, "latin1", "latin1_swedish_ci", 1, true},
	5:   {5, "latin1", "latin1_german1_ci", 1, false},
	15:  {15, "latin1", "latin1_danish_ci", 1, false},
	31:  {31, "latin1", "latin1_bin", 1, false},
	47:  {47, "latin1", "latin1_general_ci", 1, false},
	48:  {48, "latin1", "latin1_general_cs", 1, false},
	94:  {94, "latin1", "latin1_spanish_ci", 1, false},
	33:  {33, "utf8", "utf8_general_ci", 3, true},
	83:  {83, "utf8", "utf8_bin", 3, false},
	76:  {76, "utf8", "utf8_general_mysql500_ci", 3, false},
	192: {192, "utf8", "utf8_unicode_ci", 3, false},
	45:  {45, "utf8mb4", "utf8mb4_general_ci", 4, true},
	46:  {46, "utf8mb4", "utf8mb4_bin", 4, false},
	224: {224, "utf8mb4", "utf8mb4_unicode_ci", 4, false},
	255: {255, "utf8mb4", "utf8mb4_0900_ai_ci", 4, false},
	63:  {63, "binary", "binary", 1, true},
	28:  {28, "gbk", "gbk_chinese_ci", 2, true},
	87:  {87, "gbk", "gbk_bin", 2, false},
	24:  {24, "gb2312", "gb2312_chinese_ci", 2, true},
	86:  {86, "gb2312", "gb2312_bin", 2, false},
	248: {248, "gb18030", "gb18030_chinese_ci", 4, true},
	1:   {1, "big5", "big5_chinese_ci", 2, true},
	84:  {84, "big5", "big5_bin", 2, false},
	11:  {11, "ascii", "ascii_general_ci", 1, true},
	65:  {65, "ascii", "ascii_bin", 1, false},
	35:  {35, "ucs2", "ucs2_general_ci", 2, true},
	90:  {90, "ucs2", "ucs2_unicode_ci", 2, false},
	54:  {54, "utf16", "utf16_general_ci", 4, true},
	101: {101, "utf16", "utf16_unicode_ci", 4, false},
	56:  {56, "utf32", "utf32_general_ci", 4, true},
	60:  {60, "utf32", "utf32_unicode_ci", 4, false},
	4:   {4, "cp850", "cp850_general_ci", 1, true},
	6:   {6, "cp866", "cp866_general_ci", 1, true},
	36:  {36, "cp1250", "cp1250_general_ci", 1, true},
	57:  {57, "cp1256", "cp1256_general_ci", 1, true},
	41:  {41, "cp1257", "cp1257_general_ci", 1, true},
	51:  {51, "cp1251", "cp1251_general_ci", 1, true},
	14:  {14, "cp1251", "cp1251_bin", 1, false},
	23:  {23, "cp1251", "cp1251_ukrainian_ci", 1, false},
	99:  {99, "cp1251", "cp1251_general_cs", 1, false},
	12:  {12, "sjis", "sjis_japanese_ci", 2, true},
	95:  {95, "sjis", "sjis_bin", 2, false},
	97:  {97, "eucjpms", "eucjpms_japanese_ci", 3, true},
	98:  {98, "eucjpms", "eucjpms_bin", 3, false},
	22:  {22, "koi8u", "koi8u_general_ci", 1, true},
	7:   {7, "koi8r", "koi8r_general_ci", 1, true},
	16:  {16, "hebrew", "hebrew_general_ci", 1, true},
	32:  {32, "armscii8", "armscii8_general_ci", 1, true},
	38:  {38, "ascii", "ascii_general_ci", 1, false},
	13:  {13, "sjis", "sjis_bin", 2, false},
	92:  {92, "geostd8", "geostd8_general_ci", 1, true},
}

// LookupCharset resolves a collation id. The returned ok is false for an
// id dbsake has no mapping for.
func LookupCharset(id uint16) (Charset, bool) {
	cs, ok := charsets[id]
	return cs, ok
}
