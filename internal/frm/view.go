package frm

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"dbsake/internal/dbserr"
)

const viewMagic = "TYPE=VIEW"

// DecodeView parses a plaintext view .frm file's contents. The format is
// a small INI-style file with one synthetic section, `[view]`, whose
// keys dbsake reads are `query`, `md5`, `definer_user`, `definer_host`,
// `algorithm`, `security_type`, `with_check_option`,
// `character_set_client`, `view_client_cs_name`,
// `view_connection_cl_name`, and `view_body_utf8_columns`. This
// is a hand-rolled scanner, not a general INI parser, per the format's
// own scope (just one fixed section, no nesting, no interpolation).
func DecodeView(path string, data []byte) (*View, error) {
	text := string(data)
	if !strings.HasPrefix(text, viewMagic) {
		return nil, &dbserr.InvalidFormat{Path: path, Reason: "missing TYPE=VIEW header line"}
	}

	kv, err := parseViewSection(text)
	if err != nil {
		return nil, &dbserr.FrmParseError{Path: path, Err: err}
	}

	v := &View{
		Query:        unescapeViewValue(kv["query"]),
		StoredMD5:    kv["md5"],
		Algorithm:    algorithmName(kv["algorithm"]),
		Security:     strings.ToUpper(kv["security_type"]),
		CheckOption:  checkOptionName(kv["with_check_option"]),
		Charset:      kv["character_set_client"],
		ClientCS:     kv["view_client_cs_name"],
		ConnectionCL: kv["view_connection_cl_name"],
		Definer: Definer{
			User: unescapeViewValue(kv["definer_user"]),
			Host: unescapeViewValue(kv["definer_host"]),
		},
	}
	if cols := kv["view_body_utf8_columns"]; cols != "" {
		v.ColumnNames = strings.Split(cols, ",")
	}

	sum := md5.Sum([]byte(v.Query))
	v.MD5 = hex.EncodeToString(sum[:])
	if v.StoredMD5 != "" && v.MD5 != v.StoredMD5 {
		return nil, &dbserr.ChecksumMismatch{Path: path, Expected: v.StoredMD5, Actual: v.MD5}
	}

	return v, nil
}

// parseViewSection scans past the TYPE=VIEW header line, then reads
// key=value pairs up to end of file. Long values (notably `query`) may
// span what would otherwise look like multiple lines in the source
// dump but are stored on one physical line with literal backslash
// escapes for embedded newlines and quotes (unescapeViewValue undoes
// these), so a plain per-line split is sufficient here.
func parseViewSection(text string) (map[string]string, error) {
	lines := strings.Split(text, "\n")
	kv := make(map[string]string)
	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			continue
		}
		key := line[:eq]
		val := line[eq+1:]
		kv[key] = val
	}
	return kv, nil
}

// unescapeViewValue undoes the backslash-escaping mysqldump/the server
// apply to view-definition text: \n, \t, \r and \b become the matching
// control characters, \s becomes a space, and any other escaped byte
// (\\, \', \") passes through with the backslash dropped.
func unescapeViewValue(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 's':
				b.WriteByte(' ')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func algorithmName(v string) string {
	switch v {
	case "0":
		return "UNDEFINED"
	case "1":
		return "MERGE"
	case "2":
		return "TEMPTABLE"
	}
	if v == "" {
		return "UNDEFINED"
	}
	return strings.ToUpper(v)
}

func checkOptionName(v string) string {
	switch v {
	case "0", "":
		return "NONE"
	case "1":
		return "LOCAL"
	case "2":
		return "CASCADED"
	}
	return strings.ToUpper(v)
}
