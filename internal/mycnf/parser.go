// Package mycnf parses MySQL option files (my.cnf), including
// !include/!includedir directives, and rewrites deprecated options
// found in the [mysqld] section into their modern equivalents.
package mycnf

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"dbsake/internal/dbserr"
)

// MultiValuedOptions lists options dbsake never warns about seeing
// repeated in a single [mysqld] section, carried verbatim from the
// original parser's allow-list (§ SUPPLEMENTED FEATURES).
var MultiValuedOptions = map[string]bool{
	"binlog-do-db":                true,
	"binlog-ignore-db":            true,
	"replicate-do-db":             true,
	"replicate-ignore-db":         true,
	"replicate-do-table":          true,
	"replicate-ignore-table":      true,
	"replicate-wild-do-table":     true,
	"replicate-wild-ignore-table": true,
	"plugin-load":                 true,
}

// knownOptionPrefixes is the small set of ambiguous-prefix-sensitive
// option names MySQL itself resolves short forms against (e.g. "-h" /
// "--host" style abbreviation on the command line carries over to
// option files for a handful of connection options).
var knownOptionPrefixes = []string{"host", "password", "port", "socket", "user"}

// Entry is one parsed key=value directive, with its source line index
// (0-based) so a rewrite pass can splice replacement lines back in.
type Entry struct {
	LineIndex int
	Key       string
	Value     string
	HasValue  bool
	RawLine   string
}

// File is one parsed option file (possibly one of several pulled in via
// !include/!includedir).
type File struct {
	Path    string
	Lines   []string
	Entries map[string][]Entry // key -> occurrences, in file order
}

// Parse reads path and every file it !include/!includedir pulls in,
// returning one File per physical file encountered, in traversal order.
func Parse(path string) ([]*File, error) {
	var out []*File
	queue := []string{path}
	seen := map[string]bool{}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if seen[p] {
			continue
		}
		seen[p] = true

		f, includes, err := parseOne(p)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
		queue = append(queue, includes...)
	}
	return out, nil
}

func parseOne(path string) (*File, []string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, nil, &dbserr.IoError{Path: path, Err: err}
	}
	defer fh.Close()

	f := &File{Path: path, Entries: map[string][]Entry{}}
	var includes []string
	section := ""

	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	idx := 0
	for scanner.Scan() {
		raw := scanner.Text()
		f.Lines = append(f.Lines, raw)

		line := strings.TrimRight(sanitizeSetVariable(raw), " \t\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "["):
			section = strings.Trim(trimmed, "[]")
		case strings.HasPrefix(trimmed, "#"), strings.HasPrefix(trimmed, ";"):
		case strings.HasPrefix(trimmed, "!include "):
			includes = append(includes, strings.TrimSpace(trimmed[len("!include "):]))
		case strings.HasPrefix(trimmed, "!includedir "):
			dir := strings.TrimSpace(trimmed[len("!includedir "):])
			matches, _ := filepath.Glob(filepath.Join(dir, "*.cnf"))
			sort.Strings(matches)
			includes = append(includes, matches...)
		case section == "mysqld":
			key, value, hasValue, ok := parseOption(trimmed)
			if ok {
				key = strings.ReplaceAll(key, "_", "-")
				f.Entries[key] = append(f.Entries[key], Entry{
					LineIndex: idx, Key: key, Value: value, HasValue: hasValue, RawLine: raw,
				})
			}
		}
		idx++
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, &dbserr.IoError{Path: path, Err: err}
	}
	return f, includes, nil
}

var setVariableRE = regexp.MustCompile(`(?is)^(\s*set[-_]variable\s*=\s*)(.*)$`)

// sanitizeSetVariable rewrites the obsolete "set-variable = x" form to
// plain "x", MySQL's own backward-compatible parsing rule.
func sanitizeSetVariable(line string) string {
	if m := setVariableRE.FindStringSubmatch(line); m != nil {
		return m[2]
	}
	return line
}

var kvRE = regexp.MustCompile(`^\s*([^=\s]+?)\s*(?:=\s*(.*))?$`)

// parseOption splits a non-comment, non-section line into key/value,
// stripping an inline "#" comment unless it falls inside a quoted
// value, and resolving any ambiguous connection-option abbreviation.
func parseOption(line string) (key, value string, hasValue, ok bool) {
	m := kvRE.FindStringSubmatch(line)
	if m == nil {
		return "", "", false, false
	}
	key = m[1]
	raw := m[2]
	hasValue = strings.Contains(line, "=")
	if hasValue {
		value, _ = removeInlineComment(raw)
		value = strings.TrimSpace(value)
	} else {
		key, _ = removeInlineComment(key)
	}
	resolved, err := resolveOption(key)
	if err == nil {
		key = resolved
	}
	return key, value, hasValue, true
}

// removeInlineComment strips a MySQL-style "# comment" tail from value,
// respecting single/double quoting and backslash escapes so a literal
// '#' inside a quoted string is not treated as a comment start.
func removeInlineComment(value string) (string, string) {
	var quote byte
	escaped := false
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c == '"' || c == '\'') && !escaped {
			if quote == 0 {
				quote = c
			} else if quote == c {
				quote = 0
			}
		}
		if quote == 0 && c == '#' {
			return value[:i], value[i:]
		}
		escaped = quote != 0 && c == '\\' && !escaped
	}
	return value, ""
}

// resolveOption expands an abbreviated connection option (e.g. "pass"
// for "password") to its full name, erroring if the prefix is ambiguous
// among the handful of options MySQL itself resolves this way.
func resolveOption(item string) (string, error) {
	var candidates []string
	for _, known := range knownOptionPrefixes {
		if strings.HasPrefix(known, item) {
			candidates = append(candidates, known)
		}
	}
	switch len(candidates) {
	case 0:
		return item, nil
	case 1:
		return candidates[0], nil
	default:
		return "", &dbserr.FilterError{Reason: "ambiguous option '" + item + "' (" + strings.Join(candidates, ",") + ")"}
	}
}
