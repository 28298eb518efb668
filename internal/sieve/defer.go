package sieve

import (
	"regexp"
	"strings"
)

var (
	keyRE        = regexp.MustCompile("^\\s*(?:UNIQUE )?KEY (`.+`) \\((.+)\\)(?: USING (?:BTREE|HASH))?,?$")
	constraintRE = regexp.MustCompile("^\\s*CONSTRAINT (`.+`) FOREIGN KEY \\((.+)\\) REFERENCES")
	tableNameRE  = regexp.MustCompile("CREATE TABLE .*`(.+)` \\($")
)

type indexRef struct {
	name    string
	columns []string
	line    string
}

// parseColumns splits a backtick-quoted, comma-separated column list
// such as "`a`,`b`" into ["a", "b"].
func parseColumns(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, "`")
		out = append(out, part)
	}
	return out
}

func extractIndexes(tableDDL string) []indexRef {
	var out []indexRef
	for _, line := range splitLinesKeepEnds(tableDDL) {
		m := keyRE.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
		if m == nil {
			continue
		}
		out = append(out, indexRef{name: strings.Trim(m[1], "`"), columns: parseColumns(m[2]), line: line})
	}
	return out
}

func extractConstraints(tableDDL string) []indexRef {
	var out []indexRef
	for _, line := range splitLinesKeepEnds(tableDDL) {
		m := constraintRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, indexRef{name: strings.Trim(m[1], "`"), columns: parseColumns(m[2]), line: line})
	}
	return out
}

func extractTableName(tableDDL string) string {
	for _, line := range strings.Split(tableDDL, "\n") {
		if m := tableNameRE.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

func splitLinesKeepEnds(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func columnsHavePrefix(columns, prefix []string) bool {
	if len(prefix) > len(columns) {
		return false
	}
	for i := range prefix {
		if columns[i] != prefix[i] {
			return false
		}
	}
	return true
}

func formatAlterTable(tableDDL string, indexes []indexRef) string {
	table := extractTableName(tableDDL)
	if len(indexes) == 0 {
		return ""
	}
	var lines []string
	for _, idx := range indexes {
		lines = append(lines, strings.TrimSpace(idx.line))
	}
	ddl := "ALTER TABLE `" + table + "`\n  ADD " + strings.Join(lines, "\n  ADD ")
	return strings.TrimRight(strings.TrimSuffix(ddl, ","), ",") + ";"
}

func formatCreateTable(tableDDL string, indexes []indexRef) string {
	deferred := make(map[string]bool, len(indexes))
	for _, idx := range indexes {
		deferred[idx.line] = true
	}
	var result []string
	for _, line := range splitLinesKeepEnds(tableDDL) {
		if len(result) > 0 && strings.HasPrefix(line, ")") {
			last := strings.TrimRight(result[len(result)-1], "\n")
			last = strings.TrimRight(last, " \t")
			last = strings.TrimSuffix(last, ",")
			result[len(result)-1] = last + "\n"
		}
		if !deferred[line] {
			result = append(result, line)
		}
	}
	return strings.Join(result, "")
}

// SplitIndexes pulls secondary indexes (and, if deferConstraints, foreign
// keys) out of a CREATE TABLE statement, returning a deferred ALTER
// TABLE...ADD statement and the trimmed CREATE TABLE. When foreign keys
// are not deferred, the narrowest index whose leading columns match a
// foreign key's column list stays inline, since the foreign key left in
// the CREATE TABLE needs it.
func SplitIndexes(tableDDL string, deferConstraints bool) (alterTable, createTable string) {
	indexes := extractIndexes(tableDDL)
	constraints := extractConstraints(tableDDL)

	if !deferConstraints {
		preserved := map[string]bool{}
		for _, con := range constraints {
			var candidates []indexRef
			candidates = append(candidates, indexes...)
			// shortest-columns-first so the narrowest matching index wins
			for i := 0; i < len(candidates); i++ {
				for j := i + 1; j < len(candidates); j++ {
					if len(candidates[j].columns) < len(candidates[i].columns) {
						candidates[i], candidates[j] = candidates[j], candidates[i]
					}
				}
			}
			for _, idx := range candidates {
				if columnsHavePrefix(idx.columns, con.columns) {
					preserved[idx.line] = true
					break
				}
			}
		}
		var kept []indexRef
		for _, idx := range indexes {
			if !preserved[idx.line] {
				kept = append(kept, idx)
			}
		}
		indexes = kept
	} else {
		indexes = append(indexes, constraints...)
	}

	return formatAlterTable(tableDDL, indexes), formatCreateTable(tableDDL, indexes)
}
