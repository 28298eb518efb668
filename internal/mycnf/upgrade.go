package mycnf

import "sort"

// Upgraded is one rewritten option file: its original lines alongside
// the rewritten lines, suitable for feeding straight to a unified-diff
// generator or for writing back out verbatim.
type Upgraded struct {
	Path     string
	Original []string
	Modified []string
	Warnings []string
}

// UpgradeConfig parses path (and everything it !include/!includedir
// pulls in) and rewrites every [mysqld] option found against rewriter,
// returning one Upgraded per physical file encountered.
func UpgradeConfig(path string, rewriter *OptionRewriter) ([]Upgraded, error) {
	files, err := Parse(path)
	if err != nil {
		return nil, err
	}

	out := make([]Upgraded, 0, len(files))
	for _, f := range files {
		out = append(out, upgradeFile(f, rewriter))
	}
	return out, nil
}

func upgradeFile(f *File, rewriter *OptionRewriter) Upgraded {
	pending := map[int][]string{}
	var warnings []string

	keys := make([]string, 0, len(f.Entries))
	for k := range f.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		occurrences := f.Entries[key]
		if len(occurrences) > 1 && key != "set-variable" && !MultiValuedOptions[key] {
			warnings = append(warnings, "duplicate options for '"+key+"'")
			for _, e := range occurrences {
				warnings = append(warnings, "  - "+formatLineNumber(e.LineIndex)+":"+e.RawLine)
			}
		}

		for _, e := range occurrences {
			replacement, matched := rewriter.Rewrite(key, e.Value, e.HasValue)
			if matched {
				pending[e.LineIndex] = append(pending[e.LineIndex], replacement...)
			}
		}
	}

	modified := make([]string, 0, len(f.Lines))
	for idx, line := range f.Lines {
		if repl, ok := pending[idx]; ok {
			modified = append(modified, repl...)
			continue
		}
		modified = append(modified, line)
	}

	return Upgraded{Path: f.Path, Original: f.Lines, Modified: modified, Warnings: warnings}
}
