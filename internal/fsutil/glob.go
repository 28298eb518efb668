package fsutil

import "path/filepath"

// GlobFilter applies dbsake's shared include/exclude semantics: when
// any include patterns are given, a name must match at least one of
// them to survive; an exclude match always wins regardless of
// inclusion. Used by both the unpack table filter and the sieve
// section filter so the two commands behave identically for users who
// pass the same -t/-T style flags.
type GlobFilter struct {
	Include []string
	Exclude []string
}

// Excluded reports whether name should be dropped.
func (f GlobFilter) Excluded(name string) bool {
	if len(f.Include) > 0 && !f.anyMatch(f.Include, name) {
		return true
	}
	return f.anyMatch(f.Exclude, name)
}

func (f GlobFilter) anyMatch(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
