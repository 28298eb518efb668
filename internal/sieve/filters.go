package sieve

import "dbsake/internal/fsutil"

// FilterOptions controls which sections and tables SectionFilter lets
// through.
type FilterOptions struct {
	Sections        []string
	ExcludeSections []string
	Table           []string
	ExcludeTable    []string
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// SectionFilter decides whether a Section should be dropped, by name
// first and then (for table-bearing sections) by glob pattern against
// "database.table".
type SectionFilter struct {
	Options FilterOptions
}

// Filtered reports whether section should be dropped.
func (f *SectionFilter) Filtered(s *Section) bool {
	return f.filteredSection(s) || f.filteredTable(s)
}

func (f *SectionFilter) filteredSection(s *Section) bool {
	if len(f.Options.Sections) > 0 && !contains(f.Options.Sections, s.Name) {
		return true
	}
	if contains(f.Options.ExcludeSections, s.Name) {
		return true
	}
	return false
}

func (f *SectionFilter) filteredTable(s *Section) bool {
	if s.Table == "" {
		return false
	}
	identifier := s.Database + "." + s.Table
	glob := fsutil.GlobFilter{Include: f.Options.Table, Exclude: f.Options.ExcludeTable}
	return glob.Excluded(identifier)
}
