package sieve

import "strings"

const (
	skipBinlog   = "/*!40101 SET @OLD_SQL_LOG_BIN=@@SQL_LOG_BIN, SQL_LOG_BIN=0 */;\n"
	enableBinlog = "/*!40101 SET SQL_LOG_BIN=@OLD_SQL_LOG_BIN */;\n"
)

// TransformOptions controls SectionTransform's rewrites.
type TransformOptions struct {
	WriteBinlog        bool
	MasterData         *bool // nil = leave replication info untouched
	DeferIndexes       bool
	DeferForeignKeys   bool
}

// SectionTransform rewrites a Section in place: toggling binlog
// replication around the dump, rewriting CHANGE MASTER comments, and
// deferring secondary indexes/foreign keys from table structure into a
// trailing ALTER TABLE emitted after that table's data.
type SectionTransform struct {
	Options    TransformOptions
	pendingDDL []string
}

// Apply dispatches section to the transform matching its Name, a no-op
// for any section kind with no corresponding rewrite.
func (t *SectionTransform) Apply(s *Section) {
	switch s.Name {
	case "header":
		t.transformHeader(s)
	case "footer":
		t.transformFooter(s)
	case "replication_info":
		t.transformReplicationInfo(s)
	case "tablestructure":
		t.transformTableStructure(s)
	case "tabledata":
		t.transformTableData(s)
	}
}

func (t *SectionTransform) transformHeader(s *Section) {
	if t.Options.WriteBinlog {
		return
	}
	if len(s.Lines) == 0 {
		s.Lines = []string{skipBinlog}
		return
	}
	idx := len(s.Lines) - 1
	s.Lines = append(s.Lines[:idx], append([]string{skipBinlog}, s.Lines[idx:]...)...)
}

func (t *SectionTransform) transformFooter(s *Section) {
	if t.Options.WriteBinlog {
		return
	}
	idx := len(s.Lines) - 2
	if idx < 0 {
		idx = 0
	}
	s.Lines = append(s.Lines[:idx], append([]string{enableBinlog}, s.Lines[idx:]...)...)
}

func (t *SectionTransform) transformReplicationInfo(s *Section) {
	if t.Options.MasterData == nil {
		return
	}
	data := s.Body()
	if *t.Options.MasterData {
		data = strings.ReplaceAll(data, "-- CHANGE MASTER", "CHANGE MASTER")
	} else {
		data = strings.ReplaceAll(data, "CHANGE MASTER", "-- CHANGE MASTER")
	}
	s.Lines = splitLinesKeepEnds(data)
}

func (t *SectionTransform) transformTableStructure(s *Section) {
	if !t.Options.DeferIndexes {
		return
	}
	alterTable, createTable := SplitIndexes(s.Body(), t.Options.DeferForeignKeys)
	s.Lines = splitLinesKeepEnds(createTable)
	if alterTable != "" {
		t.pendingDDL = append(splitLinesKeepEnds(alterTable), "\n", "\n")
	}
}

func (t *SectionTransform) transformTableData(s *Section) {
	if t.pendingDDL == nil {
		return
	}
	s.Lines = append(s.Lines, t.pendingDDL...)
	t.pendingDDL = nil
}
