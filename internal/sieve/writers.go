package sieve

import (
	"io"
	"os"
	"path/filepath"

	"dbsake/internal/compression"
	"dbsake/internal/dbserr"
)

// Writer consumes classified, filtered, transformed Sections.
type Writer interface {
	Write(s *Section) error
	Close() error
}

// StreamWriter is a passthrough writer: every section's lines go to one
// output stream in arrival order, the simple mode sieve runs in by
// default.
type StreamWriter struct {
	out io.Writer
}

// NewStreamWriter wraps w as a StreamWriter.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{out: w}
}

func (w *StreamWriter) Write(s *Section) error {
	for _, line := range s.Lines {
		if _, err := io.WriteString(w.out, line); err != nil {
			return &dbserr.IoError{Path: "<stream>", Err: err}
		}
	}
	return nil
}

func (w *StreamWriter) Close() error { return nil }

// DirectoryWriter splits a mysqldump stream into one file per
// database/table, mirroring the original's directory-output layout:
// `<db>/<table>.sql` for table structure/data/triggers, `<db>/<db>.createdb`
// for CREATE DATABASE statements, `<db>/views.ddl` for view DDL (both
// `view` and `view_temporary` route here), `<db>/routines.ddl`,
// `<db>/events.ddl`, and a top-level `replication_info.sql`.
type DirectoryWriter struct {
	baseDir         string
	compressCommand string
	dumpHeader      string
	sawHeader       bool
	sawView         bool
	sawReplication  bool
	open            map[string]io.WriteCloser
}

// NewDirectoryWriter creates (if needed) baseDir and returns a
// DirectoryWriter rooted there. When compressCommand is non-empty, every
// file this writer creates is piped through that external compressor
// (per §4.5's subprocess-based design) with its filename extension
// derived from the command's executable name.
func NewDirectoryWriter(baseDir, compressCommand string) (*DirectoryWriter, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, &dbserr.IoError{Path: baseDir, Err: err}
	}
	return &DirectoryWriter{
		baseDir:         baseDir,
		compressCommand: compressCommand,
		open:            map[string]io.WriteCloser{},
	}, nil
}

func (w *DirectoryWriter) pathFor(parts ...string) string {
	path := filepath.Join(append([]string{w.baseDir}, parts...)...)
	if w.compressCommand != "" {
		path += compression.Extension(w.compressCommand)
	}
	return path
}

func (w *DirectoryWriter) openAppend(key string, parts ...string) (io.WriteCloser, error) {
	if wc, ok := w.open[key]; ok {
		return wc, nil
	}
	path := w.pathFor(parts...)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &dbserr.IoError{Path: path, Err: err}
	}
	var wc io.WriteCloser
	var err error
	if w.compressCommand != "" {
		wc, err = compression.OpenWriter(w.compressCommand, path)
	} else {
		wc, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	}
	if err != nil {
		return nil, &dbserr.IoError{Path: path, Err: err}
	}
	w.open[key] = wc
	return wc, nil
}

func (w *DirectoryWriter) writeLines(wc io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := io.WriteString(wc, line); err != nil {
			return err
		}
	}
	return nil
}

// Write dispatches s by its section name to the appropriate output file.
func (w *DirectoryWriter) Write(s *Section) error {
	switch s.Name {
	case "header":
		w.dumpHeader = s.Body()
		w.sawHeader = true
		return nil

	case "replication_info":
		wc, err := w.openAppend("replication_info.sql", "replication_info.sql")
		if err != nil {
			return err
		}
		w.sawReplication = true
		return w.writeLines(wc, s.Lines)

	case "createdatabase":
		wc, err := w.openAppend("createdb:"+s.Database, s.Database, s.Database+".createdb")
		if err != nil {
			return err
		}
		return w.writeLines(wc, s.Lines)

	case "tablestructure":
		key := "table:" + s.Database + "." + s.Table
		wc, err := w.openAppend(key, s.Database, s.Table+".sql")
		if err != nil {
			return err
		}
		if w.sawHeader && w.dumpHeader != "" {
			if _, err := io.WriteString(wc, w.dumpHeader); err != nil {
				return err
			}
			w.dumpHeader = ""
		}
		return w.writeLines(wc, s.Lines)

	case "tabledata", "triggers":
		key := "table:" + s.Database + "." + s.Table
		wc, err := w.openAppend(key, s.Database, s.Table+".sql")
		if err != nil {
			return err
		}
		return w.writeLines(wc, s.Lines)

	case "view", "view_temporary":
		wc, err := w.openAppend("views:"+s.Database, s.Database, "views.ddl")
		if err != nil {
			return err
		}
		if !w.sawView {
			w.sawView = true
			if w.dumpHeader != "" {
				if _, err := io.WriteString(wc, w.dumpHeader); err != nil {
					return err
				}
				w.dumpHeader = ""
			}
		}
		return w.writeLines(wc, s.Lines)

	case "routines":
		wc, err := w.openAppend("routines:"+s.Database, s.Database, "routines.ddl")
		if err != nil {
			return err
		}
		return w.writeLines(wc, s.Lines)

	case "events":
		wc, err := w.openAppend("events:"+s.Database, s.Database, "events.ddl")
		if err != nil {
			return err
		}
		return w.writeLines(wc, s.Lines)

	default:
		return nil
	}
}

// Close flushes and closes every file this writer opened.
func (w *DirectoryWriter) Close() error {
	var firstErr error
	for _, wc := range w.open {
		if err := wc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
