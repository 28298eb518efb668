package unpack

import (
	"bufio"
	"io"

	"dbsake/internal/dbserr"
	"dbsake/internal/fsutil"
)

// ProgressFunc reports bytes consumed so far against the archive's
// total size (0 if unknown, e.g. reading from a pipe).
type ProgressFunc func(sofar, total int64)

// Options controls one unpack run.
type Options struct {
	Destination   string
	IncludeTables []string // glob patterns against "db.table"; empty means "include everything"
	ExcludeTables []string // glob patterns against "db.table"
	ListOnly      bool     // report paths instead of extracting
	OnPath        func(path string)
	OnSkip        func(path string)
	Progress      ProgressFunc
	TotalSize     int64
}

// Run detects the archive format in r (tar or xbstream) and unpacks it
// into opts.Destination, applying table filtering and optional
// progress reporting.
func Run(r io.Reader, opts Options) error {
	br := bufio.NewReaderSize(r, 64*1024)
	header, err := br.Peek(512)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return &dbserr.IoError{Err: err}
	}

	var counter *countingReader
	var src io.Reader = br
	if opts.Progress != nil {
		counter = &countingReader{r: br, onRead: opts.Progress, total: opts.TotalSize}
		src = counter
	}

	filter := fsutil.GlobFilter{Include: opts.IncludeTables, Exclude: opts.ExcludeTables}

	visit := func(e Entry) (bool, error) {
		if e.HasName && filter.Excluded(e.Name) {
			if opts.OnSkip != nil {
				opts.OnSkip(e.Path)
			}
			return true, nil
		}
		if opts.ListOnly {
			if !e.IsChunk && opts.OnPath != nil {
				opts.OnPath(e.Path)
			}
			return true, nil
		}
		if err := e.Extract(opts.Destination); err != nil {
			return false, err
		}
		return true, nil
	}

	switch {
	case isTarArchive(header):
		return unpackTar(src, visit)
	case isXBStream(header):
		return unpackXBStream(src, visit)
	default:
		return &dbserr.InvalidFormat{Reason: "unrecognized archive format for unpack input"}
	}
}

type countingReader struct {
	r      io.Reader
	onRead ProgressFunc
	total  int64
	sofar  int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.sofar += int64(n)
	if n > 0 {
		c.onRead(c.sofar, c.total)
	}
	return n, err
}
