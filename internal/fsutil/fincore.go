//go:build linux

package fsutil

import (
	"os"

	"golang.org/x/sys/unix"

	"dbsake/internal/dbserr"
)

// CacheStats reports how many of a file's pages are presently resident
// in the OS page cache.
type CacheStats struct {
	Total  int
	Cached int
	Pages  []int // page offsets that are cached, populated only when requested
}

// Percent returns the fraction of Total pages that are Cached, as a
// percentage; zero-length files report 0.
func (s CacheStats) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Cached) / float64(s.Total) * 100.0
}

var pageSize = os.Getpagesize()

// Fincore reports the page cache residency of path, optionally
// enumerating the cached page offsets.
func Fincore(path string, enumeratePages bool) (CacheStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return CacheStats{}, &dbserr.IoError{Path: path, Err: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return CacheStats{}, &dbserr.IoError{Path: path, Err: err}
	}
	size := fi.Size()
	if size == 0 {
		return CacheStats{}, nil
	}

	mapping, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_NONE, unix.MAP_SHARED)
	if err != nil {
		return CacheStats{}, &dbserr.IoError{Path: path, Err: err}
	}
	defer unix.Munmap(mapping)

	totalPages := (int(size) + pageSize - 1) / pageSize
	vec := make([]byte, totalPages)
	if err := unix.Mincore(mapping, vec); err != nil {
		return CacheStats{}, &dbserr.IoError{Path: path, Err: err}
	}

	stats := CacheStats{Total: totalPages}
	for offset, page := range vec {
		if page&1 != 0 {
			stats.Cached++
			if enumeratePages {
				stats.Pages = append(stats.Pages, offset)
			}
		}
	}
	return stats, nil
}

// Uncache advises the kernel to drop path's cached pages, via
// posix_fadvise(..., POSIX_FADV_DONTNEED).
func Uncache(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &dbserr.IoError{Path: path, Err: err}
	}
	defer f.Close()

	if err := unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_DONTNEED); err != nil {
		return &dbserr.IoError{Path: path, Err: err}
	}
	return nil
}
