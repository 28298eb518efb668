package fsutil

import (
	"os"
	"syscall"
)

// sameDev compares the device numbers backing two stat results. ok is
// false if either FileInfo wasn't backed by a *syscall.Stat_t, in
// which case the caller falls back to treating "/" as the only
// boundary.
func sameDev(a, b os.FileInfo) (same bool, ok bool) {
	as, aok := a.Sys().(*syscall.Stat_t)
	bs, bok := b.Sys().(*syscall.Stat_t)
	if !aok || !bok {
		return false, false
	}
	return as.Dev == bs.Dev, true
}
