package fsutil

import (
	"os"
	"path/filepath"
)

// ResolveMountpoint walks up from path to find the filesystem it lives
// on, useful for deciding whether a datadir restore target has enough
// space on its own device before an unpack begins.
func ResolveMountpoint(path string) (string, error) {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		real = filepath.Clean(path)
	}

	for real != string(filepath.Separator) {
		mounted, err := isMountpoint(real)
		if err != nil {
			return "", err
		}
		if mounted {
			return real, nil
		}
		real = filepath.Dir(real)
	}
	return real, nil
}

func isMountpoint(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	parentInfo, err := os.Lstat(filepath.Dir(path))
	if err != nil {
		return false, err
	}
	sameDevice, ok := sameDev(info, parentInfo)
	if !ok {
		return path == string(filepath.Separator), nil
	}
	return !sameDevice, nil
}
