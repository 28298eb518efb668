// Package compression provides access to external (de)compression
// commands. Per the original implementation's design, this is a
// subprocess-driven facade over pigz/gzip/bzip2/lzop/xz/etc, not a
// Go-native codec library: dbsake shells out to whatever compressor the
// caller names (or the first one found on PATH for an extension),
// rather than linking a compression codec into the binary.
package compression

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"dbsake/internal/dbserr"
)

// exitCodeOf extracts the process exit code from an *exec.ExitError,
// or -1 for any other error shape (signal death, spawn failure).
func exitCodeOf(err error) int {
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return -1
}

// lookup maps a filename extension to the command names capable of
// handling it, tried in preference order (faster/multithreaded variant
// first).
var lookup = map[string][]string{
	".gz":   {"pigz", "gzip"},
	".bz2":  {"pbzip2", "bzip2", "lbzip2"},
	".lzo":  {"lzop"},
	".xz":   {"xz"},
	".lzma": {"lzma"},
}

// magic maps a filename extension to the byte sequence a compressed
// file with that extension starts with, used to detect compression when
// a path's extension alone is ambiguous or absent.
var magic = map[string][]byte{
	".gz":  {0x1f, 0x8b},
	".bz2": []byte("BZh"),
	".lzo": {0x89, 0x4c, 0x5a, 0x4f, 0x00, 0x0d, 0x0a, 0x1a, 0x0a},
	".xz":  {0xFD, '7', 'z', 'X', 'Z', 0x00},
}

// commandToExt maps a compressor command's base executable name to the
// filename extension it produces, the inverse of lookup, used to name
// output files when DirectoryWriter compresses its own output.
var commandToExt = map[string]string{
	"gzip": ".gz", "pigz": ".gz",
	"bzip2": ".bz2", "pbzip2": ".bz2", "lbzip2": ".bz2",
	"lzop": ".lzo",
	"xz":   ".xz",
	"lzma": ".lzma",
}

// Extension returns the filename extension that running command
// produces, derived from its first (shell-split) word's base name. An
// unrecognized command yields an empty string.
func Extension(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	name := filepath.Base(fields[0])
	return commandToExt[name]
}

// ResolveCommand finds an executable on PATH able to decompress ext,
// trying each candidate name in preference order.
func ResolveCommand(ext string) (string, error) {
	names, ok := lookup[ext]
	if !ok {
		return "", &dbserr.UnsupportedFeature{Reason: "no decompressor known for extension " + ext}
	}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", &dbserr.CommandError{Command: names[0], ExitCode: -1, Stderr: "not found on PATH"}
}

// DetectExtension sniffs a stream's leading bytes against the known
// compression magic numbers, for inputs whose name carries no extension.
func DetectExtension(r io.ReaderAt) (string, error) {
	buf := make([]byte, 8)
	n, _ := r.ReadAt(buf, 0)
	buf = buf[:n]
	for ext, want := range magic {
		if bytes.HasPrefix(buf, want) {
			return ext, nil
		}
	}
	return "", &dbserr.InvalidFormat{Reason: "could not detect compression type from magic bytes"}
}

// OpenWriter pipes writes through command (e.g. "pigz -6") into a newly
// created file at path, returning a WriteCloser whose Close waits for
// the subprocess to finish flushing.
func OpenWriter(command, path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, &dbserr.IoError{Path: path, Err: err}
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		f.Close()
		return nil, &dbserr.FilterError{Reason: "empty compression command"}
	}
	cmd := exec.Command(fields[0], fields[1:]...)
	cmd.Stdout = f
	stdin, err := cmd.StdinPipe()
	if err != nil {
		f.Close()
		return nil, &dbserr.CommandError{Command: command, ExitCode: -1, Stderr: err.Error()}
	}
	if err := cmd.Start(); err != nil {
		f.Close()
		return nil, &dbserr.CommandError{Command: command, ExitCode: -1, Stderr: err.Error()}
	}
	return &processWriter{cmd: cmd, stdin: stdin, out: f}, nil
}

type processWriter struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	out   *os.File
}

func (w *processWriter) Write(p []byte) (int, error) {
	return w.stdin.Write(p)
}

func (w *processWriter) Close() error {
	stdinErr := w.stdin.Close()
	waitErr := w.cmd.Wait()
	outErr := w.out.Close()
	switch {
	case waitErr != nil:
		return &dbserr.CommandError{Command: w.cmd.Path, ExitCode: exitCodeOf(waitErr), Stderr: waitErr.Error()}
	case stdinErr != nil:
		return stdinErr
	default:
		return outErr
	}
}

// OpenDecompressedReader spawns command (e.g. "gzip -dc") reading from
// src and returns the decompressed stream.
func OpenDecompressedReader(command string, src io.Reader) (io.ReadCloser, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, &dbserr.FilterError{Reason: "empty decompression command"}
	}
	cmd := exec.Command(fields[0], fields[1:]...)
	cmd.Stdin = src
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &dbserr.CommandError{Command: command, ExitCode: -1, Stderr: err.Error()}
	}
	if err := cmd.Start(); err != nil {
		return nil, &dbserr.CommandError{Command: command, ExitCode: -1, Stderr: err.Error()}
	}
	return &processReader{cmd: cmd, stdout: stdout}, nil
}

type processReader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

func (r *processReader) Read(p []byte) (int, error) {
	return r.stdout.Read(p)
}

func (r *processReader) Close() error {
	closeErr := r.stdout.Close()
	waitErr := r.cmd.Wait()
	if waitErr != nil {
		return &dbserr.CommandError{Command: r.cmd.Path, ExitCode: exitCodeOf(waitErr), Stderr: waitErr.Error()}
	}
	return closeErr
}
