package unpack

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"

	"dbsake/internal/dbserr"
)

// isTarArchive sniffs header (the archive's leading bytes) for a valid
// tar member header, the same probe the original performs via
// tarfile.TarInfo.frombuf on the first 512 bytes.
func isTarArchive(header []byte) bool {
	if len(header) < 512 {
		return false
	}
	tr := tar.NewReader(bytes.NewReader(header[:512]))
	_, err := tr.Next()
	return err == nil
}

// unpackTar streams a tar archive from r, invoking visit for each
// member. visit receives false from its second return to stop the
// walk early (e.g. once list-only output is done).
func unpackTar(r io.Reader, visit func(Entry) (bool, error)) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &dbserr.UnpackError{Reason: err.Error()}
		}
		if hdr.Typeflag == tar.TypeDir {
			continue
		}

		path := normalizePath(hdr.Name)
		name, hasName := qualifiedName(path)
		payload, err := io.ReadAll(tr)
		if err != nil {
			return &dbserr.UnpackError{Path: path, Reason: err.Error()}
		}

		entry := Entry{
			Path:    path,
			Name:    name,
			HasName: hasName,
			IsChunk: false,
			Extract: func(destination string) error {
				return extractTarMember(destination, path, payload, hdr.Mode)
			},
		}
		cont, err := visit(entry)
		if err != nil || !cont {
			return err
		}
	}
}

func extractTarMember(destination, path string, payload []byte, mode int64) error {
	dst := filepath.Join(destination, path)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return &dbserr.IoError{Path: filepath.Dir(dst), Err: err}
	}
	if err := os.WriteFile(dst, payload, os.FileMode(mode)&0o777); err != nil {
		return &dbserr.IoError{Path: dst, Err: err}
	}
	return nil
}
