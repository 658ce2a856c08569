// Package archive streams a host directory tree into a tar archive for
// the container runtime's copy-to-container endpoint. There is no
// third-party tar implementation among the example repos' dependencies,
// so this is built on the standard library's archive/tar (see DESIGN.md).
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteTree recursively appends the file tree rooted at hostPath into w as
// a tar stream, placing entries under archivePrefix (empty for the root:
// a single file is then stored under its own base name, mirroring the
// semantics of a container-runtime copy-to call). Metadata (mode, mtime)
// is preserved from the host filesystem.
func WriteTree(w io.Writer, hostPath, archivePrefix string) error {
	tw := tar.NewWriter(w)
	if err := appendPath(tw, hostPath, archivePrefix); err != nil {
		return err
	}
	return tw.Close()
}

func appendPath(tw *tar.Writer, hostPath, archivePath string) error {
	info, err := os.Stat(hostPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", hostPath, err)
	}

	if info.IsDir() {
		entries, err := os.ReadDir(hostPath)
		if err != nil {
			return fmt.Errorf("read dir %s: %w", hostPath, err)
		}
		for _, entry := range entries {
			if err := appendPath(tw, filepath.Join(hostPath, entry.Name()), filepath.Join(archivePath, entry.Name())); err != nil {
				return err
			}
		}
		return nil
	}

	name := archivePath
	if name == "" {
		name = filepath.Base(hostPath)
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("building tar header for %s: %w", hostPath, err)
	}
	header.Name = filepath.ToSlash(name)

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("writing tar header for %s: %w", hostPath, err)
	}

	file, err := os.Open(hostPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", hostPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(tw, file); err != nil {
		return fmt.Errorf("streaming %s into archive: %w", hostPath, err)
	}

	return nil
}
