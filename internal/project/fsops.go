package project

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// copyStats counts what a tree copy moved.
type copyStats struct {
	Files int
	Bytes int64
}

// copyFile copies a regular file, preserving its permission bits. Returns the
// number of bytes written.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, err
	}
	return n, out.Close()
}

// copyTree copies every regular file below src into dst, keeping the relative
// layout. Directories are recreated only as needed to hold files; symlinks and
// other special files are skipped.
func copyTree(src, dst string) (copyStats, error) {
	var stats copyStats
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		n, err := copyFile(path, target)
		if err != nil {
			return fmt.Errorf("copy %s: %w", path, err)
		}
		stats.Files++
		stats.Bytes += n
		return nil
	})
	return stats, err
}

// copyNoteTemplates copies every markdown file below templatesDir/category into
// notesDir. A missing category directory means there is nothing to copy.
func copyNoteTemplates(templatesDir, category, notesDir string) (int, error) {
	if category == "" {
		return 0, nil
	}

	root := filepath.Join(templatesDir, category)
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	copied := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		if _, err := copyFile(path, filepath.Join(notesDir, d.Name())); err != nil {
			return fmt.Errorf("copy note template %s: %w", d.Name(), err)
		}
		copied++
		return nil
	})
	return copied, err
}

// removeTree deletes a directory tree. Unlike os.RemoveAll, a tree that is
// already gone is reported as an error.
func removeTree(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return os.RemoveAll(path)
}
