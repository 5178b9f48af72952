package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/oukaro/pkg/types"
)

// CopyTree recursively copies src into dst, creating dst if needed.
// Regular files keep their permission bits and symlinks are recreated as
// links rather than followed. Existing files in dst are overwritten.
func CopyTree(fsys types.FS, src, dst string) error {
	info, err := fsys.Lstat(src)
	if err != nil {
		return fmt.Errorf("stat source %s: %w", src, err)
	}
	return copyEntry(fsys, src, dst, info)
}

func copyEntry(fsys types.FS, src, dst string, info fs.FileInfo) error {
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := fsys.Readlink(src)
		if err != nil {
			return fmt.Errorf("read link %s: %w", src, err)
		}
		_ = fsys.Remove(dst)
		if err := fsys.Symlink(target, dst); err != nil {
			return fmt.Errorf("create link %s: %w", dst, err)
		}
		return nil

	case info.IsDir():
		if err := fsys.MkdirAll(dst, info.Mode().Perm()|0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dst, err)
		}
		entries, err := fsys.ReadDir(src)
		if err != nil {
			return fmt.Errorf("read directory %s: %w", src, err)
		}
		for _, entry := range entries {
			childSrc := filepath.Join(src, entry.Name())
			childInfo, err := fsys.Lstat(childSrc)
			if err != nil {
				return fmt.Errorf("stat %s: %w", childSrc, err)
			}
			if err := copyEntry(fsys, childSrc, filepath.Join(dst, entry.Name()), childInfo); err != nil {
				return err
			}
		}
		return nil

	default:
		data, err := fsys.ReadFile(src)
		if err != nil {
			return fmt.Errorf("read %s: %w", src, err)
		}
		if err := fsys.WriteFile(dst, data, info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		return nil
	}
}

// WriteFileAtomic writes data to a sibling temp file and renames it over
// path, so readers never observe a partially written file.
func WriteFileAtomic(fsys types.FS, path string, data []byte, perm fs.FileMode) error {
	tmp := path + ".tmp"
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
