package fileutils

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/LambdaTest/covdiff/pkg/global"
)

// CopyFile copies the file name of fsys to the file named by dst. The file
// will be created if it does not already exist, otherwise its contents are
// replaced. The copied data is synced to stable storage.
func CopyFile(fsys fs.FS, name, dst string) (err error) {
	in, err := fsys.Open(name)
	if err != nil {
		return
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, global.FilePermissions)
	if err != nil {
		return
	}
	defer func() {
		if e := out.Close(); e != nil && err == nil {
			err = e
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return
	}
	return out.Sync()
}

// CopyDir recursively copies the tree of fsys into dst.
// Destination directory must *not* exist. Symlinks are ignored and skipped.
func CopyDir(fsys fs.FS, dst string) error {
	dst = filepath.Clean(dst)
	exists, err := CheckIfExists(dst)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("destination %+v already exists", dst)
	}

	return fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(name))
		switch {
		case d.IsDir():
			return os.MkdirAll(target, global.DirectoryPermissions)
		case d.Type()&fs.ModeSymlink != 0:
			return nil
		default:
			return CopyFile(fsys, name, target)
		}
	})
}

// CheckIfExists checks if file or directory exists in the given path.
func CheckIfExists(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// WriteFile creates path, along with its parent directories, and fills it
// through write.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), global.DirectoryPermissions); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, global.FilePermissions)
	if err != nil {
		return
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()

	buf := bufio.NewWriter(f)
	if err = write(buf); err != nil {
		return
	}
	return buf.Flush()
}
