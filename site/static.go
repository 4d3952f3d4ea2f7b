package site

import (
	"io/fs"
	"path"
)

// indexFS hides directories that have no index.html, so that static
// directories are never listed.
type indexFS struct {
	fs.FS
}

func (f indexFS) Open(name string) (fs.File, error) {
	file, err := f.FS.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		idx, err := f.FS.Open(path.Join(name, "index.html"))
		if err != nil {
			file.Close()
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		idx.Close()
	}
	return file, nil
}
