package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// File keeps the best record as a decimal integer in a plain-text file.
// Every call goes to disk so edits made while the server runs are honored.
type File struct {
	mu   sync.Mutex
	path string
}

// OpenFile prepares a file store at path, creating parent directories.
// A missing file is not an error; it reads as 0. An existing file must parse.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("storage: file store needs a path")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storageErr(fmt.Sprintf("cannot create directory %s", dir), err)
	}

	f := &File{path: path}
	if _, err := f.read(); err != nil {
		return nil, err
	}
	return f, nil
}

// Best reads the stored value.
func (f *File) Best(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// Report writes max(stored, candidate) and returns it.
// A failed write leaves the file untouched.
func (f *File) Report(ctx context.Context, candidate int) (int, error) {
	if err := validCandidate(candidate); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	best, err := f.read()
	if err != nil {
		return 0, err
	}
	if candidate <= best {
		return best, nil
	}
	if err := f.write(candidate); err != nil {
		return 0, err
	}
	return candidate, nil
}

// Close is a no-op; the file is not held open.
func (f *File) Close() error {
	return nil
}

func (f *File) read() (int, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, storageErr("cannot read record", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, storageErr("corrupt record file", err)
	}
	if n < 0 {
		return 0, storageErr("corrupt record file", fmt.Errorf("negative value %d", n))
	}
	return n, nil
}

// write replaces the file via a temp file and rename.
func (f *File) write(n int) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".record-*")
	if err != nil {
		return storageErr("cannot create temp file", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.WriteString(strconv.Itoa(n) + "\n")
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return storageErr("cannot write record", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return storageErr("cannot replace record", err)
	}
	return nil
}
