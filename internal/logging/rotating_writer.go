package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// RotatingFile is an io.Writer that rotates the underlying log file
// once it would exceed maxSize bytes. Backups carry numeric suffixes,
// crawl.log.1 being the most recent.
type RotatingFile struct {
	mu         sync.Mutex
	file       *os.File
	path       string
	maxSize    int64
	maxBackups int
	written    int64
}

// NewRotatingFile opens (or creates) the log file at path.
func NewRotatingFile(path string, maxSize int64, maxBackups int) (*RotatingFile, error) {
	w := &RotatingFile{
		path:       path,
		maxSize:    maxSize,
		maxBackups: maxBackups,
	}

	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *RotatingFile) open() error {
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return err
	}

	w.file = file
	w.written = info.Size()
	return nil
}

// Write implements io.Writer
func (w *RotatingFile) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.written+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err = w.file.Write(p)
	w.written += int64(n)
	return n, err
}

// Close closes the underlying file
func (w *RotatingFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	return w.file.Close()
}

// rotate shifts every backup up one slot, dropping the oldest, then
// reopens a fresh file at the base path.
func (w *RotatingFile) rotate() error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return err
		}
		w.file = nil
	}

	_ = os.Remove(w.backupPath(w.maxBackups))

	for i := w.maxBackups - 1; i >= 1; i-- {
		from := w.backupPath(i)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, w.backupPath(i+1)); err != nil {
			return err
		}
	}

	// The current file may not exist if nothing was ever written.
	_ = os.Rename(w.path, w.backupPath(1))

	return w.open()
}

func (w *RotatingFile) backupPath(index int) string {
	return fmt.Sprintf("%s.%d", w.path, index)
}

var _ io.WriteCloser = (*RotatingFile)(nil)
