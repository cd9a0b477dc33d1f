// Package pinlog persists the IDs of posts the publisher pinned (or tried
// to pin) until the unpinner reconciles them.
package pinlog

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Log is a flat file holding one post ID per line.
type Log struct {
	path  string
	mutex sync.Mutex
}

// New returns a Log stored at path. The file is created on first Append.
func New(path string) *Log {
	return &Log{path: path}
}

// Append adds id as a new line.
func (l *Log) Append(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("empty post id")
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if err := ensureDir(l.path); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open pin-log: %w", err)
	}
	if _, err := f.WriteString(id + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to pin-log: %w", err)
	}
	return f.Close()
}

// IDs returns the logged IDs in file order. A missing file is an empty log.
func (l *Log) IDs() ([]string, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pin-log: %w", err)
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if id := strings.TrimSpace(sc.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pin-log: %w", err)
	}
	return ids, nil
}

// Truncate empties the log. A missing file is left missing.
func (l *Log) Truncate() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if err := os.Truncate(l.path, 0); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear pin-log: %w", err)
	}
	return nil
}

// Lock takes an exclusive lock shared with other processes using the same
// log, blocking until it is available. Call the returned func to release it.
func (l *Log) Lock() (func() error, error) {
	if err := ensureDir(l.path); err != nil {
		return nil, err
	}
	return lockFile(l.path + ".lock")
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create pin-log directory: %w", err)
	}
	return nil
}
