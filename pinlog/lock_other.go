//go:build !unix

package pinlog

import (
	"fmt"
	"os"
)

// lockFile only creates the lock file; advisory locking is unix-only.
func lockFile(path string) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	return f.Close, nil
}
