package filesystem

import (
	"fmt"
	"os"
)

// EnsureDirectories creates the given directories (and parents) if they don't exist yet.
func EnsureDirectories(paths ...string) error {
	for _, path := range paths {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
