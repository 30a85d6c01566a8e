package pathutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// OutputFile resolves the file a document or client is written to. The
// result is absolute and cleaned. Existing symlinks and directories are
// refused; a path that does not exist yet is accepted.
func OutputFile(path string) (string, error) {
	if path == "" {
		return "", errors.New("pathutil: empty output path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("pathutil: resolve %s: %w", path, err)
	}
	info, err := os.Lstat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return abs, nil
	}
	if err != nil {
		return "", fmt.Errorf("pathutil: stat %s: %w", abs, err)
	}
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		return "", fmt.Errorf("pathutil: refusing to write through symlink %s", abs)
	case info.IsDir():
		return "", fmt.Errorf("pathutil: %s is a directory", abs)
	}
	return abs, nil
}
