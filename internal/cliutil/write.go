// Package cliutil provides utilities for CLI operations.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/erraggy/oasgen/internal/fileutil"
	"github.com/erraggy/oasgen/internal/pathutil"
)

// StdinPath is the argument that selects standard input.
const StdinPath = "-"

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// WriteOutput writes data to path, creating parent directories, or to w when
// path is empty. Output to w always ends with a newline.
func WriteOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		if _, err := w.Write(data); err != nil {
			return err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}
	path, err := pathutil.OutputFile(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, fileutil.OutputDir); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, fileutil.OutputFile); err != nil { //nolint:gosec // G306: generated documents are not secrets
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// ReadInput reads the file at path, or r when path is StdinPath.
func ReadInput(r io.Reader, path string) ([]byte, error) {
	if path == StdinPath {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	return os.ReadFile(path) //nolint:gosec // G304: caller-supplied input path
}
