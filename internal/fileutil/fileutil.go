// Package fileutil holds the file modes shared by every writer of
// generated output.
package fileutil

import "os"

// OutputFile is the mode of written documents and generated Go sources.
const OutputFile os.FileMode = 0o644

// OutputDir is the mode of directories created for generated output.
const OutputDir os.FileMode = 0o755
