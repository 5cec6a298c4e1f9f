// Package filesystem abstracts the operating system calls used to scan reference
// directories, read ignore files, and create aggregated output files.
package filesystem

import (
	"io"
	"io/fs"
	"os"
)

const exclusiveCreateFlagsConstant = os.O_WRONLY | os.O_CREATE | os.O_EXCL

// OutputFilePermissions controls the mode of newly created aggregated files.
const OutputFilePermissions fs.FileMode = 0o644

// FileSystem exposes the filesystem operations required by discovery and aggregation.
type FileSystem interface {
	ReadDir(path string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	CreateExclusive(path string) (io.WriteCloser, error)
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// ReadDir lists the immediate entries of a directory.
func (OSFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// Stat retrieves file metadata, following symbolic links.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Open opens a file for reading.
func (OSFileSystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// CreateExclusive creates a new file for writing and fails when the path already exists.
func (OSFileSystem) CreateExclusive(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, exclusiveCreateFlagsConstant, OutputFilePermissions)
}
