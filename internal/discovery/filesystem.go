// Package discovery locates ignore files beneath a reference directory.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/temirov/ignore-aggregator/internal/filesystem"
	pathutils "github.com/temirov/ignore-aggregator/internal/utils/path"
)

const (
	// IgnoreFileNameConstant is the exact file name collected during discovery.
	IgnoreFileNameConstant                      = ".gitignore"
	rootDirectoryRequiredMessageConstant        = "reference directory must be provided"
	rootDirectoryListingErrorTemplateConstant   = "failed reading reference directory %s: %w"
	directorySkippedMessageConstant             = "Failed reading directory, skipping"
	symbolicLinkResolutionFailedMessageConstant = "Failed resolving symbolic link, skipping"
	ignoreFileDiscoveredMessageConstant         = "Discovered ignore file"
	logFieldDirectoryConstant                   = "directory"
	logFieldPathConstant                        = "path"
)

// ErrRootDirectoryRequired indicates an empty reference directory was supplied.
var ErrRootDirectoryRequired = errors.New(rootDirectoryRequiredMessageConstant)

// FilesystemIgnoreFileDiscoverer walks directory trees with an explicit work list and collects ignore files.
type FilesystemIgnoreFileDiscoverer struct {
	fileSystem filesystem.FileSystem
	logger     *zap.Logger
}

// NewFilesystemIgnoreFileDiscoverer constructs a discoverer backed by the provided filesystem and logger.
func NewFilesystemIgnoreFileDiscoverer(fileSystem filesystem.FileSystem, logger *zap.Logger) *FilesystemIgnoreFileDiscoverer {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesystemIgnoreFileDiscoverer{fileSystem: fileSystem, logger: logger}
}

// DiscoverIgnoreFiles returns the path of every file named .gitignore beneath rootDirectory, rootDirectory included.
// Directories other than the root that cannot be listed are logged and skipped. The order of the result is unspecified.
// Paths keep the form of rootDirectory: a root of `.` yields `./.gitignore`.
func (discoverer *FilesystemIgnoreFileDiscoverer) DiscoverIgnoreFiles(rootDirectory string) ([]string, error) {
	if len(rootDirectory) == 0 {
		return nil, ErrRootDirectoryRequired
	}

	pendingDirectories := []string{rootDirectory}
	var ignoreFilePaths []string

	for len(pendingDirectories) > 0 {
		lastIndex := len(pendingDirectories) - 1
		directoryPath := pendingDirectories[lastIndex]
		pendingDirectories = pendingDirectories[:lastIndex]

		directoryEntries, readError := discoverer.fileSystem.ReadDir(directoryPath)
		if readError != nil {
			if directoryPath == rootDirectory {
				return nil, fmt.Errorf(rootDirectoryListingErrorTemplateConstant, rootDirectory, readError)
			}
			discoverer.logger.Warn(
				directorySkippedMessageConstant,
				zap.String(logFieldDirectoryConstant, directoryPath),
				zap.Error(readError),
			)
			continue
		}

		for _, directoryEntry := range directoryEntries {
			entryPath := pathutils.JoinVerbatim(directoryPath, directoryEntry.Name())

			switch {
			case directoryEntry.IsDir():
				pendingDirectories = append(pendingDirectories, entryPath)
			case directoryEntry.Name() != IgnoreFileNameConstant:
				continue
			case directoryEntry.Type().IsRegular():
				ignoreFilePaths = append(ignoreFilePaths, entryPath)
				discoverer.logger.Debug(ignoreFileDiscoveredMessageConstant, zap.String(logFieldPathConstant, entryPath))
			case directoryEntry.Type()&fs.ModeSymlink != 0:
				if discoverer.symbolicLinkTargetsRegularFile(entryPath) {
					ignoreFilePaths = append(ignoreFilePaths, entryPath)
					discoverer.logger.Debug(ignoreFileDiscoveredMessageConstant, zap.String(logFieldPathConstant, entryPath))
				}
			}
		}
	}

	return ignoreFilePaths, nil
}

func (discoverer *FilesystemIgnoreFileDiscoverer) symbolicLinkTargetsRegularFile(linkPath string) bool {
	targetInfo, statError := discoverer.fileSystem.Stat(linkPath)
	if statError != nil {
		discoverer.logger.Warn(
			symbolicLinkResolutionFailedMessageConstant,
			zap.String(logFieldPathConstant, linkPath),
			zap.Error(statError),
		)
		return false
	}
	return targetInfo.Mode().IsRegular()
}
