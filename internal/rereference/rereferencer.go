// Package rereference rewrites ignore file patterns so they keep matching the same
// paths once they are relocated into a single aggregated file.
package rereference

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/ignore-aggregator/internal/filesystem"
	pathutils "github.com/temirov/ignore-aggregator/internal/utils/path"
)

const (
	commentMarkerConstant                 = "#"
	anchoringMarkerConstant               = "/"
	maximumLineLengthBytesConstant        = 1024 * 1024
	initialLineBufferBytesConstant        = 64 * 1024
	missingParentDirectoryMessageConstant = "ignore file path has no parent directory"
	openFailureTemplateConstant           = "failed to open ignore file %s: %w"
	readFailureTemplateConstant           = "failed to read ignore file %s: %w"
	missingParentTemplateConstant         = "%w: %q"
)

// ErrMissingParentDirectory indicates the ignore file path does not name a file inside a directory.
var ErrMissingParentDirectory = errors.New(missingParentDirectoryMessageConstant)

// Rereferencer reads ignore files and anchors their rules to the directory that defines them.
type Rereferencer struct {
	fileSystem filesystem.FileSystem
}

// NewRereferencer constructs a Rereferencer reading through the provided filesystem.
func NewRereferencer(fileSystem filesystem.FileSystem) *Rereferencer {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	return &Rereferencer{fileSystem: fileSystem}
}

// Rereference returns the rewritten rules of the ignore file in their original order.
// Comment lines are dropped and blank lines are kept as empty entries.
func (rereferencer *Rereferencer) Rereference(ignoreFilePath string) ([]string, error) {
	parentDirectory, parentError := ParentDirectory(ignoreFilePath)
	if parentError != nil {
		return nil, parentError
	}

	lines, readError := rereferencer.readLines(ignoreFilePath)
	if readError != nil {
		return nil, readError
	}

	return RereferenceLines(parentDirectory, lines), nil
}

// ParentDirectory resolves the directory containing the ignore file in the form the path was given.
// A `./` prefix is kept so rules from the reference directory stay anchored.
func ParentDirectory(ignoreFilePath string) (string, error) {
	if len(strings.TrimSpace(ignoreFilePath)) == 0 {
		return "", fmt.Errorf(missingParentTemplateConstant, ErrMissingParentDirectory, ignoreFilePath)
	}

	parentDirectory, found := pathutils.ParentVerbatim(ignoreFilePath)
	if !found {
		return "", fmt.Errorf(missingParentTemplateConstant, ErrMissingParentDirectory, ignoreFilePath)
	}
	return parentDirectory, nil
}

// RereferenceLines rewrites every non-comment line relative to parentDirectory.
func RereferenceLines(parentDirectory string, lines []string) []string {
	rewrittenPatterns := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, commentMarkerConstant) {
			continue
		}
		rewrittenPatterns = append(rewrittenPatterns, RereferencePattern(parentDirectory, line))
	}
	return rewrittenPatterns
}

// RereferencePattern strips one leading anchoring marker and appends the rule to parentDirectory.
// The rule text is kept verbatim, so `..` segments cannot reach outside the defining directory.
// A blank rule stays empty.
func RereferencePattern(parentDirectory string, pattern string) string {
	if len(strings.TrimSpace(pattern)) == 0 {
		return ""
	}
	return pathutils.JoinVerbatim(parentDirectory, strings.TrimPrefix(pattern, anchoringMarkerConstant))
}

func (rereferencer *Rereferencer) readLines(ignoreFilePath string) ([]string, error) {
	reader, openError := rereferencer.fileSystem.Open(ignoreFilePath)
	if openError != nil {
		return nil, fmt.Errorf(openFailureTemplateConstant, ignoreFilePath, openError)
	}
	defer reader.Close()

	lineScanner := bufio.NewScanner(reader)
	lineScanner.Buffer(make([]byte, 0, initialLineBufferBytesConstant), maximumLineLengthBytesConstant)

	var lines []string
	for lineScanner.Scan() {
		lines = append(lines, lineScanner.Text())
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil, fmt.Errorf(readFailureTemplateConstant, ignoreFilePath, scanError)
	}
	return lines, nil
}
