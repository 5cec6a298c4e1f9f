package aggregate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/ignore-aggregator/internal/filesystem"
)

const (
	referenceDirectoryRequiredMessageConstant = "reference directory must be provided"
	outputPathRequiredMessageConstant         = "output file path must be provided"
	invalidReferenceDirectoryTemplateConstant = "Invalid reference directory %s"
	outputAlreadyExistsTemplateConstant       = "Invalid output file. %s already exists."
	outputParentMissingTemplateConstant       = "Invalid output path, couldn't find directory to create output file. (%s not found)"
)

// ErrReferenceDirectoryRequired indicates the reference directory option was empty.
var ErrReferenceDirectoryRequired = errors.New(referenceDirectoryRequiredMessageConstant)

// ErrOutputPathRequired indicates the output path option was empty.
var ErrOutputPathRequired = errors.New(outputPathRequiredMessageConstant)

// ValidationError reports operator input rejected before any filesystem mutation.
type ValidationError struct {
	Message string
}

// Error returns the operator-facing validation message.
func (validationError ValidationError) Error() string {
	return validationError.Message
}

// ValidateInputs checks the reference directory and output path preconditions in order.
func ValidateInputs(fileSystem filesystem.FileSystem, referenceDirectory string, outputPath string) error {
	if len(referenceDirectory) == 0 {
		return ErrReferenceDirectoryRequired
	}
	if len(outputPath) == 0 {
		return ErrOutputPathRequired
	}

	referenceInfo, referenceStatError := fileSystem.Stat(referenceDirectory)
	if referenceStatError != nil || !referenceInfo.IsDir() {
		return ValidationError{Message: fmt.Sprintf(invalidReferenceDirectoryTemplateConstant, referenceDirectory)}
	}

	if _, outputStatError := fileSystem.Stat(outputPath); outputStatError == nil {
		return ValidationError{Message: fmt.Sprintf(outputAlreadyExistsTemplateConstant, outputPath)}
	}

	outputParent, hasParent := outputParentDirectory(outputPath)
	if !hasParent {
		return nil
	}
	if _, parentStatError := fileSystem.Stat(outputParent); parentStatError != nil {
		return ValidationError{Message: fmt.Sprintf(outputParentMissingTemplateConstant, outputParent)}
	}

	return nil
}

// outputParentDirectory returns the directory component of outputPath; a bare file name has none.
func outputParentDirectory(outputPath string) (string, bool) {
	if !strings.ContainsRune(outputPath, os.PathSeparator) && !strings.ContainsRune(outputPath, '/') {
		return "", false
	}
	return filepath.Dir(outputPath), true
}
