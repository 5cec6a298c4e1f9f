package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// changeWorkingDirectory switches into directory for the duration of the test, like testing.T.Chdir (Go 1.24+).
func changeWorkingDirectory(testInstance *testing.T, directory string) {
	testInstance.Helper()
	previousDirectory, getwdError := os.Getwd()
	require.NoError(testInstance, getwdError)
	require.NoError(testInstance, os.Chdir(directory))
	testInstance.Cleanup(func() {
		require.NoError(testInstance, os.Chdir(previousDirectory))
	})
}
