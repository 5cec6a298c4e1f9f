package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/ignore-aggregator/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/operator"

func TestHomeExpanderNormalize(testInstance *testing.T) {
	testCases := []struct {
		name         string
		candidate    string
		expectedPath string
	}{
		{name: "bareTilde", candidate: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tildePrefix", candidate: "~/projects/app", expectedPath: filepath.Join(testHomeDirectoryConstant, "projects", "app")},
		{name: "surroundingWhitespaceIsKept", candidate: " proj ", expectedPath: " proj "},
		{name: "trailingWhitespaceAfterTilde", candidate: "~/ out", expectedPath: filepath.Join(testHomeDirectoryConstant, " out")},
		{name: "otherUserIsUntouched", candidate: "~someone/projects", expectedPath: "~someone/projects"},
		{name: "absolutePathIsUntouched", candidate: "/srv/projects", expectedPath: "/srv/projects"},
		{name: "relativePathIsNotCleaned", candidate: "./projects/", expectedPath: "./projects/"},
		{name: "whitespaceOnlyPath", candidate: "   ", expectedPath: "   "},
		{name: "emptyPath", candidate: "", expectedPath: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
				return testHomeDirectoryConstant, nil
			})
			require.Equal(testInstance, testCase.expectedPath, expander.Normalize(testCase.candidate))
		})
	}
}

func TestHomeExpanderKeepsPathWhenHomeUnavailable(testInstance *testing.T) {
	lookupCount := 0
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		lookupCount++
		return "", errors.New("home unavailable")
	})

	require.Equal(testInstance, "~/projects", expander.Expand("~/projects"))
	require.Equal(testInstance, "~", expander.Expand("~"))
	require.Equal(testInstance, 1, lookupCount)
}
