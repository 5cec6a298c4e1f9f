package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ignore-aggregator/internal/filesystem"
	pathutils "github.com/temirov/ignore-aggregator/internal/utils/path"
)

const (
	testIgnoreFileNameConstant        = ".gitignore"
	testOutputFileNameConstant        = "aggregated.gitignore"
	testConfigurationFileNameConstant = "config.yaml"
	testQuietLogLevelArgumentConstant = "--log-level=error"
)

type applicationRun struct {
	standardOutput string
	standardError  string
	executionError error
}

func runApplication(testInstance *testing.T, searchPath string, arguments ...string) applicationRun {
	testInstance.Helper()

	application := newApplication(filesystem.OSFileSystem{}, pathutils.NewHomeExpander(), []string{searchPath})
	standardOutput := &bytes.Buffer{}
	standardError := &bytes.Buffer{}
	application.rootCommand.SetOut(standardOutput)
	application.rootCommand.SetErr(standardError)
	application.rootCommand.SetArgs(arguments)

	executionError := application.Execute()
	return applicationRun{
		standardOutput: standardOutput.String(),
		standardError:  standardError.String(),
		executionError: executionError,
	}
}

func createReferenceTree(testInstance *testing.T) string {
	testInstance.Helper()

	referenceDirectory := testInstance.TempDir()
	nestedDirectory := filepath.Join(referenceDirectory, "service")
	require.NoError(testInstance, os.MkdirAll(nestedDirectory, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(referenceDirectory, testIgnoreFileNameConstant), []byte("*.log\n"), 0o644))
	require.NoError(testInstance, os.WriteFile(filepath.Join(nestedDirectory, testIgnoreFileNameConstant), []byte("# build output\n/bin\n"), 0o644))
	return referenceDirectory
}

func TestApplicationAggregateWithFlags(testInstance *testing.T) {
	referenceDirectory := createReferenceTree(testInstance)
	outputPath := filepath.Join(testInstance.TempDir(), testOutputFileNameConstant)

	run := runApplication(testInstance, testInstance.TempDir(), testQuietLogLevelArgumentConstant, "aggregate", "-r", referenceDirectory, "-o", outputPath)
	require.NoError(testInstance, run.executionError)
	require.Contains(testInstance, run.standardOutput, "Scanning for .gitignore files")
	require.Contains(testInstance, run.standardOutput, "Found 2 git ignore files")

	content, readError := os.ReadFile(outputPath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(content), filepath.Join(referenceDirectory, "*.log"))
	require.Contains(testInstance, string(content), filepath.Join(referenceDirectory, "service", "bin"))
	require.NotContains(testInstance, string(content), "build output")
}

func TestApplicationAggregateFromConfigurationFile(testInstance *testing.T) {
	referenceDirectory := createReferenceTree(testInstance)
	outputPath := filepath.Join(testInstance.TempDir(), testOutputFileNameConstant)
	configurationDirectory := testInstance.TempDir()
	configurationContent := "common:\n  log_level: error\ntools:\n  aggregate:\n    reference_directory: " + referenceDirectory + "\n    output_aggregated: " + outputPath + "\n"
	require.NoError(testInstance, os.WriteFile(filepath.Join(configurationDirectory, testConfigurationFileNameConstant), []byte(configurationContent), 0o600))

	run := runApplication(testInstance, configurationDirectory, "aggregate")
	require.NoError(testInstance, run.executionError)
	require.FileExists(testInstance, outputPath)
}

func TestApplicationAggregateFromEnvironment(testInstance *testing.T) {
	referenceDirectory := createReferenceTree(testInstance)
	outputPath := filepath.Join(testInstance.TempDir(), testOutputFileNameConstant)
	testInstance.Setenv("IGNOREAGGREGATOR_TOOLS_AGGREGATE_REFERENCE_DIRECTORY", referenceDirectory)
	testInstance.Setenv("IGNOREAGGREGATOR_TOOLS_AGGREGATE_OUTPUT_AGGREGATED", outputPath)

	run := runApplication(testInstance, testInstance.TempDir(), testQuietLogLevelArgumentConstant, "aggregate")
	require.NoError(testInstance, run.executionError)
	require.FileExists(testInstance, outputPath)
}

func TestApplicationAggregateDryRunWritesNothing(testInstance *testing.T) {
	referenceDirectory := createReferenceTree(testInstance)
	outputPath := filepath.Join(testInstance.TempDir(), testOutputFileNameConstant)

	run := runApplication(testInstance, testInstance.TempDir(), testQuietLogLevelArgumentConstant, "aggregate", "-r", referenceDirectory, "-o", outputPath, "--dry-run")
	require.NoError(testInstance, run.executionError)
	require.Contains(testInstance, run.standardOutput, "# "+filepath.Join(referenceDirectory, testIgnoreFileNameConstant))
	require.Contains(testInstance, run.standardError, "Found 2 git ignore files")
	require.NoFileExists(testInstance, outputPath)
}

func TestApplicationAggregateThenMatch(testInstance *testing.T) {
	referenceDirectory := createReferenceTree(testInstance)
	outputPath := filepath.Join(testInstance.TempDir(), testOutputFileNameConstant)
	searchPath := testInstance.TempDir()

	aggregateRun := runApplication(testInstance, searchPath, testQuietLogLevelArgumentConstant, "aggregate", "-r", referenceDirectory, "-o", outputPath)
	require.NoError(testInstance, aggregateRun.executionError)

	ignoredPath := filepath.Join(referenceDirectory, "service", "bin", "server")
	keptPath := filepath.Join(referenceDirectory, "bin", "server")
	matchRun := runApplication(testInstance, searchPath, testQuietLogLevelArgumentConstant, "match", "-a", outputPath, ignoredPath, keptPath)
	require.NoError(testInstance, matchRun.executionError)
	require.Contains(testInstance, matchRun.standardOutput, "IGNORED: "+ignoredPath)
	require.Contains(testInstance, matchRun.standardOutput, "NOT IGNORED: "+keptPath)
}

func TestApplicationReportsValidationErrors(testInstance *testing.T) {
	missingDirectory := filepath.Join(testInstance.TempDir(), "missing")
	outputPath := filepath.Join(testInstance.TempDir(), testOutputFileNameConstant)

	run := runApplication(testInstance, testInstance.TempDir(), testQuietLogLevelArgumentConstant, "aggregate", "-r", missingDirectory, "-o", outputPath)
	require.EqualError(testInstance, run.executionError, "Invalid reference directory "+missingDirectory)
}

func TestApplicationRejectsUnsupportedLogLevel(testInstance *testing.T) {
	run := runApplication(testInstance, testInstance.TempDir(), "--log-level=loud", "aggregate")
	require.EqualError(testInstance, run.executionError, "unable to create logger: unsupported log level: loud")
}

func TestApplicationRootPrintsHelp(testInstance *testing.T) {
	run := runApplication(testInstance, testInstance.TempDir(), testQuietLogLevelArgumentConstant)
	require.NoError(testInstance, run.executionError)
	require.Contains(testInstance, run.standardOutput, "aggregate")
	require.Contains(testInstance, run.standardOutput, "match")
}

func TestApplicationAggregateCurrentDirectoryKeepsRulesAnchored(testInstance *testing.T) {
	referenceDirectory := createReferenceTree(testInstance)
	require.NoError(testInstance, os.WriteFile(filepath.Join(referenceDirectory, testIgnoreFileNameConstant), []byte("/build\n"), 0o644))
	outputPath := filepath.Join(testInstance.TempDir(), testOutputFileNameConstant)
	searchPath := testInstance.TempDir()
	changeWorkingDirectory(testInstance, referenceDirectory)

	aggregateRun := runApplication(testInstance, searchPath, testQuietLogLevelArgumentConstant, "aggregate", "-r", ".", "-o", outputPath)
	require.NoError(testInstance, aggregateRun.executionError)

	content, readError := os.ReadFile(outputPath)
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(content), "# ./.gitignore\n./build\n")
	require.Contains(testInstance, string(content), "# ./service/.gitignore\n./service/bin\n")

	matchRun := runApplication(testInstance, searchPath, testQuietLogLevelArgumentConstant, "match", "-a", outputPath, "./build/app", "./service/build")
	require.NoError(testInstance, matchRun.executionError)
	require.Contains(testInstance, matchRun.standardOutput, "IGNORED: ./build/app (line 2: ./build)")
	require.Contains(testInstance, matchRun.standardOutput, "NOT IGNORED: ./service/build")
}
