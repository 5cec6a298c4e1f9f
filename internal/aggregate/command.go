package aggregate

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ignore-aggregator/internal/filesystem"
	flagutils "github.com/temirov/ignore-aggregator/internal/utils/flags"
	pathutils "github.com/temirov/ignore-aggregator/internal/utils/path"
)

const (
	commandUseNameConstant                   = "aggregate"
	commandShortDescriptionConstant          = "Combine every .gitignore beneath a directory into one file"
	commandLongDescriptionConstant           = "aggregate scans the reference directory for .gitignore files, rewrites each rule so it stays anchored to the directory that defined it, and writes all rules into a newly created output file preceded by a comment naming their source. The output file must not exist."
	commandExampleConstant                   = "ignore-aggregator aggregate --reference-directory ~/Development/app --output-aggregated /tmp/app.gitignore"
	referenceDirectoryFlagNameConstant       = "reference-directory"
	referenceDirectoryFlagShorthandConstant  = "r"
	referenceDirectoryFlagUsageConstant      = "Root directory to scan for .gitignore files"
	outputAggregatedFlagNameConstant         = "output-aggregated"
	outputAggregatedFlagShorthandConstant    = "o"
	outputAggregatedFlagUsageConstant        = "Destination file to create; must not already exist"
	missingReferenceDirectoryMessageConstant = "reference directory is required; provide --reference-directory or configure tools.aggregate.reference_directory"
	missingOutputAggregatedMessageConstant   = "output file is required; provide --output-aggregated or configure tools.aggregate.output_aggregated"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the aggregate command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	FileSystem            filesystem.FileSystem
	HomeExpander          *pathutils.HomeExpander
}

// Build constructs the aggregate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseNameConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		Example:       commandExampleConstant,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          builder.run,
	}

	command.Flags().StringP(referenceDirectoryFlagNameConstant, referenceDirectoryFlagShorthandConstant, "", referenceDirectoryFlagUsageConstant)
	command.Flags().StringP(outputAggregatedFlagNameConstant, outputAggregatedFlagShorthandConstant, "", outputAggregatedFlagUsageConstant)
	flagutils.BindExecutionFlags(command, flagutils.ExecutionDefaults{}, flagutils.DefaultExecutionFlagDefinitions())

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration(command)

	if len(strings.TrimSpace(configuration.ReferenceDirectory)) == 0 {
		return errors.New(missingReferenceDirectoryMessageConstant)
	}
	if len(strings.TrimSpace(configuration.OutputAggregated)) == 0 {
		return errors.New(missingOutputAggregatedMessageConstant)
	}

	service, serviceError := NewService(ServiceDependencies{
		FileSystem: builder.resolveFileSystem(),
		Logger:     builder.resolveLogger(),
	})
	if serviceError != nil {
		return serviceError
	}

	var progressWriter io.Writer = command.OutOrStdout()
	if configuration.DryRun {
		progressWriter = command.ErrOrStderr()
	}

	_, aggregationError := service.Aggregate(Options{
		ReferenceDirectory: configuration.ReferenceDirectory,
		OutputPath:         configuration.OutputAggregated,
		DryRun:             configuration.DryRun,
		ProgressWriter:     progressWriter,
		DryRunWriter:       command.OutOrStdout(),
	})
	return aggregationError
}

// resolveConfiguration overlays explicitly supplied flags on the configured values.
func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagSet := command.Flags()
	if flagSet.Changed(referenceDirectoryFlagNameConstant) {
		configuration.ReferenceDirectory, _ = flagSet.GetString(referenceDirectoryFlagNameConstant)
	}
	if flagSet.Changed(outputAggregatedFlagNameConstant) {
		configuration.OutputAggregated, _ = flagSet.GetString(outputAggregatedFlagNameConstant)
	}
	if executionFlags, available := flagutils.ResolveExecutionFlags(command); available && executionFlags.DryRunSet {
		configuration.DryRun = executionFlags.DryRun
	}

	return configuration.Sanitize(builder.HomeExpander)
}

func (builder *CommandBuilder) resolveFileSystem() filesystem.FileSystem {
	if builder.FileSystem == nil {
		return filesystem.OSFileSystem{}
	}
	return builder.FileSystem
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
