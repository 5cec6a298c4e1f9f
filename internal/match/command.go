package match

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ignore-aggregator/internal/filesystem"
	pathutils "github.com/temirov/ignore-aggregator/internal/utils/path"
)

const (
	commandUseNameConstant                = "match <path>..."
	commandShortDescriptionConstant       = "Report which paths an aggregated ignore file excludes"
	commandLongDescriptionConstant        = "match compiles an aggregated ignore file and prints, for every supplied path, whether it is ignored and which aggregated rule ignores it. Paths are matched as given, so pass them in the same form the aggregated rules were written in."
	commandExampleConstant                = "ignore-aggregator match --aggregated /tmp/app.gitignore ~/Development/app/build/main.o"
	aggregatedFlagNameConstant            = "aggregated"
	aggregatedFlagShorthandConstant       = "a"
	aggregatedFlagUsageConstant           = "Aggregated ignore file to check paths against"
	ignoredMessageTemplateConstant        = "IGNORED: %s (line %d: %s)"
	notIgnoredMessageTemplateConstant     = "NOT IGNORED: %s"
	missingAggregatedFileTemplateConstant = "aggregated file is required; provide --%s or configure tools.match.aggregated"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the match command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	FileSystem            filesystem.FileSystem
	HomeExpander          *pathutils.HomeExpander
}

// Build constructs the match command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseNameConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		Example:       commandExampleConstant,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          builder.run,
	}

	command.Flags().StringP(aggregatedFlagNameConstant, aggregatedFlagShorthandConstant, "", aggregatedFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration(command)
	if len(strings.TrimSpace(configuration.AggregatedFile)) == 0 {
		return fmt.Errorf(missingAggregatedFileTemplateConstant, aggregatedFlagNameConstant)
	}

	expander := builder.HomeExpander
	if expander == nil {
		expander = pathutils.NewHomeExpander()
	}
	candidatePaths := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		candidatePaths = append(candidatePaths, expander.Normalize(argument))
	}

	service := NewService(builder.FileSystem, builder.resolveLogger())
	results, matchError := service.Match(configuration.AggregatedFile, candidatePaths)
	if matchError != nil {
		return matchError
	}

	for _, result := range results {
		if result.Ignored {
			fmt.Fprintf(command.OutOrStdout(), ignoredMessageTemplateConstant+"\n", result.Path, result.LineNumber, result.MatchedRule)
			continue
		}
		fmt.Fprintf(command.OutOrStdout(), notIgnoredMessageTemplateConstant+"\n", result.Path)
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	if command.Flags().Changed(aggregatedFlagNameConstant) {
		configuration.AggregatedFile, _ = command.Flags().GetString(aggregatedFlagNameConstant)
	}
	return configuration.Sanitize(builder.HomeExpander)
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
