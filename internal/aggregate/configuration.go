package aggregate

import (
	pathutils "github.com/temirov/ignore-aggregator/internal/utils/path"
)

const (
	configurationReferenceDirectoryKeyConstant = "reference_directory"
	configurationOutputAggregatedKeyConstant   = "output_aggregated"
	configurationDryRunKeyConstant             = "dry_run"
)

// CommandConfiguration captures persisted configuration for the aggregate command.
type CommandConfiguration struct {
	ReferenceDirectory string `mapstructure:"reference_directory"`
	OutputAggregated   string `mapstructure:"output_aggregated"`
	DryRun             bool   `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration returns baseline configuration values for the aggregate command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ReferenceDirectory: "",
		OutputAggregated:   "",
		DryRun:             false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the aggregate command under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationReferenceDirectoryKeyConstant: defaults.ReferenceDirectory,
		rootKey + "." + configurationOutputAggregatedKeyConstant:   defaults.OutputAggregated,
		rootKey + "." + configurationDryRunKeyConstant:             defaults.DryRun,
	}
}

// Sanitize expands the user's home directory in configured paths, which are otherwise kept as given.
func (configuration CommandConfiguration) Sanitize(expander *pathutils.HomeExpander) CommandConfiguration {
	if expander == nil {
		expander = pathutils.NewHomeExpander()
	}
	sanitized := configuration
	sanitized.ReferenceDirectory = expander.Normalize(configuration.ReferenceDirectory)
	sanitized.OutputAggregated = expander.Normalize(configuration.OutputAggregated)
	return sanitized
}
