package match

import (
	pathutils "github.com/temirov/ignore-aggregator/internal/utils/path"
)

const configurationAggregatedKeyConstant = "aggregated"

// CommandConfiguration captures persisted configuration for the match command.
type CommandConfiguration struct {
	AggregatedFile string `mapstructure:"aggregated"`
}

// DefaultCommandConfiguration returns baseline configuration values for the match command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{AggregatedFile: ""}
}

// DefaultConfigurationValues produces Viper defaults for the match command under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	return map[string]any{
		rootKey + "." + configurationAggregatedKeyConstant: DefaultCommandConfiguration().AggregatedFile,
	}
}

// Sanitize expands the user's home directory in the configured aggregated file path.
func (configuration CommandConfiguration) Sanitize(expander *pathutils.HomeExpander) CommandConfiguration {
	if expander == nil {
		expander = pathutils.NewHomeExpander()
	}
	return CommandConfiguration{AggregatedFile: expander.Normalize(configuration.AggregatedFile)}
}
