// Package cli constructs the ignore-aggregator command-line interface, wiring
// the Cobra command hierarchy, the Viper configuration loader, and zap logging.
// Embedded defaults are merged beneath configuration files, environment
// variables prefixed with IGNOREAGGREGATOR, and explicit flags.
package cli
