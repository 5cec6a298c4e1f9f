// Package flags provides helpers for binding standardized execution flags to Cobra commands.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Print the aggregated output instead of creating the output file"
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	DryRun bool
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	DryRun ExecutionFlagDefinition
}

// ExecutionFlags reports the execution flag values supplied on the command line.
type ExecutionFlags struct {
	DryRun    bool
	DryRunSet bool
}

// DefaultExecutionFlagDefinitions enables the dry-run flag with its shared name and usage.
func DefaultExecutionFlagDefinitions() ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		DryRun: ExecutionFlagDefinition{Name: DryRunFlagName, Usage: DryRunFlagUsage, Enabled: true},
	}
}

// BindExecutionFlags attaches standardized execution flags to the provided command.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	bindBoolFlag(command.Flags(), definitions.DryRun, defaults.DryRun)
}

// ResolveExecutionFlags reads execution flag values from the command, reporting whether any were bound.
func ResolveExecutionFlags(command *cobra.Command) (ExecutionFlags, bool) {
	if command == nil {
		return ExecutionFlags{}, false
	}

	dryRunFlag := command.Flags().Lookup(DryRunFlagName)
	if dryRunFlag == nil {
		return ExecutionFlags{}, false
	}

	dryRunValue, parseError := command.Flags().GetBool(DryRunFlagName)
	if parseError != nil {
		return ExecutionFlags{}, false
	}

	return ExecutionFlags{DryRun: dryRunValue, DryRunSet: dryRunFlag.Changed}, true
}

func bindBoolFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition, defaultValue bool) {
	if flagSet == nil {
		return
	}
	if !definition.Enabled {
		return
	}
	if len(definition.Name) == 0 {
		return
	}
	if flagSet.Lookup(definition.Name) != nil {
		return
	}

	if len(definition.Shorthand) > 0 {
		flagSet.BoolP(definition.Name, definition.Shorthand, defaultValue, definition.Usage)
		return
	}

	flagSet.Bool(definition.Name, defaultValue, definition.Usage)
}
