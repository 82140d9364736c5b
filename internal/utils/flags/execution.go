// Package flags provides helpers for binding standardized execution flags to Cobra commands.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	DryRun    bool
	AssumeYes bool
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
	DryRun    ExecutionFlagDefinition
	AssumeYes ExecutionFlagDefinition
}

// ExecutionFlagValues carries resolved execution flag values.
type ExecutionFlagValues struct {
	DryRun    bool
	AssumeYes bool
}

// BindExecutionFlags attaches standardized execution flags to the provided command.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	flagSet := command.Flags()

	bindBoolFlag(flagSet, definitions.DryRun, defaults.DryRun)
	bindBoolFlag(flagSet, definitions.AssumeYes, defaults.AssumeYes)
}

// ResolveExecutionFlags reads the bound execution flags back from the command.
func ResolveExecutionFlags(command *cobra.Command, definitions ExecutionFlagDefinitions) (ExecutionFlagValues, error) {
	values := ExecutionFlagValues{}
	if command == nil {
		return values, nil
	}

	if definitions.DryRun.Enabled && len(definitions.DryRun.Name) > 0 {
		dryRunValue, dryRunError := command.Flags().GetBool(definitions.DryRun.Name)
		if dryRunError != nil {
			return ExecutionFlagValues{}, dryRunError
		}
		values.DryRun = dryRunValue
	}

	if definitions.AssumeYes.Enabled && len(definitions.AssumeYes.Name) > 0 {
		assumeYesValue, assumeYesError := command.Flags().GetBool(definitions.AssumeYes.Name)
		if assumeYesError != nil {
			return ExecutionFlagValues{}, assumeYesError
		}
		values.AssumeYes = assumeYesValue
	}

	return values, nil
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

	if len(definition.Shorthand) > 0 {
		flagSet.BoolP(definition.Name, definition.Shorthand, defaultValue, definition.Usage)
		return
	}

	flagSet.Bool(definition.Name, defaultValue, definition.Usage)
}
