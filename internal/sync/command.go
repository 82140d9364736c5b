package sync

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/forksync/internal/gitrepo"
	"github.com/temirov/forksync/internal/utils"
	flagutils "github.com/temirov/forksync/internal/utils/flags"
)

const (
	commandUseConstant                 = "forksync [upstream-repo-url]"
	commandShortDescriptionConstant    = "Synchronize a fork with its upstream repository"
	commandLongDescriptionConstant     = "forksync ensures the upstream remote is configured, fetches it, rebases the current branch onto the upstream main line after confirmation, and force-pushes (with lease) the result to the fork."
	remoteFlagNameConstant             = "remote"
	remoteFlagDescriptionConstant      = "Name of the upstream remote"
	branchFlagNameConstant             = "branch"
	branchFlagDescriptionConstant      = "Upstream branch to rebase onto"
	dryRunFlagNameConstant             = "dry-run"
	dryRunFlagDescriptionConstant      = "Print the synchronization plan without mutating the repository"
	assumeYesFlagNameConstant          = "yes"
	assumeYesFlagShorthandConstant     = "y"
	assumeYesFlagDescriptionConstant   = "Assume affirmative answers to confirmation prompts"
	invalidUpstreamURLTemplateConstant = "invalid upstream repository URL %q: %w"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the fork synchronization command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  gitrepo.GitExecutor
	RepositoryManager            GitRepositoryManager
	Prompter                     ConfirmationPrompter
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	WorkingDirectory             string
}

// Build constructs the fork synchronization command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(remoteFlagNameConstant, DefaultCommandConfiguration().UpstreamRemote, remoteFlagDescriptionConstant)
	command.Flags().String(branchFlagNameConstant, DefaultCommandConfiguration().UpstreamBranch, branchFlagDescriptionConstant)
	flagutils.BindExecutionFlags(command, flagutils.ExecutionDefaults{}, executionFlagDefinitions())

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	upstreamURL := configuration.UpstreamURL
	if len(arguments) > 0 {
		requestedURL := strings.TrimSpace(arguments[0])
		parsedRemote, parseError := gitrepo.ParseRemoteURL(requestedURL)
		if parseError != nil {
			return fmt.Errorf(invalidUpstreamURLTemplateConstant, requestedURL, parseError)
		}
		canonicalURL, formatError := gitrepo.FormatRemoteURL(parsedRemote)
		if formatError != nil {
			return fmt.Errorf(invalidUpstreamURLTemplateConstant, requestedURL, formatError)
		}
		upstreamURL = canonicalURL
	}

	upstreamRemote := configuration.UpstreamRemote
	if command.Flags().Changed(remoteFlagNameConstant) {
		remoteFlagValue, remoteFlagError := command.Flags().GetString(remoteFlagNameConstant)
		if remoteFlagError != nil {
			return remoteFlagError
		}
		upstreamRemote = remoteFlagValue
	}

	upstreamBranch := configuration.UpstreamBranch
	if command.Flags().Changed(branchFlagNameConstant) {
		branchFlagValue, branchFlagError := command.Flags().GetString(branchFlagNameConstant)
		if branchFlagError != nil {
			return branchFlagError
		}
		upstreamBranch = branchFlagValue
	}

	executionFlags, executionFlagsError := flagutils.ResolveExecutionFlags(command, executionFlagDefinitions())
	if executionFlagsError != nil {
		return executionFlagsError
	}

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	gitExecutor, executorError := ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := ResolveRepositoryManager(builder.RepositoryManager, gitExecutor)
	if managerError != nil {
		return managerError
	}

	output := utils.NewFlushingWriter(command.OutOrStdout())
	prompter := ResolvePrompter(builder.Prompter, command.InOrStdin(), output)

	service, serviceCreationError := NewService(Dependencies{
		RepositoryManager: repositoryManager,
		Prompter:          prompter,
		Output:            output,
	})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	_, syncError := service.Sync(command.Context(), Options{
		RepositoryPath: builder.WorkingDirectory,
		UpstreamRemote: upstreamRemote,
		UpstreamURL:    upstreamURL,
		UpstreamBranch: upstreamBranch,
		OriginRemote:   configuration.OriginRemote,
		SummaryDepth:   configuration.SummaryDepth,
		DryRun:         executionFlags.DryRun,
		AssumeYes:      executionFlags.AssumeYes,
	})
	return syncError
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
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

func executionFlagDefinitions() flagutils.ExecutionFlagDefinitions {
	return flagutils.ExecutionFlagDefinitions{
		DryRun: flagutils.ExecutionFlagDefinition{
			Name:    dryRunFlagNameConstant,
			Usage:   dryRunFlagDescriptionConstant,
			Enabled: true,
		},
		AssumeYes: flagutils.ExecutionFlagDefinition{
			Name:      assumeYesFlagNameConstant,
			Usage:     assumeYesFlagDescriptionConstant,
			Shorthand: assumeYesFlagShorthandConstant,
			Enabled:   true,
		},
	}
}
