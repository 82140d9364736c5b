package gitrepo

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/temirov/forksync/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant        = "git executor not configured"
	detachedHeadMessageConstant                 = "repository is in a detached HEAD state"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitWorkTreeFlagConstant                     = "--is-inside-work-tree"
	gitAbbrevRefFlagConstant                    = "--abbrev-ref"
	gitHeadReferenceConstant                    = "HEAD"
	gitStatusSubcommandConstant                 = "status"
	gitStatusPorcelainFlagConstant              = "--porcelain"
	gitRemoteSubcommandConstant                 = "remote"
	gitRemoteGetURLSubcommandConstant           = "get-url"
	gitRemoteSetURLSubcommandConstant           = "set-url"
	gitRemoteAddSubcommandConstant              = "add"
	gitFetchSubcommandConstant                  = "fetch"
	gitRevListSubcommandConstant                = "rev-list"
	gitRevListCountFlagConstant                 = "--count"
	gitLogSubcommandConstant                    = "log"
	gitLogOnelineFlagConstant                   = "--oneline"
	gitLogMaxCountFlagConstant                  = "-n"
	gitRebaseSubcommandConstant                 = "rebase"
	gitPushSubcommandConstant                   = "push"
	gitForceWithLeaseFlagConstant               = "--force-with-lease"
	gitWorkTreeAffirmativeOutputConstant        = "true"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
	commitCountParseBaseConstant                = 10
	commitCountParseBitSizeConstant             = 64
)

// ErrExecutorNotConfigured indicates the repository manager was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ErrDetachedHead indicates the repository has no current branch to synchronize.
var ErrDetachedHead = errors.New(detachedHeadMessageConstant)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs structured git operations through a GitExecutor.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager from the provided executor.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// CheckIsRepository reports whether the path resides inside a git work tree.
func (manager *RepositoryManager) CheckIsRepository(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitWorkTreeFlagConstant)
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return false, nil
		}
		return false, executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput) == gitWorkTreeAffirmativeOutputConstant, nil
}

// CheckCleanWorktree reports whether the working tree has no uncommitted changes.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant)
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) == 0, nil
}

// GetCurrentBranch resolves the checked-out branch name.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
	if executionError != nil {
		return "", executionError
	}

	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if len(branchName) == 0 || strings.EqualFold(branchName, gitHeadReferenceConstant) {
		return "", ErrDetachedHead
	}
	return branchName, nil
}

// ListRemotes returns the configured remote names.
func (manager *RepositoryManager) ListRemotes(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitRemoteSubcommandConstant)
	if executionError != nil {
		return nil, executionError
	}

	remoteNames := []string{}
	for _, outputLine := range strings.Split(executionResult.StandardOutput, "\n") {
		remoteName := strings.TrimSpace(outputLine)
		if len(remoteName) == 0 {
			continue
		}
		remoteNames = append(remoteNames, remoteName)
	}
	return remoteNames, nil
}

// GetRemoteURL resolves the configured URL for the named remote.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, remoteName)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// SetRemoteURL rewrites the URL for the named remote.
func (manager *RepositoryManager) SetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	_, executionError := manager.runGit(executionContext, repositoryPath, gitRemoteSubcommandConstant, gitRemoteSetURLSubcommandConstant, remoteName, remoteURL)
	return executionError
}

// AddRemote configures a new remote with the provided URL.
func (manager *RepositoryManager) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	_, executionError := manager.runGit(executionContext, repositoryPath, gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, remoteName, remoteURL)
	return executionError
}

// FetchRemote retrieves refs from the named remote.
func (manager *RepositoryManager) FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error {
	_, executionError := manager.runGit(executionContext, repositoryPath, gitFetchSubcommandConstant, remoteName)
	return executionError
}

// CountCommits counts commits reachable within the provided revision range.
func (manager *RepositoryManager) CountCommits(executionContext context.Context, repositoryPath string, revisionRange string) (int, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitRevListSubcommandConstant, gitRevListCountFlagConstant, revisionRange)
	if executionError != nil {
		return 0, executionError
	}

	commitCount, parseError := strconv.ParseInt(strings.TrimSpace(executionResult.StandardOutput), commitCountParseBaseConstant, commitCountParseBitSizeConstant)
	if parseError != nil {
		return 0, parseError
	}
	return int(commitCount), nil
}

// ListCommitSummaries lists one-line commit summaries for the provided revision range.
func (manager *RepositoryManager) ListCommitSummaries(executionContext context.Context, repositoryPath string, revisionRange string) ([]string, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitLogSubcommandConstant, gitLogOnelineFlagConstant, revisionRange)
	if executionError != nil {
		return nil, executionError
	}
	return splitSummaryLines(executionResult.StandardOutput), nil
}

// ListRecentCommits lists the most recent one-line commit summaries up to the provided limit.
func (manager *RepositoryManager) ListRecentCommits(executionContext context.Context, repositoryPath string, commitLimit int) ([]string, error) {
	executionResult, executionError := manager.runGit(executionContext, repositoryPath, gitLogSubcommandConstant, gitLogOnelineFlagConstant, gitLogMaxCountFlagConstant, strconv.Itoa(commitLimit))
	if executionError != nil {
		return nil, executionError
	}
	return splitSummaryLines(executionResult.StandardOutput), nil
}

// Rebase replays local commits onto the provided upstream reference.
func (manager *RepositoryManager) Rebase(executionContext context.Context, repositoryPath string, upstreamReference string) error {
	_, executionError := manager.runGit(executionContext, repositoryPath, gitRebaseSubcommandConstant, upstreamReference)
	return executionError
}

// ForcePushWithLease force-pushes the branch to the remote, aborting when the remote moved.
func (manager *RepositoryManager) ForcePushWithLease(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	_, executionError := manager.runGit(executionContext, repositoryPath, gitPushSubcommandConstant, gitForceWithLeaseFlagConstant, remoteName, branchName)
	return executionError
}

func (manager *RepositoryManager) runGit(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	}
	return manager.executor.ExecuteGit(executionContext, commandDetails)
}

func splitSummaryLines(commandOutput string) []string {
	summaries := []string{}
	for _, outputLine := range strings.Split(commandOutput, "\n") {
		summaryLine := strings.TrimSpace(outputLine)
		if len(summaryLine) == 0 {
			continue
		}
		summaries = append(summaries, summaryLine)
	}
	return summaries
}
