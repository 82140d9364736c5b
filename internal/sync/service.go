package sync

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	defaultRepositoryPathConstant           = "."
	revisionRangeTemplateConstant           = "%s..%s"
	upstreamReferenceTemplateConstant       = "%s/%s"
	remoteAddedMessageTemplateConstant      = "SYNC-REMOTE-ADDED: %s -> %s\n"
	remoteUpdatedMessageTemplateConstant    = "SYNC-REMOTE-UPDATED: %s -> %s\n"
	remoteKeptMessageTemplateConstant       = "SYNC-REMOTE-KEPT: %s stays at %s\n"
	upToDateMessageTemplateConstant         = "SYNC-UP-TO-DATE: %s is current with %s\n"
	planMessageTemplateConstant             = "PLAN-SYNC: rebase %s onto %s (behind %d, preserving %d), then push to %s/%s\n"
	planRemoteAddMessageTemplateConstant    = "PLAN-REMOTE-ADD: %s -> %s\n"
	planRemoteUpdateMessageTemplateConstant = "PLAN-REMOTE-UPDATE: %s %s -> %s\n"
	planPendingFetchMessageTemplateConstant = "PLAN-SYNC: fetch %s, rebase %s onto %s, then push to %s/%s\n"
	preservedCommitsHeaderTemplateConstant  = "Local commits to preserve (%d):\n"
	preservedCommitLineTemplateConstant     = "  %s\n"
	rebaseConflictGuidanceTemplateConstant  = "SYNC-REBASE-CONFLICT: resolve conflicts, then run: git rebase --continue\nOnce the rebase finishes, push with: git push --force-with-lease %s %s\n"
	pushSkippedGuidanceTemplateConstant     = "SYNC-PUSH-SKIPPED: push manually with: git push --force-with-lease %s %s\n"
	pushRejectedGuidanceTemplateConstant    = "SYNC-PUSH-REJECTED: inspect the remote, then retry with: git push --force-with-lease %s %s\n"
	syncDoneMessageTemplateConstant         = "SYNC-DONE: %s rebased onto %s (behind %d, preserved %d) and pushed to %s\n"
	recentHistoryHeaderMessageConstant      = "Recent history:\n"
	updateRemotePromptTemplateConstant      = "Remote %s points to %s; update to %s? [y/N] "
	rebasePromptTemplateConstant            = "Rebase %s onto %s? [y/N] "
	pushPromptTemplateConstant              = "Force-push (with lease) %s to %s? [y/N] "
	repositoryCheckFailureTemplateConstant  = "failed to inspect repository: %w"
	cleanCheckFailureTemplateConstant       = "failed to verify clean worktree: %w"
	branchResolutionFailureTemplateConstant = "failed to resolve current branch: %w"
	remoteListFailureTemplateConstant       = "failed to list remotes: %w"
	remoteURLFailureTemplateConstant        = "failed to read URL of remote %s: %w"
	remoteConfigureFailureTemplateConstant  = "failed to configure remote %s: %w"
	divergenceFailureTemplateConstant       = "failed to compute divergence against %s: %w"
	preservedListFailureTemplateConstant    = "failed to list local commits: %w"
	confirmationFailureTemplateConstant     = "failed to read confirmation: %w"
	summaryListFailureTemplateConstant      = "failed to list recent commits: %w"
)

// GitRepositoryManager enumerates the git operations the synchronization pipeline requires.
type GitRepositoryManager interface {
	CheckIsRepository(executionContext context.Context, repositoryPath string) (bool, error)
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	ListRemotes(executionContext context.Context, repositoryPath string) ([]string, error)
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
	SetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error
	AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error
	FetchRemote(executionContext context.Context, repositoryPath string, remoteName string) error
	CountCommits(executionContext context.Context, repositoryPath string, revisionRange string) (int, error)
	ListCommitSummaries(executionContext context.Context, repositoryPath string, revisionRange string) ([]string, error)
	ListRecentCommits(executionContext context.Context, repositoryPath string, commitLimit int) ([]string, error)
	Rebase(executionContext context.Context, repositoryPath string, upstreamReference string) error
	ForcePushWithLease(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
}

// Dependencies enumerates external collaborators required for synchronization.
type Dependencies struct {
	RepositoryManager GitRepositoryManager
	Prompter          ConfirmationPrompter
	Output            io.Writer
}

// Options configures a fork synchronization run.
type Options struct {
	RepositoryPath string
	UpstreamRemote string
	UpstreamURL    string
	UpstreamBranch string
	OriginRemote   string
	SummaryDepth   int
	DryRun         bool
	AssumeYes      bool
}

// DivergenceReport captures how far the fork drifted from its upstream.
type DivergenceReport struct {
	BehindCount    int
	PreservedCount int
}

// Result captures the observable outcomes of a synchronization run.
type Result struct {
	BranchName string
	Divergence DivergenceReport
	UpToDate   bool
	Planned    bool
	Rebased    bool
	Pushed     bool
}

// Service coordinates fork synchronization through git.
type Service struct {
	repositoryManager GitRepositoryManager
	prompter          ConfirmationPrompter
	output            io.Writer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}

	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}
	return &Service{repositoryManager: dependencies.RepositoryManager, prompter: dependencies.Prompter, output: output}, nil
}

// Sync runs the synchronization pipeline against the configured repository.
func (service *Service) Sync(executionContext context.Context, options Options) (Result, error) {
	resolvedOptions := applyOptionDefaults(options)

	branchName, environmentError := service.verifyEnvironment(executionContext, resolvedOptions)
	if environmentError != nil {
		return Result{}, environmentError
	}

	upstreamReference := fmt.Sprintf(upstreamReferenceTemplateConstant, resolvedOptions.UpstreamRemote, resolvedOptions.UpstreamBranch)

	remoteAvailable, remoteError := service.ensureUpstreamRemote(executionContext, resolvedOptions)
	if remoteError != nil {
		return Result{}, remoteError
	}
	if !remoteAvailable {
		fmt.Fprintf(service.output, planPendingFetchMessageTemplateConstant,
			resolvedOptions.UpstreamRemote, branchName, upstreamReference,
			resolvedOptions.OriginRemote, branchName)
		return Result{BranchName: branchName, Planned: true}, nil
	}

	if fetchError := service.repositoryManager.FetchRemote(executionContext, resolvedOptions.RepositoryPath, resolvedOptions.UpstreamRemote); fetchError != nil {
		return Result{}, fmt.Errorf(fetchFailureTemplateConstant, resolvedOptions.UpstreamRemote, fetchError)
	}

	divergence, divergenceError := service.computeDivergence(executionContext, resolvedOptions.RepositoryPath, upstreamReference)
	if divergenceError != nil {
		return Result{}, divergenceError
	}

	if divergence.BehindCount == 0 {
		fmt.Fprintf(service.output, upToDateMessageTemplateConstant, branchName, upstreamReference)
		return Result{BranchName: branchName, Divergence: divergence, UpToDate: true}, nil
	}

	if resolvedOptions.DryRun {
		fmt.Fprintf(service.output, planMessageTemplateConstant,
			branchName, upstreamReference, divergence.BehindCount, divergence.PreservedCount,
			resolvedOptions.OriginRemote, branchName)
		return Result{BranchName: branchName, Divergence: divergence, Planned: true}, nil
	}

	if rebaseError := service.rebaseOntoUpstream(executionContext, resolvedOptions, branchName, upstreamReference, divergence); rebaseError != nil {
		return Result{BranchName: branchName, Divergence: divergence}, rebaseError
	}

	pushed, pushError := service.pushWithLease(executionContext, resolvedOptions, branchName)
	if pushError != nil {
		return Result{BranchName: branchName, Divergence: divergence, Rebased: true}, pushError
	}
	if !pushed {
		return Result{BranchName: branchName, Divergence: divergence, Rebased: true}, nil
	}

	if summaryError := service.printSummary(executionContext, resolvedOptions, branchName, upstreamReference, divergence); summaryError != nil {
		return Result{BranchName: branchName, Divergence: divergence, Rebased: true, Pushed: true}, summaryError
	}

	return Result{BranchName: branchName, Divergence: divergence, Rebased: true, Pushed: true}, nil
}

func (service *Service) verifyEnvironment(executionContext context.Context, options Options) (string, error) {
	isRepository, repositoryError := service.repositoryManager.CheckIsRepository(executionContext, options.RepositoryPath)
	if repositoryError != nil {
		return "", fmt.Errorf(repositoryCheckFailureTemplateConstant, repositoryError)
	}
	if !isRepository {
		return "", ErrNotARepository
	}

	clean, cleanError := service.repositoryManager.CheckCleanWorktree(executionContext, options.RepositoryPath)
	if cleanError != nil {
		return "", fmt.Errorf(cleanCheckFailureTemplateConstant, cleanError)
	}
	if !clean {
		return "", ErrWorktreeNotClean
	}

	branchName, branchError := service.repositoryManager.GetCurrentBranch(executionContext, options.RepositoryPath)
	if branchError != nil {
		return "", fmt.Errorf(branchResolutionFailureTemplateConstant, branchError)
	}
	return branchName, nil
}

// ensureUpstreamRemote resolves the upstream remote configuration. It reports
// whether the remote exists and can be fetched; dry runs never touch the
// remote configuration and announce planned changes instead.
func (service *Service) ensureUpstreamRemote(executionContext context.Context, options Options) (bool, error) {
	remoteNames, listError := service.repositoryManager.ListRemotes(executionContext, options.RepositoryPath)
	if listError != nil {
		return false, fmt.Errorf(remoteListFailureTemplateConstant, listError)
	}

	if !containsRemote(remoteNames, options.UpstreamRemote) {
		if options.DryRun {
			fmt.Fprintf(service.output, planRemoteAddMessageTemplateConstant, options.UpstreamRemote, options.UpstreamURL)
			return false, nil
		}
		if addError := service.repositoryManager.AddRemote(executionContext, options.RepositoryPath, options.UpstreamRemote, options.UpstreamURL); addError != nil {
			return false, fmt.Errorf(remoteConfigureFailureTemplateConstant, options.UpstreamRemote, addError)
		}
		fmt.Fprintf(service.output, remoteAddedMessageTemplateConstant, options.UpstreamRemote, options.UpstreamURL)
		return true, nil
	}

	configuredURL, urlError := service.repositoryManager.GetRemoteURL(executionContext, options.RepositoryPath, options.UpstreamRemote)
	if urlError != nil {
		return false, fmt.Errorf(remoteURLFailureTemplateConstant, options.UpstreamRemote, urlError)
	}
	if configuredURL == options.UpstreamURL {
		return true, nil
	}

	if options.DryRun {
		fmt.Fprintf(service.output, planRemoteUpdateMessageTemplateConstant, options.UpstreamRemote, configuredURL, options.UpstreamURL)
		return true, nil
	}

	updateApproved, confirmationError := service.confirm(options, fmt.Sprintf(updateRemotePromptTemplateConstant, options.UpstreamRemote, configuredURL, options.UpstreamURL))
	if confirmationError != nil {
		return false, confirmationError
	}
	if !updateApproved {
		fmt.Fprintf(service.output, remoteKeptMessageTemplateConstant, options.UpstreamRemote, configuredURL)
		return true, nil
	}

	if setError := service.repositoryManager.SetRemoteURL(executionContext, options.RepositoryPath, options.UpstreamRemote, options.UpstreamURL); setError != nil {
		return false, fmt.Errorf(remoteConfigureFailureTemplateConstant, options.UpstreamRemote, setError)
	}
	fmt.Fprintf(service.output, remoteUpdatedMessageTemplateConstant, options.UpstreamRemote, options.UpstreamURL)
	return true, nil
}

func (service *Service) computeDivergence(executionContext context.Context, repositoryPath string, upstreamReference string) (DivergenceReport, error) {
	preservedRange := fmt.Sprintf(revisionRangeTemplateConstant, upstreamReference, "HEAD")
	preservedCount, preservedError := service.repositoryManager.CountCommits(executionContext, repositoryPath, preservedRange)
	if preservedError != nil {
		return DivergenceReport{}, fmt.Errorf(divergenceFailureTemplateConstant, upstreamReference, preservedError)
	}

	behindRange := fmt.Sprintf(revisionRangeTemplateConstant, "HEAD", upstreamReference)
	behindCount, behindError := service.repositoryManager.CountCommits(executionContext, repositoryPath, behindRange)
	if behindError != nil {
		return DivergenceReport{}, fmt.Errorf(divergenceFailureTemplateConstant, upstreamReference, behindError)
	}

	return DivergenceReport{BehindCount: behindCount, PreservedCount: preservedCount}, nil
}

func (service *Service) rebaseOntoUpstream(executionContext context.Context, options Options, branchName string, upstreamReference string, divergence DivergenceReport) error {
	if divergence.PreservedCount > 0 {
		preservedRange := fmt.Sprintf(revisionRangeTemplateConstant, upstreamReference, "HEAD")
		preservedSummaries, listError := service.repositoryManager.ListCommitSummaries(executionContext, options.RepositoryPath, preservedRange)
		if listError != nil {
			return fmt.Errorf(preservedListFailureTemplateConstant, listError)
		}

		fmt.Fprintf(service.output, preservedCommitsHeaderTemplateConstant, divergence.PreservedCount)
		for _, commitSummary := range preservedSummaries {
			fmt.Fprintf(service.output, preservedCommitLineTemplateConstant, commitSummary)
		}
	}

	rebaseApproved, confirmationError := service.confirm(options, fmt.Sprintf(rebasePromptTemplateConstant, branchName, upstreamReference))
	if confirmationError != nil {
		return confirmationError
	}
	if !rebaseApproved {
		return ErrRebaseDeclined
	}

	if rebaseError := service.repositoryManager.Rebase(executionContext, options.RepositoryPath, upstreamReference); rebaseError != nil {
		fmt.Fprintf(service.output, rebaseConflictGuidanceTemplateConstant, options.OriginRemote, branchName)
		return RebaseConflictError{UpstreamReference: upstreamReference, Cause: rebaseError}
	}
	return nil
}

func (service *Service) pushWithLease(executionContext context.Context, options Options, branchName string) (bool, error) {
	pushApproved, confirmationError := service.confirm(options, fmt.Sprintf(pushPromptTemplateConstant, branchName, options.OriginRemote))
	if confirmationError != nil {
		return false, confirmationError
	}
	if !pushApproved {
		fmt.Fprintf(service.output, pushSkippedGuidanceTemplateConstant, options.OriginRemote, branchName)
		return false, nil
	}

	if pushError := service.repositoryManager.ForcePushWithLease(executionContext, options.RepositoryPath, options.OriginRemote, branchName); pushError != nil {
		fmt.Fprintf(service.output, pushRejectedGuidanceTemplateConstant, options.OriginRemote, branchName)
		return false, PushRejectedError{RemoteName: options.OriginRemote, BranchName: branchName, Cause: pushError}
	}
	return true, nil
}

func (service *Service) printSummary(executionContext context.Context, options Options, branchName string, upstreamReference string, divergence DivergenceReport) error {
	fmt.Fprintf(service.output, syncDoneMessageTemplateConstant,
		branchName, upstreamReference, divergence.BehindCount, divergence.PreservedCount, options.OriginRemote)

	recentCommits, listError := service.repositoryManager.ListRecentCommits(executionContext, options.RepositoryPath, options.SummaryDepth)
	if listError != nil {
		return fmt.Errorf(summaryListFailureTemplateConstant, listError)
	}

	fmt.Fprint(service.output, recentHistoryHeaderMessageConstant)
	for _, commitSummary := range recentCommits {
		fmt.Fprintf(service.output, preservedCommitLineTemplateConstant, commitSummary)
	}
	return nil
}

func (service *Service) confirm(options Options, prompt string) (bool, error) {
	if options.AssumeYes {
		return true, nil
	}

	approved, confirmationError := service.prompter.Confirm(prompt)
	if confirmationError != nil {
		return false, fmt.Errorf(confirmationFailureTemplateConstant, confirmationError)
	}
	return approved, nil
}

func applyOptionDefaults(options Options) Options {
	resolved := options
	if len(strings.TrimSpace(resolved.RepositoryPath)) == 0 {
		resolved.RepositoryPath = defaultRepositoryPathConstant
	}

	defaults := DefaultCommandConfiguration()
	resolved.UpstreamRemote = fallbackWhenEmpty(resolved.UpstreamRemote, defaults.UpstreamRemote)
	resolved.UpstreamURL = fallbackWhenEmpty(resolved.UpstreamURL, defaults.UpstreamURL)
	resolved.UpstreamBranch = fallbackWhenEmpty(resolved.UpstreamBranch, defaults.UpstreamBranch)
	resolved.OriginRemote = fallbackWhenEmpty(resolved.OriginRemote, defaults.OriginRemote)
	if resolved.SummaryDepth <= 0 {
		resolved.SummaryDepth = defaults.SummaryDepth
	}
	return resolved
}

func containsRemote(remoteNames []string, candidate string) bool {
	for _, remoteName := range remoteNames {
		if remoteName == candidate {
			return true
		}
	}
	return false
}
