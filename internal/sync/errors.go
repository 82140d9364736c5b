package sync

import (
	"errors"
	"fmt"
)

const (
	notARepositoryMessageConstant              = "current directory is not inside a git repository"
	worktreeNotCleanMessageConstant            = "repository worktree has uncommitted changes; commit or stash them first"
	rebaseDeclinedMessageConstant              = "rebase declined"
	repositoryManagerMissingMessageConstant    = "repository manager not configured"
	confirmationPrompterMissingMessageConstant = "confirmation prompter not configured"
	rebaseConflictErrorTemplateConstant        = "rebase onto %s stopped on conflicts: %v"
	pushRejectedErrorTemplateConstant          = "force-push of %s to %s rejected: %v"
	fetchFailureTemplateConstant               = "failed to fetch from %s: %w"
)

// ErrNotARepository indicates the working directory is outside a git work tree.
var ErrNotARepository = errors.New(notARepositoryMessageConstant)

// ErrWorktreeNotClean indicates the repository contains uncommitted changes.
var ErrWorktreeNotClean = errors.New(worktreeNotCleanMessageConstant)

// ErrRebaseDeclined indicates the user rejected the rebase confirmation.
var ErrRebaseDeclined = errors.New(rebaseDeclinedMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrPrompterNotConfigured indicates the confirmation prompter dependency was missing.
var ErrPrompterNotConfigured = errors.New(confirmationPrompterMissingMessageConstant)

// RebaseConflictError indicates the rebase stopped and requires manual resolution.
type RebaseConflictError struct {
	UpstreamReference string
	Cause             error
}

// Error describes the conflicted rebase.
func (conflictError RebaseConflictError) Error() string {
	return fmt.Sprintf(rebaseConflictErrorTemplateConstant, conflictError.UpstreamReference, conflictError.Cause)
}

// Unwrap exposes the underlying git failure.
func (conflictError RebaseConflictError) Unwrap() error {
	return conflictError.Cause
}

// PushRejectedError indicates the lease force-push was rejected by the remote.
type PushRejectedError struct {
	RemoteName string
	BranchName string
	Cause      error
}

// Error describes the rejected push.
func (pushError PushRejectedError) Error() string {
	return fmt.Sprintf(pushRejectedErrorTemplateConstant, pushError.BranchName, pushError.RemoteName, pushError.Cause)
}

// Unwrap exposes the underlying git failure.
func (pushError PushRejectedError) Unwrap() error {
	return pushError.Cause
}
