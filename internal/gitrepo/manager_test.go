package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/execshell"
	"github.com/temirov/forksync/internal/gitrepo"
)

const (
	testRepositoryPathConstant = "/tmp/fork"
)

type scriptedGitExecutor struct {
	results          []execshell.ExecutionResult
	errors           []error
	recordedCommands []execshell.CommandDetails
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	invocationIndex := len(executor.recordedCommands) - 1

	var executionError error
	if invocationIndex < len(executor.errors) {
		executionError = executor.errors[invocationIndex]
	}
	if executionError != nil {
		return execshell.ExecutionResult{}, executionError
	}

	if invocationIndex < len(executor.results) {
		return executor.results[invocationIndex], nil
	}
	return execshell.ExecutionResult{}, nil
}

func TestNewRepositoryManagerRequiresExecutor(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrExecutorNotConfigured)
	require.Nil(testInstance, manager)
}

func TestCheckIsRepositoryInterpretsOutcomes(testInstance *testing.T) {
	testCases := []struct {
		name           string
		result         execshell.ExecutionResult
		executionError error
		expected       bool
		expectError    bool
	}{
		{
			name:     "inside_work_tree",
			result:   execshell.ExecutionResult{StandardOutput: "true\n"},
			expected: true,
		},
		{
			name: "command_failure_means_not_a_repository",
			executionError: execshell.CommandFailedError{
				Command: execshell.ShellCommand{Name: execshell.CommandGit},
				Result:  execshell.ExecutionResult{ExitCode: 128},
			},
			expected: false,
		},
		{
			name:           "execution_failure_propagates",
			executionError: errors.New("git not installed"),
			expectError:    true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedGitExecutor{
				results: []execshell.ExecutionResult{testCase.result},
				errors:  []error{testCase.executionError},
			}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			isRepository, checkError := manager.CheckIsRepository(context.Background(), testRepositoryPathConstant)
			if testCase.expectError {
				require.Error(testInstance, checkError)
				return
			}
			require.NoError(testInstance, checkError)
			require.Equal(testInstance, testCase.expected, isRepository)
		})
	}
}

func TestCheckCleanWorktreeDetectsDirtyState(testInstance *testing.T) {
	testCases := []struct {
		name          string
		statusOutput  string
		expectedClean bool
	}{
		{name: "clean", statusOutput: "\n", expectedClean: true},
		{name: "dirty", statusOutput: " M internal/sync/service.go\n", expectedClean: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedGitExecutor{results: []execshell.ExecutionResult{{StandardOutput: testCase.statusOutput}}}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			clean, checkError := manager.CheckCleanWorktree(context.Background(), testRepositoryPathConstant)
			require.NoError(testInstance, checkError)
			require.Equal(testInstance, testCase.expectedClean, clean)
		})
	}
}

func TestGetCurrentBranchRejectsDetachedHead(testInstance *testing.T) {
	testCases := []struct {
		name           string
		branchOutput   string
		expectedBranch string
		expectedError  error
	}{
		{name: "named_branch", branchOutput: "feature\n", expectedBranch: "feature"},
		{name: "detached_head", branchOutput: "HEAD\n", expectedError: gitrepo.ErrDetachedHead},
		{name: "empty_output", branchOutput: "", expectedError: gitrepo.ErrDetachedHead},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedGitExecutor{results: []execshell.ExecutionResult{{StandardOutput: testCase.branchOutput}}}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			branchName, branchError := manager.GetCurrentBranch(context.Background(), testRepositoryPathConstant)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, branchError, testCase.expectedError)
				return
			}
			require.NoError(testInstance, branchError)
			require.Equal(testInstance, testCase.expectedBranch, branchName)
		})
	}
}

func TestListRemotesSplitsOutputLines(testInstance *testing.T) {
	executor := &scriptedGitExecutor{results: []execshell.ExecutionResult{{StandardOutput: "origin\nupstream\n"}}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	remoteNames, listError := manager.ListRemotes(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []string{"origin", "upstream"}, remoteNames)
}

func TestCountCommitsParsesRevListOutput(testInstance *testing.T) {
	executor := &scriptedGitExecutor{results: []execshell.ExecutionResult{{StandardOutput: "3\n"}}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	commitCount, countError := manager.CountCommits(context.Background(), testRepositoryPathConstant, "HEAD..upstream/main")
	require.NoError(testInstance, countError)
	require.Equal(testInstance, 3, commitCount)
	require.Equal(testInstance, []string{"rev-list", "--count", "HEAD..upstream/main"}, executor.recordedCommands[0].Arguments)
}

func TestRepositoryManagerBuildsExpectedGitInvocations(testInstance *testing.T) {
	testCases := []struct {
		name              string
		invoke            func(manager *gitrepo.RepositoryManager, executionContext context.Context) error
		expectedArguments []string
	}{
		{
			name: "add_remote",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.AddRemote(executionContext, testRepositoryPathConstant, "upstream", "https://github.com/example/upstream.git")
			},
			expectedArguments: []string{"remote", "add", "upstream", "https://github.com/example/upstream.git"},
		},
		{
			name: "set_remote_url",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.SetRemoteURL(executionContext, testRepositoryPathConstant, "upstream", "git@github.com:example/upstream.git")
			},
			expectedArguments: []string{"remote", "set-url", "upstream", "git@github.com:example/upstream.git"},
		},
		{
			name: "fetch_remote",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.FetchRemote(executionContext, testRepositoryPathConstant, "upstream")
			},
			expectedArguments: []string{"fetch", "upstream"},
		},
		{
			name: "rebase",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.Rebase(executionContext, testRepositoryPathConstant, "upstream/main")
			},
			expectedArguments: []string{"rebase", "upstream/main"},
		},
		{
			name: "lease_push",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.ForcePushWithLease(executionContext, testRepositoryPathConstant, "origin", "feature")
			},
			expectedArguments: []string{"push", "--force-with-lease", "origin", "feature"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedGitExecutor{}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			invokeError := testCase.invoke(manager, context.Background())
			require.NoError(testInstance, invokeError)
			require.Len(testInstance, executor.recordedCommands, 1)
			require.Equal(testInstance, testCase.expectedArguments, executor.recordedCommands[0].Arguments)
			require.Equal(testInstance, testRepositoryPathConstant, executor.recordedCommands[0].WorkingDirectory)
			require.Equal(testInstance, "0", executor.recordedCommands[0].EnvironmentVariables["GIT_TERMINAL_PROMPT"])
		})
	}
}

func TestListCommitSummariesSkipsBlankLines(testInstance *testing.T) {
	executor := &scriptedGitExecutor{results: []execshell.ExecutionResult{{StandardOutput: "abc1234 first\n\ndef5678 second\n"}}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	summaries, listError := manager.ListCommitSummaries(context.Background(), testRepositoryPathConstant, "upstream/main..HEAD")
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []string{"abc1234 first", "def5678 second"}, summaries)
}

func TestListRecentCommitsLimitsHistory(testInstance *testing.T) {
	executor := &scriptedGitExecutor{results: []execshell.ExecutionResult{{StandardOutput: "abc1234 latest\n"}}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	summaries, listError := manager.ListRecentCommits(context.Background(), testRepositoryPathConstant, 5)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []string{"abc1234 latest"}, summaries)
	require.Equal(testInstance, []string{"log", "--oneline", "-n", "5"}, executor.recordedCommands[0].Arguments)
}
