package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testMessageRepositoryPathConstant = "/tmp/fork"
)

func TestCommandMessageFormatterDescribesGitLifecycle(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}

	testCases := []struct {
		name            string
		command         ShellCommand
		result          ExecutionResult
		expectedStart   string
		expectedSuccess string
	}{
		{
			name: "work_tree_check",
			command: ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: []string{"rev-parse", "--is-inside-work-tree"}, WorkingDirectory: testMessageRepositoryPathConstant},
			},
			expectedStart:   "Analyzing repository at /tmp/fork",
			expectedSuccess: "/tmp/fork is a Git repository",
		},
		{
			name: "current_branch",
			command: ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: []string{"rev-parse", "--abbrev-ref", "HEAD"}, WorkingDirectory: testMessageRepositoryPathConstant},
			},
			result:          ExecutionResult{StandardOutput: "feature\n"},
			expectedStart:   "Identifying current branch in /tmp/fork",
			expectedSuccess: "Current branch in /tmp/fork is feature",
		},
		{
			name: "remote_lookup",
			command: ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: []string{"remote", "get-url", "upstream"}, WorkingDirectory: testMessageRepositoryPathConstant},
			},
			result:          ExecutionResult{StandardOutput: "https://github.com/example/upstream.git\n"},
			expectedStart:   "Checking upstream remote for /tmp/fork",
			expectedSuccess: "upstream remote for /tmp/fork points to https://github.com/example/upstream.git",
		},
		{
			name: "remote_addition",
			command: ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: []string{"remote", "add", "upstream", "https://github.com/example/upstream.git"}, WorkingDirectory: testMessageRepositoryPathConstant},
			},
			expectedStart:   "Adding upstream remote for /tmp/fork pointing to https://github.com/example/upstream.git",
			expectedSuccess: "Added upstream remote for /tmp/fork pointing to https://github.com/example/upstream.git",
		},
		{
			name: "fetch",
			command: ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: []string{"fetch", "upstream"}, WorkingDirectory: testMessageRepositoryPathConstant},
			},
			expectedStart:   "Fetching from upstream in /tmp/fork",
			expectedSuccess: "Fetched from upstream in /tmp/fork",
		},
		{
			name: "rev_list_count",
			command: ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: []string{"rev-list", "--count", "upstream/main..HEAD"}, WorkingDirectory: testMessageRepositoryPathConstant},
			},
			result:          ExecutionResult{StandardOutput: "2\n"},
			expectedStart:   "Counting commits in range upstream/main..HEAD in /tmp/fork",
			expectedSuccess: "Range upstream/main..HEAD in /tmp/fork contains 2 commit(s)",
		},
		{
			name: "rebase",
			command: ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: []string{"rebase", "upstream/main"}, WorkingDirectory: testMessageRepositoryPathConstant},
			},
			expectedStart:   "Rebasing /tmp/fork onto upstream/main",
			expectedSuccess: "Rebased /tmp/fork onto upstream/main",
		},
		{
			name: "lease_push",
			command: ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: []string{"push", "--force-with-lease", "origin", "feature"}, WorkingDirectory: testMessageRepositoryPathConstant},
			},
			expectedStart:   "Force-pushing feature to origin with lease from /tmp/fork",
			expectedSuccess: "Force-pushed feature to origin with lease from /tmp/fork",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedStart, formatter.BuildStartedMessage(testCase.command))

			successCommand := testCase.command
			successMessage := formatter.buildMessage(successCommand, testCase.result, nil, messageStageSuccess)
			require.Equal(testInstance, testCase.expectedSuccess, successMessage)
		})
	}
}

func TestCommandMessageFormatterIncludesStandardErrorInFailures(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"fetch", "upstream"}, WorkingDirectory: testMessageRepositoryPathConstant},
	}
	result := ExecutionResult{ExitCode: 128, StandardError: "fatal: unable to access remote"}

	failureMessage := formatter.BuildFailureMessage(command, result)
	require.Equal(testInstance, "Failed to fetch from upstream in /tmp/fork (exit code 128: fatal: unable to access remote)", failureMessage)
}

func TestCommandMessageFormatterDescribesExecutionFailures(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"status", "--porcelain"}, WorkingDirectory: testMessageRepositoryPathConstant},
	}

	failureMessage := formatter.BuildExecutionFailureMessage(command, errors.New("executable not found"))
	require.Equal(testInstance, "Unable to review working tree status in /tmp/fork: executable not found", failureMessage)
}

func TestCommandMessageFormatterFallsBackToGenericMessages(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"gc"}},
	}

	require.Equal(testInstance, "Running git gc", formatter.BuildStartedMessage(command))
	require.Equal(testInstance, "Completed git gc", formatter.BuildSuccessMessage(command))
}
