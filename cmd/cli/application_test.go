package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/cmd/cli"
)

const (
	testConfigFlagNameConstant    = "config"
	testLogLevelFlagNameConstant  = "log-level"
	testLogFormatFlagNameConstant = "log-format"
	testRemoteFlagNameConstant    = "remote"
	testBranchFlagNameConstant    = "branch"
	testDryRunFlagNameConstant    = "dry-run"
	testAssumeYesFlagNameConstant = "yes"
	testHelpFlagArgumentConstant  = "--help"
)

func TestNewApplicationWiresRootCommand(testInstance *testing.T) {
	application := cli.NewApplication()
	rootCommand := application.RootCommand()
	require.NotNil(testInstance, rootCommand)

	require.Equal(testInstance, "forksync", rootCommand.Name())
	require.True(testInstance, rootCommand.SilenceUsage)
	require.True(testInstance, rootCommand.SilenceErrors)

	persistentFlagNames := []string{testConfigFlagNameConstant, testLogLevelFlagNameConstant, testLogFormatFlagNameConstant}
	for _, flagName := range persistentFlagNames {
		require.NotNil(testInstance, rootCommand.PersistentFlags().Lookup(flagName), flagName)
	}

	commandFlagNames := []string{testRemoteFlagNameConstant, testBranchFlagNameConstant, testDryRunFlagNameConstant, testAssumeYesFlagNameConstant}
	for _, flagName := range commandFlagNames {
		require.NotNil(testInstance, rootCommand.Flags().Lookup(flagName), flagName)
	}
}

func TestApplicationHelpDescribesSynchronization(testInstance *testing.T) {
	application := cli.NewApplication()
	rootCommand := application.RootCommand()

	output := &bytes.Buffer{}
	rootCommand.SetOut(output)
	rootCommand.SetErr(output)
	rootCommand.SetArgs([]string{testHelpFlagArgumentConstant})

	require.NoError(testInstance, application.Execute())
	require.Contains(testInstance, output.String(), "forksync [upstream-repo-url]")
	require.Contains(testInstance, output.String(), "rebases the current branch")
}
