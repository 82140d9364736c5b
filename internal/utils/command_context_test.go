package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/utils"
)

const testConfigurationFilePathConstant = "/tmp/forksync/config.yaml"

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	decoratedContext := accessor.WithConfigurationFilePath(context.Background(), testConfigurationFilePathConstant)
	configurationFilePath, available := accessor.ConfigurationFilePath(decoratedContext)
	require.True(testInstance, available)
	require.Equal(testInstance, testConfigurationFilePathConstant, configurationFilePath)
}

func TestCommandContextAccessorHandlesMissingValues(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	testCases := []struct {
		name             string
		executionContext context.Context
	}{
		{name: "nil_context", executionContext: nil},
		{name: "undecorated_context", executionContext: context.Background()},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configurationFilePath, available := accessor.ConfigurationFilePath(testCase.executionContext)
			require.False(testInstance, available)
			require.Empty(testInstance, configurationFilePath)
		})
	}
}

func TestCommandContextAccessorToleratesNilParentContext(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	var missingParentContext context.Context
	decoratedContext := accessor.WithConfigurationFilePath(missingParentContext, testConfigurationFilePathConstant)
	configurationFilePath, available := accessor.ConfigurationFilePath(decoratedContext)
	require.True(testInstance, available)
	require.Equal(testInstance, testConfigurationFilePathConstant, configurationFilePath)
}
