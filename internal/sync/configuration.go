package sync

import "strings"

const (
	defaultUpstreamRemoteNameConstant      = "upstream"
	defaultUpstreamURLConstant             = "https://github.com/example/upstream.git"
	defaultUpstreamBranchNameConstant      = "main"
	defaultOriginRemoteNameConstant        = "origin"
	defaultSummaryDepthConstant            = 5
	configurationKeySeparatorConstant      = "."
	configurationUpstreamRemoteKeyConstant = "upstream_remote"
	configurationUpstreamURLKeyConstant    = "upstream_url"
	configurationUpstreamBranchKeyConstant = "upstream_branch"
	configurationOriginRemoteKeyConstant   = "origin_remote"
	configurationSummaryDepthKeyConstant   = "summary_depth"
)

// CommandConfiguration captures persisted configuration for fork synchronization.
type CommandConfiguration struct {
	UpstreamRemote string `mapstructure:"upstream_remote"`
	UpstreamURL    string `mapstructure:"upstream_url"`
	UpstreamBranch string `mapstructure:"upstream_branch"`
	OriginRemote   string `mapstructure:"origin_remote"`
	SummaryDepth   int    `mapstructure:"summary_depth"`
}

// DefaultCommandConfiguration returns baseline configuration values for fork synchronization.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		UpstreamRemote: defaultUpstreamRemoteNameConstant,
		UpstreamURL:    defaultUpstreamURLConstant,
		UpstreamBranch: defaultUpstreamBranchNameConstant,
		OriginRemote:   defaultOriginRemoteNameConstant,
		SummaryDepth:   defaultSummaryDepthConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the sync command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationUpstreamRemoteKeyConstant: defaults.UpstreamRemote,
		rootKey + configurationKeySeparatorConstant + configurationUpstreamURLKeyConstant:    defaults.UpstreamURL,
		rootKey + configurationKeySeparatorConstant + configurationUpstreamBranchKeyConstant: defaults.UpstreamBranch,
		rootKey + configurationKeySeparatorConstant + configurationOriginRemoteKeyConstant:   defaults.OriginRemote,
		rootKey + configurationKeySeparatorConstant + configurationSummaryDepthKeyConstant:   defaults.SummaryDepth,
	}
}

// Sanitize trims configured values and restores defaults for empty entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.UpstreamRemote = fallbackWhenEmpty(configuration.UpstreamRemote, defaults.UpstreamRemote)
	sanitized.UpstreamURL = fallbackWhenEmpty(configuration.UpstreamURL, defaults.UpstreamURL)
	sanitized.UpstreamBranch = fallbackWhenEmpty(configuration.UpstreamBranch, defaults.UpstreamBranch)
	sanitized.OriginRemote = fallbackWhenEmpty(configuration.OriginRemote, defaults.OriginRemote)
	if sanitized.SummaryDepth <= 0 {
		sanitized.SummaryDepth = defaults.SummaryDepth
	}

	return sanitized
}

func fallbackWhenEmpty(candidate string, fallback string) string {
	trimmed := strings.TrimSpace(candidate)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}
