package prune

import "strings"

const (
	configurationRemoteKeyConstant      = "remote"
	configurationDryRunKeyConstant      = "dry_run"
	configurationForceDeleteKeyConstant = "force_delete"
)

// CommandConfiguration captures configurable defaults for the pruning commands.
type CommandConfiguration struct {
	RemoteName  string `mapstructure:"remote"`
	DryRun      bool   `mapstructure:"dry_run"`
	ForceDelete bool   `mapstructure:"force_delete"`
}

// DefaultCommandConfiguration provides baseline configuration values for the pruning commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RemoteName:  defaultRemoteNameConstant,
		DryRun:      false,
		ForceDelete: true,
	}
}

// DefaultConfigurationValues produces Viper defaults for the pruning commands.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationRemoteKeyConstant:      defaults.RemoteName,
		rootKey + "." + configurationDryRunKeyConstant:      defaults.DryRun,
		rootKey + "." + configurationForceDeleteKeyConstant: defaults.ForceDelete,
	}
}

// Sanitize normalizes configuration values, restoring defaults for blank entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaultRemoteNameConstant
	}

	return sanitized
}
