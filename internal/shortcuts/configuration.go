package shortcuts

import "strings"

const (
	configurationRemoteKeyConstant   = "remote"
	configurationNoVerifyKeyConstant = "no_verify"
)

// CommandConfiguration captures configurable defaults for the shortcut commands.
type CommandConfiguration struct {
	RemoteName string `mapstructure:"remote"`
	NoVerify   bool   `mapstructure:"no_verify"`
}

// DefaultCommandConfiguration provides baseline configuration values for the shortcut commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RemoteName: defaultRemoteNameConstant,
		NoVerify:   false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the shortcut commands.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationRemoteKeyConstant:   defaults.RemoteName,
		rootKey + "." + configurationNoVerifyKeyConstant: defaults.NoVerify,
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
