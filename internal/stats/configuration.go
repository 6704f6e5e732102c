package stats

const (
	configurationTopKeyConstant        = "top"
	configurationGraphWidthKeyConstant = "graph_width"
)

// CommandConfiguration captures configurable defaults for the statistics command.
type CommandConfiguration struct {
	TopAuthors int `mapstructure:"top"`
	GraphWidth int `mapstructure:"graph_width"`
}

// DefaultCommandConfiguration provides baseline configuration values for the statistics command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		TopAuthors: defaultTopAuthorsConstant,
		GraphWidth: defaultMaximumBarWidthConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the statistics command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationTopKeyConstant:        defaults.TopAuthors,
		rootKey + "." + configurationGraphWidthKeyConstant: defaults.GraphWidth,
	}
}

// Sanitize normalizes configuration values, restoring defaults for out-of-range entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	if sanitized.TopAuthors < 1 {
		sanitized.TopAuthors = defaultTopAuthorsConstant
	}
	if sanitized.GraphWidth < 1 {
		sanitized.GraphWidth = defaultMaximumBarWidthConstant
	}

	return sanitized
}
