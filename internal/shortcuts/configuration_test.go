package shortcuts_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitwhisk/gitwhisk/internal/shortcuts"
)

func TestDefaultConfigurationValues(t *testing.T) {
	values := shortcuts.DefaultConfigurationValues("tools.shortcuts")

	require.Equal(t, map[string]any{
		"tools.shortcuts.remote":    "origin",
		"tools.shortcuts.no_verify": false,
	}, values)
}

func TestCommandConfigurationSanitize(t *testing.T) {
	sanitized := shortcuts.CommandConfiguration{RemoteName: "  upstream  ", NoVerify: true}.Sanitize()
	require.Equal(t, "upstream", sanitized.RemoteName)
	require.True(t, sanitized.NoVerify)

	defaulted := shortcuts.CommandConfiguration{RemoteName: "   "}.Sanitize()
	require.Equal(t, "origin", defaulted.RemoteName)
}
