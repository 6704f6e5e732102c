package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gitwhisk/gitwhisk/internal/prune"
	"github.com/gitwhisk/gitwhisk/internal/shortcuts"
	"github.com/gitwhisk/gitwhisk/internal/stats"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	parentDirectoryReferenceConstant = ".."
	expectedLogLevelConstant         = "info"
	expectedLogFormatConstant        = "console"
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
)

type readmeApplicationConfiguration struct {
	Common readmeCommonConfiguration `yaml:"common"`
	Tools  readmeToolsConfiguration  `yaml:"tools"`
}

type readmeCommonConfiguration struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type readmeToolsConfiguration struct {
	Prune     readmePruneConfiguration     `yaml:"prune"`
	Stats     readmeStatsConfiguration     `yaml:"stats"`
	Shortcuts readmeShortcutsConfiguration `yaml:"shortcuts"`
}

type readmePruneConfiguration struct {
	Remote      string `yaml:"remote"`
	DryRun      bool   `yaml:"dry_run"`
	ForceDelete bool   `yaml:"force_delete"`
}

type readmeStatsConfiguration struct {
	Top        int `yaml:"top"`
	GraphWidth int `yaml:"graph_width"`
}

type readmeShortcutsConfiguration struct {
	Remote   string `yaml:"remote"`
	NoVerify bool   `yaml:"no_verify"`
}

// TestReadmeConfigurationSnippetMatchesDefaults keeps the README's example
// configuration aligned with the defaults compiled into each command.
func TestReadmeConfigurationSnippetMatchesDefaults(testInstance *testing.T) {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	snippetContent := strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])

	var snippetConfiguration readmeApplicationConfiguration
	unmarshalError := yaml.Unmarshal([]byte(snippetContent), &snippetConfiguration)
	require.NoError(testInstance, unmarshalError)

	require.Equal(testInstance, expectedLogLevelConstant, snippetConfiguration.Common.LogLevel)
	require.Equal(testInstance, expectedLogFormatConstant, snippetConfiguration.Common.LogFormat)

	pruneDefaults := prune.DefaultCommandConfiguration()
	require.Equal(testInstance, pruneDefaults.RemoteName, snippetConfiguration.Tools.Prune.Remote)
	require.Equal(testInstance, pruneDefaults.DryRun, snippetConfiguration.Tools.Prune.DryRun)
	require.Equal(testInstance, pruneDefaults.ForceDelete, snippetConfiguration.Tools.Prune.ForceDelete)

	statsDefaults := stats.DefaultCommandConfiguration()
	require.Equal(testInstance, statsDefaults.TopAuthors, snippetConfiguration.Tools.Stats.Top)
	require.Equal(testInstance, statsDefaults.GraphWidth, snippetConfiguration.Tools.Stats.GraphWidth)

	shortcutsDefaults := shortcuts.DefaultCommandConfiguration()
	require.Equal(testInstance, shortcutsDefaults.RemoteName, snippetConfiguration.Tools.Shortcuts.Remote)
	require.Equal(testInstance, shortcutsDefaults.NoVerify, snippetConfiguration.Tools.Shortcuts.NoVerify)
}
