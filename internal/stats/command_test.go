package stats_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gitwhisk/gitwhisk/internal/execshell"
	"github.com/gitwhisk/gitwhisk/internal/stats"
)

type recordingHistoryExecutor struct {
	scriptedLines    []string
	streamError      error
	recordedCommands []execshell.CommandDetails
}

func (executor *recordingHistoryExecutor) StreamGit(_ context.Context, details execshell.CommandDetails, lineHandler execshell.LineHandler) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	for _, outputLine := range executor.scriptedLines {
		if handlerError := lineHandler(outputLine); handlerError != nil {
			return execshell.ExecutionResult{}, handlerError
		}
	}
	if executor.streamError != nil {
		return execshell.ExecutionResult{}, executor.streamError
	}
	return execshell.ExecutionResult{}, nil
}

func commitLine(commitTime time.Time, authorName string, authorEmail string) string {
	return fmt.Sprintf("%d\t%s\t%s", commitTime.Unix(), authorName, authorEmail)
}

func newCommandBuilder(executor *recordingHistoryExecutor, configuration stats.CommandConfiguration) stats.CommandBuilder {
	return stats.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		GitExecutor:    executor,
		ConfigurationProvider: func() stats.CommandConfiguration {
			return configuration
		},
	}
}

func TestBuildCreatesStatsCommand(t *testing.T) {
	builder := stats.CommandBuilder{}

	command, buildError := builder.Build()
	require.NoError(t, buildError)
	require.IsType(t, &cobra.Command{}, command)
	require.Equal(t, "stats", command.Use)
	for _, flagName := range []string{"days", "weeks", "months", "from", "to", "top", "name", "email"} {
		require.NotNil(t, command.Flags().Lookup(flagName), flagName)
	}
}

func TestCommandRendersStatistics(t *testing.T) {
	juneTwelfth := time.Date(2024, time.June, 12, 10, 30, 0, 0, time.UTC)
	executor := &recordingHistoryExecutor{scriptedLines: []string{
		commitLine(juneTwelfth, "Alice", "alice@example.com"),
		commitLine(juneTwelfth.Add(-24*time.Hour), "Alice", "alice@example.com"),
		commitLine(juneTwelfth.Add(-48*time.Hour), "Bob", "bob@example.com"),
	}}
	builder := newCommandBuilder(executor, stats.DefaultCommandConfiguration())

	command, buildError := builder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})

	require.NoError(t, command.Flags().Set("from", "2024-01-01"))
	require.NoError(t, command.Flags().Set("to", "2024-12-31"))

	require.NoError(t, command.RunE(command, []string{}))
	require.Contains(t, outputBuffer.String(), "Commit history from 2024-01-01 to 2024-12-31: 3 commits by 2 authors")
	require.Contains(t, outputBuffer.String(), "Alice")
	require.Contains(t, outputBuffer.String(), "Bob")

	require.Len(t, executor.recordedCommands, 1)
	arguments := executor.recordedCommands[0].Arguments
	require.Len(t, arguments, 5)
	require.Equal(t, []string{"log", "--first-parent", "--pretty=format:%at%x09%an%x09%ae"}, arguments[:3])
	require.True(t, strings.HasPrefix(arguments[3], "--since=@"))
	require.True(t, strings.HasPrefix(arguments[4], "--until=@"))
}

func TestCommandUsesConfigurationDefaults(t *testing.T) {
	juneTwelfth := time.Date(2024, time.June, 12, 10, 30, 0, 0, time.UTC)
	executor := &recordingHistoryExecutor{scriptedLines: []string{
		commitLine(juneTwelfth, "Alice", "alice@example.com"),
		commitLine(juneTwelfth.Add(-24*time.Hour), "Alice", "alice@example.com"),
		commitLine(juneTwelfth.Add(-48*time.Hour), "Bob", "bob@example.com"),
		commitLine(juneTwelfth.Add(-72*time.Hour), "Carol", "carol@example.com"),
	}}
	configuration := stats.CommandConfiguration{TopAuthors: 1, GraphWidth: 5}
	builder := newCommandBuilder(executor, configuration)

	command, buildError := builder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})

	require.NoError(t, command.RunE(command, []string{}))
	require.Contains(t, outputBuffer.String(), "4 commits by 3 authors")
	require.Contains(t, outputBuffer.String(), "Alice")
	require.NotContains(t, outputBuffer.String(), "Bob")
	require.Contains(t, outputBuffer.String(), strings.Repeat("█", 5))
	require.NotContains(t, outputBuffer.String(), strings.Repeat("█", 6))
}

func TestCommandHonorsFlagOverrides(t *testing.T) {
	juneTwelfth := time.Date(2024, time.June, 12, 10, 30, 0, 0, time.UTC)
	executor := &recordingHistoryExecutor{scriptedLines: []string{
		commitLine(juneTwelfth, "Alice", "alice@example.com"),
		commitLine(juneTwelfth.Add(-24*time.Hour), "Alice", "alice@example.com"),
		commitLine(juneTwelfth.Add(-48*time.Hour), "Bob", "bob@example.com"),
	}}
	builder := newCommandBuilder(executor, stats.DefaultCommandConfiguration())

	command, buildError := builder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})

	require.NoError(t, command.Flags().Set("top", "1"))

	require.NoError(t, command.RunE(command, []string{}))
	require.Contains(t, outputBuffer.String(), "Alice")
	require.NotContains(t, outputBuffer.String(), "Bob")
}

func TestCommandAppliesAuthorFilters(t *testing.T) {
	juneTwelfth := time.Date(2024, time.June, 12, 10, 30, 0, 0, time.UTC)
	executor := &recordingHistoryExecutor{scriptedLines: []string{
		commitLine(juneTwelfth, "Alice", "alice@example.com"),
		commitLine(juneTwelfth.Add(-24*time.Hour), "Bob", "bob@example.com"),
	}}
	builder := newCommandBuilder(executor, stats.DefaultCommandConfiguration())

	command, buildError := builder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})

	require.NoError(t, command.Flags().Set("name", "ali"))

	require.NoError(t, command.RunE(command, []string{}))
	require.Contains(t, outputBuffer.String(), "1 commits by 1 authors")
	require.Contains(t, outputBuffer.String(), "Alice")
	require.NotContains(t, outputBuffer.String(), "Bob")
}

func TestCommandRejectsNonPositiveTop(t *testing.T) {
	executor := &recordingHistoryExecutor{}
	builder := newCommandBuilder(executor, stats.DefaultCommandConfiguration())

	command, buildError := builder.Build()
	require.NoError(t, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})

	require.NoError(t, command.Flags().Set("top", "0"))

	require.EqualError(t, command.RunE(command, []string{}), "--top must be at least 1")
	require.Empty(t, executor.recordedCommands)
}

func TestCommandRejectsConflictingWindowFlags(t *testing.T) {
	executor := &recordingHistoryExecutor{}
	builder := newCommandBuilder(executor, stats.DefaultCommandConfiguration())

	command, buildError := builder.Build()
	require.NoError(t, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})

	require.NoError(t, command.Flags().Set("days", "3"))
	require.NoError(t, command.Flags().Set("weeks", "1"))

	executionError := command.RunE(command, []string{})
	require.EqualError(t, executionError, "statistics failed: use at most one of --from, --days, --weeks, or --months")
	require.Empty(t, executor.recordedCommands)
}

func TestCommandRejectsPositionalArguments(t *testing.T) {
	executor := &recordingHistoryExecutor{}
	builder := newCommandBuilder(executor, stats.DefaultCommandConfiguration())

	command, buildError := builder.Build()
	require.NoError(t, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"unexpected"})

	require.Error(t, command.Execute())
	require.Empty(t, executor.recordedCommands)
}

func TestCommandWrapsExecutionFailures(t *testing.T) {
	executor := &recordingHistoryExecutor{streamError: context.DeadlineExceeded}
	builder := newCommandBuilder(executor, stats.DefaultCommandConfiguration())

	command, buildError := builder.Build()
	require.NoError(t, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})

	executionError := command.RunE(command, []string{})
	require.EqualError(t, executionError, "statistics failed: git log failed: context deadline exceeded")
}
