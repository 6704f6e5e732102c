package prune

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitwhisk/gitwhisk/internal/dependencies"
	"github.com/gitwhisk/gitwhisk/internal/utils"
	flagutils "github.com/gitwhisk/gitwhisk/internal/utils/flags"
)

const (
	fetchCommandUseConstant               = "fetch"
	fetchCommandShortDescriptionConstant  = "Fetch with pruning and delete local branches removed upstream"
	fetchCommandLongDescriptionConstant   = "fetch runs git fetch --prune, mirrors its output with pruned remote branches highlighted, and deletes the matching local branches."
	pullCommandUseConstant                = "pull"
	pullCommandShortDescriptionConstant   = "Pull with pruning and delete local branches removed upstream"
	pullCommandLongDescriptionConstant    = "pull runs git pull --prune, mirrors its output with pruned remote branches highlighted, and deletes the matching local branches."
	forceDeleteFlagNameConstant           = "force-delete"
	forceDeleteFlagDescriptionConstant    = "Force deletion of local branches even when unmerged"
	commandExecutionErrorTemplateConstant = "branch pruning failed: %w"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the pruning command for one fetch mode.
type CommandBuilder struct {
	Mode                         FetchMode
	LoggerProvider               LoggerProvider
	GitExecutor                  GitExecutor
	RepositoryManager            RepositoryManager
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	WorkingDirectory             string
}

// Build constructs the cobra command for the configured fetch mode.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	useValue, shortDescription, longDescription, modeError := builder.describeMode()
	if modeError != nil {
		return nil, modeError
	}

	command := &cobra.Command{
		Use:   useValue,
		Short: shortDescription,
		Long:  longDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	flagutils.EnsureRemoteFlag(command, defaults.RemoteName)
	flagutils.EnsureDryRunFlag(command, defaults.DryRun)
	command.Flags().Bool(forceDeleteFlagNameConstant, defaults.ForceDelete, forceDeleteFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	gitExecutor, executorError := builder.resolveGitExecutor(logger)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := builder.resolveRepositoryManager(gitExecutor)
	if managerError != nil {
		return managerError
	}

	service, serviceCreationError := NewService(Dependencies{
		GitExecutor:       gitExecutor,
		RepositoryManager: repositoryManager,
		Output:            utils.NewFlushingWriter(command.OutOrStdout()),
		Errors:            command.ErrOrStderr(),
	})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	_, executionError := service.Execute(command.Context(), options)
	if executionError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, executionError)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Options, error) {
	configuration := builder.resolveConfiguration()

	remoteName := configuration.RemoteName
	if command.Flags().Changed(flagutils.RemoteFlagName) {
		flagValue, flagError := command.Flags().GetString(flagutils.RemoteFlagName)
		if flagError != nil {
			return Options{}, flagError
		}
		remoteName = flagValue
	}
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		trimmedRemoteName = defaultRemoteNameConstant
	}

	dryRun := configuration.DryRun
	if command.Flags().Changed(flagutils.DryRunFlagName) {
		flagValue, flagError := command.Flags().GetBool(flagutils.DryRunFlagName)
		if flagError != nil {
			return Options{}, flagError
		}
		dryRun = flagValue
	}

	forceDelete := configuration.ForceDelete
	if command.Flags().Changed(forceDeleteFlagNameConstant) {
		flagValue, flagError := command.Flags().GetBool(forceDeleteFlagNameConstant)
		if flagError != nil {
			return Options{}, flagError
		}
		forceDelete = flagValue
	}

	return Options{
		RepositoryPath: builder.WorkingDirectory,
		RemoteName:     trimmedRemoteName,
		Mode:           builder.Mode,
		DryRun:         dryRun,
		ForceDelete:    forceDelete,
	}, nil
}

func (builder *CommandBuilder) describeMode() (string, string, string, error) {
	switch builder.Mode {
	case FetchModeFetch:
		return fetchCommandUseConstant, fetchCommandShortDescriptionConstant, fetchCommandLongDescriptionConstant, nil
	case FetchModePull:
		return pullCommandUseConstant, pullCommandShortDescriptionConstant, pullCommandLongDescriptionConstant, nil
	default:
		return "", "", "", fmt.Errorf(unsupportedModeTemplateConstant, string(builder.Mode))
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}
	return dependencies.ResolveGitExecutor(logger, builder.humanReadableLogging())
}

func (builder *CommandBuilder) resolveRepositoryManager(gitExecutor GitExecutor) (RepositoryManager, error) {
	if builder.RepositoryManager != nil {
		return builder.RepositoryManager, nil
	}
	return dependencies.ResolveRepositoryManager(gitExecutor)
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}
