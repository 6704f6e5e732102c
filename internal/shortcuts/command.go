package shortcuts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitwhisk/gitwhisk/internal/dependencies"
	flagutils "github.com/gitwhisk/gitwhisk/internal/utils/flags"
)

const (
	newCommandUseConstant                 = "new <word>..."
	newCommandAliasConstant               = "n"
	newCommandShortDescriptionConstant    = "Create a branch and push it upstream"
	newCommandLongDescriptionConstant     = "new joins its arguments with dashes into a branch name, creates the branch, and pushes it to the remote with an upstream tracking reference."
	pushCommandUseConstant                = "push"
	pushCommandAliasConstant              = "p"
	pushCommandShortDescriptionConstant   = "Push the current branch"
	pushCommandLongDescriptionConstant    = "push runs git push, optionally bypassing hooks with --no-verify."
	commitCommandUseConstant              = "commit <word>..."
	commitCommandAliasConstant            = "c"
	commitCommandShortDescriptionConstant = "Commit with a message built from the arguments"
	commitCommandLongDescriptionConstant  = "commit joins its arguments with spaces into a commit message and runs git commit."
	saveCommandUseConstant                = "save [word]..."
	saveCommandShortDescriptionConstant   = "Stage everything and commit"
	saveCommandLongDescriptionConstant    = "save stages all changes and commits them with the joined message, falling back to a checkpoint message."
	rebaseCommandUseConstant              = "rebase [count]"
	rebaseCommandAliasConstant            = "r"
	rebaseCommandShortDescriptionConstant = "Interactively rebase recent commits"
	rebaseCommandLongDescriptionConstant  = "rebase starts an interactive rebase over the last count commits, defaulting to 2, with the editor attached to the terminal."
	unsupportedKindTemplateConstant       = "unsupported shortcut kind %q"
	invalidRebaseCountTemplateConstant    = "invalid rebase count %q"
)

// CommandKind selects which git shortcut a builder produces.
type CommandKind string

// Supported shortcut kinds.
const (
	CommandKindNewBranch CommandKind = "new"
	CommandKindPush      CommandKind = "push"
	CommandKindCommit    CommandKind = "commit"
	CommandKindSave      CommandKind = "save"
	CommandKindRebase    CommandKind = "rebase"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the shortcut command for one kind.
type CommandBuilder struct {
	Kind                         CommandKind
	LoggerProvider               LoggerProvider
	GitExecutor                  GitExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	WorkingDirectory             string
}

type commandDescriptor struct {
	use              string
	aliases          []string
	shortDescription string
	longDescription  string
	argumentPolicy   cobra.PositionalArgs
	run              func(command *cobra.Command, arguments []string) error
	includeRemote    bool
	includeNoVerify  bool
}

// Build constructs the cobra command for the configured shortcut kind.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	descriptor, kindError := builder.describeKind()
	if kindError != nil {
		return nil, kindError
	}

	command := &cobra.Command{
		Use:     descriptor.use,
		Aliases: descriptor.aliases,
		Short:   descriptor.shortDescription,
		Long:    descriptor.longDescription,
		Args:    descriptor.argumentPolicy,
		RunE:    descriptor.run,
	}

	defaults := DefaultCommandConfiguration()
	if descriptor.includeRemote {
		flagutils.EnsureRemoteFlag(command, defaults.RemoteName)
	}
	if descriptor.includeNoVerify {
		flagutils.EnsureNoVerifyFlag(command, defaults.NoVerify)
	}

	return command, nil
}

func (builder *CommandBuilder) describeKind() (commandDescriptor, error) {
	switch builder.Kind {
	case CommandKindNewBranch:
		return commandDescriptor{
			use:              newCommandUseConstant,
			aliases:          []string{newCommandAliasConstant},
			shortDescription: newCommandShortDescriptionConstant,
			longDescription:  newCommandLongDescriptionConstant,
			argumentPolicy:   cobra.MinimumNArgs(1),
			run:              builder.runNewBranch,
			includeRemote:    true,
		}, nil
	case CommandKindPush:
		return commandDescriptor{
			use:              pushCommandUseConstant,
			aliases:          []string{pushCommandAliasConstant},
			shortDescription: pushCommandShortDescriptionConstant,
			longDescription:  pushCommandLongDescriptionConstant,
			argumentPolicy:   cobra.NoArgs,
			run:              builder.runPush,
			includeNoVerify:  true,
		}, nil
	case CommandKindCommit:
		return commandDescriptor{
			use:              commitCommandUseConstant,
			aliases:          []string{commitCommandAliasConstant},
			shortDescription: commitCommandShortDescriptionConstant,
			longDescription:  commitCommandLongDescriptionConstant,
			argumentPolicy:   cobra.MinimumNArgs(1),
			run:              builder.runCommit,
			includeNoVerify:  true,
		}, nil
	case CommandKindSave:
		return commandDescriptor{
			use:              saveCommandUseConstant,
			shortDescription: saveCommandShortDescriptionConstant,
			longDescription:  saveCommandLongDescriptionConstant,
			argumentPolicy:   cobra.ArbitraryArgs,
			run:              builder.runSave,
			includeNoVerify:  true,
		}, nil
	case CommandKindRebase:
		return commandDescriptor{
			use:              rebaseCommandUseConstant,
			aliases:          []string{rebaseCommandAliasConstant},
			shortDescription: rebaseCommandShortDescriptionConstant,
			longDescription:  rebaseCommandLongDescriptionConstant,
			argumentPolicy:   cobra.MaximumNArgs(1),
			run:              builder.runRebase,
		}, nil
	default:
		return commandDescriptor{}, fmt.Errorf(unsupportedKindTemplateConstant, string(builder.Kind))
	}
}

func (builder *CommandBuilder) runNewBranch(command *cobra.Command, arguments []string) error {
	remoteName, remoteError := builder.resolveRemoteName(command)
	if remoteError != nil {
		return remoteError
	}

	service, serviceError := builder.resolveService(command)
	if serviceError != nil {
		return serviceError
	}

	return service.NewBranch(command.Context(), NewBranchOptions{
		RepositoryPath: builder.WorkingDirectory,
		NameWords:      arguments,
		RemoteName:     remoteName,
	})
}

func (builder *CommandBuilder) runPush(command *cobra.Command, _ []string) error {
	noVerify, noVerifyError := builder.resolveNoVerify(command)
	if noVerifyError != nil {
		return noVerifyError
	}

	service, serviceError := builder.resolveService(command)
	if serviceError != nil {
		return serviceError
	}

	return service.Push(command.Context(), PushOptions{
		RepositoryPath: builder.WorkingDirectory,
		NoVerify:       noVerify,
	})
}

func (builder *CommandBuilder) runCommit(command *cobra.Command, arguments []string) error {
	noVerify, noVerifyError := builder.resolveNoVerify(command)
	if noVerifyError != nil {
		return noVerifyError
	}

	service, serviceError := builder.resolveService(command)
	if serviceError != nil {
		return serviceError
	}

	return service.Commit(command.Context(), CommitOptions{
		RepositoryPath: builder.WorkingDirectory,
		MessageWords:   arguments,
		NoVerify:       noVerify,
	})
}

func (builder *CommandBuilder) runSave(command *cobra.Command, arguments []string) error {
	noVerify, noVerifyError := builder.resolveNoVerify(command)
	if noVerifyError != nil {
		return noVerifyError
	}

	service, serviceError := builder.resolveService(command)
	if serviceError != nil {
		return serviceError
	}

	return service.Save(command.Context(), SaveOptions{
		RepositoryPath: builder.WorkingDirectory,
		MessageWords:   arguments,
		NoVerify:       noVerify,
	})
}

func (builder *CommandBuilder) runRebase(command *cobra.Command, arguments []string) error {
	commitCount := defaultRebaseCountConstant
	if len(arguments) > 0 {
		parsedCount, parseError := strconv.Atoi(strings.TrimSpace(arguments[0]))
		if parseError != nil {
			return fmt.Errorf(invalidRebaseCountTemplateConstant, arguments[0])
		}
		commitCount = parsedCount
	}

	service, serviceError := builder.resolveService(command)
	if serviceError != nil {
		return serviceError
	}

	return service.RebaseInteractive(command.Context(), RebaseOptions{
		RepositoryPath: builder.WorkingDirectory,
		CommitCount:    commitCount,
	})
}

func (builder *CommandBuilder) resolveService(command *cobra.Command) (*Service, error) {
	logger := builder.resolveLogger()
	gitExecutor, executorError := builder.resolveGitExecutor(logger)
	if executorError != nil {
		return nil, executorError
	}

	return NewService(Dependencies{
		GitExecutor: gitExecutor,
		Output:      command.OutOrStdout(),
	})
}

func (builder *CommandBuilder) resolveRemoteName(command *cobra.Command) (string, error) {
	remoteName := builder.resolveConfiguration().RemoteName
	if command.Flags().Changed(flagutils.RemoteFlagName) {
		flagValue, flagError := command.Flags().GetString(flagutils.RemoteFlagName)
		if flagError != nil {
			return "", flagError
		}
		remoteName = flagValue
	}
	return remoteName, nil
}

func (builder *CommandBuilder) resolveNoVerify(command *cobra.Command) (bool, error) {
	noVerify := builder.resolveConfiguration().NoVerify
	if command.Flags().Changed(flagutils.NoVerifyFlagName) {
		flagValue, flagError := command.Flags().GetBool(flagutils.NoVerifyFlagName)
		if flagError != nil {
			return false, flagError
		}
		noVerify = flagValue
	}
	return noVerify, nil
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

func (builder *CommandBuilder) humanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}
