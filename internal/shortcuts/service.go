package shortcuts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gitwhisk/gitwhisk/internal/execshell"
)

const (
	defaultRemoteNameConstant           = "origin"
	defaultRebaseCountConstant          = 2
	defaultSaveMessageConstant          = "checkpoint"
	gitExecutorMissingMessageConstant   = "git executor not configured"
	branchNameMissingMessageConstant    = "branch name cannot be empty"
	commitMessageMissingMessageConstant = "commit message cannot be empty"
	rebaseCountTooSmallMessageConstant  = "rebase count must be at least 1"
	stepFailureTemplateConstant         = "%s failed: %w"
	branchWordSeparatorConstant         = "-"
	messageWordSeparatorConstant        = " "
	rebaseTargetTemplateConstant        = "HEAD~%d"
	createBranchStepNameConstant        = "create new branch"
	pushStepNameTemplateConstant        = "push to %s"
	pushStepNameConstant                = "push"
	stageStepNameConstant               = "stage changes"
	commitStepNameConstant              = "commit"
	rebaseStepNameConstant              = "interactive rebase"
	gitSwitchSubcommandConstant         = "switch"
	gitCreateFlagConstant               = "--create"
	gitPushSubcommandConstant           = "push"
	gitSetUpstreamFlagConstant          = "--set-upstream"
	gitCommitSubcommandConstant         = "commit"
	gitMessageFlagConstant              = "-m"
	gitAddSubcommandConstant            = "add"
	gitAllFlagConstant                  = "--all"
	gitNoVerifyFlagConstant             = "--no-verify"
	gitRebaseSubcommandConstant         = "rebase"
	gitInteractiveFlagConstant          = "--interactive"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrBranchNameMissing indicates no usable branch name words were supplied.
var ErrBranchNameMissing = errors.New(branchNameMissingMessageConstant)

// ErrCommitMessageMissing indicates no usable commit message words were supplied.
var ErrCommitMessageMissing = errors.New(commitMessageMissingMessageConstant)

// ErrRebaseCountTooSmall indicates the requested rebase depth was below one.
var ErrRebaseCountTooSmall = errors.New(rebaseCountTooSmallMessageConstant)

// GitExecutor runs git commands for the shortcut workflows.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitInteractive(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Dependencies enumerates external collaborators required by the shortcuts.
type Dependencies struct {
	GitExecutor GitExecutor
	Output      io.Writer
}

// NewBranchOptions configures branch creation and its upstream push.
type NewBranchOptions struct {
	RepositoryPath string
	NameWords      []string
	RemoteName     string
}

// PushOptions configures a push of the current branch.
type PushOptions struct {
	RepositoryPath string
	NoVerify       bool
}

// CommitOptions configures a commit built from message words.
type CommitOptions struct {
	RepositoryPath string
	MessageWords   []string
	NoVerify       bool
}

// SaveOptions configures the stage-everything-and-commit workflow.
type SaveOptions struct {
	RepositoryPath string
	MessageWords   []string
	NoVerify       bool
}

// RebaseOptions configures an interactive rebase over recent commits.
type RebaseOptions struct {
	RepositoryPath string
	CommitCount    int
}

// sequenceStep is one named git invocation inside a shortcut workflow.
type sequenceStep struct {
	name      string
	arguments []string
}

// Service executes the short multi-step git workflows behind each shortcut.
type Service struct {
	gitExecutor GitExecutor
	output      io.Writer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}

	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}

	return &Service{gitExecutor: dependencies.GitExecutor, output: output}, nil
}

// NewBranch joins the name words with dashes into a branch name, creates the
// branch, and pushes it with an upstream tracking reference.
func (service *Service) NewBranch(executionContext context.Context, options NewBranchOptions) error {
	branchName := joinWords(options.NameWords, branchWordSeparatorConstant)
	if len(branchName) == 0 {
		return ErrBranchNameMissing
	}

	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = defaultRemoteNameConstant
	}

	return service.runSequence(executionContext, options.RepositoryPath, []sequenceStep{
		{name: createBranchStepNameConstant, arguments: []string{gitSwitchSubcommandConstant, gitCreateFlagConstant, branchName}},
		{name: fmt.Sprintf(pushStepNameTemplateConstant, remoteName), arguments: []string{gitPushSubcommandConstant, gitSetUpstreamFlagConstant, remoteName, branchName}},
	})
}

// Push pushes the current branch, optionally bypassing hooks.
func (service *Service) Push(executionContext context.Context, options PushOptions) error {
	arguments := []string{gitPushSubcommandConstant}
	if options.NoVerify {
		arguments = append(arguments, gitNoVerifyFlagConstant)
	}

	return service.runSequence(executionContext, options.RepositoryPath, []sequenceStep{
		{name: pushStepNameConstant, arguments: arguments},
	})
}

// Commit records a commit whose message is the space-joined message words.
func (service *Service) Commit(executionContext context.Context, options CommitOptions) error {
	commitMessage := joinWords(options.MessageWords, messageWordSeparatorConstant)
	if len(commitMessage) == 0 {
		return ErrCommitMessageMissing
	}

	return service.runSequence(executionContext, options.RepositoryPath, []sequenceStep{
		commitStep(commitMessage, options.NoVerify),
	})
}

// Save stages every change and commits the result. When no message words are
// supplied the commit uses the default checkpoint message.
func (service *Service) Save(executionContext context.Context, options SaveOptions) error {
	commitMessage := joinWords(options.MessageWords, messageWordSeparatorConstant)
	if len(commitMessage) == 0 {
		commitMessage = defaultSaveMessageConstant
	}

	return service.runSequence(executionContext, options.RepositoryPath, []sequenceStep{
		{name: stageStepNameConstant, arguments: []string{gitAddSubcommandConstant, gitAllFlagConstant}},
		commitStep(commitMessage, options.NoVerify),
	})
}

// RebaseInteractive starts an interactive rebase over the most recent commits
// with the editor attached to the caller's terminal.
func (service *Service) RebaseInteractive(executionContext context.Context, options RebaseOptions) error {
	if options.CommitCount < 1 {
		return ErrRebaseCountTooSmall
	}

	rebaseTarget := fmt.Sprintf(rebaseTargetTemplateConstant, options.CommitCount)
	_, executionError := service.gitExecutor.ExecuteGitInteractive(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRebaseSubcommandConstant, gitInteractiveFlagConstant, rebaseTarget},
		WorkingDirectory: options.RepositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(stepFailureTemplateConstant, rebaseStepNameConstant, executionError)
	}

	return nil
}

// runSequence executes the named steps in order, mirroring each step's
// captured output, and aborts at the first failing step.
func (service *Service) runSequence(executionContext context.Context, repositoryPath string, steps []sequenceStep) error {
	for _, step := range steps {
		executionResult, executionError := service.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        step.arguments,
			WorkingDirectory: repositoryPath,
		})
		if executionError != nil {
			return fmt.Errorf(stepFailureTemplateConstant, step.name, executionError)
		}

		for _, outputLine := range executionResult.CombinedOutputLines() {
			fmt.Fprintln(service.output, outputLine)
		}
	}

	return nil
}

func commitStep(commitMessage string, noVerify bool) sequenceStep {
	arguments := []string{gitCommitSubcommandConstant, gitMessageFlagConstant, commitMessage}
	if noVerify {
		arguments = append(arguments, gitNoVerifyFlagConstant)
	}
	return sequenceStep{name: commitStepNameConstant, arguments: arguments}
}

func joinWords(words []string, separator string) string {
	cleanedWords := make([]string, 0, len(words))
	for _, word := range words {
		trimmedWord := strings.TrimSpace(word)
		if len(trimmedWord) == 0 {
			continue
		}
		cleanedWords = append(cleanedWords, trimmedWord)
	}
	return strings.Join(cleanedWords, separator)
}
