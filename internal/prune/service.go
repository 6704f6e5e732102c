package prune

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gitwhisk/gitwhisk/internal/execshell"
)

const (
	defaultRemoteNameConstant               = "origin"
	gitPruneFlagConstant                    = "--prune"
	gitExecutorMissingMessageConstant       = "git executor not configured"
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	unsupportedModeTemplateConstant         = "unsupported fetch mode %q"
	streamFailureTemplateConstant           = "git %s failed: %w"
	deletedBranchTemplateConstant           = "Deleted branch %s\n"
	wouldDeleteBranchTemplateConstant       = "Would delete branch %s\n"
	skippedCurrentBranchTemplateConstant    = "Skipped %s (currently checked out)\n"
	deletionFailureTemplateConstant         = "Failed to delete branch %s: %v\n"
	noPrunedBranchesMessageConstant         = "No pruned branches."
	summaryTemplateConstant                 = "Pruned branches: %d (deleted %d, skipped %d, failed %d)\n"
	dryRunSummaryTemplateConstant           = "Pruned branches: %d (would delete %d, skipped %d)\n"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// FetchMode selects the git subcommand that produces pruning output.
type FetchMode string

// Supported fetch modes.
const (
	FetchModeFetch FetchMode = "fetch"
	FetchModePull  FetchMode = "pull"
)

// GitExecutor runs git commands for pruning workflows.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	StreamGit(executionContext context.Context, details execshell.CommandDetails, lineHandler execshell.LineHandler) (execshell.ExecutionResult, error)
}

// RepositoryManager exposes the repository operations used by pruning.
type RepositoryManager interface {
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	ListLocalBranches(executionContext context.Context, repositoryPath string) ([]string, error)
	DeleteLocalBranch(executionContext context.Context, repositoryPath string, branchName string, forceDelete bool) error
}

// BranchHighlighter decorates branch references for display.
type BranchHighlighter interface {
	HighlightLine(outputLine string, remoteName string, branchName string) string
	HighlightBranch(branchName string) string
}

// Dependencies enumerates external collaborators required for pruning.
type Dependencies struct {
	GitExecutor       GitExecutor
	RepositoryManager RepositoryManager
	Highlighter       BranchHighlighter
	Output            io.Writer
	Errors            io.Writer
}

// Options configures one pruning invocation.
type Options struct {
	RepositoryPath string
	RemoteName     string
	Mode           FetchMode
	DryRun         bool
	ForceDelete    bool
}

// BranchDeletionFailure records one branch whose local deletion failed.
type BranchDeletionFailure struct {
	BranchName string
	Reason     error
}

// Outcome reports the observable results of one pruning pass.
type Outcome struct {
	PrunedBranches  []string
	DeletedBranches []string
	SkippedBranches []string
	FailedDeletions []BranchDeletionFailure
	DryRun          bool
}

// Service coordinates fetch output mirroring with local branch pruning.
type Service struct {
	gitExecutor       GitExecutor
	repositoryManager RepositoryManager
	highlighter       BranchHighlighter
	output            io.Writer
	errorOutput       io.Writer
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}

	highlighter := dependencies.Highlighter
	if highlighter == nil {
		highlighter = NewHighlighter()
	}
	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}
	errorOutput := dependencies.Errors
	if errorOutput == nil {
		errorOutput = io.Discard
	}

	return &Service{
		gitExecutor:       dependencies.GitExecutor,
		repositoryManager: dependencies.RepositoryManager,
		highlighter:       highlighter,
		output:            output,
		errorOutput:       errorOutput,
	}, nil
}

type pruneRun struct {
	repositoryPath string
	remoteName     string
	currentBranch  string
	knownBranches  map[string]struct{}
	dryRun         bool
	forceDelete    bool
}

// Execute runs git fetch or pull with pruning enabled, mirrors every output
// line in order, and deletes local branches whose remote counterparts were
// pruned. The local branch snapshot and current branch are captured once
// before streaming begins.
func (service *Service) Execute(executionContext context.Context, options Options) (Outcome, error) {
	subcommand, subcommandError := resolveSubcommand(options.Mode)
	if subcommandError != nil {
		return Outcome{}, subcommandError
	}

	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = defaultRemoteNameConstant
	}
	repositoryPath := strings.TrimSpace(options.RepositoryPath)

	currentBranch, currentBranchError := service.repositoryManager.GetCurrentBranch(executionContext, repositoryPath)
	if currentBranchError != nil {
		return Outcome{}, currentBranchError
	}

	localBranches, listingError := service.repositoryManager.ListLocalBranches(executionContext, repositoryPath)
	if listingError != nil {
		return Outcome{}, listingError
	}
	knownBranches := make(map[string]struct{}, len(localBranches))
	for _, branchName := range localBranches {
		knownBranches[branchName] = struct{}{}
	}

	run := pruneRun{
		repositoryPath: repositoryPath,
		remoteName:     remoteName,
		currentBranch:  currentBranch,
		knownBranches:  knownBranches,
		dryRun:         options.DryRun,
		forceDelete:    options.ForceDelete,
	}

	outcome := Outcome{DryRun: options.DryRun}
	lineHandler := func(outputLine string) error {
		classification := ClassifyFetchLine(outputLine, run.remoteName)
		if !classification.Pruned {
			fmt.Fprintln(service.output, outputLine)
			return nil
		}

		fmt.Fprintln(service.output, service.highlighter.HighlightLine(outputLine, run.remoteName, classification.BranchName))
		outcome.PrunedBranches = append(outcome.PrunedBranches, classification.BranchName)
		service.resolvePrunedBranch(executionContext, run, classification.BranchName, &outcome)
		return nil
	}

	_, streamError := service.gitExecutor.StreamGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{subcommand, gitPruneFlagConstant},
		WorkingDirectory: repositoryPath,
	}, lineHandler)
	if streamError != nil {
		return outcome, fmt.Errorf(streamFailureTemplateConstant, subcommand, streamError)
	}

	service.printSummary(outcome)
	return outcome, nil
}

func (service *Service) resolvePrunedBranch(executionContext context.Context, run pruneRun, branchName string, outcome *Outcome) {
	if branchName == run.currentBranch {
		outcome.SkippedBranches = append(outcome.SkippedBranches, branchName)
		fmt.Fprintf(service.output, skippedCurrentBranchTemplateConstant, service.highlighter.HighlightBranch(branchName))
		return
	}

	if _, branchKnown := run.knownBranches[branchName]; !branchKnown {
		return
	}

	if run.dryRun {
		outcome.DeletedBranches = append(outcome.DeletedBranches, branchName)
		fmt.Fprintf(service.output, wouldDeleteBranchTemplateConstant, service.highlighter.HighlightBranch(branchName))
		return
	}

	deletionError := service.repositoryManager.DeleteLocalBranch(executionContext, run.repositoryPath, branchName, run.forceDelete)
	if deletionError != nil {
		outcome.FailedDeletions = append(outcome.FailedDeletions, BranchDeletionFailure{BranchName: branchName, Reason: deletionError})
		fmt.Fprintf(service.errorOutput, deletionFailureTemplateConstant, branchName, deletionError)
		return
	}

	outcome.DeletedBranches = append(outcome.DeletedBranches, branchName)
	fmt.Fprintf(service.output, deletedBranchTemplateConstant, service.highlighter.HighlightBranch(branchName))
}

func (service *Service) printSummary(outcome Outcome) {
	if len(outcome.PrunedBranches) == 0 {
		fmt.Fprintln(service.output, noPrunedBranchesMessageConstant)
		return
	}
	if outcome.DryRun {
		fmt.Fprintf(service.output, dryRunSummaryTemplateConstant, len(outcome.PrunedBranches), len(outcome.DeletedBranches), len(outcome.SkippedBranches))
		return
	}
	fmt.Fprintf(service.output, summaryTemplateConstant, len(outcome.PrunedBranches), len(outcome.DeletedBranches), len(outcome.SkippedBranches), len(outcome.FailedDeletions))
}

func resolveSubcommand(mode FetchMode) (string, error) {
	switch mode {
	case FetchModeFetch, FetchModePull:
		return string(mode), nil
	default:
		return "", fmt.Errorf(unsupportedModeTemplateConstant, string(mode))
	}
}
