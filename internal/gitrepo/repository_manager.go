package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gitwhisk/gitwhisk/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant     = "git executor not configured"
	branchNameRequiredMessageConstant     = "branch name must be provided"
	currentBranchEmptyMessageConstant     = "current branch not reported by git"
	currentBranchFailureTemplateConstant  = "failed to identify current branch: %w"
	branchListingFailureTemplateConstant  = "failed to list local branches: %w"
	branchDeletionFailureTemplateConstant = "failed to delete local branch %q: %w"
	gitRevParseSubcommandConstant         = "rev-parse"
	gitAbbrevRefFlagConstant              = "--abbrev-ref"
	gitHeadReferenceConstant              = "HEAD"
	gitForEachRefSubcommandConstant       = "for-each-ref"
	gitShortRefNameFormatFlagConstant     = "--format=%(refname:short)"
	gitLocalBranchPatternConstant         = "refs/heads"
	gitBranchSubcommandConstant           = "branch"
	gitDeleteFlagConstant                 = "--delete"
	gitForceFlagConstant                  = "--force"
	carriageReturnNewlineConstant         = "\r\n"
	newlineConstant                       = "\n"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrBranchNameRequired indicates an empty branch name was supplied.
var ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)

// ErrCurrentBranchNotDetected indicates git reported no branch name for HEAD.
var ErrCurrentBranchNotDetected = errors.New(currentBranchEmptyMessageConstant)

// GitExecutor exposes the subset of shell execution used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs repository-level git operations through a GitExecutor.
type RepositoryManager struct {
	gitExecutor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager backed by the provided executor.
func NewRepositoryManager(gitExecutor GitExecutor) (*RepositoryManager, error) {
	if gitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{gitExecutor: gitExecutor}, nil
}

// GetCurrentBranch resolves the branch HEAD currently points at.
//
// Detached HEAD states are reported as the literal "HEAD", matching git's
// rev-parse --abbrev-ref output.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: strings.TrimSpace(repositoryPath),
	})
	if executionError != nil {
		return "", fmt.Errorf(currentBranchFailureTemplateConstant, executionError)
	}

	currentBranch := strings.TrimSpace(executionResult.StandardOutput)
	if len(currentBranch) == 0 {
		return "", ErrCurrentBranchNotDetected
	}
	return currentBranch, nil
}

// ListLocalBranches enumerates the short names of all local branches.
func (manager *RepositoryManager) ListLocalBranches(executionContext context.Context, repositoryPath string) ([]string, error) {
	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitForEachRefSubcommandConstant, gitShortRefNameFormatFlagConstant, gitLocalBranchPatternConstant},
		WorkingDirectory: strings.TrimSpace(repositoryPath),
	})
	if executionError != nil {
		return nil, fmt.Errorf(branchListingFailureTemplateConstant, executionError)
	}

	normalizedOutput := strings.ReplaceAll(executionResult.StandardOutput, carriageReturnNewlineConstant, newlineConstant)
	branchNames := make([]string, 0)
	for _, outputLine := range strings.Split(normalizedOutput, newlineConstant) {
		branchName := strings.TrimSpace(outputLine)
		if len(branchName) == 0 {
			continue
		}
		branchNames = append(branchNames, branchName)
	}
	return branchNames, nil
}

// DeleteLocalBranch removes the named local branch, optionally forcing deletion
// of branches that are not fully merged.
func (manager *RepositoryManager) DeleteLocalBranch(executionContext context.Context, repositoryPath string, branchName string, forceDelete bool) error {
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return ErrBranchNameRequired
	}

	deletionArguments := []string{gitBranchSubcommandConstant, gitDeleteFlagConstant}
	if forceDelete {
		deletionArguments = append(deletionArguments, gitForceFlagConstant)
	}
	deletionArguments = append(deletionArguments, trimmedBranchName)

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        deletionArguments,
		WorkingDirectory: strings.TrimSpace(repositoryPath),
	})
	if executionError != nil {
		return fmt.Errorf(branchDeletionFailureTemplateConstant, trimmedBranchName, executionError)
	}
	return nil
}
