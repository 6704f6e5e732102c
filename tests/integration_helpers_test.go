package tests

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	integrationCommandTimeout                        = 15 * time.Second
	integrationBuildTimeout                          = 120 * time.Second
	integrationBinaryNameConstant                    = "gitwhisk"
	integrationGitExecutableConstant                 = "git"
	integrationGoExecutableConstant                  = "go"
	integrationEnvironmentAssignmentTemplateConstant = "%s=%s"
	integrationSubtestNameTemplateConstant           = "%d_%s"
	integrationConfigFileNameConstant                = "config.yaml"
	integrationDefaultAuthorNameConstant             = "Integration Tester"
	integrationDefaultAuthorEmailConstant            = "integration@example.com"
	integrationDefaultBranchNameConstant             = "main"
	integrationOriginRemoteNameConstant              = "origin"
	integrationOriginDirectoryNameConstant           = "origin.git"
	integrationCloneDirectoryNameConstant            = "clone"
	integrationSeedFileNameConstant                  = "README.txt"
	integrationSeedFileContentConstant               = "seed\n"
	integrationSeedCommitMessageConstant             = "initial commit"
	integrationSeedCommitTimestampConstant           = int64(1700000000)
	integrationAuthorDateTemplateConstant            = "@%d +0000"
)

// repositoryRootDirectory resolves the module root relative to this package.
func repositoryRootDirectory(testInstance *testing.T) string {
	testInstance.Helper()

	currentWorkingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)
	return filepath.Dir(currentWorkingDirectory)
}

// buildIntegrationBinary compiles the CLI into a temporary directory and
// returns the binary path.
func buildIntegrationBinary(testInstance *testing.T, repositoryRoot string) string {
	testInstance.Helper()

	executionContext, cancelFunction := context.WithTimeout(context.Background(), integrationBuildTimeout)
	defer cancelFunction()

	binaryPath := filepath.Join(testInstance.TempDir(), integrationBinaryNameConstant)
	buildCommand := exec.CommandContext(executionContext, integrationGoExecutableConstant, "build", "-o", binaryPath, ".")
	buildCommand.Dir = repositoryRoot

	outputBytes, buildError := buildCommand.CombinedOutput()
	require.NoError(testInstance, buildError, string(outputBytes))
	return binaryPath
}

// runBinaryIntegrationCommand executes the built CLI in the provided working
// directory and returns its combined output alongside the run error.
func runBinaryIntegrationCommand(
	testInstance *testing.T,
	binaryPath string,
	workingDirectory string,
	environmentOverrides map[string]string,
	timeout time.Duration,
	arguments []string,
) (string, error) {
	testInstance.Helper()

	executionContext, cancelFunction := context.WithTimeout(context.Background(), timeout)
	defer cancelFunction()

	command := exec.CommandContext(executionContext, binaryPath, arguments...)
	command.Dir = workingDirectory
	environment := append([]string{}, os.Environ()...)
	for environmentKey, environmentValue := range environmentOverrides {
		environment = append(environment, fmt.Sprintf(integrationEnvironmentAssignmentTemplateConstant, environmentKey, environmentValue))
	}
	command.Env = environment

	outputBytes, runError := command.CombinedOutput()
	return string(outputBytes), runError
}

// runGitCommand executes git in the provided directory and fails the test on
// a nonzero exit.
func runGitCommand(testInstance *testing.T, workingDirectory string, arguments ...string) string {
	testInstance.Helper()

	command := exec.Command(integrationGitExecutableConstant, arguments...)
	command.Dir = workingDirectory

	outputBytes, runError := command.CombinedOutput()
	require.NoError(testInstance, runError, string(outputBytes))
	return string(outputBytes)
}

// initializeIntegrationRepository creates an empty repository on the default
// branch inside a temporary directory.
func initializeIntegrationRepository(testInstance *testing.T) string {
	testInstance.Helper()

	repositoryPath := testInstance.TempDir()
	runGitCommand(testInstance, repositoryPath, "init", "--initial-branch="+integrationDefaultBranchNameConstant)
	return repositoryPath
}

// commitIntegrationFile writes a file and commits it with a fixed author and
// timestamp so history assertions stay deterministic.
func commitIntegrationFile(
	testInstance *testing.T,
	repositoryPath string,
	fileName string,
	fileContent string,
	commitMessage string,
	authorName string,
	authorEmail string,
	authorTimestamp int64,
) {
	testInstance.Helper()

	filePath := filepath.Join(repositoryPath, fileName)
	require.NoError(testInstance, os.WriteFile(filePath, []byte(fileContent), 0o644))
	runGitCommand(testInstance, repositoryPath, "add", "--all")

	commitCommand := exec.Command(integrationGitExecutableConstant, "commit", "-m", commitMessage)
	commitCommand.Dir = repositoryPath
	authorDate := fmt.Sprintf(integrationAuthorDateTemplateConstant, authorTimestamp)
	commitCommand.Env = append(append([]string{}, os.Environ()...),
		"GIT_AUTHOR_NAME="+authorName,
		"GIT_AUTHOR_EMAIL="+authorEmail,
		"GIT_AUTHOR_DATE="+authorDate,
		"GIT_COMMITTER_NAME="+authorName,
		"GIT_COMMITTER_EMAIL="+authorEmail,
		"GIT_COMMITTER_DATE="+authorDate,
	)

	outputBytes, commitError := commitCommand.CombinedOutput()
	require.NoError(testInstance, commitError, string(outputBytes))
}

// createIntegrationRemoteAndClone seeds a bare origin with one commit on the
// default branch and returns the bare path plus a working clone of it.
func createIntegrationRemoteAndClone(testInstance *testing.T) (string, string) {
	testInstance.Helper()

	seedPath := initializeIntegrationRepository(testInstance)
	commitIntegrationFile(
		testInstance,
		seedPath,
		integrationSeedFileNameConstant,
		integrationSeedFileContentConstant,
		integrationSeedCommitMessageConstant,
		integrationDefaultAuthorNameConstant,
		integrationDefaultAuthorEmailConstant,
		integrationSeedCommitTimestampConstant,
	)

	originPath := filepath.Join(testInstance.TempDir(), integrationOriginDirectoryNameConstant)
	runGitCommand(testInstance, seedPath, "init", "--bare", "--initial-branch="+integrationDefaultBranchNameConstant, originPath)
	runGitCommand(testInstance, seedPath, "remote", "add", integrationOriginRemoteNameConstant, originPath)
	runGitCommand(testInstance, seedPath, "push", integrationOriginRemoteNameConstant, integrationDefaultBranchNameConstant)

	clonePath := filepath.Join(testInstance.TempDir(), integrationCloneDirectoryNameConstant)
	runGitCommand(testInstance, seedPath, "clone", originPath, clonePath)
	return originPath, clonePath
}
