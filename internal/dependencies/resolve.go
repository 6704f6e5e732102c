// Package dependencies provides shared constructors for collaborators used by
// the command builders, so every command resolves executors and repository
// managers the same way.
package dependencies

import (
	"go.uber.org/zap"

	"github.com/gitwhisk/gitwhisk/internal/execshell"
	"github.com/gitwhisk/gitwhisk/internal/gitrepo"
	"github.com/gitwhisk/gitwhisk/internal/ui"
)

// ResolveGitExecutor constructs a shell-backed git executor. When human
// readable logging is active, command lifecycle events are echoed to the
// console through the provided logger.
func ResolveGitExecutor(logger *zap.Logger, humanReadableLogging bool) (*execshell.ShellExecutor, error) {
	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner)
	if creationError != nil {
		return nil, creationError
	}
	if humanReadableLogging {
		shellExecutor.SetEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}
	return shellExecutor, nil
}

// ResolveRepositoryManager constructs a repository manager from the executor.
func ResolveRepositoryManager(gitExecutor gitrepo.GitExecutor) (*gitrepo.RepositoryManager, error) {
	return gitrepo.NewRepositoryManager(gitExecutor)
}
