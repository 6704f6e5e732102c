package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CommandName identifies an external executable invoked through the shell executor.
type CommandName string

// CommandGit names the git executable, the only external tool the application shells out to.
const CommandGit CommandName = "git"

const (
	commandLabelSeparatorConstant            = " "
	outputLineSeparatorConstant              = "\n"
	carriageReturnLineSeparatorConstant      = "\r\n"
	commandFailedTemplateConstant            = "%s exited with code %d"
	commandFailedWithStderrTemplateConstant  = "%s exited with code %d: %s"
	commandExecutionErrorTemplateConstant    = "%s could not be executed: %s"
	commandStartedLogMessageConstant         = "command started"
	commandCompletedLogMessageConstant       = "command completed"
	commandFailedLogMessageConstant          = "command failed"
	commandExecutionFailedLogMessageConstant = "command execution failed"
	commandFieldNameConstant                 = "command"
	workingDirectoryFieldNameConstant        = "working_directory"
	exitCodeFieldNameConstant                = "exit_code"
	standardErrorFieldNameConstant           = "standard_error"
)

// Validation errors reported by NewShellExecutor and the execution wrappers.
var (
	ErrLoggerNotConfigured        = errors.New("shell executor requires a logger")
	ErrCommandRunnerNotConfigured = errors.New("shell executor requires a command runner")
	ErrLineHandlerNotConfigured   = errors.New("line streaming requires a handler")
	ErrStreamingNotSupported      = errors.New("command runner does not support line streaming")
	ErrInteractiveNotSupported    = errors.New("command runner does not support interactive execution")
)

// CommandDetails captures the invocation parameters for a shell command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand couples an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

func (command ShellCommand) commandLabel() string {
	if len(command.Details.Arguments) == 0 {
		return string(command.Name)
	}
	return string(command.Name) + commandLabelSeparatorConstant + strings.Join(command.Details.Arguments, commandLabelSeparatorConstant)
}

// ExecutionResult reports the captured output and exit code of a completed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CombinedOutputLines returns standard error lines followed by standard output
// lines so that diagnostics remain visible when both streams carry content.
func (result ExecutionResult) CombinedOutputLines() []string {
	return append(splitOutputLines(result.StandardError), splitOutputLines(result.StandardOutput)...)
}

func splitOutputLines(capturedOutput string) []string {
	normalizedOutput := strings.ReplaceAll(capturedOutput, carriageReturnLineSeparatorConstant, outputLineSeparatorConstant)
	trimmedOutput := strings.TrimSuffix(normalizedOutput, outputLineSeparatorConstant)
	if len(trimmedOutput) == 0 {
		return nil
	}
	return strings.Split(trimmedOutput, outputLineSeparatorConstant)
}

// LineHandler consumes a single output line produced by a streaming command.
// Returning an error aborts the stream and terminates the underlying process.
type LineHandler func(outputLine string) error

// CommandRunner executes a shell command and captures its buffered output.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// LineStreamingRunner executes a shell command while delivering every output
// line to a handler as soon as it is produced.
type LineStreamingRunner interface {
	Stream(executionContext context.Context, command ShellCommand, lineHandler LineHandler) (ExecutionResult, error)
}

// InteractiveCommandRunner executes a shell command attached to the caller's terminal.
type InteractiveCommandRunner interface {
	RunInteractive(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports unexpected failures prior to receiving an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command including any captured standard error output.
func (failureError CommandFailedError) Error() string {
	trimmedStandardError := strings.TrimSpace(failureError.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedTemplateConstant, failureError.Command.commandLabel(), failureError.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedWithStderrTemplateConstant, failureError.Command.commandLabel(), failureError.Result.ExitCode, trimmedStandardError)
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the command alongside the underlying execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, executionError.Command.commandLabel(), executionError.Cause)
}

// Unwrap exposes the underlying execution failure for errors.Is and errors.As.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutor coordinates command execution, logging, and event notification.
type ShellExecutor struct {
	logger        *zap.Logger
	commandRunner CommandRunner
	eventObserver CommandEventObserver
}

// NewShellExecutor validates dependencies and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{logger: logger, commandRunner: commandRunner, eventObserver: noopCommandEventObserver{}}, nil
}

// SetEventObserver replaces the observer notified about command lifecycle events.
func (executor *ShellExecutor) SetEventObserver(observer CommandEventObserver) {
	if observer == nil {
		executor.eventObserver = noopCommandEventObserver{}
		return
	}
	executor.eventObserver = observer
}

// ExecuteGit runs git with the provided details and captures its buffered output.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// StreamGit runs git with the provided details while delivering every output
// line, from standard output and standard error alike, to the handler as soon
// as the process produces it.
func (executor *ShellExecutor) StreamGit(executionContext context.Context, details CommandDetails, lineHandler LineHandler) (ExecutionResult, error) {
	return executor.stream(executionContext, ShellCommand{Name: CommandGit, Details: details}, lineHandler)
}

// ExecuteGitInteractive runs git attached to the caller's terminal so that the
// subcommand can drive editors and prompts directly.
func (executor *ShellExecutor) ExecuteGitInteractive(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.executeInteractive(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

func (executor *ShellExecutor) execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.notifyStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		return ExecutionResult{}, executor.notifyExecutionFailure(command, runError)
	}
	return executor.notifyCompleted(command, executionResult)
}

func (executor *ShellExecutor) stream(executionContext context.Context, command ShellCommand, lineHandler LineHandler) (ExecutionResult, error) {
	if lineHandler == nil {
		return ExecutionResult{}, ErrLineHandlerNotConfigured
	}
	streamingRunner, supportsStreaming := executor.commandRunner.(LineStreamingRunner)
	if !supportsStreaming {
		return ExecutionResult{}, ErrStreamingNotSupported
	}

	executor.notifyStarted(command)

	executionResult, streamError := streamingRunner.Stream(executionContext, command, lineHandler)
	if streamError != nil {
		return ExecutionResult{}, executor.notifyExecutionFailure(command, streamError)
	}
	return executor.notifyCompleted(command, executionResult)
}

func (executor *ShellExecutor) executeInteractive(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	interactiveRunner, supportsInteractive := executor.commandRunner.(InteractiveCommandRunner)
	if !supportsInteractive {
		return ExecutionResult{}, ErrInteractiveNotSupported
	}

	executor.notifyStarted(command)

	executionResult, runError := interactiveRunner.RunInteractive(executionContext, command)
	if runError != nil {
		return ExecutionResult{}, executor.notifyExecutionFailure(command, runError)
	}
	return executor.notifyCompleted(command, executionResult)
}

func (executor *ShellExecutor) notifyStarted(command ShellCommand) {
	executor.eventObserver.CommandStarted(command)
	executor.logger.Debug(commandStartedLogMessageConstant,
		zap.String(commandFieldNameConstant, command.commandLabel()),
		zap.String(workingDirectoryFieldNameConstant, command.Details.WorkingDirectory),
	)
}

func (executor *ShellExecutor) notifyCompleted(command ShellCommand, executionResult ExecutionResult) (ExecutionResult, error) {
	executor.eventObserver.CommandCompleted(command, executionResult)
	if executionResult.ExitCode != 0 {
		executor.logger.Warn(commandFailedLogMessageConstant,
			zap.String(commandFieldNameConstant, command.commandLabel()),
			zap.Int(exitCodeFieldNameConstant, executionResult.ExitCode),
			zap.String(standardErrorFieldNameConstant, strings.TrimSpace(executionResult.StandardError)),
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}
	executor.logger.Debug(commandCompletedLogMessageConstant,
		zap.String(commandFieldNameConstant, command.commandLabel()),
		zap.Int(exitCodeFieldNameConstant, executionResult.ExitCode),
	)
	return executionResult, nil
}

func (executor *ShellExecutor) notifyExecutionFailure(command ShellCommand, failure error) error {
	executor.eventObserver.CommandExecutionFailed(command, failure)
	executor.logger.Error(commandExecutionFailedLogMessageConstant,
		zap.String(commandFieldNameConstant, command.commandLabel()),
		zap.Error(failure),
	)
	return CommandExecutionError{Command: command, Cause: failure}
}
