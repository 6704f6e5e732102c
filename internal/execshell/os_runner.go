package execshell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
)

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes the supplied command using os/exec and buffers both output streams.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := runner.buildExecutable(executionContext, command)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}

// Stream executes the supplied command and forwards every line from standard
// output and standard error to the handler in arrival order. The merged lines
// are fully consumed before the process exit status is collected, and a
// handler error cancels the process and aborts the stream.
func (runner *OSCommandRunner) Stream(executionContext context.Context, command ShellCommand, lineHandler LineHandler) (ExecutionResult, error) {
	streamContext, cancelStream := context.WithCancel(executionContext)
	defer cancelStream()

	executable := runner.buildExecutable(streamContext, command)

	standardOutputPipe, standardOutputPipeError := executable.StdoutPipe()
	if standardOutputPipeError != nil {
		return ExecutionResult{}, standardOutputPipeError
	}
	standardErrorPipe, standardErrorPipeError := executable.StderrPipe()
	if standardErrorPipeError != nil {
		return ExecutionResult{}, standardErrorPipeError
	}

	if startError := executable.Start(); startError != nil {
		return ExecutionResult{}, startError
	}

	lineChannel := make(chan string)
	var scannerGroup errgroup.Group
	scannerGroup.Go(func() error {
		return scanLinesInto(standardOutputPipe, lineChannel)
	})
	scannerGroup.Go(func() error {
		return scanLinesInto(standardErrorPipe, lineChannel)
	})
	go func() {
		_ = scannerGroup.Wait()
		close(lineChannel)
	}()

	var handlerError error
	for outputLine := range lineChannel {
		if handlerError != nil {
			continue
		}
		if callbackError := lineHandler(outputLine); callbackError != nil {
			handlerError = callbackError
			cancelStream()
		}
	}

	scanError := scannerGroup.Wait()
	waitError := executable.Wait()
	if handlerError != nil {
		return ExecutionResult{}, handlerError
	}
	if waitError != nil {
		exitError := &exec.ExitError{}
		if errors.As(waitError, &exitError) {
			return ExecutionResult{ExitCode: exitError.ExitCode()}, nil
		}
		return ExecutionResult{}, waitError
	}
	if scanError != nil {
		return ExecutionResult{}, scanError
	}
	return ExecutionResult{ExitCode: 0}, nil
}

// RunInteractive executes the supplied command attached to the parent process
// standard streams so that git can drive terminal prompts and editors.
func (runner *OSCommandRunner) RunInteractive(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := runner.buildExecutable(executionContext, command)
	executable.Stdin = os.Stdin
	executable.Stdout = os.Stdout
	executable.Stderr = os.Stderr

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{ExitCode: exitError.ExitCode()}, nil
		}
		return ExecutionResult{}, runError
	}
	return ExecutionResult{ExitCode: 0}, nil
}

func (runner *OSCommandRunner) buildExecutable(executionContext context.Context, command ShellCommand) *exec.Cmd {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	return executable
}

// scanLinesInto forwards each scanned line to the channel. bufio.ScanLines
// strips the trailing carriage return, so CRLF output is delivered clean.
func scanLinesInto(sourceReader io.Reader, lineChannel chan<- string) error {
	outputScanner := bufio.NewScanner(sourceReader)
	for outputScanner.Scan() {
		lineChannel <- outputScanner.Text()
	}
	return outputScanner.Err()
}
