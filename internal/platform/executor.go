// Package platform invokes the external deployment CLI that performs all
// remote communication with the backend. Every interaction is a synchronous
// subprocess call whose stdout is the result and whose stderr is surfaced on
// failure.
package platform

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// ExecutionResult captures the output streams of a completed subprocess.
type ExecutionResult struct {
	Stdout string
	Stderr string
}

// CommandError reports a subprocess that exited unsuccessfully, preserving
// whatever the process wrote to its error stream.
type CommandError struct {
	BinaryName string
	Arguments  []string
	Stderr     string
	Underlying error
}

// Error renders the failure including the captured error stream when present.
func (commandError *CommandError) Error() string {
	if commandError.Stderr == "" {
		return fmt.Sprintf("%s failed: %v", commandError.BinaryName, commandError.Underlying)
	}
	return fmt.Sprintf("%s failed: %v\n%s", commandError.BinaryName, commandError.Underlying, commandError.Stderr)
}

// Unwrap exposes the underlying process error.
func (commandError *CommandError) Unwrap() error {
	return commandError.Underlying
}

// Executor runs an external binary and captures its output streams.
// Implementations block until the process exits.
type Executor interface {
	Execute(executionContext context.Context, binaryName string, arguments ...string) (ExecutionResult, error)
}

// OSExecutor runs binaries through os/exec.
type OSExecutor struct{}

// Execute runs the binary with the provided arguments, returning captured
// stdout and stderr. A non-zero exit status yields a *CommandError carrying
// the captured error stream.
func (OSExecutor) Execute(executionContext context.Context, binaryName string, arguments ...string) (ExecutionResult, error) {
	// #nosec G204
	command := exec.CommandContext(executionContext, binaryName, arguments...)
	var standardOutput bytes.Buffer
	var standardError bytes.Buffer
	command.Stdout = &standardOutput
	command.Stderr = &standardError

	runError := command.Run()
	result := ExecutionResult{
		Stdout: standardOutput.String(),
		Stderr: standardError.String(),
	}
	if runError != nil {
		return result, &CommandError{
			BinaryName: binaryName,
			Arguments:  arguments,
			Stderr:     result.Stderr,
			Underlying: runError,
		}
	}
	return result, nil
}
