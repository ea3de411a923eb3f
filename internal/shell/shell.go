package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/temirov/fnsh/internal/utils"
)

const (
	startupMessageFormat       = "Connected to %s (%s). Type help() for available commands, .exit to quit."
	deploymentModeDev          = "dev"
	deploymentModeProduction   = "production"
	terminalRawModeErrorFormat = "entering terminal raw mode: %w"
	candidateSeparator         = "  "
	tabulatorKey               = '\t'
)

// terminalReadWriter pairs stdin and stdout for term.NewTerminal.
type terminalReadWriter struct {
	io.Reader
	io.Writer
}

// Run starts the read-eval-print loop on standard input. A terminal gets the
// raw-mode line editor with tab-completion; anything else (pipes, tests)
// gets the plain scripted loop.
func Run(executionContext context.Context, session *Session) error {
	stdinDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinDescriptor) {
		return RunScripted(executionContext, session, os.Stdin, os.Stdout)
	}

	previousState, rawModeError := term.MakeRaw(stdinDescriptor)
	if rawModeError != nil {
		return fmt.Errorf(terminalRawModeErrorFormat, rawModeError)
	}
	defer func() {
		if restoreError := term.Restore(stdinDescriptor, previousState); restoreError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to restore terminal: %v\n", restoreError)
		}
	}()

	terminal := term.NewTerminal(terminalReadWriter{os.Stdin, os.Stdout}, session.Prompt())
	terminal.AutoCompleteCallback = func(line string, position int, key rune) (string, int, bool) {
		if key != tabulatorKey {
			return line, position, false
		}
		completion := session.Complete(line, position)
		if completion.Applied {
			return completion.Line, completion.Position, true
		}
		if len(completion.Candidates) > 1 {
			// The callback runs while the terminal holds its internal lock,
			// so candidates go straight to the underlying writer.
			fmt.Fprintf(os.Stdout, "\r\n%s\r\n", strings.Join(completion.Candidates, candidateSeparator))
		}
		return line, position, false
	}

	fmt.Fprintln(terminal, session.startupMessage())
	for {
		inputLine, readError := terminal.ReadLine()
		if readError == io.EOF {
			return nil
		}
		if readError != nil {
			return readError
		}
		outputText, terminate, evaluationError := session.Evaluate(executionContext, inputLine)
		if evaluationError != nil {
			fmt.Fprintf(terminal, utils.ErrorLogFormat+"\n", evaluationError)
			continue
		}
		if terminate {
			return nil
		}
		if outputText != "" {
			fmt.Fprintln(terminal, outputText)
		}
		terminal.SetPrompt(session.Prompt())
	}
}

// RunScripted evaluates lines from the reader without terminal control,
// printing results and diagnostics to the writer. Used for piped input and
// exercised directly by tests.
func RunScripted(executionContext context.Context, session *Session, inputReader io.Reader, outputWriter io.Writer) error {
	fmt.Fprintln(outputWriter, session.startupMessage())
	lineScanner := bufio.NewScanner(inputReader)
	for lineScanner.Scan() {
		outputText, terminate, evaluationError := session.Evaluate(executionContext, lineScanner.Text())
		if evaluationError != nil {
			fmt.Fprintf(outputWriter, utils.ErrorLogFormat+"\n", evaluationError)
			continue
		}
		if terminate {
			return nil
		}
		if outputText != "" {
			fmt.Fprintln(outputWriter, outputText)
		}
	}
	return lineScanner.Err()
}

func (session *Session) startupMessage() string {
	deploymentMode := deploymentModeDev
	if session.deployment.Production {
		deploymentMode = deploymentModeProduction
	}
	return fmt.Sprintf(startupMessageFormat, session.deployment.Label, deploymentMode)
}
