// Package shell implements the interactive read-eval-print loop: session
// state, expression evaluation over the namespace trees, tab-completion, and
// terminal handling.
package shell

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/temirov/fnsh/internal/catalog"
	"github.com/temirov/fnsh/internal/namespace"
	"github.com/temirov/fnsh/internal/output"
)

const (
	publicBindingName   = "api"
	internalBindingName = "internal"
	updateBindingName   = "update"
	helpBindingName     = "help"
	copyBindingName     = "copy"
	exitCommandName     = ".exit"

	devPromptFormat        = "%s> "
	productionPromptFormat = "%s:prod> "

	updateSummaryFormat        = "Loaded %d public and %d internal functions."
	updateSkippedSummaryFormat = "Loaded %d public and %d internal functions. Skipped %d without visibility."
	nothingToCopyMessage       = "Nothing to copy yet."
	copiedMessage              = "Copied last result to clipboard."
	fetchFailureFormat         = "fetching function spec: %w"
)

// PlatformClient is the external CLI surface the session depends on.
// *platform.Client satisfies this interface.
type PlatformClient interface {
	FetchFunctionSpec(executionContext context.Context) (string, error)
	RunFunction(executionContext context.Context, invocationPath string, argumentsJSON string) (string, error)
	Production() bool
}

// DeploymentContext identifies the deployment the session talks to. It is
// mutated only by Update and read by the prompt.
type DeploymentContext struct {
	Label      string
	Production bool
}

// Session owns the live namespace roots and deployment context for one shell
// run. All state is single-threaded; Update replaces the trees wholesale.
type Session struct {
	client       PlatformClient
	publicRoot   *namespace.Node
	internalRoot *namespace.Node
	deployment   DeploymentContext
	lastResult   string
	clipboardSet func(text string) error
}

// NewSession constructs a session bound to the provided platform client. The
// namespace roots are empty until the first Update.
func NewSession(client PlatformClient) *Session {
	return &Session{
		client:       client,
		publicRoot:   namespace.NewTree(nil, client),
		internalRoot: namespace.NewTree(nil, client),
		deployment:   DeploymentContext{Label: catalog.PlaceholderDeploymentLabel, Production: client.Production()},
		clipboardSet: clipboard.WriteAll,
	}
}

// Deployment returns the active deployment context.
func (session *Session) Deployment() DeploymentContext {
	return session.deployment
}

// PublicRoot returns the public namespace tree root.
func (session *Session) PublicRoot() *namespace.Node {
	return session.publicRoot
}

// InternalRoot returns the internal namespace tree root.
func (session *Session) InternalRoot() *namespace.Node {
	return session.internalRoot
}

// Prompt renders the interactive prompt for the active deployment.
func (session *Session) Prompt() string {
	if session.deployment.Production {
		return fmt.Sprintf(productionPromptFormat, session.deployment.Label)
	}
	return fmt.Sprintf(devPromptFormat, session.deployment.Label)
}

// Update re-fetches the function spec and rebuilds both namespace trees. On
// any failure the previously built trees remain untouched and the error
// propagates. On success it returns a one-line summary including the count
// of descriptors skipped for missing visibility.
func (session *Session) Update(executionContext context.Context) (string, error) {
	rawDocument, fetchError := session.client.FetchFunctionSpec(executionContext)
	if fetchError != nil {
		return "", fmt.Errorf(fetchFailureFormat, fetchError)
	}
	document, parseError := catalog.ParseSpecDocument(rawDocument)
	if parseError != nil {
		return "", parseError
	}
	built := catalog.BuildCatalog(document)

	session.publicRoot = namespace.NewTree(built.Public, session.client)
	session.internalRoot = namespace.NewTree(built.Internal, session.client)
	session.deployment = DeploymentContext{Label: built.DeploymentLabel, Production: session.client.Production()}

	if built.SkippedCount > 0 {
		return fmt.Sprintf(updateSkippedSummaryFormat, len(built.Public), len(built.Internal), built.SkippedCount), nil
	}
	return fmt.Sprintf(updateSummaryFormat, len(built.Public), len(built.Internal)), nil
}

// Help renders the help block for the current trees.
func (session *Session) Help() string {
	return output.RenderHelp(session.publicRoot.ChildNames(), session.internalRoot.ChildNames())
}

// Copy places the last rendered invocation result on the system clipboard.
func (session *Session) Copy() (string, error) {
	if session.lastResult == "" {
		return nothingToCopyMessage, nil
	}
	if copyError := session.clipboardSet(session.lastResult); copyError != nil {
		return "", fmt.Errorf("copying result to clipboard: %w", copyError)
	}
	return copiedMessage, nil
}
