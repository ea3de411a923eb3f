package platform

import "context"

const (
	// DefaultBinaryName is the platform CLI invoked when configuration does not name one.
	DefaultBinaryName = "convex"

	functionSpecSubcommand = "function-spec"
	runSubcommand          = "run"
	productionFlag         = "--prod"
)

// Client builds and runs invocations of the platform CLI against a single
// deployment (dev or production).
type Client struct {
	binaryName string
	production bool
	executor   Executor
}

// NewClient constructs a Client. An empty binary name selects
// DefaultBinaryName and a nil executor selects OSExecutor.
func NewClient(binaryName string, production bool, executor Executor) *Client {
	if binaryName == "" {
		binaryName = DefaultBinaryName
	}
	if executor == nil {
		executor = OSExecutor{}
	}
	return &Client{binaryName: binaryName, production: production, executor: executor}
}

// Production reports whether the client targets the production deployment.
func (client *Client) Production() bool {
	return client.production
}

// FetchFunctionSpec runs the CLI's function-spec subcommand and returns its
// raw stdout, expected to be a single JSON document describing every
// function exposed by the deployment.
func (client *Client) FetchFunctionSpec(executionContext context.Context) (string, error) {
	arguments := []string{functionSpecSubcommand}
	if client.production {
		arguments = append(arguments, productionFlag)
	}
	result, executionError := client.executor.Execute(executionContext, client.binaryName, arguments...)
	if executionError != nil {
		return "", executionError
	}
	return result.Stdout, nil
}

// RunFunction executes one remote function by invocation path with
// JSON-encoded arguments and returns the raw stdout of the CLI, which may be
// JSON or plain text depending on the function.
func (client *Client) RunFunction(executionContext context.Context, invocationPath string, argumentsJSON string) (string, error) {
	arguments := []string{runSubcommand}
	if client.production {
		arguments = append(arguments, productionFlag)
	}
	arguments = append(arguments, invocationPath, argumentsJSON)
	result, executionError := client.executor.Execute(executionContext, client.binaryName, arguments...)
	if executionError != nil {
		return "", executionError
	}
	return result.Stdout, nil
}
