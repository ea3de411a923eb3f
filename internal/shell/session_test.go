package shell

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const specDocumentFixture = `{
  "url": "https://happy-animal-123.example.cloud",
  "functions": [
    {"identifier": "users.js:list", "functionType": "Query", "visibility": {"kind": "public"}},
    {"identifier": "users.js:create", "functionType": "Mutation", "visibility": {"kind": "public"}},
    {"identifier": "admin/purge.js:run", "functionType": "Action", "visibility": {"kind": "internal"}},
    {"identifier": "orphan.js:fn"}
  ]
}`

// fakePlatformClient replays canned spec and run responses.
type fakePlatformClient struct {
	specDocument     string
	specFailure      error
	runOutput        string
	runFailure       error
	production       bool
	lastRunPath      string
	lastRunArguments string
}

func (client *fakePlatformClient) FetchFunctionSpec(_ context.Context) (string, error) {
	if client.specFailure != nil {
		return "", client.specFailure
	}
	return client.specDocument, nil
}

func (client *fakePlatformClient) RunFunction(_ context.Context, invocationPath string, argumentsJSON string) (string, error) {
	client.lastRunPath = invocationPath
	client.lastRunArguments = argumentsJSON
	if client.runFailure != nil {
		return "", client.runFailure
	}
	return client.runOutput, nil
}

func (client *fakePlatformClient) Production() bool {
	return client.production
}

func newUpdatedSession(testingHandle *testing.T, client *fakePlatformClient) *Session {
	testingHandle.Helper()
	session := NewSession(client)
	if _, updateError := session.Update(context.Background()); updateError != nil {
		testingHandle.Fatalf("initial update: %v", updateError)
	}
	return session
}

// TestUpdateBuildsPartitionedTrees verifies visibility partitioning and the skipped report.
func TestUpdateBuildsPartitionedTrees(testingHandle *testing.T) {
	client := &fakePlatformClient{specDocument: specDocumentFixture}
	session := NewSession(client)

	summary, updateError := session.Update(context.Background())
	if updateError != nil {
		testingHandle.Fatalf("update: %v", updateError)
	}
	if !strings.Contains(summary, "2 public") || !strings.Contains(summary, "1 internal") {
		testingHandle.Fatalf("summary counts missing: %q", summary)
	}
	if !strings.Contains(summary, "Skipped 1") {
		testingHandle.Fatalf("summary skipped count missing: %q", summary)
	}
	if _, found := session.PublicRoot().Lookup([]string{"users", "list"}); !found {
		testingHandle.Fatal("api.users.list missing from public tree")
	}
	if _, found := session.PublicRoot().Lookup([]string{"admin"}); found {
		testingHandle.Fatal("internal function leaked into public tree")
	}
	if _, found := session.InternalRoot().Lookup([]string{"admin", "purge", "run"}); !found {
		testingHandle.Fatal("internal.admin.purge.run missing from internal tree")
	}
	if session.Deployment().Label != "happy-animal-123" {
		testingHandle.Fatalf("deployment label: got %q", session.Deployment().Label)
	}
}

// TestUpdateFailureLeavesTreesUntouched verifies a failed refresh keeps the old trees.
func TestUpdateFailureLeavesTreesUntouched(testingHandle *testing.T) {
	client := &fakePlatformClient{specDocument: specDocumentFixture}
	session := newUpdatedSession(testingHandle, client)
	previousPublicRoot := session.PublicRoot()
	previousInternalRoot := session.InternalRoot()

	client.specFailure = errors.New("spec command exited 1")
	if _, updateError := session.Update(context.Background()); updateError == nil {
		testingHandle.Fatal("expected update failure")
	}
	if session.PublicRoot() != previousPublicRoot || session.InternalRoot() != previousInternalRoot {
		testingHandle.Fatal("trees were replaced despite fetch failure")
	}

	client.specFailure = nil
	client.specDocument = "not json"
	if _, updateError := session.Update(context.Background()); updateError == nil {
		testingHandle.Fatal("expected parse failure")
	}
	if session.PublicRoot() != previousPublicRoot {
		testingHandle.Fatal("trees were replaced despite parse failure")
	}
}

// TestEvaluateInvocation verifies calling a leaf renders the decoded result.
func TestEvaluateInvocation(testingHandle *testing.T) {
	client := &fakePlatformClient{specDocument: specDocumentFixture, runOutput: `{"ok":true}`}
	session := newUpdatedSession(testingHandle, client)

	outputText, terminate, evaluationError := session.Evaluate(context.Background(), `api.users.list({})`)
	if evaluationError != nil || terminate {
		testingHandle.Fatalf("evaluate: error=%v terminate=%v", evaluationError, terminate)
	}
	if !strings.Contains(outputText, `"ok": true`) {
		testingHandle.Fatalf("rendered result: %q", outputText)
	}
	if client.lastRunPath != "users:list" {
		testingHandle.Fatalf("invocation path: got %q, want %q", client.lastRunPath, "users:list")
	}
	if client.lastRunArguments != "{}" {
		testingHandle.Fatalf("arguments: got %q, want %q", client.lastRunArguments, "{}")
	}
}

// TestEvaluateRawTextResult verifies non-JSON CLI output passes through as text.
func TestEvaluateRawTextResult(testingHandle *testing.T) {
	client := &fakePlatformClient{specDocument: specDocumentFixture, runOutput: "done\n"}
	session := newUpdatedSession(testingHandle, client)

	outputText, _, evaluationError := session.Evaluate(context.Background(), `api.users.list()`)
	if evaluationError != nil {
		testingHandle.Fatalf("evaluate: %v", evaluationError)
	}
	if outputText != "done" {
		testingHandle.Fatalf("raw result: got %q, want %q", outputText, "done")
	}
}

// TestEvaluateInvocationFailure verifies run failures propagate as errors.
func TestEvaluateInvocationFailure(testingHandle *testing.T) {
	invocationFailure := errors.New("run exited 1")
	client := &fakePlatformClient{specDocument: specDocumentFixture, runFailure: invocationFailure}
	session := newUpdatedSession(testingHandle, client)

	_, _, evaluationError := session.Evaluate(context.Background(), `api.users.list()`)
	if !errors.Is(evaluationError, invocationFailure) {
		testingHandle.Fatalf("propagated failure: got %v", evaluationError)
	}
}

// TestEvaluateNavigation verifies signatures, listings, and diagnostics.
func TestEvaluateNavigation(testingHandle *testing.T) {
	client := &fakePlatformClient{specDocument: specDocumentFixture}
	session := newUpdatedSession(testingHandle, client)

	testCases := []struct {
		name             string
		inputLine        string
		expectedFragment string
	}{
		{name: "leaf signature", inputLine: "api.users.list", expectedFragment: "Query users:list"},
		{name: "module listing", inputLine: "api.users", expectedFragment: "list"},
		{name: "root listing", inputLine: "api", expectedFragment: "users"},
		{name: "missing member", inputLine: "api.users.missing", expectedFragment: `api.users has no member "missing"`},
		{name: "unknown binding", inputLine: "nope.users", expectedFragment: `Unknown binding "nope"`},
		{name: "module not callable", inputLine: "api.users()", expectedFragment: "api.users is a module, not a function"},
		{name: "invalid arguments", inputLine: `api.users.list(42)`, expectedFragment: "must be a single JSON object"},
		{name: "internal navigation", inputLine: "internal.admin.purge.run", expectedFragment: "Action admin/purge:run"},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subtestHandle *testing.T) {
			outputText, terminate, evaluationError := session.Evaluate(context.Background(), testCase.inputLine)
			if evaluationError != nil || terminate {
				subtestHandle.Fatalf("evaluate %q: error=%v terminate=%v", testCase.inputLine, evaluationError, terminate)
			}
			if !strings.Contains(outputText, testCase.expectedFragment) {
				subtestHandle.Fatalf("evaluate %q: output %q missing %q", testCase.inputLine, outputText, testCase.expectedFragment)
			}
		})
	}
}

// TestEvaluateBuiltins verifies the update, help, and exit commands.
func TestEvaluateBuiltins(testingHandle *testing.T) {
	client := &fakePlatformClient{specDocument: specDocumentFixture}
	session := newUpdatedSession(testingHandle, client)

	summary, terminate, updateError := session.Evaluate(context.Background(), "update()")
	if updateError != nil || terminate {
		testingHandle.Fatalf("update(): error=%v terminate=%v", updateError, terminate)
	}
	if !strings.Contains(summary, "2 public") {
		testingHandle.Fatalf("update summary: %q", summary)
	}

	helpText, _, helpError := session.Evaluate(context.Background(), "help()")
	if helpError != nil {
		testingHandle.Fatalf("help(): %v", helpError)
	}
	for _, expectedFragment := range []string{"api", "internal", "update()", ".exit", "users", "admin"} {
		if !strings.Contains(helpText, expectedFragment) {
			testingHandle.Fatalf("help output missing %q:\n%s", expectedFragment, helpText)
		}
	}

	_, terminate, exitError := session.Evaluate(context.Background(), ".exit")
	if exitError != nil || !terminate {
		testingHandle.Fatalf(".exit: error=%v terminate=%v", exitError, terminate)
	}
}

// TestCopyBinding verifies copy() forwards the last rendered result.
func TestCopyBinding(testingHandle *testing.T) {
	client := &fakePlatformClient{specDocument: specDocumentFixture, runOutput: "done"}
	session := newUpdatedSession(testingHandle, client)

	var copiedText string
	session.clipboardSet = func(text string) error {
		copiedText = text
		return nil
	}

	beforeText, _, copyError := session.Evaluate(context.Background(), "copy()")
	if copyError != nil {
		testingHandle.Fatalf("copy() before invocation: %v", copyError)
	}
	if beforeText != nothingToCopyMessage {
		testingHandle.Fatalf("copy() before invocation: got %q", beforeText)
	}

	if _, _, evaluationError := session.Evaluate(context.Background(), "api.users.list()"); evaluationError != nil {
		testingHandle.Fatalf("invocation: %v", evaluationError)
	}
	if _, _, copyError := session.Evaluate(context.Background(), "copy()"); copyError != nil {
		testingHandle.Fatalf("copy(): %v", copyError)
	}
	if copiedText != "done" {
		testingHandle.Fatalf("copied text: got %q, want %q", copiedText, "done")
	}
}

// TestPrompt verifies the deployment label and production marker.
func TestPrompt(testingHandle *testing.T) {
	devClient := &fakePlatformClient{specDocument: specDocumentFixture}
	devSession := newUpdatedSession(testingHandle, devClient)
	if prompt := devSession.Prompt(); prompt != "happy-animal-123> " {
		testingHandle.Fatalf("dev prompt: got %q", prompt)
	}

	productionClient := &fakePlatformClient{specDocument: specDocumentFixture, production: true}
	productionSession := newUpdatedSession(testingHandle, productionClient)
	if prompt := productionSession.Prompt(); prompt != "happy-animal-123:prod> " {
		testingHandle.Fatalf("production prompt: got %q", prompt)
	}
}
