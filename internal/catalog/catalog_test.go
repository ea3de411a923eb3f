package catalog_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/temirov/fnsh/internal/catalog"
)

const (
	nestedIdentifier      = "dir/sub/file.js:fnName"
	bareModuleIdentifier  = "crons:default"
	deploymentURL         = "https://happy-animal-123.example.cloud"
	expectedLabel         = "happy-animal-123"
	malformedURL          = "not a url"
	usersTableName        = "users"
	identifierTypeTag     = "id"
	stringTypeTag         = "string"
	expectedIdentifierTag = `Id<"users">`
)

// TestNamespaceSegments verifies identifier conversion into dot-path segments.
func TestNamespaceSegments(testingHandle *testing.T) {
	testCases := []struct {
		name             string
		identifier       string
		expectedSegments []string
	}{
		{name: "nested module file", identifier: nestedIdentifier, expectedSegments: []string{"dir", "sub", "file", "fnName"}},
		{name: "bare module", identifier: bareModuleIdentifier, expectedSegments: []string{"crons", "default"}},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subtestHandle *testing.T) {
			descriptor := catalog.FunctionDescriptor{Identifier: testCase.identifier}
			segments := descriptor.NamespaceSegments()
			if !reflect.DeepEqual(segments, testCase.expectedSegments) {
				subtestHandle.Fatalf("segments for %s: got %v, want %v", testCase.identifier, segments, testCase.expectedSegments)
			}
		})
	}
}

// TestInvocationPath verifies the extension marker collapses to the CLI separator.
func TestInvocationPath(testingHandle *testing.T) {
	descriptor := catalog.FunctionDescriptor{Identifier: nestedIdentifier}
	invocationPath := descriptor.InvocationPath()
	if invocationPath != "dir/sub/file:fnName" {
		testingHandle.Fatalf("invocation path: got %q, want %q", invocationPath, "dir/sub/file:fnName")
	}
}

// TestDeploymentLabelFromURL verifies label extraction and its fallback.
func TestDeploymentLabelFromURL(testingHandle *testing.T) {
	if label := catalog.DeploymentLabelFromURL(deploymentURL); label != expectedLabel {
		testingHandle.Fatalf("label for %s: got %q, want %q", deploymentURL, label, expectedLabel)
	}
	if label := catalog.DeploymentLabelFromURL(malformedURL); label != catalog.PlaceholderDeploymentLabel {
		testingHandle.Fatalf("label fallback: got %q, want %q", label, catalog.PlaceholderDeploymentLabel)
	}
}

// TestBuildCatalog verifies visibility partitioning and the skipped count.
func TestBuildCatalog(testingHandle *testing.T) {
	document := catalog.SpecDocument{
		URL: deploymentURL,
		Functions: []catalog.FunctionDescriptor{
			{Identifier: "users.js:list", Visibility: &catalog.Visibility{Kind: catalog.VisibilityPublic}},
			{Identifier: "users.js:purge", Visibility: &catalog.Visibility{Kind: catalog.VisibilityInternal}},
			{Identifier: "users.js:orphan"},
		},
	}
	built := catalog.BuildCatalog(document)
	if built.DeploymentLabel != expectedLabel {
		testingHandle.Fatalf("deployment label: got %q, want %q", built.DeploymentLabel, expectedLabel)
	}
	if len(built.Public) != 1 || built.Public[0].Identifier != "users.js:list" {
		testingHandle.Fatalf("public partition: got %v", built.Public)
	}
	if len(built.Internal) != 1 || built.Internal[0].Identifier != "users.js:purge" {
		testingHandle.Fatalf("internal partition: got %v", built.Internal)
	}
	if built.SkippedCount != 1 {
		testingHandle.Fatalf("skipped count: got %d, want 1", built.SkippedCount)
	}
}

// TestParseSpecDocument verifies that invalid JSON is a fetch failure.
func TestParseSpecDocument(testingHandle *testing.T) {
	if _, parseError := catalog.ParseSpecDocument("not json"); parseError == nil {
		testingHandle.Fatal("expected parse error for invalid JSON")
	}
	document, parseError := catalog.ParseSpecDocument(`{"url":"` + deploymentURL + `","functions":[]}`)
	if parseError != nil {
		testingHandle.Fatalf("parsing valid document: %v", parseError)
	}
	if document.URL != deploymentURL {
		testingHandle.Fatalf("document url: got %q, want %q", document.URL, deploymentURL)
	}
}

// TestRenderedType verifies argument type rendering.
func TestRenderedType(testingHandle *testing.T) {
	testCases := []struct {
		name           string
		typeDescriptor catalog.TypeDescriptor
		expected       string
	}{
		{name: "reference type", typeDescriptor: catalog.TypeDescriptor{Type: identifierTypeTag, TableName: usersTableName}, expected: expectedIdentifierTag},
		{name: "primitive type", typeDescriptor: catalog.TypeDescriptor{Type: stringTypeTag}, expected: stringTypeTag},
		{name: "raw tag fallback", typeDescriptor: catalog.TypeDescriptor{Type: "union"}, expected: "union"},
		{name: "missing tag", typeDescriptor: catalog.TypeDescriptor{}, expected: "unknown"},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subtestHandle *testing.T) {
			rendered := catalog.RenderedType(testCase.typeDescriptor)
			if rendered != testCase.expected {
				subtestHandle.Fatalf("rendered type: got %q, want %q", rendered, testCase.expected)
			}
		})
	}
}

// TestReturnsAny verifies detection of the literal any return schema.
func TestReturnsAny(testingHandle *testing.T) {
	anyDescriptor := catalog.FunctionDescriptor{ReturnType: json.RawMessage(`"any"`)}
	if !anyDescriptor.ReturnsAny() {
		testingHandle.Fatal("literal any schema not detected")
	}
	objectDescriptor := catalog.FunctionDescriptor{ReturnType: json.RawMessage(`{"type":"string"}`)}
	if objectDescriptor.ReturnsAny() {
		testingHandle.Fatal("object schema reported as any")
	}
}
