package catalog

import (
	"encoding/json"
	"fmt"
	"regexp"
)

const (
	// PlaceholderDeploymentLabel substitutes for the deployment label when the
	// deployment URL does not carry a recognizable host label.
	PlaceholderDeploymentLabel = "unknown"

	specDocumentParseErrorFormat = "function spec is not valid JSON: %w"
)

// deploymentLabelPattern extracts the first host label from a deployment URL
// of the form scheme://label.rest.
var deploymentLabelPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://([^./:]+)\.`)

// SpecDocument is the JSON document emitted by the platform CLI's
// function-spec subcommand.
type SpecDocument struct {
	URL       string               `json:"url"`
	Functions []FunctionDescriptor `json:"functions"`
}

// Catalog is the parsed and partitioned function set for one deployment.
type Catalog struct {
	// DeploymentLabel is the short name extracted from the deployment URL.
	DeploymentLabel string
	// Public holds descriptors addressable by external clients.
	Public []FunctionDescriptor
	// Internal holds descriptors restricted to internal callers.
	Internal []FunctionDescriptor
	// SkippedCount counts descriptors dropped for missing visibility.
	SkippedCount int
}

// ParseSpecDocument decodes the raw function-spec output. Invalid JSON is a
// fetch failure.
func ParseSpecDocument(rawDocument string) (SpecDocument, error) {
	var document SpecDocument
	if unmarshalError := json.Unmarshal([]byte(rawDocument), &document); unmarshalError != nil {
		return SpecDocument{}, fmt.Errorf(specDocumentParseErrorFormat, unmarshalError)
	}
	return document, nil
}

// BuildCatalog partitions the document's descriptors by visibility.
// Descriptors without a usable visibility field are treated as incomplete
// data: they are dropped from both partitions and counted, never fatal.
func BuildCatalog(document SpecDocument) Catalog {
	built := Catalog{DeploymentLabel: DeploymentLabelFromURL(document.URL)}
	for _, descriptor := range document.Functions {
		if descriptor.Visibility == nil || descriptor.Visibility.Kind == "" {
			built.SkippedCount++
			continue
		}
		switch descriptor.Visibility.Kind {
		case VisibilityPublic:
			built.Public = append(built.Public, descriptor)
		case VisibilityInternal:
			built.Internal = append(built.Internal, descriptor)
		default:
			built.SkippedCount++
		}
	}
	return built
}

// DeploymentLabelFromURL extracts the short deployment label from the host
// portion of the deployment URL, falling back to PlaceholderDeploymentLabel
// when the URL does not match the expected shape.
func DeploymentLabelFromURL(deploymentURL string) string {
	matches := deploymentLabelPattern.FindStringSubmatch(deploymentURL)
	if len(matches) != 2 {
		return PlaceholderDeploymentLabel
	}
	return matches[1]
}
