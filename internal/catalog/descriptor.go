// Package catalog models the function metadata published by a deployment and
// turns the raw function-spec document into visibility-partitioned descriptor
// sets ready for namespace construction.
package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	// VisibilityPublic marks functions addressable by external clients.
	VisibilityPublic = "public"
	// VisibilityInternal marks functions restricted to internal callers.
	VisibilityInternal = "internal"

	moduleExtensionMarker   = ".js:"
	identifierPathSeparator = "/"
	invocationSeparator     = ":"
	typeTagIdentifier       = "id"
	anyReturnLiteral        = `"any"`
)

// TypeDescriptor describes the type of one argument field. Only the type tag
// and, for reference types, the target table name are interpreted; everything
// else is carried verbatim.
type TypeDescriptor struct {
	Type      string `json:"type"`
	TableName string `json:"tableName,omitempty"`
}

// ArgumentSchema describes a single named argument of a function.
type ArgumentSchema struct {
	FieldType TypeDescriptor `json:"fieldType"`
	Optional  bool           `json:"optional"`
}

// Visibility states whether a function is publicly addressable.
type Visibility struct {
	Kind string `json:"kind"`
}

// FunctionDescriptor is the metadata record for one remote function as
// published by the deployment. Descriptors are immutable once fetched; the
// full set is replaced wholesale on each refresh.
type FunctionDescriptor struct {
	Identifier   string                    `json:"identifier"`
	FunctionKind string                    `json:"functionType"`
	Arguments    map[string]ArgumentSchema `json:"args"`
	ReturnType   json.RawMessage           `json:"returns"`
	Visibility   *Visibility               `json:"visibility"`
}

// NamespaceSegments converts the descriptor identifier into dot-path segments
// for namespace insertion: the module-path separator and the file-extension
// marker both become segment boundaries, so "dir/sub/file.js:fnName" yields
// ["dir", "sub", "file", "fnName"].
func (descriptor FunctionDescriptor) NamespaceSegments() []string {
	normalized := strings.Replace(descriptor.Identifier, moduleExtensionMarker, identifierPathSeparator, 1)
	normalized = strings.Replace(normalized, invocationSeparator, identifierPathSeparator, 1)
	segments := strings.Split(normalized, identifierPathSeparator)
	filtered := segments[:0]
	for _, segment := range segments {
		if segment != "" {
			filtered = append(filtered, segment)
		}
	}
	return filtered
}

// InvocationPath derives the address the platform CLI expects for this
// function: the file-extension marker collapses to the CLI's own separator
// and the module path is otherwise preserved, so "dir/sub/file.js:fnName"
// yields "dir/sub/file:fnName". The transform loses no information.
func (descriptor FunctionDescriptor) InvocationPath() string {
	return strings.Replace(descriptor.Identifier, moduleExtensionMarker, invocationSeparator, 1)
}

// ReturnsAny reports whether the declared return schema is the literal "any".
func (descriptor FunctionDescriptor) ReturnsAny() bool {
	return len(descriptor.ReturnType) == 0 ||
		bytes.Equal(bytes.TrimSpace(descriptor.ReturnType), []byte(anyReturnLiteral))
}

// RenderedType formats a type descriptor for display: reference types render
// as Id<"table">, every other type renders as its raw type tag.
func RenderedType(typeDescriptor TypeDescriptor) string {
	if typeDescriptor.Type == typeTagIdentifier && typeDescriptor.TableName != "" {
		return `Id<"` + typeDescriptor.TableName + `">`
	}
	if typeDescriptor.Type == "" {
		return "unknown"
	}
	return typeDescriptor.Type
}
