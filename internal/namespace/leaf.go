package namespace

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/temirov/fnsh/internal/catalog"
)

const (
	emptyArgumentsJSON      = "{}"
	optionalArgumentSuffix  = "?"
	anyReturnTypeRendering  = "any"
	unknownFunctionKindName = "function"
	noArgumentsPlaceholder  = "  (none)"
)

// Leaf is a tree node bound to exactly one function descriptor. Calling it
// executes the function remotely through the platform CLI.
type Leaf struct {
	descriptor     catalog.FunctionDescriptor
	invocationPath string
	runner         FunctionRunner
}

// Descriptor returns the bound function metadata.
func (leaf *Leaf) Descriptor() catalog.FunctionDescriptor {
	return leaf.descriptor
}

// InvocationPath returns the address the platform CLI expects for this
// function.
func (leaf *Leaf) InvocationPath() string {
	return leaf.invocationPath
}

// Call executes the function with the provided argument object (nil means no
// arguments). The CLI's stdout is decoded as JSON when possible; otherwise
// the trimmed raw text is returned. Both are successful outcomes. A failed
// subprocess propagates as an error.
func (leaf *Leaf) Call(executionContext context.Context, argumentObject map[string]any) (any, error) {
	argumentsJSON := emptyArgumentsJSON
	if len(argumentObject) > 0 {
		encoded, marshalError := json.Marshal(argumentObject)
		if marshalError != nil {
			return nil, fmt.Errorf("encoding arguments for %s: %w", leaf.invocationPath, marshalError)
		}
		argumentsJSON = string(encoded)
	}
	rawOutput, runError := leaf.runner.RunFunction(executionContext, leaf.invocationPath, argumentsJSON)
	if runError != nil {
		return nil, runError
	}
	return DecodeResult(rawOutput), nil
}

// DecodeResult interprets the platform CLI's stdout: a JSON-parseable value
// decodes to its Go representation, anything else is returned as trimmed
// text.
func DecodeResult(rawOutput string) any {
	trimmedOutput := strings.TrimSpace(rawOutput)
	var decodedValue any
	if unmarshalError := json.Unmarshal([]byte(trimmedOutput), &decodedValue); unmarshalError == nil {
		return decodedValue
	}
	return trimmedOutput
}

// Signature renders the leaf's human-readable description: function kind,
// invocation path, the argument list with optional markers, and the return
// type.
func (leaf *Leaf) Signature() string {
	functionKind := leaf.descriptor.FunctionKind
	if functionKind == "" {
		functionKind = unknownFunctionKindName
	}
	var rendered strings.Builder
	fmt.Fprintf(&rendered, "%s %s\n", functionKind, leaf.invocationPath)
	rendered.WriteString("Arguments:\n")
	argumentNames := make([]string, 0, len(leaf.descriptor.Arguments))
	for argumentName := range leaf.descriptor.Arguments {
		argumentNames = append(argumentNames, argumentName)
	}
	sort.Strings(argumentNames)
	if len(argumentNames) == 0 {
		rendered.WriteString(noArgumentsPlaceholder + "\n")
	}
	for _, argumentName := range argumentNames {
		argumentSchema := leaf.descriptor.Arguments[argumentName]
		renderedType := catalog.RenderedType(argumentSchema.FieldType)
		if argumentSchema.Optional {
			renderedType += optionalArgumentSuffix
		}
		fmt.Fprintf(&rendered, "  %s: %s\n", argumentName, renderedType)
	}
	fmt.Fprintf(&rendered, "Returns: %s", leaf.renderedReturnType())
	return rendered.String()
}

func (leaf *Leaf) renderedReturnType() string {
	if leaf.descriptor.ReturnsAny() {
		return anyReturnTypeRendering
	}
	return string(leaf.descriptor.ReturnType)
}
