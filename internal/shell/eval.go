package shell

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/temirov/fnsh/internal/namespace"
	"github.com/temirov/fnsh/internal/output"
)

const (
	unrecognizedInputFormat   = "Unrecognized input %q. Type help() for available commands."
	unknownBindingFormat      = "Unknown binding %q. Available bindings: api, internal, update(), help(), copy()."
	missingMemberFormat       = "%s has no member %q."
	moduleNotCallableFormat   = "%s is a module, not a function."
	builtinTakesNoArgsFormat  = "%s() takes no arguments."
	invalidArgumentsFormat    = "Arguments for %s must be a single JSON object, got %q."
	pathSeparator             = "."
	argumentObjectOpenBracket = "{"
)

// expressionPattern recognizes a dotted-path expression with an optional
// trailing call, e.g. `api.users.list({"limit": 10})`.
var expressionPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\s*(\(.*\))?\s*$`)

// Evaluate interprets one line typed at the prompt. The returned text is
// printed verbatim; the boolean requests loop termination. Only fetch and
// invocation failures surface as errors; unknown paths and malformed input
// are diagnostics in the returned text.
func (session *Session) Evaluate(executionContext context.Context, inputLine string) (string, bool, error) {
	trimmedLine := strings.TrimSpace(inputLine)
	if trimmedLine == "" {
		return "", false, nil
	}
	if trimmedLine == exitCommandName {
		return "", true, nil
	}

	match := expressionPattern.FindStringSubmatch(trimmedLine)
	if match == nil {
		return fmt.Sprintf(unrecognizedInputFormat, trimmedLine), false, nil
	}
	pathExpression := match[1]
	callText := match[2]
	hasCall := callText != ""
	argumentsText := ""
	if hasCall {
		argumentsText = strings.TrimSpace(callText[1 : len(callText)-1])
	}

	segments := strings.Split(pathExpression, pathSeparator)
	if len(segments) == 1 {
		switch segments[0] {
		case updateBindingName, helpBindingName, copyBindingName:
			return session.evaluateBuiltin(executionContext, segments[0], argumentsText)
		}
	}

	var rootNode *namespace.Node
	switch segments[0] {
	case publicBindingName:
		rootNode = session.publicRoot
	case internalBindingName:
		rootNode = session.internalRoot
	default:
		return fmt.Sprintf(unknownBindingFormat, segments[0]), false, nil
	}

	currentNode := rootNode
	walkedPath := segments[0]
	for _, segment := range segments[1:] {
		childNode, childExists := currentNode.Child(segment)
		if !childExists {
			return fmt.Sprintf(missingMemberFormat, walkedPath, segment), false, nil
		}
		currentNode = childNode
		walkedPath += pathSeparator + segment
	}

	if currentNode.IsLeaf() {
		if !hasCall {
			return currentNode.Leaf().Signature(), false, nil
		}
		return session.evaluateInvocation(executionContext, currentNode.Leaf(), walkedPath, argumentsText)
	}
	if hasCall {
		return fmt.Sprintf(moduleNotCallableFormat, walkedPath), false, nil
	}
	return output.RenderModuleListing(currentNode.ChildNames()), false, nil
}

func (session *Session) evaluateBuiltin(executionContext context.Context, bindingName string, argumentsText string) (string, bool, error) {
	if argumentsText != "" {
		return fmt.Sprintf(builtinTakesNoArgsFormat, bindingName), false, nil
	}
	switch bindingName {
	case updateBindingName:
		summary, updateError := session.Update(executionContext)
		return summary, false, updateError
	case helpBindingName:
		return session.Help(), false, nil
	default:
		copied, copyError := session.Copy()
		return copied, false, copyError
	}
}

func (session *Session) evaluateInvocation(executionContext context.Context, leaf *namespace.Leaf, walkedPath string, argumentsText string) (string, bool, error) {
	argumentObject, parseOk := parseArgumentObject(argumentsText)
	if !parseOk {
		return fmt.Sprintf(invalidArgumentsFormat, walkedPath, argumentsText), false, nil
	}
	resultValue, callError := leaf.Call(executionContext, argumentObject)
	if callError != nil {
		return "", false, callError
	}
	renderedResult := output.RenderValue(resultValue)
	session.lastResult = renderedResult
	return renderedResult, false, nil
}

// parseArgumentObject decodes the call arguments: empty text means an empty
// argument object, anything else must be a single JSON object.
func parseArgumentObject(argumentsText string) (map[string]any, bool) {
	if argumentsText == "" {
		return nil, true
	}
	if !strings.HasPrefix(argumentsText, argumentObjectOpenBracket) {
		return nil, false
	}
	var argumentObject map[string]any
	if unmarshalError := json.Unmarshal([]byte(argumentsText), &argumentObject); unmarshalError != nil {
		return nil, false
	}
	return argumentObject, true
}
