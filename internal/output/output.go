// Package output renders shell results for the terminal: invocation results
// as indented JSON or raw text, module listings, and the help block.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	moduleListingHeader = "Modules:"
	emptyModuleListing  = "  (empty)"
	helpBindingsHeader  = "Available bindings:"
	helpPublicHeader    = "Public modules (api):"
	helpInternalHeader  = "Internal modules (internal):"
)

// helpBindingLines describes the fixed top-level bindings of the shell.
var helpBindingLines = []string{
	"  api        public function namespace",
	"  internal   internal function namespace",
	"  update()   re-fetch the function spec and rebuild both namespaces",
	"  help()     print this overview",
	"  copy()     copy the last result to the clipboard",
	"  .exit      leave the shell",
}

// RenderValue formats a decoded invocation result. Structured values render
// as indented JSON; strings render verbatim.
func RenderValue(value any) string {
	if textValue, isText := value.(string); isText {
		return textValue
	}
	encoded, marshalError := json.MarshalIndent(value, indentPrefix, indentSpacer)
	if marshalError != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(encoded)
}

// RenderModuleListing formats the immediate children of a module node.
func RenderModuleListing(childNames []string) string {
	var rendered strings.Builder
	rendered.WriteString(moduleListingHeader)
	if len(childNames) == 0 {
		rendered.WriteString("\n" + emptyModuleListing)
		return rendered.String()
	}
	for _, childName := range childNames {
		rendered.WriteString("\n  " + childName)
	}
	return rendered.String()
}

// RenderHelp formats the help block: fixed bindings plus the top-level module
// names discovered in each namespace.
func RenderHelp(publicModuleNames []string, internalModuleNames []string) string {
	var rendered strings.Builder
	rendered.WriteString(helpBindingsHeader + "\n")
	rendered.WriteString(strings.Join(helpBindingLines, "\n"))
	rendered.WriteString("\n" + helpPublicHeader + "\n")
	rendered.WriteString(renderNameList(publicModuleNames))
	rendered.WriteString("\n" + helpInternalHeader + "\n")
	rendered.WriteString(renderNameList(internalModuleNames))
	return rendered.String()
}

func renderNameList(names []string) string {
	if len(names) == 0 {
		return emptyModuleListing
	}
	indented := make([]string, 0, len(names))
	for _, name := range names {
		indented = append(indented, indentSpacer+name)
	}
	return strings.Join(indented, "\n")
}
