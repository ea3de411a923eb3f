package shell

import (
	"strings"

	"github.com/temirov/fnsh/internal/namespace"
)

// topLevelBindingNames are offered when the token being completed is not a
// dotted path into one of the namespace roots.
var topLevelBindingNames = []string{
	publicBindingName,
	internalBindingName,
	updateBindingName,
	helpBindingName,
	copyBindingName,
}

// Completion is the outcome of one tab-completion request.
type Completion struct {
	// Line and Position replace the input when Applied is true.
	Line     string
	Position int
	Applied  bool
	// Candidates lists the possible continuations when the input could not
	// be extended unambiguously.
	Candidates []string
}

// Complete extends the token ending at the cursor. A token containing dots
// is resolved as a path into the live namespace trees; the partial trailing
// segment is matched against the reached node's children. Any other token is
// matched against the top-level binding names.
func (session *Session) Complete(inputLine string, cursorPosition int) Completion {
	if cursorPosition > len(inputLine) {
		cursorPosition = len(inputLine)
	}
	tokenStart := cursorPosition
	for tokenStart > 0 && isPathRune(rune(inputLine[tokenStart-1])) {
		tokenStart--
	}
	token := inputLine[tokenStart:cursorPosition]

	partialSegment, candidates := session.completionCandidates(token)
	if len(candidates) == 0 {
		return Completion{Line: inputLine, Position: cursorPosition}
	}

	extension := commonPrefix(candidates)
	if len(extension) > len(partialSegment) {
		completedLine := inputLine[:cursorPosition-len(partialSegment)] + extension + inputLine[cursorPosition:]
		return Completion{
			Line:     completedLine,
			Position: cursorPosition - len(partialSegment) + len(extension),
			Applied:  true,
		}
	}
	return Completion{Line: inputLine, Position: cursorPosition, Candidates: candidates}
}

// completionCandidates returns the partial trailing segment of the token and
// the names that could complete it.
func (session *Session) completionCandidates(token string) (string, []string) {
	if !strings.Contains(token, pathSeparator) {
		return token, filterByPrefix(topLevelBindingNames, token)
	}
	segments := strings.Split(token, pathSeparator)
	partialSegment := segments[len(segments)-1]
	prefixSegments := segments[:len(segments)-1]

	var rootNode *namespace.Node
	switch prefixSegments[0] {
	case publicBindingName:
		rootNode = session.publicRoot
	case internalBindingName:
		rootNode = session.internalRoot
	default:
		return partialSegment, nil
	}
	reachedNode, reached := rootNode.Lookup(prefixSegments[1:])
	if !reached {
		return partialSegment, nil
	}
	return partialSegment, filterByPrefix(reachedNode.ChildNames(), partialSegment)
}

func isPathRune(candidate rune) bool {
	switch {
	case candidate >= 'a' && candidate <= 'z':
		return true
	case candidate >= 'A' && candidate <= 'Z':
		return true
	case candidate >= '0' && candidate <= '9':
		return true
	case candidate == '_' || candidate == '.':
		return true
	default:
		return false
	}
}

func filterByPrefix(names []string, prefix string) []string {
	var matched []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			matched = append(matched, name)
		}
	}
	return matched
}

func commonPrefix(names []string) string {
	prefix := names[0]
	for _, name := range names[1:] {
		for !strings.HasPrefix(name, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
