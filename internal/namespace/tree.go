// Package namespace converts a flat list of function descriptors into a
// lazily navigable tree of modules and callable leaves. A tree is built fresh
// on every refresh and never mutated afterwards, so lookups of the same
// sub-path always return the same node instance.
package namespace

import (
	"context"
	"sort"

	"github.com/temirov/fnsh/internal/catalog"
)

// FunctionRunner executes one remote function through the platform CLI.
// *platform.Client satisfies this interface.
type FunctionRunner interface {
	RunFunction(executionContext context.Context, invocationPath string, argumentsJSON string) (string, error)
}

// Node is either an interior module node with named children or a leaf bound
// to exactly one function descriptor.
type Node struct {
	children map[string]*Node
	leaf     *Leaf
}

// NewTree builds a namespace tree from the provided descriptors. Each
// descriptor's namespace segments are inserted in full; two descriptors
// mapping to the same path overwrite, last write wins. A descriptor whose
// path runs through an existing leaf converts that leaf into a module node.
func NewTree(descriptors []catalog.FunctionDescriptor, runner FunctionRunner) *Node {
	root := newInteriorNode()
	for _, descriptor := range descriptors {
		insertDescriptor(root, descriptor, runner)
	}
	return root
}

func newInteriorNode() *Node {
	return &Node{children: map[string]*Node{}}
}

func insertDescriptor(root *Node, descriptor catalog.FunctionDescriptor, runner FunctionRunner) {
	segments := descriptor.NamespaceSegments()
	if len(segments) == 0 {
		return
	}
	currentNode := root
	for _, segment := range segments[:len(segments)-1] {
		childNode, childExists := currentNode.children[segment]
		if !childExists || childNode.children == nil {
			childNode = newInteriorNode()
			currentNode.children[segment] = childNode
		}
		currentNode = childNode
	}
	lastSegment := segments[len(segments)-1]
	currentNode.children[lastSegment] = &Node{
		leaf: &Leaf{descriptor: descriptor, invocationPath: descriptor.InvocationPath(), runner: runner},
	}
}

// IsLeaf reports whether the node is bound to a callable function.
func (node *Node) IsLeaf() bool {
	return node != nil && node.leaf != nil
}

// Leaf returns the callable bound to a leaf node, or nil for module nodes.
func (node *Node) Leaf() *Leaf {
	if node == nil {
		return nil
	}
	return node.leaf
}

// Child returns the named child node. The second result reports whether the
// child exists; absence is an ordinary navigation outcome, not an error.
func (node *Node) Child(segmentName string) (*Node, bool) {
	if node == nil || node.children == nil {
		return nil, false
	}
	childNode, childExists := node.children[segmentName]
	return childNode, childExists
}

// Lookup walks the tree along the provided segments, returning the reached
// node. The returned instance is stable across repeated lookups of the same
// sub-path on the same tree.
func (node *Node) Lookup(segments []string) (*Node, bool) {
	currentNode := node
	for _, segment := range segments {
		childNode, childExists := currentNode.Child(segment)
		if !childExists {
			return nil, false
		}
		currentNode = childNode
	}
	return currentNode, true
}

// ChildNames enumerates the names of immediate children in sorted order.
func (node *Node) ChildNames() []string {
	if node == nil || len(node.children) == 0 {
		return nil
	}
	names := make([]string, 0, len(node.children))
	for childName := range node.children {
		names = append(names, childName)
	}
	sort.Strings(names)
	return names
}
