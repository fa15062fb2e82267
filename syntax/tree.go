package syntax

import (
	"github.com/varick/cfront/source"
)

// Token is a classified token in the syntax tree.
type Token struct {
	Kind  TokenKind
	Range source.Range
}

// Element is a child of a syntax node: exactly one of Node and Token is set.
type Element struct {
	Node  *Node
	Token *Token
}

// Range returns the source range the element covers.
func (e Element) Range() source.FragmentedRange {
	if e.Node != nil {
		return e.Node.Range()
	}
	return e.Token.Range.Fragmented()
}

// Node is an interior node of the syntax tree. Its range spans from its
// first child to its last.
type Node struct {
	kind     NodeKind
	rng      source.FragmentedRange
	children []Element
}

// NewNode creates a node over children, which must be non-empty.
func NewNode(kind NodeKind, children []Element) *Node {
	if len(children) == 0 {
		panic("syntax: node created with no children")
	}
	first := children[0].Range()
	last := children[len(children)-1].Range()
	return &Node{
		kind:     kind,
		rng:      source.FragmentedRange{Start: first.Start, End: last.End},
		children: children,
	}
}

// Kind returns the node's kind.
func (n *Node) Kind() NodeKind { return n.kind }

// Range returns the range covered by the node.
func (n *Node) Range() source.FragmentedRange { return n.rng }

// Children returns the node's children in order.
func (n *Node) Children() []Element { return n.children }

// ChildNodes returns the node children, skipping tokens.
func (n *Node) ChildNodes() []*Node {
	var nodes []*Node
	for _, child := range n.children {
		if child.Node != nil {
			nodes = append(nodes, child.Node)
		}
	}
	return nodes
}

// ChildTokens returns the token children, skipping nodes.
func (n *Node) ChildTokens() []*Token {
	var toks []*Token
	for _, child := range n.children {
		if child.Token != nil {
			toks = append(toks, child.Token)
		}
	}
	return toks
}
