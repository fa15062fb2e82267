package syntax

type pendingNode struct {
	kind       NodeKind
	firstChild int
}

// TreeBuilder assembles a syntax tree bottom-up as the parser walks the
// token stream. Nodes are opened with StartNode and closed with FinishNode;
// tokens attach to the innermost open node.
type TreeBuilder struct {
	pendingNodes    []pendingNode
	pendingChildren []Element
}

// NewTreeBuilder returns an empty builder.
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{}
}

// StartNode opens a node of the specified kind.
func (b *TreeBuilder) StartNode(kind NodeKind) {
	b.pendingNodes = append(b.pendingNodes, pendingNode{
		kind:       kind,
		firstChild: len(b.pendingChildren),
	})
}

// FinishNode closes the innermost open node, making it a child of the node
// enclosing it.
func (b *TreeBuilder) FinishNode() {
	if len(b.pendingNodes) == 0 {
		panic("syntax: no pending nodes to finish")
	}
	pending := b.pendingNodes[len(b.pendingNodes)-1]
	b.pendingNodes = b.pendingNodes[:len(b.pendingNodes)-1]

	children := make([]Element, len(b.pendingChildren)-pending.firstChild)
	copy(children, b.pendingChildren[pending.firstChild:])
	b.pendingChildren = b.pendingChildren[:pending.firstChild]

	node := NewNode(pending.kind, children)
	b.pendingChildren = append(b.pendingChildren, Element{Node: node})
}

// Token attaches tok to the innermost open node.
func (b *TreeBuilder) Token(tok Token) {
	b.pendingChildren = append(b.pendingChildren, Element{Token: &tok})
}

// Finish returns the completed tree. All nodes must be finished and exactly
// one root must remain.
func (b *TreeBuilder) Finish() *Node {
	if len(b.pendingNodes) != 0 {
		panic("syntax: builder has unfinished nodes")
	}
	if len(b.pendingChildren) != 1 {
		panic("syntax: builder has disconnected children")
	}
	root := b.pendingChildren[0]
	if root.Node == nil {
		panic("syntax: root of tree must be a node")
	}
	return root.Node
}
