package graph

// Viewer is the minimal read surface both Graph and View satisfy, so
// views compose: a View can itself be the base of another View. No
// method here ever mutates state or copies node/edge storage — a View
// recomputes its filtered snapshot from the base on every call.
type Viewer interface {
	Nodes() []Node
	Edges() []Edge
	Node(addr uint64) (Node, bool)
	HasNode(addr uint64) bool
	OutEdges(addr uint64) []Edge
	InEdges(addr uint64) []Edge
}

// NodePredicate decides whether a Node is visible through a View.
type NodePredicate func(Node) bool

// EdgePredicate decides whether an Edge is visible through a View,
// given that both of its endpoints already passed the View's
// NodePredicate.
type EdgePredicate func(Edge) bool

// View is a read-only, live filter over a Viewer. "PDG", "AFCG" and
// "DFG" in spec §3 are View configurations over one Graph, not
// distinct runtime types — see AFCG/DFG/SegmentView/NoSequenceView/
// PartialNoSequenceView below for the concrete configurations.
type View struct {
	base   Viewer
	nodeOK NodePredicate
	edgeOK EdgePredicate
}

// NewView wraps base with the given predicates. A nil predicate admits
// everything.
func NewView(base Viewer, nodeOK NodePredicate, edgeOK EdgePredicate) *View {
	return &View{base: base, nodeOK: nodeOK, edgeOK: edgeOK}
}

func (v *View) nodeAllowed(n Node) bool {
	return v.nodeOK == nil || v.nodeOK(n)
}

func (v *View) edgeAllowed(e Edge) bool {
	if v.edgeOK != nil && !v.edgeOK(e) {
		return false
	}
	tail, tailOK := v.base.Node(e.Tail)
	head, headOK := v.base.Node(e.Head)
	if !tailOK || !headOK {
		return false
	}
	return v.nodeAllowed(tail) && v.nodeAllowed(head)
}

// Nodes returns every node the view admits.
func (v *View) Nodes() []Node {
	out := make([]Node, 0)
	for _, n := range v.base.Nodes() {
		if v.nodeAllowed(n) {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns every edge the view admits.
func (v *View) Edges() []Edge {
	out := make([]Edge, 0)
	for _, e := range v.base.Edges() {
		if v.edgeAllowed(e) {
			out = append(out, e)
		}
	}
	return out
}

// Node returns n's attributes if n is visible through this view.
func (v *View) Node(addr uint64) (Node, bool) {
	n, ok := v.base.Node(addr)
	if !ok || !v.nodeAllowed(n) {
		return Node{}, false
	}
	return n, true
}

// HasNode reports whether addr is visible through this view.
func (v *View) HasNode(addr uint64) bool {
	_, ok := v.Node(addr)
	return ok
}

// OutEdges returns the edges leaving addr that this view admits.
func (v *View) OutEdges(addr uint64) []Edge {
	if !v.HasNode(addr) {
		return nil
	}
	out := make([]Edge, 0)
	for _, e := range v.base.OutEdges(addr) {
		if v.edgeAllowed(e) {
			out = append(out, e)
		}
	}
	return out
}

// InEdges returns the edges arriving at addr that this view admits.
func (v *View) InEdges(addr uint64) []Edge {
	if !v.HasNode(addr) {
		return nil
	}
	in := make([]Edge, 0)
	for _, e := range v.base.InEdges(addr) {
		if v.edgeAllowed(e) {
			in = append(in, e)
		}
	}
	return in
}

// Size returns the number of edges this view currently admits. Used
// as m in the Modularity fitness function (spec §4.5, §9 Open
// Questions: m is the edge count of the scored view, not
// sum(out_degree)).
func (v *View) Size() int {
	return len(v.Edges())
}

// AFCG returns the augmented function-call-graph view: CODE nodes
// joined by CODE2CODE edges (spec §3).
func AFCG(base Viewer) *View {
	return NewView(base,
		func(n Node) bool { return n.Type == NodeCode },
		func(e Edge) bool { return e.Type == EdgeCode2Code },
	)
}

// DFG returns the data-flow-graph view: every edge that is not
// CODE2CODE (spec §3).
func DFG(base Viewer) *View {
	return NewView(base, nil,
		func(e Edge) bool { return e.Type != EdgeCode2Code },
	)
}

// SegmentView retains only nodes whose Segment equals selector (spec
// §3).
func SegmentView(base Viewer, selector int32) *View {
	return NewView(base,
		func(n Node) bool { return n.Segment == selector },
		nil,
	)
}

// NoSequenceView drops every SEQUENCE edge (spec §3, §4.4.1 "APSNSE
// uses the no-sequence view").
func NoSequenceView(base Viewer) *View {
	return NewView(base, nil,
		func(e Edge) bool { return e.Class != ClassSequence },
	)
}

// PartialNoSequenceView drops SEQUENCE edges except where removing one
// would orphan an endpoint: it is kept if the tail's out-degree (in
// base) is 1 or the head's in-degree (in base) is 1 (spec §3, §4.4.1
// "APSPSE ... sees a denser graph").
func PartialNoSequenceView(base Viewer) *View {
	return NewView(base, nil, func(e Edge) bool {
		if e.Class != ClassSequence {
			return true
		}
		return outDegreeOf(base, e.Tail) == 1 || inDegreeOf(base, e.Head) == 1
	})
}

func outDegreeOf(v Viewer, addr uint64) int {
	return len(v.OutEdges(addr))
}

func inDegreeOf(v Viewer, addr uint64) int {
	return len(v.InEdges(addr))
}

var _ Viewer = (*Graph)(nil)
var _ Viewer = (*View)(nil)
