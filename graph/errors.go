package graph

import "errors"

// Sentinel errors for the graph package. Callers branch with errors.Is;
// these are never wrapped with formatted strings at the definition site,
// only at call sites via fmt.Errorf("...: %w", Err...).
var (
	// ErrUnknownNode is returned when an operation references a node
	// address that has not been added to the graph.
	ErrUnknownNode = errors.New("graph: unknown node")

	// ErrInvalidNodeType names a Node carrying NodeType(INVALID) where a
	// concrete type is required. No function in this package returns
	// it; AddNode and AddProgramEdge accept INVALID nodes.
	ErrInvalidNodeType = errors.New("graph: invalid node type")

	// ErrInvalidEdgeType names an Edge carrying EdgeType(INVALID) or
	// EdgeClass(INVALID) where a concrete type is required. No function
	// in this package returns it; AddProgramEdge accepts such edges.
	ErrInvalidEdgeType = errors.New("graph: invalid edge type")

	// ErrNoSuchSegment names a selector that matches no node in the
	// underlying graph. SegmentView does not return it: such a selector
	// yields an empty View.
	ErrNoSuchSegment = errors.New("graph: no node in requested segment")
)
