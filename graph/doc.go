// Package graph is the program-graph data model shared by the PDG, AFCG
// and DFG: a directed, attributed multigraph keyed by byte address.
//
//	core primitives — Node/Edge types, a thread-safe Graph under a
//	                  sync.RWMutex, idempotent AddNode/AddProgramEdge
//	views           — read-only, composable filters (segment, no-sequence,
//	                  partial-no-sequence, code-only, data-only) that never
//	                  copy the underlying node/edge storage
//
// All three named graphs (PDG, AFCG, DFG) are the same Graph; "PDG",
// "AFCG" and "DFG" are View configurations, not distinct types.
package graph
