// Package dag holds the dependency graph between the objects of a lowered
// plan. Nodes are identifier names; an edge from A to B records that B
// cannot be built before A exists. Iteration order is the order in which
// nodes were added, so every answer the graph gives is deterministic.
package dag
