package dag

import "sync"

// Graph is a collection of nodes and their dependencies.
// All operations on the graph are concurrency-safe.
type Graph struct {
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order lists node IDs in insertion order.
	order []string
}

// node represents a single vertex in the graph.
type node struct {
	id string
	// deps holds the IDs this node depends on, in edge insertion order.
	deps []string
	// dependents holds the IDs that depend on this node, in edge insertion order.
	dependents []string
}

func (n *node) hasDep(id string) bool {
	for _, d := range n.deps {
		if d == id {
			return true
		}
	}
	return false
}
