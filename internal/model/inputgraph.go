package model

import (
	"fmt"
	"sort"
)

// InputGraph is the immutable undirected graph the dominating-set
// approximation ran on, nodes labeled 0..N-1.
type InputGraph struct {
	nodeCount int
	adjacency map[int]map[int]struct{}
}

func NewInputGraph(nodeCount int) (*InputGraph, error) {
	if nodeCount <= 0 {
		return nil, fmt.Errorf("input graph needs at least one node, got %d", nodeCount)
	}
	return &InputGraph{
		nodeCount: nodeCount,
		adjacency: make(map[int]map[int]struct{}, nodeCount),
	}, nil
}

func (g *InputGraph) AddEdge(a, b int) error {
	if a < 0 || a >= g.nodeCount || b < 0 || b >= g.nodeCount {
		return fmt.Errorf("edge (%d,%d) out of range for %d nodes", a, b, g.nodeCount)
	}
	if a == b {
		return fmt.Errorf("self-edge (%d,%d) is not allowed in the input graph", a, b)
	}
	g.link(a, b)
	g.link(b, a)
	return nil
}

func (g *InputGraph) link(from, to int) {
	if g.adjacency[from] == nil {
		g.adjacency[from] = make(map[int]struct{})
	}
	g.adjacency[from][to] = struct{}{}
}

func (g *InputGraph) NodeCount() int {
	return g.nodeCount
}

// Neighbours returns the sorted neighbour set of a node.
func (g *InputGraph) Neighbours(node int) []int {
	neighbours := make([]int, 0, len(g.adjacency[node]))
	for neighbour := range g.adjacency[node] {
		neighbours = append(neighbours, neighbour)
	}
	sort.Ints(neighbours)
	return neighbours
}
