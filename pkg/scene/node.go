// Package scene holds the visual targets the driving core writes to.
//
// Nodes are created by the scene owner; the core only sets position and
// orientation on nodes it is handed.
package scene

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Node is a visual scene node.
type Node interface {
	SetPosition(p mgl64.Vec3)
	SetOrientation(q mgl64.Quat)
}

// Graph is a flat, in-memory set of named nodes.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*MemoryNode
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*MemoryNode)}
}

// Node returns the named node, creating it at the origin if missing.
func (g *Graph) Node(name string) *MemoryNode {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n, ok := g.nodes[name]; ok {
		return n
	}
	n := &MemoryNode{name: name, orientation: mgl64.QuatIdent()}
	g.nodes[name] = n
	return n
}

// Lookup returns the named node if it exists.
func (g *Graph) Lookup(name string) (*MemoryNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[name]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// MemoryNode stores the last transform written to it.
type MemoryNode struct {
	name string

	mu          sync.RWMutex
	position    mgl64.Vec3
	orientation mgl64.Quat
	writes      uint64
}

var _ Node = (*MemoryNode)(nil)

// Name returns the node name.
func (n *MemoryNode) Name() string { return n.name }

// SetPosition implements Node.
func (n *MemoryNode) SetPosition(p mgl64.Vec3) {
	n.mu.Lock()
	n.position = p
	n.writes++
	n.mu.Unlock()
}

// SetOrientation implements Node.
func (n *MemoryNode) SetOrientation(q mgl64.Quat) {
	n.mu.Lock()
	n.orientation = q
	n.writes++
	n.mu.Unlock()
}

// Position returns the last written position.
func (n *MemoryNode) Position() mgl64.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.position
}

// Orientation returns the last written orientation.
func (n *MemoryNode) Orientation() mgl64.Quat {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.orientation
}

// Writes returns how many setter calls the node has received.
func (n *MemoryNode) Writes() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.writes
}
