package growth

import (
	"fmt"

	"rootweave/internal/geom"
)

// NodeType separates the primary lineage from lateral branches.
type NodeType uint8

const (
	Stem NodeType = iota
	Side
)

func (t NodeType) String() string {
	if t == Side {
		return "side"
	}
	return "stem"
}

// NodeID addresses a node inside its Graph.
type NodeID int

// NoNode is the parent of the anchor.
const NoNode NodeID = -1

// Unlimited marks a lifespan that never runs out.
const Unlimited = -1

// Node is a vertex of the root network.
type Node struct {
	ID       NodeID
	Parent   NodeID
	Children []NodeID

	Pos geom.Vec
	// Dir is the unit direction of the step that produced the node.
	Dir geom.Vec
	// Step counts growth steps since the anchor.
	Step int
	// Lifespan is the number of further steps allowed, or Unlimited.
	Lifespan int
	// Level is 0 on the primary lineage and grows by one per branching event.
	Level int
	Type  NodeType
	// Active is cleared by TurnOff.
	Active bool
}

// Graph is an append-only forest stored as an arena of nodes.
type Graph struct {
	nodes []Node
}

// NewGraph starts a graph with an anchor node of type Stem.
func NewGraph(anchor, dir geom.Vec, lifespan int) *Graph {
	g := &Graph{}
	g.nodes = append(g.nodes, Node{
		ID:       0,
		Parent:   NoNode,
		Pos:      anchor,
		Dir:      geom.Unit(dir),
		Lifespan: lifespan,
		Type:     Stem,
		Active:   true,
	})
	return g
}

// Anchor returns the root node id.
func (g *Graph) Anchor() NodeID { return 0 }

// Len reports the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node with the given id. The pointer is invalidated by the
// next AddChild or AddBranch.
func (g *Graph) Node(id NodeID) *Node { return &g.nodes[id] }

// Nodes returns the arena. The slice must not be modified.
func (g *Graph) Nodes() []Node { return g.nodes }

// AddChild appends a continuation of parent at pos. Step advances by one, a
// limited lifespan shrinks by one and the branch level is inherited. A Side
// parent can never receive a Stem child; doing so panics.
func (g *Graph) AddChild(parent NodeID, pos geom.Vec, typ NodeType) NodeID {
	p := g.nodes[parent]
	if p.Type == Side && typ == Stem {
		panic(fmt.Sprintf("growth: side node %d cannot have a stem child", parent))
	}
	lifespan := p.Lifespan
	if lifespan != Unlimited {
		lifespan--
	}
	return g.push(p, pos, typ, lifespan, p.Level)
}

// AddBranch records a branching event: a Side child one level deeper than
// parent with its own fixed lifespan.
func (g *Graph) AddBranch(parent NodeID, pos geom.Vec, lifespan int) NodeID {
	p := g.nodes[parent]
	return g.push(p, pos, Side, lifespan, p.Level+1)
}

func (g *Graph) push(p Node, pos geom.Vec, typ NodeType, lifespan, level int) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{
		ID:       id,
		Parent:   p.ID,
		Pos:      pos,
		Dir:      geom.Unit(geom.Sub(pos, p.Pos)),
		Step:     p.Step + 1,
		Lifespan: lifespan,
		Level:    level,
		Type:     typ,
		Active:   true,
	})
	g.nodes[p.ID].Children = append(g.nodes[p.ID].Children, id)
	return id
}

// TurnOff deactivates id and everything grown from it.
func (g *Graph) TurnOff(id NodeID) {
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		g.nodes[cur].Active = false
		stack = append(stack, g.nodes[cur].Children...)
	}
}

// Continuation returns the active child of id on the same branch level.
func (g *Graph) Continuation(id NodeID) (NodeID, bool) {
	lvl := g.nodes[id].Level
	for _, c := range g.nodes[id].Children {
		if g.nodes[c].Active && g.nodes[c].Level == lvl {
			return c, true
		}
	}
	return NoNode, false
}

// Lineage follows continuations from start and returns the visited ids.
func (g *Graph) Lineage(start NodeID) []NodeID {
	if !g.nodes[start].Active {
		return nil
	}
	ids := []NodeID{start}
	for cur := start; ; {
		next, ok := g.Continuation(cur)
		if !ok {
			return ids
		}
		ids = append(ids, next)
		cur = next
	}
}

// Curve returns the polyline from start's parent along start's lineage.
func (g *Graph) Curve(start NodeID) geom.Polyline {
	ids := g.Lineage(start)
	if len(ids) == 0 {
		return nil
	}
	out := make(geom.Polyline, 0, len(ids)+1)
	if parent := g.nodes[start].Parent; parent != NoNode {
		out = append(out, g.nodes[parent].Pos)
	}
	for _, id := range ids {
		out = append(out, g.nodes[id].Pos)
	}
	return out
}

// Edges returns every active parent-child segment in creation order.
func (g *Graph) Edges() []geom.Segment {
	out := make([]geom.Segment, 0, len(g.nodes))
	for _, n := range g.nodes[1:] {
		if !n.Active {
			continue
		}
		out = append(out, geom.Segment{A: g.nodes[n.Parent].Pos, B: n.Pos})
	}
	return out
}

// Walk visits active nodes depth first from the anchor. Returning false from
// fn skips the node's subtree.
func (g *Graph) Walk(fn func(n *Node) bool) {
	stack := []NodeID{0}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &g.nodes[cur]
		if !n.Active || !fn(n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}
