package ir

import (
	"fmt"
	"iter"
)

// Document is an ordered sequence of top-level nodes.
type Document struct {
	Nodes []*Node
}

// Node is a named record with positional arguments, ordered properties,
// and child nodes. Name must be non-empty; everything else may be empty.
type Node struct {
	Tag      *string
	Name     string
	Args     []Value
	Props    Props
	Children []*Node
}

func NewNode(name string) *Node {
	return &Node{Name: name}
}

// AddArg appends a positional argument.
func (n *Node) AddArg(v Value) {
	n.Args = append(n.Args, v)
}

// SetProp assigns a property with last-wins semantics.
func (n *Node) SetProp(key string, v Value) {
	n.Props.Set(key, v)
}

// AddChild appends a child node.
func (n *Node) AddChild(c *Node) {
	n.Children = append(n.Children, c)
}

// MatchesKey reports whether the node satisfies key. A None name matcher
// auto-succeeds: node names are mandatory, so "no name" cannot
// discriminate.
func (n *Node) MatchesKey(key NodeKey) bool {
	if !key.Tag.Match(n.Tag) {
		return false
	}
	if key.Name.IsNone() {
		return true
	}
	name := n.Name
	return key.Name.Match(&name)
}

// GetArgs returns the arguments matching key, in order.
func (n *Node) GetArgs(key ValueKey) []Value {
	var out []Value
	for _, a := range n.Args {
		if ValueMatches(a, key) {
			out = append(out, a)
		}
	}
	return out
}

// GetProps returns the properties whose values match key, preserving
// iteration order.
func (n *Node) GetProps(key ValueKey) *Props {
	out := &Props{}
	for k, v := range n.Props.All() {
		if ValueMatches(v, key) {
			out.Set(k, v)
		}
	}
	return out
}

// First returns the first child matching key, or ErrNotFound.
func (n *Node) First(key NodeKey) (*Node, error) {
	return first(n.Children, key)
}

// Get returns the first child matching key, or nil.
func (n *Node) Get(key NodeKey) *Node {
	c, err := n.First(key)
	if err != nil {
		return nil
	}
	return c
}

// GetAll iterates the children matching key.
func (n *Node) GetAll(key NodeKey) iter.Seq[*Node] {
	return matching(n.Children, key)
}

// First returns the first top-level node matching key, or ErrNotFound.
func (d *Document) First(key NodeKey) (*Node, error) {
	return first(d.Nodes, key)
}

// Get returns the first top-level node matching key, or nil.
func (d *Document) Get(key NodeKey) *Node {
	n, err := d.First(key)
	if err != nil {
		return nil
	}
	return n
}

// GetAll iterates the top-level nodes matching key.
func (d *Document) GetAll(key NodeKey) iter.Seq[*Node] {
	return matching(d.Nodes, key)
}

func first(nodes []*Node, key NodeKey) (*Node, error) {
	for _, n := range nodes {
		if n.MatchesKey(key) {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
}

func matching(nodes []*Node, key NodeKey) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, n := range nodes {
			if n.MatchesKey(key) && !yield(n) {
				return
			}
		}
	}
}
