// Package workerpool tracks live worker nodes and picks one to hand a
// packed task chunk to. It knows nothing about gvt, message or plan: a
// service calls plan.Mkschedule to get packed task bytes, then calls
// Ring.Assign on each chunk to decide where to send it.
package workerpool

import (
	"github.com/emirpasic/gods/trees/redblacktree"
)

// Entry is one position on the ring: a token and the node that owns it.
type Entry struct {
	Token int
	Node  *Node
}

// Ring is a consistent-hash ring keyed by int tokens, backed by a
// red-black tree so insertion, single-token removal and floor lookup are
// all O(log n).
type Ring struct {
	tree *redblacktree.Tree
}

// NewRing constructs an empty ring.
func NewRing() *Ring {
	return &Ring{tree: redblacktree.NewWithIntComparator()}
}

// Put inserts or replaces the entry at token.
func (r *Ring) Put(token int, node *Node) {
	r.tree.Put(token, &Entry{Token: token, Node: node})
}

// Remove deletes the entry at token, if any.
func (r *Ring) Remove(token int) {
	r.tree.Remove(token)
}

// RemoveNode removes every token entry belonging to node.
func (r *Ring) RemoveNode(node *Node) {
	var stale []interface{}
	for i, v := range r.tree.Values() {
		if e := v.(*Entry); e.Node.Name == node.Name {
			stale = append(stale, r.tree.Keys()[i])
		}
	}
	for _, token := range stale {
		r.tree.Remove(token)
	}
}

// Assign returns the node owning the closest token at or before key's
// hash, wrapping around to the ring's highest token if key hashes before
// all of them. It returns nil if the ring is empty.
func (r *Ring) Assign(key string) *Node {
	if r.tree.Size() == 0 {
		return nil
	}
	return r.floor(hashToken(key)).Node
}

// floor walks the tree from the root, tracking the largest key seen that
// is still <= target; if none is found the search falls off the left edge
// of the ring and wraps to the largest key overall.
func (r *Ring) floor(target int) *Entry {
	var best *redblacktree.Node
	current := r.tree.Root
	for current != nil {
		if r.tree.Comparator(target, current.Key) >= 0 {
			best = current
			current = current.Right
		} else {
			current = current.Left
		}
	}
	if best == nil {
		best = r.tree.Root
		for best.Right != nil {
			best = best.Right
		}
	}
	return best.Value.(*Entry)
}

// Size returns the number of tokens currently on the ring.
func (r *Ring) Size() int {
	return r.tree.Size()
}
