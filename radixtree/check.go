package radixtree

import (
	"cmp"
	"errors"
	"fmt"
)

var (
	ErrUnorderedChildren = errors.New("radixtree: children not strictly ordered by first key")
	ErrEmptyChildPrefix  = errors.New("radixtree: child with empty prefix")
	ErrEmptyChild        = errors.New("radixtree: child with no value and no children")
	ErrNotMinimal        = errors.New("radixtree: node with no value and a single child")
	ErrEmptyRootPrefix   = errors.New("radixtree: empty tree with a prefix")
)

// Check verifies the structural invariants of the tree: children strictly
// ordered by their first key, non-empty child prefixes, no empty children
// and no valueless node with exactly one child.
func (t *base[K, V]) Check() error {
	if t.root.isEmpty() && len(t.root.prefix) != 0 {
		return ErrEmptyRootPrefix
	}
	return checkNode(&t.root, nil)
}

func checkNode[K cmp.Ordered, V any](n *node[K, V], path []K) error {
	path = append(path, n.prefix...)
	kids := n.children()
	if !n.hasValue && len(kids) == 1 {
		return fmt.Errorf("%w: at %v", ErrNotMinimal, path)
	}
	for i := range kids {
		c := &kids[i]
		if len(c.prefix) == 0 {
			return fmt.Errorf("%w: under %v", ErrEmptyChildPrefix, path)
		}
		if c.isEmpty() {
			return fmt.Errorf("%w: at %v%v", ErrEmptyChild, path, c.prefix)
		}
		if i > 0 && firstKey(kids[i-1], *c) >= 0 {
			return fmt.Errorf("%w: under %v", ErrUnorderedChildren, path)
		}
		if err := checkNode(c, path); err != nil {
			return err
		}
	}
	return nil
}

// Stats describes what a tree stores. A children array reachable along
// several paths is counted once, together with everything below it.
type Stats struct {
	Keys   int
	Nodes  int
	Arrays int
}

// TreeStats walks t and returns its Stats.
func TreeStats[K cmp.Ordered, V any](t Reader[K, V]) Stats {
	var st Stats
	seen := map[any]bool{}
	var visit func(n *node[K, V])
	visit = func(n *node[K, V]) {
		st.Nodes++
		if n.hasValue {
			st.Keys++
		}
		id := n.array()
		if id == nil || seen[id] {
			return
		}
		seen[id] = true
		st.Arrays++
		kids := n.children()
		for i := range kids {
			visit(&kids[i])
		}
	}
	visit(&t.tree().root)
	return st
}
