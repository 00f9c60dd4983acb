package radixtree

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
)

// token marks which tree may mutate a children array in place. It is never
// zero sized so that every allocation has a distinct address.
type token struct{ _ byte }

func newToken() *token { return &token{} }

// children is a children array. Arrays materialized from an image have no
// owner and are always copied before they are written.
type children[K cmp.Ordered, V any] struct {
	owner *token
	nodes []node[K, V]
}

// node is a radix tree node. Its children are either held directly (kids)
// or still archived in an image (lazy); never both.
type node[K cmp.Ordered, V any] struct {
	prefix   []K
	value    V
	hasValue bool
	kids     *children[K, V]
	lazy     *lazySlot[K, V]
}

// lazySlot is a children array that still lives in an image. It is
// materialized once, under mu, and published through kids; later reads do
// not lock.
type lazySlot[K cmp.Ordered, V any] struct {
	img   *image[K, V]
	off   uint32
	count int

	mu   sync.Mutex
	kids atomic.Pointer[children[K, V]]
}

// get materializes the array on first use. Images loaded unchecked can make
// materialize panic; the lock is released and kids stays unset, so every
// later get panics the same way.
func (s *lazySlot[K, V]) get() *children[K, V] {
	if c := s.kids.Load(); c != nil {
		return c
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.kids.Load(); c != nil {
		return c
	}
	c := s.img.materialize(s.off, s.count)
	s.kids.Store(c)
	return c
}

// array returns the identity of n's children array, nil if it has none.
func (n *node[K, V]) array() any {
	switch {
	case n.lazy != nil:
		return n.lazy
	case n.kids != nil && len(n.kids.nodes) > 0:
		return n.kids
	}
	return nil
}

func (n *node[K, V]) children() []node[K, V] {
	if n.lazy != nil {
		return n.lazy.get().nodes
	}
	if n.kids == nil {
		return nil
	}
	return n.kids.nodes
}

func (n *node[K, V]) childCount() int {
	if n.lazy != nil {
		return n.lazy.count
	}
	if n.kids == nil {
		return 0
	}
	return len(n.kids.nodes)
}

func (n *node[K, V]) isEmpty() bool {
	return !n.hasValue && n.childCount() == 0
}

// mutKids returns n's children array, made writable for tok. An array owned
// by anything else is copied first; only that array is copied.
func (n *node[K, V]) mutKids(tok *token) *children[K, V] {
	var c *children[K, V]
	if n.lazy != nil {
		c = n.lazy.get()
		n.lazy = nil
	} else {
		c = n.kids
	}
	switch {
	case c == nil:
		c = &children[K, V]{owner: tok}
	case c.owner != tok:
		c = &children[K, V]{owner: tok, nodes: slices.Clone(c.nodes)}
	}
	n.kids = c
	return c
}

func (n *node[K, V]) setKids(tok *token, nodes []node[K, V]) {
	n.lazy = nil
	if len(nodes) == 0 {
		n.kids = nil
		return
	}
	n.kids = &children[K, V]{owner: tok, nodes: nodes}
}

func (n *node[K, V]) clearValue() {
	var zero V
	n.value = zero
	n.hasValue = false
}

// unsplit restores minimality after a combine: a valueless node with a
// single child absorbs it, and an empty node drops its prefix.
func (n *node[K, V]) unsplit() {
	if n.hasValue {
		return
	}
	switch n.childCount() {
	case 0:
		*n = node[K, V]{}
	case 1:
		c := n.children()[0]
		c.prefix = slices.Concat(n.prefix, c.prefix)
		*n = c
	}
}

// withPrefix returns a shallow copy of n with a different prefix.
func (n *node[K, V]) withPrefix(prefix []K) node[K, V] {
	c := *n
	c.prefix = prefix
	return c
}

// deepCopy copies every children array below n into arrays owned by tok.
// Prefixes are shared; they are never written in place.
func deepCopy[K cmp.Ordered, V any](n *node[K, V], tok *token) node[K, V] {
	c := *n
	c.lazy = nil
	c.kids = nil
	src := n.children()
	if len(src) == 0 {
		return c
	}
	nodes := make([]node[K, V], len(src))
	for i := range src {
		nodes[i] = deepCopy(&src[i], tok)
	}
	c.kids = &children[K, V]{owner: tok, nodes: nodes}
	return c
}

func commonPrefix[K cmp.Ordered](a, b []K) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func firstKey[K cmp.Ordered, V any](a, b node[K, V]) int {
	return cmp.Compare(a.prefix[0], b.prefix[0])
}

// findChild returns the child of kids whose prefix starts with k.
func findChild[K cmp.Ordered, V any](kids []node[K, V], k K) *node[K, V] {
	i, found := slices.BinarySearchFunc(kids, k, func(n node[K, V], k K) int {
		return cmp.Compare(n.prefix[0], k)
	})
	if !found {
		return nil
	}
	return &kids[i]
}
