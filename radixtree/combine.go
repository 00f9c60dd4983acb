package radixtree

import (
	"cmp"

	"github.com/forestrie/go-veccollections/merge"
)

// mode says what a combine does with a key present on one side only.
type mode uint8

const (
	keep mode = iota
	drop
	apply
)

// combiner rewrites a node of the receiving tree (A) into its combination
// with a node of another tree (B).
type combiner[K cmp.Ordered, V any] struct {
	tok *token
	// share grafts B subtrees by reference instead of copying them.
	share        bool
	onlyA, onlyB mode
	// f resolves a key. a or b is nil when the key is on one side only;
	// returning false removes the key.
	f func(a, b *V) (V, bool)
}

func (p *combiner[K, V]) combine(a, b *node[K, V]) {
	if b.isEmpty() {
		p.processA(a)
		return
	}
	if a.isEmpty() {
		*a = p.importB(b)
		return
	}
	n := commonPrefix(a.prefix, b.prefix)
	switch {
	case n == len(a.prefix) && n == len(b.prefix):
		p.resolve(a, b)
		p.mergeChildren(a, b.children())
	case n == len(a.prefix):
		// b sits below a.
		p.resolve(a, &node[K, V]{})
		p.mergeChildren(a, []node[K, V]{b.withPrefix(b.prefix[n:])})
	case n == len(b.prefix):
		// a sits below b: split a at n.
		lower := a.withPrefix(a.prefix[n:])
		*a = node[K, V]{prefix: a.prefix[:n:n]}
		a.setKids(p.tok, []node[K, V]{lower})
		p.resolve(a, b)
		p.mergeChildren(a, b.children())
	default:
		la := a.withPrefix(a.prefix[n:])
		p.processA(&la)
		lb := b.withPrefix(b.prefix[n:])
		lb = p.importB(&lb)
		nodes := make([]node[K, V], 0, 2)
		for _, c := range []node[K, V]{la, lb} {
			if !c.isEmpty() {
				nodes = append(nodes, c)
			}
		}
		if len(nodes) == 2 && firstKey(nodes[0], nodes[1]) > 0 {
			nodes[0], nodes[1] = nodes[1], nodes[0]
		}
		*a = node[K, V]{prefix: a.prefix[:n:n]}
		a.setKids(p.tok, nodes)
	}
	a.unsplit()
}

// resolve sets the value slot of a from the value slots of a and b.
func (p *combiner[K, V]) resolve(a, b *node[K, V]) {
	switch {
	case a.hasValue && b.hasValue:
		a.value, a.hasValue = p.f(&a.value, &b.value)
	case a.hasValue:
		switch p.onlyA {
		case drop:
			a.hasValue = false
		case apply:
			a.value, a.hasValue = p.f(&a.value, nil)
		}
	case b.hasValue:
		switch p.onlyB {
		case keep:
			a.value, a.hasValue = b.value, true
		case apply:
			a.value, a.hasValue = p.f(nil, &b.value)
		}
	}
	if !a.hasValue {
		a.clearValue()
	}
}

// processA applies the A-only mode to a whole subtree of A.
func (p *combiner[K, V]) processA(a *node[K, V]) {
	switch p.onlyA {
	case drop:
		*a = node[K, V]{}
	case apply:
		p.mapSubtree(a, func(v *V) (V, bool) { return p.f(v, nil) })
	}
}

// importB returns a subtree of B prepared for A: grafted, and mapped or
// dropped per the B-only mode.
func (p *combiner[K, V]) importB(b *node[K, V]) node[K, V] {
	if p.onlyB == drop {
		return node[K, V]{}
	}
	x := p.graft(b)
	if p.onlyB == apply {
		p.mapSubtree(&x, func(v *V) (V, bool) { return p.f(nil, v) })
	}
	return x
}

func (p *combiner[K, V]) graft(b *node[K, V]) node[K, V] {
	if p.share {
		return *b
	}
	return deepCopy(b, p.tok)
}

func (p *combiner[K, V]) mapSubtree(n *node[K, V], f func(*V) (V, bool)) {
	if n.hasValue {
		n.value, n.hasValue = f(&n.value)
		if !n.hasValue {
			n.clearValue()
		}
	}
	if n.childCount() > 0 {
		c := n.mutKids(p.tok)
		w := 0
		for i := range c.nodes {
			p.mapSubtree(&c.nodes[i], f)
			if !c.nodes[i].isEmpty() {
				c.nodes[w] = c.nodes[i]
				w++
			}
		}
		clear(c.nodes[w:])
		c.nodes = c.nodes[:w]
		if w == 0 {
			n.kids = nil
		}
	}
	n.unsplit()
}

// mergeChildren combines the children of a with bkids in place.
func (p *combiner[K, V]) mergeChildren(a *node[K, V], bkids []node[K, V]) {
	if len(bkids) == 0 && p.onlyA == keep {
		return
	}
	c := a.mutKids(p.tok)
	st := merge.NewInPlaceRef(c.nodes, bkids, func(b node[K, V]) node[K, V] { return p.graft(&b) })
	defer st.Close()
	merge.Merge[node[K, V], node[K, V]](&childOp[K, V]{p: p, st: st}, st)
	c.nodes = st.Result()
	if len(c.nodes) == 0 {
		a.kids = nil
	}
}

// childOp merges two children arrays keyed on the first prefix element.
type childOp[K cmp.Ordered, V any] struct {
	p  *combiner[K, V]
	st *merge.InPlaceState[node[K, V], node[K, V]]
}

func (o *childOp[K, V]) Cmp(a, b node[K, V]) int {
	return firstKey(a, b)
}

func (o *childOp[K, V]) FromA(s merge.State[node[K, V], node[K, V]], n int) bool {
	switch o.p.onlyA {
	case keep:
		return s.AdvanceA(n, true)
	case drop:
		return s.AdvanceA(n, false)
	}
	for i := 0; i < n; i++ {
		x, _ := o.st.PopA()
		o.p.processA(&x)
		if !x.isEmpty() {
			o.st.Push(x)
		}
	}
	return true
}

func (o *childOp[K, V]) FromB(s merge.State[node[K, V], node[K, V]], n int) bool {
	switch o.p.onlyB {
	case keep:
		return s.AdvanceB(n, true)
	case drop:
		return s.AdvanceB(n, false)
	}
	for i := 0; i < n; i++ {
		y, _ := o.st.PeekB()
		if x := o.p.importB(&y); !x.isEmpty() {
			o.st.Push(x)
		}
		s.AdvanceB(1, false)
	}
	return true
}

func (o *childOp[K, V]) Collision(s merge.State[node[K, V], node[K, V]]) bool {
	x, _ := o.st.PopA()
	y, _ := o.st.PeekB()
	o.p.combine(&x, &y)
	if !x.isEmpty() {
		o.st.Push(x)
	}
	return s.AdvanceB(1, false)
}
