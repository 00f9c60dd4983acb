package radixtree

import (
	"cmp"

	"github.com/forestrie/go-veccollections/merge"
)

// isSubset reports whether every key of a is a key of b.
func isSubset[K cmp.Ordered, V any](a, b *node[K, V]) bool {
	if a.isEmpty() {
		return true
	}
	if b.isEmpty() {
		return false
	}
	n := commonPrefix(a.prefix, b.prefix)
	switch {
	case n == len(a.prefix) && n == len(b.prefix):
		if a.hasValue && !b.hasValue {
			return false
		}
		return !anyChild(a.children(), b.children(), true, notSubset[K, V])
	case n == len(a.prefix):
		if a.hasValue {
			return false
		}
		return !anyChild(a.children(), []node[K, V]{b.withPrefix(b.prefix[n:])}, true, notSubset[K, V])
	case n == len(b.prefix):
		c := findChild(b.children(), a.prefix[n])
		if c == nil {
			return false
		}
		lower := a.withPrefix(a.prefix[n:])
		return isSubset(&lower, c)
	}
	return false
}

func notSubset[K cmp.Ordered, V any](a, b *node[K, V]) bool {
	return !isSubset(a, b)
}

// intersects reports whether a and b share a key.
func intersects[K cmp.Ordered, V any](a, b *node[K, V]) bool {
	if a.isEmpty() || b.isEmpty() {
		return false
	}
	n := commonPrefix(a.prefix, b.prefix)
	switch {
	case n == len(a.prefix) && n == len(b.prefix):
		if a.hasValue && b.hasValue {
			return true
		}
		return anyChild(a.children(), b.children(), false, intersects[K, V])
	case n == len(a.prefix):
		c := findChild(a.children(), b.prefix[n])
		if c == nil {
			return false
		}
		lower := b.withPrefix(b.prefix[n:])
		return intersects(c, &lower)
	case n == len(b.prefix):
		c := findChild(b.children(), a.prefix[n])
		if c == nil {
			return false
		}
		lower := a.withPrefix(a.prefix[n:])
		return intersects(&lower, c)
	}
	return false
}

// anyChild merges two children arrays and reports whether a witness was
// found: an A-only child when onlyA is set, or a colliding pair for which
// witness returns true. It stops at the first witness.
func anyChild[K cmp.Ordered, V any](akids, bkids []node[K, V], onlyA bool, witness func(a, b *node[K, V]) bool) bool {
	st := merge.NewBool(akids, bkids)
	merge.Merge[node[K, V], node[K, V]](&witnessOp[K, V]{st: st, onlyA: onlyA, witness: witness}, st)
	return st.Result()
}

type witnessOp[K cmp.Ordered, V any] struct {
	st      *merge.BoolState[node[K, V], node[K, V]]
	onlyA   bool
	witness func(a, b *node[K, V]) bool
}

func (o *witnessOp[K, V]) Cmp(a, b node[K, V]) int {
	return firstKey(a, b)
}

func (o *witnessOp[K, V]) FromA(s merge.State[node[K, V], node[K, V]], n int) bool {
	return s.AdvanceA(n, o.onlyA)
}

func (o *witnessOp[K, V]) FromB(s merge.State[node[K, V], node[K, V]], n int) bool {
	return s.AdvanceB(n, false)
}

func (o *witnessOp[K, V]) Collision(s merge.State[node[K, V], node[K, V]]) bool {
	if o.witness(&o.st.ASlice()[0], &o.st.BSlice()[0]) {
		return o.st.SetResult()
	}
	return s.AdvanceA(1, false) && s.AdvanceB(1, false)
}
