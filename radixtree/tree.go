package radixtree

import (
	"cmp"
	"iter"
	"slices"
)

// Reader is the read side shared by every tree flavor.
type Reader[K cmp.Ordered, V any] interface {
	Get(key []K) (V, bool)
	ContainsKey(key []K) bool
	All() iter.Seq2[[]K, V]
	ScanPrefix(prefix []K) iter.Seq2[[]K, V]
	Len() int
	IsEmpty() bool
	IsSubset(other Reader[K, V]) bool
	Intersects(other Reader[K, V]) bool
	IsDisjoint(other Reader[K, V]) bool
	Check() error

	tree() *base[K, V]
}

// base holds the root of a tree and the ownership token of its arrays. cow
// is set for the flavors that share arrays between trees.
type base[K cmp.Ordered, V any] struct {
	root node[K, V]
	tok  *token
	cow  bool
}

func (t *base[K, V]) tree() *base[K, V] { return t }

func (t *base[K, V]) Get(key []K) (V, bool) {
	if n := t.root.lookup(key); n != nil && n.hasValue {
		return n.value, true
	}
	var zero V
	return zero, false
}

func (t *base[K, V]) ContainsKey(key []K) bool {
	_, ok := t.Get(key)
	return ok
}

// All iterates every key and value in ascending key order. Keys are fresh
// slices owned by the caller.
func (t *base[K, V]) All() iter.Seq2[[]K, V] {
	return func(yield func([]K, V) bool) {
		t.root.walk(nil, yield)
	}
}

// ScanPrefix iterates the keys starting with prefix in ascending order.
func (t *base[K, V]) ScanPrefix(prefix []K) iter.Seq2[[]K, V] {
	return scan(&t.root, prefix)
}

func (t *base[K, V]) Len() int {
	return t.root.count()
}

func (t *base[K, V]) IsEmpty() bool {
	return t.root.isEmpty()
}

// IsSubset reports whether every key of t is a key of other. Values are not
// compared.
func (t *base[K, V]) IsSubset(other Reader[K, V]) bool {
	return isSubset(&t.root, &other.tree().root)
}

func (t *base[K, V]) Intersects(other Reader[K, V]) bool {
	return intersects(&t.root, &other.tree().root)
}

func (t *base[K, V]) IsDisjoint(other Reader[K, V]) bool {
	return !t.Intersects(other)
}

// Insert sets key to v, replacing any previous value.
func (t *base[K, V]) Insert(key []K, v V) {
	single := node[K, V]{prefix: slices.Clone(key), value: v, hasValue: true}
	p := t.combiner(keep, keep, func(_, b *V) (V, bool) { return *b, true })
	p.combine(&t.root, &single)
}

// Remove deletes key and reports whether it was present.
func (t *base[K, V]) Remove(key []K) bool {
	if !t.ContainsKey(key) {
		return false
	}
	single := node[K, V]{prefix: key, hasValue: true}
	p := t.combiner(keep, drop, dropBoth[V])
	p.combine(&t.root, &single)
	return true
}

// UnionWith adds every key of other. Values from other win on shared keys.
func (t *base[K, V]) UnionWith(other Reader[K, V]) {
	t.combineWith(other, keep, keep, func(_, b *V) (V, bool) { return *b, true })
}

// IntersectionWith keeps the keys also in other, with t's values.
func (t *base[K, V]) IntersectionWith(other Reader[K, V]) {
	t.combineWith(other, drop, drop, func(a, _ *V) (V, bool) { return *a, true })
}

// DifferenceWith removes the keys of other.
func (t *base[K, V]) DifferenceWith(other Reader[K, V]) {
	t.combineWith(other, keep, drop, dropBoth[V])
}

// OuterCombineWith sets every key of t or other to f(a, b), where a or b is
// nil for a key missing on that side. A false result removes the key.
func (t *base[K, V]) OuterCombineWith(other Reader[K, V], f func(a, b *V) (V, bool)) {
	t.combineWith(other, apply, apply, f)
}

// InnerCombineWith keeps the keys in both t and other, set to f(a, b). A
// false result removes the key.
func (t *base[K, V]) InnerCombineWith(other Reader[K, V], f func(a, b V) (V, bool)) {
	t.combineWith(other, drop, drop, func(a, b *V) (V, bool) { return f(*a, *b) })
}

// LeftCombineWith sets every key of t to f(a, b), where b is nil when the key
// is not in other. A false result removes the key.
func (t *base[K, V]) LeftCombineWith(other Reader[K, V], f func(a V, b *V) (V, bool)) {
	t.combineWith(other, apply, drop, func(a, b *V) (V, bool) { return f(*a, b) })
}

func dropBoth[V any](_, _ *V) (V, bool) {
	var zero V
	return zero, false
}

func (t *base[K, V]) combiner(onlyA, onlyB mode, f func(a, b *V) (V, bool)) *combiner[K, V] {
	return &combiner[K, V]{tok: t.tok, onlyA: onlyA, onlyB: onlyB, f: f}
}

func (t *base[K, V]) combineWith(other Reader[K, V], onlyA, onlyB mode, f func(a, b *V) (V, bool)) {
	src := other.tree()
	p := t.combiner(onlyA, onlyB, f)
	p.share = t.cow && src.cow
	b := src.root
	switch {
	case src == t && p.share:
		// b keeps the arrays under the old token, so t copies before writing.
		t.tok = newToken()
		p.tok = t.tok
	case src == t:
		b = deepCopy(&src.root, newToken())
	case p.share:
		// Arrays grafted from src are now reachable from t; src must not
		// write them in place either.
		src.tok = newToken()
	}
	p.combine(&t.root, &b)
}

// Tree is a radix tree whose children arrays belong to it alone. Combining
// copies whatever it takes from the other tree.
type Tree[K cmp.Ordered, V any] struct {
	base[K, V]
}

func New[K cmp.Ordered, V any]() *Tree[K, V] {
	return &Tree[K, V]{base[K, V]{tok: newToken()}}
}

// Single returns a tree holding key -> v.
func Single[K cmp.Ordered, V any](key []K, v V) *Tree[K, V] {
	t := New[K, V]()
	t.root = node[K, V]{prefix: slices.Clone(key), value: v, hasValue: true}
	return t
}

// FromSeq builds a tree from key/value pairs; later values win.
func FromSeq[K cmp.Ordered, V any](seq iter.Seq2[[]K, V]) *Tree[K, V] {
	t := New[K, V]()
	for k, v := range seq {
		t.Insert(k, v)
	}
	return t
}

// Clone returns a deep copy of t.
func (t *Tree[K, V]) Clone() *Tree[K, V] {
	c := New[K, V]()
	c.root = deepCopy(&t.root, c.tok)
	return c
}

// Share converts t into a copy-on-write tree. t must not be used
// afterwards.
func (t *Tree[K, V]) Share() *SharedTree[K, V] {
	return &SharedTree[K, V]{base[K, V]{root: t.root, tok: t.tok, cow: true}}
}

// SharedTree is a radix tree whose children arrays may be shared with
// snapshots and other trees. An array is written in place only by the tree
// holding its token; anyone else copies that array first.
type SharedTree[K cmp.Ordered, V any] struct {
	base[K, V]
}

func NewShared[K cmp.Ordered, V any]() *SharedTree[K, V] {
	return &SharedTree[K, V]{base[K, V]{tok: newToken(), cow: true}}
}

// Snapshot returns an independent tree with the same contents in O(1).
// Later writes to either tree copy the arrays they touch.
func (t *SharedTree[K, V]) Snapshot() *SharedTree[K, V] {
	t.tok = newToken()
	return &SharedTree[K, V]{base[K, V]{root: t.root, tok: newToken(), cow: true}}
}

// LazyTree is a copy-on-write tree over an archived image. Children arrays
// are read from the image on first access; the image must not be modified
// while the tree, or anything combined with it, is in use.
//
// Reads are safe from several goroutines at once. Writes are not.
type LazyTree[K cmp.Ordered, V any] struct {
	base[K, V]
}

// Snapshot returns an independent tree with the same contents in O(1).
func (t *LazyTree[K, V]) Snapshot() *LazyTree[K, V] {
	t.tok = newToken()
	return &LazyTree[K, V]{base[K, V]{root: t.root, tok: newToken(), cow: true}}
}

// OuterCombine returns a new tree holding f(a, b) for every key of a or b;
// see OuterCombineWith.
func OuterCombine[K cmp.Ordered, V any](a, b Reader[K, V], f func(a, b *V) (V, bool)) *SharedTree[K, V] {
	t := sharedFrom(a)
	t.OuterCombineWith(b, f)
	return t
}

// InnerCombine returns a new tree holding f(a, b) for every key in both a
// and b; see InnerCombineWith.
func InnerCombine[K cmp.Ordered, V any](a, b Reader[K, V], f func(a, b V) (V, bool)) *SharedTree[K, V] {
	t := sharedFrom(a)
	t.InnerCombineWith(b, f)
	return t
}

// sharedFrom starts a new shared tree from the contents of a, copying the
// arrays of an owned tree and sharing those of the others.
func sharedFrom[K cmp.Ordered, V any](a Reader[K, V]) *SharedTree[K, V] {
	src := a.tree()
	t := NewShared[K, V]()
	if !src.cow {
		t.root = deepCopy(&src.root, t.tok)
		return t
	}
	src.tok = newToken()
	t.root = src.root
	return t
}
