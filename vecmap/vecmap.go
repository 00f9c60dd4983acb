// Package vecmap provides maps stored as slices of entries sorted by key,
// relational joins over them, and total maps with a default value.
package vecmap

import (
	"cmp"
	"iter"
	"slices"

	"github.com/google/btree"

	"github.com/forestrie/go-veccollections/merge"
	"github.com/forestrie/go-veccollections/sortdedup"
)

type Entry[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

func byKey[K cmp.Ordered, V, W any](a Entry[K, V], b Entry[K, W]) int {
	return cmp.Compare(a.Key, b.Key)
}

// VecMap maps K to V through a slice of entries with strictly ascending
// keys. The zero value is an empty map.
type VecMap[K cmp.Ordered, V any] struct {
	entries []Entry[K, V]
}

func New[K cmp.Ordered, V any]() *VecMap[K, V] {
	return &VecMap[K, V]{}
}

func Single[K cmp.Ordered, V any](k K, v V) *VecMap[K, V] {
	return &VecMap[K, V]{entries: []Entry[K, V]{{Key: k, Value: v}}}
}

// FromEntries builds a map from entries in any order. When a key repeats,
// the last entry wins.
func FromEntries[K cmp.Ordered, V any](entries ...Entry[K, V]) *VecMap[K, V] {
	a := sortdedup.New(byKey[K, V, V], sortdedup.WithKeepLast())
	a.Grow(len(entries))
	for _, e := range entries {
		a.Push(e)
	}
	return &VecMap[K, V]{entries: a.Result()}
}

// FromSeq builds a map from a key/value sequence; the last value per key
// wins.
func FromSeq[K cmp.Ordered, V any](seq iter.Seq2[K, V]) *VecMap[K, V] {
	a := sortdedup.New(byKey[K, V, V], sortdedup.WithKeepLast())
	for k, v := range seq {
		a.Push(Entry[K, V]{Key: k, Value: v})
	}
	return &VecMap[K, V]{entries: a.Result()}
}

func FromMap[K cmp.Ordered, V any](m map[K]V) *VecMap[K, V] {
	entries := make([]Entry[K, V], 0, len(m))
	for k, v := range m {
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
	}
	slices.SortFunc(entries, byKey[K, V, V])
	return &VecMap[K, V]{entries: entries}
}

// FromBTree absorbs an ordered btree. The tree is already sorted so no
// sorting happens; the tree must be ordered by key alone.
func FromBTree[K cmp.Ordered, V any](t *btree.BTreeG[Entry[K, V]]) *VecMap[K, V] {
	entries := make([]Entry[K, V], 0, t.Len())
	t.Ascend(func(e Entry[K, V]) bool {
		entries = append(entries, e)
		return true
	})
	return &VecMap[K, V]{entries: entries}
}

// EntryLess orders btree items by key, for use with btree.NewG.
func EntryLess[K cmp.Ordered, V any](a, b Entry[K, V]) bool {
	return a.Key < b.Key
}

func (m *VecMap[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

func (m *VecMap[K, V]) IsEmpty() bool {
	return m.Len() == 0
}

// Entries returns the underlying sorted entries. They must not be modified
// in a way that changes keys.
func (m *VecMap[K, V]) Entries() []Entry[K, V] {
	if m == nil {
		return nil
	}
	return m.entries
}

func (m *VecMap[K, V]) search(k K) (int, bool) {
	return slices.BinarySearchFunc(m.Entries(), k, func(e Entry[K, V], k K) int {
		return cmp.Compare(e.Key, k)
	})
}

func (m *VecMap[K, V]) Get(k K) (V, bool) {
	if i, found := m.search(k); found {
		return m.entries[i].Value, true
	}
	var zero V
	return zero, false
}

// GetPtr returns a pointer to the value stored for k, or nil. The pointer is
// invalidated by the next mutation of m.
func (m *VecMap[K, V]) GetPtr(k K) *V {
	if i, found := m.search(k); found {
		return &m.entries[i].Value
	}
	return nil
}

func (m *VecMap[K, V]) Contains(k K) bool {
	_, found := m.search(k)
	return found
}

// Insert sets k to v, replacing any previous value.
func (m *VecMap[K, V]) Insert(k K, v V) {
	m.MergeWith(Single(k, v))
}

// Remove deletes k and returns its value.
func (m *VecMap[K, V]) Remove(k K) (V, bool) {
	i, found := m.search(k)
	if !found {
		var zero V
		return zero, false
	}
	v := m.entries[i].Value
	m.entries = slices.Delete(m.entries, i, i+1)
	return v, true
}

// MergeWith adds every entry of other, whose values win on shared keys.
func (m *VecMap[K, V]) MergeWith(other *VecMap[K, V]) {
	if other == m {
		return
	}
	st := merge.NewInPlace(m.entries, other.Entries())
	defer st.Close()
	merge.Merge[Entry[K, V], Entry[K, V]](merge.SetOp[Entry[K, V], Entry[K, V]]{
		Compare:     byKey[K, V, V],
		OnlyA:       true,
		OnlyB:       true,
		OnCollision: merge.KeepB,
	}, st)
	m.entries = st.Result()
}

// CombineWith adds every entry of other. On shared keys the value becomes
// f(m's value, other's value).
func (m *VecMap[K, V]) CombineWith(other *VecMap[K, V], f func(a, b V) V) {
	b := other.Entries()
	if other == m {
		b = slices.Clone(b)
	}
	st := merge.NewInPlace(m.entries, b)
	defer st.Close()
	merge.Merge[Entry[K, V], Entry[K, V]](&combineOp[K, V]{st: st, f: f}, st)
	m.entries = st.Result()
}

type combineOp[K cmp.Ordered, V any] struct {
	st *merge.InPlaceState[Entry[K, V], Entry[K, V]]
	f  func(a, b V) V
}

func (o *combineOp[K, V]) Cmp(a, b Entry[K, V]) int {
	return cmp.Compare(a.Key, b.Key)
}

func (o *combineOp[K, V]) FromA(s merge.State[Entry[K, V], Entry[K, V]], n int) bool {
	return s.AdvanceA(n, true)
}

func (o *combineOp[K, V]) FromB(s merge.State[Entry[K, V], Entry[K, V]], n int) bool {
	return s.AdvanceB(n, true)
}

func (o *combineOp[K, V]) Collision(s merge.State[Entry[K, V], Entry[K, V]]) bool {
	a, _ := o.st.PopA()
	b, _ := o.st.PeekB()
	o.st.Push(Entry[K, V]{Key: a.Key, Value: o.f(a.Value, b.Value)})
	return s.AdvanceB(1, false)
}

// Retain keeps the entries for which keep returns true.
func (m *VecMap[K, V]) Retain(keep func(k K, v V) bool) {
	m.entries = slices.DeleteFunc(m.entries, func(e Entry[K, V]) bool { return !keep(e.Key, e.Value) })
}

// MapValues replaces every value v with f(v).
func (m *VecMap[K, V]) MapValues(f func(V) V) {
	for i := range m.entries {
		m.entries[i].Value = f(m.entries[i].Value)
	}
}

func (m *VecMap[K, V]) Clone() *VecMap[K, V] {
	return &VecMap[K, V]{entries: slices.Clone(m.Entries())}
}

// All iterates the entries in ascending key order.
func (m *VecMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range m.Entries() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

func (m *VecMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, e := range m.Entries() {
			if !yield(e.Key) {
				return
			}
		}
	}
}

func (m *VecMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, e := range m.Entries() {
			if !yield(e.Value) {
				return
			}
		}
	}
}

// MapInto returns a new map with every value v replaced by f(v).
func MapInto[K cmp.Ordered, V, R any](m *VecMap[K, V], f func(V) R) *VecMap[K, R] {
	out := make([]Entry[K, R], len(m.Entries()))
	for i, e := range m.Entries() {
		out[i] = Entry[K, R]{Key: e.Key, Value: f(e.Value)}
	}
	return &VecMap[K, R]{entries: out}
}
