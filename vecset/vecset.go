// Package vecset provides sets stored as strictly ascending slices, and
// total sets that can also represent complements.
//
// All combining operations run through the binary merge kernel in package
// merge: the new-allocation forms use a merge.VecState, the ...With forms
// rewrite the receiver in place through a merge.InPlaceState, and the
// predicates use a merge.BoolState that stops at the first witness.
package vecset

import (
	"cmp"
	"iter"
	"slices"

	"github.com/forestrie/go-veccollections/merge"
	"github.com/forestrie/go-veccollections/sortdedup"
)

// VecSet is a set of T stored as a strictly ascending slice. The zero value
// is an empty set.
type VecSet[T cmp.Ordered] struct {
	elems []T
}

func New[T cmp.Ordered]() *VecSet[T] {
	return &VecSet[T]{}
}

func Single[T cmp.Ordered](x T) *VecSet[T] {
	return &VecSet[T]{elems: []T{x}}
}

// FromSlice builds a set from arbitrary elements. xs is not retained.
func FromSlice[T cmp.Ordered](xs ...T) *VecSet[T] {
	a := sortdedup.New(cmp.Compare[T])
	a.Grow(len(xs))
	for _, x := range xs {
		a.Push(x)
	}
	return &VecSet[T]{elems: a.Result()}
}

// FromSeq builds a set from a sequence.
func FromSeq[T cmp.Ordered](seq iter.Seq[T]) *VecSet[T] {
	a := sortdedup.New(cmp.Compare[T])
	for x := range seq {
		a.Push(x)
	}
	return &VecSet[T]{elems: a.Result()}
}

// FromSorted adopts xs, which the caller promises is strictly ascending. If
// it is not, xs is sorted and deduplicated in place.
func FromSorted[T cmp.Ordered](xs []T) *VecSet[T] {
	if !sortdedup.IsStrictlySorted(xs, cmp.Compare[T]) {
		xs = sortdedup.Sorted(xs, cmp.Compare[T], false)
	}
	return &VecSet[T]{elems: xs}
}

func (s *VecSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.elems)
}

func (s *VecSet[T]) IsEmpty() bool {
	return s.Len() == 0
}

// Items returns the underlying ascending slice. It must not be modified.
func (s *VecSet[T]) Items() []T {
	if s == nil {
		return nil
	}
	return s.elems
}

// All iterates the elements in ascending order.
func (s *VecSet[T]) All() iter.Seq[T] {
	return slices.Values(s.Items())
}

func (s *VecSet[T]) Clone() *VecSet[T] {
	return &VecSet[T]{elems: slices.Clone(s.Items())}
}

func (s *VecSet[T]) Equal(other *VecSet[T]) bool {
	return slices.Equal(s.Items(), other.Items())
}

func (s *VecSet[T]) Contains(x T) bool {
	_, found := slices.BinarySearch(s.Items(), x)
	return found
}

// Insert adds x and reports whether it was absent.
func (s *VecSet[T]) Insert(x T) bool {
	i, found := slices.BinarySearch(s.elems, x)
	if found {
		return false
	}
	s.elems = slices.Insert(s.elems, i, x)
	return true
}

// Remove deletes x and reports whether it was present.
func (s *VecSet[T]) Remove(x T) bool {
	i, found := slices.BinarySearch(s.elems, x)
	if !found {
		return false
	}
	s.elems = slices.Delete(s.elems, i, i+1)
	return true
}

// Retain keeps the elements for which keep returns true.
func (s *VecSet[T]) Retain(keep func(T) bool) {
	s.elems = slices.DeleteFunc(s.elems, func(x T) bool { return !keep(x) })
}

// Shrink releases unused capacity.
func (s *VecSet[T]) Shrink() {
	if cap(s.elems) > len(s.elems) {
		elems := make([]T, len(s.elems))
		copy(elems, s.elems)
		s.elems = elems
	}
}

func (s *VecSet[T]) combine(other *VecSet[T], op merge.SetOp[T, T]) *VecSet[T] {
	st := merge.NewVec(s.Items(), other.Items())
	merge.Merge[T, T](op, st)
	return &VecSet[T]{elems: st.Result()}
}

func (s *VecSet[T]) combineWith(other *VecSet[T], op merge.SetOp[T, T]) {
	b := other.Items()
	if other == s {
		// The builder rewrites s.elems while b is being read.
		b = slices.Clone(b)
	}
	st := merge.NewInPlace(s.elems, b)
	defer st.Close()
	merge.Merge[T, T](op, st)
	s.elems = st.Result()
}

func (s *VecSet[T]) Union(other *VecSet[T]) *VecSet[T] {
	return s.combine(other, merge.Union[T]())
}

func (s *VecSet[T]) Intersection(other *VecSet[T]) *VecSet[T] {
	return s.combine(other, merge.Intersection[T]())
}

func (s *VecSet[T]) Difference(other *VecSet[T]) *VecSet[T] {
	return s.combine(other, merge.Difference[T]())
}

func (s *VecSet[T]) SymmetricDifference(other *VecSet[T]) *VecSet[T] {
	return s.combine(other, merge.SymmetricDifference[T]())
}

func (s *VecSet[T]) UnionWith(other *VecSet[T]) {
	s.combineWith(other, merge.Union[T]())
}

func (s *VecSet[T]) IntersectionWith(other *VecSet[T]) {
	s.combineWith(other, merge.Intersection[T]())
}

func (s *VecSet[T]) DifferenceWith(other *VecSet[T]) {
	s.combineWith(other, merge.Difference[T]())
}

func (s *VecSet[T]) SymmetricDifferenceWith(other *VecSet[T]) {
	s.combineWith(other, merge.SymmetricDifference[T]())
}

// IsDisjoint reports whether s and other have no element in common.
func (s *VecSet[T]) IsDisjoint(other *VecSet[T]) bool {
	st := merge.NewBool(s.Items(), other.Items())
	merge.Merge[T, T](merge.Intersection[T](), st)
	return !st.Result()
}

// IsSubset reports whether every element of s is in other.
func (s *VecSet[T]) IsSubset(other *VecSet[T]) bool {
	if s.Len() > other.Len() {
		return false
	}
	st := merge.NewBool(s.Items(), other.Items())
	merge.Merge[T, T](merge.Difference[T](), st)
	return !st.Result()
}

// IsSuperset reports whether every element of other is in s.
func (s *VecSet[T]) IsSuperset(other *VecSet[T]) bool {
	return other.IsSubset(s)
}
