package vecset

import "cmp"

// TotalVecSet is a set over an (assumed infinite) universe of T. It stores
// the elements when negated is false and the complement's elements when
// negated is true, so the complement of any finite set is representable.
type TotalVecSet[T cmp.Ordered] struct {
	elems   *VecSet[T]
	negated bool
}

// Constant returns the empty set (false) or the whole universe (true).
func Constant[T cmp.Ordered](negated bool) *TotalVecSet[T] {
	return &TotalVecSet[T]{elems: New[T](), negated: negated}
}

// FromSet wraps s. s is retained.
func FromSet[T cmp.Ordered](s *VecSet[T], negated bool) *TotalVecSet[T] {
	if s == nil {
		s = New[T]()
	}
	return &TotalVecSet[T]{elems: s, negated: negated}
}

// Delta returns the stored elements and whether they are negated.
func (s *TotalVecSet[T]) Delta() (*VecSet[T], bool) {
	return s.elems, s.negated
}

func (s *TotalVecSet[T]) Contains(x T) bool {
	return s.elems.Contains(x) != s.negated
}

func (s *TotalVecSet[T]) IsEmpty() bool {
	return !s.negated && s.elems.IsEmpty()
}

func (s *TotalVecSet[T]) IsUniverse() bool {
	return s.negated && s.elems.IsEmpty()
}

func (s *TotalVecSet[T]) Clone() *TotalVecSet[T] {
	return &TotalVecSet[T]{elems: s.elems.Clone(), negated: s.negated}
}

func (s *TotalVecSet[T]) Equal(other *TotalVecSet[T]) bool {
	return s.negated == other.negated && s.elems.Equal(other.elems)
}

// Not returns the complement.
func (s *TotalVecSet[T]) Not() *TotalVecSet[T] {
	return &TotalVecSet[T]{elems: s.elems.Clone(), negated: !s.negated}
}

// Negate complements s in place.
func (s *TotalVecSet[T]) Negate() {
	s.negated = !s.negated
}

// Union returns s | other:
//
//	a.neg b.neg   elements   negated
//	false false   A | B      false
//	false true    B - A      true
//	true  false   A - B      true
//	true  true    A & B      true
func (s *TotalVecSet[T]) Union(other *TotalVecSet[T]) *TotalVecSet[T] {
	switch {
	case !s.negated && !other.negated:
		return FromSet(s.elems.Union(other.elems), false)
	case !s.negated && other.negated:
		return FromSet(other.elems.Difference(s.elems), true)
	case s.negated && !other.negated:
		return FromSet(s.elems.Difference(other.elems), true)
	default:
		return FromSet(s.elems.Intersection(other.elems), true)
	}
}

// Intersection returns s & other:
//
//	a.neg b.neg   elements   negated
//	false false   A & B      false
//	false true    A - B      false
//	true  false   B - A      false
//	true  true    A | B      true
func (s *TotalVecSet[T]) Intersection(other *TotalVecSet[T]) *TotalVecSet[T] {
	switch {
	case !s.negated && !other.negated:
		return FromSet(s.elems.Intersection(other.elems), false)
	case !s.negated && other.negated:
		return FromSet(s.elems.Difference(other.elems), false)
	case s.negated && !other.negated:
		return FromSet(other.elems.Difference(s.elems), false)
	default:
		return FromSet(s.elems.Union(other.elems), true)
	}
}

// Difference returns s - other, that is s & !other:
//
//	a.neg b.neg   elements   negated
//	false false   A - B      false
//	false true    A & B      false
//	true  false   A | B      true
//	true  true    B - A      false
func (s *TotalVecSet[T]) Difference(other *TotalVecSet[T]) *TotalVecSet[T] {
	switch {
	case !s.negated && !other.negated:
		return FromSet(s.elems.Difference(other.elems), false)
	case !s.negated && other.negated:
		return FromSet(s.elems.Intersection(other.elems), false)
	case s.negated && !other.negated:
		return FromSet(s.elems.Union(other.elems), true)
	default:
		return FromSet(other.elems.Difference(s.elems), false)
	}
}

// SymmetricDifference is A ^ B with negated a.neg != b.neg.
func (s *TotalVecSet[T]) SymmetricDifference(other *TotalVecSet[T]) *TotalVecSet[T] {
	return FromSet(s.elems.SymmetricDifference(other.elems), s.negated != other.negated)
}

// UnionWith is the in-place form of Union. Cases that keep the receiver's
// elements on the left reuse its slice.
func (s *TotalVecSet[T]) UnionWith(other *TotalVecSet[T]) {
	switch {
	case !s.negated && !other.negated:
		s.elems.UnionWith(other.elems)
	case !s.negated && other.negated:
		s.elems = other.elems.Difference(s.elems)
		s.negated = true
	case s.negated && !other.negated:
		s.elems.DifferenceWith(other.elems)
	default:
		s.elems.IntersectionWith(other.elems)
	}
}

func (s *TotalVecSet[T]) IntersectionWith(other *TotalVecSet[T]) {
	switch {
	case !s.negated && !other.negated:
		s.elems.IntersectionWith(other.elems)
	case !s.negated && other.negated:
		s.elems.DifferenceWith(other.elems)
	case s.negated && !other.negated:
		s.elems = other.elems.Difference(s.elems)
		s.negated = false
	default:
		s.elems.UnionWith(other.elems)
	}
}

func (s *TotalVecSet[T]) DifferenceWith(other *TotalVecSet[T]) {
	switch {
	case !s.negated && !other.negated:
		s.elems.DifferenceWith(other.elems)
	case !s.negated && other.negated:
		s.elems.IntersectionWith(other.elems)
	case s.negated && !other.negated:
		s.elems.UnionWith(other.elems)
	default:
		s.elems = other.elems.Difference(s.elems)
		s.negated = false
	}
}

func (s *TotalVecSet[T]) SymmetricDifferenceWith(other *TotalVecSet[T]) {
	s.elems.SymmetricDifferenceWith(other.elems)
	s.negated = s.negated != other.negated
}

// IsDisjoint reports whether s and other have no element in common.
func (s *TotalVecSet[T]) IsDisjoint(other *TotalVecSet[T]) bool {
	switch {
	case !s.negated && !other.negated:
		return s.elems.IsDisjoint(other.elems)
	case !s.negated && other.negated:
		return s.elems.IsSubset(other.elems)
	case s.negated && !other.negated:
		return other.elems.IsSubset(s.elems)
	default:
		// Two cofinite sets always intersect.
		return false
	}
}

// IsSubset reports whether every element of s is in other.
func (s *TotalVecSet[T]) IsSubset(other *TotalVecSet[T]) bool {
	switch {
	case !s.negated && !other.negated:
		return s.elems.IsSubset(other.elems)
	case !s.negated && other.negated:
		return s.elems.IsDisjoint(other.elems)
	case s.negated && !other.negated:
		return false
	default:
		return other.elems.IsSubset(s.elems)
	}
}

func (s *TotalVecSet[T]) IsSuperset(other *TotalVecSet[T]) bool {
	return other.IsSubset(s)
}
