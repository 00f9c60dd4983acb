package merge

import "cmp"

// CollisionPolicy selects what a SetOp keeps when both inputs hold an equal
// element.
type CollisionPolicy uint8

const (
	KeepA CollisionPolicy = iota
	KeepB
	KeepNeither
)

// SetOp is a merge operation described by value.
type SetOp[A, B any] struct {
	Compare     func(a A, b B) int
	OnlyA       bool
	OnlyB       bool
	OnCollision CollisionPolicy
}

func (o SetOp[A, B]) Cmp(a A, b B) int {
	return o.Compare(a, b)
}

func (o SetOp[A, B]) FromA(s State[A, B], n int) bool {
	return s.AdvanceA(n, o.OnlyA)
}

func (o SetOp[A, B]) FromB(s State[A, B], n int) bool {
	return s.AdvanceB(n, o.OnlyB)
}

func (o SetOp[A, B]) Collision(s State[A, B]) bool {
	switch o.OnCollision {
	case KeepA:
		return s.AdvanceA(1, true) && s.AdvanceB(1, false)
	case KeepB:
		return s.AdvanceA(1, false) && s.AdvanceB(1, true)
	default:
		return s.AdvanceA(1, false) && s.AdvanceB(1, false)
	}
}

// Union keeps everything; on collision the A element wins.
func Union[T cmp.Ordered]() SetOp[T, T] {
	return SetOp[T, T]{Compare: cmp.Compare[T], OnlyA: true, OnlyB: true, OnCollision: KeepA}
}

// Intersection keeps only colliding elements, taken from A.
func Intersection[T cmp.Ordered]() SetOp[T, T] {
	return SetOp[T, T]{Compare: cmp.Compare[T], OnCollision: KeepA}
}

// Difference keeps the A-only elements.
func Difference[T cmp.Ordered]() SetOp[T, T] {
	return SetOp[T, T]{Compare: cmp.Compare[T], OnlyA: true, OnCollision: KeepNeither}
}

// SymmetricDifference keeps the elements present on exactly one side.
func SymmetricDifference[T cmp.Ordered]() SetOp[T, T] {
	return SetOp[T, T]{Compare: cmp.Compare[T], OnlyA: true, OnlyB: true, OnCollision: KeepNeither}
}
