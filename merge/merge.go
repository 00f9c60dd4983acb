package merge

import "slices"

// State is the target of a merge. ASlice and BSlice return the windows that
// have not been consumed yet; AdvanceA and AdvanceB consume n elements from
// the head of the window, keeping them in the output when take is true.
// Returning false aborts the merge.
type State[A, B any] interface {
	ASlice() []A
	BSlice() []B
	AdvanceA(n int, take bool) bool
	AdvanceB(n int, take bool) bool
}

// Op decides what happens to A-only runs, B-only runs and collisions.
//
// FromA and FromB must consume exactly n elements from their side, Collision
// exactly one element from each side.
type Op[A, B any] interface {
	Cmp(a A, b B) int
	FromA(s State[A, B], n int) bool
	FromB(s State[A, B], n int) bool
	Collision(s State[A, B]) bool
}

// Merge runs op over the remaining windows of s. It returns false if a
// callback aborted the merge.
func Merge[A, B any](op Op[A, B], s State[A, B]) bool {
	return merge0(op, s, len(s.ASlice()), len(s.BSlice()))
}

// merge0 merges the first an elements of the A window with the first bn
// elements of the B window.
func merge0[A, B any](op Op[A, B], s State[A, B], an, bn int) bool {
	if an == 0 {
		return bn == 0 || op.FromB(s, bn)
	}
	if bn == 0 {
		return op.FromA(s, an)
	}
	am := an / 2
	pivot := s.ASlice()[am]
	bm, found := slices.BinarySearchFunc(s.BSlice()[:bn], pivot, func(b B, a A) int {
		return -op.Cmp(a, b)
	})
	if found {
		return merge0(op, s, am, bm) &&
			op.Collision(s) &&
			merge0(op, s, an-am-1, bn-bm-1)
	}
	return merge0(op, s, am, bm) &&
		op.FromA(s, 1) &&
		merge0(op, s, an-am-1, bn-bm)
}
