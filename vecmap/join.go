package vecmap

import (
	"cmp"

	"github.com/forestrie/go-veccollections/merge"
)

// Side says which inputs of a join hold a key.
type Side uint8

const (
	LeftOnly Side = iota
	RightOnly
	Both
)

// EitherOrBoth is the argument of an outer join function. Left is valid
// unless Side is RightOnly, Right unless Side is LeftOnly.
type EitherOrBoth[V, W any] struct {
	Side  Side
	Left  V
	Right W
}

// joinState collects the results of f into a new map. One-sided keys are
// passed to f only when the join includes that side.
type joinState[K cmp.Ordered, V, W, R any] struct {
	a   []Entry[K, V]
	b   []Entry[K, W]
	out []Entry[K, R]
	f   func(EitherOrBoth[V, W]) (R, bool)
}

func (s *joinState[K, V, W, R]) ASlice() []Entry[K, V] { return s.a }
func (s *joinState[K, V, W, R]) BSlice() []Entry[K, W] { return s.b }

func (s *joinState[K, V, W, R]) emit(k K, arg EitherOrBoth[V, W]) {
	if r, ok := s.f(arg); ok {
		s.out = append(s.out, Entry[K, R]{Key: k, Value: r})
	}
}

func (s *joinState[K, V, W, R]) AdvanceA(n int, take bool) bool {
	if take {
		for _, e := range s.a[:n] {
			s.emit(e.Key, EitherOrBoth[V, W]{Side: LeftOnly, Left: e.Value})
		}
	}
	s.a = s.a[n:]
	return true
}

func (s *joinState[K, V, W, R]) AdvanceB(n int, take bool) bool {
	if take {
		for _, e := range s.b[:n] {
			s.emit(e.Key, EitherOrBoth[V, W]{Side: RightOnly, Right: e.Value})
		}
	}
	s.b = s.b[n:]
	return true
}

func (s *joinState[K, V, W, R]) both() bool {
	a, b := s.a[0], s.b[0]
	s.emit(a.Key, EitherOrBoth[V, W]{Side: Both, Left: a.Value, Right: b.Value})
	s.a = s.a[1:]
	s.b = s.b[1:]
	return true
}

type joinOp[K cmp.Ordered, V, W, R any] struct {
	st          *joinState[K, V, W, R]
	left, right bool
}

func (o *joinOp[K, V, W, R]) Cmp(a Entry[K, V], b Entry[K, W]) int {
	return cmp.Compare(a.Key, b.Key)
}

func (o *joinOp[K, V, W, R]) FromA(s merge.State[Entry[K, V], Entry[K, W]], n int) bool {
	return s.AdvanceA(n, o.left)
}

func (o *joinOp[K, V, W, R]) FromB(s merge.State[Entry[K, V], Entry[K, W]], n int) bool {
	return s.AdvanceB(n, o.right)
}

func (o *joinOp[K, V, W, R]) Collision(merge.State[Entry[K, V], Entry[K, W]]) bool {
	return o.st.both()
}

func join[K cmp.Ordered, V, W, R any](
	a *VecMap[K, V], b *VecMap[K, W], left, right bool, f func(EitherOrBoth[V, W]) (R, bool),
) *VecMap[K, R] {
	st := &joinState[K, V, W, R]{a: a.Entries(), b: b.Entries(), f: f}
	merge.Merge[Entry[K, V], Entry[K, W]](&joinOp[K, V, W, R]{st: st, left: left, right: right}, st)
	return &VecMap[K, R]{entries: st.out}
}

// OuterJoin calls f for every key of a or b. A false result omits the key.
func OuterJoin[K cmp.Ordered, V, W, R any](a *VecMap[K, V], b *VecMap[K, W], f func(EitherOrBoth[V, W]) (R, bool)) *VecMap[K, R] {
	return join(a, b, true, true, f)
}

// InnerJoin calls f for every key present in both a and b.
func InnerJoin[K cmp.Ordered, V, W, R any](a *VecMap[K, V], b *VecMap[K, W], f func(a V, b W) (R, bool)) *VecMap[K, R] {
	return join(a, b, false, false, func(arg EitherOrBoth[V, W]) (R, bool) {
		return f(arg.Left, arg.Right)
	})
}

// LeftJoin calls f for every key of a; b is nil when the key is not in b.
func LeftJoin[K cmp.Ordered, V, W, R any](a *VecMap[K, V], b *VecMap[K, W], f func(a V, b *W) (R, bool)) *VecMap[K, R] {
	return join(a, b, true, false, func(arg EitherOrBoth[V, W]) (R, bool) {
		if arg.Side == LeftOnly {
			return f(arg.Left, nil)
		}
		return f(arg.Left, &arg.Right)
	})
}

// RightJoin calls f for every key of b; a is nil when the key is not in a.
func RightJoin[K cmp.Ordered, V, W, R any](a *VecMap[K, V], b *VecMap[K, W], f func(a *V, b W) (R, bool)) *VecMap[K, R] {
	return join(a, b, false, true, func(arg EitherOrBoth[V, W]) (R, bool) {
		if arg.Side == RightOnly {
			return f(nil, arg.Right)
		}
		return f(&arg.Left, arg.Right)
	})
}
