package merge

import "github.com/forestrie/go-veccollections/vecbuilder"

// BoolState records whether the operation would keep anything. The first
// kept element sets the result and aborts the merge.
type BoolState[A, B any] struct {
	a      []A
	b      []B
	result bool
}

func NewBool[A, B any](a []A, b []B) *BoolState[A, B] {
	return &BoolState[A, B]{a: a, b: b}
}

func (s *BoolState[A, B]) ASlice() []A { return s.a }
func (s *BoolState[A, B]) BSlice() []B { return s.b }

// Result reports whether anything was kept.
func (s *BoolState[A, B]) Result() bool { return s.result }

// SetResult records a witness found by an operation that resolves
// collisions itself. It always returns false so it can end a callback.
func (s *BoolState[A, B]) SetResult() bool {
	s.result = true
	return false
}

func (s *BoolState[A, B]) AdvanceA(n int, take bool) bool {
	if take {
		return s.SetResult()
	}
	s.a = s.a[n:]
	return true
}

func (s *BoolState[A, B]) AdvanceB(n int, take bool) bool {
	if take {
		return s.SetResult()
	}
	s.b = s.b[n:]
	return true
}

// VecState collects the kept elements of both inputs into a new slice.
type VecState[T any] struct {
	a   []T
	b   []T
	out []T
}

func NewVec[T any](a, b []T) *VecState[T] {
	return &VecState[T]{a: a, b: b}
}

func (s *VecState[T]) ASlice() []T { return s.a }
func (s *VecState[T]) BSlice() []T { return s.b }

// Result returns the collected elements.
func (s *VecState[T]) Result() []T { return s.out }

func (s *VecState[T]) AdvanceA(n int, take bool) bool {
	if take {
		s.out = append(s.out, s.a[:n]...)
	}
	s.a = s.a[n:]
	return true
}

func (s *VecState[T]) AdvanceB(n int, take bool) bool {
	if take {
		s.out = append(s.out, s.b[:n]...)
	}
	s.b = s.b[n:]
	return true
}

// InPlaceState rewrites the A slice in place. Kept B elements are converted
// to A with conv before they are written.
type InPlaceState[A, B any] struct {
	v    *vecbuilder.Builder[A]
	b    []B
	conv func(B) A
}

// NewInPlace returns a state that rewrites a, appending kept elements of b
// as they are.
func NewInPlace[T any](a, b []T, opts ...vecbuilder.Option[T]) *InPlaceState[T, T] {
	return NewInPlaceRef(a, b, func(x T) T { return x }, opts...)
}

// NewInPlaceRef returns a state that rewrites a, converting kept elements
// of b with conv.
func NewInPlaceRef[A, B any](a []A, b []B, conv func(B) A, opts ...vecbuilder.Option[A]) *InPlaceState[A, B] {
	return &InPlaceState[A, B]{
		v:    vecbuilder.New(a, opts...),
		b:    b,
		conv: conv,
	}
}

func (s *InPlaceState[A, B]) ASlice() []A { return s.v.Source() }
func (s *InPlaceState[A, B]) BSlice() []B { return s.b }

func (s *InPlaceState[A, B]) AdvanceA(n int, take bool) bool {
	if take {
		s.v.Take(n)
	} else {
		s.v.Skip(n)
	}
	return true
}

func (s *InPlaceState[A, B]) AdvanceB(n int, take bool) bool {
	if take {
		// Every remaining B element may still end up in the output.
		hint := len(s.b)
		for i := 0; i < n; i++ {
			s.v.Push(s.conv(s.b[i]), hint-i)
		}
	}
	s.b = s.b[n:]
	return true
}

// PopA moves the head of the A window out of the state. The caller either
// pushes a replacement or drops it.
func (s *InPlaceState[A, B]) PopA() (A, bool) {
	return s.v.PopFront()
}

// PeekB returns the head of the B window without consuming it.
func (s *InPlaceState[A, B]) PeekB() (B, bool) {
	var zero B
	if len(s.b) == 0 {
		return zero, false
	}
	return s.b[0], true
}

// Push appends x to the output.
func (s *InPlaceState[A, B]) Push(x A) {
	s.v.Push(x, len(s.b)+1)
}

// Result returns the rewritten slice. The state must not be used afterwards.
func (s *InPlaceState[A, B]) Result() []A {
	return s.v.IntoSlice()
}

// Close releases everything still held by the state. It is a no-op after
// Result.
func (s *InPlaceState[A, B]) Close() {
	s.v.Close()
}
