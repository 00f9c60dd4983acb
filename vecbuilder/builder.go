package vecbuilder

import "iter"

// Builder is a partially-consumed slice. See the package documentation for
// the target / gap / source layout.
type Builder[T any] struct {
	buf []T
	t1  int
	s0  int

	release func(*T)
}

type Option[T any] func(*Builder[T])

// WithRelease sets the function the builder calls, once, for every element
// it discards.
func WithRelease[T any](release func(*T)) Option[T] {
	return func(b *Builder[T]) {
		b.release = release
	}
}

// New takes ownership of src. All of src starts out as source.
func New[T any](src []T, opts ...Option[T]) *Builder[T] {
	b := &Builder[T]{buf: src}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Target returns the produced elements. The slice is only valid until the
// next mutating call.
func (b *Builder[T]) Target() []T {
	return b.buf[:b.t1:b.t1]
}

// Source returns the elements not yet consumed. The slice is only valid
// until the next mutating call.
func (b *Builder[T]) Source() []T {
	return b.buf[b.s0:]
}

// Gap returns the number of free slots between target and source.
func (b *Builder[T]) Gap() int {
	return b.s0 - b.t1
}

// Push appends x to the target. hint is the number of pushes the caller
// still expects to make, including this one.
func (b *Builder[T]) Push(x T, hint int) {
	if b.t1 == b.s0 {
		b.reserve(max(1, hint))
	}
	b.buf[b.t1] = x
	b.t1++
}

// Take moves up to n elements from the source to the target and returns the
// number moved.
func (b *Builder[T]) Take(n int) int {
	n = min(n, len(b.buf)-b.s0)
	if n <= 0 {
		return 0
	}
	if b.t1 != b.s0 {
		copy(b.buf[b.t1:b.t1+n], b.buf[b.s0:b.s0+n])
		// The moved-from slots that did not get overwritten become gap.
		clear(b.buf[max(b.t1+n, b.s0) : b.s0+n])
	}
	b.t1 += n
	b.s0 += n
	return n
}

// Skip discards up to n elements from the head of the source and returns the
// number discarded.
func (b *Builder[T]) Skip(n int) int {
	n = min(n, len(b.buf)-b.s0)
	var zero T
	for i := 0; i < n; i++ {
		at := b.s0
		b.s0++
		if b.release != nil {
			b.release(&b.buf[at])
		}
		b.buf[at] = zero
	}
	return max(n, 0)
}

// PopFront moves the head of the source out of the builder.
func (b *Builder[T]) PopFront() (T, bool) {
	var zero T
	if b.s0 == len(b.buf) {
		return zero, false
	}
	x := b.buf[b.s0]
	b.buf[b.s0] = zero
	b.s0++
	return x, true
}

// ExtendFrom pushes all of items. hint is as for Push and is raised to
// len(items) when smaller.
func (b *Builder[T]) ExtendFrom(items []T, hint int) {
	hint = max(hint, len(items))
	for i, x := range items {
		b.Push(x, hint-i)
	}
}

// ExtendFromSeq pushes at most n items pulled from seq and returns the number
// pushed.
func (b *Builder[T]) ExtendFromSeq(seq iter.Seq[T], n int, hint int) int {
	if n <= 0 {
		return 0
	}
	hint = max(hint, n)
	pushed := 0
	for x := range seq {
		b.Push(x, hint-pushed)
		pushed++
		if pushed == n {
			break
		}
	}
	return pushed
}

// IntoSlice releases what is left of the source and returns the target. The
// builder is empty afterwards.
func (b *Builder[T]) IntoSlice() []T {
	b.Skip(len(b.buf) - b.s0)
	out := b.buf[:b.t1]
	b.buf = nil
	b.t1 = 0
	b.s0 = 0
	return out
}

// Close releases every live element, target first, and empties the builder.
func (b *Builder[T]) Close() {
	var zero T
	for b.t1 > 0 {
		b.t1--
		at := b.t1
		if b.release != nil {
			b.release(&b.buf[at])
		}
		b.buf[at] = zero
	}
	b.Skip(len(b.buf) - b.s0)
	b.buf = nil
	b.s0 = 0
}

// reserve makes the gap at least n slots wide, shifting the source to the end
// of the backing array.
func (b *Builder[T]) reserve(n int) {
	gap := b.s0 - b.t1
	if gap >= n {
		return
	}
	grow := n - gap
	oldLen := len(b.buf)
	newLen := oldLen + grow

	if newLen <= cap(b.buf) {
		buf := b.buf[:newLen]
		copy(buf[b.s0+grow:], buf[b.s0:oldLen])
		clear(buf[b.s0 : b.s0+grow])
		b.buf = buf
		b.s0 += grow
		return
	}

	buf := make([]T, newLen, max(newLen, 2*cap(b.buf)))
	copy(buf, b.buf[:b.t1])
	copy(buf[b.s0+grow:], b.buf[b.s0:oldLen])
	clear(b.buf)
	b.buf = buf
	b.s0 += grow
}
