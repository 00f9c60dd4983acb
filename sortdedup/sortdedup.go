// Package sortdedup turns an arbitrary sequence into a strictly ascending,
// duplicate free slice, cheaply when the input is already (mostly) sorted.
package sortdedup

import "slices"

// sortThreshold is the buffer length below which an unsorted tail is left
// alone until Result.
const sortThreshold = 16

type Options struct {
	// KeepLast keeps the last pushed of a run of equal elements instead of
	// the first.
	KeepLast bool
}

type Option func(*Options)

// WithKeepLast selects last-wins deduplication, used when building maps
// from (key, value) pairs.
func WithKeepLast() Option {
	return func(o *Options) {
		o.KeepLast = true
	}
}

// Aggregator accumulates elements. The first sorted elements of its buffer
// are strictly ascending and unique; anything after that is unsorted.
type Aggregator[T any] struct {
	elems  []T
	sorted int
	cmp    func(a, b T) int
	opts   Options
}

func New[T any](cmp func(a, b T) int, opts ...Option) *Aggregator[T] {
	a := &Aggregator[T]{cmp: cmp}
	for _, o := range opts {
		o(&a.opts)
	}
	return a
}

// Grow reserves room for n more elements.
func (a *Aggregator[T]) Grow(n int) {
	a.elems = slices.Grow(a.elems, n)
}

func (a *Aggregator[T]) Push(x T) {
	if a.sorted == len(a.elems) {
		if a.sorted == 0 {
			a.elems = append(a.elems, x)
			a.sorted = 1
			return
		}
		switch c := a.cmp(a.elems[a.sorted-1], x); {
		case c < 0:
			a.elems = append(a.elems, x)
			a.sorted++
			return
		case c == 0:
			if a.opts.KeepLast {
				a.elems[a.sorted-1] = x
			}
			return
		}
	}
	a.elems = append(a.elems, x)
	if len(a.elems)-a.sorted > a.sorted && len(a.elems) > sortThreshold {
		a.sortDedup()
	}
}

// Result returns the sorted, deduplicated elements. The aggregator is empty
// afterwards.
func (a *Aggregator[T]) Result() []T {
	if a.sorted != len(a.elems) {
		a.sortDedup()
	}
	out := a.elems
	a.elems = nil
	a.sorted = 0
	return out
}

func (a *Aggregator[T]) sortDedup() {
	a.elems = Sorted(a.elems, a.cmp, a.opts.KeepLast)
	a.sorted = len(a.elems)
}

// Sorted stable sorts xs in place and removes runs of equal elements,
// keeping the first (or, with keepLast, the last) of each run.
func Sorted[T any](xs []T, cmp func(a, b T) int, keepLast bool) []T {
	slices.SortStableFunc(xs, cmp)
	if len(xs) < 2 {
		return xs
	}
	w := 0
	for r := 1; r < len(xs); r++ {
		if cmp(xs[w], xs[r]) == 0 {
			if keepLast {
				xs[w] = xs[r]
			}
			continue
		}
		w++
		xs[w] = xs[r]
	}
	clear(xs[w+1:])
	return xs[:w+1]
}

// IsStrictlySorted reports whether xs is strictly ascending.
func IsStrictlySorted[T any](xs []T, cmp func(a, b T) int) bool {
	for i := 1; i < len(xs); i++ {
		if cmp(xs[i-1], xs[i]) >= 0 {
			return false
		}
	}
	return true
}
