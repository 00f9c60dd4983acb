package vecbuilder

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tracked stands in for an element owning a resource. id 0 is reserved for
// the zero value so that releasing a gap slot is detectable.
type tracked struct {
	id int
}

type dropCounter struct {
	t        *testing.T
	next     int
	released map[int]int
}

func newDropCounter(t *testing.T) *dropCounter {
	return &dropCounter{t: t, next: 1, released: map[int]int{}}
}

func (c *dropCounter) make() tracked {
	x := tracked{id: c.next}
	c.next++
	return x
}

func (c *dropCounter) makeN(n int) []tracked {
	out := make([]tracked, n)
	for i := range out {
		out[i] = c.make()
	}
	return out
}

func (c *dropCounter) release(x *tracked) {
	require.NotZero(c.t, x.id, "released a gap slot")
	c.released[x.id]++
}

// requireExactlyOnce checks that every element ever made was released once.
func (c *dropCounter) requireExactlyOnce() {
	for id := 1; id < c.next; id++ {
		require.Equal(c.t, 1, c.released[id], "element %d", id)
	}
	require.Len(c.t, c.released, c.next-1)
}

func ids(xs []tracked) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = x.id
	}
	return out
}

func TestBuilderTakeSkipPush(t *testing.T) {
	c := newDropCounter(t)
	src := c.makeN(5) // ids 1..5

	b := New(src, WithRelease(c.release))
	require.Equal(t, 2, b.Take(2))
	require.Equal(t, 1, b.Skip(1))
	b.Push(c.make(), 1) // id 6
	require.Equal(t, 2, b.Take(10))

	out := b.IntoSlice()
	assert.Equal(t, []int{1, 2, 6, 4, 5}, ids(out))
	assert.Equal(t, map[int]int{3: 1}, c.released)

	b.Close()
	assert.Equal(t, map[int]int{3: 1}, c.released)

	for i := range out {
		c.release(&out[i])
	}
	c.requireExactlyOnce()
}

func TestBuilderPushReallocates(t *testing.T) {
	src := make([]int, 3, 3)
	copy(src, []int{10, 20, 30})

	b := New(src)
	b.Take(1)
	for i := 0; i < 5; i++ {
		b.Push(11+i, 1)
	}
	require.Equal(t, []int{20, 30}, b.Source())
	b.Take(2)
	assert.Equal(t, []int{10, 11, 12, 13, 14, 15, 20, 30}, b.IntoSlice())
}

func TestBuilderPushWithinCapacity(t *testing.T) {
	src := make([]int, 2, 16)
	copy(src, []int{1, 5})

	b := New(src)
	b.Take(1)
	b.Push(2, 3)
	require.Equal(t, 2, b.Gap())
	b.Push(3, 2)
	b.Push(4, 1)
	require.Equal(t, 0, b.Gap())
	require.Equal(t, []int{5}, b.Source())
	b.Take(1)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, b.IntoSlice())
}

func TestBuilderPopFront(t *testing.T) {
	b := New([]string{"a", "b"})
	x, ok := b.PopFront()
	require.True(t, ok)
	require.Equal(t, "a", x)
	b.Push("c", 1)
	x, ok = b.PopFront()
	require.True(t, ok)
	require.Equal(t, "b", x)
	_, ok = b.PopFront()
	require.False(t, ok)
	assert.Equal(t, []string{"c"}, b.IntoSlice())
}

func TestBuilderExtend(t *testing.T) {
	b := New([]int{1, 9})
	b.Take(1)
	b.ExtendFrom([]int{2, 3}, 0)
	n := b.ExtendFromSeq(slices.Values([]int{4, 5, 6, 7}), 3, 3)
	require.Equal(t, 3, n)
	b.Take(1)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 9}, b.IntoSlice())
}

func TestBuilderCloseReleasesTargetAndSource(t *testing.T) {
	c := newDropCounter(t)
	b := New(c.makeN(6), WithRelease(c.release))
	b.Take(2)
	b.Skip(1)
	b.Push(c.make(), 4)
	b.Close()
	c.requireExactlyOnce()
	require.Empty(t, b.Source())
	require.Empty(t, b.Target())
}

func TestBuilderReleasePanicDoesNotDoubleRelease(t *testing.T) {
	c := newDropCounter(t)
	panicOn := 3
	release := func(x *tracked) {
		c.release(x)
		if x.id == panicOn {
			panic("release failed")
		}
	}
	b := New(c.makeN(5), WithRelease(release))
	require.Panics(t, func() { b.Skip(5) })
	// The builder stopped after the panicking release; nothing is released
	// twice, the remainder leaks.
	b.Close()
	for id, n := range c.released {
		require.Equal(t, 1, n, "element %d", id)
	}
	assert.Equal(t, 1, c.released[1])
	assert.Equal(t, 1, c.released[3])
}

// TestBuilderRandomOpsReleaseExactlyOnce drives random operation sequences
// and checks that every element is released exactly once whether the
// builder ends with Close or IntoSlice.
func TestBuilderRandomOpsReleaseExactlyOnce(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		r := rand.New(rand.NewPCG(seed, 7))
		c := newDropCounter(t)
		b := New(c.makeN(r.IntN(20)), WithRelease(c.release))

		var popped []tracked
		for op := 0; op < 40; op++ {
			switch r.IntN(5) {
			case 0:
				b.Push(c.make(), r.IntN(4))
			case 1:
				b.Take(r.IntN(4))
			case 2:
				b.Skip(r.IntN(4))
			case 3:
				if x, ok := b.PopFront(); ok {
					popped = append(popped, x)
				}
			case 4:
				b.ExtendFrom(c.makeN(r.IntN(3)), r.IntN(3))
			}
			require.LessOrEqual(t, b.t1, b.s0)
			require.LessOrEqual(t, b.s0, len(b.buf))
		}

		if seed%2 == 0 {
			b.Close()
		} else {
			out := b.IntoSlice()
			for i := range out {
				c.release(&out[i])
			}
			b.Close()
		}
		for i := range popped {
			c.release(&popped[i])
		}
		c.requireExactlyOnce()
	}
}
