package vecmap

import (
	"maps"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/btree"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomMap(r *rand.Rand, limit int) map[int]int {
	m := map[int]int{}
	n := r.IntN(limit)
	for i := 0; i < n; i++ {
		m[r.IntN(2*limit)] = r.IntN(100)
	}
	return m
}

func TestFromEntriesLastWins(t *testing.T) {
	m := FromEntries(
		Entry[int, rune]{1, 'a'},
		Entry[int, rune]{2, 'b'},
		Entry[int, rune]{1, 'c'},
	)
	assert.Equal(t, []Entry[int, rune]{{1, 'c'}, {2, 'b'}}, m.Entries())

	seq := FromSeq(func(yield func(int, rune) bool) {
		_ = yield(1, 'a') && yield(2, 'b') && yield(1, 'c')
	})
	assert.Equal(t, m.Entries(), seq.Entries())
}

func TestFromMapAndBTree(t *testing.T) {
	src := map[string]int{"b": 2, "a": 1, "c": 3}
	want := []Entry[string, int]{{"a", 1}, {"b", 2}, {"c", 3}}
	assert.Equal(t, want, FromMap(src).Entries())

	bt := btree.NewG(8, EntryLess[string, int])
	for k, v := range src {
		bt.ReplaceOrInsert(Entry[string, int]{k, v})
	}
	assert.Equal(t, want, FromBTree(bt).Entries())
}

func TestGetInsertRemove(t *testing.T) {
	m := New[string, int]()
	m.Insert("b", 2)
	m.Insert("a", 1)
	m.Insert("b", 20)

	v, ok := m.Get("b")
	require.True(t, ok)
	require.Equal(t, 20, v)
	require.Equal(t, 2, m.Len())
	require.False(t, m.Contains("z"))

	*m.GetPtr("a") = 10
	require.Equal(t, []string{"a", "b"}, slices.Collect(m.Keys()))
	require.Equal(t, []int{10, 20}, slices.Collect(m.Values()))
	require.Nil(t, m.GetPtr("z"))

	v, ok = m.Remove("a")
	require.True(t, ok)
	require.Equal(t, 10, v)
	_, ok = m.Remove("a")
	require.False(t, ok)
	require.Equal(t, map[string]int{"b": 20}, maps.Collect(m.All()))
}

func TestMergeAndCombine(t *testing.T) {
	tests := []struct {
		name      string
		a, b      map[int]int
		wantMerge map[int]int
		wantSum   map[int]int
	}{
		{
			name:      "overlap",
			a:         map[int]int{1: 1, 2: 2},
			b:         map[int]int{2: 20, 3: 30},
			wantMerge: map[int]int{1: 1, 2: 20, 3: 30},
			wantSum:   map[int]int{1: 1, 2: 22, 3: 30},
		},
		{
			name:      "empty left",
			a:         map[int]int{},
			b:         map[int]int{5: 5},
			wantMerge: map[int]int{5: 5},
			wantSum:   map[int]int{5: 5},
		},
		{
			name:      "empty right",
			a:         map[int]int{5: 5},
			b:         map[int]int{},
			wantMerge: map[int]int{5: 5},
			wantSum:   map[int]int{5: 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FromMap(tt.a)
			m.MergeWith(FromMap(tt.b))
			assert.Equal(t, tt.wantMerge, maps.Collect(m.All()))

			c := FromMap(tt.a)
			c.CombineWith(FromMap(tt.b), func(x, y int) int { return x + y })
			assert.Equal(t, tt.wantSum, maps.Collect(c.All()))
		})
	}
}

func TestRetainMapValues(t *testing.T) {
	m := FromMap(map[int]int{1: 1, 2: 2, 3: 3, 4: 4})
	m.Retain(func(k, _ int) bool { return k%2 == 0 })
	m.MapValues(func(v int) int { return v * 10 })
	assert.Equal(t, map[int]int{2: 20, 4: 40}, maps.Collect(m.All()))

	s := MapInto(m, func(v int) string { return string(rune('a' + v/10)) })
	assert.Equal(t, map[int]string{2: "c", 4: "e"}, maps.Collect(s.All()))
}

func TestOuterJoinScenario(t *testing.T) {
	a := FromMap(map[int]int{1: 1, 2: 3})
	b := FromMap(map[int]int{1: 2, 3: 4})
	got := OuterJoin(a, b, func(arg EitherOrBoth[int, int]) (int, bool) {
		switch arg.Side {
		case LeftOnly:
			return arg.Left, true
		default:
			return arg.Right, true
		}
	})
	assert.Equal(t, []Entry[int, int]{{1, 2}, {2, 3}, {3, 4}}, got.Entries())
}

// reference joins built on the btree, which stands in for a standard ordered
// map.
func refJoin(a, b map[int]int, left, right bool, f func(x, y *int) (int, bool)) map[int]int {
	keys := btree.NewOrderedG[int](4)
	for k := range a {
		keys.ReplaceOrInsert(k)
	}
	for k := range b {
		keys.ReplaceOrInsert(k)
	}
	out := map[int]int{}
	keys.Ascend(func(k int) bool {
		x, inA := a[k]
		y, inB := b[k]
		var px, py *int
		if inA {
			px = &x
		}
		if inB {
			py = &y
		}
		if (inA && inB) || (inA && left) || (inB && right) {
			if r, ok := f(px, py); ok {
				out[k] = r
			}
		}
		return true
	})
	return out
}

func TestJoinsAgainstReference(t *testing.T) {
	r := rand.New(rand.NewPCG(80, 81))
	// values below 10 are filtered out to exercise omission
	f := func(x, y *int) (int, bool) {
		v := 0
		if x != nil {
			v += *x
		}
		if y != nil {
			v += 1000 * *y
		}
		return v, v >= 10
	}
	for i := 0; i < 200; i++ {
		am, bm := randomMap(r, 30), randomMap(r, 30)
		a, b := FromMap(am), FromMap(bm)

		got := maps.Collect(OuterJoin(a, b, func(arg EitherOrBoth[int, int]) (int, bool) {
			switch arg.Side {
			case LeftOnly:
				return f(&arg.Left, nil)
			case RightOnly:
				return f(nil, &arg.Right)
			default:
				return f(&arg.Left, &arg.Right)
			}
		}).All())
		if diff := cmp.Diff(refJoin(am, bm, true, true, f), got); diff != "" {
			t.Fatalf("outer join mismatch (-want +got):\n%s", diff)
		}

		got = maps.Collect(InnerJoin(a, b, func(x, y int) (int, bool) { return f(&x, &y) }).All())
		if diff := cmp.Diff(refJoin(am, bm, false, false, f), got); diff != "" {
			t.Fatalf("inner join mismatch (-want +got):\n%s", diff)
		}

		got = maps.Collect(LeftJoin(a, b, func(x int, y *int) (int, bool) { return f(&x, y) }).All())
		if diff := cmp.Diff(refJoin(am, bm, true, false, f), got); diff != "" {
			t.Fatalf("left join mismatch (-want +got):\n%s", diff)
		}

		got = maps.Collect(RightJoin(a, b, func(x *int, y int) (int, bool) { return f(x, &y) }).All())
		if diff := cmp.Diff(refJoin(am, bm, false, true, f), got); diff != "" {
			t.Fatalf("right join mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestMergeWithAgainstMap(t *testing.T) {
	r := rand.New(rand.NewPCG(90, 91))
	for i := 0; i < 200; i++ {
		am, bm := randomMap(r, 40), randomMap(r, 40)
		want := maps.Clone(am)
		maps.Copy(want, bm)

		m := FromMap(am)
		m.MergeWith(FromMap(bm))
		require.Equal(t, want, maps.Collect(m.All()))
		require.True(t, slices.IsSortedFunc(m.Entries(), byKey[int, int, int]))
	}
}
