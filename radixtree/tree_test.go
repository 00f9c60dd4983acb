package radixtree

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unit = struct{}

func keysOf[V any](t Reader[byte, V]) []string {
	var keys []string
	for k := range t.All() {
		keys = append(keys, string(k))
	}
	return keys
}

func TestScenarioByteKeys(t *testing.T) {
	tree := New[byte, unit]()
	for _, k := range []string{"aabbcc", "aabb", "aabbee"} {
		tree.Insert([]byte(k), unit{})
	}
	require.NoError(t, tree.Check())
	assert.Equal(t, 3, tree.Len())

	var scanned []string
	for k := range tree.ScanPrefix([]byte("aa")) {
		scanned = append(scanned, string(k))
	}
	assert.Equal(t, []string{"aabb", "aabbcc", "aabbee"}, scanned)

	assert.False(t, tree.ContainsKey([]byte("aabbx")))
	assert.False(t, tree.ContainsKey([]byte("aab")))
	assert.True(t, tree.ContainsKey([]byte("aabbee")))

	single := Single[byte, unit]([]byte("aabb"), unit{})
	assert.True(t, single.IsSubset(tree))
	assert.False(t, tree.IsSubset(single))

	diff := tree.Clone()
	diff.DifferenceWith(single)
	require.NoError(t, diff.Check())
	assert.False(t, diff.ContainsKey([]byte("aabb")))
	assert.Equal(t, []string{"aabbcc", "aabbee"}, keysOf[unit](diff))
	assert.Equal(t, 3, tree.Len(), "clone is independent")
}

func TestScanPrefix(t *testing.T) {
	tree := New[byte, int]()
	for i, k := range []string{"abc", "abd", "ab", "b", "abcd", "x"} {
		tree.Insert([]byte(k), i)
	}
	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{"ab", "abc", "abcd", "abd", "b", "x"}},
		{"a", []string{"ab", "abc", "abcd", "abd"}},
		{"abc", []string{"abc", "abcd"}},
		{"abcd", []string{"abcd"}},
		{"abcde", nil},
		{"ac", nil},
		{"y", nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("prefix %q", tt.prefix), func(t *testing.T) {
			seq := tree.ScanPrefix([]byte(tt.prefix))
			// a sequence can be ranged over more than once
			for range 2 {
				var got []string
				for k := range seq {
					got = append(got, string(k))
				}
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestScanPrefixRepeatsBelowRoot(t *testing.T) {
	tree := New[byte, int]()
	for i, k := range []string{"aabbcc", "aabb", "aabbee", "zz"} {
		tree.Insert([]byte(k), i)
	}
	seq := tree.ScanPrefix([]byte("aabbc"))
	for range 3 {
		var got []string
		for k, v := range seq {
			got = append(got, string(k))
			assert.Equal(t, 0, v)
		}
		assert.Equal(t, []string{"aabbcc"}, got)
	}
}

func TestInsertRemoveGet(t *testing.T) {
	tree := New[byte, int]()
	tree.Insert([]byte("key"), 1)
	tree.Insert([]byte("key"), 2)
	tree.Insert(nil, 7)
	v, ok := tree.Get([]byte("key"))
	require.True(t, ok)
	assert.Equal(t, 2, v)
	v, ok = tree.Get(nil)
	require.True(t, ok)
	assert.Equal(t, 7, v)

	assert.True(t, tree.Remove([]byte("key")))
	assert.False(t, tree.Remove([]byte("key")))
	assert.True(t, tree.Remove(nil))
	assert.True(t, tree.IsEmpty())
	require.NoError(t, tree.Check())
}

func TestCheckReportsBrokenTrees(t *testing.T) {
	leaf := func(k string) node[byte, int] {
		return node[byte, int]{prefix: []byte(k), value: 1, hasValue: true}
	}
	tests := []struct {
		name string
		root node[byte, int]
		want error
	}{
		{"single child", node[byte, int]{kids: &children[byte, int]{nodes: []node[byte, int]{leaf("a")}}}, ErrNotMinimal},
		{"unordered", node[byte, int]{kids: &children[byte, int]{nodes: []node[byte, int]{leaf("b"), leaf("a")}}}, ErrUnorderedChildren},
		{"duplicate first key", node[byte, int]{kids: &children[byte, int]{nodes: []node[byte, int]{leaf("ab"), leaf("ac")}}}, ErrUnorderedChildren},
		{"empty child prefix", node[byte, int]{kids: &children[byte, int]{nodes: []node[byte, int]{leaf(""), leaf("a")}}}, ErrEmptyChildPrefix},
		{"empty child", node[byte, int]{kids: &children[byte, int]{nodes: []node[byte, int]{{prefix: []byte("a")}, leaf("b")}}}, ErrEmptyChild},
		{"empty root with prefix", node[byte, int]{prefix: []byte("a")}, ErrEmptyRootPrefix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New[byte, int]()
			tree.root = tt.root
			assert.ErrorIs(t, tree.Check(), tt.want)
		})
	}
}

// model is the reference: a Go map from key to value.
type model map[string]uint64

func randomModel(r *rand.Rand, n int) model {
	m := model{}
	for range r.IntN(n) {
		k := make([]byte, r.IntN(6))
		for i := range k {
			k[i] = "abc"[r.IntN(3)]
		}
		m[string(k)] = r.Uint64N(100)
	}
	return m
}

func build(m model) *Tree[byte, uint64] {
	t := New[byte, uint64]()
	for k, v := range m {
		t.Insert([]byte(k), v)
	}
	return t
}

func listing(t Reader[byte, uint64]) model {
	m := model{}
	for k, v := range t.All() {
		m[string(k)] = v
	}
	return m
}

type mutable interface {
	Reader[byte, uint64]
	Insert(key []byte, v uint64)
	Remove(key []byte) bool
	UnionWith(other Reader[byte, uint64])
	IntersectionWith(other Reader[byte, uint64])
	DifferenceWith(other Reader[byte, uint64])
	OuterCombineWith(other Reader[byte, uint64], f func(a, b *uint64) (uint64, bool))
	InnerCombineWith(other Reader[byte, uint64], f func(a, b uint64) (uint64, bool))
	LeftCombineWith(other Reader[byte, uint64], f func(a uint64, b *uint64) (uint64, bool))
}

var flavors = []struct {
	name string
	make func(t *testing.T, m model) mutable
}{
	{"owned", func(t *testing.T, m model) mutable { return build(m) }},
	{"shared", func(t *testing.T, m model) mutable { return build(m).Share() }},
	{"lazy", func(t *testing.T, m model) mutable {
		img, err := Serialize[byte, uint64](build(m), ByteKeys, Uint64Values)
		require.NoError(t, err)
		lt, err := LoadLazy(img, ByteKeys, Uint64Values)
		require.NoError(t, err)
		return lt
	}},
}

func outerF(a, b *uint64) (uint64, bool) {
	var s uint64
	if a != nil {
		s += *a
	}
	if b != nil {
		s += 2 * *b
	}
	return s, s%3 != 0
}

func innerF(a, b uint64) (uint64, bool) {
	return a*2 + b, (a+b)%4 != 0
}

func leftF(a uint64, b *uint64) (uint64, bool) {
	if b == nil {
		return a, a%5 != 0
	}
	return a + *b, true
}

func modelCombine(a, b model, op string) model {
	out := model{}
	switch op {
	case "union":
		maps.Copy(out, a)
		maps.Copy(out, b)
	case "intersection":
		for k, v := range a {
			if _, ok := b[k]; ok {
				out[k] = v
			}
		}
	case "difference":
		for k, v := range a {
			if _, ok := b[k]; !ok {
				out[k] = v
			}
		}
	case "outer":
		keys := maps.Clone(a)
		maps.Copy(keys, b)
		for k := range keys {
			var pa, pb *uint64
			if v, ok := a[k]; ok {
				pa = &v
			}
			if v, ok := b[k]; ok {
				pb = &v
			}
			if v, ok := outerF(pa, pb); ok {
				out[k] = v
			}
		}
	case "inner":
		for k, va := range a {
			if vb, ok := b[k]; ok {
				if v, ok := innerF(va, vb); ok {
					out[k] = v
				}
			}
		}
	case "left":
		for k, va := range a {
			var pb *uint64
			if vb, ok := b[k]; ok {
				pb = &vb
			}
			if v, ok := leftF(va, pb); ok {
				out[k] = v
			}
		}
	}
	return out
}

func applyCombine(a mutable, b Reader[byte, uint64], op string) {
	switch op {
	case "union":
		a.UnionWith(b)
	case "intersection":
		a.IntersectionWith(b)
	case "difference":
		a.DifferenceWith(b)
	case "outer":
		a.OuterCombineWith(b, outerF)
	case "inner":
		a.InnerCombineWith(b, innerF)
	case "left":
		a.LeftCombineWith(b, leftF)
	}
}

var combineOps = []string{"union", "intersection", "difference", "outer", "inner", "left"}

func TestCombineAgainstModel(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for _, fa := range flavors {
		for _, fb := range flavors {
			t.Run(fa.name+"/"+fb.name, func(t *testing.T) {
				for range 60 {
					ma, mb := randomModel(r, 40), randomModel(r, 40)
					for _, op := range combineOps {
						a, b := fa.make(t, ma), fb.make(t, mb)
						applyCombine(a, b, op)
						require.NoError(t, a.Check(), op)
						require.NoError(t, b.Check(), op)
						want := modelCombine(ma, mb, op)
						if diff := cmp.Diff(want, listing(a)); diff != "" {
							t.Fatalf("%s mismatch (-want +got):\n%s", op, diff)
						}
						assert.Equal(t, mb, listing(b), "%s changed its argument", op)
						assert.Equal(t, len(want), a.Len())
					}
				}
			})
		}
	}
}

func TestPredicatesAgainstModel(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for _, f := range flavors {
		t.Run(f.name, func(t *testing.T) {
			for range 300 {
				ma, mb := randomModel(r, 12), randomModel(r, 12)
				if r.IntN(3) == 0 {
					maps.Copy(mb, ma)
				}
				a, b := f.make(t, ma), f.make(t, mb)
				subset, shared := true, false
				for k := range ma {
					if _, ok := mb[k]; ok {
						shared = true
					} else {
						subset = false
					}
				}
				require.Equal(t, subset, a.IsSubset(b), "%v ⊆ %v", ma, mb)
				require.Equal(t, shared, a.Intersects(b), "%v ∩ %v", ma, mb)
				require.Equal(t, shared, b.Intersects(a))
				require.Equal(t, !shared, a.IsDisjoint(b))
				require.True(t, a.IsSubset(a))
			}
		})
	}
}

func TestAscendingIteration(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for _, f := range flavors {
		t.Run(f.name, func(t *testing.T) {
			m := randomModel(r, 200)
			keys := keysOf[uint64](f.make(t, m))
			require.True(t, slices.IsSorted(keys))
			require.Len(t, keys, len(m))
		})
	}
}

func TestCombineWithSelf(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	m := randomModel(r, 50)
	for _, f := range flavors {
		t.Run(f.name, func(t *testing.T) {
			a := f.make(t, m)
			a.UnionWith(a)
			assert.Equal(t, m, listing(a))
			a.IntersectionWith(a)
			assert.Equal(t, m, listing(a))
			a.InnerCombineWith(a, func(x, y uint64) (uint64, bool) { return x + y, true })
			require.NoError(t, a.Check())
			for k, v := range listing(a) {
				assert.Equal(t, 2*m[k], v)
			}
			a.DifferenceWith(a)
			assert.True(t, a.IsEmpty())
		})
	}
}

func TestSnapshotIsolation(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 10))
	base := randomModel(r, 100)
	for _, f := range flavors[1:] {
		t.Run(f.name, func(t *testing.T) {
			tree := f.make(t, base)
			var snap mutable
			switch x := tree.(type) {
			case *SharedTree[byte, uint64]:
				snap = x.Snapshot()
			case *LazyTree[byte, uint64]:
				snap = x.Snapshot()
			}
			tree.Insert([]byte("cccccccc"), 1)
			tree.DifferenceWith(build(randomModel(r, 100)))
			snap.Insert([]byte("bbbbbbbb"), 2)

			want := maps.Clone(base)
			want["bbbbbbbb"] = 2
			assert.Equal(t, want, listing(snap))
			assert.False(t, snap.ContainsKey([]byte("cccccccc")))
			assert.True(t, tree.ContainsKey([]byte("cccccccc")))
			assert.False(t, tree.ContainsKey([]byte("bbbbbbbb")))
			require.NoError(t, tree.Check())
			require.NoError(t, snap.Check())
		})
	}
}

func TestSharedCombineDoesNotAlias(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 12))
	ma, mb, mc, md := randomModel(r, 80), randomModel(r, 80), randomModel(r, 80), randomModel(r, 80)
	a, b := build(ma).Share(), build(mb).Share()
	a.UnionWith(b)
	union := modelCombine(ma, mb, "union")

	// b's arrays are now reachable from a; writing either copies them.
	b.OuterCombineWith(build(mc), outerF)
	assert.Equal(t, union, listing(a))
	assert.Equal(t, modelCombine(mb, mc, "outer"), listing(b))

	a.LeftCombineWith(build(md), leftF)
	assert.Equal(t, modelCombine(union, md, "left"), listing(a))
	assert.Equal(t, modelCombine(mb, mc, "outer"), listing(b))
	require.NoError(t, a.Check())
	require.NoError(t, b.Check())
}

func TestCombineReturningNewTree(t *testing.T) {
	r := rand.New(rand.NewPCG(13, 14))
	ma, mb := randomModel(r, 60), randomModel(r, 60)
	a, b := build(ma), build(mb).Share()

	outer := OuterCombine[byte, uint64](a, b, outerF)
	inner := InnerCombine[byte, uint64](a, b, innerF)
	require.NoError(t, outer.Check())
	require.NoError(t, inner.Check())
	assert.Equal(t, modelCombine(ma, mb, "outer"), listing(outer))
	assert.Equal(t, modelCombine(ma, mb, "inner"), listing(inner))

	outer.Insert([]byte("zz"), 1)
	inner.DifferenceWith(inner.Snapshot())
	assert.Equal(t, ma, listing(a))
	assert.Equal(t, mb, listing(b))
}

func TestFromSeq(t *testing.T) {
	m := map[string]int{"x": 1, "xy": 2, "": 3}
	tree := FromSeq[byte, int](func(yield func([]byte, int) bool) {
		for k, v := range m {
			if !yield([]byte(k), v) {
				return
			}
		}
	})
	got := map[string]int{}
	for k, v := range tree.All() {
		got[string(k)] = v
	}
	assert.Equal(t, m, got)
}

func TestStatsCountsSharedArraysOnce(t *testing.T) {
	r := rand.New(rand.NewPCG(15, 16))
	m := randomModel(r, 100)
	owned := build(m)
	st := TreeStats[byte, uint64](owned)
	assert.Equal(t, len(m), st.Keys)
	assert.GreaterOrEqual(t, st.Nodes, st.Keys)

	shared := owned.Clone().Share()
	snap := shared.Snapshot()
	snap.Insert([]byte("cccccccccc"), 1)
	both := NewShared[byte, uint64]()
	both.UnionWith(shared)
	assert.Equal(t, st.Arrays, TreeStats[byte, uint64](both).Arrays)
}
