package vecmap

import (
	"cmp"

	"golang.org/x/exp/constraints"
)

// TotalVecMap is a function from every K to V: a default value plus the
// entries that differ from it. No stored entry equals the default.
type TotalVecMap[K cmp.Ordered, V comparable] struct {
	m   *VecMap[K, V]
	def V
}

// Constant maps every key to v.
func Constant[K cmp.Ordered, V comparable](v V) *TotalVecMap[K, V] {
	return &TotalVecMap[K, V]{m: New[K, V](), def: v}
}

// FromVecMap wraps m with default def, dropping entries equal to def. m is
// retained.
func FromVecMap[K cmp.Ordered, V comparable](m *VecMap[K, V], def V) *TotalVecMap[K, V] {
	if m == nil {
		m = New[K, V]()
	}
	m.Retain(func(_ K, v V) bool { return v != def })
	return &TotalVecMap[K, V]{m: m, def: def}
}

// Get returns the value for k, which is the default when k is not stored.
func (t *TotalVecMap[K, V]) Get(k K) V {
	if v, ok := t.m.Get(k); ok {
		return v
	}
	return t.def
}

func (t *TotalVecMap[K, V]) Default() V {
	return t.def
}

// Delta returns the entries that differ from the default.
func (t *TotalVecMap[K, V]) Delta() *VecMap[K, V] {
	return t.m
}

func (t *TotalVecMap[K, V]) Equal(other *TotalVecMap[K, V]) bool {
	if t.def != other.def || t.m.Len() != other.m.Len() {
		return false
	}
	for i, e := range t.m.Entries() {
		o := other.m.entries[i]
		if e.Key != o.Key || e.Value != o.Value {
			return false
		}
	}
	return true
}

// CombineRef returns the map k -> f(a[k], b[k]). Its default is
// f(a.Default(), b.Default()) and entries equal to it are omitted.
func CombineRef[K cmp.Ordered, V comparable](a, b *TotalVecMap[K, V], f func(x, y V) V) *TotalVecMap[K, V] {
	return combineTotal(a, b, f, true)
}

// FastCombine is CombineRef for an f the caller knows never maps a key
// with a non-default input to the new default, so no entry is compared
// against it.
func FastCombine[K cmp.Ordered, V comparable](a, b *TotalVecMap[K, V], f func(x, y V) V) *TotalVecMap[K, V] {
	return combineTotal(a, b, f, false)
}

func combineTotal[K cmp.Ordered, V comparable](a, b *TotalVecMap[K, V], f func(x, y V) V, check bool) *TotalVecMap[K, V] {
	def := f(a.def, b.def)
	m := OuterJoin(a.m, b.m, func(arg EitherOrBoth[V, V]) (V, bool) {
		var r V
		switch arg.Side {
		case LeftOnly:
			r = f(arg.Left, b.def)
		case RightOnly:
			r = f(a.def, arg.Right)
		default:
			r = f(arg.Left, arg.Right)
		}
		return r, !check || r != def
	})
	return &TotalVecMap[K, V]{m: m, def: def}
}

// MapValues returns the map k -> f(t[k]).
func (t *TotalVecMap[K, V]) MapValues(f func(V) V) *TotalVecMap[K, V] {
	def := f(t.def)
	m := t.m.Clone()
	m.MapValues(f)
	m.Retain(func(_ K, v V) bool { return v != def })
	return &TotalVecMap[K, V]{m: m, def: def}
}

// Number is the value type of the arithmetic helpers.
type Number interface {
	constraints.Integer | constraints.Float
}

func Add[K cmp.Ordered, V Number](a, b *TotalVecMap[K, V]) *TotalVecMap[K, V] {
	return CombineRef(a, b, func(x, y V) V { return x + y })
}

func Mul[K cmp.Ordered, V Number](a, b *TotalVecMap[K, V]) *TotalVecMap[K, V] {
	return CombineRef(a, b, func(x, y V) V { return x * y })
}

func Neg[K cmp.Ordered, V Number](a *TotalVecMap[K, V]) *TotalVecMap[K, V] {
	return a.MapValues(func(x V) V { return -x })
}
