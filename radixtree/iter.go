package radixtree

import (
	"cmp"
	"iter"
	"slices"
)

// walk yields the keys below n in ascending order. key holds the path to n
// excluding n's own prefix.
func (n *node[K, V]) walk(key []K, yield func([]K, V) bool) bool {
	key = append(key, n.prefix...)
	if n.hasValue && !yield(slices.Clone(key), n.value) {
		return false
	}
	kids := n.children()
	for i := range kids {
		if !kids[i].walk(key, yield) {
			return false
		}
	}
	return true
}

func (n *node[K, V]) count() int {
	c := 0
	if n.hasValue {
		c++
	}
	kids := n.children()
	for i := range kids {
		c += kids[i].count()
	}
	return c
}

// lookup returns the node whose path is exactly key.
func (n *node[K, V]) lookup(key []K) *node[K, V] {
	for {
		if len(key) < len(n.prefix) || !slices.Equal(n.prefix, key[:len(n.prefix)]) {
			return nil
		}
		key = key[len(n.prefix):]
		if len(key) == 0 {
			return n
		}
		n = findChild(n.children(), key[0])
		if n == nil {
			return nil
		}
	}
}

// scan yields every key starting with prefix.
func scan[K cmp.Ordered, V any](n *node[K, V], prefix []K) iter.Seq2[[]K, V] {
	return func(yield func([]K, V) bool) {
		n, prefix := n, prefix
		var path []K
		for {
			m := commonPrefix(n.prefix, prefix)
			if m == len(prefix) {
				// n's path extends prefix
				n.walk(path, yield)
				return
			}
			if m < len(n.prefix) {
				return
			}
			path = append(path, n.prefix...)
			prefix = prefix[m:]
			n = findChild(n.children(), prefix[0])
			if n == nil {
				return
			}
		}
	}
}
