package radixtree

import (
	"cmp"
	"fmt"
	"sync"
)

type loadOptions struct {
	root    uint32
	hasRoot bool
}

type LoadOption func(*loadOptions)

// AtRoot loads the tree whose root record is at off instead of the one named
// by the trailer, for images holding several trees.
func AtRoot(off uint32) LoadOption {
	return func(o *loadOptions) {
		o.root = off
		o.hasRoot = true
	}
}

// span identifies a children array in an image.
type span struct {
	off   uint32
	count uint32
}

// image is an archived tree being read.
type image[K cmp.Ordered, V any] struct {
	data   []byte
	keys   KeyCodec[K]
	values ValueCodec[V]

	mu    sync.Mutex
	slots map[span]*lazySlot[K, V]
}

func openImage[K cmp.Ordered, V any](
	data []byte, keys KeyCodec[K], values ValueCodec[V], opts ...LoadOption,
) (*image[K, V], uint32, error) {
	info, err := Inspect(data)
	if err != nil {
		return nil, 0, err
	}
	if info.KeyWidth != keys.Width() {
		return nil, 0, fmt.Errorf("%w: image %d, codec %d", ErrKeyWidth, info.KeyWidth, keys.Width())
	}
	o := loadOptions{root: info.Root}
	for _, opt := range opts {
		opt(&o)
	}
	if err := checkRoot(data, o.root); err != nil {
		return nil, 0, err
	}
	img := &image[K, V]{
		data:   data,
		keys:   keys,
		values: values,
		slots:  map[span]*lazySlot[K, V]{},
	}
	return img, o.root, nil
}

// Load reads an image into a tree that owns all of its arrays. An array
// referenced from several places in the image is copied for each of them.
func Load[K cmp.Ordered, V any](data []byte, keys KeyCodec[K], values ValueCodec[V], opts ...LoadOption) (*Tree[K, V], error) {
	img, root, err := openImage(data, keys, values, opts...)
	if err != nil {
		return nil, err
	}
	if err := img.validate(root); err != nil {
		return nil, err
	}
	t := New[K, V]()
	if t.root, err = img.eager(root, t.tok, nil); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadShared reads an image into a copy-on-write tree. Arrays shared in the
// image stay shared in the tree.
func LoadShared[K cmp.Ordered, V any](data []byte, keys KeyCodec[K], values ValueCodec[V], opts ...LoadOption) (*SharedTree[K, V], error) {
	img, root, err := openImage(data, keys, values, opts...)
	if err != nil {
		return nil, err
	}
	if err := img.validate(root); err != nil {
		return nil, err
	}
	n, err := img.eager(root, nil, map[span]*children[K, V]{})
	if err != nil {
		return nil, err
	}
	return &SharedTree[K, V]{base[K, V]{root: n, tok: newToken(), cow: true}}, nil
}

// LoadLazy validates an image and returns a tree that reads children
// arrays from it on first access.
func LoadLazy[K cmp.Ordered, V any](data []byte, keys KeyCodec[K], values ValueCodec[V], opts ...LoadOption) (*LazyTree[K, V], error) {
	img, root, err := openImage(data, keys, values, opts...)
	if err != nil {
		return nil, err
	}
	if err := img.validate(root); err != nil {
		return nil, err
	}
	return img.lazyTree(root)
}

// LoadLazyUnchecked is LoadLazy without validating the node records. Only
// the header, trailer and root are checked; reading a corrupt image panics.
func LoadLazyUnchecked[K cmp.Ordered, V any](data []byte, keys KeyCodec[K], values ValueCodec[V], opts ...LoadOption) (*LazyTree[K, V], error) {
	img, root, err := openImage(data, keys, values, opts...)
	if err != nil {
		return nil, err
	}
	return img.lazyTree(root)
}

func (img *image[K, V]) lazyTree(root uint32) (*LazyTree[K, V], error) {
	rec := readRecord(img.data, root)
	n, err := img.decode(rec)
	if err != nil {
		return nil, &ValidationError{Offset: root, Err: err}
	}
	if rec.childCount > 0 {
		n.lazy = img.slot(span{rec.childrenOff, rec.childCount})
	}
	return &LazyTree[K, V]{base[K, V]{root: n, tok: newToken(), cow: true}}, nil
}

// decode reads the prefix and value of a record.
func (img *image[K, V]) decode(rec record) (node[K, V], error) {
	var n node[K, V]
	if rec.prefixLen > 0 {
		end := rec.prefixOff + rec.prefixLen*uint32(img.keys.Width())
		n.prefix = img.keys.DecodeKey(img.data[rec.prefixOff:end])
	}
	if rec.flags&flagHasValue != 0 {
		var src []byte
		if rec.valueLen > 0 {
			src = img.data[rec.valueOff : rec.valueOff+rec.valueLen]
		}
		v, err := img.values.DecodeValue(src)
		if err != nil {
			return n, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		n.value, n.hasValue = v, true
	}
	return n, nil
}

// slot returns the one lazy slot for an array, so that sharing in the image
// is kept in the tree.
func (img *image[K, V]) slot(s span) *lazySlot[K, V] {
	img.mu.Lock()
	defer img.mu.Unlock()
	if ls, ok := img.slots[s]; ok {
		return ls
	}
	ls := &lazySlot[K, V]{img: img, off: s.off, count: int(s.count)}
	img.slots[s] = ls
	return ls
}

// materialize decodes the array at off. Its children stay lazy.
func (img *image[K, V]) materialize(off uint32, count int) *children[K, V] {
	nodes := make([]node[K, V], count)
	for i := range nodes {
		at := off + uint32(i)*NodeRecordBytes
		rec := readRecord(img.data, at)
		n, err := img.decode(rec)
		if err != nil {
			panic(&ValidationError{Offset: at, Err: err})
		}
		if rec.childCount > 0 {
			n.lazy = img.slot(span{rec.childrenOff, rec.childCount})
		}
		nodes[i] = n
	}
	return &children[K, V]{nodes: nodes}
}

// eager decodes the whole subtree at off into arrays owned by tok. With a
// memo, an array is decoded once however often it is referenced.
func (img *image[K, V]) eager(off uint32, tok *token, memo map[span]*children[K, V]) (node[K, V], error) {
	rec := readRecord(img.data, off)
	n, err := img.decode(rec)
	if err != nil || rec.childCount == 0 {
		return n, err
	}
	s := span{rec.childrenOff, rec.childCount}
	if c, ok := memo[s]; ok {
		n.kids = c
		return n, nil
	}
	nodes := make([]node[K, V], rec.childCount)
	for i := range nodes {
		if nodes[i], err = img.eager(s.off+uint32(i)*NodeRecordBytes, tok, memo); err != nil {
			return n, err
		}
	}
	n.kids = &children[K, V]{owner: tok, nodes: nodes}
	if memo != nil {
		memo[s] = n.kids
	}
	return n, nil
}

// validate checks every record reachable from root. Each blob and array must
// be aligned and lie wholly before the record referring to it, so no walk
// of a valid image can cycle or read out of bounds.
func (img *image[K, V]) validate(root uint32) error {
	v := validator[K, V]{img: img, done: map[span]bool{}}
	return v.node(root, true)
}

type validator[K cmp.Ordered, V any] struct {
	img  *image[K, V]
	done map[span]bool
}

func (v *validator[K, V]) node(off uint32, root bool) error {
	img := v.img
	rec := readRecord(img.data, off)
	fail := func(err error) error { return &ValidationError{Offset: off, Err: err} }

	hasValue := rec.flags&flagHasValue != 0
	if rec.flags&^flagHasValue != 0 {
		return fail(fmt.Errorf("%w: unknown flags %#x", ErrInvalidValue, rec.flags))
	}
	if rec.prefixLen == 0 && !root {
		return fail(fmt.Errorf("%w: empty prefix", ErrInvalidPrefix))
	}
	if rec.prefixLen > 0 {
		size := uint64(rec.prefixLen) * uint64(img.keys.Width())
		if !before(rec.prefixOff, size, off) {
			return fail(fmt.Errorf("%w: block %d+%d", ErrInvalidPrefix, rec.prefixOff, size))
		}
	}
	if !hasValue && rec.valueLen != 0 {
		return fail(fmt.Errorf("%w: value block without a value", ErrInvalidValue))
	}
	if rec.valueLen == 0 && rec.valueOff != 0 {
		return fail(fmt.Errorf("%w: empty block at %d", ErrInvalidValue, rec.valueOff))
	}
	if rec.valueLen > 0 && !before(rec.valueOff, uint64(rec.valueLen), off) {
		return fail(fmt.Errorf("%w: block %d+%d", ErrInvalidValue, rec.valueOff, rec.valueLen))
	}
	if _, err := img.decode(rec); err != nil {
		return fail(err)
	}

	switch {
	case !hasValue && rec.childCount == 0 && !root:
		return fail(fmt.Errorf("%w: no value and no children", ErrInvalidChild))
	case !hasValue && rec.childCount == 0 && rec.prefixLen > 0:
		return fail(fmt.Errorf("%w: empty tree with a prefix", ErrInvalidPrefix))
	case !hasValue && rec.childCount == 1:
		return fail(fmt.Errorf("%w: no value and a single child", ErrInvalidChild))
	case rec.childCount == 0:
		return nil
	}
	s := span{rec.childrenOff, rec.childCount}
	if !before(s.off, uint64(s.count)*NodeRecordBytes, off) {
		return fail(fmt.Errorf("%w: array %d[%d]", ErrInvalidChild, s.off, s.count))
	}
	if v.done[s] {
		return nil
	}
	var prev K
	for i := range s.count {
		at := s.off + i*NodeRecordBytes
		if err := v.node(at, false); err != nil {
			return fail(&ChildError{Index: int(i), Offset: at, Err: err})
		}
		first := img.firstKey(at)
		if i > 0 && cmp.Compare(prev, first) >= 0 {
			return fail(fmt.Errorf("%w: child %d", ErrChildOrder, i))
		}
		prev = first
	}
	v.done[s] = true
	return nil
}

// firstKey decodes the first prefix element of a validated child record.
func (img *image[K, V]) firstKey(off uint32) K {
	rec := readRecord(img.data, off)
	w := uint32(img.keys.Width())
	return img.keys.DecodeKey(img.data[rec.prefixOff : rec.prefixOff+w])[0]
}

// before reports whether the aligned block [off, off+size) lies between the
// header and limit.
func before(off uint32, size uint64, limit uint32) bool {
	return off >= HeaderBytes && off%Alignment == 0 && uint64(off)+size <= uint64(limit)
}
