package radixtree

import (
	"cmp"
)

// Writer appends trees to an image. Children arrays are written before the
// records that refer to them, so every offset in an image points backward.
// An array reachable from several nodes, or from several written trees, is
// written once.
type Writer[K cmp.Ordered, V any] struct {
	keys   KeyCodec[K]
	values ValueCodec[V]

	buf    []byte
	memo   map[any]uint32
	arrays uint32
}

func NewWriter[K cmp.Ordered, V any](keys KeyCodec[K], values ValueCodec[V]) *Writer[K, V] {
	w := &Writer[K, V]{
		keys:   keys,
		values: values,
		buf:    make([]byte, HeaderBytes, 4096),
		memo:   map[any]uint32{},
	}
	copy(w.buf[0:4], ImageMagic)
	w.buf[4] = ImageVersion
	w.buf[5] = byte(keys.Width())
	return w
}

// Write appends t and returns the offset of its root record. The arrays of t
// stay memoized, so t gets a fresh ownership token and copies an array
// before its next write to it.
func (w *Writer[K, V]) Write(t Reader[K, V]) (uint32, error) {
	b := t.tree()
	b.tok = newToken()
	root := &b.root
	off, count, err := w.writeArray(root)
	if err != nil {
		return 0, err
	}
	rec, err := w.writeBlobs(root, off, count)
	if err != nil {
		return 0, err
	}
	at := len(w.buf)
	if err := w.fits(at + NodeRecordBytes); err != nil {
		return 0, err
	}
	w.buf = appendRecord(w.buf, rec)
	return uint32(at), nil
}

// Finish appends the trailer naming root as the image root and returns
// the image. The writer must not be used afterwards.
func (w *Writer[K, V]) Finish(root uint32) []byte {
	var tr [TrailerBytes]byte
	writeU32BE(tr[0:4], root)
	writeU32BE(tr[4:8], w.arrays)
	copy(tr[12:16], TrailerMagic)
	img := append(w.buf, tr[:]...)
	w.buf = nil
	w.memo = nil
	return img
}

// Serialize writes t as a complete image.
func Serialize[K cmp.Ordered, V any](t Reader[K, V], keys KeyCodec[K], values ValueCodec[V]) ([]byte, error) {
	w := NewWriter(keys, values)
	root, err := w.Write(t)
	if err != nil {
		return nil, err
	}
	return w.Finish(root), nil
}

// writeArray writes the children of n, postorder, and returns the offset and
// length of the array.
func (w *Writer[K, V]) writeArray(n *node[K, V]) (uint32, uint32, error) {
	id := n.array()
	if id == nil {
		return 0, 0, nil
	}
	kids := n.children()
	if off, ok := w.memo[id]; ok {
		return off, uint32(len(kids)), nil
	}
	recs := make([]record, len(kids))
	for i := range kids {
		off, count, err := w.writeArray(&kids[i])
		if err != nil {
			return 0, 0, err
		}
		if recs[i], err = w.writeBlobs(&kids[i], off, count); err != nil {
			return 0, 0, err
		}
	}
	at := len(w.buf)
	if err := w.fits(at + len(recs)*NodeRecordBytes); err != nil {
		return 0, 0, err
	}
	for _, r := range recs {
		w.buf = appendRecord(w.buf, r)
	}
	w.memo[id] = uint32(at)
	w.arrays++
	return uint32(at), uint32(len(kids)), nil
}

// writeBlobs writes the prefix and value of n and returns its record.
func (w *Writer[K, V]) writeBlobs(n *node[K, V], childrenOff, childCount uint32) (record, error) {
	rec := record{
		prefixLen:   uint32(len(n.prefix)),
		childrenOff: childrenOff,
		childCount:  childCount,
	}
	if len(n.prefix) > 0 {
		rec.prefixOff = uint32(len(w.buf))
		w.buf = w.keys.AppendKey(w.buf, n.prefix)
		w.pad()
	}
	if n.hasValue {
		rec.flags |= flagHasValue
		at := len(w.buf)
		buf, err := w.values.AppendValue(w.buf, n.value)
		if err != nil {
			return record{}, err
		}
		w.buf = buf
		if len(w.buf) > at {
			rec.valueOff = uint32(at)
			rec.valueLen = uint32(len(w.buf) - at)
		}
		w.pad()
	}
	return rec, w.fits(len(w.buf))
}

func (w *Writer[K, V]) pad() {
	for range padding(len(w.buf)) {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer[K, V]) fits(end int) error {
	if uint64(end)+TrailerBytes > 1<<32-1 {
		return ErrImageTooLarge
	}
	return nil
}
