package radixtree

import (
	"encoding/binary"
	"errors"

	"github.com/fxamacker/cbor/v2"
)

// KeyCodec stores key elements at a fixed width.
type KeyCodec[K any] interface {
	// Width is the encoded size of one element in bytes.
	Width() int
	AppendKey(dst []byte, key []K) []byte
	// DecodeKey decodes len(src)/Width() elements.
	DecodeKey(src []byte) []K
}

// ValueCodec stores values as variable length blobs.
type ValueCodec[V any] interface {
	AppendValue(dst []byte, v V) ([]byte, error)
	DecodeValue(src []byte) (V, error)
}

var ErrValueSize = errors.New("radixtree: value blob has the wrong size")

type byteKeys struct{}

// ByteKeys stores byte keys as they are. Decoded keys alias the image.
var ByteKeys KeyCodec[byte] = byteKeys{}

func (byteKeys) Width() int { return 1 }
func (byteKeys) AppendKey(dst []byte, key []byte) []byte { return append(dst, key...) }
func (byteKeys) DecodeKey(src []byte) []byte { return src[:len(src):len(src)] }

type uint16Keys struct{}

var Uint16Keys KeyCodec[uint16] = uint16Keys{}

func (uint16Keys) Width() int { return 2 }

func (uint16Keys) AppendKey(dst []byte, key []uint16) []byte {
	for _, k := range key {
		dst = binary.BigEndian.AppendUint16(dst, k)
	}
	return dst
}

func (uint16Keys) DecodeKey(src []byte) []uint16 {
	out := make([]uint16, len(src)/2)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(src[2*i:])
	}
	return out
}

type uint32Keys struct{}

var Uint32Keys KeyCodec[uint32] = uint32Keys{}

func (uint32Keys) Width() int { return 4 }

func (uint32Keys) AppendKey(dst []byte, key []uint32) []byte {
	for _, k := range key {
		dst = binary.BigEndian.AppendUint32(dst, k)
	}
	return dst
}

func (uint32Keys) DecodeKey(src []byte) []uint32 {
	out := make([]uint32, len(src)/4)
	for i := range out {
		out[i] = binary.BigEndian.Uint32(src[4*i:])
	}
	return out
}

type uint64Keys struct{}

var Uint64Keys KeyCodec[uint64] = uint64Keys{}

func (uint64Keys) Width() int { return 8 }

func (uint64Keys) AppendKey(dst []byte, key []uint64) []byte {
	for _, k := range key {
		dst = binary.BigEndian.AppendUint64(dst, k)
	}
	return dst
}

func (uint64Keys) DecodeKey(src []byte) []uint64 {
	out := make([]uint64, len(src)/8)
	for i := range out {
		out[i] = binary.BigEndian.Uint64(src[8*i:])
	}
	return out
}

type unitValues struct{}

// UnitValues stores struct{} values, for trees used as sets.
var UnitValues ValueCodec[struct{}] = unitValues{}

func (unitValues) AppendValue(dst []byte, _ struct{}) ([]byte, error) { return dst, nil }

func (unitValues) DecodeValue(src []byte) (struct{}, error) {
	if len(src) != 0 {
		return struct{}{}, ErrValueSize
	}
	return struct{}{}, nil
}

type bytesValues struct{}

// BytesValues stores []byte values. Decoded values alias the image.
var BytesValues ValueCodec[[]byte] = bytesValues{}

func (bytesValues) AppendValue(dst []byte, v []byte) ([]byte, error) { return append(dst, v...), nil }
func (bytesValues) DecodeValue(src []byte) ([]byte, error) { return src[:len(src):len(src)], nil }

type uint64Values struct{}

var Uint64Values ValueCodec[uint64] = uint64Values{}

func (uint64Values) AppendValue(dst []byte, v uint64) ([]byte, error) {
	return binary.BigEndian.AppendUint64(dst, v), nil
}

func (uint64Values) DecodeValue(src []byte) (uint64, error) {
	if len(src) != 8 {
		return 0, ErrValueSize
	}
	return binary.BigEndian.Uint64(src), nil
}

// CBORValues stores any value as deterministic CBOR.
type CBORValues[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func NewCBORValues[V any]() (*CBORValues[V], error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}
	return &CBORValues[V]{enc: enc, dec: dec}, nil
}

func (c *CBORValues[V]) AppendValue(dst []byte, v V) ([]byte, error) {
	b, err := c.enc.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(dst, b...), nil
}

func (c *CBORValues[V]) DecodeValue(src []byte) (V, error) {
	var v V
	if err := c.dec.Unmarshal(src, &v); err != nil {
		return v, err
	}
	return v, nil
}
