package radixtree

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	ImageMagic   = "RDX1"
	TrailerMagic = "RDXE"
	ImageVersion = 1

	HeaderBytes     = 16
	TrailerBytes    = 16
	NodeRecordBytes = 32

	// Alignment of every blob, record and array in an image.
	Alignment = 8

	flagHasValue = 1
)

var (
	ErrImageTooSmall = errors.New("radixtree: image too small")
	ErrImageTooLarge = errors.New("radixtree: image exceeds 4GiB")
	ErrBadMagic      = errors.New("radixtree: image magic invalid")
	ErrBadVersion    = errors.New("radixtree: image version unsupported")
	ErrKeyWidth      = errors.New("radixtree: image key width does not match the key codec")
	ErrBadTrailer    = errors.New("radixtree: image trailer invalid")
	ErrBadRoot       = errors.New("radixtree: root record offset invalid")

	ErrInvalidPrefix = errors.New("radixtree: invalid prefix block")
	ErrInvalidValue  = errors.New("radixtree: invalid value block")
	ErrInvalidChild  = errors.New("radixtree: invalid child")
	ErrChildOrder    = errors.New("radixtree: children out of order")
)

// ValidationError reports the node record that failed validation.
type ValidationError struct {
	Offset uint32
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("radixtree: node at %d: %v", e.Offset, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ChildError reports a failure inside the subtree of a node's child.
type ChildError struct {
	Index  int
	Offset uint32
	Err    error
}

func (e *ChildError) Error() string {
	return fmt.Sprintf("child %d at %d: %v", e.Index, e.Offset, e.Err)
}

func (e *ChildError) Unwrap() error { return e.Err }

// record is a node record:
//
//	[0:4]   prefix blob offset
//	[4:8]   prefix length in key elements
//	[8:12]  value blob offset
//	[12:16] value length in bytes
//	[16:20] children array offset
//	[20:24] child count
//	[24]    flags, bit 0 set when the node has a value
//	[25:32] reserved, zero
//
// A children array is childCount consecutive records. Offsets of empty
// blobs and arrays are zero.
type record struct {
	prefixOff   uint32
	prefixLen   uint32
	valueOff    uint32
	valueLen    uint32
	childrenOff uint32
	childCount  uint32
	flags       uint8
}

func readRecord(img []byte, off uint32) record {
	b := img[off : off+NodeRecordBytes]
	return record{
		prefixOff:   readU32BE(b[0:4]),
		prefixLen:   readU32BE(b[4:8]),
		valueOff:    readU32BE(b[8:12]),
		valueLen:    readU32BE(b[12:16]),
		childrenOff: readU32BE(b[16:20]),
		childCount:  readU32BE(b[20:24]),
		flags:       b[24],
	}
}

func appendRecord(dst []byte, r record) []byte {
	var b [NodeRecordBytes]byte
	writeU32BE(b[0:4], r.prefixOff)
	writeU32BE(b[4:8], r.prefixLen)
	writeU32BE(b[8:12], r.valueOff)
	writeU32BE(b[12:16], r.valueLen)
	writeU32BE(b[16:20], r.childrenOff)
	writeU32BE(b[20:24], r.childCount)
	b[24] = r.flags
	return append(dst, b[:]...)
}

// Info is read from an image's header and trailer.
type Info struct {
	Version  uint8
	KeyWidth int
	Root     uint32
	// Arrays is the number of distinct children arrays written.
	Arrays uint32
}

// Inspect checks the header and trailer of img.
func Inspect(img []byte) (Info, error) {
	if len(img) < HeaderBytes+NodeRecordBytes+TrailerBytes {
		return Info{}, ErrImageTooSmall
	}
	if uint64(len(img)) > 1<<32-1 {
		return Info{}, ErrImageTooLarge
	}
	if string(img[0:4]) != ImageMagic {
		return Info{}, ErrBadMagic
	}
	if img[4] != ImageVersion {
		return Info{}, ErrBadVersion
	}
	tr := img[len(img)-TrailerBytes:]
	if string(tr[12:16]) != TrailerMagic {
		return Info{}, ErrBadTrailer
	}
	info := Info{
		Version:  img[4],
		KeyWidth: int(img[5]),
		Root:     readU32BE(tr[0:4]),
		Arrays:   readU32BE(tr[4:8]),
	}
	if info.KeyWidth == 0 {
		return Info{}, ErrKeyWidth
	}
	return info, nil
}

func checkRoot(img []byte, root uint32) error {
	if root < HeaderBytes || root%Alignment != 0 ||
		uint64(root)+NodeRecordBytes > uint64(len(img)-TrailerBytes) {
		return fmt.Errorf("%w: %d", ErrBadRoot, root)
	}
	return nil
}

func padding(n int) int {
	return (Alignment - n%Alignment) % Alignment
}

func readU32BE(b []byte) uint32 { return binary.BigEndian.Uint32(b) }

func writeU32BE(dst []byte, v uint32) { binary.BigEndian.PutUint32(dst, v) }
