package radixtree

/*

# Radix trees over sorted child arrays

A tree maps keys ([]K) to values. Every node holds a prefix, an optional
value and a children array sorted by the first element of each child's
prefix. Trees are kept minimal: no child has an empty prefix, and no node
without a value has exactly one child. The empty tree is a root with no
prefix, no value and no children.

All set and map style operations are one recursive combine. Two nodes are
compared by their common prefix:

	a == b          resolve the values, merge the children arrays
	a is above b    merge [b'] into a's children
	b is above a    split a, then as a == b
	neither         new node on the common prefix, children [a', b']

after which the node is unsplit to restore minimality. Children arrays are
merged with the binary merge kernel (package merge), rewriting the receiving
tree's array in place.

## Flavors

- Tree owns its arrays. Combining copies whatever it takes from the other
  tree.
- SharedTree shares arrays copy-on-write. Each array carries the token of
  the tree allowed to write it in place; every other tree copies the array
  (only that one) before writing. Snapshot is O(1).
- LazyTree reads arrays from an archived image the first time they are
  touched. Materialization is guarded per array and published atomically so
  concurrent readers are safe.

## Images

An image is laid out big-endian, everything aligned to 8 bytes:

	+----------------------+  16B header: "RDX1", version, key width
	| header               |
	+----------------------+
	| prefix/value blobs,  |  children arrays are consecutive 32B records
	| node records and     |  written postorder: every offset refers
	| children arrays      |  backward
	+----------------------+
	| root record          |
	+----------------------+  16B trailer: root offset, array count, "RDXE"
	| trailer              |
	+----------------------+

A Writer emits each distinct children array once, so trees sharing arrays
(snapshots) written to one image share them in the image too. Loading
validates every reachable record before any of it is returned, unless the
caller opts out with LoadLazyUnchecked.

*/
