package merge

/*

# Minimum comparison binary merge

Merge drives two sorted inputs through an Op. Rather than a two finger
linear merge it splits on the middle element of the (remaining) A window and
binary searches that element in the (remaining) B window:

	merge(an, bn):
	  an == 0      -> FromB(bn)
	  bn == 0      -> FromA(an)
	  am = an / 2, search A[am] in B[:bn]
	    found bm   -> merge(am, bm); Collision; merge(an-am-1, bn-bm-1)
	    missing bi -> merge(am, bi); FromA(1);  merge(an-am-1, bn-bi)

When one input is much smaller than the other this costs
O(min(|A|,|B|) * log(max/min)) comparisons, and for inputs of similar size it
is no worse than linear.

The kernel never looks at the output. Everything it knows about the inputs
comes from a State (the unconsumed windows and how to consume them) and
everything it does is a callback on an Op. Callbacks arrive in ascending key
order. Any callback may return false to stop the merge; Merge then unwinds
without making further callbacks and returns false.

## States

- BoolState answers a yes/no question and stops at the first element that
  would have been kept (IsDisjoint, IsSubset).
- VecState copies the kept runs into a new slice.
- InPlaceState rewrites A's backing array through a vecbuilder.Builder and
  converts kept B elements with a converter. Operations that need to combine
  colliding elements themselves use PopA, PeekB and Push.

## Operations

SetOp is the operation as a value: a comparator plus what to keep from A-only
runs, B-only runs and collisions. Union, Intersection, Difference and
SymmetricDifference build the four classic ones.

*/
