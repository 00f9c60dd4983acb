package vecbuilder

/*

# In-place vec builder

Builder rewrites a slice in place while it is being consumed. One backing
array is partitioned into three contiguous regions:

	[ target: 0..t1 )   [ gap: t1..s0 )   [ source: s0..len )

- target holds produced elements
- gap holds zero values and is never read or released
- source holds elements still waiting to be consumed

0 <= t1 <= s0 <= len <= cap holds before and after every operation.

Take moves elements from the head of the source to the tail of the target
with a single copy; Skip discards them. Push writes a new element at t1, and
when the gap is empty it first opens a gap of max(1, hint) slots by shifting
the source to the end of the (possibly reallocated) array. Callers pass the
worst case number of pending pushes as the hint, so a merge reallocates at
most once.

## Release

Go has no destructors. Elements that own something that must be given back
(a reference count, a pooled buffer, a file) can be tracked with
WithRelease. The builder then calls the release function exactly once for
every element it discards:

- Skip releases the skipped source elements
- IntoSlice releases the source elements that were never consumed
- Close releases everything that is still live (target and source)

Elements handed back to the caller (PopFront, IntoSlice) are never released
by the builder. The indices are advanced before each release call, so if a
release function panics the builder stops and the remaining elements leak
rather than being released twice. The usual pattern is

	b := vecbuilder.New(items, vecbuilder.WithRelease(release))
	defer b.Close()
	...
	items = b.IntoSlice()

Close after IntoSlice is a no-op.

*/
