// Package entitylist implements small lists of entity references.
//
// It defines a List[T] type which provides functionality similar to a slice,
// but with two important differences:
//
//  1. Memory is allocated from a Pool[T] instead of the Go heap.
//  2. The footprint of a List is 4 bytes, compared with 24 for a slice header.
//
// A List doesn't release its memory on its own; that is left to the owning
// Pool. The pool is intended to be used as a bulk allocator: after building
// up a larger data structure with many list references, the whole thing can
// be discarded in O(1) by clearing the pool.
//
// # Safety
//
// Lists are not as safe to use as a plain slice, but they never corrupt
// memory outside the pool's backing array. These are the problems to be
// aware of:
//
//   - If you lose track of a List, its memory won't be recycled until the
//     pool is cleared. This can cause the pool to grow very large with
//     leaked lists.
//   - If a List is used after its pool is cleared, it may read garbage, and
//     modifying it may corrupt other lists in the pool.
//   - If a List is used with two different pool instances, both pools are
//     likely to become corrupted.
//
// # Implementation
//
// A List is designed to have the smallest possible footprint, since it is
// meant to be embedded in compact IR records. It holds only a 32-bit index
// into the pool's backing slice, pointing at the first element of the list.
//
// The pool is a single slice containing all allocated lists. Each list is
// three contiguous parts:
//
//  1. The number of elements in the list.
//  2. The list elements.
//  3. Excess capacity, kept as small as possible.
//
// The total size of the three parts is always a power of two times four.
// Both growing and shrinking a list may reallocate it within the pool's
// slice.
//
// The index stored in a List points at part 2, the elements. The value 0 is
// reserved for the empty list, which is never allocated in the slice.
package entitylist

import "math/bits"

// Ref is the capability set required of an entity reference stored in a
// Pool: a 32-bit handle that round-trips losslessly through uint32.
// Constraining on the underlying representation (rather than requiring
// explicit FromIndex/Index methods) lets construction and extraction be
// plain conversions, T(u) and uint32(t), with no interface dispatch on the
// hot path.
type Ref interface {
	~uint32
}

// sclass is the size class of a block, an index into Pool.free. Blocks in
// size class c hold sclassSize(c) slots.
type sclass int

// sclassSize returns the size of a given size class. The size includes the
// length field, so the maximum list length in that class is one less than
// the class size.
func sclassSize(c sclass) int {
	return 4 << uint(c)
}

// sclassForLength returns the size class to use for a given list length.
// This always leaves room for the length field in addition to the elements.
func sclassForLength(length int) sclass {
	return sclass(30 - bits.LeadingZeros32(uint32(length)|3))
}

// isSclassMinLength reports whether length is the smallest length assigned
// to its size class, i.e. it is a power of two greater than 3.
func isSclassMinLength(length int) bool {
	return length > 3 && length&(length-1) == 0
}
