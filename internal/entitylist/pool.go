package entitylist

import orizonerrors "github.com/orizon-lang/orizon/internal/errors"

// Pool is a memory pool for storing Lists of T.
//
// The zero value is not ready to use; construct one with NewPool.
type Pool[T Ref] struct {
	// data is the main slice holding every list's length field, elements,
	// and excess capacity, all tiled contiguously.
	data []T

	// free holds the head of a singly linked free list for each size
	// class, encoded as block+1 so that 0 terminates the list.
	free []int
}

// NewPool creates a new, empty list pool.
func NewPool[T Ref]() *Pool[T] {
	return &Pool[T]{}
}

// Clear empties the pool, forgetting about every list that used it.
//
// This invalidates every List that was built against this pool. The pool's
// backing memory is not released, only truncated, so future allocations
// from a cleared pool are fast.
func (p *Pool[T]) Clear() {
	p.data = p.data[:0]
	p.free = p.free[:0]
}

// lenOf reads the length field of list, if it exists.
//
// idx points at the list's elements; the length is stored immediately
// before them. An empty list (index 0) is rejected by an explicit check; a
// dangling list from a cleared pool is rejected by the bounds check on
// idx-1.
func (p *Pool[T]) lenOf(list List[T]) (int, bool) {
	idx := int(list.index)
	if idx == 0 {
		return 0, false
	}

	slot := idx - 1
	if slot < 0 || slot >= len(p.data) {
		return 0, false
	}

	return int(uint32(p.data[slot])), true
}

// alloc returns the starting index of a fresh block of sclassSize(c) slots.
//
// The block's contents are unspecified; the caller must write the length
// slot before the block is considered in use.
func (p *Pool[T]) alloc(c sclass) int {
	if int(c) < len(p.free) && p.free[c] != 0 {
		head := p.free[c]
		p.free[c] = int(uint32(p.data[head]))

		return head - 1
	}

	offset := len(p.data)
	p.data = append(p.data, make([]T, sclassSize(c))...)

	return offset
}

// freeBlock returns a block previously allocated with alloc(c) to the pool's
// free list for size class c.
func (p *Pool[T]) freeBlock(block int, c sclass) {
	if int(c) >= len(p.free) {
		grown := make([]int, int(c)+1)
		copy(grown, p.free)
		p.free = grown
	}

	p.data[block] = T(0)
	p.data[block+1] = T(uint32(p.free[c]))
	p.free[c] = block + 1
}

// mutSlices returns two disjoint slices anchored at block0 and block1. The
// slice at the lower block extends up to the start of the other; the slice
// at the higher block extends to the end of p.data. That is all realloc needs to copy between them without taking two independent
// references into p.data.
func (p *Pool[T]) mutSlices(block0, block1 int) ([]T, []T) {
	if block0 < block1 {
		return p.data[block0:block1], p.data[block1:]
	}

	return p.data[block0:], p.data[block1:block0]
}

// realloc moves a block from fromClass to toClass, copying the first
// copyCount slots (including, if the caller wants it, the length slot) and
// freeing the old block. copyCount must not exceed either class's size.
func (p *Pool[T]) realloc(block int, fromClass, toClass sclass, copyCount int) int {
	if copyCount > sclassSize(fromClass) || copyCount > sclassSize(toClass) {
		panic(orizonerrors.ReallocOverrun(copyCount, sclassSize(fromClass), sclassSize(toClass)))
	}

	newBlock := p.alloc(toClass)

	if copyCount > 0 {
		oldSlice, newSlice := p.mutSlices(block, newBlock)
		copy(newSlice[:copyCount], oldSlice[:copyCount])
	}

	p.freeBlock(block, fromClass)

	return newBlock
}
