package entitylist

import orizonerrors "github.com/orizon-lang/orizon/internal/errors"

// List is a small list of entity references allocated from a Pool.
//
// The zero value is the empty list, ready to use. All methods that take a
// pool must be given the same pool every call; using a List against a
// different pool, or against its own pool after Clear, is a contract
// violation (see the package doc).
type List[T Ref] struct {
	index uint32
}

// IsEmpty reports whether the list has a length of zero. It does not
// consult the pool: 0 is reserved for the empty list, and no in-use block
// is ever addressed by index 0.
func (l List[T]) IsEmpty() bool {
	return l.index == 0
}

// Len returns the number of elements in the list. Both a genuinely empty
// list and a list invalidated by Pool.Clear report 0; the two cases are
// indistinguishable by design.
func (l List[T]) Len(pool *Pool[T]) int {
	n, ok := pool.lenOf(l)
	if !ok {
		return 0
	}

	return n
}

// Slice returns the list's elements as a slice. The slice aliases the
// pool's backing array and is only valid until the next mutation of pool.
func (l List[T]) Slice(pool *Pool[T]) []T {
	n, ok := pool.lenOf(l)
	if !ok {
		return nil
	}

	idx := int(l.index)

	return pool.data[idx : idx+n]
}

// MutSlice is the mutable analogue of Slice.
func (l List[T]) MutSlice(pool *Pool[T]) []T {
	n, ok := pool.lenOf(l)
	if !ok {
		return nil
	}

	idx := int(l.index)

	return pool.data[idx : idx+n]
}

// At returns the element at i, or (zero, false) if i is out of range.
func (l List[T]) At(i int, pool *Pool[T]) (T, bool) {
	s := l.Slice(pool)
	if i < 0 || i >= len(s) {
		var zero T

		return zero, false
	}

	return s[i], true
}

// AtPtr returns a pointer to the element at i, or nil if i is out of range.
// Unlike At, a nil return already carries the "absent" information, so
// there is no separate ok result.
func (l List[T]) AtPtr(i int, pool *Pool[T]) *T {
	s := l.MutSlice(pool)
	if i < 0 || i >= len(s) {
		return nil
	}

	return &s[i]
}

// Clear removes every element from the list, returning the list's block (if
// any) to the pool.
func (l *List[T]) Clear(pool *Pool[T]) {
	n, ok := pool.lenOf(*l)
	if !ok {
		if l.index != 0 {
			panic(orizonerrors.PoolMismatch("Clear"))
		}

		return
	}

	pool.freeBlock(int(l.index)-1, sclassForLength(n))
	l.index = 0
}

// Push appends element to the back of the list.
func (l *List[T]) Push(element T, pool *Pool[T]) {
	n, ok := pool.lenOf(*l)
	if !ok {
		if l.index != 0 {
			panic(orizonerrors.PoolMismatch("Push"))
		}

		block := pool.alloc(sclassForLength(1))
		pool.data[block] = T(1)
		pool.data[block+1] = element
		l.index = uint32(block + 1)

		return
	}

	newLen := n + 1
	block := int(l.index) - 1

	if isSclassMinLength(newLen) {
		c := sclassForLength(n)
		block = pool.realloc(block, c, c+1, n+1)
		l.index = uint32(block + 1)
	}

	pool.data[block+newLen] = element
	pool.data[block] = T(uint32(newLen))
}

// Extend appends every element of elements to the back of the list, in
// order.
func (l *List[T]) Extend(elements []T, pool *Pool[T]) {
	for _, e := range elements {
		l.Push(e, pool)
	}
}

// Insert inserts element at position i, shifting the elements previously at
// [i, Len) one slot to the right. i == Len is equivalent to Push; i outside
// [0, Len] is a contract violation.
func (l *List[T]) Insert(i int, element T, pool *Pool[T]) {
	n := l.Len(pool)
	if i < 0 || i > n {
		panic(orizonerrors.ListIndexOutOfRange("Insert", i, n))
	}

	l.Push(element, pool)

	tail := l.MutSlice(pool)[i:]
	for k := len(tail) - 1; k > 0; k-- {
		tail[k] = tail[k-1]
	}

	tail[0] = element
}

// Remove deletes the element at position i, shifting the elements after it
// one slot to the left. i outside [0, Len) is a contract violation.
func (l *List[T]) Remove(i int, pool *Pool[T]) {
	n := l.Len(pool)
	if i < 0 || i >= n {
		panic(orizonerrors.ListIndexOutOfRange("Remove", i, n))
	}

	seq := l.MutSlice(pool)
	for k := i; k < n-1; k++ {
		seq[k] = seq[k+1]
	}

	if n == 1 {
		l.Clear(pool)

		return
	}

	block := int(l.index) - 1
	if isSclassMinLength(n) {
		c := sclassForLength(n)
		block = pool.realloc(block, c, c-1, n)
		l.index = uint32(block + 1)
	}

	pool.data[block] = T(uint32(n - 1))
}
