package entitylist

import "testing"

func TestBlockAllocatorReuse(t *testing.T) {
	pool := NewPool[testRef]()

	b1 := pool.alloc(0)
	b2 := pool.alloc(1)
	b3 := pool.alloc(0)

	if b1 == b2 || b1 == b3 || b2 == b3 {
		t.Fatalf("expected distinct blocks, got b1=%d b2=%d b3=%d", b1, b2, b3)
	}

	pool.freeBlock(b2, 1)

	b2a := pool.alloc(1)
	b2b := pool.alloc(1)

	if b2a == b2b {
		t.Fatalf("expected b2a != b2b, both %d", b2a)
	}

	if b2a != b2 && b2b != b2 {
		t.Fatalf("expected one of b2a=%d, b2b=%d to reuse freed block %d", b2a, b2b, b2)
	}

	pool.freeBlock(b1, 0)
	pool.freeBlock(b3, 0)

	b1a := pool.alloc(0)
	b3a := pool.alloc(0)

	if b1a == b3a {
		t.Fatalf("expected b1a != b3a, both %d", b1a)
	}

	got := map[int]bool{b1a: true, b3a: true}
	want := map[int]bool{b1: true, b3: true}

	if len(got) != len(want) || !got[b1] || !got[b3] {
		t.Fatalf("expected {b1a,b3a} = {b1,b3} = {%d,%d}, got {%d,%d}", b1, b3, b1a, b3a)
	}
}

func TestAllocExtendsDataWithZeroedBlock(t *testing.T) {
	pool := NewPool[testRef]()

	block := pool.alloc(1)
	if len(pool.data) != sclassSize(1) {
		t.Fatalf("data len = %d, want %d", len(pool.data), sclassSize(1))
	}

	for i := 0; i < sclassSize(1); i++ {
		if pool.data[block+i] != 0 {
			t.Fatalf("fresh block slot %d not zeroed: %v", i, pool.data[block+i])
		}
	}
}

func TestMutSlicesBothOrderings(t *testing.T) {
	pool := NewPool[testRef]()
	for i := 0; i < 16; i++ {
		pool.data = append(pool.data, testRef(i))
	}

	lo, hi := pool.mutSlices(2, 6)
	if len(lo) != 4 || len(hi) != 10 {
		t.Fatalf("block0<block1: lo len=%d hi len=%d", len(lo), len(hi))
	}

	lo[0] = 100
	if pool.data[2] != 100 {
		t.Fatalf("mutation through lo slice did not alias pool.data")
	}

	hi2, lo2 := pool.mutSlices(6, 2)
	if len(hi2) != 10 || len(lo2) != 4 {
		t.Fatalf("block0>block1: first len=%d second len=%d", len(hi2), len(lo2))
	}
}

func TestReallocCopiesAndFreesOldBlock(t *testing.T) {
	pool := NewPool[testRef]()

	block := pool.alloc(0)
	pool.data[block] = 3
	pool.data[block+1] = 11
	pool.data[block+2] = 12
	pool.data[block+3] = 13

	newBlock := pool.realloc(block, 0, 1, 4)

	for i, want := range []testRef{3, 11, 12, 13} {
		if pool.data[newBlock+i] != want {
			t.Errorf("slot %d = %v, want %v", i, pool.data[newBlock+i], want)
		}
	}

	// The old block must now be on class 0's free list.
	if int(pool.free[0]) != block+1 {
		t.Fatalf("old block not returned to free list: free[0]=%d, want %d", pool.free[0], block+1)
	}
}

func TestReallocOverrunPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on realloc copy count overrun")
		}
	}()

	pool := NewPool[testRef]()
	block := pool.alloc(0)
	pool.realloc(block, 0, 0, sclassSize(0)+1)
}
