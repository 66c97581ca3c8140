// Package arena provides call-scoped scratch memory for the conversion
// engine.
//
// Recursive compound conversions stage each field through temporary
// buffers that are dead as soon as the field lands in the result. The
// arena hands out zeroed byte slices bump-allocator style and supports
// rewinding to a saved mark, so a wide compound conversion reclaims each
// field's scratch before starting the next one and peak memory stays
// bounded by the largest single field, not the sum of all fields.
package arena

// blockSize is the minimum size of a fresh block. Allocations larger
// than this get a dedicated block.
const blockSize = 64 * 1024

// Arena is a bump allocator with checkpoint/rewind. It is not safe for
// concurrent use; every conversion call owns its own arena.
type Arena struct {
	blocks [][]byte
	cur    int // index of the block being filled
	used   int // bytes used in the current block

	stats Stats
}

// Mark is a saved allocation position. Releasing to a mark frees
// everything allocated after it was taken.
type Mark struct {
	block int
	used  int
}

// Stats tracks arena usage.
type Stats struct {
	Allocs    uint64 // number of Alloc calls
	Bytes     uint64 // total bytes handed out
	PeakBytes uint64 // high-water mark of live bytes
}

// New creates an empty arena. No memory is reserved until the first
// allocation.
func New() *Arena {
	return &Arena{cur: -1}
}

// Alloc returns a zeroed slice of n bytes backed by the arena.
// The slice is valid until the arena is released past the current mark
// or reset.
func (a *Arena) Alloc(n int) []byte {
	if n < 0 {
		panic("arena: negative allocation size")
	}
	a.stats.Allocs++
	a.stats.Bytes += uint64(n)
	if n == 0 {
		return nil
	}

	if a.cur < 0 || a.used+n > len(a.blocks[a.cur]) {
		a.grow(n)
	}
	b := a.blocks[a.cur][a.used : a.used+n : a.used+n]
	a.used += n

	// Blocks are reused after Release, so returned memory must be
	// cleared: compound packing relies on zeroed padding bytes.
	clear(b)

	if live := a.live(); live > a.stats.PeakBytes {
		a.stats.PeakBytes = live
	}
	return b
}

// Mark returns the current allocation position.
func (a *Arena) Mark() Mark {
	return Mark{block: a.cur, used: a.used}
}

// Release rewinds the arena to a previously taken mark. Slices handed
// out after the mark must no longer be used.
func (a *Arena) Release(m Mark) {
	if m.block > a.cur || (m.block == a.cur && m.used > a.used) {
		panic("arena: release past current position")
	}
	a.cur = m.block
	a.used = m.used
	if a.cur < 0 {
		a.used = 0
	}
}

// Reset discards all allocations but keeps the blocks for reuse.
func (a *Arena) Reset() {
	if len(a.blocks) > 0 {
		a.cur = 0
	} else {
		a.cur = -1
	}
	a.used = 0
}

// Stats returns a copy of the usage counters.
func (a *Arena) Stats() Stats {
	return a.stats
}

func (a *Arena) grow(n int) {
	// Reuse an already-grown block left over from a previous Release.
	for next := a.cur + 1; next < len(a.blocks); next++ {
		if len(a.blocks[next]) >= n {
			a.cur = next
			a.used = 0
			return
		}
	}
	size := blockSize
	if n > size {
		size = n
	}
	a.blocks = append(a.blocks, make([]byte, size))
	a.cur = len(a.blocks) - 1
	a.used = 0
}

func (a *Arena) live() uint64 {
	var live uint64
	for i := 0; i < a.cur; i++ {
		live += uint64(len(a.blocks[i]))
	}
	return live + uint64(a.used)
}
