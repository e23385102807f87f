// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// block is one segment of the queue's storage: a power-of-two circular
// buffer with its own cursors, linked into an always-circular ring.
//
// Each cursor has exactly one writer. The consumer advances front, the
// producer advances tail, and each side keeps a cached copy of the other
// side's cursor so the fast path loads no foreign cache line at all.
// Padding keeps consumer state, producer state, and the cold shared state
// on separate cache lines.
//
// front == tail means the block is empty; one slot stays permanently
// unused so that an empty block and a full block are distinguishable.
// Usable capacity per block is therefore len(data) - 1.
type block[T any] struct {
	front     atomix.Uint64 // next occupied slot; consumer writes, producer reads
	localTail uint64        // consumer's cached view of tail
	_         padCursor

	tail       atomix.Uint64 // next free slot; producer writes, consumer reads
	localFront uint64        // producer's cached view of front
	_          padCursor

	next atomic.Pointer[block[T]] // ring link, never nil while the queue is live
	data []T
	mask uint64 // len(data) - 1
}

func newBlock[T any](capacity uint64) *block[T] {
	return &block[T]{
		data: make([]T, capacity),
		mask: capacity - 1,
	}
}

// newRing builds a circular chain of count blocks of the given capacity
// and returns the first. Even a single block links to itself.
func newRing[T any](capacity uint64, count int) *block[T] {
	first := newBlock[T](capacity)
	last := first
	for i := 1; i < count; i++ {
		b := newBlock[T](capacity)
		last.next.Store(b)
		last = b
	}
	last.next.Store(first)
	return first
}
