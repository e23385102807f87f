// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// Queue is a growable single-producer single-consumer FIFO queue.
//
// Storage is a circular ring of fixed-size blocks. The producer and the
// consumer each own one cursor per block and one block pointer in the
// handle; all cross-thread communication goes through those atomics, so
// every operation is lock-free and returns in bounded steps (Enqueue's
// bound is the allocator's when the ring must grow).
//
// The contract is strictly one producer goroutine and one consumer
// goroutine. TryEnqueue and Enqueue belong to the producer; TryDequeue,
// Peek and Pop belong to the consumer. Violating the contract is undefined
// behavior; builds with -race detect it and panic.
//
// The zero Queue is not ready for use; create queues with New.
//
// Memory: O(capacity), allocated in blocks of at most the configured
// maximum block size.
type Queue[T any] struct {
	frontBlock atomic.Pointer[block[T]] // consumer dequeues from here
	_          padPtr
	tailBlock  atomic.Pointer[block[T]] // producer enqueues here
	_          padPtr

	largestBlockSize uint64 // producer-owned; doubles on growth up to maxBlockSize
	maxBlockSize     uint64

	enqueuing atomix.Uint64 // misuse guards, active in -race builds only
	dequeuing atomix.Uint64
}

// New creates a queue that can hold at least capacity elements without
// growing. Pass WithMaxBlockSize to tune block granularity.
//
// Panics if capacity is negative or the configured max block size is not
// a power of 2 at least 2.
func New[T any](capacity int, opts ...Option) *Queue[T] {
	if capacity < 0 {
		panic("rwq: capacity must be >= 0")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.validate()

	maxSize := uint64(o.maxBlockSize)
	q := &Queue[T]{maxBlockSize: maxSize}

	// One spare slot per block disambiguates empty from full, hence the +1.
	largest := uint64(roundToPow2(capacity + 1))
	var first *block[T]
	if largest > maxSize*2 {
		// The hint needs several blocks. The producer must always be able
		// to advance into a fully drained block even while the consumer is
		// mid-read of a different one, which costs one spare block on top
		// of the one spare slot per block: usable capacity is
		// (blocks-1) * (blockSize-1). Solving for the block count and
		// taking the ceiling of the division:
		count := (uint64(capacity) + maxSize*2 - 3) / (maxSize - 1)
		largest = maxSize
		first = newRing[T](largest, int(count))
	} else {
		first = newRing[T](largest, 1)
	}
	q.largestBlockSize = largest
	q.frontBlock.Store(first)
	q.tailBlock.Store(first)
	return q
}

// TryEnqueue appends an element without ever allocating (producer only).
// Returns ErrWouldBlock when no block in the ring has room.
//
// The element is copied into the queue; the original may be reused after
// the call returns.
func (q *Queue[T]) TryEnqueue(elem *T) error {
	q.enterEnqueue()
	defer q.exitEnqueue()
	return q.enqueue(elem, false)
}

// Enqueue appends an element, splicing a new block into the ring when the
// existing blocks are full (producer only).
func (q *Queue[T]) Enqueue(elem *T) {
	q.enterEnqueue()
	defer q.exitEnqueue()
	q.enqueue(elem, true)
}

func (q *Queue[T]) enqueue(elem *T, grow bool) error {
	tb := q.tailBlock.Load()
	tail := tb.tail.LoadRelaxed()
	nextTail := (tail + 1) & tb.mask

	// Fast path: room in the current block. The cached front cursor is
	// refreshed with acquire ordering only when it claims the block is
	// full, so a stale cache can delay but never wrongly reject.
	if nextTail != tb.localFront || nextTail != q.refreshLocalFront(tb) {
		tb.data[tail] = *elem
		tb.tail.StoreRelease(nextTail)
		return nil
	}

	if next := tb.next.Load(); next != q.frontBlock.Load() {
		// The block ahead is not the one being consumed. The ring protocol
		// guarantees it has been fully drained, so the producer may claim
		// it without allocating. Writing into the front block instead would
		// hand the consumer new elements before older ones in between.
		front := next.front.LoadAcquire()
		freeTail := next.tail.LoadRelaxed()
		if front != freeTail {
			panic("rwq: drained block not empty; queue state corrupted")
		}
		next.localFront = front
		next.data[freeTail] = *elem
		next.tail.StoreRelease((freeTail + 1) & next.mask)
		q.tailBlock.Store(next)
		return nil
	}

	if !grow {
		return ErrWouldBlock
	}

	// No free block ahead: splice a fresh one between the current
	// write-side block and its successor. Block sizes double until they
	// reach the configured maximum, keeping amortized growth cost linear.
	if q.largestBlockSize < q.maxBlockSize {
		q.largestBlockSize *= 2
	}
	nb := newBlock[T](q.largestBlockSize)
	nb.data[0] = *elem
	nb.tail.StoreRelaxed(1)
	nb.localTail = 1
	nb.next.Store(tb.next.Load())
	tb.next.Store(nb)
	q.tailBlock.Store(nb)
	return nil
}

func (q *Queue[T]) refreshLocalFront(b *block[T]) uint64 {
	b.localFront = b.front.LoadAcquire()
	return b.localFront
}

// TryDequeue removes and returns the oldest element (consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *Queue[T]) TryDequeue() (T, error) {
	q.enterDequeue()
	defer q.exitDequeue()

	var zero T
	b, i, err := q.frontSlot()
	if err != nil {
		return zero, err
	}
	elem := b.data[i]
	b.data[i] = zero
	b.front.StoreRelease((i + 1) & b.mask)
	return elem, nil
}

// Peek returns the oldest element without removing it (consumer only).
// The pointer is valid until the element is dequeued or the queue is
// closed. Returns ErrWouldBlock if the queue is empty.
func (q *Queue[T]) Peek() (*T, error) {
	q.enterDequeue()
	defer q.exitDequeue()

	b, i, err := q.frontSlot()
	if err != nil {
		return nil, err
	}
	return &b.data[i], nil
}

// Pop discards the oldest element (consumer only).
// Returns ErrWouldBlock if the queue is empty.
func (q *Queue[T]) Pop() error {
	q.enterDequeue()
	defer q.exitDequeue()

	b, i, err := q.frontSlot()
	if err != nil {
		return err
	}
	var zero T
	b.data[i] = zero
	b.front.StoreRelease((i + 1) & b.mask)
	return nil
}

// frontSlot locates the oldest element, advancing the read-side block past
// a drained segment when the producer has moved ahead. Shared by
// TryDequeue, Peek and Pop.
func (q *Queue[T]) frontSlot() (*block[T], uint64, error) {
	fb := q.frontBlock.Load()
	front := fb.front.LoadRelaxed()

	// Fast path: the current block holds data. As on the enqueue side, the
	// cached tail is refreshed with acquire ordering only when it claims
	// the block is empty.
	if front != fb.localTail || front != q.refreshLocalTail(fb) {
		return fb, front, nil
	}

	if fb == q.tailBlock.Load() {
		// Producer is still in this block: genuinely empty.
		return nil, 0, ErrWouldBlock
	}

	// The current block looks drained and the producer has moved ahead.
	// Reload the tail once more: an enqueue may have landed in this block
	// between the checks above, and those elements are older than anything
	// in the blocks ahead.
	if tail := fb.tail.LoadAcquire(); front != tail {
		fb.localTail = tail
		return fb, front, nil
	}

	// Advance into the next block. The producer never publishes a later
	// tail block while leaving an empty block behind it, so the next block
	// must hold data; anything else means the implementation is broken.
	next := fb.next.Load()
	nextFront := next.front.LoadRelaxed()
	nextTail := next.tail.LoadAcquire()
	if nextFront == nextTail {
		panic("rwq: successor block empty behind producer; queue state corrupted")
	}
	next.localTail = nextTail

	// Publishing the new front block retires the drained one: its storage
	// stays in the ring for the producer to reuse, never freed here.
	q.frontBlock.Store(next)
	return next, nextFront, nil
}

func (q *Queue[T]) refreshLocalTail(b *block[T]) uint64 {
	b.localTail = b.tail.LoadAcquire()
	return b.localTail
}

// SizeApprox returns the number of queued elements, summed over the ring.
//
// The result is a snapshot, not a transaction: concurrent enqueues or
// dequeues make it approximate. It is exact while the opposite side is
// idle.
func (q *Queue[T]) SizeApprox() int {
	var size uint64
	fb := q.frontBlock.Load()
	b := fb
	for {
		front := b.front.LoadAcquire()
		tail := b.tail.LoadAcquire()
		size += (tail - front) & b.mask
		b = b.next.Load()
		if b == fb {
			break
		}
	}
	return int(size)
}

// Cap returns the number of elements the ring can hold without growing.
//
// Like SizeApprox, the result is a snapshot: a concurrent growing Enqueue
// can enlarge the ring while the walk is in progress.
func (q *Queue[T]) Cap() int {
	var capacity uint64
	fb := q.frontBlock.Load()
	b := fb
	for {
		capacity += b.mask // one slot per block reserved
		b = b.next.Load()
		if b == fb {
			break
		}
	}
	return int(capacity)
}

// Transfer moves the entire ring, elements included, into a new handle and
// leaves the receiver with a fresh minimal single-block ring.
//
// Not safe to call concurrently with any other operation on the queue;
// the caller must quiesce both sides first.
func (q *Queue[T]) Transfer() *Queue[T] {
	out := &Queue[T]{
		largestBlockSize: q.largestBlockSize,
		maxBlockSize:     q.maxBlockSize,
	}
	out.frontBlock.Store(q.frontBlock.Load())
	out.tailBlock.Store(q.tailBlock.Load())

	n := uint64(32)
	if m := q.maxBlockSize * 2; n > m {
		n = m
	}
	q.largestBlockSize = n
	b := newRing[T](n, 1)
	q.frontBlock.Store(b)
	q.tailBlock.Store(b)
	return out
}

// Close tears the queue down: every live element is passed to dispose (in
// FIFO order per block, front block first) and the ring's storage is
// unlinked so the garbage collector can reclaim it. dispose may be nil.
//
// Not safe to call concurrently with any other operation; the caller must
// quiesce both sides first. Close is idempotent, but any other operation
// after Close panics.
func (q *Queue[T]) Close(dispose func(T)) {
	fb := q.frontBlock.Load()
	if fb == nil {
		return
	}
	q.frontBlock.Store(nil)
	q.tailBlock.Store(nil)

	var zero T
	b := fb
	for {
		nb := b.next.Load()
		front := b.front.Load()
		tail := b.tail.Load()
		for i := front; i != tail; i = (i + 1) & b.mask {
			if dispose != nil {
				dispose(b.data[i])
			}
			b.data[i] = zero
		}
		b.next.Store(nil)
		b.data = nil
		b = nb
		if b == fb {
			break
		}
	}
}
