// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

// Producer is the enqueue side of the queue.
//
// Hand a Producer to the pipeline stage that generates data so it cannot
// accidentally call consumer-side methods. Exactly one goroutine may use
// the Producer at a time.
//
// Elements are passed by pointer to avoid copying large structs. The queue
// stores a copy of the pointed-to value, so the original can be modified
// after the call returns.
type Producer[T any] interface {
	// TryEnqueue adds an element without allocating (non-blocking).
	// Returns nil on success, ErrWouldBlock if every block is full.
	TryEnqueue(elem *T) error

	// Enqueue adds an element, growing the ring when full (non-blocking
	// apart from allocation).
	Enqueue(elem *T)
}

// Consumer is the dequeue side of the queue.
//
// Hand a Consumer to the pipeline stage that processes data. Exactly one
// goroutine may use the Consumer at a time.
//
// Dequeued elements are returned by value; the vacated slot is cleared so
// the garbage collector can reclaim anything the element referenced.
type Consumer[T any] interface {
	// TryDequeue removes and returns the oldest element (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	TryDequeue() (T, error)

	// Peek returns the oldest element without removing it (non-blocking).
	// The pointer stays valid until the element is dequeued.
	Peek() (*T, error)

	// Pop discards the oldest element (non-blocking).
	Pop() error
}

var (
	_ Producer[int] = (*Queue[int])(nil)
	_ Consumer[int] = (*Queue[int])(nil)
)
