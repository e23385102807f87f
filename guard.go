// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

// Misuse detection for the 1:1 threading contract.
//
// Each side of the queue is single-threaded by contract. In -race builds
// every entry point acquires the side's flag and panics when it is already
// held, turning concurrent or re-entrant misuse into a diagnosable failure
// instead of silent corruption. In regular builds checkEnabled is a false
// constant and the compiler removes the checks entirely, keeping the
// lock-free fast path free of them.

func (q *Queue[T]) enterEnqueue() {
	if !checkEnabled {
		return
	}
	if !q.enqueuing.CompareAndSwapAcqRel(0, 1) {
		panic("rwq: concurrent enqueue; the producer side must be a single goroutine")
	}
}

func (q *Queue[T]) exitEnqueue() {
	if !checkEnabled {
		return
	}
	q.enqueuing.StoreRelease(0)
}

func (q *Queue[T]) enterDequeue() {
	if !checkEnabled {
		return
	}
	if !q.dequeuing.CompareAndSwapAcqRel(0, 1) {
		panic("rwq: concurrent dequeue; the consumer side must be a single goroutine")
	}
}

func (q *Queue[T]) exitDequeue() {
	if !checkEnabled {
		return
	}
	q.dequeuing.StoreRelease(0)
}
