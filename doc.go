// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rwq provides a growable single-producer single-consumer FIFO queue.
//
// The queue stores elements in a circular ring of fixed-size blocks. Each
// block is a small Lamport ring buffer with cached cursors; when a block
// fills, the producer moves into the next block of the ring, reusing blocks
// the consumer has already drained and splicing in new ones only when none
// are free. The result is a queue that is bounded in steady state, grows on
// demand, and never takes a lock.
//
// # Quick Start
//
//	q := rwq.New[Event](1024)
//
//	// Producer goroutine
//	ev := Event{ID: 1}
//	q.Enqueue(&ev)              // grows when full
//	err := q.TryEnqueue(&ev)    // ErrWouldBlock when full
//
//	// Consumer goroutine
//	ev, err := q.TryDequeue()   // ErrWouldBlock when empty
//	p, err := q.Peek()          // inspect without removing
//	err = q.Pop()               // discard front
//
// # Pipeline Stage
//
//	q := rwq.New[Data](1024)
//
//	go func() { // Producer (Stage 1)
//	    for data := range input {
//	        q.Enqueue(&data)
//	    }
//	}()
//
//	go func() { // Consumer (Stage 2)
//	    backoff := iox.Backoff{}
//	    for {
//	        data, err := q.TryDequeue()
//	        if err != nil {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        process(data)
//	    }
//	}()
//
// # Capacity and Growth
//
// New pre-sizes the ring for the capacity hint: a single block when the
// hint fits within twice the maximum block size, otherwise enough
// maximum-size blocks that the producer can always advance into a drained
// block without allocating. TryEnqueue never allocates; Enqueue splices in
// a new block when the ring is full, doubling block sizes up to the
// configured maximum (see [WithMaxBlockSize]). Doubling is this package's
// growth policy: it keeps the allocation count for a burst of n enqueues
// logarithmic in n until the maximum block size is reached.
//
// Cap reports how many elements the ring holds without growing and
// SizeApprox counts the queued elements; both walk the ring once and are
// snapshots when called concurrently with the opposite side.
//
// # Thread Safety
//
// Exactly one goroutine may enqueue and exactly one may dequeue, and the
// two may run concurrently. The two sides communicate only through atomic
// cursors and block pointers: an element's bytes are published with a
// release store of the write cursor and observed with an acquire load, so
// the consumer never reads a partially written element.
//
// Transfer and Close are handle-lifecycle operations that belong to
// neither side; the caller must quiesce both sides before using them.
//
// Violating the 1:1 contract is undefined behavior. Builds with -race
// enable a guard on every entry point that panics on concurrent or
// re-entrant misuse; regular builds compile the guard away.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives but cannot
// observe happens-before relationships established through atomic memory
// orderings on separate variables. The queue's block cursors synchronize
// element accesses exactly that way, so concurrent producer/consumer tests
// report false positives under the detector. Such tests skip themselves
// via [RaceEnabled]; single-goroutine tests run everywhere.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// [code.hybscloud.com/atomix] for atomic primitives with explicit memory
// ordering. Tests additionally use [code.hybscloud.com/spin] for CPU pause
// instructions in stress scenarios.
package rwq
