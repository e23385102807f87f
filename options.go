// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

import "unsafe"

// DefaultMaxBlockSize is the block capacity used when no option overrides it.
//
// Larger blocks mean fewer block transitions under sustained load at the cost
// of coarser allocation granularity when the queue grows.
const DefaultMaxBlockSize = 512

// Options configures queue construction.
type Options struct {
	// maxBlockSize caps the capacity of any single block allocated after
	// construction. Must be a power of 2 and at least 2.
	maxBlockSize int
}

// Option mutates construction Options.
//
// Example:
//
//	// Small blocks for a queue that is usually near-empty
//	q := rwq.New[Event](64, rwq.WithMaxBlockSize(32))
type Option func(*Options)

// WithMaxBlockSize caps the capacity of individual blocks.
//
// n must be a power of 2 and at least 2; New panics otherwise. The initial
// ring may still use a single block of up to 2n slots when the capacity hint
// fits in one.
func WithMaxBlockSize(n int) Option {
	return func(o *Options) {
		o.maxBlockSize = n
	}
}

func defaultOptions() Options {
	return Options{maxBlockSize: DefaultMaxBlockSize}
}

func (o *Options) validate() {
	if o.maxBlockSize < 2 || o.maxBlockSize&(o.maxBlockSize-1) != 0 {
		panic("rwq: max block size must be a power of 2 and at least 2")
	}
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// padCursor fills the cache line after a cursor and its peer-side cache.
type padCursor [64 - 16]byte

// padPtr is padding to fill cache line after pointer-sized field.
type padPtr [64 - ptrSize]byte
