// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Misuse-guard tests run only under -race builds: in regular builds the
// guard compiles to no-ops, so there is nothing to observe. The violating
// goroutine panics inside the guard before touching any queue state, so
// the winning side's accesses stay well-formed throughout.

package rwq_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"code.hybscloud.com/rwq"
)

// =============================================================================
// Single-Producer / Single-Consumer Contract Enforcement
// =============================================================================

// TestGuardDetectsConcurrentEnqueue tests that two goroutines calling
// Enqueue concurrently trip the producer-side guard with a misuse panic
// instead of corrupting state.
func TestGuardDetectsConcurrentEnqueue(t *testing.T) {
	if !rwq.RaceEnabled {
		t.Skip("skip: misuse guard compiles away outside -race builds")
	}

	q := rwq.New[int](64)
	panics := make(chan string, 2)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panics <- fmt.Sprint(r)
				}
			}()
			for i := range 100000 {
				v := i
				q.Enqueue(&v)
			}
		}()
	}
	wg.Wait()
	close(panics)

	msg, ok := <-panics
	if !ok {
		t.Fatal("two concurrent producers: expected a misuse panic")
	}
	if !strings.Contains(msg, "concurrent enqueue") {
		t.Fatalf("panic message: got %q, want mention of concurrent enqueue", msg)
	}
}

// TestGuardDetectsConcurrentDequeue tests the consumer-side guard. The
// queue stays empty, so the only shared state the goroutines touch is the
// guard flag itself.
func TestGuardDetectsConcurrentDequeue(t *testing.T) {
	if !rwq.RaceEnabled {
		t.Skip("skip: misuse guard compiles away outside -race builds")
	}

	q := rwq.New[int](64)
	panics := make(chan string, 2)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panics <- fmt.Sprint(r)
				}
			}()
			for range 100000 {
				q.TryDequeue()
			}
		}()
	}
	wg.Wait()
	close(panics)

	msg, ok := <-panics
	if !ok {
		t.Fatal("two concurrent consumers: expected a misuse panic")
	}
	if !strings.Contains(msg, "concurrent dequeue") {
		t.Fatalf("panic message: got %q, want mention of concurrent dequeue", msg)
	}
}
