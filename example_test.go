// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq_test

import (
	"fmt"

	"code.hybscloud.com/rwq"
)

// Example demonstrates basic enqueue and dequeue.
func Example() {
	q := rwq.New[string](8)

	for _, s := range []string{"first", "second", "third"} {
		q.Enqueue(&s)
	}

	for {
		s, err := q.TryDequeue()
		if err != nil {
			break
		}
		fmt.Println(s)
	}

	// Output:
	// first
	// second
	// third
}

// ExampleQueue_TryEnqueue demonstrates backpressure without growth.
func ExampleQueue_TryEnqueue() {
	q := rwq.New[int](3)

	for i := range 5 {
		v := i
		if err := q.TryEnqueue(&v); rwq.IsWouldBlock(err) {
			fmt.Println("full at", i)
			break
		}
	}

	// Output:
	// full at 3
}

// ExampleQueue_Peek demonstrates inspecting the front without removing it.
func ExampleQueue_Peek() {
	q := rwq.New[int](8)
	v := 42
	q.Enqueue(&v)

	p, _ := q.Peek()
	fmt.Println("front:", *p)
	fmt.Println("size:", q.SizeApprox())

	q.Pop()
	fmt.Println("size after pop:", q.SizeApprox())

	// Output:
	// front: 42
	// size: 1
	// size after pop: 0
}

// ExampleQueue_Transfer demonstrates moving a queue's contents to a new
// handle, leaving the source empty but usable.
func ExampleQueue_Transfer() {
	q := rwq.New[int](8)
	for i := range 3 {
		q.Enqueue(&i)
	}

	moved := q.Transfer()

	fmt.Println("moved:", moved.SizeApprox())
	fmt.Println("source:", q.SizeApprox())

	// Output:
	// moved: 3
	// source: 0
}
