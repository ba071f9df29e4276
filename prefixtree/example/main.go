package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aglyzov/go-lfds/prefixtree"
)

// A toy profiler: producers tally samples of call paths (sequences of
// frame ids) into a shared tree, no locks involved, then the result is
// printed from a single goroutine once everything has quiesced.
func main() {
	var (
		pool = prefixtree.NewPoolAllocator()
		tree = prefixtree.NewIn(pool)

		// frame ids: 1=main, 2=parse, 3=eval, 4=load, 5=alloc
		samples = [][]int64{
			{1, 2},
			{1, 2, 4},
			{1, 3},
			{1, 3, 5},
			{1, 3, 5},
		}
	)

	var wg sync.WaitGroup
	wg.Add(4)
	for p := 0; p < 4; p++ {
		go func() {
			defer wg.Done()
			for round := 0; round < 1000; round++ {
				tree.At(samples[round%len(samples)]...).IncValue()
			}
		}()
	}
	wg.Wait()

	type frame struct {
		depth int
		path  string
	}

	prefixtree.TopDown(tree.Root(),
		frame{0, "root"},
		func(f frame, key int64) frame {
			return frame{f.depth + 1, fmt.Sprintf("%s/%d", f.path, key)}
		},
		func(f frame, count int64) {
			fmt.Printf("%s%-16s %d\n", strings.Repeat("  ", f.depth), f.path, count)
		},
	)

	fmt.Printf("---\nnodes allocated: %d (in %d chunks)\n", pool.Allocated(), pool.Chunks())
}
