package prefixtree

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/puzpuzpuz/xsync/v3"
)

// a fixed pool of hot keys keeps the contention realistic: many producers
// tallying a bounded set of prefixes
const benchKeySpace = 512

func getBenchKeys(total int) []int64 {
	const seed = 1234567890

	var (
		faker = gofakeit.New(seed)
		keys  = make([]int64, total)
	)

	for i := range keys {
		keys[i] = int64(faker.Uint64())
	}

	return keys
}

func BenchmarkAt_Sequential(b *testing.B) {
	var (
		keys = getBenchKeys(benchKeySpace)
		root = New().Root()
	)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		root.At(keys[i%benchKeySpace])
	}
}

func BenchmarkAt_Parallel(b *testing.B) {
	var (
		keys = getBenchKeys(benchKeySpace)
		root = New().Root()
	)

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			root.At(keys[i%benchKeySpace])
			i++
		}
	})
}

func BenchmarkIncValue_Parallel(b *testing.B) {
	var (
		keys = getBenchKeys(benchKeySpace)
		root = New().Root()
	)

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			root.At(keys[i%benchKeySpace]).IncValue()
			i++
		}
	})
}

func BenchmarkDeepPath_Parallel(b *testing.B) {
	var (
		keys = getBenchKeys(benchKeySpace)
		tr   = New()
	)

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			tr.At(keys[i%benchKeySpace], keys[(i+1)%benchKeySpace], keys[(i+2)%benchKeySpace]).IncValue()
			i++
		}
	})
}

func BenchmarkPoolAt_Parallel(b *testing.B) {
	var (
		keys = getBenchKeys(benchKeySpace)
		pool = NewPoolAllocator()
		tr   = NewIn(pool)
	)

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			tr.Root().AtIn(pool, keys[i%benchKeySpace]).IncValue()
			i++
		}
	})
}

// baseline: flat counting with a mutex-guarded map
func BenchmarkGoMapMutex_Inc(b *testing.B) {
	var (
		keys = getBenchKeys(benchKeySpace)
		m    = make(map[int64]int64, benchKeySpace)
		mu   sync.Mutex
	)

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			mu.Lock()
			m[keys[i%benchKeySpace]]++
			mu.Unlock()
			i++
		}
	})
}

// baseline: flat concurrent counting with xsync
func BenchmarkXsyncMapOf_Inc(b *testing.B) {
	var (
		keys = getBenchKeys(benchKeySpace)
		m    = xsync.NewMapOf[int64, *xsync.Counter]()
	)

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			counter, _ := m.LoadOrCompute(keys[i%benchKeySpace], xsync.NewCounter)
			counter.Inc()
			i++
		}
	})
}

// baseline: flat counting with sync.Map and atomic values
func BenchmarkSyncMap_Inc(b *testing.B) {
	var (
		keys = getBenchKeys(benchKeySpace)
		m    sync.Map
	)

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			counter, _ := m.LoadOrStore(keys[i%benchKeySpace], new(atomic.Int64))
			counter.(*atomic.Int64).Add(1)
			i++
		}
	})
}
