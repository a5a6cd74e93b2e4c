package bot

import (
	"sync"
	"testing"
)

func TestQueueOrder(t *testing.T) {
	q := newQueue()
	var lock sync.Mutex
	got := map[int64][]int{}
	for i := 0; i < 50; i++ {
		for _, key := range []int64{1, 2, 3} {
			i, key := i, key
			q.push(key, func() {
				lock.Lock()
				defer lock.Unlock()
				got[key] = append(got[key], i)
			})
		}
	}
	q.wait()
	for _, key := range []int64{1, 2, 3} {
		if len(got[key]) != 50 {
			t.Fatalf("key %d ran %d jobs; want 50", key, len(got[key]))
		}
		for i, v := range got[key] {
			if v != i {
				t.Fatalf("key %d job %d = %d; want %d", key, i, v, i)
			}
		}
	}
}
