package bot

import "sync"

// queue runs jobs of the same key one after the other, in arrival order.
// Jobs of different keys run concurrently.
type queue struct {
	lock sync.Mutex
	jobs map[int64][]func()
	wg   sync.WaitGroup
}

func newQueue() *queue {
	return &queue{jobs: map[int64][]func(){}}
}

func (q *queue) push(key int64, job func()) {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.jobs[key] = append(q.jobs[key], job)
	if len(q.jobs[key]) > 1 {
		// A worker is already running for this key
		return
	}
	q.wg.Add(1)
	go q.work(key)
}

func (q *queue) work(key int64) {
	defer q.wg.Done()
	for {
		q.lock.Lock()
		job := q.jobs[key][0]
		q.lock.Unlock()

		job()

		q.lock.Lock()
		q.jobs[key] = q.jobs[key][1:]
		if len(q.jobs[key]) == 0 {
			delete(q.jobs, key)
			q.lock.Unlock()
			return
		}
		q.lock.Unlock()
	}
}

func (q *queue) wait() {
	q.wg.Wait()
}
