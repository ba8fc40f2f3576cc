package pipeline

import "sync"

// dispatcher runs submitted jobs on a fixed number of workers. Submission
// order is preserved into the single job channel, so chunks start in FIFO
// order across all collections; the width caps how many transmissions are
// in flight at once for the whole run, not per collection.
type dispatcher struct {
	jobs chan func()
	wg   sync.WaitGroup
}

func newDispatcher(width int) *dispatcher {
	if width < 1 {
		width = 1
	}
	d := &dispatcher{jobs: make(chan func())}
	for i := 0; i < width; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for job := range d.jobs {
				job()
			}
		}()
	}
	return d
}

// submit blocks until a worker can queue the job.
func (d *dispatcher) submit(job func()) {
	d.jobs <- job
}

// wait closes the queue and blocks until every submitted job finished.
func (d *dispatcher) wait() {
	close(d.jobs)
	d.wg.Wait()
}

// chunk splits records into slices of at most size elements, preserving
// order.
func chunk[T any](records []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	var out [][]T
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		out = append(out, records[start:end])
	}
	return out
}
