package worker

import "sync"

// Job represents a unit of work executed by the pool.
// Named Job rather than Task to avoid clashing with the task domain model.
type Job func()

// Pool defines a simple worker pool.
type Pool interface {
	Submit(Job)
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Job)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				if job != nil {
					job()
				}
			}
		}()
	}
	return p
}

type pool struct {
	jobs chan Job
	wg   sync.WaitGroup
}

func (p *pool) Submit(j Job) {
	p.jobs <- j
}

func (p *pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
