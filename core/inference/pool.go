package inference

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned by Do when the pool shuts down before the
// task could run.
var ErrPoolClosed = errors.New("inference pool closed")

type task struct {
	fn    func()
	taken chan struct{}
	done  chan error
}

// Pool runs inference work on a fixed set of workers so forward passes
// and permutation loops never execute on the caller's goroutine.
type Pool struct {
	tasks  chan task
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewPool starts a pool with the given number of workers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	p := &Pool{
		tasks:  make(chan task, workers*2),
		closed: make(chan struct{}),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.closed:
			return
		default:
		}
		select {
		case t := <-p.tasks:
			close(t.taken)
			t.fn()
			t.done <- nil
		case <-p.closed:
			return
		}
	}
}

// Do submits fn and blocks until it finishes. If the context expires
// before a worker picks the task up, the task is dropped and the
// context error is returned. Once a worker has started fn, Do waits for
// it regardless of the context so callers never observe half-written
// results.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	select {
	case <-p.closed:
		return ErrPoolClosed
	default:
	}

	t := task{fn: fn, taken: make(chan struct{}), done: make(chan error, 1)}
	select {
	case p.tasks <- t:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.closed:
		return ErrPoolClosed
	}

	select {
	case <-t.taken:
		return <-t.done
	case <-p.closed:
		// The pool is shutting down, but a worker may have grabbed the
		// task in the same instant.
		select {
		case <-t.taken:
			return <-t.done
		default:
			return ErrPoolClosed
		}
	}
}

// Close stops the workers. Tasks still waiting in the queue are
// abandoned and their callers receive ErrPoolClosed.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.closed) })
	p.wg.Wait()
}
