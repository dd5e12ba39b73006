// Package shutdownqueue runs registered cleanup tasks in LIFO order at
// process exit. Register tasks from anywhere with Add and drain them once at
// the end of main:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	_ = shutdownqueue.Shutdown(ctx)
//
// Shutdown is idempotent, recovers task panics, and aggregates failures with
// errors.Join.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is a shutdown function. It should honor ctx and return an error if it
// cannot finish in time.
type Task func(ctx context.Context) error

// Queue is a standalone LIFO shutdown queue. The zero value is ready to use.
type Queue struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool
}

// Add registers a task. Nil tasks and adds after shutdown are ignored.
func (q *Queue) Add(t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.tasks = append(q.tasks, t)
}

// Shutdown drains the queue in LIFO order. Subsequent calls are no-ops. If
// ctx expires mid-drain, remaining tasks are skipped and the context error is
// included in the aggregate.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.closed = true
	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown canceled: %w", ctx.Err()))
			return errors.Join(errs...)
		default:
		}

		err := runTask(ctx, tasks[i])
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func runTask(ctx context.Context, t Task) (err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("panic in shutdown task: %v", r)
		}
	}()

	return t(ctx)
}

// defaultQueue backs the package-level Add/Shutdown used by main.
var defaultQueue Queue

func Add(t Task) { defaultQueue.Add(t) }

func Shutdown(ctx context.Context) error { return defaultQueue.Shutdown(ctx) }
