package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// TaskFunc is a long-running firmware task. It returns only on failure or
// when ctx is done.
type TaskFunc func(ctx context.Context) error

// Supervisor runs tasks on their own goroutines and restarts any task that
// returns or panics, after a fixed delay. A failing task never takes its
// siblings down.
type Supervisor struct {
	delay time.Duration

	mu       sync.Mutex
	restarts map[string]uint32
	lastErr  map[string]error

	wg sync.WaitGroup
}

// NewSupervisor creates a supervisor with the given restart delay.
func NewSupervisor(delay time.Duration) *Supervisor {
	return &Supervisor{
		delay:    delay,
		restarts: make(map[string]uint32),
		lastErr:  make(map[string]error),
	}
}

// Go starts a supervised task.
func (s *Supervisor) Go(ctx context.Context, name string, task TaskFunc) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.supervise(ctx, name, task)
	}()
}

func (s *Supervisor) supervise(ctx context.Context, name string, task TaskFunc) {
	for {
		err := runTask(ctx, name, task)
		if ctx.Err() != nil {
			return
		}

		s.mu.Lock()
		s.restarts[name]++
		count := s.restarts[name]
		s.lastErr[name] = err
		s.mu.Unlock()

		msg := "[SUPERVISOR] task " + name + " stopped"
		if err != nil {
			msg += ": " + err.Error()
		}
		DebugAsync(msg + ", restart #" + utoa(count))
		RecordEvent(EvtTaskRestart, count)

		if sleep(ctx, s.delay) != nil {
			return
		}
	}
}

// runTask calls task, turning a panic into an error.
func runTask(ctx context.Context, name string, task TaskFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var cause error
			switch v := r.(type) {
			case error:
				cause = v
			case string:
				cause = errors.New(v)
			}
			err = wrapError(ErrTaskPanic, name, cause)
		}
	}()
	return task(ctx)
}

// Wait blocks until every supervised task has stopped. Tasks stop only when
// their context is done.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

// Restarts returns how many times the named task was restarted.
func (s *Supervisor) Restarts(name string) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restarts[name]
}

// LastError returns the error that ended the named task most recently.
func (s *Supervisor) LastError(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr[name]
}
