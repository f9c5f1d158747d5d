package render

import "sync"

// Scheduler coalesces bursts of invalidations into single paint passes.
// Nodes, edges, zoom, flags, and selection can all change independently;
// routing their triggers through a Scheduler keeps one repaint per burst
// without changing visible behavior.
type Scheduler struct {
	paint   func()
	pending chan struct{}
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewScheduler starts a scheduler that runs paint on its own goroutine
// whenever the frame has been invalidated.
func NewScheduler(paint func()) *Scheduler {
	s := &Scheduler{
		paint:   paint,
		pending: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *Scheduler) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.pending:
			s.paint()
		}
	}
}

// Invalidate requests a repaint. Calls made while one is already pending
// collapse into it.
func (s *Scheduler) Invalidate() {
	select {
	case s.pending <- struct{}{}:
	default:
	}
}

// Close stops the scheduler and waits for an in-flight paint to finish.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}
