package reminder

import (
	"context"
	"log"
	"time"
)

// Sweeper runs the periodic due sweep. It is owned by the consuming view:
// Run blocks until ctx is cancelled, so tearing the view down stops the
// timer with it.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
}

// NewSweeper creates a sweeper over the given engine.
func NewSweeper(engine *Engine, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Sweeper{engine: engine, interval: interval}
}

// Run sweeps immediately, then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.tick()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Sweeper) tick() {
	fired, err := s.engine.ProcessDue(time.Now())
	if err != nil {
		log.Printf("[sweeper] due sweep failed: %v", err)
		return
	}
	if len(fired) > 0 {
		log.Printf("[sweeper] fired %d reminder(s)", len(fired))
	}
}
