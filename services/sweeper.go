package services

import (
	"context"
	"log"
	"time"
)

// SweepInterval is how often expired marks are collected.
const SweepInterval = 10 * time.Second

// Sweeper periodically deletes expired marks and announces each deletion.
// Ticks run one after another in a single goroutine, so two sweeps can
// never hit the store at the same time; a tick that overruns simply delays
// the next one.
type Sweeper struct {
	store    *MarkStore
	events   Broadcaster
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(store *MarkStore, events Broadcaster, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		events:   events,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	go s.run()
}

// Stop tears the schedule down and waits for an in-flight tick to finish.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Tick(context.Background(), time.Now().UTC())
		}
	}
}

// Tick performs one sweep. Store failures are logged and swallowed so the
// schedule stays alive; the delete is bounded to well inside the sweep
// interval so a hung store call cannot push a tick past the next one.
func (s *Sweeper) Tick(ctx context.Context, now time.Time) {
	ctx, cancel := context.WithTimeout(ctx, s.interval*9/10)
	defer cancel()

	ids, err := s.store.DeleteExpired(ctx, now)
	if err != nil {
		log.Printf("sweep: delete expired marks: %v", err)
		return
	}
	for _, id := range ids {
		s.events.MarkExpired(id)
	}
}
