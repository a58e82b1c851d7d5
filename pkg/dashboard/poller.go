package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/mouradhm/migrations-dashboard/pkg/activities"
	"github.com/mouradhm/migrations-dashboard/pkg/logger"
	"github.com/mouradhm/migrations-dashboard/pkg/models"
)

// DefaultPollInterval is the delay between the end of one fetch and the start of the next
const DefaultPollInterval = 15 * time.Second

// State is the poller's position in its fetch cycle
type State int

const (
	StateIdle State = iota
	StateFetching
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Poller refreshes a Store from a Fetcher. At most one fetch is in flight at any time:
// a tick while fetching is dropped, and the next timer is armed only when a fetch completes.
type Poller struct {
	fetcher    activities.Fetcher
	store      *Store
	normalizer *activities.Normalizer
	scheduler  Scheduler
	interval   time.Duration
	logger     logger.Logger

	mu    sync.Mutex
	ctx   context.Context
	state State
	timer Timer
}

// Option configures a Poller
type Option func(*Poller)

// WithScheduler replaces the real-time scheduler
func WithScheduler(s Scheduler) Option {
	return func(p *Poller) {
		p.scheduler = s
	}
}

// WithInterval sets the delay between fetches
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithNormalizer sets the normalizer used to build rows
func WithNormalizer(n *activities.Normalizer) Option {
	return func(p *Poller) {
		p.normalizer = n
	}
}

// WithLogger sets the poller's logger
func WithLogger(l logger.Logger) Option {
	return func(p *Poller) {
		p.logger = l
	}
}

// NewPoller creates a poller writing into store
func NewPoller(fetcher activities.Fetcher, store *Store, opts ...Option) *Poller {
	p := &Poller{
		fetcher:    fetcher,
		store:      store,
		normalizer: activities.NewNormalizer(nil),
		scheduler:  RealScheduler{},
		interval:   DefaultPollInterval,
		logger:     logger.NewComponentLogger("poller"),
		ctx:        context.Background(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start fetches immediately and keeps polling until Stop. ctx is passed to every fetch.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()

	p.logger.Info().Dur("interval", p.interval).Msg("Starting activity poller")

	p.Tick()
}

// Tick starts a fetch if none is in flight and reports whether it did
func (p *Poller) Tick() bool {
	p.mu.Lock()
	if p.state != StateIdle {
		state := p.state
		p.mu.Unlock()

		p.logger.Debug().Stringer("state", state).Msg("Skipping tick")

		return false
	}

	p.state = StateFetching

	// a manual tick supersedes the pending timer so only one polling loop exists
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}

	ctx := p.ctx
	p.mu.Unlock()

	go p.fetch(ctx)

	return true
}

// Stop cancels the pending timer. A fetch already in flight is not aborted, its result is dropped:
// nothing reaches the store once Stop returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = StateStopped

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// State returns the current state
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

func (p *Poller) fetch(ctx context.Context) {
	records, err := p.fetcher.FetchActivities(ctx)

	var (
		rows  []models.DisplayRow
		stats models.AggregateStats
	)

	if err == nil {
		rows = p.normalizer.NormalizeRecords(records)
		stats = activities.Aggregate(rows)
	}

	p.mu.Lock()

	if p.state == StateStopped {
		p.mu.Unlock()
		p.logger.Debug().Msg("Poller stopped, dropping fetch result")

		return
	}

	// the stopped check and the store write share the lock so Stop cannot land between them
	var (
		snap        Snapshot
		subscribers []func(Snapshot)
	)

	if err == nil {
		snap, subscribers = p.store.swap(rows, stats)
	}

	p.state = StateIdle
	p.timer = p.scheduler.AfterFunc(p.interval, func() { p.Tick() })
	p.mu.Unlock()

	if err != nil {
		p.logger.Error().Err(err).Msg("Error while fetching activities")
		return
	}

	notify(snap, subscribers)

	p.logger.Debug().
		Int("total", stats.TotalMigrations).
		Int("success_pct", stats.SuccessPercentage).
		Int("failure_pct", stats.FailurePercentage).
		Msg("Refreshed activities")
}
