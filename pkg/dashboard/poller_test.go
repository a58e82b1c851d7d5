package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouradhm/migrations-dashboard/pkg/activities"
	"github.com/mouradhm/migrations-dashboard/pkg/logger"
	"github.com/mouradhm/migrations-dashboard/pkg/models"
)

const waitTimeout = 2 * time.Second

type fakeTimer struct {
	delay   time.Duration
	fire    func()
	stopped atomic.Bool
}

func (f *fakeTimer) Stop() bool {
	return !f.stopped.Swap(true)
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
	armed  chan *fakeTimer
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{armed: make(chan *fakeTimer, 16)}
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	timer := &fakeTimer{delay: d, fire: f}

	s.mu.Lock()
	s.timers = append(s.timers, timer)
	s.mu.Unlock()

	s.armed <- timer

	return timer
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.timers)
}

func (s *fakeScheduler) waitArmed(t *testing.T) *fakeTimer {
	t.Helper()

	select {
	case timer := <-s.armed:
		return timer
	case <-time.After(waitTimeout):
		t.Fatal("timer was never armed")
		return nil
	}
}

type fetchResult struct {
	records []models.ActivityRecord
	err     error
}

// blockingFetcher holds every fetch until a result is pushed to results
type blockingFetcher struct {
	calls   atomic.Int32
	started chan struct{}
	results chan fetchResult
}

func newBlockingFetcher() *blockingFetcher {
	return &blockingFetcher{
		started: make(chan struct{}, 16),
		results: make(chan fetchResult),
	}
}

func (f *blockingFetcher) FetchActivities(ctx context.Context) ([]models.ActivityRecord, error) {
	f.calls.Add(1)
	f.started <- struct{}{}

	select {
	case res := <-f.results:
		return res.records, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *blockingFetcher) waitStarted(t *testing.T) {
	t.Helper()

	select {
	case <-f.started:
	case <-time.After(waitTimeout):
		t.Fatal("fetch never started")
	}
}

func (f *blockingFetcher) respond(t *testing.T, res fetchResult) {
	t.Helper()

	select {
	case f.results <- res:
	case <-time.After(waitTimeout):
		t.Fatal("no fetch waiting for a result")
	}
}

func sampleRecords() []models.ActivityRecord {
	return []models.ActivityRecord{{
		CreatedAt: "2024-01-02T10:00:00Z",
		Payload: &models.ActivityPayload{
			MongoDBName: "shopdb",
			MigratedCollections: []models.MigratedCollection{
				{Success: true},
				{Success: false, Error: "timeout"},
			},
		},
	}}
}

func newTestPoller(fetcher activities.Fetcher, store *Store, sched Scheduler) *Poller {
	return NewPoller(fetcher, store,
		WithScheduler(sched),
		WithNormalizer(activities.NewNormalizer(time.UTC)),
		WithLogger(logger.NewTestLogger()),
	)
}

func TestPollerStartFetchesImmediately(t *testing.T) {
	fetcher := newBlockingFetcher()
	sched := newFakeScheduler()
	store := NewStore()
	p := newTestPoller(fetcher, store, sched)

	p.Start(context.Background())
	fetcher.waitStarted(t)
	assert.Equal(t, StateFetching, p.State())

	fetcher.respond(t, fetchResult{records: sampleRecords()})
	timer := sched.waitArmed(t)

	assert.Equal(t, DefaultPollInterval, timer.delay)
	assert.Equal(t, StateIdle, p.State())

	snap := store.Snapshot()
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "shopdb", snap.Rows[0].Name)
	assert.Equal(t, models.StatusError, snap.Rows[0].Status)
	assert.Equal(t, "Jan 2, 2024, 10:00", snap.Rows[0].Date)
	assert.Equal(t, models.AggregateStats{TotalMigrations: 1, SuccessPercentage: 0, FailurePercentage: 100}, snap.Stats)
	assert.Equal(t, uint64(1), snap.Version)
}

func TestPollerSkipsTicksWhileFetching(t *testing.T) {
	fetcher := newBlockingFetcher()
	sched := newFakeScheduler()
	p := newTestPoller(fetcher, NewStore(), sched)

	p.Start(context.Background())
	fetcher.waitStarted(t)

	for i := 0; i < 100; i++ {
		assert.False(t, p.Tick())
	}

	assert.Equal(t, int32(1), fetcher.calls.Load())
	assert.Equal(t, 0, sched.count(), "skipped ticks must not arm a timer")

	fetcher.respond(t, fetchResult{records: sampleRecords()})
	sched.waitArmed(t)

	assert.Equal(t, int32(1), fetcher.calls.Load())
	assert.Equal(t, 1, sched.count())
}

func TestPollerSkipsConcurrentTicks(t *testing.T) {
	fetcher := newBlockingFetcher()
	sched := newFakeScheduler()
	p := newTestPoller(fetcher, NewStore(), sched)

	var (
		wg      sync.WaitGroup
		started atomic.Int32
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if p.Tick() {
				started.Add(1)
			}
		}()
	}

	wg.Wait()
	fetcher.waitStarted(t)

	assert.Equal(t, int32(1), started.Load())
	assert.Equal(t, int32(1), fetcher.calls.Load())

	fetcher.respond(t, fetchResult{})
	sched.waitArmed(t)
}

func TestPollerTimerTriggersNextFetch(t *testing.T) {
	fetcher := newBlockingFetcher()
	sched := newFakeScheduler()
	store := NewStore()
	p := newTestPoller(fetcher, store, sched)

	p.Start(context.Background())
	fetcher.waitStarted(t)
	fetcher.respond(t, fetchResult{records: sampleRecords()})

	timer := sched.waitArmed(t)
	timer.fire()

	fetcher.waitStarted(t)
	fetcher.respond(t, fetchResult{records: []models.ActivityRecord{}})
	sched.waitArmed(t)

	assert.Equal(t, int32(2), fetcher.calls.Load())

	snap := store.Snapshot()
	assert.Empty(t, snap.Rows)
	assert.Equal(t, models.AggregateStats{}, snap.Stats)
	assert.Equal(t, uint64(2), snap.Version)
}

func TestPollerFailedFetchKeepsSnapshot(t *testing.T) {
	fetcher := newBlockingFetcher()
	sched := newFakeScheduler()
	store := NewStore()
	p := newTestPoller(fetcher, store, sched)

	p.Start(context.Background())
	fetcher.waitStarted(t)
	fetcher.respond(t, fetchResult{records: sampleRecords()})
	sched.waitArmed(t).fire()

	fetcher.waitStarted(t)
	fetcher.respond(t, fetchResult{err: errors.New("connection refused")})

	timer := sched.waitArmed(t)
	assert.Equal(t, DefaultPollInterval, timer.delay)

	snap := store.Snapshot()
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, uint64(1), snap.Version)
	assert.Equal(t, StateIdle, p.State())
}

func TestPollerManualTickCancelsPendingTimer(t *testing.T) {
	fetcher := newBlockingFetcher()
	sched := newFakeScheduler()
	p := newTestPoller(fetcher, NewStore(), sched)

	p.Start(context.Background())
	fetcher.waitStarted(t)
	fetcher.respond(t, fetchResult{})
	pending := sched.waitArmed(t)

	require.True(t, p.Tick())
	assert.True(t, pending.stopped.Load())

	fetcher.waitStarted(t)
	fetcher.respond(t, fetchResult{})
	sched.waitArmed(t)
}

func TestPollerStopClearsTimer(t *testing.T) {
	fetcher := newBlockingFetcher()
	sched := newFakeScheduler()
	p := newTestPoller(fetcher, NewStore(), sched)

	p.Start(context.Background())
	fetcher.waitStarted(t)
	fetcher.respond(t, fetchResult{})
	timer := sched.waitArmed(t)

	p.Stop()

	assert.True(t, timer.stopped.Load())
	assert.Equal(t, StateStopped, p.State())
	assert.False(t, p.Tick())
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestPollerDropsResultAfterStop(t *testing.T) {
	fetcher := newBlockingFetcher()
	sched := newFakeScheduler()
	store := NewStore()
	p := newTestPoller(fetcher, store, sched)

	p.Start(context.Background())
	fetcher.waitStarted(t)

	p.Stop()
	fetcher.respond(t, fetchResult{records: sampleRecords()})

	assert.Never(t, func() bool { return sched.count() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, uint64(0), store.Snapshot().Version)
	assert.Empty(t, store.Snapshot().Rows)
}

// stoppingFetcher stops the poller just before handing back its result
type stoppingFetcher struct {
	poller *Poller
}

func (f *stoppingFetcher) FetchActivities(context.Context) ([]models.ActivityRecord, error) {
	f.poller.Stop()
	return sampleRecords(), nil
}

func TestPollerStopDuringCompletionPublishesNothing(t *testing.T) {
	fetcher := &stoppingFetcher{}
	sched := newFakeScheduler()
	store := NewStore()

	var notified atomic.Int32
	store.Subscribe(func(Snapshot) { notified.Add(1) })

	p := newTestPoller(fetcher, store, sched)
	fetcher.poller = p

	require.True(t, p.Tick())

	assert.Never(t, func() bool { return store.Snapshot().Version > 0 }, 100*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, int32(0), notified.Load())
	assert.Equal(t, 0, sched.count())
	assert.Equal(t, StateStopped, p.State())
}

func TestPollerCustomInterval(t *testing.T) {
	fetcher := newBlockingFetcher()
	sched := newFakeScheduler()
	p := NewPoller(fetcher, NewStore(),
		WithScheduler(sched),
		WithInterval(time.Minute),
		WithLogger(logger.NewTestLogger()),
	)

	p.Start(context.Background())
	fetcher.waitStarted(t)
	fetcher.respond(t, fetchResult{})

	assert.Equal(t, time.Minute, sched.waitArmed(t).delay)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "fetching", StateFetching.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "unknown", State(42).String())
}
