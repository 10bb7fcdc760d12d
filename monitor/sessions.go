package monitor

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vodhunter/vodwatch/api"
)

// DefaultSessionsInterval is the steady-state cadence for the session
// listing. It is deliberately slow; the token-triggered refresh picks up
// material changes promptly in between.
const DefaultSessionsInterval = 15 * time.Second

// DefaultSessionsLimit is the listing page size when none is configured.
const DefaultSessionsLimit = 50

// SessionsErrorText is the display message recorded when a listing fetch
// fails.
const SessionsErrorText = "Failed to load sessions"

// SessionSource is the part of the transport client the sessions poller
// needs.
type SessionSource interface {
	LiveSessions(ctx context.Context, limit, offset int) ([]api.SessionItem, error)
}

// SessionsSnapshot is an immutable view of the sessions cache.
type SessionsSnapshot struct {
	Items   []api.SessionItem
	Loading bool
	Err     string
}

// SessionsPoller owns the cached session listing. It refreshes on its own
// cadence, and out-of-band whenever RefreshSoon is called (wired to the
// status poller's token changes). Same failure policy as StatusPoller: the
// last good listing stays up and the next tick retries.
type SessionsPoller struct {
	source SessionSource
	limit  int
	offset int
	sched  *scheduler
	sf     singleflight.Group

	mu         sync.Mutex
	items      []api.SessionItem
	loading    bool
	errText    string
	closed     bool
	nextSeq    uint64
	appliedSeq uint64
}

// NewSessionsPoller creates a poller over source. Non-positive interval and
// limit select the defaults; offset is clamped to zero.
func NewSessionsPoller(source SessionSource, interval time.Duration, limit, offset int) *SessionsPoller {
	if interval <= 0 {
		interval = DefaultSessionsInterval
	}
	if limit <= 0 {
		limit = DefaultSessionsLimit
	}
	if offset < 0 {
		offset = 0
	}
	p := &SessionsPoller{
		source:  source,
		limit:   limit,
		offset:  offset,
		loading: true,
	}
	p.sched = newScheduler(interval, p.refreshOnce)
	return p
}

// Start activates polling: one immediate fetch, then the fixed cadence.
func (p *SessionsPoller) Start() {
	p.sched.Start()
}

// Stop deactivates the poller; a fetch still in flight is discarded when it
// lands.
func (p *SessionsPoller) Stop() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.sched.Stop()
}

// RefreshSoon requests one out-of-band fetch on the poller's own goroutine.
// Bursts coalesce. Safe to call from subscriber callbacks.
func (p *SessionsPoller) RefreshSoon() {
	p.sched.Kick()
}

// Refresh performs one fetch on the caller's goroutine.
func (p *SessionsPoller) Refresh(ctx context.Context) {
	p.refreshOnce(ctx)
}

// Snapshot returns an immutable copy of the cached listing.
func (p *SessionsPoller) Snapshot() SessionsSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]api.SessionItem, len(p.items))
	copy(items, p.items)
	return SessionsSnapshot{Items: items, Loading: p.loading, Err: p.errText}
}

func (p *SessionsPoller) refreshOnce(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.nextSeq++
	seq := p.nextSeq
	p.mu.Unlock()

	v, err, _ := p.sf.Do("sessions", func() (any, error) {
		return p.source.LiveSessions(ctx, p.limit, p.offset)
	})

	var items []api.SessionItem
	if err == nil {
		items = v.([]api.SessionItem)
	}
	p.apply(seq, items, err)
}

func (p *SessionsPoller) apply(seq uint64, items []api.SessionItem, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || seq <= p.appliedSeq {
		return
	}
	p.appliedSeq = seq
	p.loading = false

	if err != nil {
		p.errText = SessionsErrorText
		return
	}
	p.items = items
	p.errText = ""
}
