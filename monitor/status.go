package monitor

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vodhunter/vodwatch/api"
)

// DefaultStatusInterval is the steady-state cadence for status polling.
const DefaultStatusInterval = 2500 * time.Millisecond

// StatusErrorText is the display message recorded when a status fetch fails.
// The transport error itself is not shown; the last good snapshot stays up.
const StatusErrorText = "Failed to load live status"

// StatusSource is the part of the transport client the status poller needs.
type StatusSource interface {
	LiveStatus(ctx context.Context) (api.LiveStatus, error)
}

// StatusSnapshot is an immutable view of the poller's cache. Loading is true
// only until the first fetch (success or failure) completes. Err is empty
// after a successful fetch and holds a display message after a failed one.
type StatusSnapshot struct {
	Status  api.LiveStatus
	Loading bool
	Err     string
}

// StatusPoller owns the locally cached LiveStatus and keeps it fresh. On
// Start it fetches once immediately, then on a fixed cadence until Stop.
// Overlapping fetches are deduplicated: a tick or manual Refresh that lands
// while a request is outstanding shares that request's result. Responses are
// applied in sequence order; a slow response that completes after a newer one
// is dropped rather than overwriting fresher data.
type StatusPoller struct {
	source StatusSource
	sched  *scheduler
	sf     singleflight.Group

	mu         sync.Mutex
	status     api.LiveStatus
	loading    bool
	errText    string
	closed     bool
	nextSeq    uint64
	appliedSeq uint64
	lastToken  ChangeToken
	tokenSubs  []func(ChangeToken)
}

// NewStatusPoller creates a poller over source. A non-positive interval
// selects DefaultStatusInterval. The initial snapshot is idle with every
// nullable field absent.
func NewStatusPoller(source StatusSource, interval time.Duration) *StatusPoller {
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	initial := api.LiveStatus{State: api.StateIdle}
	p := &StatusPoller{
		source:    source,
		status:    initial,
		loading:   true,
		lastToken: TokenFor(initial),
	}
	p.sched = newScheduler(interval, p.refreshOnce)
	return p
}

// Start activates polling: one immediate fetch, then the fixed cadence.
func (p *StatusPoller) Start() {
	p.sched.Start()
}

// Stop deactivates the poller. After Stop returns, no in-flight or future
// fetch mutates the cache; a late-arriving response is discarded.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.sched.Stop()
}

// Refresh performs one fetch on the caller's goroutine, outside the
// scheduled cadence. Command dispatch calls this right after start/stop so
// the mirrored state catches up without waiting for the next tick.
func (p *StatusPoller) Refresh(ctx context.Context) {
	p.refreshOnce(ctx)
}

// Snapshot returns an immutable copy of the cached state.
func (p *StatusPoller) Snapshot() StatusSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return StatusSnapshot{Status: p.status, Loading: p.loading, Err: p.errText}
}

// OnTokenChange registers fn to run whenever the change token derived from a
// freshly applied snapshot differs from the previous one. Polling that keeps
// returning an identical (state, current_video_id) pair never fires fn.
// Registration must happen before Start.
func (p *StatusPoller) OnTokenChange(fn func(ChangeToken)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokenSubs = append(p.tokenSubs, fn)
}

func (p *StatusPoller) refreshOnce(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.nextSeq++
	seq := p.nextSeq
	p.mu.Unlock()

	v, err, _ := p.sf.Do("status", func() (any, error) {
		return p.source.LiveStatus(ctx)
	})

	var status api.LiveStatus
	if err == nil {
		status = v.(api.LiveStatus)
	}
	p.apply(seq, status, err)
}

func (p *StatusPoller) apply(seq uint64, status api.LiveStatus, err error) {
	p.mu.Lock()
	if p.closed || seq <= p.appliedSeq {
		p.mu.Unlock()
		return
	}
	p.appliedSeq = seq
	p.loading = false

	if err != nil {
		p.errText = StatusErrorText
		p.mu.Unlock()
		return
	}

	p.status = status
	p.errText = ""

	tok := TokenFor(status)
	var subs []func(ChangeToken)
	if tok != p.lastToken {
		p.lastToken = tok
		subs = append(subs, p.tokenSubs...)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(tok)
	}
}
