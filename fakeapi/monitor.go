package fakeapi

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vodhunter/vodwatch/api"
)

// simMonitor is a simulated monitor lifecycle: start puts it in polling,
// after goLiveAfter the streamer "goes live" and ingestion begins with an
// advancing cursor, stop finalizes the session and returns to idle. State
// only advances when observed, so tests stay deterministic under a fake
// clock.
type simMonitor struct {
	goLiveAfter time.Duration
	now         func() time.Time

	mu          sync.Mutex
	state       api.LiveState
	streamer    string
	startedAt   time.Time
	lastCheckAt time.Time
	liveAt      time.Time
	videoID     int64
	nextVideoID int64
	sessions    []api.SessionItem
}

func newSimMonitor(goLiveAfter time.Duration, now func() time.Time) *simMonitor {
	if now == nil {
		now = time.Now
	}
	return &simMonitor{
		goLiveAfter: goLiveAfter,
		now:         now,
		state:       api.StateIdle,
		nextVideoID: 1,
	}
}

func (m *simMonitor) start(streamer string) (api.LiveStatus, error) {
	streamer = strings.TrimSpace(streamer)
	if streamer == "" {
		return api.LiveStatus{}, errInvalidStreamer
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.advanceLocked()
	if m.state != api.StateIdle {
		return api.LiveStatus{}, errMonitorRunning
	}

	now := m.now()
	m.state = api.StatePolling
	m.streamer = streamer
	m.startedAt = now
	m.lastCheckAt = now
	m.liveAt = now.Add(m.goLiveAfter)
	activeMonitor.Set(1)
	return m.statusLocked(), nil
}

func (m *simMonitor) stop() (bool, api.LiveStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advanceLocked()

	stopped := m.state != api.StateIdle
	if m.state == api.StateIngesting {
		for i := range m.sessions {
			if m.sessions[i].VideoID == m.videoID {
				m.sessions[i].Processed = true
			}
		}
	}
	m.state = api.StateIdle
	m.streamer = ""
	m.videoID = 0
	activeMonitor.Set(0)
	return stopped, m.statusLocked()
}

func (m *simMonitor) status() api.LiveStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advanceLocked()
	return m.statusLocked()
}

func (m *simMonitor) listSessions(limit, offset int) []api.SessionItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advanceLocked()

	// Newest first, matching the real service's listing order.
	out := make([]api.SessionItem, 0, limit)
	for i := len(m.sessions) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.sessions[i])
	}
	return out
}

func (m *simMonitor) searchTarget() (api.SessionItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sessions) - 1; i >= 0; i-- {
		if m.sessions[i].Processed {
			return m.sessions[i], true
		}
	}
	return api.SessionItem{}, false
}

// advanceLocked moves polling to ingesting once the simulated go-live moment
// has passed.
func (m *simMonitor) advanceLocked() {
	now := m.now()
	if m.state == api.StatePolling || m.state == api.StateIngesting {
		m.lastCheckAt = now
	}
	if m.state != api.StatePolling || now.Before(m.liveAt) {
		return
	}

	m.state = api.StateIngesting
	m.videoID = m.nextVideoID
	m.nextVideoID++
	m.sessions = append(m.sessions, api.SessionItem{
		VideoID:     m.videoID,
		CreatorName: m.streamer,
		URL:         fmt.Sprintf("https://vods.example/%s/%d", m.streamer, m.videoID),
		Title:       fmt.Sprintf("%s live broadcast", m.streamer),
		Processed:   false,
	})
}

func (m *simMonitor) statusLocked() api.LiveStatus {
	s := api.LiveStatus{State: m.state}
	if m.state == api.StateIdle {
		return s
	}

	s.Streamer = strptr(m.streamer)
	s.StartedAt = strptr(m.startedAt.UTC().Format(time.RFC3339))
	s.LastCheckAt = strptr(m.lastCheckAt.UTC().Format(time.RFC3339))

	switch m.state {
	case api.StatePolling:
		s.IsLive = boolptr(false)
	case api.StateIngesting:
		s.IsLive = boolptr(true)
		s.CurrentVideoID = i64ptr(m.videoID)
		s.CurrentVODURL = strptr(fmt.Sprintf("https://vods.example/%s/%d", m.streamer, m.videoID))
		cursor := int64(m.now().Sub(m.liveAt) / time.Second)
		if cursor < 0 {
			cursor = 0
		}
		s.IngestCursorSeconds = i64ptr(cursor)
		s.LagSeconds = i64ptr(90)
	}
	return s
}

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }
func i64ptr(v int64) *int64   { return &v }
