package fakeapi

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vodhunter/vodwatch/api"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestServer(t *testing.T) (*api.Client, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)}
	s := NewServer(nil, 5*time.Second, WithClock(clock.Now))

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL+"/api"), clock
}

func TestHealth(t *testing.T) {
	client, _ := newTestServer(t)
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health() error: %v", err)
	}
}

func TestMonitorLifecycle(t *testing.T) {
	client, clock := newTestServer(t)
	ctx := context.Background()

	st, err := client.LiveStatus(ctx)
	if err != nil {
		t.Fatalf("LiveStatus() error: %v", err)
	}
	if st.State != api.StateIdle {
		t.Fatalf("initial state = %s, want idle", st.State)
	}

	st, err = client.StartMonitor(ctx, "alice")
	if err != nil {
		t.Fatalf("StartMonitor() error: %v", err)
	}
	if st.State != api.StatePolling || *st.Streamer != "alice" {
		t.Fatalf("post-start status = %+v", st)
	}

	// Before go-live the streamer is still offline.
	st, _ = client.LiveStatus(ctx)
	if st.IsLive == nil || *st.IsLive {
		t.Fatalf("is_live = %v before go-live", st.IsLive)
	}

	clock.Advance(6 * time.Second)
	st, _ = client.LiveStatus(ctx)
	if st.State != api.StateIngesting {
		t.Fatalf("state = %s after go-live, want ingesting", st.State)
	}
	if st.CurrentVideoID == nil || st.CurrentVODURL == nil || st.IngestCursorSeconds == nil {
		t.Fatalf("progress fields missing while ingesting: %+v", st)
	}

	items, err := client.LiveSessions(ctx, 50, 0)
	if err != nil {
		t.Fatalf("LiveSessions() error: %v", err)
	}
	if len(items) != 1 || items[0].CreatorName != "alice" || items[0].Processed {
		t.Fatalf("sessions = %+v", items)
	}

	stopped, st, err := client.StopMonitor(ctx)
	if err != nil {
		t.Fatalf("StopMonitor() error: %v", err)
	}
	if !stopped || st.State != api.StateIdle {
		t.Fatalf("stopped=%v state=%s", stopped, st.State)
	}

	items, _ = client.LiveSessions(ctx, 50, 0)
	if len(items) != 1 || !items[0].Processed {
		t.Fatalf("session not finalized on stop: %+v", items)
	}
}

func TestDoubleStartConflicts(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	if _, err := client.StartMonitor(ctx, "alice"); err != nil {
		t.Fatalf("first start: %v", err)
	}
	_, err := client.StartMonitor(ctx, "bob")

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "MONITOR_RUNNING" {
		t.Fatalf("error = %v, want MONITOR_RUNNING", err)
	}
}

func TestStartRejectsBlankStreamer(t *testing.T) {
	client, _ := newTestServer(t)

	_, err := client.StartMonitor(context.Background(), "   ")
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "INVALID_STREAMER" {
		t.Fatalf("error = %v, want INVALID_STREAMER", err)
	}
}

func TestStopWhenIdleReportsNotStopped(t *testing.T) {
	client, _ := newTestServer(t)

	stopped, st, err := client.StopMonitor(context.Background())
	if err != nil {
		t.Fatalf("StopMonitor() error: %v", err)
	}
	if stopped || st.State != api.StateIdle {
		t.Fatalf("stopped=%v state=%s, want false/idle", stopped, st.State)
	}
}

func TestSearchBlockedWhileMonitoring(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	if _, err := client.StartMonitor(ctx, "alice"); err != nil {
		t.Fatal(err)
	}

	_, err := client.SearchClip(ctx, "clip.mp4", strings.NewReader("bytes"))
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "SEARCH_BLOCKED" {
		t.Fatalf("error = %v, want SEARCH_BLOCKED", err)
	}
}

func TestSearchFindsProcessedSession(t *testing.T) {
	client, clock := newTestServer(t)
	ctx := context.Background()

	if _, err := client.StartMonitor(ctx, "alice"); err != nil {
		t.Fatal(err)
	}
	clock.Advance(10 * time.Second)
	if _, _, err := client.StopMonitor(ctx); err != nil {
		t.Fatal(err)
	}

	resp, err := client.SearchClip(ctx, "clip.mp4", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("SearchClip() error: %v", err)
	}
	if !resp.Found || resp.Streamer == nil || *resp.Streamer != "alice" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestSearchWithoutSessionsMisses(t *testing.T) {
	client, _ := newTestServer(t)

	resp, err := client.SearchClip(context.Background(), "clip.mp4", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("SearchClip() error: %v", err)
	}
	if resp.Found {
		t.Fatalf("resp = %+v, want miss", resp)
	}
	if resp.Reason == nil {
		t.Fatal("expected a miss reason")
	}
}
