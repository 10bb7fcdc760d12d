package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vodhunter/vodwatch/api"
)

type sessionsFunc func(ctx context.Context, limit, offset int) ([]api.SessionItem, error)

func (f sessionsFunc) LiveSessions(ctx context.Context, limit, offset int) ([]api.SessionItem, error) {
	return f(ctx, limit, offset)
}

func threeSessions() []api.SessionItem {
	return []api.SessionItem{
		{VideoID: 3, CreatorName: "alice", Title: "third", URL: "https://vods.example/alice/3"},
		{VideoID: 2, CreatorName: "alice", Title: "second", URL: "https://vods.example/alice/2", Processed: true},
		{VideoID: 1, CreatorName: "bob", Title: "first", URL: "https://vods.example/bob/1", Processed: true},
	}
}

func TestSessionsPollerFetch(t *testing.T) {
	var gotLimit, gotOffset int
	p := NewSessionsPoller(sessionsFunc(func(ctx context.Context, limit, offset int) ([]api.SessionItem, error) {
		gotLimit, gotOffset = limit, offset
		return threeSessions(), nil
	}), 0, 0, 0)

	p.Refresh(context.Background())

	if gotLimit != DefaultSessionsLimit || gotOffset != 0 {
		t.Fatalf("fetch used limit=%d offset=%d, want %d and 0", gotLimit, gotOffset, DefaultSessionsLimit)
	}

	snap := p.Snapshot()
	if snap.Loading {
		t.Fatal("loading should clear after the first fetch")
	}
	if snap.Err != "" {
		t.Fatalf("err = %q, want empty", snap.Err)
	}
	if len(snap.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(snap.Items))
	}
	if snap.Items[0].VideoID != 3 || snap.Items[2].VideoID != 1 {
		t.Fatalf("unexpected item order: %+v", snap.Items)
	}
}

func TestSessionsPollerSnapshotIsACopy(t *testing.T) {
	p := NewSessionsPoller(sessionsFunc(func(ctx context.Context, limit, offset int) ([]api.SessionItem, error) {
		return threeSessions(), nil
	}), 0, 0, 0)
	p.Refresh(context.Background())

	snap := p.Snapshot()
	snap.Items[0].Title = "mutated"

	if p.Snapshot().Items[0].Title != "third" {
		t.Fatal("snapshot shares backing storage with the cache")
	}
}

func TestSessionsPollerFailurePreservesItems(t *testing.T) {
	var fail bool
	var mu sync.Mutex
	p := NewSessionsPoller(sessionsFunc(func(ctx context.Context, limit, offset int) ([]api.SessionItem, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("connection refused")
		}
		return threeSessions(), nil
	}), 0, 0, 0)

	p.Refresh(context.Background())

	mu.Lock()
	fail = true
	mu.Unlock()
	p.Refresh(context.Background())

	snap := p.Snapshot()
	if snap.Err != SessionsErrorText {
		t.Fatalf("err = %q, want %q", snap.Err, SessionsErrorText)
	}
	if len(snap.Items) != 3 {
		t.Fatalf("failed fetch dropped the listing: %d items", len(snap.Items))
	}
}

func TestSessionsPollerStopDiscardsInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	p := NewSessionsPoller(sessionsFunc(func(ctx context.Context, limit, offset int) ([]api.SessionItem, error) {
		close(entered)
		<-release
		return threeSessions(), nil
	}), 0, 0, 0)

	done := make(chan struct{})
	go func() {
		p.Refresh(context.Background())
		close(done)
	}()

	<-entered
	p.Stop()
	close(release)
	<-done

	if items := p.Snapshot().Items; len(items) != 0 {
		t.Fatalf("late response mutated the cache: %d items", len(items))
	}
}

func TestSessionsPollerFollowsTokenChanges(t *testing.T) {
	fetches := make(chan struct{}, 16)
	sessions := NewSessionsPoller(sessionsFunc(func(ctx context.Context, limit, offset int) ([]api.SessionItem, error) {
		fetches <- struct{}{}
		return threeSessions(), nil
	}), time.Hour, 0, 0)

	var mu sync.Mutex
	current := api.LiveStatus{State: api.StateIdle}
	status := NewStatusPoller(statusFunc(func(ctx context.Context) (api.LiveStatus, error) {
		mu.Lock()
		defer mu.Unlock()
		return current, nil
	}), time.Hour)

	status.OnTokenChange(func(ChangeToken) {
		sessions.RefreshSoon()
	})

	sessions.Start()
	defer sessions.Stop()

	// Initial fetch on activation.
	waitSignal(t, fetches, "initial sessions fetch")

	// A material status change triggers an out-of-band listing fetch.
	mu.Lock()
	current = api.LiveStatus{State: api.StatePolling, Streamer: strptr("alice")}
	mu.Unlock()
	status.Refresh(context.Background())
	waitSignal(t, fetches, "token-triggered sessions fetch")

	// The same status again must not trigger another fetch.
	status.Refresh(context.Background())
	select {
	case <-fetches:
		t.Fatal("sessions poller re-fetched although the token did not change")
	case <-time.After(150 * time.Millisecond):
	}
}

func waitSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}
