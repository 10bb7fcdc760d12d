package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vodhunter/vodwatch/api"
	"github.com/vodhunter/vodwatch/monitor"
)

type stubStatusSource struct {
	st api.LiveStatus
}

func (s stubStatusSource) LiveStatus(ctx context.Context) (api.LiveStatus, error) {
	return s.st, nil
}

type stubSessionsSource struct {
	items []api.SessionItem
}

func (s stubSessionsSource) LiveSessions(ctx context.Context, limit, offset int) ([]api.SessionItem, error) {
	return s.items, nil
}

func newTestDash(status api.LiveStatus, items []api.SessionItem) dashModel {
	sp := monitor.NewStatusPoller(stubStatusSource{st: status}, time.Hour)
	ssp := monitor.NewSessionsPoller(stubSessionsSource{items: items}, time.Hour, 0, 0)
	m := newDashModel(&fakeCommandAPI{}, sp, ssp, nil, "")
	m.statusSnap = monitor.StatusSnapshot{Status: status}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDashStartKeyBlockedWhileRunning(t *testing.T) {
	m := newTestDash(api.LiveStatus{State: api.StatePolling}, nil)

	next, _ := m.Update(keyMsg("s"))
	m = next.(dashModel)

	if m.focus != focusMain {
		t.Fatal("start input must not open while a monitor is running")
	}
	if m.transient == "" {
		t.Fatal("expected a blocking message")
	}
}

func TestDashStartKeyOpensInputWhenIdle(t *testing.T) {
	m := newTestDash(api.LiveStatus{State: api.StateIdle}, nil)

	next, _ := m.Update(keyMsg("s"))
	m = next.(dashModel)

	if m.focus != focusStart {
		t.Fatalf("focus = %v, want start input", m.focus)
	}
}

func TestDashStopKeyBlockedWhenIdle(t *testing.T) {
	m := newTestDash(api.LiveStatus{State: api.StateIdle}, nil)

	next, _ := m.Update(keyMsg("x"))
	m = next.(dashModel)

	if m.transient != "No monitor is running" {
		t.Fatalf("transient = %q", m.transient)
	}
}

func TestDashSearchKeyBlockedWhileRunning(t *testing.T) {
	for _, state := range []api.LiveState{api.StatePolling, api.StateIngesting, api.StateError} {
		m := newTestDash(api.LiveStatus{State: state}, nil)

		next, _ := m.Update(keyMsg("f"))
		m = next.(dashModel)

		if m.focus == focusPick {
			t.Fatalf("state %s: picker opened although search is blocked", state)
		}
		if m.transient != errSearchBlocked.Error() {
			t.Fatalf("state %s: transient = %q", state, m.transient)
		}
	}
}

func TestDashSearchKeyBlockedWhileInFlight(t *testing.T) {
	m := newTestDash(api.LiveStatus{State: api.StateIdle}, nil)
	m.searching = true

	next, _ := m.Update(keyMsg("f"))
	m = next.(dashModel)

	if m.focus == focusPick {
		t.Fatal("picker opened although a search is in flight")
	}
}

func TestDashPendingClipRequiresFile(t *testing.T) {
	m := newTestDash(api.LiveStatus{State: api.StateIdle}, nil)

	next, _ := m.Update(keyMsg("c"))
	m = next.(dashModel)

	if m.transient != errNoClipFile.Error() {
		t.Fatalf("transient = %q", m.transient)
	}
}

func TestDashClipArrivedTracksPending(t *testing.T) {
	m := newTestDash(api.LiveStatus{State: api.StateIdle}, nil)

	next, _ := m.Update(clipArrivedMsg("/srv/clips/new.mp4"))
	m = next.(dashModel)

	if m.pendingClip != "/srv/clips/new.mp4" {
		t.Fatalf("pendingClip = %q", m.pendingClip)
	}
	if len(m.ledger.entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(m.ledger.entries))
	}
}

func TestDashCmdResultGoesToLedger(t *testing.T) {
	m := newTestDash(api.LiveStatus{State: api.StateIdle}, nil)

	next, _ := m.Update(cmdDoneMsg{text: "Monitor started for alice", level: "ok"})
	m = next.(dashModel)

	if m.transient != "Monitor started for alice" {
		t.Fatalf("transient = %q", m.transient)
	}
	if len(m.ledger.entries) != 1 || m.ledger.entries[0].level != "ok" {
		t.Fatalf("ledger = %+v", m.ledger.entries)
	}
}

func TestDashSearchDoneClearsInFlight(t *testing.T) {
	m := newTestDash(api.LiveStatus{State: api.StateIdle}, nil)
	m.searching = true

	streamer := "alice"
	ts := int64(42)
	next, _ := m.Update(searchDoneMsg{resp: api.SearchResponse{Found: true, Streamer: &streamer, TimestampSeconds: &ts}})
	m = next.(dashModel)

	if m.searching {
		t.Fatal("searching flag not cleared")
	}
	if m.lastSearch == nil || !m.lastSearch.Found {
		t.Fatalf("lastSearch = %+v", m.lastSearch)
	}
	if !strings.Contains(m.transient, "alice") {
		t.Fatalf("transient = %q", m.transient)
	}
}

func TestDashPullSnapshotsBuildsRowsAndLogsTransitions(t *testing.T) {
	streamer := "alice"
	status := api.LiveStatus{State: api.StatePolling, Streamer: &streamer}
	items := []api.SessionItem{
		{VideoID: 2, CreatorName: "alice", Title: "second"},
		{VideoID: 1, CreatorName: "alice", Title: "first", Processed: true},
	}
	m := newTestDash(api.LiveStatus{State: api.StateIdle}, items)
	m.sessionsPoller.Refresh(context.Background())
	sp := monitor.NewStatusPoller(stubStatusSource{st: status}, time.Hour)
	sp.Refresh(context.Background())
	m.statusPoller = sp

	m.pullSnapshots()

	if got := len(m.table.Rows()); got != 2 {
		t.Fatalf("table rows = %d, want 2", got)
	}
	found := false
	for _, e := range m.ledger.entries {
		if strings.Contains(e.text, "Monitor state: polling") {
			found = true
		}
	}
	if !found {
		t.Fatalf("ledger missing state transition: %+v", m.ledger.entries)
	}
}

func TestDashTokenTransitionLoggedOnce(t *testing.T) {
	streamer := "alice"
	sp := monitor.NewStatusPoller(stubStatusSource{st: api.LiveStatus{State: api.StatePolling, Streamer: &streamer}}, time.Hour)
	sp.Refresh(context.Background())

	m := newTestDash(api.LiveStatus{State: api.StateIdle}, nil)
	m.statusPoller = sp

	m.pullSnapshots()
	entries := len(m.ledger.entries)
	m.pullSnapshots()

	if len(m.ledger.entries) != entries {
		t.Fatalf("unchanged token added ledger entries: %d -> %d", entries, len(m.ledger.entries))
	}
}

func TestLedgerTrimsToLimit(t *testing.T) {
	ledger := newLedgerModel(newTUITheme())

	total := dashLedgerLimit + 25
	for i := 0; i < total; i++ {
		ledger.addEntry(ledgerEntry{at: time.Now(), level: "info", text: "event"})
	}

	if len(ledger.entries) != dashLedgerLimit {
		t.Fatalf("ledger size = %d, want %d", len(ledger.entries), dashLedgerLimit)
	}
}
