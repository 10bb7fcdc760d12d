package cli

import (
	"strings"
	"testing"

	"github.com/vodhunter/vodwatch/api"
)

func TestRenderStateRailShowsAllPhases(t *testing.T) {
	theme := newTUITheme()
	out := renderStateRail(theme, api.StatePolling)

	for _, label := range []string{"[idle]", "[polling]", "[ingesting]"} {
		if !strings.Contains(out, label) {
			t.Fatalf("rail missing %s: %q", label, out)
		}
	}
}

func TestRenderStateRailErrorState(t *testing.T) {
	theme := newTUITheme()
	out := renderStateRail(theme, api.StateError)
	if !strings.Contains(out, "[error]") {
		t.Fatalf("rail = %q, want error marker", out)
	}
	if strings.Contains(out, "[polling]") {
		t.Fatalf("error rail should not show the normal phases: %q", out)
	}
}

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"much longer than limit", 10, "much lo..."},
		{"abc", 2, "ab"},
		{"anything", 0, ""},
	}

	for _, tc := range cases {
		if got := truncateRunes(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncateRunes(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{61, "00:01:01"},
		{3723, "01:02:03"},
		{-5, "00:00:00"},
	}

	for _, tc := range cases {
		if got := formatSeconds(tc.in); got != tc.want {
			t.Fatalf("formatSeconds(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLiveLabel(t *testing.T) {
	yes, no := true, false
	if got := liveLabel(nil); got != "unknown" {
		t.Fatalf("liveLabel(nil) = %q", got)
	}
	if got := liveLabel(&yes); got != "yes" {
		t.Fatalf("liveLabel(true) = %q", got)
	}
	if got := liveLabel(&no); got != "no" {
		t.Fatalf("liveLabel(false) = %q", got)
	}
}

func TestRenderStatusSummary(t *testing.T) {
	streamer := "alice"
	live := true
	vid := int64(7)
	st := api.LiveStatus{
		State:               api.StateIngesting,
		Streamer:            &streamer,
		IsLive:              &live,
		CurrentVideoID:      &vid,
		IngestCursorSeconds: i64(300),
	}

	out := renderStatusSummary(st)
	for _, want := range []string{"State: ingesting", "Streamer: alice", "Live: yes", "Video: 7", "00:05:00", "Search: blocked"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderStatusSummaryIdle(t *testing.T) {
	out := renderStatusSummary(api.LiveStatus{State: api.StateIdle})
	if !strings.Contains(out, "Search: available") {
		t.Fatalf("idle summary should offer search:\n%s", out)
	}
	if strings.Contains(out, "Video:") {
		t.Fatalf("idle summary must not show progress fields:\n%s", out)
	}
}

func TestFormatSessionLine(t *testing.T) {
	line := formatSessionLine(api.SessionItem{
		VideoID: 42, CreatorName: "alice", Title: "a broadcast", URL: "https://vods.example/alice/42", Processed: true,
	})
	for _, want := range []string{"[x]", "42", "alice", "a broadcast", "https://vods.example/alice/42"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line missing %q: %q", want, line)
		}
	}
}

func TestRenderSearchResult(t *testing.T) {
	streamer := "alice"
	title := "a broadcast"
	url := "https://vods.example/alice/7"
	ts := int64(42)
	score := 0.93
	out := renderSearchResult(api.SearchResponse{
		Found: true, Streamer: &streamer, Title: &title, VideoURL: &url,
		TimestampSeconds: &ts, Score: &score,
	})
	for _, want := range []string{"alice", "a broadcast", "?t=42s", "00:00:42", "0.930"} {
		if !strings.Contains(out, want) {
			t.Fatalf("result missing %q:\n%s", want, out)
		}
	}

	reason := "clip too short"
	out = renderSearchResult(api.SearchResponse{Found: false, Reason: &reason})
	if !strings.Contains(out, "clip too short") {
		t.Fatalf("miss result missing reason:\n%s", out)
	}
}

func i64(v int64) *int64 { return &v }
