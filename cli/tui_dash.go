package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vodhunter/vodwatch/api"
	"github.com/vodhunter/vodwatch/monitor"
)

const dashUITick = 300 * time.Millisecond

type dashFocus int

const (
	focusMain dashFocus = iota
	focusStart
	focusPick
)

type dashTickMsg time.Time

type clipArrivedMsg string

type cmdDoneMsg struct {
	text  string
	level string
}

type searchDoneMsg struct {
	resp api.SearchResponse
	err  error
}

type dashModel struct {
	theme tuiTheme

	client         commandAPI
	statusPoller   *monitor.StatusPoller
	sessionsPoller *monitor.SessionsPoller
	clips          *clipWatcher

	statusSnap   monitor.StatusSnapshot
	sessionsSnap monitor.SessionsSnapshot
	lastToken    monitor.ChangeToken
	lastStatErr  string
	lastSessErr  string

	table  table.Model
	input  textinput.Model
	picker filepicker.Model
	spin   spinner.Model
	ledger ledgerModel

	focus       dashFocus
	searching   bool
	transient   string
	lastSearch  *api.SearchResponse
	pendingClip string

	width  int
	height int
}

func newDashModel(client commandAPI, sp *monitor.StatusPoller, ssp *monitor.SessionsPoller, clips *clipWatcher, clipsDir string) dashModel {
	theme := newTUITheme()

	cols := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Creator", Width: 18},
		{Title: "Title", Width: 42},
		{Title: "Done", Width: 4},
	}
	tbl := table.New(table.WithColumns(cols), table.WithHeight(8))
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Bold(true).Foreground(lipgloss.Color("#9FD3FF"))
	ts.Selected = ts.Selected.Foreground(lipgloss.Color("#0E1116")).Background(lipgloss.Color("#65B5FF"))
	tbl.SetStyles(ts)

	input := textinput.New()
	input.Placeholder = "streamer name"
	input.CharLimit = 100

	picker := filepicker.New()
	picker.AllowedTypes = clipExtensions
	if clipsDir != "" {
		picker.CurrentDirectory = clipsDir
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	snap := sp.Snapshot()
	return dashModel{
		theme:          theme,
		client:         client,
		statusPoller:   sp,
		sessionsPoller: ssp,
		clips:          clips,
		statusSnap:     snap,
		sessionsSnap:   ssp.Snapshot(),
		lastToken:      monitor.TokenFor(snap.Status),
		table:          tbl,
		input:          input,
		picker:         picker,
		spin:           spin,
		ledger:         newLedgerModel(theme),
	}
}

func dashTick() tea.Cmd {
	return tea.Tick(dashUITick, func(t time.Time) tea.Msg {
		return dashTickMsg(t)
	})
}

func (m dashModel) Init() tea.Cmd {
	cmds := []tea.Cmd{dashTick(), m.spin.Tick}
	if m.clips != nil {
		cmds = append(cmds, m.clips.next())
	}
	return tea.Batch(cmds...)
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width - 6)
		m.picker.Height = clamp(msg.Height-12, 5, 20)
		m.ledger.setSize(msg.Width-6, clamp(msg.Height-28, 4, 12))

	case tea.KeyMsg:
		return m.handleKey(msg)

	case dashTickMsg:
		m.pullSnapshots()
		cmds = append(cmds, dashTick())

	case cmdDoneMsg:
		m.transient = msg.text
		m.ledger.addEntry(ledgerEntry{at: time.Now(), level: msg.level, text: msg.text})

	case searchDoneMsg:
		m.searching = false
		if msg.err != nil {
			m.transient = "Search failed: " + msg.err.Error()
			m.ledger.addEntry(ledgerEntry{at: time.Now(), level: "error", text: m.transient})
		} else {
			resp := msg.resp
			m.lastSearch = &resp
			text := "Search finished: no match"
			if resp.Found {
				text = fmt.Sprintf("Search hit: %s @ %s", orDash(resp.Streamer), formatSeconds(deref(resp.TimestampSeconds)))
			}
			m.transient = text
			m.ledger.addEntry(ledgerEntry{at: time.Now(), level: "ok", text: text})
		}

	case clipArrivedMsg:
		m.pendingClip = string(msg)
		m.ledger.addEntry(ledgerEntry{at: time.Now(), level: "info", text: "New clip: " + string(msg)})
		if m.clips != nil {
			cmds = append(cmds, m.clips.next())
		}

	case spinner.TickMsg:
		if m.statusSnap.Loading || m.sessionsSnap.Loading || m.searching {
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			cmds = append(cmds, m.spin.Tick)
		}
	}

	if m.focus == focusPick {
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.focus = focusMain
			return m, tea.Batch(append(cmds, m.beginSearch(path))...)
		}
	}

	m.ledger, cmd = m.ledger.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m dashModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusStart:
		switch msg.String() {
		case "esc":
			m.focus = focusMain
			return m, nil
		case "enter":
			streamer := m.input.Value()
			m.focus = focusMain
			return m, m.startMonitorCmd(streamer)
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

	case focusPick:
		if msg.String() == "esc" {
			m.focus = focusMain
			return m, nil
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.focus = focusMain
			return m, m.beginSearch(path)
		}
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "s":
		if monitor.MonitorRunning(m.statusSnap.Status) {
			m.transient = "A monitor is already running"
			return m, nil
		}
		m.focus = focusStart
		m.input.Reset()
		return m, m.input.Focus()

	case "x":
		if !monitor.MonitorRunning(m.statusSnap.Status) {
			m.transient = "No monitor is running"
			return m, nil
		}
		return m, m.stopMonitorCmd()

	case "f":
		if cmd, ok := m.checkSearchReady(); !ok {
			return m, cmd
		}
		m.focus = focusPick
		return m, m.picker.Init()

	case "c":
		if cmd, ok := m.checkSearchReady(); !ok {
			return m, cmd
		}
		if m.pendingClip == "" {
			m.transient = errNoClipFile.Error()
			return m, nil
		}
		return m, m.beginSearch(m.pendingClip)

	case "r":
		return m, m.refreshNowCmd()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *dashModel) checkSearchReady() (tea.Cmd, bool) {
	if m.searching {
		m.transient = "A search is already in flight"
		return nil, false
	}
	if !monitor.SearchPermitted(m.statusSnap.Status) {
		m.transient = errSearchBlocked.Error()
		return nil, false
	}
	return nil, true
}

// pullSnapshots copies the pollers' caches into the view model. State
// transitions and newly surfaced errors go to the ledger exactly once, keyed
// on the change token rather than on every poll tick.
func (m *dashModel) pullSnapshots() {
	m.statusSnap = m.statusPoller.Snapshot()
	m.sessionsSnap = m.sessionsPoller.Snapshot()

	tok := monitor.TokenFor(m.statusSnap.Status)
	if tok != m.lastToken {
		m.lastToken = tok
		text := "Monitor state: " + string(tok.State)
		if tok.HasVideo {
			text += " (video " + strconv.FormatInt(tok.VideoID, 10) + ")"
		}
		level := "info"
		if tok.State == api.StateError {
			level = "error"
		}
		m.ledger.addEntry(ledgerEntry{at: time.Now(), level: level, text: text})
	}

	if m.statusSnap.Err != m.lastStatErr {
		m.lastStatErr = m.statusSnap.Err
		if m.statusSnap.Err != "" {
			m.ledger.addEntry(ledgerEntry{at: time.Now(), level: "warn", text: m.statusSnap.Err})
		}
	}
	if m.sessionsSnap.Err != m.lastSessErr {
		m.lastSessErr = m.sessionsSnap.Err
		if m.sessionsSnap.Err != "" {
			m.ledger.addEntry(ledgerEntry{at: time.Now(), level: "warn", text: m.sessionsSnap.Err})
		}
	}

	rows := make([]table.Row, 0, len(m.sessionsSnap.Items))
	for _, it := range m.sessionsSnap.Items {
		done := ""
		if it.Processed {
			done = "x"
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(it.VideoID, 10),
			truncateRunes(it.CreatorName, 18),
			truncateRunes(it.Title, 42),
			done,
		})
	}
	m.table.SetRows(rows)
}

func (m dashModel) startMonitorCmd(streamer string) tea.Cmd {
	client, ref := m.client, m.statusPoller
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		st, err := dispatchStart(ctx, client, ref, streamer)
		if err != nil {
			return cmdDoneMsg{text: "Start failed: " + err.Error(), level: "error"}
		}
		return cmdDoneMsg{text: "Monitor started for " + orDash(st.Streamer), level: "ok"}
	}
}

func (m dashModel) stopMonitorCmd() tea.Cmd {
	client, ref := m.client, m.statusPoller
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		stopped, _, err := dispatchStop(ctx, client, ref)
		if err != nil {
			return cmdDoneMsg{text: "Stop failed: " + err.Error(), level: "error"}
		}
		if !stopped {
			return cmdDoneMsg{text: "No monitor was running", level: "warn"}
		}
		return cmdDoneMsg{text: "Monitor stopped", level: "ok"}
	}
}

func (m *dashModel) beginSearch(path string) tea.Cmd {
	m.searching = true
	m.transient = "Searching " + path
	client, current := m.client, m.statusSnap.Status
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		resp, err := dispatchSearch(ctx, client, current, path)
		return searchDoneMsg{resp: resp, err: err}
	}
}

func (m dashModel) refreshNowCmd() tea.Cmd {
	sp, ssp := m.statusPoller, m.sessionsPoller
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		sp.Refresh(ctx)
		ssp.RefreshSoon()
		return cmdDoneMsg{text: "Manual refresh requested", level: "info"}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
