package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type ledgerEntry struct {
	at    time.Time
	level string
	text  string
}

type ledgerModel struct {
	viewport   viewport.Model
	entries    []ledgerEntry
	theme      tuiTheme
	autoScroll bool
}

func newLedgerModel(theme tuiTheme) ledgerModel {
	vp := viewport.New(0, 0)
	vp.YPosition = 0

	return ledgerModel{
		viewport:   vp,
		entries:    make([]ledgerEntry, 0, 128),
		theme:      theme,
		autoScroll: true,
	}
}

func (m ledgerModel) Update(msg tea.Msg) (ledgerModel, tea.Cmd) {
	var cmd tea.Cmd

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			m.autoScroll = false
		case "down", "j":
			if m.viewport.AtBottom() {
				m.autoScroll = true
			}
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	if m.viewport.AtBottom() {
		m.autoScroll = true
	}
	return m, cmd
}

func (m *ledgerModel) setSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = h
	m.updateContent()
}

const dashLedgerLimit = 200

func (m *ledgerModel) addEntry(e ledgerEntry) {
	m.entries = append(m.entries, e)
	if len(m.entries) > dashLedgerLimit {
		m.entries = m.entries[len(m.entries)-dashLedgerLimit:]
	}
	m.updateContent()
}

func (m *ledgerModel) updateContent() {
	m.viewport.SetContent(m.renderContent())
	if m.autoScroll {
		m.viewport.GotoBottom()
	}
}

func (m ledgerModel) renderContent() string {
	var b strings.Builder
	for _, ev := range m.entries {
		levelStyle := m.theme.info
		switch ev.level {
		case "warn":
			levelStyle = m.theme.warn
		case "error":
			levelStyle = m.theme.danger
		case "ok":
			levelStyle = m.theme.ok
		}

		line := fmt.Sprintf("%s %s %s",
			m.theme.muted.Render(ev.at.Format("15:04:05")),
			levelStyle.Render(strings.ToUpper(ev.level)),
			ev.text)
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m ledgerModel) View() string {
	return m.viewport.View()
}
