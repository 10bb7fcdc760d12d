package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vodhunter/vodwatch/api"
	"github.com/vodhunter/vodwatch/monitor"
)

func (m dashModel) View() string {
	var sections []string

	sections = append(sections, m.theme.title.Render("vodwatch")+m.theme.muted.Render("  VodHunter operator dashboard"))
	sections = append(sections, m.viewStatusPanel())

	switch m.focus {
	case focusStart:
		sections = append(sections, m.viewStartPanel())
	case focusPick:
		sections = append(sections, m.viewPickPanel())
	default:
		sections = append(sections, m.viewSessionsPanel())
		sections = append(sections, m.viewSearchPanel())
		if len(m.ledger.entries) > 0 {
			sections = append(sections, m.theme.panel.Render(m.ledger.View()))
		}
	}

	if m.transient != "" {
		sections = append(sections, m.theme.info.Render(m.transient))
	}
	sections = append(sections, m.viewHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m dashModel) viewStatusPanel() string {
	st := m.statusSnap.Status
	var sb strings.Builder

	sb.WriteString(renderStateRail(m.theme, st.State))
	if m.statusSnap.Loading {
		sb.WriteString("  " + m.spin.View() + m.theme.muted.Render("loading"))
	}
	sb.WriteString("\n")

	sb.WriteString(renderField(m.theme, "Streamer", orDash(st.Streamer)) + "\n")
	sb.WriteString(renderField(m.theme, "Live", liveLabel(st.IsLive)) + "\n")
	sb.WriteString(renderField(m.theme, "Started", orDash(st.StartedAt)) + "\n")
	sb.WriteString(renderField(m.theme, "Last check", orDash(st.LastCheckAt)))

	if st.State == api.StateError && st.LastError != nil {
		sb.WriteString("\n" + m.theme.danger.Render("Server error: "+*st.LastError))
	}
	if st.CurrentVideoID != nil {
		sb.WriteString("\n" + renderField(m.theme, "Video", fmt.Sprintf("%d", *st.CurrentVideoID)))
	}
	if st.IngestCursorSeconds != nil {
		cursor := formatSeconds(*st.IngestCursorSeconds)
		if st.LagSeconds != nil {
			cursor += m.theme.muted.Render(fmt.Sprintf("  (lag %s)", formatSeconds(*st.LagSeconds)))
		}
		sb.WriteString("\n" + renderField(m.theme, "Ingested", cursor))
	}
	if st.CurrentVODURL != nil {
		sb.WriteString("\n" + renderField(m.theme, "VOD", *st.CurrentVODURL))
	}
	if m.statusSnap.Err != "" {
		sb.WriteString("\n" + m.theme.warn.Render(m.statusSnap.Err))
	}

	return m.theme.panel.Render(sb.String())
}

func (m dashModel) viewSessionsPanel() string {
	var sb strings.Builder
	sb.WriteString(m.theme.subtitle.Render(fmt.Sprintf("Sessions (%d)", len(m.sessionsSnap.Items))))
	if m.sessionsSnap.Loading {
		sb.WriteString("  " + m.spin.View() + m.theme.muted.Render("loading"))
	}
	sb.WriteString("\n")

	if len(m.sessionsSnap.Items) == 0 && !m.sessionsSnap.Loading {
		sb.WriteString(m.theme.muted.Render("No sessions recorded yet."))
	} else {
		sb.WriteString(m.table.View())
	}
	if m.sessionsSnap.Err != "" {
		sb.WriteString("\n" + m.theme.warn.Render(m.sessionsSnap.Err))
	}

	return m.theme.panel.Render(sb.String())
}

func (m dashModel) viewSearchPanel() string {
	var sb strings.Builder
	sb.WriteString(m.theme.subtitle.Render("Clip search"))
	sb.WriteString("\n")

	switch {
	case m.searching:
		sb.WriteString(m.spin.View() + m.theme.text.Render("searching..."))
	case !monitor.SearchPermitted(m.statusSnap.Status):
		sb.WriteString(m.theme.warn.Render("Blocked while a live monitor is running"))
	default:
		sb.WriteString(m.theme.muted.Render("Press f to pick a clip file"))
	}

	if m.pendingClip != "" {
		sb.WriteString("\n" + m.theme.info.Render("New clip: "+m.pendingClip) + m.theme.muted.Render("  (c to search it)"))
	}

	if m.lastSearch != nil {
		sb.WriteString("\n")
		r := *m.lastSearch
		if r.Found {
			sb.WriteString(m.theme.ok.Render(fmt.Sprintf("Match: %s - %s @ %s",
				orDash(r.Streamer), orDash(r.Title), formatSeconds(deref(r.TimestampSeconds)))))
			if r.VideoURL != nil {
				sb.WriteString("\n" + m.theme.text.Render(fmt.Sprintf("%s?t=%ds", *r.VideoURL, deref(r.TimestampSeconds))))
			}
			if r.Score != nil {
				sb.WriteString(m.theme.muted.Render(fmt.Sprintf("  score %.3f", *r.Score)))
			}
		} else {
			reason := "no match"
			if r.Reason != nil {
				reason = *r.Reason
			}
			sb.WriteString(m.theme.muted.Render("No match found: " + reason))
		}
	}

	return m.theme.panel.Render(sb.String())
}

func (m dashModel) viewStartPanel() string {
	var sb strings.Builder
	sb.WriteString(m.theme.subtitle.Render("Start monitor") + "\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n" + m.theme.help.Render("[Enter] Start  [Esc] Cancel"))
	return m.theme.panel.Render(sb.String())
}

func (m dashModel) viewPickPanel() string {
	var sb strings.Builder
	sb.WriteString(m.theme.subtitle.Render("Pick a clip") + "\n")
	sb.WriteString(m.picker.View())
	sb.WriteString("\n" + m.theme.help.Render("[Enter] Search  [Esc] Cancel"))
	return m.theme.panel.Render(sb.String())
}

func (m dashModel) viewHelp() string {
	running := monitor.MonitorRunning(m.statusSnap.Status)
	keys := []string{}
	if !running {
		keys = append(keys, "[s] Start monitor")
	} else {
		keys = append(keys, "[x] Stop monitor")
	}
	if monitor.SearchPermitted(m.statusSnap.Status) && !m.searching {
		keys = append(keys, "[f] Search clip")
	}
	keys = append(keys, "[r] Refresh", "[q] Quit")
	return m.theme.help.Render(strings.Join(keys, "  "))
}
