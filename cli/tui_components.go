package cli

import (
	"fmt"
	"strings"

	"github.com/vodhunter/vodwatch/api"
)

// monitorRail is the remote monitor lifecycle as displayed; the client only
// mirrors the state, it never drives these transitions.
var monitorRail = []api.LiveState{api.StateIdle, api.StatePolling, api.StateIngesting}

func renderStateRail(theme tuiTheme, state api.LiveState) string {
	if state == api.StateError {
		return theme.danger.Render("[error]")
	}

	current := -1
	for i, s := range monitorRail {
		if s == state {
			current = i
		}
	}

	segments := make([]string, 0, len(monitorRail)*2-1)
	for i, s := range monitorRail {
		label := "[" + string(s) + "]"
		switch {
		case i < current:
			segments = append(segments, theme.railDone.Render(label))
		case i == current:
			segments = append(segments, theme.railCurrent.Render(label))
		default:
			segments = append(segments, theme.railPending.Render(label))
		}
		if i < len(monitorRail)-1 {
			connector := theme.railPending.Render("->")
			if i < current {
				connector = theme.railDone.Render("->")
			}
			segments = append(segments, connector)
		}
	}

	return strings.Join(segments, " ")
}

func renderField(theme tuiTheme, label, value string) string {
	if value == "" {
		value = "-"
	}
	return theme.muted.Render(fmt.Sprintf("%-14s", label)) + theme.text.Render(value)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return fmt.Sprintf("%s...", string(r[:limit-3]))
}

func orDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}

func liveLabel(p *bool) string {
	if p == nil {
		return "unknown"
	}
	if *p {
		return "yes"
	}
	return "no"
}
