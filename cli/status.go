package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vodhunter/vodwatch/api"
	"github.com/vodhunter/vodwatch/monitor"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current live monitor status",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", formatText, "Output format: text, json or toon")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	st, err := client.LiveStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to load live status from %s: %w", client.BaseURL(), err)
	}

	if statusFormat != formatText {
		out, err := renderPayload(statusFormat, st)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	fmt.Print(renderStatusSummary(st))
	return nil
}

func renderStatusSummary(st api.LiveStatus) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("State: %s\n", st.State))
	sb.WriteString(fmt.Sprintf("Streamer: %s\n", orDash(st.Streamer)))
	sb.WriteString(fmt.Sprintf("Live: %s\n", liveLabel(st.IsLive)))
	sb.WriteString(fmt.Sprintf("Started at: %s\n", orDash(st.StartedAt)))
	sb.WriteString(fmt.Sprintf("Last check: %s\n", orDash(st.LastCheckAt)))
	if st.State == api.StateError && st.LastError != nil {
		sb.WriteString(fmt.Sprintf("Last error: %s\n", *st.LastError))
	}
	if st.CurrentVideoID != nil {
		sb.WriteString(fmt.Sprintf("Video: %d\n", *st.CurrentVideoID))
	}
	if st.CurrentVODURL != nil {
		sb.WriteString(fmt.Sprintf("VOD: %s\n", *st.CurrentVODURL))
	}
	if st.IngestCursorSeconds != nil {
		sb.WriteString(fmt.Sprintf("Ingest cursor: %s\n", formatSeconds(*st.IngestCursorSeconds)))
	}
	if st.LagSeconds != nil {
		sb.WriteString(fmt.Sprintf("Lag: %s\n", formatSeconds(*st.LagSeconds)))
	}
	if monitor.MonitorRunning(st) {
		sb.WriteString("Search: blocked while monitoring\n")
	} else {
		sb.WriteString("Search: available\n")
	}
	return sb.String()
}

func formatSeconds(s int64) string {
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
