package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vodhunter/vodwatch/api"
)

var (
	sessionsFormat string
	sessionsLimit  int
	sessionsOffset int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded monitoring sessions",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsFormat, "format", formatText, "Output format: text, json or toon")
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 50, "Maximum sessions to list (1-200)")
	sessionsCmd.Flags().IntVar(&sessionsOffset, "offset", 0, "Listing offset")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	items, err := client.LiveSessions(ctx, sessionsLimit, sessionsOffset)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	if sessionsFormat != formatText {
		out, err := renderPayload(sessionsFormat, items)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	if len(items) == 0 {
		fmt.Println("No sessions recorded.")
		return nil
	}
	for _, it := range items {
		fmt.Println(formatSessionLine(it))
	}
	return nil
}

func formatSessionLine(it api.SessionItem) string {
	processed := " "
	if it.Processed {
		processed = "x"
	}
	return fmt.Sprintf("[%s] %6d  %-20s %-40s %s",
		processed, it.VideoID, truncateRunes(it.CreatorName, 20), truncateRunes(it.Title, 40), it.URL)
}
