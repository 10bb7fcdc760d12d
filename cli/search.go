package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vodhunter/vodwatch/api"
)

var searchFormat string

var searchCmd = &cobra.Command{
	Use:   "search <clip-file>",
	Short: "Search recorded sessions for the source of a clip",
	Long: `Upload a clip and ask the service where it came from. The search runs
against the service's fingerprint index; it is refused while a live monitor
is running.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchFormat, "format", formatText, "Output format: text, json or toon")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// The mutual-exclusion gate needs the current mirrored status; fetch one
	// snapshot so an obviously blocked search never reaches the upload.
	st, err := client.LiveStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to load live status: %w", err)
	}

	resp, err := dispatchSearch(ctx, client, st, args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchFormat != formatText {
		out, err := renderPayload(searchFormat, resp)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	fmt.Print(renderSearchResult(resp))
	return nil
}

func renderSearchResult(resp api.SearchResponse) string {
	if !resp.Found {
		reason := "no match"
		if resp.Reason != nil {
			reason = *resp.Reason
		}
		return fmt.Sprintf("No match found (%s)\n", reason)
	}

	out := fmt.Sprintf("Match: %s - %s\n", orDash(resp.Streamer), orDash(resp.Title))
	if resp.VideoURL != nil {
		ts := int64(0)
		if resp.TimestampSeconds != nil {
			ts = *resp.TimestampSeconds
		}
		out += fmt.Sprintf("URL: %s?t=%ds\n", *resp.VideoURL, ts)
	}
	if resp.TimestampSeconds != nil {
		out += fmt.Sprintf("Timestamp: %s\n", formatSeconds(*resp.TimestampSeconds))
	}
	if resp.Score != nil {
		out += fmt.Sprintf("Score: %.3f\n", *resp.Score)
	}
	return out
}
