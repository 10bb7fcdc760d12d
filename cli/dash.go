package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vodhunter/vodwatch/monitor"
)

var dashNoUI bool

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Interactive dashboard for the live monitor and clip search",
	Long: `Open the interactive dashboard. The status panel mirrors the remote
monitor and refreshes continuously; the sessions table follows it, picking up
new sessions as soon as the monitor state changes.

Keys:
  s        - Start a monitor
  x        - Stop the monitor
  f        - Pick a clip and search
  r        - Refresh now
  q        - Quit`,
	RunE: runDash,
}

func init() {
	dashCmd.Flags().BoolVar(&dashNoUI, "no-ui", false, "Print a plain text summary instead of the interactive UI")
	rootCmd.AddCommand(dashCmd)
}

func runDash(cmd *cobra.Command, args []string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	if !shouldUseDashUI(isInteractiveTerminal(), dashNoUI, formatText) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		st, err := client.LiveStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to load live status from %s: %w", client.BaseURL(), err)
		}
		fmt.Print(renderStatusSummary(st))
		return nil
	}

	// Preflight; a down service is not fatal, the dashboard keeps retrying
	// on its cadence.
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	reachable := client.Health(pingCtx) == nil
	cancel()
	if !reachable {
		fmt.Printf("Warning: %s is not responding; the dashboard will keep retrying.\n", client.BaseURL())
	}

	statusPoller := monitor.NewStatusPoller(client, cfg.StatusInterval())
	sessionsPoller := monitor.NewSessionsPoller(client, cfg.SessionsInterval(), cfg.SessionsLimit, 0)

	// The sessions table follows the status poller: whenever the derived
	// change token moves, the listing re-fetches out of band instead of
	// waiting for its slow cadence.
	statusPoller.OnTokenChange(func(monitor.ChangeToken) {
		sessionsPoller.RefreshSoon()
	})

	var clips *clipWatcher
	if cfg.ClipsDir != "" {
		clips, err = newClipWatcher(cfg.ClipsDir)
		if err != nil {
			fmt.Printf("Warning: cannot watch clips directory %s: %v\n", cfg.ClipsDir, err)
			clips = nil
		}
	}

	statusPoller.Start()
	sessionsPoller.Start()
	defer func() {
		statusPoller.Stop()
		sessionsPoller.Stop()
		if clips != nil {
			clips.close()
		}
	}()

	m := newDashModel(client, statusPoller, sessionsPoller, clips, cfg.ClipsDir)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
