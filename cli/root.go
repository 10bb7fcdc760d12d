// Package cli implements the vodwatch command line interface and the
// interactive operator dashboard.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/vodhunter/vodwatch/api"
	"github.com/vodhunter/vodwatch/config"
)

var (
	flagConfig string
	flagAPIURL string
)

var rootCmd = &cobra.Command{
	Use:   "vodwatch",
	Short: "Operator dashboard for the VodHunter live monitor",
	Long: `vodwatch drives a remote VodHunter monitoring/ingestion service: start and
stop live stream monitors, follow ingestion progress, browse recorded
sessions, and search for the source of a clip.

All domain logic runs in the remote service; vodwatch mirrors its state over
HTTP and keeps the local view fresh.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Base URL of the VodHunter service (overrides config)")
}

// loadClient resolves configuration once and constructs the transport
// client; the base URL is fixed for the life of the process.
func loadClient() (*config.Config, *api.Client, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}
	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	return cfg, api.NewClient(cfg.APIURL), nil
}
