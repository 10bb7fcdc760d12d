package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <streamer>",
	Short: "Start monitoring a streamer",
	Args:  cobra.ExactArgs(1),
	RunE:  runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running live monitor",
	RunE:  runStop,
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	st, err := dispatchStart(ctx, client, nil, args[0])
	if err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}

	fmt.Printf("Monitor started for %s\n", orDash(st.Streamer))
	fmt.Print(renderStatusSummary(st))
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	_, client, err := loadClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	stopped, st, err := dispatchStop(ctx, client, nil)
	if err != nil {
		return fmt.Errorf("failed to stop monitor: %w", err)
	}

	if stopped {
		fmt.Println("Monitor stopped.")
	} else {
		fmt.Println("No monitor was running.")
	}
	fmt.Print(renderStatusSummary(st))
	return nil
}
