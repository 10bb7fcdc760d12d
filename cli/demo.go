package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vodhunter/vodwatch/fakeapi"
)

var (
	demoAddr        string
	demoGoLiveAfter time.Duration
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an embedded fake VodHunter service for local development",
	Long: `Serve a simulated VodHunter API on a local port. The simulated streamer
goes live a short while after a start command, ingestion advances on its own,
and sessions accumulate, so the dashboard can be exercised end to end without
the real backend.

The routes match the real service, including the /api prefix, so the default
configuration works as-is:
  vodwatch dash`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoAddr, "addr", ":8000", "Listen address")
	demoCmd.Flags().DurationVar(&demoGoLiveAfter, "go-live-after", 5*time.Second, "Delay before the simulated streamer goes live")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	log, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	srv := &http.Server{
		Addr:         demoAddr,
		Handler:      fakeapi.NewServer(log, demoGoLiveAfter).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("fake VodHunter service listening", zap.String("addr", demoAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
