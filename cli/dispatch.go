package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vodhunter/vodwatch/api"
	"github.com/vodhunter/vodwatch/monitor"
)

// commandAPI is the part of the transport client that command dispatch uses.
type commandAPI interface {
	StartMonitor(ctx context.Context, streamer string) (api.LiveStatus, error)
	StopMonitor(ctx context.Context) (bool, api.LiveStatus, error)
	SearchClip(ctx context.Context, filename string, clip io.Reader) (api.SearchResponse, error)
}

// statusRefresher triggers a manual status fetch after a command, so the
// mirrored state catches up without waiting for the next scheduled poll.
type statusRefresher interface {
	Refresh(ctx context.Context)
}

// Validation failures are rejected locally; no request reaches the wire.
var (
	errEmptyStreamer = errors.New("streamer name must not be empty")
	errNoClipFile    = errors.New("no clip file selected")
	errSearchBlocked = errors.New("search is unavailable while a live monitor is running")
)

func dispatchStart(ctx context.Context, c commandAPI, ref statusRefresher, streamer string) (api.LiveStatus, error) {
	streamer = strings.TrimSpace(streamer)
	if streamer == "" {
		return api.LiveStatus{}, errEmptyStreamer
	}

	st, err := c.StartMonitor(ctx, streamer)
	if err != nil {
		return api.LiveStatus{}, err
	}
	if ref != nil {
		ref.Refresh(ctx)
	}
	return st, nil
}

func dispatchStop(ctx context.Context, c commandAPI, ref statusRefresher) (bool, api.LiveStatus, error) {
	stopped, st, err := c.StopMonitor(ctx)
	if err != nil {
		return false, api.LiveStatus{}, err
	}
	if ref != nil {
		ref.Refresh(ctx)
	}
	return stopped, st, nil
}

// dispatchSearch gates on the current mirrored status: search and live
// monitoring are mutually exclusive, and the gate is derived from the one
// cached snapshot, never from a separately tracked flag.
func dispatchSearch(ctx context.Context, c commandAPI, current api.LiveStatus, path string) (api.SearchResponse, error) {
	if !monitor.SearchPermitted(current) {
		return api.SearchResponse{}, errSearchBlocked
	}
	if strings.TrimSpace(path) == "" {
		return api.SearchResponse{}, errNoClipFile
	}

	f, err := os.Open(path)
	if err != nil {
		return api.SearchResponse{}, fmt.Errorf("failed to open clip: %w", err)
	}
	defer f.Close()

	return c.SearchClip(ctx, path, f)
}
