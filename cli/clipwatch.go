package cli

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

var clipExtensions = []string{".mp4", ".mkv", ".webm", ".mov", ".ts", ".mp3", ".m4a", ".wav"}

func isClipFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range clipExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// clipWatcher watches the configured clips directory and surfaces newly
// dropped clip files in the dashboard, so an operator can submit a fresh
// clip without reopening the picker.
type clipWatcher struct {
	watcher *fsnotify.Watcher
	events  chan string
}

func newClipWatcher(dir string) (*clipWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	cw := &clipWatcher{watcher: w, events: make(chan string, 8)}
	go cw.run()
	return cw, nil
}

func (cw *clipWatcher) run() {
	defer close(cw.events)
	for {
		select {
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !isClipFile(ev.Name) {
				continue
			}
			select {
			case cw.events <- ev.Name:
			default:
			}
		case _, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// next blocks until a clip arrives and delivers it as a message; the dash
// re-arms it after each delivery.
func (cw *clipWatcher) next() tea.Cmd {
	return func() tea.Msg {
		path, ok := <-cw.events
		if !ok {
			return nil
		}
		return clipArrivedMsg(path)
	}
}

func (cw *clipWatcher) close() {
	cw.watcher.Close()
}
