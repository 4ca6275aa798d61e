package profile

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/fraudlens-ai/fraudlens/internal/event"
	"github.com/fraudlens-ai/fraudlens/internal/logging"
)

// Watcher reloads the registry when its profile directory changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	registry *Registry
	log      zerolog.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher over the registry's directory. Returns
// nil if the registry has no directory to watch.
func NewWatcher(registry *Registry) (*Watcher, error) {
	log := logging.Component("profile")
	if registry.Dir() == "" {
		log.Debug().Msg("No profile directory, watcher disabled")
		return nil, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(registry.Dir()); err != nil {
		w.Close()
		return nil, err
	}

	log.Info().Str("dir", registry.Dir()).Msg("Profile watcher initialized")

	return &Watcher{
		watcher:  w,
		registry: registry,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching for profile changes.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Editors save through renames as often as writes, so any
			// mutation of a profile file triggers a full reload.
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 && isProfileFile(ev.Name) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("Profile watcher error")
		}
	}
}

func (w *Watcher) reload() {
	if err := w.registry.Load(); err != nil {
		w.log.Error().Err(err).Msg("Profile reload failed")
		return
	}

	event.PublishSync(event.Event{
		Type: event.ProfileReloaded,
		Data: event.ProfileReloadedData{Profiles: w.registry.Names()},
	})
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	// Signal stop
	select {
	case <-w.stopCh:
		// Already stopped
	default:
		close(w.stopCh)
	}

	// Wait for run() to finish if it was started
	if started {
		<-w.doneCh
	}

	return w.watcher.Close()
}
