package connectivity

import (
	"context"
	"log"
	"sync"
	"time"
)

// Probe reports whether the backing store is currently reachable.
type Probe func(ctx context.Context) bool

// Watcher polls a reachability probe and reports online/offline
// transitions. It is the platform connectivity signal the sync engine
// consumes; SetOnline allows the state to be forced directly, which
// tests and admin tooling use instead of a probe.
type Watcher struct {
	probe    Probe
	interval time.Duration

	mu       sync.Mutex
	online   bool
	onChange []func(online bool)
	stop     chan struct{}
	done     chan struct{}
}

// NewWatcher builds a watcher around probe. The initial state is online;
// the first failing probe flips it.
func NewWatcher(probe Probe, interval time.Duration) *Watcher {
	return &Watcher{
		probe:    probe,
		interval: interval,
		online:   true,
	}
}

// OnChange registers a transition callback. Callbacks run on the
// watcher's polling goroutine (or the SetOnline caller) and must not
// block for long.
func (w *Watcher) OnChange(fn func(online bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Online returns the current state.
func (w *Watcher) Online() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.online
}

// SetOnline forces the state, firing callbacks on a transition.
func (w *Watcher) SetOnline(online bool) {
	w.mu.Lock()
	if w.online == online {
		w.mu.Unlock()
		return
	}
	w.online = online
	callbacks := make([]func(bool), len(w.onChange))
	copy(callbacks, w.onChange)
	w.mu.Unlock()

	if online {
		log.Println("[Connectivity] Back online")
	} else {
		log.Println("[Connectivity] Offline")
	}
	for _, fn := range callbacks {
		fn(online)
	}
}

// Start begins polling until Stop is called. No-op without a probe.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.probe == nil || w.stop != nil {
		w.mu.Unlock()
		return
	}
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	stop, done := w.stop, w.done
	w.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), w.interval)
				w.SetOnline(w.probe(ctx))
				cancel()
			}
		}
	}()
}

// Stop halts polling and waits for the poller to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	stop, done := w.stop, w.done
	w.stop, w.done = nil, nil
	w.mu.Unlock()
	if stop != nil {
		close(stop)
		<-done
	}
}
