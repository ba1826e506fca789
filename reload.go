package strata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// ReloadingStrategy decides when a file-backed configuration must be
// re-read. Active strategies (watcher, periodic) call the trigger passed
// to Start; passive ones answer NeedsReload on access.
type ReloadingStrategy interface {
	Start(ctx context.Context, path string, trigger func()) error
	Stop()
	// NeedsReload is consulted on every access to a cached result
	NeedsReload(path string) bool
	// Reloaded tells the strategy the file was just (re)read
	Reloaded(path string)
}

type fileState struct {
	modTime time.Time
	size    int64
}

func statFile(path string) (fileState, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}, false
	}
	return fileState{modTime: info.ModTime(), size: info.Size()}, true
}

// WatchReloadingStrategy triggers a reload when the file changes on
// disk. The parent directory is watched so atomic replace-by-rename is
// seen too. Rapid event bursts collapse into one trigger per debounce
// window.
type WatchReloadingStrategy struct {
	debounce time.Duration
	logger   Logger

	mutex   sync.Mutex
	watcher *fsnotify.Watcher
	timer   *time.Timer
	done    chan struct{}
}

// NewWatchReloadingStrategy creates a watcher strategy. A zero debounce
// defaults to 100ms.
func NewWatchReloadingStrategy(debounce time.Duration) *WatchReloadingStrategy {
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}
	return &WatchReloadingStrategy{debounce: debounce, logger: NopLogger{}}
}

func (s *WatchReloadingStrategy) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *WatchReloadingStrategy) Start(ctx context.Context, path string, trigger func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	s.mutex.Lock()
	s.watcher = watcher
	s.done = make(chan struct{})
	done := s.done
	s.mutex.Unlock()

	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				s.logger.Debug("configuration file changed", map[string]interface{}{
					"path": path,
					"op":   event.Op.String(),
				})
				s.scheduleTrigger(trigger)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("configuration watcher error", map[string]interface{}{
					"path":  path,
					"error": err,
				})
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()

	return nil
}

func (s *WatchReloadingStrategy) scheduleTrigger(trigger func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, trigger)
}

func (s *WatchReloadingStrategy) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *WatchReloadingStrategy) NeedsReload(string) bool { return false }
func (s *WatchReloadingStrategy) Reloaded(string)         {}

// PeriodicReloadingStrategy polls the file on a cron schedule and
// triggers a reload when its modification time or size changed
type PeriodicReloadingStrategy struct {
	spec   string
	logger Logger

	mutex sync.Mutex
	cron  *cron.Cron
	last  fileState
}

// NewPeriodicReloadingStrategy polls according to a cron expression,
// including the @every form
func NewPeriodicReloadingStrategy(spec string) *PeriodicReloadingStrategy {
	return &PeriodicReloadingStrategy{spec: spec, logger: NopLogger{}}
}

// NewIntervalReloadingStrategy polls at a fixed interval
func NewIntervalReloadingStrategy(interval time.Duration) *PeriodicReloadingStrategy {
	return NewPeriodicReloadingStrategy(fmt.Sprintf("@every %s", interval))
}

func (s *PeriodicReloadingStrategy) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *PeriodicReloadingStrategy) Start(ctx context.Context, path string, trigger func()) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if state, ok := statFile(path); ok {
		s.last = state
	}

	runner := cron.New()
	if _, err := runner.AddFunc(s.spec, func() {
		if s.check(path) {
			s.logger.Info("configuration file changed", map[string]interface{}{"path": path})
			trigger()
		}
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", s.spec, err)
	}
	runner.Start()
	s.cron = runner

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

func (s *PeriodicReloadingStrategy) check(path string) bool {
	state, ok := statFile(path)
	if !ok {
		return false
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if state == s.last {
		return false
	}
	s.last = state
	return true
}

func (s *PeriodicReloadingStrategy) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

func (s *PeriodicReloadingStrategy) NeedsReload(string) bool { return false }

func (s *PeriodicReloadingStrategy) Reloaded(path string) {
	if state, ok := statFile(path); ok {
		s.mutex.Lock()
		s.last = state
		s.mutex.Unlock()
	}
}

// ModTimeReloadingStrategy is passive: every access to a cached builder
// result stats the file, at most once per refresh delay, and asks for a
// reload when the file changed since it was read
type ModTimeReloadingStrategy struct {
	refreshDelay time.Duration

	mutex     sync.Mutex
	last      fileState
	lastCheck time.Time
}

// NewModTimeReloadingStrategy creates a stat-on-access strategy. The
// delay limits how often the file is stat'ed; zero checks every access.
func NewModTimeReloadingStrategy(refreshDelay time.Duration) *ModTimeReloadingStrategy {
	return &ModTimeReloadingStrategy{refreshDelay: refreshDelay}
}

func (s *ModTimeReloadingStrategy) Start(context.Context, string, func()) error { return nil }
func (s *ModTimeReloadingStrategy) Stop()                                       {}

func (s *ModTimeReloadingStrategy) NeedsReload(path string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	if s.refreshDelay > 0 && now.Sub(s.lastCheck) < s.refreshDelay {
		return false
	}
	s.lastCheck = now

	state, ok := statFile(path)
	if !ok {
		return false
	}
	return state != s.last
}

func (s *ModTimeReloadingStrategy) Reloaded(path string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if state, ok := statFile(path); ok {
		s.last = state
	}
	s.lastCheck = time.Now()
}
