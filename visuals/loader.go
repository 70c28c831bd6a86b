// Package visuals downloads server-rendered visualization images with a
// bounded, single-substitution fallback policy, and renders terminal
// previews of the results.
package visuals

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"mixanalyzer/core"
	"mixanalyzer/logging"
)

// State is the load state of one visualization target.
type State string

const (
	StatePending State = "pending"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

// terminal reports whether a state is final.
func (s State) terminal() bool {
	return s == StateLoaded || s == StateError
}

// pollInterval is how often WaitLoaded re-checks target states.
const pollInterval = 500 * time.Millisecond

// ErrWaitTimeout is returned by WaitLoaded when targets are still unresolved
// at the deadline; the affected targets are forced to StateError.
var ErrWaitTimeout = fmt.Errorf("visualization unavailable: load timed out")

// Target names one visualization to fetch.
type Target struct {
	Name string
	Src  string
}

// Loader downloads visualization images into a local directory, tracking
// per-target state. Exactly one fallback substitution happens per failed
// target: the generated placeholder is written in place of the image, and
// the target ends in StateError.
type Loader struct {
	baseURL string
	dir     string
	client  *http.Client
	timeout time.Duration
	logger  *logging.Logger

	mu     sync.Mutex
	states map[string]State
	paths  map[string]string
}

// NewLoader builds a loader storing images under cfg.VisualsDir.
func NewLoader(cfg *core.Config, logger *logging.Logger) *Loader {
	return &Loader{
		baseURL: cfg.ServerURL,
		dir:     cfg.VisualsDir,
		client:  core.GetDefaultHTTPClient(cfg),
		timeout: cfg.VisualsWait,
		logger:  logger,
		states:  make(map[string]State),
		paths:   make(map[string]string),
	}
}

// Fetch resolves one target synchronously. An empty Src applies the
// placeholder immediately with no network attempt and marks the target
// StateError. Download failures get exactly one placeholder substitution.
// The returned path always names a file that exists, placeholder or real.
func (l *Loader) Fetch(ctx context.Context, t Target) (string, State) {
	dest := filepath.Join(l.dir, t.Name+".png")

	if t.Src == "" {
		l.logger.Debug("no source for visualization, using placeholder",
			zap.String("name", t.Name))
		return l.substitute(t.Name, dest)
	}

	l.setState(t.Name, StateLoading)
	if err := l.download(ctx, t.Src, dest); err != nil {
		l.logger.Warn("visualization download failed",
			zap.String("name", t.Name),
			zap.String("src", t.Src),
			zap.Error(err))
		return l.substitute(t.Name, dest)
	}

	l.mu.Lock()
	l.states[t.Name] = StateLoaded
	l.paths[t.Name] = dest
	l.mu.Unlock()
	return dest, StateLoaded
}

// FetchAll fetches every present visualization concurrently and returns once
// all goroutines are started. Use WaitLoaded to block until resolution.
func (l *Loader) FetchAll(ctx context.Context, v *core.Visualizations) {
	if v == nil {
		return
	}
	targets := []Target{
		{Name: "waveform", Src: v.Waveform},
		{Name: "spectrogram", Src: v.Spectrogram},
		{Name: "spectrum", Src: v.Spectrum},
		{Name: "chromagram", Src: v.Chromagram},
		{Name: "stereo_field", Src: v.StereoField},
	}
	for _, t := range targets {
		l.setState(t.Name, StatePending)
	}
	for _, t := range targets {
		go func(t Target) { l.Fetch(ctx, t) }(t)
	}
}

// WaitLoaded polls until every known target reaches a terminal state, the
// context is cancelled, or the loader's timeout elapses. On timeout the
// unresolved targets are marked StateError and ErrWaitTimeout is returned.
func (l *Loader) WaitLoaded(ctx context.Context) error {
	deadline := time.Now().Add(l.timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if l.allTerminal() {
			return nil
		}
		if time.Now().After(deadline) {
			l.failUnresolved()
			return ErrWaitTimeout
		}
		select {
		case <-ctx.Done():
			l.failUnresolved()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// States returns a snapshot of all target states.
func (l *Loader) States() map[string]State {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]State, len(l.states))
	for k, v := range l.states {
		out[k] = v
	}
	return out
}

// Path returns the local file for a target, when one exists.
func (l *Loader) Path(name string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.paths[name]
	return p, ok
}

func (l *Loader) setState(name string, s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states[name] = s
}

func (l *Loader) allTerminal() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.states {
		if !s.terminal() {
			return false
		}
	}
	return true
}

func (l *Loader) failUnresolved() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for name, s := range l.states {
		if !s.terminal() {
			l.states[name] = StateError
		}
	}
}

// substitute writes the placeholder to dest and marks the target errored.
// This is the single allowed fallback; if even the placeholder cannot be
// written, the target still ends in StateError with no retry.
func (l *Loader) substitute(name, dest string) (string, State) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err == nil {
		if err := WritePlaceholder(dest); err != nil {
			l.logger.Warn("placeholder write failed",
				zap.String("name", name),
				zap.Error(err))
		}
	}
	l.mu.Lock()
	l.states[name] = StateError
	l.paths[name] = dest
	l.mu.Unlock()
	return dest, StateError
}

func (l *Loader) download(ctx context.Context, src, dest string) error {
	fullURL := src
	if strings.HasPrefix(src, "/") {
		fullURL = l.baseURL + src
	}
	if _, err := url.Parse(fullURL); err != nil {
		return fmt.Errorf("invalid visualization url %q: %w", src, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", core.UserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}
	return f.Close()
}
