package visuals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"mixanalyzer/core"
	"mixanalyzer/logging"
)

func newTestLoader(t *testing.T, serverURL string) *Loader {
	t.Helper()
	cfg := &core.Config{
		ServerURL:   serverURL,
		VisualsDir:  t.TempDir(),
		VisualsWait: 2 * time.Second,
	}
	return NewLoader(cfg, logging.Nop())
}

func TestEmptySrcSkipsNetwork(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	l := newTestLoader(t, srv.URL)
	path, state := l.Fetch(context.Background(), Target{Name: "waveform", Src: ""})

	if requests.Load() != 0 {
		t.Errorf("empty src issued %d network requests, want 0", requests.Load())
	}
	if state != StateError {
		t.Errorf("state = %s, want error", state)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("placeholder not written: %v", err)
	}
}

func TestSuccessfulDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/visualizations/spectrogram.png" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte("imagedata"))
	}))
	defer srv.Close()

	l := newTestLoader(t, srv.URL)
	path, state := l.Fetch(context.Background(), Target{Name: "spectrogram", Src: "/visualizations/spectrogram.png"})

	if state != StateLoaded {
		t.Fatalf("state = %s, want loaded", state)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "imagedata" {
		t.Errorf("downloaded content = %q", data)
	}
}

func TestFailureSubstitutesExactlyOnce(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	l := newTestLoader(t, srv.URL)
	path, state := l.Fetch(context.Background(), Target{Name: "chromagram", Src: "/visualizations/chroma.png"})

	if requests.Load() != 1 {
		t.Errorf("requests = %d, want exactly 1 (no retry loop)", requests.Load())
	}
	if state != StateError {
		t.Errorf("state = %s, want error", state)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("placeholder substitution missing at %s", path)
	}
}

func TestWaitLoadedCompletes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("img"))
	}))
	defer srv.Close()

	l := newTestLoader(t, srv.URL)
	l.FetchAll(context.Background(), &core.Visualizations{
		Waveform:    "/v/w.png",
		Spectrogram: "/v/s.png",
	})

	if err := l.WaitLoaded(context.Background()); err != nil {
		t.Fatalf("WaitLoaded returned %v", err)
	}

	states := l.States()
	if states["waveform"] != StateLoaded || states["spectrogram"] != StateLoaded {
		t.Errorf("states = %v, want both loaded", states)
	}
	// Absent sources resolve to error with placeholders, not loading forever.
	if states["chromagram"] != StateError {
		t.Errorf("chromagram = %s, want error (no source)", states["chromagram"])
	}
}

func TestWaitLoadedTimesOut(t *testing.T) {
	l := newTestLoader(t, "http://127.0.0.1:0")
	l.timeout = 100 * time.Millisecond
	l.setState("waveform", StateLoading) // never resolves

	err := l.WaitLoaded(context.Background())
	if err != ErrWaitTimeout {
		t.Fatalf("err = %v, want ErrWaitTimeout", err)
	}
	if l.States()["waveform"] != StateError {
		t.Error("unresolved target not forced to error on timeout")
	}
}

func TestPlaceholderIsValidPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ph.png")
	if err := WritePlaceholder(path); err != nil {
		t.Fatal(err)
	}
	if _, err := Preview(path, 32); err != nil {
		t.Fatalf("placeholder did not decode: %v", err)
	}
}
