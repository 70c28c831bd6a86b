package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mixanalyzer/core"
	"mixanalyzer/logging"
	"mixanalyzer/mixapi"
)

// scriptedAPI replays a fixed sequence of status responses and counts calls.
type scriptedAPI struct {
	mu       sync.Mutex
	start    *core.JobStatus
	startErr error
	polls    []pollResponse
	calls    int
}

type pollResponse struct {
	status *core.JobStatus
	err    error
}

func (s *scriptedAPI) StartAnalysis(ctx context.Context, trackID string) (*core.JobStatus, error) {
	return s.start, s.startErr
}

func (s *scriptedAPI) GetStatus(ctx context.Context, trackID string) (*core.JobStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i >= len(s.polls) {
		return &core.JobStatus{Status: core.JobProcessing}, nil
	}
	return s.polls[i].status, s.polls[i].err
}

func (s *scriptedAPI) pollCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestPoller(api StatusAPI, maxAttempts int) *Poller {
	cfg := &core.Config{
		PollInterval:    time.Millisecond,
		MaxPollAttempts: maxAttempts,
	}
	return NewPoller(api, cfg, logging.Nop())
}

type recorder struct {
	mu        sync.Mutex
	stages    []string
	pcts      []float64
	completes int
	results   *core.AnalysisResult
	errs      []error
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnProgress: func(stage string, pct float64) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.stages = append(r.stages, stage)
			r.pcts = append(r.pcts, pct)
		},
		OnComplete: func(res *core.AnalysisResult) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.completes++
			r.results = res
		},
		OnError: func(err error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errs = append(r.errs, err)
		},
	}
}

func TestCompletedAtStartSkipsPolling(t *testing.T) {
	api := &scriptedAPI{
		start: &core.JobStatus{
			Status:  core.JobCompleted,
			Results: &core.AnalysisResult{OverallScore: 90},
		},
	}
	p := newTestPoller(api, 30)
	rec := &recorder{}

	if err := p.Run(context.Background(), "t.wav", rec.callbacks()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if rec.completes != 1 {
		t.Errorf("OnComplete fired %d times, want 1", rec.completes)
	}
	if rec.results == nil || rec.results.OverallScore != 90 {
		t.Errorf("results = %+v, want inlined payload", rec.results)
	}
	if api.pollCount() != 0 {
		t.Errorf("status calls = %d, want 0", api.pollCount())
	}
}

func TestCompletesAfterNPolls(t *testing.T) {
	pct := func(v float64) *float64 { return &v }
	api := &scriptedAPI{
		start: &core.JobStatus{Status: core.JobStarted},
		polls: []pollResponse{
			{status: &core.JobStatus{Status: core.JobProcessing, Progress: pct(20), Stage: "analyzing"}},
			{status: &core.JobStatus{Status: core.JobProcessing, Progress: pct(55), Stage: "analyzing"}},
			{status: &core.JobStatus{Status: core.JobProcessing, Progress: pct(80), Stage: "visualizing"}},
			{status: &core.JobStatus{
				Status:  core.JobCompleted,
				Results: &core.AnalysisResult{OverallScore: 77.5},
			}},
		},
	}
	p := newTestPoller(api, 30)
	rec := &recorder{}

	if err := p.Run(context.Background(), "t.wav", rec.callbacks()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if rec.completes != 1 {
		t.Errorf("OnComplete fired %d times, want 1", rec.completes)
	}
	if len(rec.errs) != 0 {
		t.Errorf("OnError fired: %v", rec.errs)
	}
	if api.pollCount() != 4 {
		t.Errorf("status calls = %d, want exactly 4", api.pollCount())
	}

	// Server-supplied stage takes precedence over the optimistic estimate.
	found := false
	for i, stage := range rec.stages {
		if stage == "visualizing" && rec.pcts[i] == 80 {
			found = true
		}
	}
	if !found {
		t.Errorf("server stage/progress not forwarded; got stages %v pcts %v", rec.stages, rec.pcts)
	}
}

func TestCeilingStopsWithoutError(t *testing.T) {
	api := &scriptedAPI{start: &core.JobStatus{Status: core.JobProcessing}}
	p := newTestPoller(api, 30)
	rec := &recorder{}

	if err := p.Run(context.Background(), "t.wav", rec.callbacks()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if rec.completes != 0 {
		t.Error("OnComplete fired at ceiling")
	}
	if len(rec.errs) != 0 {
		t.Errorf("OnError fired at ceiling: %v", rec.errs)
	}
	if api.pollCount() != 30 {
		t.Errorf("status calls = %d, want 30", api.pollCount())
	}

	if len(rec.stages) == 0 {
		t.Fatal("no progress reports recorded")
	}
	last := len(rec.stages) - 1
	if rec.stages[last] != StageTakingLonger || rec.pcts[last] != 97 {
		t.Errorf("final report = %q@%v, want %q@97",
			rec.stages[last], rec.pcts[last], StageTakingLonger)
	}
}

func TestOptimisticEstimateCapsAt95(t *testing.T) {
	api := &scriptedAPI{start: &core.JobStatus{Status: core.JobProcessing}}
	p := newTestPoller(api, 35)
	rec := &recorder{}

	if err := p.Run(context.Background(), "t.wav", rec.callbacks()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if rec.pcts[0] != 8 {
		t.Errorf("first estimate = %v, want 8 (5 + 1*3)", rec.pcts[0])
	}
	for i, pct := range rec.pcts[:len(rec.pcts)-1] {
		if pct > 95 {
			t.Errorf("estimate %d = %v, exceeds 95 cap", i, pct)
		}
	}
}

func TestTransportErrorsRetried(t *testing.T) {
	api := &scriptedAPI{
		start: &core.JobStatus{Status: core.JobStarted},
		polls: []pollResponse{
			{err: &core.TransportError{Op: "status poll", Err: errors.New("connection refused")}},
			{err: &core.TransportError{Op: "status poll", StatusCode: 502}},
			{status: &core.JobStatus{Status: core.JobCompleted, Results: &core.AnalysisResult{}}},
		},
	}
	p := newTestPoller(api, 30)
	rec := &recorder{}

	if err := p.Run(context.Background(), "t.wav", rec.callbacks()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if rec.completes != 1 {
		t.Errorf("OnComplete fired %d times, want 1 after retries", rec.completes)
	}
	if len(rec.errs) != 0 {
		t.Errorf("transport errors should be swallowed, got %v", rec.errs)
	}
	if api.pollCount() != 3 {
		t.Errorf("status calls = %d, want 3", api.pollCount())
	}
}

func TestTransientServerErrorRetriedToCompletion(t *testing.T) {
	// The server wraps internal failures as 500 + {"error": ...}. Through the
	// real client those must stay retryable: the poll after the 500 completes
	// the job without OnError ever firing.
	var statusCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/analyze/start":
			json.NewEncoder(w).Encode(map[string]string{"status": "started"})
		case "/api/analyze/status":
			if statusCalls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "completed",
				"results": map[string]interface{}{"overall_score": 70.0},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := &core.Config{
		ServerURL:       srv.URL,
		LongTimeout:     30 * time.Second,
		PollInterval:    time.Millisecond,
		MaxPollAttempts: 30,
	}
	client := mixapi.NewClient(cfg, logging.Nop())
	p := NewPoller(client, cfg, logging.Nop())
	rec := &recorder{}

	if err := p.Run(context.Background(), "t.wav", rec.callbacks()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(rec.errs) != 0 {
		t.Fatalf("OnError fired on a transient server failure (want silent retry): %v", rec.errs)
	}
	if rec.completes != 1 {
		t.Errorf("OnComplete fired %d times, want 1", rec.completes)
	}
	if rec.results == nil || rec.results.OverallScore != 70 {
		t.Errorf("results = %+v, want payload from the post-retry poll", rec.results)
	}
	if got := statusCalls.Load(); got != 2 {
		t.Errorf("status calls = %d, want 2 (500 then completed)", got)
	}
}

func TestErrorStatusTerminates(t *testing.T) {
	api := &scriptedAPI{
		start: &core.JobStatus{Status: core.JobProcessing},
		polls: []pollResponse{
			{status: &core.JobStatus{Status: core.JobError, Message: "decode failed"}},
		},
	}
	p := newTestPoller(api, 30)
	rec := &recorder{}

	if err := p.Run(context.Background(), "t.wav", rec.callbacks()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(rec.errs) != 1 {
		t.Fatalf("OnError fired %d times, want 1", len(rec.errs))
	}
	var apiErr *core.APIError
	if !errors.As(rec.errs[0], &apiErr) || apiErr.Message != "decode failed" {
		t.Errorf("error = %v, want APIError with server message", rec.errs[0])
	}
	if api.pollCount() != 1 {
		t.Errorf("status calls = %d, want 1 (timer cleared)", api.pollCount())
	}
}

func TestInvalidateDiscardsLateResponses(t *testing.T) {
	api := &scriptedAPI{
		start: &core.JobStatus{Status: core.JobProcessing},
		polls: []pollResponse{
			{status: &core.JobStatus{Status: core.JobCompleted, Results: &core.AnalysisResult{}}},
		},
	}
	p := newTestPoller(api, 30)
	rec := &recorder{}

	// Invalidate before the first response is applied; the completion must
	// be discarded.
	blocked := &invalidatingAPI{inner: api, poller: p}
	p.api = blocked

	if err := p.Run(context.Background(), "t.wav", rec.callbacks()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if rec.completes != 0 {
		t.Error("stale completed response reached OnComplete")
	}
	if len(rec.errs) != 0 {
		t.Errorf("stale handling produced errors: %v", rec.errs)
	}
}

// invalidatingAPI bumps the poller generation while a status call is in
// flight, simulating a newer run superseding this one.
type invalidatingAPI struct {
	inner  StatusAPI
	poller *Poller
	once   sync.Once
}

func (a *invalidatingAPI) StartAnalysis(ctx context.Context, trackID string) (*core.JobStatus, error) {
	return a.inner.StartAnalysis(ctx, trackID)
}

func (a *invalidatingAPI) GetStatus(ctx context.Context, trackID string) (*core.JobStatus, error) {
	status, err := a.inner.GetStatus(ctx, trackID)
	a.once.Do(a.poller.Invalidate)
	return status, err
}
