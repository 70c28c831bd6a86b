// Package analysis drives the long-running analysis job: polling the server
// until a terminal state, recomputing display-side score breakdowns, and
// distilling AI prose into a frequency-focused view.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"mixanalyzer/core"
	"mixanalyzer/logging"
)

// StageTakingLonger is reported when the attempt ceiling is reached without a
// terminal status. The job keeps running server-side; this is a degradation,
// not a failure.
const StageTakingLonger = "Taking longer than expected"

// StatusAPI is the slice of the server client the poller needs.
type StatusAPI interface {
	StartAnalysis(ctx context.Context, trackID string) (*core.JobStatus, error)
	GetStatus(ctx context.Context, trackID string) (*core.JobStatus, error)
}

// Callbacks receive job lifecycle notifications. OnComplete fires at most
// once per Run; after any terminal callback no further callbacks fire.
type Callbacks struct {
	OnProgress func(stage string, pct float64)
	OnComplete func(results *core.AnalysisResult)
	OnError    func(err error)
}

// Poller polls the analysis server on a fixed interval up to an attempt
// ceiling. Every Run advances a generation counter; a status response whose
// generation no longer matches is stale and is discarded before any callback
// fires.
type Poller struct {
	api         StatusAPI
	interval    time.Duration
	maxAttempts int
	logger      *logging.Logger

	gen atomic.Uint64
}

// NewPoller builds a poller from configuration.
func NewPoller(api StatusAPI, cfg *core.Config, logger *logging.Logger) *Poller {
	return &Poller{
		api:         api,
		interval:    cfg.PollInterval,
		maxAttempts: cfg.MaxPollAttempts,
		logger:      logger,
	}
}

// Run starts analysis for trackID and polls until completion, error, context
// cancellation, or the attempt ceiling. Application outcomes are delivered
// through cb; the returned error is non-nil only for context cancellation or
// a failed start request.
func (p *Poller) Run(ctx context.Context, trackID string, cb Callbacks) error {
	token := p.gen.Add(1)

	start, err := p.api.StartAnalysis(ctx, trackID)
	if err != nil {
		p.fail(cb, err)
		return err
	}

	switch start.Status {
	case core.JobCompleted:
		// Cached result: no polling timer at all.
		p.complete(cb, start.Results)
		return nil
	case core.JobProcessing, core.JobStarted:
		// fall through to the polling loop
	default:
		p.fail(cb, &core.APIError{Op: "analyze start", Message: statusMessage(start)})
		return nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// All maxAttempts ticks issue a status request, so a job that finishes
	// right at the ceiling is still picked up by the last poll.
	for attempts := 0; attempts < p.maxAttempts; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		attempts++

		// Optimistic estimate shown before the status call resolves. The
		// server's own stage/progress take precedence when present.
		estimate := float64(5 + attempts*3)
		if estimate > 95 {
			estimate = 95
		}
		p.report(token, cb, "analyzing", estimate)

		status, err := p.api.GetStatus(ctx, trackID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var timeoutErr *core.TimeoutError
			if core.IsRetryable(err) || errors.As(err, &timeoutErr) {
				p.logger.Debug("status poll failed, retrying",
					zap.String("track_id", trackID),
					zap.Int("attempt", attempts),
					zap.Error(err))
				continue
			}
			p.fail(cb, err)
			return nil
		}

		if p.gen.Load() != token {
			p.logger.Debug("discarding stale status response",
				zap.String("track_id", trackID),
				zap.Uint64("token", token))
			return nil
		}

		switch status.Status {
		case core.JobCompleted:
			p.complete(cb, status.Results)
			return nil
		case core.JobError:
			p.fail(cb, &core.APIError{Op: "analyze", Message: statusMessage(status)})
			return nil
		default:
			if status.Progress != nil {
				stage := status.Stage
				if stage == "" {
					stage = "analyzing"
				}
				p.report(token, cb, stage, *status.Progress)
			}
		}
	}

	// Ceiling reached: stop polling but do not report failure. The server
	// keeps working; the status command can pick the job up later.
	p.logger.Info("poll ceiling reached, job unresolved client-side",
		zap.String("track_id", trackID),
		zap.Int("attempts", p.maxAttempts))
	p.report(token, cb, StageTakingLonger, 97)
	return nil
}

// Invalidate marks all in-flight polls stale. Any status response applied
// after this call is discarded.
func (p *Poller) Invalidate() {
	p.gen.Add(1)
}

func (p *Poller) report(token uint64, cb Callbacks, stage string, pct float64) {
	if p.gen.Load() != token {
		return
	}
	if cb.OnProgress != nil {
		cb.OnProgress(stage, pct)
	}
}

func (p *Poller) complete(cb Callbacks, results *core.AnalysisResult) {
	if cb.OnComplete != nil {
		cb.OnComplete(results)
	}
}

func (p *Poller) fail(cb Callbacks, err error) {
	if cb.OnError != nil {
		cb.OnError(err)
	}
}

func statusMessage(s *core.JobStatus) string {
	if s.Message != "" {
		return s.Message
	}
	return fmt.Sprintf("analysis failed with status %q", s.Status)
}
