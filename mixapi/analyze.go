package mixapi

import (
	"context"
	"net/http"
	"net/url"

	"mixanalyzer/core"
)

// StartAnalysis asks the server to begin (or resume) analysis of a track.
// The response status is "processing"/"started" for a fresh job, or
// "completed" with inlined results when the server already has them.
func (c *Client) StartAnalysis(ctx context.Context, trackID string) (*core.JobStatus, error) {
	body := struct {
		TrackID string `json:"track_id"`
	}{TrackID: trackID}

	var status core.JobStatus
	if err := c.postJSON(ctx, c.long, "/api/analyze/start", "analyze start", body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetStatus fetches the current job status for a track. Transport failures
// are returned as retryable TransportErrors; the poller decides whether to
// swallow them.
func (c *Client) GetStatus(ctx context.Context, trackID string) (*core.JobStatus, error) {
	path := "/api/analyze/status?track_id=" + url.QueryEscape(trackID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var status core.JobStatus
	if err := c.doJSON(c.http, req, "status poll", &status); err != nil {
		return nil, err
	}
	return &status, nil
}
