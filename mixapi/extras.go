package mixapi

import (
	"context"
	"net/http"
	"net/url"

	"mixanalyzer/core"
)

// SendFeedback submits a thumbs-up/down rating plus optional comment for a
// completed analysis.
func (c *Client) SendFeedback(ctx context.Context, fb core.FeedbackRequest) (*core.FeedbackResponse, error) {
	var resp core.FeedbackResponse
	if err := c.postJSON(ctx, c.http, "/api/feedback", "feedback", fb, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegenerateStereoField recomputes stereo-field metrics for an uploaded
// track. Missing numeric fields in the response stay nil so the caller can
// render them as unavailable.
func (c *Client) RegenerateStereoField(ctx context.Context, fileID string) (*core.StereoRegenResponse, error) {
	path := "/regenerate_stereo_field/" + url.PathEscape(fileID)
	var resp core.StereoRegenResponse
	if err := c.postJSON(ctx, c.long, path, "regenerate stereo", struct{}{}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &core.APIError{Op: "regenerate stereo", Message: resp.Error}
	}
	return &resp, nil
}

// RegenerateSpatialField recomputes 3D spatial metrics for an uploaded track.
func (c *Client) RegenerateSpatialField(ctx context.Context, fileID string) (*core.SpatialRegenResponse, error) {
	path := "/api/regenerate_spatial_field/" + url.PathEscape(fileID)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp core.SpatialRegenResponse
	if err := c.doJSON(c.long, req, "regenerate spatial", &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &core.APIError{Op: "regenerate spatial", Message: resp.Error}
	}
	return &resp, nil
}

// DeleteTrack removes a track and its artifacts from the server.
func (c *Client) DeleteTrack(ctx context.Context, fileID string) (*core.DeleteResponse, error) {
	var resp core.DeleteResponse
	if err := c.postJSON(ctx, c.http, "/api/delete-track", "delete track", core.DeleteRequest{FileID: fileID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
