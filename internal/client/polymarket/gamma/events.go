package polymarketgamma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListEventsParams narrows an event listing. Pointer fields are omitted
// from the query when nil.
type ListEventsParams struct {
	Limit     int
	Offset    int
	Active    *bool
	Closed    *bool
	Archived  *bool
	TagID     int
	SeriesID  int
	Order     string
	Ascending *bool
}

// ListEvents returns one page of Gamma events.
func (c *Client) ListEvents(ctx context.Context, params ListEventsParams) ([]Event, error) {
	query := url.Values{}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		query.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.Active != nil {
		query.Set("active", strconv.FormatBool(*params.Active))
	}
	if params.Closed != nil {
		query.Set("closed", strconv.FormatBool(*params.Closed))
	}
	if params.Archived != nil {
		query.Set("archived", strconv.FormatBool(*params.Archived))
	}
	if params.TagID > 0 {
		query.Set("tag_id", strconv.Itoa(params.TagID))
	}
	if params.SeriesID > 0 {
		query.Set("series_id", strconv.Itoa(params.SeriesID))
	}
	if params.Order != "" {
		query.Set("order", params.Order)
		if params.Ascending != nil {
			query.Set("ascending", strconv.FormatBool(*params.Ascending))
		}
	}
	body, err := c.doRequest(ctx, "/events", query.Encode())
	if err != nil {
		return nil, err
	}
	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("parse events response: %w", err)
	}
	return events, nil
}

// GetEventBySlug fetches a single event through the slug route. A 404 from
// Gamma comes back as (nil, nil).
func (c *Client) GetEventBySlug(ctx context.Context, slug string) (*Event, error) {
	if slug == "" {
		return nil, fmt.Errorf("slug required")
	}
	body, err := c.doRequest(ctx, "/events/slug/"+url.PathEscape(slug), "")
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("parse event response: %w", err)
	}
	return &ev, nil
}
