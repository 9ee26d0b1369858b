package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultHost is the public host of The Odds API v4.
const DefaultHost = "https://api.the-odds-api.com"

const (
	// MarketH2H is the moneyline (head-to-head) market key.
	MarketH2H = "h2h"
	// DefaultRegions covers the US and EU books we configure weights for.
	DefaultRegions = "us,eu"
	// DateFormatISO asks for RFC3339 timestamps.
	DateFormatISO = "iso"
)

// Client is a minimal HTTP client for The Odds API. The API key travels as
// a query parameter on every request.
type Client struct {
	host       string
	apiKey     string
	httpClient *http.Client
}

func NewClient(httpClient *http.Client, host, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if host == "" {
		host = DefaultHost
	}
	return &Client{
		host:       strings.TrimRight(host, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("odds api error: status=%d body=%s", e.Status, e.Body)
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("apiKey", c.apiKey)
	endpoint := c.host + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// ListSports returns the sport keys the API currently serves. With all set
// it includes out-of-season sports.
func (c *Client) ListSports(ctx context.Context, all bool) ([]Sport, error) {
	query := url.Values{}
	if all {
		query.Set("all", "true")
	}
	body, err := c.doRequest(ctx, "/v4/sports", query)
	if err != nil {
		return nil, err
	}
	var sports []Sport
	if err := json.Unmarshal(body, &sports); err != nil {
		return nil, fmt.Errorf("parse sports response: %w", err)
	}
	return sports, nil
}

// ListOddsParams narrows an odds listing. Zero values fall back to US/EU
// regions, the head-to-head market, decimal prices and ISO timestamps.
type ListOddsParams struct {
	Regions    string
	Markets    string
	OddsFormat string
	DateFormat string
}

// ListOdds returns upcoming events with bookmaker prices for one sport key.
func (c *Client) ListOdds(ctx context.Context, sport string, params ListOddsParams) ([]Event, error) {
	if strings.TrimSpace(sport) == "" {
		return nil, fmt.Errorf("sport key required")
	}
	regions := params.Regions
	if regions == "" {
		regions = DefaultRegions
	}
	markets := params.Markets
	if markets == "" {
		markets = MarketH2H
	}
	oddsFormat := params.OddsFormat
	if oddsFormat == "" {
		oddsFormat = "decimal"
	}
	dateFormat := params.DateFormat
	if dateFormat == "" {
		dateFormat = DateFormatISO
	}

	query := url.Values{}
	query.Set("regions", regions)
	query.Set("markets", markets)
	query.Set("oddsFormat", oddsFormat)
	query.Set("dateFormat", dateFormat)

	body, err := c.doRequest(ctx, fmt.Sprintf("/v4/sports/%s/odds", url.PathEscape(sport)), query)
	if err != nil {
		return nil, err
	}
	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("parse odds response: %w", err)
	}
	return events, nil
}
