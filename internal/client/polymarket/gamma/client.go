package polymarketgamma

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultHost is the public Gamma API host.
const DefaultHost = "https://gamma-api.polymarket.com"

// Well-known Gamma catalog ids used when scanning for single games.
const (
	// TagGameBets groups per-game sports markets (moneylines, spreads).
	TagGameBets = 100639
	// SeriesNBA is the NBA game series.
	SeriesNBA = 10345
)

// Client is a minimal HTTP client for the Gamma markets API.
type Client struct {
	host       string
	httpClient *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	return NewClientWithHost(httpClient, DefaultHost)
}

func NewClientWithHost(httpClient *http.Client, host string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if host == "" {
		host = DefaultHost
	}
	return &Client{
		host:       strings.TrimRight(host, "/"),
		httpClient: httpClient,
	}
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gamma api error: status=%d body=%s", e.Status, e.Body)
}

func (c *Client) doRequest(ctx context.Context, path, rawQuery string) ([]byte, error) {
	endpoint := c.host + path
	if rawQuery != "" {
		endpoint += "?" + rawQuery
	}
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
