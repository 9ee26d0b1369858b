package clob

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultHost is the public CLOB REST host.
const DefaultHost = "https://clob.polymarket.com"

// Client is a minimal HTTP client for the read-only CLOB endpoints.
type Client struct {
	host       string
	httpClient *http.Client
}

func NewClient(httpClient *http.Client, host string) *Client {
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
	return fmt.Sprintf("clob api error: status=%d body=%s", e.Status, e.Body)
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.host + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
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

// GetPrice returns the current price for a token on one side of the book
// ("buy" or "sell").
func (c *Client) GetPrice(ctx context.Context, tokenID, side string) (Decimal, error) {
	query := url.Values{}
	query.Set("token_id", tokenID)
	query.Set("side", side)
	body, err := c.doRequest(ctx, "/price", query)
	if err != nil {
		return Decimal{}, err
	}
	return parsePrice(body)
}

// GetBook returns the parsed orderbook for a token.
func (c *Client) GetBook(ctx context.Context, tokenID string) (*OrderBook, error) {
	book, _, err := c.GetBookRaw(ctx, tokenID)
	return book, err
}

// GetBookRaw returns the orderbook along with the raw body, for callers
// that persist the upstream payload next to the derived figures.
func (c *Client) GetBookRaw(ctx context.Context, tokenID string) (*OrderBook, []byte, error) {
	query := url.Values{}
	query.Set("token_id", tokenID)
	body, err := c.doRequest(ctx, "/book", query)
	if err != nil {
		return nil, nil, err
	}
	book, err := parseOrderBook(body)
	if err != nil {
		return nil, nil, err
	}
	return book, body, nil
}
