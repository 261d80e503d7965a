// Package coingecko is the HTTP boundary to the public CoinGecko v3 API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"coinboard/internal/domain"
	"coinboard/internal/infra"
)

// VsCurrency is the quote currency for every price the client requests.
const VsCurrency = "usd"

// Client is the CoinGecko REST API client (Boundary Layer).
// It performs exactly one request per call: no retries, no backoff.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for baseURL. A zero timeout disables the client timeout.
func NewClient(baseURL string, timeout time.Duration, apiKey string) *Client {
	// Optimize HTTP Transport to prevent connection leaks
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 10
	transport.IdleConnTimeout = 30 * time.Second

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: slog.Default().With("module", "coingecko_client"),
	}
}

// NewClientFromConfig creates a client from the api section of cfg
func NewClientFromConfig(cfg *infra.Config) *Client {
	return NewClient(cfg.API.BaseURL, cfg.HTTPTimeout(), cfg.API.APIKey)
}

// Markets fetches the top coins by market cap.
func (c *Client) Markets(ctx context.Context) (domain.MarketSnapshot, error) {
	query := url.Values{}
	query.Set("vs_currency", VsCurrency)
	query.Set("order", "market_cap_desc")
	query.Set("per_page", "100")
	query.Set("page", "1")
	query.Set("sparkline", "false")

	var records []marketRecord
	if err := c.getJSON(ctx, "markets", "/coins/markets", query, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, domain.NewParseError("markets", fmt.Errorf("expected a list"))
	}

	snapshot := make(domain.MarketSnapshot, 0, len(records))
	for i, r := range records {
		coin, err := r.toDomain()
		if err != nil {
			return nil, domain.NewParseError("markets", fmt.Errorf("record %d: %w", i, err))
		}
		snapshot = append(snapshot, coin)
	}
	return snapshot, nil
}

// CoinList fetches the identity of every coin the API knows.
func (c *Client) CoinList(ctx context.Context) ([]domain.CoinIdentity, error) {
	var records []coinListRecord
	if err := c.getJSON(ctx, "coin list", "/coins/list", nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		return nil, domain.NewParseError("coin list", fmt.Errorf("expected a list"))
	}

	list := make([]domain.CoinIdentity, 0, len(records))
	for i, r := range records {
		id, err := r.toDomain()
		if err != nil {
			return nil, domain.NewParseError("coin list", fmt.Errorf("record %d: %w", i, err))
		}
		list = append(list, id)
	}
	return list, nil
}

// Coin fetches the detail record of one coin, without its price history.
func (c *Client) Coin(ctx context.Context, id string) (domain.CoinDetail, error) {
	var resp coinResponse
	if err := c.getJSON(ctx, "coin", "/coins/"+url.PathEscape(id), nil, &resp); err != nil {
		return domain.CoinDetail{}, err
	}
	detail, err := resp.toDomain(VsCurrency)
	if err != nil {
		return domain.CoinDetail{}, domain.NewParseError("coin", err)
	}
	return detail, nil
}

// PriceHistory fetches the price series of one coin over the last days.
func (c *Client) PriceHistory(ctx context.Context, id string, days int) ([]domain.PricePoint, error) {
	query := url.Values{}
	query.Set("vs_currency", VsCurrency)
	query.Set("days", strconv.Itoa(days))

	var resp marketChartResponse
	if err := c.getJSON(ctx, "market chart", "/coins/"+url.PathEscape(id)+"/market_chart", query, &resp); err != nil {
		return nil, err
	}
	points, err := resp.toDomain()
	if err != nil {
		return nil, domain.NewParseError("market chart", err)
	}
	return points, nil
}

// getJSON performs a GET and decodes the body into out.
// Transport and status failures become *domain.NetworkError, decode failures *domain.ParseError.
func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.NewFatalNetworkError(op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", infra.DefaultUserAgent)
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	infra.GlobalMetrics.RecordFetch(time.Since(start))
	if err != nil {
		return domain.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewNetworkError(op, err)
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return domain.NewNetworkError(op, statusErr)
		}
		return domain.NewFatalNetworkError(op, statusErr)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return domain.NewParseError(op, err)
	}

	c.logger.Debug("Fetched", slog.String("op", op), slog.Duration("elapsed", time.Since(start)))
	return nil
}
