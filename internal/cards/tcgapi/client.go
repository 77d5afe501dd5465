// Package tcgapi is a rate-limited client for the Pokémon TCG API
// (api.pokemontcg.io). The core stores never call it directly; page-level
// handlers fetch catalog data through it and hand opaque card records to
// the stores.
package tcgapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/cardvault/ptcg-companion/internal/cards"
)

const (
	defaultBaseURL = "https://api.pokemontcg.io/v2"
	rateLimitDelay = 500 * time.Millisecond // 2 req/sec keeps well under the API's daily quota
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client is a Pokémon TCG API client with rate limiting and retry.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (useful for tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithAPIKey sets the X-Api-Key header for higher rate limits.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a Pokémon TCG API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "PTCG-Companion/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCard retrieves a card by its id (e.g., "base1-4").
func (c *Client) GetCard(ctx context.Context, id string) (*cards.Card, error) {
	u := fmt.Sprintf("%s/cards/%s", c.baseURL, url.PathEscape(id))

	var resp cardResponse
	if err := c.doRequest(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}

	return &resp.Data, nil
}

// SearchCards performs a query-syntax search (e.g., `name:charizard`).
func (c *Client) SearchCards(ctx context.Context, query string, page, pageSize int) (*CardPage, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(pageSize))
	}
	u := fmt.Sprintf("%s/cards?%s", c.baseURL, params.Encode())

	var resp cardListResponse
	if err := c.doRequest(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("failed to search cards with query '%s': %w", query, err)
	}

	return &CardPage{
		Cards:      resp.Data,
		Page:       resp.Page,
		PageSize:   resp.PageSize,
		Count:      resp.Count,
		TotalCount: resp.TotalCount,
	}, nil
}

// GetSetCards retrieves every card of one set, following pagination.
func (c *Client) GetSetCards(ctx context.Context, setID string) ([]cards.Card, error) {
	var all []cards.Card
	for page := 1; ; page++ {
		result, err := c.SearchCards(ctx, fmt.Sprintf("set.id:%s", setID), page, 250)
		if err != nil {
			return nil, fmt.Errorf("failed to get cards for set %s: %w", setID, err)
		}
		all = append(all, result.Cards...)
		if len(all) >= result.TotalCount || len(result.Cards) == 0 {
			return all, nil
		}
	}
}

// GetSet retrieves set metadata by set id.
func (c *Client) GetSet(ctx context.Context, id string) (*cards.SetInfo, error) {
	u := fmt.Sprintf("%s/sets/%s", c.baseURL, url.PathEscape(id))

	var resp setResponse
	if err := c.doRequest(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("failed to get set %s: %w", id, err)
	}

	return &resp.Data, nil
}

// GetSets retrieves the full list of sets.
func (c *Client) GetSets(ctx context.Context) ([]cards.SetInfo, error) {
	u := fmt.Sprintf("%s/sets?pageSize=250&orderBy=releaseDate", c.baseURL)

	var resp setListResponse
	if err := c.doRequest(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("failed to get sets: %w", err)
	}

	return resp.Data, nil
}

// doRequest performs an HTTP GET with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, url string, result any) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		if err := resp.Body.Close(); err != nil && readErr == nil {
			readErr = err
		}

		switch resp.StatusCode {
		case http.StatusOK:
			if readErr != nil {
				return fmt.Errorf("failed to read response body: %w", readErr)
			}
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse JSON response: %w", err)
			}
			return nil

		case http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			if attempt < maxRetries {
				if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
					if seconds, err := strconv.Atoi(retryAfter); err == nil {
						time.Sleep(time.Duration(seconds) * time.Second)
					} else {
						time.Sleep(backoff)
					}
				} else {
					time.Sleep(backoff)
				}
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr

		case http.StatusNotFound:
			return &NotFoundError{URL: url}

		default:
			var apiErr APIError
			if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Err.Message != "" {
				apiErr.StatusCode = resp.StatusCode
				return &apiErr
			}
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
