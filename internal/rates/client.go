// Package rates fetches currency exchange rates and degrades to persisted or
// built-in tables when the upstream API is unavailable.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.exchangerate-api.com/v4/latest"
	DefaultTimeout = 10 * time.Second
)

var ErrUpstream = errors.New("exchange rate upstream failure")

// Client talks to an exchangerate-api.com compatible endpoint.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("rates-client"),
	}
}

type latestResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Latest returns how many reference units one unit of each listed currency is
// worth. The upstream quotes the inverse, so every rate is flipped.
func (c *Client) Latest(ctx context.Context, reference string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, reference)
	c.logger.Debug("fetching rates", zap.String("url", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty rate table", ErrUpstream)
	}

	out := make(map[string]float64, len(body.Rates)+1)
	for code, quote := range body.Rates {
		if quote <= 0 {
			continue
		}
		out[code] = 1 / quote
	}
	out[reference] = 1.0

	c.logger.Info("fetched rates",
		zap.String("reference", reference),
		zap.Int("currencies", len(out)))

	return out, nil
}
