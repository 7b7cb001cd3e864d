package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/manzanit0/locations/pkg/whttp"
)

const DefaultBaseURL = "https://api.locationiq.com/v1/autocomplete"

// Config is loaded once at startup and never modified afterwards.
type Config struct {
	BaseURL string
	APIKey  string
}

func NewLocationIQClient(h *http.Client, cfg Config) *liq {
	if h == nil {
		h = http.DefaultClient
	}

	return &liq{h: h, cfg: cfg}
}

type liq struct {
	h   *http.Client
	cfg Config
}

var _ Client = (*liq)(nil)

func (c *liq) Search(ctx context.Context, params SearchParams) ([]Location, error) {
	locations, err := c.search(ctx, params)
	if err != nil {
		slog.ErrorContext(ctx, "[location api] search failed", "error", err.Error(), "query", params.Query)

		if errors.Is(err, ErrContractViolation) {
			return nil, ErrContractViolation
		}

		return nil, ErrInternal
	}

	return locations, nil
}

func (c *liq) search(ctx context.Context, params SearchParams) ([]Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(params), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", c.redact(err, nil))
	}

	res, err := c.h.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", c.redact(err, req.URL))
	}
	defer res.Body.Close()

	// Non-2xx responses are decoded like any other.
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var locations []Location
	if err := json.Unmarshal(data, &locations); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %s (status %d)", ErrContractViolation, err.Error(), res.StatusCode)
		}

		return nil, fmt.Errorf("decode response (status %d): %w", res.StatusCode, err)
	}

	return locations, nil
}

// searchURL keeps the key, q, limit ordering the service documents. Values are
// percent-encoded, which leaves plain words untouched.
func (c *liq) searchURL(params SearchParams) string {
	return fmt.Sprintf("%s?key=%s&q=%s&limit=%d",
		c.cfg.BaseURL,
		url.QueryEscape(c.cfg.APIKey),
		url.QueryEscape(params.Query),
		params.limit(),
	)
}

// redact masks the API key in the URL carried by net/url and net/http errors
// so it never reaches the logs.
func (c *liq) redact(err error, u *url.URL) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	if u != nil {
		urlErr.URL = whttp.RedactURL(u)
	} else {
		urlErr.URL = c.cfg.BaseURL
	}

	return err
}
