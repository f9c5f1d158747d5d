// Package substrate implements the HTTP client for the external substrate
// API: reading basket collections, impact previews, and MANUAL_EDIT work
// submissions.
package substrate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/substratehq/graphview/internal/util"
	"github.com/substratehq/graphview/pkg/substrate"
)

const (
	defaultTimeout = 15 * time.Second
	defaultRetries = 3
	previewTimeout = 10 * time.Second
)

// Client talks to the substrate backend over HTTP.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	maxRetries int
}

// NewClientParams configures a Client.
type NewClientParams struct {
	BaseURL string
	APIKey  string

	// Timeout bounds each request; zero selects the default.
	Timeout time.Duration
	// MaxRetries applies to reads only; mutations are never retried.
	MaxRetries int
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewClient creates a substrate API client for the given base URL.
func NewClient(params NewClientParams) (*Client, error) {
	u, err := url.Parse(params.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse substrate base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid substrate base url: %s", params.BaseURL)
	}

	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := params.MaxRetries
	if retries <= 0 {
		retries = defaultRetries
	}

	headers := map[string]string{"Content-Type": "application/json"}
	if params.APIKey != "" {
		headers["Authorization"] = "Bearer " + params.APIKey
	}

	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &headerTransport{
				headers: headers,
				rt:      http.DefaultTransport,
			},
		},
		maxRetries: retries,
	}, nil
}

// LoadSnapshot fetches the four collections of a basket in parallel.
func (c *Client) LoadSnapshot(ctx context.Context, basketID string) (substrate.Snapshot, error) {
	snap := substrate.Snapshot{BasketID: basketID}

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return c.getJSON(gctx, c.basketPath(basketID, "fragments"), &snap.Fragments)
	})
	eg.Go(func() error {
		return c.getJSON(gctx, c.basketPath(basketID, "captures"), &snap.Captures)
	})
	eg.Go(func() error {
		return c.getJSON(gctx, c.basketPath(basketID, "tags"), &snap.Tags)
	})
	eg.Go(func() error {
		return c.getJSON(gctx, c.basketPath(basketID, "links"), &snap.Links)
	})
	if err := eg.Wait(); err != nil {
		return substrate.Snapshot{}, fmt.Errorf("failed to load basket %s: %w", basketID, err)
	}
	return snap, nil
}

// PreviewImpact performs one dry-run impact computation for a single entity.
func (c *Client) PreviewImpact(ctx context.Context, basketID, entityKind, entityID string) (substrate.ImpactCounts, error) {
	rCtx, cancel := context.WithTimeout(ctx, previewTimeout)
	defer cancel()

	body := map[string]string{
		"basketId":   basketID,
		"entityKind": entityKind,
		"entityId":   entityID,
	}
	var counts substrate.ImpactCounts
	if err := c.postJSON(rCtx, "/api/changes/preview", body, &counts); err != nil {
		return substrate.ImpactCounts{}, fmt.Errorf("failed to preview impact for %s: %w", entityID, err)
	}
	return counts, nil
}

// SubmitWork posts a MANUAL_EDIT work request. Submissions are never
// retried: the endpoint offers no idempotency contract.
func (c *Client) SubmitWork(ctx context.Context, req substrate.WorkRequest) (substrate.WorkResult, error) {
	var result substrate.WorkResult
	if err := c.postJSON(ctx, "/api/work", req, &result); err != nil {
		return substrate.WorkResult{}, fmt.Errorf("failed to submit work: %w", err)
	}
	return result, nil
}

func (c *Client) basketPath(basketID, collection string) string {
	return fmt.Sprintf("/api/baskets/%s/%s", url.PathEscape(basketID), collection)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

// getJSON fetches a collection with bounded retries.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return util.RetryErrWithContext(ctx, c.maxRetries, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
		if err != nil {
			return err
		}
		res, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			return httpError(res)
		}
		return json.NewDecoder(res.Body).Decode(out)
	})
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return httpError(res)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func httpError(res *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("substrate api returned %d: %s", res.StatusCode, bytes.TrimSpace(snippet))
}
