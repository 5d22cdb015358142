package favorites

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kzhou/cryptobubbles/internal/model"
)

// HTTPClient is a Service backed by a hosted favorites API. The bubbles CLI
// uses it as its remote mirror.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient builds a client against baseURL, e.g. "http://localhost:8080".
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *HTTPClient) Name() string { return "http" }

func (h *HTTPClient) do(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, fmt.Errorf("favorites API returned status %d", resp.StatusCode)
	}
	return resp, nil
}

func (h *HTTPClient) List(ctx context.Context) ([]model.Favorite, error) {
	resp, err := h.do(ctx, http.MethodGet, h.baseURL+"/api/favorites", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var favs []model.Favorite
	if err := json.NewDecoder(resp.Body).Decode(&favs); err != nil {
		return nil, fmt.Errorf("decoding favorites response: %w", err)
	}
	return favs, nil
}

func (h *HTTPClient) Upsert(ctx context.Context, fav model.Favorite) error {
	payload, err := json.Marshal(fav)
	if err != nil {
		return fmt.Errorf("encoding favorite %s: %w", fav.Symbol, err)
	}

	resp, err := h.do(ctx, http.MethodPost, h.baseURL+"/api/favorites", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (h *HTTPClient) Delete(ctx context.Context, symbol string) error {
	u := h.baseURL + "/api/favorites?symbol=" + url.QueryEscape(symbol)
	resp, err := h.do(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
