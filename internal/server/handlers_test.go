package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kzhou/cryptobubbles/internal/config"
	"github.com/kzhou/cryptobubbles/internal/favorites"
	"github.com/kzhou/cryptobubbles/internal/layout"
	"github.com/kzhou/cryptobubbles/internal/market"
	"github.com/kzhou/cryptobubbles/internal/model"
)

type flakySource struct {
	coins []model.Coin
	fail  bool
}

func (f *flakySource) Fetch(ctx context.Context) ([]model.Coin, error) {
	if f.fail {
		return nil, errors.New("upstream down")
	}
	return f.coins, nil
}

func testServer(t *testing.T, source market.Source, ttl time.Duration) *Server {
	t.Helper()
	cache := market.NewCache(market.Config{TTL: ttl}, source, nil)
	favs := favorites.NewChain(nil, favorites.NewMemory())
	layoutCfg := config.LayoutConfig{Width: 800, Height: 600, Padding: 3}
	return New(config.ServerConfig{Port: 0}, layoutCfg, cache, favs, nil, nil)
}

func doRequest(t *testing.T, s *Server, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := testServer(t, &flakySource{}, time.Minute)
	rec := doRequest(t, s, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestMarketSuccess(t *testing.T) {
	source := &flakySource{coins: []model.Coin{
		{ID: "bitcoin", Symbol: "btc", MarketCap: 1e12},
		{ID: "ethereum", Symbol: "eth", MarketCap: 4e11},
	}}
	s := testServer(t, source, time.Minute)

	rec := doRequest(t, s, http.MethodGet, "/api/market", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
	if got := rec.Header().Get("Cache-Control"); got != marketCacheControl {
		t.Errorf("Cache-Control = %q, want %q", got, marketCacheControl)
	}
	if got := rec.Header().Get("X-Stale"); got != "" {
		t.Errorf("X-Stale = %q, want unset", got)
	}

	var coins []model.Coin
	if err := json.Unmarshal(rec.Body.Bytes(), &coins); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(coins) != 2 || coins[0].ID != "bitcoin" {
		t.Errorf("coins = %v, want 2 entries starting with bitcoin", coins)
	}
}

func TestMarketUpstreamDown(t *testing.T) {
	s := testServer(t, &flakySource{fail: true}, time.Minute)

	rec := doRequest(t, s, http.MethodGet, "/api/market", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["error"] == "" {
		t.Error("error message missing from body")
	}
}

func TestMarketStaleFallback(t *testing.T) {
	source := &flakySource{coins: []model.Coin{{ID: "bitcoin", MarketCap: 1e12}}}
	s := testServer(t, source, 10*time.Millisecond)

	if rec := doRequest(t, s, http.MethodGet, "/api/market", ""); rec.Code != http.StatusOK {
		t.Fatalf("warmup status = %d, want %d", rec.Code, http.StatusOK)
	}

	source.fail = true
	time.Sleep(20 * time.Millisecond)

	rec := doRequest(t, s, http.MethodGet, "/api/market", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d with stale snapshot", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("X-Stale"); got != "true" {
		t.Errorf("X-Stale = %q, want %q", got, "true")
	}
}

func TestLayoutEndpoint(t *testing.T) {
	source := &flakySource{coins: []model.Coin{
		{ID: "bitcoin", MarketCap: 1e12},
		{ID: "ethereum", MarketCap: 4e11},
	}}
	s := testServer(t, source, time.Minute)

	rec := doRequest(t, s, http.MethodGet, "/api/layout?width=400&height=300", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}

	var nodes []layout.Node
	if err := json.Unmarshal(rec.Body.Bytes(), &nodes); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	for _, n := range nodes {
		if n.X-n.R < 0 || n.X+n.R > 400 || n.Y-n.R < 0 || n.Y+n.R > 300 {
			t.Errorf("node %s escapes canvas: x=%f y=%f r=%f", n.Coin.ID, n.X, n.Y, n.R)
		}
	}
}

func TestLayoutBadDimensions(t *testing.T) {
	source := &flakySource{coins: []model.Coin{{ID: "bitcoin", MarketCap: 1e12}}}
	s := testServer(t, source, time.Minute)

	tests := []string{
		"/api/layout?width=-5",
		"/api/layout?height=0",
		"/api/layout?width=abc",
		"/api/layout?padding=-1",
	}
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodGet, target, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestFavoritesCRUD(t *testing.T) {
	s := testServer(t, &flakySource{}, time.Minute)

	rec := doRequest(t, s, http.MethodPost, "/api/favorites", `{"symbol":"BTC","name":"Bitcoin"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/favorites", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want %d", rec.Code, http.StatusOK)
	}
	var favs []model.Favorite
	if err := json.Unmarshal(rec.Body.Bytes(), &favs); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(favs) != 1 || favs[0].Symbol != "BTC" {
		t.Fatalf("favorites = %v, want single BTC entry", favs)
	}

	rec = doRequest(t, s, http.MethodDelete, "/api/favorites?symbol=BTC", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/favorites", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &favs); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(favs) != 0 {
		t.Errorf("favorites = %v after delete, want empty", favs)
	}
}

func TestFavoritesListSorted(t *testing.T) {
	s := testServer(t, &flakySource{}, time.Minute)

	for _, sym := range []string{"BTC", "ETH", "SOL"} {
		body := `{"symbol":"` + sym + `","name":"` + sym + `"}`
		if rec := doRequest(t, s, http.MethodPost, "/api/favorites", body); rec.Code != http.StatusCreated {
			t.Fatalf("POST %s status = %d", sym, rec.Code)
		}
		time.Sleep(2 * time.Millisecond)
	}

	rec := doRequest(t, s, http.MethodGet, "/api/favorites", "")
	var favs []model.Favorite
	if err := json.Unmarshal(rec.Body.Bytes(), &favs); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(favs) != 3 {
		t.Fatalf("got %d favorites, want 3", len(favs))
	}
	// Newest first.
	want := []string{"SOL", "ETH", "BTC"}
	for i, sym := range want {
		if favs[i].Symbol != sym {
			t.Errorf("favs[%d].Symbol = %q, want %q", i, favs[i].Symbol, sym)
		}
	}
}

func TestFavoritesValidation(t *testing.T) {
	s := testServer(t, &flakySource{}, time.Minute)

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"missing name", http.MethodPost, "/api/favorites", `{"symbol":"BTC"}`},
		{"missing symbol", http.MethodPost, "/api/favorites", `{"name":"Bitcoin"}`},
		{"blank fields", http.MethodPost, "/api/favorites", `{"symbol":" ","name":" "}`},
		{"bad json", http.MethodPost, "/api/favorites", `{`},
		{"delete without symbol", http.MethodDelete, "/api/favorites", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, tt.method, tt.target, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}
