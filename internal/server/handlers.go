package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kzhou/cryptobubbles/internal/layout"
	"github.com/kzhou/cryptobubbles/internal/model"
)

// marketCacheControl mirrors the cache TTL so shared caches revalidate on
// the same schedule the server refreshes on.
const marketCacheControl = "s-maxage=60, stale-while-revalidate=30"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	snap, err := s.cache.Get(r.Context(), false)
	if err != nil {
		s.logger.Error("market snapshot unavailable", "error", err)
		writeError(w, http.StatusBadGateway, "market data unavailable")
		return
	}

	w.Header().Set("Cache-Control", marketCacheControl)
	if snap.Stale {
		w.Header().Set("X-Stale", "true")
	}
	writeJSON(w, http.StatusOK, snap.Coins)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	width, err := queryFloat(r, "width", s.layout.Width)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid width")
		return
	}
	height, err := queryFloat(r, "height", s.layout.Height)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid height")
		return
	}
	padding, err := queryFloat(r, "padding", s.layout.Padding)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid padding")
		return
	}

	snap, err := s.cache.Get(r.Context(), false)
	if err != nil {
		s.logger.Error("market snapshot unavailable", "error", err)
		writeError(w, http.StatusBadGateway, "market data unavailable")
		return
	}

	nodes, err := layout.Pack(snap.Coins, width, height, padding)
	if err != nil {
		if errors.Is(err, layout.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("packing layout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "layout failed")
		return
	}

	if snap.Stale {
		w.Header().Set("X-Stale", "true")
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleFavoritesList(w http.ResponseWriter, r *http.Request) {
	favs, err := s.favs.List(r.Context())
	if err != nil {
		s.logger.Error("listing favorites failed", "error", err)
		writeError(w, http.StatusInternalServerError, "favorites unavailable")
		return
	}
	if favs == nil {
		favs = []model.Favorite{}
	}
	writeJSON(w, http.StatusOK, favs)
}

func (s *Server) handleFavoritesAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Symbol = strings.TrimSpace(req.Symbol)
	req.Name = strings.TrimSpace(req.Name)
	if req.Symbol == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "symbol and name are required")
		return
	}

	fav := model.Favorite{Symbol: req.Symbol, Name: req.Name, AddedAt: time.Now().UTC()}
	if err := s.favs.Upsert(r.Context(), fav); err != nil {
		s.logger.Error("adding favorite failed", "symbol", fav.Symbol, "error", err)
		writeError(w, http.StatusInternalServerError, "favorites unavailable")
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

func (s *Server) handleFavoritesDelete(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	if err := s.favs.Delete(r.Context(), symbol); err != nil {
		s.logger.Error("deleting favorite failed", "symbol", symbol, "error", err)
		writeError(w, http.StatusInternalServerError, "favorites unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func queryFloat(r *http.Request, key string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
