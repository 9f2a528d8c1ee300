package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-crypto-dash/apimodel"
	"github.com/jrsteele09/go-crypto-dash/internal/errors"
)

func (s *Server) NewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter apimodel.NewsFilter
		if err := decodeJSON(w, r, &filter); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if filter.Offset < 0 {
			writeError(w, http.StatusBadRequest, "Offset must not be negative")
			return
		}
		writeJSON(w, http.StatusOK, s.market.News(filter))
	}
}

func (s *Server) ICOsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.market.ICOs())
	}
}

func (s *Server) TickersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.market.Tickers())
	}
}

func (s *Server) PricesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := PeriodDays(r.PathValue("period"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, s.market.Prices(days, s.nowFunc().UTC()))
	}
}

func (s *Server) PortfoliosHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		writeJSON(w, http.StatusOK, s.market.Portfolios(claims.Username))
	}
}

func (s *Server) WatchlistsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		writeJSON(w, http.StatusOK, s.market.Watchlists(claims.Username))
	}
}

func (s *Server) CreateWatchlistHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var create apimodel.WatchlistCreate
		if err := decodeJSON(w, r, &create); err != nil {
			writeError(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		create.Name = strings.TrimSpace(create.Name)
		if create.Name == "" {
			writeError(w, http.StatusBadRequest, "Watchlist name is required")
			return
		}

		claims := ClaimsFromContext(r.Context())
		wl, err := s.market.CreateWatchlist(claims.Username, create)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, wl)
	}
}

func (s *Server) UpdateWatchlistHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update apimodel.WatchlistUpdate
		if err := decodeJSON(w, r, &update); err != nil {
			writeError(w, http.StatusBadRequest, "Malformed request body")
			return
		}

		claims := ClaimsFromContext(r.Context())
		if err := s.market.UpdateWatchlist(claims.Username, update); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errors.ErrNotFound) {
				status = http.StatusNotFound
			}
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, apimodel.MessageResponse{Message: "Watchlist updated"})
	}
}
