// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gsindri/hotelfinder-worker/internal/app"
	"github.com/gsindri/hotelfinder-worker/internal/domain"
)

type Handlers struct {
	R             *app.Resolver
	DefaultRegion string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/compare", h.compare)
	s.mux.Post("/v1/prefetch", h.prefetch)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

type compareRequest struct {
	HotelName      string `json:"hotelName"`
	OfficialDomain string `json:"officialDomain,omitempty"`
	BookingURL     string `json:"bookingUrl,omitempty"`
	Region         string `json:"region,omitempty"`
	Language       string `json:"language,omitempty"`
	CheckIn        string `json:"checkIn,omitempty"`
	CheckOut       string `json:"checkOut,omitempty"`
	PartySize      int    `json:"partySize,omitempty"`
	Currency       string `json:"currency,omitempty"`
	ContextID      string `json:"contextId,omitempty"`
}

func (c *compareRequest) toResolve(defaultRegion string) app.ResolveRequest {
	region := c.Region
	if region == "" {
		region = defaultRegion
	}
	return app.ResolveRequest{
		Region:         region,
		HotelName:      strings.TrimSpace(c.HotelName),
		OfficialDomain: strings.TrimSpace(c.OfficialDomain),
		ListingURL:     strings.TrimSpace(c.BookingURL),
		Language:       c.Language,
		CheckIn:        c.CheckIn,
		CheckOut:       c.CheckOut,
		PartySize:      c.PartySize,
		Currency:       c.Currency,
		ContextID:      c.ContextID,
	}
}

func (h *Handlers) compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be JSON")
		return
	}
	if strings.TrimSpace(req.HotelName) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "hotelName is required")
		return
	}

	res, err := h.R.Resolve(r.Context(), req.toResolve(h.DefaultRegion))
	switch {
	case errors.Is(err, domain.ErrNoProperty):
		writeProblem(w, http.StatusNotFound, "No Property Found", "no property matched the query")
		return
	case errors.Is(err, domain.ErrUpstream):
		writeProblem(w, http.StatusBadGateway, "Upstream Failure", "property search is unavailable")
		return
	case err != nil:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type prefetchResponse struct {
	ContextID  string `json:"contextId"`
	Candidates int    `json:"candidates"`
}

func (h *Handlers) prefetch(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be JSON")
		return
	}
	if strings.TrimSpace(req.HotelName) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "hotelName is required")
		return
	}

	id, n, err := h.R.Prefetch(r.Context(), req.toResolve(h.DefaultRegion))
	if errors.Is(err, domain.ErrUpstream) {
		writeProblem(w, http.StatusBadGateway, "Upstream Failure", "property search is unavailable")
		return
	}
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	writeJSON(w, http.StatusOK, prefetchResponse{ContextID: id, Candidates: n})
}
