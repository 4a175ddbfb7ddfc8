package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/brandpulse/mentions-dashboard/internal/models"
	"github.com/brandpulse/mentions-dashboard/internal/sources"
	"github.com/sirupsen/logrus"
)

// MentionQuerier is the pipeline surface the handler depends on.
type MentionQuerier interface {
	QueryMentions(ctx context.Context, q models.Query) (*models.MentionsResponse, error)
}

// Handler serves the mentions API.
type Handler struct {
	service MentionQuerier
}

// NewHandler creates a new mentions API handler
func NewHandler(service MentionQuerier) *Handler {
	return &Handler{service: service}
}

// Mentions handles GET /api/mentions. Fetch timeouts map to 504, any other
// pipeline failure to 500; both return {error, detail} with no partial data.
func (h *Handler) Mentions(w http.ResponseWriter, r *http.Request) {
	query := ParseQuery(r.URL.Query())

	resp, err := h.service.QueryMentions(r.Context(), query)
	if err != nil {
		var fetchErr *sources.FetchError
		if errors.As(err, &fetchErr) && fetchErr.IsTimeout() {
			writeJSON(w, http.StatusGatewayTimeout, models.ErrorResponse{
				Error:  "timed out querying the Facebook/Instagram API",
				Detail: err.Error(),
			})
			return
		}

		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:  "failed to query the Facebook/Instagram API",
			Detail: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ParseQuery maps request query parameters to a Query, applying defaults
// for absent or invalid values.
func ParseQuery(values url.Values) models.Query {
	q := models.Query{
		Network:   values.Get("network"),
		Sentiment: values.Get("sentiment"),
		Search:    values.Get("search"),
		SortField: values.Get("sort_field"),
		SortDir:   values.Get("sort_dir"),
		Page:      intParam(values, "page", 1),
		PageSize:  intParam(values, "page_size", 10),
	}

	if q.Network != "facebook" && q.Network != "instagram" {
		q.Network = "all"
	}
	if q.Sentiment == "" {
		q.Sentiment = "all"
	}
	if q.SortField == "" {
		q.SortField = "created_time"
	}
	if q.SortDir != "asc" {
		q.SortDir = "desc"
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 1
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}

	return q
}

func intParam(values url.Values, key string, defaultValue int) int {
	raw := values.Get(key)
	if raw == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}
