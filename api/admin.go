package api

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/garnizeh/billing/internal/billing"
	"github.com/garnizeh/billing/pkg/models"
	"github.com/qri-io/jsonschema"
)

type AdminHandler struct {
	svc *billing.Service
}

func NewAdminHandler(svc *billing.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type bestProfessionResponse struct {
	BestProfession string `json:"bestProfession"`
}

func (h *AdminHandler) BestProfession(w http.ResponseWriter, r *http.Request) {
	query, err := h.query(r, bestProfessionQuerySchema, "start", "end")
	if err != nil {
		writeError(w, r, err)
		return
	}
	tf, err := timeframe(query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	profession, err := h.svc.BestProfession(r.Context(), tf)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, bestProfessionResponse{BestProfession: profession})
}

func (h *AdminHandler) BestClients(w http.ResponseWriter, r *http.Request) {
	query, err := h.query(r, bestClientsQuerySchema, "start", "end", "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	tf, err := timeframe(query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	limit := billing.DefaultBestClientsLimit
	if v, ok := query["limit"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, &validationError{msg: "querystring/limit must be an integer"})
			return
		}
		limit = n
	}

	clients, err := h.svc.BestClients(r.Context(), tf, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, clients)
}

// query collects the named query values present in r and validates them.
func (h *AdminHandler) query(r *http.Request, rs *jsonschema.Schema, keys ...string) (map[string]string, error) {
	values := collect(r.URL.Query(), keys...)
	if err := validateValues(r.Context(), rs, "querystring", values); err != nil {
		return nil, err
	}
	return values, nil
}

func collect(q url.Values, keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if q.Has(k) {
			out[k] = q.Get(k)
		}
	}
	return out
}

func timeframe(query map[string]string) (models.Timeframe, error) {
	var tf models.Timeframe
	if v, ok := query["start"]; ok {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return tf, &validationError{msg: `querystring/start must match format "date-time"`}
		}
		tf.Start = &t
	}
	if v, ok := query["end"]; ok {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return tf, &validationError{msg: `querystring/end must match format "date-time"`}
		}
		tf.End = &t
	}
	return tf, nil
}
