package api

import (
	"net/http"
	"strconv"

	"github.com/garnizeh/billing/internal/billing"
	"github.com/gorilla/mux"
)

type ContractsHandler struct {
	svc *billing.Service
}

func NewContractsHandler(svc *billing.Service) *ContractsHandler {
	return &ContractsHandler{svc: svc}
}

// GetContract returns a contract of the calling profile.
func (h *ContractsHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	profile, ok := ProfileFromContext(r.Context())
	if !ok {
		writeError(w, r, billing.ErrForbidden)
		return
	}

	vars := mux.Vars(r)
	if err := validateValues(r.Context(), contractParamsSchema, "params", vars); err != nil {
		writeError(w, r, err)
		return
	}
	contractID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeError(w, r, &validationError{msg: "params/id must be an integer"})
		return
	}

	contract, err := h.svc.GetContract(r.Context(), profile.ID, contractID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, contract)
}

// ListContracts returns the non terminated contracts of the calling profile.
func (h *ContractsHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	profile, ok := ProfileFromContext(r.Context())
	if !ok {
		writeError(w, r, billing.ErrForbidden)
		return
	}

	contracts, err := h.svc.ListContracts(r.Context(), profile.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, contracts)
}
