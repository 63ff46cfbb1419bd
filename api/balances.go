package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/garnizeh/billing/internal/billing"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

type BalancesHandler struct {
	svc *billing.Service
}

func NewBalancesHandler(svc *billing.Service) *BalancesHandler {
	return &BalancesHandler{svc: svc}
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type depositResponse struct {
	Deposited bool `json:"deposited"`
}

// Deposit moves money from the calling profile to the client in the path.
func (h *BalancesHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	profile, ok := ProfileFromContext(r.Context())
	if !ok {
		writeError(w, r, billing.ErrForbidden)
		return
	}

	vars := mux.Vars(r)
	if err := validateValues(r.Context(), depositParamsSchema, "params", vars); err != nil {
		writeError(w, r, err)
		return
	}
	clientID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		writeError(w, r, &validationError{msg: "params/userId must be an integer"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, &validationError{msg: "body is too large"})
		return
	}
	if err := validateBytes(r.Context(), depositBodySchema, "body", body); err != nil {
		writeError(w, r, err)
		return
	}

	var req depositRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, r, &validationError{msg: "body/amount must be a number"})
		return
	}

	if err := h.svc.Deposit(r.Context(), profile.ID, clientID, req.Amount); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, depositResponse{Deposited: true})
}
