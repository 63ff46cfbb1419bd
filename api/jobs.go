package api

import (
	"net/http"
	"strconv"

	"github.com/garnizeh/billing/internal/billing"
	"github.com/gorilla/mux"
)

type JobsHandler struct {
	svc *billing.Service
}

func NewJobsHandler(svc *billing.Service) *JobsHandler {
	return &JobsHandler{svc: svc}
}

func (h *JobsHandler) ListUnpaid(w http.ResponseWriter, r *http.Request) {
	profile, ok := ProfileFromContext(r.Context())
	if !ok {
		writeError(w, r, billing.ErrForbidden)
		return
	}

	jobs, err := h.svc.ListUnpaidJobs(r.Context(), profile.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jobs)
}

type payJobResponse struct {
	Paid bool `json:"paid"`
}

// PayJob pays a job of the calling client.
func (h *JobsHandler) PayJob(w http.ResponseWriter, r *http.Request) {
	profile, ok := ProfileFromContext(r.Context())
	if !ok {
		writeError(w, r, billing.ErrForbidden)
		return
	}

	vars := mux.Vars(r)
	if err := validateValues(r.Context(), payJobParamsSchema, "params", vars); err != nil {
		writeError(w, r, err)
		return
	}
	jobID, err := strconv.ParseInt(vars["jobId"], 10, 64)
	if err != nil {
		writeError(w, r, &validationError{msg: "params/jobId must be an integer"})
		return
	}

	if err := h.svc.PayJob(r.Context(), profile.ID, jobID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, payJobResponse{Paid: true})
}
