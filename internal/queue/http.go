package queue

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nguyentantai21042004/minutes-worker/internal/logger"
	"github.com/nguyentantai21042004/minutes-worker/internal/models"
)

type enqueueResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// enqueueRequest is a Job, or the short form {"targetId": 42, "action": "..."}.
type enqueueRequest struct {
	models.Job
	TargetID int64         `json:"targetId"`
	Action   models.Action `json:"action"`
}

type resolveRequest struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NewHandler exposes the actor's control surface.
//
//	POST /enqueue  {job}          -> {success, jobId}
//	               {targetId, action}
//	GET  /dequeue                 -> Job | null
//	POST /complete {id}           -> {success}
//	POST /retry    {id, error}    -> {success}
//	POST /fail     {id, error}    -> {success}
//	GET  /jobs                    -> [Job]
//	GET  /healthz                 -> {success}
func NewHandler(a *Actor, log logger.Logger) http.Handler {
	h := &handler{actor: a, logger: log}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /enqueue", h.enqueue)
	mux.HandleFunc("GET /dequeue", h.dequeue)
	mux.HandleFunc("POST /complete", h.complete)
	mux.HandleFunc("POST /retry", h.retry)
	mux.HandleFunc("POST /fail", h.fail)
	mux.HandleFunc("GET /jobs", h.jobs)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	})
	return mux
}

type handler struct {
	actor  *Actor
	logger logger.Logger
}

func (h *handler) enqueue(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, enqueueResponse{Error: "invalid JSON body"})
		return
	}
	job := req.Job
	if job.Payload.TargetID == 0 {
		job.Payload = models.Payload{TargetID: req.TargetID, Action: req.Action}
	}

	id, err := h.actor.Enqueue(r.Context(), job)
	if err != nil {
		h.logger.Warn(r.Context(), "Enqueue rejected: %v", err)
		writeJSON(w, statusFor(err), enqueueResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, enqueueResponse{Success: true, JobID: id})
}

func (h *handler) dequeue(w http.ResponseWriter, r *http.Request) {
	job, err := h.actor.Dequeue(r.Context())
	if err != nil {
		writeJSON(w, statusFor(err), successResponse{Error: err.Error()})
		return
	}
	// A nil *Job encodes as null.
	writeJSON(w, http.StatusOK, job)
}

func (h *handler) complete(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, func(req resolveRequest) error {
		return h.actor.Complete(r.Context(), req.ID)
	})
}

func (h *handler) retry(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, func(req resolveRequest) error {
		return h.actor.Retry(r.Context(), req.ID, req.Error)
	})
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, func(req resolveRequest) error {
		return h.actor.Fail(r.Context(), req.ID, req.Error)
	})
}

func (h *handler) resolve(w http.ResponseWriter, r *http.Request, fn func(req resolveRequest) error) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, successResponse{Error: "body must be {\"id\": ...}"})
		return
	}
	if err := fn(req); err != nil {
		writeJSON(w, statusFor(err), successResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *handler) jobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.actor.Jobs(r.Context())
	if err != nil {
		writeJSON(w, statusFor(err), successResponse{Error: err.Error()})
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidJob):
		return http.StatusBadRequest
	case errors.Is(err, ErrJobExists):
		return http.StatusConflict
	case errors.Is(err, ErrJobNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
