package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"dispatch-booking-service/internal/domain/repository"
	"dispatch-booking-service/internal/usecase"
	"dispatch-booking-service/pkg/logger"

	"github.com/gorilla/mux"
)

// SocketServer subscribes a websocket connection to one workflow
type SocketServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, snapshot usecase.WorkflowView)
}

// Handler contains HTTP handlers for the booking workflow API
type Handler struct {
	bookingService usecase.BookingService
	sockets        SocketServer
	logger         logger.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(bookingService usecase.BookingService, sockets SocketServer, logger logger.Logger) *Handler {
	return &Handler{
		bookingService: bookingService,
		sockets:        sockets,
		logger:         logger,
	}
}

type jumpRequest struct {
	Index *int `json:"index"`
}

type errorResponse struct {
	Error    string                `json:"error"`
	Kind     string                `json:"kind,omitempty"`
	Workflow *usecase.WorkflowView `json:"workflow,omitempty"`
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps usecase errors onto status codes. view, when
// present, carries the field errors the caller should render.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error, view *usecase.WorkflowView) {
	var rejection *repository.RejectionError
	switch {
	case errors.Is(err, usecase.ErrWorkflowNotFound):
		respondError(w, http.StatusNotFound, "Workflow not found")
	case errors.Is(err, usecase.ErrWorkflowClosed):
		respondError(w, http.StatusGone, err.Error())
	case errors.Is(err, usecase.ErrSubmissionInProgress):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, usecase.ErrStepInvalid):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Workflow: view})
	case errors.Is(err, usecase.ErrJumpAhead):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &rejection):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: rejection.Message, Kind: rejection.Kind, Workflow: view})
	case errors.Is(err, usecase.ErrInvalidPayload):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Workflow: view})
	default:
		h.logger.Error("Booking workflow request failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error(), Workflow: view})
	}
}

// StartWorkflow handles POST /api/bookings/workflows
func (h *Handler) StartWorkflow(w http.ResponseWriter, r *http.Request) {
	view, err := h.bookingService.StartWorkflow(r.Context())
	if err != nil {
		h.respondServiceError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// GetWorkflow handles GET /api/bookings/workflows/{id}
func (h *Handler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	view, err := h.bookingService.GetWorkflow(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondServiceError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// UpdateWorkflow handles PATCH /api/bookings/workflows/{id}
func (h *Handler) UpdateWorkflow(w http.ResponseWriter, r *http.Request) {
	var answers usecase.Answers
	if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.bookingService.UpdateWorkflow(r.Context(), mux.Vars(r)["id"], answers)
	if err != nil {
		h.respondServiceError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Advance handles POST /api/bookings/workflows/{id}/advance
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	view, err := h.bookingService.Advance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondServiceError(w, err, view)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Retreat handles POST /api/bookings/workflows/{id}/retreat
func (h *Handler) Retreat(w http.ResponseWriter, r *http.Request) {
	view, err := h.bookingService.Retreat(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondServiceError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// JumpTo handles POST /api/bookings/workflows/{id}/jump
func (h *Handler) JumpTo(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Index == nil || *req.Index < 0 {
		respondError(w, http.StatusBadRequest, "A non-negative step index is required")
		return
	}

	view, err := h.bookingService.JumpTo(r.Context(), mux.Vars(r)["id"], *req.Index)
	if err != nil {
		h.respondServiceError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Submit handles POST /api/bookings/workflows/{id}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := h.bookingService.Submit(r.Context(), id)
	if err != nil {
		// the workflow keeps its answers; hand them back with the reason
		view, _ := h.bookingService.GetWorkflow(r.Context(), id)
		h.respondServiceError(w, err, view)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// Reset handles POST /api/bookings/workflows/{id}/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.bookingService.Reset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondServiceError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Abandon handles DELETE /api/bookings/workflows/{id}
func (h *Handler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.bookingService.Abandon(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondServiceError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WorkflowSocket handles GET /api/bookings/workflows/{id}/ws
func (h *Handler) WorkflowSocket(w http.ResponseWriter, r *http.Request) {
	view, err := h.bookingService.GetWorkflow(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondServiceError(w, err, nil)
		return
	}
	h.sockets.ServeWS(w, r, *view)
}
