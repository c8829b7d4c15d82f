package interview

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type StartInterviewRequest struct {
	Age              int      `json:"age"`
	Gender           string   `json:"gender"`
	PrimaryComplaint string   `json:"primary_complaint"`
	MedicalHistory   []string `json:"medical_history,omitempty"`
	Medications      []string `json:"medications,omitempty"`
	Allergies        []string `json:"allergies,omitempty"`
	Language         string   `json:"language,omitempty"`
}

type AnswerRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

func (h *Handler) StartInterview(w http.ResponseWriter, r *http.Request) {
	var req StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.PrimaryComplaint == "" {
		http.Error(w, "primary_complaint is required", http.StatusBadRequest)
		return
	}

	profile := Profile{
		Age:              req.Age,
		Gender:           req.Gender,
		PrimaryComplaint: req.PrimaryComplaint,
		MedicalHistory:   req.MedicalHistory,
		Medications:      req.Medications,
		Allergies:        req.Allergies,
	}

	session, err := h.svc.StartInterview(r.Context(), profile, req.Language)
	if err != nil {
		http.Error(w, "Failed to start interview: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, session)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(req.SessionID)
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	session, err := h.svc.SubmitAnswer(r.Context(), id, req.Answer)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, ErrSessionStopped):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, "Processing failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, session)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	session, err := h.svc.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load interview", http.StatusInternalServerError)
		return
	}

	writeJSON(w, session)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/interview", h.StartInterview)
	r.Post("/interview/answer", h.SubmitAnswer)
	r.Get("/interview/{id}", h.GetSession)
}
