package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"time"

	"portfolio-backend-go/internal/services"
	"portfolio-backend-go/internal/storage"

	"github.com/go-chi/chi/v5"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		writeServiceError(w, r, services.ErrBadRequest("Invalid payload"))
		return
	}
	token, err := s.Admin.Login(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, token)
}

func (s *Server) TestConnection(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.Diagnostics.Run(r.Context()))
}

func (s *Server) SendEmail(w http.ResponseWriter, r *http.Request) {
	var msg services.ContactMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&msg); err != nil {
		writeServiceError(w, r, services.ErrBadRequest("Invalid payload"))
		return
	}
	if err := services.ValidateContact(msg); err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, ContactResponse{Success: true, Message: services.ContactAccepted})
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.Store.Ping(ctx); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Error: err.Error()})
		return
	}
	WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// MediaContent serves files written by the local bucket.
func (s *Server) MediaContent(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "bucket") != s.Local.Bucket {
		WriteError(w, http.StatusNotFound, "Media not found")
		return
	}
	objectPath, err := storage.CleanPath(chi.URLParam(r, "*"))
	if err != nil {
		WriteError(w, http.StatusNotFound, "Media not found")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, filepath.Join(s.Local.Root(), filepath.FromSlash(objectPath)))
}
