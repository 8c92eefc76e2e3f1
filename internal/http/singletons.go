package httpapi

import (
	"net/http"

	"portfolio-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

// singleton serves hero, about and sidebar content: GET always answers,
// PUT replaces the content.
type singleton[T any] struct {
	repo *services.SingletonRepository[T]
}

func mountSingleton[T any](api chi.Router, path string, repo *services.SingletonRepository[T], auth func(http.Handler) http.Handler) {
	s := singleton[T]{repo: repo}
	api.Route(path, func(rt chi.Router) {
		rt.Get("/", s.get)
		rt.With(auth).Put("/", s.put)
	})
}

func (s singleton[T]) get(w http.ResponseWriter, r *http.Request) {
	item, err := s.repo.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteData(w, http.StatusOK, item)
}

func (s singleton[T]) put(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	item, err := s.repo.Put(r.Context(), payload)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	auditLog(r, s.repo.Schema, "updated")
	WriteData(w, http.StatusOK, item)
}
