package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"portfolio-backend-go/internal/services"
	"portfolio-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

const maxJSONBody = 1 << 20

// crud is the repository surface behind /api/{entity}.
type crud[T any] interface {
	List(ctx context.Context, filters ...store.Filter) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, payload map[string]any) (T, error)
	Update(ctx context.Context, id int64, payload map[string]any) (T, error)
	Delete(ctx context.Context, id int64) error
}

// resource serves one list entity. filters turns query parameters into
// store filters; fallback fills an empty list.
type resource[T any] struct {
	repo     crud[T]
	schema   services.Schema
	filters  func(r *http.Request) []store.Filter
	fallback func(r *http.Request) []T
}

func mountResource[T any](api chi.Router, path string, res resource[T], auth func(http.Handler) http.Handler) {
	api.Route(path, func(rt chi.Router) {
		rt.Get("/", res.get)
		rt.Group(func(admin chi.Router) {
			admin.Use(auth)
			admin.Post("/", res.create)
			admin.Put("/", res.update)
			admin.Delete("/", res.delete)
		})
	})
}

func (res resource[T]) get(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		item, err := res.repo.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		WriteData(w, http.StatusOK, item)
		return
	}
	var filters []store.Filter
	if res.filters != nil {
		filters = res.filters(r)
	}
	items, err := res.repo.List(r.Context(), filters...)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if len(items) == 0 && res.fallback != nil {
		items = res.fallback(r)
	}
	WriteData(w, http.StatusOK, items)
}

func (res resource[T]) create(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	item, err := res.repo.Create(r.Context(), payload)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	auditLog(r, res.schema, "created")
	WriteData(w, http.StatusCreated, item)
}

func (res resource[T]) update(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	raw, ok := payload["id"]
	if !ok || raw == nil || raw == "" {
		writeServiceError(w, r, services.ErrBadRequest("ID is required"))
		return
	}
	id, err := parseIDValue(raw)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	item, err := res.repo.Update(r.Context(), id, payload)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	auditLog(r, res.schema, "updated")
	WriteData(w, http.StatusOK, item)
}

func (res resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		writeServiceError(w, r, services.ErrBadRequest("ID is required"))
		return
	}
	id, err := parseID(raw)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := res.repo.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	auditLog(r, res.schema, "deleted")
	WriteJSON(w, http.StatusOK, MessageResponse{Message: res.schema.DeletedMessage()})
}

func auditLog(r *http.Request, schema services.Schema, action string) {
	LoggerFrom(r).WithFields(logrus.Fields{
		"table": schema.Table,
		"admin": CurrentSubject(r),
	}).Info(schema.Name + " " + action)
}

// decodePayload reads a JSON object body. Numbers arrive as float64.
func decodePayload(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	payload := map[string]any{}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, services.ErrBadRequest("Request body is required")
		}
		return nil, services.ErrBadRequest("Invalid payload")
	}
	if payload == nil {
		return nil, services.ErrBadRequest("Invalid payload")
	}
	return payload, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, services.ErrBadRequest("Invalid ID")
	}
	return id, nil
}

func parseIDValue(raw any) (int64, error) {
	switch v := raw.(type) {
	case float64:
		if v > 0 && v == math.Trunc(v) {
			return int64(v), nil
		}
	case string:
		return parseID(v)
	}
	return 0, services.ErrBadRequest("Invalid ID")
}
