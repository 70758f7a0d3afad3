package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/withsutham/SE-KPS-68-2/internal/http/respond"
	"github.com/withsutham/SE-KPS-68-2/internal/observability/metrics"
	"github.com/withsutham/SE-KPS-68-2/pkg/logging"
)

var recordsTracer = otel.Tracer("spa.internal.records")

const (
	msgIDRequired      = "ID parameter is required"
	msgInvalidBody     = "Invalid JSON body or internal error"
	msgProfileFields   = "Missing required fields: profile_id (or id) and user_type are required."
	msgProfileNotFound = "Profile not found"
	hintProfileID      = "Ensure the ID is a valid UUID format."
	msgInternal        = "internal error"
)

// Handler serves the generic /api/<resource> CRUD routes.
type Handler struct {
	repo      Repository
	resources []Resource
	metrics   *metrics.APIMetrics
	logger    *logging.Logger
}

// NewHandler creates a records handler over every registered resource.
func NewHandler(repo Repository, apiMetrics *metrics.APIMetrics, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("records: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, resources: Resources(), metrics: apiMetrics, logger: logger}
}

// Register mounts the resource routes and /getUsers on r.
func (h *Handler) Register(r chi.Router) {
	for _, res := range h.resources {
		r.Route("/"+res.Name, func(r chi.Router) {
			if res.Name == ProfilesResource {
				r.Get("/", h.instrument(res, "list", h.listProfiles(res)))
				r.Post("/", h.instrument(res, "create", h.createProfile(res)))
				r.Get("/{id}", h.instrument(res, "get", h.getProfile(res)))
			} else {
				r.Get("/", h.instrument(res, "list", h.list(res)))
				r.Post("/", h.instrument(res, "create", h.create(res)))
				r.Get("/{id}", h.instrument(res, "get", h.get(res)))
			}
			r.Put("/{id}", h.instrument(res, "update", h.update(res)))
			r.Delete("/{id}", h.instrument(res, "delete", h.delete(res)))
		})
	}
	profiles, _ := Lookup(ProfilesResource)
	r.Get("/getUsers", h.instrument(profiles, "list_users", h.listProfileUsers(profiles)))
}

func (h *Handler) instrument(res Resource, op string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := recordsTracer.Start(r.Context(), "records."+op, trace.WithAttributes(
			attribute.String("records.resource", res.Name),
		))
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next(ww, r.WithContext(ctx))
		span.SetAttributes(attribute.Int("http.status_code", ww.Status()))
		h.metrics.ObserveRequest(res.Name, op, ww.Status())
	}
}

func (h *Handler) fail(w http.ResponseWriter, status int, res Resource, op string, err error) {
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.Error("record request failed", "resource", res.Name, "op", op, "error", err)
		msg = msgInternal
	} else {
		h.logger.Warn("record request rejected", "resource", res.Name, "op", op, "error", err)
	}
	respond.Error(w, status, msg)
}

// byIDStatus maps repository errors on get, update and delete.
func byIDStatus(err error) int {
	switch {
	case isNoRows(err):
		return http.StatusNotFound
	case IsRejected(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request, prefixes ...string) string {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	for _, p := range prefixes {
		id = strings.TrimPrefix(id, p)
	}
	return id
}

func decodeRecord(r *http.Request) (Record, error) {
	var rec Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrEmptyRecord
	}
	return rec, nil
}

func filterFrom(res Resource, r *http.Request) map[string]string {
	filter := make(map[string]string)
	for col, vals := range r.URL.Query() {
		if len(vals) > 0 && res.HasColumn(col) {
			filter[col] = vals[0]
		}
	}
	return filter
}

func (h *Handler) list(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.repo.List(r.Context(), res, filterFrom(res, r))
		if err != nil {
			h.fail(w, http.StatusInternalServerError, res, "list", err)
			return
		}
		respond.Data(w, http.StatusOK, rows)
	}
}

func (h *Handler) create(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := decodeRecord(r)
		if err != nil {
			h.logger.Warn("record create body rejected", "resource", res.Name, "error", err)
			respond.Error(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
		h.insert(w, r, res, rec)
	}
}

func (h *Handler) insert(w http.ResponseWriter, r *http.Request, res Resource, rec Record) {
	row, err := h.repo.Create(r.Context(), res, rec)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrUnknownColumn) || errors.Is(err, ErrEmptyRecord) {
			status = http.StatusBadRequest
		}
		h.fail(w, status, res, "create", err)
		return
	}
	h.logger.Info("record created", "resource", res.Name, "id", row[res.PrimaryKey])
	respond.Data(w, http.StatusCreated, row)
}

func (h *Handler) get(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		if id == "" {
			respond.Error(w, http.StatusBadRequest, msgIDRequired)
			return
		}
		row, err := h.repo.Get(r.Context(), res, id)
		if err != nil {
			status := byIDStatus(err)
			if status == http.StatusNotFound {
				respond.Error(w, status, fmt.Sprintf("%s not found", res.Table))
				return
			}
			h.fail(w, status, res, "get", err)
			return
		}
		respond.Data(w, http.StatusOK, row)
	}
}

func (h *Handler) update(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		if id == "" {
			respond.Error(w, http.StatusBadRequest, msgIDRequired)
			return
		}
		rec, err := decodeRecord(r)
		if err != nil {
			h.logger.Warn("record update body rejected", "resource", res.Name, "error", err)
			respond.Error(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
		row, err := h.repo.Update(r.Context(), res, id, rec)
		if err != nil {
			status := byIDStatus(err)
			if status == http.StatusNotFound {
				respond.Error(w, status, fmt.Sprintf("%s not found", res.Table))
				return
			}
			h.fail(w, status, res, "update", err)
			return
		}
		respond.Data(w, http.StatusOK, row)
	}
}

func (h *Handler) delete(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		if id == "" {
			respond.Error(w, http.StatusBadRequest, msgIDRequired)
			return
		}
		if err := h.repo.Delete(r.Context(), res, id); err != nil {
			h.fail(w, byIDStatus(err), res, "delete", err)
			return
		}
		respond.Message(w, http.StatusOK, res.Table+" deleted successfully")
	}
}

func (h *Handler) listProfiles(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := filterFrom(res, r)
		if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
			filter[res.PrimaryKey] = id
		}
		rows, err := h.repo.List(r.Context(), res, filter)
		if err != nil {
			h.fail(w, http.StatusInternalServerError, res, "list", err)
			return
		}
		respond.Data(w, http.StatusOK, rows)
	}
}

type profileRequest struct {
	ID        string `json:"id"`
	ProfileID string `json:"profile_id"`
	UserType  string `json:"user_type"`
}

func (h *Handler) createProfile(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, msgInvalidBody)
			return
		}
		target := strings.TrimSpace(req.ProfileID)
		if target == "" {
			target = strings.TrimSpace(req.ID)
		}
		userType := strings.TrimSpace(req.UserType)
		if target == "" || userType == "" {
			respond.Error(w, http.StatusBadRequest, msgProfileFields)
			return
		}
		h.insert(w, r, res, Record{res.PrimaryKey: target, "user_type": userType})
	}
}

func (h *Handler) getProfile(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r, "id=", "profile_id=")
		if id == "" {
			respond.Error(w, http.StatusBadRequest, msgIDRequired)
			return
		}
		row, err := h.repo.Get(r.Context(), res, id)
		switch {
		case err == nil:
			respond.Data(w, http.StatusOK, row)
		case isNoRows(err):
			respond.Error(w, http.StatusNotFound, msgProfileNotFound)
		case IsRejected(err):
			h.logger.Warn("profile lookup rejected", "id", id, "error", err)
			respond.ErrorWithHint(w, http.StatusBadRequest, err.Error(), hintProfileID)
		default:
			h.fail(w, http.StatusInternalServerError, res, "get", err)
		}
	}
}

type usersResponse struct {
	Success bool     `json:"success"`
	Users   []Record `json:"users"`
}

func (h *Handler) listProfileUsers(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.repo.List(r.Context(), res, nil)
		if err != nil {
			h.fail(w, http.StatusInternalServerError, res, "list_users", err)
			return
		}
		respond.JSON(w, http.StatusOK, usersResponse{Success: true, Users: rows})
	}
}
