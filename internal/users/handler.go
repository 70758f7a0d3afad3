package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/withsutham/SE-KPS-68-2/internal/http/respond"
	"github.com/withsutham/SE-KPS-68-2/pkg/logging"
)

const hintUserID = "Ensure the ID is a valid Auth User UUID."

// Handler serves /api/users.
type Handler struct {
	directory Directory
	logger    *logging.Logger
}

// NewHandler creates a users handler.
func NewHandler(directory Directory, logger *logging.Logger) *Handler {
	if directory == nil {
		panic("users: directory required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{directory: directory, logger: logger}
}

// Register mounts /users on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/users", h.ListOrGet)
	r.Get("/users/{id}", h.GetByPath)
}

type listResponse struct {
	Success bool   `json:"success"`
	Users   []User `json:"users"`
}

type userResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

// ListOrGet handles GET /api/users and GET /api/users?id=
func (h *Handler) ListOrGet(w http.ResponseWriter, r *http.Request) {
	if raw := strings.TrimSpace(r.URL.Query().Get("id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeUser(w, r, id, "User not found")
		return
	}

	list, err := h.directory.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	respond.JSON(w, http.StatusOK, listResponse{Success: true, Users: list})
}

// GetByPath handles GET /api/users/{id}. Stray "id=" or "uuid=" prefixes are ignored.
func (h *Handler) GetByPath(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	raw = strings.TrimPrefix(raw, "id=")
	raw = strings.TrimPrefix(raw, "uuid=")
	if raw == "" {
		respond.Error(w, http.StatusBadRequest, "ID parameter is required")
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respond.ErrorWithHint(w, http.StatusBadRequest, err.Error(), hintUserID)
		return
	}
	h.writeUser(w, r, id, "User not found in Auth schema")
}

func (h *Handler) writeUser(w http.ResponseWriter, r *http.Request, id uuid.UUID, notFound string) {
	u, err := h.directory.GetUser(r.Context(), id)
	if errors.Is(err, ErrUserNotFound) {
		respond.Error(w, http.StatusNotFound, notFound)
		return
	}
	if err != nil {
		h.logger.Error("get user failed", "error", err, "user_id", id)
		respond.Error(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	respond.JSON(w, http.StatusOK, userResponse{Success: true, User: u})
}
