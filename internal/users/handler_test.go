package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knownID = "7a2c1f00-0000-4000-8000-000000000001"

type response struct {
	Success bool              `json:"success"`
	Users   []User            `json:"users"`
	User    *User             `json:"user"`
	Error   string            `json:"error"`
	Hint    string            `json:"hint"`
}

func newRouter(dir Directory) chi.Router {
	r := chi.NewRouter()
	NewHandler(dir, nil).Register(r)
	return r
}

func get(t *testing.T, h http.Handler, path string) (int, response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func seeded() *InMemoryDirectory {
	email := "mali@example.com"
	return NewInMemoryDirectory(User{ID: knownID, Email: &email, Role: "authenticated", CreatedAt: time.Now()})
}

func TestListUsers(t *testing.T) {
	status, resp := get(t, newRouter(seeded()), "/users")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Users, 1)
}

func TestListUsersEmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(NewInMemoryDirectory()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.JSONEq(t, `{"success":true,"users":[]}`, rec.Body.String())
}

func TestGetUserByQuery(t *testing.T) {
	h := newRouter(seeded())

	status, resp := get(t, h, "/users?id="+knownID)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, resp.User)
	assert.Equal(t, knownID, resp.User.ID)

	status, resp = get(t, h, "/users?id="+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", resp.Error)

	status, _ = get(t, h, "/users?id=garbage")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetUserByPath(t *testing.T) {
	h := newRouter(seeded())

	for _, path := range []string{"/users/" + knownID, "/users/id=" + knownID, "/users/uuid=" + knownID} {
		status, resp := get(t, h, path)
		require.Equal(t, http.StatusOK, status, path)
		assert.Equal(t, knownID, resp.User.ID, path)
	}

	status, resp := get(t, h, "/users/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, hintUserID, resp.Hint)

	status, resp = get(t, h, "/users/uuid=")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ID parameter is required", resp.Error)

	status, resp = get(t, h, "/users/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found in Auth schema", resp.Error)
}

type brokenDirectory struct{}

func (brokenDirectory) ListUsers(context.Context) ([]User, error) {
	return nil, errors.New("connection reset")
}

func (brokenDirectory) GetUser(context.Context, uuid.UUID) (User, error) {
	return User{}, errors.New("connection reset")
}

func TestDirectoryFailures(t *testing.T) {
	h := newRouter(brokenDirectory{})

	status, resp := get(t, h, "/users")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, resp.Success)

	status, _ = get(t, h, "/users/"+knownID)
	assert.Equal(t, http.StatusInternalServerError, status)
}
