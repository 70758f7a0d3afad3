package records

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withsutham/SE-KPS-68-2/internal/observability/metrics"
	"github.com/withsutham/SE-KPS-68-2/pkg/logging"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Users   json.RawMessage `json:"users"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Hint    string          `json:"hint"`
}

func newRouter(repo Repository, reg *prometheus.Registry) chi.Router {
	r := chi.NewRouter()
	NewHandler(repo, metrics.NewAPIMetrics(reg), logging.Default()).Register(r)
	return r
}

func call(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestHandlerCRUDRoundTrip(t *testing.T) {
	h := newRouter(NewInMemoryRepository(), prometheus.NewRegistry())

	status, env := call(t, h, http.MethodPost, "/payment", `{"amount": 600, "status": "pending"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.EqualValues(t, 1, created["payment_id"])

	status, env = call(t, h, http.MethodGet, "/payment", "")
	require.Equal(t, http.StatusOK, status)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	status, env = call(t, h, http.MethodPut, "/payment/1", `{"status": "paid"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"paid"`)

	status, env = call(t, h, http.MethodGet, "/payment/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"paid"`)

	status, env = call(t, h, http.MethodDelete, "/payment/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "payment deleted successfully", env.Message)

	status, env = call(t, h, http.MethodGet, "/payment/1", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestHandlerListFilter(t *testing.T) {
	h := newRouter(NewInMemoryRepository(), prometheus.NewRegistry())
	call(t, h, http.MethodPost, "/leave_record", `{"employee_id": 1, "status": "approved"}`)
	call(t, h, http.MethodPost, "/leave_record", `{"employee_id": 2, "status": "pending"}`)

	status, env := call(t, h, http.MethodGet, "/leave_record?status=pending&ignored=1", "")
	require.Equal(t, http.StatusOK, status)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.EqualValues(t, 2, list[0]["employee_id"])
}

func TestHandlerCreateValidation(t *testing.T) {
	h := newRouter(NewInMemoryRepository(), prometheus.NewRegistry())

	status, env := call(t, h, http.MethodPost, "/coupon", `{"code":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid JSON body or internal error", env.Error)

	status, _ = call(t, h, http.MethodPost, "/coupon", `{"nope": 1}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, h, http.MethodPost, "/coupon", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandlerUpdateMissing(t *testing.T) {
	h := newRouter(NewInMemoryRepository(), prometheus.NewRegistry())

	status, _ := call(t, h, http.MethodPut, "/massage/42", `{"price": 3000}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, h, http.MethodPut, "/massage/42", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandlerEveryResourceIsMounted(t *testing.T) {
	h := newRouter(NewInMemoryRepository(), prometheus.NewRegistry())
	for _, name := range []string{
		"customer", "payment", "coupon", "leave_record", "massage", "package",
		"member_coupon", "therapist_massage_skill", "profiles", "booking_detail", "employee",
	} {
		status, env := call(t, h, http.MethodGet, "/"+name, "")
		assert.Equal(t, http.StatusOK, status, name)
		assert.True(t, env.Success, name)
		assert.Equal(t, "[]", string(env.Data), name)
	}
}

type failingRepo struct {
	err error
}

func (f failingRepo) List(context.Context, Resource, map[string]string) ([]Record, error) {
	return nil, f.err
}
func (f failingRepo) Create(context.Context, Resource, Record) (Record, error) { return nil, f.err }
func (f failingRepo) Get(context.Context, Resource, string) (Record, error)    { return nil, f.err }
func (f failingRepo) Update(context.Context, Resource, string, Record) (Record, error) {
	return nil, f.err
}
func (f failingRepo) Delete(context.Context, Resource, string) error { return f.err }

func TestHandlerStoreErrorMapping(t *testing.T) {
	rejected := newRouter(failingRepo{err: &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}}, prometheus.NewRegistry())

	status, _ := call(t, rejected, http.MethodGet, "/customer", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	status, _ = call(t, rejected, http.MethodPost, "/customer", `{"first_name":"Mali"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	status, env := call(t, rejected, http.MethodGet, "/customer/1", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "foreign key")
	status, _ = call(t, rejected, http.MethodPut, "/customer/1", `{"first_name":"Mali"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = call(t, rejected, http.MethodDelete, "/customer/1", "")
	assert.Equal(t, http.StatusBadRequest, status)

	outage := newRouter(failingRepo{err: errors.New("dial tcp: connection refused")}, prometheus.NewRegistry())
	status, env = call(t, outage, http.MethodGet, "/customer/1", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal error", env.Error)
}

func TestHandlerProfiles(t *testing.T) {
	h := newRouter(NewInMemoryRepository(), prometheus.NewRegistry())
	const uid = "6f1c2a9e-1a53-4d0e-9a55-3f2b6a3c1d10"

	status, env := call(t, h, http.MethodPost, "/profiles", `{"user_type":"customer"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields: profile_id (or id) and user_type are required.", env.Error)

	status, _ = call(t, h, http.MethodPost, "/profiles", `{"id":"`+uid+`","user_type":"customer"}`)
	require.Equal(t, http.StatusCreated, status)

	status, env = call(t, h, http.MethodGet, "/profiles/id="+uid, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), uid)

	status, _ = call(t, h, http.MethodGet, "/profiles/profile_id="+uid, "")
	assert.Equal(t, http.StatusOK, status)

	status, env = call(t, h, http.MethodGet, "/profiles/id=", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ID parameter is required", env.Error)

	status, env = call(t, h, http.MethodGet, "/profiles/00000000-0000-0000-0000-000000000000", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Profile not found", env.Error)

	status, env = call(t, h, http.MethodGet, "/profiles?id="+uid, "")
	require.Equal(t, http.StatusOK, status)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	status, env = call(t, h, http.MethodGet, "/getUsers", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Users), uid)
}

func TestHandlerProfileLookupRejected(t *testing.T) {
	h := newRouter(failingRepo{err: &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}}, prometheus.NewRegistry())

	status, env := call(t, h, http.MethodGet, "/profiles/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Ensure the ID is a valid UUID format.", env.Hint)
}

func TestHandlerRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newRouter(NewInMemoryRepository(), reg)

	call(t, h, http.MethodGet, "/coupon", "")
	call(t, h, http.MethodGet, "/coupon/1", "")

	count, err := testutil.GatherAndCount(reg, "spa_api_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
