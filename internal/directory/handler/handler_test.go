package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteops/internal/directory"
	"siteops/pkg/platform/middleware/admin"
)

const token = "sync-secret"

func newRouter() (*chi.Mux, *directory.InMemoryStore) {
	store := directory.NewInMemoryStore()
	h := New(directory.NewService(store), token, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	return r, store
}

func TestSyncUser(t *testing.T) {
	r, _ := newRouter()
	userID := uuid.NewString()

	t.Run("requires admin token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/admin/directory/users/"+userID, strings.NewReader(`{"active":true}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects missing active flag", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/admin/directory/users/"+userID, strings.NewReader(`{"email":"a@example.com"}`))
		req.Header.Set(admin.HeaderAdminToken, token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/admin/directory/users/"+userID, strings.NewReader(`{"email":"nope","active":true}`))
		req.Header.Set(admin.HeaderAdminToken, token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid email address")
	})

	t.Run("upserts and reads back", func(t *testing.T) {
		body := `{"email":"a@example.com","full_name":"Ana","roles":["Fitter"],"active":true}`
		req := httptest.NewRequest(http.MethodPut, "/admin/directory/users/"+userID, strings.NewReader(body))
		req.Header.Set(admin.HeaderAdminToken, token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		req = httptest.NewRequest(http.MethodGet, "/admin/directory/users/"+userID, nil)
		req.Header.Set(admin.HeaderAdminToken, token)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"roles":["fitter"]`)
	})

	t.Run("unknown user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/directory/users/"+uuid.NewString(), nil)
		req.Header.Set(admin.HeaderAdminToken, token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
