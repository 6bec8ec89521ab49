package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"siteops/internal/app"
	"siteops/internal/platform/config"
	id "siteops/pkg/domain"
	"siteops/pkg/platform/middleware/admin"
)

type AppSuite struct {
	suite.Suite
	cfg     config.Server
	app     *app.App
	router  http.Handler
	manager id.UserID
	alice   id.UserID
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupTest() {
	cfg := config.FromEnv()
	cfg.Database.URL = ""
	cfg.Redis.URL = ""
	cfg.Kafka.Brokers = nil
	cfg.Notify.Mode = config.NotifySync
	cfg.SMTP.Host = "127.0.0.1"
	cfg.SMTP.Port = 1
	cfg.AdminToken = "test-admin-token"
	s.cfg = cfg

	a, err := app.New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().NoError(err)
	s.app = a
	s.router = a.Router()

	s.manager = id.UserID(uuid.New())
	s.alice = id.UserID(uuid.New())
	s.syncUser(s.manager, "manager@example.com", "manager")
	s.syncUser(s.alice, "alice@example.com", "operative")
}

func (s *AppSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

func (s *AppSuite) syncUser(userID id.UserID, email, role string) {
	body := map[string]any{"email": email, "full_name": email, "roles": []string{role}, "active": true}
	req := s.newRequest(http.MethodPut, "/admin/directory/users/"+userID.String(), body)
	req.Header.Set(admin.HeaderAdminToken, s.cfg.AdminToken)
	resp := s.serve(req)
	s.Require().Equal(http.StatusOK, resp.Code, resp.Body.String())
}

func (s *AppSuite) newRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (s *AppSuite) as(userID id.UserID, roles []string, method, path string, body any) *httptest.ResponseRecorder {
	token, err := s.app.Tokens.GenerateAccessToken(userID, roles, time.Minute)
	s.Require().NoError(err)
	req := s.newRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return s.serve(req)
}

func (s *AppSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *AppSuite) TestHealthWithoutBackingServices() {
	resp := s.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, resp.Code)
	s.Contains(resp.Body.String(), `"healthy":true`)
}

func (s *AppSuite) TestMetricsExposed() {
	s.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	resp := s.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, resp.Code)
	s.Contains(resp.Body.String(), "siteops_http_requests_total")
}

func (s *AppSuite) TestDocumentsRequireBearerToken() {
	resp := s.serve(s.newRequest(http.MethodGet, "/me/obligations", nil))
	s.Equal(http.StatusUnauthorized, resp.Code)
}

func (s *AppSuite) TestDirectorySyncRequiresAdminToken() {
	resp := s.serve(s.newRequest(http.MethodPut, "/admin/directory/users/"+uuid.NewString(),
		map[string]any{"email": "x@example.com", "active": true}))
	s.Equal(http.StatusUnauthorized, resp.Code)
}

func (s *AppSuite) TestRiskPackLifecycle() {
	resp := s.as(s.manager, []string{"manager"}, http.MethodPost, "/documents", map[string]any{
		"kind":        "risk_pack",
		"title":       "Working at height",
		"content_ref": "files/height.pdf",
		"recipients":  map[string]any{"user_ids": []string{s.alice.String()}},
	})
	s.Require().Equal(http.StatusCreated, resp.Code, resp.Body.String())

	var created struct {
		Document struct {
			ID string `json:"id"`
		} `json:"document"`
		Assignment struct {
			Added    []string `json:"added"`
			Delivery struct {
				Failed int `json:"failed"`
			} `json:"delivery"`
		} `json:"assignment"`
	}
	s.Require().NoError(json.Unmarshal(resp.Body.Bytes(), &created))
	s.Equal([]string{s.alice.String()}, created.Assignment.Added)
	s.Equal(1, created.Assignment.Delivery.Failed, "unreachable SMTP is reported, not fatal")
	docPath := "/documents/" + created.Document.ID

	resp = s.as(s.alice, []string{"operative"}, http.MethodGet, "/me/obligations", nil)
	s.Require().Equal(http.StatusOK, resp.Code)
	s.Contains(resp.Body.String(), created.Document.ID)

	resp = s.as(s.alice, []string{"operative"}, http.MethodPost, docPath+"/sign", map[string]any{"signature": "alice"})
	s.Equal(http.StatusConflict, resp.Code, "risk pack must be viewed first")

	resp = s.as(s.alice, []string{"operative"}, http.MethodPost, docPath+"/view", nil)
	s.Require().Equal(http.StatusOK, resp.Code, resp.Body.String())

	resp = s.as(s.alice, []string{"operative"}, http.MethodPost, docPath+"/sign", map[string]any{"signature": "alice"})
	s.Require().Equal(http.StatusOK, resp.Code, resp.Body.String())
	s.Contains(resp.Body.String(), `"status":"signed"`)

	resp = s.as(s.alice, []string{"operative"}, http.MethodGet, "/me/obligations", nil)
	s.Require().Equal(http.StatusOK, resp.Code)
	s.Contains(resp.Body.String(), `"next":null`)
}

func (s *AppSuite) TestOperativeCannotAuthorDocuments() {
	resp := s.as(s.alice, []string{"operative"}, http.MethodPost, "/documents", map[string]any{
		"kind":       "bulletin",
		"title":      "Site closed Friday",
		"recipients": map[string]any{"all_active": true},
	})
	s.Equal(http.StatusForbidden, resp.Code)
}
