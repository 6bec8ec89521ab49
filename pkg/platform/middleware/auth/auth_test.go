package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"siteops/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) { return s.claims, s.err }

type AuthMiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
	userID string
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.userID = uuid.NewString()
}

func (s *AuthMiddlewareSuite) serve(v JWTValidator, header string, guard ...func(http.Handler) http.Handler) (*httptest.ResponseRecorder, *http.Request) {
	var seen *http.Request
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusNoContent)
	})
	for i := len(guard) - 1; i >= 0; i-- {
		h = guard[i](h)
	}
	h = RequireAuth(v, s.logger)(h)

	r := httptest.NewRequest(http.MethodGet, "/me/obligations", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w, seen
}

func (s *AuthMiddlewareSuite) TestMissingHeader() {
	w, _ := s.serve(stubValidator{}, "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *AuthMiddlewareSuite) TestInvalidToken() {
	w, _ := s.serve(stubValidator{err: errors.New("bad signature")}, "Bearer xyz")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "Invalid or expired token")
}

func (s *AuthMiddlewareSuite) TestValidTokenPopulatesContext() {
	w, seen := s.serve(stubValidator{claims: &JWTClaims{UserID: s.userID, Roles: []string{"Manager"}}}, "Bearer ok")
	s.Equal(http.StatusNoContent, w.Code)
	s.Require().NotNil(seen)
	s.Equal(s.userID, requestcontext.UserID(seen.Context()).String())
	s.Equal([]string{"manager"}, requestcontext.Roles(seen.Context()))
}

func (s *AuthMiddlewareSuite) TestRequireRole() {
	s.Run("allows matching role", func() {
		w, _ := s.serve(stubValidator{claims: &JWTClaims{UserID: s.userID, Roles: []string{"admin"}}}, "Bearer ok",
			RequireRole(s.logger, "manager", "admin"))
		s.Equal(http.StatusNoContent, w.Code)
	})
	s.Run("rejects missing role", func() {
		w, _ := s.serve(stubValidator{claims: &JWTClaims{UserID: s.userID, Roles: []string{"operative"}}}, "Bearer ok",
			RequireRole(s.logger, "manager"))
		s.Equal(http.StatusForbidden, w.Code)
	})
}

func TestRequireAuth_RejectsNonUUIDSubject(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RequireAuth(stubValidator{claims: &JWTClaims{UserID: "bob"}}, logger)(http.NotFoundHandler())
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer ok")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
