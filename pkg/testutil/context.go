package testutil

import (
	"net/http"

	id "siteops/pkg/domain"
	"siteops/pkg/requestcontext"
)

// WithUserID simulates the auth middleware for an authenticated request.
// Invalid IDs are ignored, leaving the request unauthenticated.
func WithUserID(req *http.Request, userID string) *http.Request {
	parsed, err := id.ParseUserID(userID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
}

// WithAuth sets both the user and the roles asserted by their token.
func WithAuth(req *http.Request, userID string, roles ...string) *http.Request {
	req = WithUserID(req, userID)
	return req.WithContext(requestcontext.WithRoles(req.Context(), roles))
}
