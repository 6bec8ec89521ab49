// Package directory is the read model of the external user directory: who is
// active, their roles and where to email them. Records arrive through the
// admin sync endpoint; nothing here owns identity.
package directory

import (
	"net/mail"
	"strings"
	"time"

	id "siteops/pkg/domain"
	dErrors "siteops/pkg/domain-errors"
	pstrings "siteops/pkg/platform/strings"
)

// User is a directory entry.
//
// Invariants:
//   - Email is empty or a single bare address
//   - Roles are lowercased, deduplicated and sorted
type User struct {
	ID        id.UserID `json:"id"`
	Email     string    `json:"email,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	Roles     []string  `json:"roles"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUser(userID id.UserID, email, fullName string, roles []string, active bool, now time.Time) (*User, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user id is required")
	}
	email = strings.TrimSpace(email)
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid email address")
		}
	}
	roles = pstrings.NormalizeSet(roles)
	if roles == nil {
		roles = []string{}
	}
	return &User{
		ID:        userID,
		Email:     email,
		FullName:  strings.TrimSpace(fullName),
		Roles:     roles,
		Active:    active,
		UpdatedAt: now,
	}, nil
}

func (u *User) HasAnyRole(roles []string) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
