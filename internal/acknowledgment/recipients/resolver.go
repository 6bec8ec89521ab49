// Package recipients turns an author's recipient selection into a concrete,
// deterministic set of active user IDs. Selections are never stored; every
// call reads the directory afresh.
package recipients

import (
	"context"
	"slices"
	"strings"

	id "siteops/pkg/domain"
	dErrors "siteops/pkg/domain-errors"
	pstrings "siteops/pkg/platform/strings"
)

const (
	maxExplicitUsers = 5000
	maxRoles         = 50
)

// Selection is one or more of: explicit users, roles, everyone active.
// Shapes combine as a union.
type Selection struct {
	UserIDs   []string `json:"user_ids,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	AllActive bool     `json:"all_active,omitempty"`
}

func (s Selection) IsEmpty() bool {
	return len(s.UserIDs) == 0 && len(pstrings.NormalizeSet(s.Roles)) == 0 && !s.AllActive
}

// Directory is the user directory read port.
type Directory interface {
	FindActive(ctx context.Context, ids []id.UserID) ([]id.UserID, error)
	ListActive(ctx context.Context) ([]id.UserID, error)
	ListActiveByRoles(ctx context.Context, roles []string) ([]id.UserID, error)
}

type Resolver struct {
	directory Directory
}

func NewResolver(directory Directory) *Resolver {
	return &Resolver{directory: directory}
}

// Resolve returns the deduplicated recipients sorted by ID string.
//
// Validation errors: empty selection, malformed or inactive explicit IDs,
// and a selection that resolves to nobody.
func (r *Resolver) Resolve(ctx context.Context, sel Selection) ([]id.UserID, error) {
	if sel.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeValidation, "recipient selection is empty")
	}
	if len(sel.UserIDs) > maxExplicitUsers {
		return nil, dErrors.New(dErrors.CodeValidation, "too many explicit recipients")
	}
	roles := pstrings.NormalizeSet(sel.Roles)
	if len(roles) > maxRoles {
		return nil, dErrors.New(dErrors.CodeValidation, "too many roles")
	}

	explicit, err := parseIDs(sel.UserIDs)
	if err != nil {
		return nil, err
	}

	set := make(map[id.UserID]struct{})

	if len(explicit) > 0 {
		active, err := r.directory.FindActive(ctx, explicit)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve recipients")
		}
		if len(active) != len(explicit) {
			return nil, dErrors.New(dErrors.CodeValidation, "unknown or inactive recipient: "+firstMissing(explicit, active).String())
		}
		addAll(set, active)
	}

	if sel.AllActive {
		all, err := r.directory.ListActive(ctx)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve recipients")
		}
		addAll(set, all)
	} else if len(roles) > 0 {
		byRole, err := r.directory.ListActiveByRoles(ctx, roles)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve recipients")
		}
		addAll(set, byRole)
	}

	if len(set) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "recipient selection matched no active users")
	}

	out := make([]id.UserID, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b id.UserID) int { return strings.Compare(a.String(), b.String()) })
	return out, nil
}

// parseIDs parses and deduplicates explicit IDs, rejecting the whole
// selection on the first malformed value.
func parseIDs(raw []string) ([]id.UserID, error) {
	seen := make(map[id.UserID]struct{}, len(raw))
	out := make([]id.UserID, 0, len(raw))
	for _, s := range raw {
		u, err := id.ParseUserID(strings.TrimSpace(s))
		if err != nil {
			return nil, dErrors.Recode(err, dErrors.CodeInvalidInput, dErrors.CodeValidation)
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out, nil
}

func addAll(set map[id.UserID]struct{}, ids []id.UserID) {
	for _, u := range ids {
		set[u] = struct{}{}
	}
}

func firstMissing(want, got []id.UserID) id.UserID {
	have := make(map[id.UserID]struct{}, len(got))
	addAll(have, got)
	for _, u := range want {
		if _, ok := have[u]; !ok {
			return u
		}
	}
	return id.UserID{}
}
