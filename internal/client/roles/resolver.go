// Package roles derives the authorization role for the current session.
// Resolution goes through the query cache, keyed by the account's email, so
// every gate and view shares one authoritative lookup.
package roles

import (
	"context"

	"github.com/booknest/booknest/internal/client/identity"
	"github.com/booknest/booknest/internal/client/query"
	"github.com/booknest/booknest/internal/client/session"
	"github.com/booknest/booknest/internal/core/domain"
)

const resourcePrefix = "role"

// RoleFetcher looks up the signed-in account's role upstream.
type RoleFetcher interface {
	FetchRole(ctx context.Context) (domain.Role, error)
}

// Resolver caches role lookups per identity. A resolution that has not
// completed (or failed) reports pending; it never collapses to RoleUser.
type Resolver struct {
	queries     *query.Queries
	session     *session.Session
	api         RoleFetcher
	unsubscribe func()
}

// New builds a Resolver. The role cache is invalidated on every auth-state
// emission, so a role is recomputed whenever the identity changes.
func New(queries *query.Queries, sess *session.Session, api RoleFetcher, provider identity.Provider) *Resolver {
	r := &Resolver{queries: queries, session: sess, api: api}
	r.unsubscribe = provider.Subscribe(func(*identity.Identity) {
		queries.InvalidatePrefix(resourcePrefix)
	})
	return r
}

// Close releases the auth-state subscription.
func (r *Resolver) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}

// Resolve returns the session's role and whether resolution is still
// pending. The query is enabled only once an identity is present; role
// lookups are auth-sensitive and never retried automatically.
func (r *Resolver) Resolve(ctx context.Context) (domain.Role, bool) {
	id := r.session.Identity()
	disabled := r.session.Loading() || id == nil

	email := ""
	if id != nil {
		email = id.Email
	}

	role, err := query.Fetch(ctx, r.queries, query.NewKey(resourcePrefix, email),
		func(ctx context.Context) (domain.Role, error) {
			return r.api.FetchRole(ctx)
		},
		query.Options{Disabled: disabled},
	)
	if err != nil {
		return domain.RolePending, true
	}
	return role, false
}
