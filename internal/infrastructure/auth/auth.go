// Package auth resolves the acting user from users.yaml.
package auth

import (
	"context"

	"github.com/ersonp/famitree/internal/domain/ports"
	"github.com/ersonp/famitree/internal/infrastructure/config"
)

type ctxKey struct{}

// WithUser returns a context carrying u as the signed-in user.
func WithUser(ctx context.Context, u ports.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the user stored by WithUser.
func FromContext(ctx context.Context) (ports.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(ports.User)
	return u, ok
}

// Authorizer implements ports.Authorizer. A user on the context wins;
// otherwise the default user, if any, is used.
type Authorizer struct {
	users       map[string]config.UserEntry
	defaultUser ports.User
	hasDefault  bool
}

// New builds an Authorizer. defaultID is the user the process acts as when
// the context carries none; empty means nobody. forceAdmin grants the default
// user write access even when users.yaml does not.
func New(users *config.UsersConfig, defaultID string, forceAdmin bool) *Authorizer {
	a := &Authorizer{users: map[string]config.UserEntry{}}
	if users != nil && users.Users != nil {
		a.users = users.Users
	}
	if defaultID != "" {
		u, _ := a.Lookup(defaultID)
		u.ID = defaultID
		if u.Name == "" {
			u.Name = defaultID
		}
		u.Privileged = u.Privileged || forceAdmin
		a.defaultUser = u
		a.hasDefault = true
	}
	return a
}

// FromConfig builds the Authorizer the CLI uses.
func FromConfig(cfg *config.Config, users *config.UsersConfig) *Authorizer {
	return New(users, cfg.User.ID, cfg.User.Admin)
}

// Lookup resolves a user id against users.yaml.
func (a *Authorizer) Lookup(id string) (ports.User, bool) {
	entry, ok := a.users[id]
	if !ok {
		return ports.User{}, false
	}
	return ports.User{ID: id, Name: entry.Name, Privileged: entry.IsAdmin()}, true
}

// DefaultBranch returns the configured branch root for a user, if any.
func (a *Authorizer) DefaultBranch(id string) string {
	return a.users[id].DefaultBranch
}

// CurrentUser implements ports.Authorizer.
func (a *Authorizer) CurrentUser(ctx context.Context) (ports.User, bool) {
	if u, ok := FromContext(ctx); ok {
		return u, true
	}
	return a.defaultUser, a.hasDefault
}
