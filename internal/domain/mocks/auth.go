package mocks

import (
	"context"

	"github.com/ersonp/famitree/internal/domain/ports"
)

// Authorizer is a mock implementation of ports.Authorizer.
type Authorizer struct {
	User     ports.User
	LoggedIn bool
}

// Admin returns an Authorizer with a privileged user.
func Admin() *Authorizer {
	return &Authorizer{User: ports.User{ID: "admin", Name: "Admin", Privileged: true}, LoggedIn: true}
}

// Viewer returns an Authorizer with a logged-in, non-privileged user.
func Viewer() *Authorizer {
	return &Authorizer{User: ports.User{ID: "viewer", Name: "Viewer"}, LoggedIn: true}
}

// CurrentUser returns the configured user.
func (m *Authorizer) CurrentUser(ctx context.Context) (ports.User, bool) {
	return m.User, m.LoggedIn
}
