package ports

import "context"

// User is the caller as seen by the store.
type User struct {
	ID         string
	Name       string
	Privileged bool
}

// Authorizer resolves the current user. Only privileged users may mutate.
type Authorizer interface {
	// CurrentUser returns the user behind ctx, or false when nobody is signed in.
	CurrentUser(ctx context.Context) (User, bool)
}
