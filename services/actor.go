package services

import (
	"context"

	"marinehub.app/models"
)

// Actor is the authenticated caller of a service method. The zero value is
// an anonymous visitor.
type Actor struct {
	UserID uint
	Role   models.UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

func (a Actor) Authenticated() bool { return a.UserID != 0 }

// Context tags ctx with the actor id for the audit hooks.
func (a Actor) Context(ctx context.Context) context.Context {
	if a.UserID == 0 {
		return ctx
	}
	return models.ContextWithUserID(ctx, a.UserID)
}
