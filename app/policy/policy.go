// Package policy holds the single access-control decision used by every
// API surface.
package policy

import (
	"postboard/app/apperr"
	"postboard/app/auth"
)

// Operation names an action that needs an authorization decision.
type Operation string

const (
	// Owner-scoped: allowed for the owner or an admin.
	ReadUser      Operation = "user.read"
	UpdateUser    Operation = "user.update"
	DeleteUser    Operation = "user.delete"
	UpdatePost    Operation = "post.update"
	DeletePost    Operation = "post.delete"
	DeleteComment Operation = "comment.delete"

	// Admin only. Callers pass ownerID 0.
	ListUsers     Operation = "user.list"
	ListPosts     Operation = "post.list"
	DeleteAnyUser Operation = "user.delete_any"
)

var adminOnly = map[Operation]bool{
	ListUsers:     true,
	ListPosts:     true,
	DeleteAnyUser: true,
}

// Authorize allows admins everything, allows owners their own resources
// and denies the rest.
func Authorize(actor auth.Principal, op Operation, ownerID int) error {
	if !actor.Authenticated() {
		return apperr.ErrNoToken
	}
	if actor.IsAdmin() {
		return nil
	}
	if !adminOnly[op] && ownerID > 0 && actor.ID == ownerID {
		return nil
	}
	return apperr.ErrAccessDenied
}
