// Package policy decides whether an actor may perform an operation on a
// resource. Decisions depend only on the actor's role and active flag, so
// the same table is consulted on every request and nothing is cached.
package policy

import (
	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/models"
)

// Resource is a kind of record guarded by the policy.
type Resource string

const (
	ResourcePocket   Resource = "pocket"
	ResourceCategory Resource = "category"
	ResourceDonation Resource = "donation"
	ResourceExpense  Resource = "expense"
	ResourceUser     Resource = "user"
)

// Operation is an action on a resource.
type Operation string

const (
	OpRead    Operation = "read"
	OpCreate  Operation = "create"
	OpUpdate  Operation = "update"
	OpDelete  Operation = "delete"
	OpApprove Operation = "approve"
)

// Actor is the resolved caller: identity plus the profile's role and status.
type Actor struct {
	ID       string
	Email    string
	Role     models.UserRole
	IsActive bool
}

// anyRole marks operations open to every authenticated, active actor.
var anyRole = []models.UserRole{models.RoleAdmin, models.RoleTreasurer, models.RoleViewer}

var (
	adminOnly   = []models.UserRole{models.RoleAdmin}
	bookkeepers = []models.UserRole{models.RoleAdmin, models.RoleTreasurer}
)

// table maps resource → operation → roles allowed. Missing entries deny.
var table = map[Resource]map[Operation][]models.UserRole{
	ResourcePocket: {
		OpRead:   anyRole,
		OpCreate: adminOnly,
		OpUpdate: adminOnly,
		OpDelete: adminOnly,
	},
	ResourceCategory: {
		OpRead:   anyRole,
		OpCreate: adminOnly,
		OpUpdate: adminOnly,
		OpDelete: adminOnly,
	},
	ResourceDonation: {
		OpRead:   anyRole,
		OpCreate: bookkeepers,
		OpUpdate: bookkeepers,
		OpDelete: adminOnly,
	},
	ResourceExpense: {
		OpRead:    anyRole,
		OpCreate:  bookkeepers,
		OpUpdate:  bookkeepers,
		OpDelete:  adminOnly,
		OpApprove: adminOnly,
	},
	// Reading another user's profile is admin-only; see AuthorizeUserRead.
	ResourceUser: {
		OpRead:   adminOnly,
		OpUpdate: adminOnly,
		OpDelete: adminOnly,
	},
}

// Allowed reports whether role may perform op on res, ignoring active status.
func Allowed(role models.UserRole, res Resource, op Operation) bool {
	for _, r := range table[res][op] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize returns nil when the actor may perform op on res,
// ErrAccountInactive for deactivated actors and ErrForbidden otherwise.
func Authorize(actor *Actor, res Resource, op Operation) error {
	if actor == nil {
		return apperrors.ErrUnauthorized
	}
	if !actor.IsActive {
		return apperrors.ErrAccountInactive
	}
	if !Allowed(actor.Role, res, op) {
		return apperrors.ErrForbidden
	}
	return nil
}

// AuthorizeUserRead lets every active actor read their own profile and
// admins read anyone's.
func AuthorizeUserRead(actor *Actor, targetID string) error {
	if actor != nil && actor.IsActive && actor.ID == targetID {
		return nil
	}
	return Authorize(actor, ResourceUser, OpRead)
}

// ValidRole reports whether r is one of the closed set of roles.
func ValidRole(r models.UserRole) bool {
	switch r {
	case models.RoleAdmin, models.RoleTreasurer, models.RoleViewer:
		return true
	}
	return false
}
