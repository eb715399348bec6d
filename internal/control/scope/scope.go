package scope

import (
	"context"

	"routeaura/internal/structs"
)

type ctxKey struct{}

// Scope is the branch visibility of one admin request. A nil BranchId
// means all branches, which only a superadmin without a selection gets.
type Scope struct {
	Role     string  `json:"role"`
	AdminId  string  `json:"admin_id"`
	BranchId *string `json:"branch_id"`
}

// Derive computes the effective branch scope from a session.
// Branch admins always get their fixed branch, whatever was selected.
// Superadmins get their current selection, or everything.
func Derive(sess structs.AdminSession) Scope {
	s := Scope{
		Role:    sess.Role,
		AdminId: sess.AdminId,
	}

	if sess.Role == structs.RoleBranchAdmin {
		s.BranchId = sess.BranchId
		return s
	}

	s.BranchId = sess.SelectedBranch
	return s
}

// CanSwitch reports whether the session may change its viewing branch.
func CanSwitch(sess structs.AdminSession) bool {
	return sess.Role == structs.RoleSuperadmin
}

// Allows reports whether a record in branchId is visible under this scope.
func (s Scope) Allows(branchId string) bool {
	if s.BranchId == nil {
		return true
	}
	return *s.BranchId == branchId
}

// IsSuperadmin reports whether the scope belongs to a superadmin.
func (s Scope) IsSuperadmin() bool {
	return s.Role == structs.RoleSuperadmin
}

func Inject(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(ctxKey{}).(Scope)
	return s, ok
}
