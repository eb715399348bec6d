package scope

import (
	"context"
	"testing"

	"routeaura/internal/structs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDeriveBranchAdmin(t *testing.T) {
	branch := strPtr("branch-1")
	sess := structs.AdminSession{
		AdminId:  "admin-1",
		Role:     structs.RoleBranchAdmin,
		BranchId: branch,
	}

	sc := Derive(sess)
	require.NotNil(t, sc.BranchId)
	assert.Equal(t, "branch-1", *sc.BranchId)
	assert.False(t, sc.IsSuperadmin())
}

func TestDeriveBranchAdminIgnoresSelection(t *testing.T) {
	sess := structs.AdminSession{
		AdminId:        "admin-1",
		Role:           structs.RoleBranchAdmin,
		BranchId:       strPtr("branch-1"),
		SelectedBranch: strPtr("branch-2"),
	}

	sc := Derive(sess)
	require.NotNil(t, sc.BranchId)
	assert.Equal(t, "branch-1", *sc.BranchId)
	assert.False(t, CanSwitch(sess))
}

func TestDeriveSuperadmin(t *testing.T) {
	sess := structs.AdminSession{
		AdminId: "admin-2",
		Role:    structs.RoleSuperadmin,
	}

	sc := Derive(sess)
	assert.Nil(t, sc.BranchId, "no selection means all branches")
	assert.True(t, sc.IsSuperadmin())
	assert.True(t, CanSwitch(sess))

	sess.SelectedBranch = strPtr("branch-3")
	sc = Derive(sess)
	require.NotNil(t, sc.BranchId)
	assert.Equal(t, "branch-3", *sc.BranchId)
}

func TestAllows(t *testing.T) {
	all := Scope{Role: structs.RoleSuperadmin}
	assert.True(t, all.Allows("branch-1"))
	assert.True(t, all.Allows("branch-2"))

	narrowed := Scope{Role: structs.RoleBranchAdmin, BranchId: strPtr("branch-1")}
	assert.True(t, narrowed.Allows("branch-1"))
	assert.False(t, narrowed.Allows("branch-2"))
}

func TestContextRoundTrip(t *testing.T) {
	sc := Scope{Role: structs.RoleBranchAdmin, AdminId: "admin-1", BranchId: strPtr("branch-1")}

	ctx := Inject(context.Background(), sc)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, sc, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
