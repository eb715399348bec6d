package structs

const (
	RoleSuperadmin  = "superadmin"
	RoleBranchAdmin = "branch_admin"
)

type AdminUser struct {
	Id           string  `json:"id"`
	Email        string  `json:"email"`
	FullName     string  `json:"full_name"`
	Role         string  `json:"role"`
	BranchId     *string `json:"branch_id,omitempty"`
	IsSuperadmin bool    `json:"is_superadmin"`
	IsActive     bool    `json:"is_active"`
	LastLogin    string  `json:"last_login,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type AdminLogin struct {
	Email   string `json:"email"`
	PassKey string `json:"pass_key"`
}

type AuthResponse struct {
	Token string    `json:"token"`
	Admin AdminUser `json:"admin"`
}

type CreateAdmin struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	FullName     string  `json:"full_name"`
	IsSuperadmin bool    `json:"is_superadmin"`
	BranchId     *string `json:"branch_id"`
}

type UpdateAdminPassword struct {
	AdminUserId string `json:"admin_user_id"`
	NewPassword string `json:"new_password"`
}

// AdminSession is what the session store keeps per established identity.
type AdminSession struct {
	AdminId        string  `json:"admin_id"`
	Role           string  `json:"role"`
	BranchId       *string `json:"branch_id,omitempty"`
	SelectedBranch *string `json:"selected_branch,omitempty"`
}

type SwitchBranchRequest struct {
	BranchId *string `json:"branch_id"`
}
