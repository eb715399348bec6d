package adminRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"routeaura/internal/structs"
	"routeaura/pkg/db"
	"routeaura/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/fx"
)

var (
	Module = fx.Provide(New)
)

type (
	Params struct {
		fx.In
		Logger logger.Logger
		DB     db.Querier
	}

	// AdminAuth is the credentials row: the service layer does the
	// bcrypt comparison, the repo never sees plain pass keys.
	AdminAuth struct {
		Admin        structs.AdminUser
		PasswordHash string
	}

	Repo interface {
		GetAuthByEmail(ctx context.Context, email string) (AdminAuth, error)
		GetById(ctx context.Context, id string) (structs.AdminUser, error)
		Create(ctx context.Context, req structs.CreateAdmin, passwordHash string) (structs.AdminUser, error)
		UpdatePassword(ctx context.Context, id, passwordHash string) error
		UpdateLastLogin(ctx context.Context, id string) error
	}

	repo struct {
		logger logger.Logger
		db     db.Querier
	}
)

func New(p Params) Repo {
	return &repo{
		logger: p.Logger,
		db:     p.DB,
	}
}

const adminColumns = `
	id,
	email,
	full_name,
	is_superadmin,
	branch_id,
	is_active,
	COALESCE(last_login::text, ''),
	created_at::text
`

func scanAdmin(row pgx.Row, dest *structs.AdminUser, extra ...interface{}) error {
	var branchID sql.NullString

	args := []interface{}{
		&dest.Id,
		&dest.Email,
		&dest.FullName,
		&dest.IsSuperadmin,
		&branchID,
		&dest.IsActive,
		&dest.LastLogin,
		&dest.CreatedAt,
	}
	args = append(args, extra...)

	if err := row.Scan(args...); err != nil {
		return err
	}

	if branchID.Valid {
		dest.BranchId = &branchID.String
	}
	if dest.IsSuperadmin {
		dest.Role = structs.RoleSuperadmin
	} else {
		dest.Role = structs.RoleBranchAdmin
	}
	return nil
}

func (r repo) GetAuthByEmail(ctx context.Context, email string) (AdminAuth, error) {
	query := `
		SELECT ` + adminColumns + `,
			password_hash
		FROM admin_users
		WHERE email = $1
	`

	var auth AdminAuth
	err := scanAdmin(r.db.QueryRow(ctx, query, email), &auth.Admin, &auth.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AdminAuth{}, structs.ErrNotFound
		}
		return AdminAuth{}, fmt.Errorf("get admin auth: %w", err)
	}

	return auth, nil
}

func (r repo) GetById(ctx context.Context, id string) (structs.AdminUser, error) {
	query := `
		SELECT ` + adminColumns + `
		FROM admin_users
		WHERE id = $1
	`

	var admin structs.AdminUser
	if err := scanAdmin(r.db.QueryRow(ctx, query, id), &admin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.AdminUser{}, structs.ErrNotFound
		}
		return structs.AdminUser{}, fmt.Errorf("get admin by id: %w", err)
	}

	return admin, nil
}

func (r repo) Create(ctx context.Context, req structs.CreateAdmin, passwordHash string) (structs.AdminUser, error) {
	var (
		pgErr = &pgconn.PgError{}
		query = `
			INSERT INTO admin_users (
				id,
				email,
				password_hash,
				full_name,
				is_superadmin,
				branch_id
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		id = uuid.NewString()
	)

	var created string
	err := r.db.QueryRow(ctx, query,
		id,
		req.Email,
		passwordHash,
		req.FullName,
		req.IsSuperadmin,
		req.BranchId,
	).Scan(&created)
	if err != nil {
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return structs.AdminUser{}, structs.ErrUniqueViolation
		}
		return structs.AdminUser{}, fmt.Errorf("create admin: %w", err)
	}

	return r.GetById(ctx, created)
}

func (r repo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE admin_users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return structs.ErrNotFound
	}
	return nil
}

func (r repo) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE admin_users SET last_login = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
