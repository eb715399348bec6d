package usersRepo

import (
	"context"
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

	UserAuth struct {
		User         structs.User
		PasswordHash string
	}

	Repo interface {
		Create(ctx context.Context, req structs.UserSignup, passwordHash string) (structs.User, error)
		GetById(ctx context.Context, id string) (structs.User, error)
		GetAuthByEmail(ctx context.Context, email string) (UserAuth, error)
		GetAllWithContact(ctx context.Context, req structs.GetListUserRequest) (structs.GetListUserResponse, error)
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

func (r repo) Create(ctx context.Context, req structs.UserSignup, passwordHash string) (structs.User, error) {
	var (
		pgErr = &pgconn.PgError{}
		query = `
			INSERT INTO users (
				id,
				email,
				password_hash,
				full_name,
				phone
			) VALUES ($1, $2, $3, $4, $5)
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
		req.Phone,
	).Scan(&created)
	if err != nil {
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return structs.User{}, structs.ErrUniqueViolation
		}
		return structs.User{}, fmt.Errorf("create user: %w", err)
	}

	return r.GetById(ctx, created)
}

func (r repo) GetById(ctx context.Context, id string) (structs.User, error) {
	var (
		resp  structs.User
		query = `
			SELECT
				id,
				email,
				full_name,
				COALESCE(phone, ''),
				created_at::text
			FROM users
			WHERE id = $1
		`
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&resp.Id,
		&resp.Email,
		&resp.FullName,
		&resp.Phone,
		&resp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.User{}, structs.ErrNotFound
		}
		return structs.User{}, fmt.Errorf("get user: %w", err)
	}

	return resp, nil
}

func (r repo) GetAuthByEmail(ctx context.Context, email string) (UserAuth, error) {
	var (
		auth  UserAuth
		query = `
			SELECT
				id,
				email,
				full_name,
				COALESCE(phone, ''),
				created_at::text,
				password_hash
			FROM users
			WHERE email = $1
		`
	)

	err := r.db.QueryRow(ctx, query, email).Scan(
		&auth.User.Id,
		&auth.User.Email,
		&auth.User.FullName,
		&auth.User.Phone,
		&auth.User.CreatedAt,
		&auth.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserAuth{}, structs.ErrNotFound
		}
		return UserAuth{}, fmt.Errorf("get user auth: %w", err)
	}

	return auth, nil
}

func (r repo) GetAllWithContact(ctx context.Context, req structs.GetListUserRequest) (structs.GetListUserResponse, error) {
	var (
		query = `
			SELECT
				COUNT(*) OVER(),
				u.id,
				u.email,
				u.full_name,
				COALESCE(u.phone, ''),
				u.created_at::text,
				COUNT(b.id),
				COUNT(b.id) FILTER (WHERE b.status = 'upcoming'),
				COUNT(b.id) FILTER (WHERE b.status = 'cancelled')
			FROM users u
			LEFT JOIN bookings b ON b.user_id = u.id
		`
		resp   structs.GetListUserResponse
		where  = " WHERE TRUE"
		group  = " GROUP BY u.id"
		sort   = " ORDER BY u.created_at DESC"
		offset = " OFFSET 0"
		limit  = " LIMIT 10"
		args   []interface{}
	)

	if req.Offset > 0 {
		offset = fmt.Sprintf(" OFFSET %d", req.Offset)
	}
	if req.Limit > 0 {
		limit = fmt.Sprintf(" LIMIT %d", req.Limit)
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		where += fmt.Sprintf(" AND (u.email ILIKE $%d OR u.full_name ILIKE $%d OR u.phone ILIKE $%d)", len(args), len(args), len(args))
	}

	query += where + group + sort + offset + limit

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return structs.GetListUserResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var user structs.UserWithContact
		err = rows.Scan(
			&resp.Count,
			&user.Id,
			&user.Email,
			&user.FullName,
			&user.Phone,
			&user.CreatedAt,
			&user.TotalBookings,
			&user.UpcomingBookings,
			&user.CancelledBookings,
		)
		if err != nil {
			return structs.GetListUserResponse{}, err
		}

		resp.Users = append(resp.Users, user)
	}
	if err := rows.Err(); err != nil {
		return structs.GetListUserResponse{}, err
	}

	return resp, nil
}
