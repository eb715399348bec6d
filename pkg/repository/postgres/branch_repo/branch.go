package branchRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

	Repo interface {
		Create(ctx context.Context, req structs.CreateBranch) (structs.Branch, error)
		GetById(ctx context.Context, id string) (structs.Branch, error)
		GetAll(ctx context.Context, req structs.GetListBranchRequest) (structs.GetListBranchResponse, error)
		Patch(ctx context.Context, req structs.PatchBranch) (int64, error)
		Delete(ctx context.Context, id string) error
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

func (r repo) Create(ctx context.Context, req structs.CreateBranch) (structs.Branch, error) {
	var (
		pgErr = &pgconn.PgError{}
		query = `
			INSERT INTO branches (
				id,
				name,
				code,
				address,
				city,
				phone,
				email
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		id = uuid.NewString()
	)

	var created string
	err := r.db.QueryRow(ctx, query,
		id,
		req.Name,
		req.Code,
		req.Address,
		req.City,
		req.Phone,
		req.Email,
	).Scan(&created)
	if err != nil {
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return structs.Branch{}, structs.ErrUniqueViolation
		}
		return structs.Branch{}, fmt.Errorf("create branch: %w", err)
	}

	return r.GetById(ctx, created)
}

func (r repo) GetById(ctx context.Context, id string) (structs.Branch, error) {
	var (
		resp  structs.Branch
		query = `
			SELECT
				id,
				name,
				code,
				address,
				city,
				COALESCE(phone, ''),
				COALESCE(email, ''),
				is_active,
				created_at::text,
				updated_at::text
			FROM branches
			WHERE id = $1
		`
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&resp.Id,
		&resp.Name,
		&resp.Code,
		&resp.Address,
		&resp.City,
		&resp.Phone,
		&resp.Email,
		&resp.IsActive,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Branch{}, structs.ErrNotFound
		}
		return structs.Branch{}, fmt.Errorf("get branch: %w", err)
	}

	return resp, nil
}

func (r repo) GetAll(ctx context.Context, req structs.GetListBranchRequest) (structs.GetListBranchResponse, error) {
	var (
		query = `
			SELECT
				COUNT(*) OVER(),
				id,
				name,
				code,
				address,
				city,
				COALESCE(phone, ''),
				COALESCE(email, ''),
				is_active,
				created_at::text,
				updated_at::text
			FROM branches
		`
		resp   structs.GetListBranchResponse
		where  = " WHERE TRUE"
		sort   = " ORDER BY created_at DESC"
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
	if len(req.Search) > 0 {
		args = append(args, "%"+req.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR code ILIKE $%d OR city ILIKE $%d)", len(args), len(args), len(args))
	}

	query += where + sort + offset + limit

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return structs.GetListBranchResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var branch structs.Branch
		err = rows.Scan(
			&resp.Count,
			&branch.Id,
			&branch.Name,
			&branch.Code,
			&branch.Address,
			&branch.City,
			&branch.Phone,
			&branch.Email,
			&branch.IsActive,
			&branch.CreatedAt,
			&branch.UpdatedAt,
		)
		if err != nil {
			return structs.GetListBranchResponse{}, err
		}

		resp.Branches = append(resp.Branches, branch)
	}
	if err := rows.Err(); err != nil {
		return structs.GetListBranchResponse{}, err
	}

	return resp, nil
}

func (r repo) Patch(ctx context.Context, req structs.PatchBranch) (int64, error) {
	var (
		updateFields []string
		args         []interface{}
		argCounter   = 1
	)

	args = append(args, req.Id)

	addField := func(fieldName string, value interface{}) {
		updateFields = append(updateFields, fmt.Sprintf("%s = $%d", fieldName, argCounter+1))
		args = append(args, value)
		argCounter++
	}

	if req.Name != nil {
		addField("name", *req.Name)
	}
	if req.Code != nil {
		addField("code", *req.Code)
	}
	if req.Address != nil {
		addField("address", *req.Address)
	}
	if req.City != nil {
		addField("city", *req.City)
	}
	if req.Phone != nil {
		addField("phone", *req.Phone)
	}
	if req.Email != nil {
		addField("email", *req.Email)
	}
	if req.IsActive != nil {
		addField("is_active", *req.IsActive)
	}
	if len(updateFields) == 0 {
		return 0, structs.ErrBadRequest
	}

	updateFields = append(updateFields, "updated_at = NOW()")
	query := fmt.Sprintf(`
		UPDATE branches
		SET %s
		WHERE id = $1
	`, strings.Join(updateFields, ", "))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, structs.ErrUniqueViolation
		}
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r repo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return structs.ErrForeignKeyInUse
		}
		return err
	}
	return nil
}
