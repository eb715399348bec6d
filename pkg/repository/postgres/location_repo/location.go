package locationRepo

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
		Create(ctx context.Context, req structs.CreateLocation) (structs.Location, error)
		GetById(ctx context.Context, id string) (structs.Location, error)
		GetAll(ctx context.Context, req structs.GetListLocationRequest) (structs.GetListLocationResponse, error)
		Patch(ctx context.Context, req structs.PatchLocation) (int64, error)
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

func (r repo) Create(ctx context.Context, req structs.CreateLocation) (structs.Location, error) {
	var (
		pgErr = &pgconn.PgError{}
		query = `
			INSERT INTO locations (
				id,
				name,
				city,
				branch_id
			) VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		id = uuid.NewString()
	)

	var created string
	err := r.db.QueryRow(ctx, query, id, req.Name, req.City, req.BranchId).Scan(&created)
	if err != nil {
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return structs.Location{}, structs.ErrUniqueViolation
			case pgerrcode.ForeignKeyViolation:
				return structs.Location{}, structs.ErrNotFound
			}
		}
		return structs.Location{}, fmt.Errorf("create location: %w", err)
	}

	return r.GetById(ctx, created)
}

func (r repo) GetById(ctx context.Context, id string) (structs.Location, error) {
	var (
		resp  structs.Location
		query = `
			SELECT
				id,
				name,
				city,
				branch_id,
				is_active,
				created_at::text,
				updated_at::text
			FROM locations
			WHERE id = $1
		`
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&resp.Id,
		&resp.Name,
		&resp.City,
		&resp.BranchId,
		&resp.IsActive,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Location{}, structs.ErrNotFound
		}
		return structs.Location{}, fmt.Errorf("get location: %w", err)
	}

	return resp, nil
}

func (r repo) GetAll(ctx context.Context, req structs.GetListLocationRequest) (structs.GetListLocationResponse, error) {
	var (
		query = `
			SELECT
				COUNT(*) OVER(),
				id,
				name,
				city,
				branch_id,
				is_active,
				created_at::text,
				updated_at::text
			FROM locations
		`
		resp   structs.GetListLocationResponse
		where  = " WHERE TRUE"
		sort   = " ORDER BY name ASC"
		offset = " OFFSET 0"
		limit  = " LIMIT 50"
		args   []interface{}
	)

	if req.Offset > 0 {
		offset = fmt.Sprintf(" OFFSET %d", req.Offset)
	}
	if req.Limit > 0 {
		limit = fmt.Sprintf(" LIMIT %d", req.Limit)
	}
	if req.BranchId != nil {
		args = append(args, *req.BranchId)
		where += fmt.Sprintf(" AND branch_id = $%d", len(args))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR city ILIKE $%d)", len(args), len(args))
	}

	query += where + sort + offset + limit

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return structs.GetListLocationResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var location structs.Location
		err = rows.Scan(
			&resp.Count,
			&location.Id,
			&location.Name,
			&location.City,
			&location.BranchId,
			&location.IsActive,
			&location.CreatedAt,
			&location.UpdatedAt,
		)
		if err != nil {
			return structs.GetListLocationResponse{}, err
		}

		resp.Locations = append(resp.Locations, location)
	}
	if err := rows.Err(); err != nil {
		return structs.GetListLocationResponse{}, err
	}

	return resp, nil
}

func (r repo) Patch(ctx context.Context, req structs.PatchLocation) (int64, error) {
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
	if req.City != nil {
		addField("city", *req.City)
	}
	if req.IsActive != nil {
		addField("is_active", *req.IsActive)
	}
	if len(updateFields) == 0 {
		return 0, structs.ErrBadRequest
	}

	updateFields = append(updateFields, "updated_at = NOW()")
	query := fmt.Sprintf(`
		UPDATE locations
		SET %s
		WHERE id = $1
	`, strings.Join(updateFields, ", "))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r repo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return structs.ErrForeignKeyInUse
		}
		return err
	}
	return nil
}
