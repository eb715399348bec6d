package routeRepo

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
		Create(ctx context.Context, req structs.CreateRoute) (structs.Route, error)
		GetById(ctx context.Context, id string) (structs.Route, error)
		GetAll(ctx context.Context, req structs.GetListRouteRequest) (structs.GetListRouteResponse, error)
		Patch(ctx context.Context, req structs.PatchRoute) (int64, error)
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

const routeColumns = `
	rt.id,
	rt.from_location_id,
	rt.to_location_id,
	lf.name,
	lt.name,
	rt.branch_id,
	rt.price,
	rt.duration_min,
	rt.departure_time::text,
	rt.is_active,
	rt.created_at::text,
	rt.updated_at::text
`

const routeJoins = `
	FROM routes rt
	JOIN locations lf ON lf.id = rt.from_location_id
	JOIN locations lt ON lt.id = rt.to_location_id
`

func (r repo) Create(ctx context.Context, req structs.CreateRoute) (structs.Route, error) {
	var (
		pgErr = &pgconn.PgError{}
		query = `
			INSERT INTO routes (
				id,
				from_location_id,
				to_location_id,
				branch_id,
				price,
				duration_min,
				departure_time
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		id = uuid.NewString()
	)

	var created string
	err := r.db.QueryRow(ctx, query,
		id,
		req.FromLocationId,
		req.ToLocationId,
		req.BranchId,
		req.Price,
		req.DurationMin,
		req.DepartureTime,
	).Scan(&created)
	if err != nil {
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return structs.Route{}, structs.ErrNotFound
		}
		return structs.Route{}, fmt.Errorf("create route: %w", err)
	}

	return r.GetById(ctx, created)
}

func (r repo) GetById(ctx context.Context, id string) (structs.Route, error) {
	var (
		resp  structs.Route
		query = `SELECT ` + routeColumns + routeJoins + ` WHERE rt.id = $1`
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&resp.Id,
		&resp.FromLocationId,
		&resp.ToLocationId,
		&resp.FromLocation,
		&resp.ToLocation,
		&resp.BranchId,
		&resp.Price,
		&resp.DurationMin,
		&resp.DepartureTime,
		&resp.IsActive,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Route{}, structs.ErrNotFound
		}
		return structs.Route{}, fmt.Errorf("get route: %w", err)
	}

	return resp, nil
}

func (r repo) GetAll(ctx context.Context, req structs.GetListRouteRequest) (structs.GetListRouteResponse, error) {
	var (
		query = `
			SELECT
				COUNT(*) OVER(),
		` + routeColumns + routeJoins
		resp   structs.GetListRouteResponse
		where  = " WHERE TRUE"
		sort   = " ORDER BY rt.departure_time ASC"
		offset = " OFFSET 0"
		limit  = " LIMIT 20"
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
		where += fmt.Sprintf(" AND rt.branch_id = $%d", len(args))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		where += fmt.Sprintf(" AND (lf.name ILIKE $%d OR lt.name ILIKE $%d)", len(args), len(args))
	}

	query += where + sort + offset + limit

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return structs.GetListRouteResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var route structs.Route
		err = rows.Scan(
			&resp.Count,
			&route.Id,
			&route.FromLocationId,
			&route.ToLocationId,
			&route.FromLocation,
			&route.ToLocation,
			&route.BranchId,
			&route.Price,
			&route.DurationMin,
			&route.DepartureTime,
			&route.IsActive,
			&route.CreatedAt,
			&route.UpdatedAt,
		)
		if err != nil {
			return structs.GetListRouteResponse{}, err
		}

		resp.Routes = append(resp.Routes, route)
	}
	if err := rows.Err(); err != nil {
		return structs.GetListRouteResponse{}, err
	}

	return resp, nil
}

func (r repo) Patch(ctx context.Context, req structs.PatchRoute) (int64, error) {
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

	if req.Price != nil {
		addField("price", *req.Price)
	}
	if req.DurationMin != nil {
		addField("duration_min", *req.DurationMin)
	}
	if req.DepartureTime != nil {
		addField("departure_time", *req.DepartureTime)
	}
	if req.IsActive != nil {
		addField("is_active", *req.IsActive)
	}
	if len(updateFields) == 0 {
		return 0, structs.ErrBadRequest
	}

	updateFields = append(updateFields, "updated_at = NOW()")
	query := fmt.Sprintf(`
		UPDATE routes
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
	_, err := r.db.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return structs.ErrForeignKeyInUse
		}
		return err
	}
	return nil
}
