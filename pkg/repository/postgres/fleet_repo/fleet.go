package fleetRepo

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
		Create(ctx context.Context, req structs.CreateBus) (structs.Bus, error)
		GetById(ctx context.Context, id string) (structs.Bus, error)
		GetAll(ctx context.Context, req structs.GetListBusRequest) (structs.GetListBusResponse, error)
		Patch(ctx context.Context, req structs.PatchBus) (int64, error)
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

func (r repo) Create(ctx context.Context, req structs.CreateBus) (structs.Bus, error) {
	var (
		pgErr = &pgconn.PgError{}
		query = `
			INSERT INTO buses (
				id,
				plate_number,
				model,
				capacity,
				branch_id,
				status
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		id = uuid.NewString()
	)

	var created string
	err := r.db.QueryRow(ctx, query,
		id,
		req.PlateNumber,
		req.Model,
		req.Capacity,
		req.BranchId,
		structs.BusStatusActive,
	).Scan(&created)
	if err != nil {
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return structs.Bus{}, structs.ErrUniqueViolation
			case pgerrcode.ForeignKeyViolation:
				return structs.Bus{}, structs.ErrNotFound
			}
		}
		return structs.Bus{}, fmt.Errorf("create bus: %w", err)
	}

	return r.GetById(ctx, created)
}

func (r repo) GetById(ctx context.Context, id string) (structs.Bus, error) {
	var (
		resp  structs.Bus
		query = `
			SELECT
				id,
				plate_number,
				model,
				capacity,
				branch_id,
				status,
				created_at::text,
				updated_at::text
			FROM buses
			WHERE id = $1
		`
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&resp.Id,
		&resp.PlateNumber,
		&resp.Model,
		&resp.Capacity,
		&resp.BranchId,
		&resp.Status,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Bus{}, structs.ErrNotFound
		}
		return structs.Bus{}, fmt.Errorf("get bus: %w", err)
	}

	return resp, nil
}

func (r repo) GetAll(ctx context.Context, req structs.GetListBusRequest) (structs.GetListBusResponse, error) {
	var (
		query = `
			SELECT
				COUNT(*) OVER(),
				id,
				plate_number,
				model,
				capacity,
				branch_id,
				status,
				created_at::text,
				updated_at::text
			FROM buses
		`
		resp   structs.GetListBusResponse
		where  = " WHERE TRUE"
		sort   = " ORDER BY created_at DESC"
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
		where += fmt.Sprintf(" AND branch_id = $%d", len(args))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		where += fmt.Sprintf(" AND (plate_number ILIKE $%d OR model ILIKE $%d)", len(args), len(args))
	}

	query += where + sort + offset + limit

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return structs.GetListBusResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var bus structs.Bus
		err = rows.Scan(
			&resp.Count,
			&bus.Id,
			&bus.PlateNumber,
			&bus.Model,
			&bus.Capacity,
			&bus.BranchId,
			&bus.Status,
			&bus.CreatedAt,
			&bus.UpdatedAt,
		)
		if err != nil {
			return structs.GetListBusResponse{}, err
		}

		resp.Buses = append(resp.Buses, bus)
	}
	if err := rows.Err(); err != nil {
		return structs.GetListBusResponse{}, err
	}

	return resp, nil
}

func (r repo) Patch(ctx context.Context, req structs.PatchBus) (int64, error) {
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

	if req.PlateNumber != nil {
		addField("plate_number", *req.PlateNumber)
	}
	if req.Model != nil {
		addField("model", *req.Model)
	}
	if req.Capacity != nil {
		addField("capacity", *req.Capacity)
	}
	if req.Status != nil {
		addField("status", *req.Status)
	}
	if len(updateFields) == 0 {
		return 0, structs.ErrBadRequest
	}

	updateFields = append(updateFields, "updated_at = NOW()")
	query := fmt.Sprintf(`
		UPDATE buses
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
	_, err := r.db.Exec(ctx, `DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return structs.ErrForeignKeyInUse
		}
		return err
	}
	return nil
}
