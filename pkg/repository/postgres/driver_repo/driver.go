package driverRepo

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

	DriverAuth struct {
		Driver       structs.Driver
		PasswordHash string
	}

	Repo interface {
		Create(ctx context.Context, req structs.CreateDriver, passwordHash string) (structs.Driver, error)
		GetById(ctx context.Context, id string) (structs.Driver, error)
		GetAuthByEmail(ctx context.Context, email string) (DriverAuth, error)
		GetAll(ctx context.Context, req structs.GetListDriverRequest) (structs.GetListDriverResponse, error)
		Patch(ctx context.Context, req structs.PatchDriver) (int64, error)
		Delete(ctx context.Context, id string) error

		CreateAssignment(ctx context.Context, req structs.CreateDriverAssignment) (structs.DriverAssignment, error)
		GetAssignmentById(ctx context.Context, id string) (structs.DriverAssignment, error)
		GetAssignments(ctx context.Context, req structs.GetListAssignmentRequest) (structs.GetListAssignmentResponse, error)
		DeleteAssignment(ctx context.Context, id string) error
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

const driverColumns = `
	id,
	email,
	full_name,
	COALESCE(phone, ''),
	license_no,
	branch_id,
	status,
	created_at::text,
	updated_at::text
`

func (r repo) Create(ctx context.Context, req structs.CreateDriver, passwordHash string) (structs.Driver, error) {
	var (
		pgErr = &pgconn.PgError{}
		query = `
			INSERT INTO drivers (
				id,
				email,
				password_hash,
				full_name,
				phone,
				license_no,
				branch_id,
				status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
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
		req.LicenseNo,
		req.BranchId,
		structs.DriverStatusActive,
	).Scan(&created)
	if err != nil {
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return structs.Driver{}, structs.ErrUniqueViolation
			case pgerrcode.ForeignKeyViolation:
				return structs.Driver{}, structs.ErrNotFound
			}
		}
		return structs.Driver{}, fmt.Errorf("create driver: %w", err)
	}

	return r.GetById(ctx, created)
}

func (r repo) GetById(ctx context.Context, id string) (structs.Driver, error) {
	var (
		resp  structs.Driver
		query = `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&resp.Id,
		&resp.Email,
		&resp.FullName,
		&resp.Phone,
		&resp.LicenseNo,
		&resp.BranchId,
		&resp.Status,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Driver{}, structs.ErrNotFound
		}
		return structs.Driver{}, fmt.Errorf("get driver: %w", err)
	}

	return resp, nil
}

func (r repo) GetAuthByEmail(ctx context.Context, email string) (DriverAuth, error) {
	var (
		auth  DriverAuth
		query = `
			SELECT ` + driverColumns + `,
				password_hash
			FROM drivers
			WHERE email = $1
		`
	)

	err := r.db.QueryRow(ctx, query, email).Scan(
		&auth.Driver.Id,
		&auth.Driver.Email,
		&auth.Driver.FullName,
		&auth.Driver.Phone,
		&auth.Driver.LicenseNo,
		&auth.Driver.BranchId,
		&auth.Driver.Status,
		&auth.Driver.CreatedAt,
		&auth.Driver.UpdatedAt,
		&auth.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DriverAuth{}, structs.ErrNotFound
		}
		return DriverAuth{}, fmt.Errorf("get driver auth: %w", err)
	}

	return auth, nil
}

func (r repo) GetAll(ctx context.Context, req structs.GetListDriverRequest) (structs.GetListDriverResponse, error) {
	var (
		query = `
			SELECT
				COUNT(*) OVER(),
		` + driverColumns + `
			FROM drivers
		`
		resp   structs.GetListDriverResponse
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
	if req.BranchId != nil {
		args = append(args, *req.BranchId)
		where += fmt.Sprintf(" AND branch_id = $%d", len(args))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		where += fmt.Sprintf(" AND (full_name ILIKE $%d OR email ILIKE $%d OR license_no ILIKE $%d)", len(args), len(args), len(args))
	}

	query += where + sort + offset + limit

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return structs.GetListDriverResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var driver structs.Driver
		err = rows.Scan(
			&resp.Count,
			&driver.Id,
			&driver.Email,
			&driver.FullName,
			&driver.Phone,
			&driver.LicenseNo,
			&driver.BranchId,
			&driver.Status,
			&driver.CreatedAt,
			&driver.UpdatedAt,
		)
		if err != nil {
			return structs.GetListDriverResponse{}, err
		}

		resp.Drivers = append(resp.Drivers, driver)
	}
	if err := rows.Err(); err != nil {
		return structs.GetListDriverResponse{}, err
	}

	return resp, nil
}

func (r repo) Patch(ctx context.Context, req structs.PatchDriver) (int64, error) {
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

	if req.Email != nil {
		addField("email", *req.Email)
	}
	if req.FullName != nil {
		addField("full_name", *req.FullName)
	}
	if req.Phone != nil {
		addField("phone", *req.Phone)
	}
	if req.LicenseNo != nil {
		addField("license_no", *req.LicenseNo)
	}
	if req.BranchId != nil {
		addField("branch_id", *req.BranchId)
	}
	if req.Status != nil {
		addField("status", *req.Status)
	}
	if len(updateFields) == 0 {
		return 0, structs.ErrBadRequest
	}

	updateFields = append(updateFields, "updated_at = NOW()")
	query := fmt.Sprintf(`
		UPDATE drivers
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
	_, err := r.db.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return structs.ErrForeignKeyInUse
		}
		return err
	}
	return nil
}

func (r repo) CreateAssignment(ctx context.Context, req structs.CreateDriverAssignment) (structs.DriverAssignment, error) {
	var (
		pgErr = &pgconn.PgError{}
		query = `
			INSERT INTO driver_assignments (
				id,
				driver_id,
				route_id,
				bus_id,
				service_date,
				shift
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		id = uuid.NewString()
	)

	var created string
	err := r.db.QueryRow(ctx, query,
		id,
		req.DriverId,
		req.RouteId,
		req.BusId,
		req.ServiceDate,
		req.Shift,
	).Scan(&created)
	if err != nil {
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return structs.DriverAssignment{}, structs.ErrUniqueViolation
			case pgerrcode.ForeignKeyViolation:
				return structs.DriverAssignment{}, structs.ErrNotFound
			}
		}
		return structs.DriverAssignment{}, fmt.Errorf("create assignment: %w", err)
	}

	return r.GetAssignmentById(ctx, created)
}

const assignmentColumns = `
	a.id,
	a.driver_id,
	d.full_name,
	a.route_id,
	a.bus_id,
	bs.plate_number,
	a.service_date::text,
	a.shift,
	a.created_at::text
`

func (r repo) GetAssignmentById(ctx context.Context, id string) (structs.DriverAssignment, error) {
	var (
		resp  structs.DriverAssignment
		query = `
			SELECT ` + assignmentColumns + `
			FROM driver_assignments a
			JOIN drivers d ON d.id = a.driver_id
			JOIN buses bs ON bs.id = a.bus_id
			WHERE a.id = $1
		`
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&resp.Id,
		&resp.DriverId,
		&resp.DriverName,
		&resp.RouteId,
		&resp.BusId,
		&resp.PlateNumber,
		&resp.ServiceDate,
		&resp.Shift,
		&resp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.DriverAssignment{}, structs.ErrNotFound
		}
		return structs.DriverAssignment{}, fmt.Errorf("get assignment: %w", err)
	}

	return resp, nil
}

func (r repo) GetAssignments(ctx context.Context, req structs.GetListAssignmentRequest) (structs.GetListAssignmentResponse, error) {
	var (
		query = `
			SELECT
				COUNT(*) OVER(),
		` + assignmentColumns + `
			FROM driver_assignments a
			JOIN drivers d ON d.id = a.driver_id
			JOIN buses bs ON bs.id = a.bus_id
		`
		resp   structs.GetListAssignmentResponse
		where  = " WHERE TRUE"
		sort   = " ORDER BY a.service_date DESC"
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
	if req.DriverId != "" {
		args = append(args, req.DriverId)
		where += fmt.Sprintf(" AND a.driver_id = $%d", len(args))
	}
	if req.BranchId != nil {
		args = append(args, *req.BranchId)
		where += fmt.Sprintf(" AND d.branch_id = $%d", len(args))
	}
	if req.DateFrom != "" {
		args = append(args, req.DateFrom)
		where += fmt.Sprintf(" AND a.service_date >= $%d", len(args))
	}
	if req.DateTo != "" {
		args = append(args, req.DateTo)
		where += fmt.Sprintf(" AND a.service_date <= $%d", len(args))
	}

	query += where + sort + offset + limit

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return structs.GetListAssignmentResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var assignment structs.DriverAssignment
		err = rows.Scan(
			&resp.Count,
			&assignment.Id,
			&assignment.DriverId,
			&assignment.DriverName,
			&assignment.RouteId,
			&assignment.BusId,
			&assignment.PlateNumber,
			&assignment.ServiceDate,
			&assignment.Shift,
			&assignment.CreatedAt,
		)
		if err != nil {
			return structs.GetListAssignmentResponse{}, err
		}

		resp.Assignments = append(resp.Assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return structs.GetListAssignmentResponse{}, err
	}

	return resp, nil
}

func (r repo) DeleteAssignment(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM driver_assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return structs.ErrNotFound
	}
	return nil
}
