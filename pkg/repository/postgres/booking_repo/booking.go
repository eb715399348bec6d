package bookingRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"routeaura/internal/structs"
	"routeaura/pkg/db"
	"routeaura/pkg/logger"
	"routeaura/pkg/utils"

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
		Create(ctx context.Context, req structs.CreateBooking) (structs.Booking, error)
		CreateManual(ctx context.Context, req structs.CreateManualBooking, branchID string) (structs.Booking, error)
		GetById(ctx context.Context, id string) (structs.Booking, error)
		GetByReference(ctx context.Context, reference string) (structs.Booking, error)
		GetAll(ctx context.Context, req structs.GetListBookingRequest) (structs.GetListBookingResponse, error)
		UpdateStatus(ctx context.Context, id, status string) (int64, error)
		Archive(ctx context.Context, ids []string) (int64, error)
		DeleteMany(ctx context.Context, ids []string) (int64, error)
		TakenSeats(ctx context.Context, routeID, departureDate string) ([]string, error)
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

const bookingColumns = `
	b.id,
	b.reference,
	b.user_id,
	b.route_id,
	b.from_location,
	b.to_location,
	b.departure_date::text,
	b.departure_time::text,
	b.seat_numbers,
	b.price,
	b.status,
	b.branch_id,
	b.is_manual,
	COALESCE(b.passenger_name, ''),
	COALESCE(b.passenger_phone, ''),
	b.created_at::text,
	b.updated_at::text
`

func scanBooking(row pgx.Row, dest *structs.Booking, extra ...interface{}) error {
	var userID sql.NullString

	args := []interface{}{
		&dest.Id,
		&dest.Reference,
		&userID,
		&dest.RouteId,
		&dest.FromLocation,
		&dest.ToLocation,
		&dest.DepartureDate,
		&dest.DepartureTime,
		&dest.SeatNumbers,
		&dest.Price,
		&dest.Status,
		&dest.BranchId,
		&dest.IsManual,
		&dest.PassengerName,
		&dest.PassengerPhone,
		&dest.CreatedAt,
		&dest.UpdatedAt,
	}
	args = append(extra, args...)

	if err := row.Scan(args...); err != nil {
		return err
	}
	if userID.Valid {
		dest.UserId = &userID.String
	}
	return nil
}

type routeSnapshot struct {
	fromLocation  string
	toLocation    string
	departureTime string
	price         float64
	branchID      string
}

// routeForBooking resolves the priced route inside the booking transaction
// so the snapshot written to the booking row cannot drift.
func (r repo) routeForBooking(ctx context.Context, tx pgx.Tx, routeID string) (routeSnapshot, error) {
	var (
		snap  routeSnapshot
		query = `
			SELECT
				lf.name,
				lt.name,
				rt.departure_time::text,
				rt.price,
				rt.branch_id
			FROM routes rt
			JOIN locations lf ON lf.id = rt.from_location_id
			JOIN locations lt ON lt.id = rt.to_location_id
			WHERE rt.id = $1 AND rt.is_active
		`
	)

	err := tx.QueryRow(ctx, query, routeID).Scan(
		&snap.fromLocation,
		&snap.toLocation,
		&snap.departureTime,
		&snap.price,
		&snap.branchID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return routeSnapshot{}, structs.ErrNotFound
		}
		return routeSnapshot{}, fmt.Errorf("resolve route: %w", err)
	}

	return snap, nil
}

func (r repo) checkSeats(ctx context.Context, tx pgx.Tx, routeID, departureDate string, seats []string) error {
	query := `
		SELECT seat_numbers
		FROM bookings
		WHERE route_id = $1
		  AND departure_date = $2
		  AND status IN ($3, $4)
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, routeID, departureDate,
		structs.BookingStatusUpcoming, structs.BookingStatusCompleted)
	if err != nil {
		return fmt.Errorf("check seats: %w", err)
	}
	defer rows.Close()

	taken := map[string]bool{}
	for rows.Next() {
		var existing []string
		if err := rows.Scan(&existing); err != nil {
			return err
		}
		for _, s := range existing {
			taken[s] = true
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, s := range seats {
		if taken[s] {
			return structs.ErrSeatTaken
		}
	}
	return nil
}

func (r repo) insertBooking(ctx context.Context, tx pgx.Tx, b structs.Booking) (string, error) {
	query := `
		INSERT INTO bookings (
			id,
			reference,
			user_id,
			route_id,
			from_location,
			to_location,
			departure_date,
			departure_time,
			seat_numbers,
			price,
			status,
			branch_id,
			is_manual,
			passenger_name,
			passenger_phone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`

	var id string
	err := tx.QueryRow(ctx, query,
		b.Id,
		b.Reference,
		b.UserId,
		b.RouteId,
		b.FromLocation,
		b.ToLocation,
		b.DepartureDate,
		b.DepartureTime,
		b.SeatNumbers,
		b.Price,
		b.Status,
		b.BranchId,
		b.IsManual,
		b.PassengerName,
		b.PassengerPhone,
	).Scan(&id)
	if err != nil {
		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return "", structs.ErrNotFound
		}
		return "", fmt.Errorf("insert booking: %w", err)
	}
	return id, nil
}

func (r repo) Create(ctx context.Context, req structs.CreateBooking) (structs.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return structs.Booking{}, err
	}
	defer tx.Rollback(ctx)

	snap, err := r.routeForBooking(ctx, tx, req.RouteId)
	if err != nil {
		return structs.Booking{}, err
	}

	if err := r.checkSeats(ctx, tx, req.RouteId, req.DepartureDate, req.SeatNumbers); err != nil {
		return structs.Booking{}, err
	}

	id, err := r.insertBooking(ctx, tx, structs.Booking{
		Id:            uuid.NewString(),
		Reference:     utils.BookingReference(),
		UserId:        req.UserId,
		RouteId:       req.RouteId,
		FromLocation:  snap.fromLocation,
		ToLocation:    snap.toLocation,
		DepartureDate: req.DepartureDate,
		DepartureTime: snap.departureTime,
		SeatNumbers:   req.SeatNumbers,
		Price:         snap.price * float64(len(req.SeatNumbers)),
		Status:        structs.BookingStatusUpcoming,
		BranchId:      snap.branchID,
	})
	if err != nil {
		return structs.Booking{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return structs.Booking{}, err
	}

	return r.GetById(ctx, id)
}

func (r repo) CreateManual(ctx context.Context, req structs.CreateManualBooking, branchID string) (structs.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return structs.Booking{}, err
	}
	defer tx.Rollback(ctx)

	snap, err := r.routeForBooking(ctx, tx, req.RouteId)
	if err != nil {
		return structs.Booking{}, err
	}

	// A branch admin can only book on its own branch's routes.
	if branchID != "" && snap.branchID != branchID {
		return structs.Booking{}, structs.ErrAccessDenied
	}

	if err := r.checkSeats(ctx, tx, req.RouteId, req.DepartureDate, req.SeatNumbers); err != nil {
		return structs.Booking{}, err
	}

	id, err := r.insertBooking(ctx, tx, structs.Booking{
		Id:             uuid.NewString(),
		Reference:      utils.BookingReference(),
		RouteId:        req.RouteId,
		FromLocation:   snap.fromLocation,
		ToLocation:     snap.toLocation,
		DepartureDate:  req.DepartureDate,
		DepartureTime:  snap.departureTime,
		SeatNumbers:    req.SeatNumbers,
		Price:          snap.price * float64(len(req.SeatNumbers)),
		Status:         structs.BookingStatusUpcoming,
		BranchId:       snap.branchID,
		IsManual:       true,
		PassengerName:  req.PassengerName,
		PassengerPhone: req.PassengerPhone,
	})
	if err != nil {
		return structs.Booking{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return structs.Booking{}, err
	}

	return r.GetById(ctx, id)
}

func (r repo) GetById(ctx context.Context, id string) (structs.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

	var resp structs.Booking
	if err := scanBooking(r.db.QueryRow(ctx, query, id), &resp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Booking{}, structs.ErrNotFound
		}
		return structs.Booking{}, fmt.Errorf("get booking: %w", err)
	}

	return resp, nil
}

func (r repo) GetByReference(ctx context.Context, reference string) (structs.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.reference = $1`

	var resp structs.Booking
	if err := scanBooking(r.db.QueryRow(ctx, query, reference), &resp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Booking{}, structs.ErrNotFound
		}
		return structs.Booking{}, fmt.Errorf("get booking by reference: %w", err)
	}

	return resp, nil
}

func (r repo) GetAll(ctx context.Context, req structs.GetListBookingRequest) (structs.GetListBookingResponse, error) {
	var (
		query = `
			SELECT
				COUNT(*) OVER(),
		` + bookingColumns + `
			FROM bookings b
		`
		resp   structs.GetListBookingResponse
		where  = " WHERE TRUE"
		sort   = " ORDER BY b.created_at DESC"
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
		where += fmt.Sprintf(" AND b.branch_id = $%d", len(args))
	}
	if req.Status != "" {
		args = append(args, req.Status)
		where += fmt.Sprintf(" AND b.status = $%d", len(args))
	}
	if req.UserId != "" {
		args = append(args, req.UserId)
		where += fmt.Sprintf(" AND b.user_id = $%d", len(args))
	}
	if req.DateFrom != "" {
		args = append(args, req.DateFrom)
		where += fmt.Sprintf(" AND b.departure_date >= $%d", len(args))
	}
	if req.DateTo != "" {
		args = append(args, req.DateTo)
		where += fmt.Sprintf(" AND b.departure_date <= $%d", len(args))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		where += fmt.Sprintf(
			" AND (b.reference ILIKE $%d OR b.from_location ILIKE $%d OR b.to_location ILIKE $%d OR b.passenger_name ILIKE $%d)",
			len(args), len(args), len(args), len(args),
		)
	}

	query += where + sort + offset + limit

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return structs.GetListBookingResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var booking structs.Booking
		if err := scanBooking(rows, &booking, &resp.Count); err != nil {
			return structs.GetListBookingResponse{}, err
		}
		resp.Bookings = append(resp.Bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return structs.GetListBookingResponse{}, err
	}

	return resp, nil
}

func (r repo) UpdateStatus(ctx context.Context, id, status string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r repo) Archive(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = ANY($1)`,
		ids, structs.BookingStatusArchived,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r repo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r repo) TakenSeats(ctx context.Context, routeID, departureDate string) ([]string, error) {
	query := `
		SELECT seat_numbers
		FROM bookings
		WHERE route_id = $1
		  AND departure_date = $2
		  AND status IN ($3, $4)
	`

	rows, err := r.db.Query(ctx, query, routeID, departureDate,
		structs.BookingStatusUpcoming, structs.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var taken []string
	seen := map[string]bool{}
	for rows.Next() {
		var seats []string
		if err := rows.Scan(&seats); err != nil {
			return nil, err
		}
		for _, s := range seats {
			if !seen[s] {
				seen[s] = true
				taken = append(taken, s)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return taken, nil
}
