package receiptRepo

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
		Create(ctx context.Context, bookingId, reference string, amount float64, templateId *string) (structs.Receipt, error)
		GetById(ctx context.Context, id string) (structs.Receipt, error)
		GetByReference(ctx context.Context, reference string) (structs.Receipt, error)
		GetByBookingId(ctx context.Context, bookingId string) (structs.Receipt, error)
		GetAll(ctx context.Context, req structs.GetListReceiptRequest) (structs.GetListReceiptResponse, error)

		CreateTemplate(ctx context.Context, req structs.CreateReceiptTemplate) (structs.ReceiptTemplate, error)
		GetTemplateById(ctx context.Context, id string) (structs.ReceiptTemplate, error)
		GetTemplateForBranch(ctx context.Context, branchId string) (structs.ReceiptTemplate, error)
		GetTemplates(ctx context.Context, branchId *string) ([]structs.ReceiptTemplate, error)
		PatchTemplate(ctx context.Context, req structs.PatchReceiptTemplate) (int64, error)
		DeleteTemplate(ctx context.Context, id string) error
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

const receiptColumns = `
	id,
	reference,
	booking_id,
	amount,
	template_id,
	issued_at::text
`

func (r repo) scanReceipt(row pgx.Row) (structs.Receipt, error) {
	var resp structs.Receipt
	err := row.Scan(
		&resp.Id,
		&resp.Reference,
		&resp.BookingId,
		&resp.Amount,
		&resp.TemplateId,
		&resp.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Receipt{}, structs.ErrNotFound
		}
		return structs.Receipt{}, err
	}
	return resp, nil
}

func (r repo) Create(ctx context.Context, bookingId, reference string, amount float64, templateId *string) (structs.Receipt, error) {
	var (
		pgErr = &pgconn.PgError{}
		query = `
			INSERT INTO receipts (
				id,
				reference,
				booking_id,
				amount,
				template_id
			) VALUES ($1, $2, $3, $4, $5)
			RETURNING ` + receiptColumns
	)

	receipt, err := r.scanReceipt(r.db.QueryRow(ctx, query,
		uuid.NewString(),
		reference,
		bookingId,
		amount,
		templateId,
	))
	if err != nil {
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return structs.Receipt{}, structs.ErrUniqueViolation
			case pgerrcode.ForeignKeyViolation:
				return structs.Receipt{}, structs.ErrNotFound
			}
		}
		return structs.Receipt{}, fmt.Errorf("create receipt: %w", err)
	}

	return receipt, nil
}

func (r repo) GetById(ctx context.Context, id string) (structs.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE id = $1`
	return r.scanReceipt(r.db.QueryRow(ctx, query, id))
}

func (r repo) GetByReference(ctx context.Context, reference string) (structs.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE reference = $1`
	return r.scanReceipt(r.db.QueryRow(ctx, query, reference))
}

func (r repo) GetByBookingId(ctx context.Context, bookingId string) (structs.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE booking_id = $1`
	return r.scanReceipt(r.db.QueryRow(ctx, query, bookingId))
}

func (r repo) GetAll(ctx context.Context, req structs.GetListReceiptRequest) (structs.GetListReceiptResponse, error) {
	var (
		query = `
			SELECT
				COUNT(*) OVER(),
				r.id,
				r.reference,
				r.booking_id,
				r.amount,
				r.template_id,
				r.issued_at::text
			FROM receipts r
			JOIN bookings b ON b.id = r.booking_id
		`
		resp   structs.GetListReceiptResponse
		where  = " WHERE TRUE"
		sort   = " ORDER BY r.issued_at DESC"
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
		where += fmt.Sprintf(" AND b.branch_id = $%d", len(args))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		where += fmt.Sprintf(" AND (r.reference ILIKE $%d OR b.reference ILIKE $%d)", len(args), len(args))
	}

	query += where + sort + offset + limit

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return structs.GetListReceiptResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var receipt structs.Receipt
		err = rows.Scan(
			&resp.Count,
			&receipt.Id,
			&receipt.Reference,
			&receipt.BookingId,
			&receipt.Amount,
			&receipt.TemplateId,
			&receipt.IssuedAt,
		)
		if err != nil {
			return structs.GetListReceiptResponse{}, err
		}

		resp.Receipts = append(resp.Receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return structs.GetListReceiptResponse{}, err
	}

	return resp, nil
}

const templateColumns = `
	id,
	branch_id,
	name,
	header,
	footer,
	is_default,
	created_at::text,
	updated_at::text
`

func (r repo) scanTemplate(row pgx.Row) (structs.ReceiptTemplate, error) {
	var resp structs.ReceiptTemplate
	err := row.Scan(
		&resp.Id,
		&resp.BranchId,
		&resp.Name,
		&resp.Header,
		&resp.Footer,
		&resp.IsDefault,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.ReceiptTemplate{}, structs.ErrNotFound
		}
		return structs.ReceiptTemplate{}, err
	}
	return resp, nil
}

func (r repo) CreateTemplate(ctx context.Context, req structs.CreateReceiptTemplate) (structs.ReceiptTemplate, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return structs.ReceiptTemplate{}, err
	}
	defer tx.Rollback(ctx)

	// only one default template per branch scope
	if req.IsDefault {
		if err = r.clearDefault(ctx, tx, req.BranchId); err != nil {
			return structs.ReceiptTemplate{}, err
		}
	}

	query := `
		INSERT INTO receipt_templates (
			id,
			branch_id,
			name,
			header,
			footer,
			is_default
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + templateColumns

	template, err := r.scanTemplate(tx.QueryRow(ctx, query,
		uuid.NewString(),
		req.BranchId,
		req.Name,
		req.Header,
		req.Footer,
		req.IsDefault,
	))
	if err != nil {
		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return structs.ReceiptTemplate{}, structs.ErrNotFound
		}
		return structs.ReceiptTemplate{}, fmt.Errorf("create receipt template: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return structs.ReceiptTemplate{}, err
	}

	return template, nil
}

func (r repo) clearDefault(ctx context.Context, tx pgx.Tx, branchId *string) error {
	if branchId == nil {
		_, err := tx.Exec(ctx, `UPDATE receipt_templates SET is_default = FALSE WHERE branch_id IS NULL AND is_default`)
		return err
	}
	_, err := tx.Exec(ctx, `UPDATE receipt_templates SET is_default = FALSE WHERE branch_id = $1 AND is_default`, *branchId)
	return err
}

func (r repo) GetTemplateById(ctx context.Context, id string) (structs.ReceiptTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM receipt_templates WHERE id = $1`
	return r.scanTemplate(r.db.QueryRow(ctx, query, id))
}

// GetTemplateForBranch resolves the template used for rendering: the branch
// default first, then the global default.
func (r repo) GetTemplateForBranch(ctx context.Context, branchId string) (structs.ReceiptTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM receipt_templates
		WHERE is_default AND (branch_id = $1 OR branch_id IS NULL)
		ORDER BY branch_id NULLS LAST
		LIMIT 1
	`
	return r.scanTemplate(r.db.QueryRow(ctx, query, branchId))
}

func (r repo) GetTemplates(ctx context.Context, branchId *string) ([]structs.ReceiptTemplate, error) {
	var (
		query = `SELECT ` + templateColumns + ` FROM receipt_templates`
		args  []interface{}
	)

	if branchId != nil {
		args = append(args, *branchId)
		query += ` WHERE branch_id = $1 OR branch_id IS NULL`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []structs.ReceiptTemplate
	for rows.Next() {
		var template structs.ReceiptTemplate
		err = rows.Scan(
			&template.Id,
			&template.BranchId,
			&template.Name,
			&template.Header,
			&template.Footer,
			&template.IsDefault,
			&template.CreatedAt,
			&template.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r repo) PatchTemplate(ctx context.Context, req structs.PatchReceiptTemplate) (int64, error) {
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
	if req.Header != nil {
		addField("header", *req.Header)
	}
	if req.Footer != nil {
		addField("footer", *req.Footer)
	}
	if req.IsDefault != nil {
		addField("is_default", *req.IsDefault)
	}
	if len(updateFields) == 0 {
		return 0, structs.ErrBadRequest
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if req.IsDefault != nil && *req.IsDefault {
		current, err := r.GetTemplateById(ctx, req.Id)
		if err != nil {
			return 0, err
		}
		if err = r.clearDefault(ctx, tx, current.BranchId); err != nil {
			return 0, err
		}
	}

	updateFields = append(updateFields, "updated_at = NOW()")
	query := fmt.Sprintf(`
		UPDATE receipt_templates
		SET %s
		WHERE id = $1
	`, strings.Join(updateFields, ", "))

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r repo) DeleteTemplate(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM receipt_templates WHERE id = $1`, id)
	if err != nil {
		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return structs.ErrForeignKeyInUse
		}
		return err
	}
	return nil
}
