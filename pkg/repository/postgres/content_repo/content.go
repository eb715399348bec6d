package contentRepo

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
		CreateFAQ(ctx context.Context, req structs.CreateFAQ) (structs.FAQ, error)
		GetFAQById(ctx context.Context, id string) (structs.FAQ, error)
		GetFAQs(ctx context.Context, req structs.GetListFAQRequest) (structs.GetListFAQResponse, error)
		PatchFAQ(ctx context.Context, req structs.PatchFAQ) (int64, error)
		DeleteFAQ(ctx context.Context, id string) error

		CreateReview(ctx context.Context, req structs.CreateReview) (structs.Review, error)
		GetReviewById(ctx context.Context, id string) (structs.Review, error)
		GetReviews(ctx context.Context, req structs.GetListReviewRequest) (structs.GetListReviewResponse, error)
		ApproveReview(ctx context.Context, id string) (int64, error)
		DeleteReview(ctx context.Context, id string) error
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

const faqColumns = `
	id,
	question,
	answer,
	category,
	display_order,
	is_active,
	branch_id,
	created_at::text,
	updated_at::text
`

func (r repo) scanFAQ(row pgx.Row) (structs.FAQ, error) {
	var resp structs.FAQ
	err := row.Scan(
		&resp.Id,
		&resp.Question,
		&resp.Answer,
		&resp.Category,
		&resp.DisplayOrder,
		&resp.IsActive,
		&resp.BranchId,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.FAQ{}, structs.ErrNotFound
		}
		return structs.FAQ{}, err
	}
	return resp, nil
}

func (r repo) CreateFAQ(ctx context.Context, req structs.CreateFAQ) (structs.FAQ, error) {
	query := `
		INSERT INTO faqs (
			id,
			question,
			answer,
			category,
			display_order,
			branch_id
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + faqColumns

	faq, err := r.scanFAQ(r.db.QueryRow(ctx, query,
		uuid.NewString(),
		req.Question,
		req.Answer,
		req.Category,
		req.DisplayOrder,
		req.BranchId,
	))
	if err != nil {
		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return structs.FAQ{}, structs.ErrNotFound
		}
		return structs.FAQ{}, fmt.Errorf("create faq: %w", err)
	}

	return faq, nil
}

func (r repo) GetFAQById(ctx context.Context, id string) (structs.FAQ, error) {
	query := `SELECT ` + faqColumns + ` FROM faqs WHERE id = $1`
	return r.scanFAQ(r.db.QueryRow(ctx, query, id))
}

func (r repo) GetFAQs(ctx context.Context, req structs.GetListFAQRequest) (structs.GetListFAQResponse, error) {
	var (
		query = `
			SELECT
				COUNT(*) OVER(),
				` + faqColumns + `
			FROM faqs
		`
		resp   structs.GetListFAQResponse
		where  = " WHERE TRUE"
		sort   = " ORDER BY display_order ASC, created_at DESC"
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
	if req.OnlyActive {
		where += " AND is_active"
	}
	if req.Category != "" {
		args = append(args, req.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if req.BranchId != nil {
		args = append(args, *req.BranchId)
		where += fmt.Sprintf(" AND (branch_id = $%d OR branch_id IS NULL)", len(args))
	}

	query += where + sort + offset + limit

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return structs.GetListFAQResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var faq structs.FAQ
		err = rows.Scan(
			&resp.Count,
			&faq.Id,
			&faq.Question,
			&faq.Answer,
			&faq.Category,
			&faq.DisplayOrder,
			&faq.IsActive,
			&faq.BranchId,
			&faq.CreatedAt,
			&faq.UpdatedAt,
		)
		if err != nil {
			return structs.GetListFAQResponse{}, err
		}

		resp.FAQs = append(resp.FAQs, faq)
	}
	if err := rows.Err(); err != nil {
		return structs.GetListFAQResponse{}, err
	}

	return resp, nil
}

func (r repo) PatchFAQ(ctx context.Context, req structs.PatchFAQ) (int64, error) {
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

	if req.Question != nil {
		addField("question", *req.Question)
	}
	if req.Answer != nil {
		addField("answer", *req.Answer)
	}
	if req.Category != nil {
		addField("category", *req.Category)
	}
	if req.DisplayOrder != nil {
		addField("display_order", *req.DisplayOrder)
	}
	if req.IsActive != nil {
		addField("is_active", *req.IsActive)
	}
	if len(updateFields) == 0 {
		return 0, structs.ErrBadRequest
	}

	updateFields = append(updateFields, "updated_at = NOW()")
	query := fmt.Sprintf(`
		UPDATE faqs
		SET %s
		WHERE id = $1
	`, strings.Join(updateFields, ", "))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r repo) DeleteFAQ(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	return err
}

const reviewColumns = `
	id,
	user_id,
	author_name,
	rating,
	comment,
	is_approved,
	branch_id,
	created_at::text
`

func (r repo) scanReview(row pgx.Row) (structs.Review, error) {
	var resp structs.Review
	err := row.Scan(
		&resp.Id,
		&resp.UserId,
		&resp.AuthorName,
		&resp.Rating,
		&resp.Comment,
		&resp.IsApproved,
		&resp.BranchId,
		&resp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structs.Review{}, structs.ErrNotFound
		}
		return structs.Review{}, err
	}
	return resp, nil
}

func (r repo) CreateReview(ctx context.Context, req structs.CreateReview) (structs.Review, error) {
	query := `
		INSERT INTO reviews (
			id,
			user_id,
			author_name,
			rating,
			comment,
			branch_id
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + reviewColumns

	review, err := r.scanReview(r.db.QueryRow(ctx, query,
		uuid.NewString(),
		req.UserId,
		req.AuthorName,
		req.Rating,
		req.Comment,
		req.BranchId,
	))
	if err != nil {
		pgErr := &pgconn.PgError{}
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return structs.Review{}, structs.ErrNotFound
		}
		return structs.Review{}, fmt.Errorf("create review: %w", err)
	}

	return review, nil
}

func (r repo) GetReviewById(ctx context.Context, id string) (structs.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return r.scanReview(r.db.QueryRow(ctx, query, id))
}

func (r repo) GetReviews(ctx context.Context, req structs.GetListReviewRequest) (structs.GetListReviewResponse, error) {
	var (
		query = `
			SELECT
				COUNT(*) OVER(),
				` + reviewColumns + `
			FROM reviews
		`
		resp   structs.GetListReviewResponse
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
	if req.OnlyApproved {
		where += " AND is_approved"
	}
	if req.BranchId != nil {
		args = append(args, *req.BranchId)
		where += fmt.Sprintf(" AND (branch_id = $%d OR branch_id IS NULL)", len(args))
	}

	query += where + sort + offset + limit

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return structs.GetListReviewResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var review structs.Review
		err = rows.Scan(
			&resp.Count,
			&review.Id,
			&review.UserId,
			&review.AuthorName,
			&review.Rating,
			&review.Comment,
			&review.IsApproved,
			&review.BranchId,
			&review.CreatedAt,
		)
		if err != nil {
			return structs.GetListReviewResponse{}, err
		}

		resp.Reviews = append(resp.Reviews, review)
	}
	if err := rows.Err(); err != nil {
		return structs.GetListReviewResponse{}, err
	}

	return resp, nil
}

func (r repo) ApproveReview(ctx context.Context, id string) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE reviews SET is_approved = TRUE WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r repo) DeleteReview(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	return err
}
