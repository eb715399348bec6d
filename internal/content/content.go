package content

import (
	"context"
	"errors"

	"routeaura/internal/control/authretry"
	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	contentRepo "routeaura/pkg/repository/postgres/content_repo"
	"routeaura/pkg/utils"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Params struct {
		fx.In
		Logger      logger.Logger
		Retrier     authretry.Retrier
		ContentRepo contentRepo.Repo
	}

	// Service manages marketing content: FAQ entries and customer
	// reviews. Public listings only ever show active and approved rows.
	Service interface {
		GetFAQs(ctx context.Context, req structs.GetListFAQRequest) (structs.GetListFAQResponse, error)
		GetFAQsAdmin(ctx context.Context, req structs.GetListFAQRequest) (structs.GetListFAQResponse, error)
		CreateFAQ(ctx context.Context, req structs.CreateFAQ) (structs.FAQ, error)
		PatchFAQ(ctx context.Context, req structs.PatchFAQ) (structs.FAQ, error)
		DeleteFAQ(ctx context.Context, id string) error

		GetReviews(ctx context.Context, req structs.GetListReviewRequest) (structs.GetListReviewResponse, error)
		GetReviewsAdmin(ctx context.Context, req structs.GetListReviewRequest) (structs.GetListReviewResponse, error)
		SubmitReview(ctx context.Context, req structs.CreateReview) (structs.Review, error)
		ApproveReview(ctx context.Context, id string) (structs.Review, error)
		DeleteReview(ctx context.Context, id string) error
	}

	service struct {
		logger      logger.Logger
		retrier     authretry.Retrier
		contentRepo contentRepo.Repo
	}
)

func New(p Params) Service {
	return &service{
		logger:      p.Logger,
		retrier:     p.Retrier,
		contentRepo: p.ContentRepo,
	}
}

func (s service) GetFAQs(ctx context.Context, req structs.GetListFAQRequest) (structs.GetListFAQResponse, error) {
	req.OnlyActive = true

	resp, err := s.contentRepo.GetFAQs(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "->contentRepo.GetFAQs", zap.Error(err))
		return structs.GetListFAQResponse{}, err
	}
	return resp, nil
}

func (s service) GetFAQsAdmin(ctx context.Context, req structs.GetListFAQRequest) (structs.GetListFAQResponse, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.GetListFAQResponse{}, structs.ErrAccessDenied
	}
	if sc.BranchId != nil {
		req.BranchId = sc.BranchId
	}

	resp, err := s.contentRepo.GetFAQs(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "->contentRepo.GetFAQs", zap.Error(err))
		return structs.GetListFAQResponse{}, err
	}
	return resp, nil
}

func (s service) CreateFAQ(ctx context.Context, req structs.CreateFAQ) (structs.FAQ, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.FAQ{}, structs.ErrAccessDenied
	}
	if utils.StrEmpty(req.Question) || utils.StrEmpty(req.Answer) {
		return structs.FAQ{}, structs.ErrBadRequest
	}
	if req.BranchId == nil && !sc.IsSuperadmin() {
		return structs.FAQ{}, structs.ErrSuperadminRequired
	}
	if req.BranchId != nil && !sc.Allows(*req.BranchId) {
		return structs.FAQ{}, structs.ErrAccessDenied
	}

	var faq structs.FAQ
	err := s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		faq, repoErr = s.contentRepo.CreateFAQ(ctx, req)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.FAQ{}, err
		}
		s.logger.Error(ctx, "->contentRepo.CreateFAQ", zap.Error(err))
		return structs.FAQ{}, err
	}
	return faq, nil
}

func (s service) PatchFAQ(ctx context.Context, req structs.PatchFAQ) (structs.FAQ, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.FAQ{}, structs.ErrAccessDenied
	}

	current, err := s.contentRepo.GetFAQById(ctx, req.Id)
	if err != nil {
		return structs.FAQ{}, err
	}
	if current.BranchId == nil && !sc.IsSuperadmin() {
		return structs.FAQ{}, structs.ErrSuperadminRequired
	}
	if current.BranchId != nil && !sc.Allows(*current.BranchId) {
		return structs.FAQ{}, structs.ErrNotFound
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		_, repoErr := s.contentRepo.PatchFAQ(ctx, req)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			return structs.FAQ{}, err
		}
		s.logger.Error(ctx, "->contentRepo.PatchFAQ", zap.Error(err))
		return structs.FAQ{}, err
	}

	return s.contentRepo.GetFAQById(ctx, req.Id)
}

func (s service) DeleteFAQ(ctx context.Context, id string) error {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.ErrAccessDenied
	}

	current, err := s.contentRepo.GetFAQById(ctx, id)
	if err != nil {
		return err
	}
	if current.BranchId == nil && !sc.IsSuperadmin() {
		return structs.ErrSuperadminRequired
	}
	if current.BranchId != nil && !sc.Allows(*current.BranchId) {
		return structs.ErrNotFound
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		return s.contentRepo.DeleteFAQ(ctx, id)
	})
	if err != nil {
		s.logger.Error(ctx, "->contentRepo.DeleteFAQ", zap.Error(err))
		return err
	}
	return nil
}

func (s service) GetReviews(ctx context.Context, req structs.GetListReviewRequest) (structs.GetListReviewResponse, error) {
	req.OnlyApproved = true

	resp, err := s.contentRepo.GetReviews(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "->contentRepo.GetReviews", zap.Error(err))
		return structs.GetListReviewResponse{}, err
	}
	return resp, nil
}

func (s service) GetReviewsAdmin(ctx context.Context, req structs.GetListReviewRequest) (structs.GetListReviewResponse, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.GetListReviewResponse{}, structs.ErrAccessDenied
	}
	if sc.BranchId != nil {
		req.BranchId = sc.BranchId
	}

	resp, err := s.contentRepo.GetReviews(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "->contentRepo.GetReviews", zap.Error(err))
		return structs.GetListReviewResponse{}, err
	}
	return resp, nil
}

// SubmitReview is public, reviews appear only after moderation.
func (s service) SubmitReview(ctx context.Context, req structs.CreateReview) (structs.Review, error) {
	if utils.StrEmpty(req.AuthorName) || utils.StrEmpty(req.Comment) {
		return structs.Review{}, structs.ErrBadRequest
	}
	if req.Rating < 1 || req.Rating > 5 {
		return structs.Review{}, structs.ErrBadRequest
	}

	review, err := s.contentRepo.CreateReview(ctx, req)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.Review{}, err
		}
		s.logger.Error(ctx, "->contentRepo.CreateReview", zap.Error(err))
		return structs.Review{}, err
	}
	return review, nil
}

func (s service) ApproveReview(ctx context.Context, id string) (structs.Review, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.Review{}, structs.ErrAccessDenied
	}

	current, err := s.contentRepo.GetReviewById(ctx, id)
	if err != nil {
		return structs.Review{}, err
	}
	if current.BranchId == nil && !sc.IsSuperadmin() {
		return structs.Review{}, structs.ErrSuperadminRequired
	}
	if current.BranchId != nil && !sc.Allows(*current.BranchId) {
		return structs.Review{}, structs.ErrNotFound
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		affected, repoErr := s.contentRepo.ApproveReview(ctx, id)
		if repoErr != nil {
			return repoErr
		}
		if affected == 0 {
			return structs.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.Review{}, err
		}
		s.logger.Error(ctx, "->contentRepo.ApproveReview", zap.Error(err))
		return structs.Review{}, err
	}

	return s.contentRepo.GetReviewById(ctx, id)
}

func (s service) DeleteReview(ctx context.Context, id string) error {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.ErrAccessDenied
	}

	current, err := s.contentRepo.GetReviewById(ctx, id)
	if err != nil {
		return err
	}
	if current.BranchId == nil && !sc.IsSuperadmin() {
		return structs.ErrSuperadminRequired
	}
	if current.BranchId != nil && !sc.Allows(*current.BranchId) {
		return structs.ErrNotFound
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		return s.contentRepo.DeleteReview(ctx, id)
	})
	if err != nil {
		s.logger.Error(ctx, "->contentRepo.DeleteReview", zap.Error(err))
		return err
	}
	return nil
}
