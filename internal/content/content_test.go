package content

import (
	"context"
	"testing"

	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContentRepo struct {
	faqs    map[string]structs.FAQ
	reviews map[string]structs.Review

	lastFAQFilter    structs.GetListFAQRequest
	lastReviewFilter structs.GetListReviewRequest
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{
		faqs:    map[string]structs.FAQ{},
		reviews: map[string]structs.Review{},
	}
}

func (f *fakeContentRepo) CreateFAQ(_ context.Context, req structs.CreateFAQ) (structs.FAQ, error) {
	faq := structs.FAQ{
		Id:       "faq-new",
		Question: req.Question,
		Answer:   req.Answer,
		BranchId: req.BranchId,
		IsActive: true,
	}
	f.faqs[faq.Id] = faq
	return faq, nil
}

func (f *fakeContentRepo) GetFAQById(_ context.Context, id string) (structs.FAQ, error) {
	faq, ok := f.faqs[id]
	if !ok {
		return structs.FAQ{}, structs.ErrNotFound
	}
	return faq, nil
}

func (f *fakeContentRepo) GetFAQs(_ context.Context, req structs.GetListFAQRequest) (structs.GetListFAQResponse, error) {
	f.lastFAQFilter = req
	return structs.GetListFAQResponse{}, nil
}

func (f *fakeContentRepo) PatchFAQ(context.Context, structs.PatchFAQ) (int64, error) { return 1, nil }
func (f *fakeContentRepo) DeleteFAQ(_ context.Context, id string) error {
	delete(f.faqs, id)
	return nil
}

func (f *fakeContentRepo) CreateReview(_ context.Context, req structs.CreateReview) (structs.Review, error) {
	r := structs.Review{
		Id:         "rev-new",
		AuthorName: req.AuthorName,
		Rating:     req.Rating,
		Comment:    req.Comment,
		BranchId:   req.BranchId,
	}
	f.reviews[r.Id] = r
	return r, nil
}

func (f *fakeContentRepo) GetReviewById(_ context.Context, id string) (structs.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return structs.Review{}, structs.ErrNotFound
	}
	return r, nil
}

func (f *fakeContentRepo) GetReviews(_ context.Context, req structs.GetListReviewRequest) (structs.GetListReviewResponse, error) {
	f.lastReviewFilter = req
	return structs.GetListReviewResponse{}, nil
}

func (f *fakeContentRepo) ApproveReview(_ context.Context, id string) (int64, error) {
	r, ok := f.reviews[id]
	if !ok {
		return 0, nil
	}
	r.IsApproved = true
	f.reviews[id] = r
	return 1, nil
}

func (f *fakeContentRepo) DeleteReview(_ context.Context, id string) error {
	delete(f.reviews, id)
	return nil
}

type passRetrier struct{}

func (passRetrier) Do(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func strPtr(s string) *string { return &s }

func newTestService(repo *fakeContentRepo) Service {
	return &service{
		logger:      logger.New("error"),
		retrier:     passRetrier{},
		contentRepo: repo,
	}
}

func adminCtx(role string, branchId *string) context.Context {
	return scope.Inject(context.Background(), scope.Scope{
		Role:     role,
		AdminId:  "admin-1",
		BranchId: branchId,
	})
}

func TestGetFAQsPublicOnlyActive(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newTestService(repo)

	_, err := svc.GetFAQs(context.Background(), structs.GetListFAQRequest{OnlyActive: false})
	require.NoError(t, err)
	assert.True(t, repo.lastFAQFilter.OnlyActive, "public listing must not leak inactive rows")
}

func TestGetFAQsAdminNarrowsToBranch(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newTestService(repo)

	// a branch admin asking for another branch still only gets their own
	_, err := svc.GetFAQsAdmin(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.GetListFAQRequest{
		BranchId: strPtr("branch-2"),
	})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFAQFilter.BranchId)
	assert.Equal(t, "branch-1", *repo.lastFAQFilter.BranchId)
}

func TestCreateFAQGlobalIsSuperadminOnly(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newTestService(repo)

	_, err := svc.CreateFAQ(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.CreateFAQ{
		Question: "Where do buses leave from?",
		Answer:   "The main terminal.",
	})
	require.ErrorIs(t, err, structs.ErrSuperadminRequired)

	faq, err := svc.CreateFAQ(adminCtx(structs.RoleSuperadmin, nil), structs.CreateFAQ{
		Question: "Where do buses leave from?",
		Answer:   "The main terminal.",
	})
	require.NoError(t, err)
	assert.Nil(t, faq.BranchId)
}

func TestCreateFAQForeignBranchRefused(t *testing.T) {
	svc := newTestService(newFakeContentRepo())

	_, err := svc.CreateFAQ(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.CreateFAQ{
		Question: "Q",
		Answer:   "A",
		BranchId: strPtr("branch-2"),
	})
	require.ErrorIs(t, err, structs.ErrAccessDenied)
}

func TestPatchFAQHidesForeignBranch(t *testing.T) {
	repo := newFakeContentRepo()
	repo.faqs["faq-1"] = structs.FAQ{Id: "faq-1", BranchId: strPtr("branch-2")}
	svc := newTestService(repo)

	q := "updated"
	_, err := svc.PatchFAQ(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.PatchFAQ{
		Id:       "faq-1",
		Question: &q,
	})
	require.ErrorIs(t, err, structs.ErrNotFound)
}

func TestPatchFAQGlobalIsSuperadminOnly(t *testing.T) {
	repo := newFakeContentRepo()
	repo.faqs["faq-1"] = structs.FAQ{Id: "faq-1"}
	svc := newTestService(repo)

	q := "updated"
	_, err := svc.PatchFAQ(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.PatchFAQ{
		Id:       "faq-1",
		Question: &q,
	})
	require.ErrorIs(t, err, structs.ErrSuperadminRequired)

	_, err = svc.PatchFAQ(adminCtx(structs.RoleSuperadmin, nil), structs.PatchFAQ{
		Id:       "faq-1",
		Question: &q,
	})
	require.NoError(t, err)
}

func TestDeleteFAQGlobalIsSuperadminOnly(t *testing.T) {
	repo := newFakeContentRepo()
	repo.faqs["faq-1"] = structs.FAQ{Id: "faq-1"}
	svc := newTestService(repo)

	err := svc.DeleteFAQ(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), "faq-1")
	require.ErrorIs(t, err, structs.ErrSuperadminRequired)
	assert.Contains(t, repo.faqs, "faq-1", "the shared row stays put")
}

func TestDeleteFAQGlobalAllowedForSuperadmin(t *testing.T) {
	repo := newFakeContentRepo()
	repo.faqs["faq-1"] = structs.FAQ{Id: "faq-1"}
	svc := newTestService(repo)

	require.NoError(t, svc.DeleteFAQ(adminCtx(structs.RoleSuperadmin, nil), "faq-1"))
	assert.Empty(t, repo.faqs)
}

func TestGetReviewsPublicOnlyApproved(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newTestService(repo)

	_, err := svc.GetReviews(context.Background(), structs.GetListReviewRequest{})
	require.NoError(t, err)
	assert.True(t, repo.lastReviewFilter.OnlyApproved)
}

func TestSubmitReviewValidation(t *testing.T) {
	svc := newTestService(newFakeContentRepo())

	_, err := svc.SubmitReview(context.Background(), structs.CreateReview{
		AuthorName: "Rider",
		Rating:     6,
		Comment:    "great",
	})
	require.ErrorIs(t, err, structs.ErrBadRequest)

	_, err = svc.SubmitReview(context.Background(), structs.CreateReview{
		AuthorName: "Rider",
		Rating:     5,
	})
	require.ErrorIs(t, err, structs.ErrBadRequest)
}

func TestSubmitReviewStartsUnapproved(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newTestService(repo)

	r, err := svc.SubmitReview(context.Background(), structs.CreateReview{
		AuthorName: "Rider",
		Rating:     5,
		Comment:    "smooth ride",
	})
	require.NoError(t, err)
	assert.False(t, r.IsApproved)
}

func TestApproveReview(t *testing.T) {
	repo := newFakeContentRepo()
	repo.reviews["rev-1"] = structs.Review{Id: "rev-1", BranchId: strPtr("branch-1")}
	svc := newTestService(repo)

	r, err := svc.ApproveReview(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), "rev-1")
	require.NoError(t, err)
	assert.True(t, r.IsApproved)
}

func TestApproveReviewGlobalIsSuperadminOnly(t *testing.T) {
	repo := newFakeContentRepo()
	repo.reviews["rev-1"] = structs.Review{Id: "rev-1"}
	svc := newTestService(repo)

	_, err := svc.ApproveReview(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), "rev-1")
	require.ErrorIs(t, err, structs.ErrSuperadminRequired)
	assert.False(t, repo.reviews["rev-1"].IsApproved)

	r, err := svc.ApproveReview(adminCtx(structs.RoleSuperadmin, nil), "rev-1")
	require.NoError(t, err)
	assert.True(t, r.IsApproved)
}

func TestDeleteReviewGlobalIsSuperadminOnly(t *testing.T) {
	repo := newFakeContentRepo()
	repo.reviews["rev-1"] = structs.Review{Id: "rev-1"}
	svc := newTestService(repo)

	err := svc.DeleteReview(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), "rev-1")
	require.ErrorIs(t, err, structs.ErrSuperadminRequired)
	assert.Contains(t, repo.reviews, "rev-1")

	require.NoError(t, svc.DeleteReview(adminCtx(structs.RoleSuperadmin, nil), "rev-1"))
	assert.Empty(t, repo.reviews)
}

func TestApproveReviewHidesForeignBranch(t *testing.T) {
	repo := newFakeContentRepo()
	repo.reviews["rev-1"] = structs.Review{Id: "rev-1", BranchId: strPtr("branch-2")}
	svc := newTestService(repo)

	_, err := svc.ApproveReview(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), "rev-1")
	require.ErrorIs(t, err, structs.ErrNotFound)

	stored := repo.reviews["rev-1"]
	assert.False(t, stored.IsApproved)
}
