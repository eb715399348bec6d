package receipt

import (
	"context"
	"strings"
	"testing"

	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReceiptRepo struct {
	receipts  map[string]structs.Receipt
	templates map[string]structs.ReceiptTemplate
	branchDef map[string]structs.ReceiptTemplate
	created   []structs.CreateReceiptTemplate
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{
		receipts:  map[string]structs.Receipt{},
		templates: map[string]structs.ReceiptTemplate{},
		branchDef: map[string]structs.ReceiptTemplate{},
	}
}

func (f *fakeReceiptRepo) Create(_ context.Context, bookingId, reference string, amount float64, templateId *string) (structs.Receipt, error) {
	r := structs.Receipt{Id: "rc-" + reference, Reference: reference, BookingId: bookingId, Amount: amount, TemplateId: templateId}
	f.receipts[reference] = r
	return r, nil
}

func (f *fakeReceiptRepo) GetById(context.Context, string) (structs.Receipt, error) {
	return structs.Receipt{}, structs.ErrNotFound
}

func (f *fakeReceiptRepo) GetByReference(_ context.Context, reference string) (structs.Receipt, error) {
	r, ok := f.receipts[reference]
	if !ok {
		return structs.Receipt{}, structs.ErrNotFound
	}
	return r, nil
}

func (f *fakeReceiptRepo) GetByBookingId(context.Context, string) (structs.Receipt, error) {
	return structs.Receipt{}, structs.ErrNotFound
}

func (f *fakeReceiptRepo) GetAll(context.Context, structs.GetListReceiptRequest) (structs.GetListReceiptResponse, error) {
	return structs.GetListReceiptResponse{}, nil
}

func (f *fakeReceiptRepo) CreateTemplate(_ context.Context, req structs.CreateReceiptTemplate) (structs.ReceiptTemplate, error) {
	f.created = append(f.created, req)
	t := structs.ReceiptTemplate{Id: "tpl-new", BranchId: req.BranchId, Name: req.Name, IsDefault: req.IsDefault}
	f.templates[t.Id] = t
	return t, nil
}

func (f *fakeReceiptRepo) GetTemplateById(_ context.Context, id string) (structs.ReceiptTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return structs.ReceiptTemplate{}, structs.ErrNotFound
	}
	return t, nil
}

func (f *fakeReceiptRepo) GetTemplateForBranch(_ context.Context, branchId string) (structs.ReceiptTemplate, error) {
	t, ok := f.branchDef[branchId]
	if !ok {
		return structs.ReceiptTemplate{}, structs.ErrNotFound
	}
	return t, nil
}

func (f *fakeReceiptRepo) GetTemplates(context.Context, *string) ([]structs.ReceiptTemplate, error) {
	return nil, nil
}

func (f *fakeReceiptRepo) PatchTemplate(context.Context, structs.PatchReceiptTemplate) (int64, error) {
	return 1, nil
}

func (f *fakeReceiptRepo) DeleteTemplate(context.Context, string) error { return nil }

type fakeBookingRepo struct {
	bookings map[string]structs.Booking
}

func (f *fakeBookingRepo) Create(context.Context, structs.CreateBooking) (structs.Booking, error) {
	return structs.Booking{}, nil
}

func (f *fakeBookingRepo) CreateManual(context.Context, structs.CreateManualBooking, string) (structs.Booking, error) {
	return structs.Booking{}, nil
}

func (f *fakeBookingRepo) GetById(_ context.Context, id string) (structs.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return structs.Booking{}, structs.ErrNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) GetByReference(context.Context, string) (structs.Booking, error) {
	return structs.Booking{}, structs.ErrNotFound
}

func (f *fakeBookingRepo) GetAll(context.Context, structs.GetListBookingRequest) (structs.GetListBookingResponse, error) {
	return structs.GetListBookingResponse{}, nil
}

func (f *fakeBookingRepo) UpdateStatus(context.Context, string, string) (int64, error) {
	return 0, nil
}

func (f *fakeBookingRepo) Archive(context.Context, []string) (int64, error)    { return 0, nil }
func (f *fakeBookingRepo) DeleteMany(context.Context, []string) (int64, error) { return 0, nil }

func (f *fakeBookingRepo) TakenSeats(context.Context, string, string) ([]string, error) {
	return nil, nil
}

type passRetrier struct{}

func (passRetrier) Do(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func strPtr(s string) *string { return &s }

type fixture struct {
	svc      Service
	receipts *fakeReceiptRepo
	bookings *fakeBookingRepo
}

func newFixture() fixture {
	receipts := newFakeReceiptRepo()
	bookings := &fakeBookingRepo{bookings: map[string]structs.Booking{}}

	svc := &service{
		logger:      logger.New("error"),
		retrier:     passRetrier{},
		receiptRepo: receipts,
		bookingRepo: bookings,
		publicURL:   "https://booking.example.com",
	}
	return fixture{svc: svc, receipts: receipts, bookings: bookings}
}

func adminCtx(role string, branchId *string) context.Context {
	return scope.Inject(context.Background(), scope.Scope{
		Role:     role,
		AdminId:  "admin-1",
		BranchId: branchId,
	})
}

func seedReceipt(f fixture) structs.Receipt {
	f.bookings.bookings["bk-1"] = structs.Booking{
		Id:       "bk-1",
		UserId:   strPtr("user-1"),
		BranchId: "branch-1",
	}
	r, _ := f.receipts.Create(context.Background(), "bk-1", "RC-TEST1", 120.5, nil)
	return r
}

func TestDetails(t *testing.T) {
	f := newFixture()
	r := seedReceipt(f)
	f.receipts.branchDef["branch-1"] = structs.ReceiptTemplate{Id: "tpl-1", BranchId: strPtr("branch-1"), Name: "Branch Default"}

	details, err := f.svc.Details(context.Background(), r.Reference)
	require.NoError(t, err)

	assert.Equal(t, r, details.Receipt)
	assert.Equal(t, "bk-1", details.Booking.Id)
	assert.Equal(t, "Branch Default", details.Template.Name)
	assert.Equal(t, "https://booking.example.com/api/v1/receipts/verify/RC-TEST1", details.VerifyPageURL)
	assert.NotEmpty(t, details.QRCodeBase64)
	assert.True(t, strings.Contains(details.AmountPretty, "120"))
}

func TestDetailsWithoutTemplate(t *testing.T) {
	f := newFixture()
	r := seedReceipt(f)

	details, err := f.svc.Details(context.Background(), r.Reference)
	require.NoError(t, err, "a missing template never blocks the receipt")
	assert.Empty(t, details.Template.Id)
}

func TestDetailsUnknownReference(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Details(context.Background(), "RC-GHOST")
	require.ErrorIs(t, err, structs.ErrNotFound)

	_, err = f.svc.Details(context.Background(), "")
	require.ErrorIs(t, err, structs.ErrBadRequest)
}

func TestDetailsForUser(t *testing.T) {
	f := newFixture()
	r := seedReceipt(f)

	_, err := f.svc.DetailsForUser(context.Background(), "user-1", r.Reference)
	require.NoError(t, err)

	_, err = f.svc.DetailsForUser(context.Background(), "user-2", r.Reference)
	require.ErrorIs(t, err, structs.ErrNotFound, "someone else's receipt looks missing")
}

func TestCreateTemplateGlobalIsSuperadminOnly(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTemplate(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.CreateReceiptTemplate{
		Name: "Global",
	})
	require.ErrorIs(t, err, structs.ErrSuperadminRequired)

	tpl, err := f.svc.CreateTemplate(adminCtx(structs.RoleSuperadmin, nil), structs.CreateReceiptTemplate{
		Name: "Global",
	})
	require.NoError(t, err)
	assert.Nil(t, tpl.BranchId)
}

func TestCreateTemplateForeignBranchRefused(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateTemplate(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.CreateReceiptTemplate{
		Name:     "Other",
		BranchId: strPtr("branch-2"),
	})
	require.ErrorIs(t, err, structs.ErrAccessDenied)

	tpl, err := f.svc.CreateTemplate(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.CreateReceiptTemplate{
		Name:     "Mine",
		BranchId: strPtr("branch-1"),
	})
	require.NoError(t, err)
	require.NotNil(t, tpl.BranchId)
	assert.Equal(t, "branch-1", *tpl.BranchId)
}

func TestPatchTemplateScopeChecks(t *testing.T) {
	f := newFixture()
	f.receipts.templates["tpl-g"] = structs.ReceiptTemplate{Id: "tpl-g", Name: "Global"}
	f.receipts.templates["tpl-b2"] = structs.ReceiptTemplate{Id: "tpl-b2", BranchId: strPtr("branch-2"), Name: "Other"}

	_, err := f.svc.PatchTemplate(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.PatchReceiptTemplate{Id: "tpl-g"})
	require.ErrorIs(t, err, structs.ErrSuperadminRequired)

	_, err = f.svc.PatchTemplate(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.PatchReceiptTemplate{Id: "tpl-b2"})
	require.ErrorIs(t, err, structs.ErrNotFound)

	_, err = f.svc.PatchTemplate(adminCtx(structs.RoleSuperadmin, nil), structs.PatchReceiptTemplate{Id: "tpl-g"})
	require.NoError(t, err)
}
