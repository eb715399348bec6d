package receipt

import (
	"context"
	"errors"
	"strings"

	"routeaura/internal/control/authretry"
	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/config"
	"routeaura/pkg/logger"
	bookingRepo "routeaura/pkg/repository/postgres/booking_repo"
	receiptRepo "routeaura/pkg/repository/postgres/receipt_repo"
	"routeaura/pkg/utils"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

const qrSize = 256

type (
	Params struct {
		fx.In
		Logger      logger.Logger
		Config      config.IConfig
		Retrier     authretry.Retrier
		ReceiptRepo receiptRepo.Repo
		BookingRepo bookingRepo.Repo
	}

	Service interface {
		// Details renders one receipt with its booking, template and a
		// QR code pointing at the public verify page.
		Details(ctx context.Context, reference string) (structs.ReceiptDetails, error)
		DetailsForUser(ctx context.Context, userId, reference string) (structs.ReceiptDetails, error)
		GetAllAdmin(ctx context.Context, req structs.GetListReceiptRequest) (structs.GetListReceiptResponse, error)

		CreateTemplate(ctx context.Context, req structs.CreateReceiptTemplate) (structs.ReceiptTemplate, error)
		GetTemplates(ctx context.Context) ([]structs.ReceiptTemplate, error)
		PatchTemplate(ctx context.Context, req structs.PatchReceiptTemplate) (structs.ReceiptTemplate, error)
		DeleteTemplate(ctx context.Context, id string) error
	}

	service struct {
		logger      logger.Logger
		retrier     authretry.Retrier
		receiptRepo receiptRepo.Repo
		bookingRepo bookingRepo.Repo
		publicURL   string
	}
)

func New(p Params) Service {
	return &service{
		logger:      p.Logger,
		retrier:     p.Retrier,
		receiptRepo: p.ReceiptRepo,
		bookingRepo: p.BookingRepo,
		publicURL:   strings.TrimRight(p.Config.GetString("server.public_url"), "/"),
	}
}

func (s service) Details(ctx context.Context, reference string) (structs.ReceiptDetails, error) {
	if utils.StrEmpty(reference) {
		return structs.ReceiptDetails{}, structs.ErrBadRequest
	}

	receipt, err := s.receiptRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.ReceiptDetails{}, err
		}
		s.logger.Error(ctx, "->receiptRepo.GetByReference", zap.Error(err))
		return structs.ReceiptDetails{}, err
	}

	return s.assemble(ctx, receipt)
}

// DetailsForUser is the customer path, it refuses receipts belonging to
// someone else's booking with the same not-found shape as a missing one.
func (s service) DetailsForUser(ctx context.Context, userId, reference string) (structs.ReceiptDetails, error) {
	details, err := s.Details(ctx, reference)
	if err != nil {
		return structs.ReceiptDetails{}, err
	}
	if details.Booking.UserId == nil || *details.Booking.UserId != userId {
		return structs.ReceiptDetails{}, structs.ErrNotFound
	}
	return details, nil
}

func (s service) assemble(ctx context.Context, receipt structs.Receipt) (structs.ReceiptDetails, error) {
	booking, err := s.bookingRepo.GetById(ctx, receipt.BookingId)
	if err != nil {
		s.logger.Error(ctx, "->bookingRepo.GetById", zap.Error(err))
		return structs.ReceiptDetails{}, err
	}

	var template structs.ReceiptTemplate
	if receipt.TemplateId != nil {
		template, err = s.receiptRepo.GetTemplateById(ctx, *receipt.TemplateId)
	} else {
		template, err = s.receiptRepo.GetTemplateForBranch(ctx, booking.BranchId)
	}
	if err != nil && !errors.Is(err, structs.ErrNotFound) {
		s.logger.Error(ctx, "failed to resolve receipt template", zap.Error(err))
		return structs.ReceiptDetails{}, err
	}

	verifyURL := s.publicURL + "/api/v1/receipts/verify/" + receipt.Reference

	qr, err := utils.QRBase64(verifyURL, qrSize)
	if err != nil {
		s.logger.Error(ctx, "->utils.QRBase64", zap.Error(err))
		return structs.ReceiptDetails{}, err
	}

	return structs.ReceiptDetails{
		Receipt:       receipt,
		Booking:       booking,
		Template:      template,
		AmountPretty:  utils.FCurrency(receipt.Amount),
		QRCodeBase64:  qr,
		VerifyPageURL: verifyURL,
	}, nil
}

func (s service) GetAllAdmin(ctx context.Context, req structs.GetListReceiptRequest) (structs.GetListReceiptResponse, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.GetListReceiptResponse{}, structs.ErrAccessDenied
	}
	if sc.BranchId != nil {
		req.BranchId = sc.BranchId
	}

	var resp structs.GetListReceiptResponse
	err := s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		resp, repoErr = s.receiptRepo.GetAll(ctx, req)
		return repoErr
	})
	if err != nil {
		s.logger.Error(ctx, "->receiptRepo.GetAll", zap.Error(err))
		return structs.GetListReceiptResponse{}, err
	}
	return resp, nil
}

func (s service) CreateTemplate(ctx context.Context, req structs.CreateReceiptTemplate) (structs.ReceiptTemplate, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.ReceiptTemplate{}, structs.ErrAccessDenied
	}
	if utils.StrEmpty(req.Name) {
		return structs.ReceiptTemplate{}, structs.ErrBadRequest
	}
	// global templates are superadmin only, branch admins manage theirs
	if req.BranchId == nil && !sc.IsSuperadmin() {
		return structs.ReceiptTemplate{}, structs.ErrSuperadminRequired
	}
	if req.BranchId != nil && !sc.Allows(*req.BranchId) {
		return structs.ReceiptTemplate{}, structs.ErrAccessDenied
	}

	var template structs.ReceiptTemplate
	err := s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		template, repoErr = s.receiptRepo.CreateTemplate(ctx, req)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.ReceiptTemplate{}, err
		}
		s.logger.Error(ctx, "->receiptRepo.CreateTemplate", zap.Error(err))
		return structs.ReceiptTemplate{}, err
	}
	return template, nil
}

func (s service) GetTemplates(ctx context.Context) ([]structs.ReceiptTemplate, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return nil, structs.ErrAccessDenied
	}

	templates, err := s.receiptRepo.GetTemplates(ctx, sc.BranchId)
	if err != nil {
		s.logger.Error(ctx, "->receiptRepo.GetTemplates", zap.Error(err))
		return nil, err
	}
	return templates, nil
}

func (s service) PatchTemplate(ctx context.Context, req structs.PatchReceiptTemplate) (structs.ReceiptTemplate, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.ReceiptTemplate{}, structs.ErrAccessDenied
	}

	current, err := s.receiptRepo.GetTemplateById(ctx, req.Id)
	if err != nil {
		return structs.ReceiptTemplate{}, err
	}
	if current.BranchId == nil && !sc.IsSuperadmin() {
		return structs.ReceiptTemplate{}, structs.ErrSuperadminRequired
	}
	if current.BranchId != nil && !sc.Allows(*current.BranchId) {
		return structs.ReceiptTemplate{}, structs.ErrNotFound
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		_, repoErr := s.receiptRepo.PatchTemplate(ctx, req)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			return structs.ReceiptTemplate{}, err
		}
		s.logger.Error(ctx, "->receiptRepo.PatchTemplate", zap.Error(err))
		return structs.ReceiptTemplate{}, err
	}

	return s.receiptRepo.GetTemplateById(ctx, req.Id)
}

func (s service) DeleteTemplate(ctx context.Context, id string) error {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.ErrAccessDenied
	}

	current, err := s.receiptRepo.GetTemplateById(ctx, id)
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
		return s.receiptRepo.DeleteTemplate(ctx, id)
	})
	if err != nil {
		if errors.Is(err, structs.ErrForeignKeyInUse) {
			return err
		}
		s.logger.Error(ctx, "->receiptRepo.DeleteTemplate", zap.Error(err))
		return err
	}
	return nil
}
