package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"routeaura/internal/control/authretry"
	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	bookingRepo "routeaura/pkg/repository/postgres/booking_repo"
	"routeaura/pkg/utils"

	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

// exportBatch caps one spreadsheet, the admin page narrows by date range
// for anything bigger.
const exportBatch = 10000

type (
	Params struct {
		fx.In
		Logger      logger.Logger
		Retrier     authretry.Retrier
		BookingRepo bookingRepo.Repo
	}

	// File is a rendered spreadsheet ready to stream to the client.
	File struct {
		Name string
		Body *bytes.Buffer
	}

	Service interface {
		ExportBookings(ctx context.Context, req structs.ExportBookingsRequest) (File, error)
	}

	service struct {
		logger      logger.Logger
		retrier     authretry.Retrier
		bookingRepo bookingRepo.Repo
	}
)

func New(p Params) Service {
	return &service{
		logger:      p.Logger,
		retrier:     p.Retrier,
		bookingRepo: p.BookingRepo,
	}
}

var headers = []string{
	"Reference", "Route", "Departure date", "Departure time",
	"Seats", "Passenger", "Phone", "Price", "Status", "Manual", "Created",
}

// ExportBookings renders the caller's visible bookings as an XLSX
// workbook. The branch scope applies the same way it does on the
// bookings screen.
func (s service) ExportBookings(ctx context.Context, req structs.ExportBookingsRequest) (File, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return File{}, structs.ErrAccessDenied
	}

	listReq := structs.GetListBookingRequest{
		Limit:    exportBatch,
		BranchId: req.BranchId,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	}
	if sc.BranchId != nil {
		listReq.BranchId = sc.BranchId
	}

	var bookings structs.GetListBookingResponse
	err := s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		bookings, repoErr = s.bookingRepo.GetAll(ctx, listReq)
		return repoErr
	})
	if err != nil {
		s.logger.Error(ctx, "->bookingRepo.GetAll", zap.Error(err))
		return File{}, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return File{}, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for row, b := range bookings.Bookings {
		values := []interface{}{
			b.Reference,
			b.FromLocation + " - " + b.ToLocation,
			b.DepartureDate,
			b.DepartureTime,
			strings.Join(b.SeatNumbers, ", "),
			b.PassengerName,
			b.PassengerPhone,
			utils.FCurrency(b.Price),
			b.Status,
			b.IsManual,
			b.CreatedAt,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 25)
	_ = f.SetColWidth(sheetName, "C", "K", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error(ctx, "failed to render export workbook", zap.Error(err))
		return File{}, err
	}

	name := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	return File{Name: name, Body: buf}, nil
}
