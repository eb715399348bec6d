package booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"routeaura/internal/booking"
	"routeaura/internal/export"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookingService records the arguments handlers pass through.
type fakeBookingService struct {
	cancelUserId    string
	cancelReference string
}

func (f *fakeBookingService) Create(context.Context, structs.CreateBooking) (structs.Booking, error) {
	return structs.Booking{}, nil
}

func (f *fakeBookingService) GetMine(context.Context, string, structs.GetListBookingRequest) (structs.GetListBookingResponse, error) {
	return structs.GetListBookingResponse{}, nil
}

func (f *fakeBookingService) GetByReference(context.Context, string) (structs.Booking, error) {
	return structs.Booking{}, nil
}

func (f *fakeBookingService) TakenSeats(context.Context, string, string) ([]string, error) {
	return nil, nil
}

func (f *fakeBookingService) Cancel(_ context.Context, userId, reference string) (structs.Booking, error) {
	f.cancelUserId = userId
	f.cancelReference = reference
	return structs.Booking{Reference: reference, Status: structs.BookingStatusCancelled}, nil
}

func (f *fakeBookingService) CreateManual(context.Context, structs.CreateManualBooking) (structs.Booking, error) {
	return structs.Booking{}, nil
}

func (f *fakeBookingService) GetAllAdmin(context.Context, structs.GetListBookingRequest) (structs.GetListBookingResponse, error) {
	return structs.GetListBookingResponse{}, nil
}

func (f *fakeBookingService) GetByIdAdmin(context.Context, string) (structs.Booking, error) {
	return structs.Booking{}, nil
}

func (f *fakeBookingService) UpdateStatus(context.Context, structs.UpdateBookingStatus) (structs.Booking, error) {
	return structs.Booking{}, nil
}

func (f *fakeBookingService) BulkDelete(context.Context, structs.BulkDeleteBookings) (int64, error) {
	return 0, nil
}

type fakeExportService struct{}

func (fakeExportService) ExportBookings(context.Context, structs.ExportBookingsRequest) (export.File, error) {
	return export.File{}, nil
}

// TestCancelRouteParam pins the path parameter name to what the router
// registers; the handler reads the reference from the same segment.
func TestCancelRouteParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeBookingService{}
	h := New(Params{
		Logger:         logger.New("error"),
		BookingService: svc,
		ExportService:  fakeExportService{},
	})

	r := gin.New()
	r.PUT("/bookings/:reference/cancel", h.Cancel)

	req := httptest.NewRequest(http.MethodPut, "/bookings/BK-ABC123/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "BK-ABC123", svc.cancelReference)
}

var _ booking.Service = (*fakeBookingService)(nil)
