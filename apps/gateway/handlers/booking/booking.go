package booking

import (
	"errors"
	"net/http"

	"routeaura/apps/gateway/handlers/middleware"
	"routeaura/internal/booking"
	"routeaura/internal/export"
	"routeaura/internal/responses"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	"routeaura/pkg/reply"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type (
	Handler interface {
		// public / customer
		Create(c *gin.Context)
		GetMine(c *gin.Context)
		Cancel(c *gin.Context)
		TakenSeats(c *gin.Context)

		// admin
		GetListAdmin(c *gin.Context)
		GetByIdAdmin(c *gin.Context)
		CreateManual(c *gin.Context)
		UpdateStatus(c *gin.Context)
		BulkDelete(c *gin.Context)
		Export(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger         logger.Logger
		BookingService booking.Service
		ExportService  export.Service
	}

	handler struct {
		logger         logger.Logger
		bookingService booking.Service
		exportService  export.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:         p.Logger,
		bookingService: p.BookingService,
		exportService:  p.ExportService,
	}
}

func (h *handler) Create(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateBooking
		userId   = c.GetString(middleware.KeyUserId)
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}
	request.UserId = &userId

	b, err := h.bookingService.Create(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrSeatTaken) {
			response = responses.WithMessage(responses.Conflict, "seat already booked")
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.bookingService.Create", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = b
}

func (h *handler) GetMine(c *gin.Context) {
	var (
		response structs.Response
		userId   = c.GetString(middleware.KeyUserId)
		ctx      = c.Request.Context()
		filter   = structs.GetListBookingRequest{
			Offset: cast.ToInt64(c.Query("offset")),
			Limit:  cast.ToInt64(c.Query("limit")),
			Status: c.Query("status"),
		}
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.bookingService.GetMine(c, userId, filter)
	if err != nil {
		h.logger.Error(ctx, " err on h.bookingService.GetMine", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) Cancel(c *gin.Context) {
	var (
		response  structs.Response
		userId    = c.GetString(middleware.KeyUserId)
		reference = c.Param("reference")
		ctx       = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	b, err := h.bookingService.Cancel(c, userId, reference)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.WithMessage(responses.BadRequest, "only upcoming bookings can be cancelled")
			return
		}
		h.logger.Error(ctx, " err on h.bookingService.Cancel", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = b
}

func (h *handler) TakenSeats(c *gin.Context) {
	var (
		response      structs.Response
		routeId       = c.Query("route_id")
		departureDate = c.Query("departure_date")
		ctx           = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	seats, err := h.bookingService.TakenSeats(c, routeId, departureDate)
	if err != nil {
		h.logger.Error(ctx, " err on h.bookingService.TakenSeats", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = seats
}

func (h *handler) GetListAdmin(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
		filter   = structs.GetListBookingRequest{
			Offset:   cast.ToInt64(c.Query("offset")),
			Limit:    cast.ToInt64(c.Query("limit")),
			Search:   c.Query("search"),
			Status:   c.Query("status"),
			UserId:   c.Query("user_id"),
			DateFrom: c.Query("date_from"),
			DateTo:   c.Query("date_to"),
		}
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.bookingService.GetAllAdmin(c, filter)
	if err != nil {
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.bookingService.GetAllAdmin", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) GetByIdAdmin(c *gin.Context) {
	var (
		response structs.Response
		id       = c.Param("id")
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	b, err := h.bookingService.GetByIdAdmin(c, id)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.bookingService.GetByIdAdmin", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = b
}

func (h *handler) CreateManual(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateManualBooking
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	b, err := h.bookingService.CreateManual(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrSeatTaken) {
			response = responses.WithMessage(responses.Conflict, "seat already booked")
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.bookingService.CreateManual", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = b
}

func (h *handler) UpdateStatus(c *gin.Context) {
	var (
		response structs.Response
		request  structs.UpdateBookingStatus
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}
	request.Id = c.Param("id")

	b, err := h.bookingService.UpdateStatus(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.bookingService.UpdateStatus", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = b
}

func (h *handler) BulkDelete(c *gin.Context) {
	var (
		response structs.Response
		request  structs.BulkDeleteBookings
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	affected, err := h.bookingService.BulkDelete(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.bookingService.BulkDelete", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = gin.H{"affected": affected, "archived": request.Archive}
}

// Export streams the XLSX workbook instead of the JSON envelope.
func (h *handler) Export(c *gin.Context) {
	var (
		ctx     = c.Request.Context()
		request = structs.ExportBookingsRequest{
			DateFrom: c.Query("date_from"),
			DateTo:   c.Query("date_to"),
		}
	)

	file, err := h.exportService.ExportBookings(c, request)
	if err != nil {
		var response structs.Response
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
		} else {
			h.logger.Error(ctx, " err on h.exportService.ExportBookings", zap.Error(err))
			response = responses.InternalErr
		}
		reply.Json(c.Writer, response.Code, &response)
		return
	}

	reply.File(c.Writer, xlsxContentType, file.Name, file.Body.Bytes())
}
