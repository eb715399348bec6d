package responses

import (
	"net/http"

	"routeaura/internal/structs"
)

const (
	SuccessCode      = http.StatusOK
	BadRequestCode   = http.StatusBadRequest
	UnauthorizedCode = http.StatusUnauthorized
	ForbiddenCode    = http.StatusForbidden
	NotFoundCode     = http.StatusNotFound
	ConflictCode     = http.StatusConflict
	InternalErrCode  = http.StatusInternalServerError
)

var (
	Success = structs.Response{
		Code:    SuccessCode,
		Status:  "success",
		Message: "ok",
	}

	BadRequest = structs.Response{
		Code:    BadRequestCode,
		Status:  "error",
		Message: "bad request",
	}

	Unauthorized = structs.Response{
		Code:    UnauthorizedCode,
		Status:  "error",
		Message: "unauthorized",
	}

	Forbidden = structs.Response{
		Code:    ForbiddenCode,
		Status:  "error",
		Message: "access denied",
	}

	NotFound = structs.Response{
		Code:    NotFoundCode,
		Status:  "error",
		Message: "not found",
	}

	Conflict = structs.Response{
		Code:    ConflictCode,
		Status:  "error",
		Message: "conflict",
	}

	SessionExpired = structs.Response{
		Code:    UnauthorizedCode,
		Status:  "error",
		Message: "session expired, please log in again",
	}

	InternalErr = structs.Response{
		Code:    InternalErrCode,
		Status:  "error",
		Message: "internal server error",
	}
)

// WithMessage copies a base response and overrides its user-facing message.
func WithMessage(base structs.Response, msg string) structs.Response {
	base.Message = msg
	return base
}
