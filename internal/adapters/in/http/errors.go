package http

import (
	"errors"
	"net/http"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var businessErrors = []error{
	errs.ErrInvalidTransition,
	errs.ErrWindowExpired,
	errs.ErrTerminalState,
	errs.ErrNoHistory,
	errs.ErrAlreadyInterested,
	errs.ErrAlreadyAccepted,
	errs.ErrAlreadyAssigned,
	errs.ErrNotAssignedAgent,
	errs.ErrInsufficientBalance,
	errs.ErrBelowMinimumPayout,
	errs.ErrUnexpectedStatus,
	errs.ErrNotAccepted,
	errs.ErrShippingMethod,
}

// statusFor maps a use case error to an HTTP status code.
func statusFor(err error) int {
	var validation *ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	}
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	if errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func errorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := ErrorResponse{}
		var he *echo.HTTPError
		var validation *ValidationError
		switch {
		case errors.As(err, &he):
			resp.Code = he.Code
			if msg, ok := he.Message.(string); ok {
				resp.Message = msg
			} else {
				resp.Message = http.StatusText(he.Code)
			}
		case errors.As(err, &validation):
			resp.Code = http.StatusBadRequest
			resp.Message = "validation failed"
			resp.Fields = validation.Fields
		default:
			resp.Code = statusFor(err)
			resp.Message = err.Error()
		}

		if resp.Code >= http.StatusInternalServerError {
			log.Error(c.Request().Context(), "request failed", err)
			resp.Message = http.StatusText(resp.Code)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Code)
		} else {
			err = c.JSON(resp.Code, resp)
		}
		if err != nil {
			log.Error(c.Request().Context(), "write error response", err)
		}
	}
}
