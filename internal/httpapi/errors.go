package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/rs/zerolog"
)

// writeError maps an error onto its status code and envelope. Unexpected errors keep
// their message in the error field.
func writeError(c *gin.Context, err error) {
	status, body := classify(err)

	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
	}
	_ = c.Error(err)

	c.JSON(status, body)
}

func classify(err error) (int, api.Envelope[any]) {
	var stockErr *domain.StockError

	switch {
	case errors.As(err, &stockErr):
		return http.StatusBadRequest, failure(api.MsgInsufficientStock, stockErr.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusBadRequest, failure(api.MsgInsufficientStock, "")
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, failure(api.MsgInvalidID, "")
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, failure(api.MsgValidationError, validationDetail(err))
	case errors.Is(err, domain.ErrCartItemNotFound):
		return http.StatusNotFound, failure(api.MsgCartItemNotFound, "")
	case errors.Is(err, domain.ErrCartNotFound):
		return http.StatusNotFound, failure(api.MsgCartNotFound, "")
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, failure(api.MsgProductNotFound, "")
	default:
		return http.StatusInternalServerError, failure(api.MsgServerError, err.Error())
	}
}

func failure(message, detail string) api.Envelope[any] {
	return api.Envelope[any]{
		Success: false,
		Message: message,
		Error:   detail,
	}
}

// validationDetail drops the call-site prefixes and the sentinel text.
func validationDetail(err error) string {
	msg := err.Error()
	if _, detail, ok := strings.Cut(msg, domain.ErrValidation.Error()+": "); ok {
		return detail
	}
	return msg
}

// bindingError reports a malformed request body as a validation error.
func bindingError(detail string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, detail)
}
