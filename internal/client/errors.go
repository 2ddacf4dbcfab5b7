package client

import (
	"fmt"
	"net/http"

	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/domain"
)

// APIError is a non-2xx response. It unwraps to the domain error the message names,
// so callers match it with errors.Is the same way as server-side errors.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Message {
	case api.MsgInsufficientStock:
		return domain.ErrInsufficientStock
	case api.MsgInvalidID:
		return domain.ErrInvalidID
	case api.MsgValidationError:
		return domain.ErrValidation
	case api.MsgProductNotFound:
		return domain.ErrProductNotFound
	case api.MsgCartNotFound:
		return domain.ErrCartNotFound
	case api.MsgCartItemNotFound:
		return domain.ErrCartItemNotFound
	}
	return nil
}

// Temporary reports whether the server failed rather than rejected the request.
func (e *APIError) Temporary() bool {
	return e.Status >= http.StatusInternalServerError
}

func newAPIError(status int, body []byte) error {
	var env api.Envelope[any]
	if err := json.Unmarshal(body, &env); err != nil || env.Message == "" {
		return &APIError{Status: status, Message: http.StatusText(status)}
	}
	return &APIError{Status: status, Message: env.Message, Detail: env.Error}
}
