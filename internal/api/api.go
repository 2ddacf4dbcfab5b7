// Package api holds the JSON shapes shared by the HTTP server and the client.
package api

import "time"

// HeaderCartID carries the caller's cart id on every cart request. The server echoes it,
// minting one when the request has none.
const HeaderCartID = "X-Cart-ID"

// response messages
const (
	MsgProductCreated = "Product created successfully"
	MsgProductUpdated = "Product updated successfully"
	MsgProductDeleted = "Product deleted successfully"
	MsgCartUpdated    = "Cart updated successfully"
	MsgItemRemoved    = "Item removed from cart"
	MsgCartCleared    = "Cart cleared successfully"
	MsgAPIRunning     = "API is running"

	MsgServerError       = "Internal server error"
	MsgInvalidID         = "Invalid ID format"
	MsgValidationError   = "Validation error"
	MsgProductNotFound   = "Product not found"
	MsgCartItemNotFound  = "Product not found in cart"
	MsgCartNotFound      = "Cart not found"
	MsgInsufficientStock = "Insufficient stock available"
)

// Envelope wraps every response body.
type Envelope[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       T           `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type Health struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Banner struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
