package errorx

import (
	"errors"
	"fmt"
	"net/http"
)

// CodeError is an error that carries the HTTP status to answer with.
// It renders as {"detail": "..."}.
type CodeError struct {
	Status int    `json:"-"`
	Detail string `json:"detail"`
}

func (e *CodeError) Error() string {
	return e.Detail
}

func New(status int, detail string) *CodeError {
	return &CodeError{Status: status, Detail: detail}
}

func BadRequest(detail string) *CodeError {
	return New(http.StatusBadRequest, detail)
}

// Internal wraps err behind a detail prefix, e.g. "Error generating ideas".
func Internal(prefix string, err error) *CodeError {
	return New(http.StatusInternalServerError, fmt.Sprintf("%s: %v", prefix, err))
}

// Handler converts any error into a status code and body for httpx.SetErrorHandlerCtx.
func Handler(err error) (int, any) {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Status, ce
	}
	return http.StatusBadRequest, &CodeError{Status: http.StatusBadRequest, Detail: err.Error()}
}
