package catalog

import (
	"fmt"
	"net/http"

	"github.com/sre-norns/catalog/pkg/access"
)

const (
	ErrorTypeAccessDenied = "AccessDeniedException"
	ErrorTypeNotFound     = "EntityNotFoundException"
	ErrorTypeValidation   = "ValidationException"
	ErrorTypeInternal     = "InternalServerError"
)

type (
	// ErrorResponse is the uniform error envelope
	ErrorResponse struct {
		Code    int    `json:"-" yaml:"-" xml:"-"`
		Type    string `json:"type" yaml:"type" xml:"type"`
		Message string `json:"message" yaml:"message" xml:"message"`
	}

	// DeletedResponse confirms removal of a record
	DeletedResponse struct {
		Message string `json:"message" yaml:"message" xml:"message"`
	}

	// CurrentUser describes the caller of the request
	CurrentUser struct {
		User  string       `json:"user" yaml:"user" xml:"user"`
		Email string       `json:"email" yaml:"email" xml:"email"`
		Roles access.Roles `json:"roles" yaml:"roles" xml:"-"`
	}

	SystemInfo struct {
		Version      string `json:"version" yaml:"version" xml:"version"`
		GoVersion    string `json:"goVersion" yaml:"goVersion" xml:"goVersion"`
		MajorVersion string `json:"majorVersion,omitempty" yaml:"majorVersion,omitempty" xml:"majorVersion,omitempty"`
	}
)

func NewErrorResponse(statusCode int, errorType string, err error) *ErrorResponse {
	return &ErrorResponse{
		Code:    statusCode,
		Type:    errorType,
		Message: err.Error(),
	}
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap maps the response status back onto the sentinel errors of this package
func (e *ErrorResponse) Unwrap() error {
	switch e.Code {
	case http.StatusNotFound:
		return ErrResourceNotFound
	case http.StatusForbidden:
		return access.ErrAccessDenied
	case http.StatusBadRequest:
		return ErrInvalidResource
	}

	return nil
}

func NewDeletedResponse(name string, id any) DeletedResponse {
	return DeletedResponse{
		Message: fmt.Sprintf("%s with id %v deleted", name, id),
	}
}
