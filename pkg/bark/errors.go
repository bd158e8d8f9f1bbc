package bark

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sre-norns/catalog/pkg/access"
	"github.com/sre-norns/catalog/pkg/catalog"
	"github.com/sre-norns/catalog/pkg/wyrd"
)

var (
	ErrInvalidAuthHeader = fmt.Errorf("invalid Authorization header")
	ErrMissingResourceID = fmt.Errorf("id query parameter is required")
)

// classifyError maps an error onto a response status and envelope type
func classifyError(err error) (int, string) {
	switch {
	// Credentials that can not be verified are no better than none
	case errors.Is(err, access.ErrAccessDenied),
		errors.Is(err, access.ErrInvalidToken),
		errors.Is(err, ErrInvalidAuthHeader):
		return http.StatusForbidden, catalog.ErrorTypeAccessDenied
	case errors.Is(err, catalog.ErrResourceNotFound):
		return http.StatusNotFound, catalog.ErrorTypeNotFound
	case errors.Is(err, catalog.ErrInvalidResource),
		errors.Is(err, wyrd.ErrInvalidResourceID),
		errors.Is(err, wyrd.ErrEmptyResourceName),
		errors.Is(err, ErrMissingResourceID),
		errors.Is(err, ErrUnsupportedMediaType):
		return http.StatusBadRequest, catalog.ErrorTypeValidation
	}

	return http.StatusInternalServerError, catalog.ErrorTypeInternal
}

// AbortWithError stops the request with the uniform error envelope.
// Details of internal errors are recorded on the context for the request logger, never sent to the client.
func AbortWithError(ctx *gin.Context, err error) {
	var apiError *catalog.ErrorResponse
	if errors.As(err, &apiError) {
		ctx.AbortWithStatusJSON(apiError.Code, apiError)
		return
	}

	code, errorType := classifyError(err)
	_ = ctx.Error(err)

	if code == http.StatusInternalServerError {
		err = errors.New(http.StatusText(code))
	}

	ctx.AbortWithStatusJSON(code, catalog.NewErrorResponse(code, errorType, err))
}
