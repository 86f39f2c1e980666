package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"catalog-service/internal/domain"
)

var errUnauthorized = errors.New("unauthorized")

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// statusFor maps an error kind onto an HTTP status. Order matters:
// a malformed payload is also an image ingest failure but is the client's fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateSKU):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMalformedPayload):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrImageIngest), errors.Is(err, domain.ErrStorageWrite):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, logger *log.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Printf("%s %s failed status=%d error=%v", c.Request.Method, c.Request.URL.Path, status, err)
		if status == http.StatusInternalServerError {
			msg = "internal server error"
		}
	}
	c.AbortWithStatusJSON(status, errorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    msg,
	})
}

// bindError turns a gin binding failure into a validation error with a readable message.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(parts, "; "))
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %s must be %s", domain.ErrValidation, typeErr.Field, typeErr.Type)
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}
