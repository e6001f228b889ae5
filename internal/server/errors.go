package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	auditdomain "github.com/khasm-app/khasm/internal/audit/domain"
	authdomain "github.com/khasm-app/khasm/internal/auth/domain"
	"github.com/khasm-app/khasm/internal/authorization"
	categorydomain "github.com/khasm-app/khasm/internal/category/domain"
	favoritedomain "github.com/khasm-app/khasm/internal/favorite/domain"
	ledgerdomain "github.com/khasm-app/khasm/internal/ledger/domain"
	placedomain "github.com/khasm-app/khasm/internal/place/domain"
	storedomain "github.com/khasm-app/khasm/internal/store/domain"
	subscriptiondomain "github.com/khasm-app/khasm/internal/subscription/domain"
	userdomain "github.com/khasm-app/khasm/internal/user/domain"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("too many requests")
)

// ValidationErrors carries field-level validation failures to the error
// handling middleware.
type ValidationErrors struct {
	Fields map[string]string
}

func (e *ValidationErrors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, message string) *ValidationErrors {
	return &ValidationErrors{Fields: map[string]string{field: message}}
}

func invalidRequestError() *ValidationErrors {
	return newValidationError("body", "invalid request payload")
}

type errorPayload struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// AbortWithError records err on the context and stops the handler chain.
// The ErrorHandlingMiddleware turns it into a response.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var verr *ValidationErrors
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: errorPayload{
				Code:    "invalid_argument",
				Message: "request validation failed",
				Fields:  verr.Fields,
			}})
			return
		}

		status, code, message := mapError(err)
		c.JSON(status, errorResponse{Error: errorPayload{
			Code:    code,
			Message: message,
		}})
	}
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionNotFound),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, "unauthorized", "authentication required"

	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden),
		errors.Is(err, authorization.ErrInvalidActor),
		errors.Is(err, authdomain.ErrAccountDisabled):
		return http.StatusForbidden, "forbidden", "access denied"

	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited", "too many requests"

	case errors.Is(err, userdomain.ErrUserExists),
		errors.Is(err, userdomain.ErrMobileExists),
		errors.Is(err, placedomain.ErrNameExists),
		errors.Is(err, categorydomain.ErrNameExists):
		return http.StatusConflict, "already_exists", err.Error()

	case errors.Is(err, userdomain.ErrUserNotFound),
		errors.Is(err, placedomain.ErrNotFound),
		errors.Is(err, categorydomain.ErrNotFound),
		errors.Is(err, storedomain.ErrNotFound),
		errors.Is(err, subscriptiondomain.ErrNotFound),
		errors.Is(err, subscriptiondomain.ErrNoSubscription),
		errors.Is(err, favoritedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not_found", err.Error()

	case errors.Is(err, userdomain.ErrInvalidArgument),
		errors.Is(err, placedomain.ErrInvalidName),
		errors.Is(err, placedomain.ErrInvalidID),
		errors.Is(err, categorydomain.ErrInvalidName),
		errors.Is(err, categorydomain.ErrInvalidLetter),
		errors.Is(err, categorydomain.ErrInvalidID),
		errors.Is(err, storedomain.ErrInvalidName),
		errors.Is(err, storedomain.ErrInvalidPlace),
		errors.Is(err, storedomain.ErrInvalidCategory),
		errors.Is(err, storedomain.ErrInvalidDiscount),
		errors.Is(err, storedomain.ErrInvalidID),
		errors.Is(err, subscriptiondomain.ErrInvalidUser),
		errors.Is(err, subscriptiondomain.ErrInvalidID),
		errors.Is(err, subscriptiondomain.ErrInvalidStatus),
		errors.Is(err, favoritedomain.ErrInvalidUser),
		errors.Is(err, favoritedomain.ErrInvalidStore),
		errors.Is(err, ledgerdomain.ErrInvalidUser),
		errors.Is(err, ledgerdomain.ErrInvalidSubscription),
		errors.Is(err, ledgerdomain.ErrInvalidStore),
		errors.Is(err, ledgerdomain.ErrStoreInactive),
		errors.Is(err, auditdomain.ErrInvalidAction),
		errors.Is(err, auditdomain.ErrInvalidPageToken),
		errors.Is(err, auditdomain.ErrInvalidTimeRange):
		return http.StatusBadRequest, "invalid_argument", err.Error()

	default:
		return http.StatusInternalServerError, "internal", "internal server error"
	}
}

// classifyErrorForLog labels a request error for the access log. Client
// mistakes are tagged client_error so alerting can ignore them.
func classifyErrorForLog(err error) (string, string) {
	status, code, _ := mapError(err)
	if status >= http.StatusInternalServerError {
		return "server_error", code
	}
	return "client_error", code
}
