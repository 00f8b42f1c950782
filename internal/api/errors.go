package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// errInvalidRequestBody marks a body that could not be decoded.
var errInvalidRequestBody = errors.New("invalid request body")

// MapError maps internal errors to a status code and a client-safe error
// body. Internal error text never appears in the body.
func MapError(err error) (int, shared.ErrorBody) {
	var verr *domain.ValidationError
	switch {
	case err == nil:
		return http.StatusInternalServerError, shared.ErrorBody{Code: shared.CodeInternal, Message: "An unexpected error occurred"}

	// Bad request errors
	case errors.As(err, &verr):
		return http.StatusBadRequest, shared.ErrorBody{
			Code:    shared.CodeValidation,
			Message: "Validation failed",
			Fields:  map[string]string{verr.Field: verr.Message},
		}

	case errors.Is(err, errInvalidRequestBody):
		return http.StatusBadRequest, shared.ErrorBody{Code: shared.CodeBadRequest, Message: "Invalid request format"}

	case shared.ValidationFields(err) != nil:
		return http.StatusBadRequest, shared.ErrorBody{
			Code:    shared.CodeValidation,
			Message: "Validation failed",
			Fields:  shared.ValidationFields(err),
		}

	case errors.Is(err, store.ErrUnknownTag):
		return http.StatusBadRequest, shared.ErrorBody{
			Code:    shared.CodeValidation,
			Message: "Validation failed",
			Fields:  map[string]string{"tag_id": "does not exist"},
		}

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest, shared.ErrorBody{Code: shared.CodeValidation, Message: "Invalid entity data"}

	case errors.Is(err, service.ErrInvalidResetToken):
		return http.StatusBadRequest, shared.ErrorBody{
			Code:    shared.CodeInvalidOrExpired,
			Message: "Reset token is invalid or has expired",
		}

	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, shared.ErrorBody{Code: shared.CodeUnauthorized, Message: "Invalid email or password"}

	case errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized, shared.ErrorBody{Code: shared.CodeTokenExpired, Message: "Token expired"}

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized, shared.ErrorBody{Code: shared.CodeUnauthorized, Message: "Invalid token"}

	// Authorization errors
	case errors.Is(err, auth.ErrCSRFMissing):
		return http.StatusForbidden, shared.ErrorBody{Code: shared.CodeCSRFMissing, Message: "CSRF token missing"}

	case errors.Is(err, auth.ErrCSRFInvalid):
		return http.StatusForbidden, shared.ErrorBody{Code: shared.CodeCSRFInvalid, Message: "CSRF token mismatch"}

	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden, shared.ErrorBody{
			Code:    shared.CodeForbidden,
			Message: "You do not have permission to access this resource",
		}

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound, shared.ErrorBody{Code: shared.CodeNotFound, Message: "User not found"}

	case errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound, shared.ErrorBody{Code: shared.CodeNotFound, Message: "Task not found"}

	case errors.Is(err, store.ErrTagNotFound):
		return http.StatusNotFound, shared.ErrorBody{Code: shared.CodeNotFound, Message: "Tag not found"}

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, shared.ErrorBody{Code: shared.CodeNotFound, Message: "Resource not found"}

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict, shared.ErrorBody{Code: shared.CodeDuplicate, Message: "Email already registered"}

	case errors.Is(err, store.ErrTagNameExists):
		return http.StatusConflict, shared.ErrorBody{Code: shared.CodeDuplicate, Message: "Tag name already exists"}

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict, shared.ErrorBody{Code: shared.CodeDuplicate, Message: "Resource already exists"}

	default:
		return http.StatusInternalServerError, shared.ErrorBody{Code: shared.CodeInternal, Message: "An unexpected error occurred"}
	}
}

// HandleAPIError writes the error response for err. A non-empty message
// replaces the default message for the mapped status.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status, body := MapError(err)
	if message != "" {
		body.Message = message
	}

	var opts []shared.ResponseOption
	if status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, body, err, opts...)
}
