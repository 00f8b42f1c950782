package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-manager-api/internal/api/middleware"
	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
)

// getPathID extracts a positive integer ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required")
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "must be a positive integer")
	}
	return id, nil
}

// currentUser returns the authenticated user or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := middleware.CurrentUser(r)
	if !ok {
		logger.FromContext(r.Context()).Warn("user not found in request context")
		HandleAPIError(w, r, auth.ErrMissingToken, "Authentication required")
		return nil, false
	}
	return user, true
}

// handleUserAndPathID extracts the authenticated user and an ID path
// parameter, writing an error response if either fails.
func handleUserAndPathID(w http.ResponseWriter, r *http.Request, paramName string) (*domain.User, int64, bool) {
	user, ok := currentUser(w, r)
	if !ok {
		return nil, 0, false
	}

	id, err := getPathID(r, paramName)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, 0, false
	}
	return user, id, true
}

// decodeAndValidate decodes the body into v and validates it, writing an
// error response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %w", errInvalidRequestBody, err), "")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}

// parseTaskFilter reads the listing query parameters.
func parseTaskFilter(r *http.Request, userID int64) (domain.TaskFilter, error) {
	q := r.URL.Query()
	f := domain.TaskFilter{UserID: userID, Query: q.Get("q")}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, domain.NewValidationError("limit", "must be an integer")
		}
		f.Limit = n
		if n == 0 {
			return f, domain.NewValidationError("limit", "must be between 1 and 100")
		}
	}

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, domain.NewValidationError("offset", "must be an integer")
		}
		f.Offset = n
	}

	if v := q.Get("is_completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, domain.NewValidationError("is_completed", "must be true or false")
		}
		f.IsCompleted = &b
	}

	if v := q.Get("priority"); v != "" {
		p, err := domain.ParsePriority(v)
		if err != nil {
			return f, err
		}
		f.Priority = &p
	}

	if v := strings.TrimSpace(q.Get("tag_id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return f, domain.NewValidationError("tag_id", "must be a positive integer")
		}
		f.TagID = &id
	}

	return f, nil
}
