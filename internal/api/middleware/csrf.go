package middleware

import (
	"errors"
	"net/http"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
)

// RequireCSRF rejects unsafe requests whose X-CSRF-Token header does not
// match the csrf_token cookie.
func RequireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var cookieToken string
		if c, err := r.Cookie(auth.CSRFCookieName); err == nil {
			cookieToken = c.Value
		}

		if err := auth.CheckCSRF(r.Method, cookieToken, r.Header.Get(auth.CSRFHeaderName)); err != nil {
			body := shared.ErrorBody{Code: shared.CodeCSRFInvalid, Message: "CSRF token mismatch"}
			if errors.Is(err, auth.ErrCSRFMissing) {
				body = shared.ErrorBody{Code: shared.CodeCSRFMissing, Message: "CSRF token missing"}
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, body, err, shared.WithElevatedLogLevel())
			return
		}

		next.ServeHTTP(w, r)
	})
}
