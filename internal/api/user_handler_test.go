package api_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/task-manager-api/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	alice := srv.signup("alice@example.com")
	bob := srv.signup("bob@example.com")

	requireError(t, srv.client().do(http.MethodGet, "/api/users", nil), http.StatusUnauthorized, "UNAUTHORIZED")

	rr := alice.do(http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	users := decode[[]api.UserResponse](t, rr)
	require.Len(t, users, 2)
	assert.NotContains(t, rr.Body.String(), "hashed")

	me := decode[api.UserResponse](t, alice.do(http.MethodPost, "/api/users/verify", nil))
	them := decode[api.UserResponse](t, bob.do(http.MethodPost, "/api/users/verify", nil))

	rr = alice.do(http.MethodGet, fmt.Sprintf("/api/users/%d", them.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "bob@example.com", decode[api.UserResponse](t, rr).Email)
	requireError(t, alice.do(http.MethodGet, "/api/users/99999", nil), http.StatusNotFound, "NOT FOUND")

	requireError(t, alice.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", them.ID), nil, alice.withCSRF()),
		http.StatusForbidden, "FORBIDDEN")
	requireError(t, alice.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", me.ID), nil),
		http.StatusForbidden, "CSRF MISSING")

	task := createTask(t, alice, map[string]interface{}{"title": "cascades"})
	require.Equal(t, http.StatusNoContent,
		alice.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", me.ID), nil, alice.withCSRF()).Code)

	_, err := srv.mem.Tasks().GetByID(context.Background(), task.ID)
	assert.Error(t, err, "a deleted user's tasks are removed")

	// the token now names a user that no longer exists
	requireError(t, alice.do(http.MethodPost, "/api/users/verify", nil), http.StatusUnauthorized, "UNAUTHORIZED")
}
