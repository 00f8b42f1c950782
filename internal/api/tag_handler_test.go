package api_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	c := srv.signup("tagger@example.com")
	anon := srv.client()

	requireError(t, anon.do(http.MethodPost, "/api/tags", map[string]string{"name": "x"}), http.StatusUnauthorized, "UNAUTHORIZED")
	requireError(t, c.do(http.MethodPost, "/api/tags", map[string]string{"name": "x"}), http.StatusForbidden, "CSRF MISSING")

	rr := c.do(http.MethodPost, "/api/tags", map[string]string{"name": "home"}, c.withCSRF())
	require.Equal(t, http.StatusCreated, rr.Code)
	home := decode[domain.Tag](t, rr)

	requireError(t, c.do(http.MethodPost, "/api/tags", map[string]string{"name": "home"}, c.withCSRF()),
		http.StatusConflict, "DUPLICATE")

	rr = c.do(http.MethodPost, "/api/tags", map[string]string{"name": strings.Repeat("x", 51)}, c.withCSRF())
	requireError(t, rr, http.StatusBadRequest, "VALIDATION ERROR")

	// reads are public
	rr = anon.do(http.MethodGet, "/api/tags", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.Tag](t, rr), 1)

	path := fmt.Sprintf("/api/tags/%d", home.ID)
	rr = anon.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "home", decode[domain.Tag](t, rr).Name)
	requireError(t, anon.do(http.MethodGet, "/api/tags/777", nil), http.StatusNotFound, "NOT FOUND")

	rr = c.do(http.MethodPatch, path, map[string]string{"name": "house"}, c.withCSRF())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "house", decode[domain.Tag](t, rr).Name)
	requireError(t, c.do(http.MethodPatch, "/api/tags/777", map[string]string{"name": "x"}, c.withCSRF()),
		http.StatusNotFound, "NOT FOUND")

	task := createTask(t, c, map[string]interface{}{"title": "mop", "tag_id": home.ID})
	require.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, path, nil, c.withCSRF()).Code)
	requireError(t, c.do(http.MethodDelete, path, nil, c.withCSRF()), http.StatusNotFound, "NOT FOUND")

	rr = c.do(http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode[domain.Task](t, rr).TagID, "deleting a tag detaches it from tasks")
}
