package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"description":null,"tag_id":3,"title":"x"}`), &req))

	assert.True(t, req.Description.Set)
	assert.True(t, req.Description.Null)
	assert.True(t, req.TagID.Set)
	assert.False(t, req.TagID.Null)
	assert.Equal(t, int64(3), req.TagID.Value)
	assert.False(t, req.DueDate.Set)
	assert.False(t, req.IsCompleted.Set)

	var bad UpdateTaskRequest
	assert.Error(t, json.Unmarshal([]byte(`{"is_completed":"yes"}`), &bad))
}

func TestUpdateTaskRequest_Update(t *testing.T) {
	t.Parallel()

	parse := func(t *testing.T, body string) (domain.TaskUpdate, error) {
		t.Helper()
		var req UpdateTaskRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req))
		return req.Update()
	}

	u, err := parse(t, `{}`)
	require.NoError(t, err)
	assert.True(t, u.IsEmpty())

	u, err = parse(t, `{"description":null,"due_date":null,"tag_id":null}`)
	require.NoError(t, err)
	assert.True(t, u.ClearDescription)
	assert.True(t, u.ClearDueDate)
	assert.True(t, u.ClearTag)

	u, err = parse(t, `{"priority":"low","is_completed":false,"due_date":"2026-01-02T03:04:05Z"}`)
	require.NoError(t, err)
	require.NotNil(t, u.Priority)
	assert.Equal(t, domain.PriorityLow, *u.Priority)
	require.NotNil(t, u.IsCompleted)
	assert.False(t, *u.IsCompleted)
	require.NotNil(t, u.DueDate)
	assert.Equal(t, 2026, u.DueDate.Year())

	for _, body := range []string{`{"title":null}`, `{"priority":null}`, `{"is_completed":null}`, `{"priority":"urgent"}`, `{"tag_id":0}`} {
		_, err := parse(t, body)
		assert.ErrorIs(t, err, domain.ErrValidation, body)
	}
}

func TestCreateTaskRequest_Params(t *testing.T) {
	t.Parallel()

	p, err := CreateTaskRequest{Title: "t"}.Params()
	require.NoError(t, err)
	assert.Equal(t, domain.Priority(""), p.Priority, "empty priority is left for the domain default")

	p, err = CreateTaskRequest{Title: "t", Priority: " high "}.Params()
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, p.Priority)

	_, err = CreateTaskRequest{Title: "t", Priority: "soon"}.Params()
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDueDate_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339 utc", `"2025-01-01T10:30:00Z"`, time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"rfc3339 offset", `"2025-01-01T10:30:00+02:00"`, time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC)},
		{"datetime-local", `"2025-01-01T10:30"`, time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"datetime-local seconds", `"2025-01-01T10:30:15"`, time.Date(2025, 1, 1, 10, 30, 15, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var d DueDate
			require.NoError(t, json.Unmarshal([]byte(tt.input), &d))
			assert.True(t, tt.want.Equal(d.Time), d.Time)
			assert.Equal(t, time.UTC, d.Location())
		})
	}

	for _, bad := range []string{`"tomorrow"`, `"2025-13-01T10:30"`, `20250101`} {
		var d DueDate
		err := json.Unmarshal([]byte(bad), &d)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, bad)
		assert.Equal(t, "due_date", verr.Field)
	}
}
