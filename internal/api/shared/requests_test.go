package shared

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupBody struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Priority string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
		empty   bool
	}{
		{name: "valid json", body: `{"email":"a@b.co","password":"password1"}`},
		{name: "trailing comma", body: `{"email":"a@b.co",}`, wantErr: true},
		{name: "unknown field", body: `{"email":"a@b.co","admin":true}`, wantErr: true},
		{name: "empty body", body: "", wantErr: true, empty: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(tc.body))

			var got signupBody
			err := DecodeJSON(req, &got)

			if !tc.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "a@b.co", got.Email)
				return
			}
			require.Error(t, err)
			if tc.empty {
				assert.ErrorIs(t, err, ErrEmptyBody)
			}
		})
	}
}

func TestDecodeJSON_BodyLimit(t *testing.T) {
	t.Parallel()

	huge := `{"email":"` + strings.Repeat("a", MaxRequestBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(huge))

	var got signupBody
	assert.Error(t, DecodeJSON(req, &got))
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateRequest(&signupBody{Email: "a@b.co", Password: "password1"}))

	err := ValidateRequest(&signupBody{Email: "nope", Password: "short", Priority: "URGENT"})
	require.Error(t, err)

	fields := ValidationFields(err)
	assert.Equal(t, map[string]string{
		"email":    "must be a valid email address",
		"password": "must be at least 8 characters",
		"priority": "must be one of LOW, MEDIUM, HIGH",
	}, fields)

	assert.Nil(t, ValidationFields(assert.AnError))
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return assert.AnError
	}
	return nil
}

func TestValidateRequest_CustomValidator(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{}), assert.AnError)
}
