package confirmreset

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resetpass/internal/core/domain/account"
	"resetpass/internal/core/domain/token"
	service "resetpass/internal/core/services/confirm_reset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	if s.err != nil {
		return result, s.err
	}
	s.input = &input
	return result, nil
}

func TestConfirmResetHandler(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		serviceError   error
		expectedStatus int
		expectedInput  *service.Input
	}{
		{
			id:             "success",
			body:           `{"token": "test-token-key", "password": "new-password-1"}`,
			expectedStatus: http.StatusOK,
			expectedInput: &service.Input{
				Key:         token.Key("test-token-key"),
				NewPassword: account.RawPassword("new-password-1"),
			},
		},
		{
			id:             "token missing",
			body:           `{"password": "new-password-1"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "password missing",
			body:           `{"token": "test-token-key"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "malformed json",
			body:           `{"token": `,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "token not found",
			body:           `{"token": "unknown", "password": "new-password-1"}`,
			serviceError:   token.ErrTokenDoesNotExist,
			expectedStatus: http.StatusNotFound,
		},
		{
			id:             "token expired",
			body:           `{"token": "expired", "password": "new-password-1"}`,
			serviceError:   token.ErrTokenExpired,
			expectedStatus: http.StatusNotFound,
		},
		{
			id:             "weak password",
			body:           `{"token": "test-token-key", "password": "123"}`,
			serviceError:   &account.WeakPasswordError{Reasons: []string{"This password is entirely numeric."}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "internal error",
			body:           `{"token": "test-token-key", "password": "new-password-1"}`,
			serviceError:   errors.New("test error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			req, err := http.NewRequest("POST", "/password_reset/confirm", strings.NewReader(testcase.body))
			if err != nil {
				t.Fatal(err)
			}

			service := &stubService{err: testcase.serviceError}
			rr := httptest.NewRecorder()
			handler := New(service)
			handler.ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			assert.Equal(t, testcase.expectedInput, service.input)
		})
	}
}

func TestConfirmResetHandlerWeakPasswordReasons(t *testing.T) {
	reasons := []string{
		"This password is too short. It must contain at least 8 characters.",
		"This password is entirely numeric.",
	}
	req, err := http.NewRequest(
		"POST",
		"/password_reset/confirm",
		strings.NewReader(`{"token": "test-token-key", "password": "123"}`),
	)
	require.NoError(t, err)

	service := &stubService{err: &account.WeakPasswordError{Reasons: reasons}}
	rr := httptest.NewRecorder()
	New(service).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := map[string][]string{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, reasons, body["password"])
}
