package requesttoken

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resetpass/internal/core/domain/account"
	ratelimiter "resetpass/internal/core/domain/rate_limiter"
	"resetpass/internal/core/domain/token"
	service "resetpass/internal/core/services/request_token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToken = token.ResetToken{
	ID:        token.ID(1),
	Key:       token.Key("test-token-key"),
	AccountID: account.ID(1),
	CreatedAt: time.Date(2020, 1, 1, 1, 1, 1, 0, time.UTC),
}

type stubService struct {
	tokens []token.ResetToken
	err    error
	input  *service.Input
}

func newStubService() *stubService {
	return &stubService{tokens: []token.ResetToken{testToken}}
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	if s.err != nil {
		return result, s.err
	}
	s.input = &input
	result.Tokens = s.tokens
	return result, nil
}

func TestRequestTokenHandler(t *testing.T) {
	cases := []struct {
		id             string
		lookupField    account.LookupField
		body           string
		expectedStatus int
		expectedInput  *service.Input
	}{
		{
			id:             "email lookup",
			lookupField:    account.LookupByEmail,
			body:           `{"email": "test@test.test"}`,
			expectedStatus: http.StatusOK,
			expectedInput:  &service.Input{Identifier: "test@test.test"},
		},
		{
			id:             "email missing",
			lookupField:    account.LookupByEmail,
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedInput:  nil,
		},
		{
			id:             "email invalid",
			lookupField:    account.LookupByEmail,
			body:           `{"email": "not-an-email"}`,
			expectedStatus: http.StatusBadRequest,
			expectedInput:  nil,
		},
		{
			id:             "email field ignored for username lookup",
			lookupField:    account.LookupByUsername,
			body:           `{"email": "test@test.test"}`,
			expectedStatus: http.StatusBadRequest,
			expectedInput:  nil,
		},
		{
			id:             "username lookup",
			lookupField:    account.LookupByUsername,
			body:           `{"username": "testuser"}`,
			expectedStatus: http.StatusOK,
			expectedInput:  &service.Input{Identifier: "testuser"},
		},
		{
			id:             "malformed json",
			lookupField:    account.LookupByEmail,
			body:           `{"email": `,
			expectedStatus: http.StatusBadRequest,
			expectedInput:  nil,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			req, err := http.NewRequest("POST", "/password_reset", strings.NewReader(testcase.body))
			if err != nil {
				t.Fatal(err)
			}

			service := newStubService()
			rr := httptest.NewRecorder()
			handler := New(service, testcase.lookupField, "User-Agent", "X-Forwarded-For", false)
			handler.ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			assert.Equal(t, testcase.expectedInput, service.input)
		})
	}
}

func TestRequestTokenHandlerCapturesProvenance(t *testing.T) {
	req, err := http.NewRequest("POST", "/password_reset", strings.NewReader(`{"email": "test@test.test"}`))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent/1.0")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	service := newStubService()
	rr := httptest.NewRecorder()
	handler := New(service, account.LookupByEmail, "User-Agent", "X-Forwarded-For", false)
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, service.input)
	assert.Equal(t, "test-agent/1.0", service.input.UserAgent)
	assert.Equal(t, "203.0.113.7", service.input.IP)
}

func TestRequestTokenHandlerFallsBackToRemoteAddr(t *testing.T) {
	req, err := http.NewRequest("POST", "/password_reset", strings.NewReader(`{"email": "test@test.test"}`))
	require.NoError(t, err)
	req.RemoteAddr = "198.51.100.3:54321"

	service := newStubService()
	rr := httptest.NewRecorder()
	handler := New(service, account.LookupByEmail, "User-Agent", "X-Forwarded-For", false)
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, service.input)
	assert.Equal(t, "198.51.100.3", service.input.IP)
}

func TestRequestTokenHandlerErrors(t *testing.T) {
	cases := []struct {
		id             string
		serviceError   error
		expectedStatus int
	}{
		{
			id:             "no eligible account",
			serviceError:   account.ErrNoEligibleAccount,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "rate limit exceeded",
			serviceError:   ratelimiter.ErrRateLimitExceeded,
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			id:             "internal error",
			serviceError:   errors.New("test error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			req, err := http.NewRequest("POST", "/password_reset", strings.NewReader(`{"email": "test@test.test"}`))
			require.NoError(t, err)

			service := newStubService()
			service.err = testcase.serviceError
			rr := httptest.NewRecorder()
			handler := New(service, account.LookupByEmail, "User-Agent", "X-Forwarded-For", false)
			handler.ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
		})
	}
}

func TestRequestTokenHandlerNoEligibleAccountKeyedByLookupField(t *testing.T) {
	req, err := http.NewRequest("POST", "/password_reset", strings.NewReader(`{"email": "test@test.test"}`))
	require.NoError(t, err)

	service := newStubService()
	service.err = account.ErrNoEligibleAccount
	rr := httptest.NewRecorder()
	handler := New(service, account.LookupByEmail, "User-Agent", "X-Forwarded-For", false)
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := map[string][]string{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body, "email")
}

func TestRequestTokenHandlerTestMode(t *testing.T) {
	req, err := http.NewRequest("POST", "/password_reset", strings.NewReader(`{"email": "test@test.test"}`))
	require.NoError(t, err)

	service := newStubService()
	rr := httptest.NewRecorder()
	handler := New(service, account.LookupByEmail, "User-Agent", "X-Forwarded-For", true)
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "test-token-key", rr.Header().Get("x-test-password-reset-token"))
}

func TestRequestTokenHandlerNoTestHeaderOutsideTestMode(t *testing.T) {
	req, err := http.NewRequest("POST", "/password_reset", strings.NewReader(`{"email": "test@test.test"}`))
	require.NoError(t, err)

	service := newStubService()
	rr := httptest.NewRecorder()
	handler := New(service, account.LookupByEmail, "User-Agent", "X-Forwarded-For", false)
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("x-test-password-reset-token"))
}
