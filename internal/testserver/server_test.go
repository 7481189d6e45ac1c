package testserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, srv *httptest.Server, method, path, token, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func register(t *testing.T, s *Server, srv *httptest.Server) (access, refresh string) {
	t.Helper()
	status, _ := do(t, srv, http.MethodPost, "/api/users/send-verification", "", `{"email":"a@b.com"}`)
	require.Equal(t, http.StatusOK, status)
	code, ok := s.Code("a@b.com")
	require.True(t, ok)

	body, _ := json.Marshal(map[string]any{
		"email": "a@b.com", "password": "h", "zipcode": "90210", "state": "CA",
		"preferences": "Healthcare,Taxes", "verificationCode": code,
	})
	status, msg := do(t, srv, http.MethodPost, "/api/users", "", string(body))
	require.Equal(t, http.StatusOK, status, msg)

	status, msg = do(t, srv, http.MethodPost, "/api/users/login", "", `{"email":"a@b.com","password":"h"}`)
	require.Equal(t, http.StatusOK, status)
	var resp loginResponse
	require.NoError(t, json.Unmarshal([]byte(msg), &resp))
	require.True(t, resp.AccessGranted)
	return resp.AccessToken, resp.RefreshToken
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	s := New(opts...)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func TestServer_SignupRejectsWrongCode(t *testing.T) {
	s, srv := newTestServer(t, WithCodes(func() int { return 482913 }))
	do(t, srv, http.MethodPost, "/api/users/send-verification", "", `{"email":"a@b.com"}`)

	status, msg := do(t, srv, http.MethodPost, "/api/users", "", `{"email":"a@b.com","password":"h","verificationCode":111111}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Invalid verification code.", msg)

	_, ok := s.Password("a@b.com")
	assert.False(t, ok)
}

func TestServer_LoginFlow(t *testing.T) {
	s, srv := newTestServer(t)
	access, refresh := register(t, s, srv)

	status, body := do(t, srv, http.MethodPost, "/api/auth/validate", access, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"zipcode":"90210"`)
	assert.NotContains(t, body, "password")

	status, _ = do(t, srv, http.MethodPost, "/api/users/login", "", `{"email":"a@b.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	// refresh tokens are not accepted as access tokens
	status, _ = do(t, srv, http.MethodGet, "/api/legislation/federal", refresh, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestServer_ExpireAndRefresh(t *testing.T) {
	s, srv := newTestServer(t)
	access, refresh := register(t, s, srv)

	s.ExpireAccessTokens()
	status, _ := do(t, srv, http.MethodGet, "/api/legislation/federal", access, "")
	require.Equal(t, http.StatusUnauthorized, status)

	status, body := do(t, srv, http.MethodPost, "/api/auth/refresh", refresh, "")
	require.Equal(t, http.StatusOK, status)
	var pair map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &pair))
	assert.NotEmpty(t, pair["accessToken"])
	assert.NotContains(t, pair, "refreshToken")

	status, _ = do(t, srv, http.MethodGet, "/api/legislation/federal", pair["accessToken"], "")
	assert.Equal(t, http.StatusOK, status)

	s.RevokeRefreshTokens()
	status, _ = do(t, srv, http.MethodPost, "/api/auth/refresh", refresh, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, 2, s.Calls("/api/auth/refresh"))
}

func TestServer_RotationIssuesRefreshToken(t *testing.T) {
	s, srv := newTestServer(t, WithRotation())
	_, refresh := register(t, s, srv)

	status, body := do(t, srv, http.MethodPost, "/api/auth/refresh", refresh, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "refreshToken")
}

func TestServer_ExpiredByTTL(t *testing.T) {
	s, srv := newTestServer(t, WithTTL(-time.Second, time.Hour))
	access, _ := register(t, s, srv)

	status, body := do(t, srv, http.MethodGet, "/api/legislation/federal", access, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, ErrTokenExpired.Error(), body)
}

func TestServer_ForeignEmailIsForbidden(t *testing.T) {
	s, srv := newTestServer(t)
	access, _ := register(t, s, srv)

	status, _ := do(t, srv, http.MethodGet, "/api/legislation/vote/someone@else.com", access, "")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, srv, http.MethodPost, "/api/legislation/vote", access, `{"email":"a@b.com","bill_id":1001,"vote":true}`)
	require.Equal(t, http.StatusOK, status)
	status, body := do(t, srv, http.MethodGet, "/api/legislation/vote/a@b.com", access, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"email":"a@b.com","bill_id":1001,"vote":true}]`, body)
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, err := generateToken("a@b.com", kindAccess, 0, []byte("right"), time.Hour)
	require.NoError(t, err)

	_, err = parseToken(tok, []byte("wrong"))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateToken_UniquePerIssue(t *testing.T) {
	secret := []byte("k")
	a, err := generateToken("a@b.com", kindAccess, 0, secret, time.Hour)
	require.NoError(t, err)
	b, err := generateToken("a@b.com", kindAccess, 0, secret, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	claims, err := parseToken(a, secret)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, kindAccess, claims.Kind)
}
