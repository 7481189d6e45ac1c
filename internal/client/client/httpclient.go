package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/common"
	"github.com/dmitrijs2005/yoursay/internal/logging"
)

// MaxResponseSize caps how much of a response body is read.
const MaxResponseSize = 1 << 20

const (
	PathSignup           = "/api/users"
	PathLogin            = "/api/users/login"
	PathSendVerification = "/api/users/send-verification"
	PathRefresh          = "/api/auth/refresh"
)

type HTTPClient struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for baseURL. A nil httpClient means
// http.DefaultClient; a zero timeout means no per-call deadline.
func NewHTTPClient(baseURL string, httpClient *http.Client, timeout time.Duration, log logging.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  httpClient,
		log:     log,
	}
}

func (c *HTTPClient) Signup(ctx context.Context, req SignupRequest) (string, error) {
	status, body, err := c.do(ctx, http.MethodPost, PathSignup, req, nil)
	if err != nil {
		return "", err
	}
	msg := strings.TrimSpace(string(body))
	if !isSuccess(status) {
		return "", &APIError{StatusCode: status, Message: msg}
	}
	return msg, nil
}

func (c *HTTPClient) SendVerification(ctx context.Context, email string) error {
	status, body, err := c.do(ctx, http.MethodPost, PathSendVerification, verificationRequest{Email: email}, nil)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email, hashedPassword string) (*LoginResponse, error) {
	status, body, err := c.do(ctx, http.MethodPost, PathLogin, loginRequest{Email: email, Password: hashedPassword}, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if !isSuccess(status) {
		return nil, &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode login response: %v", ErrMalformedResponse, err)
	}
	if !resp.AccessGranted {
		return nil, ErrInvalidCredentials
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response has no access token", ErrMalformedResponse)
	}
	return &resp, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	header := http.Header{}
	header.Set(common.AuthorizationHeaderName, common.BearerValue(refreshToken))

	status, body, err := c.do(ctx, http.MethodPost, PathRefresh, nil, header)
	if err != nil {
		return models.TokenPair{}, err
	}
	if !isSuccess(status) {
		return models.TokenPair{}, &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	}

	var resp refreshResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: decode refresh response: %v", ErrMalformedResponse, err)
	}
	if resp.AccessToken == "" {
		return models.TokenPair{}, fmt.Errorf("%w: refresh response has no access token", ErrMalformedResponse)
	}
	return models.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

// do sends one request and reads the whole response body.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, header http.Header) (int, []byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}

	c.log.Debug(ctx, "api call", "method", method, "path", path, "status", resp.StatusCode)
	return resp.StatusCode, data, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
