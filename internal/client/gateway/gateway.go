package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/yoursay/internal/client/client"
	"github.com/dmitrijs2005/yoursay/internal/client/credentials"
	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/common"
	"github.com/dmitrijs2005/yoursay/internal/logging"
)

// SessionValidator is satisfied by *credentials.Validator.
type SessionValidator interface {
	ValidateAndClear(ctx context.Context) bool
}

// TokenRefresher is satisfied by *Refresher.
type TokenRefresher interface {
	Refresh(ctx context.Context) (models.TokenPair, error)
}

// Notifier is satisfied by *logout.Notifier.
type Notifier interface {
	Trigger()
}

type Gateway struct {
	baseURL   string
	client    *http.Client
	store     *credentials.Store
	validator SessionValidator
	refresher TokenRefresher
	notifier  Notifier
	log       logging.Logger
}

// New builds a gateway. The per-call deadline comes from httpClient.Timeout
// or from the caller's context.
func New(
	baseURL string,
	httpClient *http.Client,
	store *credentials.Store,
	validator SessionValidator,
	refresher TokenRefresher,
	notifier Notifier,
	log logging.Logger,
) *Gateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Gateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    httpClient,
		store:     store,
		validator: validator,
		refresher: refresher,
		notifier:  notifier,
		log:       log,
	}
}

// Do runs req through the session protocol. Transport failures wrap
// client.ErrNetwork and leave the session untouched. Responses other than
// 401 and 403 are returned as-is.
func (g *Gateway) Do(ctx context.Context, req Request) (*Response, error) {
	id := uuid.NewString()
	c := &call{
		req: req,
		id:  id,
		log: g.log.With("request_id", id, "method", req.Method, "path", req.Path),
	}

	if !g.validator.ValidateAndClear(ctx) {
		c.log.Warn(ctx, "no valid session, logging out")
		g.notifier.Trigger()
		return nil, ErrSessionExpired
	}

	var err error
	if c.body, err = encodeBody(req.Body); err != nil {
		return nil, err
	}

	resp, err := g.send(ctx, c, 1)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return g.refreshAndRetry(ctx, c)
	case http.StatusForbidden:
		c.log.Warn(ctx, "access forbidden, logging out")
		g.endSession(ctx)
		return nil, ErrAccessForbidden
	default:
		return resp, nil
	}
}

func (g *Gateway) refreshAndRetry(ctx context.Context, c *call) (*Response, error) {
	log := c.log
	if _, err := g.refresher.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			// the caller gave up; the session is left as it is
			return nil, err
		}
		if errors.Is(err, ErrNoRefreshToken) {
			if _, cerr := g.store.ClearIfRefreshToken(ctx, ""); cerr != nil {
				log.Error(ctx, "failed to clear credentials", "error", cerr)
			}
		}
		log.Warn(ctx, "refresh failed, logging out", "error", err)
		g.notifier.Trigger()
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	resp, err := g.send(ctx, c, 2)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		log.Warn(ctx, "retry rejected, logging out", "status", resp.StatusCode)
		g.endSession(ctx)
		return nil, ErrAuthenticationFailed
	}
	return resp, nil
}

func (g *Gateway) endSession(ctx context.Context) {
	if err := g.store.Clear(ctx); err != nil {
		g.log.Error(ctx, "failed to clear credentials", "error", err)
	}
	g.notifier.Trigger()
}

// call is one logical Do invocation shared by both attempts.
type call struct {
	req  Request
	body []byte
	id   string
	log  logging.Logger
}

func (g *Gateway) send(ctx context.Context, c *call, attempt int) (*Response, error) {
	req, body, log := c.req, c.body, c.log
	target := g.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range req.Header {
		httpReq.Header[k] = v
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range g.store.AuthHeader(ctx) {
		httpReq.Header[k] = v
	}
	httpReq.Header.Set(common.RequestIDHeaderName, c.id)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		log.Debug(ctx, "request failed", "attempt", attempt, "error", err)
		return nil, fmt.Errorf("%w: %w", client.ErrNetwork, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(resp.Body, client.MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", client.ErrNetwork, err)
	}

	log.Debug(ctx, "request done", "attempt", attempt, "status", resp.StatusCode)
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func encodeBody(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return b, nil
}
