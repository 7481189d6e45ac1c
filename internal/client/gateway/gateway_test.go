package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/yoursay/internal/client/client"
	"github.com/dmitrijs2005/yoursay/internal/client/credentials"
	"github.com/dmitrijs2005/yoursay/internal/client/logout"
	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/client/storage"
	"github.com/dmitrijs2005/yoursay/internal/logging"
)

type seenRequest struct {
	method    string
	path      string
	query     string
	auth      string
	requestID string
	body      string
}

// backend scripts the resource endpoint statuses and the refresh reply.
type backend struct {
	mu sync.Mutex

	resourceStatuses []int
	resourceBody     string
	resourceCalls    []seenRequest

	refreshStatus int
	refreshReply  string
	refreshCalls  []seenRequest
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	raw, _ := io.ReadAll(r.Body)
	seen := seenRequest{
		method:    r.Method,
		path:      r.URL.Path,
		query:     r.URL.RawQuery,
		auth:      r.Header.Get("Authorization"),
		requestID: r.Header.Get("X-Request-ID"),
		body:      string(raw),
	}

	if r.URL.Path == client.PathRefresh {
		b.refreshCalls = append(b.refreshCalls, seen)
		w.WriteHeader(b.refreshStatus)
		_, _ = io.WriteString(w, b.refreshReply)
		return
	}

	b.resourceCalls = append(b.resourceCalls, seen)
	status := http.StatusOK
	if len(b.resourceStatuses) > 0 {
		status = b.resourceStatuses[0]
		b.resourceStatuses = b.resourceStatuses[1:]
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, b.resourceBody)
}

type harness struct {
	gw      *Gateway
	store   *credentials.Store
	kv      *storage.MemoryStore
	backend *backend
	server  *httptest.Server
	logouts int
}

func newHarness(t *testing.T, pair models.TokenPair, statuses ...int) *harness {
	t.Helper()

	b := &backend{
		resourceStatuses: statuses,
		resourceBody:     `[{"bill_id":1,"title":"HB 1"}]`,
		refreshStatus:    http.StatusOK,
		refreshReply:     `{"accessToken":"A2"}`,
	}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	log := logging.NewNop()
	kv := storage.NewMemoryStore()
	store := credentials.NewStore(kv, log)
	if pair.AccessToken != "" {
		require.NoError(t, store.SaveSession(context.Background(), pair, profile()))
	}

	h := &harness{store: store, kv: kv, backend: b, server: srv}

	notifier := logout.NewNotifier()
	notifier.SetHandler(func() { h.logouts++ })

	api := client.NewHTTPClient(srv.URL, srv.Client(), time.Second, log)
	h.gw = New(
		srv.URL,
		srv.Client(),
		store,
		credentials.NewValidator(store, log),
		NewRefresher(store, api, log),
		notifier,
		log,
	)
	return h
}

func defaultPair() models.TokenPair {
	return models.TokenPair{AccessToken: "A1", RefreshToken: "R1"}
}

func TestGateway_PassesThroughSuccess(t *testing.T) {
	h := newHarness(t, defaultPair(), http.StatusOK)

	resp, err := h.gw.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/api/legislation/federal",
		Query:  url.Values{"page": {"2"}},
	})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.JSONEq(t, `[{"bill_id":1,"title":"HB 1"}]`, string(resp.Body))

	require.Len(t, h.backend.resourceCalls, 1)
	call := h.backend.resourceCalls[0]
	assert.Equal(t, "Bearer A1", call.auth)
	assert.Equal(t, "page=2", call.query)
	assert.NotEmpty(t, call.requestID)
	assert.Empty(t, h.backend.refreshCalls)
	assert.Zero(t, h.logouts)
}

func TestGateway_401ThenSuccessRefreshesOnce(t *testing.T) {
	h := newHarness(t, defaultPair(), http.StatusUnauthorized, http.StatusOK)

	resp, err := h.gw.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/api/legislation/vote",
		Body:   models.Vote{Email: "a@b.com", BillID: 7, Vote: true},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, h.backend.refreshCalls, 1)
	assert.Equal(t, "Bearer R1", h.backend.refreshCalls[0].auth)

	require.Len(t, h.backend.resourceCalls, 2)
	first, second := h.backend.resourceCalls[0], h.backend.resourceCalls[1]
	assert.Equal(t, "Bearer A1", first.auth)
	assert.Equal(t, "Bearer A2", second.auth)
	assert.Equal(t, first.body, second.body)
	assert.JSONEq(t, `{"email":"a@b.com","bill_id":7,"vote":true}`, second.body)
	assert.Equal(t, first.requestID, second.requestID)

	tokens, err := h.store.Tokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.TokenPair{AccessToken: "A2", RefreshToken: "R1"}, tokens)
	assert.Zero(t, h.logouts)
}

func TestGateway_RetryReturnsNonAuthStatusAsIs(t *testing.T) {
	h := newHarness(t, defaultPair(), http.StatusUnauthorized, http.StatusNotFound)

	resp, err := h.gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/legislation/state/CA"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Zero(t, h.logouts)
}

func TestGateway_RetryRejected(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			h := newHarness(t, defaultPair(), http.StatusUnauthorized, status)

			resp, err := h.gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/legislation/federal"})
			require.ErrorIs(t, err, ErrAuthenticationFailed)
			assert.Nil(t, resp)
			assert.True(t, EndsSession(err))

			assert.Len(t, h.backend.refreshCalls, 1)
			assert.Len(t, h.backend.resourceCalls, 2)
			assert.Empty(t, h.kv.Snapshot())
			assert.Equal(t, 1, h.logouts)
		})
	}
}

func TestGateway_403NeverRefreshes(t *testing.T) {
	h := newHarness(t, defaultPair(), http.StatusForbidden)

	_, err := h.gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/legislation/federal"})
	require.ErrorIs(t, err, ErrAccessForbidden)

	assert.Empty(t, h.backend.refreshCalls)
	assert.Len(t, h.backend.resourceCalls, 1)
	assert.Empty(t, h.kv.Snapshot())
	assert.Equal(t, 1, h.logouts)
}

func TestGateway_InvalidSessionMakesNoCall(t *testing.T) {
	h := newHarness(t, defaultPair())
	require.NoError(t, h.kv.Delete(context.Background(), credentials.KeyState))

	_, err := h.gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/legislation/federal"})
	require.ErrorIs(t, err, ErrSessionExpired)

	assert.Empty(t, h.backend.resourceCalls)
	assert.Empty(t, h.backend.refreshCalls)
	assert.Empty(t, h.kv.Snapshot())
	assert.Equal(t, 1, h.logouts)
}

func TestGateway_NoSessionAtAll(t *testing.T) {
	h := newHarness(t, models.TokenPair{})

	_, err := h.gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/legislation/federal"})
	require.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, h.backend.resourceCalls)
	assert.Equal(t, 1, h.logouts)
}

func TestGateway_RefreshRejected(t *testing.T) {
	h := newHarness(t, defaultPair(), http.StatusUnauthorized)
	h.backend.refreshStatus = http.StatusUnauthorized
	h.backend.refreshReply = "Invalid refresh token"

	_, err := h.gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/legislation/federal"})
	require.ErrorIs(t, err, ErrSessionExpired)
	require.ErrorIs(t, err, ErrRefreshFailed)

	assert.Len(t, h.backend.resourceCalls, 1)
	assert.Len(t, h.backend.refreshCalls, 1)
	assert.Empty(t, h.kv.Snapshot())
	assert.Equal(t, 1, h.logouts)
}

func TestGateway_401WithoutRefreshToken(t *testing.T) {
	h := newHarness(t, models.TokenPair{AccessToken: "A1"}, http.StatusUnauthorized)

	_, err := h.gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/legislation/federal"})
	require.ErrorIs(t, err, ErrSessionExpired)
	require.ErrorIs(t, err, ErrNoRefreshToken)

	assert.Empty(t, h.backend.refreshCalls)
	assert.Empty(t, h.kv.Snapshot())
	assert.Equal(t, 1, h.logouts)
}

func TestGateway_OtherStatusesUntouched(t *testing.T) {
	h := newHarness(t, defaultPair(), http.StatusInternalServerError)

	resp, err := h.gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/legislation/federal"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, resp.OK())
	assert.NotEmpty(t, h.kv.Snapshot())
	assert.Zero(t, h.logouts)
}

func TestGateway_NetworkErrorKeepsSession(t *testing.T) {
	h := newHarness(t, defaultPair())
	h.server.Close()

	_, err := h.gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/api/legislation/federal"})
	require.ErrorIs(t, err, client.ErrNetwork)
	assert.False(t, EndsSession(err))
	assert.NotEmpty(t, h.kv.Snapshot())
	assert.Zero(t, h.logouts)
}

func TestGateway_LogoutWithoutHandlerDoesNotPanic(t *testing.T) {
	log := logging.NewNop()
	store := credentials.NewStore(storage.NewMemoryStore(), log)
	gw := New("http://127.0.0.1:1", nil, store, credentials.NewValidator(store, log), NewRefresher(store, &fakeTokenAPI{}, log), logout.NewNotifier(), log)

	_, err := gw.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestResponse_DecodeJSON(t *testing.T) {
	r := &Response{StatusCode: http.StatusOK, Body: []byte(`[{"bill_id":3}]`)}
	var got []models.Legislation
	require.NoError(t, r.DecodeJSON(&got))
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].BillID)
}
