package signup_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/yoursay/internal/client/client"
	"github.com/dmitrijs2005/yoursay/internal/client/credentials"
	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/client/signup"
	"github.com/dmitrijs2005/yoursay/internal/client/storage"
	"github.com/dmitrijs2005/yoursay/internal/client/validation"
	"github.com/dmitrijs2005/yoursay/internal/cryptox"
	"github.com/dmitrijs2005/yoursay/internal/logging"
	"github.com/dmitrijs2005/yoursay/internal/testserver"
)

func TestSignup_EndToEnd(t *testing.T) {
	ctx := context.Background()
	backend := testserver.New(testserver.WithCodes(func() int { return 482913 }))
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	log := logging.NewNop()
	kv, err := storage.OpenSQLite(ctx, t.TempDir()+"/yoursay.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	creds := credentials.NewStore(kv, log)
	api := client.NewHTTPClient(srv.URL, srv.Client(), 5*time.Second, log)
	flow := signup.NewFlow(kv, creds, api, validation.New(), log)

	require.NoError(t, flow.SubmitEmail("a@b.com"))
	require.NoError(t, flow.SubmitPassword("Secret123", "Secret123"))
	require.NoError(t, flow.SubmitLocation("90210", "CA"))
	require.NoError(t, flow.SubmitTopics(ctx, []string{"Healthcare", "Taxes"}))

	assert.Equal(t, models.PendingSignup{
		Email:       "a@b.com",
		Password:    "Secret123",
		Zipcode:     "90210",
		State:       "CA",
		Preferences: []string{"Healthcare", "Taxes"},
	}, flow.Pending())

	require.NoError(t, flow.SubmitCode(ctx, "482913"))
	assert.Equal(t, signup.Confirmed, flow.State())

	profile, err := creds.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.UserProfile{
		Email:       "a@b.com",
		Zipcode:     "90210",
		State:       "CA",
		Preferences: []string{"Healthcare", "Taxes"},
	}, profile)
	assert.True(t, credentials.NewValidator(creds, log).IsValid(ctx))

	stored, ok := backend.Password("a@b.com")
	require.True(t, ok)
	assert.NotEqual(t, "Secret123", stored)
	assert.Equal(t, cryptox.HashPassword("a@b.com", []byte("Secret123")), stored)

	_, staged, err := kv.Get(ctx, signup.KeyPendingSignup)
	require.NoError(t, err)
	assert.False(t, staged)
}

func TestSignup_WrongCodeThenRetry(t *testing.T) {
	ctx := context.Background()
	backend := testserver.New(testserver.WithCodes(func() int { return 482913 }))
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	log := logging.NewNop()
	kv := storage.NewMemoryStore()
	creds := credentials.NewStore(kv, log)
	flow := signup.NewFlow(kv, creds, client.NewHTTPClient(srv.URL, srv.Client(), 5*time.Second, log), validation.New(), log)

	require.NoError(t, flow.SubmitEmail("a@b.com"))
	require.NoError(t, flow.SubmitPassword("Secret123", "Secret123"))
	require.NoError(t, flow.SubmitLocation("90210", "CA"))
	require.NoError(t, flow.SubmitTopics(ctx, []string{"Healthcare"}))

	err := flow.SubmitCode(ctx, "000000")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid verification code.", apiErr.Message)
	assert.Equal(t, signup.AwaitingVerification, flow.State())

	require.NoError(t, flow.SubmitCode(ctx, "482913"))
	assert.Equal(t, signup.Confirmed, flow.State())
}
