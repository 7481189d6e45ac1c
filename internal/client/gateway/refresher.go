package gateway

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/yoursay/internal/client/credentials"
	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/logging"
)

// TokenAPI is the server side of a refresh.
type TokenAPI interface {
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
}

type Refresher struct {
	store *credentials.Store
	api   TokenAPI
	log   logging.Logger
	group singleflight.Group
}

func NewRefresher(store *credentials.Store, api TokenAPI, log logging.Logger) *Refresher {
	return &Refresher{store: store, api: api, log: log}
}

// Refresh obtains a new access token using the stored refresh token and
// returns the pair now in the store.
//
// Without a stored refresh token it fails with ErrNoRefreshToken and makes
// no call. Any server or transport failure clears the credentials and
// returns ErrRefreshFailed. Cancelling ctx abandons the wait with ctx.Err()
// but not the refresh itself, which other callers may share.
func (r *Refresher) Refresh(ctx context.Context) (models.TokenPair, error) {
	current, err := r.store.Tokens(ctx)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	if current.RefreshToken == "" {
		return models.TokenPair{}, ErrNoRefreshToken
	}

	// The shared call outlives any single caller; the HTTP client timeout
	// bounds it.
	presented := current.RefreshToken
	ch := r.group.DoChan(presented, func() (any, error) {
		return r.refresh(context.WithoutCancel(ctx), presented)
	})

	select {
	case <-ctx.Done():
		return models.TokenPair{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			r.log.Debug(ctx, "joined in-flight token refresh")
		}
		if res.Err != nil {
			return models.TokenPair{}, res.Err
		}
		return res.Val.(models.TokenPair), nil
	}
}

func (r *Refresher) refresh(ctx context.Context, presented string) (models.TokenPair, error) {
	issued, err := r.api.Refresh(ctx, presented)
	if err != nil {
		r.log.Warn(ctx, "token refresh rejected", "error", err)
		if _, cerr := r.store.ClearIfRefreshToken(ctx, presented); cerr != nil {
			r.log.Error(ctx, "failed to clear credentials", "error", cerr)
		}
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	swapped, err := r.store.ReplaceTokens(ctx, presented, issued)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: persist tokens: %w", ErrRefreshFailed, err)
	}

	stored, err := r.store.Tokens(ctx)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	if !swapped {
		// The session changed while the call was in flight.
		r.log.Debug(ctx, "refreshed tokens discarded, stored session changed")
		if stored.AccessToken == "" {
			return models.TokenPair{}, ErrRefreshFailed
		}
	}
	r.log.Info(ctx, "access token refreshed", "rotated", issued.RefreshToken != "")
	return stored, nil
}
