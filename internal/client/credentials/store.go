package credentials

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/client/storage"
	"github.com/dmitrijs2005/yoursay/internal/common"
	"github.com/dmitrijs2005/yoursay/internal/logging"
)

// ErrEmptyAccessToken is returned when a token pair without an access token
// is persisted.
var ErrEmptyAccessToken = errors.New("access token is empty")

// Session is a consistent snapshot of everything Store holds.
type Session struct {
	Tokens        models.TokenPair
	Profile       models.UserProfile
	Authenticated bool
}

// Valid reports whether the snapshot is a usable session: at least one token
// and a complete profile.
func (s Session) Valid() bool {
	hasToken := s.Tokens.AccessToken != "" || s.Tokens.RefreshToken != ""
	return hasToken && s.Profile.Complete()
}

// Store persists tokens and the user profile on top of a key/value store.
type Store struct {
	kv  storage.Store
	log logging.Logger
}

func NewStore(kv storage.Store, log logging.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// SetTokens replaces the stored pair. An empty refresh token removes the
// stored one.
func (s *Store) SetTokens(ctx context.Context, pair models.TokenPair) error {
	if pair.AccessToken == "" {
		return ErrEmptyAccessToken
	}
	return s.kv.Update(ctx, func(ctx context.Context, tx storage.Tx) error {
		return writeTokens(ctx, tx, pair)
	})
}

// Tokens returns the stored pair. Missing tokens come back empty.
func (s *Store) Tokens(ctx context.Context) (models.TokenPair, error) {
	var pair models.TokenPair
	err := s.kv.Update(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		pair, err = readTokens(ctx, tx)
		return err
	})
	return pair, err
}

// SetProfile writes every non-empty field of p. Empty fields leave the
// stored value untouched.
func (s *Store) SetProfile(ctx context.Context, p models.UserProfile) error {
	return s.kv.Update(ctx, func(ctx context.Context, tx storage.Tx) error {
		return writeProfile(ctx, tx, p)
	})
}

// Profile returns the stored profile. Missing fields come back empty.
func (s *Store) Profile(ctx context.Context) (models.UserProfile, error) {
	var p models.UserProfile
	err := s.kv.Update(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		p, err = readProfile(ctx, tx)
		return err
	})
	return p, err
}

// SaveSession replaces whatever is stored with a new session: tokens,
// profile and the authenticated flag, in one transaction.
func (s *Store) SaveSession(ctx context.Context, pair models.TokenPair, p models.UserProfile) error {
	if pair.AccessToken == "" {
		return ErrEmptyAccessToken
	}
	return s.kv.Update(ctx, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.Delete(ctx, allKeys...); err != nil {
			return err
		}
		if err := writeTokens(ctx, tx, pair); err != nil {
			return err
		}
		if err := writeProfile(ctx, tx, p); err != nil {
			return err
		}
		return tx.Set(ctx, KeyAuthenticated, "true")
	})
}

// BeginSession replaces whatever is stored with p and marks the session
// authenticated, without tokens. fn, if not nil, runs in the same
// transaction; its error discards the whole write.
func (s *Store) BeginSession(ctx context.Context, p models.UserProfile, fn func(ctx context.Context, tx storage.Tx) error) error {
	return s.kv.Update(ctx, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.Delete(ctx, allKeys...); err != nil {
			return err
		}
		if err := writeProfile(ctx, tx, p); err != nil {
			return err
		}
		if err := tx.Set(ctx, KeyAuthenticated, "true"); err != nil {
			return err
		}
		if fn == nil {
			return nil
		}
		return fn(ctx, tx)
	})
}

// Snapshot reads the whole session in one transaction.
func (s *Store) Snapshot(ctx context.Context) (Session, error) {
	var sess Session
	err := s.kv.Update(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		if sess.Tokens, err = readTokens(ctx, tx); err != nil {
			return err
		}
		if sess.Profile, err = readProfile(ctx, tx); err != nil {
			return err
		}
		flag, _, err := tx.Get(ctx, KeyAuthenticated)
		if err != nil {
			return err
		}
		sess.Authenticated, _ = strconv.ParseBool(flag)
		return nil
	})
	return sess, err
}

// AuthHeader builds the Authorization header for the stored access token.
// It never fails: without a token, or when storage cannot be read, the
// returned header is empty.
func (s *Store) AuthHeader(ctx context.Context) http.Header {
	h := http.Header{}
	token, ok, err := s.kv.Get(ctx, KeyAccessToken)
	if err != nil {
		s.log.Warn(ctx, "failed to read access token", "error", err)
		return h
	}
	if ok && token != "" {
		h.Set(common.AuthorizationHeaderName, common.BearerValue(token))
	}
	return h
}

// Clear removes every credential and profile field. It is safe to call on
// an already empty store.
func (s *Store) Clear(ctx context.Context) error {
	err := s.kv.Update(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.Delete(ctx, allKeys...)
	})
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// ReplaceTokens stores the result of a refresh, but only while presented is
// still the stored refresh token. A refresh token is written only if next
// carries one. It reports whether the swap happened.
func (s *Store) ReplaceTokens(ctx context.Context, presented string, next models.TokenPair) (bool, error) {
	if next.AccessToken == "" {
		return false, ErrEmptyAccessToken
	}
	swapped := false
	err := s.kv.Update(ctx, func(ctx context.Context, tx storage.Tx) error {
		current, _, err := tx.Get(ctx, KeyRefreshToken)
		if err != nil {
			return err
		}
		if current != presented {
			return nil
		}
		if err := tx.Set(ctx, KeyAccessToken, next.AccessToken); err != nil {
			return err
		}
		if next.RefreshToken != "" {
			if err := tx.Set(ctx, KeyRefreshToken, next.RefreshToken); err != nil {
				return err
			}
		}
		swapped = true
		return nil
	})
	return swapped, err
}

// ClearIfRefreshToken clears the store only while presented is still the
// stored refresh token, so a failed refresh cannot wipe a session that was
// replaced in the meantime.
func (s *Store) ClearIfRefreshToken(ctx context.Context, presented string) (bool, error) {
	cleared := false
	err := s.kv.Update(ctx, func(ctx context.Context, tx storage.Tx) error {
		current, _, err := tx.Get(ctx, KeyRefreshToken)
		if err != nil {
			return err
		}
		if current != presented {
			return nil
		}
		cleared = true
		return tx.Delete(ctx, allKeys...)
	})
	return cleared, err
}

func writeTokens(ctx context.Context, tx storage.Tx, pair models.TokenPair) error {
	if err := tx.Set(ctx, KeyAccessToken, pair.AccessToken); err != nil {
		return err
	}
	if pair.RefreshToken == "" {
		return tx.Delete(ctx, KeyRefreshToken)
	}
	return tx.Set(ctx, KeyRefreshToken, pair.RefreshToken)
}

func readTokens(ctx context.Context, tx storage.Reader) (models.TokenPair, error) {
	var pair models.TokenPair
	var err error
	if pair.AccessToken, _, err = tx.Get(ctx, KeyAccessToken); err != nil {
		return pair, err
	}
	if pair.RefreshToken, _, err = tx.Get(ctx, KeyRefreshToken); err != nil {
		return pair, err
	}
	return pair, nil
}

func writeProfile(ctx context.Context, tx storage.Tx, p models.UserProfile) error {
	fields := []struct{ key, value string }{
		{KeyEmail, p.Email},
		{KeyZipcode, p.Zipcode},
		{KeyState, p.State},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := tx.Set(ctx, f.key, f.value); err != nil {
			return err
		}
	}
	if len(p.Preferences) == 0 {
		return nil
	}
	prefs, err := encodePreferences(p.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	return tx.Set(ctx, KeyPreferences, prefs)
}

func readProfile(ctx context.Context, tx storage.Reader) (models.UserProfile, error) {
	var p models.UserProfile
	var err error
	if p.Email, _, err = tx.Get(ctx, KeyEmail); err != nil {
		return p, err
	}
	if p.Zipcode, _, err = tx.Get(ctx, KeyZipcode); err != nil {
		return p, err
	}
	if p.State, _, err = tx.Get(ctx, KeyState); err != nil {
		return p, err
	}
	raw, _, err := tx.Get(ctx, KeyPreferences)
	if err != nil {
		return p, err
	}
	p.Preferences = decodePreferences(raw)
	return p, nil
}
