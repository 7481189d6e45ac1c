// Package services contains application services for the YourSay client.
// This file defines the authentication service: login, logout, restoring a
// stored session and updating the user's settings.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/yoursay/internal/client/client"
	"github.com/dmitrijs2005/yoursay/internal/client/credentials"
	"github.com/dmitrijs2005/yoursay/internal/client/gateway"
	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/client/validation"
	"github.com/dmitrijs2005/yoursay/internal/cryptox"
	"github.com/dmitrijs2005/yoursay/internal/logging"
)

const (
	pathValidate    = "/api/auth/validate"
	pathPreferences = "/api/users/preferences"
)

// Requester is satisfied by *gateway.Gateway.
type Requester interface {
	Do(ctx context.Context, req gateway.Request) (*gateway.Response, error)
}

// Notifier is satisfied by *logout.Notifier.
type Notifier interface {
	Trigger()
}

// AuthService defines session operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and persist the session.
//   - Logout: drop the stored session and notify the UI.
//   - Restore: confirm a stored session with the server on startup.
//   - Profile: return the stored profile of the logged-in user.
//   - UpdateSettings: change zipcode, state and topics on the server and locally.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (models.UserProfile, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (models.UserProfile, error)
	Profile(ctx context.Context) (models.UserProfile, error)
	UpdateSettings(ctx context.Context, zipcode, state string, topics []string) error
}

type authService struct {
	api       client.Client
	gw        Requester
	creds     *credentials.Store
	validator *credentials.Validator
	notifier  Notifier
	validate  *validation.Validator
	log       logging.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(
	api client.Client,
	gw Requester,
	creds *credentials.Store,
	validator *credentials.Validator,
	notifier Notifier,
	validate *validation.Validator,
	log logging.Logger,
) AuthService {
	return &authService{
		api:       api,
		gw:        gw,
		creds:     creds,
		validator: validator,
		notifier:  notifier,
		validate:  validate,
		log:       log,
	}
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login hashes the password the same way signup does, submits it and
// stores the returned session. A rejected login leaves storage untouched.
func (a *authService) Login(ctx context.Context, email string, password []byte) (models.UserProfile, error) {
	if err := a.validate.Struct(loginForm{Email: email, Password: string(password)}); err != nil {
		return models.UserProfile{}, err
	}

	hashed := cryptox.HashPassword(email, password)
	resp, err := a.api.Login(ctx, email, hashed)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("login error: %w", err)
	}

	profile := resp.Profile()
	if profile.Email == "" {
		profile.Email = email
	}
	if err := a.creds.SaveSession(ctx, resp.Tokens(), profile); err != nil {
		return models.UserProfile{}, fmt.Errorf("session saving error: %w", err)
	}
	a.log.Info(ctx, "logged in", "email", profile.Email)
	return profile, nil
}

// Logout clears the stored session and fires the logout notifier. It is
// safe to call when nobody is logged in.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.creds.Clear(ctx); err != nil {
		return err
	}
	a.notifier.Trigger()
	return nil
}

type validateResponse struct {
	Email       string `json:"email"`
	Zipcode     string `json:"zipcode"`
	State       string `json:"state"`
	Preferences string `json:"preferences"`
}

// Restore checks that a complete session is stored and confirms it with the
// server, refreshing the stored profile from the answer. An incomplete
// session is cleared and reported as ErrNotLoggedIn without a network call.
func (a *authService) Restore(ctx context.Context) (models.UserProfile, error) {
	if !a.validator.ValidateAndClear(ctx) {
		return models.UserProfile{}, ErrNotLoggedIn
	}

	resp, err := a.gw.Do(ctx, gateway.Request{Method: http.MethodPost, Path: pathValidate})
	if err != nil {
		return models.UserProfile{}, err
	}
	if err := expectOK(resp); err != nil {
		return models.UserProfile{}, err
	}

	var user validateResponse
	if err := resp.DecodeJSON(&user); err != nil {
		return models.UserProfile{}, fmt.Errorf("%w: decode validate response: %v", client.ErrMalformedResponse, err)
	}
	profile := models.UserProfile{
		Email:       user.Email,
		Zipcode:     user.Zipcode,
		State:       user.State,
		Preferences: models.ParsePreferencesCSV(user.Preferences),
	}
	if err := a.creds.SetProfile(ctx, profile); err != nil {
		return models.UserProfile{}, err
	}
	return a.creds.Profile(ctx)
}

func (a *authService) Profile(ctx context.Context) (models.UserProfile, error) {
	sess, err := a.creds.Snapshot(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	if !sess.Valid() {
		return models.UserProfile{}, ErrNotLoggedIn
	}
	return sess.Profile, nil
}

type preferencesRequest struct {
	Email       string `json:"email"`
	Zipcode     string `json:"zipcode"`
	State       string `json:"state"`
	Preferences string `json:"preferences"`
}

// UpdateSettings validates the new values, sends them to the server and on
// success stores them locally. Only zipcode, state and preferences change.
func (a *authService) UpdateSettings(ctx context.Context, zipcode, state string, topics []string) error {
	current, err := a.Profile(ctx)
	if err != nil {
		return err
	}

	next := models.UserProfile{
		Email:       current.Email,
		Zipcode:     strings.TrimSpace(zipcode),
		State:       strings.ToUpper(strings.TrimSpace(state)),
		Preferences: topics,
	}
	if err := a.validate.Struct(next); err != nil {
		return err
	}

	resp, err := a.gw.Do(ctx, gateway.Request{
		Method: http.MethodPut,
		Path:   pathPreferences,
		Body: preferencesRequest{
			Email:       next.Email,
			Zipcode:     next.Zipcode,
			State:       next.State,
			Preferences: models.PreferencesCSV(next.Preferences),
		},
	})
	if err != nil {
		return err
	}
	if err := expectOK(resp); err != nil {
		return err
	}

	return a.creds.SetProfile(ctx, models.UserProfile{
		Zipcode:     next.Zipcode,
		State:       next.State,
		Preferences: next.Preferences,
	})
}

// IsSessionEnded reports whether err logged the user out.
func IsSessionEnded(err error) bool {
	return gateway.EndsSession(err) || errors.Is(err, ErrNotLoggedIn)
}
