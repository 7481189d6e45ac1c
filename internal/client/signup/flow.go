package signup

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/yoursay/internal/client/client"
	"github.com/dmitrijs2005/yoursay/internal/client/credentials"
	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/client/storage"
	"github.com/dmitrijs2005/yoursay/internal/client/validation"
	"github.com/dmitrijs2005/yoursay/internal/cryptox"
	"github.com/dmitrijs2005/yoursay/internal/logging"
)

// API is the part of client.Client the flow needs.
type API interface {
	SendVerification(ctx context.Context, email string) error
	Signup(ctx context.Context, req client.SignupRequest) (string, error)
	Login(ctx context.Context, email, hashedPassword string) (*client.LoginResponse, error)
}

type emailForm struct {
	Email string `json:"email" validate:"required,email"`
}

type passwordForm struct {
	Password string `json:"password" validate:"required"`
	Confirm  string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type locationForm struct {
	Zipcode string `json:"zipcode" validate:"required,zipcode"`
	State   string `json:"state" validate:"required,usstate"`
}

type topicsForm struct {
	Preferences []string `json:"preferences" validate:"min=1,max=5,unique,dive,topic"`
}

type codeForm struct {
	Code string `json:"code" validate:"required,otp"`
}

// Flow is one signup attempt. It is safe for concurrent use, although the
// steps are expected to be driven by a single UI.
type Flow struct {
	mu      sync.Mutex
	state   State
	pending models.PendingSignup

	kv       storage.Store
	creds    *credentials.Store
	api      API
	validate *validation.Validator
	log      logging.Logger
}

func NewFlow(kv storage.Store, creds *credentials.Store, api API, v *validation.Validator, log logging.Logger) *Flow {
	return &Flow{
		state:    CollectingEmail,
		kv:       kv,
		creds:    creds,
		api:      api,
		validate: v,
		log:      log,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Pending returns a copy of the data collected so far.
func (f *Flow) Pending() models.PendingSignup {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.pending
	p.Preferences = append([]string(nil), f.pending.Preferences...)
	return p
}

// Resume picks up a staged record left by an earlier run. When one exists
// the flow moves to AwaitingVerification and Resume returns true.
func (f *Flow) Resume(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != CollectingEmail {
		return false, wrongState("resume", f.state)
	}
	p, ok, err := loadStaged(ctx, f.kv)
	if err != nil || !ok {
		return false, err
	}
	f.pending = p
	f.state = AwaitingVerification
	f.log.Info(ctx, "resumed staged signup", "email", p.Email)
	return true, nil
}

func (f *Flow) SubmitEmail(email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != CollectingEmail {
		return wrongState("submit email", f.state)
	}
	email = strings.TrimSpace(email)
	if err := f.validate.Struct(emailForm{Email: email}); err != nil {
		return err
	}
	f.pending.Email = email
	f.state = CollectingPassword
	return nil
}

func (f *Flow) SubmitPassword(password, confirm string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != CollectingPassword {
		return wrongState("submit password", f.state)
	}
	if err := f.validate.Struct(passwordForm{Password: password, Confirm: confirm}); err != nil {
		return err
	}
	f.pending.Password = password
	f.state = CollectingLocation
	return nil
}

func (f *Flow) SubmitLocation(zipcode, state string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != CollectingLocation {
		return wrongState("submit location", f.state)
	}
	form := locationForm{
		Zipcode: strings.TrimSpace(zipcode),
		State:   strings.ToUpper(strings.TrimSpace(state)),
	}
	if err := f.validate.Struct(form); err != nil {
		return err
	}
	f.pending.Zipcode = form.Zipcode
	f.pending.State = form.State
	f.state = CollectingTopics
	return nil
}

// SubmitTopics stages the complete record and requests a verification code.
// If the code cannot be sent the staged record is dropped and the flow stays
// in CollectingTopics so the user can retry.
func (f *Flow) SubmitTopics(ctx context.Context, topics []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != CollectingTopics {
		return wrongState("submit topics", f.state)
	}
	form := topicsForm{Preferences: trimAll(topics)}
	if err := f.validate.Struct(form); err != nil {
		return err
	}

	staged := f.pending
	staged.Preferences = form.Preferences
	if err := stage(ctx, f.kv, staged); err != nil {
		return err
	}

	if err := f.api.SendVerification(ctx, staged.Email); err != nil {
		f.log.Warn(ctx, "failed to send verification code", "error", err)
		if uerr := discardStaged(ctx, f.kv); uerr != nil {
			f.log.Error(ctx, "failed to drop staged signup", "error", uerr)
		}
		return fmt.Errorf("send verification code: %w", err)
	}

	f.pending = staged
	f.state = AwaitingVerification
	return nil
}

// Resend asks for a new code for the staged email. It changes neither the
// state nor the staged record.
func (f *Flow) Resend(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != AwaitingVerification {
		return wrongState("resend code", f.state)
	}
	if err := f.api.SendVerification(ctx, f.pending.Email); err != nil {
		return fmt.Errorf("resend verification code: %w", err)
	}
	return nil
}

// SubmitCode checks the code format locally, then creates the account with
// the hashed password. A rejected code keeps the flow in
// AwaitingVerification with the staged record intact.
//
// Once the server accepts, the flow is Confirmed whatever happens next. The
// stored session is replaced by the new profile and the staged record is
// removed in the same transaction, then the flow logs in to obtain tokens.
// If the local write or the login fails, the returned error matches
// ErrAutoLogin.
func (f *Flow) SubmitCode(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != AwaitingVerification {
		return wrongState("submit code", f.state)
	}
	code = strings.TrimSpace(code)
	if err := f.validate.Struct(codeForm{Code: code}); err != nil {
		return err
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return &validation.Error{Field: "code", Message: "Please enter a valid 6-digit code."}
	}

	p := f.pending
	hashed := cryptox.HashPassword(p.Email, []byte(p.Password))

	_, err = f.api.Signup(ctx, client.SignupRequest{
		Email:            p.Email,
		Password:         hashed,
		Zipcode:          p.Zipcode,
		State:            p.State,
		Preferences:      models.PreferencesCSV(p.Preferences),
		VerificationCode: n,
	})
	if err != nil {
		f.log.Info(ctx, "signup rejected", "error", err)
		return err
	}

	f.pending.Password = ""
	f.state = Confirmed

	profile := p.Profile()
	err = f.creds.BeginSession(ctx, profile, func(ctx context.Context, tx storage.Tx) error {
		return tx.Delete(ctx, KeyPendingSignup)
	})
	if err != nil {
		f.log.Error(ctx, "failed to store confirmed signup", "error", err)
		if derr := discardStaged(ctx, f.kv); derr != nil {
			f.log.Error(ctx, "failed to drop staged signup", "error", derr)
			err = errors.Join(err, derr)
		}
		return fmt.Errorf("%w: %w", ErrAutoLogin, err)
	}
	f.log.Info(ctx, "signup confirmed", "email", p.Email)

	resp, err := f.api.Login(ctx, p.Email, hashed)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAutoLogin, err)
	}
	if err := f.creds.SaveSession(ctx, resp.Tokens(), profile); err != nil {
		return fmt.Errorf("%w: %w", ErrAutoLogin, err)
	}
	return nil
}

// Abandon ends the attempt. A staged record is left for the next attempt to
// overwrite.
func (f *Flow) Abandon() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.state.Terminal() {
		f.state = Abandoned
	}
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}
