package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/yoursay/internal/client/client"
	"github.com/dmitrijs2005/yoursay/internal/client/config"
	"github.com/dmitrijs2005/yoursay/internal/client/credentials"
	"github.com/dmitrijs2005/yoursay/internal/client/gateway"
	"github.com/dmitrijs2005/yoursay/internal/client/logout"
	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/client/services"
	"github.com/dmitrijs2005/yoursay/internal/client/signup"
	"github.com/dmitrijs2005/yoursay/internal/client/storage"
	"github.com/dmitrijs2005/yoursay/internal/client/validation"
	"github.com/dmitrijs2005/yoursay/internal/filex"
	"github.com/dmitrijs2005/yoursay/internal/logging"
)

// signupFlow is the part of *signup.Flow the REPL drives.
type signupFlow interface {
	State() signup.State
	Pending() models.PendingSignup
	Resume(ctx context.Context) (bool, error)
	SubmitEmail(email string) error
	SubmitPassword(password, confirm string) error
	SubmitLocation(zipcode, state string) error
	SubmitTopics(ctx context.Context, topics []string) error
	Resend(ctx context.Context) error
	SubmitCode(ctx context.Context, code string) error
	Abandon()
}

type App struct {
	config      *config.Config
	store       io.Closer
	authService services.AuthService
	legislation services.LegislationService
	notifier    *logout.Notifier
	newFlow     func() signupFlow
	flow        signupFlow
	profile     models.UserProfile
	loggedIn    bool
	reader      *bufio.Reader
	out         io.Writer
	log         logging.Logger
}

// NewApp opens the local database and wires the session stack against
// c.ServerBaseURL.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}

	db, err := storage.OpenSQLite(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	httpClient := &http.Client{Timeout: c.RequestTimeout}
	api := client.NewHTTPClient(c.ServerBaseURL, httpClient, c.RequestTimeout, log)

	creds := credentials.NewStore(db, log)
	sessionValidator := credentials.NewValidator(creds, log)
	notifier := logout.NewNotifier()
	refresher := gateway.NewRefresher(creds, api, log)
	gw := gateway.New(c.ServerBaseURL, httpClient, creds, sessionValidator, refresher, notifier, log)
	validate := validation.New()

	a := &App{
		config:      c,
		store:       db,
		authService: services.NewAuthService(api, gw, creds, sessionValidator, notifier, validate, log),
		legislation: services.NewLegislationService(gw, creds),
		notifier:    notifier,
		newFlow: func() signupFlow {
			return signup.NewFlow(db, creds, api, validate, log)
		},
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		log:    log,
	}
	notifier.SetHandler(a.sessionEnded)

	return a, nil
}

// Run restores the previous session, then serves the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	a.start(ctx)
	printlnFn("Welcome to YourSay CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// start confirms a stored session with the server. If the server cannot be
// reached a locally complete session is kept. Without a session, a staged
// signup is resumed at the verification step.
func (a *App) start(ctx context.Context) {
	profile, err := a.authService.Restore(ctx)
	switch {
	case err == nil:
		a.setLoggedIn(profile)
		fmt.Fprintf(a.out, "Welcome back, %s\n", profile.Email)
		return
	case errors.Is(err, client.ErrNetwork):
		a.log.Warn(ctx, "server unavailable, using stored session", "error", err)
		if p, perr := a.authService.Profile(ctx); perr == nil {
			a.setLoggedIn(p)
			fmt.Fprintf(a.out, "Server unavailable. Logged in as %s\n", p.Email)
			return
		}
	case !errors.Is(err, services.ErrNotLoggedIn):
		a.log.Info(ctx, "stored session rejected", "error", err)
	}

	flow := a.newFlow()
	resumed, err := flow.Resume(ctx)
	if err != nil {
		a.log.Warn(ctx, "failed to resume signup", "error", err)
		return
	}
	if resumed {
		a.flow = flow
		fmt.Fprintf(a.out, "A verification code was sent to %s. Type 'verify' to finish signing up.\n", flow.Pending().Email)
	}
}

func (a *App) close() {
	a.notifier.SetHandler(nil)
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Error(context.Background(), "failed to close database", "error", err)
		}
	}
}

// sessionEnded is the logout handler. It runs on the goroutine of the
// request that ended the session.
func (a *App) sessionEnded() {
	if !a.loggedIn {
		return
	}
	a.loggedIn = false
	a.profile = models.UserProfile{}
	fmt.Fprintln(a.out, "Your session has ended, please log in again.")
}

func (a *App) setLoggedIn(p models.UserProfile) {
	a.loggedIn = true
	a.profile = p
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

func (a *App) getStatus() string {
	switch {
	case a.loggedIn:
		return fmt.Sprintf("(%s)", a.profile.Email)
	case a.flow != nil && !a.flow.State().Terminal():
		return fmt.Sprintf("(signup: %s)", a.flow.State())
	default:
		return ""
	}
}
