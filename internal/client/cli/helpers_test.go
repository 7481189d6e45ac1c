package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/yoursay/internal/client/logout"
	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/client/services"
	"github.com/dmitrijs2005/yoursay/internal/logging"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

// capturePrintln redirects printlnFn into the returned buffer.
func capturePrintln(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&buf, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &buf
}

// pipedInput makes GetPassword read from the line reader.
func pipedInput(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

var sampleProfile = models.UserProfile{
	Email:       "a@b.com",
	Zipcode:     "90210",
	State:       "CA",
	Preferences: []string{"Healthcare", "Taxes"},
}

func newTestApp(auth services.AuthService, bills services.LegislationService, r *bufio.Reader) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		authService: auth,
		legislation: bills,
		notifier:    logout.NewNotifier(),
		reader:      r,
		out:         &out,
		log:         logging.NewNop(),
	}, &out
}

/*************
 * Fake AuthService
 *************/

type fakeAuth struct {
	// Login
	loginEmail string
	loginPass  []byte
	loginOut   models.UserProfile
	loginErr   error

	// Logout
	logoutCalled bool
	logoutErr    error
	notifier     *logout.Notifier

	// Restore
	restoreOut models.UserProfile
	restoreErr error

	// Profile
	profile    models.UserProfile
	profileErr error

	// UpdateSettings
	updZip    string
	updState  string
	updTopics []string
	updErr    error
}

func (f *fakeAuth) Login(_ context.Context, email string, password []byte) (models.UserProfile, error) {
	f.loginEmail = email
	f.loginPass = append([]byte(nil), password...)
	return f.loginOut, f.loginErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	if f.logoutErr != nil {
		return f.logoutErr
	}
	if f.notifier != nil {
		f.notifier.Trigger()
	}
	return nil
}

func (f *fakeAuth) Restore(context.Context) (models.UserProfile, error) {
	return f.restoreOut, f.restoreErr
}

func (f *fakeAuth) Profile(context.Context) (models.UserProfile, error) {
	return f.profile, f.profileErr
}

func (f *fakeAuth) UpdateSettings(_ context.Context, zipcode, state string, topics []string) error {
	f.updZip, f.updState, f.updTopics = zipcode, state, topics
	if f.updErr == nil {
		f.profile.Zipcode, f.profile.State, f.profile.Preferences = zipcode, state, topics
	}
	return f.updErr
}

/*************
 * Fake LegislationService
 *************/

type fakeBills struct {
	calls []string
	bills []models.Legislation
	err   error

	voteID  int
	voteVal bool

	opinionID   int
	opinionText string

	votes    []models.Vote
	opinions []models.Opinion

	prompt string
	answer string
}

func (f *fakeBills) Federal(context.Context) ([]models.Legislation, error) {
	f.calls = append(f.calls, "federal")
	return f.bills, f.err
}

func (f *fakeBills) State(_ context.Context, state string) ([]models.Legislation, error) {
	f.calls = append(f.calls, "state:"+state)
	return f.bills, f.err
}

func (f *fakeBills) Local(_ context.Context, zipcode string) ([]models.Legislation, error) {
	f.calls = append(f.calls, "local:"+zipcode)
	return f.bills, f.err
}

func (f *fakeBills) Random(_ context.Context, zipcode, state string) ([]models.Legislation, error) {
	f.calls = append(f.calls, "random:"+zipcode+"/"+state)
	return f.bills, f.err
}

func (f *fakeBills) Vote(_ context.Context, billID int, vote bool) error {
	f.voteID, f.voteVal = billID, vote
	return f.err
}

func (f *fakeBills) Opinion(_ context.Context, billID int, text string) error {
	f.opinionID, f.opinionText = billID, text
	return f.err
}

func (f *fakeBills) Votes(context.Context) ([]models.Vote, error) { return f.votes, f.err }

func (f *fakeBills) Opinions(context.Context) ([]models.Opinion, error) { return f.opinions, f.err }

func (f *fakeBills) Ask(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}
