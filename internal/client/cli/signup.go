package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/yoursay/internal/client/signup"
	"github.com/dmitrijs2005/yoursay/internal/client/validation"
	"github.com/dmitrijs2005/yoursay/internal/common"
)

var errSignupCancelled = errors.New("signup cancelled")

// Signup walks the user through email, password, location and topics, then
// requests a verification code. Invalid answers are explained and asked
// again. Running out of input abandons the attempt.
func (a *App) Signup(ctx context.Context) error {
	if a.loggedIn {
		fmt.Fprintf(a.out, "Already logged in as %s. Log out first.\n", a.profile.Email)
		return nil
	}
	if a.flow != nil && a.flow.State() == signup.AwaitingVerification {
		fmt.Fprintf(a.out, "Signup for %s is waiting for its code. Type 'verify', 'resend' or 'cancel'.\n", a.flow.Pending().Email)
		return nil
	}

	flow := a.newFlow()
	a.flow = flow

	if err := a.collectSignup(ctx, flow); err != nil {
		flow.Abandon()
		a.flow = nil
		if errors.Is(err, errSignupCancelled) {
			fmt.Fprintln(a.out, "Signup cancelled.")
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "We sent a 6-digit code to %s. Type 'verify' to enter it.\n", flow.Pending().Email)
	return nil
}

func (a *App) collectSignup(ctx context.Context, flow signupFlow) error {
	err := a.retry(func() error {
		email, err := getSimpleText(a.reader, "Enter email", a.out)
		if err != nil {
			return err
		}
		return flow.SubmitEmail(email)
	})
	if err != nil {
		return err
	}

	err = a.retry(func() error {
		password, err := getPassword(a.reader, "Enter password", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)

		confirm, err := getPassword(a.reader, "Confirm password", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(confirm)

		return flow.SubmitPassword(string(password), string(confirm))
	})
	if err != nil {
		return err
	}

	err = a.retry(func() error {
		zipcode, err := getSimpleText(a.reader, "Enter zip code", a.out)
		if err != nil {
			return err
		}
		state, err := getSimpleText(a.reader, "Enter state (two letters)", a.out)
		if err != nil {
			return err
		}
		return flow.SubmitLocation(zipcode, state)
	})
	if err != nil {
		return err
	}

	printTopics(a)
	for {
		err := a.retry(func() error {
			topics, err := getList(a.reader, "Enter topics", a.out)
			if err != nil {
				return err
			}
			return flow.SubmitTopics(ctx, topics)
		})
		if err == nil || errors.Is(err, io.EOF) || flow.State() != signup.CollectingTopics {
			return err
		}

		// the code could not be sent; the topics step can be repeated
		fmt.Fprintln(a.out, "Error:", describe(err))
		answer, err := getSimpleText(a.reader, "Try again? (y/n)", a.out)
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") {
			return errSignupCancelled
		}
	}
}

// retry runs step until it succeeds or fails with something other than a
// validation error. Validation messages are shown to the user.
func (a *App) retry(step func() error) error {
	for {
		err := step()
		var verr *validation.Error
		if !errors.As(err, &verr) {
			return err
		}
		fmt.Fprintln(a.out, verr.Message)
	}
}

// Verify submits the emailed code. A rejected code can be retried with
// another 'verify'.
func (a *App) Verify(ctx context.Context) error {
	if !a.awaitingCode() {
		return nil
	}

	code, err := getSimpleText(a.reader, "Enter the 6-digit code", a.out)
	if err != nil {
		return err
	}

	err = a.flow.SubmitCode(ctx, code)
	switch {
	case err == nil:
		profile := a.flow.Pending().Profile()
		a.flow = nil
		a.setLoggedIn(profile)
		fmt.Fprintf(a.out, "Welcome to YourSay, %s!\n", profile.Email)
		return nil
	case errors.Is(err, signup.ErrAutoLogin):
		a.log.Warn(ctx, "auto login after signup failed", "error", err)
		a.flow = nil
		fmt.Fprintln(a.out, "Your account is ready. Type 'login' to sign in.")
		return nil
	default:
		return err
	}
}

// Resend asks the server for a new code.
func (a *App) Resend(ctx context.Context) error {
	if !a.awaitingCode() {
		return nil
	}
	if err := a.flow.Resend(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "A new code was sent to %s.\n", a.flow.Pending().Email)
	return nil
}

// CancelSignup abandons the signup in progress.
func (a *App) CancelSignup(ctx context.Context) error {
	if a.flow == nil {
		fmt.Fprintln(a.out, "No signup in progress.")
		return nil
	}
	a.flow.Abandon()
	a.flow = nil
	fmt.Fprintln(a.out, "Signup cancelled.")
	return nil
}

func (a *App) awaitingCode() bool {
	if a.flow != nil && a.flow.State() == signup.AwaitingVerification {
		return true
	}
	fmt.Fprintln(a.out, "No signup is waiting for a code. Type 'signup' to start.")
	return false
}
