package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/common"
)

// Login prompts the user for credentials and tries to authenticate.
//
// The password is securely wiped before returning. On success the prompt
// switches to the logged-in command set.
func (a *App) Login(ctx context.Context) error {
	if a.loggedIn {
		fmt.Fprintf(a.out, "Already logged in as %s\n", a.profile.Email)
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	profile, err := a.authService.Login(ctx, email, password)
	if err != nil {
		a.log.Info(ctx, "login unsuccessful", "error", err)
		return err
	}

	a.setLoggedIn(profile)
	fmt.Fprintf(a.out, "Logged in as %s\n", profile.Email)
	return nil
}

// Logout drops the stored session. The local state is reset before the
// service fires the logout notifier, so the handler stays quiet.
func (a *App) Logout(ctx context.Context) error {
	a.loggedIn = false
	a.profile = models.UserProfile{}

	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the stored profile.
func (a *App) WhoAmI(ctx context.Context) error {
	p, err := a.authService.Profile(ctx)
	if err != nil {
		return err
	}
	a.profile = p
	printProfile(a, p)
	return nil
}

// Settings prompts for a new zipcode, state and topics. An empty answer
// keeps the current value.
func (a *App) Settings(ctx context.Context) error {
	current, err := a.authService.Profile(ctx)
	if err != nil {
		return err
	}
	printProfile(a, current)

	zipcode, err := getSimpleText(a.reader, fmt.Sprintf("Zip code [%s]", current.Zipcode), a.out)
	if err != nil {
		return err
	}
	state, err := getSimpleText(a.reader, fmt.Sprintf("State [%s]", current.State), a.out)
	if err != nil {
		return err
	}
	printTopics(a)
	topics, err := getList(a.reader, fmt.Sprintf("Topics [%s]", strings.Join(current.Preferences, ", ")), a.out)
	if err != nil {
		return err
	}

	if zipcode == "" {
		zipcode = current.Zipcode
	}
	if state == "" {
		state = current.State
	}
	if len(topics) == 0 {
		topics = current.Preferences
	}

	if err := a.authService.UpdateSettings(ctx, zipcode, state, topics); err != nil {
		return err
	}

	if p, err := a.authService.Profile(ctx); err == nil {
		a.profile = p
	}
	fmt.Fprintln(a.out, "Settings saved.")
	return nil
}

func printProfile(a *App, p models.UserProfile) {
	fmt.Fprintf(a.out, "Email:    %s\n", p.Email)
	fmt.Fprintf(a.out, "Zip code: %s\n", p.Zipcode)
	fmt.Fprintf(a.out, "State:    %s\n", p.State)
	fmt.Fprintf(a.out, "Topics:   %s\n", strings.Join(p.Preferences, ", "))
}

func printTopics(a *App) {
	fmt.Fprintf(a.out, "Choose up to %d topics: %s\n", models.MaxTopics, strings.Join(models.Topics, ", "))
}
