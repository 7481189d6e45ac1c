package signup

import (
	"errors"
	"fmt"
)

var (
	// ErrAutoLogin means the account was created but the follow-up login
	// failed; the user should log in manually.
	ErrAutoLogin = errors.New("account created, please log in")

	ErrWrongState = errors.New("action not available at this signup step")
)

func wrongState(action string, s State) error {
	return fmt.Errorf("%w: %s while %s", ErrWrongState, action, s)
}
