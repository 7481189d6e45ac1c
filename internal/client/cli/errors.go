package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/yoursay/internal/client/client"
	"github.com/dmitrijs2005/yoursay/internal/client/gateway"
	"github.com/dmitrijs2005/yoursay/internal/client/services"
	"github.com/dmitrijs2005/yoursay/internal/client/signup"
	"github.com/dmitrijs2005/yoursay/internal/client/validation"
)

// describe turns err into a message for the terminal.
func describe(err error) string {
	var (
		verr *validation.Error
		aerr *client.APIError
	)

	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, client.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, gateway.ErrAccessForbidden):
		return "Access denied. You have been logged out."
	case services.IsSessionEnded(err):
		return "Please log in again."
	case errors.Is(err, client.ErrNetwork):
		return "Cannot reach the server. Check your connection and try again."
	case errors.Is(err, signup.ErrWrongState):
		return "That step is not available right now."
	case errors.As(err, &aerr):
		if aerr.Message != "" {
			return aerr.Message
		}
		return fmt.Sprintf("Server error (%d).", aerr.StatusCode)
	default:
		return err.Error()
	}
}
