package client

import (
	"context"

	"github.com/dmitrijs2005/yoursay/internal/client/models"
)

// Client covers the endpoints that are called without an access token.
type Client interface {
	// Signup creates the account. It returns the server's confirmation
	// message.
	Signup(ctx context.Context, req SignupRequest) (string, error)

	// SendVerification asks the server to email a one-time code.
	SendVerification(ctx context.Context, email string) error

	// Login exchanges an email and hashed password for a session.
	Login(ctx context.Context, email, hashedPassword string) (*LoginResponse, error)

	// Refresh presents refreshToken and returns the new pair. RefreshToken
	// in the result is empty when the server did not rotate it.
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
}
