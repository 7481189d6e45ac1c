package gateway

import "errors"

var (
	ErrSessionExpired       = errors.New("session expired, please log in again")
	ErrAuthenticationFailed = errors.New("authentication failed, please log in again")
	ErrAccessForbidden      = errors.New("access forbidden")
	ErrNoRefreshToken       = errors.New("no refresh token stored")
	ErrRefreshFailed        = errors.New("token refresh failed")
)

// EndsSession reports whether err means the user has been logged out.
func EndsSession(err error) bool {
	return errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrAuthenticationFailed) ||
		errors.Is(err, ErrAccessForbidden)
}
