// Package common contains constants and small helpers shared by the
// client packages.
package common

const (
	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"
	// BearerPrefix precedes the token value in AuthorizationHeaderName.
	BearerPrefix = "Bearer "
	// RequestIDHeaderName correlates client log lines with server logs.
	RequestIDHeaderName = "X-Request-ID"
)

// BearerValue formats token as an Authorization header value.
func BearerValue(token string) string {
	return BearerPrefix + token
}
