// Package client talks to the YourSay backend over its HTTP/JSON API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract for the unauthenticated endpoints (see
//     the Client interface): Signup, SendVerification, Login and Refresh.
//  2. A net/http implementation (see HTTPClient) that bounds every call
//     with a timeout and maps HTTP statuses to sentinel errors.
//
// Authenticated resource calls do not go through this package; they are
// issued by the gateway package, which owns the refresh and logout rules.
//
// # Error Handling
//
// Transport failures wrap ErrNetwork. Unexpected statuses are returned as
// *APIError, which matches ErrServer with errors.Is and carries the
// server's plain-text message. A rejected login is ErrInvalidCredentials.
package client
