// Package testserver is an in-process YourSay backend for end-to-end tests.
//
// It implements the HTTP contract the client consumes: signup with emailed
// verification codes, login, JWT access and refresh tokens, session
// validation, preferences and the legislation resources. State lives in
// memory. Test hooks let callers expire access tokens, revoke refresh
// tokens, script the next verification code and count calls per route.
//
// cmd/devserver runs the same backend on a TCP address for local use; issued
// verification codes are written to its log.
package testserver
