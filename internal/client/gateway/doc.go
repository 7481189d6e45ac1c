// Package gateway issues authenticated requests against the YourSay API.
//
// Every call runs the same sequence: validate the stored session, send the
// request with the current access token, and on 401 refresh once and retry
// once. A 403, a failed refresh or a rejected retry ends the session: the
// credentials are cleared and the logout notifier fires. Callers only see
// the sentinel errors declared in errors.go and never need to inspect
// status codes to decide whether the user was logged out.
//
// Refresher performs the token refresh. Concurrent refreshes of the same
// refresh token are collapsed into one server call, and the result is
// persisted only while that token is still the stored one.
package gateway
