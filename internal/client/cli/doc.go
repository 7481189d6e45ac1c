// Package cli provides the interactive YourSay command-line client.
//
// It wires configuration, local storage, the session gateway and the API
// services into a REPL. On startup a stored session is confirmed with the
// server and an interrupted signup is resumed at the verification step.
//
// Key features:
//   - Signup with email verification (signup, verify, resend, cancel)
//   - Login / Logout, whoami and settings
//   - Browse legislation: federal, state, local, random
//   - Vote and comment on bills, review your history, ask the assistant
//
// When the gateway ends a session (refresh rejected, access forbidden) the
// logout notifier tells the App, which drops back to the logged-out prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
