// Package credentials owns the stored session: the token pair, the minimal
// user profile and the authenticated flag.
//
// Store is the only component that reads or writes those keys. Validator is
// a pure predicate over Store contents and is evaluated freshly on every
// call, since a concurrent logout may have cleared storage at any time.
//
// Preferences are persisted canonically as a JSON array. Older records that
// hold a comma-separated string are still accepted on read.
package credentials
