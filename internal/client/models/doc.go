// Package models defines the client-side data models shared by the session,
// signup and browsing packages.
package models
