// Package storage provides the persistent key/value mechanism behind the
// client's credential and signup state.
//
// # Overview
//
// Store is a small string-to-string map with an atomic Update for
// read-modify-write sequences. Two implementations are provided:
//
//   - SQLiteStore: a local SQLite file (modernc.org/sqlite) whose schema is
//     managed by embedded goose migrations. Values survive process restarts.
//   - MemoryStore: a mutex-guarded map for tests and ephemeral sessions.
//
// # Concurrency
//
// Both implementations are safe for concurrent use. Update runs fn with
// exclusive access: for SQLite the pool is limited to a single connection,
// so transactions are serialized; for MemoryStore the map lock is held for
// the duration of fn. Inside fn only the provided Tx may be used; calling the
// Store itself from fn deadlocks.
package storage
