package credentials

import (
	"context"

	"github.com/dmitrijs2005/yoursay/internal/logging"
)

// Validator decides whether the stored session is usable. It holds no state
// of its own.
type Validator struct {
	store *Store
	log   logging.Logger
}

func NewValidator(store *Store, log logging.Logger) *Validator {
	return &Validator{store: store, log: log}
}

// IsValid reads the store and reports whether it holds a token and a
// complete profile. A storage failure counts as invalid.
func (v *Validator) IsValid(ctx context.Context) bool {
	sess, err := v.store.Snapshot(ctx)
	if err != nil {
		v.log.Warn(ctx, "failed to read session", "error", err)
		return false
	}
	return sess.Valid()
}

// ValidateAndClear is IsValid that also clears an invalid session.
func (v *Validator) ValidateAndClear(ctx context.Context) bool {
	if v.IsValid(ctx) {
		return true
	}
	if err := v.store.Clear(ctx); err != nil {
		v.log.Error(ctx, "failed to clear invalid session", "error", err)
	}
	return false
}
