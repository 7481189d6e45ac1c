package signup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/yoursay/internal/client/models"
	"github.com/dmitrijs2005/yoursay/internal/client/storage"
)

// KeyPendingSignup holds the staged record as a JSON object.
const KeyPendingSignup = "pendingSignupData"

func stage(ctx context.Context, kv storage.Store, p models.PendingSignup) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode staged signup: %w", err)
	}
	if err := kv.Set(ctx, KeyPendingSignup, string(b)); err != nil {
		return fmt.Errorf("stage signup: %w", err)
	}
	return nil
}

func loadStaged(ctx context.Context, kv storage.Store) (models.PendingSignup, bool, error) {
	var p models.PendingSignup
	raw, ok, err := kv.Get(ctx, KeyPendingSignup)
	if err != nil {
		return p, false, fmt.Errorf("load staged signup: %w", err)
	}
	if !ok || raw == "" {
		return p, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return p, false, fmt.Errorf("decode staged signup: %w", err)
	}
	return p, true, nil
}

// discardStaged removes the staged record. If the delete fails the record is
// blanked instead, which loadStaged treats as absent.
func discardStaged(ctx context.Context, kv storage.Store) error {
	derr := kv.Delete(ctx, KeyPendingSignup)
	if derr == nil {
		return nil
	}
	if err := kv.Set(ctx, KeyPendingSignup, ""); err != nil {
		return fmt.Errorf("remove staged signup: %w", errors.Join(derr, err))
	}
	return nil
}
