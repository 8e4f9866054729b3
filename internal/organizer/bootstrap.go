package organizer

import (
	"context"
	"log/slog"
)

// BootstrapStore is the slice of the store bootstrap consumes.
type BootstrapStore interface {
	KeyStore
	CreateOrganizerToken(ctx context.Context, name string, key string) (int64, error)
}

// Bootstrap seeds the first organizer access key when none exist yet.
// Once any key is stored the configured key is ignored, so rotating the
// environment variable never silently adds a second credential.
func Bootstrap(ctx context.Context, store BootstrapStore, accessKey string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if accessKey == "" {
		return nil
	}

	existing, err := store.ListOrganizerTokens(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	id, err := store.CreateOrganizerToken(ctx, "bootstrap", accessKey)
	if err != nil {
		return err
	}
	logger.Info("bootstrapped organizer access key", "token_id", id)
	return nil
}
