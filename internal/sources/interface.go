package sources

import (
	"context"

	"github.com/brandpulse/mentions-dashboard/internal/models"
)

// Source interface defines the contract for all mention sources. A source
// that is unconfigured returns an empty result from Fetch rather than an
// error.
type Source interface {
	Network() string
	Fetch(ctx context.Context, limit int) ([]models.RawRecord, error)
	Enabled() bool
}

// UserIDProvider resolves the Instagram business account to query. The
// account linking flow supplies the live value; a static fallback covers
// env-only deployments.
type UserIDProvider interface {
	IGUserID() string
}

// StaticUserID is a UserIDProvider returning a fixed account id.
type StaticUserID string

func (s StaticUserID) IGUserID() string { return string(s) }
