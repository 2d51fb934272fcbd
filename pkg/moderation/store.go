package moderation

import (
	"context"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
)

// Clock abstracts time so tests can freeze and advance it.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// InfractionStore persists one InfractionsDocument per (guild, user). A
// missing document is reported as (nil, nil). Implementations must make
// Put a single atomic replace and surface timeouts as ErrStoreTimeout.
type InfractionStore interface {
	Get(ctx context.Context, guildID, userID string) (*models.InfractionsDocument, error)
	Put(ctx context.Context, doc *models.InfractionsDocument) error
	// ListUsers returns every infraction document of a guild, for the
	// expiry sweep.
	ListUsers(ctx context.Context, guildID string) ([]*models.InfractionsDocument, error)
	// ListGuilds returns the IDs of every guild holding infractions.
	ListGuilds(ctx context.Context) ([]string, error)
}

// SubmissionStore persists redemption submissions keyed by submission ID.
type SubmissionStore interface {
	Get(ctx context.Context, id string) (*models.RedemptionSubmission, error)
	Put(ctx context.Context, sub *models.RedemptionSubmission) error
	ListPending(ctx context.Context, guildID string) ([]*models.RedemptionSubmission, error)
}

// ConfigStore persists per-guild moderation configuration. A guild without
// a stored document is reported as (nil, nil) and runs on defaults.
type ConfigStore interface {
	Get(ctx context.Context, guildID string) (*models.GuildModConfig, error)
	Put(ctx context.Context, cfg *models.GuildModConfig) error
}
