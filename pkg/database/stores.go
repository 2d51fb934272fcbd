package database

import (
	"context"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
	"go.mongodb.org/mongo-driver/bson"
)

// Collection names used by the moderation stores.
const (
	CollectionInfractions = "infractions"
	CollectionSubmissions = "redemption_submissions"
	CollectionModConfig   = "mod_config"
)

// InfractionsStore is the Mongo-backed moderation.InfractionStore. Each
// Put replaces the whole per-(guild, user) document in one upsert.
type InfractionsStore struct {
	dm *DataManager[models.InfractionsDocument]
}

var _ moderation.InfractionStore = (*InfractionsStore)(nil)

// NewInfractionsStore builds the store over the infractions collection.
func NewInfractionsStore(db *Database) *InfractionsStore {
	return &InfractionsStore{dm: NewDataManager[models.InfractionsDocument](CollectionInfractions, db)}
}

func infractionQuery(guildID, userID string) bson.M {
	return bson.M{"guildId": guildID, "userId": userID}
}

// Get returns a user's infraction document, or (nil, nil) when absent.
func (s *InfractionsStore) Get(ctx context.Context, guildID, userID string) (*models.InfractionsDocument, error) {
	return s.dm.Get(ctx, infractionQuery(guildID, userID))
}

// Put upserts a user's infraction document.
func (s *InfractionsStore) Put(ctx context.Context, doc *models.InfractionsDocument) error {
	_, err := s.dm.Set(ctx, infractionQuery(doc.GuildID, doc.UserID), doc)
	return err
}

// ListUsers returns every infraction document of a guild.
func (s *InfractionsStore) ListUsers(ctx context.Context, guildID string) ([]*models.InfractionsDocument, error) {
	return s.dm.GetAll(ctx, bson.M{"guildId": guildID})
}

// ListGuilds returns the IDs of every guild with infractions on record.
func (s *InfractionsStore) ListGuilds(ctx context.Context) ([]string, error) {
	values, err := s.dm.Distinct(ctx, "guildId", bson.M{})
	if err != nil {
		return nil, err
	}
	guilds := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			guilds = append(guilds, id)
		}
	}
	return guilds, nil
}

// SubmissionsStore is the Mongo-backed moderation.SubmissionStore.
type SubmissionsStore struct {
	dm *DataManager[models.RedemptionSubmission]
}

var _ moderation.SubmissionStore = (*SubmissionsStore)(nil)

// NewSubmissionsStore builds the store over the submissions collection.
func NewSubmissionsStore(db *Database) *SubmissionsStore {
	return &SubmissionsStore{dm: NewDataManager[models.RedemptionSubmission](CollectionSubmissions, db)}
}

// Get returns a submission by ID, or (nil, nil) when absent.
func (s *SubmissionsStore) Get(ctx context.Context, id string) (*models.RedemptionSubmission, error) {
	return s.dm.Get(ctx, bson.M{"_id": id})
}

// Put upserts a submission.
func (s *SubmissionsStore) Put(ctx context.Context, sub *models.RedemptionSubmission) error {
	_, err := s.dm.Set(ctx, bson.M{"_id": sub.ID}, sub)
	return err
}

// ListPending returns a guild's submissions awaiting review. The cache is
// bypassed so reviewers always see the current queue.
func (s *SubmissionsStore) ListPending(ctx context.Context, guildID string) ([]*models.RedemptionSubmission, error) {
	return s.dm.GetAll(ctx, bson.M{"guildId": guildID, "status": string(models.SubmissionPending)})
}
