package database

import (
	"context"
	"errors"
	"testing"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
	"go.mongodb.org/mongo-driver/bson"
)

// newOfflineManager returns a DataManager over a disconnected Database.
// Cache hits still work; everything that needs Mongo fails retryably.
func newOfflineManager(t *testing.T) *DataManager[models.InfractionsDocument] {
	t.Helper()
	dm := NewDataManager[models.InfractionsDocument]("infractions_test", NewDatabase())
	dm.ClearCache()
	return dm
}

func primeCache(dm *DataManager[models.InfractionsDocument], query bson.M, doc *models.InfractionsDocument) {
	key := dm.generateCacheKey(query)
	globalCacheManager.mu.Lock()
	defer globalCacheManager.mu.Unlock()
	dm.cacheStoreLocked(key, doc)
}

func committedDoc() *models.InfractionsDocument {
	return &models.InfractionsDocument{
		GuildID: "g1",
		UserID:  "u1",
		Warnings: []models.Warning{
			{ID: "w1", Severity: models.SeverityModerate, Status: models.WarningActive, Weight: 1},
		},
	}
}

func TestGetReturnsPrivateCopy(t *testing.T) {
	dm := newOfflineManager(t)
	query := bson.M{"guildId": "g1", "userId": "u1"}
	primeCache(dm, query, committedDoc())

	first, err := dm.Get(context.Background(), query)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	// Edit the returned document the way a service mutation does before
	// committing. The cache must not see any of it.
	first.Warnings[0].Status = models.WarningOverturned
	first.RedemptionCredits = 99

	second, err := dm.Get(context.Background(), query)
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if second.Warnings[0].Status != models.WarningActive {
		t.Errorf("cached warning status changed to %q, want %q", second.Warnings[0].Status, models.WarningActive)
	}
	if second.RedemptionCredits != 0 {
		t.Errorf("cached credits changed to %d, want 0", second.RedemptionCredits)
	}
}

func TestFailedSetKeepsCommittedState(t *testing.T) {
	dm := newOfflineManager(t)
	query := bson.M{"guildId": "g1", "userId": "u1"}
	primeCache(dm, query, committedDoc())

	doc, err := dm.Get(context.Background(), query)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	doc.Warnings[0].Status = models.WarningOverturned
	doc.RedemptionCredits = 99

	// The database is down, so the write must fail retryably.
	if _, err := dm.Set(context.Background(), query, doc); !errors.Is(err, moderation.ErrStoreTimeout) {
		t.Fatalf("Set error = %v, want ErrStoreTimeout", err)
	}

	after, err := dm.Get(context.Background(), query)
	if err != nil {
		t.Fatalf("Get after failed Set: %v", err)
	}
	if after.Warnings[0].Status != models.WarningActive || after.RedemptionCredits != 0 {
		t.Errorf("uncommitted mutation visible after failed Set: status=%s credits=%d",
			after.Warnings[0].Status, after.RedemptionCredits)
	}
}
