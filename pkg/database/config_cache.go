package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/logger"
	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/VigilStudios/VigilBotGo/pkg/moderation"
	"go.mongodb.org/mongo-driver/bson"
)

// ConfigsStore is the Mongo-backed moderation.ConfigStore with an
// in-memory write-through cache. Guild configuration is read on nearly
// every command, so the full set is kept in memory and refreshed
// periodically; writes update Mongo first and the cache only afterwards,
// preserving read-your-writes within the process.
type ConfigsStore struct {
	dm *DataManager[models.GuildModConfig]

	mu          sync.RWMutex
	entries     map[string]*models.GuildModConfig
	stopRefresh chan struct{}
	refreshing  bool
}

var _ moderation.ConfigStore = (*ConfigsStore)(nil)

// NewConfigsStore builds the store over the mod_config collection.
func NewConfigsStore(db *Database) *ConfigsStore {
	return &ConfigsStore{
		dm:      NewDataManager[models.GuildModConfig](CollectionModConfig, db),
		entries: make(map[string]*models.GuildModConfig),
	}
}

// Get returns a guild's stored configuration, or (nil, nil) when the
// guild runs on defaults.
func (s *ConfigsStore) Get(ctx context.Context, guildID string) (*models.GuildModConfig, error) {
	s.mu.RLock()
	if cfg, ok := s.entries[guildID]; ok {
		s.mu.RUnlock()
		return cfg.Clone(), nil
	}
	s.mu.RUnlock()

	cfg, err := s.dm.Get(ctx, bson.M{"guildId": guildID})
	if err != nil || cfg == nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries[guildID] = cfg
	s.mu.Unlock()

	return cfg.Clone(), nil
}

// Put persists a guild configuration and updates the cache.
func (s *ConfigsStore) Put(ctx context.Context, cfg *models.GuildModConfig) error {
	stored, err := s.dm.Set(ctx, bson.M{"guildId": cfg.GuildID}, cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries[cfg.GuildID] = stored
	s.mu.Unlock()
	return nil
}

// Refresh reloads every stored guild configuration from the database.
func (s *ConfigsStore) Refresh(ctx context.Context) error {
	configs, err := s.dm.GetAll(ctx, bson.M{})
	if err != nil {
		logger.Error("ConfigCache: error recargando configuraciones: "+err.Error(), "ConfigCache")
		return err
	}

	newEntries := make(map[string]*models.GuildModConfig, len(configs))
	for _, cfg := range configs {
		newEntries[cfg.GuildID] = cfg
	}

	s.mu.Lock()
	s.entries = newEntries
	s.mu.Unlock()

	logger.Info(fmt.Sprintf("ConfigCache: caché recargada con %d configuraciones", len(newEntries)), "ConfigCache")
	return nil
}

// StartAutoRefresh starts periodic cache reloads at the given interval.
// If a refresher is already running it is replaced.
func (s *ConfigsStore) StartAutoRefresh(interval time.Duration) {
	s.mu.Lock()
	if s.refreshing {
		close(s.stopRefresh)
	}
	s.refreshing = true
	s.stopRefresh = make(chan struct{})
	stopChan := s.stopRefresh
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				_ = s.Refresh(ctx)
				cancel()
			case <-stopChan:
				return
			}
		}
	}()
}

// StopAutoRefresh stops the periodic cache reloads.
func (s *ConfigsStore) StopAutoRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshing {
		close(s.stopRefresh)
		s.refreshing = false
	}
}
