package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
)

// DefaultGuildConfig returns the configuration a guild runs on until an
// administrator stores their own.
func DefaultGuildConfig(guildID string) *models.GuildModConfig {
	return &models.GuildModConfig{
		GuildID:        guildID,
		SeverityPoints: models.SeverityValues{Minor: 1, Moderate: 2, Severe: 3},
		WarningExpiry: models.SeverityDurations{
			Minor:    30 * 24 * time.Hour,
			Moderate: 60 * 24 * time.Hour,
			Severe:   90 * 24 * time.Hour,
		},
		Thresholds: []models.EscalationThreshold{
			{Points: 3, Action: models.ActionMute, Duration: time.Hour},
			{Points: 5, Action: models.ActionMute, Duration: 24 * time.Hour},
			{Points: 7, Action: models.ActionKick},
			{Points: 10, Action: models.ActionBan},
		},
		Tasks: []models.RedemptionTask{
			{ID: "help_others", Name: "Ayudar a otros miembros", PointValue: 2, ProofRequired: true},
			{ID: "contribute_positively", Name: "Contribución positiva", PointValue: 2, ProofRequired: true},
			{ID: "create_guide", Name: "Crear una guía", PointValue: 3, ProofRequired: true},
		},
		RequireReason:   true,
		AllowAppeals:    true,
		AppealCooldown:  7 * 24 * time.Hour,
		DMNotifications: true,
		AutoReversal:    false,
		SweepInterval:   24 * time.Hour,
		Transfer: models.TransferPolicy{
			AcceptTransfers: false,
			ShareWarnings:   false,
			CarryOriginal:   true,
			Weight:          1.0,
		},
	}
}

// GuildConfig returns the stored configuration for a guild, or the
// defaults when none has been saved yet.
func (s *Service) GuildConfig(ctx context.Context, guildID string) (*models.GuildModConfig, error) {
	cfg, err := s.configs.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return DefaultGuildConfig(guildID), nil
	}
	return cfg, nil
}

// SaveGuildConfig validates and persists a guild configuration.
func (s *Service) SaveGuildConfig(ctx context.Context, cfg *models.GuildModConfig) error {
	if cfg.GuildID == "" {
		return &ValidationError{Field: "guildId", Reason: "must not be empty"}
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	return s.configs.Put(ctx, cfg)
}

func validateConfig(cfg *models.GuildModConfig) error {
	if err := validateThresholds(cfg.Thresholds); err != nil {
		return err
	}
	if err := validateTasks(cfg.Tasks); err != nil {
		return err
	}
	for _, p := range []int{cfg.SeverityPoints.Minor, cfg.SeverityPoints.Moderate, cfg.SeverityPoints.Severe} {
		if p < 1 {
			return &ConfigError{Reason: "severity point values must be positive"}
		}
	}
	for _, d := range []time.Duration{cfg.WarningExpiry.Minor, cfg.WarningExpiry.Moderate, cfg.WarningExpiry.Severe} {
		if d <= 0 {
			return &ConfigError{Reason: "warning expiry durations must be positive"}
		}
	}
	if cfg.AppealCooldown < 0 {
		return &ConfigError{Reason: "appeal cooldown must not be negative"}
	}
	if cfg.SweepInterval <= 0 {
		return &ConfigError{Reason: "sweep interval must be positive"}
	}
	if cfg.Transfer.Weight <= 0 || cfg.Transfer.Weight > 1 {
		return &ConfigError{Reason: "transfer weight must be in (0, 1]"}
	}
	return nil
}

func validateThresholds(ths []models.EscalationThreshold) error {
	prev := 0
	for i, th := range ths {
		if th.Points < 1 {
			return &ConfigError{Reason: fmt.Sprintf("threshold %d: points must be positive", i)}
		}
		if th.Points <= prev && i > 0 {
			return &ConfigError{Reason: fmt.Sprintf("threshold points must be strictly increasing (%d after %d)", th.Points, prev)}
		}
		if !th.Action.Valid() {
			return &ConfigError{Reason: fmt.Sprintf("threshold %d: unknown action %q", i, th.Action)}
		}
		if th.Action == models.ActionMute && th.Duration <= 0 {
			return &ConfigError{Reason: fmt.Sprintf("threshold %d: mute requires a positive duration", i)}
		}
		prev = th.Points
	}
	return nil
}

func validateTasks(tasks []models.RedemptionTask) error {
	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Name) == "" {
			return &ConfigError{Reason: fmt.Sprintf("task %d: id and name must not be empty", i)}
		}
		if t.PointValue < 1 {
			return &ConfigError{Reason: fmt.Sprintf("task %q: point value must be positive", t.ID)}
		}
		if seen[t.ID] {
			return &ConfigError{Reason: fmt.Sprintf("duplicate task id %q", t.ID)}
		}
		seen[t.ID] = true
	}
	return nil
}
