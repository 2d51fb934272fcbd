package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
)

func TestGuildConfigDefaults(t *testing.T) {
	env := newTestEnv()

	cfg, err := env.svc.GuildConfig(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("GuildConfig() returned error: %v", err)
	}
	if cfg.GuildID != "fresh" {
		t.Errorf("GuildID = %q, want %q", cfg.GuildID, "fresh")
	}
	if cfg.SeverityPoints.Minor != 1 || cfg.SeverityPoints.Moderate != 2 || cfg.SeverityPoints.Severe != 3 {
		t.Errorf("SeverityPoints = %+v, want 1/2/3", cfg.SeverityPoints)
	}
	if len(cfg.Thresholds) != 4 {
		t.Errorf("Thresholds = %d, want 4 defaults", len(cfg.Thresholds))
	}
	if !cfg.AllowAppeals || !cfg.RequireReason {
		t.Error("defaults should require reasons and allow appeals")
	}
	if cfg.Transfer.AcceptTransfers || cfg.Transfer.ShareWarnings {
		t.Error("transfers should be opt-in")
	}
}

func TestSaveGuildConfigValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	cfg := DefaultGuildConfig("")
	err := env.svc.SaveGuildConfig(ctx, cfg)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for empty guild id, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*models.GuildModConfig)
	}{
		{"zero severity points", func(c *models.GuildModConfig) { c.SeverityPoints.Minor = 0 }},
		{"negative expiry", func(c *models.GuildModConfig) { c.WarningExpiry.Severe = -time.Hour }},
		{"negative cooldown", func(c *models.GuildModConfig) { c.AppealCooldown = -time.Minute }},
		{"zero sweep interval", func(c *models.GuildModConfig) { c.SweepInterval = 0 }},
		{"transfer weight above one", func(c *models.GuildModConfig) { c.Transfer.Weight = 1.5 }},
		{"transfer weight zero", func(c *models.GuildModConfig) { c.Transfer.Weight = 0 }},
	}

	for _, tc := range cases {
		cfg := DefaultGuildConfig("g1")
		tc.mutate(cfg)
		err := env.svc.SaveGuildConfig(ctx, cfg)
		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Errorf("%s: expected ConfigError, got %v", tc.name, err)
		}
	}

	if err := env.svc.SaveGuildConfig(ctx, DefaultGuildConfig("g1")); err != nil {
		t.Errorf("SaveGuildConfig() with defaults returned error: %v", err)
	}
}

func TestCustomSeverityPoints(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	cfg := DefaultGuildConfig("g1")
	cfg.SeverityPoints = models.SeverityValues{Minor: 2, Moderate: 4, Severe: 6}
	if err := env.svc.SaveGuildConfig(ctx, cfg); err != nil {
		t.Fatal(err)
	}

	_, dec, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeverityModerate, "x")
	if err != nil {
		t.Fatal(err)
	}
	if dec.Points != 4 {
		t.Errorf("Points = %d, want 4 under custom severity values", dec.Points)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(ErrStoreTimeout) {
		t.Error("ErrStoreTimeout should be retryable")
	}
	if IsRetryable(&ValidationError{Field: "x", Reason: "y"}) {
		t.Error("validation errors are not retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil is not retryable")
	}
}
