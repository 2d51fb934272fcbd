package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
)

// Action is a punishment decided by the escalation engine. The engine only
// decides; applying the mute, kick or ban is the punishment actuator's job
// so the side effect can be retried or mocked independently.
type Action struct {
	Kind     models.ThresholdAction
	Duration time.Duration
}

// String renders the action for logs and embeds.
func (a Action) String() string {
	if a.Kind == models.ActionMute {
		return fmt.Sprintf("mute (%s)", a.Duration)
	}
	return string(a.Kind)
}

// Decision is the outcome of an escalation evaluation: the freshly derived
// point total and the action it maps to. Action is nil when the total sits
// below the lowest configured threshold.
type Decision struct {
	Points int
	Action *Action
}

// Evaluate recomputes a user's active points and selects the highest
// threshold at or below the total.
func (s *Service) Evaluate(ctx context.Context, guildID, userID string) (*Decision, error) {
	cfg, err := s.GuildConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}
	doc, err := s.infractions.Get(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = &models.InfractionsDocument{GuildID: guildID, UserID: userID}
	}
	return s.decide(cfg, doc, s.clock.Now()), nil
}

// decide derives the point total from the document and walks the
// thresholds from the highest down, returning the first one satisfied.
// Thresholds are kept sorted ascending by SetThresholds.
func (s *Service) decide(cfg *models.GuildModConfig, doc *models.InfractionsDocument, now time.Time) *Decision {
	dec := &Decision{Points: activePoints(cfg, doc, now)}
	for i := len(cfg.Thresholds) - 1; i >= 0; i-- {
		th := cfg.Thresholds[i]
		if th.Points <= dec.Points {
			dec.Action = &Action{Kind: th.Action, Duration: th.Duration}
			break
		}
	}
	return dec
}

// Thresholds returns the guild's escalation thresholds, ascending.
func (s *Service) Thresholds(ctx context.Context, guildID string) ([]models.EscalationThreshold, error) {
	cfg, err := s.GuildConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return cfg.Thresholds, nil
}

// SetThresholds replaces the guild's escalation thresholds. The set must
// be strictly increasing in points; duplicates or non-monotonic values are
// rejected with a ConfigError before anything is stored.
func (s *Service) SetThresholds(ctx context.Context, guildID string, ths []models.EscalationThreshold) error {
	if err := validateThresholds(ths); err != nil {
		return err
	}
	cfg, err := s.GuildConfig(ctx, guildID)
	if err != nil {
		return err
	}
	cfg.Thresholds = ths
	return s.configs.Put(ctx, cfg)
}
