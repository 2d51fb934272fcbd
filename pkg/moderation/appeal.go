package moderation

import (
	"context"
	"strings"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/google/uuid"
)

// FileAppeal opens an appeal against one of the user's warnings. Only one
// pending appeal may exist per warning, and a user must wait out the guild
// cooldown between appeals regardless of which warning they target. While
// the appeal is pending the warning is frozen: it neither counts points
// nor expires until the appeal is decided.
func (s *Service) FileAppeal(ctx context.Context, guildID, userID, warningID, reason string) (*models.Appeal, error) {
	cfg, err := s.GuildConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if !cfg.AllowAppeals {
		return nil, &ConflictError{Reason: "appeals are disabled on this guild"}
	}
	if strings.TrimSpace(reason) == "" {
		return nil, &ValidationError{Field: "reason", Reason: "must not be empty"}
	}

	key := ledgerKey(guildID, userID)
	s.locks.lock(key)
	defer s.locks.unlock(key)

	doc, err := s.infractions.Get(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	var w *models.Warning
	if doc != nil {
		w = doc.FindWarning(warningID)
	}
	if w == nil {
		return nil, &ValidationError{Field: "warning_id", Reason: "no warning with that id"}
	}

	switch w.Status {
	case models.WarningAppealed:
		return nil, &ConflictError{Reason: "this warning already has a pending appeal"}
	case models.WarningOverturned, models.WarningRedeemed:
		return nil, &ConflictError{Reason: "this warning has already been resolved"}
	}

	now := s.clock.Now()
	if !doc.LastAppealAt.IsZero() {
		if wait := cfg.AppealCooldown - now.Sub(doc.LastAppealAt); wait > 0 {
			return nil, &CooldownError{Remaining: wait}
		}
	}

	appeal := models.Appeal{
		ID:        uuid.NewString(),
		WarningID: warningID,
		Reason:    reason,
		Status:    models.AppealPending,
		FiledAt:   now,
	}
	w.PriorStatus = w.Status
	w.Status = models.WarningAppealed
	doc.Appeals = append(doc.Appeals, appeal)
	doc.LastAppealAt = now

	if err := s.infractions.Put(ctx, doc); err != nil {
		return nil, err
	}
	s.publish(EventAppealFiled, guildID, userID, warningID, nil, reason)
	return &appeal, nil
}

// DecideAppeal resolves a pending appeal. Approval overturns the warning
// permanently; denial restores the status the warning had before the
// appeal. The escalation thresholds are re-evaluated either way and the
// fresh decision is returned for the caller to act on.
func (s *Service) DecideAppeal(ctx context.Context, guildID, userID, appealID string, approve bool, reviewerID, note string) (*models.Appeal, *Decision, error) {
	cfg, err := s.GuildConfig(ctx, guildID)
	if err != nil {
		return nil, nil, err
	}

	key := ledgerKey(guildID, userID)
	s.locks.lock(key)
	defer s.locks.unlock(key)

	doc, err := s.infractions.Get(ctx, guildID, userID)
	if err != nil {
		return nil, nil, err
	}
	var appeal *models.Appeal
	if doc != nil {
		appeal = doc.FindAppeal(appealID)
	}
	if appeal == nil {
		return nil, nil, &ValidationError{Field: "appeal_id", Reason: "no appeal with that id"}
	}
	if appeal.Status != models.AppealPending {
		return nil, nil, &ConflictError{Reason: "this appeal has already been decided"}
	}
	w := doc.FindWarning(appeal.WarningID)
	if w == nil {
		return nil, nil, &ValidationError{Field: "appeal_id", Reason: "the appealed warning no longer exists"}
	}

	now := s.clock.Now()
	appeal.ReviewerID = reviewerID
	appeal.Note = note
	appeal.ReviewedAt = now

	if approve {
		appeal.Status = models.AppealApproved
		w.Status = models.WarningOverturned
	} else {
		appeal.Status = models.AppealDenied
		if w.PriorStatus != "" {
			w.Status = w.PriorStatus
		} else {
			w.Status = models.WarningActive
		}
	}
	w.PriorStatus = ""

	if err := s.infractions.Put(ctx, doc); err != nil {
		return nil, nil, err
	}

	dec := s.decide(cfg, doc, now)
	s.publish(EventAppealDecided, guildID, userID, w.ID, dec, string(appeal.Status))
	s.publishEscalation(guildID, userID, dec)
	return appeal, dec, nil
}
