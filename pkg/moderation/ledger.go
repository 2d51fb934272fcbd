package moderation

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/google/uuid"
)

// IssueWarning records a new warning against a user and re-evaluates the
// escalation thresholds with the resulting point total. The returned
// decision is what the caller should apply through the punishment
// actuator; the ledger itself never touches the platform.
func (s *Service) IssueWarning(ctx context.Context, guildID, subjectID, issuerID string, severity models.Severity, reason string) (*models.Warning, *Decision, error) {
	if !severity.Valid() {
		return nil, nil, &ValidationError{Field: "severity", Reason: "must be minor, moderate or severe"}
	}
	cfg, err := s.GuildConfig(ctx, guildID)
	if err != nil {
		return nil, nil, err
	}
	if cfg.RequireReason && strings.TrimSpace(reason) == "" {
		return nil, nil, &ValidationError{Field: "reason", Reason: "this guild requires a reason"}
	}

	key := ledgerKey(guildID, subjectID)
	s.locks.lock(key)
	defer s.locks.unlock(key)

	doc, err := s.infractions.Get(ctx, guildID, subjectID)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		doc = &models.InfractionsDocument{GuildID: guildID, UserID: subjectID}
	}

	now := s.clock.Now()
	w := models.Warning{
		ID:        uuid.NewString(),
		IssuerID:  issuerID,
		Severity:  severity,
		Reason:    reason,
		Status:    models.WarningActive,
		IssuedAt:  now,
		ExpiresAt: now.Add(cfg.WarningExpiry.For(severity)),
		Weight:    1.0,
	}
	doc.Warnings = append(doc.Warnings, w)

	if err := s.infractions.Put(ctx, doc); err != nil {
		return nil, nil, err
	}

	dec := s.decide(cfg, doc, now)
	s.publish(EventWarningIssued, guildID, subjectID, w.ID, dec, reason)
	s.publishEscalation(guildID, subjectID, dec)
	return &w, dec, nil
}

// Infractions returns a snapshot of a user's full moderation record. Users
// without a record get an empty document.
func (s *Service) Infractions(ctx context.Context, guildID, userID string) (*models.InfractionsDocument, error) {
	doc, err := s.infractions.Get(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = &models.InfractionsDocument{GuildID: guildID, UserID: userID}
	}
	return doc, nil
}

// ActivePoints derives a user's current active point total. The total is
// never cached: it is computed from the stored warning states and
// redemption credits on every call.
func (s *Service) ActivePoints(ctx context.Context, guildID, userID string) (int, error) {
	cfg, err := s.GuildConfig(ctx, guildID)
	if err != nil {
		return 0, err
	}
	doc, err := s.infractions.Get(ctx, guildID, userID)
	if err != nil {
		return 0, err
	}
	if doc == nil {
		return 0, nil
	}
	return activePoints(cfg, doc, s.clock.Now()), nil
}

// activePoints sums the point values of active, unexpired warnings minus
// approved redemption credits, floored at zero. Warnings past their expiry
// stop counting immediately, even before the sweep marks them expired.
func activePoints(cfg *models.GuildModConfig, doc *models.InfractionsDocument, now time.Time) int {
	total := 0.0
	for _, w := range doc.Warnings {
		if w.Status != models.WarningActive || !now.Before(w.ExpiresAt) {
			continue
		}
		weight := w.Weight
		if weight == 0 {
			weight = 1.0
		}
		total += float64(cfg.SeverityPoints.For(w.Severity)) * weight
	}
	points := int(math.Floor(total)) - doc.RedemptionCredits
	if points < 0 {
		return 0
	}
	return points
}

// ExpireSweep transitions every warning of the guild that is past its
// expiry from active to expired. The sweep is idempotent and only ever
// moves active warnings, so it can run concurrently with mutations and
// never touches a warning frozen by a pending appeal. It returns how many
// warnings were expired.
func (s *Service) ExpireSweep(ctx context.Context, guildID string) (int, error) {
	docs, err := s.infractions.ListUsers(ctx, guildID)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, stale := range docs {
		key := ledgerKey(guildID, stale.UserID)
		s.locks.lock(key)

		// Re-read under the lock so an interleaved mutation is not
		// overwritten by a stale snapshot.
		doc, err := s.infractions.Get(ctx, guildID, stale.UserID)
		if err != nil {
			s.locks.unlock(key)
			return expired, err
		}
		if doc == nil {
			s.locks.unlock(key)
			continue
		}

		now := s.clock.Now()
		changed := 0
		for i := range doc.Warnings {
			w := &doc.Warnings[i]
			if w.Status == models.WarningActive && !now.Before(w.ExpiresAt) {
				w.Status = models.WarningExpired
				changed++
			}
		}
		if changed > 0 {
			if err := s.infractions.Put(ctx, doc); err != nil {
				s.locks.unlock(key)
				return expired, err
			}
			expired += changed
			s.publish(EventWarningExpired, guildID, doc.UserID, "", nil, "")
		}
		s.locks.unlock(key)
	}
	return expired, nil
}

// DeleteWarning hard-removes a warning and its appeals from a user's
// record. Administrator use only; the point total derives from the
// remaining records on the next read.
func (s *Service) DeleteWarning(ctx context.Context, guildID, userID, warningID string) error {
	key := ledgerKey(guildID, userID)
	s.locks.lock(key)
	defer s.locks.unlock(key)

	doc, err := s.infractions.Get(ctx, guildID, userID)
	if err != nil {
		return err
	}
	if doc == nil || doc.FindWarning(warningID) == nil {
		return &ValidationError{Field: "warning_id", Reason: "no warning with that id"}
	}

	warnings := doc.Warnings[:0]
	for _, w := range doc.Warnings {
		if w.ID != warningID {
			warnings = append(warnings, w)
		}
	}
	doc.Warnings = warnings

	appeals := doc.Appeals[:0]
	for _, a := range doc.Appeals {
		if a.WarningID != warningID {
			appeals = append(appeals, a)
		}
	}
	doc.Appeals = appeals

	if err := s.infractions.Put(ctx, doc); err != nil {
		return err
	}
	s.publish(EventWarningDeleted, guildID, userID, warningID, nil, "")
	return nil
}

func (s *Service) publish(t EventType, guildID, userID, warningID string, dec *Decision, detail string) {
	ev := Event{
		Type:      t,
		GuildID:   guildID,
		UserID:    userID,
		WarningID: warningID,
		Detail:    detail,
		At:        s.clock.Now(),
	}
	if dec != nil {
		ev.Points = dec.Points
		if dec.Action != nil {
			ev.Action = string(dec.Action.Kind)
		}
	}
	s.notifier.Notify(ev)
}

func (s *Service) publishEscalation(guildID, userID string, dec *Decision) {
	if dec == nil || dec.Action == nil {
		return
	}
	s.publish(EventEscalation, guildID, userID, "", dec, "")
}
