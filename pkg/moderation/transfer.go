package moderation

import (
	"context"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/google/uuid"
)

// TransferWarning copies an active warning from one guild's ledger into
// another's. The source must allow sharing and the target must accept
// transfers; the source record is left untouched. Whether the copy keeps
// its original timestamps or restarts under the target guild's expiry
// settings, and how much its points weigh, follow the target's transfer
// policy.
func (s *Service) TransferWarning(ctx context.Context, fromGuildID, toGuildID, userID, warningID string) (*models.Warning, *Decision, error) {
	if fromGuildID == toGuildID {
		return nil, nil, &ValidationError{Field: "guild", Reason: "source and target guild are the same"}
	}

	srcCfg, err := s.GuildConfig(ctx, fromGuildID)
	if err != nil {
		return nil, nil, err
	}
	if !srcCfg.Transfer.ShareWarnings {
		return nil, nil, &ConflictError{Reason: "the source guild does not share warnings"}
	}
	dstCfg, err := s.GuildConfig(ctx, toGuildID)
	if err != nil {
		return nil, nil, err
	}
	if !dstCfg.Transfer.AcceptTransfers {
		return nil, nil, &ConflictError{Reason: "the target guild does not accept transferred warnings"}
	}

	srcKey := ledgerKey(fromGuildID, userID)
	s.locks.lock(srcKey)
	srcDoc, err := s.infractions.Get(ctx, fromGuildID, userID)
	var src models.Warning
	if err == nil {
		var found *models.Warning
		if srcDoc != nil {
			found = srcDoc.FindWarning(warningID)
		}
		switch {
		case found == nil:
			err = &ValidationError{Field: "warning_id", Reason: "no warning with that id"}
		case found.Status != models.WarningActive:
			err = &ConflictError{Reason: "only active warnings can be transferred"}
		default:
			src = *found
		}
	}
	s.locks.unlock(srcKey)
	if err != nil {
		return nil, nil, err
	}

	now := s.clock.Now()
	copied := src
	copied.ID = uuid.NewString()
	copied.OriginGuildID = fromGuildID
	copied.Weight = dstCfg.Transfer.Weight
	copied.PriorStatus = ""
	if !dstCfg.Transfer.CarryOriginal {
		copied.IssuedAt = now
		copied.ExpiresAt = now.Add(dstCfg.WarningExpiry.For(copied.Severity))
	}

	dstKey := ledgerKey(toGuildID, userID)
	s.locks.lock(dstKey)
	defer s.locks.unlock(dstKey)

	dstDoc, err := s.infractions.Get(ctx, toGuildID, userID)
	if err != nil {
		return nil, nil, err
	}
	if dstDoc == nil {
		dstDoc = &models.InfractionsDocument{GuildID: toGuildID, UserID: userID}
	}
	dstDoc.Warnings = append(dstDoc.Warnings, copied)
	if err := s.infractions.Put(ctx, dstDoc); err != nil {
		return nil, nil, err
	}

	dec := s.decide(dstCfg, dstDoc, now)
	s.publish(EventWarningTransferred, toGuildID, userID, copied.ID, dec, fromGuildID)
	s.publishEscalation(toGuildID, userID, dec)
	return &copied, dec, nil
}
