package moderation

import (
	"context"
	"strings"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
	"github.com/google/uuid"
)

// Tasks returns the guild's redemption task catalog.
func (s *Service) Tasks(ctx context.Context, guildID string) ([]models.RedemptionTask, error) {
	cfg, err := s.GuildConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return cfg.Tasks, nil
}

// SetTasks replaces the guild's redemption task catalog.
func (s *Service) SetTasks(ctx context.Context, guildID string, tasks []models.RedemptionTask) error {
	if err := validateTasks(tasks); err != nil {
		return err
	}
	cfg, err := s.GuildConfig(ctx, guildID)
	if err != nil {
		return err
	}
	cfg.Tasks = tasks
	return s.configs.Put(ctx, cfg)
}

// SubmitRedemption files a pending redemption claim for review. Tasks that
// require proof reject empty proof with a ValidationError and create no
// record. Users without active points have nothing to offset, which is a
// conflict rather than a validation problem.
func (s *Service) SubmitRedemption(ctx context.Context, guildID, userID, taskID, proof string) (*models.RedemptionSubmission, error) {
	cfg, err := s.GuildConfig(ctx, guildID)
	if err != nil {
		return nil, err
	}
	task := cfg.FindTask(taskID)
	if task == nil {
		return nil, &ValidationError{Field: "task", Reason: "unknown redemption task"}
	}
	if task.ProofRequired && strings.TrimSpace(proof) == "" {
		return nil, &ValidationError{Field: "proof", Reason: "this task requires proof"}
	}

	points, err := s.ActivePoints(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	if points == 0 {
		return nil, &ConflictError{Reason: "no active warning points to redeem"}
	}

	sub := &models.RedemptionSubmission{
		ID:          uuid.NewString(),
		GuildID:     guildID,
		UserID:      userID,
		TaskID:      taskID,
		PointValue:  task.PointValue,
		Proof:       proof,
		Status:      models.SubmissionPending,
		SubmittedAt: s.clock.Now(),
	}
	if err := s.submissions.Put(ctx, sub); err != nil {
		return nil, err
	}
	s.publish(EventRedemptionFiled, guildID, userID, "", nil, taskID)
	return sub, nil
}

// PendingRedemptions lists a guild's submissions awaiting review.
func (s *Service) PendingRedemptions(ctx context.Context, guildID string) ([]*models.RedemptionSubmission, error) {
	return s.submissions.ListPending(ctx, guildID)
}

// ReviewRedemption resolves a pending submission. Approval credits the
// snapshotted task points against the user's ledger (the effective total
// is floored at zero on read); rejection has no ledger effect. After an
// approval the escalation thresholds are re-evaluated and the fresh
// decision returned.
//
// The whole review runs under the (guild, user) lock so two concurrent
// reviewers cannot both see the submission as pending. On approval the
// ledger credit is written before the submission is marked approved: if
// the credit write fails the submission stays pending and the review can
// simply be retried.
func (s *Service) ReviewRedemption(ctx context.Context, submissionID string, approve bool, reviewerID string) (*models.RedemptionSubmission, *Decision, error) {
	// First read only tells us which ledger the submission belongs to.
	sub, err := s.submissions.Get(ctx, submissionID)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return nil, nil, &ValidationError{Field: "submission_id", Reason: "no submission with that id"}
	}

	key := ledgerKey(sub.GuildID, sub.UserID)
	s.locks.lock(key)
	defer s.locks.unlock(key)

	// Re-read under the lock; a concurrent review may have resolved it.
	sub, err = s.submissions.Get(ctx, submissionID)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil || sub.Status != models.SubmissionPending {
		return nil, nil, &ConflictError{Reason: "this submission has already been reviewed"}
	}

	now := s.clock.Now()
	sub.ReviewerID = reviewerID
	sub.ReviewedAt = now

	if !approve {
		sub.Status = models.SubmissionRejected
		if err := s.submissions.Put(ctx, sub); err != nil {
			return nil, nil, err
		}
		s.publish(EventRedemptionReviewed, sub.GuildID, sub.UserID, "", nil, string(sub.Status))
		return sub, nil, nil
	}

	cfg, err := s.GuildConfig(ctx, sub.GuildID)
	if err != nil {
		return nil, nil, err
	}

	doc, err := s.infractions.Get(ctx, sub.GuildID, sub.UserID)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		doc = &models.InfractionsDocument{GuildID: sub.GuildID, UserID: sub.UserID}
	}
	doc.RedemptionCredits += sub.PointValue
	if err := s.infractions.Put(ctx, doc); err != nil {
		return nil, nil, err
	}

	sub.Status = models.SubmissionApproved
	if err := s.submissions.Put(ctx, sub); err != nil {
		return nil, nil, err
	}

	dec := s.decide(cfg, doc, now)
	s.publish(EventRedemptionReviewed, sub.GuildID, sub.UserID, "", dec, string(sub.Status))
	s.publishEscalation(sub.GuildID, sub.UserID, dec)
	return sub, dec, nil
}
