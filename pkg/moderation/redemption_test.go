package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
)

// flakyInfractions wraps the in-memory store and fails writes on demand.
type flakyInfractions struct {
	*memInfractions
	mu       sync.Mutex
	failPuts bool
}

func (f *flakyInfractions) setFailPuts(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPuts = v
}

func (f *flakyInfractions) Put(ctx context.Context, doc *models.InfractionsDocument) error {
	f.mu.Lock()
	fail := f.failPuts
	f.mu.Unlock()
	if fail {
		return ErrStoreTimeout
	}
	return f.memInfractions.Put(ctx, doc)
}

func TestSubmitRedemption(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, _, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeverityModerate, "spam"); err != nil {
		t.Fatal(err)
	}

	sub, err := env.svc.SubmitRedemption(ctx, "g1", "u1", "help_others", "https://discord.com/channels/1/2/3")
	if err != nil {
		t.Fatalf("SubmitRedemption() returned error: %v", err)
	}
	if sub.Status != models.SubmissionPending {
		t.Errorf("Status = %v, want %v", sub.Status, models.SubmissionPending)
	}
	if sub.PointValue != 2 {
		t.Errorf("PointValue = %d, want 2 (snapshotted from the catalog)", sub.PointValue)
	}

	pending, err := env.svc.PendingRedemptions(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Errorf("PendingRedemptions() = %d, want 1", len(pending))
	}
}

func TestSubmitRedemptionUnknownTask(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.SubmitRedemption(context.Background(), "g1", "u1", "no_such_task", "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSubmitRedemptionRequiresProof(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, _, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeverityModerate, "spam"); err != nil {
		t.Fatal(err)
	}

	// Default catalog tasks all require proof.
	_, err := env.svc.SubmitRedemption(ctx, "g1", "u1", "help_others", "   ")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// No record must exist after the rejection.
	pending, err := env.svc.PendingRedemptions(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("PendingRedemptions() = %d, want 0 after a rejected submit", len(pending))
	}
}

func TestSubmitRedemptionWithoutActivePoints(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.SubmitRedemption(context.Background(), "g1", "u1", "help_others", "proof")
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestReviewRedemptionApproveCredits(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// 3 + 2 = 5 active points.
	if _, _, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeveritySevere, "a"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeverityModerate, "b"); err != nil {
		t.Fatal(err)
	}

	sub, err := env.svc.SubmitRedemption(ctx, "g1", "u1", "help_others", "proof")
	if err != nil {
		t.Fatal(err)
	}

	reviewed, dec, err := env.svc.ReviewRedemption(ctx, sub.ID, true, "mod2")
	if err != nil {
		t.Fatalf("ReviewRedemption() returned error: %v", err)
	}
	if reviewed.Status != models.SubmissionApproved {
		t.Errorf("Status = %v, want %v", reviewed.Status, models.SubmissionApproved)
	}
	if dec.Points != 3 {
		t.Errorf("Points = %d, want 3 (5 minus the 2-point credit)", dec.Points)
	}

	// The warnings themselves are untouched; only the credit moved.
	doc, err := env.svc.Infractions(ctx, "g1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if doc.RedemptionCredits != 2 {
		t.Errorf("RedemptionCredits = %d, want 2", doc.RedemptionCredits)
	}
	for _, w := range doc.Warnings {
		if w.Status != models.WarningActive {
			t.Errorf("warning %s Status = %v, want untouched active", w.ID, w.Status)
		}
	}
}

func TestReviewRedemptionSnapshotSurvivesCatalogEdit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, _, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeveritySevere, "a"); err != nil {
		t.Fatal(err)
	}

	sub, err := env.svc.SubmitRedemption(ctx, "g1", "u1", "help_others", "proof")
	if err != nil {
		t.Fatal(err)
	}

	// Bump the task to 5 points after the submission was filed.
	cfg, err := env.svc.GuildConfig(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	for i := range cfg.Tasks {
		if cfg.Tasks[i].ID == "help_others" {
			cfg.Tasks[i].PointValue = 5
		}
	}
	if err := env.configs.Put(ctx, cfg); err != nil {
		t.Fatal(err)
	}

	if _, _, err := env.svc.ReviewRedemption(ctx, sub.ID, true, "mod2"); err != nil {
		t.Fatal(err)
	}

	doc, err := env.svc.Infractions(ctx, "g1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if doc.RedemptionCredits != 2 {
		t.Errorf("RedemptionCredits = %d, want the snapshotted 2, not the edited 5", doc.RedemptionCredits)
	}
}

func TestReviewRedemptionReject(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, _, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeveritySevere, "a"); err != nil {
		t.Fatal(err)
	}
	sub, err := env.svc.SubmitRedemption(ctx, "g1", "u1", "help_others", "proof")
	if err != nil {
		t.Fatal(err)
	}

	reviewed, dec, err := env.svc.ReviewRedemption(ctx, sub.ID, false, "mod2")
	if err != nil {
		t.Fatalf("ReviewRedemption() returned error: %v", err)
	}
	if reviewed.Status != models.SubmissionRejected {
		t.Errorf("Status = %v, want %v", reviewed.Status, models.SubmissionRejected)
	}
	if dec != nil {
		t.Errorf("Decision = %+v, want nil on rejection", dec)
	}

	points, err := env.svc.ActivePoints(ctx, "g1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if points != 3 {
		t.Errorf("ActivePoints() = %d, want unchanged 3", points)
	}
}

func TestReviewRedemptionTwiceConflicts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, _, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeveritySevere, "a"); err != nil {
		t.Fatal(err)
	}
	sub, err := env.svc.SubmitRedemption(ctx, "g1", "u1", "help_others", "proof")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := env.svc.ReviewRedemption(ctx, sub.ID, true, "mod2"); err != nil {
		t.Fatal(err)
	}

	_, _, err = env.svc.ReviewRedemption(ctx, sub.ID, true, "mod2")
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestReviewRedemptionLiftsThreshold(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// 3 points sits exactly on the default mute threshold.
	_, dec, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeveritySevere, "a")
	if err != nil {
		t.Fatal(err)
	}
	if dec.Action == nil || dec.Action.Kind != models.ActionMute {
		t.Fatalf("Action after warning = %+v, want mute", dec.Action)
	}

	sub, err := env.svc.SubmitRedemption(ctx, "g1", "u1", "help_others", "proof")
	if err != nil {
		t.Fatal(err)
	}

	// The 2-point credit drops the total below the lowest threshold, so
	// the fresh decision carries no action for the caller to enforce.
	_, dec, err = env.svc.ReviewRedemption(ctx, sub.ID, true, "mod2")
	if err != nil {
		t.Fatalf("ReviewRedemption() returned error: %v", err)
	}
	if dec.Points != 1 {
		t.Errorf("Points = %d, want 1", dec.Points)
	}
	if dec.Action != nil {
		t.Errorf("Action = %+v, want nil once the threshold is lifted", dec.Action)
	}
}

func TestReviewRedemptionRetryableAfterCreditFailure(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	flaky := &flakyInfractions{memInfractions: env.infractions}
	svc := NewService(Deps{
		Infractions: flaky,
		Submissions: env.submissions,
		Configs:     env.configs,
		Clock:       env.clock,
		Notifier:    env.notifier,
	})

	if _, _, err := svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeveritySevere, "a"); err != nil {
		t.Fatal(err)
	}
	sub, err := svc.SubmitRedemption(ctx, "g1", "u1", "help_others", "proof")
	if err != nil {
		t.Fatal(err)
	}

	// The credit write fails, so the approval must not stick.
	flaky.setFailPuts(true)
	if _, _, err := svc.ReviewRedemption(ctx, sub.ID, true, "mod2"); !errors.Is(err, ErrStoreTimeout) {
		t.Fatalf("ReviewRedemption() error = %v, want ErrStoreTimeout", err)
	}

	stored, err := env.submissions.Get(ctx, sub.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.SubmissionPending {
		t.Fatalf("Status after failed credit = %v, want still pending", stored.Status)
	}
	doc, err := svc.Infractions(ctx, "g1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if doc.RedemptionCredits != 0 {
		t.Fatalf("RedemptionCredits = %d, want 0 after failed credit", doc.RedemptionCredits)
	}

	// The store recovers and the same review goes through.
	flaky.setFailPuts(false)
	reviewed, _, err := svc.ReviewRedemption(ctx, sub.ID, true, "mod2")
	if err != nil {
		t.Fatalf("retried ReviewRedemption() returned error: %v", err)
	}
	if reviewed.Status != models.SubmissionApproved {
		t.Errorf("Status = %v, want %v", reviewed.Status, models.SubmissionApproved)
	}
	doc, err = svc.Infractions(ctx, "g1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if doc.RedemptionCredits != 2 {
		t.Errorf("RedemptionCredits = %d, want 2 after the retry (credited once)", doc.RedemptionCredits)
	}
}

func TestConcurrentReviewsCreditOnce(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	if _, _, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeveritySevere, "a"); err != nil {
		t.Fatal(err)
	}
	sub, err := env.svc.SubmitRedemption(ctx, "g1", "u1", "help_others", "proof")
	if err != nil {
		t.Fatal(err)
	}

	const reviewers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	approved, conflicts := 0, 0
	for i := 0; i < reviewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := env.svc.ReviewRedemption(ctx, sub.ID, true, "mod2")
			mu.Lock()
			defer mu.Unlock()
			var cerr *ConflictError
			switch {
			case err == nil:
				approved++
			case errors.As(err, &cerr):
				conflicts++
			}
		}()
	}
	wg.Wait()

	if approved != 1 {
		t.Errorf("approved reviews = %d, want exactly 1", approved)
	}
	if conflicts != reviewers-1 {
		t.Errorf("conflicting reviews = %d, want %d", conflicts, reviewers-1)
	}

	doc, err := env.svc.Infractions(ctx, "g1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if doc.RedemptionCredits != 2 {
		t.Errorf("RedemptionCredits = %d, want the single 2-point credit", doc.RedemptionCredits)
	}
}

func TestSetTasksValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	err := env.svc.SetTasks(ctx, "g1", []models.RedemptionTask{
		{ID: "a", Name: "Tarea A", PointValue: 1},
		{ID: "a", Name: "Tarea A otra vez", PointValue: 2},
	})
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError for duplicate task ids, got %v", err)
	}

	err = env.svc.SetTasks(ctx, "g1", []models.RedemptionTask{
		{ID: "a", Name: "Tarea A", PointValue: 0},
	})
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError for non-positive point value, got %v", err)
	}

	want := []models.RedemptionTask{
		{ID: "a", Name: "Tarea A", PointValue: 1, ProofRequired: true},
	}
	if err := env.svc.SetTasks(ctx, "g1", want); err != nil {
		t.Fatalf("SetTasks() returned error: %v", err)
	}
	got, err := env.svc.Tasks(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("Tasks() = %+v, want %+v", got, want)
	}
}
