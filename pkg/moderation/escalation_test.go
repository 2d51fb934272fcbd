package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
)

func TestEscalationSelectsHighestSatisfiedThreshold(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Defaults: 3 -> mute 1h, 5 -> mute 24h, 7 -> kick, 10 -> ban.
	// A moderate (2) plus a severe (3) lands exactly on 5.
	if _, _, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeverityModerate, "a"); err != nil {
		t.Fatal(err)
	}
	_, dec, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeveritySevere, "b")
	if err != nil {
		t.Fatal(err)
	}

	if dec.Points != 5 {
		t.Fatalf("Points = %d, want 5", dec.Points)
	}
	if dec.Action == nil {
		t.Fatal("expected an action at 5 points")
	}
	if dec.Action.Kind != models.ActionMute {
		t.Errorf("Action = %v, want mute", dec.Action.Kind)
	}
	if dec.Action.Duration != 24*time.Hour {
		t.Errorf("Duration = %v, want 24h (the 5-point threshold, not the 3-point one)", dec.Action.Duration)
	}
}

func TestEscalationBelowLowestThreshold(t *testing.T) {
	env := newTestEnv()

	_, dec, err := env.svc.IssueWarning(context.Background(), "g1", "u1", "mod1", models.SeverityMinor, "a")
	if err != nil {
		t.Fatal(err)
	}
	if dec.Points != 1 {
		t.Errorf("Points = %d, want 1", dec.Points)
	}
	if dec.Action != nil {
		t.Errorf("Action = %v, want nil below 3 points", dec.Action)
	}
}

func TestEscalationBanAtTen(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	var dec *Decision
	var err error
	for i := 0; i < 4; i++ {
		_, dec, err = env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeveritySevere, "x")
		if err != nil {
			t.Fatal(err)
		}
	}

	if dec.Points != 12 {
		t.Fatalf("Points = %d, want 12", dec.Points)
	}
	if dec.Action == nil || dec.Action.Kind != models.ActionBan {
		t.Errorf("Action = %v, want ban past the highest threshold", dec.Action)
	}
}

func TestEvaluateUnknownUser(t *testing.T) {
	env := newTestEnv()

	dec, err := env.svc.Evaluate(context.Background(), "g1", "nobody")
	if err != nil {
		t.Fatalf("Evaluate() returned error: %v", err)
	}
	if dec.Points != 0 || dec.Action != nil {
		t.Errorf("Evaluate() = %+v, want zero points and no action", dec)
	}
}

func TestSetThresholdsRejectsNonIncreasing(t *testing.T) {
	env := newTestEnv()

	err := env.svc.SetThresholds(context.Background(), "g1", []models.EscalationThreshold{
		{Points: 5, Action: models.ActionKick},
		{Points: 3, Action: models.ActionBan},
	})
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}

	err = env.svc.SetThresholds(context.Background(), "g1", []models.EscalationThreshold{
		{Points: 5, Action: models.ActionKick},
		{Points: 5, Action: models.ActionBan},
	})
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError for duplicate points, got %v", err)
	}
}

func TestSetThresholdsRejectsMuteWithoutDuration(t *testing.T) {
	env := newTestEnv()

	err := env.svc.SetThresholds(context.Background(), "g1", []models.EscalationThreshold{
		{Points: 3, Action: models.ActionMute},
	})
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestSetThresholdsRejectsUnknownAction(t *testing.T) {
	env := newTestEnv()

	err := env.svc.SetThresholds(context.Background(), "g1", []models.EscalationThreshold{
		{Points: 3, Action: models.ThresholdAction("warn")},
	})
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestSetThresholdsStoresValidSet(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	want := []models.EscalationThreshold{
		{Points: 2, Action: models.ActionMute, Duration: 30 * time.Minute},
		{Points: 4, Action: models.ActionKick},
	}
	if err := env.svc.SetThresholds(ctx, "g1", want); err != nil {
		t.Fatalf("SetThresholds() returned error: %v", err)
	}

	got, err := env.svc.Thresholds(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Points != 2 || got[1].Points != 4 {
		t.Errorf("Thresholds() = %+v, want %+v", got, want)
	}

	// The new lowest threshold fires at 2 points now.
	_, dec, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeverityModerate, "x")
	if err != nil {
		t.Fatal(err)
	}
	if dec.Action == nil || dec.Action.Kind != models.ActionMute || dec.Action.Duration != 30*time.Minute {
		t.Errorf("Action = %v, want 30m mute under the replaced thresholds", dec.Action)
	}
}
