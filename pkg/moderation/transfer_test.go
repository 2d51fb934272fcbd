package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
)

func setupTransferGuilds(t *testing.T, env *testEnv, weight float64, carryOriginal bool) {
	t.Helper()
	ctx := context.Background()

	src := DefaultGuildConfig("src")
	src.Transfer.ShareWarnings = true
	if err := env.configs.Put(ctx, src); err != nil {
		t.Fatal(err)
	}

	dst := DefaultGuildConfig("dst")
	dst.Transfer.AcceptTransfers = true
	dst.Transfer.Weight = weight
	dst.Transfer.CarryOriginal = carryOriginal
	if err := env.configs.Put(ctx, dst); err != nil {
		t.Fatal(err)
	}
}

func TestTransferWarning(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	setupTransferGuilds(t, env, 0.5, true)

	w, _, err := env.svc.IssueWarning(ctx, "src", "u1", "mod1", models.SeveritySevere, "spam")
	if err != nil {
		t.Fatal(err)
	}

	copied, dec, err := env.svc.TransferWarning(ctx, "src", "dst", "u1", w.ID)
	if err != nil {
		t.Fatalf("TransferWarning() returned error: %v", err)
	}
	if copied.ID == w.ID {
		t.Error("the copy must get a fresh ID")
	}
	if copied.OriginGuildID != "src" {
		t.Errorf("OriginGuildID = %q, want %q", copied.OriginGuildID, "src")
	}
	if copied.Weight != 0.5 {
		t.Errorf("Weight = %v, want 0.5", copied.Weight)
	}
	if !copied.IssuedAt.Equal(w.IssuedAt) {
		t.Errorf("IssuedAt = %v, want the original %v under CarryOriginal", copied.IssuedAt, w.IssuedAt)
	}

	// Severe (3) at weight 0.5 floors to 1 point in the target guild.
	if dec.Points != 1 {
		t.Errorf("Points = %d, want 1", dec.Points)
	}

	// The source record is untouched.
	srcDoc, err := env.svc.Infractions(ctx, "src", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(srcDoc.Warnings) != 1 || srcDoc.Warnings[0].Status != models.WarningActive {
		t.Errorf("source record changed: %+v", srcDoc.Warnings)
	}
}

func TestTransferWarningRestartsClock(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	setupTransferGuilds(t, env, 1.0, false)

	w, _, err := env.svc.IssueWarning(ctx, "src", "u1", "mod1", models.SeverityMinor, "a")
	if err != nil {
		t.Fatal(err)
	}

	env.clock.Advance(20 * 24 * time.Hour)

	copied, _, err := env.svc.TransferWarning(ctx, "src", "dst", "u1", w.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !copied.IssuedAt.Equal(env.clock.Now()) {
		t.Errorf("IssuedAt = %v, want restarted at transfer time %v", copied.IssuedAt, env.clock.Now())
	}
	wantExpiry := env.clock.Now().Add(30 * 24 * time.Hour)
	if !copied.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("ExpiresAt = %v, want %v under the target guild's minor expiry", copied.ExpiresAt, wantExpiry)
	}
}

func TestTransferWarningPolicyGates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Defaults neither share nor accept.
	w, _, err := env.svc.IssueWarning(ctx, "src", "u1", "mod1", models.SeverityMinor, "a")
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = env.svc.TransferWarning(ctx, "src", "dst", "u1", w.ID)
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError when the source does not share, got %v", err)
	}

	src := DefaultGuildConfig("src")
	src.Transfer.ShareWarnings = true
	if err := env.configs.Put(ctx, src); err != nil {
		t.Fatal(err)
	}

	_, _, err = env.svc.TransferWarning(ctx, "src", "dst", "u1", w.ID)
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError when the target does not accept, got %v", err)
	}
}

func TestTransferWarningSameGuild(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.svc.TransferWarning(context.Background(), "g1", "g1", "u1", "w1")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestTransferWarningOnlyActive(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	setupTransferGuilds(t, env, 1.0, true)

	w, _, err := env.svc.IssueWarning(ctx, "src", "u1", "mod1", models.SeverityMinor, "a")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.svc.FileAppeal(ctx, "src", "u1", w.ID, "x"); err != nil {
		t.Fatal(err)
	}

	_, _, err = env.svc.TransferWarning(ctx, "src", "dst", "u1", w.ID)
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError for a frozen warning, got %v", err)
	}
}
