package moderation

import (
	"context"
	"sync"
	"testing"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
)

func TestKeyedMutexCleansUpEntries(t *testing.T) {
	km := newKeyedMutex()

	km.lock("a")
	km.unlock("a")

	km.mu.Lock()
	n := len(km.locks)
	km.mu.Unlock()
	if n != 0 {
		t.Errorf("locks map has %d entries, want 0 after release", n)
	}
}

func TestConcurrentWarningsAllRecorded(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _, err := env.svc.IssueWarning(ctx, "g1", "u1", "mod1", models.SeverityMinor, "carrera")
			if err != nil {
				t.Errorf("IssueWarning() returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	doc, err := env.svc.Infractions(ctx, "g1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Warnings) != workers {
		t.Errorf("Warnings = %d, want %d (no lost updates)", len(doc.Warnings), workers)
	}

	points, err := env.svc.ActivePoints(ctx, "g1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if points != workers {
		t.Errorf("ActivePoints() = %d, want %d", points, workers)
	}
}
