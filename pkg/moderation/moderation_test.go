package moderation

import (
	"context"
	"sync"
	"time"

	"github.com/VigilStudios/VigilBotGo/pkg/models"
)

// fakeClock is a manually advanced clock for deterministic tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memInfractions is an in-memory InfractionStore keyed by guild:user.
type memInfractions struct {
	mu   sync.Mutex
	docs map[string]*models.InfractionsDocument
}

func newMemInfractions() *memInfractions {
	return &memInfractions{docs: make(map[string]*models.InfractionsDocument)}
}

func (m *memInfractions) key(guildID, userID string) string {
	return guildID + ":" + userID
}

func (m *memInfractions) Get(ctx context.Context, guildID, userID string) (*models.InfractionsDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[m.key(guildID, userID)]
	if !ok {
		return nil, nil
	}
	cp := cloneDoc(doc)
	return cp, nil
}

func (m *memInfractions) Put(ctx context.Context, doc *models.InfractionsDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[m.key(doc.GuildID, doc.UserID)] = cloneDoc(doc)
	return nil
}

func (m *memInfractions) ListUsers(ctx context.Context, guildID string) ([]*models.InfractionsDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.InfractionsDocument
	for _, doc := range m.docs {
		if doc.GuildID == guildID {
			out = append(out, cloneDoc(doc))
		}
	}
	return out, nil
}

func (m *memInfractions) ListGuilds(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, doc := range m.docs {
		if !seen[doc.GuildID] {
			seen[doc.GuildID] = true
			out = append(out, doc.GuildID)
		}
	}
	return out, nil
}

func cloneDoc(doc *models.InfractionsDocument) *models.InfractionsDocument {
	cp := *doc
	cp.Warnings = append([]models.Warning(nil), doc.Warnings...)
	cp.Appeals = append([]models.Appeal(nil), doc.Appeals...)
	return &cp
}

// memSubmissions is an in-memory SubmissionStore.
type memSubmissions struct {
	mu   sync.Mutex
	subs map[string]*models.RedemptionSubmission
}

func newMemSubmissions() *memSubmissions {
	return &memSubmissions{subs: make(map[string]*models.RedemptionSubmission)}
}

func (m *memSubmissions) Get(ctx context.Context, id string) (*models.RedemptionSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subs[id]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (m *memSubmissions) Put(ctx context.Context, sub *models.RedemptionSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.subs[sub.ID] = &cp
	return nil
}

func (m *memSubmissions) ListPending(ctx context.Context, guildID string) ([]*models.RedemptionSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.RedemptionSubmission
	for _, sub := range m.subs {
		if sub.GuildID == guildID && sub.Status == models.SubmissionPending {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

// memConfigs is an in-memory ConfigStore.
type memConfigs struct {
	mu   sync.Mutex
	cfgs map[string]*models.GuildModConfig
}

func newMemConfigs() *memConfigs {
	return &memConfigs{cfgs: make(map[string]*models.GuildModConfig)}
}

func (m *memConfigs) Get(ctx context.Context, guildID string) (*models.GuildModConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, ok := m.cfgs[guildID]
	if !ok {
		return nil, nil
	}
	cp := *cfg
	return &cp, nil
}

func (m *memConfigs) Put(ctx context.Context, cfg *models.GuildModConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cfg
	m.cfgs[cfg.GuildID] = &cp
	return nil
}

// recordingNotifier captures published events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *recordingNotifier) Notify(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) byType(t EventType) []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Event
	for _, ev := range n.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// testEnv bundles a service with its fakes.
type testEnv struct {
	svc         *Service
	clock       *fakeClock
	infractions *memInfractions
	submissions *memSubmissions
	configs     *memConfigs
	notifier    *recordingNotifier
}

func newTestEnv() *testEnv {
	env := &testEnv{
		clock:       newFakeClock(),
		infractions: newMemInfractions(),
		submissions: newMemSubmissions(),
		configs:     newMemConfigs(),
		notifier:    &recordingNotifier{},
	}
	env.svc = NewService(Deps{
		Infractions: env.infractions,
		Submissions: env.submissions,
		Configs:     env.configs,
		Clock:       env.clock,
		Notifier:    env.notifier,
	})
	return env
}
