package moderation

// Service wires the warning ledger, the escalation engine and the appeal
// and redemption workflows on top of the injected stores. One Service
// serves every guild; per-(guild, user) mutations are serialized through
// a keyed mutex while reads always derive fresh totals from stored state.
type Service struct {
	infractions InfractionStore
	submissions SubmissionStore
	configs     ConfigStore
	clock       Clock
	notifier    Notifier
	locks       *keyedMutex
}

// Deps carries the collaborators of a Service.
type Deps struct {
	Infractions InfractionStore
	Submissions SubmissionStore
	Configs     ConfigStore
	// Clock defaults to the system clock when nil.
	Clock Clock
	// Notifier defaults to a no-op when nil.
	Notifier Notifier
}

// NewService builds a Service from its dependencies.
func NewService(deps Deps) *Service {
	if deps.Clock == nil {
		deps.Clock = SystemClock()
	}
	if deps.Notifier == nil {
		deps.Notifier = NopNotifier()
	}
	return &Service{
		infractions: deps.Infractions,
		submissions: deps.Submissions,
		configs:     deps.Configs,
		clock:       deps.Clock,
		notifier:    deps.Notifier,
		locks:       newKeyedMutex(),
	}
}
