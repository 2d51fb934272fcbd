package moderation

import "time"

// EventType identifies what happened on a guild's moderation ledger.
type EventType string

const (
	EventWarningIssued      EventType = "warning_issued"
	EventWarningDeleted     EventType = "warning_deleted"
	EventWarningExpired     EventType = "warning_expired"
	EventWarningTransferred EventType = "warning_transferred"
	EventAppealFiled        EventType = "appeal_filed"
	EventAppealDecided      EventType = "appeal_decided"
	EventRedemptionFiled    EventType = "redemption_filed"
	EventRedemptionReviewed EventType = "redemption_reviewed"
	EventEscalation         EventType = "escalation"
)

// Event is a moderation ledger change, published to the MQTT broker and
// the live web feed after the change has been committed.
type Event struct {
	Type      EventType `json:"type"`
	GuildID   string    `json:"guildId"`
	UserID    string    `json:"userId"`
	WarningID string    `json:"warningId,omitempty"`
	Points    int       `json:"points"`
	Action    string    `json:"action,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	At        time.Time `json:"at"`
}

// Notifier receives committed moderation events. Implementations must not
// block; slow delivery happens on the implementation's own goroutines.
type Notifier interface {
	Notify(ev Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}

// NopNotifier returns a Notifier that discards every event.
func NopNotifier() Notifier { return nopNotifier{} }

type multiNotifier []Notifier

func (m multiNotifier) Notify(ev Event) {
	for _, n := range m {
		n.Notify(ev)
	}
}

// MultiNotifier fans an event out to every given notifier.
func MultiNotifier(notifiers ...Notifier) Notifier {
	return multiNotifier(notifiers)
}
