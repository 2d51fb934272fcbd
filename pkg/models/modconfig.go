package models

import "time"

// ThresholdAction is what the escalation engine decides once a point
// threshold is crossed.
type ThresholdAction string

const (
	ActionMute ThresholdAction = "mute"
	ActionKick ThresholdAction = "kick"
	ActionBan  ThresholdAction = "ban"
)

// Valid reports whether the action is one of the known kinds.
func (a ThresholdAction) Valid() bool {
	return a == ActionMute || a == ActionKick || a == ActionBan
}

// EscalationThreshold maps an active point total to a punitive action.
// Duration only applies to mutes.
type EscalationThreshold struct {
	Points   int             `bson:"points" json:"points"`
	Action   ThresholdAction `bson:"action" json:"action"`
	Duration time.Duration   `bson:"duration,omitempty" json:"duration,omitempty"`
}

// SeverityValues holds one integer per severity level.
type SeverityValues struct {
	Minor    int `bson:"minor" json:"minor"`
	Moderate int `bson:"moderate" json:"moderate"`
	Severe   int `bson:"severe" json:"severe"`
}

// For returns the value configured for the given severity.
func (v SeverityValues) For(s Severity) int {
	switch s {
	case SeverityModerate:
		return v.Moderate
	case SeveritySevere:
		return v.Severe
	default:
		return v.Minor
	}
}

// SeverityDurations holds one duration per severity level.
type SeverityDurations struct {
	Minor    time.Duration `bson:"minor" json:"minor"`
	Moderate time.Duration `bson:"moderate" json:"moderate"`
	Severe   time.Duration `bson:"severe" json:"severe"`
}

// For returns the duration configured for the given severity.
func (v SeverityDurations) For(s Severity) time.Duration {
	switch s {
	case SeverityModerate:
		return v.Moderate
	case SeveritySevere:
		return v.Severe
	default:
		return v.Minor
	}
}

// TransferPolicy controls how warnings move between servers.
type TransferPolicy struct {
	// AcceptTransfers allows this guild to receive warnings issued
	// elsewhere.
	AcceptTransfers bool `bson:"acceptTransfers" json:"acceptTransfers"`
	// ShareWarnings allows warnings issued here to be copied to other
	// guilds.
	ShareWarnings bool `bson:"shareWarnings" json:"shareWarnings"`
	// CarryOriginal keeps the source warning's issue and expiry times on
	// import; otherwise the clock restarts under this guild's expiry
	// settings.
	CarryOriginal bool `bson:"carryOriginal" json:"carryOriginal"`
	// Weight scales the point contribution of imported warnings (0..1].
	Weight float64 `bson:"weight" json:"weight"`
}

// GuildModConfig is the per-guild moderation configuration, stored in the
// "mod_config" collection keyed by guild ID. Guilds without a stored
// document use the defaults.
type GuildModConfig struct {
	GuildID        string                `bson:"guildId" json:"guildId"`
	SeverityPoints SeverityValues        `bson:"severityPoints" json:"severityPoints"`
	WarningExpiry  SeverityDurations     `bson:"warningExpiry" json:"warningExpiry"`
	Thresholds     []EscalationThreshold `bson:"thresholds" json:"thresholds"`
	Tasks          []RedemptionTask      `bson:"tasks" json:"tasks"`

	RequireReason   bool          `bson:"requireReason" json:"requireReason"`
	AllowAppeals    bool          `bson:"allowAppeals" json:"allowAppeals"`
	AppealCooldown  time.Duration `bson:"appealCooldown" json:"appealCooldown"`
	DMNotifications bool          `bson:"dmNotifications" json:"dmNotifications"`
	// AutoReversal lifts an applied punishment automatically when an
	// appeal or redemption drops the user below the acted-on threshold.
	// When false the drop is surfaced as a notification only.
	AutoReversal  bool          `bson:"autoReversal" json:"autoReversal"`
	SweepInterval time.Duration `bson:"sweepInterval" json:"sweepInterval"`
	LogChannelID  string        `bson:"logChannelId,omitempty" json:"logChannelId,omitempty"`

	Transfer TransferPolicy `bson:"transfer" json:"transfer"`
}

// Clone returns a copy that shares no memory with the receiver, so a
// cached config can be handed out and edited freely by the caller.
func (c *GuildModConfig) Clone() *GuildModConfig {
	cp := *c
	cp.Thresholds = append([]EscalationThreshold(nil), c.Thresholds...)
	cp.Tasks = append([]RedemptionTask(nil), c.Tasks...)
	return &cp
}

// FindTask returns the catalog task with the given ID, or nil.
func (c *GuildModConfig) FindTask(id string) *RedemptionTask {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return &c.Tasks[i]
		}
	}
	return nil
}
