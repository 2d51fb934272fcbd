// Package models contains the persisted document types for the bot.
package models

import "time"

// Severity indicates how serious a warning is. The point value of each
// severity level is guild-configurable (see GuildModConfig).
type Severity int

const (
	SeverityMinor    Severity = 1
	SeverityModerate Severity = 2
	SeveritySevere   Severity = 3
)

// Valid reports whether the severity is one of the three known levels.
func (s Severity) Valid() bool {
	return s >= SeverityMinor && s <= SeveritySevere
}

// String returns the severity level as a readable name.
func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "minor"
	case SeverityModerate:
		return "moderate"
	case SeveritySevere:
		return "severe"
	default:
		return "unknown"
	}
}

// WarningStatus is the lifecycle state of a warning.
type WarningStatus string

const (
	WarningActive     WarningStatus = "active"
	WarningExpired    WarningStatus = "expired"
	WarningAppealed   WarningStatus = "appealed"
	WarningOverturned WarningStatus = "overturned"
	WarningRedeemed   WarningStatus = "redeemed"
)

// Warning is a single moderation warning issued against a user.
// A warning only contributes points while its status is active and it has
// not passed its expiry time.
type Warning struct {
	ID          string        `bson:"id" json:"id"`
	IssuerID    string        `bson:"issuerId" json:"issuerId"`
	Severity    Severity      `bson:"severity" json:"severity"`
	Reason      string        `bson:"reason" json:"reason"`
	Status      WarningStatus `bson:"status" json:"status"`
	IssuedAt    time.Time     `bson:"issuedAt" json:"issuedAt"`
	ExpiresAt   time.Time     `bson:"expiresAt" json:"expiresAt"`
	// PriorStatus holds the status a warning had before a pending appeal
	// froze it, so a denied appeal can restore it.
	PriorStatus WarningStatus `bson:"priorStatus,omitempty" json:"priorStatus,omitempty"`
	// OriginGuildID is set on warnings imported from another server.
	OriginGuildID string  `bson:"originGuildId,omitempty" json:"originGuildId,omitempty"`
	Weight        float64 `bson:"weight" json:"weight"`
}

// AppealStatus is the review state of an appeal.
type AppealStatus string

const (
	AppealPending  AppealStatus = "pending"
	AppealApproved AppealStatus = "approved"
	AppealDenied   AppealStatus = "denied"
)

// Appeal is a user's contest of a specific warning.
type Appeal struct {
	ID         string       `bson:"id" json:"id"`
	WarningID  string       `bson:"warningId" json:"warningId"`
	Reason     string       `bson:"reason" json:"reason"`
	Status     AppealStatus `bson:"status" json:"status"`
	ReviewerID string       `bson:"reviewerId,omitempty" json:"reviewerId,omitempty"`
	Note       string       `bson:"note,omitempty" json:"note,omitempty"`
	FiledAt    time.Time    `bson:"filedAt" json:"filedAt"`
	ReviewedAt time.Time    `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
}

// InfractionsDocument is the complete moderation record of one user in one
// guild, stored in the "infractions" collection. All mutations replace the
// whole document so each operation is a single atomic upsert.
type InfractionsDocument struct {
	GuildID  string    `bson:"guildId" json:"guildId"`
	UserID   string    `bson:"userId" json:"userId"`
	Warnings []Warning `bson:"warnings" json:"warnings"`
	Appeals  []Appeal  `bson:"appeals" json:"appeals"`
	// RedemptionCredits is the sum of approved redemption task points.
	// It offsets the active point total down to a floor of zero; existing
	// warnings are never mutated by a redemption.
	RedemptionCredits int       `bson:"redemptionCredits" json:"redemptionCredits"`
	LastAppealAt      time.Time `bson:"lastAppealAt,omitempty" json:"lastAppealAt,omitempty"`
}

// FindWarning returns the warning with the given ID, or nil.
func (d *InfractionsDocument) FindWarning(id string) *Warning {
	for i := range d.Warnings {
		if d.Warnings[i].ID == id {
			return &d.Warnings[i]
		}
	}
	return nil
}

// FindAppeal returns the appeal with the given ID, or nil.
func (d *InfractionsDocument) FindAppeal(id string) *Appeal {
	for i := range d.Appeals {
		if d.Appeals[i].ID == id {
			return &d.Appeals[i]
		}
	}
	return nil
}
