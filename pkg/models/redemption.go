package models

import "time"

// RedemptionTask is an entry of the guild's remedial task catalog.
type RedemptionTask struct {
	ID            string `bson:"id" json:"id"`
	Name          string `bson:"name" json:"name"`
	PointValue    int    `bson:"pointValue" json:"pointValue"`
	ProofRequired bool   `bson:"proofRequired" json:"proofRequired"`
}

// SubmissionStatus is the review state of a redemption submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// RedemptionSubmission is a user's claim of having completed a redemption
// task, stored in the "redemption_submissions" collection keyed by ID.
// PointValue is snapshotted at submission time so later catalog edits do
// not change what an approval credits.
type RedemptionSubmission struct {
	ID          string           `bson:"_id" json:"id"`
	GuildID     string           `bson:"guildId" json:"guildId"`
	UserID      string           `bson:"userId" json:"userId"`
	TaskID      string           `bson:"taskId" json:"taskId"`
	PointValue  int              `bson:"pointValue" json:"pointValue"`
	Proof       string           `bson:"proof,omitempty" json:"proof,omitempty"`
	Status      SubmissionStatus `bson:"status" json:"status"`
	ReviewerID  string           `bson:"reviewerId,omitempty" json:"reviewerId,omitempty"`
	SubmittedAt time.Time        `bson:"submittedAt" json:"submittedAt"`
	ReviewedAt  time.Time        `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
}
