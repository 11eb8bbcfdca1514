package model

import (
	"time"
)

// Outcome is the terminal state of one application attempt.
type Outcome string

const (
	OutcomeSubmitted Outcome = "submitted"
	OutcomeAbandoned Outcome = "abandoned"
)

// ApplicationAttemptEntity is the ledger row written after every attempt,
// successful or not. The JSON catalogue stays the source of truth for dedup;
// this table exists for history and run summaries.
type ApplicationAttemptEntity struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	RunID      string    `gorm:"column:run_id;index"` // uuid of the run that made the attempt
	Platform   string    `gorm:"column:platform"`
	Keyword    string    `gorm:"column:keyword"`
	JobURL     string    `gorm:"column:job_url;index"`
	JobTitle   string    `gorm:"column:job_title"`
	Company    string    `gorm:"column:company"`
	Outcome    string    `gorm:"column:outcome"` // submitted / abandoned
	Steps      int       `gorm:"column:steps"`    // form steps walked before the terminal state
	Answered   int       `gorm:"column:answered"` // screening questions filled
	StartedAt  time.Time `gorm:"column:started_at"`
	FinishedAt time.Time `gorm:"column:finished_at"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (ApplicationAttemptEntity) TableName() string {
	return "application_attempt"
}
