package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job status constants
const (
	JobStatusPending   = "pending"
	JobStatusQueued    = "queued"
	JobStatusFiltering = "filtering"
	JobStatusMatching  = "matching"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// statusRank orders the lifecycle. A transition may only move to a strictly
// higher rank; completed and failed are terminal.
var statusRank = map[string]int{
	JobStatusPending:   0,
	JobStatusQueued:    1,
	JobStatusFiltering: 2,
	JobStatusMatching:  3,
	JobStatusCompleted: 4,
	JobStatusFailed:    4,
}

// KnownStatus reports whether s is a recognized lifecycle state.
func KnownStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

// TerminalStatus reports whether s admits no further transitions.
func TerminalStatus(s string) bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// LegalTransition reports whether a job may move from one status to another.
// Re-applying the current status is always legal, making status updates
// idempotent for retrying callers.
func LegalTransition(from, to string) bool {
	if from == to {
		return true
	}
	if TerminalStatus(from) {
		return false
	}
	return statusRank[to] > statusRank[from]
}

type Job struct {
	ID              uuid.UUID                  `gorm:"primaryKey"`
	Status          string                     `gorm:"type:VARCHAR(50);not null;default:pending;index"`
	DatasetID       string                     `gorm:"type:VARCHAR(100);not null;index:jobs_dedup_idx"`
	FilteringAlgoID string                     `gorm:"type:VARCHAR(100);not null;index:jobs_dedup_idx"`
	FilteringParams *JSONField[map[string]any] `gorm:"type:jsonb"`
	MatchingAlgoID  string                     `gorm:"type:VARCHAR(100);not null;index:jobs_dedup_idx"`
	MatchingParams  *JSONField[map[string]any] `gorm:"type:jsonb"`
	NotifyEmail     *string                    `gorm:"type:VARCHAR(255)"`

	// Scheduler handles reported back by the worker, one per phase.
	FilteringSlurmID *string `gorm:"type:VARCHAR(100)"`
	MatchingSlurmID  *string `gorm:"type:VARCHAR(100)"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt *time.Time

	Dataset       *Dataset     `gorm:"foreignKey:DatasetID;references:Code"`
	FilteringAlgo *Algorithm   `gorm:"foreignKey:FilteringAlgoID;references:Code"`
	MatchingAlgo  *Algorithm   `gorm:"foreignKey:MatchingAlgoID;references:Code"`
	Result        *Result      `gorm:"foreignKey:JobID;references:ID"`
	Predictions   []Prediction `gorm:"foreignKey:JobID;references:ID"`
}

type JobList []Job

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}
