package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Prediction is one scored candidate pair. Rows are append-only; the unique
// index over (job_id, table_a_id, table_b_id) makes duplicate appends no-ops.
// The autoincrement id preserves insertion order for stable pagination.
type Prediction struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	JobID       uuid.UUID `gorm:"not null;uniqueIndex:predictions_job_pair_idx"`
	TableAID    string    `gorm:"column:table_a_id;type:VARCHAR(255);not null;uniqueIndex:predictions_job_pair_idx"`
	TableBID    string    `gorm:"column:table_b_id;type:VARCHAR(255);not null;uniqueIndex:predictions_job_pair_idx"`
	Probability float64   `gorm:"not null"`
}

type PredictionList []Prediction

func (p Prediction) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}
