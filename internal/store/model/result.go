package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Result is the one-to-one metric bag for a job. Every metric is nullable:
// the filtering phase reports a different subset than the matching phase,
// and an upsert only touches the columns its caller supplied.
type Result struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	JobID uuid.UUID `gorm:"not null;uniqueIndex"`

	F1        *float64
	Precision *float64
	Recall    *float64
	TrainTime *float64
	EvalTime  *float64

	FilteringF1         *float64
	FilteringPrecision  *float64
	FilteringRecall     *float64
	FilteringTime       *float64
	FilteringCandidates *float64
	FilteringEntriesA   *float64
	FilteringEntriesB   *float64
	FilteringMatches    *float64

	CpuUtilized    *float64
	MemoryUtilized *float64
	GpuAllocated   *float64
	GpuUtilized    *float64
	GpuMemUtilized *float64
	EnergyConsumed *float64
	TotalRuntime   *float64

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt *time.Time
}

func (r Result) String() string {
	val, _ := json.Marshal(r)
	return string(val)
}
