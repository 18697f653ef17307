package v1alpha1

import (
	"time"
)

// Dataset is one of the seeded benchmark datasets.
type Dataset struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Algorithm is one of the seeded filtering/matching implementations.
type Algorithm struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Scenarios []string `json:"scenarios"`
	Params    []string `json:"params"`
}

// Job is one benchmark run request: a dataset plus a filtering and a
// matching algorithm configuration.
type Job struct {
	Id               string         `json:"id"`
	Status           string         `json:"status"`
	DatasetId        string         `json:"datasetId"`
	FilteringAlgoId  string         `json:"filteringAlgoId"`
	FilteringParams  map[string]any `json:"filteringParams,omitempty"`
	MatchingAlgoId   string         `json:"matchingAlgoId"`
	MatchingParams   map[string]any `json:"matchingParams,omitempty"`
	NotifyEmail      *string        `json:"notifyEmail,omitempty"`
	FilteringSlurmId *string        `json:"filteringSlurmId,omitempty"`
	MatchingSlurmId  *string        `json:"matchingSlurmId,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`

	Dataset       *Dataset   `json:"dataset,omitempty"`
	FilteringAlgo *Algorithm `json:"filteringAlgo,omitempty"`
	MatchingAlgo  *Algorithm `json:"matchingAlgo,omitempty"`
	Result        *Result    `json:"result,omitempty"`
}

// Result is the flat bag of metrics attached one-to-one to a job. All fields
// are optional: intermediate phases report a different subset than the final
// one, and omitted fields never clear stored values.
type Result struct {
	JobId string `json:"jobId"`

	F1        *float64 `json:"f1,omitempty"`
	Precision *float64 `json:"precision,omitempty"`
	Recall    *float64 `json:"recall,omitempty"`
	TrainTime *float64 `json:"trainTime,omitempty"`
	EvalTime  *float64 `json:"evalTime,omitempty"`

	FilteringF1         *float64 `json:"filteringF1,omitempty"`
	FilteringPrecision  *float64 `json:"filteringPrecision,omitempty"`
	FilteringRecall     *float64 `json:"filteringRecall,omitempty"`
	FilteringTime       *float64 `json:"filteringTime,omitempty"`
	FilteringCandidates *float64 `json:"filteringCandidates,omitempty"`
	FilteringEntriesA   *float64 `json:"filteringEntriesA,omitempty"`
	FilteringEntriesB   *float64 `json:"filteringEntriesB,omitempty"`
	FilteringMatches    *float64 `json:"filteringMatches,omitempty"`

	CpuUtilized    *float64 `json:"cpuUtilized,omitempty"`
	MemoryUtilized *float64 `json:"memoryUtilized,omitempty"`
	GpuAllocated   *float64 `json:"gpuAllocated,omitempty"`
	GpuUtilized    *float64 `json:"gpuUtilized,omitempty"`
	GpuMemUtilized *float64 `json:"gpuMemUtilized,omitempty"`
	EnergyConsumed *float64 `json:"energyConsumed,omitempty"`
	TotalRuntime   *float64 `json:"totalRuntime,omitempty"`
}

// Prediction is a single scored candidate pair produced by a worker.
type Prediction struct {
	TableAId    string  `json:"tableA_id"`
	TableBId    string  `json:"tableB_id"`
	Probability float64 `json:"probability"`
}

// SubmitJobRequest is the body of POST /jobs.
type SubmitJobRequest struct {
	DatasetId       string         `json:"datasetId" validate:"required"`
	FilteringAlgoId string         `json:"filteringAlgoId" validate:"required"`
	FilteringParams map[string]any `json:"filteringParams,omitempty"`
	MatchingAlgoId  string         `json:"matchingAlgoId" validate:"required"`
	MatchingParams  map[string]any `json:"matchingParams,omitempty"`
	NotifyEmail     *string        `json:"notifyEmail,omitempty" validate:"omitempty,email"`
	Force           bool           `json:"force,omitempty"`
}

// UpdateJobRequest is the body of PUT /jobs/{id}: a status change plus the
// scheduler handles assigned by the worker.
type UpdateJobRequest struct {
	Status           string  `json:"status" validate:"required,job_status"`
	FilteringSlurmId *string `json:"filteringSlurmId,omitempty"`
	MatchingSlurmId  *string `json:"matchingSlurmId,omitempty"`
}

// UpdateJobResultRequest is the body of PUT /jobs/{id}/result: a status
// change carrying whatever metric subset the worker measured.
type UpdateJobResultRequest struct {
	Status string `json:"status" validate:"required,job_status"`

	F1        *float64 `json:"f1,omitempty"`
	Precision *float64 `json:"precision,omitempty"`
	Recall    *float64 `json:"recall,omitempty"`
	TrainTime *float64 `json:"trainTime,omitempty"`
	EvalTime  *float64 `json:"evalTime,omitempty"`

	FilteringF1         *float64 `json:"filteringF1,omitempty"`
	FilteringPrecision  *float64 `json:"filteringPrecision,omitempty"`
	FilteringRecall     *float64 `json:"filteringRecall,omitempty"`
	FilteringTime       *float64 `json:"filteringTime,omitempty"`
	FilteringCandidates *float64 `json:"filteringCandidates,omitempty"`
	FilteringEntriesA   *float64 `json:"filteringEntriesA,omitempty"`
	FilteringEntriesB   *float64 `json:"filteringEntriesB,omitempty"`
	FilteringMatches    *float64 `json:"filteringMatches,omitempty"`

	CpuUtilized    *float64 `json:"cpuUtilized,omitempty"`
	MemoryUtilized *float64 `json:"memoryUtilized,omitempty"`
	GpuAllocated   *float64 `json:"gpuAllocated,omitempty"`
	GpuUtilized    *float64 `json:"gpuUtilized,omitempty"`
	GpuMemUtilized *float64 `json:"gpuMemUtilized,omitempty"`
	EnergyConsumed *float64 `json:"energyConsumed,omitempty"`
	TotalRuntime   *float64 `json:"totalRuntime,omitempty"`
}

// Error is the uniform error envelope.
type Error struct {
	Error string `json:"error"`
}
