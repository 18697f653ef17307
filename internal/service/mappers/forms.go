package mappers

import (
	"github.com/google/uuid"

	api "github.com/erbench/erbench/api/v1alpha1"
	"github.com/erbench/erbench/internal/store/model"
)

// SubmitForm is the validated input of the submission service.
type SubmitForm struct {
	DatasetID       string
	FilteringAlgoID string
	FilteringParams map[string]any
	MatchingAlgoID  string
	MatchingParams  map[string]any
	NotifyEmail     *string
	Force           bool
}

func (f SubmitForm) ToJob() model.Job {
	job := model.Job{
		ID:              uuid.New(),
		Status:          model.JobStatusPending,
		DatasetID:       f.DatasetID,
		FilteringAlgoID: f.FilteringAlgoID,
		MatchingAlgoID:  f.MatchingAlgoID,
		NotifyEmail:     f.NotifyEmail,
	}
	if len(f.FilteringParams) > 0 {
		job.FilteringParams = model.MakeJSONField(f.FilteringParams)
	}
	if len(f.MatchingParams) > 0 {
		job.MatchingParams = model.MakeJSONField(f.MatchingParams)
	}
	return job
}

// StatusUpdateForm carries a lifecycle transition and whatever metric subset
// the worker reported alongside it.
type StatusUpdateForm struct {
	JobID            uuid.UUID
	Status           string
	FilteringSlurmID *string
	MatchingSlurmID  *string
	Result           model.Result
	// ResultFields names the metric columns actually present in the request;
	// the upsert touches only these.
	ResultFields []string
}

// ResultForm maps the wire metric fields onto a model.Result and records
// which columns were supplied.
func ResultForm(jobID uuid.UUID, r api.UpdateJobResultRequest) (model.Result, []string) {
	result := model.Result{JobID: jobID}
	fields := make([]string, 0)

	set := func(column string, dst **float64, src *float64) {
		if src != nil {
			*dst = src
			fields = append(fields, column)
		}
	}

	set("f1", &result.F1, r.F1)
	set("precision", &result.Precision, r.Precision)
	set("recall", &result.Recall, r.Recall)
	set("train_time", &result.TrainTime, r.TrainTime)
	set("eval_time", &result.EvalTime, r.EvalTime)

	set("filtering_f1", &result.FilteringF1, r.FilteringF1)
	set("filtering_precision", &result.FilteringPrecision, r.FilteringPrecision)
	set("filtering_recall", &result.FilteringRecall, r.FilteringRecall)
	set("filtering_time", &result.FilteringTime, r.FilteringTime)
	set("filtering_candidates", &result.FilteringCandidates, r.FilteringCandidates)
	set("filtering_entries_a", &result.FilteringEntriesA, r.FilteringEntriesA)
	set("filtering_entries_b", &result.FilteringEntriesB, r.FilteringEntriesB)
	set("filtering_matches", &result.FilteringMatches, r.FilteringMatches)

	set("cpu_utilized", &result.CpuUtilized, r.CpuUtilized)
	set("memory_utilized", &result.MemoryUtilized, r.MemoryUtilized)
	set("gpu_allocated", &result.GpuAllocated, r.GpuAllocated)
	set("gpu_utilized", &result.GpuUtilized, r.GpuUtilized)
	set("gpu_mem_utilized", &result.GpuMemUtilized, r.GpuMemUtilized)
	set("energy_consumed", &result.EnergyConsumed, r.EnergyConsumed)
	set("total_runtime", &result.TotalRuntime, r.TotalRuntime)

	return result, fields
}

// PredictionRows maps wire prediction tuples onto models for one job.
func PredictionRows(jobID uuid.UUID, rows []api.Prediction) model.PredictionList {
	out := make(model.PredictionList, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Prediction{
			JobID:       jobID,
			TableAID:    r.TableAId,
			TableBID:    r.TableBId,
			Probability: r.Probability,
		})
	}
	return out
}
