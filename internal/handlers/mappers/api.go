// Package mappers converts store models into API resources.
package mappers

import (
	api "github.com/erbench/erbench/api/v1alpha1"
	"github.com/erbench/erbench/internal/store/model"
)

func DatasetToApi(d model.Dataset) api.Dataset {
	return api.Dataset{Code: d.Code, Name: d.Name}
}

func DatasetListToApi(list model.DatasetList) []api.Dataset {
	out := make([]api.Dataset, 0, len(list))
	for _, d := range list {
		out = append(out, DatasetToApi(d))
	}
	return out
}

func AlgorithmToApi(a model.Algorithm) api.Algorithm {
	out := api.Algorithm{Code: a.Code, Name: a.Name}
	if a.Scenarios != nil {
		out.Scenarios = a.Scenarios.Data
	}
	if a.Params != nil {
		out.Params = a.Params.Data
	}
	return out
}

func AlgorithmListToApi(list model.AlgorithmList) []api.Algorithm {
	out := make([]api.Algorithm, 0, len(list))
	for _, a := range list {
		out = append(out, AlgorithmToApi(a))
	}
	return out
}

func JobToApi(j model.Job) api.Job {
	out := api.Job{
		Id:               j.ID.String(),
		Status:           j.Status,
		DatasetId:        j.DatasetID,
		FilteringAlgoId:  j.FilteringAlgoID,
		MatchingAlgoId:   j.MatchingAlgoID,
		NotifyEmail:      j.NotifyEmail,
		FilteringSlurmId: j.FilteringSlurmID,
		MatchingSlurmId:  j.MatchingSlurmID,
		CreatedAt:        j.CreatedAt,
	}
	if j.FilteringParams != nil {
		out.FilteringParams = j.FilteringParams.Data
	}
	if j.MatchingParams != nil {
		out.MatchingParams = j.MatchingParams.Data
	}
	if j.Dataset != nil {
		dataset := DatasetToApi(*j.Dataset)
		out.Dataset = &dataset
	}
	if j.FilteringAlgo != nil {
		algo := AlgorithmToApi(*j.FilteringAlgo)
		out.FilteringAlgo = &algo
	}
	if j.MatchingAlgo != nil {
		algo := AlgorithmToApi(*j.MatchingAlgo)
		out.MatchingAlgo = &algo
	}
	if j.Result != nil {
		result := ResultToApi(*j.Result)
		out.Result = &result
	}
	return out
}

func JobListToApi(list model.JobList) []api.Job {
	out := make([]api.Job, 0, len(list))
	for _, j := range list {
		out = append(out, JobToApi(j))
	}
	return out
}

func ResultToApi(r model.Result) api.Result {
	return api.Result{
		JobId: r.JobID.String(),

		F1:        r.F1,
		Precision: r.Precision,
		Recall:    r.Recall,
		TrainTime: r.TrainTime,
		EvalTime:  r.EvalTime,

		FilteringF1:         r.FilteringF1,
		FilteringPrecision:  r.FilteringPrecision,
		FilteringRecall:     r.FilteringRecall,
		FilteringTime:       r.FilteringTime,
		FilteringCandidates: r.FilteringCandidates,
		FilteringEntriesA:   r.FilteringEntriesA,
		FilteringEntriesB:   r.FilteringEntriesB,
		FilteringMatches:    r.FilteringMatches,

		CpuUtilized:    r.CpuUtilized,
		MemoryUtilized: r.MemoryUtilized,
		GpuAllocated:   r.GpuAllocated,
		GpuUtilized:    r.GpuUtilized,
		GpuMemUtilized: r.GpuMemUtilized,
		EnergyConsumed: r.EnergyConsumed,
		TotalRuntime:   r.TotalRuntime,
	}
}

func PredictionToApi(p model.Prediction) api.Prediction {
	return api.Prediction{
		TableAId:    p.TableAID,
		TableBId:    p.TableBID,
		Probability: p.Probability,
	}
}

func PredictionListToApi(list model.PredictionList) []api.Prediction {
	out := make([]api.Prediction, 0, len(list))
	for _, p := range list {
		out = append(out, PredictionToApi(p))
	}
	return out
}
