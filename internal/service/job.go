package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/erbench/erbench/api/v1alpha1"
	"github.com/erbench/erbench/internal/events"
	"github.com/erbench/erbench/internal/notify"
	"github.com/erbench/erbench/internal/query"
	"github.com/erbench/erbench/internal/service/mappers"
	"github.com/erbench/erbench/internal/store"
	"github.com/erbench/erbench/internal/store/model"
)

type JobService struct {
	store       store.Store
	notifier    notify.Notifier
	eventWriter *events.EventProducer
}

func NewJobService(store store.Store, notifier notify.Notifier, ew *events.EventProducer) *JobService {
	return &JobService{
		store:       store,
		notifier:    notifier,
		eventWriter: ew,
	}
}

// Submit creates a new pending job, unless an equivalent completed job
// already exists and force is not set, in which case the matches are
// returned instead and nothing is written.
//
// The dedup read and the create are two independent store calls; two
// concurrent submissions of the same configuration can both create a job.
func (s *JobService) Submit(ctx context.Context, form mappers.SubmitForm) (*model.Job, model.JobList, error) {
	if form.DatasetID == "" {
		return nil, nil, NewErrMissingField("datasetId")
	}
	if form.FilteringAlgoID == "" {
		return nil, nil, NewErrMissingField("filteringAlgoId")
	}
	if form.MatchingAlgoID == "" {
		return nil, nil, NewErrMissingField("matchingAlgoId")
	}

	if !form.Force {
		filter := store.NewJobQueryFilter().
			ByStatus(model.JobStatusCompleted).
			ByDatasetID(form.DatasetID).
			ByFilteringAlgoID(form.FilteringAlgoID).
			ByMatchingAlgoID(form.MatchingAlgoID)

		candidates, err := s.store.Job().List(ctx, filter)
		if err != nil {
			return nil, nil, err
		}

		matches := make(model.JobList, 0)
		for _, candidate := range candidates {
			if paramsEqual(form.FilteringParams, candidate.FilteringParams) &&
				paramsEqual(form.MatchingParams, candidate.MatchingParams) {
				matches = append(matches, candidate)
			}
		}
		if len(matches) > 0 {
			return nil, matches, nil
		}
	}

	created, err := s.store.Job().Create(ctx, form.ToJob())
	if err != nil {
		return nil, nil, err
	}

	s.publishStatus(ctx, created)
	return created, nil, nil
}

func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}
	return job, nil
}

func (s *JobService) QueryJobs(ctx context.Context, req api.QueryRequest) (model.JobList, query.Plan, int64, error) {
	plan := query.Jobs.Plan(req)
	jobs, total, err := s.store.Job().Query(ctx, plan)
	if err != nil {
		return nil, plan, 0, err
	}
	return jobs, plan, total, nil
}

// SetStatus drives the job lifecycle. The transition must be forward-only;
// re-applying the current status is a no-op that still reports success. When
// the job enters matching or completed, the supplied metric subset is merged
// into the job's result before the status is written.
func (s *JobService) SetStatus(ctx context.Context, form mappers.StatusUpdateForm) (*model.Job, error) {
	if !model.KnownStatus(form.Status) {
		return nil, NewErrInvalidStatus(form.Status)
	}

	job, err := s.store.Job().Get(ctx, form.JobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(form.JobID)
		}
		return nil, err
	}

	if !model.LegalTransition(job.Status, form.Status) {
		return nil, NewErrInvalidTransition(form.JobID, job.Status, form.Status)
	}

	if form.Status == model.JobStatusMatching || form.Status == model.JobStatusCompleted {
		result := form.Result
		result.JobID = form.JobID
		if _, err := s.store.Result().Upsert(ctx, result, form.ResultFields); err != nil {
			return nil, err
		}
	}

	if _, err := s.store.Job().UpdateStatus(ctx, form.JobID, form.Status, form.FilteringSlurmID, form.MatchingSlurmID); err != nil {
		return nil, err
	}

	previous := job.Status
	job.Status = form.Status
	s.publishStatus(ctx, job)

	if model.TerminalStatus(form.Status) && previous != form.Status {
		if err := s.notifier.JobFinished(ctx, job); err != nil {
			zap.S().Named("job_service").Errorw("failed to notify job finished", "job_id", job.ID, "error", err)
		}
	}

	return job, nil
}

func (s *JobService) GetResult(ctx context.Context, jobID uuid.UUID) (*model.Result, error) {
	result, err := s.store.Result().GetByJobID(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrResultNotFound(jobID)
		}
		return nil, err
	}
	return result, nil
}

func (s *JobService) ListDatasets(ctx context.Context) (model.DatasetList, error) {
	return s.store.Dataset().List(ctx)
}

func (s *JobService) ListAlgorithms(ctx context.Context) (model.AlgorithmList, error) {
	return s.store.Algorithm().List(ctx)
}

func (s *JobService) publishStatus(ctx context.Context, job *model.Job) {
	if s.eventWriter == nil {
		return
	}
	event := events.JobStatusEvent{
		JobID:     job.ID.String(),
		Status:    job.Status,
		DatasetID: job.DatasetID,
	}
	data, err := json.Marshal(event)
	if err != nil {
		zap.S().Named("job_service").Errorw("failed to encode status event", "error", err)
		return
	}
	if err := s.eventWriter.Write(ctx, events.JobStatusMessageKind, bytes.NewReader(data)); err != nil {
		zap.S().Named("job_service").Errorw("failed to publish status event", "job_id", job.ID, "error", err)
	}
}

// paramsEqual compares a submitted parameter map against a stored one using
// canonical JSON, so key order never matters. Absent and empty maps compare
// equal.
func paramsEqual(submitted map[string]any, stored *model.JSONField[map[string]any]) bool {
	var storedMap map[string]any
	if stored != nil {
		storedMap = stored.Data
	}
	if len(submitted) == 0 && len(storedMap) == 0 {
		return true
	}
	a, err := json.Marshal(submitted)
	if err != nil {
		return false
	}
	b, err := json.Marshal(storedMap)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}
