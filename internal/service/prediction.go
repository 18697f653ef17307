package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	api "github.com/erbench/erbench/api/v1alpha1"
	"github.com/erbench/erbench/internal/query"
	"github.com/erbench/erbench/internal/service/mappers"
	"github.com/erbench/erbench/internal/store"
	"github.com/erbench/erbench/internal/store/model"
)

type PredictionService struct {
	store store.Store
}

func NewPredictionService(store store.Store) *PredictionService {
	return &PredictionService{store: store}
}

// Append bulk-inserts prediction tuples for a job. Tuples that already exist
// are skipped, so a worker may safely resend a batch after a timeout. The
// call succeeds even when every row is a duplicate.
func (s *PredictionService) Append(ctx context.Context, jobID uuid.UUID, rows []api.Prediction) error {
	if _, err := s.store.Job().Get(ctx, jobID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrJobNotFound(jobID)
		}
		return err
	}

	return s.store.Prediction().CreateBatch(ctx, mappers.PredictionRows(jobID, rows))
}

// Query pages over a job's predictions. A job without predictions (or an
// unknown job id) yields an empty page, not an error.
func (s *PredictionService) Query(ctx context.Context, jobID uuid.UUID, req api.QueryRequest) (model.PredictionList, query.Plan, int64, error) {
	plan := query.Predictions.Plan(req)
	predictions, total, err := s.store.Prediction().Query(ctx, jobID, plan)
	if err != nil {
		return nil, plan, 0, err
	}
	return predictions, plan, total, nil
}

// ExportCSV streams a job's predictions as CSV, probability descending,
// preceded by a commented header block describing the run.
func (s *PredictionService) ExportCSV(ctx context.Context, jobID uuid.UUID, w io.Writer) error {
	job, err := s.store.Job().Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrJobNotFound(jobID)
		}
		return err
	}

	predictions, err := s.store.Prediction().ListByJobID(ctx, jobID)
	if err != nil {
		return err
	}
	if len(predictions) == 0 {
		return NewErrPredictionsNotFound(jobID)
	}

	if err := writeCsvHeader(w, job, len(predictions)); err != nil {
		return err
	}

	// no newline after the last row
	for _, p := range predictions {
		if _, err := fmt.Fprintf(w, "\n%s,%s,%s", p.TableAID, p.TableBID, formatMetric(&p.Probability)); err != nil {
			return err
		}
	}
	return nil
}

func writeCsvHeader(w io.Writer, job *model.Job, total int) error {
	datasetName := job.DatasetID
	if job.Dataset != nil {
		datasetName = job.Dataset.Name
	}
	filteringName := job.FilteringAlgoID
	if job.FilteringAlgo != nil {
		filteringName = job.FilteringAlgo.Name
	}
	matchingName := job.MatchingAlgoID
	if job.MatchingAlgo != nil {
		matchingName = job.MatchingAlgo.Name
	}

	fmt.Fprintf(w, "# Job ID: %s\n", job.ID)
	fmt.Fprintf(w, "# Dataset: %s\n", datasetName)
	fmt.Fprintf(w, "# Filtering Algorithm: %s\n", filteringName)
	fmt.Fprintf(w, "# Filtering Parameters: %s\n", formatParams(job.FilteringParams))
	fmt.Fprintf(w, "# Matching Algorithm: %s\n", matchingName)
	fmt.Fprintf(w, "# Matching Parameters: %s\n", formatParams(job.MatchingParams))
	fmt.Fprintf(w, "# Created: %s\n", job.CreatedAt.UTC().Format(time.RFC3339))

	if r := job.Result; r != nil {
		fmt.Fprintf(w, "# Filtering: f1 %s, precision %s, recall %s, filteringTime %s, candidates %s, entriesA %s, entriesB %s, matches %s\n",
			formatMetric(r.FilteringF1), formatMetric(r.FilteringPrecision), formatMetric(r.FilteringRecall),
			formatMetric(r.FilteringTime), formatMetric(r.FilteringCandidates), formatMetric(r.FilteringEntriesA),
			formatMetric(r.FilteringEntriesB), formatMetric(r.FilteringMatches))
		fmt.Fprintf(w, "# Matching: f1 %s, precision %s, recall %s, trainTime %s, evalTime %s\n",
			formatMetric(r.F1), formatMetric(r.Precision), formatMetric(r.Recall),
			formatMetric(r.TrainTime), formatMetric(r.EvalTime))
	}

	fmt.Fprintf(w, "# Total Predictions: %d\n\n", total)
	_, err := io.WriteString(w, "tableA_id,tableB_id,probability")
	return err
}

func formatParams(params *model.JSONField[map[string]any]) string {
	if params == nil || len(params.Data) == 0 {
		return "null"
	}
	out, err := json.Marshal(params.Data)
	if err != nil {
		return "null"
	}
	return string(out)
}

func formatMetric(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
