package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/erbench/erbench/internal/query"
	"github.com/erbench/erbench/internal/store/model"
)

const predictionInsertBatchSize = 500

type Prediction interface {
	CreateBatch(ctx context.Context, predictions model.PredictionList) error
	Query(ctx context.Context, jobID uuid.UUID, plan query.Plan) (model.PredictionList, int64, error)
	ListByJobID(ctx context.Context, jobID uuid.UUID) (model.PredictionList, error)
	InitialMigration() error
}

type PredictionStore struct {
	db *gorm.DB
}

// Make sure we conform to Prediction interface
var _ Prediction = (*PredictionStore)(nil)

func NewPredictionStore(db *gorm.DB) Prediction {
	return &PredictionStore{db: db}
}

func (s *PredictionStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Prediction{})
}

// CreateBatch appends predictions in bulk. Rows colliding with the
// (job_id, table_a_id, table_b_id) unique index are skipped, so re-sending
// the same batch is a no-op.
func (s *PredictionStore) CreateBatch(ctx context.Context, predictions model.PredictionList) error {
	if len(predictions) == 0 {
		return nil
	}
	tx := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(predictions, predictionInsertBatchSize)
	return tx.Error
}

// Query pages over one job's predictions with a normalized plan.
func (s *PredictionStore) Query(ctx context.Context, jobID uuid.UUID, plan query.Plan) (model.PredictionList, int64, error) {
	scopes := predicateScopes(plan)

	countTx := s.db.WithContext(ctx).Model(&model.Prediction{}).Where("job_id = ?", jobID)
	for _, fn := range scopes {
		countTx = fn(countTx)
	}
	var total int64
	if result := countTx.Count(&total); result.Error != nil {
		return nil, 0, result.Error
	}

	tx := s.db.WithContext(ctx).Model(&model.Prediction{}).Where("job_id = ?", jobID)
	for _, fn := range scopes {
		tx = fn(tx)
	}
	tx = orderScope(plan, "id")(tx)

	var predictions model.PredictionList
	result := tx.Offset(plan.Offset).Limit(plan.Limit).Find(&predictions)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return predictions, total, nil
}

// ListByJobID returns every prediction of a job, probability descending.
// Used by the CSV export.
func (s *PredictionStore) ListByJobID(ctx context.Context, jobID uuid.UUID) (model.PredictionList, error) {
	var predictions model.PredictionList
	result := s.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("probability desc").Order("id").
		Find(&predictions)
	if result.Error != nil {
		return nil, result.Error
	}
	return predictions, nil
}
