package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/erbench/erbench/internal/store/model"
)

type Result interface {
	Upsert(ctx context.Context, result model.Result, fields []string) (*model.Result, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*model.Result, error)
	InitialMigration() error
}

type ResultStore struct {
	db *gorm.DB
}

// Make sure we conform to Result interface
var _ Result = (*ResultStore)(nil)

func NewResultStore(db *gorm.DB) Result {
	return &ResultStore{db: db}
}

func (s *ResultStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Result{})
}

// Upsert creates the job's result row or merges into the existing one.
// fields names the metric columns the caller actually supplied; columns left
// out keep whatever value they already hold.
func (s *ResultStore) Upsert(ctx context.Context, result model.Result, fields []string) (*model.Result, error) {
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}},
		DoNothing: len(fields) == 0,
	}
	if len(fields) > 0 {
		onConflict.DoUpdates = clause.AssignmentColumns(fields)
	}

	tx := s.db.WithContext(ctx).Clauses(onConflict).Create(&result)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return s.GetByJobID(ctx, result.JobID)
}

func (s *ResultStore) GetByJobID(ctx context.Context, jobID uuid.UUID) (*model.Result, error) {
	var result model.Result
	tx := s.db.WithContext(ctx).Where("job_id = ?", jobID).First(&result)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, tx.Error
	}
	return &result, nil
}
