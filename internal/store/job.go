package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erbench/erbench/internal/query"
	"github.com/erbench/erbench/internal/store/model"
)

type Job interface {
	Create(ctx context.Context, job model.Job) (*model.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	List(ctx context.Context, filter *JobQueryFilter) (model.JobList, error)
	Query(ctx context.Context, plan query.Plan) (model.JobList, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, filteringSlurmID, matchingSlurmID *string) (*model.Job, error)
	InitialMigration() error
}

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Job{})
}

func (s *JobStore) Create(ctx context.Context, job model.Job) (*model.Job, error) {
	result := s.db.WithContext(ctx).Create(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &job, nil
}

// Get loads a job with its dataset, algorithms and result attached.
func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job := model.Job{ID: id}
	result := s.db.WithContext(ctx).
		Preload("Dataset").
		Preload("FilteringAlgo").
		Preload("MatchingAlgo").
		Preload("Result").
		First(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &job, nil
}

func (s *JobStore) List(ctx context.Context, filter *JobQueryFilter) (model.JobList, error) {
	var jobs model.JobList
	tx := s.db.WithContext(ctx).Model(&model.Job{})
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}
	result := tx.
		Preload("Dataset").
		Preload("FilteringAlgo").
		Preload("MatchingAlgo").
		Preload("Result").
		Order("created_at").Order("id").
		Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

// Query executes a normalized plan: the total counts every row matching the
// filters, the data window honors sort, offset and limit.
func (s *JobStore) Query(ctx context.Context, plan query.Plan) (model.JobList, int64, error) {
	scopes := predicateScopes(plan)

	countTx := s.db.WithContext(ctx).Model(&model.Job{})
	for _, fn := range scopes {
		countTx = fn(countTx)
	}
	var total int64
	if result := countTx.Count(&total); result.Error != nil {
		return nil, 0, result.Error
	}

	tx := s.db.WithContext(ctx).Model(&model.Job{})
	for _, fn := range scopes {
		tx = fn(tx)
	}
	// job ids are random uuids, so insertion order needs created_at first
	tx = orderScope(plan, "created_at", "id")(tx)

	var jobs model.JobList
	result := tx.
		Preload("Dataset").
		Preload("FilteringAlgo").
		Preload("MatchingAlgo").
		Preload("Result").
		Offset(plan.Offset).
		Limit(plan.Limit).
		Find(&jobs)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return jobs, total, nil
}

// UpdateStatus writes the new status and, when supplied, the per-phase
// scheduler handles. Nil handles leave the stored values untouched.
func (s *JobStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string, filteringSlurmID, matchingSlurmID *string) (*model.Job, error) {
	job := model.Job{ID: id}
	selectFields := []string{"status"}
	job.Status = status
	if filteringSlurmID != nil {
		job.FilteringSlurmID = filteringSlurmID
		selectFields = append(selectFields, "filtering_slurm_id")
	}
	if matchingSlurmID != nil {
		job.MatchingSlurmID = matchingSlurmID
		selectFields = append(selectFields, "matching_slurm_id")
	}

	result := s.db.WithContext(ctx).Model(&job).Select(selectFields).Updates(&job)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return &job, nil
}
