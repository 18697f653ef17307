package store

import (
	"gorm.io/gorm"

	"github.com/erbench/erbench/internal/store/model"
)

type Store interface {
	Job() Job
	Result() Result
	Prediction() Prediction
	Dataset() Dataset
	Algorithm() Algorithm
	InitialMigration() error
	Seed() error
	Close() error
}

type DataStore struct {
	db         *gorm.DB
	job        Job
	result     Result
	prediction Prediction
	dataset    Dataset
	algorithm  Algorithm
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:         db,
		job:        NewJobStore(db),
		result:     NewResultStore(db),
		prediction: NewPredictionStore(db),
		dataset:    NewDatasetStore(db),
		algorithm:  NewAlgorithmStore(db),
	}
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) Result() Result {
	return s.result
}

func (s *DataStore) Prediction() Prediction {
	return s.prediction
}

func (s *DataStore) Dataset() Dataset {
	return s.dataset
}

func (s *DataStore) Algorithm() Algorithm {
	return s.algorithm
}

func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(
		&model.Dataset{},
		&model.Algorithm{},
		&model.Job{},
		&model.Result{},
		&model.Prediction{},
	)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
