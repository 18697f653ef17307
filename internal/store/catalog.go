package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/erbench/erbench/internal/store/model"
)

type Dataset interface {
	List(ctx context.Context) (model.DatasetList, error)
	Get(ctx context.Context, code string) (*model.Dataset, error)
	InitialMigration() error
}

type Algorithm interface {
	List(ctx context.Context) (model.AlgorithmList, error)
	Get(ctx context.Context, code string) (*model.Algorithm, error)
	InitialMigration() error
}

type DatasetStore struct {
	db *gorm.DB
}

var _ Dataset = (*DatasetStore)(nil)

func NewDatasetStore(db *gorm.DB) Dataset {
	return &DatasetStore{db: db}
}

func (s *DatasetStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Dataset{})
}

func (s *DatasetStore) List(ctx context.Context) (model.DatasetList, error) {
	var datasets model.DatasetList
	result := s.db.WithContext(ctx).Order("code").Find(&datasets)
	if result.Error != nil {
		return nil, result.Error
	}
	return datasets, nil
}

func (s *DatasetStore) Get(ctx context.Context, code string) (*model.Dataset, error) {
	var dataset model.Dataset
	result := s.db.WithContext(ctx).First(&dataset, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &dataset, nil
}

type AlgorithmStore struct {
	db *gorm.DB
}

var _ Algorithm = (*AlgorithmStore)(nil)

func NewAlgorithmStore(db *gorm.DB) Algorithm {
	return &AlgorithmStore{db: db}
}

func (s *AlgorithmStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Algorithm{})
}

func (s *AlgorithmStore) List(ctx context.Context) (model.AlgorithmList, error) {
	var algorithms model.AlgorithmList
	result := s.db.WithContext(ctx).Order("code").Find(&algorithms)
	if result.Error != nil {
		return nil, result.Error
	}
	return algorithms, nil
}

func (s *AlgorithmStore) Get(ctx context.Context, code string) (*model.Algorithm, error) {
	var algorithm model.Algorithm
	result := s.db.WithContext(ctx).First(&algorithm, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &algorithm, nil
}
