package model

import "encoding/json"

// Dataset is one of the benchmark datasets a job can run against. The
// catalog is seeded at startup and never mutated through the API.
type Dataset struct {
	Code string `gorm:"primaryKey;column:code;type:VARCHAR(100)"`
	Name string `gorm:"column:name;type:VARCHAR(255);not null"`
}

type DatasetList []Dataset

// Algorithm is a filtering or matching implementation the workers know how
// to run. Scenarios lists the phases it serves, Params the parameter names
// its configuration accepts.
type Algorithm struct {
	Code      string               `gorm:"primaryKey;column:code;type:VARCHAR(100)"`
	Name      string               `gorm:"column:name;type:VARCHAR(255);not null"`
	Scenarios *JSONField[[]string] `gorm:"type:jsonb"`
	Params    *JSONField[[]string] `gorm:"type:jsonb"`
}

type AlgorithmList []Algorithm

func (d Dataset) String() string {
	val, _ := json.Marshal(d)
	return string(val)
}

func (a Algorithm) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}
