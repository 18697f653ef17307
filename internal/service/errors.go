package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrJobNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "job")
}

func NewErrResultNotFound(jobID uuid.UUID) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("no result found for job %s", jobID)}
}

func NewErrPredictionsNotFound(jobID uuid.UUID) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("no predictions found for job %s", jobID)}
}

type ErrMissingField struct {
	error
}

func NewErrMissingField(field string) *ErrMissingField {
	return &ErrMissingField{fmt.Errorf("%s is required", field)}
}

type ErrInvalidStatus struct {
	error
}

func NewErrInvalidStatus(status string) *ErrInvalidStatus {
	return &ErrInvalidStatus{fmt.Errorf("unknown job status %q", status)}
}

type ErrInvalidTransition struct {
	error
}

func NewErrInvalidTransition(jobID uuid.UUID, from, to string) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("job %s cannot move from %s to %s", jobID, from, to)}
}
