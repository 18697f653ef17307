package events

// JobStatusEvent is emitted on every lifecycle transition.
type JobStatusEvent struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	DatasetID string `json:"dataset_id"`
}
