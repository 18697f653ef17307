// Package notify defines the collaborator that tells a submitter their job
// reached a terminal state. Actual delivery (email) lives outside this
// service; the default implementation only logs.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/erbench/erbench/internal/store/model"
)

type Notifier interface {
	JobFinished(ctx context.Context, job *model.Job) error
}

// LogNotifier logs terminal transitions instead of delivering anything.
type LogNotifier struct{}

var _ Notifier = (*LogNotifier)(nil)

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) JobFinished(_ context.Context, job *model.Job) error {
	email := ""
	if job.NotifyEmail != nil {
		email = *job.NotifyEmail
	}
	zap.S().Named("notify").Infow("job finished",
		"job_id", job.ID,
		"status", job.Status,
		"notify_email", email,
	)
	return nil
}
