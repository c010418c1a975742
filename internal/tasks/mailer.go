package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// Enqueuer is the subset of *asynq.Client used to schedule work
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueMailer hands verification codes to the worker instead of sending inline
type QueueMailer struct {
	client Enqueuer
}

// NewQueueMailer creates a mailer backed by the task queue
func NewQueueMailer(client Enqueuer) *QueueMailer {
	return &QueueMailer{client: client}
}

// SendVerificationCode enqueues an email:verification task
func (m *QueueMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	task, err := NewVerificationEmailTask(email, code)
	if err != nil {
		return err
	}
	if _, err := m.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue verification email: %w", err)
	}
	return nil
}
