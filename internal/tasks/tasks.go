package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TypeVerificationEmail   = "email:verification"
	TypeVerificationCleanup = "verification:cleanup"
)

// Queue names, weighted by the worker
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// VerificationEmailPayload carries a code to deliver
type VerificationEmailPayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// NewVerificationEmailTask creates a task that e-mails a verification code
func NewVerificationEmailTask(email, code string) (*asynq.Task, error) {
	payload, err := json.Marshal(VerificationEmailPayload{
		Email: email,
		Code:  code,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeVerificationEmail, payload, asynq.Queue(QueueCritical), asynq.MaxRetry(5)), nil
}

// NewVerificationCleanupTask creates a task that deletes expired verification codes
func NewVerificationCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeVerificationCleanup, nil, asynq.Queue(QueueLow), asynq.MaxRetry(1))
}

// ParseVerificationEmailPayload parses the payload of a verification e-mail task
func ParseVerificationEmailPayload(task *asynq.Task) (VerificationEmailPayload, error) {
	var payload VerificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if payload.Email == "" || payload.Code == "" {
		return payload, fmt.Errorf("verification payload is missing email or code")
	}
	return payload, nil
}
