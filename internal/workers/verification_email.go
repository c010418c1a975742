package workers

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/talentfit/talentfit/internal/tasks"
)

const verificationSubject = "Your TalentFit verification code"

// HandleVerificationEmail delivers the code carried by an email:verification task
func HandleVerificationEmail(ctx context.Context, t *asynq.Task, sender Sender, logger zerolog.Logger) error {
	payload, err := tasks.ParseVerificationEmailPayload(t)
	if err != nil {
		// a malformed payload will never succeed
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	body := fmt.Sprintf("Your verification code is %s.\r\n\r\nIt expires in 15 minutes. If you did not create a TalentFit account, ignore this message.\r\n", payload.Code)

	if err := sender.Send(ctx, payload.Email, verificationSubject, body); err != nil {
		logger.Error().Err(err).Str("email", payload.Email).Msg("Failed to deliver verification email")
		return err
	}

	logger.Info().Str("email", payload.Email).Msg("Verification email delivered")
	return nil
}
