package consumer

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/assessai/scoring-api/internal/dto"
)

// MessagePublisher is the thin broker surface used for outbound messages.
// *nats.Conn satisfies it.
type MessagePublisher interface {
	Publish(subject string, data []byte) error
}

// NATSResultPublisher broadcasts completed scores on the result subject so
// downstream services can react to finished gradings.
type NATSResultPublisher struct {
	conn    MessagePublisher
	subject string
	logger  zerolog.Logger
}

// NewNATSResultPublisher builds a result publisher for the given subject.
func NewNATSResultPublisher(conn MessagePublisher, subject string, logger zerolog.Logger) *NATSResultPublisher {
	return &NATSResultPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "result_publisher").Logger(),
	}
}

// PublishScoreCompleted emits the completed score as JSON.
func (p *NATSResultPublisher) PublishScoreCompleted(_ context.Context, score dto.ScoreResponse) error {
	payload, err := json.Marshal(score)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return err
	}

	p.logger.Debug().Uint("submission_id", score.SubmissionID).Str("subject", p.subject).Msg("scoring result published")
	return nil
}
