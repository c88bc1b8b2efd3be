package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/assessai/scoring-api/internal/dto"
	"github.com/assessai/scoring-api/internal/observability"
)

// scoringRequestSchema guards the wire format before any processing. A
// payload that fails here goes straight to the dead-letter subject.
const scoringRequestSchema = `{
	"type": "object",
	"required": ["submission_id", "exam_id", "student_id"],
	"properties": {
		"submission_id": {"type": "integer", "minimum": 1},
		"exam_id": {"type": "integer", "minimum": 1},
		"student_id": {"type": "integer", "minimum": 1},
		"content": {"type": "string"},
		"algorithm": {"type": "string"},
		"corrector_id": {"type": "integer", "minimum": 1},
		"metadata": {"type": "object"}
	}
}`

// MessageBus is the broker surface the consumer needs. *nats.Conn
// satisfies it.
type MessageBus interface {
	QueueSubscribe(subject, queue string, handler nats.MsgHandler) (*nats.Subscription, error)
	Publish(subject string, data []byte) error
}

// ScoreProcessor grades one submission.
type ScoreProcessor interface {
	ProcessScoringRequest(ctx context.Context, request dto.ScoringRequest) (dto.ScoreResponse, error)
}

// ScoringConsumer drains scoring requests from the broker and feeds them
// through the grading pipeline. Messages that cannot be parsed or graded
// are forwarded to the dead-letter subject instead of being dropped.
type ScoringConsumer struct {
	bus               MessageBus
	processor         ScoreProcessor
	subject           string
	queueGroup        string
	deadLetterSubject string
	schema            *jsonschema.Schema
	logger            zerolog.Logger
	now               func() time.Time
}

// NewScoringConsumer builds a consumer bound to the given subjects.
func NewScoringConsumer(bus MessageBus, processor ScoreProcessor, subject, queueGroup, deadLetterSubject string, logger zerolog.Logger) *ScoringConsumer {
	return &ScoringConsumer{
		bus:               bus,
		processor:         processor,
		subject:           subject,
		queueGroup:        queueGroup,
		deadLetterSubject: deadLetterSubject,
		schema:            jsonschema.MustCompileString("scoring_request.json", scoringRequestSchema),
		logger:            logger.With().Str("component", "scoring_consumer").Logger(),
		now:               time.Now,
	}
}

// Start subscribes to the scoring subject as part of the queue group and
// drains the subscription when the context is cancelled.
func (c *ScoringConsumer) Start(ctx context.Context) error {
	sub, err := c.bus.QueueSubscribe(c.subject, c.queueGroup, func(msg *nats.Msg) {
		c.HandleMessage(ctx, msg.Data)
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			c.logger.Warn().Err(err).Msg("failed to drain scoring subscription")
		}
	}()

	c.logger.Info().Str("subject", c.subject).Str("queue_group", c.queueGroup).Msg("scoring consumer started")
	return nil
}

// HandleMessage validates and grades one raw payload.
func (c *ScoringConsumer) HandleMessage(ctx context.Context, payload []byte) {
	var raw interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		c.logger.Warn().Err(err).Msg("received malformed scoring payload")
		c.deadLetter(payload, err)
		return
	}

	if err := c.schema.Validate(raw); err != nil {
		c.logger.Warn().Err(err).Msg("scoring payload failed schema validation")
		c.deadLetter(payload, err)
		return
	}

	var request dto.ScoringRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		c.logger.Warn().Err(err).Msg("failed to decode scoring request")
		c.deadLetter(payload, err)
		return
	}

	if _, err := c.processor.ProcessScoringRequest(ctx, request); err != nil {
		c.logger.Error().Err(err).Uint("submission_id", request.SubmissionID).Msg("failed to process scoring request")
		c.deadLetter(payload, err)
		return
	}
}

// deadLetter wraps the failed payload with its failure reason and publishes
// the envelope on the dead-letter subject for later inspection or replay.
func (c *ScoringConsumer) deadLetter(payload []byte, cause error) {
	if c.deadLetterSubject == "" {
		return
	}

	envelope := map[string]interface{}{
		"error":     cause.Error(),
		"failed_at": c.now().UTC().Format(time.RFC3339),
		"payload":   json.RawMessage(payload),
	}
	if !json.Valid(payload) {
		envelope["payload"] = string(payload)
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to encode dead-letter envelope")
		return
	}

	if err := c.bus.Publish(c.deadLetterSubject, data); err != nil {
		c.logger.Error().Err(err).Msg("failed to publish dead-letter message")
		return
	}

	observability.DeadLetters().Inc()
}
