package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/glbter/fund-advisor/entities"
	"github.com/glbter/fund-advisor/predictor"
)

var ErrEngine = errors.New("prediction engine failed")

// PredictionEngineClient sends predictions over AMQP and matches replies to
// callers by correlation id. Replies come back on replyTo, which Listen must
// be consuming for Predict to return.
type PredictionEngineClient struct {
	channel Publisher
	replyTo string
	logger  *zap.Logger

	mu      sync.Mutex
	pending map[string]chan amqp.Delivery
}

func NewPredictionEngineClient(channel Publisher, replyTo string, logger *zap.Logger) *PredictionEngineClient {
	return &PredictionEngineClient{
		channel: channel,
		replyTo: replyTo,
		logger:  logger.With(zap.String("caller", "PredictionEngineClient")),
		pending: make(map[string]chan amqp.Delivery),
	}
}

func (c *PredictionEngineClient) Predict(ctx context.Context, in entities.PredictionInput) (entities.PredictionOutput, error) {
	if err := predictor.Validate(in); err != nil {
		return entities.PredictionOutput{}, err
	}

	body, err := json.Marshal(in)
	if err != nil {
		return entities.PredictionOutput{}, fmt.Errorf("marshall request data: %w", err)
	}

	cid := uuid.New().String()
	replyCh := c.register(cid)
	defer c.unregister(cid)

	if err := c.channel.PublishWithContext(ctx,
		"",                   // exchange
		PREDICTION_QUEUE_REQ, // routing key
		false,                // mandatory
		false,                // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: cid,
			ReplyTo:       c.replyTo,
			Body:          body,
		}); err != nil {
		return entities.PredictionOutput{}, fmt.Errorf("publish prediction request: %w", err)
	}

	select {
	case d := <-replyCh:
		var r reply
		if err := json.Unmarshal(d.Body, &r); err != nil {
			return entities.PredictionOutput{}, fmt.Errorf("decode response: %w", err)
		}

		if r.Error != "" {
			return entities.PredictionOutput{}, fmt.Errorf("%w: %s", ErrEngine, r.Error)
		}

		return entities.PredictionOutput{RiskLevel: r.RiskLevel, Returns: r.Returns}, nil
	case <-ctx.Done():
		return entities.PredictionOutput{}, fmt.Errorf("await prediction %s: %w", cid, ctx.Err())
	}
}

// Listen dispatches replies until the channel closes or ctx is done.
// The reply queue is private to this client, so an unknown cid belongs to a
// caller that already gave up and the reply is dropped.
func (c *PredictionEngineClient) Listen(ctx context.Context, replies <-chan amqp.Delivery) {
	logger := c.logger.With(zap.String("method", "Listen"))

	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-replies:
			if !ok {
				logger.Info("reply channel closed")
				return
			}

			c.dispatch(logger, d)
		}
	}
}

func (c *PredictionEngineClient) dispatch(logger *zap.Logger, d amqp.Delivery) {
	c.mu.Lock()
	replyCh, ok := c.pending[d.CorrelationId]
	c.mu.Unlock()

	if !ok {
		logger.Info(fmt.Sprintf("received a reply with unknown cid %s", d.CorrelationId))
		if err := d.Reject(false); err != nil {
			logger.Error(fmt.Errorf("reject response: %w", err).Error())
		}
		return
	}

	select {
	case replyCh <- d:
	default:
		logger.Warn("duplicate reply", zap.String("cid", d.CorrelationId))
	}

	if err := d.Ack(false); err != nil {
		logger.Error(fmt.Errorf("acknowledge response: %w", err).Error())
	}
}

func (c *PredictionEngineClient) register(cid string) <-chan amqp.Delivery {
	ch := make(chan amqp.Delivery, 1)

	c.mu.Lock()
	c.pending[cid] = ch
	c.mu.Unlock()

	return ch
}

func (c *PredictionEngineClient) unregister(cid string) {
	c.mu.Lock()
	delete(c.pending, cid)
	c.mu.Unlock()
}
