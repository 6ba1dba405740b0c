package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/glbter/fund-advisor/entities"
	"github.com/glbter/fund-advisor/predictor"
)

// Worker answers prediction requests from PREDICTION_QUEUE_REQ.
type Worker struct {
	channel   Publisher
	predictor predictor.Predictor
	logger    *zap.Logger
}

func NewWorker(channel Publisher, p predictor.Predictor, logger *zap.Logger) *Worker {
	return &Worker{
		channel:   channel,
		predictor: p,
		logger:    logger.With(zap.String("caller", "PredictionWorker")),
	}
}

// Run handles each delivery in its own goroutine and returns once msgs is
// closed or ctx is done and every in-flight message is finished.
func (w *Worker) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			wg.Add(1)
			go func(msg amqp.Delivery) {
				defer wg.Done()
				w.handle(ctx, msg)
			}(msg)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg amqp.Delivery) {
	var (
		start  = time.Now()
		cid    = msg.CorrelationId
		logger = w.logger.With(zap.String("cid", cid))
	)

	logger.Info("start processing of request")

	// The reply still goes out when Run is being stopped.
	pubCtx := context.WithoutCancel(ctx)

	var in entities.PredictionInput
	if err := json.Unmarshal(msg.Body, &in); err != nil {
		logger.Error(fmt.Errorf("decode request: %w", err).Error())
		w.fail(pubCtx, logger, msg, err)
		return
	}

	out, err := w.predictor.Predict(ctx, in)
	if err != nil {
		logger.Error(fmt.Errorf("predict: %w", err).Error())
		w.fail(pubCtx, logger, msg, err)
		return
	}

	if err := w.respond(pubCtx, msg, reply{RiskLevel: out.RiskLevel, Returns: out.Returns}); err != nil {
		logger.Error(fmt.Errorf("publish response: %w", err).Error())
		if err := msg.Reject(false); err != nil {
			logger.Error(fmt.Errorf("reject request: %w", err).Error())
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error(fmt.Errorf("acknowledge request: %w", err).Error())
	}
	logger.Info("finish", zap.Duration("duration", time.Since(start)))
}

func (w *Worker) fail(ctx context.Context, logger *zap.Logger, msg amqp.Delivery, cause error) {
	if err := w.respond(ctx, msg, reply{Error: cause.Error()}); err != nil {
		logger.Error(fmt.Errorf("publish error response: %w", err).Error())
	}

	if err := msg.Reject(false); err != nil {
		logger.Error(fmt.Errorf("reject request: %w", err).Error())
	}
}

func (w *Worker) respond(ctx context.Context, msg amqp.Delivery, r reply) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}

	replyTo := msg.ReplyTo
	if replyTo == "" {
		replyTo = PREDICTION_QUEUE_RESP
	}

	return w.channel.PublishWithContext(ctx,
		"",      // exchange
		replyTo, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: msg.CorrelationId,
			Body:          body,
		})
}
