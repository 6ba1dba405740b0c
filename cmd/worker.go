package cmd

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/glbter/fund-advisor/config"
	"github.com/glbter/fund-advisor/predictor"
	"github.com/glbter/fund-advisor/predictor/client/rabbit"
)

const workerPrefetch = 16

func ExecuteWorker(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if cfg.RabbitURL == "" {
		return errors.New("rabbit url is empty")
	}

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		return fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open a channel: %w", err)
	}
	defer ch.Close()

	if err := rabbit.DeclareQueues(ch); err != nil {
		return err
	}

	if err := ch.Qos(workerPrefetch, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	msgs, err := rabbit.Consume(ch, rabbit.PREDICTION_QUEUE_REQ)
	if err != nil {
		return err
	}

	logger.Info("worker is starting")
	rabbit.NewWorker(ch, predictor.Local{}, logger).Run(ctx, msgs)
	logger.Info("worker stopped")

	return nil
}
