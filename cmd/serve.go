package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/glbter/fund-advisor/config"
	"github.com/glbter/fund-advisor/fund"
	"github.com/glbter/fund-advisor/fund/repo/csv"
	fundHttp "github.com/glbter/fund-advisor/http"
	"github.com/glbter/fund-advisor/predictor"
	predictorHttp "github.com/glbter/fund-advisor/predictor/client/http"
	"github.com/glbter/fund-advisor/predictor/client/rabbit"
)

func ExecuteServe(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	catalog, err := csv.Load()
	if err != nil {
		return fmt.Errorf("load fund catalog: %w", err)
	}

	p, closePredictor, err := newPredictor(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init predictor: %w", err)
	}
	defer closePredictor()

	handler := fundHttp.FundHandler{
		Logger:    logger,
		Funds:     fund.NewService(catalog, logger),
		Predictor: p,
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      fundHttp.NewRouter(handler, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server is starting", zap.Int("port", cfg.Port), zap.String("predictor", cfg.Predictor))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("server is shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newPredictor(ctx context.Context, cfg config.Config, logger *zap.Logger) (predictor.Predictor, func(), error) {
	switch cfg.Predictor {
	case config.PredictorHTTP:
		client := &http.Client{Timeout: cfg.PredictorTimeout}
		return predictorHttp.NewClient(client, cfg.PredictorURL, cfg.PredictorRate, logger), func() {}, nil
	case config.PredictorAMQP:
		return newRabbitPredictor(ctx, cfg, logger)
	default:
		return predictor.Local{}, func() {}, nil
	}
}

func newRabbitPredictor(ctx context.Context, cfg config.Config, logger *zap.Logger) (predictor.Predictor, func(), error) {
	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open a channel: %w", err)
	}

	closeAll := func() {
		ch.Close()
		conn.Close()
	}

	if err := rabbit.DeclareQueues(ch); err != nil {
		closeAll()
		return nil, nil, err
	}

	replyQueue, err := rabbit.DeclareReplyQueue(ch)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	replies, err := rabbit.Consume(ch, replyQueue)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	client := rabbit.NewPredictionEngineClient(ch, replyQueue, logger)
	go client.Listen(ctx, replies)

	return predictor.WithTimeout(client, cfg.PredictorTimeout), closeAll, nil
}
