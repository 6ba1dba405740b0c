package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/glbter/fund-advisor/entities"
	"github.com/glbter/fund-advisor/predictor"
)

type PredictionEngineClient struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient builds a client for a remote prediction engine. perSecond caps
// outbound requests; zero or less disables the cap.
func NewClient(c *http.Client, url string, perSecond float64, logger *zap.Logger) *PredictionEngineClient {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}

	return &PredictionEngineClient{
		url:     url,
		client:  c,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With(zap.String("caller", "PredictionEngineClient")),
	}
}

func (pc *PredictionEngineClient) Predict(ctx context.Context, in entities.PredictionInput) (entities.PredictionOutput, error) {
	logger := pc.logger.With(zap.String("method", "Predict"))

	if err := predictor.Validate(in); err != nil {
		return entities.PredictionOutput{}, err
	}

	if err := pc.limiter.Wait(ctx); err != nil {
		return entities.PredictionOutput{}, fmt.Errorf("wait for rate limiter: %w", err)
	}

	start := time.Now()

	body, err := json.Marshal(in)
	if err != nil {
		return entities.PredictionOutput{}, fmt.Errorf("marshall request data: %w", err)
	}

	path, err := url.JoinPath(pc.url, "/predict")
	if err != nil {
		return entities.PredictionOutput{}, fmt.Errorf("build request url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return entities.PredictionOutput{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := pc.client.Do(req)
	logger.Debug("finish run", zap.String("path", path), zap.Duration("duration", time.Since(start)))
	if err != nil {
		return entities.PredictionOutput{}, fmt.Errorf("send Post request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entities.PredictionOutput{}, fmt.Errorf("responded with %v http code", resp.StatusCode)
	}

	var r entities.PredictionOutput
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return entities.PredictionOutput{}, fmt.Errorf("decode response: %w", err)
	}

	return r, nil
}
