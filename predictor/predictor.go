package predictor

import (
	"context"
	"time"

	"github.com/glbter/fund-advisor/entities"
)

const (
	RiskHigh     = "High"
	RiskModerate = "Moderate"

	highVolatility = 15
	returnsUplift  = 1.5
)

type Predictor interface {
	Predict(ctx context.Context, in entities.PredictionInput) (entities.PredictionOutput, error)
}

// Local is the in-process prediction: a volatility threshold for the risk
// level and a fixed uplift on historical returns. Ranges are not checked.
type Local struct{}

func (Local) Predict(_ context.Context, in entities.PredictionInput) (entities.PredictionOutput, error) {
	if err := Validate(in); err != nil {
		return entities.PredictionOutput{}, err
	}

	risk := RiskModerate
	if in.Volatility.Value > highVolatility {
		risk = RiskHigh
	}

	return entities.PredictionOutput{
		RiskLevel: risk,
		Returns:   in.HistoricalReturns.Value + returnsUplift,
	}, nil
}

func Validate(in entities.PredictionInput) error {
	if !in.HistoricalReturns.Set {
		return entities.NewValidationError("historicalReturns is required")
	}

	if !in.Volatility.Set {
		return entities.NewValidationError("volatility is required")
	}

	return nil
}

type timeoutPredictor struct {
	next    Predictor
	timeout time.Duration
}

// WithTimeout bounds every call to next. A non-positive timeout returns next.
func WithTimeout(next Predictor, timeout time.Duration) Predictor {
	if timeout <= 0 {
		return next
	}

	return timeoutPredictor{next: next, timeout: timeout}
}

func (p timeoutPredictor) Predict(ctx context.Context, in entities.PredictionInput) (entities.PredictionOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.next.Predict(ctx, in)
}
