package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/glbter/fund-advisor/entities"
	"github.com/glbter/fund-advisor/predictor"
)

const maxBodyBytes = 1 << 20

type FundService interface {
	ListFunds() []entities.Fund
	GetFundDetail(id int) (entities.FundDetail, error)
	AnalyzeFund(id int) (entities.Analysis, error)
	Recommend(risk, sector string) entities.Recommendation
}

type FundHandler struct {
	Logger    *zap.Logger
	Funds     FundService
	Predictor predictor.Predictor
}

func (h FundHandler) Greeting(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello, world!"))
}

func (h FundHandler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h FundHandler) Data(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, entities.Message{Message: "Data fetched successfully!"})
}

func (h FundHandler) ListFunds(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Funds.ListFunds())
}

func (h FundHandler) GetFund(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger.With(zap.String("method", "GetFund"))

	id, ok := fundID(r)
	if !ok {
		h.writeMessage(w, http.StatusNotFound, "Fund not found")
		return
	}

	detail, err := h.Funds.GetFundDetail(id)
	if err != nil {
		h.writeError(w, logger, fmt.Errorf("get fund detail: %w", err))
		return
	}

	h.writeJSON(w, http.StatusOK, detail)
}

func (h FundHandler) AnalyzeFund(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger.With(zap.String("method", "AnalyzeFund"))

	id, ok := fundID(r)
	if !ok {
		h.writeMessage(w, http.StatusNotFound, "Fund not found")
		return
	}

	analysis, err := h.Funds.AnalyzeFund(id)
	if err != nil {
		h.writeError(w, logger, fmt.Errorf("analyze fund: %w", err))
		return
	}

	h.writeJSON(w, http.StatusOK, analysis)
}

func (h FundHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger.With(zap.String("method", "Recommend"))

	var req entities.RecommendationReq
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, logger, err)
		return
	}

	if req.Risk == nil || req.Sector == nil {
		h.writeError(w, logger, entities.NewValidationError("risk and sector are required"))
		return
	}

	h.writeJSON(w, http.StatusOK, h.Funds.Recommend(*req.Risk, *req.Sector))
}

func (h FundHandler) Predict(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger.With(zap.String("method", "Predict"))

	var in entities.PredictionInput
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, logger, err)
		return
	}

	out, err := h.Predictor.Predict(r.Context(), in)
	if err != nil {
		var verr entities.ValidationError
		if errors.As(err, &verr) {
			h.writeError(w, logger, err)
			return
		}

		logger.Error(fmt.Errorf("predict: %w", err).Error())
		h.writeMessage(w, http.StatusBadGateway, "Error with prediction model.")
		return
	}

	h.writeJSON(w, http.StatusOK, out)
}

// fundID reports false for ids that are not integers; callers answer those
// like any other unknown fund.
func fundID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "fundId"))
	if err != nil {
		return 0, false
	}

	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return entities.NewValidationError(fmt.Sprintf("invalid request body: %v", err))
	}

	return nil
}

func (h FundHandler) writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr entities.ValidationError

	switch {
	case errors.Is(err, entities.ErrFundNotFound):
		h.writeMessage(w, http.StatusNotFound, "Fund not found")
	case errors.As(err, &verr):
		logger.Info(err.Error())
		h.writeMessage(w, http.StatusBadRequest, verr.Msg)
	default:
		logger.Error(err.Error())
		writeInternalError(w)
	}
}

func (h FundHandler) writeMessage(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, entities.Message{Message: msg})
}

func (h FundHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error(fmt.Errorf("encode response: %w", err).Error())
	}
}
