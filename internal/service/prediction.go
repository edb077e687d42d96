package service

import (
	"context"
	"errors"

	"medpremium/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrPredictionLogDisabled is returned by history queries when no store is configured
var ErrPredictionLogDisabled = errors.New("prediction log is not enabled")

// PredictionStore persists predictions for later lookup
type PredictionStore interface {
	SavePrediction(ctx context.Context, log *model.PredictionLog, features []float32) error
	RecentPredictions(ctx context.Context, limit int) ([]model.PredictionLog, error)
	SimilarPredictions(ctx context.Context, id string, limit int) ([]model.PredictionLog, error)
}

// PredictionService runs the assemble → estimate workflow
type PredictionService struct {
	assembler *FeatureAssembler
	estimator *PremiumEstimator
	store     PredictionStore
	logger    *zap.Logger
}

// NewPredictionService creates a new prediction service. store may be nil.
func NewPredictionService(
	assembler *FeatureAssembler,
	estimator *PremiumEstimator,
	store PredictionStore,
	logger *zap.Logger,
) *PredictionService {
	return &PredictionService{
		assembler: assembler,
		estimator: estimator,
		store:     store,
		logger:    logger,
	}
}

// Predict assembles the request's inputs and estimates the premium.
// Requests without a coverage tier stop before any model work.
func (s *PredictionService) Predict(ctx context.Context, req *model.PredictRequest) (*model.PredictionResult, error) {
	tier, err := model.ParseCoverageTier(req.Coverage)
	if err != nil {
		return nil, err
	}

	rec, err := s.assembler.Assemble(&req.RawInput)
	if err != nil {
		return nil, err
	}

	result, err := s.estimator.Estimate(rec, tier)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("premium estimated",
		zap.String("id", result.ID),
		zap.String("tier", string(result.Tier)),
		zap.Float64("raw", result.RawPrediction),
		zap.String("premium", result.Premium.StringFixed(2)),
	)

	if s.store != nil {
		if err := s.store.SavePrediction(ctx, model.NewPredictionLog(result), toFloat32(rec.Vector())); err != nil {
			s.logger.Warn("failed to log prediction", zap.String("id", result.ID), zap.Error(err))
		}
	}

	return result, nil
}

// CheckBMI returns the BMI status for a height/weight pair
func (s *PredictionService) CheckBMI(req *model.BMIRequest) (*model.BMIResult, error) {
	return s.assembler.CheckBMI(req)
}

// HistoryEnabled reports whether predictions are being persisted
func (s *PredictionService) HistoryEnabled() bool {
	return s.store != nil
}

// RecentPredictions returns the latest logged predictions
func (s *PredictionService) RecentPredictions(ctx context.Context, limit int) ([]model.PredictionLog, error) {
	if s.store == nil {
		return nil, ErrPredictionLogDisabled
	}
	return s.store.RecentPredictions(ctx, limit)
}

// SimilarPredictions returns logged predictions whose feature vectors are closest to id's
func (s *PredictionService) SimilarPredictions(ctx context.Context, id string, limit int) ([]model.PredictionLog, error) {
	if s.store == nil {
		return nil, ErrPredictionLogDisabled
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrPredictionNotFound
	}
	return s.store.SimilarPredictions(ctx, id, limit)
}

func toFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}
