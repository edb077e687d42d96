package service

import (
	"fmt"
	"sync"
	"time"

	"medpremium/internal/model"
	"medpremium/internal/regressor"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PremiumEstimator scales the regression artifact's output by the coverage tier.
// The artifact is loaded at most once; afterwards the handle is read-only and
// shared by every request.
type PremiumEstimator struct {
	path   string
	loader func(path string) (regressor.Regressor, error)
	logger *zap.Logger

	once sync.Once
	reg  regressor.Regressor
	err  error
}

// NewPremiumEstimator creates an estimator for the artifact at path
func NewPremiumEstimator(path string, logger *zap.Logger) *PremiumEstimator {
	return &PremiumEstimator{
		path:   path,
		loader: regressor.Load,
		logger: logger,
	}
}

// NewPremiumEstimatorFromRegressor wraps an already built regressor
func NewPremiumEstimatorFromRegressor(reg regressor.Regressor, logger *zap.Logger) *PremiumEstimator {
	return &PremiumEstimator{
		path: "(in-memory)",
		loader: func(string) (regressor.Regressor, error) {
			return reg, nil
		},
		logger: logger,
	}
}

// Load reads and checks the artifact. Only the first call does any work; later
// calls return the first outcome.
func (e *PremiumEstimator) Load() error {
	e.once.Do(func() {
		start := time.Now()
		reg, err := e.loader(e.path)
		if err != nil {
			e.err = err
			return
		}
		if err := model.CheckFeatureSchema(reg.FeatureNames()); err != nil {
			e.err = fmt.Errorf("model artifact %s: %w", e.path, err)
			return
		}
		e.reg = reg
		e.logger.Info("regression artifact loaded",
			zap.String("path", e.path),
			zap.String("model_type", reg.Type()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
	return e.err
}

// ModelType returns the loaded artifact's model type, or "" before a successful Load
func (e *PremiumEstimator) ModelType() string {
	if e.Load() != nil {
		return ""
	}
	return e.reg.Type()
}

// Estimate predicts the annual premium for rec at the given coverage tier.
// An empty tier is refused with model.ErrTierRequired.
func (e *PremiumEstimator) Estimate(rec *model.FeatureRecord, tier model.CoverageTier) (*model.PredictionResult, error) {
	if tier == "" {
		return nil, model.ErrTierRequired
	}
	scale, err := tier.Scale()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("no feature record provided")
	}
	if err := e.Load(); err != nil {
		return nil, err
	}

	vec := rec.Vector()
	if len(vec) != model.FeatureCount {
		return nil, fmt.Errorf("%w: vector has %d values", model.ErrFeatureSchemaMismatch, len(vec))
	}

	raw, err := e.reg.Predict(vec)
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}

	premium := decimal.NewFromFloat(raw).Mul(decimal.NewFromFloat(scale)).Round(2)
	bmi := rec.BMI()

	return &model.PredictionResult{
		ID:            uuid.NewString(),
		Features:      *rec,
		Inputs:        rec.Named(),
		BMI:           bmi,
		BMICategory:   model.CategorizeBMI(bmi),
		Tier:          tier,
		TierLabel:     tier.Label(),
		Scale:         scale,
		RawPrediction: raw,
		Premium:       premium,
		Display:       FormatPremium(premium),
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// FormatPremium renders a premium the way the dashboard shows it
func FormatPremium(premium decimal.Decimal) string {
	return fmt.Sprintf("INR %s per annum", premium.StringFixed(2))
}
