package service

import (
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"medpremium/internal/model"
	"medpremium/internal/regressor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// constRegressor returns the same value for every input and records what it saw
type constRegressor struct {
	value float64
	names []string
	seen  [][]float64
}

func (c *constRegressor) Predict(features []float64) (float64, error) {
	c.seen = append(c.seen, features)
	return c.value, nil
}

func (c *constRegressor) FeatureNames() []string { return c.names }
func (c *constRegressor) Type() string           { return "const" }

func baselineRecord() *model.FeatureRecord {
	return &model.FeatureRecord{Age: 30, Height: 170, Weight: 70, NumberOfMajorSurgeries: 1}
}

func TestPremiumEstimator_ArtifactFeatureOrder(t *testing.T) {
	reg, err := regressor.Load(filepath.Join("testdata", "premium_model.json"))
	require.NoError(t, err)

	assert.Equal(t, model.FeatureNames(), reg.FeatureNames())
}

func TestPremiumEstimator_EndToEnd(t *testing.T) {
	est := NewPremiumEstimator(filepath.Join("testdata", "premium_model.json"), zap.NewNop())
	require.NoError(t, est.Load())
	assert.Equal(t, regressor.TypeRandomForest, est.ModelType())

	res, err := est.Estimate(baselineRecord(), model.Tier10Lakh)
	require.NoError(t, err)

	assert.InDelta(t, 24.22, res.BMI, 0.005)
	assert.Equal(t, model.BMINormal, res.BMICategory)
	assert.Equal(t, 16000.0, res.RawPrediction)
	assert.Equal(t, 0.5, res.Scale)
	assert.Equal(t, "8000.00", res.Premium.StringFixed(2))
	assert.Equal(t, "INR 8000.00 per annum", res.Display)
	assert.Equal(t, "10 Lakhs", res.TierLabel)
	assert.NotEmpty(t, res.ID)
	assert.Len(t, res.Inputs, model.FeatureCount)
}

func TestPremiumEstimator_TierRequired(t *testing.T) {
	est := NewPremiumEstimatorFromRegressor(&constRegressor{value: 100, names: model.FeatureNames()}, zap.NewNop())

	res, err := est.Estimate(baselineRecord(), "")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, model.ErrTierRequired)

	res, err = est.Estimate(baselineRecord(), model.CoverageTier("7L"))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, model.ErrUnknownTier)
}

func TestPremiumEstimator_ScalesMonotonically(t *testing.T) {
	reg := &constRegressor{value: 23456.789, names: model.FeatureNames()}
	est := NewPremiumEstimatorFromRegressor(reg, zap.NewNop())

	var prev float64
	for _, tier := range model.CoverageTiers() {
		res, err := est.Estimate(baselineRecord(), tier)
		require.NoError(t, err)

		premium, _ := res.Premium.Float64()
		assert.GreaterOrEqual(t, premium, prev, string(tier))
		prev = premium
	}

	res, err := est.Estimate(baselineRecord(), model.Tier1Crore)
	require.NoError(t, err)
	assert.Equal(t, "23456.79", res.Premium.StringFixed(2))

	res, err = est.Estimate(baselineRecord(), model.Tier5Lakh)
	require.NoError(t, err)
	assert.Equal(t, "9382.72", res.Premium.StringFixed(2))
}

func TestPremiumEstimator_PassesVectorInOrder(t *testing.T) {
	reg := &constRegressor{value: 1, names: model.FeatureNames()}
	est := NewPremiumEstimatorFromRegressor(reg, zap.NewNop())

	rec := baselineRecord()
	rec.AnyTransplants = true
	_, err := est.Estimate(rec, model.Tier20Lakh)
	require.NoError(t, err)

	require.Len(t, reg.seen, 1)
	assert.Equal(t, rec.Vector(), reg.seen[0])
	assert.Equal(t, 1.0, reg.seen[0][3])
}

func TestPremiumEstimator_RejectsMismatchedArtifact(t *testing.T) {
	names := model.FeatureNames()
	names[0], names[1] = names[1], names[0]
	est := NewPremiumEstimatorFromRegressor(&constRegressor{value: 1, names: names}, zap.NewNop())

	err := est.Load()
	assert.ErrorIs(t, err, model.ErrFeatureSchemaMismatch)

	_, err = est.Estimate(baselineRecord(), model.Tier1Crore)
	assert.ErrorIs(t, err, model.ErrFeatureSchemaMismatch)
}

func TestPremiumEstimator_MissingArtifact(t *testing.T) {
	est := NewPremiumEstimator(filepath.Join(t.TempDir(), "missing.json"), zap.NewNop())
	assert.Error(t, est.Load())
	assert.Equal(t, "", est.ModelType())
}

func TestPremiumEstimator_LoadsOnce(t *testing.T) {
	var calls int32
	est := &PremiumEstimator{
		path: "counted",
		loader: func(string) (regressor.Regressor, error) {
			atomic.AddInt32(&calls, 1)
			return &constRegressor{value: 1, names: model.FeatureNames()}, nil
		},
		logger: zap.NewNop(),
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = est.Load()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPremiumEstimator_LoadErrorIsSticky(t *testing.T) {
	var calls int
	boom := errors.New("boom")
	est := &PremiumEstimator{
		loader: func(string) (regressor.Regressor, error) {
			calls++
			return nil, boom
		},
		logger: zap.NewNop(),
	}

	assert.ErrorIs(t, est.Load(), boom)
	assert.ErrorIs(t, est.Load(), boom)
	assert.Equal(t, 1, calls)
}
