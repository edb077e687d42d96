package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"medpremium/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryStore struct {
	saved   []*model.PredictionLog
	vectors [][]float32
	saveErr error
}

func (m *memoryStore) SavePrediction(_ context.Context, log *model.PredictionLog, features []float32) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, log)
	m.vectors = append(m.vectors, features)
	return nil
}

func (m *memoryStore) RecentPredictions(_ context.Context, limit int) ([]model.PredictionLog, error) {
	out := make([]model.PredictionLog, 0, limit)
	for i := len(m.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *m.saved[i])
	}
	return out, nil
}

func (m *memoryStore) SimilarPredictions(_ context.Context, _ string, _ int) ([]model.PredictionLog, error) {
	return nil, nil
}

func newTestPredictionService(t *testing.T, store PredictionStore) *PredictionService {
	t.Helper()
	est := NewPremiumEstimator(filepath.Join("testdata", "premium_model.json"), zap.NewNop())
	require.NoError(t, est.Load())
	return NewPredictionService(NewFeatureAssembler(), est, store, zap.NewNop())
}

func TestPredictionService_Predict(t *testing.T) {
	store := &memoryStore{}
	svc := newTestPredictionService(t, store)

	res, err := svc.Predict(context.Background(), &model.PredictRequest{
		RawInput: validInput(),
		Coverage: "10 Lakhs",
	})
	require.NoError(t, err)
	assert.Equal(t, "INR 8000.00 per annum", res.Display)

	require.Len(t, store.saved, 1)
	assert.Equal(t, res.ID, store.saved[0].ID)
	assert.Equal(t, "10L", store.saved[0].Tier)
	require.Len(t, store.vectors[0], model.FeatureCount)
	assert.Equal(t, float32(30), store.vectors[0][0])
}

func TestPredictionService_NoTierBlocksPrediction(t *testing.T) {
	store := &memoryStore{}
	svc := newTestPredictionService(t, store)

	res, err := svc.Predict(context.Background(), &model.PredictRequest{RawInput: validInput()})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, model.ErrTierRequired)
	assert.Empty(t, store.saved)
}

func TestPredictionService_InvalidInput(t *testing.T) {
	svc := newTestPredictionService(t, nil)
	in := validInput()
	in.Age = 12

	_, err := svc.Predict(context.Background(), &model.PredictRequest{RawInput: in, Coverage: "1 Crore"})
	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestPredictionService_StoreFailureIsNotFatal(t *testing.T) {
	svc := newTestPredictionService(t, &memoryStore{saveErr: errors.New("db down")})

	res, err := svc.Predict(context.Background(), &model.PredictRequest{RawInput: validInput(), Coverage: "1Cr"})
	require.NoError(t, err)
	assert.Equal(t, "16000.00", res.Premium.StringFixed(2))
}

func TestPredictionService_HistoryDisabled(t *testing.T) {
	svc := newTestPredictionService(t, nil)
	assert.False(t, svc.HistoryEnabled())

	_, err := svc.RecentPredictions(context.Background(), 5)
	assert.ErrorIs(t, err, ErrPredictionLogDisabled)

	_, err = svc.SimilarPredictions(context.Background(), "x", 5)
	assert.ErrorIs(t, err, ErrPredictionLogDisabled)
}

func TestPredictionService_Recent(t *testing.T) {
	store := &memoryStore{}
	svc := newTestPredictionService(t, store)
	for _, cov := range []string{"5L", "20L"} {
		_, err := svc.Predict(context.Background(), &model.PredictRequest{RawInput: validInput(), Coverage: cov})
		require.NoError(t, err)
	}

	recent, err := svc.RecentPredictions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "20L", recent[0].Tier)
}

func TestPredictionService_SimilarRejectsMalformedID(t *testing.T) {
	svc := newTestPredictionService(t, &memoryStore{})

	_, err := svc.SimilarPredictions(context.Background(), "not-a-uuid", 5)
	assert.ErrorIs(t, err, model.ErrPredictionNotFound)
}
