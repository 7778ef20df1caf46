package predictor

import (
	"context"

	"ludora/internal/domain"
)

// StaticPredictor returns the same configured signals for every user.
type StaticPredictor struct {
	signals []domain.WeaknessSignal
}

func NewStaticPredictor(signals []domain.WeaknessSignal) *StaticPredictor {
	return &StaticPredictor{signals: signals}
}

func (p *StaticPredictor) Predict(ctx context.Context, userID string, features domain.PerformanceFeatures) ([]domain.WeaknessSignal, error) {
	out := make([]domain.WeaknessSignal, len(p.signals))
	copy(out, p.signals)
	return out, nil
}

var _ domain.WeaknessPredictor = (*StaticPredictor)(nil)
