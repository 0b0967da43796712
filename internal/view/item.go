package view

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"proffy-mobile/internal/favorites"
	"proffy-mobile/internal/metrics"
	"proffy-mobile/internal/model"
)

// Item is what a screen hands to the teacher card for one teacher.
type Item struct {
	Key       int64         `json:"key"`
	Teacher   model.Teacher `json:"teacher"`
	Favorited bool          `json:"favorited"`
}

// FavoritesLoader reads the persisted favorites collection.
type FavoritesLoader interface {
	Load(ctx context.Context) (teachers []model.Teacher, found bool, err error)
}

func loadFavorites(ctx context.Context, loader FavoritesLoader, m *metrics.Metrics, log *zap.Logger) ([]model.Teacher, bool, error) {
	teachers, found, err := loader.Load(ctx)
	switch {
	case errors.Is(err, favorites.ErrMalformed):
		m.ObserveFavoritesLoad(metrics.OutcomeMalformed)
		log.Error("favorites collection is malformed", zap.Error(err))
	case err != nil:
		m.ObserveFavoritesLoad(metrics.OutcomeError)
		log.Error("failed to read favorites collection", zap.Error(err))
	case !found:
		m.ObserveFavoritesLoad(metrics.OutcomeAbsent)
	default:
		m.ObserveFavoritesLoad(metrics.OutcomeOK)
	}
	return teachers, found, err
}
