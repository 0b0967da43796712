package view

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"proffy-mobile/internal/metrics"
	"proffy-mobile/internal/model"
)

// FavoritesTitle is the header of the favorites screen.
const FavoritesTitle = "Meus proffys favoritos"

// FavoritesView is the view model of the favorites screen.
type FavoritesView struct {
	loader  FavoritesLoader
	log     *zap.Logger
	metrics *metrics.Metrics

	mu        sync.RWMutex
	favorites []model.Teacher
}

// FavoritesSnapshot is the rendered state of the favorites screen.
type FavoritesSnapshot struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// NewFavoritesView creates an empty view. m may be nil.
func NewFavoritesView(loader FavoritesLoader, log *zap.Logger, m *metrics.Metrics) *FavoritesView {
	if log == nil {
		log = zap.NewNop()
	}
	return &FavoritesView{
		loader:    loader,
		log:       log,
		metrics:   m,
		favorites: []model.Teacher{},
	}
}

// Focus re-reads the whole collection. When nothing is stored, or the read
// fails, the previously loaded favorites stay in place.
func (v *FavoritesView) Focus(ctx context.Context) error {
	teachers, found, err := loadFavorites(ctx, v.loader, v.metrics, v.log)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	v.mu.Lock()
	v.favorites = teachers
	v.mu.Unlock()
	return nil
}

// Items renders every favorite as favorited, in stored order.
func (v *FavoritesView) Items() []Item {
	v.mu.RLock()
	defer v.mu.RUnlock()

	items := make([]Item, len(v.favorites))
	for i, t := range v.favorites {
		items[i] = Item{Key: t.ID, Teacher: t, Favorited: true}
	}
	return items
}

func (v *FavoritesView) Snapshot() FavoritesSnapshot {
	return FavoritesSnapshot{Title: FavoritesTitle, Items: v.Items()}
}
