package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"proffy-mobile/internal/apperr"
	"proffy-mobile/internal/model"
	"proffy-mobile/internal/view"
)

// FavoriteToggler flips a teacher in or out of the favorites collection.
type FavoriteToggler interface {
	Toggle(ctx context.Context, teacher model.Teacher) (bool, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	favorites FavoriteToggler
	favView   *view.FavoritesView
	listView  *view.TeacherListView
	log       *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(toggler FavoriteToggler, favView *view.FavoritesView, listView *view.TeacherListView, log *zap.Logger) *Handler {
	return &Handler{
		favorites: toggler,
		favView:   favView,
		listView:  listView,
		log:       log,
	}
}

func abortWithError(c *gin.Context, err error) {
	appErr := apperr.FromError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.Status, gin.H{"error": appErr})
}
