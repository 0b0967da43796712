package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"proffy-mobile/internal/apperr"
	"proffy-mobile/internal/favorites"
	"proffy-mobile/internal/model"
)

// GetFavorites handles GET /api/favorites. Every call is a screen focus.
func (h *Handler) GetFavorites(c *gin.Context) {
	if err := h.favView.Focus(c.Request.Context()); err != nil {
		if errors.Is(err, favorites.ErrMalformed) {
			abortWithError(c, apperr.Wrap(err, apperr.ErrMalformedFavorites))
		} else {
			abortWithError(c, apperr.Wrap(err, apperr.ErrStorage))
		}
		return
	}
	c.JSON(http.StatusOK, h.favView.Snapshot())
}

type toggleFavoriteRequest struct {
	ID *int64 `json:"id" binding:"required"`
}

// ToggleFavorite handles POST /api/favorites/toggle. The body is the teacher
// record and is stored exactly as sent.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		abortWithError(c, apperr.Wrap(err, apperr.ErrValidation))
		return
	}

	var req toggleFavoriteRequest
	if err := binding.JSON.BindBody(raw, &req); err != nil {
		abortWithError(c, apperr.Wrap(err, apperr.ErrValidation))
		return
	}

	var teacher model.Teacher
	if err := json.Unmarshal(raw, &teacher); err != nil {
		abortWithError(c, apperr.Wrap(err, apperr.ErrValidation))
		return
	}

	favorited, err := h.favorites.Toggle(c.Request.Context(), teacher)
	if err != nil {
		if errors.Is(err, favorites.ErrMalformed) {
			abortWithError(c, apperr.Wrap(err, apperr.ErrMalformedFavorites))
		} else {
			abortWithError(c, apperr.Wrap(err, apperr.ErrStorage))
		}
		return
	}

	if err := h.listView.ReloadFavorites(c.Request.Context()); err != nil {
		h.log.Warn("teacher list keeps stale favorites", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"id": teacher.ID, "favorited": favorited})
}
