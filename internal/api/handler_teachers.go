package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"proffy-mobile/internal/apperr"
	"proffy-mobile/internal/listing"
	"proffy-mobile/internal/view"
)

// GetTeachers handles GET /api/teachers.
func (h *Handler) GetTeachers(c *gin.Context) {
	c.JSON(http.StatusOK, h.listView.Snapshot())
}

// ToggleFilters handles POST /api/teachers/filters/visibility.
func (h *Handler) ToggleFilters(c *gin.Context) {
	h.listView.ToggleFilters()
	c.JSON(http.StatusOK, h.listView.Snapshot())
}

type setFiltersRequest struct {
	Subject *string `json:"subject"`
	WeekDay *string `json:"week_day"`
	Time    *string `json:"time"`
}

// SetFilters handles PUT /api/teachers/filters. Fields left out of the body
// keep their current value.
func (h *Handler) SetFilters(c *gin.Context) {
	var req setFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperr.Wrap(err, apperr.ErrValidation))
		return
	}

	if req.Subject != nil {
		h.listView.SetSubject(*req.Subject)
	}
	if req.WeekDay != nil {
		h.listView.SetWeekDay(*req.WeekDay)
	}
	if req.Time != nil {
		h.listView.SetTime(*req.Time)
	}
	c.JSON(http.StatusOK, h.listView.Snapshot())
}

// SubmitFilters handles POST /api/teachers/filters/submit. A failed query is
// part of the returned view state, not an HTTP error.
func (h *Handler) SubmitFilters(c *gin.Context) {
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		var criteria listing.Criteria
		switch err := c.ShouldBindJSON(&criteria); {
		case errors.Is(err, io.EOF):
		case err != nil:
			abortWithError(c, apperr.Wrap(err, apperr.ErrValidation))
			return
		default:
			h.listView.SetCriteria(criteria)
		}
	}

	// The view is shared by every client, so a caller hanging up must not
	// turn into a failed query. The listing client has its own timeout.
	ctx := context.WithoutCancel(c.Request.Context())
	if err := h.listView.Submit(ctx); err != nil {
		if errors.Is(err, view.ErrSuperseded) {
			abortWithError(c, apperr.Wrap(err, apperr.ErrSuperseded))
		} else {
			abortWithError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, h.listView.Snapshot())
}
