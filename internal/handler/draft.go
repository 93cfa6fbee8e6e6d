package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flourineV/cinemas-frontend-sub000/internal/repository"
)

// DraftHandler serves the navigation handoff: the payment screen
// exchanges the token it carried through navigation for the stored
// draft and resumes the countdown from ttl_remaining + captured_at.
type DraftHandler struct {
	Drafts *repository.DraftRepo
}

// NewDraftHandler constructs a DraftHandler.  The repository must be
// non-nil.
func NewDraftHandler(drafts *repository.DraftRepo) *DraftHandler {
	if drafts == nil {
		panic("nil draft repository passed to NewDraftHandler")
	}
	return &DraftHandler{Drafts: drafts}
}

// GetDraft handles GET /v1/drafts/:token.  Unknown and expired tokens
// both answer 404; an expired pending draft is as unusable as a
// missing one.
func (h *DraftHandler) GetDraft(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}
	rec, err := h.Drafts.GetByToken(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, repository.ErrDraftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "draft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load draft"})
	}
	draft, err := rec.Draft()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to decode draft"})
	}
	return c.JSON(http.StatusOK, echo.Map{"draft": draft})
}
