// Review HTTP handlers.
//
// This file exposes REST endpoints for review resources:
//   - POST   /reviews      (create, authenticated)
//   - GET    /reviews      (list, filterable by game/user)
//   - GET    /reviews/{id} (read)
//   - PUT    /reviews/{id} (update, owner only)
//   - DELETE /reviews/{id} (delete, owner only)
//
// Handlers in this file are transport-thin: they validate input, delegate to
// application services, and translate domain/service errors into HTTP results.
// Ratings are constrained to integers in [1,10]; review text is optional.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/criticboard/go-review-backend/internal/domain"
	"github.com/criticboard/go-review-backend/internal/http/middleware"
	"github.com/criticboard/go-review-backend/internal/repo"
	"github.com/criticboard/go-review-backend/internal/services"
)

// CreateReviewRequest is the JSON payload for creating a review.
//
// Rating must be an integer between 1 and 10; the binding tag enforces the
// domain constraint at the transport layer (non-integer values already fail
// JSON binding). Content is optional and trimmed server-side.
type CreateReviewRequest struct {
	GameID  string `json:"game_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Rating  int    `json:"rating" binding:"required,min=1,max=10" example:"8"`
	Content string `json:"content,omitempty" example:"Tight controls, great soundtrack."`
}

// UpdateReviewRequest is the JSON payload for editing a review. The game
// binding cannot be changed; only rating and content are accepted.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=10" example:"9"`
	Content string `json:"content,omitempty" example:"Even better after the patch."`
}

// ListReviewsResponse wraps a page of reviews and pagination information.
type ListReviewsResponse struct {
	Reviews    []domain.Review `json:"reviews"`
	Pagination Pagination      `json:"pagination"`
}

// mapReviewErr translates service sentinels into HTTP results shared by the
// review endpoints.
func mapReviewErr(c *gin.Context, err error) {
	switch err {
	case services.ErrInvalidRating, services.ErrContentTooLong:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case services.ErrGameNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case services.ErrReviewNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case services.ErrDuplicateReview:
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case services.ErrForbiddenReview:
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	default:
		failInternal(c, err)
	}
}

// CreateReview godoc
// @ID          createReview
// @Summary     Review a game
// @Description Records a 1–10 rating with optional text. A user can hold at most one review per game.
// @Tags        Reviews
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.CreateReviewRequest  true  "Review payload"
//
// @Success     201  {object} domain.Review
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload or rating"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     404  {object} handlers.ErrorResponse "Game not found"
// @Failure     409  {object} handlers.ErrorResponse "Review already exists"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /reviews [post]
func (h *Handlers) CreateReview(c *gin.Context) {
	uid, authed := middleware.UserID(c)
	if !authed {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rating must be an integer between 1 and 10")
		return
	}

	rv, err := h.reviewSvc.Create(c.Request.Context(), uid, req.GameID, req.Rating, req.Content)
	if err != nil {
		mapReviewErr(c, err)
		return
	}
	ok(c, http.StatusCreated, rv)
}

// ListReviews godoc
// @ID          listReviews
// @Summary     List reviews
// @Description Returns reviews newest first, optionally filtered by game and/or user.
// @Tags        Reviews
// @Produce     json
//
// @Param       game_id  query  string  false "Filter by game ID"
// @Param       user_id  query  string  false "Filter by user ID"
// @Param       limit    query  int     false "Items per page" minimum(1) maximum(100) default(50)
// @Param       offset   query  int     false "Items to skip"  minimum(0) default(0)
//
// @Success     200  {object} handlers.ListReviewsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /reviews [get]
func (h *Handlers) ListReviews(c *gin.Context) {
	limit, offset := clampLimitOffset(c)
	f := repo.ReviewFilter{
		GameID: c.Query("game_id"),
		UserID: c.Query("user_id"),
	}

	items, total, err := h.reviewSvc.ListPage(c.Request.Context(), f, offset, limit)
	if err != nil {
		failOp(c, err, ErrCodeListFailed, "could not list reviews")
		return
	}

	ok(c, http.StatusOK, ListReviewsResponse{
		Reviews: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			Total:   total,
			HasMore: int64(offset+len(items)) < total,
		},
	})
}

// GetReview godoc
// @ID          getReview
// @Summary     Get a review
// @Description Returns a single review with its author and game.
// @Tags        Reviews
// @Produce     json
//
// @Param       id  path  string  true  "Review ID (UUID)" format(uuid)
//
// @Success     200  {object} domain.Review
// @Failure     400  {object} handlers.ErrorResponse "Invalid ID"
// @Failure     404  {object} handlers.ErrorResponse "Review not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /reviews/{id} [get]
func (h *Handlers) GetReview(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}

	rv, err := h.reviewSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapReviewErr(c, err)
		return
	}
	ok(c, http.StatusOK, rv)
}

// UpdateReview godoc
// @ID          updateReview
// @Summary     Edit a review
// @Description Updates rating and content of a review owned by the current user. The game binding never changes.
// @Tags        Reviews
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string  true  "Review ID (UUID)" format(uuid)
// @Param       body  body  handlers.UpdateReviewRequest  true  "Updated fields"
//
// @Success     200  {object} domain.Review
// @Failure     400  {object} handlers.ErrorResponse "Invalid payload or rating"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     403  {object} handlers.ErrorResponse "Not the review owner"
// @Failure     404  {object} handlers.ErrorResponse "Review not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /reviews/{id} [put]
func (h *Handlers) UpdateReview(c *gin.Context) {
	uid, authed := middleware.UserID(c)
	if !authed {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rating must be an integer between 1 and 10")
		return
	}

	rv, err := h.reviewSvc.Update(c.Request.Context(), uid, id, req.Rating, req.Content)
	if err != nil {
		mapReviewErr(c, err)
		return
	}
	ok(c, http.StatusOK, rv)
}

// DeleteReview godoc
// @ID          deleteReview
// @Summary     Delete a review
// @Description Removes a review owned by the current user.
// @Tags        Reviews
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Review ID (UUID)" format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Invalid ID"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     403  {object} handlers.ErrorResponse "Not the review owner"
// @Failure     404  {object} handlers.ErrorResponse "Review not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /reviews/{id} [delete]
func (h *Handlers) DeleteReview(c *gin.Context) {
	uid, authed := middleware.UserID(c)
	if !authed {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "review id must be a UUID")
		return
	}

	if err := h.reviewSvc.Delete(c.Request.Context(), uid, id); err != nil {
		mapReviewErr(c, err)
		return
	}
	noContent(c)
}
