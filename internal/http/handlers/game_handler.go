// Game HTTP handlers.
//
// This file exposes REST endpoints for catalog resources:
//   - POST /games        (create, authenticated)
//   - GET  /games        (list, search + limit/offset, ETag support)
//   - GET  /games/{slug} (detail with review aggregate)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/criticboard/go-review-backend/internal/domain"
	"github.com/criticboard/go-review-backend/internal/http/middleware"
	"github.com/criticboard/go-review-backend/internal/rating"
	"github.com/criticboard/go-review-backend/internal/repo"
	"github.com/criticboard/go-review-backend/internal/services"
	"github.com/criticboard/go-review-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// GameService defines catalog operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type GameService interface {
	// Create validates the title, allocates a slug, and inserts the game.
	Create(ctx context.Context, in services.CreateGameInput) (*domain.Game, error)
	// ListPage returns a page of the catalog with rating decoration and the
	// total match count.
	ListPage(ctx context.Context, search string, offset, limit int) ([]services.GameWithStats, int64, error)
	// GetBySlug returns a game and its review aggregate.
	GetBySlug(ctx context.Context, slug string) (*domain.Game, rating.Summary, error)
}

// ReviewService defines review lifecycle operations consumed by HTTP handlers.
type ReviewService interface {
	// Create records a review for gameID on behalf of userID.
	Create(ctx context.Context, userID, gameID string, ratingValue int, content string) (*domain.Review, error)
	// Get returns a single review with author and game.
	Get(ctx context.Context, id string) (*domain.Review, error)
	// Update overwrites rating/content of an owned review.
	Update(ctx context.Context, userID, reviewID string, ratingValue int, content string) (*domain.Review, error)
	// Delete removes an owned review.
	Delete(ctx context.Context, userID, reviewID string) error
	// ListPage returns reviews matching the filter and the total count.
	ListPage(ctx context.Context, f repo.ReviewFilter, offset, limit int) ([]domain.Review, int64, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for games and reviews. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	gameSvc   GameService
	reviewSvc ReviewService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(gameSvc GameService, reviewSvc ReviewService) *Handlers {
	return &Handlers{gameSvc: gameSvc, reviewSvc: reviewSvc}
}

//
// DTOs
//

// CreateGameRequest is the JSON payload for creating a catalog entry.
type CreateGameRequest struct {
	// Title names the game (1–255 chars); uniqueness is case-insensitive.
	Title       string  `json:"title" binding:"required,min=1,max=255" example:"Café Racer"`
	Description *string `json:"description,omitempty" example:"Arcade motorcycle racing"`
	ImageURL    *string `json:"image_url,omitempty" example:"https://cdn.example.com/cafe-racer.jpg"`
	// ReleaseDate accepts YYYY-MM-DD or RFC 3339.
	ReleaseDate *string  `json:"release_date,omitempty" example:"2024-11-02"`
	Genre       []string `json:"genre,omitempty" example:"racing,arcade"`
	Platform    []string `json:"platform,omitempty" example:"pc,switch"`
}

// Pagination carries limit/offset metadata for list responses.
type Pagination struct {
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"has_more"`
}

// ListGamesResponse wraps a page of games and pagination information.
type ListGamesResponse struct {
	Games      []services.GameWithStats `json:"games"`
	Pagination Pagination               `json:"pagination"`
}

// GameStats is the review aggregate included in game detail responses.
type GameStats struct {
	Count        int                 `json:"count"`
	Average      *float64            `json:"average"`
	Distribution [rating.Buckets]int `json:"distribution"`
	Tier         string              `json:"tier,omitempty"`
}

// GameDetailResponse combines a game, its aggregate, and its reviews.
type GameDetailResponse struct {
	Game    domain.Game     `json:"game"`
	Stats   GameStats       `json:"stats"`
	Reviews []domain.Review `json:"reviews"`
}

//
// Helpers
//

// clampLimitOffset parses and bounds limit and offset query params.
func clampLimitOffset(c *gin.Context) (limit, offset int) {
	const (
		defaultLimit = 50
		maxLimit     = 100
	)
	limit = utils.ClampLimit(c.Query("limit"), defaultLimit, maxLimit)
	offset = utils.ClampOffset(c.Query("offset"))
	return
}

// parseReleaseDate accepts YYYY-MM-DD or RFC 3339 timestamps.
func parseReleaseDate(s *string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t, true
		}
	}
	return nil, false
}

//
// Handlers
//

// CreateGame godoc
// @ID          createGame
// @Summary     Create a new game
// @Description Creates a catalog entry with a derived URL slug. Titles are unique case-insensitively.
// @Tags        Games
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.CreateGameRequest  true  "Create game payload"
//
// @Success     201  {object}  services.GameWithStats
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Failure     409  {object}  handlers.ErrorResponse  "Title already exists"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /games [post]
func (h *Handlers) CreateGame(c *gin.Context) {
	if _, authed := middleware.UserID(c); !authed {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title is required")
		return
	}
	releaseDate, valid := parseReleaseDate(req.ReleaseDate)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "release_date must be YYYY-MM-DD or RFC 3339")
		return
	}

	g, err := h.gameSvc.Create(c.Request.Context(), services.CreateGameInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ReleaseDate: releaseDate,
		Genre:       req.Genre,
		Platform:    req.Platform,
	})
	if err != nil {
		switch err {
		case services.ErrEmptyTitle, services.ErrInvalidTitle:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case services.ErrDuplicateTitle:
			fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		default:
			failOp(c, err, ErrCodeCreateFailed, "could not create game")
		}
		return
	}

	// A brand-new game has no reviews, hence a null average.
	ok(c, http.StatusCreated, services.GameWithStats{Game: *g})
}

// ListGames godoc
// @ID          listGames
// @Summary     List games (search + pagination)
// @Description Returns a page of the catalog ordered by title. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Games
// @Produce     json
//
// @Param       search         query   string  false "Case-insensitive match on title, description, or genre"
// @Param       limit          query   int     false "Items per page"  minimum(1) maximum(100) default(50)
// @Param       offset         query   int     false "Items to skip"   minimum(0) default(0)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.ListGamesResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /games [get]
func (h *Handlers) ListGames(c *gin.Context) {
	ctx := c.Request.Context()
	limit, offset := clampLimitOffset(c)
	search := c.Query("search")

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, isConcrete := h.gameSvc.(*services.GameService); isConcrete {
		db = svc.DB
	}
	if db != nil && search == "" {
		count, maxTS, err := repo.GamesStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"games:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.gameSvc.ListPage(ctx, search, offset, limit)
	if err != nil {
		failOp(c, err, ErrCodeListFailed, "could not list games")
		return
	}

	ok(c, http.StatusOK, ListGamesResponse{
		Games: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			Total:   total,
			HasMore: int64(offset+len(items)) < total,
		},
	})
}

// GetGame godoc
// @ID          getGame
// @Summary     Get a game by slug
// @Description Returns the game, its review aggregate (count, nullable average, histogram, tier), and its reviews.
// @Tags        Games
// @Produce     json
//
// @Param       slug  path  string  true  "Game slug"  example(cafe-racer)
//
// @Success     200  {object} handlers.GameDetailResponse
// @Failure     404  {object} handlers.ErrorResponse "Game not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /games/{slug} [get]
func (h *Handlers) GetGame(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	g, summary, err := h.gameSvc.GetBySlug(ctx, slug)
	if err != nil {
		if err == services.ErrGameNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "game not found")
			return
		}
		failInternal(c, err)
		return
	}

	reviews, _, err := h.reviewSvc.ListPage(ctx, repo.ReviewFilter{GameID: g.ID}, 0, 100)
	if err != nil {
		failInternal(c, err)
		return
	}

	ok(c, http.StatusOK, GameDetailResponse{
		Game: *g,
		Stats: GameStats{
			Count:        summary.Count,
			Average:      summary.Average,
			Distribution: summary.Distribution,
			Tier:         summary.TierFor(),
		},
		Reviews: reviews,
	})
}
