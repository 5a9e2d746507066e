// Package services – GameService
//
// This file implements GameService, the application-level component that owns
// the game catalog: creation with duplicate-title detection and slug
// allocation, listing with search and per-game rating decoration, and slug
// lookups with the full review aggregate.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// slugs and pagination parameters where applicable.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/criticboard/go-review-backend/internal/domain"
	"github.com/criticboard/go-review-backend/internal/rating"
	"github.com/criticboard/go-review-backend/internal/repo"
	"github.com/criticboard/go-review-backend/internal/slug"
)

// defaultSlugAttempts bounds the suffix search when the service is
// constructed without an explicit budget.
const defaultSlugAttempts = 1000

// GameService coordinates catalog persistence and rating decoration.
type GameService struct {
	DB *gorm.DB

	// SlugMaxAttempts caps the slug suffix probing; <= 0 selects the default.
	SlugMaxAttempts int
}

// CreateGameInput carries the accepted fields for a new catalog entry.
// Title is mandatory; everything else is optional.
type CreateGameInput struct {
	Title       string
	Description *string
	ImageURL    *string
	ReleaseDate *time.Time
	Genre       []string
	Platform    []string
}

// GameWithStats decorates a catalog entry with its review aggregate for
// list responses. AverageRating is nil when the game has no reviews.
type GameWithStats struct {
	domain.Game
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
}

// Create validates the title, enforces case-insensitive title uniqueness,
// allocates a collision-free slug, and inserts the game.
//
// Semantics and validation:
//   - Title is trimmed; empty titles yield ErrEmptyTitle and titles that
//     normalize to an empty slug yield ErrInvalidTitle.
//   - A case-insensitive title match yields ErrDuplicateTitle before slug
//     allocation is attempted.
//   - Slug probing is bounded; exhaustion yields ErrSlugExhausted.
//   - The slug pre-check is best effort: the insert still relies on the
//     store's unique constraints, and a duplicate-key error maps to
//     ErrDuplicateTitle so callers cannot distinguish which path detected
//     the conflict.
func (s *GameService) Create(ctx context.Context, in CreateGameInput) (*domain.Game, error) {
	tr := otel.Tracer("services/GameService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	base := slug.Make(title)
	if base == "" {
		return nil, ErrInvalidTitle
	}
	span.SetAttributes(attribute.String("game.slug_base", base))

	var created *domain.Game
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) Reject duplicate titles (case-insensitive) before touching slugs.
		if _, err := repo.FindGameByTitle(ctx, tx, title); err == nil {
			return ErrDuplicateTitle
		} else if !repo.IsNotFound(err) {
			return err
		}

		// 2) Find a free slug within the attempt budget.
		max := s.SlugMaxAttempts
		if max <= 0 {
			max = defaultSlugAttempts
		}
		allocated, err := slug.Allocate(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
			return repo.SlugExists(ctx, tx, candidate)
		}, max)
		if err != nil {
			if errors.Is(err, slug.ErrExhausted) {
				return ErrSlugExhausted
			}
			return err
		}

		// 3) Insert; the unique constraints remain the source of truth for
		// the check-then-act window.
		g, err := repo.CreateGame(ctx, tx, repo.NewGame{
			Title:       title,
			Slug:        allocated,
			Description: normalizeOptional(in.Description),
			ImageURL:    normalizeOptional(in.ImageURL),
			ReleaseDate: in.ReleaseDate,
			Genre:       domain.NormalizeTags(in.Genre),
			Platform:    domain.NormalizeTags(in.Platform),
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
				return ErrDuplicateTitle
			}
			return err
		}
		created = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListPage returns a page of the catalog matching the optional search term,
// each entry decorated with its nullable average rating and review count,
// plus the total match count for pagination metadata.
func (s *GameService) ListPage(ctx context.Context, search string, offset, limit int) ([]GameWithStats, int64, error) {
	tr := otel.Tracer("services/GameService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("search", search),
			attribute.Int("offset", offset),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	search = strings.TrimSpace(search)

	total, err := repo.CountGames(ctx, s.DB, search)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []GameWithStats{}, 0, nil
	}

	games, err := repo.ListGamesPage(ctx, s.DB, search, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	ratings, err := repo.RatingsByGame(ctx, s.DB, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]GameWithStats, len(games))
	for i, g := range games {
		sum := rating.Summarize(ratings[g.ID])
		out[i] = GameWithStats{
			Game:          g,
			AverageRating: sum.Average,
			ReviewCount:   sum.Count,
		}
	}
	return out, total, nil
}

// GetBySlug fetches a game by its exact slug along with the full review
// aggregate (count, nullable average, histogram). A missing slug yields
// ErrGameNotFound.
func (s *GameService) GetBySlug(ctx context.Context, slugValue string) (*domain.Game, rating.Summary, error) {
	tr := otel.Tracer("services/GameService")
	ctx, span := tr.Start(ctx, "GetBySlug",
		trace.WithAttributes(attribute.String("game.slug", slugValue)),
	)
	defer span.End()

	g, err := repo.GetGameBySlug(ctx, s.DB, slugValue)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, rating.Summary{}, ErrGameNotFound
		}
		return nil, rating.Summary{}, err
	}

	scores, err := repo.RatingsForGame(ctx, s.DB, g.ID)
	if err != nil {
		return nil, rating.Summary{}, err
	}
	return g, rating.Summarize(scores), nil
}

// normalizeOptional trims an optional string, folding empty results to nil.
func normalizeOptional(p *string) *string {
	if p == nil {
		return nil
	}
	t := strings.TrimSpace(*p)
	if t == "" {
		return nil
	}
	return &t
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
