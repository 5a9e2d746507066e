// Package services – ReviewService
//
// This file implements ReviewService, which governs how users rate games
// (1–10 plus optional text). It enforces business rules (rating range, game
// existence, one review per user per game, owner-only edits) and persists
// reviews atomically. Service-level sentinel errors (ErrInvalidRating,
// ErrGameNotFound, ErrDuplicateReview, ErrForbiddenReview,
// ErrReviewNotFound) are returned for predictable cases so handlers can map
// them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/criticboard/go-review-backend/internal/domain"
	"github.com/criticboard/go-review-backend/internal/repo"
)

// maxContentRunes caps review text; the form layer enforces the same limit
// client-side.
const maxContentRunes = 1000

// ReviewService implements the use-cases around game reviews. It validates
// the operation (rating range, uniqueness, ownership) and persists the
// review using the provided GORM handle. The service is context-aware and
// opens its own transaction per mutating call.
type ReviewService struct {
	// DB is the database handle used for all review operations.
	// The handle may be a plain *gorm.DB or a transaction-bound handle.
	DB *gorm.DB
}

// Create records a review of gameID on behalf of userID.
//
// Semantics and validation:
//   - ratingValue must be an integer in [1,10]; otherwise ErrInvalidRating.
//   - content is trimmed; whitespace-only content is stored as absent (NULL),
//     and content beyond 1000 runes yields ErrContentTooLong.
//   - gameID must resolve to an existing game; otherwise ErrGameNotFound.
//   - A user may hold at most one review per game; a second attempt yields
//     ErrDuplicateReview, whether caught by the pre-check or by the store's
//     unique constraint.
//
// Concurrency & atomicity:
//   - The operation runs inside a transaction so the existence/uniqueness
//     checks and the insert are atomic.
func (s *ReviewService) Create(ctx context.Context, userID, gameID string, ratingValue int, content string) (*domain.Review, error) {
	if ratingValue < 1 || ratingValue > 10 {
		return nil, ErrInvalidRating
	}
	body, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}

	var created *domain.Review
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) The reviewed game must exist.
		if _, err := repo.GetGame(ctx, tx, gameID); err != nil {
			if repo.IsNotFound(err) {
				return ErrGameNotFound
			}
			return err
		}

		// 2) Fast-path duplicate detection for (user_id, game_id).
		if _, err := repo.GetReviewByUserAndGame(ctx, tx, userID, gameID); err == nil {
			return ErrDuplicateReview
		} else if !repo.IsNotFound(err) {
			return err
		}

		// 3) Insert; the unique index remains authoritative for the
		// check-then-act window.
		rv, err := repo.CreateReview(ctx, tx, userID, gameID, ratingValue, body)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicate(err) {
				return ErrDuplicateReview
			}
			return err
		}
		created = rv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns a review by ID with its author and game, or ErrReviewNotFound.
func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	rv, err := repo.GetReview(ctx, s.DB, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return rv, nil
}

// Update overwrites rating and content of the review identified by
// reviewID on behalf of userID. The game binding and CreatedAt never
// change; UpdatedAt is refreshed.
//
// Ownership is checked against the stored user_id before the mutation,
// never against any caller-supplied owner field. A missing review yields
// ErrReviewNotFound and a non-owner yields ErrForbiddenReview.
func (s *ReviewService) Update(ctx context.Context, userID, reviewID string, ratingValue int, content string) (*domain.Review, error) {
	if ratingValue < 1 || ratingValue > 10 {
		return nil, ErrInvalidRating
	}
	body, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := repo.GetReviewByID(ctx, tx, reviewID)
		if err != nil {
			if repo.IsNotFound(err) {
				return ErrReviewNotFound
			}
			return err
		}
		if existing.UserID != userID {
			return ErrForbiddenReview
		}
		return repo.UpdateReview(ctx, tx, reviewID, ratingValue, body)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, reviewID)
}

// Delete removes the review identified by reviewID on behalf of userID,
// with the same not-found/ownership semantics as Update.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := repo.GetReviewByID(ctx, tx, reviewID)
		if err != nil {
			if repo.IsNotFound(err) {
				return ErrReviewNotFound
			}
			return err
		}
		if existing.UserID != userID {
			return ErrForbiddenReview
		}
		return repo.DeleteReview(ctx, tx, reviewID)
	})
}

// ListPage returns reviews matching the filter, newest first, plus the
// total count for pagination metadata.
func (s *ReviewService) ListPage(ctx context.Context, f repo.ReviewFilter, offset, limit int) ([]domain.Review, int64, error) {
	total, err := repo.CountReviews(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Review{}, 0, nil
	}
	items, err := repo.ListReviewsPage(ctx, s.DB, f, offset, limit)
	return items, total, err
}

// normalizeContent trims review text and folds whitespace-only submissions
// to absent. Reading an absent body back is indistinguishable from never
// having submitted one.
func normalizeContent(content string) (*string, error) {
	t := strings.TrimSpace(content)
	if t == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(t) > maxContentRunes {
		return nil, ErrContentTooLong
	}
	return &t, nil
}
