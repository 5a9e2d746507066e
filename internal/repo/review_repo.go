// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Review model.
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition, leaving business rules (rating range, ownership,
// one-review-per-user-per-game) to the services package.
//
// Error semantics:
//   - A duplicate review (same user_id, game_id) relies on the database
//     unique constraint and is returned as a raw DB error. The service layer
//     translates that into a domain error (e.g., ErrDuplicateReview).
//   - Missing rows are reported as gorm.ErrRecordNotFound / ErrNotFound.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/criticboard/go-review-backend/internal/domain"
)

// CreateReview inserts a review row for the given game and user. The
// combination (user_id, game_id) must be unique, enforced by the database
// schema. Rating range validation is performed by the service layer and
// backed by a DB check constraint.
func CreateReview(ctx context.Context, db *gorm.DB, userID, gameID string, ratingValue int, content *string) (*domain.Review, error) {
	now := time.Now().UTC()
	rv := &domain.Review{
		ID:        uuid.NewString(),
		GameID:    gameID,
		UserID:    userID,
		Rating:    ratingValue,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(rv).Error; err != nil {
		return nil, err
	}
	return rv, nil
}

// GetReview fetches a review by ID with its author and game preloaded,
// or ErrNotFound if missing.
func GetReview(ctx context.Context, db *gorm.DB, id string) (*domain.Review, error) {
	var rv domain.Review
	err := db.WithContext(ctx).
		Preload("User").
		Preload("Game").
		Where("id = ?", id).
		First(&rv).Error
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// GetReviewByID fetches a review by ID without associations, suitable for
// ownership checks inside transactions.
func GetReviewByID(ctx context.Context, db *gorm.DB, id string) (*domain.Review, error) {
	var rv domain.Review
	if err := db.WithContext(ctx).Where("id = ?", id).First(&rv).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

// GetReviewByUserAndGame fetches the unique review for (userID, gameID),
// or ErrNotFound when the user has not reviewed the game.
func GetReviewByUserAndGame(ctx context.Context, db *gorm.DB, userID, gameID string) (*domain.Review, error) {
	var rv domain.Review
	err := db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		First(&rv).Error
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// UpdateReview overwrites rating and content for the review identified by
// id, advancing updated_at. CreatedAt and the (user, game) binding are
// never touched. Returns ErrNotFound when no row matched.
func UpdateReview(ctx context.Context, db *gorm.DB, id string, ratingValue int, content *string) error {
	res := db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating":     ratingValue,
			"content":    content,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteReview removes a review by ID. Returns ErrNotFound when no row
// matched.
func DeleteReview(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReviewFilter narrows review listings; zero values mean "no filter".
type ReviewFilter struct {
	GameID string
	UserID string
}

func (f ReviewFilter) scope(db *gorm.DB) *gorm.DB {
	if f.GameID != "" {
		db = db.Where("game_id = ?", f.GameID)
	}
	if f.UserID != "" {
		db = db.Where("user_id = ?", f.UserID)
	}
	return db
}

// CountReviews returns the number of reviews matching the filter.
func CountReviews(ctx context.Context, db *gorm.DB, f ReviewFilter) (int64, error) {
	var total int64
	err := f.scope(db.WithContext(ctx).Model(&domain.Review{})).
		Count(&total).Error
	return total, err
}

// ListReviewsPage returns reviews matching the filter, newest first, with
// author and game preloaded, bounded by limit/offset.
func ListReviewsPage(ctx context.Context, db *gorm.DB, f ReviewFilter, offset, limit int) ([]domain.Review, error) {
	var out []domain.Review
	err := f.scope(db.WithContext(ctx)).
		Preload("User").
		Preload("Game").
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// RatingsForGame returns the bare rating values of a game's reviews.
// The aggregation itself lives in the rating package.
func RatingsForGame(ctx context.Context, db *gorm.DB, gameID string) ([]int, error) {
	var out []int
	err := db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("game_id = ?", gameID).
		Pluck("rating", &out).Error
	return out, err
}

// RatingsByGame returns the rating values of every listed game in one
// query, keyed by game ID. Games without reviews are absent from the map.
func RatingsByGame(ctx context.Context, db *gorm.DB, gameIDs []string) (map[string][]int, error) {
	out := make(map[string][]int, len(gameIDs))
	if len(gameIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		GameID string
		Rating int
	}
	err := db.WithContext(ctx).
		Model(&domain.Review{}).
		Select("game_id", "rating").
		Where("game_id IN ?", gameIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.GameID] = append(out[r.GameID], r.Rating)
	}
	return out, nil
}
