// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Game model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a game is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated. Uniqueness violations on title or
//     slug are translated by the service layer into duplicate errors.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/criticboard/go-review-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// NewGame describes the fields accepted when inserting a game. Title and
// Slug must already be validated/allocated by the service layer.
type NewGame struct {
	Title       string
	Slug        string
	Description *string
	ImageURL    *string
	ReleaseDate *time.Time
	Genre       domain.StringList
	Platform    domain.StringList
}

// CreateGame inserts a new Game row with a UUID primary key and UTC
// timestamp. Uniqueness of title and slug is enforced by the database
// schema; violations come back as the driver's duplicate-key error.
func CreateGame(ctx context.Context, db *gorm.DB, in NewGame) (*domain.Game, error) {
	g := &domain.Game{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		ReleaseDate: in.ReleaseDate,
		Genre:       in.Genre,
		Platform:    in.Platform,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// GetGame fetches a single game by its ID, or ErrNotFound if missing.
func GetGame(ctx context.Context, db *gorm.DB, id string) (*domain.Game, error) {
	var g domain.Game
	if err := db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGameBySlug fetches a single game by its exact slug, or ErrNotFound.
func GetGameBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Game, error) {
	var g domain.Game
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// SlugExists reports whether any game (including soft-deleted rows, which
// still occupy the unique index) holds the given slug.
func SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Unscoped().
		Model(&domain.Game{}).
		Where("slug = ?", slug).
		Count(&n).Error
	return n > 0, err
}

// FindGameByTitle returns the game whose title matches case-insensitively,
// or ErrNotFound when no such game exists.
func FindGameByTitle(ctx context.Context, db *gorm.DB, title string) (*domain.Game, error) {
	var g domain.Game
	err := db.WithContext(ctx).
		Where("LOWER(title) = LOWER(?)", title).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// escapeLike neutralizes LIKE wildcards so search terms match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// searchScope composes the optional case-insensitive catalog filter: a hit
// on title, description, or one of the genre tags.
func searchScope(db *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return db
	}
	like := "%" + escapeLike(search) + "%"
	return db.Where(
		`LOWER(title) LIKE LOWER(?) ESCAPE '\' OR LOWER(description) LIKE LOWER(?) ESCAPE '\' OR LOWER(genre) LIKE LOWER(?) ESCAPE '\'`,
		like, like, like,
	)
}

// CountGames returns the number of games matching the optional search term.
func CountGames(ctx context.Context, db *gorm.DB, search string) (int64, error) {
	var total int64
	err := searchScope(db.WithContext(ctx).Model(&domain.Game{}), search).
		Count(&total).Error
	return total, err
}

// ListGamesPage returns a slice of the catalog matching the optional search
// term, ordered by title ascending, bounded by limit/offset.
func ListGamesPage(ctx context.Context, db *gorm.DB, search string, offset, limit int) ([]domain.Game, error) {
	var out []domain.Game
	err := searchScope(db.WithContext(ctx), search).
		Order("title asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeleteGame soft-deletes a game by ID. The row keeps occupying the unique
// indexes and associated reviews are left in place; the FK cascade applies
// only to hard deletes. Returns ErrNotFound when no row matched.
func DeleteGame(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Game{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err represents a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
