// Package domain defines the persistence models for games, reviews, and
// users. These types are mapped with GORM and form the core data layer
// of the review application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// User represents an identity provisioned by the external authentication
// provider. Users are never created through the public API; the auth
// middleware upserts them from verified token claims.
//
// Fields:
//   - ID: stable identifier assigned by the identity provider (char(36)).
//   - Email: unique address, used to correlate sessions with accounts.
//   - Name / Avatar: display metadata, refreshed on sign-in.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID        string    `json:"id"     gorm:"type:char(36);primaryKey"`
	Email     string    `json:"email"  gorm:"type:varchar(255);not null;uniqueIndex"`
	Name      string    `json:"name"   gorm:"type:varchar(255)"`
	Avatar    string    `json:"avatar" gorm:"type:varchar(512)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Game represents a catalog entry users can review. The slug is derived from
// the title at creation time and never changes afterwards; both title
// (case-insensitively) and slug are unique across the catalog.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Title: human-entered name; the NOCASE collation makes the unique
//     index reject titles differing only in letter case.
//   - Slug: URL-safe identifier matching [a-z0-9]+(-[a-z0-9]+)*, unique.
//   - Description / ImageURL: optional presentation data.
//   - ReleaseDate: optional original release date.
//   - Genre / Platform: free-text tag sets stored as JSON arrays.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker; soft-deleted rows keep their slug
//     and title reserved in the unique indexes.
type Game struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Title       string         `json:"title"       gorm:"type:varchar(255) collate nocase;not null;uniqueIndex:ux_games_title"`
	Slug        string         `json:"slug"        gorm:"type:varchar(255);not null;uniqueIndex:ux_games_slug"`
	Description *string        `json:"description,omitempty" gorm:"type:text"`
	ImageURL    *string        `json:"image_url,omitempty"   gorm:"type:varchar(512)"`
	ReleaseDate *time.Time     `json:"release_date,omitempty"`
	Genre       StringList     `json:"genre"       gorm:"type:text"`
	Platform    StringList     `json:"platform"    gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`
}

// TableName returns the database table name for Game.
func (Game) TableName() string { return "games" }

// Review is the join entity between a user and a game carrying the rating.
// A user can hold at most one review per game (enforced by unique index).
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - GameID: foreign key to the reviewed game (unique per user).
//   - UserID: foreign key to the review author (unique per game).
//   - Rating: integer score in [1,10]; validated before persistence and
//     guarded by a DB check constraint.
//   - Content: optional free text; whitespace-only submissions are stored
//     as NULL, indistinguishable from never having written anything.
//   - CreatedAt: set on first creation, immutable afterwards.
//   - UpdatedAt: advances on every edit.
//   - Game / User: FK associations; the delete cascade fires only when a
//     game row is hard-deleted, not on soft deletion.
type Review struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	GameID    string    `json:"game_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_reviews_user_game"`
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_reviews_user_game"`
	Rating    int       `json:"rating"  gorm:"not null;check:rating BETWEEN 1 AND 10"`
	Content   *string   `json:"content,omitempty" gorm:"type:varchar(1000)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Game is the reviewed catalog entry. Reviews are cascade-deleted
	// only when the game row is hard-deleted from the store.
	Game *Game `json:"game,omitempty" gorm:"foreignKey:GameID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	// User is the review author.
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the database table name for Review.
func (Review) TableName() string { return "reviews" }
