// Package services defines the business logic for the game catalog and its
// reviews. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

// Game-related errors.
var (
	// ErrEmptyTitle is returned when a create-game request carries an empty
	// or whitespace-only title.
	ErrEmptyTitle = errors.New("title is required")

	// ErrInvalidTitle is returned when a title normalizes to an empty slug,
	// i.e. it contains no characters usable in a URL identifier.
	ErrInvalidTitle = errors.New("title has no usable characters")

	// ErrDuplicateTitle indicates another game already holds this title
	// (compared case-insensitively) or that the insert hit a catalog
	// uniqueness constraint.
	ErrDuplicateTitle = errors.New("a game with this title already exists")

	// ErrGameNotFound indicates that the referenced game does not exist.
	ErrGameNotFound = errors.New("game not found")

	// ErrSlugExhausted is returned when slug allocation gives up before
	// finding a free identifier. It signals an internal failure, not bad
	// input.
	ErrSlugExhausted = errors.New("could not allocate a unique slug")
)

// Review-related errors.
var (
	// ErrInvalidRating is returned when a rating is outside the closed
	// range [1,10].
	ErrInvalidRating = errors.New("rating must be an integer between 1 and 10")

	// ErrContentTooLong is returned when review content exceeds the
	// maximum length limit.
	ErrContentTooLong = errors.New("review content too long")

	// ErrReviewNotFound indicates that the requested review does not exist.
	ErrReviewNotFound = errors.New("review not found")

	// ErrDuplicateReview is returned when a user attempts to review a game
	// they have already reviewed.
	ErrDuplicateReview = errors.New("review already exists for this game")

	// ErrForbiddenReview is returned when a user attempts to modify or
	// delete a review they do not own.
	ErrForbiddenReview = errors.New("cannot modify another user's review")
)
