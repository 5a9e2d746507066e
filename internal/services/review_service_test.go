package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/criticboard/go-review-backend/internal/repo"
)

func newReviewFixture(t *testing.T) (*ReviewService, string) {
	t.Helper()
	db := newTestDB(t)
	seedTestUser(t, db, "u1")
	seedTestUser(t, db, "u2")

	gameSvc := &GameService{DB: db}
	g, err := gameSvc.Create(context.Background(), CreateGameInput{Title: "Hades"})
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	return &ReviewService{DB: db}, g.ID
}

func TestReview_Create_InvalidRating(t *testing.T) {
	svc, gameID := newReviewFixture(t)

	for _, r := range []int{0, -1, 11, 100} {
		_, err := svc.Create(context.Background(), "u1", gameID, r, "")
		if !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", r, err)
		}
	}
}

func TestReview_Create_ContentTooLong(t *testing.T) {
	svc, gameID := newReviewFixture(t)

	_, err := svc.Create(context.Background(), "u1", gameID, 8, strings.Repeat("x", 1001))
	if !errors.Is(err, ErrContentTooLong) {
		t.Fatalf("expected ErrContentTooLong, got %v", err)
	}

	// Exactly at the limit is fine. Multi-byte runes count as one character.
	if _, err := svc.Create(context.Background(), "u1", gameID, 8, strings.Repeat("é", 1000)); err != nil {
		t.Fatalf("1000-rune content rejected: %v", err)
	}
}

func TestReview_Create_GameNotFound(t *testing.T) {
	svc, _ := newReviewFixture(t)

	_, err := svc.Create(context.Background(), "u1", "no-such-game", 8, "")
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestReview_Create_Duplicate(t *testing.T) {
	svc, gameID := newReviewFixture(t)

	if _, err := svc.Create(context.Background(), "u1", gameID, 7, ""); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(context.Background(), "u1", gameID, 9, "")
	if !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}

	// A different user may still review the same game.
	if _, err := svc.Create(context.Background(), "u2", gameID, 9, ""); err != nil {
		t.Fatalf("other user create: %v", err)
	}
}

func TestReview_Create_WhitespaceContentStoredAsAbsent(t *testing.T) {
	svc, gameID := newReviewFixture(t)

	rv, err := svc.Create(context.Background(), "u1", gameID, 6, "   \n\t ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rv.Content != nil {
		t.Fatalf("whitespace-only content must be stored as absent, got %q", *rv.Content)
	}

	got, err := svc.Get(context.Background(), rv.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Content != nil {
		t.Fatalf("round-trip must stay absent, got %q", *got.Content)
	}
}

func TestReview_Create_Success_TrimsContent(t *testing.T) {
	svc, gameID := newReviewFixture(t)

	rv, err := svc.Create(context.Background(), "u1", gameID, 9, "  brilliant  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rv.Rating != 9 || rv.Content == nil || *rv.Content != "brilliant" {
		t.Fatalf("unexpected review: %+v", rv)
	}
}

func TestReview_Get_NotFound(t *testing.T) {
	svc, _ := newReviewFixture(t)
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestReview_Update_OwnershipAndSemantics(t *testing.T) {
	svc, gameID := newReviewFixture(t)

	created, err := svc.Create(context.Background(), "u1", gameID, 5, "rough start")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Not found.
	if _, err := svc.Update(context.Background(), "u1", "missing", 9, ""); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}

	// Wrong owner: forbidden, nothing changes.
	if _, err := svc.Update(context.Background(), "u2", created.ID, 1, "sabotage"); !errors.Is(err, ErrForbiddenReview) {
		t.Fatalf("expected ErrForbiddenReview, got %v", err)
	}
	unchanged, err := svc.Get(context.Background(), created.ID)
	if err != nil || unchanged.Rating != 5 {
		t.Fatalf("review changed after forbidden update: %+v %v", unchanged, err)
	}

	// Invalid rating still rejected on update.
	if _, err := svc.Update(context.Background(), "u1", created.ID, 0, ""); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}

	// Owner update succeeds; game binding and CreatedAt stay put.
	got, err := svc.Update(context.Background(), "u1", created.ID, 9, "grew on me")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Rating != 9 || got.Content == nil || *got.Content != "grew on me" {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.GameID != gameID || got.UserID != "u1" {
		t.Fatalf("bindings must never change: %+v", got)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("CreatedAt must be immutable: %v vs %v", got.CreatedAt, created.CreatedAt)
	}
	if got.UpdatedAt.Before(created.UpdatedAt) {
		t.Fatalf("UpdatedAt must advance: %v vs %v", got.UpdatedAt, created.UpdatedAt)
	}

	// Clearing content folds back to absent.
	got, err = svc.Update(context.Background(), "u1", created.ID, 9, "   ")
	if err != nil || got.Content != nil {
		t.Fatalf("expected absent content, got %+v %v", got, err)
	}
}

func TestReview_Delete_OwnershipAndSemantics(t *testing.T) {
	svc, gameID := newReviewFixture(t)

	created, err := svc.Create(context.Background(), "u1", gameID, 5, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), "u1", "missing"); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), "u2", created.ID); !errors.Is(err, ErrForbiddenReview) {
		t.Fatalf("expected ErrForbiddenReview, got %v", err)
	}

	if err := svc.Delete(context.Background(), "u1", created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected review gone, got %v", err)
	}

	// Slot is free again: the user may re-review the game.
	if _, err := svc.Create(context.Background(), "u1", gameID, 8, ""); err != nil {
		t.Fatalf("re-review after delete: %v", err)
	}
}

func TestReview_ListPage(t *testing.T) {
	svc, gameID := newReviewFixture(t)

	if _, err := svc.Create(context.Background(), "u1", gameID, 7, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.Create(context.Background(), "u2", gameID, 9, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	items, total, err := svc.ListPage(context.Background(), repo.ReviewFilter{GameID: gameID}, 0, 10)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 reviews, got total=%d len=%d", total, len(items))
	}

	items, total, err = svc.ListPage(context.Background(), repo.ReviewFilter{UserID: "u1"}, 0, 10)
	if err != nil || total != 1 || len(items) != 1 || items[0].UserID != "u1" {
		t.Fatalf("user filter: total=%d items=%+v err=%v", total, items, err)
	}

	items, total, err = svc.ListPage(context.Background(), repo.ReviewFilter{GameID: "none"}, 0, 10)
	if err != nil || total != 0 || len(items) != 0 {
		t.Fatalf("empty filter result: total=%d items=%+v err=%v", total, items, err)
	}
}
