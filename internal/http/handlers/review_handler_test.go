package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// createTestGame seeds a game through the API and returns its ID.
func createTestGame(t *testing.T, r *gin.Engine, title string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/games", "u1", gin.H{"title": title})
	if w.Code != http.StatusCreated {
		t.Fatalf("seed game %q: %d %s", title, w.Code, w.Body.String())
	}
	return decodeBody(t, w)["id"].(string)
}

func TestCreateReview_Unauthenticated(t *testing.T) {
	r, _ := newHandlerFixture(t)
	gameID := createTestGame(t, r, "Doom")

	w := doJSON(t, r, http.MethodPost, "/reviews", "", gin.H{"game_id": gameID, "rating": 8})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCreateReview_Validation(t *testing.T) {
	r, _ := newHandlerFixture(t)
	gameID := createTestGame(t, r, "Doom")

	// Rating out of range fails binding.
	for _, rating := range []any{0, 11, -2} {
		w := doJSON(t, r, http.MethodPost, "/reviews", "u1", gin.H{"game_id": gameID, "rating": rating})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("rating %v: expected 400, got %d", rating, w.Code)
		}
	}

	// Non-integer rating fails JSON binding.
	w := doJSON(t, r, http.MethodPost, "/reviews", "u1", gin.H{"game_id": gameID, "rating": 7.5})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for fractional rating, got %d", w.Code)
	}

	// Missing game_id.
	w = doJSON(t, r, http.MethodPost, "/reviews", "u1", gin.H{"rating": 7})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing game_id, got %d", w.Code)
	}

	// Unknown game.
	w = doJSON(t, r, http.MethodPost, "/reviews", "u1", gin.H{"game_id": uuid.NewString(), "rating": 7})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown game, got %d", w.Code)
	}
}

func TestCreateReview_SuccessAndDuplicate(t *testing.T) {
	r, _ := newHandlerFixture(t)
	gameID := createTestGame(t, r, "Doom")

	w := doJSON(t, r, http.MethodPost, "/reviews", "u1", gin.H{"game_id": gameID, "rating": 8, "content": "  solid  "})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["rating"] != float64(8) || body["content"] != "solid" || body["user_id"] != "u1" {
		t.Fatalf("unexpected review body: %v", body)
	}

	// Second review for the same game by the same user: conflict.
	w = doJSON(t, r, http.MethodPost, "/reviews", "u1", gin.H{"game_id": gameID, "rating": 3})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if body := decodeBody(t, w); body["code"] != ErrCodeConflict {
		t.Fatalf("unexpected error code: %v", body)
	}
}

func TestGetReview(t *testing.T) {
	r, _ := newHandlerFixture(t)
	gameID := createTestGame(t, r, "Doom")

	w := doJSON(t, r, http.MethodPost, "/reviews", "u1", gin.H{"game_id": gameID, "rating": 8})
	reviewID := decodeBody(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodGet, "/reviews/"+reviewID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["game"] == nil || body["user"] == nil {
		t.Fatalf("expected embedded game and user: %v", body)
	}

	// Malformed ID short-circuits with 400.
	w = doJSON(t, r, http.MethodGet, "/reviews/not-a-uuid", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", w.Code)
	}

	// Well-formed but unknown ID is 404.
	w = doJSON(t, r, http.MethodGet, "/reviews/"+uuid.NewString(), "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListReviews_Filters(t *testing.T) {
	r, _ := newHandlerFixture(t)
	g1 := createTestGame(t, r, "Doom")
	g2 := createTestGame(t, r, "Celeste")

	seed := []struct {
		user, game string
		rating     int
	}{
		{"u1", g1, 9},
		{"u2", g1, 7},
		{"u1", g2, 5},
	}
	for _, s := range seed {
		w := doJSON(t, r, http.MethodPost, "/reviews", s.user, gin.H{"game_id": s.game, "rating": s.rating})
		if w.Code != http.StatusCreated {
			t.Fatalf("seed: %d %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(t, r, http.MethodGet, "/reviews?game_id="+g1, "", nil)
	body := decodeBody(t, w)
	if reviews := body["reviews"].([]any); len(reviews) != 2 {
		t.Fatalf("expected 2 reviews for g1, got %d", len(reviews))
	}

	w = doJSON(t, r, http.MethodGet, "/reviews?user_id=u1", "", nil)
	body = decodeBody(t, w)
	if reviews := body["reviews"].([]any); len(reviews) != 2 {
		t.Fatalf("expected 2 reviews for u1, got %d", len(reviews))
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/reviews?game_id=%s&user_id=u2", g1), "", nil)
	body = decodeBody(t, w)
	if reviews := body["reviews"].([]any); len(reviews) != 1 {
		t.Fatalf("expected 1 review for (g1,u2), got %d", len(reviews))
	}

	p := body["pagination"].(map[string]any)
	if p["total"] != float64(1) || p["has_more"] != false {
		t.Fatalf("unexpected pagination: %v", p)
	}
}

func TestUpdateReview_OwnershipStatusCodes(t *testing.T) {
	r, _ := newHandlerFixture(t)
	gameID := createTestGame(t, r, "Doom")

	w := doJSON(t, r, http.MethodPost, "/reviews", "u1", gin.H{"game_id": gameID, "rating": 5})
	reviewID := decodeBody(t, w)["id"].(string)

	// Unauthenticated.
	w = doJSON(t, r, http.MethodPut, "/reviews/"+reviewID, "", gin.H{"rating": 9})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	// Wrong owner.
	w = doJSON(t, r, http.MethodPut, "/reviews/"+reviewID, "u2", gin.H{"rating": 9})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}

	// Unknown review.
	w = doJSON(t, r, http.MethodPut, "/reviews/"+uuid.NewString(), "u1", gin.H{"rating": 9})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	// Owner succeeds.
	w = doJSON(t, r, http.MethodPut, "/reviews/"+reviewID, "u1", gin.H{"rating": 9, "content": "patched"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["rating"] != float64(9) || body["content"] != "patched" {
		t.Fatalf("update not reflected: %v", body)
	}
}

func TestDeleteReview_OwnershipStatusCodes(t *testing.T) {
	r, _ := newHandlerFixture(t)
	gameID := createTestGame(t, r, "Doom")

	w := doJSON(t, r, http.MethodPost, "/reviews", "u1", gin.H{"game_id": gameID, "rating": 5})
	reviewID := decodeBody(t, w)["id"].(string)

	if w = doJSON(t, r, http.MethodDelete, "/reviews/"+reviewID, "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w = doJSON(t, r, http.MethodDelete, "/reviews/"+reviewID, "u2", nil); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if w = doJSON(t, r, http.MethodDelete, "/reviews/"+reviewID, "u1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if w = doJSON(t, r, http.MethodDelete, "/reviews/"+reviewID, "u1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on double delete, got %d", w.Code)
	}
}
