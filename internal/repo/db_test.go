package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/criticboard/go-review-backend/internal/domain"
)

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "app.db"))
	if err == nil {
		t.Fatalf("expected error for missing parent directory")
	}
}

func TestOpenSQLite_AndAutoMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	// Schema is usable end to end.
	if err := UpsertUser(context.Background(), db, &domain.User{ID: "u1", Email: "u@example.com"}); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	g, err := CreateGame(context.Background(), db, NewGame{Title: "Doom", Slug: "doom"})
	if err != nil {
		t.Fatalf("insert game: %v", err)
	}
	if _, err := CreateReview(context.Background(), db, "u1", g.ID, 9, nil); err != nil {
		t.Fatalf("insert review: %v", err)
	}

	// Check constraint guards the rating range below the service layer.
	if err := UpsertUser(context.Background(), db, &domain.User{ID: "u2", Email: "u2@example.com"}); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := CreateReview(context.Background(), db, "u2", g.ID, 0, nil); err == nil {
		t.Fatalf("expected check constraint violation for rating 0")
	}
}
