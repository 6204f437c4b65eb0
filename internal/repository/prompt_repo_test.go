package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jlin/promptfinder/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createPrompt(t *testing.T, repo *PromptRepository, userID, text string, tags []string, avg float64, createdAt time.Time) *domain.Prompt {
	t.Helper()

	p := &domain.Prompt{
		ID:         uuid.New().String(),
		UserID:     userID,
		PromptText: text,
		StyleTags:  domain.StringArray(tags),
		Source:     domain.PromptSourceUpload,
		AvgRating:  avg,
		CreatedAt:  createdAt,
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("failed to create prompt: %v", err)
	}
	return p
}

func TestPromptRepository_StyleTagsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewPromptRepository(db)

	created := createPrompt(t, repo, "user-1", "a noir scene", []string{"noir", "black and white"}, 0, time.Now())

	loaded, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(loaded.StyleTags) != 2 || loaded.StyleTags[0] != "noir" || loaded.StyleTags[1] != "black and white" {
		t.Errorf("style tags did not survive storage: %v", loaded.StyleTags)
	}
}

func TestPromptRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewPromptRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	noir := createPrompt(t, repo, "user-1", "a noir detective under a streetlamp", []string{"noir", "cinematic"}, 4.5, base)
	anime := createPrompt(t, repo, "user-2", "an anime city at night", []string{"anime", "cyberpunk"}, 3.0, base.Add(time.Minute))
	plain := createPrompt(t, repo, "user-1", "a bowl of fruit on a table", []string{}, 5.0, base.Add(2*time.Minute))

	t.Run("owner filter", func(t *testing.T) {
		got, err := repo.List(ctx, ListFilter{UserID: "user-1"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 prompts for user-1, got %d", len(got))
		}
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		got, err := repo.List(ctx, ListFilter{Search: "DETECTIVE"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 1 || got[0].ID != noir.ID {
			t.Errorf("expected only the noir prompt, got %d results", len(got))
		}
	})

	t.Run("tag containment", func(t *testing.T) {
		got, err := repo.List(ctx, ListFilter{Tags: []string{"cyberpunk"}})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 1 || got[0].ID != anime.ID {
			t.Errorf("expected only the anime prompt, got %d results", len(got))
		}
	})

	t.Run("all tags must match", func(t *testing.T) {
		got, err := repo.List(ctx, ListFilter{Tags: []string{"noir", "anime"}})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no prompt with both tags, got %d", len(got))
		}
	})

	t.Run("newest first by default", func(t *testing.T) {
		got, err := repo.List(ctx, ListFilter{})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 prompts, got %d", len(got))
		}
		if got[0].ID != plain.ID || got[2].ID != noir.ID {
			t.Errorf("unexpected order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
		}
	})

	t.Run("rating sort", func(t *testing.T) {
		got, err := repo.List(ctx, ListFilter{Sort: "rating"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if got[0].ID != plain.ID || got[1].ID != noir.ID || got[2].ID != anime.ID {
			t.Errorf("unexpected rating order: %v, %v, %v", got[0].AvgRating, got[1].AvgRating, got[2].AvgRating)
		}
	})
}

func TestPromptRepository_ListPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewPromptRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < DefaultPageSize+5; i++ {
		createPrompt(t, repo, "user-1", fmt.Sprintf("prompt number %d", i), []string{}, 0, base.Add(time.Duration(i)*time.Second))
	}

	page1, err := repo.List(ctx, ListFilter{Page: 1})
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	if len(page1) != DefaultPageSize {
		t.Errorf("page 1 size = %d, want %d", len(page1), DefaultPageSize)
	}

	page2, err := repo.List(ctx, ListFilter{Page: 2})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page2) != 5 {
		t.Errorf("page 2 size = %d, want 5", len(page2))
	}

	seen := make(map[string]bool)
	for _, p := range append(page1, page2...) {
		if seen[p.ID] {
			t.Fatalf("prompt %s appeared on both pages", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestPromptRepository_UpdateRatingStatsMissingRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewPromptRepository(db)

	err := repo.UpdateRatingStats(context.Background(), uuid.New().String(), 4.5, 2)
	if err != gorm.ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}
