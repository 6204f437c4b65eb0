package ratelimit

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/jlin/promptfinder/internal/config"
	"github.com/jlin/promptfinder/internal/domain"
	"github.com/jlin/promptfinder/internal/logger"
	"github.com/jlin/promptfinder/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *repository.RequestLogRepository {
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

	if err := repository.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return repository.NewRequestLogRepository(db)
}

func testConfig() *config.RateLimitConfig {
	return &config.RateLimitConfig{
		Endpoints: map[string]map[string]config.RateRule{
			"generate": {
				"free":    {Limit: 5, WindowSeconds: 3600},
				"premium": {Limit: 50, WindowSeconds: 3600},
			},
		},
	}
}

func newTestLimiter(t *testing.T) *Limiter {
	t.Helper()

	log := logger.New(&logger.Config{Level: "error", Format: "text", Output: io.Discard})
	return NewLimiter(newTestRepo(t), testConfig(), log)
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		decision, err := limiter.Admit(ctx, "user-1", "generate", domain.TierFree)
		if err != nil {
			t.Fatalf("admit %d: %v", i+1, err)
		}
		if !decision.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if decision.Remaining != 5-i-1 {
			t.Errorf("request %d: remaining = %d, want %d", i+1, decision.Remaining, 5-i-1)
		}
	}

	decision, err := limiter.Admit(ctx, "user-1", "generate", domain.TierFree)
	if err != nil {
		t.Fatalf("admit 6: %v", err)
	}
	if decision.Allowed {
		t.Error("6th request should be denied")
	}
	if decision.RetryAfter <= 0 {
		t.Errorf("denied decision must carry a positive retry hint, got %v", decision.RetryAfter)
	}
}

func TestLimiter_DeniedRequestConsumesNoQuota(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := limiter.Admit(ctx, "user-1", "generate", domain.TierFree); err != nil {
			t.Fatalf("admit %d: %v", i+1, err)
		}
	}

	// Repeated denials do not extend the lockout
	first, err := limiter.Admit(ctx, "user-1", "generate", domain.TierFree)
	if err != nil {
		t.Fatalf("denied admit: %v", err)
	}
	second, err := limiter.Admit(ctx, "user-1", "generate", domain.TierFree)
	if err != nil {
		t.Fatalf("denied admit: %v", err)
	}
	if first.Allowed || second.Allowed {
		t.Fatal("both over-quota requests should be denied")
	}
	if second.RetryAfter > first.RetryAfter+time.Second {
		t.Errorf("second denial retry hint grew: %v then %v", first.RetryAfter, second.RetryAfter)
	}
}

func TestLimiter_WindowSlides(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	current := time.Now()
	limiter.SetClock(func() time.Time { return current })

	for i := 0; i < 5; i++ {
		if _, err := limiter.Admit(ctx, "user-1", "generate", domain.TierFree); err != nil {
			t.Fatalf("admit %d: %v", i+1, err)
		}
	}

	decision, err := limiter.Admit(ctx, "user-1", "generate", domain.TierFree)
	if err != nil {
		t.Fatalf("denied admit: %v", err)
	}
	if decision.Allowed {
		t.Fatal("over-quota request should be denied")
	}

	// Advance past the oldest event's expiry; exactly one slot opens
	current = current.Add(decision.RetryAfter + time.Second)

	decision, err = limiter.Admit(ctx, "user-1", "generate", domain.TierFree)
	if err != nil {
		t.Fatalf("admit after window: %v", err)
	}
	if !decision.Allowed {
		t.Error("request should be allowed after the oldest event expires")
	}
}

func TestLimiter_TiersAreIndependentQuotas(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	// Premium caller sails past the free threshold
	for i := 0; i < 10; i++ {
		decision, err := limiter.Admit(ctx, "premium-user", "generate", domain.TierPremium)
		if err != nil {
			t.Fatalf("premium admit %d: %v", i+1, err)
		}
		if !decision.Allowed {
			t.Fatalf("premium request %d should be allowed", i+1)
		}
	}
}

func TestLimiter_UsersAreIsolated(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := limiter.Admit(ctx, "user-1", "generate", domain.TierFree); err != nil {
			t.Fatalf("admit %d: %v", i+1, err)
		}
	}

	decision, err := limiter.Admit(ctx, "user-2", "generate", domain.TierFree)
	if err != nil {
		t.Fatalf("user-2 admit: %v", err)
	}
	if !decision.Allowed {
		t.Error("user-2 should not be affected by user-1's quota")
	}
}

func TestLimiter_UnconfiguredEndpointIsUnlimited(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		decision, err := limiter.Admit(ctx, "user-1", "browse", domain.TierFree)
		if err != nil {
			t.Fatalf("admit %d: %v", i+1, err)
		}
		if !decision.Allowed {
			t.Fatalf("unconfigured endpoint should never deny (request %d)", i+1)
		}
	}
}

func TestLimiter_UnknownTierFallsBackToFree(t *testing.T) {
	limiter := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := limiter.Admit(ctx, "user-1", "generate", domain.SubscriptionTier("enterprise")); err != nil {
			t.Fatalf("admit %d: %v", i+1, err)
		}
	}

	decision, err := limiter.Admit(ctx, "user-1", "generate", domain.SubscriptionTier("enterprise"))
	if err != nil {
		t.Fatalf("admit 6: %v", err)
	}
	if decision.Allowed {
		t.Error("unknown tier should be held to the free quota")
	}
}

func TestLimiter_MaxWindow(t *testing.T) {
	limiter := newTestLimiter(t)

	if got := limiter.MaxWindow(); got != time.Hour {
		t.Errorf("MaxWindow() = %v, want %v", got, time.Hour)
	}
}

func TestLimiter_PruneRemovesExpiredEvents(t *testing.T) {
	repo := newTestRepo(t)
	log := logger.New(&logger.Config{Level: "error", Format: "text", Output: io.Discard})
	limiter := NewLimiter(repo, testConfig(), log)
	ctx := context.Background()

	base := time.Now()
	limiter.SetClock(func() time.Time { return base })

	for i := 0; i < 3; i++ {
		if _, err := limiter.Admit(ctx, "user-1", "generate", domain.TierFree); err != nil {
			t.Fatalf("admit %d: %v", i+1, err)
		}
	}

	cutoff := base.Add(limiter.MaxWindow()).Add(time.Minute)
	pruned, err := repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 3 {
		t.Errorf("expected 3 pruned events, got %d", pruned)
	}

	count, err := repo.CountSince(ctx, "user-1", "generate", base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty log after prune, found %d events", count)
	}
}
