package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nicolaspaye/gamification/internal/gamification"
	"nicolaspaye/gamification/internal/handlers"
	"nicolaspaye/gamification/internal/models"
	"nicolaspaye/gamification/internal/repositories"
	"nicolaspaye/gamification/internal/routers"
	"nicolaspaye/gamification/internal/testhelpers"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

func setupStatsRouter(t *testing.T) (*chi.Mux, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	handler := &handlers.StatsHandler{
		Users:  &repositories.UserRepository{DB: db},
		Events: &repositories.XPEventRepository{DB: db},
		Badges: &repositories.BadgeRepository{DB: db},
	}
	router := chi.NewRouter()
	routers.StatsRoutes(router, handler)
	return router, db
}

func getJSON(t *testing.T, router http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return rec
}

func TestGetUserStats(t *testing.T) {
	router, db := setupStatsRouter(t)
	user := &models.User{AnonymousID: "anon-1", TotalXP: 150, CurrentStreak: 4}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	event := &models.XPEvent{UserID: user.ID, ActionType: models.ActionShare, Amount: 5, SubjectID: "s:1"}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}
	badge := &models.UserBadge{UserID: user.ID, BadgeSlug: "premiers-pas"}
	if err := db.Create(badge).Error; err != nil {
		t.Fatalf("failed to seed badge: %v", err)
	}

	t.Run("dashboard payload", func(t *testing.T) {
		var resp struct {
			Level        gamification.LevelInfo `json:"level"`
			Badges       []models.UserBadge     `json:"badges"`
			RecentEvents []models.XPEvent       `json:"recentEvents"`
		}
		rec := getJSON(t, router, "/api/v1/users/1/stats", &resp)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if resp.Level.Level != 2 {
			t.Fatalf("expected level 2 at 150 XP, got %d", resp.Level.Level)
		}
		if len(resp.Badges) != 1 || resp.Badges[0].BadgeSlug != "premiers-pas" {
			t.Fatalf("unexpected badges: %+v", resp.Badges)
		}
		if len(resp.RecentEvents) != 1 {
			t.Fatalf("expected 1 recent event, got %d", len(resp.RecentEvents))
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := getJSON(t, router, "/api/v1/users/999/stats", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		rec := getJSON(t, router, "/api/v1/users/abc/stats", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGetLevel(t *testing.T) {
	router, _ := setupStatsRouter(t)

	var level gamification.LevelInfo
	rec := getJSON(t, router, "/api/v1/levels/2000", &level)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if level.Level != 7 {
		t.Fatalf("expected level 7 at 2000 XP, got %d", level.Level)
	}

	rec = getJSON(t, router, "/api/v1/levels/-5", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative xp, got %d", rec.Code)
	}
}

func TestLeaderboard(t *testing.T) {
	router, db := setupStatsRouter(t)
	for _, u := range []*models.User{
		{AnonymousID: "anon-a", DisplayName: "Ada", TotalXP: 900},
		{AnonymousID: "anon-b", TotalXP: 400},
		{AnonymousID: "anon-c", TotalXP: 10},
	} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	type entry struct {
		DisplayName string `json:"displayName"`
		TotalXP     int    `json:"totalXp"`
		Level       int    `json:"level"`
	}

	t.Run("ordered with fallback names", func(t *testing.T) {
		var entries []entry
		rec := getJSON(t, router, "/api/v1/leaderboard?limit=2", &entries)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].DisplayName != "Ada" || entries[0].Level != 5 {
			t.Fatalf("unexpected first entry: %+v", entries[0])
		}
		// No display name set: fall back to the anonymous handle.
		if entries[1].DisplayName != "anon-b" {
			t.Fatalf("expected anonymous fallback, got %q", entries[1].DisplayName)
		}
	})

	t.Run("limit bounds", func(t *testing.T) {
		for _, raw := range []string{"0", "101", "abc"} {
			rec := getJSON(t, router, "/api/v1/leaderboard?limit="+raw, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("limit=%s: expected 400, got %d", raw, rec.Code)
			}
		}
	})
}

func TestGetBadgeCatalog(t *testing.T) {
	router, _ := setupStatsRouter(t)

	var catalog []models.BadgeDefinition
	rec := getJSON(t, router, "/api/v1/badges", &catalog)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(catalog) == 0 {
		t.Fatalf("expected a non-empty catalog")
	}
}
