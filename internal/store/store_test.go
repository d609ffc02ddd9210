package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/profile"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func testProfile(name string, fetchedAt time.Time) *profile.Profile {
	return &profile.Profile{
		Name: name,
		XP:   map[models.Skill]float64{models.Attack: 13363},
		Quests: []profile.JournalQuest{
			{Title: "Cook's Assistant", Status: profile.JournalCompleted},
		},
		FetchedAt: fetchedAt,
	}
}

func TestNewDialect(t *testing.T) {
	tests := []struct {
		driver      string
		placeholder string
	}{
		{"sqlite", "?"},
		{"SQLite", "?"},
		{"postgres", "$2"},
	}
	for _, tt := range tests {
		d, err := NewDialect(DialectType(tt.driver))
		if err != nil {
			t.Fatalf("NewDialect(%q): %v", tt.driver, err)
		}
		if got := d.Placeholder(2); got != tt.placeholder {
			t.Errorf("%s placeholder = %q, want %q", tt.driver, got, tt.placeholder)
		}
	}

	if _, err := NewDialect("mysql"); err == nil {
		t.Errorf("expected an error for an unknown driver")
	}
	if _, err := Open("mysql", ""); err == nil {
		t.Errorf("Open should reject an unknown driver")
	}
}

func TestRebind(t *testing.T) {
	query := "SELECT * FROM plans WHERE player = ? AND algorithm = ?"

	if got := rebind(&SQLiteDialect{}, query); got != query {
		t.Errorf("sqlite query changed: %q", got)
	}
	want := "SELECT * FROM plans WHERE player = $1 AND algorithm = $2"
	if got := rebind(&PostgresDialect{}, query); got != want {
		t.Errorf("postgres query = %q, want %q", got, want)
	}
}

func TestSaveAndLoadProfile(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	fetchedAt := time.UnixMilli(1700000000000)

	if err := s.SaveProfile(ctx, testProfile("Iron Man", fetchedAt)); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	prof, err := s.LoadProfile(ctx, "iron man")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if prof.XP[models.Attack] != 13363 || len(prof.Quests) != 1 {
		t.Errorf("profile = %+v", prof)
	}
	if !prof.FetchedAt.Equal(fetchedAt) {
		t.Errorf("fetched at = %v, want %v", prof.FetchedAt, fetchedAt)
	}

	// Saving again replaces the row
	updated := testProfile("iron man", fetchedAt.Add(time.Hour))
	updated.XP[models.Attack] = 101333
	if err := s.SaveProfile(ctx, updated); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	prof, err = s.LoadProfile(ctx, "IRON MAN")
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if prof.XP[models.Attack] != 101333 {
		t.Errorf("profile should be replaced, got attack xp %v", prof.XP[models.Attack])
	}
}

func TestLoadProfileNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.LoadProfile(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveAndListPlans(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.UnixMilli(1700000000000)

	for i := 0; i < 3; i++ {
		_, err := s.SavePlan(ctx, PlanRecord{
			Player:          "Zezima",
			Algorithm:       "DEFAULT",
			PercentComplete: i * 10,
			Actions:         []string{"Cook's Assistant"},
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SavePlan: %v", err)
		}
	}

	plans, err := s.ListPlans(ctx, "zezima", 2)
	if err != nil {
		t.Fatalf("ListPlans: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}
	if plans[0].PercentComplete != 20 || plans[1].PercentComplete != 10 {
		t.Errorf("plans should be newest first, got %d then %d",
			plans[0].PercentComplete, plans[1].PercentComplete)
	}
	if plans[0].ID == uuid.Nil || plans[0].ID == plans[1].ID {
		t.Errorf("plans should get unique ids")
	}

	got, err := s.GetPlan(ctx, plans[0].ID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if len(got.Actions) != 1 || got.Actions[0] != "Cook's Assistant" || !got.CreatedAt.Equal(plans[0].CreatedAt) {
		t.Errorf("plan = %+v", got)
	}

	if _, err := s.GetPlan(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// fakeSource counts fetches and can be told to fail
type fakeSource struct {
	calls int
	err   error
	now   time.Time
}

func (f *fakeSource) Profile(ctx context.Context, name string) (*profile.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return testProfile(name, f.now), nil
}

func TestCachedSource(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.UnixMilli(1700000000000)

	source := &fakeSource{now: now}
	cache := NewCachedSource(source, s, time.Hour)
	cache.now = func() time.Time { return now }

	if _, err := cache.Profile(ctx, "zezima"); err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if _, err := cache.Profile(ctx, "zezima"); err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if source.calls != 1 {
		t.Errorf("fresh profiles should be cached, got %d fetches", source.calls)
	}

	// Expired profiles are fetched again
	now = now.Add(2 * time.Hour)
	source.now = now
	if _, err := cache.Profile(ctx, "zezima"); err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if source.calls != 2 {
		t.Errorf("expired profile should be refetched, got %d fetches", source.calls)
	}

	// A failed fetch falls back to the stale profile
	now = now.Add(2 * time.Hour)
	source.err = errors.New("hiscores down")
	prof, err := cache.Profile(ctx, "zezima")
	if err != nil {
		t.Fatalf("stale profile should be served, got %v", err)
	}
	if prof.Name != "zezima" {
		t.Errorf("profile = %+v", prof)
	}

	// Without a cached profile the error is returned
	if _, err := cache.Profile(ctx, "nobody"); err == nil {
		t.Errorf("expected the fetch error")
	}
}
