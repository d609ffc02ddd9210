package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/profile"
	"github.com/napolitain/ironquest/internal/solver/planner"
	"github.com/napolitain/ironquest/internal/store"
)

func newQuest(id int, title string, access models.QuestAccess, typ models.QuestType, requires ...*models.Quest) *models.Quest {
	q := &models.Quest{
		ID:      id,
		Title:   title,
		Access:  access,
		Type:    typ,
		Rewards: models.Rewards{QuestPoints: 1, XP: map[models.Skill]float64{}},
	}
	for _, r := range requires {
		q.Requirements.Quests = append(q.Requirements.Quests, models.QuestRequirement(r))
	}
	return q
}

// testCatalog has a free quest required by a members saga
func testCatalog() *models.Catalog {
	cook := newQuest(1, "Cook's Assistant", models.AccessFree, models.TypeQuest)
	sheep := newQuest(2, "Sheep Shearer", models.AccessFree, models.TypeQuest)
	druid := newQuest(3, "Druidic Ritual", models.AccessMembers, models.TypeQuest, cook)
	saga := newQuest(4, "Myreque Saga", models.AccessMembers, models.TypeSaga, druid)
	pie := newQuest(5, "Let Them Eat Pie", models.AccessMembers, models.TypeMiniquest)
	start := newQuest(-1, "Starting rewards", models.AccessFree, models.TypeQuest)
	start.Rewards.XP[models.Attack] = 100
	return models.NewCatalog([]*models.Quest{cook, sheep, druid, saga, pie, start})
}

type fakeSource struct {
	prof *profile.Profile
	err  error
}

func (f *fakeSource) Profile(ctx context.Context, name string) (*profile.Profile, error) {
	return f.prof, f.err
}

type fakeSaver struct {
	saved []store.PlanRecord
	err   error
}

func (f *fakeSaver) SavePlan(ctx context.Context, rec store.PlanRecord) (store.PlanRecord, error) {
	if f.err != nil {
		return rec, f.err
	}
	rec.ID = uuid.New()
	f.saved = append(f.saved, rec)
	return rec, nil
}

func questIDs(quests []*models.Quest) []int {
	ids := make([]int, len(quests))
	for i, q := range quests {
		ids[i] = q.ID
	}
	return ids
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQuestsFilters(t *testing.T) {
	svc := New(testCatalog(), nil, nil)

	tests := []struct {
		name   string
		access models.AccessFilter
		typ    models.TypeFilter
		want   []int
	}{
		{"all", models.AccessFilterAll, models.TypeFilterAll, []int{1, 2, 3, 4, 5}},
		{"free", models.AccessFilterFree, models.TypeFilterAll, []int{1, 2}},
		{"sagas pull in prerequisites", models.AccessFilterAll, models.TypeFilterSagas, []int{1, 3, 4}},
		{"miniquests", models.AccessFilterMembers, models.TypeFilterMiniquests, []int{5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DefaultRequest()
			req.Access, req.Type = tt.access, tt.typ

			quests, err := svc.Quests(context.Background(), req)
			if err != nil {
				t.Fatalf("Quests: %v", err)
			}
			if got := questIDs(quests); !equalInts(got, tt.want) {
				t.Errorf("quests = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlayerAppliesProfile(t *testing.T) {
	source := &fakeSource{prof: &profile.Profile{
		Name: "zezima",
		XP:   map[models.Skill]float64{models.Magic: 13363},
		Quests: []profile.JournalQuest{
			{Title: "Cook's Assistant", Status: profile.JournalCompleted},
		},
	}}
	svc := New(testCatalog(), source, nil)

	req := DefaultRequest()
	req.Name = "zezima"
	req.Priorities = map[int]models.QuestPriority{2: models.PriorityMaximum, 99: models.PriorityHigh}

	p, err := svc.Player(context.Background(), req)
	if err != nil {
		t.Fatalf("Player: %v", err)
	}
	if p.Level(models.Magic) != 30 {
		t.Errorf("magic level = %d, want 30", p.Level(models.Magic))
	}
	if !p.IsQuestCompleted(1) {
		t.Errorf("profile quests should be applied")
	}
	if e, _ := p.EntryByID(2); e.Priority != models.PriorityMaximum {
		t.Errorf("priority = %v, want MAXIMUM", e.Priority)
	}

	quests, err := svc.Quests(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if got := questIDs(quests); !equalInts(got, []int{2, 3, 4, 5}) {
		t.Errorf("completed quests should be excluded, got %v", got)
	}
}

func TestPlayerProfileFailureFallsBack(t *testing.T) {
	svc := New(testCatalog(), &fakeSource{err: errors.New("hiscores down")}, nil)

	req := DefaultRequest()
	req.Name = "zezima"
	p, err := svc.Player(context.Background(), req)
	if err != nil {
		t.Fatalf("a failed profile should not fail the request: %v", err)
	}
	if p.Level(models.Magic) != 1 || len(p.CompletedEntries()) != 0 {
		t.Errorf("player should start from initial state")
	}
}

func TestPathSavesPlan(t *testing.T) {
	saver := &fakeSaver{}
	svc := New(testCatalog(), nil, saver)

	req := DefaultRequest()
	req.Name = "zezima"
	result, err := svc.Path(context.Background(), req)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}

	if len(result.Path.Actions) != 5 {
		t.Errorf("expected 5 quest actions, got %d", len(result.Path.Actions))
	}
	if result.PlanID == uuid.Nil {
		t.Errorf("saved plans should report their id")
	}
	if len(saver.saved) != 1 || saver.saved[0].Player != "zezima" || len(saver.saved[0].Actions) != 5 {
		t.Errorf("saved = %+v", saver.saved)
	}

	// The caller's player is not advanced by planning
	if len(result.Player.CompletedEntries()) != 0 {
		t.Errorf("result player should be the starting state")
	}
}

func TestPathSaveFailureIsLogged(t *testing.T) {
	svc := New(testCatalog(), nil, &fakeSaver{err: errors.New("disk full")})

	result, err := svc.Path(context.Background(), DefaultRequest())
	if err != nil {
		t.Fatalf("a failed save should not fail planning: %v", err)
	}
	if result.PlanID != uuid.Nil {
		t.Errorf("unsaved plans have no id")
	}
}

func TestPathUnknownAlgorithm(t *testing.T) {
	svc := New(testCatalog(), nil, nil)

	req := DefaultRequest()
	req.Algorithm = "astar"
	if _, err := svc.Path(context.Background(), req); !errors.Is(err, models.ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestCompare(t *testing.T) {
	svc := New(testCatalog(), nil, nil)

	results, err := svc.Compare(context.Background(), DefaultRequest())
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(results) != len(planner.AllAlgorithms()) {
		t.Errorf("expected a result per algorithm, got %d", len(results))
	}
}

func TestPathWithStore(t *testing.T) {
	s, err := store.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer s.Close()

	svc := New(testCatalog(), nil, s)
	req := DefaultRequest()
	req.Name = "Zezima"

	result, err := svc.Path(context.Background(), req)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}

	rec, err := s.GetPlan(context.Background(), result.PlanID)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if rec.Algorithm != string(planner.AlgorithmDefault) || len(rec.Actions) != len(result.Path.Actions) {
		t.Errorf("stored plan = %+v", rec)
	}
}
