package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/player"
	"github.com/napolitain/ironquest/internal/service"
	"github.com/napolitain/ironquest/internal/solver/planner"
	"github.com/napolitain/ironquest/internal/store"
)

func testQuests() []*models.Quest {
	lamp := models.NewLampReward(models.LampXP, 1000, []models.LampRequirement{
		{Skills: models.NewSkillSet(models.Mining), Level: 60},
	})
	return []*models.Quest{
		{
			ID: 1, Title: "Doric's Quest", Access: models.AccessFree, Type: models.TypeQuest,
			Rewards: models.Rewards{QuestPoints: 1, XP: map[models.Skill]float64{}, Lamps: []*models.LampReward{lamp}},
		},
		{
			ID: 2, Title: "Dragon Slayer", Access: models.AccessFree, Type: models.TypeQuest,
			Requirements: models.Requirements{
				Skills: []models.Requirement{models.SkillRequirement(models.Attack, 20)},
			},
			Rewards: models.Rewards{QuestPoints: 2, XP: map[models.Skill]float64{}},
		},
	}
}

func testPath(t *testing.T) *planner.Path {
	t.Helper()
	p := player.New(testQuests(), player.Options{Name: "zezima"})
	path, err := planner.NewPathFinder(planner.DefaultStrategy{}).Find(p)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	return path
}

func TestPlanViewActions(t *testing.T) {
	path := testPath(t)

	tests := []struct {
		name string
		view planView
		want int
	}{
		{"all", planView{}, len(path.Actions)},
		{"limit", planView{limit: 2}, 2},
		{"limit above length", planView{limit: 100}, len(path.Actions)},
		{"future", planView{futureOnly: true}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.view.actions(path)); got != tt.want {
				t.Errorf("actions = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPrintPath(t *testing.T) {
	var buf bytes.Buffer
	printPath(&buf, testPath(t), planView{})

	out := buf.String()
	for _, want := range []string{"Doric's Quest", "Train Attack to level 20", "Dragon Slayer", "(future)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	id := uuid.New()
	printSummary(&buf, &service.Result{Path: testPath(t), PlanID: id})

	out := buf.String()
	if !strings.Contains(out, "2 quests, 1 training steps and 1 lamps") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "1 lamps are still waiting") {
		t.Errorf("summary should mention future lamps:\n%s", out)
	}
	if !strings.Contains(out, id.String()) {
		t.Errorf("summary should include the plan id:\n%s", out)
	}
}

func TestPrintComparison(t *testing.T) {
	p := player.New(testQuests(), player.Options{})
	results, err := planner.FindAllStrategies(p)
	if err != nil {
		t.Fatalf("FindAllStrategies: %v", err)
	}

	var buf bytes.Buffer
	printComparison(&buf, results)
	out := buf.String()
	for _, a := range planner.AllAlgorithms() {
		if !strings.Contains(out, string(a)) {
			t.Errorf("comparison missing %s:\n%s", a, out)
		}
	}
}

func TestPrintQuestsAndHistory(t *testing.T) {
	var buf bytes.Buffer
	printQuests(&buf, testQuests())
	if !strings.Contains(buf.String(), "Dragon Slayer") {
		t.Errorf("quest table missing quest:\n%s", buf.String())
	}

	buf.Reset()
	printHistory(&buf, nil)
	if !strings.Contains(buf.String(), "No saved plans") {
		t.Errorf("empty history = %q", buf.String())
	}

	buf.Reset()
	printHistory(&buf, []store.PlanRecord{{
		ID:              uuid.New(),
		Player:          "zezima",
		Algorithm:       "DEFAULT",
		PercentComplete: 40,
		Actions:         []string{"Cook's Assistant", "Dragon Slayer"},
		CreatedAt:       time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
	}})
	out := buf.String()
	for _, want := range []string{"2024-03-01 12:30", "40%", "Cook's Assistant"} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q:\n%s", want, out)
		}
	}
}
