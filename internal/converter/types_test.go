package converter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/player"
	"github.com/napolitain/ironquest/internal/solver/planner"
)

func testPath(t *testing.T) *planner.Path {
	t.Helper()

	cook := &models.Quest{
		ID: 1, Title: "Cook's Assistant", Access: models.AccessFree, Type: models.TypeQuest,
		Rewards: models.Rewards{QuestPoints: 1, XP: map[models.Skill]float64{models.Cooking: 300}},
	}
	dragon := &models.Quest{
		ID: 2, Title: "Dragon Slayer", Access: models.AccessFree, Type: models.TypeQuest,
		Requirements: models.Requirements{
			Skills: []models.Requirement{models.SkillRequirement(models.Attack, 20)},
		},
		Rewards: models.Rewards{QuestPoints: 2, XP: map[models.Skill]float64{}},
	}

	p := player.New([]*models.Quest{cook, dragon}, player.Options{Name: "zezima"})
	path, err := planner.NewPathFinder(planner.DefaultStrategy{}).Find(p)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	return path
}

func TestModelToPathDTO(t *testing.T) {
	dto := ModelToPathDTO(testPath(t))

	if dto.Algorithm != "DEFAULT" {
		t.Errorf("algorithm = %q", dto.Algorithm)
	}
	if len(dto.Actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(dto.Actions))
	}

	wantTypes := []string{"QUEST", "TRAIN", "QUEST"}
	for i, a := range dto.Actions {
		if a.Type != wantTypes[i] {
			t.Errorf("action %d type = %s, want %s", i, a.Type, wantTypes[i])
		}
		if a.Player == nil {
			t.Errorf("action %d should carry a player snapshot", i)
		}
	}

	if q := dto.Actions[0].Quest; q == nil || q.ID != 1 || q.DisplayName != "Cook's Assistant" {
		t.Errorf("quest = %+v", q)
	}
	if dto.Actions[1].Quest != nil {
		t.Errorf("train actions have no quest")
	}
	if !strings.HasPrefix(dto.Actions[1].Message, "Train Attack to level 20") {
		t.Errorf("message = %q", dto.Actions[1].Message)
	}

	last := dto.Actions[2].Player
	if last.QuestPoints != 3 || last.Levels["ATTACK"] != 20 {
		t.Errorf("final snapshot = %+v", last)
	}
}

func TestModelToPlayerDTO(t *testing.T) {
	p := player.New(nil, player.Options{Name: "zezima"})
	dto := ModelToPlayerDTO(p)

	if dto.Name != "zezima" {
		t.Errorf("name = %q", dto.Name)
	}
	if len(dto.Levels) != len(models.AllSkills()) {
		t.Errorf("expected a level per skill, got %d", len(dto.Levels))
	}
	if dto.Levels["CONSTITUTION"] != 10 {
		t.Errorf("constitution = %d, want 10", dto.Levels["CONSTITUTION"])
	}
	if dto.CombatLevel != int(p.CombatLevel()) {
		t.Errorf("combat level = %d, want %d", dto.CombatLevel, int(p.CombatLevel()))
	}
	if dto.TotalLevel != p.TotalLevel() {
		t.Errorf("total level = %d, want %d", dto.TotalLevel, p.TotalLevel())
	}
}

func TestPathDTOJSON(t *testing.T) {
	dto := ModelToPathDTO(testPath(t))

	data, err := json.Marshal(dto)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, field := range []string{`"percentComplete":0`, `"displayName":"Dragon Slayer"`, `"questPoints":3`} {
		if !strings.Contains(s, field) {
			t.Errorf("json missing %s: %s", field, s)
		}
	}
	if strings.Contains(s, "planId") {
		t.Errorf("unsaved plans should omit planId")
	}
}

func TestModelToQuestDTOs(t *testing.T) {
	quests := []*models.Quest{
		{ID: 1, Title: "Cook's Assistant", Access: models.AccessFree, Type: models.TypeQuest},
		{ID: 2, Title: "Myreque", DisplayName: "The Myreque Saga", Access: models.AccessMembers, Type: models.TypeSaga},
	}

	dtos := ModelToQuestDTOs(quests)
	if len(dtos) != 2 {
		t.Fatalf("expected 2 quests, got %d", len(dtos))
	}
	if dtos[1].DisplayName != "The Myreque Saga" || dtos[1].Access != "MEMBERS" || dtos[1].Type != "SAGA" {
		t.Errorf("quest = %+v", dtos[1])
	}

	if got := ModelToQuestDTOs(nil); got == nil || len(got) != 0 {
		t.Errorf("nil quests should convert to an empty slice")
	}
}
