package player

import (
	"errors"
	"testing"

	"github.com/napolitain/ironquest/internal/models"
)

func newTestQuests() []*models.Quest {
	cook := &models.Quest{
		ID: 1, Title: "Cook's Assistant", Access: models.AccessFree, Type: models.TypeQuest,
		Rewards: models.Rewards{QuestPoints: 1, XP: map[models.Skill]float64{models.Cooking: 300}},
	}
	dragon := &models.Quest{
		ID: 2, Title: "Dragon Slayer", Access: models.AccessFree, Type: models.TypeQuest,
		Requirements: models.Requirements{
			Quests: []models.Requirement{models.QuestRequirement(cook)},
			Skills: []models.Requirement{
				models.SkillRequirement(models.Attack, 20),
				models.SkillRequirement(models.Cooking, 10),
			},
		},
		Rewards: models.Rewards{QuestPoints: 2, XP: map[models.Skill]float64{models.Strength: 18650}},
	}
	legends := &models.Quest{
		ID: 3, Title: "Legends' Quest", Access: models.AccessMembers, Type: models.TypeQuest,
		Requirements: models.Requirements{
			Quests: []models.Requirement{models.QuestRequirement(dragon)},
			Skills: []models.Requirement{
				models.SkillRequirement(models.Attack, 50),
				models.SkillRequirement(models.Mining, 52),
			},
		},
		Rewards: models.Rewards{QuestPoints: 4},
	}
	return []*models.Quest{legends, dragon, cook}
}

func TestNewPlayer(t *testing.T) {
	p := New(newTestQuests(), Options{
		Name: "zezima",
		XP:   map[models.Skill]float64{models.Attack: models.Attack.XPAtLevel(30)},
	})

	if p.Level(models.Attack) != 30 {
		t.Errorf("attack = %d, want 30", p.Level(models.Attack))
	}
	if p.Level(models.Constitution) != 10 {
		t.Errorf("constitution = %d, want 10", p.Level(models.Constitution))
	}

	entries := p.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Quest.ID != i+1 || e.Handle != Handle(i) {
			t.Errorf("entry %d: quest %d handle %d", i, e.Quest.ID, e.Handle)
		}
		if e.Priority != models.PriorityNormal || e.Status != models.StatusNotStarted {
			t.Errorf("entry %d has unexpected defaults", i)
		}
	}
}

func TestQuestStatusIsMonotonic(t *testing.T) {
	p := New(newTestQuests(), Options{})

	if err := p.SetQuestStatus(1, models.StatusCompleted); err != nil {
		t.Fatal(err)
	}
	if err := p.SetQuestStatus(1, models.StatusInProgress); err != nil {
		t.Fatal(err)
	}
	if !p.IsQuestCompleted(1) {
		t.Errorf("status should never move backwards")
	}
	if p.QuestPoints() != 1 {
		t.Errorf("quest points = %d, want 1", p.QuestPoints())
	}
	if err := p.SetQuestStatus(42, models.StatusCompleted); !errors.Is(err, models.ErrQuestNotFound) {
		t.Errorf("expected ErrQuestNotFound, got %v", err)
	}
}

func TestXPIsMonotonic(t *testing.T) {
	p := New(nil, Options{})
	p.AddXP(models.Magic, 1000)
	p.AddXP(models.Magic, -500)
	p.SetXP(models.Magic, 10)
	if p.XP(models.Magic) != 1000 {
		t.Errorf("xp = %v, want 1000", p.XP(models.Magic))
	}
	p.AddXP(models.Magic, models.MaxXP)
	if p.XP(models.Magic) != models.MaxXP {
		t.Errorf("xp should clamp to MaxXP, got %v", p.XP(models.Magic))
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := New(newTestQuests(), Options{})
	c := p.Clone()

	c.AddXP(models.Attack, 5000)
	if err := c.SetQuestStatus(1, models.StatusCompleted); err != nil {
		t.Fatal(err)
	}
	c.RecordLampSkills(0, models.NewSkillSet(models.Attack))

	if p.XP(models.Attack) != 0 {
		t.Errorf("clone shares xp with original")
	}
	if p.IsQuestCompleted(1) {
		t.Errorf("clone shares quest status with original")
	}
	if len(p.Entry(0).PreviousLampSkills()) != 0 {
		t.Errorf("clone shares lamp history with original")
	}
	if p.Entry(0).Quest != c.Entry(0).Quest {
		t.Errorf("quests should be shared between clones")
	}
}

func TestRemainingRequirements(t *testing.T) {
	p := New(newTestQuests(), Options{})
	legends, _ := p.EntryByID(3)

	direct := p.RemainingSkillRequirements(legends.Quest, false)
	if len(direct) != 2 {
		t.Fatalf("expected 2 direct requirements, got %d", len(direct))
	}

	recursive := p.RemainingSkillRequirements(legends.Quest, true)
	levels := make(map[models.Skill]int)
	for _, r := range recursive {
		levels[r.Skill] = r.Level
	}
	if levels[models.Attack] != 50 || levels[models.Mining] != 52 || levels[models.Cooking] != 10 {
		t.Errorf("recursive requirements = %v", levels)
	}

	// (50-1) + (52-1) + (10-1)
	if got := p.TotalRemainingSkillRequirements(legends.Quest, true); got != 109 {
		t.Errorf("total remaining = %d, want 109", got)
	}

	quests := p.RemainingQuestRequirements(legends.Quest, true)
	if len(quests) != 2 || quests[0].ID != 1 || quests[1].ID != 2 {
		t.Errorf("remaining quest requirements = %v", quests)
	}

	if err := p.SetQuestStatus(1, models.StatusCompleted); err != nil {
		t.Fatal(err)
	}
	if quests := p.RemainingQuestRequirements(legends.Quest, true); len(quests) != 1 {
		t.Errorf("completed prerequisites should be excluded, got %v", quests)
	}
}

func TestPrioritisedEntries(t *testing.T) {
	p := New(newTestQuests(), Options{})
	if err := p.SetQuestPriority(3, models.PriorityHigh); err != nil {
		t.Fatal(err)
	}
	if err := p.SetQuestPriority(2, models.PriorityLow); err != nil {
		t.Fatal(err)
	}

	prioritised := p.PrioritisedEntries()
	if len(prioritised) != 1 || prioritised[0].Quest.ID != 3 {
		t.Errorf("expected only quest 3 to be prioritised, got %v", prioritised)
	}
}
