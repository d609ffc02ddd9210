package planner

import (
	"testing"

	"github.com/napolitain/ironquest/internal/loader"
	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/player"
)

// TestBundledCatalog plans the shipped catalog with every algorithm and checks
// the properties every path must have
func TestBundledCatalog(t *testing.T) {
	quests, err := loader.LoadQuests("../../../data")
	if err != nil {
		t.Fatalf("Failed to load quests: %v", err)
	}

	for _, algorithm := range AllAlgorithms() {
		t.Run(string(algorithm), func(t *testing.T) {
			p := player.New(quests, player.Options{Name: "zezima"})
			path := findPath(t, p, algorithm)

			position := make(map[int]int)
			for i, id := range questOrder(path) {
				if _, ok := position[id]; ok {
					t.Errorf("quest %d completed twice", id)
				}
				position[id] = i
			}
			if len(position) != len(quests) {
				t.Errorf("completed %d of %d quests", len(position), len(quests))
			}

			for _, q := range quests {
				for _, pre := range q.QuestRequirements(false) {
					if position[pre.ID] > position[q.ID] {
						t.Errorf("%s completed before its prerequisite %s", q, pre)
					}
				}
			}

			qp := 0
			for i, a := range path.Actions {
				snapshot := a.Player()
				if snapshot.QuestPoints() < qp {
					t.Errorf("action %d: quest points went down", i)
				}
				qp = snapshot.QuestPoints()

				if qa, ok := a.(*QuestAction); ok && !qa.Quest.MeetsSkillRequirements(snapshot) {
					t.Errorf("%s completed without its skill requirements", qa.Quest)
				}
			}

			if future := path.FutureActions(); len(future) != 0 {
				t.Errorf("every bundled lamp should be usable, %d left", len(future))
			}
			if p.QuestPoints() != 0 {
				t.Errorf("the caller's player should not be modified")
			}
		})
	}
}

// FuzzLampXP checks that dynamic lamp XP never decreases with level
func FuzzLampXP(f *testing.F) {
	f.Add(uint8(1), uint8(2))
	f.Add(uint8(50), uint8(51))
	f.Add(uint8(97), uint8(99))

	f.Fuzz(func(t *testing.T, a, b uint8) {
		lo, hi := int(a%99)+1, int(b%99)+1
		if lo > hi {
			lo, hi = hi, lo
		}
		for _, typ := range []models.LampType{models.LampSmall, models.LampMedium, models.LampLarge, models.LampHuge, models.LampDragonkin} {
			lamp := models.NewLampReward(typ, 0, []models.LampRequirement{
				{Skills: models.NewSkillSet(models.Mining), Level: 1},
			})

			low := player.New(nil, player.Options{XP: map[models.Skill]float64{models.Mining: models.Mining.XPAtLevel(lo)}})
			high := player.New(nil, player.Options{XP: map[models.Skill]float64{models.Mining: models.Mining.XPAtLevel(hi)}})

			lowXP, err := lamp.XPForSkills(low, models.NewSkillSet(models.Mining))
			if err != nil {
				t.Fatalf("%s: %v", typ, err)
			}
			highXP, err := lamp.XPForSkills(high, models.NewSkillSet(models.Mining))
			if err != nil {
				t.Fatalf("%s: %v", typ, err)
			}
			if lowXP < 0 || highXP < lowXP {
				t.Errorf("%s: xp at level %d = %v, at level %d = %v", typ, lo, lowXP, hi, highXP)
			}
		}
	})
}
