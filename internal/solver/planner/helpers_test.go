package planner

import (
	"testing"

	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/player"
)

// questBuilder keeps test catalogs short
type questBuilder struct {
	q *models.Quest
}

func quest(id int, title string) *questBuilder {
	return &questBuilder{q: &models.Quest{
		ID:      id,
		Title:   title,
		Access:  models.AccessFree,
		Type:    models.TypeQuest,
		Rewards: models.Rewards{QuestPoints: 1, XP: map[models.Skill]float64{}},
	}}
}

func (b *questBuilder) requires(quests ...*models.Quest) *questBuilder {
	for _, q := range quests {
		b.q.Requirements.Quests = append(b.q.Requirements.Quests, models.QuestRequirement(q))
	}
	return b
}

func (b *questBuilder) skill(s models.Skill, level int) *questBuilder {
	b.q.Requirements.Skills = append(b.q.Requirements.Skills, models.SkillRequirement(s, level))
	return b
}

func (b *questBuilder) combat(level int) *questBuilder {
	r := models.CombatRequirement(level)
	b.q.Requirements.Combat = &r
	return b
}

func (b *questBuilder) xp(s models.Skill, xp float64) *questBuilder {
	b.q.Rewards.XP[s] = xp
	return b
}

func (b *questBuilder) lamp(l *models.LampReward) *questBuilder {
	b.q.Rewards.Lamps = append(b.q.Rewards.Lamps, l)
	return b
}

func (b *questBuilder) build() *models.Quest {
	return b.q
}

func fixedLamp(xp float64, level int, skills ...models.Skill) *models.LampReward {
	var reqs []models.LampRequirement
	for _, s := range skills {
		reqs = append(reqs, models.LampRequirement{Skills: models.NewSkillSet(s), Level: level})
	}
	return models.NewLampReward(models.LampXP, xp, reqs)
}

func findPath(t *testing.T, p *player.Player, algorithm Algorithm) *Path {
	t.Helper()
	strategy, err := NewStrategy(algorithm)
	if err != nil {
		t.Fatalf("NewStrategy: %v", err)
	}
	path, err := NewPathFinder(strategy).Find(p)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	return path
}

func messages(path *Path) []string {
	out := make([]string, len(path.Actions))
	for i, a := range path.Actions {
		out[i] = a.Message()
	}
	return out
}

func questOrder(path *Path) []int {
	var ids []int
	for _, a := range path.Actions {
		if qa, ok := a.(*QuestAction); ok {
			ids = append(ids, qa.Quest.ID)
		}
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
