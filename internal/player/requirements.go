package player

import (
	"fmt"

	"github.com/napolitain/ironquest/internal/models"
)

// RemainingSkillRequirements returns the skill requirements of q the player
// does not meet yet. When recursive, unmet requirements of every incomplete
// prerequisite are merged in, keeping the highest level per skill.
func (p *Player) RemainingSkillRequirements(q *models.Quest, recursive bool) []models.Requirement {
	remaining := models.MergeSkillRequirements(p.unmetSkills(q))

	if recursive {
		for _, prereq := range p.RemainingQuestRequirements(q, true) {
			remaining = models.MergeSkillRequirements(remaining, p.unmetSkills(prereq))
		}
	}

	return remaining
}

func (p *Player) unmetSkills(q *models.Quest) []models.Requirement {
	var unmet []models.Requirement
	for _, r := range q.Requirements.Skills {
		if !r.Test(p) {
			unmet = append(unmet, r)
		}
	}
	return unmet
}

// TotalRemainingSkillRequirements sums the missing levels over the remaining
// skill requirements of q
func (p *Player) TotalRemainingSkillRequirements(q *models.Quest, recursive bool) int {
	total := 0
	for _, r := range p.RemainingSkillRequirements(q, recursive) {
		if missing := r.Level - p.Level(r.Skill); missing > 0 {
			total += missing
		}
	}
	return total
}

// RemainingQuestRequirements returns the incomplete prerequisites of q
func (p *Player) RemainingQuestRequirements(q *models.Quest, recursive bool) []*models.Quest {
	var remaining []*models.Quest
	for _, prereq := range q.QuestRequirements(recursive) {
		if !p.IsQuestCompleted(prereq.ID) {
			remaining = append(remaining, prereq)
		}
	}
	return remaining
}

// remainingXPRequirements returns the XP still needed per skill to meet the
// highest requirement of any incomplete quest
func (p *Player) remainingXPRequirements() map[models.Skill]float64 {
	var merged []models.Requirement
	for _, e := range p.IncompleteEntries() {
		merged = models.MergeSkillRequirements(merged, p.RemainingSkillRequirements(e.Quest, false))
	}

	remaining := make(map[models.Skill]float64, len(merged))
	for _, r := range merged {
		if xp := r.Skill.XPAtLevel(r.Level) - p.XP(r.Skill); xp > 0 {
			remaining[r.Skill] = xp
		}
	}
	return remaining
}

// OptimalLampSkills picks the skill set to use a lamp on. The first preferred
// lamp skill found in a choice wins. Otherwise the choice with the most XP
// still required by incomplete quests is used, ties going to the lowest skill ids.
func (p *Player) OptimalLampSkills(lamp *models.LampReward, previous []models.SkillSet) (models.SkillSet, error) {
	choices := lamp.Choices(p, previous)
	if len(choices) == 0 {
		return nil, fmt.Errorf("%w: %s, previous=%v, lampSkills=%v",
			models.ErrLampSkillsNotFound, lamp.Description(), previous, p.lampSkills)
	}

	for _, preferred := range p.lampSkills {
		for _, c := range choices {
			if c.Contains(preferred) {
				return c, nil
			}
		}
	}

	required := p.remainingXPRequirements()
	best := choices[0]
	bestXP := -1.0
	for _, c := range choices {
		xp := 0.0
		for _, s := range c {
			xp += required[s]
		}
		// choices are ordered by skill id so strict > keeps the lowest ids on ties
		if xp > bestXP {
			best, bestXP = c, xp
		}
	}

	return best, nil
}

// QuestRewards returns the XP per skill granted by q, including lamps the
// player could use right now
func (p *Player) QuestRewards(q *models.Quest) (map[models.Skill]float64, error) {
	rewards := make(map[models.Skill]float64, len(q.Rewards.XP))
	for s, xp := range q.Rewards.XP {
		rewards[s] += xp
	}

	var previous []models.SkillSet
	for _, lamp := range q.Rewards.Lamps {
		if !lamp.MeetsRequirements(p) {
			continue
		}
		skills, err := p.OptimalLampSkills(lamp, previous)
		if err != nil {
			return nil, err
		}
		xp, err := lamp.XPForSkills(p, skills)
		if err != nil {
			return nil, err
		}
		previous = append(previous, skills)
		for _, s := range skills {
			rewards[s] += xp
		}
	}

	return rewards, nil
}

// TotalQuestRewards sums QuestRewards over all skills
func (p *Player) TotalQuestRewards(q *models.Quest) (float64, error) {
	rewards, err := p.QuestRewards(q)
	if err != nil {
		return 0, err
	}
	// Summed in skill order so equal rewards compare equal
	total := 0.0
	for _, s := range models.AllSkills() {
		total += rewards[s]
	}
	return total, nil
}
