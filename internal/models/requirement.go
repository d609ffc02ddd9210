package models

import "fmt"

// Snapshot is the read-only view of a player that requirements are tested against
type Snapshot interface {
	IsIronman() bool
	IsRecommended() bool
	CombatLevel() float64
	QuestPoints() int
	IsQuestCompleted(id int) bool
	Level(s Skill) int
}

// RequirementKind identifies the requirement variant
type RequirementKind int

const (
	RequireCombat RequirementKind = iota
	RequireQuestPoints
	RequireQuest
	RequireSkill
)

func (k RequirementKind) String() string {
	switch k {
	case RequireCombat:
		return "combat"
	case RequireQuestPoints:
		return "quest points"
	case RequireQuest:
		return "quest"
	case RequireSkill:
		return "skill"
	}
	return fmt.Sprintf("RequirementKind(%d)", int(k))
}

// Requirement gates a quest. Only the fields relevant to Kind are set.
type Requirement struct {
	Kind   RequirementKind
	Level  int // combat or skill level
	Amount int // quest points
	Skill  Skill
	Quest  *Quest

	// Waived unless the player is an ironman
	Ironman bool
	// Waived unless the player plans with recommended requirements
	Recommended bool
}

// CombatRequirement requires a minimum combat level
func CombatRequirement(level int) Requirement {
	return Requirement{Kind: RequireCombat, Level: level}
}

// QuestPointsRequirement requires a minimum number of quest points
func QuestPointsRequirement(amount int) Requirement {
	return Requirement{Kind: RequireQuestPoints, Amount: amount}
}

// QuestRequirement requires another quest to be completed
func QuestRequirement(q *Quest) Requirement {
	return Requirement{Kind: RequireQuest, Quest: q}
}

// SkillRequirement requires a minimum level in a skill
func SkillRequirement(s Skill, level int) Requirement {
	return Requirement{Kind: RequireSkill, Skill: s, Level: level}
}

// Test reports whether the player satisfies the requirement
func (r Requirement) Test(p Snapshot) bool {
	if r.Ironman && !p.IsIronman() {
		return true
	}
	if r.Recommended && !p.IsRecommended() {
		return true
	}

	switch r.Kind {
	case RequireCombat:
		return p.CombatLevel() >= float64(r.Level)
	case RequireQuestPoints:
		return p.QuestPoints() >= r.Amount
	case RequireQuest:
		return r.Quest != nil && p.IsQuestCompleted(r.Quest.ID)
	case RequireSkill:
		return p.Level(r.Skill) >= r.Level
	}
	return false
}

func (r Requirement) String() string {
	switch r.Kind {
	case RequireCombat:
		return fmt.Sprintf("%d Combat", r.Level)
	case RequireQuestPoints:
		return fmt.Sprintf("%d Quest Points", r.Amount)
	case RequireQuest:
		if r.Quest == nil {
			return "unknown quest"
		}
		return r.Quest.Name()
	case RequireSkill:
		return fmt.Sprintf("%d %s", r.Level, r.Skill.Name())
	}
	return r.Kind.String()
}

// MergeSkillRequirements combines skill requirement lists keeping the highest
// level per skill. Skills keep the order they were first seen in.
func MergeSkillRequirements(lists ...[]Requirement) []Requirement {
	var merged []Requirement
	index := make(map[Skill]int)

	for _, list := range lists {
		for _, r := range list {
			if r.Kind != RequireSkill {
				continue
			}
			if i, ok := index[r.Skill]; ok {
				if r.Level > merged[i].Level {
					merged[i] = r
				}
				continue
			}
			index[r.Skill] = len(merged)
			merged = append(merged, r)
		}
	}
	return merged
}

// Requirements groups the gates of a quest
type Requirements struct {
	Combat      *Requirement
	QuestPoints *Requirement
	Quests      []Requirement
	Skills      []Requirement
}
