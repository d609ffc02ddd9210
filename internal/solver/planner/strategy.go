package planner

import (
	"fmt"
	"math"
	"strings"

	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/player"
)

// Algorithm selects the strategy used to rank ready quests
type Algorithm string

const (
	AlgorithmDefault         Algorithm = "DEFAULT"
	AlgorithmSmartPriorities Algorithm = "SMART_PRIORITIES"
)

// AllAlgorithms returns every algorithm in deterministic order
func AllAlgorithms() []Algorithm {
	return []Algorithm{AlgorithmDefault, AlgorithmSmartPriorities}
}

// ParseAlgorithm parses an algorithm name, defaulting to DEFAULT when empty
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return AlgorithmDefault, nil
	}
	normalized := strings.ReplaceAll(strings.ToUpper(s), "-", "_")
	for _, a := range AllAlgorithms() {
		if string(a) == normalized {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", models.ErrUnknownAlgorithm, s)
}

// Rank is the comparison key of a ready quest
type Rank struct {
	QuestID         int
	Priority        models.QuestPriority
	RemainingLevels int
	GoalScore       float64
	Rewards         float64
}

// Compare returns a negative number when r should be completed before o
func (r Rank) Compare(o Rank) int {
	if r.Priority != o.Priority {
		return int(r.Priority) - int(o.Priority)
	}
	if r.RemainingLevels != o.RemainingLevels {
		return r.RemainingLevels - o.RemainingLevels
	}
	if r.GoalScore != o.GoalScore {
		if r.GoalScore > o.GoalScore {
			return -1
		}
		return 1
	}
	if r.Rewards != o.Rewards {
		if r.Rewards > o.Rewards {
			return -1
		}
		return 1
	}
	return r.QuestID - o.QuestID
}

// Strategy ranks ready quests for a player
type Strategy interface {
	Algorithm() Algorithm
	Rank(p *player.Player, e *player.QuestEntry) (Rank, error)
}

// NewStrategy returns the strategy for an algorithm
func NewStrategy(a Algorithm) (Strategy, error) {
	switch a {
	case AlgorithmDefault, "":
		return DefaultStrategy{}, nil
	case AlgorithmSmartPriorities:
		return SmartPrioritiesStrategy{}, nil
	}
	return nil, fmt.Errorf("%w: %q", models.ErrUnknownAlgorithm, a)
}

// DefaultStrategy prefers urgent quests, then the fewest levels left to
// train, then the largest rewards
type DefaultStrategy struct{}

func (DefaultStrategy) Algorithm() Algorithm { return AlgorithmDefault }

func (DefaultStrategy) Rank(p *player.Player, e *player.QuestEntry) (Rank, error) {
	rewards, err := p.TotalQuestRewards(e.Quest)
	if err != nil {
		return Rank{}, err
	}
	return Rank{
		QuestID:         e.Quest.ID,
		Priority:        e.Priority,
		RemainingLevels: p.TotalRemainingSkillRequirements(e.Quest, true),
		Rewards:         rewards,
	}, nil
}

// SmartPrioritiesStrategy additionally prefers quests whose rewards move the
// player toward the skill requirements of prioritised quests
type SmartPrioritiesStrategy struct{}

func (SmartPrioritiesStrategy) Algorithm() Algorithm { return AlgorithmSmartPriorities }

func (SmartPrioritiesStrategy) Rank(p *player.Player, e *player.QuestEntry) (Rank, error) {
	rank, err := DefaultStrategy{}.Rank(p, e)
	if err != nil {
		return Rank{}, err
	}

	prioritised := p.PrioritisedEntries()
	if len(prioritised) == 0 {
		return rank, nil
	}

	rewards, err := p.QuestRewards(e.Quest)
	if err != nil {
		return Rank{}, err
	}

	// The weakest contribution across all goals decides
	score := math.Inf(1)
	for _, goal := range prioritised {
		toward := 0.0
		for _, r := range p.RemainingSkillRequirements(goal.Quest, true) {
			toward += rewards[r.Skill]
		}
		score = math.Min(score, toward*float64(goal.Priority.Weight()))
	}
	rank.GoalScore = score

	return rank, nil
}
