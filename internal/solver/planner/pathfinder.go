package planner

import (
	"fmt"

	"github.com/napolitain/ironquest/internal/logger"
	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/player"
)

// Stats summarises the player's progress before planning
type Stats struct {
	PercentComplete int
}

// Path is an ordered plan to complete every incomplete quest
type Path struct {
	Algorithm Algorithm
	Actions   []Action
	Stats     Stats
}

// FutureActions returns the actions still waiting on lamp requirements
func (p *Path) FutureActions() []Action {
	var future []Action
	for _, a := range p.Actions {
		if a.Future() {
			future = append(future, a)
		}
	}
	return future
}

// PathFinder runs the greedy simulation for one strategy
type PathFinder struct {
	strategy Strategy
}

// NewPathFinder creates a path finder using strategy
func NewPathFinder(strategy Strategy) *PathFinder {
	return &PathFinder{strategy: strategy}
}

// Find plans a path for p. The player passed in is not modified.
func (f *PathFinder) Find(p *player.Player) (*Path, error) {
	logger.Debug("Finding quest path", "player", p.Name, "algorithm", f.strategy.Algorithm())

	p = p.Clone()
	path := &Path{
		Algorithm: f.strategy.Algorithm(),
		Stats:     newStats(p),
	}

	if err := f.completePlaceholders(p); err != nil {
		return nil, err
	}

	for len(p.IncompleteEntries()) > 0 {
		best, err := f.selectBest(p)
		if err != nil {
			return nil, err
		}

		actions, err := f.completeQuest(p, best)
		if err != nil {
			return nil, err
		}
		path.Actions = append(path.Actions, actions...)
		path.Actions, err = f.processFutureActions(p, path.Actions)
		if err != nil {
			return nil, err
		}
	}

	var err error
	path.Actions, err = f.processFutureActions(p, path.Actions)
	if err != nil {
		return nil, err
	}

	logger.Debug("Found quest path", "player", p.Name, "actions", len(path.Actions),
		"future", len(path.FutureActions()))
	return path, nil
}

func newStats(p *player.Player) Stats {
	total := len(p.Entries())
	if total == 0 {
		return Stats{}
	}
	return Stats{PercentComplete: 100 * len(p.CompletedEntries()) / total}
}

// completePlaceholders grants the rewards of placeholder quests. Their
// actions are processed but never shown.
func (f *PathFinder) completePlaceholders(p *player.Player) error {
	for _, e := range p.IncompleteEntries() {
		if !e.Quest.IsPlaceholder() {
			continue
		}
		logger.Debug("Processing placeholder quest", "quest", e.Quest.Name())
		if _, err := f.createQuestActions(p, e.Handle); err != nil {
			return err
		}
	}
	return nil
}

// selectBest folds the ready quests pairwise into the one to complete next
func (f *PathFinder) selectBest(p *player.Player) (*player.QuestEntry, error) {
	var best *player.QuestEntry
	var bestRank Rank

	for _, e := range p.IncompleteEntries() {
		if !e.Quest.IsReady(p) {
			continue
		}
		rank, err := f.strategy.Rank(p, e)
		if err != nil {
			return nil, err
		}
		if best == nil || f.better(p, e, rank, best, bestRank) {
			best, bestRank = e, rank
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: player %q has %d incomplete quests",
			models.ErrBestQuestNotFound, p.Name, len(p.IncompleteEntries()))
	}
	return best, nil
}

// better reports whether candidate a should be completed before b. Quests
// that can be done without training come first.
func (f *PathFinder) better(p *player.Player, a *player.QuestEntry, ar Rank, b *player.QuestEntry, br Rank) bool {
	aMeets := a.Quest.MeetsSkillRequirements(p)
	bMeets := b.Quest.MeetsSkillRequirements(p)

	switch {
	case aMeets && bMeets:
		return ar.Compare(br) < 0
	case aMeets != bMeets:
		return aMeets
	}

	if ar.RemainingLevels != br.RemainingLevels {
		return ar.RemainingLevels < br.RemainingLevels
	}
	return a.Quest.ID < b.Quest.ID
}

// completeQuest trains for, completes and uses the lamps of a ready quest
func (f *PathFinder) completeQuest(p *player.Player, e *player.QuestEntry) ([]Action, error) {
	if e.Completed() {
		return nil, fmt.Errorf("%w: %s", models.ErrQuestAlreadyCompleted, e.Quest)
	}
	if !e.Quest.IsReady(p) {
		return nil, fmt.Errorf("%w: %s", models.ErrMissingQuestRequirements, e.Quest)
	}

	logger.Debug("Completing quest", "quest", e.Quest.Name())
	return f.createQuestActions(p, e.Handle)
}

// createQuestActions emits and processes the actions for completing the
// quest at h. Future lamps are returned unprocessed.
func (f *PathFinder) createQuestActions(p *player.Player, h player.Handle) ([]Action, error) {
	quest := p.Entry(h).Quest
	var actions []Action

	emit := func(a Action) error {
		if a.Future() {
			actions = append(actions, a)
			return nil
		}
		if err := Process(a, p); err != nil {
			return err
		}
		actions = append(actions, withPlayer(a, p.Clone()))
		return nil
	}

	for _, r := range p.RemainingSkillRequirements(quest, false) {
		train := &TrainAction{
			Skill:   r.Skill,
			StartXP: p.XP(r.Skill),
			EndXP:   r.Skill.XPAtLevel(r.Level),
		}
		if err := emit(train); err != nil {
			return nil, err
		}
	}

	if err := emit(&QuestAction{Entry: h, Quest: quest}); err != nil {
		return nil, err
	}

	for _, lamp := range quest.Rewards.Lamps {
		action, err := f.createLampAction(p, h, lamp)
		if err != nil {
			return nil, err
		}
		if err := emit(action); err != nil {
			return nil, err
		}
	}

	return actions, nil
}

// createLampAction chooses skills for a lamp if the player can use it now,
// otherwise it returns a future action with no skills
func (f *PathFinder) createLampAction(p *player.Player, h player.Handle, lamp *models.LampReward) (*LampAction, error) {
	entry := p.Entry(h)
	action := &LampAction{
		base:  base{player: p.Clone(), future: true},
		Entry: h,
		Quest: entry.Quest,
		Lamp:  lamp,
	}
	if !lamp.Type.Dynamic() {
		action.XP, _ = lamp.XPForSkills(p, nil)
	}

	if !lamp.MeetsRequirements(p) {
		return action, nil
	}

	skills, err := p.OptimalLampSkills(lamp, entry.PreviousLampSkills())
	if err != nil {
		return nil, err
	}
	xp, err := lamp.XPForSkills(p, skills)
	if err != nil {
		return nil, err
	}

	action.future = false
	action.Skills = skills
	action.XP = xp
	return action, nil
}

// processFutureActions resolves future lamps that the player can now use.
// Resolved actions move to the end of the path in their original order.
func (f *PathFinder) processFutureActions(p *player.Player, actions []Action) ([]Action, error) {
	kept := actions[:0:0]
	var resolved []Action

	for _, a := range actions {
		if !a.Future() || !MeetsRequirements(a, p) {
			kept = append(kept, a)
			continue
		}

		lamp, ok := a.(*LampAction)
		if !ok {
			kept = append(kept, a)
			continue
		}

		action, err := f.createLampAction(p, lamp.Entry, lamp.Lamp)
		if err != nil {
			return nil, err
		}
		logger.Debug("Processing future action", "action", action.Message())
		if err := Process(action, p); err != nil {
			return nil, err
		}
		resolved = append(resolved, withPlayer(action, p.Clone()))
	}

	return append(kept, resolved...), nil
}

// StrategyResult holds the path found by a single algorithm
type StrategyResult struct {
	Algorithm Algorithm
	Path      *Path
}

// FindAllStrategies plans p with every algorithm
func FindAllStrategies(p *player.Player) ([]StrategyResult, error) {
	var results []StrategyResult
	for _, algorithm := range AllAlgorithms() {
		strategy, err := NewStrategy(algorithm)
		if err != nil {
			return nil, err
		}
		path, err := NewPathFinder(strategy).Find(p)
		if err != nil {
			return nil, fmt.Errorf("failed to find path with %s: %w", algorithm, err)
		}
		results = append(results, StrategyResult{Algorithm: algorithm, Path: path})
	}
	return results, nil
}
