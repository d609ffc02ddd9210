package planner

import (
	"fmt"
	"strings"

	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/player"
)

// ActionType identifies the kind of step in a path
type ActionType string

const (
	ActionTrain ActionType = "TRAIN"
	ActionQuest ActionType = "QUEST"
	ActionLamp  ActionType = "LAMP"
)

// Action is a step in a path. Each action carries a snapshot of the player
// taken after the action was processed.
type Action interface {
	Type() ActionType
	Player() *player.Player
	Future() bool
	Message() string
}

type base struct {
	player *player.Player
	future bool
}

func (b *base) Player() *player.Player { return b.player }
func (b *base) Future() bool           { return b.future }

// TrainAction trains a skill from one XP amount to another
type TrainAction struct {
	base
	Skill   models.Skill
	StartXP float64
	EndXP   float64
}

func (a *TrainAction) Type() ActionType { return ActionTrain }

// XP returns the XP gained by training
func (a *TrainAction) XP() float64 {
	return a.EndXP - a.StartXP
}

func (a *TrainAction) Message() string {
	return fmt.Sprintf("Train %s to level %d, requiring %s xp",
		a.Skill.Name(), a.Skill.LevelAt(a.EndXP), models.FormatXP(a.XP()))
}

// QuestAction completes a quest
type QuestAction struct {
	base
	Entry player.Handle
	Quest *models.Quest
}

func (a *QuestAction) Type() ActionType { return ActionQuest }

func (a *QuestAction) Message() string {
	return a.Quest.Name()
}

// LampAction uses a lamp reward. Future lamps have no skills chosen yet.
type LampAction struct {
	base
	Entry  player.Handle
	Quest  *models.Quest
	Lamp   *models.LampReward
	Skills models.SkillSet
	XP     float64
}

func (a *LampAction) Type() ActionType { return ActionLamp }

func (a *LampAction) Message() string {
	var b strings.Builder
	b.WriteString(a.Quest.Name())
	b.WriteString(": Use ")
	b.WriteString(a.Lamp.Description())
	if len(a.Skills) > 0 {
		b.WriteString(" on ")
		b.WriteString(a.Skills.String())
	}
	// dynamic lamps have no amount until a skill is chosen
	if !a.future || !a.Lamp.Type.Dynamic() {
		b.WriteString(" to gain ")
		b.WriteString(models.FormatXP(a.XP))
		b.WriteString(" xp")
	}
	if a.future {
		b.WriteString(" (when requirements are met)")
	}
	return b.String()
}

// MeetsRequirements reports whether the action can be processed on p
func MeetsRequirements(a Action, p *player.Player) bool {
	switch act := a.(type) {
	case *TrainAction:
		return true
	case *QuestAction:
		return act.Quest.MeetsAllRequirements(p)
	case *LampAction:
		return act.Lamp.MeetsRequirements(p)
	}
	return false
}

// Process applies the action to p
func Process(a Action, p *player.Player) error {
	switch act := a.(type) {
	case *TrainAction:
		p.AddXP(act.Skill, act.XP())
	case *QuestAction:
		if err := p.SetQuestStatus(act.Quest.ID, models.StatusCompleted); err != nil {
			return err
		}
		for s, xp := range act.Quest.Rewards.XP {
			p.AddXP(s, xp)
		}
	case *LampAction:
		for _, s := range act.Skills {
			p.AddXP(s, act.XP)
		}
		if !act.future {
			p.RecordLampSkills(act.Entry, act.Skills)
		}
	default:
		return fmt.Errorf("unknown action %T", a)
	}
	return nil
}

// withPlayer returns a copy of the action holding snapshot p
func withPlayer(a Action, p *player.Player) Action {
	switch act := a.(type) {
	case *TrainAction:
		c := *act
		c.player = p
		return &c
	case *QuestAction:
		c := *act
		c.player = p
		return &c
	case *LampAction:
		c := *act
		c.player = p
		return &c
	}
	return a
}
