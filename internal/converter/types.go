// Package converter maps planner models to transfer objects and parses
// planning parameters
package converter

import (
	"math"

	"github.com/google/uuid"

	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/player"
	"github.com/napolitain/ironquest/internal/service"
	"github.com/napolitain/ironquest/internal/solver/planner"
)

// PathDTO is the JSON form of a planned path
type PathDTO struct {
	Algorithm string       `json:"algorithm"`
	Actions   []ActionDTO  `json:"actions"`
	Stats     PathStatsDTO `json:"stats"`
	PlanID    string       `json:"planId,omitempty"`
}

// PathStatsDTO is the JSON form of path stats
type PathStatsDTO struct {
	PercentComplete int `json:"percentComplete"`
}

// ActionDTO is the JSON form of an action. Quest is set for quest and lamp actions.
type ActionDTO struct {
	Type    string     `json:"type"`
	Message string     `json:"message"`
	Future  bool       `json:"future"`
	Player  *PlayerDTO `json:"player,omitempty"`
	Quest   *QuestDTO  `json:"quest,omitempty"`
}

// PlayerDTO is the JSON form of a player snapshot
type PlayerDTO struct {
	Name        string         `json:"name,omitempty"`
	Levels      map[string]int `json:"levels"`
	QuestPoints int            `json:"questPoints"`
	TotalLevel  int            `json:"totalLevel"`
	CombatLevel int            `json:"combatLevel"`
}

// QuestDTO is the JSON form of a quest
type QuestDTO struct {
	ID          int    `json:"id"`
	DisplayName string `json:"displayName"`
	Access      string `json:"access,omitempty"`
	Type        string `json:"type,omitempty"`
}

// ModelToPathDTO converts a path to its DTO
func ModelToPathDTO(path *planner.Path) PathDTO {
	dto := PathDTO{
		Algorithm: string(path.Algorithm),
		Actions:   make([]ActionDTO, 0, len(path.Actions)),
		Stats:     PathStatsDTO{PercentComplete: path.Stats.PercentComplete},
	}
	for _, a := range path.Actions {
		dto.Actions = append(dto.Actions, ModelToActionDTO(a))
	}
	return dto
}

// ResultToPathDTO converts a planning result, including its plan id when saved
func ResultToPathDTO(result *service.Result) PathDTO {
	dto := ModelToPathDTO(result.Path)
	if result.PlanID != uuid.Nil {
		dto.PlanID = result.PlanID.String()
	}
	return dto
}

// ModelToActionDTO converts an action to its DTO
func ModelToActionDTO(a planner.Action) ActionDTO {
	dto := ActionDTO{
		Type:    string(a.Type()),
		Message: a.Message(),
		Future:  a.Future(),
	}
	if p := a.Player(); p != nil {
		pd := ModelToPlayerDTO(p)
		dto.Player = &pd
	}

	switch action := a.(type) {
	case *planner.QuestAction:
		qd := ModelToQuestDTO(action.Quest)
		dto.Quest = &qd
	case *planner.LampAction:
		qd := ModelToQuestDTO(action.Quest)
		dto.Quest = &qd
	}
	return dto
}

// ModelToPlayerDTO converts a player snapshot to its DTO
func ModelToPlayerDTO(p *player.Player) PlayerDTO {
	levels := make(map[string]int, len(models.AllSkills()))
	for skill, level := range p.Levels() {
		levels[string(skill)] = level
	}
	return PlayerDTO{
		Name:        p.Name,
		Levels:      levels,
		QuestPoints: p.QuestPoints(),
		TotalLevel:  p.TotalLevel(),
		CombatLevel: int(math.Floor(p.CombatLevel())),
	}
}

// ModelToQuestDTO converts a quest to its DTO
func ModelToQuestDTO(q *models.Quest) QuestDTO {
	return QuestDTO{
		ID:          q.ID,
		DisplayName: q.Name(),
		Access:      string(q.Access),
		Type:        string(q.Type),
	}
}

// ModelToQuestDTOs converts quests to DTOs
func ModelToQuestDTOs(quests []*models.Quest) []QuestDTO {
	dtos := make([]QuestDTO, 0, len(quests))
	for _, q := range quests {
		dtos = append(dtos, ModelToQuestDTO(q))
	}
	return dtos
}
