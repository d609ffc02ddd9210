package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/napolitain/ironquest/internal/models"
)

// QuestsFile is the catalog file name inside a data directory
const QuestsFile = "quests.json"

// ErrInvalidCatalog is returned when quest data fails validation
var ErrInvalidCatalog = errors.New("invalid quest catalog")

// QuestJSON represents the JSON structure for a quest
type QuestJSON struct {
	ID           int              `json:"id"`
	Title        string           `json:"title"`
	DisplayName  string           `json:"displayName,omitempty"`
	Access       string           `json:"access"`
	Type         string           `json:"type"`
	Requirements RequirementsJSON `json:"requirements"`
	Rewards      RewardsJSON      `json:"rewards"`
}

// RequirementsJSON represents the requirement block of a quest
type RequirementsJSON struct {
	Combat      *CombatJSON      `json:"combat,omitempty"`
	QuestPoints *QuestPointsJSON `json:"questPoints,omitempty"`
	Quests      []QuestRefJSON   `json:"quests,omitempty"`
	Skills      []SkillReqJSON   `json:"skills,omitempty"`
}

// CombatJSON is a combat level requirement
type CombatJSON struct {
	Level       int  `json:"level"`
	Ironman     bool `json:"ironman,omitempty"`
	Recommended bool `json:"recommended,omitempty"`
}

// QuestPointsJSON is a quest point requirement
type QuestPointsJSON struct {
	Amount      int  `json:"amount"`
	Ironman     bool `json:"ironman,omitempty"`
	Recommended bool `json:"recommended,omitempty"`
}

// QuestRefJSON references a prerequisite quest by id
type QuestRefJSON struct {
	ID          int  `json:"id"`
	Ironman     bool `json:"ironman,omitempty"`
	Recommended bool `json:"recommended,omitempty"`
}

// SkillReqJSON is a skill level requirement
type SkillReqJSON struct {
	Skill       string `json:"skill"`
	Level       int    `json:"level"`
	Ironman     bool   `json:"ironman,omitempty"`
	Recommended bool   `json:"recommended,omitempty"`
}

// RewardsJSON represents the reward block of a quest
type RewardsJSON struct {
	QuestPoints int                `json:"questPoints"`
	XP          map[string]float64 `json:"xp,omitempty"`
	Lamps       []LampJSON         `json:"lamps,omitempty"`
}

// LampJSON represents a lamp reward
type LampJSON struct {
	Type         string          `json:"type,omitempty"`
	XP           float64         `json:"xp,omitempty"`
	Requirements LampChoicesJSON `json:"requirements,omitempty"`
	Exclusive    bool            `json:"exclusive,omitempty"`
	SingleChoice *bool           `json:"singleChoice,omitempty"`
	Multiplier   *float64        `json:"multiplier,omitempty"`
}

// Lamp requirement keys that stand for more than one skill
const (
	anySkillKey   = "*"
	everySkillKey = "&"
)

// LampChoiceJSON is one eligible skill set for a lamp. A lone "*" skill
// expands to one single skill choice per skill and a lone "&" to a single
// set holding every skill.
type LampChoiceJSON struct {
	Skills []string `json:"skills"`
	Level  int      `json:"level"`
}

// LampChoicesJSON accepts either a list of choices or an object mapping
// "SKILL[,SKILL...]", "*" or "&" keys to a level
type LampChoicesJSON []LampChoiceJSON

func (c *LampChoicesJSON) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		var list []LampChoiceJSON
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*c = list
		return nil
	}

	var levels map[string]int
	if err := json.Unmarshal(data, &levels); err != nil {
		return err
	}
	keys := make([]string, 0, len(levels))
	for k := range levels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	choices := make(LampChoicesJSON, 0, len(keys))
	for _, k := range keys {
		var skills []string
		for _, name := range strings.Split(k, ",") {
			skills = append(skills, strings.TrimSpace(name))
		}
		choices = append(choices, LampChoiceJSON{Skills: skills, Level: levels[k]})
	}
	*c = choices
	return nil
}

// LoadQuests loads the quest catalog from the data directory
func LoadQuests(dataDir string) ([]*models.Quest, error) {
	return LoadQuestsFile(filepath.Join(dataDir, QuestsFile))
}

// LoadQuestsFile loads the quest catalog from a single file
func LoadQuestsFile(path string) ([]*models.Quest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	quests, err := ParseQuests(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}
	return quests, nil
}

// ParseQuests decodes and validates a JSON quest list. Quest references are
// resolved in a second pass so the file can list quests in any order.
func ParseQuests(data []byte) ([]*models.Quest, error) {
	var raw []QuestJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse quests: %w", err)
	}

	quests := make([]*models.Quest, 0, len(raw))
	byID := make(map[int]*models.Quest, len(raw))

	for _, r := range raw {
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate quest id %d", ErrInvalidCatalog, r.ID)
		}
		q, err := convertQuest(r)
		if err != nil {
			return nil, fmt.Errorf("quest %d: %w", r.ID, err)
		}
		byID[q.ID] = q
		quests = append(quests, q)
	}

	for i, r := range raw {
		for _, ref := range r.Requirements.Quests {
			target, ok := byID[ref.ID]
			if !ok {
				return nil, fmt.Errorf("%w: quest %d requires unknown quest %d",
					ErrInvalidCatalog, r.ID, ref.ID)
			}
			req := models.QuestRequirement(target)
			req.Ironman = ref.Ironman
			req.Recommended = ref.Recommended
			quests[i].Requirements.Quests = append(quests[i].Requirements.Quests, req)
		}
	}

	if err := Validate(quests); err != nil {
		return nil, err
	}
	return quests, nil
}

func convertQuest(r QuestJSON) (*models.Quest, error) {
	if strings.TrimSpace(r.Title) == "" {
		return nil, fmt.Errorf("%w: missing title", ErrInvalidCatalog)
	}
	access, err := models.ParseQuestAccess(r.Access)
	if err != nil {
		return nil, err
	}
	typ, err := models.ParseQuestType(r.Type)
	if err != nil {
		return nil, err
	}

	q := &models.Quest{
		ID:          r.ID,
		Title:       r.Title,
		DisplayName: r.DisplayName,
		Access:      access,
		Type:        typ,
	}

	if c := r.Requirements.Combat; c != nil {
		req := models.CombatRequirement(c.Level)
		req.Ironman, req.Recommended = c.Ironman, c.Recommended
		q.Requirements.Combat = &req
	}
	if qp := r.Requirements.QuestPoints; qp != nil {
		req := models.QuestPointsRequirement(qp.Amount)
		req.Ironman, req.Recommended = qp.Ironman, qp.Recommended
		q.Requirements.QuestPoints = &req
	}
	for _, s := range r.Requirements.Skills {
		skill, err := models.ParseSkill(s.Skill)
		if err != nil {
			return nil, err
		}
		if s.Level < 1 || s.Level > skill.MaxLevel() {
			return nil, fmt.Errorf("%w: %s level %d out of range", ErrInvalidCatalog, skill.Name(), s.Level)
		}
		req := models.SkillRequirement(skill, s.Level)
		req.Ironman, req.Recommended = s.Ironman, s.Recommended
		q.Requirements.Skills = append(q.Requirements.Skills, req)
	}

	rewards, err := convertRewards(r.Rewards)
	if err != nil {
		return nil, err
	}
	q.Rewards = rewards
	return q, nil
}

func convertRewards(r RewardsJSON) (models.Rewards, error) {
	rewards := models.Rewards{
		QuestPoints: r.QuestPoints,
		XP:          make(map[models.Skill]float64, len(r.XP)),
	}
	for name, xp := range r.XP {
		skill, err := models.ParseSkill(name)
		if err != nil {
			return rewards, err
		}
		if xp < 0 {
			return rewards, fmt.Errorf("%w: negative %s xp", ErrInvalidCatalog, skill.Name())
		}
		rewards.XP[skill] = xp
	}
	for i, l := range r.Lamps {
		lamp, err := convertLamp(l)
		if err != nil {
			return rewards, fmt.Errorf("lamp %d: %w", i, err)
		}
		rewards.Lamps = append(rewards.Lamps, lamp)
	}
	return rewards, nil
}

func convertLamp(l LampJSON) (*models.LampReward, error) {
	typ, err := models.ParseLampType(l.Type)
	if err != nil {
		return nil, err
	}

	var reqs []models.LampRequirement
	for _, choice := range l.Requirements {
		if len(choice.Skills) == 1 {
			switch choice.Skills[0] {
			case anySkillKey:
				reqs = addLampRequirements(reqs, models.AnySkill(choice.Level)...)
				continue
			case everySkillKey:
				reqs = addLampRequirements(reqs, models.EverySkill(choice.Level))
				continue
			}
		}
		skills, err := parseSkillSet(choice.Skills)
		if err != nil {
			return nil, err
		}
		reqs = addLampRequirements(reqs, models.LampRequirement{Skills: skills, Level: choice.Level})
	}
	if len(reqs) == 0 {
		// Lamps without requirements can be used on any skill
		reqs = models.AnySkill(1)
	}

	lamp := models.NewLampReward(typ, l.XP, reqs)
	lamp.Exclusive = l.Exclusive
	if l.SingleChoice != nil {
		lamp.SingleChoice = *l.SingleChoice
	}
	if l.Multiplier != nil {
		lamp.Multiplier = *l.Multiplier
	}
	return lamp, nil
}

// addLampRequirements appends reqs, keeping the lowest level when a skill
// set is listed more than once
func addLampRequirements(existing []models.LampRequirement, reqs ...models.LampRequirement) []models.LampRequirement {
next:
	for _, r := range reqs {
		for i := range existing {
			if existing[i].Skills.Equal(r.Skills) {
				existing[i].Level = min(existing[i].Level, r.Level)
				continue next
			}
		}
		existing = append(existing, r)
	}
	return existing
}

func parseSkillSet(names []string) (models.SkillSet, error) {
	var skills []models.Skill
	for _, name := range names {
		s, err := models.ParseSkill(name)
		if err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	if len(skills) == 0 {
		return nil, fmt.Errorf("%w: empty lamp skill set", ErrInvalidCatalog)
	}
	return models.NewSkillSet(skills...), nil
}

// Validate checks catalog wide invariants: unique ids, acyclic quest
// requirements and lamps whose xp can always be computed
func Validate(quests []*models.Quest) error {
	seen := make(map[int]bool, len(quests))
	for _, q := range quests {
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate quest id %d", ErrInvalidCatalog, q.ID)
		}
		seen[q.ID] = true

		for i, lamp := range q.Rewards.Lamps {
			if err := validateLamp(lamp); err != nil {
				return fmt.Errorf("%w: %s lamp %d: %v", ErrInvalidCatalog, q, i, err)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[int]int, len(quests))
	var visit func(q *models.Quest) error
	visit = func(q *models.Quest) error {
		switch state[q.ID] {
		case visiting:
			return fmt.Errorf("%w: requirement cycle through %s", ErrInvalidCatalog, q)
		case done:
			return nil
		}
		state[q.ID] = visiting
		for _, r := range q.Requirements.Quests {
			if err := visit(r.Quest); err != nil {
				return err
			}
		}
		state[q.ID] = done
		return nil
	}
	for _, q := range quests {
		if err := visit(q); err != nil {
			return err
		}
	}
	return nil
}

func validateLamp(l *models.LampReward) error {
	if l.Multiplier <= 0 {
		return fmt.Errorf("multiplier must be positive")
	}
	if !l.Type.Dynamic() {
		if l.XP <= 0 {
			return fmt.Errorf("xp lamps need a positive xp amount")
		}
		return nil
	}
	if l.SingleChoice {
		return nil
	}
	for _, r := range l.Requirements {
		if len(r.Skills) != 1 {
			return fmt.Errorf("%s cannot reward skill set %s unless it is single choice",
				l.Type.Description(), r.Skills)
		}
	}
	return nil
}
