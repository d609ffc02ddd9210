package models

import (
	"fmt"
	"sort"
	"strings"
)

// Rewards granted on quest completion
type Rewards struct {
	QuestPoints int
	XP          map[Skill]float64
	Lamps       []*LampReward
}

// Quest is an immutable catalog entry shared by every player
type Quest struct {
	ID           int
	Title        string
	DisplayName  string
	Access       QuestAccess
	Type         QuestType
	Requirements Requirements
	Rewards      Rewards
}

// Name returns the display name, falling back to the title
func (q *Quest) Name() string {
	if q.DisplayName != "" {
		return q.DisplayName
	}
	return q.Title
}

// IsPlaceholder reports whether the quest is a synthetic entry that seeds
// lamp rewards without appearing in a path
func (q *Quest) IsPlaceholder() bool {
	return q.ID < 0
}

func (q *Quest) String() string {
	return fmt.Sprintf("%s (%d)", q.Name(), q.ID)
}

// MeetsCombatRequirement checks the combat gate
func (q *Quest) MeetsCombatRequirement(p Snapshot) bool {
	return q.Requirements.Combat == nil || q.Requirements.Combat.Test(p)
}

// MeetsQuestPointRequirement checks the quest point gate
func (q *Quest) MeetsQuestPointRequirement(p Snapshot) bool {
	return q.Requirements.QuestPoints == nil || q.Requirements.QuestPoints.Test(p)
}

// MeetsQuestRequirements checks that every prerequisite quest is completed
func (q *Quest) MeetsQuestRequirements(p Snapshot) bool {
	for _, r := range q.Requirements.Quests {
		if !r.Test(p) {
			return false
		}
	}
	return true
}

// MeetsSkillRequirements checks every skill gate
func (q *Quest) MeetsSkillRequirements(p Snapshot) bool {
	for _, r := range q.Requirements.Skills {
		if !r.Test(p) {
			return false
		}
	}
	return true
}

// IsReady reports whether the combat, quest point and quest gates are met.
// Skill gates are excluded because training can satisfy them.
func (q *Quest) IsReady(p Snapshot) bool {
	return q.MeetsCombatRequirement(p) &&
		q.MeetsQuestPointRequirement(p) &&
		q.MeetsQuestRequirements(p)
}

// MeetsAllRequirements reports whether every gate is met
func (q *Quest) MeetsAllRequirements(p Snapshot) bool {
	return q.IsReady(p) && q.MeetsSkillRequirements(p)
}

// QuestRequirements returns the prerequisite quests. When recursive, the full
// closure is returned with every quest listed after its own prerequisites.
func (q *Quest) QuestRequirements(recursive bool) []*Quest {
	var result []*Quest
	seen := map[int]bool{q.ID: true}

	var visit func(*Quest)
	visit = func(cur *Quest) {
		for _, r := range cur.Requirements.Quests {
			if r.Quest == nil || seen[r.Quest.ID] {
				continue
			}
			seen[r.Quest.ID] = true
			if recursive {
				visit(r.Quest)
			}
			result = append(result, r.Quest)
		}
	}
	visit(q)

	return result
}

// Catalog is the immutable set of quests, ordered by id
type Catalog struct {
	quests []*Quest
	byID   map[int]*Quest
}

// NewCatalog builds a catalog from quests
func NewCatalog(quests []*Quest) *Catalog {
	c := &Catalog{
		quests: make([]*Quest, len(quests)),
		byID:   make(map[int]*Quest, len(quests)),
	}
	copy(c.quests, quests)
	sort.Slice(c.quests, func(i, j int) bool { return c.quests[i].ID < c.quests[j].ID })
	for _, q := range c.quests {
		c.byID[q.ID] = q
	}
	return c
}

// Quests returns all quests ordered by id
func (c *Catalog) Quests() []*Quest {
	return c.quests
}

// Len returns the number of quests
func (c *Catalog) Len() int {
	return len(c.quests)
}

// Get returns the quest with the given id
func (c *Catalog) Get(id int) (*Quest, error) {
	q, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrQuestNotFound, id)
	}
	return q, nil
}

// FindByTitle matches title or display name case-insensitively
func (c *Catalog) FindByTitle(title string) (*Quest, bool) {
	for _, q := range c.quests {
		if strings.EqualFold(q.Title, title) || strings.EqualFold(q.DisplayName, title) {
			return q, true
		}
	}
	return nil, false
}

// Filter returns the quests matching both filters, plus every prerequisite of
// a matching quest so the result is always plannable
func (c *Catalog) Filter(access AccessFilter, typ TypeFilter) []*Quest {
	keep := make(map[int]bool)
	for _, q := range c.quests {
		if !access.Matches(q.Access) || !typ.Matches(q.Type) {
			continue
		}
		keep[q.ID] = true
		for _, req := range q.QuestRequirements(true) {
			keep[req.ID] = true
		}
	}

	var result []*Quest
	for _, q := range c.quests {
		if keep[q.ID] {
			result = append(result, q)
		}
	}
	return result
}
