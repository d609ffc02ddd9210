package player

import (
	"fmt"

	"github.com/napolitain/ironquest/internal/models"
)

// Handle is a stable index of a quest entry within a player
type Handle int

// QuestEntry is a player's progress on a single quest
type QuestEntry struct {
	Handle   Handle
	Quest    *models.Quest
	Status   models.QuestStatus
	Priority models.QuestPriority

	// Skill sets already chosen for this quest's lamps
	previousLampSkills []models.SkillSet
}

// PreviousLampSkills returns the skill sets already chosen for this quest's lamps
func (e *QuestEntry) PreviousLampSkills() []models.SkillSet {
	return e.previousLampSkills
}

// Completed reports whether the quest is done
func (e *QuestEntry) Completed() bool {
	return e.Status == models.StatusCompleted
}

// Options configures a new player
type Options struct {
	Name        string
	Ironman     bool
	Recommended bool
	// Preferred skills for lamps, in order of preference
	LampSkills []models.Skill
	// Starting XP; skills not listed start at their initial XP
	XP map[models.Skill]float64
}

// Player is the simulated state the planner mutates
type Player struct {
	Name        string
	ironman     bool
	recommended bool
	lampSkills  []models.Skill

	xps     map[models.Skill]float64
	entries []QuestEntry
	byID    map[int]Handle
}

// New creates a player with an entry for each quest
func New(quests []*models.Quest, opts Options) *Player {
	catalog := models.NewCatalog(quests)

	p := &Player{
		Name:        opts.Name,
		ironman:     opts.Ironman,
		recommended: opts.Recommended,
		lampSkills:  append([]models.Skill(nil), opts.LampSkills...),
		xps:         models.InitialXPs(),
		entries:     make([]QuestEntry, 0, catalog.Len()),
		byID:        make(map[int]Handle, catalog.Len()),
	}

	for s, xp := range opts.XP {
		p.SetXP(s, xp)
	}

	for _, q := range catalog.Quests() {
		h := Handle(len(p.entries))
		p.entries = append(p.entries, QuestEntry{
			Handle:   h,
			Quest:    q,
			Status:   models.StatusNotStarted,
			Priority: models.PriorityNormal,
		})
		p.byID[q.ID] = h
	}

	return p
}

// Clone returns a deep copy. Quests are shared since they are immutable.
func (p *Player) Clone() *Player {
	c := &Player{
		Name:        p.Name,
		ironman:     p.ironman,
		recommended: p.recommended,
		lampSkills:  p.lampSkills,
		xps:         make(map[models.Skill]float64, len(p.xps)),
		entries:     make([]QuestEntry, len(p.entries)),
		byID:        p.byID,
	}

	for s, xp := range p.xps {
		c.xps[s] = xp
	}

	copy(c.entries, p.entries)
	for i := range c.entries {
		if prev := p.entries[i].previousLampSkills; len(prev) > 0 {
			c.entries[i].previousLampSkills = append([]models.SkillSet(nil), prev...)
		}
	}

	return c
}

// IsIronman reports whether ironman requirements apply
func (p *Player) IsIronman() bool {
	return p.ironman
}

// IsRecommended reports whether recommended requirements apply
func (p *Player) IsRecommended() bool {
	return p.recommended
}

// LampSkills returns the preferred lamp skills
func (p *Player) LampSkills() []models.Skill {
	return p.lampSkills
}

// XP returns the XP in a skill
func (p *Player) XP(s models.Skill) float64 {
	return p.xps[s]
}

// Level returns the level in a skill
func (p *Player) Level(s models.Skill) int {
	return s.LevelAt(p.xps[s])
}

// Levels returns the level of every skill
func (p *Player) Levels() map[models.Skill]int {
	levels := make(map[models.Skill]int, len(p.xps))
	for _, s := range models.AllSkills() {
		levels[s] = p.Level(s)
	}
	return levels
}

// TotalLevel returns the sum of all skill levels
func (p *Player) TotalLevel() int {
	total := 0
	for _, s := range models.AllSkills() {
		total += p.Level(s)
	}
	return total
}

// CombatLevel returns the combat level
func (p *Player) CombatLevel() float64 {
	return models.CombatLevel(p.Levels())
}

// QuestPoints returns the quest points from completed quests
func (p *Player) QuestPoints() int {
	total := 0
	for i := range p.entries {
		if p.entries[i].Completed() {
			total += p.entries[i].Quest.Rewards.QuestPoints
		}
	}
	return total
}

// AddXP adds xp to a skill. Negative amounts are ignored.
func (p *Player) AddXP(s models.Skill, xp float64) {
	if xp <= 0 {
		return
	}
	p.xps[s] = models.ClampXP(p.xps[s] + xp)
}

// SetXP raises a skill to xp. XP is never lowered.
func (p *Player) SetXP(s models.Skill, xp float64) {
	if !s.Valid() {
		return
	}
	xp = models.ClampXP(xp)
	if xp > p.xps[s] {
		p.xps[s] = xp
	}
}

// Entry returns the entry for a handle
func (p *Player) Entry(h Handle) *QuestEntry {
	return &p.entries[h]
}

// EntryByID returns the entry for a quest id
func (p *Player) EntryByID(id int) (*QuestEntry, error) {
	h, ok := p.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", models.ErrQuestNotFound, id)
	}
	return &p.entries[h], nil
}

// IsQuestCompleted reports whether the quest with id is completed
func (p *Player) IsQuestCompleted(id int) bool {
	h, ok := p.byID[id]
	return ok && p.entries[h].Completed()
}

// SetQuestStatus advances the status of a quest. Statuses never move backwards.
func (p *Player) SetQuestStatus(id int, status models.QuestStatus) error {
	e, err := p.EntryByID(id)
	if err != nil {
		return err
	}
	if status > e.Status {
		e.Status = status
	}
	return nil
}

// SetQuestPriority sets the priority of a quest
func (p *Player) SetQuestPriority(id int, priority models.QuestPriority) error {
	e, err := p.EntryByID(id)
	if err != nil {
		return err
	}
	e.Priority = priority
	return nil
}

// Entries returns every entry ordered by quest id
func (p *Player) Entries() []*QuestEntry {
	return p.filter(func(*QuestEntry) bool { return true })
}

// IncompleteEntries returns the entries not yet completed
func (p *Player) IncompleteEntries() []*QuestEntry {
	return p.filter(func(e *QuestEntry) bool { return !e.Completed() })
}

// CompletedEntries returns the completed entries
func (p *Player) CompletedEntries() []*QuestEntry {
	return p.filter(func(e *QuestEntry) bool { return e.Completed() })
}

// PrioritisedEntries returns incomplete entries ranked above NORMAL
func (p *Player) PrioritisedEntries() []*QuestEntry {
	return p.filter(func(e *QuestEntry) bool {
		return !e.Completed() && e.Priority < models.PriorityNormal
	})
}

func (p *Player) filter(keep func(*QuestEntry) bool) []*QuestEntry {
	var result []*QuestEntry
	for i := range p.entries {
		if keep(&p.entries[i]) {
			result = append(result, &p.entries[i])
		}
	}
	return result
}

// RecordLampSkills remembers a skill set chosen for one of the entry's lamps
func (p *Player) RecordLampSkills(h Handle, skills models.SkillSet) {
	e := &p.entries[h]
	e.previousLampSkills = append(e.previousLampSkills, skills)
}
