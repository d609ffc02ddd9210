package models

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// LampType determines how much XP a lamp grants
type LampType string

const (
	LampXP        LampType = "XP"
	LampSmall     LampType = "SMALL"
	LampMedium    LampType = "MEDIUM"
	LampLarge     LampType = "LARGE"
	LampHuge      LampType = "HUGE"
	LampDragonkin LampType = "DRAGONKIN"
)

// ParseLampType parses a lamp type, defaulting to XP when empty. The
// SMALL_XP style names are accepted too.
func ParseLampType(s string) (LampType, error) {
	if s == "" {
		return LampXP, nil
	}
	switch t := LampType(strings.TrimSuffix(strings.ToUpper(s), "_XP")); t {
	case LampXP, LampSmall, LampMedium, LampLarge, LampHuge, LampDragonkin:
		return t, nil
	}
	return "", fmt.Errorf("unknown lamp type %q", s)
}

// Description returns the in-game name of the lamp
func (t LampType) Description() string {
	switch t {
	case LampSmall:
		return "Small XP Lamp"
	case LampMedium:
		return "Medium XP Lamp"
	case LampLarge:
		return "Large XP Lamp"
	case LampHuge:
		return "Huge XP Lamp"
	case LampDragonkin:
		return "Dragonkin Lamp"
	}
	return "XP Lamp"
}

// Dynamic reports whether the XP depends on the player's level
func (t LampType) Dynamic() bool {
	return t != LampXP
}

// tierFactor scales the small lamp table for larger lamps. The factors
// reproduce the in-game medium (5.185k at 70), large (11.786k at 73) and
// huge (47.38k at 89) values once floored.
func (t LampType) tierFactor() float64 {
	switch t {
	case LampMedium:
		return 1.7577
	case LampLarge:
		return 3.5078
	case LampHuge:
		return 7.2893
	}
	return 1
}

// SkillSet is a set of skills ordered by skill id
type SkillSet []Skill

// NewSkillSet builds a deduplicated set ordered by skill id
func NewSkillSet(skills ...Skill) SkillSet {
	seen := make(map[Skill]bool, len(skills))
	set := make(SkillSet, 0, len(skills))
	for _, s := range skills {
		if seen[s] {
			continue
		}
		seen[s] = true
		set = append(set, s)
	}
	sort.Slice(set, func(i, j int) bool { return set[i].ID() < set[j].ID() })
	return set
}

// Contains reports whether s is in the set
func (set SkillSet) Contains(s Skill) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same skills
func (set SkillSet) Equal(other SkillSet) bool {
	return set.Key() == other.Key()
}

// Key returns a stable identifier for the set
func (set SkillSet) Key() string {
	ids := make([]string, len(set))
	for i, s := range set {
		ids[i] = strconv.Itoa(s.ID())
	}
	return strings.Join(ids, ",")
}

// Less orders sets by their skill ids
func (set SkillSet) Less(other SkillSet) bool {
	for i := 0; i < len(set) && i < len(other); i++ {
		if set[i].ID() != other[i].ID() {
			return set[i].ID() < other[i].ID()
		}
	}
	return len(set) < len(other)
}

func (set SkillSet) String() string {
	names := make([]string, len(set))
	for i, s := range set {
		names[i] = s.Name()
	}
	return strings.Join(names, ", ")
}

// ContainsSet reports whether sets holds a set equal to set
func ContainsSet(sets []SkillSet, set SkillSet) bool {
	for _, s := range sets {
		if s.Equal(set) {
			return true
		}
	}
	return false
}

// LampRequirement is one eligible skill set and the level each skill needs
type LampRequirement struct {
	Skills SkillSet
	Level  int
}

// AnySkill returns one single skill requirement per skill at level
func AnySkill(level int) []LampRequirement {
	reqs := make([]LampRequirement, 0, len(AllSkills()))
	for _, s := range AllSkills() {
		reqs = append(reqs, LampRequirement{Skills: NewSkillSet(s), Level: level})
	}
	return reqs
}

// EverySkill returns a single requirement holding every skill as one set
func EverySkill(level int) LampRequirement {
	return LampRequirement{Skills: NewSkillSet(AllSkills()...), Level: level}
}

// LampReward is an XP lamp granted by a quest. A lamp without requirements
// can be used on any skill.
type LampReward struct {
	Type         LampType
	XP           float64
	Requirements []LampRequirement
	// A set chosen before for this lamp cannot be chosen again
	Exclusive bool
	// Multi skill sets are split so that each skill is its own choice
	SingleChoice bool
	Multiplier   float64
}

// NewLampReward builds a lamp with requirements ordered by skill id
func NewLampReward(typ LampType, xp float64, requirements []LampRequirement) *LampReward {
	reqs := make([]LampRequirement, len(requirements))
	copy(reqs, requirements)
	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].Skills.Less(reqs[j].Skills) })
	return &LampReward{
		Type:         typ,
		XP:           xp,
		Requirements: reqs,
		Multiplier:   1,
	}
}

// Description returns the lamp's display name
func (l *LampReward) Description() string {
	return l.Type.Description()
}

const inventionGateLevel = 80

// skillUnlocked reports whether s may receive lamp XP at level threshold.
// Invention is only trainable once crafting, divination and smithing reach 80.
func skillUnlocked(p Snapshot, s Skill, threshold int) bool {
	if p.Level(s) < threshold {
		return false
	}
	if s == Invention {
		return p.Level(Crafting) >= inventionGateLevel &&
			p.Level(Divination) >= inventionGateLevel &&
			p.Level(Smithing) >= inventionGateLevel
	}
	return true
}

func (r LampRequirement) met(p Snapshot) bool {
	for _, s := range r.Skills {
		if !skillUnlocked(p, s, r.Level) {
			return false
		}
	}
	return len(r.Skills) > 0
}

func (l *LampReward) requirements() []LampRequirement {
	if len(l.Requirements) == 0 {
		return AnySkill(1)
	}
	return l.Requirements
}

// MeetsRequirements reports whether any skill set is currently eligible
func (l *LampReward) MeetsRequirements(p Snapshot) bool {
	if len(l.Requirements) == 0 {
		return true
	}
	for _, r := range l.Requirements {
		if l.SingleChoice {
			for _, s := range r.Skills {
				if skillUnlocked(p, s, r.Level) {
					return true
				}
			}
			continue
		}
		if r.met(p) {
			return true
		}
	}
	return false
}

// Choices returns the eligible skill sets ordered by skill id. Single choice
// lamps offer each skill of each set on its own. Exclusive lamps drop sets
// found in previous.
func (l *LampReward) Choices(p Snapshot, previous []SkillSet) []SkillSet {
	var candidates []LampRequirement
	for _, r := range l.requirements() {
		if !l.SingleChoice {
			candidates = append(candidates, r)
			continue
		}
		for _, s := range r.Skills {
			candidates = append(candidates, LampRequirement{Skills: NewSkillSet(s), Level: r.Level})
		}
	}

	var choices []SkillSet
	for _, r := range candidates {
		if !r.met(p) || ContainsSet(choices, r.Skills) {
			continue
		}
		if l.Exclusive && ContainsSet(previous, r.Skills) {
			continue
		}
		choices = append(choices, r.Skills)
	}
	sort.SliceStable(choices, func(i, j int) bool { return choices[i].Less(choices[j]) })
	return choices
}

// XPForSkills returns the XP granted to each skill in skills
func (l *LampReward) XPForSkills(p Snapshot, skills SkillSet) (float64, error) {
	multiplier := l.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}

	if !l.Type.Dynamic() {
		return l.XP * multiplier, nil
	}
	if len(skills) != 1 {
		return 0, fmt.Errorf("%w: %s given %d skills", ErrDynamicLampReward, l.Type, len(skills))
	}

	level := p.Level(skills[0])
	if level > MaxLampLevel {
		level = MaxLampLevel
	}
	level--

	var xp float64
	if l.Type == LampDragonkin {
		l3 := float64(level * level * level)
		l2 := float64(level * level)
		xp = math.Floor((l3 - 2*l2 + 100*float64(level)) / 20)
	} else {
		xp = math.Floor(smallLampXP[level] * l.Type.tierFactor())
	}
	return xp * multiplier, nil
}

// smallLampXP is indexed by level - 1 for levels 1 to 98
var smallLampXP = []float64{
	62, 69, 77, 85, 94, 104, 115, 127, 139, 154, 170, 188, 206, 229, 252, 262, 274, 285,
	298, 310, 325, 337, 352, 367, 384, 399, 405, 414, 453, 473, 494, 515, 538, 562, 587,
	612, 638, 667, 696, 726, 758, 784, 938, 981, 1020, 1070, 1120, 1170, 1220, 1280, 1330,
	1390, 1450, 1520, 1580, 1670, 1730, 1790, 1860, 1940, 2020, 2100, 2180, 2280, 2390,
	2490, 2600, 2710, 2830, 2950, 3080, 3200, 3360, 3500, 3660, 3820, 3980, 4150, 4320,
	4500, 4680, 4880, 5080, 5300, 5510, 5760, 5990, 6240, 6500, 6760, 7040, 7330, 7620,
	7930, 8250, 8580, 8932, 9294,
}
