package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Skill represents a trainable skill
type Skill string

const (
	Attack        Skill = "ATTACK"
	Defence       Skill = "DEFENCE"
	Strength      Skill = "STRENGTH"
	Constitution  Skill = "CONSTITUTION"
	Ranged        Skill = "RANGED"
	Prayer        Skill = "PRAYER"
	Magic         Skill = "MAGIC"
	Cooking       Skill = "COOKING"
	Woodcutting   Skill = "WOODCUTTING"
	Fletching     Skill = "FLETCHING"
	Fishing       Skill = "FISHING"
	Firemaking    Skill = "FIREMAKING"
	Crafting      Skill = "CRAFTING"
	Smithing      Skill = "SMITHING"
	Mining        Skill = "MINING"
	Herblore      Skill = "HERBLORE"
	Agility       Skill = "AGILITY"
	Thieving      Skill = "THIEVING"
	Slayer        Skill = "SLAYER"
	Farming       Skill = "FARMING"
	Runecrafting  Skill = "RUNECRAFTING"
	Hunter        Skill = "HUNTER"
	Construction  Skill = "CONSTRUCTION"
	Summoning     Skill = "SUMMONING"
	Dungeoneering Skill = "DUNGEONEERING"
	Divination    Skill = "DIVINATION"
	Invention     Skill = "INVENTION"
	Archaeology   Skill = "ARCHAEOLOGY"
)

// SkillType groups skills by how they are trained
type SkillType string

const (
	SkillCombat    SkillType = "COMBAT"
	SkillGathering SkillType = "GATHERING"
	SkillArtisan   SkillType = "ARTISAN"
	SkillSupport   SkillType = "SUPPORT"
	SkillElite     SkillType = "ELITE"
)

const (
	// MaxXP is the upper bound for XP in any skill
	MaxXP = 2147483648.0

	// MaxLampLevel caps the level used to look up dynamic lamp rewards
	MaxLampLevel = 98
)

type skillDef struct {
	id       int
	typ      SkillType
	members  bool
	maxLevel int
}

var skillDefs = map[Skill]skillDef{
	Attack:        {1, SkillCombat, false, 99},
	Defence:       {2, SkillCombat, false, 99},
	Strength:      {3, SkillCombat, false, 99},
	Constitution:  {4, SkillCombat, false, 99},
	Ranged:        {5, SkillCombat, false, 99},
	Prayer:        {6, SkillCombat, false, 99},
	Magic:         {7, SkillCombat, false, 99},
	Cooking:       {8, SkillArtisan, false, 99},
	Woodcutting:   {9, SkillGathering, false, 99},
	Fletching:     {10, SkillArtisan, true, 99},
	Fishing:       {11, SkillGathering, false, 99},
	Firemaking:    {12, SkillArtisan, false, 99},
	Crafting:      {13, SkillArtisan, false, 99},
	Smithing:      {14, SkillArtisan, false, 99},
	Mining:        {15, SkillGathering, false, 99},
	Herblore:      {16, SkillArtisan, true, 99},
	Agility:       {17, SkillSupport, true, 99},
	Thieving:      {18, SkillSupport, true, 99},
	Slayer:        {19, SkillSupport, true, 120},
	Farming:       {20, SkillGathering, true, 99},
	Runecrafting:  {21, SkillArtisan, false, 99},
	Hunter:        {22, SkillGathering, true, 99},
	Construction:  {23, SkillArtisan, true, 99},
	Summoning:     {24, SkillCombat, true, 99},
	Dungeoneering: {25, SkillSupport, false, 120},
	Divination:    {26, SkillGathering, true, 99},
	Invention:     {27, SkillElite, true, 120},
	Archaeology:   {28, SkillGathering, true, 120},
}

// AllSkills returns all skills ordered by id
func AllSkills() []Skill {
	return []Skill{
		Attack, Defence, Strength, Constitution, Ranged, Prayer, Magic,
		Cooking, Woodcutting, Fletching, Fishing, Firemaking, Crafting, Smithing,
		Mining, Herblore, Agility, Thieving, Slayer, Farming, Runecrafting,
		Hunter, Construction, Summoning, Dungeoneering, Divination, Invention, Archaeology,
	}
}

// ParseSkill parses a skill name case-insensitively
func ParseSkill(name string) (Skill, error) {
	s := Skill(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := skillDefs[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSkill, name)
	}
	return s, nil
}

// SkillByID returns the skill with the given hiscore id
func SkillByID(id int) (Skill, bool) {
	for s, def := range skillDefs {
		if def.id == id {
			return s, true
		}
	}
	return "", false
}

// Valid reports whether s is a known skill
func (s Skill) Valid() bool {
	_, ok := skillDefs[s]
	return ok
}

// ID returns the skill's hiscore id
func (s Skill) ID() int {
	return skillDefs[s].id
}

// Type returns the skill's type
func (s Skill) Type() SkillType {
	return skillDefs[s].typ
}

// Members reports whether the skill is members only
func (s Skill) Members() bool {
	return skillDefs[s].members
}

// MaxLevel returns the highest virtual level for the skill
func (s Skill) MaxLevel() int {
	if def, ok := skillDefs[s]; ok {
		return def.maxLevel
	}
	return 99
}

// Name returns the display name, e.g. "Attack"
func (s Skill) Name() string {
	if s == "" {
		return ""
	}
	lower := strings.ToLower(string(s))
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func (s Skill) table() []float64 {
	if s.Type() == SkillElite {
		return eliteXPTable
	}
	return xpTable
}

// LevelAt returns the level reached with the given XP
func (s Skill) LevelAt(xp float64) int {
	xp = ClampXP(xp)
	table := s.table()
	for level := s.MaxLevel(); level > 1; level-- {
		if table[level] <= xp {
			return level
		}
	}
	return 1
}

// XPAtLevel returns the XP needed to reach the given level
func (s Skill) XPAtLevel(level int) float64 {
	if level < 1 {
		level = 1
	}
	if maxLevel := s.MaxLevel(); level > maxLevel {
		level = maxLevel
	}
	return s.table()[level]
}

// InitialXP returns the XP a new player starts with
func (s Skill) InitialXP() float64 {
	if s == Constitution {
		return xpTable[10]
	}
	return 0
}

// InitialXPs returns the starting XP for every skill
func InitialXPs() map[Skill]float64 {
	xps := make(map[Skill]float64, len(skillDefs))
	for _, s := range AllSkills() {
		xps[s] = s.InitialXP()
	}
	return xps
}

// ClampXP bounds xp to [0, MaxXP]
func ClampXP(xp float64) float64 {
	if xp < 0 || math.IsNaN(xp) {
		return 0
	}
	if xp > MaxXP {
		return MaxXP
	}
	return xp
}

// CombatLevel computes the combat level from skill levels
func CombatLevel(levels map[Skill]int) float64 {
	attack := float64(levels[Attack])
	strength := float64(levels[Strength])
	magic := float64(levels[Magic])
	ranged := float64(levels[Ranged])
	defence := float64(levels[Defence])
	constitution := float64(levels[Constitution])
	prayer := float64(levels[Prayer] / 2)
	summoning := float64(levels[Summoning] / 2)

	offence := math.Max(attack+strength, math.Max(2*magic, 2*ranged))
	return ((13.0/10.0)*offence + defence + constitution + prayer + summoning) / 4
}

var xpSuffixes = []string{"k", "m", "b"}

// FormatXP renders xp with k/m/b suffixes and at most 4 decimals
func FormatXP(xp float64) string {
	suffix := ""
	for i := 0; i < len(xpSuffixes) && xp >= 1000; i++ {
		xp /= 1000
		suffix = xpSuffixes[i]
	}
	rounded := math.Round(xp*10000) / 10000
	return strconv.FormatFloat(rounded, 'f', -1, 64) + suffix
}

// Index 0 is unused so that xpTable[level] is the threshold for level.
var xpTable = []float64{
	0, 0, 83, 174, 276, 388, 512, 650, 801, 969, 1154, 1358, 1584, 1833, 2107, 2411, 2746,
	3115, 3523, 3973, 4470, 5018, 5624, 6291, 7028, 7842, 8740, 9730, 10824, 12031, 13363,
	14833, 16456, 18247, 20224, 22406, 24815, 27473, 30408, 33648, 37224, 41171, 45529,
	50339, 55649, 61512, 67983, 75127, 83014, 91721, 101333, 111945, 123660, 136594, 150872,
	166636, 184040, 203254, 224466, 247886, 273742, 302288, 333804, 368599, 407015, 449428,
	496254, 547953, 605032, 668051, 737627, 814445, 899257, 992895, 1096278, 1210421,
	1336443, 1475581, 1629200, 1798808, 1986068, 2192818, 2421087, 2673114, 2951373,
	3258594, 3597792, 3972294, 4385776, 4842295, 5346332, 5902831, 6517253, 7195629,
	7944614, 8771558, 9684577, 10692629, 11805606, 13034431, 14391160, 15889109, 17542976,
	19368992, 21385073, 23611006, 26068632, 28782069, 31777943, 35085654, 38737661,
	42769801, 47221641, 52136869, 57563718, 63555443, 70170840, 77474828, 85539082,
	94442737, 104273167,
}

var eliteXPTable = []float64{
	0, 0, 830, 1861, 2902, 3980, 5126, 6380, 7787, 9400, 11275, 13605, 16372, 19656, 23546,
	28134, 33520, 39809, 47109, 55535, 65209, 77190, 90811, 106221, 123573, 143025, 164742,
	188893, 215651, 245196, 277713, 316311, 358547, 404364, 454796, 509259, 568254, 632019,
	700797, 774834, 854383, 946227, 1044569, 1149696, 1261903, 1381488, 1508756, 1644015,
	1787581, 1939773, 2100917, 2283490, 2476369, 2679917, 2894505, 3120508, 3358307,
	3608290, 3870846, 4146374, 4435275, 4758122, 5096111, 5449685, 5819299, 6205407,
	6608473, 7028964, 7467354, 7924122, 8399751, 8925664, 9472665, 10041285, 10632061,
	11245538, 11882262, 12542789, 13227679, 13937496, 14672812, 15478994, 16313404,
	17176661, 18069395, 18992239, 19945833, 20930821, 21947856, 22997593, 24080695,
	25259906, 26475754, 27728955, 29020233, 30350318, 31719944, 33129852, 34580790,
	36073511, 37608773, 39270442, 40978509, 42733789, 44537107, 46389292, 48291180,
	50243611, 52247435, 54303504, 56412678, 58575824, 60793812, 63067521, 65397835,
	67785643, 70231841, 72737330, 75303019, 77929820, 80618654,
}
