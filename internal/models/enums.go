package models

import (
	"fmt"
	"strings"
)

// QuestAccess is whether a quest is free to play or members only
type QuestAccess string

const (
	AccessFree    QuestAccess = "FREE"
	AccessMembers QuestAccess = "MEMBERS"
)

// ParseQuestAccess parses a quest access value
func ParseQuestAccess(s string) (QuestAccess, error) {
	switch a := QuestAccess(strings.ToUpper(s)); a {
	case AccessFree, AccessMembers:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuestAccess, s)
}

// QuestType is the kind of quest
type QuestType string

const (
	TypeQuest     QuestType = "QUEST"
	TypeMiniquest QuestType = "MINIQUEST"
	TypeSaga      QuestType = "SAGA"
)

// ParseQuestType parses a quest type value
func ParseQuestType(s string) (QuestType, error) {
	switch t := QuestType(strings.ToUpper(s)); t {
	case TypeQuest, TypeMiniquest, TypeSaga:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuestType, s)
}

// QuestStatus is the progress of a quest for a player.
// Statuses only move forward: NOT_STARTED, IN_PROGRESS, COMPLETED.
type QuestStatus int

const (
	StatusNotStarted QuestStatus = iota
	StatusInProgress
	StatusCompleted
)

var questStatusNames = []string{"NOT_STARTED", "IN_PROGRESS", "COMPLETED"}

func (s QuestStatus) String() string {
	if s < 0 || int(s) >= len(questStatusNames) {
		return fmt.Sprintf("QuestStatus(%d)", int(s))
	}
	return questStatusNames[s]
}

// ParseQuestStatus parses a status name
func ParseQuestStatus(s string) (QuestStatus, error) {
	for i, name := range questStatusNames {
		if strings.EqualFold(name, s) {
			return QuestStatus(i), nil
		}
	}
	return StatusNotStarted, fmt.Errorf("unknown quest status %q", s)
}

// QuestPriority orders quests the player wants done sooner.
// Lower ordinal is more urgent.
type QuestPriority int

const (
	PriorityMaximum QuestPriority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
	PriorityMinimum
)

var questPriorityNames = []string{"MAXIMUM", "HIGH", "NORMAL", "LOW", "MINIMUM"}

// AllQuestPriorities returns all priorities from most to least urgent
func AllQuestPriorities() []QuestPriority {
	return []QuestPriority{PriorityMaximum, PriorityHigh, PriorityNormal, PriorityLow, PriorityMinimum}
}

func (p QuestPriority) String() string {
	if p < 0 || int(p) >= len(questPriorityNames) {
		return fmt.Sprintf("QuestPriority(%d)", int(p))
	}
	return questPriorityNames[p]
}

// Weight returns 5 for MAXIMUM down to 1 for MINIMUM
func (p QuestPriority) Weight() int {
	return len(questPriorityNames) - int(p)
}

// ParseQuestPriority parses a priority name
func ParseQuestPriority(s string) (QuestPriority, error) {
	for i, name := range questPriorityNames {
		if strings.EqualFold(name, s) {
			return QuestPriority(i), nil
		}
	}
	return PriorityNormal, fmt.Errorf("unknown quest priority %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (p QuestPriority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *QuestPriority) UnmarshalText(b []byte) error {
	v, err := ParseQuestPriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// AccessFilter selects quests by access
type AccessFilter string

const (
	AccessFilterAll     AccessFilter = "ALL"
	AccessFilterFree    AccessFilter = "FREE"
	AccessFilterMembers AccessFilter = "MEMBERS"
)

// ParseAccessFilter parses an access filter, defaulting to ALL when empty
func ParseAccessFilter(s string) (AccessFilter, error) {
	if s == "" {
		return AccessFilterAll, nil
	}
	switch f := AccessFilter(strings.ToUpper(s)); f {
	case AccessFilterAll, AccessFilterFree, AccessFilterMembers:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuestAccess, s)
}

// Matches reports whether a quest with access a passes the filter
func (f AccessFilter) Matches(a QuestAccess) bool {
	switch f {
	case AccessFilterFree:
		return a == AccessFree
	case AccessFilterMembers:
		return a == AccessMembers
	}
	return true
}

// TypeFilter selects quests by type
type TypeFilter string

const (
	TypeFilterAll        TypeFilter = "ALL"
	TypeFilterQuests     TypeFilter = "QUESTS"
	TypeFilterSagas      TypeFilter = "SAGAS"
	TypeFilterMiniquests TypeFilter = "MINIQUESTS"
)

// ParseTypeFilter parses a type filter, defaulting to ALL when empty
func ParseTypeFilter(s string) (TypeFilter, error) {
	if s == "" {
		return TypeFilterAll, nil
	}
	switch f := TypeFilter(strings.ToUpper(s)); f {
	case TypeFilterAll, TypeFilterQuests, TypeFilterSagas, TypeFilterMiniquests:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuestType, s)
}

// Matches reports whether a quest of type t passes the filter
func (f TypeFilter) Matches(t QuestType) bool {
	switch f {
	case TypeFilterQuests:
		return t == TypeQuest
	case TypeFilterSagas:
		return t == TypeSaga
	case TypeFilterMiniquests:
		return t == TypeMiniquest
	}
	return true
}
