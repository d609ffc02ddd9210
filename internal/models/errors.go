package models

import "errors"

var (
	// ErrBestQuestNotFound is returned when incomplete quests remain but none is ready
	ErrBestQuestNotFound = errors.New("best quest not found")

	// ErrLampSkillsNotFound is returned when a lamp has no eligible skill choice
	ErrLampSkillsNotFound = errors.New("no lamp skills found")

	// ErrQuestAlreadyCompleted is returned when completing a completed quest
	ErrQuestAlreadyCompleted = errors.New("quest already completed")

	// ErrMissingQuestRequirements is returned when completing a quest that is not ready
	ErrMissingQuestRequirements = errors.New("missing quest requirements")

	// ErrDynamicLampReward is returned when a dynamic lamp is asked for more than one skill
	ErrDynamicLampReward = errors.New("dynamic lamp rewards require exactly one skill")

	ErrUnknownQuestType   = errors.New("unknown quest type")
	ErrUnknownQuestAccess = errors.New("unknown quest access")
	ErrUnknownSkill       = errors.New("unknown skill")
	ErrUnknownAlgorithm   = errors.New("unknown algorithm")
	ErrQuestNotFound      = errors.New("quest not found")
)
