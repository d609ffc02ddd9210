package converter

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/service"
	"github.com/napolitain/ironquest/internal/solver/planner"
)

// ParametersDTO is the wire form of a planning request. Priorities are
// "ID:LEVEL" pairs such as "12:HIGH".
type ParametersDTO struct {
	Name        string   `json:"name,omitempty"`
	Access      string   `json:"accessFilter,omitempty"`
	Type        string   `json:"typeFilter,omitempty"`
	Ironman     bool     `json:"ironman,omitempty"`
	Recommended bool     `json:"recommended,omitempty"`
	LampSkills  []string `json:"lampSkills,omitempty"`
	Priorities  []string `json:"questPriorities,omitempty"`
	Algorithm   string   `json:"algorithm,omitempty"`
}

// QueryToParametersDTO reads parameters from URL query values. List values
// may be repeated or comma separated.
func QueryToParametersDTO(q url.Values) (ParametersDTO, error) {
	dto := ParametersDTO{
		Name:       q.Get("name"),
		Access:     q.Get("accessFilter"),
		Type:       q.Get("typeFilter"),
		LampSkills: splitList(q["lampSkills"]),
		Priorities: splitList(q["questPriorities"]),
		Algorithm:  q.Get("algorithm"),
	}

	var err error
	if dto.Ironman, err = parseBool(q.Get("ironman")); err != nil {
		return dto, fmt.Errorf("invalid ironman: %w", err)
	}
	if dto.Recommended, err = parseBool(q.Get("recommended")); err != nil {
		return dto, fmt.Errorf("invalid recommended: %w", err)
	}
	return dto, nil
}

// ParametersDTOToRequest validates parameters and converts them to a request
func ParametersDTOToRequest(dto ParametersDTO) (service.Request, error) {
	req := service.Request{
		Name:        strings.TrimSpace(dto.Name),
		Ironman:     dto.Ironman,
		Recommended: dto.Recommended,
	}

	var err error
	if req.Access, err = models.ParseAccessFilter(dto.Access); err != nil {
		return req, err
	}
	if req.Type, err = models.ParseTypeFilter(dto.Type); err != nil {
		return req, err
	}
	if req.Algorithm, err = planner.ParseAlgorithm(dto.Algorithm); err != nil {
		return req, err
	}

	for _, name := range dto.LampSkills {
		skill, err := models.ParseSkill(name)
		if err != nil {
			return req, err
		}
		req.LampSkills = append(req.LampSkills, skill)
	}

	if len(dto.Priorities) > 0 {
		req.Priorities = make(map[int]models.QuestPriority, len(dto.Priorities))
		for _, pair := range dto.Priorities {
			id, priority, err := ParsePriority(pair)
			if err != nil {
				return req, err
			}
			req.Priorities[id] = priority
		}
	}
	return req, nil
}

// RequestToParametersDTO is the inverse of ParametersDTOToRequest
func RequestToParametersDTO(req service.Request) ParametersDTO {
	dto := ParametersDTO{
		Name:        req.Name,
		Access:      string(req.Access),
		Type:        string(req.Type),
		Ironman:     req.Ironman,
		Recommended: req.Recommended,
		Algorithm:   string(req.Algorithm),
	}
	for _, s := range req.LampSkills {
		dto.LampSkills = append(dto.LampSkills, string(s))
	}

	ids := make([]int, 0, len(req.Priorities))
	for id := range req.Priorities {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		dto.Priorities = append(dto.Priorities, fmt.Sprintf("%d:%s", id, req.Priorities[id]))
	}
	return dto
}

// ParsePriority parses an "ID:LEVEL" priority pair
func ParsePriority(pair string) (int, models.QuestPriority, error) {
	idPart, levelPart, ok := strings.Cut(pair, ":")
	if !ok {
		return 0, models.PriorityNormal, fmt.Errorf("invalid priority %q: expected ID:LEVEL", pair)
	}
	id, err := strconv.Atoi(strings.TrimSpace(idPart))
	if err != nil {
		return 0, models.PriorityNormal, fmt.Errorf("invalid priority %q: %w", pair, err)
	}
	priority, err := models.ParseQuestPriority(strings.TrimSpace(levelPart))
	if err != nil {
		return 0, models.PriorityNormal, fmt.Errorf("invalid priority %q: %w", pair, err)
	}
	return id, priority, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
