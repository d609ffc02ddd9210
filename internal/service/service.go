// Package service builds players from planning requests and plans their paths.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/napolitain/ironquest/internal/logger"
	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/player"
	"github.com/napolitain/ironquest/internal/profile"
	"github.com/napolitain/ironquest/internal/solver/planner"
	"github.com/napolitain/ironquest/internal/store"
)

// Request holds the parameters of a planning request
type Request struct {
	Name        string
	Access      models.AccessFilter
	Type        models.TypeFilter
	Ironman     bool
	Recommended bool
	LampSkills  []models.Skill
	Priorities  map[int]models.QuestPriority
	Algorithm   planner.Algorithm
}

// DefaultRequest returns a request for every quest with the default algorithm
func DefaultRequest() Request {
	return Request{
		Access:    models.AccessFilterAll,
		Type:      models.TypeFilterAll,
		Algorithm: planner.AlgorithmDefault,
	}
}

// PlanSaver records planned paths
type PlanSaver interface {
	SavePlan(ctx context.Context, rec store.PlanRecord) (store.PlanRecord, error)
}

// Result is a planned path with the player it was planned for
type Result struct {
	Path   *planner.Path
	Player *player.Player
	// PlanID is set when the plan was saved
	PlanID uuid.UUID
}

// Service plans quest paths over a fixed catalog
type Service struct {
	catalog  *models.Catalog
	profiles profile.Source
	plans    PlanSaver
}

// New creates a service. profiles and plans may be nil.
func New(catalog *models.Catalog, profiles profile.Source, plans PlanSaver) *Service {
	return &Service{catalog: catalog, profiles: profiles, plans: plans}
}

// Catalog returns the quest catalog
func (s *Service) Catalog() *models.Catalog {
	return s.catalog
}

// Player builds the player described by req. A profile that cannot be loaded
// is logged and the player starts from initial XP.
func (s *Service) Player(ctx context.Context, req Request) (*player.Player, error) {
	quests := s.catalog.Filter(req.Access, req.Type)
	p := player.New(quests, player.Options{
		Name:        req.Name,
		Ironman:     req.Ironman,
		Recommended: req.Recommended,
		LampSkills:  req.LampSkills,
	})

	for id, priority := range req.Priorities {
		if err := p.SetQuestPriority(id, priority); err != nil {
			logger.Warn("Ignoring priority for unavailable quest", "quest", id, "error", err)
		}
	}

	if req.Name != "" && s.profiles != nil {
		prof, err := s.profiles.Profile(ctx, req.Name)
		if err != nil {
			logger.Warn("Failed to load profile", "player", req.Name, "error", err)
			return p, nil
		}
		applied, err := profile.Apply(p, prof, s.catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to apply profile for %s: %w", req.Name, err)
		}
		logger.Debug("Applied profile", "player", req.Name, "quests", applied)
	}

	return p, nil
}

// Path plans a path for req and saves a summary when a plan saver is set
func (s *Service) Path(ctx context.Context, req Request) (*Result, error) {
	p, err := s.Player(ctx, req)
	if err != nil {
		return nil, err
	}

	strategy, err := planner.NewStrategy(req.Algorithm)
	if err != nil {
		return nil, err
	}
	path, err := planner.NewPathFinder(strategy).Find(p)
	if err != nil {
		return nil, err
	}

	result := &Result{Path: path, Player: p}
	if s.plans != nil {
		rec, err := s.plans.SavePlan(ctx, planRecord(req, path))
		if err != nil {
			logger.Warn("Failed to save plan", "player", req.Name, "error", err)
		} else {
			result.PlanID = rec.ID
		}
	}

	logger.Info("Planned quest path", "player", req.Name, "algorithm", path.Algorithm,
		"actions", len(path.Actions), "percent_complete", path.Stats.PercentComplete)
	return result, nil
}

// Compare plans req with every algorithm
func (s *Service) Compare(ctx context.Context, req Request) ([]planner.StrategyResult, error) {
	p, err := s.Player(ctx, req)
	if err != nil {
		return nil, err
	}
	return planner.FindAllStrategies(p)
}

// Quests returns the incomplete quests available to req's player
func (s *Service) Quests(ctx context.Context, req Request) ([]*models.Quest, error) {
	p, err := s.Player(ctx, req)
	if err != nil {
		return nil, err
	}

	var quests []*models.Quest
	for _, e := range p.IncompleteEntries() {
		if e.Quest.IsPlaceholder() {
			continue
		}
		quests = append(quests, e.Quest)
	}
	return quests, nil
}

func planRecord(req Request, path *planner.Path) store.PlanRecord {
	messages := make([]string, len(path.Actions))
	for i, a := range path.Actions {
		messages[i] = a.Message()
	}
	return store.PlanRecord{
		Player:          req.Name,
		Algorithm:       string(path.Algorithm),
		PercentComplete: path.Stats.PercentComplete,
		Actions:         messages,
	}
}
