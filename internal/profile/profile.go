package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"golang.org/x/sync/errgroup"

	"github.com/napolitain/ironquest/internal/logger"
	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/player"
)

// ErrUnexpectedStatus is returned when a profile endpoint answers with a non 200 status
var ErrUnexpectedStatus = errors.New("unexpected response status")

// Profile is the remote state of a player
type Profile struct {
	Name      string                   `json:"name"`
	XP        map[models.Skill]float64 `json:"xp"`
	Quests    []JournalQuest           `json:"quests"`
	FetchedAt time.Time                `json:"fetchedAt"`
}

// Source loads player profiles
type Source interface {
	Profile(ctx context.Context, name string) (*Profile, error)
}

// Fetcher loads a profile from the hiscores and the quest journal
type Fetcher struct {
	Hiscores *HiscoreClient
	Journal  *JournalClient
	Timeout  time.Duration
}

// NewFetcher creates a fetcher for the two endpoints
func NewFetcher(hiscores *HiscoreClient, journal *JournalClient, timeout time.Duration) *Fetcher {
	return &Fetcher{Hiscores: hiscores, Journal: journal, Timeout: timeout}
}

// Profile fetches both endpoints concurrently. Either failing fails the fetch.
func (f *Fetcher) Profile(ctx context.Context, name string) (*Profile, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	prof := &Profile{Name: name}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		xps, err := f.Hiscores.Fetch(gctx, name)
		if err != nil {
			return err
		}
		prof.XP = xps
		return nil
	})
	g.Go(func() error {
		quests, err := f.Journal.Fetch(gctx, name)
		if err != nil {
			return err
		}
		prof.Quests = quests
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prof.FetchedAt = time.Now()
	logger.Debug("Loaded profile", "player", name, "skills", len(prof.XP), "quests", len(prof.Quests))
	return prof, nil
}

// Apply copies a profile onto a player. Journal titles are matched against
// the full catalog so quests outside the player's filter are skipped quietly.
// It returns the number of quests whose status was applied.
func Apply(p *player.Player, prof *Profile, catalog *models.Catalog) (int, error) {
	for skill, xp := range prof.XP {
		p.SetXP(skill, xp)
	}

	applied := 0
	for _, jq := range prof.Quests {
		quest, ok := MatchTitle(catalog.Quests(), jq.Title)
		if !ok {
			logger.Warn("Unknown journal quest", "player", prof.Name, "title", jq.Title)
			continue
		}
		if _, err := p.EntryByID(quest.ID); err != nil {
			continue
		}
		status, err := jq.Status.QuestStatus()
		if err != nil {
			return applied, fmt.Errorf("quest %s: %w", quest, err)
		}
		if err := p.SetQuestStatus(quest.ID, status); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// MatchTitle finds the quest for a journal title. Exact case-insensitive
// matches on title or display name win, otherwise the closest title within a
// length-scaled edit distance is used.
func MatchTitle(quests []*models.Quest, title string) (*models.Quest, bool) {
	for _, q := range quests {
		if strings.EqualFold(q.Title, title) || (q.DisplayName != "" && strings.EqualFold(q.DisplayName, title)) {
			return q, true
		}
	}

	needle := strings.ToLower(strings.TrimSpace(title))
	if len(needle) < 3 {
		return nil, false
	}
	limit := levenshteinLimit(len(needle))

	var best *models.Quest
	bestDist := limit + 1
	for _, q := range quests {
		for _, candidate := range []string{q.Title, q.DisplayName} {
			if candidate == "" {
				continue
			}
			dist := levenshtein.ComputeDistance(needle, strings.ToLower(candidate))
			if dist < bestDist {
				best, bestDist = q, dist
			}
		}
	}
	return best, best != nil
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
