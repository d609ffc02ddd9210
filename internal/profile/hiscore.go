package profile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/napolitain/ironquest/internal/logger"
	"github.com/napolitain/ironquest/internal/models"
)

// HiscoreClient reads skill XP from the hiscores lite CSV.
// Row 0 is the overall total and row i holds "rank,level,xp" for skill id i.
type HiscoreClient struct {
	URL    string // template with %s for the player name
	Client *http.Client
}

// NewHiscoreClient creates a hiscore client for the URL template
func NewHiscoreClient(urlTemplate string, client *http.Client) *HiscoreClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HiscoreClient{URL: urlTemplate, Client: client}
}

// Fetch returns the XP of every ranked skill. Skills are clamped to at least
// their initial XP.
func (c *HiscoreClient) Fetch(ctx context.Context, name string) (map[models.Skill]float64, error) {
	logger.Debug("Loading hiscores", "player", name)

	body, err := get(ctx, c.Client, fmt.Sprintf(c.URL, url.QueryEscape(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to load hiscores for %s: %w", name, err)
	}
	defer body.Close()

	return ParseHiscores(body)
}

// ParseHiscores parses a hiscores lite CSV document
func ParseHiscores(r io.Reader) (map[models.Skill]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse hiscores: %w", err)
	}

	xps := make(map[models.Skill]float64)
	for id := 1; id < len(records); id++ {
		skill, ok := models.SkillByID(id)
		if !ok {
			// Rows after the skills are activities
			continue
		}
		record := records[id]
		if len(record) < 3 {
			return nil, fmt.Errorf("failed to parse hiscores: row %d has %d fields", id, len(record))
		}
		xp, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse hiscores: row %d: %w", id, err)
		}
		if xp < skill.InitialXP() {
			xp = skill.InitialXP()
		}
		xps[skill] = models.ClampXP(xp)
	}
	return xps, nil
}

func get(ctx context.Context, client *http.Client, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	return resp.Body, nil
}
