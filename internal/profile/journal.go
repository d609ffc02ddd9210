package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/napolitain/ironquest/internal/logger"
	"github.com/napolitain/ironquest/internal/models"
)

// JournalStatus is a quest status as reported by the quest journal
type JournalStatus string

const (
	JournalCompleted  JournalStatus = "COMPLETED"
	JournalStarted    JournalStatus = "STARTED"
	JournalNotStarted JournalStatus = "NOT_STARTED"
)

// QuestStatus converts a journal status to a quest status
func (s JournalStatus) QuestStatus() (models.QuestStatus, error) {
	switch JournalStatus(strings.ToUpper(string(s))) {
	case JournalCompleted:
		return models.StatusCompleted, nil
	case JournalStarted:
		return models.StatusInProgress, nil
	case JournalNotStarted:
		return models.StatusNotStarted, nil
	}
	return models.StatusNotStarted, fmt.Errorf("unknown journal status %q", string(s))
}

// JournalQuest is one quest from the player's journal
type JournalQuest struct {
	Title       string        `json:"title"`
	Status      JournalStatus `json:"status"`
	Members     bool          `json:"members,omitempty"`
	QuestPoints int           `json:"questPoints,omitempty"`
}

type journalResponse struct {
	Quests []JournalQuest `json:"quests"`
}

// JournalClient reads quest statuses from the quest journal JSON API
type JournalClient struct {
	URL    string // template with %s for the player name
	Client *http.Client
}

// NewJournalClient creates a journal client for the URL template
func NewJournalClient(urlTemplate string, client *http.Client) *JournalClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &JournalClient{URL: urlTemplate, Client: client}
}

// Fetch returns the journal quests of a player
func (c *JournalClient) Fetch(ctx context.Context, name string) ([]JournalQuest, error) {
	logger.Debug("Loading quest journal", "player", name)

	body, err := get(ctx, c.Client, fmt.Sprintf(c.URL, url.QueryEscape(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to load quests for %s: %w", name, err)
	}
	defer body.Close()

	return ParseJournal(body)
}

// ParseJournal parses a quest journal document
func ParseJournal(r io.Reader) ([]JournalQuest, error) {
	var resp journalResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to parse quests: %w", err)
	}
	return resp.Quests, nil
}
