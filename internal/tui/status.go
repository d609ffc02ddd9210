package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/player"
)

// levelColumns is how many skills are shown per detail row
const levelColumns = 4

// renderStatusBar produces a full-width inverted status line showing the
// player, the algorithm and the cursor position.
func (m Model) renderStatusBar() string {
	name := m.path.Algorithm
	left := fmt.Sprintf(" %s | %s | %d%% complete", m.title, name, m.path.Stats.PercentComplete)

	right := "0/0 "
	if n := len(m.path.Actions); n > 0 {
		right = fmt.Sprintf("%d/%d ", m.cursor+1, n)
	}
	if future := len(m.path.FutureActions()); future > 0 {
		right = fmt.Sprintf("future: %d | %s", future, right)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// renderPlayer lists the summary and skill levels of a snapshot
func renderPlayer(p *player.Player) []string {
	if p == nil {
		return []string{"No player snapshot."}
	}

	lines := []string{
		styleDetailTitle.Render(fmt.Sprintf("Combat %d | Total %d | Quest points %d",
			int(p.CombatLevel()), p.TotalLevel(), p.QuestPoints())),
	}

	skills := models.AllSkills()
	for i := 0; i < len(skills); i += levelColumns {
		var cells []string
		for _, s := range skills[i:min(i+levelColumns, len(skills))] {
			cells = append(cells, fmt.Sprintf("%-14s %3d", s.Name(), p.Level(s)))
		}
		lines = append(lines, strings.Join(cells, "  "))
	}
	return lines
}

// detailHeight is the number of rows the snapshot pane uses, border included
func detailHeight() int {
	skills := len(models.AllSkills())
	return 2 + (skills+levelColumns-1)/levelColumns
}
