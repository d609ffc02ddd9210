package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/ironquest/internal/models"
	"github.com/napolitain/ironquest/internal/service"
	"github.com/napolitain/ironquest/internal/solver/planner"
	"github.com/napolitain/ironquest/internal/store"
)

// planView selects which actions of a path are printed
type planView struct {
	futureOnly bool
	limit      int
}

func (v planView) actions(path *planner.Path) []planner.Action {
	actions := path.Actions
	if v.futureOnly {
		actions = path.FutureActions()
	}
	if v.limit > 0 && len(actions) > v.limit {
		actions = actions[:v.limit]
	}
	return actions
}

func actionLabel(a planner.Action) string {
	label := "📜 Quest"
	switch a.Type() {
	case planner.ActionTrain:
		label = "⚔️ Train"
	case planner.ActionLamp:
		label = "💡 Lamp"
	}
	if a.Future() {
		label += " (future)"
	}
	return label
}

func printPath(w io.Writer, path *planner.Path, view planView) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Action", "Step", "Combat", "Total", "QP"}),
	)

	for i, a := range view.actions(path) {
		row := []string{fmt.Sprintf("%d", i+1), actionLabel(a), a.Message(), "", "", ""}
		if p := a.Player(); p != nil {
			row[3] = fmt.Sprintf("%d", int(p.CombatLevel()))
			row[4] = fmt.Sprintf("%d", p.TotalLevel())
			row[5] = fmt.Sprintf("%d", p.QuestPoints())
		}
		_ = table.Append(row)
	}

	_ = table.Render()
}

func printSummary(w io.Writer, result *service.Result) {
	successColor := color.New(color.FgGreen, color.Bold)
	warnColor := color.New(color.FgYellow)

	path := result.Path
	var quests, train, lamps int
	for _, a := range path.Actions {
		switch a.Type() {
		case planner.ActionQuest:
			quests++
		case planner.ActionTrain:
			train++
		case planner.ActionLamp:
			lamps++
		}
	}

	successColor.Fprintf(w, "\n✓ %s: %d quests, %d training steps and %d lamps\n",
		path.Algorithm, quests, train, lamps)
	if future := len(path.FutureActions()); future > 0 {
		warnColor.Fprintf(w, "⚠ %d lamps are still waiting on their requirements\n", future)
	}
	if result.PlanID != uuid.Nil {
		fmt.Fprintf(w, "Saved plan %s\n", result.PlanID)
	}
}

func printComparison(w io.Writer, results []planner.StrategyResult) {
	fmt.Fprintln(w, "📊 Strategy Comparison:")

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Algorithm", "Actions", "Train", "Lamps", "Future", "First quests"}),
	)
	for _, r := range results {
		var train, lamps int
		var first []string
		for _, a := range r.Path.Actions {
			switch a.Type() {
			case planner.ActionTrain:
				train++
			case planner.ActionLamp:
				lamps++
			case planner.ActionQuest:
				if len(first) < 3 {
					first = append(first, a.Message())
				}
			}
		}
		_ = table.Append([]string{
			string(r.Algorithm),
			fmt.Sprintf("%d", len(r.Path.Actions)),
			fmt.Sprintf("%d", train),
			fmt.Sprintf("%d", lamps),
			fmt.Sprintf("%d", len(r.Path.FutureActions())),
			strings.Join(first, ", "),
		})
	}
	_ = table.Render()
}

func printQuests(w io.Writer, quests []*models.Quest) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"ID", "Quest", "Access", "Type", "QP"}),
	)
	for _, q := range quests {
		_ = table.Append([]string{
			fmt.Sprintf("%d", q.ID),
			q.Name(),
			string(q.Access),
			string(q.Type),
			fmt.Sprintf("%d", q.Rewards.QuestPoints),
		})
	}
	_ = table.Render()
}

func printHistory(w io.Writer, plans []store.PlanRecord) {
	if len(plans) == 0 {
		fmt.Fprintln(w, "No saved plans.")
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Plan", "Created", "Algorithm", "Complete", "Actions", "Next"}),
	)
	for _, p := range plans {
		next := ""
		if len(p.Actions) > 0 {
			next = p.Actions[0]
		}
		_ = table.Append([]string{
			p.ID.String(),
			p.CreatedAt.Format("2006-01-02 15:04"),
			p.Algorithm,
			fmt.Sprintf("%d%%", p.PercentComplete),
			fmt.Sprintf("%d", len(p.Actions)),
			next,
		})
	}
	_ = table.Render()
}
