package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/ironquest/internal/app"
	"github.com/napolitain/ironquest/internal/converter"
	"github.com/napolitain/ironquest/internal/service"
	"github.com/napolitain/ironquest/internal/tui"
)

var (
	configFile string
	dataDir    string
	noProfile  bool
	quiet      bool
	params     converter.ParametersDTO

	jsonOutput bool
	futureOnly bool
	limit      int
	compare    bool

	historyLimit int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ironquest",
		Short: "RuneScape quest path planner",
		Long: `Plans an order to complete every quest for a player, training skills
and choosing lamp rewards along the way.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	flags.StringVarP(&dataDir, "data", "d", "", "Path to data directory (overrides config)")
	flags.BoolVar(&noProfile, "no-profile", false, "Do not fetch the player profile")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	flags.StringVarP(&params.Name, "name", "n", "", "Player name")
	flags.StringVar(&params.Access, "access", "", "Access filter: ALL, FREE or MEMBERS")
	flags.StringVar(&params.Type, "type", "", "Type filter: ALL, QUESTS, SAGAS or MINIQUESTS")
	flags.BoolVar(&params.Ironman, "ironman", false, "Respect ironman quest requirements")
	flags.BoolVar(&params.Recommended, "recommended", false, "Respect recommended quest requirements")
	flags.StringSliceVar(&params.LampSkills, "lamp-skills", nil, "Preferred lamp skills, most preferred first")
	flags.StringSliceVarP(&params.Priorities, "priority", "p", nil, "Quest priorities as ID:LEVEL")
	flags.StringVarP(&params.Algorithm, "algorithm", "a", "", "Algorithm: DEFAULT or SMART_PRIORITIES")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a quest path",
		RunE:  runPlan,
	}
	planCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the path as JSON")
	planCmd.Flags().BoolVar(&futureOnly, "future", false, "Only show actions waiting on lamp requirements")
	planCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Show at most this many actions")
	planCmd.Flags().BoolVar(&compare, "compare", false, "Compare every algorithm")

	questsCmd := &cobra.Command{
		Use:   "quests",
		Short: "List incomplete quests",
		RunE:  runQuests,
	}
	questsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print quests as JSON")

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse a planned path interactively",
		RunE:  runBrowse,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List saved plans for a player",
		RunE:  runHistory,
	}
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "Show at most this many plans")

	rootCmd.AddCommand(planCmd, questsCmd, browseCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// setup loads config, catalog and store, and parses the request flags
func setup() (*app.App, service.Request, error) {
	cfg, err := app.LoadConfig(configFile)
	if err != nil {
		return nil, service.Request{}, err
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if noProfile {
		cfg.Profile.Enabled = false
	}

	req, err := converter.ParametersDTOToRequest(params)
	if err != nil {
		return nil, req, err
	}

	a, err := app.New(cfg)
	if err != nil {
		return nil, req, err
	}
	return a, req, nil
}

func printHeader() {
	if quiet || jsonOutput {
		return
	}
	titleColor := color.New(color.FgCyan, color.Bold)
	titleColor.Println("\n╭───────────────────────────╮")
	titleColor.Println("│  IronQuest                │")
	titleColor.Println("│  Quest Path Planner       │")
	titleColor.Println("╰───────────────────────────╯")
	fmt.Println()
}

func runPlan(cmd *cobra.Command, args []string) error {
	printHeader()

	a, req, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if compare {
		results, err := a.Service.Compare(ctx, req)
		if err != nil {
			return err
		}
		printComparison(os.Stdout, results)
		return nil
	}

	result, err := a.Service.Path(ctx, req)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(converter.ResultToPathDTO(result))
	}

	if !quiet {
		infoColor := color.New(color.FgYellow)
		infoColor.Printf("📦 Loaded %d quests, %d%% already complete\n\n",
			a.Catalog.Len(), result.Path.Stats.PercentComplete)
	}
	printPath(os.Stdout, result.Path, planView{futureOnly: futureOnly, limit: limit})

	if !quiet {
		printSummary(os.Stdout, result)
	}
	return nil
}

func runQuests(cmd *cobra.Command, args []string) error {
	printHeader()

	a, req, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	quests, err := a.Service.Quests(cmd.Context(), req)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(converter.ModelToQuestDTOs(quests))
	}
	printQuests(os.Stdout, quests)
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, req, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Service.Path(cmd.Context(), req)
	if err != nil {
		return err
	}
	return tui.Run(result.Path, req.Name)
}

func runHistory(cmd *cobra.Command, args []string) error {
	printHeader()

	a, req, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Store == nil {
		return fmt.Errorf("plan history needs a store: set store.driver in the config or IRONQUEST_STORE_DRIVER")
	}
	plans, err := a.Store.ListPlans(cmd.Context(), req.Name, historyLimit)
	if err != nil {
		return err
	}
	printHistory(os.Stdout, plans)
	return nil
}
