package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/derekprior/clinch/internal/config"
	"github.com/derekprior/clinch/internal/excel"
	"github.com/derekprior/clinch/internal/league"
	"github.com/derekprior/clinch/internal/scenario"
	"github.com/derekprior/clinch/internal/standings"
)

const defaultConfigFile = "config.yaml"

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinch",
		Short: "Playoff qualification scenario analyzer for one decisive week",
	}

	var configFile string
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in current directory)")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	var (
		teamName   string
		targetName string
		cutoff     int
		outputFile string
	)
	analyzeCmd := &cobra.Command{
		Use:          "analyze",
		Short:        "Work out what a team needs this week to clinch its spot",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runAnalyze(configPath, teamName, targetName, cutoff, outputFile)
		},
	}
	analyzeCmd.Flags().StringVarP(&teamName, "team", "t", "", "Team to analyze (required)")
	analyzeCmd.Flags().StringVar(&targetName, "target", string(scenario.TargetPlayoffs), "Named cutoff: playoffs (top 6) or bye (top 2)")
	analyzeCmd.Flags().IntVar(&cutoff, "cutoff", 0, "Explicit rank cutoff, overriding --target")
	analyzeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Also write an Excel report to this path")
	analyzeCmd.MarkFlagRequired("team")

	standingsCmd := &cobra.Command{
		Use:          "standings",
		Short:        "Print the current standings from the config",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runStandings(configPath)
		},
	}

	rootCmd.AddCommand(initCmd, analyzeCmd, standingsCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# League snapshot going into the decisive week.
# =============================================
# Records and cumulative points for every team, plus the pending week's
# matchups. Points take at most two decimal places; they are compared
# exactly, never as floats.

teams:
  - {name: Hammers, wins: 10, points: 1464.26}
  - {name: Ramblers, wins: 7, points: 1452.24}
  - {name: Ospreys, wins: 7, points: 1412.26}
  - {name: Blue Sox, wins: 7, points: 1372.48}
  - {name: Comets, wins: 6, points: 1490.36}
  - {name: Miners, wins: 6, points: 1417.16}
  - {name: Pioneers, wins: 6, points: 1375.10}
  - {name: Wolves, wins: 6, points: 1305.64}
  - {name: Harbormen, wins: 5, points: 1384.24}
  - {name: Rovers, wins: 5, points: 1340.00}

# Every team appears in at most one matchup. A team listed in no matchup
# has a bye: its record is frozen, but its weekly score still counts
# toward its point total.
matchups:
  - {home: Blue Sox, away: Comets}
  - {home: Ospreys, away: Rovers}
  - {home: Wolves, away: Ramblers}
  - {home: Harbormen, away: Miners}
  - {home: Hammers, away: Pioneers}

# Plausible weekly score range. The bounds keep the analysis finite; they
# are not a prediction.
scores:
  min: 50.00
  max: 200.00

# Analysis budgets. max_queries caps satisfiability queries per run;
# max_sufficient caps how many guaranteed-qualification combinations are
# reported.
solver:
  max_queries: 25000
  max_sufficient: 8
`

func loadLeague(configPath string) (*config.Config, *league.League, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	lg, err := league.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, lg, nil
}

// resolveTeam matches a name against the roster, case-insensitively.
func resolveTeam(lg *league.League, name string) (league.Team, error) {
	if t, ok := lg.TeamByName(name); ok {
		return t, nil
	}
	for _, t := range lg.Teams() {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	names := make([]string, 0, lg.Size())
	for _, t := range lg.Teams() {
		names = append(names, t.Name)
	}
	return league.Team{}, fmt.Errorf("unknown team %q (teams: %s)", name, strings.Join(names, ", "))
}

// goal returns the phrase used to describe the target in report text.
func goal(target string, cutoff int) string {
	switch scenario.Target(target) {
	case scenario.TargetPlayoffs:
		return "make the playoffs"
	case scenario.TargetBye:
		return "get a first round bye"
	}
	return fmt.Sprintf("finish in the top %d", cutoff)
}

func runAnalyze(configPath, teamName, targetName string, cutoffFlag int, outputPath string) error {
	cfg, lg, err := loadLeague(configPath)
	if err != nil {
		return err
	}

	team, err := resolveTeam(lg, teamName)
	if err != nil {
		return err
	}

	cutoff := cutoffFlag
	if cutoff == 0 {
		c, ok := scenario.Target(targetName).Cutoff()
		if !ok {
			return fmt.Errorf("unknown target %q (use playoffs, bye, or --cutoff)", targetName)
		}
		cutoff = c
	}

	fmt.Printf("Analyzing scenarios for %s to %s...\n", team.Name, goal(targetName, cutoff))

	an, err := scenario.Analyze(lg, scenario.Request{Team: team.ID, Cutoff: cutoff}, scenario.Options{
		Bounds:        scenario.Bounds{Min: cfg.Scores.Min.Centi, Max: cfg.Scores.Max.Centi},
		MaxQueries:    cfg.Solver.MaxQueries,
		MaxSufficient: cfg.Solver.MaxSufficient,
	})
	if err != nil {
		return err
	}

	printAnalysis(lg, an, goal(targetName, cutoff))

	if outputPath != "" {
		f, err := excel.Generate(lg, an)
		if err != nil {
			return fmt.Errorf("generating Excel: %w", err)
		}
		if err := f.SaveAs(outputPath); err != nil {
			return fmt.Errorf("saving file: %w", err)
		}
		fmt.Printf("\n✓ Report saved to %s\n", outputPath)
	}
	return nil
}

func printAnalysis(lg *league.League, an *scenario.Analysis, goal string) {
	name := an.Team.Name

	for _, w := range an.Warnings {
		fmt.Printf("⚠ %s\n", w)
	}

	switch an.Verdict {
	case scenario.VerdictEliminated:
		fmt.Printf("Bummer, %s cannot %s under any circumstances.\n", name, goal)
		return
	case scenario.VerdictInconclusive:
		fmt.Printf("⚠ Ran out of solver budget before the elimination check finished; no verdict.\n")
		return
	}

	fmt.Printf("\nIf these outcomes occur, then %s is guaranteed to %s...\n", name, goal)
	if len(an.Sufficient) == 0 {
		fmt.Println("  None found.")
	}
	for i, comb := range an.Sufficient {
		if comb.Guaranteed() {
			fmt.Println("  This is already guaranteed!")
			break
		}
		fmt.Printf(" Case %d:\n", i+1)
		var lines []string
		for mi, o := range comb.Outcomes {
			m := lg.Matchups()[mi]
			switch o {
			case scenario.OutcomeHome:
				lines = append(lines, fmt.Sprintf("   %s wins vs %s", lg.Name(m.Home), lg.Name(m.Away)))
			case scenario.OutcomeAway:
				lines = append(lines, fmt.Sprintf("   %s wins vs %s", lg.Name(m.Away), lg.Name(m.Home)))
			}
		}
		suffix := ""
		if comb.TieDependent {
			suffix = "\n   (assuming any exact points tie breaks their way)"
		}
		fmt.Println(strings.Join(lines, " AND \n") + suffix)
	}

	fmt.Printf("\n%s needs these results to have a shot at %s...\n", name, gerund(goal))
	if len(an.Necessary) == 0 {
		fmt.Println("   None found.")
	}
	var needs []string
	for _, c := range an.Necessary {
		m := lg.Matchups()[c.Matchup]
		opp := m.Away
		if c.Winner == m.Away {
			opp = m.Home
		}
		line := fmt.Sprintf("   %s must win vs %s", lg.Name(c.Winner), lg.Name(opp))
		if c.MarginCenti > 0 {
			line += fmt.Sprintf(" by at least %s", config.FormatPoints(c.MarginCenti))
		}
		if c.TieDependent {
			line += " (unless an exact points tie breaks their way)"
		}
		needs = append(needs, line)
	}
	if len(needs) > 0 {
		fmt.Println(strings.Join(needs, " AND \n"))
	}

	if an.BestRank > 0 {
		fmt.Printf("\nBest case %s finishes %s; worst case that still works is %s.\n",
			name, ordinal(an.BestRank), ordinal(an.WorstQualifyingRank))
	}
	if an.CanQualifyWithoutOwnWin {
		fmt.Printf("%s can even survive without winning this week.\n", name)
	}

	if an.Example != nil {
		fmt.Printf("\nHere's an example of a scenario where %s %s...\n", name, thirdPerson(goal))
		fmt.Println("Matchup outcomes:")
		for _, r := range an.Example.Results {
			m := lg.Matchups()[r.Matchup]
			switch r.Winner {
			case m.Home:
				fmt.Printf("  %s beats %s (%s to %s)\n", lg.Name(m.Home), lg.Name(m.Away),
					config.FormatPoints(r.HomeScore), config.FormatPoints(r.AwayScore))
			case m.Away:
				fmt.Printf("  %s beats %s (%s to %s)\n", lg.Name(m.Away), lg.Name(m.Home),
					config.FormatPoints(r.AwayScore), config.FormatPoints(r.HomeScore))
			default:
				fmt.Printf("  %s and %s tie (%s apiece)\n", lg.Name(m.Home), lg.Name(m.Away),
					config.FormatPoints(r.HomeScore))
			}
		}
		fmt.Println("Final standings:")
		for i, p := range an.Example.Standings.Order {
			marker := ""
			if an.Example.Standings.Unresolved(p.Team) {
				marker = " *"
			}
			fmt.Printf("  %d. %s: %d wins, %s points%s\n", i+1, lg.Name(p.Team), p.Wins, config.FormatPoints(p.Points), marker)
		}
		if len(an.Example.Standings.Tied) > 0 {
			fmt.Println("  * tied on wins and points; league tiebreak undefined")
		}
	}

	for _, q := range an.Incomplete {
		fmt.Printf("⚠ Solver budget ran out during %s; that section may be incomplete.\n", q)
	}
}

// gerund converts "make the playoffs" to "making the playoffs" etc.
func gerund(goal string) string {
	if rest, ok := strings.CutPrefix(goal, "make "); ok {
		return "making " + rest
	}
	if rest, ok := strings.CutPrefix(goal, "get "); ok {
		return "getting " + rest
	}
	if rest, ok := strings.CutPrefix(goal, "finish "); ok {
		return "finishing " + rest
	}
	return goal
}

// thirdPerson converts "make the playoffs" to "makes the playoffs" etc.
func thirdPerson(goal string) string {
	if rest, ok := strings.CutPrefix(goal, "make "); ok {
		return "makes " + rest
	}
	if rest, ok := strings.CutPrefix(goal, "get "); ok {
		return "gets " + rest
	}
	if rest, ok := strings.CutPrefix(goal, "finish "); ok {
		return "finishes " + rest
	}
	return goal
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func runStandings(configPath string) error {
	_, lg, err := loadLeague(configPath)
	if err != nil {
		return err
	}

	// A week of all-zero scores leaves every record untouched.
	ranking, err := standings.Rank(lg, make(standings.Assignment, lg.Size()))
	if err != nil {
		return err
	}

	fmt.Printf("  %-4s %-15s %5s %10s\n", "Rank", "Team", "Wins", "Points")
	for _, p := range ranking.Order {
		fmt.Printf("  %-4d %-15s %5d %10s\n", ranking.Position(p.Team), lg.Name(p.Team), p.Wins, config.FormatPoints(p.Points))
	}
	return nil
}
