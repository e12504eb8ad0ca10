package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/calrowan/depwave/internal/bd"
	"github.com/calrowan/depwave/internal/config"
	"github.com/calrowan/depwave/internal/graph"
	"github.com/calrowan/depwave/internal/infer"
	"github.com/calrowan/depwave/internal/ready"
	"github.com/calrowan/depwave/internal/resolver"
	"github.com/calrowan/depwave/internal/ui"
)

var (
	flagDB    string
	flagBdBin string
	flagJSON  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "depwave",
		Short: "Resolve execution order across interdependent issues",
		Long: `Depwave reads an issue graph from a Beads database and answers the
questions an agent orchestrator asks before dispatching work: what can run
now, what is blocked and by what, which issues are safe to run in parallel,
how long the critical path is, and whether a dependency cycle makes
resolution impossible.`,
	}

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Beads database path")
	rootCmd.PersistentFlags().StringVar(&flagBdBin, "bd-bin", "", "Path to the bd binary")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(readyCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(cyclesCmd())
	rootCmd.AddCommand(vizCmd())
	rootCmd.AddCommand(inferDepsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newResolver builds the store client from config + flags and returns the
// cached resolver for the current working directory, along with the loaded
// config for command-specific defaults.
func newResolver() (*resolver.Resolver, *bd.Client, config.Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, nil, config.Config{}, fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, nil, config.Config{}, err
	}
	if flagBdBin != "" {
		cfg.BdBin = flagBdBin
	}
	if flagDB != "" {
		cfg.DbPath = flagDB
	}

	client := bd.NewClient(cfg.BdBin, cfg.DbPath)
	client.MaxParallelFetch = cfg.MaxParallelFetch
	return resolver.For(dir, client), client, cfg, nil
}

// modelFor picks the inference model: the --model flag wins, then the
// config file, then the SDK default.
func modelFor(flagValue string, cfg config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Model
}

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Compute parallel waves and the critical path",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, _, err := newResolver()
			if err != nil {
				return err
			}

			rep := res.Report()
			if flagJSON {
				return outputJSON(rep)
			}
			printReport(rep)
			return nil
		},
	}
}

func readyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Show ready, blocked, and in-progress issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, _, err := newResolver()
			if err != nil {
				return err
			}

			ri := res.Ready()
			if flagJSON {
				return outputJSON(ri)
			}
			printReadiness(ri)

			ps := ready.ComputeParallelExecutionSet(ri.Ready)
			fmt.Printf("\n⚡ %s %v\n", ui.Bold("parallel:"), ps.CanRunParallel)
			fmt.Printf("🔒 %s %v\n", ui.Bold("sequential:"), ps.MustRunSequential)
			fmt.Printf("   %s\n", ui.Dim(ps.Reasoning))
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <issue-id>",
		Short: "Pre-flight check for executing one issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, _, err := newResolver()
			if err != nil {
				return err
			}

			v, _ := res.Validate(args[0])
			if flagJSON {
				return outputJSON(v)
			}

			if v.CanExecute {
				fmt.Printf("%s %s can execute\n", ui.Green("✅"), ui.IssuePrefix(args[0]))
			} else {
				fmt.Printf("%s %s cannot execute\n", ui.Red("❌"), ui.IssuePrefix(args[0]))
			}
			for _, b := range v.Blockers {
				fmt.Printf("  %s %s\n", ui.Red("blocker:"), b)
			}
			for _, w := range v.Warnings {
				fmt.Printf("  %s %s\n", ui.Yellow("warning:"), w)
			}
			if !v.CanExecute {
				os.Exit(1)
			}
			return nil
		},
	}
}

func cyclesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycles",
		Short: "Find circular dependency chains",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, _, err := newResolver()
			if err != nil {
				return err
			}

			cycles := res.Cycles()
			if flagJSON {
				return outputJSON(struct {
					Cycles [][]string `json:"cycles"`
				}{Cycles: cycles})
			}

			if len(cycles) == 0 {
				fmt.Printf("%s no dependency cycles\n", ui.Green("✅"))
				return nil
			}
			fmt.Printf("%s %s dependency cycle(s):\n", ui.Red("❌"), ui.Bold(len(cycles)))
			for _, cycle := range cycles {
				fmt.Printf("  %s ", ui.Red("↻"))
				for i, id := range cycle {
					if i > 0 {
						fmt.Print(ui.Dim(" -> "))
					}
					fmt.Print(ui.BoldMagenta(id))
				}
				fmt.Println()
			}
			os.Exit(1)
			return nil
		},
	}
}

func vizCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "viz",
		Short: "Print the dependency graph as Graphviz DOT",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, _, err := newResolver()
			if err != nil {
				return err
			}
			return printDOT(res.Report())
		},
	}
}

func inferDepsCmd() *cobra.Command {
	var (
		flagApply    bool
		flagModel    string
		flagFromFile string
	)

	cmd := &cobra.Command{
		Use:   "infer-deps",
		Short: "Use Claude to infer issue dependencies from titles",
		Long: `Sends open issue titles to Claude and infers dependency edges.
By default runs in dry-run mode — use --apply to write deps to beads.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, cfg, err := newResolver()
			if err != nil {
				return err
			}

			issues, err := client.ListOpen()
			if err != nil {
				return fmt.Errorf("list open issues: %w", err)
			}
			if len(issues) == 0 {
				return fmt.Errorf("no open issues found")
			}
			issues = client.FetchDependsOn(issues)

			var result *infer.Result
			if flagFromFile != "" {
				data, err := os.ReadFile(flagFromFile)
				if err != nil {
					return fmt.Errorf("read from-file: %w", err)
				}
				result = &infer.Result{}
				if err := json.Unmarshal(data, result); err != nil {
					return fmt.Errorf("parse from-file: %w", err)
				}
				fmt.Printf("📂 Loaded %s edges from %s\n", ui.Bold(len(result.Edges)), ui.Dim(flagFromFile))
			} else {
				fmt.Printf("🔍 Sending %s issues to Claude for dependency inference...\n", ui.Bold(len(issues)))

				claudeClient, err := infer.NewClient("", modelFor(flagModel, cfg))
				if err != nil {
					return err
				}
				result, err = claudeClient.InferDeps(context.Background(), infer.Summaries(issues))
				if err != nil {
					return fmt.Errorf("infer deps: %w", err)
				}
			}

			accepted, rejected := infer.ValidateEdges(result.Edges, issues)
			for _, reason := range rejected {
				fmt.Printf("  %s %s\n", ui.Yellow("⏭️  SKIP:"), reason)
			}

			if flagJSON {
				return outputJSON(struct {
					Edges   []infer.DepEdge `json:"edges"`
					Summary string          `json:"summary"`
				}{Edges: accepted, Summary: result.Summary})
			}

			fmt.Printf("\n🔗 Inferred %s dependencies (%d from Claude, %d after validation):\n\n",
				ui.Bold(len(accepted)), len(result.Edges), len(accepted))
			for _, e := range accepted {
				fmt.Printf("  %s %s depends on %s  — %s\n",
					ui.Cyan("→"), ui.BoldMagenta(e.IssueID), ui.BoldMagenta(e.DependsOnID), ui.Dim(e.Reason))
			}
			if result.Summary != "" {
				fmt.Printf("\n💡 %s %s\n", ui.BoldWhite("Summary:"), result.Summary)
			}

			if !flagApply {
				fmt.Printf("\n🎯 %s\n", ui.Yellow("Dry run — use --apply to write these dependencies to beads."))
				return nil
			}

			fmt.Printf("\n📝 Applying %s dependencies...\n", ui.Bold(len(accepted)))
			applied := 0
			for _, e := range accepted {
				if err := client.AddDep(e.IssueID, e.DependsOnID); err != nil {
					fmt.Printf("  %s dep add %s %s: %v\n", ui.Red("❌ ERROR:"), e.IssueID, e.DependsOnID, err)
					continue
				}
				applied++
				fmt.Printf("  %s %s depends on %s\n", ui.Green("✅ OK:"), ui.BoldMagenta(e.IssueID), ui.BoldMagenta(e.DependsOnID))
			}
			fmt.Printf("\n🏁 Applied %s/%d dependencies.\n", ui.BoldGreen(applied), len(accepted))
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagApply, "apply", false, "Write inferred deps to beads (default: dry-run)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Claude model to use (default: Sonnet)")
	cmd.Flags().StringVar(&flagFromFile, "from-file", "", "Load inferred deps from a JSON file instead of calling Claude")

	return cmd
}

func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printReport(rep *resolver.Report) {
	stats := rep.Stats
	fmt.Printf("\n📋 %s  %s\n", ui.Bold("Execution plan"), ui.Dim(rep.ID))
	fmt.Printf("   %s issues in %s waves (max width %d)\n\n",
		ui.Bold(stats.Scheduled), ui.Bold(stats.WaveCount), stats.MaxWidth)

	for i, wave := range rep.Order.Parallel {
		fmt.Printf("  %s %d: ", ui.BoldCyan("Wave"), i+1)
		for j, id := range wave {
			if j > 0 {
				fmt.Print("  ")
			}
			fmt.Print(ui.IssuePrefix(id))
		}
		fmt.Println()
	}

	if len(rep.Order.CriticalPath) > 0 {
		fmt.Printf("\n🎯 %s ", ui.Bold("Critical path:"))
		for i, id := range rep.Order.CriticalPath {
			if i > 0 {
				fmt.Print(ui.Dim(" -> "))
			}
			fmt.Print(ui.BoldMagenta(id))
		}
		fmt.Printf("  %s\n", ui.Dim(fmt.Sprintf("(%d sequential rounds minimum)", len(rep.Order.CriticalPath))))
	}

	if len(rep.Order.Unresolved) > 0 {
		fmt.Printf("\n%s %d issue(s) unresolvable (dependency cycle): %v\n",
			ui.Red("⚠️"), len(rep.Order.Unresolved), rep.Order.Unresolved)
		for _, cycle := range rep.Cycles {
			fmt.Printf("  %s %v\n", ui.Red("↻"), cycle)
		}
	}
}

func printReadiness(ri *ready.ReadyIssues) {
	fmt.Printf("\n%s %s ready\n", ui.BoldGreen("▶"), ui.Bold(len(ri.Ready)))
	for _, iss := range ri.Ready {
		fmt.Printf("  %s %s %s\n", ui.StatusIcon(iss.Status), ui.IssuePrefix(iss.ID), iss.Title)
	}

	fmt.Printf("\n%s %s blocked\n", ui.BoldRed("■"), ui.Bold(len(ri.Blocked)))
	for _, b := range ri.Blocked {
		fmt.Printf("  %s %s %s %s %v\n",
			ui.StatusIcon(b.Issue.Status), ui.IssuePrefix(b.Issue.ID), b.Issue.Title, ui.Dim("blocked by"), b.Blockers)
	}

	fmt.Printf("\n%s %s in progress\n", ui.BoldCyan("●"), ui.Bold(len(ri.InProgress)))
	for _, iss := range ri.InProgress {
		fmt.Printf("  %s %s %s\n", ui.StatusIcon(iss.Status), ui.IssuePrefix(iss.ID), iss.Title)
	}
}

// printDOT renders the resolved graph in Graphviz DOT format, critical path
// highlighted.
func printDOT(rep *resolver.Report) error {
	return writeDOT(os.Stdout, rep)
}

func writeDOT(w io.Writer, rep *resolver.Report) error {
	critical := make(map[string]bool, len(rep.Order.CriticalPath))
	for _, id := range rep.Order.CriticalPath {
		critical[id] = true
	}
	unresolved := make(map[string]bool, len(rep.Order.Unresolved))
	for _, id := range rep.Order.Unresolved {
		unresolved[id] = true
	}

	fmt.Fprintln(w, "digraph depwave {")
	fmt.Fprintln(w, "  rankdir=BT;")
	fmt.Fprintln(w, "  node [shape=box, style=rounded];")

	scheduled := make(map[string]bool)
	for _, wave := range rep.Order.Parallel {
		for _, id := range wave {
			scheduled[id] = true
			attrs := ""
			if critical[id] {
				attrs = ", color=red, penwidth=2"
			}
			fmt.Fprintf(w, "  %q [label=%q%s];\n", id, id, attrs)
		}
	}
	for _, id := range rep.Order.Unresolved {
		fmt.Fprintf(w, "  %q [label=%q, color=orange, style=\"rounded,dashed\"];\n", id, id)
	}

	printed := make(map[[2]string]bool)
	emit := func(from, to string) {
		key := [2]string{from, to}
		if printed[key] {
			return
		}
		printed[key] = true
		attrs := ""
		if critical[from] && critical[to] {
			attrs = " [color=red, penwidth=2]"
		}
		fmt.Fprintf(w, "  %q -> %q%s;\n", from, to, attrs)
	}

	for _, b := range rep.Ready.Blocked {
		for _, dep := range b.Blockers {
			if scheduled[dep] || unresolved[dep] {
				emit(b.Issue.ID, dep)
			}
		}
	}
	for _, iss := range append(append([]graph.Issue(nil), rep.Ready.Ready...), rep.Ready.InProgress...) {
		for _, dep := range iss.DependsOn {
			if scheduled[dep] || unresolved[dep] {
				emit(iss.ID, dep)
			}
		}
	}

	fmt.Fprintln(w, "}")
	return nil
}
