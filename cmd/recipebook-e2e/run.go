package main

import (
	"fmt"
	"io"
	"time"

	"github.com/Gmacem/recipebook-e2e/internal/fixtures"
	"github.com/Gmacem/recipebook-e2e/internal/lifecycle"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(4)
)

func runCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "run [scenario...]",
		Short: "Run lifecycle scenarios",
		Long: `Run the named scenarios, or all of them in their default order. Each
scenario stops at its first failed step; the command exits non-zero when any
scenario fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := selectScenarios(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client, err := authenticatedClient(ctx)
			if err != nil {
				return err
			}
			defer client.Close()

			if seed || cfg.Seed {
				set, err := fixtures.Load(cfg.Fixtures)
				if err != nil {
					return err
				}
				if _, err := fixtures.Seed(ctx, client, set, log); err != nil {
					return fmt.Errorf("seed fixtures: %w", err)
				}
			}

			var results []lifecycle.Result
			for _, s := range scenarios {
				if ctx.Err() != nil {
					break
				}
				results = append(results, lifecycle.RunScenario(ctx, client, log, s))
			}

			failed := report(cmd.OutOrStdout(), results)
			if failed > 0 {
				return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
			}
			return ctx.Err()
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "create missing fixtures before running")

	return cmd
}

func selectScenarios(names []string) ([]lifecycle.Scenario, error) {
	if len(names) == 0 {
		return lifecycle.Scenarios, nil
	}
	out := make([]lifecycle.Scenario, 0, len(names))
	for _, name := range names {
		s, ok := lifecycle.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		out = append(out, s)
	}
	return out, nil
}

func report(w io.Writer, results []lifecycle.Result) int {
	failed := 0
	for _, r := range results {
		if r.Passed {
			fmt.Fprintf(w, "%s %s (%s)\n", passStyle.Render("PASS"), r.Scenario, r.Duration.Round(time.Millisecond))
			continue
		}
		failed++
		fmt.Fprintf(w, "%s %s (%s)\n", failStyle.Render("FAIL"), r.Scenario, r.Duration.Round(time.Millisecond))
		for _, f := range r.Failures {
			fmt.Fprintln(w, detailStyle.Render(f))
		}
	}
	return failed
}

func scenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List available scenarios",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, s := range lifecycle.Scenarios {
				fmt.Fprintln(cmd.OutOrStdout(), s.Name)
			}
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create missing fixture categories and recipes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := fixtures.Load(cfg.Fixtures)
			if err != nil {
				return err
			}

			client, err := authenticatedClient(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			rep, err := fixtures.Seed(cmd.Context(), client, set, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d categories, %d recipes\n",
				rep.CategoriesCreated, rep.RecipesCreated)
			return nil
		},
	}
}
