package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hearthkit/hearth/internal/bench"
	"github.com/hearthkit/hearth/internal/config"
)

var (
	benchCategory string
	benchLogDir   string
	benchResults  string
)

var benchCmd = &cobra.Command{
	Use:   "bench <suite-file>",
	Short: "Run a benchmark suite of requests",
	Long: `Run every case in a benchmark suite through the device agents.

Each case runs in a fresh session, gets its own log file, and its
outcome is stored so runs can be compared over time. Suites are YAML
or JSON files of test cases with an id, category, and user_input.`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVar(&benchCategory, "category", "all", "Only run cases in this category")
	benchCmd.Flags().StringVar(&benchLogDir, "logs", "logs", "Directory for per-case log files (empty disables)")
	benchCmd.Flags().StringVar(&benchResults, "results", "", "SQLite database for run results (empty disables)")
}

func runBench(cmd *cobra.Command, args []string) error {
	suite, err := bench.LoadSuite(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	oracleImpl, _, err := buildOracle(cfg)
	if err != nil {
		return err
	}

	var store *bench.ResultStore
	if benchResults != "" {
		store, err = bench.NewResultStore(benchResults)
		if err != nil {
			return fmt.Errorf("open result store: %w", err)
		}
		defer store.Close()
	}

	runner, err := bench.NewRunner(bench.RunnerConfig{
		Oracle:  oracleImpl,
		Catalog: loadCatalog(),
		LogDir:  benchLogDir,
		Store:   store,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	summary, err := runner.Run(ctx, suite, benchCategory)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d case(s) failed", summary.Failed, len(summary.Outcomes))
	}
	return nil
}
