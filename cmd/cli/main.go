package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"datascout/adapters/excel"
	"datascout/adapters/llm"
	"datascout/adapters/postgres"
	"datascout/app"
	"datascout/internal/config"
	"datascout/internal/memory"
	"datascout/internal/testkit"
	"datascout/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "datascout",
		Short: "DataScout CLI for one-shot dataset analysis",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newDemoCmd(),
		newRunsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var maxRows int
	var asJSON bool
	var withPRD bool

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Run the full analysis pipeline on a CSV or Excel file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if maxRows <= 0 {
				maxRows = cfg.Data.MaxRowsForAnalysis
			}

			generator, err := llm.NewGeneratorAdapter(llm.Config{
				Model:       cfg.AI.OpenAIModel,
				APIKey:      cfg.AI.OpenAIKey,
				Temperature: cfg.AI.Temperature,
				MaxTokens:   cfg.AI.MaxTokens,
			})
			if err != nil {
				return fmt.Errorf("initialize generator: %w", err)
			}

			repo, closeRepo, err := buildRepository(cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			path := args[0]
			reader := excel.NewDataReader(path, maxRows)
			ds, err := reader.Read(path)
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}

			supervisor := app.NewSupervisor(generator, repo, cfg.Data.MaxSampleValues)
			result := supervisor.AnalyzeDataset(context.Background(), ds)
			if withPRD {
				supervisor.GeneratePRD(context.Background(), result)
			}

			if asJSON {
				encoded, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("encode result: %w", err)
				}
				fmt.Println(string(encoded))
				return nil
			}

			fmt.Println(supervisor.Summary(result))
			if withPRD && result.PRD != nil {
				fmt.Println()
				fmt.Println(result.PRD.PRDDocument)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Row cap for analysis (0 = configured default)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full run as JSON")
	cmd.Flags().BoolVar(&withPRD, "prd", false, "Also generate the PRD")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var rows int
	var seed int64
	var out string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate a synthetic orders CSV with seeded quality defects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := testkit.DefaultOrdersConfig()
			if rows > 0 {
				cfg.RowCount = rows
			}
			cfg.Seed = seed

			gen := testkit.NewOrdersGenerator(cfg)
			if err := gen.WriteCSV(out); err != nil {
				return fmt.Errorf("write demo dataset: %w", err)
			}
			fmt.Printf("Wrote %d-row demo dataset to %s\n", cfg.RowCount, out)
			fmt.Println("Analyze it with: datascout analyze " + out)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 0, "Row count (0 = default 500)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	cmd.Flags().StringVar(&out, "out", "orders.csv", "Output CSV path")
	return cmd
}

func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored analysis runs (requires DATABASE_URL)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("DATABASE_URL is not set; stored runs are unavailable")
			}

			db, err := sqlx.Connect("postgres", cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer db.Close()

			repo, err := postgres.NewRunRepository(db)
			if err != nil {
				return fmt.Errorf("initialize run repository: %w", err)
			}

			runs, err := repo.List(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			for _, run := range runs {
				fmt.Printf("%s  %-16s  %-16s  %d errors\n",
					run.ID, run.DatasetName, run.Status, len(run.Errors))
			}
			if len(runs) == 0 {
				fmt.Println("No stored runs")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}

func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

func buildRepository(cfg *config.Config) (ports.RunRepository, func(), error) {
	if cfg.Database.URL == "" {
		return memory.NewRunStore(), func() {}, nil
	}
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	repo, err := postgres.NewRunRepository(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("initialize run repository: %w", err)
	}
	return repo, func() { db.Close() }, nil
}
