package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"goanova/adapters/excel"
	"goanova/adapters/postgres"
	"goanova/app"
	"goanova/internal/report"
	"goanova/models"
	"goanova/ports"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "goanova",
		Short: "N-way balanced ANOVA over tabular data files",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newSweepCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var file, sheet, format string
	var kinds []string
	var noReplicates, persist bool

	cmd := &cobra.Command{
		Use:   "run [response] [factors...]",
		Short: "Analyze one response column against factor columns",
		Long: `Analyze a response column against one or more factor columns.

Factor kinds default to fixed. Pass --kinds to override, one entry per
factor, from: fixed, random, nested, subject, block.

Example: goanova run Yield Treatment Block --file yield.csv --kinds fixed,block`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context(), persist)
			if err != nil {
				return err
			}

			frame, err := excel.NewDataReader(file).WithSheet(sheet).ReadData()
			if err != nil {
				return err
			}

			run, err := svc.AnalyzeFrame(cmd.Context(), frame, app.AnalysisRequest{
				Source:       file,
				Response:     args[0],
				Factors:      args[1:],
				Kinds:        kinds,
				NoReplicates: noReplicates,
			})
			if err != nil {
				return err
			}
			return printRun(run, format)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Data file (.csv or .xlsx)")
	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Worksheet name for Excel files")
	cmd.Flags().StringSliceVar(&kinds, "kinds", nil, "Factor kinds, one per factor")
	cmd.Flags().BoolVar(&noReplicates, "no-replicates", false, "Treat the first factor as a real factor rather than replicates")
	cmd.Flags().StringVar(&format, "format", "md", "Output format: md or json")
	cmd.Flags().BoolVar(&persist, "persist", false, "Record the run in the database (DATABASE_URL)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newSweepCmd() *cobra.Command {
	var file, sheet, format string
	var responses, kinds []string
	var noReplicates bool
	var concurrency int64

	cmd := &cobra.Command{
		Use:   "sweep [factors...]",
		Short: "Analyze several response columns against the same factors",
		Long: `Analyze each --response column against the given factor columns.

Example: goanova sweep Treatment Block --file yield.csv --responses Yield,Purity`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := excel.NewDataReader(file).WithSheet(sheet).ReadData()
			if err != nil {
				return err
			}

			svc := app.NewSweepService(app.NewAnovaService(nil), concurrency)
			outcomes, err := svc.Sweep(cmd.Context(), frame, app.SweepRequest{
				Source:       file,
				Responses:    responses,
				Factors:      args,
				Kinds:        kinds,
				NoReplicates: noReplicates,
			})
			if err != nil {
				return err
			}
			return printOutcomes(outcomes, format)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Data file (.csv or .xlsx)")
	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Worksheet name for Excel files")
	cmd.Flags().StringSliceVar(&responses, "responses", nil, "Response columns to analyze")
	cmd.Flags().StringSliceVar(&kinds, "kinds", nil, "Factor kinds, one per factor")
	cmd.Flags().BoolVar(&noReplicates, "no-replicates", false, "Treat the first factor as a real factor rather than replicates")
	cmd.Flags().StringVar(&format, "format", "md", "Output format: md or json")
	cmd.Flags().Int64Var(&concurrency, "concurrency", 4, "Maximum concurrent analyses")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("responses")

	return cmd
}

func buildService(ctx context.Context, persist bool) (*app.AnovaService, error) {
	var runs ports.RunRepository
	if persist {
		url := os.Getenv("DATABASE_URL")
		if url == "" {
			return nil, fmt.Errorf("--persist requires DATABASE_URL")
		}
		db, err := postgres.Connect(ctx, url, 5)
		if err != nil {
			return nil, err
		}
		repo := postgres.NewRunRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		runs = repo
	}
	return app.NewAnovaService(runs), nil
}

func printRun(run *models.Run, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	case "md":
		fmt.Println(report.Markdown(run))
		return nil
	default:
		return fmt.Errorf("unknown format %q (use md or json)", format)
	}
}

func printOutcomes(outcomes []app.SweepOutcome, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcomes)
	case "md":
		for _, o := range outcomes {
			if o.Err != "" {
				fmt.Printf("## %s\n\nfailed: %s\n\n", o.Response, o.Err)
				continue
			}
			fmt.Println(report.Markdown(o.Run))
			fmt.Println(strings.Repeat("-", 40))
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (use md or json)", format)
	}
}
