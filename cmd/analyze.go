package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloudbill/gbat/internal/analysis"
	"github.com/cloudbill/gbat/internal/config"
)

var (
	analyzeFormat      string
	analyzeTimeout     time.Duration
	analyzeConcurrency int
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "table", "Output format: table, json")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "Overall deadline for the run")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 4, "Parallel per-project fetches")
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the billing analysis and print it locally",
	Long: `Run the same analysis as the report command but print the result instead
of sending it anywhere. JSON output is stable and suitable for feeding other
tooling.

Examples:
  gbat analyze
  gbat analyze --format json | jq '.summary.projectedCost'`,
	Run: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) {
	debug := viper.GetBool("debug")

	settings, err := config.Load(viper.GetViper())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	report, err := runAnalysis(ctx, settings, analyzeConcurrency, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running analysis: %v\n", err)
		os.Exit(1)
	}

	formatter := analysis.NewFormatter(analyzeFormat, analyzeFormat != "json", settings.StatusWarning, settings.StatusNominal)
	output, err := formatter.FormatReport(report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting report: %v\n", err)
		os.Exit(1)
	}
	formatter.Print(output)
}
