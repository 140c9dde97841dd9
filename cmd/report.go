package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloudbill/gbat/internal/analysis"
	"github.com/cloudbill/gbat/internal/billing"
	"github.com/cloudbill/gbat/internal/config"
	"github.com/cloudbill/gbat/internal/slack"
)

var (
	reportDryRun      bool
	reportTimeout     time.Duration
	reportConcurrency int
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVar(&reportDryRun, "dry-run", false, "Render the report to stdout instead of sending it to Slack")
	reportCmd.Flags().DurationVar(&reportTimeout, "timeout", 5*time.Minute, "Overall deadline for the run")
	reportCmd.Flags().IntVar(&reportConcurrency, "concurrency", 4, "Parallel per-project fetches")
}

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the daily billing analysis and send it to Slack",
	Long: `Run one full billing analysis and deliver the report to the configured
Slack channel. Intended to run once a day from a scheduler.

The run is all-or-nothing: any failed query, a currency mismatch between the
account-wide totals, or a rejected Slack send aborts with a non-zero exit
and no partial report.

Examples:
  gbat report
  gbat report --dry-run
  gbat report --timeout 2m --concurrency 8`,
	Run: runReport,
}

func runReport(cmd *cobra.Command, args []string) {
	debug := viper.GetBool("debug")

	settings, err := config.Load(viper.GetViper())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	report, err := runAnalysis(ctx, settings, reportConcurrency, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running analysis: %v\n", err)
		os.Exit(1)
	}

	if reportDryRun {
		formatter := analysis.NewFormatter("table", true, settings.StatusWarning, settings.StatusNominal)
		output, err := formatter.FormatReport(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting report: %v\n", err)
			os.Exit(1)
		}
		formatter.Print(output)
		return
	}

	client := slack.NewClient(settings.SlackAPIToken, settings.SlackChannel, debug)
	if err := client.Send(ctx, slack.FormatReport(report)); err != nil {
		fmt.Fprintf(os.Stderr, "Error sending report: %v\n", err)
		os.Exit(1)
	}
}

// runAnalysis wires the repository and analyzer for one run.
func runAnalysis(ctx context.Context, settings *config.Settings, concurrency int, debug bool) (*analysis.Report, error) {
	runner, err := billing.NewBigQueryRunner(ctx, settings.ProjectID, debug)
	if err != nil {
		return nil, err
	}

	repo := billing.NewRepository(runner, settings.Table(), settings.RoundingPrecision, debug)
	analyzer := analysis.NewAnalyzer(repo, analysis.Options{
		WarningThresholdMultiplier: settings.WarningThresholdMultiplier,
		MinimumCostForWarning:      settings.MinimumCostForWarning,
		TopServicesCount:           settings.TopServicesCount,
		Concurrency:                concurrency,
		Debug:                      debug,
	})

	return analyzer.Run(ctx, time.Now().UTC())
}
