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
)

var projectsFormat string

func init() {
	rootCmd.AddCommand(projectsCmd)

	projectsCmd.Flags().StringVar(&projectsFormat, "format", "table", "Output format: table, json")
}

// projectsCmd represents the projects command
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List project IDs present in the billing table",
	Run: func(cmd *cobra.Command, args []string) {
		debug := viper.GetBool("debug")

		settings, err := config.Load(viper.GetViper())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		runner, err := billing.NewBigQueryRunner(ctx, settings.ProjectID, debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		repo := billing.NewRepository(runner, settings.Table(), settings.RoundingPrecision, debug)

		ids, err := repo.ListProjectIDs(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing projects: %v\n", err)
			os.Exit(1)
		}

		formatter := analysis.NewFormatter(projectsFormat, projectsFormat != "json", settings.StatusWarning, settings.StatusNominal)
		output, err := formatter.FormatProjectIDs(ids)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			os.Exit(1)
		}
		formatter.Print(output)
	},
}
