package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gbat",
	Short: "GCP billing analysis and reporting",
	Long: `gbat analyses Google Cloud Platform billing data exported to a BigQuery
table and reports on it: per-project day-over-day cost trends, account-wide
totals and a naive month-end projection, delivered to Slack or printed
locally.

Configuration comes from environment variables (PROJECT_ID, DATA_SET,
TABLE_NAME, SLACK_CHANNEL, SLACK_API_TOKEN and the optional tunables) or a
YAML config file. BigQuery access uses Application Default Credentials; set
GOOGLE_APPLICATION_CREDENTIALS when running outside GCP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gbat.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug output (query progress + internal diagnostics)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gbat")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("debug") {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}
