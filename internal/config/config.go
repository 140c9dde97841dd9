package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/cloudbill/gbat/internal/billing"
)

// Default tunables. All of them may be overridden by the environment or the
// config file; the identity/credential values have no defaults and their
// absence is fatal at startup.
const (
	DefaultMinimumCostForWarning      = 10.0
	DefaultRoundingPrecision          = 2
	DefaultWarningThresholdMultiplier = 2.0
	DefaultTopServicesCount           = 5
	DefaultStatusWarning              = "WARNING"
	DefaultStatusNominal              = "NOMINAL"
)

// Settings is the explicit configuration value object for one run. It is
// constructed once at startup and passed into collaborators; nothing reads
// ambient state after that.
type Settings struct {
	// BigQuery billing export identity.
	ProjectID string
	Dataset   string
	TableName string

	// Slack delivery.
	SlackChannel  string
	SlackAPIToken string

	// Analysis tunables.
	MinimumCostForWarning      float64
	RoundingPrecision          int
	WarningThresholdMultiplier float64
	TopServicesCount           int
	StatusWarning              string
	StatusNominal              string
}

var requiredKeys = []string{
	"PROJECT_ID",
	"DATA_SET",
	"TABLE_NAME",
	"SLACK_CHANNEL",
	"SLACK_API_TOKEN",
}

// Load resolves settings from the given viper instance (environment
// variables and, when present, the config file). Every missing required key
// is an error; tunables fall back to documented defaults.
func Load(v *viper.Viper) (*Settings, error) {
	v.SetDefault("MINIMUM_COST_FOR_WARNING", DefaultMinimumCostForWarning)
	v.SetDefault("ROUNDING_PRECISION", DefaultRoundingPrecision)
	v.SetDefault("WARNING_THRESHOLD_MULTIPLIER", DefaultWarningThresholdMultiplier)
	v.SetDefault("NUMBER_OF_TOP_SERVICES_TO_INVESTIGATE", DefaultTopServicesCount)
	v.SetDefault("STATUS_WARNING", DefaultStatusWarning)
	v.SetDefault("STATUS_NOMINAL", DefaultStatusNominal)

	for _, key := range requiredKeys {
		if v.GetString(key) == "" {
			return nil, fmt.Errorf("config: must specify %s", key)
		}
	}

	s := &Settings{
		ProjectID:                  v.GetString("PROJECT_ID"),
		Dataset:                    v.GetString("DATA_SET"),
		TableName:                  v.GetString("TABLE_NAME"),
		SlackChannel:               v.GetString("SLACK_CHANNEL"),
		SlackAPIToken:              v.GetString("SLACK_API_TOKEN"),
		MinimumCostForWarning:      v.GetFloat64("MINIMUM_COST_FOR_WARNING"),
		RoundingPrecision:          v.GetInt("ROUNDING_PRECISION"),
		WarningThresholdMultiplier: v.GetFloat64("WARNING_THRESHOLD_MULTIPLIER"),
		TopServicesCount:           v.GetInt("NUMBER_OF_TOP_SERVICES_TO_INVESTIGATE"),
		StatusWarning:              v.GetString("STATUS_WARNING"),
		StatusNominal:              v.GetString("STATUS_NOMINAL"),
	}

	if s.RoundingPrecision < 0 {
		return nil, fmt.Errorf("config: ROUNDING_PRECISION must be non-negative, got %d", s.RoundingPrecision)
	}
	if s.TopServicesCount <= 0 {
		return nil, fmt.Errorf("config: NUMBER_OF_TOP_SERVICES_TO_INVESTIGATE must be positive, got %d", s.TopServicesCount)
	}

	return s, nil
}

// Table returns the billing export table identity.
func (s *Settings) Table() billing.Table {
	return billing.Table{
		Project: s.ProjectID,
		Dataset: s.Dataset,
		Name:    s.TableName,
	}
}

// Redacted returns a display view of the settings with the credential
// masked, for the config subcommand.
func (s *Settings) Redacted() map[string]string {
	token := ""
	if s.SlackAPIToken != "" {
		token = "<redacted>"
	}
	return map[string]string{
		"PROJECT_ID":                            s.ProjectID,
		"DATA_SET":                              s.Dataset,
		"TABLE_NAME":                            s.TableName,
		"SLACK_CHANNEL":                         s.SlackChannel,
		"SLACK_API_TOKEN":                       token,
		"MINIMUM_COST_FOR_WARNING":              fmt.Sprintf("%g", s.MinimumCostForWarning),
		"ROUNDING_PRECISION":                    fmt.Sprintf("%d", s.RoundingPrecision),
		"WARNING_THRESHOLD_MULTIPLIER":          fmt.Sprintf("%g", s.WarningThresholdMultiplier),
		"NUMBER_OF_TOP_SERVICES_TO_INVESTIGATE": fmt.Sprintf("%d", s.TopServicesCount),
		"STATUS_WARNING":                        s.StatusWarning,
		"STATUS_NOMINAL":                        s.StatusNominal,
	}
}
