package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func validViper() *viper.Viper {
	v := viper.New()
	v.Set("PROJECT_ID", "acme-billing")
	v.Set("DATA_SET", "exports")
	v.Set("TABLE_NAME", "gcp_billing_export_v1")
	v.Set("SLACK_CHANNEL", "#billing")
	v.Set("SLACK_API_TOKEN", "xoxb-secret")
	return v
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load(validViper())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if s.MinimumCostForWarning != 10 {
		t.Errorf("MinimumCostForWarning = %v, want 10", s.MinimumCostForWarning)
	}
	if s.RoundingPrecision != 2 {
		t.Errorf("RoundingPrecision = %v, want 2", s.RoundingPrecision)
	}
	if s.WarningThresholdMultiplier != 2 {
		t.Errorf("WarningThresholdMultiplier = %v, want 2", s.WarningThresholdMultiplier)
	}
	if s.TopServicesCount != 5 {
		t.Errorf("TopServicesCount = %v, want 5", s.TopServicesCount)
	}
	if s.StatusWarning != "WARNING" || s.StatusNominal != "NOMINAL" {
		t.Errorf("status labels = %q/%q", s.StatusWarning, s.StatusNominal)
	}
}

func TestLoadMissingRequiredKeys(t *testing.T) {
	for _, key := range requiredKeys {
		t.Run(key, func(t *testing.T) {
			v := validViper()
			v.Set(key, "")
			_, err := Load(v)
			if err == nil {
				t.Fatalf("expected error when %s is missing", key)
			}
			if !strings.Contains(err.Error(), key) {
				t.Errorf("error %q does not name the missing key %s", err, key)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	v := validViper()
	v.Set("MINIMUM_COST_FOR_WARNING", "25.5")
	v.Set("WARNING_THRESHOLD_MULTIPLIER", "1.5")
	v.Set("NUMBER_OF_TOP_SERVICES_TO_INVESTIGATE", "3")
	v.Set("STATUS_WARNING", "ON FIRE")

	s, err := Load(v)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.MinimumCostForWarning != 25.5 {
		t.Errorf("MinimumCostForWarning = %v, want 25.5", s.MinimumCostForWarning)
	}
	if s.WarningThresholdMultiplier != 1.5 {
		t.Errorf("WarningThresholdMultiplier = %v, want 1.5", s.WarningThresholdMultiplier)
	}
	if s.TopServicesCount != 3 {
		t.Errorf("TopServicesCount = %v, want 3", s.TopServicesCount)
	}
	if s.StatusWarning != "ON FIRE" {
		t.Errorf("StatusWarning = %q", s.StatusWarning)
	}
}

func TestLoadRejectsBadTunables(t *testing.T) {
	v := validViper()
	v.Set("ROUNDING_PRECISION", "-1")
	if _, err := Load(v); err == nil {
		t.Error("expected error for negative rounding precision")
	}

	v = validViper()
	v.Set("NUMBER_OF_TOP_SERVICES_TO_INVESTIGATE", "0")
	if _, err := Load(v); err == nil {
		t.Error("expected error for zero top services")
	}
}

func TestTableAndRedacted(t *testing.T) {
	s, err := Load(validViper())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	table := s.Table()
	if table.String() != "acme-billing.exports.gcp_billing_export_v1" {
		t.Errorf("table = %q", table.String())
	}

	redacted := s.Redacted()
	if redacted["SLACK_API_TOKEN"] != "<redacted>" {
		t.Errorf("token not redacted: %q", redacted["SLACK_API_TOKEN"])
	}
	if redacted["PROJECT_ID"] != "acme-billing" {
		t.Errorf("project id = %q", redacted["PROJECT_ID"])
	}
}
