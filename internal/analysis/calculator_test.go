package analysis

import (
	"testing"
	"time"
)

func TestRoundCost(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		precision int
		want      float64
	}{
		{"two decimals rounds up", 12.3456, 2, 12.35},
		{"two decimals rounds down", 12.344, 2, 12.34},
		{"zero precision", 12.5, 0, 13},
		{"already exact", 10.10, 2, 10.10},
		{"negative value", -12.345, 2, -12.35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundCost(tt.value, tt.precision); got != tt.want {
				t.Errorf("RoundCost(%v, %d) = %v, want %v", tt.value, tt.precision, got, tt.want)
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		month time.Month
		year  int
		want  int
	}{
		{"leap february", time.February, 2020, 29},
		{"non-leap february", time.February, 2021, 28},
		{"january", time.January, 2020, 31},
		{"april", time.April, 2023, 30},
		{"century non-leap", time.February, 1900, 28},
		{"quad-century leap", time.February, 2000, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysInMonth(tt.month, tt.year); got != tt.want {
				t.Errorf("DaysInMonth(%v, %d) = %d, want %d", tt.month, tt.year, got, tt.want)
			}
		})
	}
}

func TestDaysRemainingInMonth(t *testing.T) {
	tests := []struct {
		name        string
		daysInMonth int
		today       time.Time
		want        int
	}{
		{"mid month", 28, time.Date(2020, time.February, 14, 0, 0, 0, 0, time.UTC), 14},
		{"last day", 31, time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC), 0},
		{"first day", 30, time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC), 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysRemainingInMonth(tt.daysInMonth, tt.today); got != tt.want {
				t.Errorf("DaysRemainingInMonth(%d, %v) = %d, want %d", tt.daysInMonth, tt.today, got, tt.want)
			}
		})
	}
}

func TestProjectedMonthlyCost(t *testing.T) {
	if got := ProjectedMonthlyCost(10, 5.00, 50.00); got != 100.00 {
		t.Errorf("ProjectedMonthlyCost(10, 5, 50) = %v, want 100", got)
	}
	if got := ProjectedMonthlyCost(0, 99.99, 250.50); got != 250.50 {
		t.Errorf("ProjectedMonthlyCost(0, 99.99, 250.50) = %v, want 250.50", got)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name       string
		current    float64
		past       float64
		multiplier float64
		minimum    float64
		want       Status
	}{
		{"zero current cost is always nominal", 0, 5, 2, 0, StatusNominal},
		{"boundary is inclusive", 20, 10, 2, 10, StatusWarning},
		{"just under the limit", 19.99, 10, 2, 10, StatusNominal},
		{"ratio exceeded but below minimum", 15, 1, 2, 20, StatusNominal},
		{"well over everything", 100, 10, 2, 10, StatusWarning},
		{"past cost zero with nonzero current", 50, 0, 2, 10, StatusWarning},
		{"cost dropped", 5, 100, 2, 10, StatusNominal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStatus(tt.current, tt.past, tt.multiplier, tt.minimum)
			if got != tt.want {
				t.Errorf("ClassifyStatus(%v, %v, %v, %v) = %v, want %v",
					tt.current, tt.past, tt.multiplier, tt.minimum, got, tt.want)
			}
		})
	}
}
