package analysis

import (
	"math"
	"time"
)

// RoundCost rounds a cost value to the given number of decimal digits.
// Every cost in a run must pass through this exactly once, with the same
// precision, so downstream comparisons operate on identical representations.
func RoundCost(value float64, precision int) float64 {
	shift := math.Pow(10, float64(precision))
	return math.Round(value*shift) / shift
}

// DaysInMonth returns the Gregorian length of the given month (1-12).
func DaysInMonth(month time.Month, year int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysRemainingInMonth returns how many days of the month are left after
// today. Zero when today is the last day. daysInMonth must describe the
// month today falls in; that is the caller's precondition, not checked here.
func DaysRemainingInMonth(daysInMonth int, today time.Time) int {
	return daysInMonth - today.Day()
}

// ProjectedMonthlyCost extrapolates month-end spend: month-to-date actuals
// plus yesterday's run-rate applied to the remaining days. Not a forecast,
// no smoothing.
func ProjectedMonthlyCost(daysRemaining int, pastDayCost, pastMonthCost float64) float64 {
	return pastMonthCost + float64(daysRemaining)*pastDayCost
}

// ClassifyStatus compares the current cost against the past cost. WARNING
// requires all three: a nonzero current cost, current at or above
// past*multiplier (inclusive boundary), and current at or above the absolute
// minimum. A project whose cost dropped to zero is always NOMINAL, so
// decommissioned projects never alarm.
func ClassifyStatus(currentCost, pastCost, thresholdMultiplier, minimumCostForWarning float64) Status {
	limit := pastCost * thresholdMultiplier
	if currentCost != 0 && currentCost >= limit && currentCost >= minimumCostForWarning {
		return StatusWarning
	}
	return StatusNominal
}
