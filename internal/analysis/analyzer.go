package analysis

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

// CostSource is the repository contract the analyzer reads from. One remote
// query per call; no caching.
type CostSource interface {
	ListProjectIDs(ctx context.Context) ([]string, error)
	DailyCost(ctx context.Context, projectID string, daysAgo int) (CostRecord, error)
	AccountDailyCost(ctx context.Context) (CostRecord, error)
	AccountMonthlyCost(ctx context.Context) (CostRecord, error)
	TopServices(ctx context.Context, projectID string, limit int) ([]ServiceCost, error)
}

// CurrencyMismatchError reports that the account-wide daily and monthly
// aggregates disagree on currency. The projection cannot be computed and the
// whole run is aborted before any per-project work.
type CurrencyMismatchError struct {
	Daily   string
	Monthly string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("analysis: currency mismatch between daily (%s) and monthly (%s) totals", e.Daily, e.Monthly)
}

// Options tunes one analyzer instance. Zero values fall back to the
// documented defaults at construction time.
type Options struct {
	WarningThresholdMultiplier float64
	MinimumCostForWarning      float64
	TopServicesCount           int
	Concurrency                int
	Debug                      bool
}

// Analyzer assembles one full cost analysis from a CostSource.
type Analyzer struct {
	source      CostSource
	threshold   float64
	minimum     float64
	topServices int
	concurrency int
	debug       bool
}

// NewAnalyzer creates an analyzer over the given source.
func NewAnalyzer(source CostSource, opts Options) *Analyzer {
	if opts.WarningThresholdMultiplier == 0 {
		opts.WarningThresholdMultiplier = 2
	}
	if opts.TopServicesCount <= 0 {
		opts.TopServicesCount = 5
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Analyzer{
		source:      source,
		threshold:   opts.WarningThresholdMultiplier,
		minimum:     opts.MinimumCostForWarning,
		topServices: opts.TopServicesCount,
		concurrency: opts.Concurrency,
		debug:       opts.Debug,
	}
}

// Run performs one full analysis: account-wide totals and projection first,
// then the per-project breakdown. today anchors the days-remaining
// computation so runs are reproducible in tests. All-or-nothing: any failed
// fetch aborts the run and no partial report is returned.
func (a *Analyzer) Run(ctx context.Context, today time.Time) (*Report, error) {
	pastDay, err := a.source.AccountDailyCost(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching account daily cost: %w", err)
	}
	pastMonth, err := a.source.AccountMonthlyCost(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching account monthly cost: %w", err)
	}

	if pastDay.Currency != pastMonth.Currency {
		return nil, &CurrencyMismatchError{Daily: pastDay.Currency, Monthly: pastMonth.Currency}
	}

	daysRemaining := DaysRemainingInMonth(DaysInMonth(today.Month(), today.Year()), today)
	projected := ProjectedMonthlyCost(daysRemaining, pastDay.Cost, pastMonth.Cost)

	if a.debug {
		log.Printf("[analysis] days remaining in month: %d, projected cost: %.2f %s",
			daysRemaining, projected, pastDay.Currency)
	}

	breakdown, err := a.projectBreakdown(ctx)
	if err != nil {
		return nil, err
	}

	// Most expensive first; ties keep query-return order.
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].OneDayAgo.Cost > breakdown[j].OneDayAgo.Cost
	})

	return &Report{
		Breakdown: breakdown,
		Summary: Summary{
			PastDay:   pastDay,
			PastMonth: pastMonth,
			ProjectedCost: ProjectedCost{
				Cost:     projected,
				Currency: pastDay.Currency,
			},
		},
	}, nil
}

// projectBreakdown fetches the two-day comparison for every project with a
// bounded fan-out. Each project's data is independent and read-only, so the
// fetches run in parallel; the first captured error fails the whole run.
func (a *Analyzer) projectBreakdown(ctx context.Context) ([]ProjectReport, error) {
	ids, err := a.source.ListProjectIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing project ids: %w", err)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	reports := make([]ProjectReport, len(ids))
	sem := make(chan struct{}, a.concurrency)

	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			mu.Lock()
			abort := firstErr != nil
			mu.Unlock()
			if abort {
				return
			}

			report, err := a.analyzeProject(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			reports[i] = report
		}(i, id)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return reports, nil
}

func (a *Analyzer) analyzeProject(ctx context.Context, projectID string) (ProjectReport, error) {
	oneDayAgo, err := a.source.DailyCost(ctx, projectID, 1)
	if err != nil {
		return ProjectReport{}, fmt.Errorf("fetching yesterday's cost for %s: %w", projectID, err)
	}
	twoDaysAgo, err := a.source.DailyCost(ctx, projectID, 2)
	if err != nil {
		return ProjectReport{}, fmt.Errorf("fetching day-before cost for %s: %w", projectID, err)
	}

	status := ClassifyStatus(oneDayAgo.Cost, twoDaysAgo.Cost, a.threshold, a.minimum)
	report := ProjectReport{
		ProjectID:  projectID,
		OneDayAgo:  oneDayAgo,
		TwoDaysAgo: twoDaysAgo,
		Status:     status,
	}

	if status == StatusWarning {
		services, err := a.source.TopServices(ctx, projectID, a.topServices)
		if err != nil {
			return ProjectReport{}, fmt.Errorf("fetching top services for %s: %w", projectID, err)
		}
		if services == nil {
			// WARNING reports always carry the field, even when empty.
			services = []ServiceCost{}
		}
		if len(services) == 0 && oneDayAgo.Cost != 0 {
			// Breakdown didn't resolve even though the project billed
			// yesterday. Worth flagging but not fatal.
			log.Printf("[analysis] warning: no service breakdown for %s despite nonzero daily cost %.2f",
				projectID, oneDayAgo.Cost)
		}
		report.TopServices = services
	}

	return report, nil
}
