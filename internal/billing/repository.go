package billing

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/cloudbill/gbat/internal/analysis"
)

// Row is one result row, keyed by the query's output column names.
type Row map[string]any

// QueryRunner executes one SQL statement against the analytical store and
// returns its rows. Implementations own transport, auth and timeouts.
type QueryRunner interface {
	Run(ctx context.Context, sql string) ([]Row, error)
}

// Repository answers billing questions by querying the export table and
// mapping rows into the analysis data model. Costs are rounded here, once,
// on the way out; everything downstream sees already-rounded values.
type Repository struct {
	runner    QueryRunner
	table     Table
	precision int
	debug     bool
}

// NewRepository creates a repository over the given runner and table.
func NewRepository(runner QueryRunner, table Table, precision int, debug bool) *Repository {
	return &Repository{
		runner:    runner,
		table:     table,
		precision: precision,
		debug:     debug,
	}
}

var _ analysis.CostSource = (*Repository)(nil)

// ListProjectIDs returns every distinct non-null project id in the table,
// in query-return order.
func (r *Repository) ListProjectIDs(ctx context.Context) ([]string, error) {
	rows, err := r.query(ctx, "list project ids", projectIDsQuery(r.table))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		id, ok := stringField(row, "pid")
		if !ok || id == "" {
			// Rows without a project id (e.g. account-level charges) are
			// skipped, matching the export's nullable project.id.
			continue
		}
		ids = append(ids, id)
	}
	if r.debug {
		log.Printf("[billing] found %d projects in %s", len(ids), r.table)
	}
	return ids, nil
}

// DailyCost aggregates one project's cost for the UTC calendar day
// today-daysAgo. Returns ErrNoData when the project has no billing rows for
// that day.
func (r *Repository) DailyCost(ctx context.Context, projectID string, daysAgo int) (analysis.CostRecord, error) {
	op := fmt.Sprintf("daily cost for %s (%d days ago)", projectID, daysAgo)
	rows, err := r.query(ctx, op, dailyCostQuery(r.table, projectID, daysAgo))
	if err != nil {
		return analysis.CostRecord{}, err
	}
	return r.costRecord(op, rows)
}

// AccountDailyCost aggregates yesterday's cost across all projects.
func (r *Repository) AccountDailyCost(ctx context.Context) (analysis.CostRecord, error) {
	const op = "account daily cost"
	rows, err := r.query(ctx, op, accountDailyCostQuery(r.table))
	if err != nil {
		return analysis.CostRecord{}, err
	}
	return r.costRecord(op, rows)
}

// AccountMonthlyCost aggregates cost from the start of the current UTC month
// up to the start of today.
func (r *Repository) AccountMonthlyCost(ctx context.Context) (analysis.CostRecord, error) {
	const op = "account monthly cost"
	rows, err := r.query(ctx, op, accountMonthlyCostQuery(r.table))
	if err != nil {
		return analysis.CostRecord{}, err
	}
	return r.costRecord(op, rows)
}

// TopServices returns the project's highest-costing services over the
// trailing 24 hours, descending, at most limit rows. An empty result is
// valid and not an error.
func (r *Repository) TopServices(ctx context.Context, projectID string, limit int) ([]analysis.ServiceCost, error) {
	op := fmt.Sprintf("top services for %s", projectID)
	rows, err := r.query(ctx, op, topServicesQuery(r.table, projectID, limit))
	if err != nil {
		return nil, err
	}

	services := make([]analysis.ServiceCost, 0, len(rows))
	for _, row := range rows {
		cost, ok := floatField(row, "cost")
		if !ok {
			return nil, &QueryError{Op: op, Err: fmt.Errorf("row missing cost field")}
		}
		name, _ := stringField(row, "service_desc")
		currency, _ := stringField(row, "currency")
		services = append(services, analysis.ServiceCost{
			Service:  name,
			Cost:     analysis.RoundCost(cost, r.precision),
			Currency: currency,
		})
	}
	return services, nil
}

func (r *Repository) query(ctx context.Context, op, sql string) ([]Row, error) {
	if r.debug {
		log.Printf("[billing] query: %s", op)
	}
	rows, err := r.runner.Run(ctx, sql)
	if err != nil {
		return nil, &QueryError{Op: op, Err: err}
	}
	return rows, nil
}

// costRecord maps the single expected aggregate row. The queries group by
// currency with LIMIT 1, so at most one row arrives; zero rows means the
// window had no billing at all.
func (r *Repository) costRecord(op string, rows []Row) (analysis.CostRecord, error) {
	if len(rows) == 0 {
		return analysis.CostRecord{}, fmt.Errorf("%s: %w", op, ErrNoData)
	}
	row := rows[0]

	cost, ok := floatField(row, "cost")
	if !ok {
		return analysis.CostRecord{}, fmt.Errorf("%s: row missing cost field: %w", op, ErrNoData)
	}
	currency, ok := stringField(row, "currency")
	if !ok {
		return analysis.CostRecord{}, fmt.Errorf("%s: row missing currency field: %w", op, ErrNoData)
	}
	date, _ := timeField(row, "date")

	return analysis.CostRecord{
		Cost:     analysis.RoundCost(cost, r.precision),
		Currency: currency,
		Date:     date,
	}, nil
}

// Field helpers. BigQuery's REST transport returns every cell as a string;
// a fake runner in tests may hand over native types. Both are accepted.

func stringField(row Row, name string) (string, bool) {
	v, ok := row[name]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func floatField(row Row, name string) (float64, bool) {
	v, ok := row[name]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func timeField(row Row, name string) (time.Time, bool) {
	v, ok := row[name]
	if !ok || v == nil {
		return time.Time{}, false
	}
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		// Timestamps arrive as fractional epoch seconds, dates as
		// YYYY-MM-DD.
		if f, err := strconv.ParseFloat(d, 64); err == nil {
			sec := int64(f)
			nsec := int64((f - float64(sec)) * 1e9)
			return time.Unix(sec, nsec).UTC(), true
		}
		if t, err := time.Parse("2006-01-02", d); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			return t, true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
