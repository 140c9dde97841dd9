package billing

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/oauth2/google"
	bigquery "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/option"
)

// queryTimeoutMs is how long a single jobs.query call may run server-side.
const queryTimeoutMs = 30000

// BigQueryRunner executes queries through the BigQuery jobs.query API.
// Credentials come from Application Default Credentials, so the job works
// both on GCP and locally with GOOGLE_APPLICATION_CREDENTIALS.
type BigQueryRunner struct {
	service   *bigquery.Service
	projectID string
	debug     bool
}

// NewBigQueryRunner authenticates and builds a runner that bills queries to
// the given project.
func NewBigQueryRunner(ctx context.Context, projectID string, debug bool) (*BigQueryRunner, error) {
	creds, err := google.FindDefaultCredentials(ctx, bigquery.BigqueryScope)
	if err != nil {
		return nil, fmt.Errorf("failed to find GCP credentials: %w", err)
	}

	service, err := bigquery.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery service: %w", err)
	}

	return &BigQueryRunner{
		service:   service,
		projectID: projectID,
		debug:     debug,
	}, nil
}

// Run executes one standard-SQL query and maps the response rows by output
// column name.
func (b *BigQueryRunner) Run(ctx context.Context, sql string) ([]Row, error) {
	useLegacySql := false
	req := &bigquery.QueryRequest{
		Query:     sql,
		TimeoutMs: queryTimeoutMs,
		// The API defaults to legacy SQL; the zero value has to be sent
		// explicitly.
		UseLegacySql:    &useLegacySql,
		ForceSendFields: []string{"UseLegacySql"},
	}

	resp, err := b.service.Jobs.Query(b.projectID, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	if !resp.JobComplete {
		// No retry policy at this layer: an unfinished job inside the
		// server-side timeout aborts the run.
		return nil, fmt.Errorf("query did not complete within %dms", queryTimeoutMs)
	}

	if resp.Schema == nil {
		return nil, nil
	}
	columns := make([]string, len(resp.Schema.Fields))
	for i, f := range resp.Schema.Fields {
		columns[i] = f.Name
	}

	rows := make([]Row, 0, len(resp.Rows))
	for _, tr := range resp.Rows {
		row := make(Row, len(columns))
		for i, cell := range tr.F {
			if i >= len(columns) {
				break
			}
			row[columns[i]] = cell.V
		}
		rows = append(rows, row)
	}

	if b.debug {
		log.Printf("[billing] query returned %d rows", len(rows))
	}
	return rows, nil
}
