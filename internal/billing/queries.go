package billing

import "fmt"

// Table identifies the billing export table: host project, dataset, table.
type Table struct {
	Project string
	Dataset string
	Name    string
}

func (t Table) String() string {
	return fmt.Sprintf("%s.%s.%s", t.Project, t.Dataset, t.Name)
}

// The query texts below mirror how the billing export is queried in the
// BigQuery console: partition-time windows, grouped by currency. A project
// billing in more than one currency on the same day keeps only the first
// currency group (the GROUP BY currency LIMIT 1); the others are discarded.
// That is deliberate: summing across currencies would misstate cost.

func projectIDsQuery(t Table) string {
	return fmt.Sprintf(`SELECT DISTINCT project.id AS pid FROM %s;`, t)
}

func dailyCostQuery(t Table, projectID string, daysAgo int) string {
	return fmt.Sprintf(`
SELECT
  SUM(cost) AS cost,
  currency AS currency,
  TIMESTAMP_TRUNC(TIMESTAMP_SUB(CURRENT_TIMESTAMP(), INTERVAL %[2]d DAY), DAY) AS date
FROM %[1]s
WHERE
  _PARTITIONTIME BETWEEN TIMESTAMP_TRUNC(TIMESTAMP_SUB(CURRENT_TIMESTAMP(), INTERVAL %[2]d DAY), DAY)
  AND TIMESTAMP_TRUNC(TIMESTAMP_SUB(CURRENT_TIMESTAMP(), INTERVAL %[2]d DAY), DAY)
  AND project.id = '%[3]s'
GROUP BY currency
LIMIT 1;`, t, daysAgo, projectID)
}

func accountDailyCostQuery(t Table) string {
	return fmt.Sprintf(`
SELECT
  SUM(cost) AS cost,
  currency AS currency,
  DATE_SUB(CURRENT_DATE(), INTERVAL 1 DAY) AS date
FROM %s
WHERE
  CAST(DATE(_PARTITIONTIME) AS DATE) = DATE_SUB(CURRENT_DATE(), INTERVAL 1 DAY)
GROUP BY currency
LIMIT 1;`, t)
}

// The monthly window ends at the start of today (UTC), which is not the same
// calendar semantics as the rolling 24h window used for top services. Both
// are kept as-is.
func accountMonthlyCostQuery(t Table) string {
	return fmt.Sprintf(`
SELECT
  SUM(cost) AS cost,
  currency AS currency,
  TIMESTAMP_TRUNC(CURRENT_TIMESTAMP(), MONTH, 'UTC') AS date
FROM %s
WHERE
  _PARTITIONTIME BETWEEN TIMESTAMP_TRUNC(CURRENT_TIMESTAMP(), MONTH, 'UTC')
  AND TIMESTAMP_TRUNC(CURRENT_TIMESTAMP(), DAY, 'UTC')
GROUP BY currency
LIMIT 1;`, t)
}

func topServicesQuery(t Table, projectID string, limit int) string {
	return fmt.Sprintf(`
SELECT
  SUM(cost) AS cost,
  service.description AS service_desc,
  currency AS currency
FROM %[1]s
WHERE
  _PARTITIONTIME BETWEEN TIMESTAMP_TRUNC(TIMESTAMP_SUB(CURRENT_TIMESTAMP(), INTERVAL 24 HOUR), DAY)
  AND TIMESTAMP_TRUNC(CURRENT_TIMESTAMP(), DAY)
  AND project.id = '%[2]s'
GROUP BY service_desc, currency
ORDER BY cost DESC
LIMIT %[3]d;`, t, projectID, limit)
}
