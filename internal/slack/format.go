package slack

import (
	"fmt"
	"strconv"

	"github.com/cloudbill/gbat/internal/analysis"
)

// FormatReport renders the analysis into the ordered message sequence the
// daily report sends: title, one ranking line per project (most expensive
// first), the top-services breakdown for projects on warning, then a divider
// and the account summary. Pure function: the same report always yields the
// same sequence, so the output is golden-testable.
func FormatReport(report *analysis.Report) []Message {
	messages := []Message{
		{Blocks: []Block{
			Section("*Daily Billing Analysis Report*"),
			Divider(),
		}},
	}

	for rank, project := range report.Breakdown {
		messages = append(messages, Message{Blocks: []Block{
			FieldSection(
				projectTitle(rank+1, project.ProjectID, project.Status),
				amount(project.OneDayAgo.Cost, project.OneDayAgo.Currency),
			),
		}})

		if project.Status != analysis.StatusWarning {
			continue
		}
		messages = append(messages, Message{Blocks: []Block{
			Section(fmt.Sprintf("*Top Services for %s*:", project.ProjectID)),
		}})
		for _, svc := range project.TopServices {
			messages = append(messages, Message{Blocks: []Block{
				FieldSection(
					fmt.Sprintf("- %s", svc.Service),
					amount(svc.Cost, svc.Currency),
				),
			}})
		}
	}

	messages = append(messages,
		Message{Blocks: []Block{Divider()}},
		Message{Blocks: []Block{Section("*Summary*")}},
		Message{Blocks: []Block{
			FieldSection(
				"Total Past Day:", amount(report.Summary.PastDay.Cost, report.Summary.PastDay.Currency),
				"Total Past Month:", amount(report.Summary.PastMonth.Cost, report.Summary.PastMonth.Currency),
				"Projected Cost:", amount(report.Summary.ProjectedCost.Cost, report.Summary.ProjectedCost.Currency),
			),
		}},
	)

	return messages
}

// ProjectLink builds the mrkdwn console link for a project id.
func ProjectLink(projectID string) string {
	return fmt.Sprintf("<https://console.cloud.google.com/home/dashboard?project=%s|%s>", projectID, projectID)
}

func projectTitle(rank int, projectID string, status analysis.Status) string {
	icon := ":white_check_mark:"
	if status == analysis.StatusWarning {
		icon = ":warning:"
	}
	return fmt.Sprintf("%s *%d. %s*", icon, rank, ProjectLink(projectID))
}

func amount(cost float64, currency string) string {
	return strconv.FormatFloat(cost, 'f', -1, 64) + " " + currency
}
