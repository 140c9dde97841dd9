package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Colors for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// Formatter renders a Report for the terminal or as JSON.
type Formatter struct {
	format       string
	color        bool
	warningLabel string
	nominalLabel string
	printer      *message.Printer
}

// NewFormatter creates a formatter. format is "table" or "json"; the labels
// are the configured display strings for the two statuses.
func NewFormatter(format string, color bool, warningLabel, nominalLabel string) *Formatter {
	return &Formatter{
		format:       format,
		color:        color,
		warningLabel: warningLabel,
		nominalLabel: nominalLabel,
		printer:      message.NewPrinter(language.English),
	}
}

// FormatReport formats the full analysis report.
func (f *Formatter) FormatReport(report *Report) (string, error) {
	if f.format == "json" {
		return f.toJSON(report)
	}

	var sb strings.Builder

	sb.WriteString(f.header("Daily Billing Analysis"))

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPROJECT\tSTATUS\tYESTERDAY\tDAY BEFORE")
	fmt.Fprintln(w, "----\t-------\t------\t---------\t----------")
	for i, p := range report.Breakdown {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			i+1,
			p.ProjectID,
			f.statusLabel(p.Status),
			f.amount(p.OneDayAgo.Cost, p.OneDayAgo.Currency),
			f.amount(p.TwoDaysAgo.Cost, p.TwoDaysAgo.Currency))
	}
	w.Flush()
	sb.WriteString("\n")

	for _, p := range report.Breakdown {
		if p.Status != StatusWarning || len(p.TopServices) == 0 {
			continue
		}
		sb.WriteString(f.subheader(fmt.Sprintf("Top Services: %s", p.ProjectID)))
		w = tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tCOST")
		fmt.Fprintln(w, "-------\t----")
		for _, svc := range p.TopServices {
			fmt.Fprintf(w, "%s\t%s\n", svc.Service, f.amount(svc.Cost, svc.Currency))
		}
		w.Flush()
		sb.WriteString("\n")
	}

	sb.WriteString(f.subheader("Summary"))
	sb.WriteString(fmt.Sprintf("  Total Past Day:    %s\n",
		f.amount(report.Summary.PastDay.Cost, report.Summary.PastDay.Currency)))
	sb.WriteString(fmt.Sprintf("  Total Past Month:  %s\n",
		f.amount(report.Summary.PastMonth.Cost, report.Summary.PastMonth.Currency)))
	sb.WriteString(fmt.Sprintf("  Projected Cost:    %s\n",
		f.amount(report.Summary.ProjectedCost.Cost, report.Summary.ProjectedCost.Currency)))

	return sb.String(), nil
}

// FormatProjectIDs formats the project id list for the projects command.
func (f *Formatter) FormatProjectIDs(ids []string) (string, error) {
	if f.format == "json" {
		return f.toJSON(struct {
			Projects []string `json:"projects"`
		}{Projects: ids})
	}

	var sb strings.Builder
	sb.WriteString(f.header("Billing Projects"))
	for _, id := range ids {
		sb.WriteString(fmt.Sprintf("  %s\n", id))
	}
	return sb.String(), nil
}

func (f *Formatter) statusLabel(s Status) string {
	if s == StatusWarning {
		if f.color {
			return fmt.Sprintf("%s%s%s", colorRed, f.warningLabel, colorReset)
		}
		return f.warningLabel
	}
	if f.color {
		return fmt.Sprintf("%s%s%s", colorGreen, f.nominalLabel, colorReset)
	}
	return f.nominalLabel
}

func (f *Formatter) amount(cost float64, currency string) string {
	return f.printer.Sprintf("%.2f %s", cost, currency)
}

func (f *Formatter) header(text string) string {
	if f.color {
		return fmt.Sprintf("\n%s%s=== %s ===%s\n\n", colorBold, colorCyan, text, colorReset)
	}
	return fmt.Sprintf("\n=== %s ===\n\n", text)
}

func (f *Formatter) subheader(text string) string {
	if f.color {
		return fmt.Sprintf("%s%s%s%s\n", colorBold, colorYellow, text, colorReset)
	}
	return fmt.Sprintf("%s\n", text)
}

func (f *Formatter) toJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(data), nil
}

// Print outputs to stdout
func (f *Formatter) Print(output string) {
	fmt.Fprint(os.Stdout, output)
}
