package service

import "github.com/platform-engineering/copilot-usage-dashboard/internal/models"

// AggregateTotals holds organization-wide suggestion/acceptance sums and
// per-language suggestion totals.
type AggregateTotals struct {
	TotalSuggestions int
	TotalAcceptances int
	LanguageTotals   map[string]int

	// Valid is set when at least one record carried the IDE code
	// completions breakdown. Without it the distributor switches to fully
	// synthetic values.
	Valid bool
}

// Aggregate walks the editor > model > language breakdown of every record
// and accumulates totals. Records missing any level of the nested shape
// contribute nothing and are skipped; metrics payloads vary by API version,
// so partial shapes are expected, not errors. Iteration order does not
// affect the result.
func Aggregate(records []models.UsageMetric) AggregateTotals {
	totals := AggregateTotals{LanguageTotals: map[string]int{}}

	for _, record := range records {
		completions := record.CopilotIdeCodeCompletions
		if completions == nil || completions.Editors == nil {
			continue
		}
		for _, editor := range completions.Editors {
			for _, model := range editor.Models {
				for _, lang := range model.Languages {
					totals.TotalSuggestions += lang.TotalCodeSuggestions
					totals.TotalAcceptances += lang.TotalCodeAcceptances
					if lang.Name != "" {
						totals.LanguageTotals[lang.Name] += lang.TotalCodeSuggestions
					}
				}
			}
		}
		totals.Valid = true
	}

	return totals
}
