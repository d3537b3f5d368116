package models

import "time"

// UsageMetric is one daily GitHub Copilot usage record with nested
// editor/model/language breakdowns. Records are immutable once fetched;
// downstream code only reads them.
type UsageMetric struct {
	ID                        string              `json:"id,omitempty"`
	Date                      string              `json:"date"`
	TotalActiveUsers          int                 `json:"total_active_users"`
	TotalEngagedUsers         int                 `json:"total_engaged_users"`
	CopilotIdeCodeCompletions *IdeCodeCompletions `json:"copilot_ide_code_completions,omitempty"`
	Enterprise                string              `json:"enterprise,omitempty"`
	Organization              string              `json:"organization,omitempty"`
	Team                      string              `json:"team,omitempty"`
	LastUpdate                time.Time           `json:"last_update,omitempty"`
}

// IdeCodeCompletions holds IDE code completion metrics.
type IdeCodeCompletions struct {
	TotalEngagedUsers int                       `json:"total_engaged_users"`
	Editors           []IdeCodeCompletionEditor `json:"editors"`
}

// IdeCodeCompletionEditor holds editor-level completion metrics.
type IdeCodeCompletionEditor struct {
	Name              string                   `json:"name"`
	TotalEngagedUsers int                      `json:"total_engaged_users"`
	Models            []IdeCodeCompletionModel `json:"models"`
}

// IdeCodeCompletionModel holds model-level completion metrics.
type IdeCodeCompletionModel struct {
	Name              string                      `json:"name"`
	IsCustomModel     bool                        `json:"is_custom_model"`
	TotalEngagedUsers int                         `json:"total_engaged_users"`
	Languages         []IdeCodeCompletionLanguage `json:"languages"`
}

// IdeCodeCompletionLanguage is the leaf of the breakdown and carries the
// suggestion/acceptance counters the aggregator sums.
type IdeCodeCompletionLanguage struct {
	Name                    string `json:"name"`
	TotalEngagedUsers       int    `json:"total_engaged_users"`
	TotalCodeSuggestions    int    `json:"total_code_suggestions"`
	TotalCodeAcceptances    int    `json:"total_code_acceptances"`
	TotalCodeLinesSuggested int    `json:"total_code_lines_suggested"`
	TotalCodeLinesAccepted  int    `json:"total_code_lines_accepted"`
}

// MetricsResult is a list of usage metrics together with the verbatim API
// response text when the records came from the remote API. RawAPIResponse is
// empty for database-sourced results.
type MetricsResult struct {
	Metrics        []UsageMetric `json:"metrics"`
	RawAPIResponse string        `json:"rawApiResponse,omitempty"`
}
