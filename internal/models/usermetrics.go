package models

// UserMetricsEntry is one row of the per-user dashboard table, keyed by
// username in the response map. All display fields are pre-formatted strings;
// the numbers behind them are modeled from organization-wide totals, not a
// measured per-user signal. Entries live for one request only.
type UserMetricsEntry struct {
	AcceptanceRate    string         `json:"acceptanceRate"`
	TotalSuggestions  string         `json:"totalSuggestions"`
	ActiveDays        string         `json:"activeDays"`
	TimeSaved         string         `json:"timeSaved"`
	Languages         map[string]int `json:"languages"`
	MostUsedLanguages string         `json:"mostUsedLanguages"`
}
