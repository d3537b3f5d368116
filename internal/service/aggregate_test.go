package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/platform-engineering/copilot-usage-dashboard/internal/models"
)

func metricWithLanguages(langs ...models.IdeCodeCompletionLanguage) models.UsageMetric {
	return models.UsageMetric{
		CopilotIdeCodeCompletions: &models.IdeCodeCompletions{
			Editors: []models.IdeCodeCompletionEditor{{
				Name:   "vscode",
				Models: []models.IdeCodeCompletionModel{{Name: "default", Languages: langs}},
			}},
		},
	}
}

func TestAggregateSumsAcrossRecords(t *testing.T) {
	records := []models.UsageMetric{
		metricWithLanguages(
			models.IdeCodeCompletionLanguage{Name: "go", TotalCodeSuggestions: 100, TotalCodeAcceptances: 40},
			models.IdeCodeCompletionLanguage{Name: "python", TotalCodeSuggestions: 50, TotalCodeAcceptances: 10},
		),
		metricWithLanguages(
			models.IdeCodeCompletionLanguage{Name: "go", TotalCodeSuggestions: 25, TotalCodeAcceptances: 5},
		),
	}

	totals := Aggregate(records)
	require.True(t, totals.Valid)
	require.Equal(t, 175, totals.TotalSuggestions)
	require.Equal(t, 55, totals.TotalAcceptances)
	require.Equal(t, map[string]int{"go": 125, "python": 50}, totals.LanguageTotals)
}

func TestAggregateToleratesPartialShapes(t *testing.T) {
	records := []models.UsageMetric{
		{}, // no completions at all
		{CopilotIdeCodeCompletions: &models.IdeCodeCompletions{}}, // no editors
		metricWithLanguages(), // editor and model but no languages
		{CopilotIdeCodeCompletions: &models.IdeCodeCompletions{
			Editors: []models.IdeCodeCompletionEditor{{Name: "jetbrains"}}, // no models
		}},
		metricWithLanguages(models.IdeCodeCompletionLanguage{Name: "ruby", TotalCodeSuggestions: 7, TotalCodeAcceptances: 3}),
	}

	totals := Aggregate(records)
	require.Equal(t, 7, totals.TotalSuggestions)
	require.Equal(t, 3, totals.TotalAcceptances)
	require.Equal(t, map[string]int{"ruby": 7}, totals.LanguageTotals)
}

func TestAggregateEmptyIsInvalid(t *testing.T) {
	totals := Aggregate(nil)
	require.False(t, totals.Valid)
	require.Zero(t, totals.TotalSuggestions)
	require.Empty(t, totals.LanguageTotals)

	totals = Aggregate([]models.UsageMetric{{}})
	require.False(t, totals.Valid)
}

func TestAggregateLeavesRecordsUntouched(t *testing.T) {
	record := metricWithLanguages(models.IdeCodeCompletionLanguage{Name: "go", TotalCodeSuggestions: 10})
	records := []models.UsageMetric{record}

	Aggregate(records)
	Aggregate(records)

	require.Equal(t, 10, records[0].CopilotIdeCodeCompletions.Editors[0].Models[0].Languages[0].TotalCodeSuggestions)
}
