package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/platform-engineering/copilot-usage-dashboard/internal/models"
)

const (
	activityWindowDays   = 30
	weightFloor          = 0.2
	secondsPerAcceptance = 15
)

// Rand supplies the randomness used by the distributor. It stands in for
// unobserved real acceptance behavior, so tests swap in fixed sequences.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Language vocabulary used when no real language data exists.
var fallbackLanguages = []string{"TypeScript", "JavaScript", "Python", "Java", "C#", "Go", "Ruby", "PHP"}

var countPrinter = message.NewPrinter(language.English)

// seatActive applies the 30-day recency rule: last activity on or after
// now minus 30 days.
func seatActive(seat models.Seat, now time.Time) bool {
	if seat.LastActivityAt == nil {
		return false
	}
	return !seat.LastActivityAt.Before(now.AddDate(0, 0, -activityWindowDays))
}

// activityWeight decays linearly from 1.0 (activity today) to a 0.2 floor
// at thirty days of inactivity.
func activityWeight(lastActivity, now time.Time) float64 {
	days := math.Floor(now.Sub(lastActivity).Hours() / 24)
	return math.Max(weightFloor, 1.0-(days/activityWindowDays)*0.8)
}

// usageFactor buckets active seats round-robin into high/medium/low usage
// tiers, scaled by recency weight. The bucket is positional, not a measured
// per-user signal; it only shapes a plausible spread.
func usageFactor(index int, weight float64) float64 {
	switch index % 3 {
	case 0:
		return 0.4 * weight
	case 1:
		return 0.25 * weight
	default:
		return 0.15 * weight
	}
}

// DistributeUserMetrics spreads organization-wide totals across individual
// seats. Every seat in the input gets an entry: active seats receive a
// weighted share of the totals (or fully synthetic values when no aggregate
// metrics exist), inactive seats receive zeros, so the output key set always
// equals the seat list's username set.
func DistributeUserMetrics(seats []models.Seat, totals AggregateTotals, now time.Time, rng Rand) map[string]models.UserMetricsEntry {
	entries := make(map[string]models.UserMetricsEntry, len(seats))

	var active []models.Seat
	for _, seat := range seats {
		if seatActive(seat, now) {
			active = append(active, seat)
		}
	}
	totalActive := len(active)

	for index, seat := range active {
		weight := activityWeight(*seat.LastActivityAt, now)
		factor := usageFactor(index, weight)

		var suggestions, acceptances, activeDays, timeSaved int
		languages := map[string]int{}

		if totals.Valid && totalActive > 0 {
			suggestions = int(math.Round(float64(totals.TotalSuggestions) * factor / float64(totalActive)))
			acceptanceRate := 0.2 + rng.Float64()*0.6
			acceptances = int(math.Round(float64(suggestions) * acceptanceRate))
			activeDays = int(math.Round(5 + 25*factor))
			timeSaved = acceptances * secondsPerAcceptance

			keys := sortedKeys(totals.LanguageTotals)
			if len(keys) > 0 {
				count := 1 + rng.Intn(3)
				shuffle(keys, rng)
				picked := min(count, len(keys))
				sharingUsers := float64(totalActive) / float64(min(count, len(totals.LanguageTotals)))
				for _, lang := range keys[:picked] {
					languages[lang] = int(math.Round(float64(totals.LanguageTotals[lang]) * factor / sharingUsers))
				}
			}
		} else {
			suggestions = int(math.Round(100 + rng.Float64()*1000*factor))
			acceptanceRate := 0.2 + rng.Float64()*0.6
			acceptances = int(math.Round(float64(suggestions) * acceptanceRate))
			activeDays = int(math.Round(5 + 25*factor))
			timeSaved = acceptances * secondsPerAcceptance

			vocab := append([]string(nil), fallbackLanguages...)
			shuffle(vocab, rng)
			count := 1 + rng.Intn(3)
			for _, lang := range vocab[:count] {
				languages[lang] = int(math.Round(20 + rng.Float64()*200*factor))
			}
		}

		entries[seat.Assignee.Login] = formatEntry(suggestions, acceptances, activeDays, timeSaved, languages)
	}

	// Inactive seats still appear, zero-valued, so the table is complete.
	for _, seat := range seats {
		if _, ok := entries[seat.Assignee.Login]; !ok {
			entries[seat.Assignee.Login] = formatEntry(0, 0, 0, 0, map[string]int{})
		}
	}

	return entries
}

func formatEntry(suggestions, acceptances, activeDays, timeSavedSeconds int, languages map[string]int) models.UserMetricsEntry {
	return models.UserMetricsEntry{
		AcceptanceRate:    formatAcceptanceRate(acceptances, suggestions),
		TotalSuggestions:  countPrinter.Sprintf("%d", suggestions),
		ActiveDays:        strconv.Itoa(activeDays),
		TimeSaved:         formatTimeSaved(timeSavedSeconds),
		Languages:         languages,
		MostUsedLanguages: topLanguages(languages),
	}
}

func formatAcceptanceRate(acceptances, suggestions int) string {
	rate := 0.0
	if acceptances > 0 && suggestions > 0 {
		rate = float64(acceptances) / float64(suggestions) * 100
	}
	return fmt.Sprintf("%.1f%%", rate)
}

// formatTimeSaved renders seconds as "{h}h {m}m" past the first hour and
// "{m}m" below it.
func formatTimeSaved(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// topLanguages joins the top three languages by count descending, ties
// broken by name so output is stable.
func topLanguages(languages map[string]int) string {
	if len(languages) == 0 {
		return "None"
	}
	names := sortedKeys(languages)
	sort.SliceStable(names, func(i, j int) bool {
		return languages[names[i]] > languages[names[j]]
	})
	if len(names) > 3 {
		names = names[:3]
	}
	out := names[0]
	for _, name := range names[1:] {
		out += ", " + name
	}
	return out
}

// sortedKeys returns map keys alphabetically, giving the shuffle a
// deterministic base order.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func shuffle(items []string, rng Rand) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
