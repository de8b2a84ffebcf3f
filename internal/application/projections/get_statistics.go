package projections

import (
	"context"
	"math"
	"sort"

	planStore "swimclub/internal/adapters/storage/plan"
	"swimclub/internal/application/stats"
	partyDomain "swimclub/internal/domain/party"
)

// StatisticsPlanStore defines the plan store interface for statistics.
type StatisticsPlanStore interface {
	ListEntries(ctx context.Context, partyID, from, to string) ([]planStore.Entry, error)
}

// StatisticsPartyStore defines the party store interface for statistics.
type StatisticsPartyStore interface {
	List(ctx context.Context) ([]partyDomain.Party, error)
}

// StatisticsInput selects the date range and party set to aggregate over.
// An empty PartyIDs defaults to every competitive party.
type StatisticsInput struct {
	From     string // YYYY-MM-DD inclusive
	To       string // YYYY-MM-DD inclusive
	PartyIDs []string
}

// StatisticsDeps holds dependencies for the statistics projection.
type StatisticsDeps struct {
	PlanStore  StatisticsPlanStore
	PartyStore StatisticsPartyStore
}

// DistributionSlice is one share of the stroke or intensity breakdown.
type DistributionSlice struct {
	Name    string
	Value   int
	Percent int
}

// WeekBucket aggregates one calendar week, keyed by its Monday.
type WeekBucket struct {
	Week         string // YYYY-MM-DD of the Monday
	Meters       int
	SessionCount int
}

// Statistics is the aggregate over planned sessions in a range.
type Statistics struct {
	TotalMeters           int
	SessionCount          int
	AvgMetersPerSession   int
	StrokeDistribution    []DistributionSlice
	IntensityDistribution []DistributionSlice
	MetersByWeek          []WeekBucket
}

// Norwegian display labels for the distribution slices.
var strokeLabels = map[string]string{
	"crawl":     "Crawl",
	"rygg":      "Rygg",
	"bryst":     "Bryst",
	"butterfly": "Butterfly",
	"medley":    "Medley",
}

var intensityLabels = map[string]string{
	"lett":    "Lett",
	"moderat": "Moderat",
	"høy":     "Høy",
	"topp":    "Topp",
}

// QueryStatistics aggregates planned sessions for the training dashboard.
// Meters come out of the free-text totals via digit-run summing, weeks are
// keyed by their local Monday.
// PRE: caller has statistics access
// POST: Returns zeroed aggregates (not an error) when nothing is planned
func QueryStatistics(ctx context.Context, input StatisticsInput, deps StatisticsDeps) (Statistics, error) {
	partySet, err := resolvePartyFilter(ctx, input.PartyIDs, deps.PartyStore)
	if err != nil {
		return Statistics{}, err
	}

	entries, err := deps.PlanStore.ListEntries(ctx, "", input.From, input.To)
	if err != nil {
		return Statistics{}, err
	}

	var result Statistics
	strokeCounts := make(map[string]int)
	intensityCounts := make(map[string]int)
	weeks := make(map[string]*WeekBucket)

	for _, e := range entries {
		if len(partySet) > 0 && !partySet[e.Plan.PartyID] {
			continue
		}

		meters := stats.ParseMeters(e.TotalMeters)
		result.TotalMeters += meters
		result.SessionCount++

		if e.FocusStroke != "" {
			strokeCounts[e.FocusStroke]++
		}
		if e.Intensity != "" {
			intensityCounts[e.Intensity]++
		}

		weekKey := stats.MondayOfWeek(e.Plan.PlannedDate)
		if weekKey == "" {
			continue
		}
		bucket, ok := weeks[weekKey]
		if !ok {
			bucket = &WeekBucket{Week: weekKey}
			weeks[weekKey] = bucket
		}
		bucket.Meters += meters
		bucket.SessionCount++
	}

	if result.SessionCount > 0 {
		result.AvgMetersPerSession = int(math.Round(float64(result.TotalMeters) / float64(result.SessionCount)))
	}
	result.StrokeDistribution = distribution(strokeCounts, strokeLabels)
	result.IntensityDistribution = distribution(intensityCounts, intensityLabels)

	for _, bucket := range weeks {
		result.MetersByWeek = append(result.MetersByWeek, *bucket)
	}
	sort.Slice(result.MetersByWeek, func(i, j int) bool {
		return result.MetersByWeek[i].Week < result.MetersByWeek[j].Week
	})
	return result, nil
}

// resolvePartyFilter turns the requested party ids into a membership set,
// defaulting to the competitive parties when none are given.
func resolvePartyFilter(ctx context.Context, partyIDs []string, store StatisticsPartyStore) (map[string]bool, error) {
	set := make(map[string]bool)
	if len(partyIDs) > 0 {
		for _, id := range partyIDs {
			set[id] = true
		}
		return set, nil
	}
	parties, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range parties {
		if p.Competitive {
			set[p.ID] = true
		}
	}
	return set, nil
}

// distribution converts raw counts into labelled slices with rounded
// percentages, ordered largest first.
func distribution(counts map[string]int, labels map[string]string) []DistributionSlice {
	total := 0
	for _, v := range counts {
		total += v
	}
	var out []DistributionSlice
	for key, value := range counts {
		name := labels[key]
		if name == "" {
			name = key
		}
		percent := 0
		if total > 0 {
			percent = int(math.Round(float64(value) / float64(total) * 100))
		}
		out = append(out, DistributionSlice{Name: name, Value: value, Percent: percent})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}
