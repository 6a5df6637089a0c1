package analytics

import (
	"math"
	"sort"
	"time"

	"backend-carbonwallet/internal/activity"
	"backend-carbonwallet/internal/emission"
)

const (
	dateLayout  = "2006-01-02"
	dailyWindow = 7
	week        = 7 * 24 * time.Hour
)

type DailyPoint struct {
	Date   string  `json:"date"`
	Carbon float64 `json:"carbon"`
	Cost   float64 `json:"cost"`
}

type TypeShare struct {
	Type   emission.ActivityType `json:"type"`
	Carbon float64               `json:"carbon"`
}

type WeekComparison struct {
	LastWeek float64 `json:"last_week"`
	ThisWeek float64 `json:"this_week"`
}

type Summary struct {
	TotalCarbon     float64        `json:"total_carbon"`
	TotalCost       float64        `json:"total_cost"`
	TotalActivities int            `json:"total_activities"`
	AvgDailyCarbon  float64        `json:"avg_daily_carbon"`
	Daily           []DailyPoint   `json:"daily"`
	ByType          []TypeShare    `json:"by_type"`
	Weekly          WeekComparison `json:"weekly"`
	Equivalency     Equivalency    `json:"equivalency"`
}

// Summarize aggregates a user's records. Dates are compared as UTC midnights
// of each record's activity date.
func Summarize(records []activity.Record, now time.Time) Summary {
	var s Summary
	daily := map[string]*DailyPoint{}
	byType := map[emission.ActivityType]float64{}

	oneWeekAgo := now.Add(-week)
	twoWeeksAgo := now.Add(-2 * week)
	var thisWeek, lastWeek float64

	for _, r := range records {
		s.TotalCarbon += r.CarbonEmitted
		s.TotalCost += r.CostSpent
		s.TotalActivities++

		point, ok := daily[r.ActivityDate]
		if !ok {
			point = &DailyPoint{Date: r.ActivityDate}
			daily[r.ActivityDate] = point
		}
		point.Carbon += r.CarbonEmitted
		point.Cost += r.CostSpent

		byType[r.Type] += r.CarbonEmitted

		day, err := time.Parse(dateLayout, r.ActivityDate)
		if err != nil {
			continue
		}
		switch {
		case !day.Before(oneWeekAgo):
			thisWeek += r.CarbonEmitted
		case !day.Before(twoWeeksAgo):
			lastWeek += r.CarbonEmitted
		}
	}

	if len(daily) > 0 {
		s.AvgDailyCarbon = round2(s.TotalCarbon / float64(len(daily)))
	}

	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) > dailyWindow {
		dates = dates[len(dates)-dailyWindow:]
	}
	s.Daily = make([]DailyPoint, 0, len(dates))
	for _, d := range dates {
		p := daily[d]
		s.Daily = append(s.Daily, DailyPoint{Date: d, Carbon: round2(p.Carbon), Cost: round2(p.Cost)})
	}

	s.ByType = make([]TypeShare, 0, len(byType))
	for t, carbon := range byType {
		s.ByType = append(s.ByType, TypeShare{Type: t, Carbon: round2(carbon)})
	}
	sort.Slice(s.ByType, func(i, j int) bool { return s.ByType[i].Type < s.ByType[j].Type })

	s.Weekly = WeekComparison{LastWeek: round2(lastWeek), ThisWeek: round2(thisWeek)}
	s.Equivalency = Equivalent(s.TotalCarbon)
	s.TotalCarbon = round2(s.TotalCarbon)
	s.TotalCost = round2(s.TotalCost)
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
