package core

import "sort"

// DefaultPricePerVisit is charged for every attended visit unless configured otherwise.
const DefaultPricePerVisit int64 = 1250

// MonthlySummary is the billing total for a set of records.
type MonthlySummary struct {
	TotalCost     int64
	AttendedCount int
}

// Add combines two summaries of disjoint record sets.
func (s MonthlySummary) Add(other MonthlySummary) MonthlySummary {
	return MonthlySummary{
		TotalCost:     s.TotalCost + other.TotalCost,
		AttendedCount: s.AttendedCount + other.AttendedCount,
	}
}

// Summarize counts attended records and prices them at pricePerVisit.
func Summarize(records []AttendanceRecord, pricePerVisit int64) MonthlySummary {
	var s MonthlySummary
	for _, r := range records {
		if r.Attended {
			s.AttendedCount++
		}
	}
	s.TotalCost = int64(s.AttendedCount) * pricePerVisit
	return s
}

// DaySummary is the per-date breakdown shown next to the grid.
type DaySummary struct {
	Date          Date
	Scheduled     int
	AttendedCount int
	Earnings      int64
}

// SummarizeByDay returns one entry per date that has records, oldest first.
func SummarizeByDay(records []AttendanceRecord, pricePerVisit int64) []DaySummary {
	byDate := GroupByDate(records)
	out := make([]DaySummary, 0, len(byDate))
	for date, recs := range byDate {
		s := Summarize(recs, pricePerVisit)
		out = append(out, DaySummary{
			Date:          date,
			Scheduled:     len(recs),
			AttendedCount: s.AttendedCount,
			Earnings:      s.TotalCost,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
