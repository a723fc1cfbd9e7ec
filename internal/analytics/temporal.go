package analytics

import (
	"sort"
	"time"

	"catalogcli/pkg/contracts/domain"
)

// Aggregate builds every time-based aggregate of a catalog.
func Aggregate(titles []domain.Title) *domain.TemporalAggregates {
	types := ContentTypes(titles)
	return &domain.TemporalAggregates{
		Types:             types,
		ReleaseYearByType: ReleaseYearByType(titles, types),
		MonthAddedByType:  MonthAddedByType(titles, types),
		AdditionsByYear:   AdditionsByYear(titles),
		ContentAge:        ContentAgeByType(titles, types),
	}
}

// ContentTypes lists the non-empty types in first-seen order.
func ContentTypes(titles []domain.Title) []domain.ContentType {
	seen := make(map[domain.ContentType]bool)
	types := []domain.ContentType{}
	for _, t := range titles {
		if t.Type == "" || seen[t.Type] {
			continue
		}
		seen[t.Type] = true
		types = append(types, t.Type)
	}
	return types
}

func zeroCounts(types []domain.ContentType) map[domain.ContentType]int {
	counts := make(map[domain.ContentType]int, len(types))
	for _, ct := range types {
		counts[ct] = 0
	}
	return counts
}

// ReleaseYearByType counts titles per release year and type, years ascending.
// Titles without a type or a release year are left out.
func ReleaseYearByType(titles []domain.Title, types []domain.ContentType) []domain.YearTypeRow {
	byYear := make(map[int]*domain.YearTypeRow)
	for _, t := range titles {
		if t.Type == "" || !t.HasReleaseYear() {
			continue
		}
		row, ok := byYear[t.ReleaseYear]
		if !ok {
			row = &domain.YearTypeRow{Year: t.ReleaseYear, Counts: zeroCounts(types)}
			byYear[t.ReleaseYear] = row
		}
		row.Counts[t.Type]++
		row.Total++
	}

	rows := make([]domain.YearTypeRow, 0, len(byYear))
	for _, row := range byYear {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
	return rows
}

// MonthAddedByType counts titles per month of addition and type. All twelve
// months are present, January first. Titles without a month are left out.
func MonthAddedByType(titles []domain.Title, types []domain.ContentType) []domain.MonthTypeRow {
	rows := make([]domain.MonthTypeRow, 12)
	for i := range rows {
		rows[i] = domain.MonthTypeRow{Month: time.Month(i + 1), Counts: zeroCounts(types)}
	}
	for _, t := range titles {
		month, ok := t.MonthAdded()
		if !ok || t.Type == "" {
			continue
		}
		row := &rows[month-1]
		row.Counts[t.Type]++
		row.Total++
	}
	return rows
}

// AdditionsByYear counts titles per year added with a running total.
// Only years that occur are listed.
func AdditionsByYear(titles []domain.Title) []domain.YearTotal {
	counts := make(map[int]int)
	for _, t := range titles {
		if y, ok := t.YearAdded(); ok {
			counts[y]++
		}
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	totals := make([]domain.YearTotal, len(years))
	cumulative := 0
	for i, y := range years {
		cumulative += counts[y]
		totals[i] = domain.YearTotal{Year: y, Count: counts[y], Cumulative: cumulative}
	}
	return totals
}

// ContentAgeByType describes content age per type. Types without any
// measurable age are omitted.
func ContentAgeByType(titles []domain.Title, types []domain.ContentType) []domain.AgeStats {
	ages := make(map[domain.ContentType][]float64)
	for _, t := range titles {
		if age, ok := t.ContentAge(); ok && t.Type != "" {
			ages[t.Type] = append(ages[t.Type], float64(age))
		}
	}

	stats := make([]domain.AgeStats, 0, len(types))
	for _, ct := range types {
		values := ages[ct]
		if len(values) == 0 {
			continue
		}
		stats = append(stats, describe(ct, values))
	}
	return stats
}

func describe(ct domain.ContentType, values []float64) domain.AgeStats {
	sorted := sortedCopy(values)
	return domain.AgeStats{
		Type:   ct,
		Count:  len(sorted),
		Mean:   mean(sorted),
		Std:    sampleStd(sorted),
		Min:    sorted[0],
		Q25:    quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q75:    quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}
