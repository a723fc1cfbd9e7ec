package analytics

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	apperrors "catalogcli/internal/errors"
	"catalogcli/pkg/contracts/domain"
)

// Field names reported by the missing-value report, in tie-break order.
var summaryFields = []string{
	"title", "type", "director", "cast", "country",
	"date_added", "release_year", "rating", "duration", "listed_in",
}

// Summarizer computes the headline statistics of a catalog.
type Summarizer struct {
	logger *slog.Logger
	topN   int
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	TopN int // entries kept in the country, director and actor rankings
}

// DefaultSummarizerConfig returns the default configuration
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{TopN: 10}
}

// NewSummarizer creates a summarizer. A nil logger falls back to the default.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopN <= 0 {
		config.TopN = DefaultSummarizerConfig().TopN
	}
	return &Summarizer{
		logger: logger.With(slog.String("component", "summarizer")),
		topN:   config.TopN,
	}
}

// Summarize computes the descriptive summary. An empty catalog is an
// empty-dataset error. A catalog without any parseable date still
// summarizes, with LatestAddition left nil.
func (s *Summarizer) Summarize(ctx context.Context, titles []domain.Title) (*domain.DescriptiveSummary, error) {
	if len(titles) == 0 {
		return nil, apperrors.NewEmptyDatasetError("descriptive summary")
	}

	summary := &domain.DescriptiveSummary{
		TotalTitles:        len(titles),
		TypeDistribution:   TypeDistribution(titles),
		MissingValues:      MissingValues(titles),
		RatingDistribution: RatingDistribution(titles),
		TopCountries:       CountCountries(titles).Top(s.topN),
		TopDirectors:       CountDirectors(titles).Top(s.topN),
		TopActors:          CountActors(titles).Top(s.topN),
	}

	if lo, hi, ok := ReleaseYearRange(titles); ok {
		summary.ReleaseYearMin = intPtr(lo)
		summary.ReleaseYearMax = intPtr(hi)
	}

	latest, err := LatestAddition(titles)
	switch {
	case err == nil:
		summary.LatestAddition = &latest
	case errors.Is(err, apperrors.ErrEmptyDataset):
		s.logger.WarnContext(ctx, "latest addition unavailable", slog.String("reason", err.Error()))
	default:
		return nil, err
	}

	var yearsAdded, releaseYears []int
	var minutes, seasons []float64
	for _, t := range titles {
		if y, ok := t.YearAdded(); ok {
			yearsAdded = append(yearsAdded, y)
		}
		if t.HasReleaseYear() {
			releaseYears = append(releaseYears, t.ReleaseYear)
		}
		if m, ok := t.Duration.Minutes(); ok {
			minutes = append(minutes, float64(m))
		}
		if n, ok := t.Duration.Seasons(); ok {
			seasons = append(seasons, float64(n))
		}
	}

	if y, ok := mode(yearsAdded); ok {
		summary.ModeYearAdded = intPtr(y)
	}
	if y, ok := mode(releaseYears); ok {
		summary.ModeReleaseYear = intPtr(y)
	}
	if len(minutes) > 0 {
		summary.MeanDurationMinutes = floatPtr(mean(minutes))
	}
	if len(seasons) > 0 {
		summary.MeanDurationSeasons = floatPtr(mean(seasons))
	}

	s.logger.InfoContext(ctx, "summary computed",
		slog.Int("titles", summary.TotalTitles),
		slog.Int("types", len(summary.TypeDistribution)))

	return summary, nil
}

// LatestAddition returns the most recent date a title was added.
func LatestAddition(titles []domain.Title) (time.Time, error) {
	var latest time.Time
	found := false
	for _, t := range titles {
		if t.DateAdded == nil {
			continue
		}
		if !found || t.DateAdded.After(latest) {
			latest = *t.DateAdded
			found = true
		}
	}
	if !found {
		return time.Time{}, apperrors.NewEmptyDatasetError("latest addition")
	}
	return latest, nil
}

// ReleaseYearRange returns the earliest and latest known release years.
func ReleaseYearRange(titles []domain.Title) (int, int, bool) {
	lo, hi, found := 0, 0, false
	for _, t := range titles {
		if !t.HasReleaseYear() {
			continue
		}
		if !found || t.ReleaseYear < lo {
			lo = t.ReleaseYear
		}
		if !found || t.ReleaseYear > hi {
			hi = t.ReleaseYear
		}
		found = true
	}
	return lo, hi, found
}

// TypeDistribution lists each type with its share of the titles that have
// one, by count descending and first-seen order on ties.
func TypeDistribution(titles []domain.Title) []domain.Share {
	ft := NewFrequencyTable()
	typed := 0
	for _, t := range titles {
		if t.Type == "" {
			continue
		}
		ft.AddRecord([]string{string(t.Type)})
		typed++
	}
	return shares(ft.Entries(), typed)
}

// RatingDistribution lists every rating category in display order.
func RatingDistribution(titles []domain.Title) []domain.Share {
	counts := make(map[domain.RatingCategory]int, len(domain.RatingCategories))
	for _, t := range titles {
		counts[t.RatingCategory]++
	}
	entries := make([]domain.LabelCount, len(domain.RatingCategories))
	for i, cat := range domain.RatingCategories {
		entries[i] = domain.LabelCount{Label: string(cat), Count: counts[cat]}
	}
	return shares(entries, len(titles))
}

func shares(entries []domain.LabelCount, total int) []domain.Share {
	out := make([]domain.Share, len(entries))
	for i, e := range entries {
		out[i] = domain.Share{Value: e.Label, Count: e.Count}
		if total > 0 {
			out[i].Proportion = float64(e.Count) / float64(total)
		}
	}
	return out
}

// MissingValues counts absent values per field, most missing first.
// Values that failed to parse count as missing.
func MissingValues(titles []domain.Title) []domain.FieldMissing {
	report := make([]domain.FieldMissing, len(summaryFields))
	for i, field := range summaryFields {
		report[i].Field = field
	}

	blank := func(s string) bool { return strings.TrimSpace(s) == "" }
	for _, t := range titles {
		src := t.Source
		missing := [...]bool{
			blank(src.Title),
			blank(src.Type),
			blank(src.Director),
			blank(src.Cast),
			blank(src.Country),
			t.DateAdded == nil,
			!t.HasReleaseYear(),
			blank(src.Rating),
			!t.Duration.IsKnown(),
			blank(src.ListedIn),
		}
		for i, m := range missing {
			if m {
				report[i].Missing++
			}
		}
	}

	sort.SliceStable(report, func(i, j int) bool {
		return report[i].Missing > report[j].Missing
	})
	return report
}
