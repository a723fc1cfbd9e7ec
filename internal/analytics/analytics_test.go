package analytics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "catalogcli/internal/errors"
	"catalogcli/pkg/contracts/domain"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func movie(name string, release int, added *time.Time, minutes int, genres ...string) domain.Title {
	return domain.Title{
		Source:         domain.RawTitle{Title: name, Type: "Movie", Director: "d", Cast: "c", ListedIn: "x", Rating: "R", Country: "US"},
		Type:           domain.ContentTypeMovie,
		Name:           name,
		ReleaseYear:    release,
		DateAdded:      added,
		Country:        "United States",
		Duration:       domain.MinutesDuration(minutes),
		Genres:         append([]string{}, genres...),
		Directors:      []string{},
		Actors:         []string{},
		RatingCategory: domain.RatingAdult,
	}
}

func show(name string, release int, added *time.Time, seasons int, genres ...string) domain.Title {
	return domain.Title{
		Source:         domain.RawTitle{Title: name, Type: "TV Show", Director: "d", Cast: "c", ListedIn: "x", Rating: "TV-Y", Country: "JP"},
		Type:           domain.ContentTypeTVShow,
		Name:           name,
		ReleaseYear:    release,
		DateAdded:      added,
		Country:        "Japan",
		Duration:       domain.SeasonsDuration(seasons),
		Genres:         append([]string{}, genres...),
		Directors:      []string{},
		Actors:         []string{},
		RatingCategory: domain.RatingKids,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestExpandGenres_Example(t *testing.T) {
	titles := []domain.Title{
		movie("a", 2000, nil, 90, "Drama", "Comedy"),
		movie("b", 2000, nil, 90, "Drama"),
	}

	ft := ExpandGenres(titles)

	assert.Equal(t, map[string]int{"Drama": 2, "Comedy": 1}, ft.Map())
	assert.Equal(t, []domain.LabelCount{{Label: "Drama", Count: 2}}, ft.Top(1))
}

func TestFrequencyTable(t *testing.T) {
	ft := NewFrequencyTable()
	ft.AddRecord([]string{"Comedy", "Drama", "Comedy"})
	ft.AddRecord([]string{"Horror"})
	ft.AddRecord([]string{"Drama", "Horror", "Action"})
	ft.AddRecord([]string{})
	ft.AddRecord(nil)

	assert.Equal(t, 1, ft.Count("Comedy"), "duplicates within a record count once")
	assert.Equal(t, 4, ft.Len())

	// Drama and Horror tie at 2, Drama was seen first; Comedy and Action tie at 1
	assert.Equal(t, []domain.LabelCount{
		{Label: "Drama", Count: 2},
		{Label: "Horror", Count: 2},
		{Label: "Comedy", Count: 1},
		{Label: "Action", Count: 1},
	}, ft.Entries())

	assert.Len(t, ft.Top(10), 4)
	assert.Empty(t, ft.Top(0))
	assert.Empty(t, NewFrequencyTable().Top(3))
}

func TestFrequencyTable_CaseSensitive(t *testing.T) {
	ft := NewFrequencyTable()
	ft.AddRecord([]string{"drama", "Drama"})
	assert.Equal(t, 2, ft.Len())
}

func TestMode(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   int
		ok     bool
	}{
		{"empty", nil, 0, false},
		{"single", []int{2019}, 2019, true},
		{"clear winner", []int{2018, 2019, 2019, 2020}, 2019, true},
		{"tie takes smallest", []int{2021, 2020, 2021, 2020, 2019}, 2020, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mode(tt.values)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuantileAndStd(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, quantile(sorted, 0.25), 1e-9)
	assert.InDelta(t, 2.5, quantile(sorted, 0.5), 1e-9)
	assert.InDelta(t, 3.25, quantile(sorted, 0.75), 1e-9)
	assert.Equal(t, 1.0, quantile(sorted, 0))
	assert.Equal(t, 4.0, quantile(sorted, 1))
	assert.Equal(t, 0.0, quantile(nil, 0.5))

	assert.InDelta(t, math.Sqrt(5.0/3.0), sampleStd(sorted), 1e-9)
	assert.Equal(t, 0.0, sampleStd([]float64{7}))
	assert.Equal(t, 0.0, mean(nil))
}

func TestSummarize(t *testing.T) {
	titles := []domain.Title{
		movie("a", 2019, date(2020, time.March, 1), 90),
		movie("b", 2020, date(2021, time.June, 1), 110),
		show("c", 2015, date(2021, time.January, 9), 3),
		show("d", 2020, nil, 1),
	}

	s := NewSummarizer(quietLogger(), SummarizerConfig{TopN: 1})
	summary, err := s.Summarize(context.Background(), titles)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalTitles)
	require.NotNil(t, summary.ReleaseYearMin)
	assert.Equal(t, 2015, *summary.ReleaseYearMin)
	assert.Equal(t, 2020, *summary.ReleaseYearMax)

	require.NotNil(t, summary.LatestAddition)
	assert.True(t, date(2021, time.June, 1).Equal(*summary.LatestAddition))

	assert.Equal(t, []domain.Share{
		{Value: "Movie", Count: 2, Proportion: 0.5},
		{Value: "TV Show", Count: 2, Proportion: 0.5},
	}, summary.TypeDistribution)

	require.NotNil(t, summary.ModeYearAdded)
	assert.Equal(t, 2021, *summary.ModeYearAdded)
	require.NotNil(t, summary.ModeReleaseYear)
	assert.Equal(t, 2020, *summary.ModeReleaseYear)

	// means only over records carrying the unit
	require.NotNil(t, summary.MeanDurationMinutes)
	assert.InDelta(t, 100.0, *summary.MeanDurationMinutes, 1e-9)
	require.NotNil(t, summary.MeanDurationSeasons)
	assert.InDelta(t, 2.0, *summary.MeanDurationSeasons, 1e-9)

	assert.Equal(t, "date_added", summary.MissingValues[0].Field)
	assert.Equal(t, 1, summary.MissingValues[0].Missing)

	assert.Len(t, summary.TopCountries, 1)
	assert.Len(t, summary.RatingDistribution, len(domain.RatingCategories))
}

func TestSummarize_EmptyCatalog(t *testing.T) {
	_, err := NewSummarizer(nil, DefaultSummarizerConfig()).Summarize(context.Background(), nil)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyDataset))
}

func TestAllDatesUnparseable(t *testing.T) {
	titles := []domain.Title{
		movie("a", 2019, nil, 90),
		show("b", 2018, nil, 2),
	}

	for _, title := range titles {
		_, ok := title.YearAdded()
		assert.False(t, ok)
		_, ok = title.MonthAdded()
		assert.False(t, ok)
	}

	_, err := LatestAddition(titles)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyDataset))
	assert.True(t, apperrors.IsRecoverable(err))

	summary, err := NewSummarizer(quietLogger(), DefaultSummarizerConfig()).Summarize(context.Background(), titles)
	require.NoError(t, err)
	assert.Nil(t, summary.LatestAddition)
	assert.Nil(t, summary.ModeYearAdded)

	agg := Aggregate(titles)
	assert.Empty(t, agg.AdditionsByYear)
	assert.Empty(t, agg.ContentAge)
	for _, row := range agg.MonthAddedByType {
		assert.Zero(t, row.Total)
	}
}

func TestMissingValues(t *testing.T) {
	full := movie("a", 2019, date(2020, 1, 1), 90)
	full.Source = domain.RawTitle{
		Title: "a", Type: "Movie", Director: "d", Cast: "c", Country: "US",
		DateAdded: "January 1, 2020", ReleaseYear: "2019", Rating: "R", Duration: "90 min", ListedIn: "Dramas",
	}

	badDate := full
	badDate.DateAdded = nil
	badDate.Source.DateAdded = "someday"

	noDirector := full
	noDirector.Source.Director = ""

	noCastNoDirector := full
	noCastNoDirector.Source.Director = " "
	noCastNoDirector.Source.Cast = ""
	noCastNoDirector.Duration = domain.Duration{}

	report := MissingValues([]domain.Title{full, badDate, noDirector, noCastNoDirector})

	assert.Equal(t, []domain.FieldMissing{
		{Field: "director", Missing: 2},
		{Field: "cast", Missing: 1},
		{Field: "date_added", Missing: 1},
		{Field: "duration", Missing: 1},
		{Field: "title", Missing: 0},
		{Field: "type", Missing: 0},
		{Field: "country", Missing: 0},
		{Field: "release_year", Missing: 0},
		{Field: "rating", Missing: 0},
		{Field: "listed_in", Missing: 0},
	}, report)
}

func TestAggregate(t *testing.T) {
	titles := []domain.Title{
		show("s1", 2018, date(2019, time.December, 5), 1),
		movie("m1", 2018, date(2019, time.January, 2), 90),
		movie("m2", 2019, date(2021, time.January, 3), 95),
		movie("m3", 2010, nil, 80),
		show("s2", 2020, date(2021, time.July, 1), 2),
	}

	agg := Aggregate(titles)

	assert.Equal(t, []domain.ContentType{domain.ContentTypeTVShow, domain.ContentTypeMovie}, agg.Types)

	require.Len(t, agg.ReleaseYearByType, 4)
	assert.Equal(t, 2010, agg.ReleaseYearByType[0].Year)
	first2018 := agg.ReleaseYearByType[1]
	assert.Equal(t, 2018, first2018.Year)
	assert.Equal(t, map[domain.ContentType]int{domain.ContentTypeMovie: 1, domain.ContentTypeTVShow: 1}, first2018.Counts)
	assert.Equal(t, 2, first2018.Total)
	assert.Equal(t, 0, agg.ReleaseYearByType[0].Counts[domain.ContentTypeTVShow], "zero-filled")

	require.Len(t, agg.MonthAddedByType, 12)
	assert.Equal(t, time.January, agg.MonthAddedByType[0].Month)
	assert.Equal(t, 2, agg.MonthAddedByType[0].Counts[domain.ContentTypeMovie])
	assert.Equal(t, 1, agg.MonthAddedByType[6].Counts[domain.ContentTypeTVShow])
	assert.Equal(t, 1, agg.MonthAddedByType[11].Total)
	assert.Equal(t, 0, agg.MonthAddedByType[3].Total)

	assert.Equal(t, []domain.YearTotal{
		{Year: 2019, Count: 2, Cumulative: 2},
		{Year: 2021, Count: 2, Cumulative: 4},
	}, agg.AdditionsByYear)

	require.Len(t, agg.ContentAge, 2)
	showAge := agg.ContentAge[0]
	assert.Equal(t, domain.ContentTypeTVShow, showAge.Type)
	assert.Equal(t, 2, showAge.Count)
	assert.InDelta(t, 1.0, showAge.Mean, 1e-9)
	assert.InDelta(t, 0.0, showAge.Std, 1e-9)
	assert.Equal(t, 1.0, showAge.Min)
	assert.Equal(t, 1.0, showAge.Max)

	movieAge := agg.ContentAge[1]
	assert.Equal(t, 2, movieAge.Count)
	assert.InDelta(t, 1.5, movieAge.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(0.5), movieAge.Std, 1e-9)
	assert.InDelta(t, 1.25, movieAge.Q25, 1e-9)
	assert.InDelta(t, 1.5, movieAge.Median, 1e-9)
	assert.InDelta(t, 1.75, movieAge.Q75, 1e-9)
}
