package analytics

import (
	"sort"

	"catalogcli/pkg/contracts/domain"
)

// FrequencyTable counts, per label, how many records carry it.
// Labels keep the order in which they were first seen.
type FrequencyTable struct {
	order  []string
	counts map[string]int
}

// NewFrequencyTable creates an empty table
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[string]int)}
}

// AddRecord counts each distinct label of one record once.
func (ft *FrequencyTable) AddRecord(labels []string) {
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		if _, ok := ft.counts[label]; !ok {
			ft.order = append(ft.order, label)
		}
		ft.counts[label]++
	}
}

// Count returns the number of records carrying label.
func (ft *FrequencyTable) Count(label string) int {
	return ft.counts[label]
}

// Len returns the number of distinct labels.
func (ft *FrequencyTable) Len() int {
	return len(ft.order)
}

// Map returns a copy of the label counts.
func (ft *FrequencyTable) Map() map[string]int {
	out := make(map[string]int, len(ft.counts))
	for k, v := range ft.counts {
		out[k] = v
	}
	return out
}

// Entries lists every label by count descending, ties in first-seen order.
func (ft *FrequencyTable) Entries() []domain.LabelCount {
	entries := make([]domain.LabelCount, len(ft.order))
	for i, label := range ft.order {
		entries[i] = domain.LabelCount{Label: label, Count: ft.counts[label]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// Top returns at most k entries of Entries. A non-positive k yields none.
func (ft *FrequencyTable) Top(k int) []domain.LabelCount {
	if k <= 0 {
		return []domain.LabelCount{}
	}
	entries := ft.Entries()
	if k < len(entries) {
		entries = entries[:k]
	}
	return entries
}

// ExpandGenres builds the genre frequency table of a catalog.
func ExpandGenres(titles []domain.Title) *FrequencyTable {
	ft := NewFrequencyTable()
	for _, t := range titles {
		ft.AddRecord(t.Genres)
	}
	return ft
}

// CountDirectors builds the director frequency table.
func CountDirectors(titles []domain.Title) *FrequencyTable {
	ft := NewFrequencyTable()
	for _, t := range titles {
		ft.AddRecord(t.Directors)
	}
	return ft
}

// CountActors builds the cast frequency table.
func CountActors(titles []domain.Title) *FrequencyTable {
	ft := NewFrequencyTable()
	for _, t := range titles {
		ft.AddRecord(t.Actors)
	}
	return ft
}

// CountCountries builds the primary country frequency table, Unknown included.
func CountCountries(titles []domain.Title) *FrequencyTable {
	ft := NewFrequencyTable()
	for _, t := range titles {
		ft.AddRecord([]string{t.Country})
	}
	return ft
}
