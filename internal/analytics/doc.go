// Package analytics computes descriptive, genre and temporal statistics over
// a normalized catalog. Every function reads its input without modifying it
// and returns a fresh structure.
//
// Summarizer.Summarize produces the headline figures. ExpandGenres and its
// siblings build FrequencyTables where a record counts at most once per
// label. Aggregate groups titles by release year, month added and year added,
// and describes content age per type.
package analytics
