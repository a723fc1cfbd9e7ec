package domain

import (
	"encoding/json"
	"fmt"
)

// DurationUnit tags which measure a Duration carries.
type DurationUnit int

const (
	DurationUnknown DurationUnit = iota
	DurationMinutes
	DurationSeasons
)

// String returns the unit name used in exports
func (u DurationUnit) String() string {
	switch u {
	case DurationMinutes:
		return "min"
	case DurationSeasons:
		return "seasons"
	default:
		return "unknown"
	}
}

// Duration is the parsed running length of a title: minutes for films,
// seasons for shows, or unknown. Only one unit is ever present.
type Duration struct {
	Unit  DurationUnit
	Value int
}

// MinutesDuration builds a duration measured in minutes.
func MinutesDuration(n int) Duration {
	return Duration{Unit: DurationMinutes, Value: n}
}

// SeasonsDuration builds a duration measured in seasons.
func SeasonsDuration(n int) Duration {
	return Duration{Unit: DurationSeasons, Value: n}
}

// Minutes returns the running time when the duration is in minutes.
func (d Duration) Minutes() (int, bool) {
	if d.Unit != DurationMinutes {
		return 0, false
	}
	return d.Value, true
}

// Seasons returns the season count when the duration is in seasons.
func (d Duration) Seasons() (int, bool) {
	if d.Unit != DurationSeasons {
		return 0, false
	}
	return d.Value, true
}

// IsKnown reports whether a unit could be determined
func (d Duration) IsKnown() bool {
	return d.Unit != DurationUnknown
}

func (d Duration) String() string {
	switch d.Unit {
	case DurationMinutes:
		return fmt.Sprintf("%d min", d.Value)
	case DurationSeasons:
		if d.Value == 1 {
			return "1 Season"
		}
		return fmt.Sprintf("%d Seasons", d.Value)
	default:
		return ""
	}
}

// MarshalJSON emits {"minutes": n} or {"seasons": n}, or null when unknown.
func (d Duration) MarshalJSON() ([]byte, error) {
	switch d.Unit {
	case DurationMinutes:
		return json.Marshal(map[string]int{"minutes": d.Value})
	case DurationSeasons:
		return json.Marshal(map[string]int{"seasons": d.Value})
	default:
		return []byte("null"), nil
	}
}
