// Package dataprocessing loads a media catalog snapshot and normalizes it.
//
// # Sources
//
// LoadCatalog accepts a CSV file (an optional UTF-8 BOM is stripped) or an
// Excel workbook read with excelize. The header row must carry every column in
// RequiredColumns, spelled exactly; show_id and description are optional.
//
//	catalog, err := dataprocessing.LoadCatalog(ctx, "titles.csv", dataprocessing.LoadOptions{})
//	if errors.Is(err, apperrors.ErrSchema) {
//	    // a required column is missing
//	}
//
// # Normalization
//
// Normalize is pure. Malformed values never fail a load; they become absent:
//
//   - dates matching none of the accepted layouts leave DateAdded nil
//   - durations other than "N min" or "N Season(s)" are unknown
//   - the country is the first comma separated entry, or "Unknown"
//   - genres, directors and actors are split on commas, trimmed, empty items dropped
//   - rating codes outside the rating table map to Other
//
// LoadStats reports how many rows had values coerced this way.
package dataprocessing
