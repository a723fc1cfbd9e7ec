package exporter

import (
	"fmt"
	"strconv"
	"time"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatDate formats a date as ISO 8601, empty when absent
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatCell renders a table cell for CSV output. Nil cells are empty.
func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return formatInt(val)
	case float64:
		return formatFloat(val)
	case *int:
		if val == nil {
			return ""
		}
		return formatInt(*val)
	case *float64:
		if val == nil {
			return ""
		}
		return formatFloat(*val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// cellValue unwraps pointer cells for the workbook so absent values stay blank
func cellValue(v interface{}) interface{} {
	switch val := v.(type) {
	case *int:
		if val == nil {
			return nil
		}
		return *val
	case *float64:
		if val == nil {
			return nil
		}
		return *val
	case fmt.Stringer:
		return val.String()
	default:
		return v
	}
}
