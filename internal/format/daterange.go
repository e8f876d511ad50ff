package format

import "time"

const dateLayout = "2006-01-02"

// FormatDateRange renders a contract validity window for display,
// "02/01/2006 a 02/01/2006". Dates that fail to parse are shown as-is.
func FormatDateRange(inicio, fim string) string {
	return displayDate(inicio) + " a " + displayDate(fim)
}

func displayDate(value string) string {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return value
	}
	return parsed.Format("02/01/2006")
}

// ParseDate parses the wire form (YYYY-MM-DD) used by validity dates.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
