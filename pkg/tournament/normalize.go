package tournament

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// "12 Jan 2025", "3 March 2026", "05 sep. 2025"
	datePattern = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]{3})\w*\.?\s+(\d{4})`)

	// "J60", "J-100", "j 30". J300 is not J30.
	levelPattern = regexp.MustCompile(`(?i)J\s?-?\s?(30|60|100|200)\b`)

	months = map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}
)

// ToISO converts a "<day> <month> <year>" date into YYYY-MM-DD.
// Text that does not contain such a date is returned unchanged.
func ToISO(text string) string {
	m := datePattern.FindStringSubmatch(text)
	if m == nil {
		return text
	}

	month, ok := months[strings.ToLower(m[2])]
	if !ok {
		return text
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return text
	}

	return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
}

// Level returns the junior category code embedded in a tournament name
// (J30, J60, J100 or J200), or "" if there is none.
func Level(name string) string {
	m := levelPattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return "J" + m[1]
}

// SplitLocation splits "City, Country" into its parts. The country is
// empty when the location has fewer than two comma-separated components.
func SplitLocation(location string) (city, country string) {
	if location == "" {
		return "", ""
	}
	parts := strings.Split(location, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	city = parts[0]
	if len(parts) > 1 {
		country = parts[1]
	}
	return city, country
}

// Normalize converts raw records into entries, dropping records that end
// up with neither a name nor a city. Order is preserved.
func Normalize(records []RawRecord) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		e := normalizeOne(r)
		if e.Name == "" && e.City == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

func normalizeOne(r RawRecord) Entry {
	city, country := SplitLocation(r.Location)
	return Entry{
		Name:     r.Name,
		City:     city,
		Country:  country,
		StartISO: ToISO(r.Start),
		EndISO:   ToISO(r.End),
		Level:    Level(r.Name),
		Surface:  r.Surface,
	}
}
