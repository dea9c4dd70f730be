package extract

import (
	"strconv"
	"strings"
	"time"
)

// DefaultDateLayouts is the fixed priority order used when the caller does
// not supply its own. DD/MM wins over MM/DD for ambiguous inputs; keep the
// order stable, existing data depends on it.
var DefaultDateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"02-01-06",
}

// ParseAmount turns a locale-formatted money string into a float64. It
// strips currency symbols and whitespace, drops anything outside [0-9,.-]
// and resolves the decimal-comma vs thousands-separator question by looking
// at which separator comes last: "1.234,56 €" -> 1234.56, "1,234.56" -> 1234.56.
// Returns ok=false on empty or unparseable input.
func ParseAmount(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" || s == "-" {
		return 0, false
	}

	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')
	switch {
	case lastComma >= 0 && lastComma > lastDot:
		// comma is the decimal separator, dots group thousands
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		// dot is the decimal separator, commas group thousands
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseDate tries each layout in order and renders the first successful
// parse as YYYY-MM-DD. A nil layout slice means DefaultDateLayouts.
func ParseDate(raw string, layouts []string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
