package rating

import (
	"regexp"
	"strconv"
)

// Scale is the denominator every rating is expressed against.
const Scale = 100

var ratingPattern = regexp.MustCompile(`(\d+)/100`)

// Extract returns the first integer written as "<n>/100" in text.
// The second return value is false when text is empty or carries no rating.
// Values above Scale are returned unchanged.
func Extract(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	m := ratingPattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// digit run overflows int
		return 0, false
	}
	return n, true
}
