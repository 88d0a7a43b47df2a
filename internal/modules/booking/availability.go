package booking

import (
	"math"
	"strings"
	"time"
)

const day = 24 * time.Hour

var dateLayouts = []string{time.RFC3339, time.DateOnly}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Intervals that only touch at an endpoint do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Nights counts started days between checkIn and checkOut. It is zero or
// negative when checkOut is not after checkIn.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return int(d / day)
	}
	return int(math.Ceil(float64(d) / float64(day)))
}

func TotalPrice(price float64, nights int) float64 {
	return price * float64(nights)
}

// ParseDate accepts an RFC 3339 timestamp or a YYYY-MM-DD date and returns
// it in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

// parseRange parses both ends and requires at least one night between them.
func parseRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateRange.WithMessage("check_in_date must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateRange.WithMessage("check_out_date must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}
	if Nights(in, out) <= 0 {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return in, out, nil
}
