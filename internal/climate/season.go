// Package climate provides the thin context adapter mapping a (city, date)
// pair to a season label and an optional seeded climate description.
package climate

import "time"

// Season is a northern-hemisphere meteorological season label.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// SeasonForMonth maps a calendar month (1-12) to its season: Mar-May spring,
// Jun-Aug summer, Sep-Nov autumn, Dec-Feb winter. Out-of-range months fall
// through to winter, matching the December/January/February bucket.
func SeasonForMonth(month time.Month) Season {
	switch month {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}
