package itinerary

import (
	"fmt"
	"strings"
	"time"

	"wayfarer/internal/types"
)

// routeSeparator joins leg cities in display route strings.
const routeSeparator = " → "

// BuildRouteString arrow-joins the city of each leg in position order.
// Zero legs yield the empty string; a single leg is just its city.
func BuildRouteString(legs []types.Leg) string {
	if len(legs) == 0 {
		return ""
	}

	cities := make([]string, len(legs))
	for i, leg := range legs {
		cities[i] = leg.City
	}
	return strings.Join(cities, routeSeparator)
}

// AutoTripName derives a display name from the set of legs:
//
//	zero legs                 -> "Trip Mon YYYY"
//	single leg                -> "City Mon YYYY"
//	multi-leg, one country    -> "FirstCity to LastCity Mon YYYY"
//	two countries             -> "CountryA & CountryB Mon YYYY"
//	three or more countries   -> "CountryA, CountryB & more Mon YYYY"
//
// The month/year stamp comes from the first leg's start date; referenceDate
// is used only when there are no legs to draw a date from. Countries are
// listed in first-appearance order across legs.
func AutoTripName(legs []types.Leg, referenceDate time.Time) string {
	if len(legs) == 0 {
		return fmt.Sprintf("Trip %s", referenceDate.Format("Jan 2006"))
	}

	stamp := legs[0].StartDate.Format("Jan 2006")

	if len(legs) == 1 {
		return fmt.Sprintf("%s %s", legs[0].City, stamp)
	}

	countries := distinctCountries(legs)
	switch len(countries) {
	case 1:
		return fmt.Sprintf("%s to %s %s", legs[0].City, legs[len(legs)-1].City, stamp)
	case 2:
		return fmt.Sprintf("%s & %s %s", countries[0], countries[1], stamp)
	default:
		return fmt.Sprintf("%s, %s & more %s", countries[0], countries[1], stamp)
	}
}

// distinctCountries returns the unique countries of the legs in
// first-appearance order.
func distinctCountries(legs []types.Leg) []string {
	seen := make(map[string]struct{}, len(legs))
	var out []string
	for _, leg := range legs {
		if _, ok := seen[leg.Country]; ok {
			continue
		}
		seen[leg.Country] = struct{}{}
		out = append(out, leg.Country)
	}
	return out
}
