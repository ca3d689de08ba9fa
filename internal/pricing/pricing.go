// Package pricing holds the fixed session price table. Durations are UI
// choices, not free-form input, so a closed lookup table is the whole model.
package pricing

// Prices in Chilean pesos keyed by session minutes.
var table = map[int]int{
	10: 2000,
	30: 5000,
	60: 9000,
}

// PriceFor returns the price for a supported duration. Unsupported durations
// price at 0, which callers must treat as "no such tier", never as free.
func PriceFor(minutes int) int {
	return table[minutes]
}

// Supported reports whether the duration has a price tier.
func Supported(minutes int) bool {
	_, ok := table[minutes]
	return ok
}

// Durations lists the bookable session lengths in ascending order.
func Durations() []int {
	return []int{10, 30, 60}
}
