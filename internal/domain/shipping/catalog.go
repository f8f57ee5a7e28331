package shipping

import "time"

// catalogEntry associates a shipping type label with its informational
// processing period: the expected time from "in progress" to natural
// completion. The actual completion trigger is due-date expiry.
type catalogEntry struct {
	label  string
	period time.Duration
}

// catalog is the immutable set of valid shipping types, in listing order.
var catalog = []catalogEntry{
	{label: "Нова Пошта", period: 3 * 24 * time.Hour},
	{label: "Укр Пошта", period: 5 * 24 * time.Hour},
	{label: "Meest Express", period: 7 * 24 * time.Hour},
	{label: "Самовивіз", period: time.Hour},
}

// AvailableTypes returns the ordered labels of all valid shipping types.
func AvailableTypes() []string {
	types := make([]string, len(catalog))
	for i, e := range catalog {
		types[i] = e.label
	}
	return types
}

// TypePeriod returns the processing period for the given shipping type
// label. The second return value is false for unknown labels.
func TypePeriod(label string) (time.Duration, bool) {
	for _, e := range catalog {
		if e.label == label {
			return e.period, true
		}
	}
	return 0, false
}
