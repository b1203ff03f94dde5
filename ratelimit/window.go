package ratelimit

import "time"

// Window membership is inclusive at the lower bound: an event stamped exactly
// at now-window still counts. Slices stay ordered by append time; pruning
// compacts in place so the backing arrays stop growing once usage levels out.

func pruneTimes(times []time.Time, cutoff time.Time) []time.Time {
	drop := 0
	for drop < len(times) && times[drop].Before(cutoff) {
		drop++
	}
	if drop == 0 {
		return times
	}
	n := copy(times, times[drop:])
	return times[:n]
}

func pruneRefreshEvents(events []RefreshEvent, cutoff time.Time) []RefreshEvent {
	drop := 0
	for drop < len(events) && events[drop].Timestamp.Before(cutoff) {
		drop++
	}
	if drop == 0 {
		return events
	}
	n := copy(events, events[drop:])
	return events[:n]
}

// countSince counts timestamps at or after cutoff without mutating the slice
func countSince(times []time.Time, cutoff time.Time) int {
	count := 0
	for i := len(times) - 1; i >= 0; i-- {
		if times[i].Before(cutoff) {
			break
		}
		count++
	}
	return count
}

func countRefreshesSince(events []RefreshEvent, cutoff time.Time) int {
	count := 0
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Timestamp.Before(cutoff) {
			break
		}
		count++
	}
	return count
}
