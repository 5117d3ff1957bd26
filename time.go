package main

import "time"

// nowFunc is indirected so tests can substitute a fixed clock when needed.
var nowFunc = time.Now

// period converts a TimePeriod (seconds, per spec §4.2) into a Duration.
func period(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
