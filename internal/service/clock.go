package service

import "time"

// Clock supplies the current time for the booking-window rules. Every
// rule samples the clock at the moment of the call, so tests can pin
// time by injecting a fixed clock.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}
