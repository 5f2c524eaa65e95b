package workout

import "fmt"

// cadence turns the continuously true "minute N reached" and "km N reached"
// conditions into one-shot announcements using monotonic watermarks.
type cadence struct {
	everyMinutes   int
	lastMinuteMark int
	lastKmMark     int
}

func (c *cadence) evaluate(elapsedSeconds int, distanceMeters float64) []string {
	var msgs []string
	minutes := elapsedSeconds / 60

	if c.everyMinutes > 0 && minutes > 0 && minutes%c.everyMinutes == 0 && minutes > c.lastMinuteMark {
		msgs = append(msgs, fmt.Sprintf("Time check. %d minutes elapsed. Distance: %.2f kilometers.", minutes, distanceMeters/1000))
		c.lastMinuteMark = minutes
	}

	if km := int(distanceMeters / 1000); km > c.lastKmMark {
		unit := "kilometer"
		if km > 1 {
			unit = "kilometers"
		}
		msgs = append(msgs, fmt.Sprintf("You have exercised for %d %s in %d minutes.", km, unit, minutes))
		c.lastKmMark = km
	}

	return msgs
}
