package dateutil

import "time"

// AddBusinessDays advances from the given date one calendar day at a time,
// counting only Monday through Friday, until days weekday steps have been
// taken. Zero days returns from unchanged. Public holidays are not skipped.
func AddBusinessDays(from time.Time, days int) time.Time {
	d := from
	for added := 0; added < days; {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return d
}
