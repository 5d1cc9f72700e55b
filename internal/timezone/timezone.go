package timezone

import "time"

// Reports and audit rows are stamped in the store's local time.
const DefaultTimezone = "Asia/Seoul"

// kst is used when the host has no tzdata at all.
var kst = time.FixedZone("KST", 9*60*60)

// Location resolves tz, falling back to Seoul and then to a fixed +09:00.
func Location(tz string) *time.Location {
	for _, name := range []string{tz, DefaultTimezone} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return kst
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
