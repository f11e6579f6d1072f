package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Chicago")
	if err != nil {
		panic(err)
	}
}

// pin the timezone to Madison, WI regardless of where the server runs,
// otherwise date math based on <time.Time>.Year()/Month()/Day() goes
// wrong whenever a host ends up in another region
func Now() time.Time {
	return time.Now().In(Location)
}
