package application

import "time"

// timeNow is swapped by tests that assert on timestamps.
var timeNow = time.Now
