package casestore

import (
	"time"

	"github.com/google/uuid"
)

// timeNow and newID are package-level vars so tests can pin them.
var (
	timeNow = time.Now
	newID   = uuid.NewString
)
