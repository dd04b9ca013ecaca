package consts

import "time"

// Intervals.
const (
	ScrapeTimeout   = 60 * time.Second
	DBBusyTimeoutMS = 5000
)

// Paging.
const (
	DefaultPageSize = 20
	MaxPageSize     = 500
)
