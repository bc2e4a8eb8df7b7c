// Package lifecycle holds shared timings for application start and stop.
package lifecycle

import "time"

// DefaultTimeout bounds graceful shutdown of a delivery server.
const DefaultTimeout = 10 * time.Second
