package retry

import (
	"time"

	"github.com/wb-go/wbf/retry"
)

// DefaultStrategy is the shared bounded-retry policy for database, queue
// and outbound HTTP calls.
var DefaultStrategy = retry.Strategy{
	Attempts: 3,
	Delay:    500 * time.Millisecond,
	Backoff:  2.0,
}
