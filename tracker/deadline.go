package tracker

import (
	"context"
	"time"
)

// noDeadline clears a previously set read/write deadline.
var noDeadline = time.Time{}

// deadlineFor returns the earlier of "timeout from now" and ctx's own
// deadline, so a caller-supplied cancellation can cut a retry loop
// short without waiting out the full per-request timeout.
func deadlineFor(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}
