package logger

import (
	"context"
	"time"
)

// DeadlineAttrs returns the attributes describing when ctx expires, or nil when it never does.
func DeadlineAttrs(ctx context.Context) []any {
	deadline, ok := ctx.Deadline()
	if !ok {
		return nil
	}
	return []any{
		"deadline", deadline.Format(time.RFC3339),
		"deadline_in", time.Until(deadline).Round(time.Second).String(),
	}
}
