package execution

import (
	"context"
	"time"

	"rectest/internal/domain"
)

// Runner executes one built command and captures what it did.
// Implementations must be safe for concurrent use by multiple workers.
type Runner interface {
	Run(ctx context.Context, argv []string, timeout time.Duration) domain.ExecutionResult
}
