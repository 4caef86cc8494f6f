package usecase

import "time"

// Timing constants for use case operations
const (
	// lockRetryDelay is how often the apply use case retries the metadata lock
	lockRetryDelay = 50 * time.Millisecond
)
