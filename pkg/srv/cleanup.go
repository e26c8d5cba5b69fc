package srv

import "context"

// cleanupService wraps a bare close function, such as the transcript
// database's Close, into a Service that only participates in shutdown.
type cleanupService struct {
	cleanup func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	// Nothing to run; the wrapped resource is already live.
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	if c.cleanup != nil {
		return c.cleanup()
	}
	return nil
}

// NewCleanup registers fn to run during graceful shutdown.
func NewCleanup(fn func() error) Service {
	return &cleanupService{cleanup: fn}
}
