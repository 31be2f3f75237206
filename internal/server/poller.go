package server

import (
	"context"

	"github.com/preston-bernstein/fpl-coach-service/internal/poller"
)

// Poller defines the minimal poller behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Refresh(ctx context.Context) error
	Status() poller.Status
}

// dailyJob is the scheduler surface the server drives.
type dailyJob interface {
	Start() error
	Stop() error
}
