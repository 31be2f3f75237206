package testutil

import (
	"context"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers"
)

// GoodProvider returns the provided roster with no error.
type GoodProvider struct {
	Roster roster.Roster
}

func (p GoodProvider) FetchRoster(ctx context.Context) (roster.Roster, error) {
	_ = ctx
	return p.Roster, nil
}

// ErrProvider always returns the provided error.
type ErrProvider struct {
	Err error
}

func (p ErrProvider) FetchRoster(ctx context.Context) (roster.Roster, error) {
	return roster.Roster{}, p.Err
}

// EmptyProvider returns a roster with no players, no error.
type EmptyProvider struct{}

func (EmptyProvider) FetchRoster(ctx context.Context) (roster.Roster, error) {
	return roster.Roster{}, nil
}

// UnavailableProvider returns ErrProviderUnavailable.
type UnavailableProvider struct{}

func (UnavailableProvider) FetchRoster(ctx context.Context) (roster.Roster, error) {
	return roster.Roster{}, providers.ErrProviderUnavailable
}

// NotifyingProvider returns the roster and closes Notify on first fetch.
type NotifyingProvider struct {
	Roster roster.Roster
	Notify chan struct{}
}

func (p *NotifyingProvider) FetchRoster(ctx context.Context) (roster.Roster, error) {
	_ = ctx
	if p.Notify != nil {
		select {
		case <-p.Notify:
		default:
			close(p.Notify)
		}
	}
	return p.Roster, nil
}
