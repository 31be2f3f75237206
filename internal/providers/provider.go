package providers

import (
	"context"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
)

// RosterProvider fetches the full player pool with teams and upcoming fixtures.
type RosterProvider interface {
	FetchRoster(ctx context.Context) (roster.Roster, error)
}

// DetailProvider fetches extended statistics for a single roster player.
type DetailProvider interface {
	FetchPlayerDetail(ctx context.Context, player players.Player) (players.Detail, error)
}

// RosterFunc adapts a function to RosterProvider.
type RosterFunc func(ctx context.Context) (roster.Roster, error)

func (f RosterFunc) FetchRoster(ctx context.Context) (roster.Roster, error) {
	return f(ctx)
}

// DetailFunc adapts a function to DetailProvider.
type DetailFunc func(ctx context.Context, player players.Player) (players.Detail, error)

func (f DetailFunc) FetchPlayerDetail(ctx context.Context, player players.Player) (players.Detail, error) {
	return f(ctx, player)
}
