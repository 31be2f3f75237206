package fpl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/teams"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers"
)

// ProviderName labels FPL calls in logs and metrics.
const ProviderName = "fpl"

// Config controls how the FPL client reaches the public API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client fetches the player pool and recent form from the FPL API.
type Client struct {
	baseURL    string
	httpClient httpDoer
	now        func() time.Time
}

// NewClient constructs an FPL client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		now:        time.Now,
	}
}

// FetchRoster loads bootstrap-static and fixtures concurrently and maps them
// to the normalized roster. AI scores are left at zero.
func (c *Client) FetchRoster(ctx context.Context) (roster.Roster, error) {
	var (
		boot     bootstrapResponse
		fixtures []fixture
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.getJSON(gctx, "/bootstrap-static/", nil, &boot) })
	g.Go(func() error { return c.getJSON(gctx, "/fixtures/", nil, &fixtures) })
	if err := g.Wait(); err != nil {
		return roster.Roster{}, err
	}
	return mapRoster(boot, fixtures), nil
}

// FetchFormStats returns the player's lines for the last five finished
// gameweeks in which they played, latest first.
func (c *Client) FetchFormStats(ctx context.Context, player players.Player) ([]players.GameStats, error) {
	var boot bootstrapResponse
	if err := c.getJSON(ctx, "/bootstrap-static/", nil, &boot); err != nil {
		return nil, err
	}
	gameweeks := finishedGameweeks(boot.Events, recentGameweeks)
	byID := teams.ByID(boot.Teams)

	type gameweekData struct {
		live     liveResponse
		fixtures []fixture
	}
	data := make([]gameweekData, len(gameweeks))

	g, gctx := errgroup.WithContext(ctx)
	for i, gw := range gameweeks {
		g.Go(func() error {
			query := url.Values{"event": {strconv.Itoa(gw)}}
			return c.getJSON(gctx, "/fixtures/", query, &data[i].fixtures)
		})
		g.Go(func() error {
			return c.getJSON(gctx, fmt.Sprintf("/event/%d/live/", gw), nil, &data[i].live)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]players.GameStats, 0, len(gameweeks))
	for _, d := range data {
		if stats, ok := mapGameStats(player, d.live, d.fixtures, byID); ok {
			out = append(out, stats)
		}
	}
	return out, nil
}

// FetchPlayerDetail builds a detail record from FPL data alone. It serves as
// the fallback when no statistics provider is configured.
func (c *Client) FetchPlayerDetail(ctx context.Context, player players.Player) (players.Detail, error) {
	form, err := c.FetchFormStats(ctx, player)
	if err != nil {
		return players.Detail{}, err
	}
	return players.Detail{
		ID:           player.ID,
		DisplayName:  player.WebName,
		Name:         player.FullName(),
		PositionName: player.PositionName,
		Statistics:   []players.SeasonStatistics{},
		FormStats:    form,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		if err := providers.CheckResponse(ProviderName, resp, string(body), c.now()); err != nil {
			return err
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("fpl: decode %s: %w", path, err)
	}
	return nil
}
