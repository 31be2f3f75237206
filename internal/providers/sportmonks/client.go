package sportmonks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/providers"
)

// ProviderName labels SportMonks calls in logs and metrics.
const ProviderName = "sportmonks"

const (
	defaultBaseURL     = "https://api.sportmonks.com/v3/football"
	defaultLeagueID    = 8
	defaultHTTPTimeout = 10 * time.Second
	recentSeasons      = 2
	errorBodyLimit     = 512
	statsIncludes      = "statistics.details.type;statistics.season.league"
)

// FormSource supplies recent gameweek lines for a player.
type FormSource interface {
	FetchFormStats(ctx context.Context, player players.Player) ([]players.GameStats, error)
}

// Config controls how the SportMonks client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	LeagueID   int
	HTTPClient *http.Client
	Form       FormSource
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client resolves roster players to SportMonks players and loads their
// season statistics.
type Client struct {
	baseURL    string
	apiKey     string
	leagueID   int
	httpClient httpDoer
	form       FormSource
	now        func() time.Time
}

// NewClient constructs a SportMonks client with the provided configuration.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	league := cfg.LeagueID
	if league <= 0 {
		league = defaultLeagueID
	}
	var doer httpDoer = &http.Client{Timeout: defaultHTTPTimeout}
	if cfg.HTTPClient != nil {
		doer = cfg.HTTPClient
	}
	return &Client{
		baseURL:    strings.TrimSuffix(base, "/"),
		apiKey:     cfg.APIKey,
		leagueID:   league,
		httpClient: doer,
		form:       cfg.Form,
		now:        time.Now,
	}
}

// FetchPlayerDetail searches SportMonks by full name, matches the result and
// returns bio plus statistics for the two latest league seasons, newest first.
// Form stats come from the configured FormSource; a form failure leaves them
// empty rather than failing the request.
func (c *Client) FetchPlayerDetail(ctx context.Context, player players.Player) (players.Detail, error) {
	var search searchResponse
	if err := c.getJSON(ctx, "/players/search/"+url.PathEscape(player.FullName()), url.Values{"include": {"teams.team"}}, &search); err != nil {
		return players.Detail{}, err
	}
	if len(search.Data) == 0 {
		return players.Detail{}, fmt.Errorf("sportmonks: %q: %w", player.FullName(), providers.ErrNotFound)
	}
	match, ok := matchPlayer(player, search.Data)
	if !ok {
		return players.Detail{}, fmt.Errorf("sportmonks: no unique match for %q: %w", player.FullName(), providers.ErrNotFound)
	}

	seasonIDs, err := c.latestSeasons(ctx)
	if err != nil {
		return players.Detail{}, err
	}

	query := url.Values{
		"include": {statsIncludes},
		"filters": {"playerStatisticSeasons:" + joinInts(seasonIDs)},
	}
	var resp playerResponse
	if err := c.getJSON(ctx, "/players/"+strconv.Itoa(match.ID), query, &resp); err != nil {
		return players.Detail{}, err
	}

	stats := resp.Data.Statistics
	if stats == nil {
		stats = []players.SeasonStatistics{}
	}
	sortBySeasonName(stats)

	return players.Detail{
		ID:           resp.Data.ID,
		DisplayName:  resp.Data.DisplayName,
		Name:         resp.Data.Name,
		ImagePath:    resp.Data.ImagePath,
		DateOfBirth:  resp.Data.DateOfBirth,
		Height:       resp.Data.Height,
		PositionName: player.PositionName,
		Statistics:   stats,
		FormStats:    c.formStats(ctx, player),
	}, nil
}

func (c *Client) latestSeasons(ctx context.Context) ([]int, error) {
	var league leagueResponse
	if err := c.getJSON(ctx, "/leagues/"+strconv.Itoa(c.leagueID), url.Values{"include": {"seasons"}}, &league); err != nil {
		return nil, err
	}
	seasons := league.Data.Seasons
	if len(seasons) == 0 {
		return nil, fmt.Errorf("sportmonks: league %d has no seasons: %w", c.leagueID, providers.ErrNotFound)
	}
	sort.SliceStable(seasons, func(i, j int) bool { return seasons[i].Name > seasons[j].Name })
	ids := make([]int, 0, recentSeasons)
	for _, s := range seasons[:min(recentSeasons, len(seasons))] {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (c *Client) formStats(ctx context.Context, player players.Player) []players.GameStats {
	if c.form == nil {
		return []players.GameStats{}
	}
	form, err := c.form.FetchFormStats(ctx, player)
	if err != nil || form == nil {
		return []players.GameStats{}
	}
	return form
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
	req.Header.Set("Authorization", c.apiKey)

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
		return fmt.Errorf("sportmonks: decode %s: %w", path, err)
	}
	return nil
}

func sortBySeasonName(stats []players.SeasonStatistics) {
	name := func(s players.SeasonStatistics) string {
		if s.Season == nil {
			return ""
		}
		return s.Season.Name
	}
	sort.SliceStable(stats, func(i, j int) bool { return name(stats[i]) > name(stats[j]) })
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
