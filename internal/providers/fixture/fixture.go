package fixture

import (
	"context"
	"fmt"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/teams"
)

const (
	// ProviderName identifies fixture data in logs and metrics.
	ProviderName = "fixture"

	upcomingFixtures = 5
	recentGames      = 5
)

type clubSeed struct {
	name     string
	short    string
	strength int
}

var clubs = []clubSeed{
	{"Arsenal", "ARS", 5},
	{"Aston Villa", "AVL", 4},
	{"Bournemouth", "BOU", 3},
	{"Brentford", "BRE", 3},
	{"Brighton", "BHA", 3},
	{"Chelsea", "CHE", 4},
	{"Crystal Palace", "CRY", 3},
	{"Everton", "EVE", 2},
	{"Fulham", "FUL", 3},
	{"Ipswich", "IPS", 2},
	{"Leicester", "LEI", 2},
	{"Liverpool", "LIV", 5},
	{"Man City", "MCI", 5},
	{"Man Utd", "MUN", 4},
	{"Newcastle", "NEW", 4},
	{"Nott'm Forest", "NFO", 3},
	{"Southampton", "SOU", 2},
	{"Spurs", "TOT", 4},
	{"West Ham", "WHU", 3},
	{"Wolves", "WOL", 2},
}

type slotSeed struct {
	elementType int
	base        int
	spread      int
}

// Fifteen slots per club matching the squad position quotas.
var slots = []slotSeed{
	{1, 40, 16}, {1, 40, 16},
	{2, 40, 26}, {2, 40, 26}, {2, 40, 26}, {2, 40, 26}, {2, 40, 26},
	{3, 45, 50}, {3, 45, 50}, {3, 45, 50}, {3, 45, 50}, {3, 45, 50},
	{4, 45, 60}, {4, 45, 60}, {4, 45, 60},
}

// Provider serves a deterministic offline roster: 20 clubs of 15 players
// with a round-robin fixture list.
type Provider struct {
	gameweek int
}

// New creates a fixture provider positioned before gameweek 1.
func New() *Provider {
	return &Provider{gameweek: 1}
}

// WithGameweek returns a provider whose upcoming fixtures start at gw.
func WithGameweek(gw int) *Provider {
	if gw < 1 {
		gw = 1
	}
	return &Provider{gameweek: gw}
}

// FetchRoster returns the deterministic roster.
func (p *Provider) FetchRoster(ctx context.Context) (roster.Roster, error) {
	if err := ctx.Err(); err != nil {
		return roster.Roster{}, err
	}
	return Roster(p.gameweek), nil
}

// Roster builds the fixture roster for gameweek gw.
func Roster(gw int) roster.Roster {
	teamList := Teams()
	schedule := upcoming(teamList, gw)

	out := make([]players.Player, 0, len(clubs)*len(slots))
	for ti, club := range teamList {
		perPosition := map[int]int{}
		for si, slot := range slots {
			perPosition[slot.elementType]++
			pos, _ := players.PositionFromElementType(slot.elementType)
			id := ti*len(slots) + si + 1
			cost := slot.base + (ti*7+si*3)%slot.spread
			quality := float64((ti*11+si*5)%20) / 2 // 0..9.5
			quality += float64(clubs[ti].strength)

			out = append(out, players.Player{
				ID:               id,
				WebName:          fmt.Sprintf("%s %s%d", club.ShortName, pos, perPosition[slot.elementType]),
				FirstName:        club.Name,
				SecondName:       fmt.Sprintf("%s %d", pos, perPosition[slot.elementType]),
				Team:             club.ID,
				TeamName:         club.Name,
				TeamShortName:    club.ShortName,
				ElementType:      slot.elementType,
				PositionName:     pos,
				NowCost:          cost,
				TotalPoints:      int(quality*12) + cost/5,
				Form:             round1(quality / 2),
				GoalsScored:      goalsFor(slot.elementType, quality),
				Assists:          int(quality) / 2,
				ICTIndex:         round1(quality*9 + float64(cost)/4),
				PointsPerGame:    round1(quality/3 + 1),
				UpcomingFixtures: schedule[club.ID],
			})
		}
	}
	return roster.Roster{Gameweek: gw, Teams: teamList, Players: out}
}

// Teams returns the fixture clubs with ids 1..20.
func Teams() []teams.Team {
	out := make([]teams.Team, len(clubs))
	for i, c := range clubs {
		base := 1000 + c.strength*60
		out[i] = teams.Team{
			ID:                  i + 1,
			Name:                c.name,
			ShortName:           c.short,
			Strength:            c.strength,
			StrengthOverallHome: base + 20,
			StrengthOverallAway: base,
			StrengthAttackHome:  base + 30,
			StrengthAttackAway:  base + 10,
			StrengthDefenceHome: base + 10,
			StrengthDefenceAway: base - 10,
		}
	}
	return out
}

// FetchPlayerDetail returns an offline detail record with synthetic recent games.
func (p *Provider) FetchPlayerDetail(ctx context.Context, player players.Player) (players.Detail, error) {
	if err := ctx.Err(); err != nil {
		return players.Detail{}, err
	}
	form := make([]players.GameStats, 0, recentGames)
	for i := 0; i < recentGames; i++ {
		gw := p.gameweek - 1 - i
		if gw < 1 {
			break
		}
		form = append(form, players.GameStats{
			FixtureID:     gw*100 + player.Team,
			FixtureName:   fmt.Sprintf("GW%d", gw),
			MinutesPlayed: 90,
			Goals:         (player.ID + gw) % 3 / 2,
			Assists:       (player.ID + gw) % 4 / 3,
			TotalPoints:   2 + (player.ID+gw)%7,
			ICTIndex:      fmt.Sprintf("%.1f", player.ICTIndex/10),
		})
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

// upcoming builds the next five fixtures per team with the circle method.
func upcoming(teamList []teams.Team, gw int) map[int][]players.Fixture {
	n := len(teamList)
	rounds := n - 1
	byID := make(map[int]teams.Team, n)
	for _, t := range teamList {
		byID[t.ID] = t
	}
	out := make(map[int][]players.Fixture, n)
	for r := 0; r < upcomingFixtures; r++ {
		round := (gw - 1 + r) % rounds
		for _, pair := range roundPairs(n, round) {
			home, away := teamList[pair[0]], teamList[pair[1]]
			if round%2 == 1 {
				home, away = away, home
			}
			out[home.ID] = append(out[home.ID], players.Fixture{Opponent: away.ShortName, Difficulty: difficulty(away, false), IsHome: true})
			out[away.ID] = append(out[away.ID], players.Fixture{Opponent: home.ShortName, Difficulty: difficulty(home, true), IsHome: false})
		}
	}
	return out
}

// roundPairs returns index pairs for one round; index 0 stays fixed.
func roundPairs(n, round int) [][2]int {
	rotating := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		rotating = append(rotating, i)
	}
	k := round % len(rotating)
	rotating = append(rotating[k:], rotating[:k]...)
	order := append([]int{0}, rotating...)

	pairs := make([][2]int, 0, n/2)
	for i := 0; i < n/2; i++ {
		pairs = append(pairs, [2]int{order[i], order[n-1-i]})
	}
	return pairs
}

// difficulty grades an opponent 1..5; playing them at home adds one.
func difficulty(opponent teams.Team, opponentAtHome bool) int {
	d := opponent.Strength
	if opponentAtHome {
		d++
	}
	return min(max(d, 1), 5)
}

func goalsFor(elementType int, quality float64) int {
	switch elementType {
	case 4:
		return int(quality * 1.5)
	case 3:
		return int(quality)
	case 2:
		return int(quality) / 4
	default:
		return 0
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
