package fpl

import (
	"sort"
	"strconv"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/roster"
	"github.com/preston-bernstein/fpl-coach-service/internal/domain/teams"
)

// nextGameweek is the is_next event, or 0 once the season is over.
func nextGameweek(events []event) int {
	for _, e := range events {
		if e.IsNext {
			return e.ID
		}
	}
	return 0
}

func mapRoster(boot bootstrapResponse, fixtures []fixture) roster.Roster {
	gw := nextGameweek(boot.Events)
	byID := teams.ByID(boot.Teams)
	schedule := upcomingFixtures(boot.Teams, fixtures, gw)

	positions := make(map[int]players.Position, len(boot.ElementTypes))
	for _, et := range boot.ElementTypes {
		positions[et.ID] = players.Position(et.SingularNameShort)
	}

	out := make([]players.Player, 0, len(boot.Elements))
	for _, el := range boot.Elements {
		out = append(out, mapElement(el, byID[el.Team], positions, schedule[el.Team]))
	}
	return roster.Roster{Gameweek: gw, Teams: boot.Teams, Players: out}
}

func mapElement(el element, team teams.Team, positions map[int]players.Position, fixtures []players.Fixture) players.Player {
	pos, ok := positions[el.ElementType]
	if !ok {
		pos, _ = players.PositionFromElementType(el.ElementType)
	}
	if fixtures == nil {
		fixtures = []players.Fixture{}
	}
	return players.Player{
		ID:               el.ID,
		WebName:          el.WebName,
		FirstName:        el.FirstName,
		SecondName:       el.SecondName,
		Team:             el.Team,
		TeamName:         team.Name,
		TeamShortName:    team.ShortName,
		ElementType:      el.ElementType,
		PositionName:     pos,
		NowCost:          el.NowCost,
		TotalPoints:      el.TotalPoints,
		Form:             parseFloat(el.Form),
		GoalsScored:      el.GoalsScored,
		Assists:          el.Assists,
		ICTIndex:         parseFloat(el.ICTIndex),
		PointsPerGame:    parseFloat(el.PointsPerGame),
		UpcomingFixtures: fixtures,
	}
}

// upcomingFixtures keeps the first five fixtures from gameweek gw onward for
// each team, in feed order, with difficulty from that team's side.
func upcomingFixtures(teamList []teams.Team, all []fixture, gw int) map[int][]players.Fixture {
	out := make(map[int][]players.Fixture, len(teamList))
	if gw == 0 {
		return out
	}
	byID := teams.ByID(teamList)
	for _, f := range all {
		if f.Event == nil || *f.Event < gw {
			continue
		}
		if len(out[f.TeamH]) < maxUpcoming {
			out[f.TeamH] = append(out[f.TeamH], players.Fixture{Opponent: shortName(byID, f.TeamA), Difficulty: f.TeamHDifficulty, IsHome: true})
		}
		if len(out[f.TeamA]) < maxUpcoming {
			out[f.TeamA] = append(out[f.TeamA], players.Fixture{Opponent: shortName(byID, f.TeamH), Difficulty: f.TeamADifficulty, IsHome: false})
		}
	}
	return out
}

func shortName(byID map[int]teams.Team, id int) string {
	if t, ok := byID[id]; ok {
		return t.ShortName
	}
	return "N/A"
}

// finishedGameweeks returns up to limit finished gameweek ids, latest first.
func finishedGameweeks(events []event, limit int) []int {
	ids := make([]int, 0, len(events))
	for _, e := range events {
		if e.Finished {
			ids = append(ids, e.ID)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// mapGameStats builds the player's line for one gameweek. It reports false
// when the player did not play or the fixture is unknown.
func mapGameStats(player players.Player, live liveResponse, fixtures []fixture, byID map[int]teams.Team) (players.GameStats, bool) {
	var el *liveElement
	for i := range live.Elements {
		if live.Elements[i].ID == player.ID {
			el = &live.Elements[i]
			break
		}
	}
	if el == nil || el.Stats.Minutes <= 0 || len(el.Explain) == 0 {
		return players.GameStats{}, false
	}

	var fx *fixture
	for i := range fixtures {
		if fixtures[i].ID == el.Explain[0].Fixture {
			fx = &fixtures[i]
			break
		}
	}
	if fx == nil {
		return players.GameStats{}, false
	}

	opponent := fx.TeamH
	if fx.TeamH == player.Team {
		opponent = fx.TeamA
	}
	s := el.Stats
	return players.GameStats{
		FixtureID:                fx.ID,
		FixtureName:              shortName(byID, opponent),
		Date:                     fx.KickoffTime,
		MinutesPlayed:            s.Minutes,
		Goals:                    s.GoalsScored,
		Assists:                  s.Assists,
		CleanSheets:              s.CleanSheets,
		GoalsConceded:            s.GoalsConceded,
		OwnGoals:                 s.OwnGoals,
		PenaltiesSaved:           s.PenaltiesSaved,
		PenaltiesMissed:          s.PenaltiesMissed,
		YellowCards:              s.YellowCards,
		RedCards:                 s.RedCards,
		Saves:                    s.Saves,
		Bonus:                    s.Bonus,
		BPS:                      s.BPS,
		Influence:                orDefault(s.Influence, "0.0"),
		Creativity:               orDefault(s.Creativity, "0.0"),
		Threat:                   orDefault(s.Threat, "0.0"),
		ICTIndex:                 orDefault(s.ICTIndex, "0.0"),
		ExpectedGoals:            orDefault(s.ExpectedGoals, "0.00"),
		ExpectedAssists:          orDefault(s.ExpectedAssists, "0.00"),
		ExpectedGoalInvolvements: orDefault(s.ExpectedGoalInvolvements, "0.00"),
		ExpectedGoalsConceded:    orDefault(s.ExpectedGoalsConceded, "0.00"),
		TotalPoints:              s.TotalPoints,
	}, true
}

func parseFloat(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
