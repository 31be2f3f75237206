package players

import "encoding/json"

// Detail is the extended player record served on /api/player/{id}.
type Detail struct {
	ID           int                `json:"id,omitempty"`
	DisplayName  string             `json:"display_name"`
	Name         string             `json:"name"`
	ImagePath    string             `json:"image_path,omitempty"`
	DateOfBirth  string             `json:"date_of_birth,omitempty"`
	Height       int                `json:"height,omitempty"`
	PositionName Position           `json:"position_name"`
	Statistics   []SeasonStatistics `json:"statistics"`
	FormStats    []GameStats        `json:"form_stats"`
}

// SeasonStatistics is one season of upstream statistics.
type SeasonStatistics struct {
	ID       int          `json:"id"`
	SeasonID int          `json:"season_id"`
	Season   *Season      `json:"season,omitempty"`
	Details  []StatDetail `json:"details"`
}

// Season identifies a competition season.
type Season struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	League *League `json:"league,omitempty"`
}

// League identifies a competition.
type League struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// StatDetail is a single statistic; Value shapes vary per statistic type.
type StatDetail struct {
	ID    int             `json:"id"`
	Type  StatType        `json:"type"`
	Value json.RawMessage `json:"value"`
}

// StatType names a statistic.
type StatType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GameStats is the player's line for one recently finished gameweek.
type GameStats struct {
	FixtureID                int    `json:"fixture_id"`
	FixtureName              string `json:"fixture_name"`
	Date                     string `json:"date"`
	MinutesPlayed            int    `json:"minutes_played"`
	Goals                    int    `json:"goals"`
	Assists                  int    `json:"assists"`
	CleanSheets              int    `json:"clean_sheets"`
	GoalsConceded            int    `json:"goals_conceded"`
	OwnGoals                 int    `json:"own_goals"`
	PenaltiesSaved           int    `json:"penalties_saved"`
	PenaltiesMissed          int    `json:"penalties_missed"`
	YellowCards              int    `json:"yellow_cards"`
	RedCards                 int    `json:"red_cards"`
	Saves                    int    `json:"saves"`
	Bonus                    int    `json:"bonus"`
	BPS                      int    `json:"bps"`
	Influence                string `json:"influence"`
	Creativity               string `json:"creativity"`
	Threat                   string `json:"threat"`
	ICTIndex                 string `json:"ict_index"`
	ExpectedGoals            string `json:"expected_goals"`
	ExpectedAssists          string `json:"expected_assists"`
	ExpectedGoalInvolvements string `json:"expected_goal_involvements"`
	ExpectedGoalsConceded    string `json:"expected_goals_conceded"`
	TotalPoints              int    `json:"total_points"`
}

// DetailResponse wraps Detail the way the upstream statistics API does.
type DetailResponse struct {
	Data Detail `json:"data"`
}
