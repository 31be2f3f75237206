package fpl

import "github.com/preston-bernstein/fpl-coach-service/internal/domain/teams"

type bootstrapResponse struct {
	Events       []event       `json:"events"`
	Teams        []teams.Team  `json:"teams"`
	Elements     []element     `json:"elements"`
	ElementTypes []elementType `json:"element_types"`
}

type event struct {
	ID        int  `json:"id"`
	Finished  bool `json:"finished"`
	IsCurrent bool `json:"is_current"`
	IsNext    bool `json:"is_next"`
}

// element is an FPL player; several numeric stats arrive as strings.
type element struct {
	ID            int    `json:"id"`
	WebName       string `json:"web_name"`
	FirstName     string `json:"first_name"`
	SecondName    string `json:"second_name"`
	Team          int    `json:"team"`
	ElementType   int    `json:"element_type"`
	NowCost       int    `json:"now_cost"`
	TotalPoints   int    `json:"total_points"`
	Form          string `json:"form"`
	GoalsScored   int    `json:"goals_scored"`
	Assists       int    `json:"assists"`
	ICTIndex      string `json:"ict_index"`
	PointsPerGame string `json:"points_per_game"`
}

type elementType struct {
	ID                int    `json:"id"`
	SingularNameShort string `json:"singular_name_short"`
}

type fixture struct {
	ID              int    `json:"id"`
	Event           *int   `json:"event"`
	KickoffTime     string `json:"kickoff_time"`
	TeamH           int    `json:"team_h"`
	TeamA           int    `json:"team_a"`
	TeamHDifficulty int    `json:"team_h_difficulty"`
	TeamADifficulty int    `json:"team_a_difficulty"`
}

type liveResponse struct {
	Elements []liveElement `json:"elements"`
}

type liveElement struct {
	ID      int         `json:"id"`
	Stats   liveStats   `json:"stats"`
	Explain []liveBlock `json:"explain"`
}

type liveBlock struct {
	Fixture int `json:"fixture"`
}

type liveStats struct {
	Minutes                  int    `json:"minutes"`
	GoalsScored              int    `json:"goals_scored"`
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
