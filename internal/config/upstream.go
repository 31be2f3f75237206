package config

// FPLConfig controls how we talk to the Fantasy Premier League API.
type FPLConfig struct {
	BaseURL string `envconfig:"FPL_BASE_URL" default:"https://fantasy.premierleague.com/api"`
}

// SportMonksConfig controls the optional player statistics upstream.
type SportMonksConfig struct {
	BaseURL  string `envconfig:"SPORTMONKS_BASE_URL" default:"https://api.sportmonks.com/v3/football"`
	APIKey   string `envconfig:"SPORTMONKS_API_KEY"`
	LeagueID int    `envconfig:"SPORTMONKS_LEAGUE_ID" default:"8"`
}

// Enabled reports whether a SportMonks key is configured.
func (c SportMonksConfig) Enabled() bool {
	return c.APIKey != ""
}
