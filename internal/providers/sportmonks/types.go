package sportmonks

import "github.com/preston-bernstein/fpl-coach-service/internal/domain/players"

type searchResponse struct {
	Data []searchPlayer `json:"data"`
}

type searchPlayer struct {
	ID          int    `json:"id"`
	CommonName  string `json:"common_name"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type leagueResponse struct {
	Data struct {
		Seasons []players.Season `json:"seasons"`
	} `json:"data"`
}

type playerResponse struct {
	Data playerData `json:"data"`
}

type playerData struct {
	ID          int                        `json:"id"`
	DisplayName string                     `json:"display_name"`
	Name        string                     `json:"name"`
	ImagePath   string                     `json:"image_path"`
	DateOfBirth string                     `json:"date_of_birth"`
	Height      int                        `json:"height"`
	Statistics  []players.SeasonStatistics `json:"statistics"`
}
