package players

// Position is the short FPL position code.
type Position string

const (
	PositionGoalkeeper Position = "GKP"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

// Positions lists the playing positions in squad display order.
var Positions = []Position{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward}

// PositionFromElementType maps FPL element_type ids (1..4) to positions.
func PositionFromElementType(elementType int) (Position, bool) {
	if elementType < 1 || elementType > len(Positions) {
		return "", false
	}
	return Positions[elementType-1], true
}

// Fixture is one upcoming opponent from the player's team perspective.
type Fixture struct {
	Opponent   string `json:"opponent"`
	Difficulty int    `json:"difficulty"`
	IsHome     bool   `json:"is_home"`
}

// Player represents the normalized player shape served on /api/players.
// Field names follow the FPL feed so clients can consume either.
type Player struct {
	ID               int       `json:"id"`
	WebName          string    `json:"web_name"`
	FirstName        string    `json:"first_name"`
	SecondName       string    `json:"second_name"`
	Team             int       `json:"team"`
	TeamName         string    `json:"team_name"`
	TeamShortName    string    `json:"team_short_name"`
	ElementType      int       `json:"element_type"`
	PositionName     Position  `json:"position_name"`
	NowCost          int       `json:"now_cost"`
	TotalPoints      int       `json:"total_points"`
	Form             float64   `json:"form"`
	GoalsScored      int       `json:"goals_scored"`
	Assists          int       `json:"assists"`
	ICTIndex         float64   `json:"ict_index"`
	PointsPerGame    float64   `json:"points_per_game"`
	AIScore          float64   `json:"ai_score"`
	UpcomingFixtures []Fixture `json:"upcoming_fixtures"`
}

// FullName joins first and second names.
func (p Player) FullName() string {
	switch {
	case p.FirstName == "":
		return p.SecondName
	case p.SecondName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.SecondName
	}
}

// Price returns now_cost in currency units (tenths / 10).
func (p Player) Price() float64 {
	return float64(p.NowCost) / 10
}

// NextFixture returns the first upcoming fixture, if any.
func (p Player) NextFixture() (Fixture, bool) {
	if len(p.UpcomingFixtures) == 0 {
		return Fixture{}, false
	}
	return p.UpcomingFixtures[0], true
}
