package squad

import (
	"errors"
	"fmt"

	"github.com/preston-bernstein/fpl-coach-service/internal/domain/players"
)

// Kind identifies why a candidate was refused.
type Kind string

const (
	KindSquadFull           Kind = "squad_full"
	KindAlreadySelected     Kind = "already_selected"
	KindBudgetExceeded      Kind = "budget_exceeded"
	KindTeamCapExceeded     Kind = "team_cap_exceeded"
	KindPositionCapExceeded Kind = "position_cap_exceeded"
)

// Kind sentinels for errors.Is.
var (
	ErrSquadFull           = &Rejection{Kind: KindSquadFull}
	ErrAlreadySelected     = &Rejection{Kind: KindAlreadySelected}
	ErrBudgetExceeded      = &Rejection{Kind: KindBudgetExceeded}
	ErrTeamCapExceeded     = &Rejection{Kind: KindTeamCapExceeded}
	ErrPositionCapExceeded = &Rejection{Kind: KindPositionCapExceeded}
)

// Rejection is an expected, user-correctable refusal to add a player.
// Only the fields relevant to Kind are populated.
type Rejection struct {
	Kind     Kind
	Player   players.Player
	TeamName string
	Position players.Position
	Cap      int
}

func (r *Rejection) Error() string {
	switch r.Kind {
	case KindSquadFull:
		return "Your squad is full."
	case KindAlreadySelected:
		return fmt.Sprintf("%s is already in your squad.", r.Player.WebName)
	case KindBudgetExceeded:
		return "You do not have enough budget."
	case KindTeamCapExceeded:
		return fmt.Sprintf("You can only select %d players from %s.", r.Cap, r.TeamName)
	case KindPositionCapExceeded:
		return fmt.Sprintf("You can only select %d players in the %s position.", r.Cap, r.Position)
	default:
		return "player rejected"
	}
}

// Is matches any rejection of the same kind.
func (r *Rejection) Is(target error) bool {
	var other *Rejection
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == r.Kind
}

// AsRejection extracts a Rejection from err.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
