package teams

// Team represents a Premier League club as exposed by the FPL feed.
// Kept in its own package so providers and fixtures share one shape.
type Team struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	ShortName           string `json:"short_name"`
	Strength            int    `json:"strength"`
	StrengthOverallHome int    `json:"strength_overall_home"`
	StrengthOverallAway int    `json:"strength_overall_away"`
	StrengthAttackHome  int    `json:"strength_attack_home"`
	StrengthAttackAway  int    `json:"strength_attack_away"`
	StrengthDefenceHome int    `json:"strength_defence_home"`
	StrengthDefenceAway int    `json:"strength_defence_away"`
}

// ByID indexes teams by id.
func ByID(items []Team) map[int]Team {
	out := make(map[int]Team, len(items))
	for _, t := range items {
		out[t.ID] = t
	}
	return out
}
