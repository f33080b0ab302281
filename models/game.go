package models

// GameRosterLimits задаёт лимиты состава для конкретной дисциплины.
// Read-only input to roster validation.
type GameRosterLimits struct {
	GameID         int `json:"game_id" db:"game_id"`
	MinStarters    int `json:"min_starters" db:"min_starters"`
	MaxStarters    int `json:"max_starters" db:"max_starters"`
	MaxSubstitutes int `json:"max_substitutes" db:"max_substitutes"`
	MaxCoaches     int `json:"max_coaches" db:"max_coaches"`
	MaxAnalysts    int `json:"max_analysts" db:"max_analysts"`
}
