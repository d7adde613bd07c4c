package store

import (
	"fmt"
	"time"
)

// EndState is the endgame end-state of a robot, escalating from none to
// harmony (two robots sharing a chain).
type EndState string

const (
	EndStateNone      EndState = "none"
	EndStateParked    EndState = "parked"
	EndStateOnstage   EndState = "onstage"
	EndStateSpotlight EndState = "spotlight"
	EndStateHarmony   EndState = "harmony"
)

// EndStates lists all variants in escalating order.
var EndStates = []EndState{
	EndStateNone, EndStateParked, EndStateOnstage, EndStateSpotlight, EndStateHarmony,
}

// Valid reports whether s is a known end state.
func (s EndState) Valid() bool {
	for _, v := range EndStates {
		if s == v {
			return true
		}
	}
	return false
}

// MatchRecord is one scouting observation of one team in one match.
// (team_number, event_key, match_number) is unique.
type MatchRecord struct {
	ID          int64  `json:"id"`
	TeamNumber  int    `json:"team_number"`
	EventKey    string `json:"event_key"`
	MatchNumber int    `json:"match_number"`

	// Auton
	AutoPos   [9]int `json:"auto_pos"`
	AutoLeave bool   `json:"auto_leave"`

	// Teleop
	SpeakerAttempts int `json:"speaker_attempts"`
	SpeakerScored   int `json:"speaker_scored"`
	AmpAttempts     int `json:"amp_attempts"`
	AmpScored       int `json:"amp_scored"`
	IntakeFloor     int `json:"intake_floor"`
	IntakeSource    int `json:"intake_source"`

	// Endgame
	EndState  EndState `json:"end_state"`
	TrapNotes int      `json:"trap_notes"`

	// Post-match
	DriverRating int    `json:"driver_rating"`
	Disabled     bool   `json:"disabled"`
	Defense      bool   `json:"defense"`
	Notes        string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the record invariants before any write.
func (m *MatchRecord) Validate() error {
	if m.TeamNumber <= 0 {
		return fmt.Errorf("team_number must be positive")
	}
	if m.EventKey == "" {
		return fmt.Errorf("event_key is required")
	}
	if m.MatchNumber <= 0 {
		return fmt.Errorf("match_number must be positive")
	}
	for i, n := range m.AutoPos {
		if n < 0 {
			return fmt.Errorf("auto_pos_%d must be non-negative", i+1)
		}
	}
	for name, n := range map[string]int{
		"speaker_attempts": m.SpeakerAttempts,
		"speaker_scored":   m.SpeakerScored,
		"amp_attempts":     m.AmpAttempts,
		"amp_scored":       m.AmpScored,
		"intake_floor":     m.IntakeFloor,
		"intake_source":    m.IntakeSource,
	} {
		if n < 0 {
			return fmt.Errorf("%s must be non-negative", name)
		}
	}
	if !m.EndState.Valid() {
		return fmt.Errorf("end_state must be one of none, parked, onstage, spotlight, harmony")
	}
	if m.TrapNotes < 0 || m.TrapNotes > 3 {
		return fmt.Errorf("trap_notes must be between 0 and 3")
	}
	if m.DriverRating < 1 || m.DriverRating > 5 {
		return fmt.Errorf("driver_rating must be between 1 and 5")
	}
	return nil
}

// Team is a roster entry scoped to an event. Team numbers repeat across
// events, so the event key is part of the identity.
type Team struct {
	TeamNumber int       `json:"team_number"`
	EventKey   string    `json:"event_key"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}

// PitReport is a robot capability survey collected in the pits, one per
// (team, event), upserted as scouts revise it.
type PitReport struct {
	TeamNumber int       `json:"team_number"`
	EventKey   string    `json:"event_key"`
	Drivetrain string    `json:"drivetrain"`
	WeightLbs  float64   `json:"weight_lbs"`
	CanSpeaker bool      `json:"can_speaker"`
	CanAmp     bool      `json:"can_amp"`
	CanTrap    bool      `json:"can_trap"`
	CanClimb   bool      `json:"can_climb"`
	Notes      string    `json:"notes"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Percentages is the derived percentage table, one row per (team, event).
// Occurrence percentages are clamped to 100; accuracy ratios are not.
type Percentages struct {
	TeamNumber int    `json:"team_number"`
	EventKey   string `json:"event_key"`

	AutoPos   [9]float64 `json:"auto_pos_pct"`
	AutoLeave float64    `json:"auto_leave_pct"`

	SpeakerAccuracy float64 `json:"speaker_accuracy_pct"`
	AmpAccuracy     float64 `json:"amp_accuracy_pct"`

	EndNone      float64 `json:"end_none_pct"`
	EndParked    float64 `json:"end_parked_pct"`
	EndOnstage   float64 `json:"end_onstage_pct"`
	EndSpotlight float64 `json:"end_spotlight_pct"`
	EndHarmony   float64 `json:"end_harmony_pct"`

	Trap [4]float64 `json:"trap_pct"`

	AvgRating float64 `json:"avg_rating"`
	Disabled  float64 `json:"disabled_pct"`
	Defense   float64 `json:"defense_pct"`

	MatchesPlayed int       `json:"matches_played"`
	ComputedAt    time.Time `json:"computed_at"`
}

// Fractions mirrors Percentages with "numerator/denominator" display strings
// plus plain-integer category totals.
type Fractions struct {
	TeamNumber int    `json:"team_number"`
	EventKey   string `json:"event_key"`

	AutoPos   [9]string `json:"auto_pos"`
	AutoLeave string    `json:"auto_leave"`

	Speaker string `json:"speaker"`
	Amp     string `json:"amp"`

	EndNone      string `json:"end_none"`
	EndParked    string `json:"end_parked"`
	EndOnstage   string `json:"end_onstage"`
	EndSpotlight string `json:"end_spotlight"`
	EndHarmony   string `json:"end_harmony"`

	Trap [4]string `json:"trap"`

	Disabled string `json:"disabled"`
	Defense  string `json:"defense"`

	AutoNotesTotal     int `json:"auto_notes_total"`
	SpeakerScoredTotal int `json:"speaker_scored_total"`
	AmpScoredTotal     int `json:"amp_scored_total"`
	TrapNotesTotal     int `json:"trap_notes_total"`
	IntakeFloorTotal   int `json:"intake_floor_total"`
	IntakeSourceTotal  int `json:"intake_source_total"`

	MatchesPlayed int       `json:"matches_played"`
	ComputedAt    time.Time `json:"computed_at"`
}

// Ranking is the composite weighted-sum score row, one per (team, event).
type Ranking struct {
	TeamNumber    int       `json:"team_number"`
	EventKey      string    `json:"event_key"`
	AutoScore     float64   `json:"auto_score"`
	TeleopScore   float64   `json:"teleop_score"`
	EndgameScore  float64   `json:"endgame_score"`
	OverallScore  float64   `json:"overall_score"`
	MatchesPlayed int       `json:"matches_played"`
	ComputedAt    time.Time `json:"computed_at"`
}
