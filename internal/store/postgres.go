package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scoutline/scoutline-data/internal/config"
)

// Postgres implements Store over a pgxpool.Pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres-backed store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// --------------------------------------------------------------------------
// Match records
// --------------------------------------------------------------------------

// scanMatch scans a row in matchColumns order (see internal/db).
func scanMatch(row pgx.Row) (*MatchRecord, error) {
	var m MatchRecord
	err := row.Scan(
		&m.ID, &m.TeamNumber, &m.EventKey, &m.MatchNumber,
		&m.AutoPos[0], &m.AutoPos[1], &m.AutoPos[2], &m.AutoPos[3], &m.AutoPos[4],
		&m.AutoPos[5], &m.AutoPos[6], &m.AutoPos[7], &m.AutoPos[8], &m.AutoLeave,
		&m.SpeakerAttempts, &m.SpeakerScored, &m.AmpAttempts, &m.AmpScored,
		&m.IntakeFloor, &m.IntakeSource,
		&m.EndState, &m.TrapNotes,
		&m.DriverRating, &m.Disabled, &m.Defense, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMatches(rows pgx.Rows) ([]MatchRecord, error) {
	defer rows.Close()
	var matches []MatchRecord
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// ListMatches returns all scouting records for a (team, event) pair in
// match-number order.
func (s *Postgres) ListMatches(ctx context.Context, teamNumber int, eventKey string) ([]MatchRecord, error) {
	rows, err := s.pool.Query(ctx, "matches_for_team", teamNumber, eventKey)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return collectMatches(rows)
}

// ListEventMatches returns every scouting record for an event.
func (s *Postgres) ListEventMatches(ctx context.Context, eventKey string) ([]MatchRecord, error) {
	rows, err := s.pool.Query(ctx, "matches_for_event", eventKey)
	if err != nil {
		return nil, fmt.Errorf("list event matches: %w", err)
	}
	return collectMatches(rows)
}

// GetMatch returns a single record by ID.
func (s *Postgres) GetMatch(ctx context.Context, id int64) (*MatchRecord, error) {
	m, err := scanMatch(s.pool.QueryRow(ctx, "match_by_id", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get match %d: %w", id, err)
	}
	return m, nil
}

// CreateMatch inserts a new scouting record and fills in the generated ID
// and timestamps. A duplicate (team, event, match) violates the unique
// constraint and surfaces as an error.
func (s *Postgres) CreateMatch(ctx context.Context, m *MatchRecord) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO `+config.MatchesTable+` (
			team_number, event_key, match_number,
			auto_pos_1, auto_pos_2, auto_pos_3, auto_pos_4, auto_pos_5,
			auto_pos_6, auto_pos_7, auto_pos_8, auto_pos_9, auto_leave,
			speaker_attempts, speaker_scored, amp_attempts, amp_scored,
			intake_floor, intake_source,
			end_state, trap_notes,
			driver_rating, disabled, defense, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
			$18,$19,$20,$21,$22,$23,$24,$25)
		RETURNING id, created_at, updated_at`,
		m.TeamNumber, m.EventKey, m.MatchNumber,
		m.AutoPos[0], m.AutoPos[1], m.AutoPos[2], m.AutoPos[3], m.AutoPos[4],
		m.AutoPos[5], m.AutoPos[6], m.AutoPos[7], m.AutoPos[8], m.AutoLeave,
		m.SpeakerAttempts, m.SpeakerScored, m.AmpAttempts, m.AmpScored,
		m.IntakeFloor, m.IntakeSource,
		m.EndState, m.TrapNotes,
		m.DriverRating, m.Disabled, m.Defense, m.Notes,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

// UpdateMatch replaces all observation fields of an existing record.
func (s *Postgres) UpdateMatch(ctx context.Context, m *MatchRecord) error {
	err := s.pool.QueryRow(ctx, `
		UPDATE `+config.MatchesTable+` SET
			match_number = $2,
			auto_pos_1 = $3, auto_pos_2 = $4, auto_pos_3 = $5, auto_pos_4 = $6,
			auto_pos_5 = $7, auto_pos_6 = $8, auto_pos_7 = $9, auto_pos_8 = $10,
			auto_pos_9 = $11, auto_leave = $12,
			speaker_attempts = $13, speaker_scored = $14,
			amp_attempts = $15, amp_scored = $16,
			intake_floor = $17, intake_source = $18,
			end_state = $19, trap_notes = $20,
			driver_rating = $21, disabled = $22, defense = $23, notes = $24,
			updated_at = NOW()
		WHERE id = $1
		RETURNING team_number, event_key, updated_at`,
		m.ID, m.MatchNumber,
		m.AutoPos[0], m.AutoPos[1], m.AutoPos[2], m.AutoPos[3], m.AutoPos[4],
		m.AutoPos[5], m.AutoPos[6], m.AutoPos[7], m.AutoPos[8], m.AutoLeave,
		m.SpeakerAttempts, m.SpeakerScored, m.AmpAttempts, m.AmpScored,
		m.IntakeFloor, m.IntakeSource,
		m.EndState, m.TrapNotes,
		m.DriverRating, m.Disabled, m.Defense, m.Notes,
	).Scan(&m.TeamNumber, &m.EventKey, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update match %d: %w", m.ID, err)
	}
	return nil
}

// DeleteMatch removes a record and returns the deleted row.
func (s *Postgres) DeleteMatch(ctx context.Context, id int64) (*MatchRecord, error) {
	m, err := scanMatch(s.pool.QueryRow(ctx, `
		DELETE FROM `+config.MatchesTable+` WHERE id = $1
		RETURNING `+matchColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete match %d: %w", id, err)
	}
	return m, nil
}

// CountMatches returns the number of records for a (team, event) pair.
func (s *Postgres) CountMatches(ctx context.Context, teamNumber int, eventKey string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "count_matches", teamNumber, eventKey).Scan(&n); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return n, nil
}

// matchColumns mirrors the column list in internal/db. Kept here for the
// DELETE ... RETURNING statement, which is not prepared.
const matchColumns = `id, team_number, event_key, match_number,
	auto_pos_1, auto_pos_2, auto_pos_3, auto_pos_4, auto_pos_5,
	auto_pos_6, auto_pos_7, auto_pos_8, auto_pos_9, auto_leave,
	speaker_attempts, speaker_scored, amp_attempts, amp_scored,
	intake_floor, intake_source,
	end_state, trap_notes,
	driver_rating, disabled, defense, notes,
	created_at, updated_at`

// --------------------------------------------------------------------------
// Teams
// --------------------------------------------------------------------------

// UpsertTeam registers a team at an event. The name is insert-only unless a
// non-empty replacement arrives.
func (s *Postgres) UpsertTeam(ctx context.Context, t Team) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+config.TeamsTable+` (team_number, event_key, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_number, event_key) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), `+config.TeamsTable+`.name)`,
		t.TeamNumber, t.EventKey, t.Name,
	)
	if err != nil {
		return fmt.Errorf("upsert team %d: %w", t.TeamNumber, err)
	}
	return nil
}

// ListTeams returns the roster for an event in team-number order.
func (s *Postgres) ListTeams(ctx context.Context, eventKey string) ([]Team, error) {
	rows, err := s.pool.Query(ctx, "teams_for_event", eventKey)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.TeamNumber, &t.EventKey, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// GetTeam returns one roster entry.
func (s *Postgres) GetTeam(ctx context.Context, teamNumber int, eventKey string) (*Team, error) {
	var t Team
	err := s.pool.QueryRow(ctx, "team_by_number", teamNumber, eventKey).
		Scan(&t.TeamNumber, &t.EventKey, &t.Name, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get team %d: %w", teamNumber, err)
	}
	return &t, nil
}

// DeleteTeam removes a roster entry.
func (s *Postgres) DeleteTeam(ctx context.Context, teamNumber int, eventKey string) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM "+config.TeamsTable+" WHERE team_number = $1 AND event_key = $2",
		teamNumber, eventKey)
	if err != nil {
		return fmt.Errorf("delete team %d: %w", teamNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --------------------------------------------------------------------------
// Pit reports
// --------------------------------------------------------------------------

// UpsertPitReport writes a pit survey keyed by (team, event).
func (s *Postgres) UpsertPitReport(ctx context.Context, r PitReport) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+config.PitReportsTable+` (
			team_number, event_key, drivetrain, weight_lbs,
			can_speaker, can_amp, can_trap, can_climb, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (team_number, event_key) DO UPDATE SET
			drivetrain = EXCLUDED.drivetrain,
			weight_lbs = EXCLUDED.weight_lbs,
			can_speaker = EXCLUDED.can_speaker,
			can_amp = EXCLUDED.can_amp,
			can_trap = EXCLUDED.can_trap,
			can_climb = EXCLUDED.can_climb,
			notes = EXCLUDED.notes,
			updated_at = NOW()`,
		r.TeamNumber, r.EventKey, r.Drivetrain, r.WeightLbs,
		r.CanSpeaker, r.CanAmp, r.CanTrap, r.CanClimb, r.Notes,
	)
	if err != nil {
		return fmt.Errorf("upsert pit report %d: %w", r.TeamNumber, err)
	}
	return nil
}

func scanPit(row pgx.Row) (*PitReport, error) {
	var r PitReport
	err := row.Scan(&r.TeamNumber, &r.EventKey, &r.Drivetrain, &r.WeightLbs,
		&r.CanSpeaker, &r.CanAmp, &r.CanTrap, &r.CanClimb, &r.Notes, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetPitReport returns one pit survey.
func (s *Postgres) GetPitReport(ctx context.Context, teamNumber int, eventKey string) (*PitReport, error) {
	r, err := scanPit(s.pool.QueryRow(ctx, "pit_by_team", teamNumber, eventKey))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pit report %d: %w", teamNumber, err)
	}
	return r, nil
}

// ListPitReports returns all pit surveys for an event.
func (s *Postgres) ListPitReports(ctx context.Context, eventKey string) ([]PitReport, error) {
	rows, err := s.pool.Query(ctx, "pit_for_event", eventKey)
	if err != nil {
		return nil, fmt.Errorf("list pit reports: %w", err)
	}
	defer rows.Close()

	var reports []PitReport
	for rows.Next() {
		r, err := scanPit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pit report: %w", err)
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

// --------------------------------------------------------------------------
// Aggregates
// --------------------------------------------------------------------------

// UpsertAggregates replaces the three aggregate rows for one (team, event)
// pair in a single transaction, so readers never see a half-updated set.
func (s *Postgres) UpsertAggregates(ctx context.Context, p Percentages, f Fractions, r Ranking) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin aggregates tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := upsertPercentages(ctx, tx, p); err != nil {
		return err
	}
	if err := upsertFractions(ctx, tx, f); err != nil {
		return err
	}
	if err := upsertRanking(ctx, tx, r); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit aggregates tx: %w", err)
	}
	return nil
}

func upsertPercentages(ctx context.Context, tx pgx.Tx, p Percentages) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO `+config.PercentagesTable+` (
			team_number, event_key,
			auto_pos_1_pct, auto_pos_2_pct, auto_pos_3_pct, auto_pos_4_pct,
			auto_pos_5_pct, auto_pos_6_pct, auto_pos_7_pct, auto_pos_8_pct,
			auto_pos_9_pct, auto_leave_pct,
			speaker_accuracy_pct, amp_accuracy_pct,
			end_none_pct, end_parked_pct, end_onstage_pct,
			end_spotlight_pct, end_harmony_pct,
			trap_0_pct, trap_1_pct, trap_2_pct, trap_3_pct,
			avg_rating, disabled_pct, defense_pct,
			matches_played, computed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
			$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)
		ON CONFLICT (team_number, event_key) DO UPDATE SET
			auto_pos_1_pct = EXCLUDED.auto_pos_1_pct,
			auto_pos_2_pct = EXCLUDED.auto_pos_2_pct,
			auto_pos_3_pct = EXCLUDED.auto_pos_3_pct,
			auto_pos_4_pct = EXCLUDED.auto_pos_4_pct,
			auto_pos_5_pct = EXCLUDED.auto_pos_5_pct,
			auto_pos_6_pct = EXCLUDED.auto_pos_6_pct,
			auto_pos_7_pct = EXCLUDED.auto_pos_7_pct,
			auto_pos_8_pct = EXCLUDED.auto_pos_8_pct,
			auto_pos_9_pct = EXCLUDED.auto_pos_9_pct,
			auto_leave_pct = EXCLUDED.auto_leave_pct,
			speaker_accuracy_pct = EXCLUDED.speaker_accuracy_pct,
			amp_accuracy_pct = EXCLUDED.amp_accuracy_pct,
			end_none_pct = EXCLUDED.end_none_pct,
			end_parked_pct = EXCLUDED.end_parked_pct,
			end_onstage_pct = EXCLUDED.end_onstage_pct,
			end_spotlight_pct = EXCLUDED.end_spotlight_pct,
			end_harmony_pct = EXCLUDED.end_harmony_pct,
			trap_0_pct = EXCLUDED.trap_0_pct,
			trap_1_pct = EXCLUDED.trap_1_pct,
			trap_2_pct = EXCLUDED.trap_2_pct,
			trap_3_pct = EXCLUDED.trap_3_pct,
			avg_rating = EXCLUDED.avg_rating,
			disabled_pct = EXCLUDED.disabled_pct,
			defense_pct = EXCLUDED.defense_pct,
			matches_played = EXCLUDED.matches_played,
			computed_at = EXCLUDED.computed_at`,
		p.TeamNumber, p.EventKey,
		p.AutoPos[0], p.AutoPos[1], p.AutoPos[2], p.AutoPos[3],
		p.AutoPos[4], p.AutoPos[5], p.AutoPos[6], p.AutoPos[7],
		p.AutoPos[8], p.AutoLeave,
		p.SpeakerAccuracy, p.AmpAccuracy,
		p.EndNone, p.EndParked, p.EndOnstage, p.EndSpotlight, p.EndHarmony,
		p.Trap[0], p.Trap[1], p.Trap[2], p.Trap[3],
		p.AvgRating, p.Disabled, p.Defense,
		p.MatchesPlayed, p.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert percentages %d/%s: %w", p.TeamNumber, p.EventKey, err)
	}
	return nil
}

func upsertFractions(ctx context.Context, tx pgx.Tx, f Fractions) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO `+config.FractionsTable+` (
			team_number, event_key,
			auto_pos_1, auto_pos_2, auto_pos_3, auto_pos_4, auto_pos_5,
			auto_pos_6, auto_pos_7, auto_pos_8, auto_pos_9, auto_leave,
			speaker, amp,
			end_none, end_parked, end_onstage, end_spotlight, end_harmony,
			trap_0, trap_1, trap_2, trap_3,
			disabled, defense,
			auto_notes_total, speaker_scored_total, amp_scored_total,
			trap_notes_total, intake_floor_total, intake_source_total,
			matches_played, computed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
			$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33)
		ON CONFLICT (team_number, event_key) DO UPDATE SET
			auto_pos_1 = EXCLUDED.auto_pos_1,
			auto_pos_2 = EXCLUDED.auto_pos_2,
			auto_pos_3 = EXCLUDED.auto_pos_3,
			auto_pos_4 = EXCLUDED.auto_pos_4,
			auto_pos_5 = EXCLUDED.auto_pos_5,
			auto_pos_6 = EXCLUDED.auto_pos_6,
			auto_pos_7 = EXCLUDED.auto_pos_7,
			auto_pos_8 = EXCLUDED.auto_pos_8,
			auto_pos_9 = EXCLUDED.auto_pos_9,
			auto_leave = EXCLUDED.auto_leave,
			speaker = EXCLUDED.speaker,
			amp = EXCLUDED.amp,
			end_none = EXCLUDED.end_none,
			end_parked = EXCLUDED.end_parked,
			end_onstage = EXCLUDED.end_onstage,
			end_spotlight = EXCLUDED.end_spotlight,
			end_harmony = EXCLUDED.end_harmony,
			trap_0 = EXCLUDED.trap_0,
			trap_1 = EXCLUDED.trap_1,
			trap_2 = EXCLUDED.trap_2,
			trap_3 = EXCLUDED.trap_3,
			disabled = EXCLUDED.disabled,
			defense = EXCLUDED.defense,
			auto_notes_total = EXCLUDED.auto_notes_total,
			speaker_scored_total = EXCLUDED.speaker_scored_total,
			amp_scored_total = EXCLUDED.amp_scored_total,
			trap_notes_total = EXCLUDED.trap_notes_total,
			intake_floor_total = EXCLUDED.intake_floor_total,
			intake_source_total = EXCLUDED.intake_source_total,
			matches_played = EXCLUDED.matches_played,
			computed_at = EXCLUDED.computed_at`,
		f.TeamNumber, f.EventKey,
		f.AutoPos[0], f.AutoPos[1], f.AutoPos[2], f.AutoPos[3], f.AutoPos[4],
		f.AutoPos[5], f.AutoPos[6], f.AutoPos[7], f.AutoPos[8], f.AutoLeave,
		f.Speaker, f.Amp,
		f.EndNone, f.EndParked, f.EndOnstage, f.EndSpotlight, f.EndHarmony,
		f.Trap[0], f.Trap[1], f.Trap[2], f.Trap[3],
		f.Disabled, f.Defense,
		f.AutoNotesTotal, f.SpeakerScoredTotal, f.AmpScoredTotal,
		f.TrapNotesTotal, f.IntakeFloorTotal, f.IntakeSourceTotal,
		f.MatchesPlayed, f.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert fractions %d/%s: %w", f.TeamNumber, f.EventKey, err)
	}
	return nil
}

func upsertRanking(ctx context.Context, tx pgx.Tx, r Ranking) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO `+config.RankingsTable+` (
			team_number, event_key,
			auto_score, teleop_score, endgame_score, overall_score,
			matches_played, computed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (team_number, event_key) DO UPDATE SET
			auto_score = EXCLUDED.auto_score,
			teleop_score = EXCLUDED.teleop_score,
			endgame_score = EXCLUDED.endgame_score,
			overall_score = EXCLUDED.overall_score,
			matches_played = EXCLUDED.matches_played,
			computed_at = EXCLUDED.computed_at`,
		r.TeamNumber, r.EventKey,
		r.AutoScore, r.TeleopScore, r.EndgameScore, r.OverallScore,
		r.MatchesPlayed, r.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert ranking %d/%s: %w", r.TeamNumber, r.EventKey, err)
	}
	return nil
}

// ListRankings returns all ranking rows for an event in team-number order.
// The ranking sort itself happens in the aggregator.
func (s *Postgres) ListRankings(ctx context.Context, eventKey string) ([]Ranking, error) {
	rows, err := s.pool.Query(ctx, "rankings_for_event", eventKey)
	if err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}
	defer rows.Close()

	var rankings []Ranking
	for rows.Next() {
		var r Ranking
		if err := rows.Scan(&r.TeamNumber, &r.EventKey, &r.AutoScore, &r.TeleopScore,
			&r.EndgameScore, &r.OverallScore, &r.MatchesPlayed, &r.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan ranking: %w", err)
		}
		rankings = append(rankings, r)
	}
	return rankings, rows.Err()
}

// PercentagesJSON returns the percentage row as raw JSON for passthrough.
func (s *Postgres) PercentagesJSON(ctx context.Context, teamNumber int, eventKey string) ([]byte, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, "percentages_by_team", teamNumber, eventKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get percentages %d/%s: %w", teamNumber, eventKey, err)
	}
	return raw, nil
}

// FractionsJSON returns the fraction row as raw JSON for passthrough.
func (s *Postgres) FractionsJSON(ctx context.Context, teamNumber int, eventKey string) ([]byte, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, "fractions_by_team", teamNumber, eventKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get fractions %d/%s: %w", teamNumber, eventKey, err)
	}
	return raw, nil
}
