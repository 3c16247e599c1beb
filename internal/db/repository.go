package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"personality_insights/internal/results"
)

type NarrativeKind string

const (
	KindJustification NarrativeKind = "justification"
	KindAnalysis      NarrativeKind = "analysis"
)

type Participant struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

// Store keeps local copies of participant narratives and scores and serves
// them through the same Source contract as the result service.
type Store struct {
	conn *sql.DB
	now  func() time.Time
}

var _ results.Source = (*Store)(nil)

func NewStore(path string) (*Store, error) {
	conn, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &Store{conn: conn, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) SaveNarrative(ctx context.Context, participantID, name string, kind NarrativeKind, body string) error {
	id, err := results.NormalizeID(participantID)
	if err != nil {
		return err
	}
	if kind != KindJustification && kind != KindAnalysis {
		return fmt.Errorf("unknown narrative kind %q", kind)
	}
	stamp := s.now().UTC().Format(time.RFC3339)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := upsertParticipant(ctx, tx, id, name, stamp); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO narratives(participant_id, kind, body, updated_at) VALUES(?,?,?,?)
		 ON CONFLICT(participant_id, kind) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		id, string(kind), body, stamp,
	); err != nil {
		return fmt.Errorf("save narrative: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SaveScores replaces the trait scores and performance predictions held for
// a participant.
func (s *Store) SaveScores(ctx context.Context, participantID string, scores map[string]string, performance map[string]float64) error {
	id, err := results.NormalizeID(participantID)
	if err != nil {
		return err
	}
	stamp := s.now().UTC().Format(time.RFC3339)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := upsertParticipant(ctx, tx, id, "", stamp); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE participant_id = ?`, id); err != nil {
		return fmt.Errorf("clear scores: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM performance WHERE participant_id = ?`, id); err != nil {
		return fmt.Errorf("clear performance: %w", err)
	}
	for label, value := range scores {
		if _, err := tx.ExecContext(ctx, `INSERT INTO scores(participant_id, label, value) VALUES(?,?,?)`, id, label, value); err != nil {
			return fmt.Errorf("insert score: %w", err)
		}
	}
	for label, value := range performance {
		if _, err := tx.ExecContext(ctx, `INSERT INTO performance(participant_id, label, value) VALUES(?,?,?)`, id, label, value); err != nil {
			return fmt.Errorf("insert performance: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) Justification(ctx context.Context, participantID string) (results.Justification, error) {
	id, err := results.NormalizeID(participantID)
	if err != nil {
		return results.Justification{}, err
	}
	body, ok, err := s.narrative(ctx, id, KindJustification)
	if err != nil {
		return results.Justification{}, err
	}
	if !ok {
		return results.Justification{ParticipantID: id, Message: results.DefaultMissingMessage}, nil
	}
	return results.Justification{ParticipantID: id, Found: true, Text: body}, nil
}

func (s *Store) Result(ctx context.Context, participantID string) (results.Result, error) {
	id, err := results.NormalizeID(participantID)
	if err != nil {
		return results.Result{}, err
	}
	var exists int
	err = s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return results.Result{}, fmt.Errorf("lookup participant: %w", err)
	}
	if exists == 0 {
		return results.Result{ParticipantID: id, Message: "not found"}, nil
	}

	out := results.Result{
		ParticipantID: id,
		Found:         true,
		Scores:        map[string]string{},
		Performance:   map[string]float64{},
	}
	if err := s.loadScores(ctx, id, out.Scores); err != nil {
		return results.Result{}, err
	}
	if err := s.loadPerformance(ctx, id, out.Performance); err != nil {
		return results.Result{}, err
	}

	analysis, _, err := s.narrative(ctx, id, KindAnalysis)
	if err != nil {
		return results.Result{}, err
	}
	out.Analysis = analysis
	return out, nil
}

func (s *Store) loadScores(ctx context.Context, id string, dst map[string]string) error {
	rows, err := s.conn.QueryContext(ctx, `SELECT label, value FROM scores WHERE participant_id = ?`, id)
	if err != nil {
		return fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var label, value string
		if err := rows.Scan(&label, &value); err != nil {
			return fmt.Errorf("scan score: %w", err)
		}
		dst[label] = value
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate scores: %w", err)
	}
	return nil
}

func (s *Store) loadPerformance(ctx context.Context, id string, dst map[string]float64) error {
	rows, err := s.conn.QueryContext(ctx, `SELECT label, value FROM performance WHERE participant_id = ?`, id)
	if err != nil {
		return fmt.Errorf("query performance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var label string
		var value float64
		if err := rows.Scan(&label, &value); err != nil {
			return fmt.Errorf("scan performance: %w", err)
		}
		dst[label] = value
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate performance: %w", err)
	}
	return nil
}

func (s *Store) ListParticipants(ctx context.Context) ([]Participant, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, COALESCE(name, ''), COALESCE(updated_at, '') FROM participants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var out []Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return out, nil
}

func (s *Store) narrative(ctx context.Context, id string, kind NarrativeKind) (string, bool, error) {
	var body sql.NullString
	err := s.conn.QueryRowContext(ctx,
		`SELECT body FROM narratives WHERE participant_id = ? AND kind = ?`, id, string(kind),
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load %s: %w", kind, err)
	}
	return body.String, true, nil
}

func upsertParticipant(ctx context.Context, tx *sql.Tx, id, name, stamp string) error {
	name = strings.TrimSpace(name)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO participants(id, name, updated_at) VALUES(?,?,?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = CASE WHEN excluded.name = '' THEN participants.name ELSE excluded.name END,
		   updated_at = excluded.updated_at`,
		id, name, stamp,
	); err != nil {
		return fmt.Errorf("upsert participant: %w", err)
	}
	return nil
}

func CountRows(dbPath, table string) (int, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	return countRowsConn(conn, table)
}

func (s *Store) CountRows(table string) (int, error) {
	return countRowsConn(s.conn, table)
}

var countableTables = map[string]bool{
	"participants": true,
	"narratives":   true,
	"scores":       true,
	"performance":  true,
}

func countRowsConn(conn *sql.DB, table string) (int, error) {
	if !countableTables[table] {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	row := conn.QueryRow(`SELECT COUNT(*) FROM ` + table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}
