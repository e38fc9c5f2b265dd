package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/garvtayal-05/Interview-Platform-sub000/internal/model"

	_ "modernc.org/sqlite"
)

// ErrRecordClosed is returned when a finalized record would be modified.
var ErrRecordClosed = errors.New("evaluation record already finalized")

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluation_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		overall_technical REAL,
		overall_communication REAL,
		overall_problem_solving REAL,
		overall_confidence REAL,
		strengths TEXT,
		weaknesses TEXT,
		recommendations TEXT,
		session_duration INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		finalized_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_evaluation_records_user
		ON evaluation_records (user_id, created_at);

	CREATE TABLE IF NOT EXISTS evaluations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_id INTEGER NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		response_time REAL NOT NULL DEFAULT 0,
		processing_time INTEGER NOT NULL DEFAULT 0,
		correctness INTEGER,
		grammar INTEGER,
		vocabulary INTEGER,
		fluency INTEGER,
		confidence INTEGER,
		relevance INTEGER,
		feedback TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		FOREIGN KEY (record_id) REFERENCES evaluation_records(id)
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_record
		ON evaluations (record_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// AppendEvaluation upserts the record keyed by sessionID and appends eval to
// it. The record's user and session duration are overwritten with the given
// values on every call.
func (s *Store) AppendEvaluation(ctx context.Context, userID, sessionID string, eval model.Evaluation, sessionDuration int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := s.now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO evaluation_records (session_id, user_id, session_duration, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
			user_id = excluded.user_id,
			session_duration = excluded.session_duration,
			updated_at = excluded.updated_at
		 WHERE evaluation_records.finalized_at IS NULL`,
		sessionID, userID, sessionDuration, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}

	var recordID int64
	var finalizedAt *time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT id, finalized_at FROM evaluation_records WHERE session_id = ?`, sessionID,
	).Scan(&recordID, &finalizedAt)
	if err != nil {
		return fmt.Errorf("lookup record: %w", err)
	}
	if finalizedAt != nil {
		return ErrRecordClosed
	}

	sc := eval.Scores
	_, err = tx.ExecContext(ctx,
		`INSERT INTO evaluations (record_id, question, answer, response_time, processing_time,
			correctness, grammar, vocabulary, fluency, confidence, relevance, feedback, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recordID, eval.Question, eval.Answer, eval.ResponseTime, eval.ProcessingTime,
		sc.Correctness, sc.Grammar, sc.Vocabulary, sc.Fluency, sc.Confidence, sc.Relevance,
		eval.Feedback, now,
	)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}

	return tx.Commit()
}

// FinalizeRecord stores the session summary and total duration. A record can
// be finalized once; later calls return ErrRecordClosed.
func (s *Store) FinalizeRecord(ctx context.Context, sessionID string, summary model.Summary, sessionDuration int64) error {
	strengths, err := json.Marshal(summary.Strengths)
	if err != nil {
		return err
	}
	weaknesses, err := json.Marshal(summary.Weaknesses)
	if err != nil {
		return err
	}
	recommendations, err := json.Marshal(summary.Recommendations)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	oe := summary.OverallEvaluation
	res, err := s.db.ExecContext(ctx,
		`UPDATE evaluation_records SET
			overall_technical = ?, overall_communication = ?,
			overall_problem_solving = ?, overall_confidence = ?,
			strengths = ?, weaknesses = ?, recommendations = ?,
			session_duration = ?, updated_at = ?, finalized_at = ?
		 WHERE session_id = ? AND finalized_at IS NULL`,
		oe.Technical, oe.Communication, oe.ProblemSolving, oe.Confidence,
		string(strengths), string(weaknesses), string(recommendations),
		sessionDuration, now, now, sessionID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordClosed
	}
	return nil
}

const recordColumns = `id, session_id, user_id,
	overall_technical, overall_communication, overall_problem_solving, overall_confidence,
	strengths, weaknesses, recommendations,
	session_duration, created_at, updated_at, finalized_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.EvaluationRecord, error) {
	var r model.EvaluationRecord
	var oe model.OverallEvaluation
	var strengths, weaknesses, recommendations sql.NullString
	err := row.Scan(&r.ID, &r.SessionID, &r.UserID,
		&oe.Technical, &oe.Communication, &oe.ProblemSolving, &oe.Confidence,
		&strengths, &weaknesses, &recommendations,
		&r.SessionDuration, &r.CreatedAt, &r.UpdatedAt, &r.FinalizedAt)
	if err != nil {
		return r, err
	}
	if r.FinalizedAt != nil {
		r.OverallEvaluation = &oe
	}
	if r.Strengths, err = decodeList(strengths); err != nil {
		return r, fmt.Errorf("decode strengths: %w", err)
	}
	if r.Weaknesses, err = decodeList(weaknesses); err != nil {
		return r, fmt.Errorf("decode weaknesses: %w", err)
	}
	if r.Recommendations, err = decodeList(recommendations); err != nil {
		return r, fmt.Errorf("decode recommendations: %w", err)
	}
	return r, nil
}

func decodeList(ns sql.NullString) ([]string, error) {
	if !ns.Valid {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRecord returns the record for a session, or nil if none exists.
func (s *Store) GetRecord(ctx context.Context, sessionID string) (*model.EvaluationRecord, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM evaluation_records WHERE session_id = ?`, sessionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	evals, err := s.getEvaluations(ctx, `WHERE e.record_id = ?`, r.ID)
	if err != nil {
		return nil, err
	}
	r.Evaluations = evals[r.ID]
	return &r, nil
}

// ListRecordsByUser returns every record of a user, oldest first, with their
// evaluations in append order.
func (s *Store) ListRecordsByUser(ctx context.Context, userID string) ([]model.EvaluationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM evaluation_records WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []model.EvaluationRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	evals, err := s.getEvaluations(ctx,
		`JOIN evaluation_records r ON r.id = e.record_id WHERE r.user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Evaluations = evals[records[i].ID]
	}
	return records, nil
}

// getEvaluations loads evaluations matching the clause, grouped by record ID.
func (s *Store) getEvaluations(ctx context.Context, clause string, args ...any) (map[int64][]model.Evaluation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.record_id, e.question, e.answer, e.response_time, e.processing_time,
			e.correctness, e.grammar, e.vocabulary, e.fluency, e.confidence, e.relevance, e.feedback
		 FROM evaluations e `+clause+` ORDER BY e.record_id, e.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64][]model.Evaluation)
	for rows.Next() {
		var recordID int64
		var e model.Evaluation
		sc := &e.Scores
		if err := rows.Scan(&recordID, &e.Question, &e.Answer, &e.ResponseTime, &e.ProcessingTime,
			&sc.Correctness, &sc.Grammar, &sc.Vocabulary, &sc.Fluency, &sc.Confidence, &sc.Relevance,
			&e.Feedback); err != nil {
			return nil, err
		}
		out[recordID] = append(out[recordID], e)
	}
	return out, rows.Err()
}

// RecordCount returns the number of records stored for a user.
func (s *Store) RecordCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM evaluation_records WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}
