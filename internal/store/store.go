// Package store handles SQLite persistence of analysis runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ruarcs/wc/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width UTC so analyzed_at sorts and compares as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			path TEXT NOT NULL,
			analyzed_at TEXT NOT NULL,
			lines INTEGER NOT NULL,
			words INTEGER NOT NULL,
			letters INTEGER NOT NULL,
			avg_letters REAL NOT NULL,
			most_common TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_letters (
			run_id INTEGER NOT NULL,
			letter TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, letter)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_analyzed_at ON runs(analyzed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_path ON runs(path);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores an analysis run and its nonzero letter counts.
func (s *Store) InsertRun(ctx context.Context, run model.RunRecord) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (path, analyzed_at, lines, words, letters, avg_letters, most_common)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Path,
		run.AnalyzedAt.UTC().Format(timeLayout),
		run.Result.Lines,
		run.Result.Words,
		run.Result.Letters,
		run.Result.AverageLettersPerWord,
		encodeLetterSet(run.Result.MostCommonLetters),
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_letters (run_id, letter, count) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, count := range run.Result.LetterCounts {
		if count == 0 {
			continue
		}
		if _, err = stmt.ExecContext(ctx, id, string(rune('a'+i)), count); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns stored runs filtered by cfg, oldest first.
func (s *Store) ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.RunRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Path != "" {
		clauses = append(clauses, "path = ?")
		args = append(args, cfg.Path)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "analyzed_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, path, analyzed_at, lines, words, letters, avg_letters, most_common
		FROM runs
		WHERE %s
		ORDER BY analyzed_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunRecord
	for rows.Next() {
		var run model.RunRecord
		var analyzedAt, mostCommon string
		if err := rows.Scan(&run.ID, &run.Path, &analyzedAt, &run.Result.Lines, &run.Result.Words,
			&run.Result.Letters, &run.Result.AverageLettersPerWord, &mostCommon); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, analyzedAt)
		if err != nil {
			return nil, err
		}
		run.AnalyzedAt = parsed
		run.Result.MostCommonLetters = decodeLetterSet(mostCommon)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}
	if err := s.loadLetterCounts(ctx, runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *Store) loadLetterCounts(ctx context.Context, runs []model.RunRecord) error {
	if len(runs) == 0 {
		return nil
	}
	byID := make(map[int64]*model.RunRecord, len(runs))
	ids := make([]int64, len(runs))
	for i := range runs {
		byID[runs[i].ID] = &runs[i]
		ids[i] = runs[i].ID
	}
	placeholders, args := inClause(ids)
	query := fmt.Sprintf(`SELECT run_id, letter, count
		FROM run_letters
		WHERE run_id IN (%s)`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	for rows.Next() {
		var runID, count int64
		var letter string
		if err := rows.Scan(&runID, &letter, &count); err != nil {
			return err
		}
		run, ok := byID[runID]
		if !ok || len(letter) != 1 || letter[0] < 'a' || letter[0] > 'z' {
			continue
		}
		run.Result.LetterCounts[letter[0]-'a'] = count
	}
	return rows.Err()
}

// ListLetterAggregates sums letter counts across the given runs.
func (s *Store) ListLetterAggregates(ctx context.Context, runIDs []int64) ([]model.LetterAggregate, error) {
	if len(runIDs) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(runIDs)
	query := fmt.Sprintf(`SELECT letter, SUM(count) AS count
		FROM run_letters
		WHERE run_id IN (%s)
		GROUP BY letter
		ORDER BY letter ASC`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LetterAggregate
	for rows.Next() {
		var agg model.LetterAggregate
		if err := rows.Scan(&agg.Letter, &agg.Count); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteRuns removes every run recorded before the given time, together
// with its letter counts, in a single transaction.
func (s *Store) DeleteRuns(ctx context.Context, before time.Time) (removed int64, err error) {
	cutoff := before.UTC().Format(timeLayout)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM run_letters WHERE run_id IN (SELECT id FROM runs WHERE analyzed_at < ?)`, cutoff); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE analyzed_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	removed, err = res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return removed, nil
}

func inClause(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}

func encodeLetterSet(set map[rune]struct{}) string {
	var b strings.Builder
	for r := 'a'; r <= 'z'; r++ {
		if _, ok := set[r]; ok {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func decodeLetterSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}
