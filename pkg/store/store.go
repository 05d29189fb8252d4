// Package store persists distance matrices and family/clan assignments
// to a sqlite database for the reporting layer.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/yumyai/gcfnet/pkg/distance"
	"github.com/yumyai/gcfnet/pkg/family"
	"github.com/yumyai/gcfnet/pkg/model"
)

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		run_id     TEXT PRIMARY KEY,
		mode       TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	CREATE TABLE IF NOT EXISTS distance_records (
		run_id    TEXT NOT NULL,
		class     TEXT NOT NULL,
		bgc_a     TEXT NOT NULL,
		bgc_b     TEXT NOT NULL,
		distance  REAL NOT NULL,
		jaccard   REAL NOT NULL,
		adjacency REAL NOT NULL,
		identity  REAL NOT NULL,
		start_a   INTEGER NOT NULL,
		start_b   INTEGER NOT NULL,
		length    INTEGER NOT NULL,
		reverse   INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS families (
		run_id    TEXT NOT NULL,
		class     TEXT NOT NULL,
		cutoff    REAL NOT NULL,
		family_id INTEGER NOT NULL,
		rep_a     TEXT,
		rep_b     TEXT
	);
	CREATE TABLE IF NOT EXISTS family_members (
		run_id       TEXT NOT NULL,
		class        TEXT NOT NULL,
		cutoff       REAL NOT NULL,
		family_id    INTEGER NOT NULL,
		bgc          TEXT NOT NULL,
		is_reference INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS clans (
		run_id    TEXT NOT NULL,
		class     TEXT NOT NULL,
		cutoff    REAL NOT NULL,
		clan_id   INTEGER NOT NULL,
		family_id INTEGER NOT NULL
	);
`

// Store wraps the sqlite connection.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening results db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun registers a run id before any group results are written.
func (s *Store) CreateRun(runID, mode string) error {
	_, err := s.db.Exec(`INSERT INTO runs (run_id, mode) VALUES (?, ?)`, runID, mode)
	if err != nil {
		return fmt.Errorf("registering run %s: %w", runID, err)
	}
	return nil
}

// SaveMatrix inserts the class group's distance records in one
// transaction.
func (s *Store) SaveMatrix(runID, class string, matrix []distance.Record, bgcs []*model.BGC) error {
	ctx := context.TODO()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	stm, err := tx.PrepareContext(ctx, `
		INSERT INTO distance_records
			(run_id, class, bgc_a, bgc_b, distance, jaccard, adjacency, identity,
			 start_a, start_b, length, reverse)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stm.Close()

	for _, rec := range matrix {
		rev := 0
		if rec.Reverse {
			rev = 1
		}
		_, err := stm.ExecContext(ctx, runID, class,
			bgcs[rec.A].Name, bgcs[rec.B].Name,
			rec.Distance, rec.Jaccard, rec.Adjacency, rec.Identity,
			rec.StartA, rec.StartB, rec.Length, rev)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting record %s - %s: %w", bgcs[rec.A].Name, bgcs[rec.B].Name, err)
		}
	}

	return tx.Commit()
}

// SaveResults inserts family and clan assignments for every cutoff of
// one class group.
func (s *Store) SaveResults(runID, class string, results []family.Result, bgcs []*model.BGC) error {
	ctx := context.TODO()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	for _, res := range results {
		for _, fam := range res.Families {
			repA, repB := "", ""
			if fam.Representative.PairA >= 0 {
				repA = bgcs[fam.Representative.PairA].Name
				repB = bgcs[fam.Representative.PairB].Name
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO families (run_id, class, cutoff, family_id, rep_a, rep_b)
				VALUES (?, ?, ?, ?, ?, ?)`,
				runID, class, res.Cutoff, fam.ID, repA, repB)
			if err != nil {
				tx.Rollback()
				return err
			}
			for _, m := range fam.Members {
				ref := 0
				if bgcs[m].Reference {
					ref = 1
				}
				_, err := tx.ExecContext(ctx, `
					INSERT INTO family_members (run_id, class, cutoff, family_id, bgc, is_reference)
					VALUES (?, ?, ?, ?, ?, ?)`,
					runID, class, res.Cutoff, fam.ID, bgcs[m].Name, ref)
				if err != nil {
					tx.Rollback()
					return err
				}
			}
		}
		for _, clan := range res.Clans {
			for _, fi := range clan.Families {
				_, err := tx.ExecContext(ctx, `
					INSERT INTO clans (run_id, class, cutoff, clan_id, family_id)
					VALUES (?, ?, ?, ?, ?)`,
					runID, class, res.Cutoff, clan.ID, fi)
				if err != nil {
					tx.Rollback()
					return err
				}
			}
		}
	}

	return tx.Commit()
}

// FamilyMembers reads back the member names of one family, sorted.
func (s *Store) FamilyMembers(runID, class string, cutoff float64, familyID int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT bgc FROM family_members
		WHERE run_id = ? AND class = ? AND cutoff = ? AND family_id = ?
		ORDER BY bgc`,
		runID, class, cutoff, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		members = append(members, name)
	}
	return members, rows.Err()
}
