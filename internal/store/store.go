// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists finished bibliography records and their
// evidence trails in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jikhanjung/pdfhunter/pkg/types"
)

const dbFile = "records.db"

// Store manages the record database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the record database at DataDir/records.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			type TEXT,
			title TEXT,
			authors TEXT,
			issued TEXT,
			container_title TEXT,
			volume TEXT,
			issue TEXT,
			page TEXT,
			publisher TEXT,
			publisher_place TEXT,
			collection_title TEXT,
			collection_number TEXT,
			doi TEXT,
			issn TEXT,
			isbn TEXT,
			language TEXT,
			abstract TEXT,
			status TEXT,
			confidence REAL,
			source_file TEXT,
			saved_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS evidence (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			record_id TEXT NOT NULL REFERENCES records(id) ON DELETE CASCADE,
			field TEXT NOT NULL,
			value TEXT,
			kind TEXT,
			page INTEGER,
			source_text TEXT,
			confidence REAL,
			metadata TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evidence_record_id ON evidence(record_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_status ON records(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save upserts a record and replaces its evidence trail.
func (s *Store) Save(ctx context.Context, rec *types.BibliographyRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("record has no id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	authorsJSON, _ := json.Marshal(rec.Author)
	issuedJSON := ""
	if rec.Issued != nil {
		b, _ := json.Marshal(rec.Issued)
		issuedJSON = string(b)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (id, type, title, authors, issued, container_title,
			volume, issue, page, publisher, publisher_place, collection_title,
			collection_number, doi, issn, isbn, language, abstract,
			status, confidence, source_file, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			type=excluded.type, title=excluded.title, authors=excluded.authors,
			issued=excluded.issued, container_title=excluded.container_title,
			volume=excluded.volume, issue=excluded.issue, page=excluded.page,
			publisher=excluded.publisher, publisher_place=excluded.publisher_place,
			collection_title=excluded.collection_title,
			collection_number=excluded.collection_number,
			doi=excluded.doi, issn=excluded.issn, isbn=excluded.isbn,
			language=excluded.language, abstract=excluded.abstract,
			status=excluded.status, confidence=excluded.confidence,
			source_file=excluded.source_file, saved_at=excluded.saved_at`,
		rec.ID, rec.Type, rec.Title, string(authorsJSON), issuedJSON,
		rec.ContainerTitle, rec.Volume, rec.Issue, rec.Page,
		rec.Publisher, rec.PublisherPlace, rec.CollectionTitle,
		rec.CollectionNumber, rec.DOI, rec.ISSN, rec.ISBN,
		rec.Language, rec.Abstract, string(rec.Status), rec.Confidence,
		rec.SourceFile, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM evidence WHERE record_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("deleting old evidence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO evidence (record_id, field, value, kind, page, source_text, confidence, metadata)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing evidence insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range rec.Evidence {
		metadataJSON, _ := json.Marshal(ev.Metadata)
		_, err := stmt.ExecContext(ctx,
			rec.ID, string(ev.Field), ev.Value, string(ev.Kind),
			ev.Page, ev.SourceText, ev.Confidence, string(metadataJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting evidence: %w", err)
		}
	}

	return tx.Commit()
}

const recordColumns = `id, type, title, authors, issued, container_title,
	volume, issue, page, publisher, publisher_place, collection_title,
	collection_number, doi, issn, isbn, language, abstract,
	status, confidence, source_file`

// Get loads one record with its evidence trail.
func (s *Store) Get(ctx context.Context, id string) (*types.BibliographyRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading record %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT field, value, kind, page, source_text, confidence, metadata
		 FROM evidence WHERE record_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("loading evidence for %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ev           types.Evidence
			field, kind  string
			metadataJSON string
		)
		if err := rows.Scan(&field, &ev.Value, &kind, &ev.Page,
			&ev.SourceText, &ev.Confidence, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning evidence: %w", err)
		}
		ev.Field = types.Field(field)
		ev.Kind = types.EvidenceKind(kind)
		if metadataJSON != "" && metadataJSON != "null" {
			json.Unmarshal([]byte(metadataJSON), &ev.Metadata)
		}
		rec.Evidence = append(rec.Evidence, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading evidence: %w", err)
	}

	return rec, nil
}

// List returns saved records without their evidence trails, newest
// first. A non-empty status filters the result.
func (s *Store) List(ctx context.Context, status types.RecordStatus) ([]*types.BibliographyRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM records`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY saved_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []*types.BibliographyRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return records, nil
}

// Delete removes a record and, via the foreign key, its evidence.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("record %s not found", id)
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*types.BibliographyRecord, error) {
	var (
		rec         types.BibliographyRecord
		authorsJSON string
		issuedJSON  string
		status      string
	)
	err := row.Scan(&rec.ID, &rec.Type, &rec.Title, &authorsJSON, &issuedJSON,
		&rec.ContainerTitle, &rec.Volume, &rec.Issue, &rec.Page,
		&rec.Publisher, &rec.PublisherPlace, &rec.CollectionTitle,
		&rec.CollectionNumber, &rec.DOI, &rec.ISSN, &rec.ISBN,
		&rec.Language, &rec.Abstract, &status, &rec.Confidence, &rec.SourceFile)
	if err != nil {
		return nil, err
	}

	rec.Status = types.RecordStatus(status)
	if authorsJSON != "" && authorsJSON != "null" {
		json.Unmarshal([]byte(authorsJSON), &rec.Author)
	}
	if issuedJSON != "" {
		var issued types.DateParts
		if json.Unmarshal([]byte(issuedJSON), &issued) == nil {
			rec.Issued = &issued
		}
	}
	return &rec, nil
}
