package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Collection and document ids consumed by the interview engine.
// Document ids carry a .json suffix because the original question generator
// names its uploads after the files it was fed.
const (
	QuestionCollection = "question_collection"
	UserCollection     = "user_collection"

	GeneralQuestionsDocID = "general_tiered_questions.json"
	ProfileDocID          = "profile_strcuture.json"
)

// ErrNotFound reports that a document is absent from its collection.
// Callers use this to tell "no such document" apart from a storage failure.
var ErrNotFound = errors.New("document not found")

// Get returns the stored document body, or ErrNotFound if absent.
func (s *Store) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND doc_id = ?`,
		collection, id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return json.RawMessage(body), nil
}

// Set stores body as the whole document, overwriting any previous version.
// Last writer wins; there is no concurrency check.
func (s *Store) Set(ctx context.Context, collection, id string, body json.RawMessage) error {
	if !json.Valid(body) {
		return fmt.Errorf("set %s/%s: body is not valid JSON", collection, id)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, doc_id, body, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection, doc_id) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at`,
		collection, id, string(body), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes a document. Deleting an absent document is not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND doc_id = ?`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// List returns the ids of all documents in a collection, sorted.
func (s *Store) List(ctx context.Context, collection string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id FROM documents WHERE collection = ? ORDER BY doc_id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
