package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jkim999/lawyer-search-engine/pkg/types"
)

// ErrNoCachedText is returned when a lawyer has no cached profile text.
var ErrNoCachedText = errors.New("no cached profile text for lawyer")

// Navigation chrome that site extractors occasionally mistake for a name.
var nameBlacklist = []string{
	"print this page", "download address card", "back to top", "back to",
	"lawyers", "capabilities", "insights", "experience", "education",
	"skip to main content", "top of page",
}

// repairName rejects blacklisted navigation text and, when possible,
// reconstructs a plausible name from the email local part.
func repairName(name, email string) string {
	if name == "" {
		return ""
	}
	lower := strings.ToLower(strings.TrimSpace(name))
	blacklisted := false
	for _, b := range nameBlacklist {
		if strings.Contains(lower, b) {
			blacklisted = true
			break
		}
	}
	if !blacklisted {
		return name
	}

	if email != "" && strings.Contains(email, "@") {
		local := strings.SplitN(email, "@", 2)[0]
		words := strings.FieldsFunc(local, func(r rune) bool { return r == '.' || r == '-' })
		for i, w := range words {
			if w != "" {
				words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
			}
		}
		candidate := strings.Join(words, " ")
		if len(words) >= 2 && len(candidate) < 50 {
			return candidate
		}
	}
	return ""
}

// UpsertLawyer inserts or replaces a lawyer and all attribute rows. Attribute
// sub-tables are rewritten wholesale so stale rows never survive an update.
func (s *Store) UpsertLawyer(ctx context.Context, l *types.Lawyer) (int64, error) {
	name := repairName(l.Name, l.Email)
	var firstName, lastName string
	if parts := strings.SplitN(name, " ", 2); len(parts) > 0 {
		firstName = parts[0]
		if len(parts) > 1 {
			lastName = parts[1]
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO lawyers (url, name, first_name, last_name, email, phone, title, office_location, clerkship, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(url) DO UPDATE SET
			name = excluded.name,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			phone = excluded.phone,
			title = excluded.title,
			office_location = excluded.office_location,
			clerkship = excluded.clerkship,
			updated_at = CURRENT_TIMESTAMP`,
		l.SourceURL, name, firstName, lastName, l.Email, l.Phone, l.Title, l.OfficeLocation, l.Clerkship)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert lawyer: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		row := tx.QueryRowContext(ctx, `SELECT id FROM lawyers WHERE url = ?`, l.SourceURL)
		if err := row.Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to resolve lawyer id: %w", err)
		}
	}

	for _, table := range []string{"educations", "practices", "industries", "regions", "languages"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE lawyer_id = ?`, table), id); err != nil {
			return 0, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, e := range l.Educations {
		lawDegree := 0
		if e.IsLawDegree {
			lawDegree = 1
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO educations (lawyer_id, degree_type, year, school_name, school_normalized, is_law_degree, honors)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, e.DegreeType, e.Year, e.SchoolName, e.SchoolNormalized, lawDegree, e.Honors); err != nil {
			return 0, fmt.Errorf("failed to insert education: %w", err)
		}
	}

	attrInserts := []struct {
		stmt   string
		values []string
	}{
		{`INSERT INTO practices (lawyer_id, practice_type) VALUES (?, ?)`, l.Practices},
		{`INSERT INTO industries (lawyer_id, industry) VALUES (?, ?)`, l.Industries},
		{`INSERT INTO regions (lawyer_id, region) VALUES (?, ?)`, l.Regions},
		{`INSERT INTO languages (lawyer_id, language) VALUES (?, ?)`, l.Languages},
	}
	for _, a := range attrInserts {
		for _, v := range a.values {
			if _, err := tx.ExecContext(ctx, a.stmt, id, v); err != nil {
				return 0, fmt.Errorf("failed to insert attribute: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit upsert: %w", err)
	}
	return id, nil
}

// GetRefs returns identity rows for the given lawyer IDs, keyed by ID.
func (s *Store) GetRefs(ctx context.Context, ids []int64) (map[int64]types.LawyerRef, error) {
	refs := make(map[int64]types.LawyerRef, len(ids))
	stmt, err := s.db.PrepareContext(ctx, `SELECT id, name, url FROM lawyers WHERE id = ?`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare ref lookup: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		var ref types.LawyerRef
		err := stmt.QueryRowContext(ctx, id).Scan(&ref.ID, &ref.DisplayName, &ref.SourceURL)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up lawyer %d: %w", id, err)
		}
		refs[id] = ref
	}
	return refs, nil
}

// CachedText returns the cached profile text for a lawyer: the parsed page
// text plus the experience section, joined. Returns ErrNoCachedText when the
// lawyer has no embedding row or both fields are empty.
func (s *Store) CachedText(ctx context.Context, lawyerID int64) (string, error) {
	var parsed, content sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT parsed_text, content FROM experience_embeddings WHERE lawyer_id = ?`,
		lawyerID).Scan(&parsed, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoCachedText
	}
	if err != nil {
		return "", fmt.Errorf("failed to load cached text: %w", err)
	}

	text := strings.TrimSpace(parsed.String + " " + content.String)
	if text == "" {
		return "", ErrNoCachedText
	}
	return text, nil
}

// StoreEmbedding saves (or replaces) the experience embedding row for a
// lawyer, including the text it was generated from.
func (s *Store) StoreEmbedding(ctx context.Context, lawyerID int64, content, parsedText string, vector []float32) error {
	// A missing vector stays NULL so the embedding pass can find the row.
	var blob any
	if len(vector) > 0 {
		blob = encodeVector(vector)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO experience_embeddings (lawyer_id, content, parsed_text, embedding)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(lawyer_id) DO UPDATE SET
			content = excluded.content,
			parsed_text = excluded.parsed_text,
			embedding = excluded.embedding,
			created_at = CURRENT_TIMESTAMP`,
		lawyerID, content, parsedText, blob)
	if err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}
	return nil
}

// EmbeddingRow is one stored vector with its owner.
type EmbeddingRow struct {
	LawyerID int64
	Vector   []float32
}

// AllEmbeddings loads every stored experience vector. The slice may be empty
// when the corpus has not been embedded yet; the retriever turns that into
// its not-ready condition.
func (s *Store) AllEmbeddings(ctx context.Context) ([]EmbeddingRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ee.lawyer_id, ee.embedding
		 FROM experience_embeddings ee
		 JOIN lawyers l ON ee.lawyer_id = l.id
		 WHERE ee.embedding IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to load embeddings: %w", err)
	}
	defer rows.Close()

	var result []EmbeddingRow
	for rows.Next() {
		var r EmbeddingRow
		var blob []byte
		if err := rows.Scan(&r.LawyerID, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan embedding row: %w", err)
		}
		r.Vector = decodeVector(blob)
		result = append(result, r)
	}
	return result, rows.Err()
}

// LawyersMissingEmbeddings returns lawyers that have no stored vector yet,
// for the offline embedding pass.
func (s *Store) LawyersMissingEmbeddings(ctx context.Context) ([]types.LawyerRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT l.id, l.name, l.url FROM lawyers l
		 LEFT JOIN experience_embeddings ee ON l.id = ee.lawyer_id
		 WHERE ee.id IS NULL OR ee.embedding IS NULL
		 ORDER BY l.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unembedded lawyers: %w", err)
	}
	defer rows.Close()

	var refs []types.LawyerRef
	for rows.Next() {
		var ref types.LawyerRef
		if err := rows.Scan(&ref.ID, &ref.DisplayName, &ref.SourceURL); err != nil {
			return nil, fmt.Errorf("failed to scan lawyer row: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// PendingEmbedding is a cached experience text awaiting a vector.
type PendingEmbedding struct {
	LawyerID int64
	Content  string
}

// PendingEmbeddings returns cached texts whose vectors have not been
// computed yet.
func (s *Store) PendingEmbeddings(ctx context.Context) ([]PendingEmbedding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT lawyer_id, content FROM experience_embeddings
		 WHERE embedding IS NULL AND content IS NOT NULL AND content != ''
		 ORDER BY lawyer_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending embeddings: %w", err)
	}
	defer rows.Close()

	var pending []PendingEmbedding
	for rows.Next() {
		var p PendingEmbedding
		if err := rows.Scan(&p.LawyerID, &p.Content); err != nil {
			return nil, fmt.Errorf("failed to scan pending embedding: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// UpdateEmbeddingVector fills in the vector for an existing cached text row.
func (s *Store) UpdateEmbeddingVector(ctx context.Context, lawyerID int64, vector []float32) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE experience_embeddings SET embedding = ?, created_at = CURRENT_TIMESTAMP
		 WHERE lawyer_id = ?`,
		encodeVector(vector), lawyerID)
	if err != nil {
		return fmt.Errorf("failed to update embedding vector: %w", err)
	}
	return nil
}

// Vectors are stored as little-endian float32 blobs.

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(blob []byte) []float32 {
	v := make([]float32, len(blob)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return v
}
