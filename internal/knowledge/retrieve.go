// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Chunk is one retrieved passage with its origin document.
type Chunk struct {
	Source  string `json:"source" yaml:"source"`
	ChunkID int    `json:"chunk_id" yaml:"chunk_id"`
	Content string `json:"content" yaml:"content"`
}

// Retrieve returns the passages most relevant to text, ranked by FTS5
// relevance. A non-positive n uses the store default. Free text is
// tokenized into an OR query so punctuation in paper titles never breaks
// the match syntax.
func (s *Store) Retrieve(ctx context.Context, text string, n int) ([]Chunk, error) {
	if n <= 0 {
		n = s.maxResults
	}

	query := ftsQuery(text)
	if query == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.source, c.chunk_id, c.content
		 FROM chunks_fts
		 JOIN chunks c ON c.rowid = chunks_fts.rowid
		 WHERE chunks_fts MATCH ?
		 ORDER BY chunks_fts.rank
		 LIMIT ?`, query, n)
	if err != nil {
		return nil, fmt.Errorf("querying knowledge index: %w", err)
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		if err := rows.Scan(&c.Source, &c.ChunkID, &c.Content); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// Context retrieves passages relevant to text and formats them for
// inclusion in a prompt, each tagged with its source document.
func (s *Store) Context(ctx context.Context, text string, n int) (string, error) {
	chunks, err := s.Retrieve(ctx, text, n)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("[Source: %s]\n%s", c.Source, c.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}

// DocumentCount returns how many documents are indexed.
func (s *Store) DocumentCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM documents`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// ftsQuery turns free text into an FTS5 OR query of quoted words.
func ftsQuery(text string) string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(words))
	var terms []string
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, `"`+w+`"`)
	}
	return strings.Join(terms, " OR ")
}
