// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// ExportYAML writes every indexed chunk to a YAML file so the index can
// be inspected or diffed outside SQLite.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, chunk_id, content FROM chunks
		 ORDER BY source, chunk_id LIMIT ?`, exportLimit)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		if err := rows.Scan(&c.Source, &c.ChunkID, &c.Content); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	data, err := yaml.Marshal(chunks)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
