// Package store provides a read-only Postgres source for basket collections,
// used when the graph view service is co-located with the substrate database
// instead of reading through the backend API. The schema is owned by the
// substrate backend; this package only selects from it.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/substratehq/graphview/pkg/substrate"
)

// PostgresSource implements substrate.Source against a pgx pool.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource connects a source to the substrate database.
func NewPostgresSource(ctx context.Context, databaseURL string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &PostgresSource{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}

// LoadSnapshot selects the four collections of a basket.
func (s *PostgresSource) LoadSnapshot(ctx context.Context, basketID string) (substrate.Snapshot, error) {
	snap := substrate.Snapshot{BasketID: basketID}

	fragments, err := s.loadFragments(ctx, basketID)
	if err != nil {
		return substrate.Snapshot{}, fmt.Errorf("failed to load fragments: %w", err)
	}
	snap.Fragments = fragments

	captures, err := s.loadCaptures(ctx, basketID)
	if err != nil {
		return substrate.Snapshot{}, fmt.Errorf("failed to load captures: %w", err)
	}
	snap.Captures = captures

	tags, err := s.loadTags(ctx, basketID)
	if err != nil {
		return substrate.Snapshot{}, fmt.Errorf("failed to load tags: %w", err)
	}
	snap.Tags = tags

	links, err := s.loadLinks(ctx, basketID)
	if err != nil {
		return substrate.Snapshot{}, fmt.Errorf("failed to load links: %w", err)
	}
	snap.Links = links

	return snap, nil
}

func (s *PostgresSource) loadFragments(ctx context.Context, basketID string) ([]substrate.Fragment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, semantic_type, confidence_score
		FROM blocks
		WHERE basket_id = $1 AND state != 'archived'
		ORDER BY created_at`,
		basketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fragments []substrate.Fragment
	for rows.Next() {
		var f substrate.Fragment
		var title, semanticType *string
		if err := rows.Scan(&f.ID, &title, &semanticType, &f.ConfidenceScore); err != nil {
			return nil, err
		}
		if title != nil {
			f.Title = *title
		}
		if semanticType != nil {
			f.SemanticType = *semanticType
		}
		fragments = append(fragments, f)
	}
	return fragments, rows.Err()
}

func (s *PostgresSource) loadCaptures(ctx context.Context, basketID string) ([]substrate.Capture, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, source_type
		FROM raw_dumps
		WHERE basket_id = $1 AND NOT redacted
		ORDER BY created_at`,
		basketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var captures []substrate.Capture
	for rows.Next() {
		var c substrate.Capture
		var sourceType *string
		if err := rows.Scan(&c.ID, &sourceType); err != nil {
			return nil, err
		}
		if sourceType != nil {
			c.SourceMeta = &substrate.SourceMeta{SourceType: *sourceType}
		}
		captures = append(captures, c)
	}
	return captures, rows.Err()
}

func (s *PostgresSource) loadTags(ctx context.Context, basketID string) ([]substrate.SemanticTag, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, normalized_label, type
		FROM context_items
		WHERE basket_id = $1 AND state != 'archived'
		ORDER BY created_at`,
		basketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []substrate.SemanticTag
	for rows.Next() {
		var tag substrate.SemanticTag
		var title, label, typ *string
		if err := rows.Scan(&tag.ID, &title, &label, &typ); err != nil {
			return nil, err
		}
		if title != nil {
			tag.Title = *title
		}
		if label != nil {
			tag.NormalizedLabel = *label
		}
		if typ != nil {
			tag.Type = *typ
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (s *PostgresSource) loadLinks(ctx context.Context, basketID string) ([]substrate.TypedLink, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, from_id, to_id, relationship_type, weight
		FROM substrate_relationships
		WHERE basket_id = $1
		ORDER BY created_at`,
		basketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []substrate.TypedLink
	for rows.Next() {
		var l substrate.TypedLink
		var relType *string
		if err := rows.Scan(&l.ID, &l.FromID, &l.ToID, &relType, &l.Weight); err != nil {
			return nil, err
		}
		if relType != nil {
			l.RelationshipType = *relType
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
