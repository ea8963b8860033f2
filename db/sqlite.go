// Package db stores the delivery route in SQLite.
package db

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"

	"urbanflux/route"
)

// RouteStore reads and replaces the route_segments table.
type RouteStore struct {
	database *sql.DB
}

// OpenRouteStore opens the SQLite database at path, creating the schema
// if needed.
func OpenRouteStore(path string) (*RouteStore, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS route_segments (
        id TEXT PRIMARY KEY,
        position INTEGER NOT NULL,
        origin TEXT NOT NULL DEFAULT '',
        destination TEXT NOT NULL DEFAULT '',
        distance_km REAL NOT NULL,
        speed_kmh REAL NOT NULL,
        congestion TEXT NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_route_segments_position ON route_segments(position);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, err
	}
	return &RouteStore{database: database}, nil
}

func (s *RouteStore) Close() error {
	return s.database.Close()
}

// Segments returns the stored route in travel order.
func (s *RouteStore) Segments(ctx context.Context) ([]route.Segment, error) {
	rows, err := s.database.QueryContext(ctx, `
        SELECT id, origin, destination, distance_km, speed_kmh, congestion
        FROM route_segments
        ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	segments := make([]route.Segment, 0)
	for rows.Next() {
		var seg route.Segment
		if err := rows.Scan(&seg.ID, &seg.Origin, &seg.Destination, &seg.DistanceKm, &seg.SpeedKmh, &seg.Congestion); err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// ReplaceSegments swaps the whole route for segments, keeping their order.
func (s *RouteStore) ReplaceSegments(ctx context.Context, segments []route.Segment) error {
	tx, err := s.database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM route_segments`); err != nil {
		tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO route_segments (id, position, origin, destination, distance_km, speed_kmh, congestion)
        VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, seg := range segments {
		if _, err := stmt.ExecContext(ctx, seg.ID, i, seg.Origin, seg.Destination, seg.DistanceKm, seg.SpeedKmh, seg.Congestion); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
