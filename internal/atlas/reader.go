package atlas

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound reports that an atlas has no entry under the requested name.
var ErrNotFound = errors.New("texture not found")

// Reader reads texture entries from an atlas database.
type Reader struct {
	db   *sql.DB
	path string
}

// OpenReader opens an atlas database for reading.
func OpenReader(path string) (*Reader, error) {
	// Open in read-only mode with immutable flag
	db, err := sql.Open("sqlite", path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify schema exists
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='textures'").Scan(&count)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify schema: %w", err)
	}
	if count == 0 {
		db.Close()
		return nil, fmt.Errorf("database does not contain textures table")
	}

	return &Reader{
		db:   db,
		path: path,
	}, nil
}

const entryColumns = "id, name, seed, width, height, scale, octaves, persistence, lacunarity, algorithm, ramp, created_at"

// List returns all entries ordered by name. PNG data is not loaded;
// use Get for the full entry.
func (r *Reader) List() ([]Entry, error) {
	rows, err := r.db.Query("SELECT " + entryColumns + " FROM textures ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query textures: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating textures: %w", err)
	}

	return entries, nil
}

// Get returns the full entry stored under name, including PNG data.
func (r *Reader) Get(name string) (Entry, error) {
	row := r.db.QueryRow(
		"SELECT "+entryColumns+", png FROM textures WHERE name = ?", name)

	var e Entry
	var createdAt string
	err := row.Scan(&e.ID, &e.Name, &e.Seed, &e.Width, &e.Height,
		&e.Scale, &e.Octaves, &e.Persistence, &e.Lacunarity,
		&e.Algorithm, &e.Ramp, &createdAt, &e.PNG)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to query texture %q: %w", name, err)
	}

	e.CreatedAt = parseCreatedAt(createdAt)
	return e, nil
}

// Metadata reads atlas metadata from the database.
func (r *Reader) Metadata() (Metadata, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	metaMap := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Metadata{}, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		metaMap[name] = value
	}

	if err := rows.Err(); err != nil {
		return Metadata{}, fmt.Errorf("error iterating metadata: %w", err)
	}

	return Metadata{
		Name:        metaMap["name"],
		Description: metaMap["description"],
		Version:     metaMap["version"],
	}, nil
}

// Close closes the database connection.
func (r *Reader) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var createdAt string
	if err := rows.Scan(&e.ID, &e.Name, &e.Seed, &e.Width, &e.Height,
		&e.Scale, &e.Octaves, &e.Persistence, &e.Lacunarity,
		&e.Algorithm, &e.Ramp, &createdAt); err != nil {
		return Entry{}, fmt.Errorf("failed to scan texture row: %w", err)
	}
	e.CreatedAt = parseCreatedAt(createdAt)
	return e, nil
}

// parseCreatedAt tolerates malformed timestamps; a zero time is better
// than failing a whole listing over one bad row.
func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
