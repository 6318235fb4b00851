package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/stellarmap/pkg/observability"
	"github.com/matzehuels/stellarmap/pkg/star"
)

// SQLite table layouts understood by the SQLite provider.
const (
	// SchemaAuto picks SchemaAstroDB when a "bodies" table exists and
	// SchemaStars otherwise.
	SchemaAuto = ""
	// SchemaAstroDB is an Astrosynthesis AstroDB file: a "bodies" table of
	// systems, stars and planets linked by system_id and parent_id.
	SchemaAstroDB = "astrodb"
	// SchemaStars is a flat "stars" table with id, name, x, y, z, spectral,
	// radius_solar, mass_solar and luminosity_solar columns.
	SchemaStars = "stars"
)

// Single-star systems: the system row is itself the star.
const astroSingleQuery = `
SELECT CAST(id AS TEXT), name, spectral, radius, mass, luminosity, temp, x, y, z, ''
FROM bodies
WHERE system_id = id AND parent_id = 0 AND spectral != '' AND spectral IS NOT NULL %s
ORDER BY name`

// Components of multi-star systems: stars whose parent is a system row
// without a spectral type. Components take the system's position.
const astroMultiQuery = `
SELECT CAST(b.id AS TEXT), b.name, b.spectral, b.radius, b.mass, b.luminosity, b.temp,
       c.x, c.y, c.z, c.name
FROM bodies b
JOIN bodies c ON b.parent_id = c.id
WHERE c.system_id = c.id AND c.parent_id = 0
  AND (c.spectral = '' OR c.spectral IS NULL)
  AND b.spectral != '' AND b.spectral IS NOT NULL %s
ORDER BY c.name, b.name`

const flatStarsQuery = `
SELECT CAST(id AS TEXT), name, spectral, radius_solar, mass_solar, luminosity_solar, 0, x, y, z, ''
FROM stars %s
ORDER BY name`

// SQLite reads stars from a SQLite database file.
type SQLite struct {
	db     *sql.DB
	schema string
	path   string
}

// OpenSQLite opens the database at path read-only. schema is one of the
// Schema constants.
func OpenSQLite(ctx context.Context, path, schema string) (*SQLite, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, unavailable(err, "sqlite", "open %s", path)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, unavailable(err, "sqlite", "open %s", path)
	}

	s := &SQLite{db: db, schema: schema, path: path}
	if schema == SchemaAuto {
		if s.schema, err = detectSchema(ctx, db); err != nil {
			db.Close()
			return nil, unavailable(err, "sqlite", "inspect %s", path)
		}
	}
	if s.schema != SchemaAstroDB && s.schema != SchemaStars {
		db.Close()
		return nil, fmt.Errorf("sqlite: unknown schema %q (want %s or %s)", schema, SchemaAstroDB, SchemaStars)
	}
	return s, nil
}

func detectSchema(ctx context.Context, db *sql.DB) (string, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'bodies'`).Scan(&n)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return SchemaAstroDB, nil
	}
	return SchemaStars, nil
}

// Schema returns the table layout in use.
func (s *SQLite) Schema() string { return s.schema }

// All returns every star. For AstroDB files single-star systems come first,
// then multi-star components, each group sorted by name.
func (s *SQLite) All(ctx context.Context) ([]star.Record, error) {
	start := time.Now()
	stars, err := s.query(ctx, nil)
	observability.Catalog().OnCatalogRead(ctx, "sqlite", len(stars), time.Since(start), err)
	return stars, err
}

// ByName returns the first star named name, searching single stars before
// multi-star components.
func (s *SQLite) ByName(ctx context.Context, name string) (star.Record, error) {
	start := time.Now()
	stars, err := s.query(ctx, &name)
	observability.Catalog().OnCatalogLookup(ctx, "sqlite", len(stars) > 0, time.Since(start))
	if err != nil {
		return star.Record{}, err
	}
	if len(stars) == 0 {
		return star.Record{}, notFound(name, "sqlite")
	}
	return stars[0], nil
}

// query reads every star, or only those named *name when name is non-nil.
func (s *SQLite) query(ctx context.Context, name *string) ([]star.Record, error) {
	var args []any
	single, multi, flat := "", "", ""
	if name != nil {
		args = []any{*name}
		single, multi, flat = "AND name = ?", "AND b.name = ?", "WHERE name = ?"
	}

	queries := []string{fmt.Sprintf(flatStarsQuery, flat)}
	if s.schema == SchemaAstroDB {
		queries = []string{
			fmt.Sprintf(astroSingleQuery, single),
			fmt.Sprintf(astroMultiQuery, multi),
		}
	}

	var stars []star.Record
	for _, q := range queries {
		batch, err := s.scan(ctx, q, args...)
		if err != nil {
			return nil, unavailable(err, "sqlite", "query %s", s.path)
		}
		stars = append(stars, batch...)
	}
	return stars, nil
}

func (s *SQLite) scan(ctx context.Context, q string, args ...any) ([]star.Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stars []star.Record
	for rows.Next() {
		var (
			id, name, spectral, system sql.NullString
			radius, mass, lum, temp    sql.NullFloat64
			x, y, z                    sql.NullFloat64
		)
		if err := rows.Scan(&id, &name, &spectral, &radius, &mass, &lum, &temp, &x, &y, &z, &system); err != nil {
			return nil, err
		}
		stars = append(stars, star.Record{
			ID:          id.String,
			Name:        name.String,
			X:           x.Float64,
			Y:           y.Float64,
			Z:           z.Float64,
			Spectral:    spectral.String,
			Radius:      radius.Float64,
			Mass:        mass.Float64,
			Luminosity:  lum.Float64,
			Temperature: temp.Float64,
			System:      system.String,
		})
	}
	return stars, rows.Err()
}

// Fingerprint identifies the file contents for cache keys.
func (s *SQLite) Fingerprint() string {
	return fileFingerprint(s.path)
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

var _ Reader = (*SQLite)(nil)
