package catalog

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/matzehuels/stellarmap/pkg/errors"
)

// newAstroDB writes a small AstroDB-style file: two single-star systems, one
// binary container with two components, a planet and an empty system.
func newAstroDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Total.AstroDB")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE bodies (
			id INTEGER PRIMARY KEY, system_id INTEGER, parent_id INTEGER,
			name TEXT, spectral TEXT, radius REAL, mass REAL, luminosity REAL, temp REAL,
			x REAL, y REAL, z REAL)`,
		`INSERT INTO bodies VALUES (1, 1, 0, 'Sol', 'G2V', 1, 1, 1, 5778, 0, 0, 0)`,
		`INSERT INTO bodies VALUES (2, 2, 0, 'Amateru', 'K0V', 0.9, 0.8, 0.5, NULL, 3, 4, 0)`,
		`INSERT INTO bodies VALUES (3, 3, 0, 'Rigel Kent', '', NULL, NULL, NULL, NULL, 10, 20, 30)`,
		`INSERT INTO bodies VALUES (4, 3, 3, 'Rigel Kent B', 'K1V', 0.86, 0.9, 0.5, 5260, 0.01, 0, 0)`,
		`INSERT INTO bodies VALUES (5, 3, 3, 'Rigel Kent A', 'G2V', 1.2, 1.1, 1.5, 5790, -0.01, 0, 0)`,
		`INSERT INTO bodies VALUES (6, 1, 1, 'Earth', NULL, 0.009, 0.000003, 0, 288, 0, 0, 0)`,
		`INSERT INTO bodies VALUES (7, 7, 0, 'Empty', NULL, NULL, NULL, NULL, NULL, 50, 50, 50)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
	return path
}

func TestSQLiteAstroDB(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, newAstroDB(t), SchemaAuto)
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	defer s.Close()

	if s.Schema() != SchemaAstroDB {
		t.Errorf("Schema() = %q, want %q", s.Schema(), SchemaAstroDB)
	}

	stars, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}
	var names []string
	for _, st := range stars {
		names = append(names, st.Name)
	}
	want := []string{"Amateru", "Sol", "Rigel Kent A", "Rigel Kent B"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}

	b := stars[3]
	if b.System != "Rigel Kent" || b.X != 10 || b.Y != 20 || b.Z != 30 {
		t.Errorf("component = %+v, want system position (10,20,30)", b)
	}
	if b.ID != "4" || b.Temperature != 5260 {
		t.Errorf("component = %+v", b)
	}
	if stars[0].Temperature != 0 {
		t.Errorf("NULL temp = %v, want 0", stars[0].Temperature)
	}
}

func TestSQLiteByName(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, newAstroDB(t), SchemaAuto)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	got, err := s.ByName(ctx, "Rigel Kent A")
	if err != nil {
		t.Fatalf("ByName() error: %v", err)
	}
	if got.Luminosity != 1.5 || got.System != "Rigel Kent" {
		t.Errorf("ByName = %+v", got)
	}

	if _, err := s.ByName(ctx, "Earth"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("planets are not stars; got %v", err)
	}
	if _, err := s.ByName(ctx, "Rigel Kent"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("containers are not stars; got %v", err)
	}
	if got, err := s.ByName(ctx, ""); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("ByName(\"\") = %q, %v; want NOT_FOUND", got.Name, err)
	}
}

func TestSQLiteFlatStars(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stars.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range []string{
		`CREATE TABLE stars (id INTEGER, name TEXT, x REAL, y REAL, z REAL, spectral TEXT,
			radius_solar REAL, mass_solar REAL, luminosity_solar REAL)`,
		`INSERT INTO stars VALUES (2, 'Vega', 3, 0, 24, 'A0V', 2.4, 2.1, 40)`,
		`INSERT INTO stars VALUES (1, 'Altair', 8, 10, 5, 'A7V', 1.6, 1.8, 10.6)`,
	} {
		if _, err := db.Exec(q); err != nil {
			t.Fatal(err)
		}
	}
	db.Close()

	s, err := OpenSQLite(ctx, path, SchemaAuto)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Schema() != SchemaStars {
		t.Errorf("Schema() = %q, want %q", s.Schema(), SchemaStars)
	}
	stars, err := s.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stars) != 2 || stars[0].Name != "Altair" || stars[1].Luminosity != 40 {
		t.Errorf("All() = %+v", stars)
	}
	if got, err := s.ByName(ctx, ""); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("ByName(\"\") = %q, %v; want NOT_FOUND", got.Name, err)
	}
}

func TestSQLiteUnknownSchema(t *testing.T) {
	if _, err := OpenSQLite(context.Background(), newAstroDB(t), "galaxy"); err == nil {
		t.Error("expected error for unknown schema")
	}
}

func TestOpenSQLiteCached(t *testing.T) {
	ctx := context.Background()
	c := newCountingCache()
	r, err := Open(ctx, newAstroDB(t), Options{Cache: c})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer r.Close()

	if _, ok := r.(*Cached); !ok {
		t.Fatalf("Open() = %T, want *Cached", r)
	}
	if _, err := r.All(ctx); err != nil {
		t.Fatal(err)
	}
	if c.sets != 1 {
		t.Errorf("cache sets = %d, want 1", c.sets)
	}
}
