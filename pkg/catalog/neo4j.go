package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/matzehuels/stellarmap/pkg/observability"
	"github.com/matzehuels/stellarmap/pkg/star"
)

// DefaultNeo4jDatabase is the database queried when none is configured.
const DefaultNeo4jDatabase = "neo4j"

const neo4jReturn = `
RETURN s.id AS id, s.name AS name, s.x AS x, s.y AS y, s.z AS z,
       s.spectral AS spectral, s.radius AS radius, s.mass AS mass,
       s.luminosity AS luminosity, s.temperature AS temperature, s.system AS system`

const (
	neo4jAllQuery    = `MATCH (s:Star)` + neo4jReturn + `
ORDER BY s.name`
	neo4jByNameQuery = `MATCH (s:Star {name: $name})` + neo4jReturn + `
LIMIT 1`
	neo4jImportQuery = `
UNWIND $stars AS row
MERGE (s:Star {name: row.name, id: row.id})
SET s += row`
)

// Neo4j reads stars from (:Star) nodes.
type Neo4j struct {
	driver neo4j.DriverWithContext
	db     string
}

// OpenNeo4j connects to uri with basic auth and verifies connectivity.
func OpenNeo4j(ctx context.Context, uri, user, password, database string) (*Neo4j, error) {
	if database == "" {
		database = DefaultNeo4jDatabase
	}
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, unavailable(err, "neo4j", "create driver")
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, unavailable(err, "neo4j", "connect %s", uri)
	}
	return &Neo4j{driver: driver, db: database}, nil
}

func (n *Neo4j) run(ctx context.Context, query string, params map[string]any, write bool) (*neo4j.EagerResult, error) {
	routing := neo4j.ExecuteQueryWithReadersRouting()
	if write {
		routing = neo4j.ExecuteQueryWithWritersRouting()
	}
	return neo4j.ExecuteQuery(ctx, n.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(n.db),
		routing,
	)
}

// All returns every star node sorted by name.
func (n *Neo4j) All(ctx context.Context) ([]star.Record, error) {
	start := time.Now()
	var stars []star.Record
	res, err := n.run(ctx, neo4jAllQuery, nil, false)
	if err == nil {
		stars = make([]star.Record, len(res.Records))
		for i, rec := range res.Records {
			stars[i] = neo4jRecord(rec)
		}
	}
	observability.Catalog().OnCatalogRead(ctx, "neo4j", len(stars), time.Since(start), err)
	if err != nil {
		return nil, unavailable(err, "neo4j", "match stars")
	}
	return stars, nil
}

// ByName returns the star node whose name equals name.
func (n *Neo4j) ByName(ctx context.Context, name string) (star.Record, error) {
	start := time.Now()
	res, err := n.run(ctx, neo4jByNameQuery, map[string]any{"name": name}, false)
	found := err == nil && len(res.Records) > 0
	observability.Catalog().OnCatalogLookup(ctx, "neo4j", found, time.Since(start))
	if err != nil {
		return star.Record{}, unavailable(err, "neo4j", "match %q", name)
	}
	if !found {
		return star.Record{}, notFound(name, "neo4j")
	}
	return neo4jRecord(res.Records[0]), nil
}

// Import merges stars into (:Star) nodes keyed by (name, id) and returns the
// number of stars written.
func (n *Neo4j) Import(ctx context.Context, stars []star.Record) (int, error) {
	if len(stars) == 0 {
		return 0, nil
	}
	rows := make([]any, len(stars))
	for i, s := range stars {
		rows[i] = neo4jProps(s)
	}
	if _, err := n.run(ctx, neo4jImportQuery, map[string]any{"stars": rows}, true); err != nil {
		return 0, unavailable(err, "neo4j", "import")
	}
	return len(stars), nil
}

// Close closes the driver.
func (n *Neo4j) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return n.driver.Close(ctx)
}

func neo4jProps(s star.Record) map[string]any {
	return map[string]any{
		"id":          s.ID,
		"name":        s.Name,
		"x":           s.X,
		"y":           s.Y,
		"z":           s.Z,
		"spectral":    s.Spectral,
		"radius":      s.Radius,
		"mass":        s.Mass,
		"luminosity":  s.Luminosity,
		"temperature": s.Temperature,
		"system":      s.System,
	}
}

func neo4jRecord(rec *neo4j.Record) star.Record {
	str := func(key string) string {
		v, _ := rec.Get(key)
		switch v := v.(type) {
		case nil:
			return ""
		case string:
			return v
		default:
			return fmt.Sprint(v)
		}
	}
	num := func(key string) float64 {
		v, _ := rec.Get(key)
		switch v := v.(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		}
		return 0
	}
	return star.Record{
		ID:          str("id"),
		Name:        str("name"),
		X:           num("x"),
		Y:           num("y"),
		Z:           num("z"),
		Spectral:    str("spectral"),
		Radius:      num("radius"),
		Mass:        num("mass"),
		Luminosity:  num("luminosity"),
		Temperature: num("temperature"),
		System:      str("system"),
	}
}

var _ Reader = (*Neo4j)(nil)
