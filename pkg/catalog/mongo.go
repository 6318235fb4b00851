package catalog

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/stellarmap/pkg/observability"
	"github.com/matzehuels/stellarmap/pkg/star"
)

// Defaults for the MongoDB provider.
const (
	DefaultMongoDatabase   = "stellarmap"
	DefaultMongoCollection = "stars"
)

// Mongo reads stars from a MongoDB collection. Documents use the field
// names of star.Record's bson tags; "id" may be a string or a number.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to uri and verifies the connection. Empty database or
// collection names select the defaults.
func OpenMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, unavailable(err, "mongo", "connect")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, unavailable(err, "mongo", "ping")
	}
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// mongoDoc is the stored shape of a star. It differs from star.Record only in
// accepting any BSON type for the id.
type mongoDoc struct {
	OID         any     `bson:"_id,omitempty"`
	ID          any     `bson:"id,omitempty"`
	Name        string  `bson:"name"`
	X           float64 `bson:"x"`
	Y           float64 `bson:"y"`
	Z           float64 `bson:"z"`
	Spectral    string  `bson:"spectral,omitempty"`
	Radius      float64 `bson:"radius,omitempty"`
	Mass        float64 `bson:"mass,omitempty"`
	Luminosity  float64 `bson:"luminosity,omitempty"`
	Temperature float64 `bson:"temperature,omitempty"`
	System      string  `bson:"system,omitempty"`
}

func (d mongoDoc) record() star.Record {
	return star.Record{
		ID:          mongoID(d.ID, d.OID),
		Name:        d.Name,
		X:           d.X,
		Y:           d.Y,
		Z:           d.Z,
		Spectral:    d.Spectral,
		Radius:      d.Radius,
		Mass:        d.Mass,
		Luminosity:  d.Luminosity,
		Temperature: d.Temperature,
		System:      d.System,
	}
}

func mongoID(id, oid any) string {
	switch v := id.(type) {
	case nil:
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
	if o, ok := oid.(primitive.ObjectID); ok {
		return o.Hex()
	}
	return ""
}

// All returns every document sorted by name.
func (m *Mongo) All(ctx context.Context) ([]star.Record, error) {
	start := time.Now()
	stars, err := m.find(ctx)
	observability.Catalog().OnCatalogRead(ctx, "mongo", len(stars), time.Since(start), err)
	return stars, err
}

func (m *Mongo) find(ctx context.Context) ([]star.Record, error) {
	cur, err := m.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, unavailable(err, "mongo", "find")
	}
	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable(err, "mongo", "decode")
	}
	stars := make([]star.Record, len(docs))
	for i, d := range docs {
		stars[i] = d.record()
	}
	return stars, nil
}

// ByName returns the document whose name equals name.
func (m *Mongo) ByName(ctx context.Context, name string) (star.Record, error) {
	start := time.Now()
	var d mongoDoc
	err := m.coll.FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&d)
	observability.Catalog().OnCatalogLookup(ctx, "mongo", err == nil, time.Since(start))
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return star.Record{}, notFound(name, "mongo")
	}
	if err != nil {
		return star.Record{}, unavailable(err, "mongo", "find %q", name)
	}
	return d.record(), nil
}

// Import upserts stars keyed by (id, name) and returns how many documents
// were inserted or modified.
func (m *Mongo) Import(ctx context.Context, stars []star.Record) (int, error) {
	if len(stars) == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, len(stars))
	for i, s := range stars {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "id", Value: s.ID}, {Key: "name", Value: s.Name}}).
			SetReplacement(s).
			SetUpsert(true)
	}
	res, err := m.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, unavailable(err, "mongo", "import")
	}
	return int(res.UpsertedCount + res.ModifiedCount), nil
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Reader = (*Mongo)(nil)
