package source

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/llmstream/pkg/buildinfo"
	"github.com/matzehuels/llmstream/pkg/cache"
	"github.com/matzehuels/llmstream/pkg/errors"
	"github.com/matzehuels/llmstream/pkg/observability"
	"github.com/matzehuels/llmstream/pkg/usage"
)

// MongoOptions configures a Mongo source.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	DateField  string // defaults to "date"
}

// Mongo reads records from a collection: one document per record with a
// date field and one numeric field per series. Documents are returned in
// date order.
type Mongo struct {
	client    *mongo.Client
	coll      *mongo.Collection
	dateField string
	name      string
}

// NewMongo connects to MongoDB and verifies the connection.
func NewMongo(ctx context.Context, opts MongoOptions) (*Mongo, error) {
	if opts.DateField == "" {
		opts.DateField = "date"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI).SetAppName(buildinfo.UserAgent()))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "connect")
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "ping mongodb")
	}
	return &Mongo{
		client:    client,
		coll:      client.Database(opts.Database).Collection(opts.Collection),
		dateField: opts.DateField,
		name:      "mongodb:" + opts.Database + "." + opts.Collection,
	}, nil
}

// Load reads every document sorted by date.
func (m *Mongo) Load(ctx context.Context) (usage.Dataset, error) {
	start := time.Now()
	data, err := m.load(ctx)
	observability.Source().OnLoad(ctx, m.name, len(data), time.Since(start), err)
	return data, err
}

func (m *Mongo) load(ctx context.Context) (usage.Dataset, error) {
	cur, err := m.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: m.dateField, Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "query %s", m.name)
	}
	defer cur.Close(ctx)

	var data usage.Dataset
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode document %d", len(data))
		}
		rec, err := DocumentRecord(doc, m.dateField)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "document %d", len(data))
		}
		data = append(data, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "read %s", m.name)
	}
	return data, nil
}

// Name returns "mongodb:<database>.<collection>".
func (m *Mongo) Name() string { return m.name }

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// DocumentRecord converts a decoded document into a record. The _id field
// is ignored; null values become NaN.
func DocumentRecord(doc bson.M, dateField string) (usage.Record, error) {
	var rec usage.Record
	switch d := doc[dateField].(type) {
	case primitive.DateTime:
		rec.Date = d.Time().UTC()
	case time.Time:
		rec.Date = d.UTC()
	case string:
		t, err := usage.ParseDate(d)
		if err != nil {
			return rec, err
		}
		rec.Date = t
	case nil:
		return rec, errors.New(errors.ErrCodeInvalidDataset, "missing %s field", dateField)
	default:
		return rec, errors.New(errors.ErrCodeInvalidDataset, "field %s has type %T", dateField, d)
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		if k != dateField && k != "_id" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	rec.Values = make(map[string]float64, len(keys))
	for _, k := range keys {
		switch v := doc[k].(type) {
		case float64:
			rec.Values[k] = v
		case int32:
			rec.Values[k] = float64(v)
		case int64:
			rec.Values[k] = float64(v)
		case nil:
			rec.Values[k] = math.NaN()
		default:
			return rec, errors.New(errors.ErrCodeInvalidDataset, "field %s has type %T", k, v)
		}
	}
	return rec, nil
}
