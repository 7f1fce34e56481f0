package source

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/errors"
)

// MongoConfig locates the booking collections.
//
// Bookings live in Collection. Resources and groups live in the sibling
// collections "<Collection>_resources" and "<Collection>_groups" unless
// named explicitly.
type MongoConfig struct {
	URI                string
	Database           string
	Collection         string
	ResourceCollection string
	GroupCollection    string

	// Dates restricts bookings to these date keys. Empty loads all.
	Dates []string

	ConnectTimeout time.Duration
}

func (c MongoConfig) resourceCollection() string {
	if c.ResourceCollection != "" {
		return c.ResourceCollection
	}
	return c.Collection + "_resources"
}

func (c MongoConfig) groupCollection() string {
	if c.GroupCollection != "" {
		return c.GroupCollection
	}
	return c.Collection + "_groups"
}

// finder is the read surface of *mongo.Collection used by Mongo.
type finder interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Mongo reads a dataset from MongoDB.
type Mongo struct {
	cfg       MongoConfig
	client    *mongo.Client
	bookings  finder
	resources finder
	groups    finder
	logger    *log.Logger
}

// NewMongo connects to MongoDB and pings the server.
func NewMongo(ctx context.Context, cfg MongoConfig, logger *log.Logger) (*Mongo, error) {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "connect to mongo")
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeSource, err, "ping mongo")
	}
	logger.Debug("connected to mongo", "database", cfg.Database, "collection", cfg.Collection)

	db := client.Database(cfg.Database)
	m := newMongo(cfg, db.Collection(cfg.Collection), db.Collection(cfg.resourceCollection()), db.Collection(cfg.groupCollection()), logger)
	m.client = client
	return m, nil
}

func newMongo(cfg MongoConfig, bookings, resources, groups finder, logger *log.Logger) *Mongo {
	if logger == nil {
		logger = log.Default()
	}
	return &Mongo{
		cfg:       cfg,
		bookings:  bookings,
		resources: resources,
		groups:    groups,
		logger:    logger,
	}
}

// bookingFilter selects bookings on the configured dates.
func (m *Mongo) bookingFilter() bson.M {
	if len(m.cfg.Dates) == 0 {
		return bson.M{}
	}
	return bson.M{"date": bson.M{"$in": m.cfg.Dates}}
}

// Load reads resources, groups and bookings and validates the result.
func (m *Mongo) Load(ctx context.Context) (*booking.Dataset, error) {
	start := time.Now()
	ordered := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "id", Value: 1}})

	var ds booking.Dataset
	if err := findAll(ctx, m.resources, bson.M{}, &ds.Resources, ordered); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "load resources")
	}
	if err := findAll(ctx, m.groups, bson.M{}, &ds.Groups, ordered); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "load groups")
	}
	byTime := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}, {Key: "id", Value: 1}})
	if err := findAll(ctx, m.bookings, m.bookingFilter(), &ds.Bookings, byTime); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "load bookings")
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	m.logger.Debug("loaded dataset from mongo",
		"bookings", len(ds.Bookings),
		"resources", len(ds.Resources),
		"groups", len(ds.Groups),
		"took", time.Since(start))
	return &ds, nil
}

func findAll[T any](ctx context.Context, f finder, filter any, out *[]T, opts ...*options.FindOptions) error {
	cur, err := f.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	var docs []T
	if err := cur.All(ctx, &docs); err != nil {
		return err
	}
	*out = docs
	return nil
}

// Kind returns "mongo".
func (m *Mongo) Kind() string { return "mongo" }

// Ref returns "<database>/<collection>".
func (m *Mongo) Ref() string { return m.cfg.Database + "/" + m.cfg.Collection }

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

var _ Source = (*Mongo)(nil)
