package database

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// DefaultMongoDatabase is used when the connection string names no database.
const DefaultMongoDatabase = "devevent"

// Collection names.
const (
	EventsCollection   = "events"
	BookingsCollection = "bookings"
)

// Driver identifies the store behind a connection string.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMongo    Driver = "mongo"
)

// DriverFor picks the store from the connection string scheme. Anything that
// is not a MongoDB URI, including an empty string, is treated as PostgreSQL.
func DriverFor(uri string) Driver {
	if strings.HasPrefix(uri, "mongodb://") || strings.HasPrefix(uri, "mongodb+srv://") {
		return DriverMongo
	}
	return DriverPostgres
}

// MongoDatabaseName returns the database named in the URI path. Host lists
// may hold several comma-separated hosts, so the path is cut out by hand.
func MongoDatabaseName(uri string) string {
	_, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return DefaultMongoDatabase
	}
	_, path, ok := strings.Cut(rest, "/")
	if !ok {
		return DefaultMongoDatabase
	}
	name, _, _ := strings.Cut(path, "?")
	if name == "" {
		return DefaultMongoDatabase
	}
	return name
}

// ConnectMongo connects with the shared pool settings, pings the primary and
// ensures the collection indexes.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(MaxPoolSize).
		SetMinPoolSize(MinPoolSize).
		SetServerSelectionTimeout(ServerSelectionTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(MongoDatabaseName(uri))
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return db, nil
}

// CloseMongo disconnects the client behind db.
func CloseMongo(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}

// EnsureIndexes creates the event and booking indexes if missing.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(EventsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "slug", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create event indexes: %w", err)
	}
	_, err = db.Collection(BookingsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "eventId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create booking indexes: %w", err)
	}
	return nil
}
