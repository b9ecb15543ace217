package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	ErrNotFound   = errors.New("store: not found")
	ErrEmailTaken = errors.New("store: email already registered")
	ErrDuplicate  = errors.New("store: duplicate document")
)

// Mongo wraps the client and database handle the collection stores share.
type Mongo struct {
	cli *mongo.Client
	db  *mongo.Database
}

// Connect dials MongoDB, pings the primary and ensures indexes.
func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	cli, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri).SetMaxPoolSize(10))
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(dialCtx, readpref.Primary()); err != nil {
		return nil, err
	}

	m := &Mongo{cli: cli, db: cli.Database(dbName)}
	if err := m.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	// One attendance mark per user per day per mandal.
	_, err = m.db.Collection("attendance").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user", Value: 1},
			{Key: "date", Value: 1},
			{Key: "mandal", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Database exposes the underlying handle for collection stores.
func (m *Mongo) Database() *mongo.Database { return m.db }

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.cli.Disconnect(ctx)
}

// isDuplicateKey reports whether err is a unique index violation. The driver
// helper covers write exceptions and the command errors findAndModify
// reports.
func isDuplicateKey(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}
