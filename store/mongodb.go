package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
	log      *zap.Logger
	now      func() time.Time
}

// NewMongoDB connects and pings the server before returning, so a nil error
// means the handle is ready to serve requests.
func NewMongoDB(ctx context.Context, uri, dbName string, log *zap.Logger) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping")
	}
	log = log.Named("store")
	log.Info("connected to mongodb", zap.String("db", dbName))
	return &DB{
		Client:   client,
		Database: client.Database(dbName),
		log:      log,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}, nil
}

func (db *DB) Users() *mongo.Collection {
	return db.Database.Collection("users")
}

func (db *DB) Books() *mongo.Collection {
	return db.Database.Collection("books")
}

// EnsureIndexes creates the unique index on users.username.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	name, err := db.Users().Indexes().CreateOne(ctx, idx)
	if err != nil {
		return errors.Wrap(err, "users index")
	}
	db.log.Debug("index ready", zap.String("name", name))
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, nil)
}

func (db *DB) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}
