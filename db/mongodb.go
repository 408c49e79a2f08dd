package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/linlinbupt123-crypto/lumos_service/config"
)

const (
	UsersCollection     = "users"
	PositionsCollection = "positions"
	WaitlistCollection  = "waitlist"
)

type MongoRepo struct {
	Client       *mongo.Client
	DB           *mongo.Database
	UserColl     *mongo.Collection
	PositionColl *mongo.Collection
	WaitlistColl *mongo.Collection
	timeout      time.Duration
}

func NewMongoRepo(ctx context.Context, cfg config.MongoConfig) (*MongoRepo, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}
	// ping
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(ctx2, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return newMongoRepo(client, cfg.Database, timeout), nil
}

func newMongoRepo(client *mongo.Client, dbName string, timeout time.Duration) *MongoRepo {
	db := client.Database(dbName)
	return &MongoRepo{
		Client:       client,
		DB:           db,
		UserColl:     db.Collection(UsersCollection),
		PositionColl: db.Collection(PositionsCollection),
		WaitlistColl: db.Collection(WaitlistCollection),
		timeout:      timeout,
	}
}

// Ping checks that the primary is reachable.
func (m *MongoRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.Client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
