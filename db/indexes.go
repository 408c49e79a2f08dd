package db

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionIndexes is the index set required for one collection.
type CollectionIndexes struct {
	Collection string
	Indexes    []mongo.IndexModel
}

// RequiredIndexes lists every index the service relies on. The unique uId
// index is what makes account creation idempotent under concurrent requests.
func RequiredIndexes() []CollectionIndexes {
	return []CollectionIndexes{
		{
			Collection: UsersCollection,
			Indexes: []mongo.IndexModel{
				{Keys: bson.D{{Key: "uId", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uId_unique")},
				{Keys: bson.D{{Key: "add_date", Value: -1}}, Options: options.Index().SetName("add_date_desc")},
			},
		},
		{
			Collection: PositionsCollection,
			Indexes: []mongo.IndexModel{
				{Keys: bson.D{{Key: "uId", Value: 1}}, Options: options.Index().SetName("uId")},
				{Keys: bson.D{{Key: "add_date", Value: -1}}, Options: options.Index().SetName("add_date_desc")},
			},
		},
		{
			Collection: WaitlistCollection,
			Indexes: []mongo.IndexModel{
				{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")},
			},
		},
	}
}

// 安全创建索引函数
func createIndexSafe(ctx context.Context, col *mongo.Collection, index mongo.IndexModel) error {
	_, err := col.Indexes().CreateOne(ctx, index)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil // 忽略已存在索引
		}
		return err
	}
	return nil
}

// EnsureIndexes creates every index from RequiredIndexes on db.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, ci := range RequiredIndexes() {
		col := db.Collection(ci.Collection)
		for _, idx := range ci.Indexes {
			if err := createIndexSafe(ctx, col, idx); err != nil {
				return fmt.Errorf("%s index error: %w", ci.Collection, err)
			}
		}
	}
	return nil
}
