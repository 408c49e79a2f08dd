package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestRequiredIndexesUniqueKeys(t *testing.T) {
	unique := map[string]string{}
	for _, ci := range RequiredIndexes() {
		for _, idx := range ci.Indexes {
			if idx.Options != nil && idx.Options.Unique != nil && *idx.Options.Unique {
				keys, ok := idx.Keys.(bson.D)
				require.True(t, ok)
				unique[ci.Collection] = keys[0].Key
			}
		}
	}
	assert.Equal(t, map[string]string{
		UsersCollection:    "uId",
		WaitlistCollection: "email",
	}, unique)
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates every index", func(mt *mtest.T) {
		for _, ci := range RequiredIndexes() {
			for range ci.Indexes {
				mt.AddMockResponses(mtest.CreateSuccessResponse())
			}
		}
		assert.NoError(mt, EnsureIndexes(context.Background(), mt.DB))
	})

	mt.Run("ignores existing index", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    85,
			Name:    "IndexOptionsConflict",
			Message: "Index already exists with a different name",
		}))
		for i := 1; i < countIndexes(); i++ {
			mt.AddMockResponses(mtest.CreateSuccessResponse())
		}
		assert.NoError(mt, EnsureIndexes(context.Background(), mt.DB))
	})

	mt.Run("propagates other errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))
		err := EnsureIndexes(context.Background(), mt.DB)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), UsersCollection)
	})
}

func countIndexes() int {
	n := 0
	for _, ci := range RequiredIndexes() {
		n += len(ci.Indexes)
	}
	return n
}
