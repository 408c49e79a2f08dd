package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap/zaptest"

	"github.com/linlinbupt123-crypto/lumos_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/lumos_service/errors"
)

const usersNS = "lumos.users"

func toDoc(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func sampleAccount() entity.Account {
	exp := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	return entity.Account{
		ID:                primitive.NewObjectID(),
		UID:               "u1",
		Email:             "a@x.com",
		UserType:          entity.PlanPro,
		RemainingRequests: 50,
		PlanExpDate:       &exp,
		FavPools: []entity.Pool{
			{Token0: "ETH", Token1: "USDC", Fee: 30, TickSpacing: 60, Token0LogoURL: "https://logos/eth.png"},
		},
		AddDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Version: 3,
	}
}

func badValue() bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "boom"})
}

func TestAccountRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("FindByUID round trips every field", func(mt *mtest.T) {
		repo := NewAccountRepo(mt.Coll, zaptest.NewLogger(mt))
		want := sampleAccount()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, toDoc(t, want)))

		got, err := repo.FindByUID(context.Background(), "u1")
		require.NoError(mt, err)
		require.NotNil(mt, got)
		assert.Equal(mt, want.ID, got.ID)
		assert.Equal(mt, want.UserType, got.UserType)
		assert.Equal(mt, want.RemainingRequests, got.RemainingRequests)
		require.NotNil(mt, got.PlanExpDate)
		assert.True(mt, want.PlanExpDate.Equal(*got.PlanExpDate))
		assert.Equal(mt, want.FavPools, got.FavPools)
		assert.Equal(mt, want.Version, got.Version)
	})

	mt.Run("FindByUID absent returns nil", func(mt *mtest.T) {
		repo := NewAccountRepo(mt.Coll, zaptest.NewLogger(mt))
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		got, err := repo.FindByUID(context.Background(), "missing")
		assert.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("FindByID store failure is typed", func(mt *mtest.T) {
		repo := NewAccountRepo(mt.Coll, zaptest.NewLogger(mt))
		mt.AddMockResponses(badValue())

		got, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.Nil(mt, got)
		assert.True(mt, wrapErrors.Is(err, wrapErrors.CodeStoreFailure))
	})

	mt.Run("FindByID malformed id is absent", func(mt *mtest.T) {
		repo := NewAccountRepo(mt.Coll, zaptest.NewLogger(mt))

		got, err := repo.FindByID(context.Background(), "not-an-object-id")
		assert.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("FindAll decodes batch", func(mt *mtest.T) {
		repo := NewAccountRepo(mt.Coll, zaptest.NewLogger(mt))
		a, b := sampleAccount(), sampleAccount()
		b.UID = "u2"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, toDoc(t, a), toDoc(t, b)))

		got, err := repo.FindAll(context.Background(), 100)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "u1", got[0].UID)
		assert.Equal(mt, "u2", got[1].UID)
	})

	mt.Run("Insert assigns id and add_date", func(mt *mtest.T) {
		repo := NewAccountRepo(mt.Coll, zaptest.NewLogger(mt))
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		a := &entity.Account{UID: "u1", Email: "a@x.com", UserType: entity.PlanFree, RemainingRequests: 10}
		id, err := repo.Insert(context.Background(), a)
		require.NoError(mt, err)
		assert.Equal(mt, a.ID.Hex(), id)
		assert.False(mt, a.AddDate.IsZero())
		assert.Zero(mt, a.Version)
	})

	mt.Run("Insert duplicate uId is a conflict", func(mt *mtest.T) {
		repo := NewAccountRepo(mt.Coll, zaptest.NewLogger(mt))
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: lumos.users index: uId_unique",
		}))

		_, err := repo.Insert(context.Background(), &entity.Account{UID: "u1"})
		assert.True(mt, wrapErrors.Is(err, wrapErrors.CodeConflict))
	})

	mt.Run("Update returns document after", func(mt *mtest.T) {
		repo := NewAccountRepo(mt.Coll, zaptest.NewLogger(mt))
		want := sampleAccount()
		want.Email = "new@x.com"
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(t, want)}))

		email := "new@x.com"
		got, err := repo.Update(context.Background(), want.ID.Hex(), entity.AccountPatch{Email: &email})
		require.NoError(mt, err)
		assert.Equal(mt, "new@x.com", got.Email)
	})

	mt.Run("Update no match is not found", func(mt *mtest.T) {
		repo := NewAccountRepo(mt.Coll, zaptest.NewLogger(mt))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		email := "new@x.com"
		_, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), entity.AccountPatch{Email: &email})
		assert.True(mt, wrapErrors.Is(err, wrapErrors.CodeNotFound))
	})

	mt.Run("SetPlan stale version is a version conflict", func(mt *mtest.T) {
		repo := NewAccountRepo(mt.Coll, zaptest.NewLogger(mt))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.SetPlan(context.Background(), primitive.NewObjectID().Hex(), 2, entity.PlanFree, 10, nil)
		assert.True(mt, wrapErrors.Is(err, wrapErrors.CodeVersionConflict))
	})

	mt.Run("SetFavPools writes set", func(mt *mtest.T) {
		repo := NewAccountRepo(mt.Coll, zaptest.NewLogger(mt))
		want := sampleAccount()
		want.Version = 4
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toDoc(t, want)}))

		got, err := repo.SetFavPools(context.Background(), want.ID.Hex(), 3, want.FavPools)
		require.NoError(mt, err)
		assert.Equal(mt, int64(4), got.Version)
		assert.Equal(mt, want.FavPools, got.FavPools)
	})

	mt.Run("DeleteByID reports removal", func(mt *mtest.T) {
		repo := NewAccountRepo(mt.Coll, zaptest.NewLogger(mt))
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		ok, err := repo.DeleteByID(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		assert.True(mt, ok)

		ok, err = repo.DeleteByID(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestVersionFilter(t *testing.T) {
	id := primitive.NewObjectID()

	assert.Equal(t, bson.M{"_id": id, "version": int64(5)}, versionFilter(id, 5))
	assert.Equal(t, bson.M{"_id": id, "version": bson.M{"$in": bson.A{int64(0), nil}}}, versionFilter(id, 0))
}
