package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/linlinbupt123-crypto/lumos_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/lumos_service/errors"
)

type AccountRepo struct {
	col *mongo.Collection
	op  storeOp
	now func() time.Time
}

func NewAccountRepo(col *mongo.Collection, log *zap.Logger) *AccountRepo {
	return &AccountRepo{
		col: col,
		op:  storeOp{log: log, collection: col.Name()},
		now: time.Now,
	}
}

// FindAll returns up to limit accounts, newest first.
func (r *AccountRepo) FindAll(ctx context.Context, limit int64) ([]*entity.Account, error) {
	opts := options.Find().SetSort(bson.D{{Key: "add_date", Value: -1}}).SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, r.op.fail("find", err)
	}
	defer cur.Close(ctx)

	out := make([]*entity.Account, 0)
	for cur.Next(ctx) {
		var a entity.Account
		if err := cur.Decode(&a); err != nil {
			r.op.log.Warn("skipping undecodable account", zap.Error(err))
			continue
		}
		out = append(out, &a)
	}
	if err := cur.Err(); err != nil {
		return nil, r.op.fail("find", err)
	}
	r.op.ok("find")
	return out, nil
}

func (r *AccountRepo) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, "findById", bson.M{"_id": oid})
}

func (r *AccountRepo) FindByUID(ctx context.Context, uid string) (*entity.Account, error) {
	return r.findOne(ctx, "findByUId", bson.M{"uId": uid})
}

func (r *AccountRepo) findOne(ctx context.Context, op string, filter bson.M) (*entity.Account, error) {
	var a entity.Account
	err := r.col.FindOne(ctx, filter).Decode(&a)
	if err == mongo.ErrNoDocuments {
		r.op.notFound(op)
		return nil, nil // 找不到返回 nil
	}
	if err != nil {
		return nil, r.op.fail(op, err)
	}
	r.op.ok(op)
	return &a, nil
}

// Insert stores a new account and returns its id. add_date and version are
// assigned here.
func (r *AccountRepo) Insert(ctx context.Context, a *entity.Account) (string, error) {
	a.AddDate = r.now().UTC()
	a.Version = 0
	res, err := r.col.InsertOne(ctx, a)
	if mongo.IsDuplicateKeyError(err) {
		return "", r.op.conflict("insert", wrapErrors.CodeConflict, err)
	}
	if err != nil {
		return "", r.op.fail("insert", err, zap.String("uId", a.UID))
	}
	r.op.ok("insert")
	id := insertedHex(res)
	if oid, ok := parseID(id); ok {
		a.ID = oid
	}
	return id, nil
}

func (r *AccountRepo) Update(ctx context.Context, id string, patch entity.AccountPatch) (*entity.Account, error) {
	oid, ok := parseID(id)
	if !ok {
		r.op.notFound("update")
		return nil, wrapErrors.New(wrapErrors.CodeNotFound, "users.update", "user not found")
	}
	set := bson.M{}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.UID != nil {
		set["uId"] = *patch.UID
	}
	if patch.FavPools != nil {
		set["ekubo_fav_pools"] = patch.FavPools
	}
	if patch.RemainingRequests != nil {
		set["remaining_requests"] = *patch.RemainingRequests
	}
	update := bson.M{"$inc": bson.M{"version": 1}}
	if len(set) > 0 {
		update["$set"] = set
	}
	return r.findOneAndUpdate(ctx, "update", bson.M{"_id": oid}, update, wrapErrors.CodeNotFound)
}

// SetPlan writes the plan triple only if the stored version still equals version.
func (r *AccountRepo) SetPlan(ctx context.Context, id string, version int64, plan entity.Plan, remaining int64, exp *time.Time) (*entity.Account, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, wrapErrors.New(wrapErrors.CodeNotFound, "users.setPlan", "user not found")
	}
	update := bson.M{
		"$set": bson.M{
			"user_type":          plan,
			"remaining_requests": remaining,
			"plan_exp_date":      exp,
		},
		"$inc": bson.M{"version": 1},
	}
	return r.findOneAndUpdate(ctx, "setPlan", versionFilter(oid, version), update, wrapErrors.CodeVersionConflict)
}

// SetFavPools replaces the favorite set only if the stored version still equals version.
func (r *AccountRepo) SetFavPools(ctx context.Context, id string, version int64, pools []entity.Pool) (*entity.Account, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, wrapErrors.New(wrapErrors.CodeNotFound, "users.setFavPools", "user not found")
	}
	if pools == nil {
		pools = []entity.Pool{}
	}
	update := bson.M{
		"$set": bson.M{"ekubo_fav_pools": pools},
		"$inc": bson.M{"version": 1},
	}
	return r.findOneAndUpdate(ctx, "setFavPools", versionFilter(oid, version), update, wrapErrors.CodeVersionConflict)
}

func (r *AccountRepo) findOneAndUpdate(ctx context.Context, op string, filter, update bson.M, missCode wrapErrors.Code) (*entity.Account, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var a entity.Account
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if missCode == wrapErrors.CodeNotFound {
			r.op.notFound(op)
			return nil, wrapErrors.New(missCode, "users."+op, "user not found")
		}
		return nil, r.op.conflict(op, missCode, err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, r.op.conflict(op, wrapErrors.CodeConflict, err)
	}
	if err != nil {
		return nil, r.op.fail(op, err)
	}
	r.op.ok(op)
	return &a, nil
}

// DeleteByID reports whether a document was removed.
func (r *AccountRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		r.op.notFound("delete")
		return false, nil
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, r.op.fail("delete", err)
	}
	if res.DeletedCount == 0 {
		r.op.notFound("delete")
		return false, nil
	}
	r.op.ok("delete")
	return true, nil
}
